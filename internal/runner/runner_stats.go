package runner

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"diffsql/internal/oracle"
	"diffsql/internal/util"
)

type oracleCounters struct {
	rounds   int64
	failures int64
	errors   int64
}

type runStats struct {
	ddl      atomic.Int64
	dml      atomic.Int64
	rounds   atomic.Int64
	failures atomic.Int64
	skipped  atomic.Int64
	tables   atomic.Int64

	mu        sync.Mutex
	perOracle map[string]*oracleCounters
}

func (s *runStats) observe(name string, err error) {
	s.rounds.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.perOracle[name]
	if c == nil {
		c = &oracleCounters{}
		s.perOracle[name] = c
	}
	c.rounds++
	if err == nil {
		return
	}
	if _, ok := oracle.AsFailure(err); ok {
		c.failures++
	} else {
		c.errors++
	}
}

func (s *runStats) oracleLine() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.perOracle))
	for name := range s.perOracle {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		c := s.perOracle[name]
		parts = append(parts, fmt.Sprintf("%s=%d/%d/%d", name, c.rounds, c.failures, c.errors))
	}
	return strings.Join(parts, " ")
}

func (r *Runner) startStatsLogger() func() {
	interval := time.Duration(r.cfg.Logging.ReportIntervalSeconds) * time.Second
	if interval <= 0 {
		return func() {}
	}
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		var lastRounds, lastQueries int64
		for {
			select {
			case <-ticker.C:
				rounds := r.stats.rounds.Load()
				queries := r.session.QueryCount()
				util.Infof("stats rounds=%d(+%d) queries=%d(+%d) statements=%d tables=%d failures=%d skipped=%d",
					rounds, rounds-lastRounds, queries, queries-lastQueries,
					r.session.StatementCount(), r.stats.tables.Load(), r.stats.failures.Load(), r.stats.skipped.Load())
				util.Detailf("oracle rounds/failures/errors %s", r.stats.oracleLine())
				lastRounds, lastQueries = rounds, queries
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()
	return func() { close(done) }
}

func (r *Runner) logStats() {
	util.Infof("runner done rounds=%d queries=%d statements=%d ddl=%d dml=%d failures=%d skipped=%d oracles=[%s]",
		r.stats.rounds.Load(), r.session.QueryCount(), r.session.StatementCount(),
		r.stats.ddl.Load(), r.stats.dml.Load(), r.stats.failures.Load(), r.stats.skipped.Load(), r.stats.oracleLine())
}
