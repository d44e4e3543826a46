// Package runner drives the fuzz loop: it grows a schema on the system under
// test, runs oracles against it and turns failures into cases.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/ratelimit"

	"diffsql/internal/config"
	"diffsql/internal/db"
	"diffsql/internal/generator"
	"diffsql/internal/oracle"
	"diffsql/internal/refengine"
	"diffsql/internal/report"
	"diffsql/internal/resultset"
	"diffsql/internal/runinfo"
	"diffsql/internal/schema"
	"diffsql/internal/session"
	"diffsql/internal/uploader"
	"diffsql/internal/util"
	"diffsql/internal/validator"
)

const (
	initialTables = 2
	dataDumpRows  = 50
)

// Action indexes for weighted picks.
const (
	actionDDL = iota
	actionDML
	actionQuery
)

// Runner orchestrates fuzzing, execution, and reporting for one worker.
type Runner struct {
	cfg       config.Config
	exec      *db.DB
	session   *session.Session
	gen       *generator.Generator
	state     *schema.State
	validator *validator.Validator
	reporter  *report.Reporter
	uploader  uploader.Uploader
	engine    refengine.Engine
	mode      resultset.Mode
	limiter   ratelimit.Limiter

	oracles       []oracle.Oracle
	oracleWeights []int

	runInfo *runinfo.Info
	stats   runStats
}

// New constructs a Runner for the given config and SUT pool.
func New(cfg config.Config, exec *db.DB) (*Runner, error) {
	mode, err := resultset.ParseMode(cfg.Reference.CompareMode)
	if err != nil {
		return nil, err
	}
	engine, err := refengine.New(cfg.Reference)
	if err != nil {
		return nil, err
	}
	up, err := uploader.New(cfg.Storage)
	if err != nil {
		return nil, err
	}
	state := &schema.State{}
	gen := generator.New(cfg, state, cfg.Seed)
	v := validator.New()
	sess := session.New(exec, time.Duration(cfg.StatementTimeoutMs)*time.Millisecond)
	sess.Validate = v.Validate

	reporter := report.New(cfg.Report.OutputDir, dataDumpRows)
	reporter.UseUUIDPath = cfg.Report.UseUUIDPath

	limiter := ratelimit.NewUnlimited()
	if cfg.RoundsPerSecond > 0 {
		limiter = ratelimit.New(cfg.RoundsPerSecond)
	}

	r := &Runner{
		cfg:       cfg,
		exec:      exec,
		session:   sess,
		gen:       gen,
		state:     state,
		validator: v,
		reporter:  reporter,
		uploader:  up,
		engine:    engine,
		mode:      mode,
		limiter:   limiter,
		runInfo:   runinfo.FromEnv(),
	}
	r.stats.perOracle = make(map[string]*oracleCounters)
	r.oracles = []oracle.Oracle{
		oracle.NewReference(sess, gen, engine, mode, gen.Seed),
		oracle.NewNoREC(sess, gen),
	}
	r.oracleWeights = []int{cfg.Weights.Oracles.Reference, cfg.Weights.Oracles.NoREC}
	return r, nil
}

// Session exposes the SUT session, mostly for tests and the repro tool.
func (r *Runner) Session() *session.Session { return r.session }

// Run executes the fuzz loop until iterations are exhausted, the context is
// cancelled or a harness error occurs.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.session.Pin(ctx); err != nil {
		return err
	}
	defer util.CloseWithErr(r.session, "session")
	stop := r.startStatsLogger()
	defer stop()

	util.Infof("runner start database=%s iterations=%d reference=%s compare=%s seed=%d",
		r.cfg.Database, r.cfg.Iterations, r.engine.Name(), r.mode, r.gen.Seed)
	if r.runInfo != nil {
		util.Detailf("run info provider=%s commit=%s run_id=%s", r.runInfo.Provider, r.runInfo.Commit, r.runInfo.RunID)
	}
	if err := r.setupDatabase(ctx); err != nil {
		return err
	}
	if err := r.initState(ctx); err != nil {
		return err
	}
	for i := 0; i < r.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.limiter.Take()
		if err := r.step(ctx); err != nil {
			return err
		}
	}
	r.logStats()
	return nil
}

func (r *Runner) step(ctx context.Context) error {
	switch r.pickAction() {
	case actionDDL:
		r.runDDL(ctx)
	case actionDML:
		r.runDML(ctx)
	default:
		return r.runQuery(ctx)
	}
	return nil
}

func (r *Runner) pickAction() int {
	weights := r.cfg.Weights.Actions
	return util.PickWeighted(r.gen.Rand, []int{weights.DDL, weights.DML, weights.Query})
}

// setupDatabase recreates the fuzz database through the session so the
// statements are part of the history.
func (r *Runner) setupDatabase(ctx context.Context) error {
	for _, stmt := range []string{
		fmt.Sprintf("DROP DATABASE IF EXISTS %s", r.cfg.Database),
		fmt.Sprintf("CREATE DATABASE %s", r.cfg.Database),
		fmt.Sprintf("USE %s", r.cfg.Database),
	} {
		if err := r.session.ExecuteStatement(ctx, stmt); err != nil {
			return errors.Wrapf(err, "setup database %s", r.cfg.Database)
		}
	}
	return nil
}

func (r *Runner) initState(ctx context.Context) error {
	r.state.Reset()
	for i := 0; i < min(initialTables, r.cfg.MaxTables); i++ {
		tbl := r.gen.GenerateTable()
		if err := r.execSQL(ctx, r.gen.CreateTableSQL(tbl)); err != nil {
			if isSkippable(err) {
				continue
			}
			return err
		}
		added := r.state.Add(tbl)
		r.stats.tables.Store(int64(len(r.state.Tables)))
		for j := 0; j < max(1, r.cfg.MaxRowsPerTable/5) && r.gen.CanInsert(added); j++ {
			if err := r.insertRows(ctx, added); err != nil && !isSkippable(err) {
				return err
			}
		}
	}
	if !r.state.HasTables() {
		return errors.New("no table could be created")
	}
	return nil
}

func (r *Runner) runDDL(ctx context.Context) {
	if len(r.state.Tables) >= r.cfg.MaxTables {
		return
	}
	tbl := r.gen.GenerateTable()
	if err := r.execSQL(ctx, r.gen.CreateTableSQL(tbl)); err != nil {
		return
	}
	r.state.Add(tbl)
	r.stats.tables.Store(int64(len(r.state.Tables)))
	r.stats.ddl.Add(1)
}

func (r *Runner) runDML(ctx context.Context) {
	if !r.state.HasTables() {
		return
	}
	tbl := &r.state.Tables[r.gen.Rand.Intn(len(r.state.Tables))]
	if !r.gen.CanInsert(tbl) {
		return
	}
	if err := r.insertRows(ctx, tbl); err == nil {
		r.stats.dml.Add(1)
	}
}

// insertRows fills tbl and counts the rows only when the server accepted them.
func (r *Runner) insertRows(ctx context.Context, tbl *schema.Table) error {
	stmt, rows := r.gen.InsertSQL(*tbl)
	if err := r.execSQL(ctx, stmt); err != nil {
		return err
	}
	tbl.NextID += rows
	return nil
}

func (r *Runner) runQuery(ctx context.Context) error {
	idx := util.PickWeighted(r.gen.Rand, r.oracleWeights)
	o := r.oracles[idx]
	err := o.Check(ctx)
	r.stats.observe(o.Name(), err)
	if err == nil {
		return nil
	}
	if f, ok := oracle.AsFailure(err); ok {
		if !r.shouldReport(f) {
			return nil
		}
		r.handleFailure(ctx, f)
		return nil
	}
	return errors.Wrapf(err, "oracle %s", o.Name())
}

// execSQL runs a state-changing statement and logs why it failed.
func (r *Runner) execSQL(ctx context.Context, sqlText string) error {
	err := r.session.ExecuteStatement(ctx, sqlText)
	if err != nil {
		logStatementError(sqlText, err)
	}
	return err
}
