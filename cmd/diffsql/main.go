package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"gopkg.in/yaml.v3"

	"diffsql/internal/config"
	"diffsql/internal/db"
	"diffsql/internal/runner"
	"diffsql/internal/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	closer, err := util.SetupLogging(util.LogOptions{
		Verbose:    cfg.Logging.Verbose,
		File:       cfg.Logging.LogFile,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer util.CloseWithErr(closer, "log file")

	util.Infof("starting diffsql with %d worker(s)", cfg.Workers)
	if data, err := yaml.Marshal(&cfg); err == nil {
		util.Highlightf("config:\n%s", string(data))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			if err := runWorker(ctx, cfg, worker); err != nil {
				errCh <- fmt.Errorf("worker %d: %w", worker, err)
			}
		}(i)
	}
	wg.Wait()
	close(errCh)
	failed := false
	for err := range errCh {
		if ctx.Err() != nil {
			continue
		}
		util.Errorf("run failed: %v", err)
		failed = true
	}
	if failed {
		util.CloseWithErr(closer, "log file")
		os.Exit(1)
	}
}

// runWorker gives each worker its own database and seed so workers never
// share state.
func runWorker(ctx context.Context, cfg config.Config, worker int) error {
	workerCfg := cfg
	if cfg.Workers > 1 {
		workerCfg.Database = fmt.Sprintf("%s_w%d", cfg.Database, worker)
		workerCfg.DSN = config.UpdateDatabaseInDSN(cfg.DSN, workerCfg.Database)
		if cfg.Seed != 0 {
			workerCfg.Seed = cfg.Seed + int64(worker)
		}
	}
	if err := db.EnsureDatabase(ctx, workerCfg.DSN, workerCfg.Database); err != nil {
		return err
	}
	exec, err := db.Open(workerCfg.DSN)
	if err != nil {
		return err
	}
	defer util.CloseWithErr(exec, "db exec")
	util.Infof("worker %d using database %s", worker, workerCfg.Database)
	r, err := runner.New(workerCfg, exec)
	if err != nil {
		return err
	}
	return r.Run(ctx)
}
