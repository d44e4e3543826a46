// Package refengine provides reference SQL engines that replay a statement
// block from an empty state and return the final query's result.
package refengine

import (
	"context"
	"fmt"
	"strings"

	"diffsql/internal/config"
)

// Engine creates isolated reference instances.
type Engine interface {
	Name() string
	// Open starts a fresh instance with no tables. Errors here are harness
	// problems, not query failures.
	Open(ctx context.Context) (Instance, error)
}

// Instance is one reference engine instance. It is not safe for concurrent use.
type Instance interface {
	// Execute runs every statement of block in order and returns the result
	// of the last one.
	Execute(ctx context.Context, block string) (*Table, error)
	Close() error
}

// SpeaksMySQL reports whether e accepts the full MySQL operator set.
func SpeaksMySQL(e Engine) bool {
	return e.Name() == "mysql"
}

// New builds the engine named in cfg.
func New(cfg config.ReferenceConfig) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Engine)) {
	case "", "sqlite":
		return NewSQLite(), nil
	case "duckdb":
		return NewDuckDB(), nil
	case "mysql":
		if strings.TrimSpace(cfg.DSN) == "" {
			return nil, fmt.Errorf("reference engine mysql requires reference.dsn")
		}
		return NewMySQL(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unknown reference engine %q", cfg.Engine)
	}
}
