// Package validator checks statements with the TiDB parser before they reach
// the system under test.
package validator

import (
	"sync"

	"github.com/pingcap/tidb/pkg/parser"
	_ "github.com/pingcap/tidb/pkg/types/parser_driver" // Register TiDB parser driver.
	"github.com/pkg/errors"
)

// Validator wraps the TiDB parser for SQL validation. It is safe for
// concurrent use.
type Validator struct {
	mu     sync.Mutex
	parser *parser.Parser
}

// New returns a Validator instance.
func New() *Validator {
	return &Validator{parser: parser.New()}
}

// Validate parses exactly one SQL statement and returns any syntax error.
func (v *Validator) Validate(sql string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	stmts, _, err := v.parser.Parse(sql, "", "")
	if err != nil {
		return err
	}
	if len(stmts) != 1 {
		return errors.Errorf("expected one statement, got %d", len(stmts))
	}
	return nil
}
