package oracle

import (
	"context"
	"errors"

	"diffsql/internal/ast/mysql"
	"diffsql/internal/refengine"
	"diffsql/internal/resultset"
)

type fakeSession struct {
	history []string
	results map[string]resultset.Column
	errs    map[string]error
	queries []string
	counter int
}

func (s *fakeSession) History() []string {
	return append([]string(nil), s.history...)
}

func (s *fakeSession) QueryFirstColumn(_ context.Context, query string) (resultset.Column, error) {
	s.queries = append(s.queries, query)
	if err := s.errs[query]; err != nil {
		return nil, err
	}
	s.counter++
	return s.results[query], nil
}

type fakeGenerator struct {
	query *mysql.Select
	sizes []int
}

func (g *fakeGenerator) GenerateQuery(size int) *mysql.Select {
	g.sizes = append(g.sizes, size)
	return g.query
}

type fakeEngine struct {
	name      string
	openErr   error
	table     *refengine.Table
	execErr   error
	opened    int
	instances []*fakeInstance
}

func (e *fakeEngine) Name() string {
	if e.name == "" {
		return "fake"
	}
	return e.name
}

func (e *fakeEngine) Open(context.Context) (refengine.Instance, error) {
	if e.openErr != nil {
		return nil, e.openErr
	}
	e.opened++
	inst := &fakeInstance{table: e.table, err: e.execErr}
	e.instances = append(e.instances, inst)
	return inst, nil
}

type fakeInstance struct {
	table  *refengine.Table
	err    error
	blocks []string
	closed bool
}

func (i *fakeInstance) Execute(_ context.Context, block string) (*refengine.Table, error) {
	i.blocks = append(i.blocks, block)
	if i.err != nil {
		return nil, i.err
	}
	return i.table, nil
}

func (i *fakeInstance) Close() error {
	i.closed = true
	return nil
}

var errBoom = errors.New("boom")

func selectC0() *mysql.Select {
	return &mysql.Select{
		Fetch: []mysql.Expression{mysql.ColumnReference{Table: "t0", Name: "c0"}},
		From:  []string{"t0"},
	}
}
