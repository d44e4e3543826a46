// Package generator builds random schemas, data and queries over the MySQL
// expression AST.
package generator

import (
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"diffsql/internal/config"
	"diffsql/internal/schema"
)

// Generator creates SQL statements based on schema state.
type Generator struct {
	Rand     *rand.Rand
	Config   config.Config
	State    *schema.State
	Seed     int64
	faker    *gofakeit.Faker
	tableSeq int
}

// New constructs a Generator with a seed. A zero seed picks one from the clock.
func New(cfg config.Config, state *schema.State, seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		Rand:   rand.New(rand.NewSource(seed)),
		Config: cfg,
		State:  state,
		Seed:   seed,
		faker:  gofakeit.New(seed),
	}
}

// NextTableName returns the next unused table name.
func (g *Generator) NextTableName() string {
	for {
		name := tableName(g.tableSeq)
		g.tableSeq++
		if _, ok := g.State.TableByName(name); !ok {
			return name
		}
	}
}

func (g *Generator) maxDepth() int {
	if g.Config.Generator.MaxDepth <= 0 {
		return 1
	}
	return g.Config.Generator.MaxDepth
}
