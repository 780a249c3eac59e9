// Package naming builds collision-resistant names for ephemeral test
// entities (tables, tasks) created against a shared remote service.
package naming

import (
	"fmt"
	"math/rand"
	"time"
)

// MaxRandom is the inclusive upper bound of the random part of a suffix.
const MaxRandom = 10000

// Generator composes suffixes from a clock reading and a random draw.
type Generator struct {
	now  func() time.Time
	intn func(n int) int
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithRandom replaces the random source. intn must return a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(g *Generator) {
		if intn != nil {
			g.intn = intn
		}
	}
}

// New returns a Generator using the system clock and math/rand/v2 by default.
func New(opts ...Option) *Generator {
	g := &Generator{now: time.Now, intn: rand.Intn}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Suffix returns "_<unix millis>_<n>" with n uniform in [1, MaxRandom].
func (g *Generator) Suffix() string {
	return fmt.Sprintf("_%d_%d", g.now().UnixMilli(), g.intn(MaxRandom)+1)
}

// NameFor appends a fresh suffix to base.
func (g *Generator) NameFor(base string) string {
	return base + g.Suffix()
}

// TableName returns a unique name for a test table.
func (g *Generator) TableName(table string) string { return g.NameFor(table) }

// TaskName returns a unique name for a test task.
func (g *Generator) TaskName(task string) string { return g.NameFor(task) }

var defaultGenerator = New()

// Suffix uses the default generator.
func Suffix() string { return defaultGenerator.Suffix() }

// NameFor uses the default generator.
func NameFor(base string) string { return defaultGenerator.NameFor(base) }

// TableName uses the default generator.
func TableName(table string) string { return defaultGenerator.TableName(table) }

// TaskName uses the default generator.
func TaskName(task string) string { return defaultGenerator.TaskName(task) }
