package naming

import (
	"errors"
	"fmt"
)

const defaultAttempts = 5

// ErrNamesExhausted is returned when every drawn name was already claimed.
var ErrNamesExhausted = errors.New("no unclaimed name found")

// Ledger records names handed out to test runs.
type Ledger interface {
	// Claim records name and reports whether it was not claimed before.
	Claim(name string) (bool, error)
}

// Reserver draws names until the ledger accepts one.
type Reserver struct {
	gen      *Generator
	ledger   Ledger
	attempts int
}

// NewReserver wires a generator to a ledger. attempts <= 0 uses the default.
func NewReserver(gen *Generator, ledger Ledger, attempts int) *Reserver {
	if gen == nil {
		gen = defaultGenerator
	}
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	return &Reserver{gen: gen, ledger: ledger, attempts: attempts}
}

// Reserve returns base plus a suffix no earlier Reserve call on the same
// ledger has returned.
func (r *Reserver) Reserve(base string) (string, error) {
	if r.ledger == nil {
		return r.gen.NameFor(base), nil
	}
	for i := 0; i < r.attempts; i++ {
		name := r.gen.NameFor(base)
		ok, err := r.ledger.Claim(name)
		if err != nil {
			return "", fmt.Errorf("claim name %q: %w", name, err)
		}
		if ok {
			return name, nil
		}
	}
	return "", fmt.Errorf("reserve %q after %d attempts: %w", base, r.attempts, ErrNamesExhausted)
}
