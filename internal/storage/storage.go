package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage persists the names handed out to test runs.

// Store records claimed test-entity names until they expire.
type Store interface {
	Close() error
	// Claimed reports whether name holds an unexpired claim.
	Claimed(name string) (bool, error)
	// Claim records name and reports whether it was free. An existing
	// unexpired claim is left untouched.
	Claim(name string) (bool, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	NameTTL         time.Duration
	CleanupInterval time.Duration
}

const (
	defaultNameTTL         = 24 * time.Hour
	defaultCleanupInterval = time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.NameTTL <= 0 {
		opts.NameTTL = defaultNameTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// noopStore accepts every claim and remembers nothing.
type noopStore struct{}

func (noopStore) Close() error                 { return nil }
func (noopStore) Claimed(string) (bool, error) { return false, nil }
func (noopStore) Claim(string) (bool, error)   { return true, nil }
