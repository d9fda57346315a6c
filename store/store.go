// Package store persists MENACE matchbox tables.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"menace/menace"
)

var (
	// ErrNotFound is returned by Load when nothing has been saved yet.
	ErrNotFound = errors.New("no saved table")
	// ErrMalformed is returned by Load when the saved table is damaged:
	// missing fields, wrong types, negative counts or invalid actions.
	ErrMalformed = errors.New("malformed table")
)

// Store loads and saves whole tables. Save either replaces the previous
// table completely or leaves it untouched.
type Store interface {
	Load(ctx context.Context) (menace.Table, error)
	Save(ctx context.Context, table menace.Table) error
	Clear(ctx context.Context) error
	io.Closer
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the store for backend, rooted at path.
func Open(ctx context.Context, backend, path string) (Store, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(ctx, path)
	default:
		return nil, fmt.Errorf("unknown store backend %q (valid: %s, %s)", backend, BackendJSON, BackendSQLite)
	}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
