// Package records defines the small contracts the assertion helpers use to
// talk about persisted records without depending on a storage layer.
package records

import (
	"context"
	"errors"
)

// ErrNotFound is returned (possibly wrapped) by a Reloader whose record no
// longer exists.
var ErrNotFound = errors.New("record not found")

// Reloader re-reads a record from its store.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloaderFunc adapts a function to Reloader.
type ReloaderFunc func(ctx context.Context) error

func (f ReloaderFunc) Reload(ctx context.Context) error { return f(ctx) }

// Scope is a named subset of records, evaluated fresh on every call.
type Scope interface {
	Contains(ctx context.Context, record any) (bool, error)
}

// ScopeFunc adapts a function to Scope.
type ScopeFunc func(ctx context.Context, record any) (bool, error)

func (f ScopeFunc) Contains(ctx context.Context, record any) (bool, error) { return f(ctx, record) }

// Counter counts records, typically rows of a table.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// CounterFunc adapts a function to Counter.
type CounterFunc func(ctx context.Context) (int, error)

func (f CounterFunc) Count(ctx context.Context) (int, error) { return f(ctx) }
