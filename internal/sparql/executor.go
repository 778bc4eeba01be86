// Package sparql implements the remote query executor boundary: the wire
// client for a SPARQL 1.1 protocol endpoint plus resilience and tracing
// decorators that wrap it.
package sparql

import (
	"context"
)

// Row is a single result binding row: variable name to bound value.
type Row map[string]string

// Executor abstracts the remote triple store. The graph service depends on
// this interface only, so tests substitute a double and decorators stack
// transparently.
type Executor interface {
	// Select runs a read query and returns its binding rows.
	Select(ctx context.Context, query string) ([]Row, error)

	// Update runs a mutation against the store.
	Update(ctx context.Context, update string) error
}
