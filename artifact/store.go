package artifact

import (
	"context"
	"os"
)

// ErrNotFound is returned when an artifact does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for accessing immutable artifacts (snapshots,
// pipeline manifests). Artifacts are small enough to handle as whole values.
type Store interface {
	// Put writes an artifact atomically.
	Put(ctx context.Context, name string, data []byte) error

	// Open reads the full content of an artifact.
	Open(ctx context.Context, name string) ([]byte, error)

	// List returns all artifact names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes an artifact. Deleting a missing artifact is not an error.
	Delete(ctx context.Context, name string) error
}
