// Package storage abstracts where uploaded document bytes live.
package storage

import (
	"context"
	"io"
)

// ObjectStore persists raw uploaded bytes under opaque keys. Keys are
// generated by the upload validator and never derived from client
// filenames.
type ObjectStore interface {
	// Put writes the full reader under key and returns the byte count.
	// Implementations must not leave partial objects visible on failure.
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	// Open returns a reader over the stored bytes.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object. Deleting a missing object is not an
	// error; metadata and storage converge on delete.
	Delete(ctx context.Context, key string) error
}
