package storage

import (
	"context"
	"io"
)

// ObjectStore abstracts where uploaded attachments live. Drivers: GCS for
// deployments, local disk for development.
type ObjectStore interface {
	// Put stores the object and returns a URL or path it can be served from.
	Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	// Open returns a reader for a previously stored object.
	Open(ctx context.Context, objectPath string) (io.ReadCloser, error)
	// Delete removes the object. Missing objects are not an error.
	Delete(ctx context.Context, objectPath string) error
}
