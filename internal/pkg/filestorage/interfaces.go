package filestorage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidPath is returned for paths that are absolute or leave the storage root.
var ErrInvalidPath = errors.New("invalid storage path")

// BlobStorage stores opaque objects under slash-separated relative paths.
type BlobStorage interface {
	// Store writes r under path and returns the path the object was stored at,
	// which differs from path when an object already occupies it.
	Store(ctx context.Context, path string, r io.Reader) (string, error)

	// Delete removes the object; deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether an object is stored at path.
	Exists(ctx context.Context, path string) (bool, error)

	// URL returns the public address of a stored path.
	URL(path string) string
}
