package objectstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when the key does not exist.
var ErrNotFound = errors.New("objectstore: not found")

// Store archives uploaded syllabus files under flat keys such as
// "syllabus/<document id>.pdf".
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
