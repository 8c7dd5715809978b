package media

import (
	"context"
	"io"
)

// Store uploads binary media and returns a publicly reachable URL.
// Profile images for users and doctors go through it; the storage backend
// is opaque to callers.
type Store interface {
	Upload(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error)
}
