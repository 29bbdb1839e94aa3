package ports

import (
	"context"
	"io"
)

// ObjectStore keeps uploaded files and serves them from a public URL.
type ObjectStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (url string, err error)
	Remove(ctx context.Context, name string) error
}

// Thumbnailer renders a reduced copy of a raster image.
type Thumbnailer interface {
	Thumbnail(data []byte) (out []byte, contentType string, err error)
}
