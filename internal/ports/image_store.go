package ports

import (
	"context"
	"io"
)

// Port: storage of uploaded images. Save returns the public relative URL.
type ImageStore interface {
	Save(ctx context.Context, ext string, r io.Reader) (url string, err error)
}
