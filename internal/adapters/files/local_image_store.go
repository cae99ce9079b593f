package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"tour-guide-service/internal/ports"

	"github.com/google/uuid"
)

const (
	// MaxImageSize is the largest accepted upload, in bytes.
	MaxImageSize = 5 * 1024 * 1024
	// PublicPrefix is the URL path uploaded files are served under.
	PublicPrefix = "/Uploads/"
)

var (
	ErrUnsupportedExtension = errors.New("unsupported image extension")
	ErrTooLarge             = errors.New("image exceeds size limit")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// NormalizeExtension lower-cases ext and reports whether it is an accepted image type.
func NormalizeExtension(ext string) (string, bool) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	return ext, allowedExtensions[ext]
}

// LocalImageStore writes uploads to a directory under a random name.
type LocalImageStore struct {
	dir string
}

// NewLocalImageStore creates dir if needed.
func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("image store: create dir %q: %w", dir, err)
	}
	return &LocalImageStore{dir: dir}, nil
}

// Save stores at most MaxImageSize bytes from r and returns the public URL.
// A partially written file is removed on any failure.
func (s *LocalImageStore) Save(ctx context.Context, ext string, r io.Reader) (string, error) {
	ext, ok := NormalizeExtension(ext)
	if !ok {
		return "", fmt.Errorf("save image: %q: %w", ext, ErrUnsupportedExtension)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	name := uuid.NewString() + ext
	full := filepath.Join(s.dir, name)

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("save image: create file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, MaxImageSize+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		_ = os.Remove(full)
		return "", fmt.Errorf("save image: write: %w", err)
	case n > MaxImageSize:
		_ = os.Remove(full)
		return "", ErrTooLarge
	case closeErr != nil:
		_ = os.Remove(full)
		return "", fmt.Errorf("save image: close: %w", closeErr)
	}

	return path.Join(PublicPrefix, name), nil
}

var _ ports.ImageStore = (*LocalImageStore)(nil)
