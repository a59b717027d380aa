package storage

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectStore is the object-storage boundary. Implementations upload under a
// key, delete by key, and can recover the key from the public URL they handed
// out. The catalog treats the store as an opaque collaborator; deletes in
// particular are always best-effort from the caller's perspective.
type ObjectStore interface {
	Upload(ctx context.Context, key string, file *multipart.FileHeader) (publicURL string, err error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(raw string) (string, error)
}

// New selects a backend from STORAGE_BACKEND ("r2" or "gcs", default "r2").
func New(ctx context.Context) (ObjectStore, error) {
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_BACKEND")))
	switch backend {
	case "", "r2":
		return NewR2Store(ctx)
	case "gcs":
		return NewGCSStore(ctx)
	}
	return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", backend)
}

// ImageKey builds a unique object name like
// "products/<slug>/1700000000-<uuid>.png".
func ImageKey(prefix, slug, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("%s/%s/%d-%s%s", prefix, slug, time.Now().UTC().Unix(), uuid.New().String(), ext)
}

// UploadImages uploads each file part in submission order and returns the
// public URLs in the same order, so callers can assign image positions from
// the index.
func UploadImages(ctx context.Context, store ObjectStore, prefix, slug string, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		key := ImageKey(prefix, slug, fh.Filename)
		url, err := store.Upload(ctx, key, fh)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", fh.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func contentTypeFor(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename)))
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	return ct
}
