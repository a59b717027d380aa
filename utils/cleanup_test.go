package utils

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"
)

// fakeStore records delete calls and can be told to fail them.
type fakeStore struct {
	deleted   []string
	failAll   bool
	uploadURL string
}

func (f *fakeStore) Upload(ctx context.Context, key string, fh *multipart.FileHeader) (string, error) {
	return f.uploadURL, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	if f.failAll {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeStore) KeyFromURL(raw string) (string, error) {
	const prefix = "https://cdn.example.com/bucket/"
	if !strings.HasPrefix(raw, prefix) {
		return "", errors.New("not a public url")
	}
	return strings.TrimPrefix(raw, prefix), nil
}

func TestCleanupReplacedImage(t *testing.T) {
	const (
		urlA = "https://cdn.example.com/bucket/categories/chairs/1-a.png"
		urlB = "https://cdn.example.com/bucket/categories/chairs/2-b.png"
	)

	t.Run("different urls delete the old key once", func(t *testing.T) {
		store := &fakeStore{}
		CleanupReplacedImage(context.Background(), store, urlA, urlB)
		if len(store.deleted) != 1 {
			t.Fatalf("expected 1 delete, got %d", len(store.deleted))
		}
		if store.deleted[0] != "categories/chairs/1-a.png" {
			t.Fatalf("deleted wrong key: %s", store.deleted[0])
		}
	})

	t.Run("same url deletes nothing", func(t *testing.T) {
		store := &fakeStore{}
		CleanupReplacedImage(context.Background(), store, urlA, urlA)
		if len(store.deleted) != 0 {
			t.Fatalf("expected 0 deletes, got %d", len(store.deleted))
		}
	})

	t.Run("no previous image deletes nothing", func(t *testing.T) {
		store := &fakeStore{}
		CleanupReplacedImage(context.Background(), store, "", urlB)
		if len(store.deleted) != 0 {
			t.Fatalf("expected 0 deletes, got %d", len(store.deleted))
		}
	})

	t.Run("clearing the image deletes nothing", func(t *testing.T) {
		store := &fakeStore{}
		CleanupReplacedImage(context.Background(), store, urlA, "")
		if len(store.deleted) != 0 {
			t.Fatalf("expected 0 deletes, got %d", len(store.deleted))
		}
	})

	t.Run("delete failure is swallowed", func(t *testing.T) {
		store := &fakeStore{failAll: true}
		// must not panic or propagate
		CleanupReplacedImage(context.Background(), store, urlA, urlB)
		if len(store.deleted) != 1 {
			t.Fatalf("expected the delete to be attempted once")
		}
	})
}

func TestCleanupImageURLs(t *testing.T) {
	urls := []string{
		"https://cdn.example.com/bucket/categories/a.png",
		"",
		"https://cdn.example.com/bucket/categories/b.png",
		"not-a-public-url",
		"https://cdn.example.com/bucket/categories/c.png",
	}

	store := &fakeStore{failAll: true}
	CleanupImageURLs(context.Background(), store, urls)

	// Three parseable non-empty urls, each attempted exactly once even though
	// every delete fails.
	if len(store.deleted) != 3 {
		t.Fatalf("expected 3 delete attempts, got %d: %v", len(store.deleted), store.deleted)
	}
}
