package storage

import (
	"strings"
	"testing"
)

func TestR2KeyFromURL(t *testing.T) {
	store := &R2Store{Bucket: "catalog", PublicDomain: "https://files.example.com"}

	key, err := store.KeyFromURL("https://files.example.com/catalog/products/oak-table/1-a.png")
	if err != nil {
		t.Fatal(err)
	}
	if key != "products/oak-table/1-a.png" {
		t.Fatalf("key = %q", key)
	}

	// r2.dev style falls back to stripping scheme and host
	key, err = store.KeyFromURL("https://catalog.abc123.r2.dev/products/oak-table/1-a.png")
	if err != nil {
		t.Fatal(err)
	}
	if key != "products/oak-table/1-a.png" {
		t.Fatalf("key = %q", key)
	}

	if _, err := store.KeyFromURL("ftp://weird"); err == nil {
		t.Fatal("expected error for unrecognised url")
	}
	if _, err := store.KeyFromURL("https://no-path"); err == nil {
		t.Fatal("expected error for url without object path")
	}
}

func TestGCSKeyFromURL(t *testing.T) {
	store := &GCSStore{Bucket: "catalog"}

	key, err := store.KeyFromURL("https://storage.googleapis.com/catalog/products/oak-table/1-a.png")
	if err != nil {
		t.Fatal(err)
	}
	if key != "products/oak-table/1-a.png" {
		t.Fatalf("key = %q", key)
	}

	key, err = store.KeyFromURL("https://catalog.storage.googleapis.com/products/oak-table/1-a.png")
	if err != nil {
		t.Fatal(err)
	}
	if key != "products/oak-table/1-a.png" {
		t.Fatalf("key = %q", key)
	}

	if _, err := store.KeyFromURL("https://storage.googleapis.com/otherbucket/obj"); err == nil {
		t.Fatal("expected bucket mismatch error")
	}
}

func TestImageKey(t *testing.T) {
	key := ImageKey("products", "oak-table", "Front Photo.PNG")
	if !strings.HasPrefix(key, "products/oak-table/") {
		t.Fatalf("key = %q", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Fatalf("extension not normalized: %q", key)
	}

	if !strings.HasSuffix(ImageKey("products", "x", "noext"), ".bin") {
		t.Fatal("missing extension must fall back to .bin")
	}

	// unique per call
	if ImageKey("p", "s", "a.png") == ImageKey("p", "s", "a.png") {
		t.Fatal("keys must be unique")
	}
}
