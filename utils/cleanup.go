package utils

import (
	"context"
	"log"

	"github.com/meridaco/catalogbackend/models"
	"github.com/meridaco/catalogbackend/storage"
)

// CleanupReplacedImage deletes the previously stored image object after an
// update swapped it for a new URL. It only fires when both URLs are non-empty
// and differ; create paths never call it. Failures are logged and swallowed:
// the database write has already committed and stale objects in the bucket
// are an accepted cleanup gap.
func CleanupReplacedImage(ctx context.Context, store storage.ObjectStore, oldURL, newURL string) {
	if oldURL == "" || newURL == "" || oldURL == newURL {
		return
	}
	deleteObjectBestEffort(ctx, store, oldURL)
}

// CleanupImageURLs best-effort deletes every non-empty URL's object. Used on
// entity delete, after the document is gone.
func CleanupImageURLs(ctx context.Context, store storage.ObjectStore, urls []string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		deleteObjectBestEffort(ctx, store, u)
	}
}

func deleteObjectBestEffort(ctx context.Context, store storage.ObjectStore, publicURL string) {
	key, err := store.KeyFromURL(publicURL)
	if err != nil {
		log.Printf("skipping cleanup of unparseable image url %q: %v", publicURL, err)
		return
	}
	if err := store.Delete(ctx, key); err != nil {
		cleanupErr := &models.StorageCleanupError{Key: key, Err: err}
		log.Println(cleanupErr.Error())
	}
}
