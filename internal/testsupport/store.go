package testsupport

import (
	"context"
	"testing"

	"spyglass/internal/bookmarks"
	"spyglass/internal/config"
)

// MustOpenStore opens a bookmarks.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *bookmarks.Store {
	t.Helper()

	store, err := bookmarks.Open(cfg)
	if err != nil {
		t.Fatalf("bookmarks.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SaveBookmark creates a bookmark for tests using the provided store.
func SaveBookmark(t testing.TB, store *bookmarks.Store, name, identifier string) *bookmarks.Bookmark {
	t.Helper()

	bookmark, err := store.Save(context.Background(), name, identifier)
	if err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return bookmark
}
