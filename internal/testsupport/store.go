package testsupport

import (
	"context"
	"testing"

	"lyricalign/internal/aligncache"
	"lyricalign/internal/config"
)

// MustOpenCache opens the alignment cache for tests and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *aligncache.Store {
	t.Helper()

	store, err := aligncache.Open(context.Background(), cfg.Cache.Path)
	if err != nil {
		t.Fatalf("aligncache.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
