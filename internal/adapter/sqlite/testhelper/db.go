// Package testhelper opens throwaway local stores for tests.
package testhelper

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/heartmarshall/wordsync-backend/internal/adapter/sqlite"
	"github.com/heartmarshall/wordsync-backend/internal/config"
)

// SetupTestDB opens a migrated SQLite store in a fresh temp directory.
// The handle is closed via t.Cleanup.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return OpenAt(t, filepath.Join(t.TempDir(), "words.db"))
}

// OpenAt opens a migrated SQLite store at path, which may already exist.
// Use it to simulate a process restart on the same file.
func OpenAt(t *testing.T, path string) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := sqlite.Open(ctx, config.StoreConfig{Path: path, BusyTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("testhelper: open store: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}
