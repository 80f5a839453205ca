package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"apidiff/internal/logging"
)

func setupTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "apidiff-storage-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	db, err := Open(tmpDir, logging.NewNopLogger())
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		t.Fatalf("Failed to open database: %v", err)
	}
	return db, tmpDir
}

func teardownTestDB(t *testing.T, db *DB, tmpDir string) {
	if err := db.Close(); err != nil {
		t.Errorf("Failed to close database: %v", err)
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		t.Errorf("Failed to remove temp dir: %v", err)
	}
}

func TestDatabaseInitialization(t *testing.T) {
	db, tmpDir := setupTestDB(t)
	defer teardownTestDB(t, db, tmpDir)

	dbPath := filepath.Join(tmpDir, DirName, "apidiff.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatalf("Database file was not created at %s", dbPath)
	}
	if db.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", db.Path(), dbPath)
	}

	version, err := db.getSchemaVersion()
	if err != nil {
		t.Fatalf("Failed to get schema version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("Expected schema version %d, got %d", currentSchemaVersion, version)
	}
}

func TestReopenRunsMigrations(t *testing.T) {
	db, tmpDir := setupTestDB(t)
	defer os.RemoveAll(tmpDir)

	// Simulate a database created before run history existed.
	if _, err := db.Exec("DROP TABLE changelog_runs"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 1"); err != nil {
		t.Fatalf("downgrade: %v", err)
	}
	_ = db.Close()

	reopened, err := Open(tmpDir, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	version, err := reopened.getSchemaVersion()
	if err != nil || version != currentSchemaVersion {
		t.Fatalf("version = %d, %v; want %d", version, err, currentSchemaVersion)
	}
	if err := reopened.RecordRun(&Run{RunID: "r1", CacheKey: "k", Format: "text"}); err != nil {
		t.Fatalf("runs table missing after migration: %v", err)
	}
}

func TestCache(t *testing.T) {
	db, tmpDir := setupTestDB(t)
	defer teardownTestDB(t, db, tmpDir)

	cache, err := NewCache(db)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	defer func() {
		if err := cache.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	t.Run("miss on empty cache", func(t *testing.T) {
		entry, found, err := cache.Get("nonexistent")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if found || entry != nil {
			t.Error("expected not found for nonexistent key")
		}
	})

	t.Run("set and get round trip", func(t *testing.T) {
		output := strings.Repeat("Changed the security of Property `Part.Size`\r\n", 50)
		id, err := cache.Set("key1", "text", output, 50, 300)
		if err != nil {
			t.Fatalf("Set: %v", err)
		}
		if id == "" {
			t.Fatal("Set returned empty id")
		}

		entry, found, err := cache.Get("key1")
		if err != nil || !found {
			t.Fatalf("Get: found=%v err=%v", found, err)
		}
		if entry.Output != output {
			t.Error("output did not survive compression round trip")
		}
		if entry.ID != id || entry.Format != "text" || entry.DiffCount != 50 {
			t.Errorf("unexpected entry: %+v", entry)
		}
	})

	t.Run("set replaces and reassigns id", func(t *testing.T) {
		first, _ := cache.Set("key2", "json", "{}", 0, 300)
		second, _ := cache.Set("key2", "json", "[]", 0, 300)
		if first == second {
			t.Error("expected a new id on overwrite")
		}
		entry, _, _ := cache.Get("key2")
		if entry == nil || entry.Output != "[]" {
			t.Errorf("expected replaced output, got %+v", entry)
		}
	})

	t.Run("expired entries miss", func(t *testing.T) {
		if _, err := cache.Set("stale", "text", "old", 1, -10); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if _, found, _ := cache.Get("stale"); found {
			t.Error("expired entry should not be returned")
		}
	})

	t.Run("invalidate", func(t *testing.T) {
		_, _ = cache.Set("key3", "text", "x", 1, 300)
		if err := cache.Invalidate("key3"); err != nil {
			t.Fatalf("Invalidate: %v", err)
		}
		if _, found, _ := cache.Get("key3"); found {
			t.Error("invalidated entry should be gone")
		}
	})
}

func TestCacheCleanupAndStats(t *testing.T) {
	db, tmpDir := setupTestDB(t)
	defer teardownTestDB(t, db, tmpDir)

	cache, err := NewCache(db)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	_, _ = cache.Set("live", "text", "a", 1, 300)
	_, _ = cache.Set("dead1", "text", "b", 1, -60)
	_, _ = cache.Set("dead2", "text", "c", 1, -60)

	removed, err := cache.CleanupExpiredEntries()
	if err != nil {
		t.Fatalf("CleanupExpiredEntries: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed %d entries, want 2", removed)
	}

	stats, err := cache.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 1 || stats.StoredBytes == 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	if err := cache.InvalidateAll(); err != nil {
		t.Fatalf("InvalidateAll: %v", err)
	}
	stats, _ = cache.Stats()
	if stats.Entries != 0 {
		t.Errorf("expected empty cache, got %d entries", stats.Entries)
	}
}

func TestRunHistory(t *testing.T) {
	db, tmpDir := setupTestDB(t)
	defer teardownTestDB(t, db, tmpDir)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		err := db.RecordRun(&Run{
			RunID:     id,
			CacheKey:  "key",
			Format:    "text",
			DiffCount: i,
			CacheHit:  i == 2,
			Duration:  time.Duration(i+1) * time.Millisecond,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("RecordRun(%s): %v", id, err)
		}
	}

	runs, err := db.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-c" || !runs[0].CacheHit || runs[0].DiffCount != 2 {
		t.Errorf("unexpected newest run: %+v", runs[0])
	}
	if runs[1].RunID != "run-b" || runs[1].Duration != 2*time.Millisecond {
		t.Errorf("unexpected second run: %+v", runs[1])
	}
	if !runs[0].CreatedAt.Equal(base.Add(2 * time.Second)) {
		t.Errorf("CreatedAt = %v", runs[0].CreatedAt)
	}
}
