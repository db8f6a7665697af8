package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateKVFixture creates a chat database fixture pre-populated with the
// given key/value records
func CreateKVFixture(t *testing.T, dbPath string, records map[string]string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS chatDiskKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	for key, value := range records {
		if _, err := db.Exec("INSERT INTO chatDiskKV (key, value) VALUES (?, ?)", key, value); err != nil {
			t.Fatalf("Failed to insert record %s: %v", key, err)
		}
	}
}

// ReadKVValue reads a raw value back out of a chat database fixture
func ReadKVValue(t *testing.T, dbPath, key string) (string, bool) {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	var value string
	err = db.QueryRow("SELECT value FROM chatDiskKV WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		t.Fatalf("Failed to read record %s: %v", key, err)
	}
	return value, true
}
