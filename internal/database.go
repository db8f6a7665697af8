package internal

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// KV is a durable key/value store backed by a single SQLite table.
// Values are JSON blobs persisted under fixed, stable keys.
type KV struct {
	db *sql.DB
}

// OpenKV opens the key/value database at path, creating the schema if needed
func OpenKV(path string) (*KV, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Key: path, Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Key: path, Err: fmt.Errorf("database ping failed: %w", err)}
	}

	schema := `CREATE TABLE IF NOT EXISTS chatDiskKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Key: path, Err: err}
	}

	return &KV{db: db}, nil
}

// Get returns the value stored under key. The second return value is false
// when the key is absent.
func (kv *KV) Get(key string) (string, bool, error) {
	var value sql.NullString
	err := kv.db.QueryRow("SELECT value FROM chatDiskKV WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Op: "get", Key: key, Err: err}
	}
	if !value.Valid {
		return "", false, nil
	}
	return value.String, true, nil
}

// Put stores value under key, replacing any previous value
func (kv *KV) Put(key, value string) error {
	_, err := kv.db.Exec(
		"INSERT INTO chatDiskKV (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return &StorageError{Op: "put", Key: key, Err: err}
	}
	return nil
}

// Delete removes key from the store. Deleting an absent key is not an error.
func (kv *KV) Delete(key string) error {
	if _, err := kv.db.Exec("DELETE FROM chatDiskKV WHERE key = ?", key); err != nil {
		return &StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// Close closes the underlying database
func (kv *KV) Close() error {
	return kv.db.Close()
}
