package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/user/skyscan/internal/types"
)

const (
	partitionSecure  = "secure"
	partitionGeneral = "general"
)

// KV is a durable key-value store with two partitions: "secure" for
// credentials and "general" for cache and history. Both live in one
// SQLite file kept at mode 0600.
type KV struct {
	db *sql.DB
}

// OpenKV opens (or creates) the store at dir/skyscan.db and initializes
// the schema.
func OpenKV(ctx context.Context, dir string) (*KV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &types.StorageError{Op: "create data dir", Err: err}
	}

	path := filepath.Join(dir, "skyscan.db")

	// WAL mode allows readers alongside the single writer; busy_timeout
	// avoids spurious SQLITE_BUSY under concurrent access.
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &types.StorageError{Op: "open database", Err: err}
	}

	// SQLite supports only one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &types.StorageError{Op: "ping database", Err: err}
	}

	kv := &KV{db: db}
	if err := kv.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	// The secure partition holds the auth token.
	if err := os.Chmod(path, 0o600); err != nil {
		db.Close()
		return nil, &types.StorageError{Op: "restrict database permissions", Err: err}
	}

	return kv, nil
}

func (k *KV) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		partition  TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (partition, key)
	);`
	if _, err := k.db.ExecContext(ctx, schema); err != nil {
		return &types.StorageError{Op: "initialize schema", Err: err}
	}
	return nil
}

// Close closes the underlying database.
func (k *KV) Close() error {
	return k.db.Close()
}

func (k *KV) get(ctx context.Context, partition, key string) (string, bool, error) {
	var value string
	err := k.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE partition = ? AND key = ?`,
		partition, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, &types.StorageError{Op: fmt.Sprintf("get %s/%s", partition, key), Err: err}
	}
	return value, true, nil
}

func (k *KV) set(ctx context.Context, partition, key, value string) error {
	_, err := k.db.ExecContext(ctx,
		`INSERT INTO kv (partition, key, value, updated_at) VALUES (?, ?, ?, unixepoch())
		 ON CONFLICT (partition, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		partition, key, value,
	)
	if err != nil {
		return &types.StorageError{Op: fmt.Sprintf("set %s/%s", partition, key), Err: err}
	}
	return nil
}

func (k *KV) delete(ctx context.Context, partition, key string) error {
	_, err := k.db.ExecContext(ctx,
		`DELETE FROM kv WHERE partition = ? AND key = ?`,
		partition, key,
	)
	if err != nil {
		return &types.StorageError{Op: fmt.Sprintf("delete %s/%s", partition, key), Err: err}
	}
	return nil
}

// SecureGet reads one key from the secure partition. The second return is
// false when the key is absent.
func (k *KV) SecureGet(ctx context.Context, key string) (string, bool, error) {
	return k.get(ctx, partitionSecure, key)
}

// SecureSetAll writes all given secure keys in a single transaction, so a
// partial session is never persisted.
func (k *KV) SecureSetAll(ctx context.Context, fields map[string]string) error {
	tx, err := k.db.BeginTx(ctx, nil)
	if err != nil {
		return &types.StorageError{Op: "begin secure write", Err: err}
	}
	for key, value := range fields {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO kv (partition, key, value, updated_at) VALUES (?, ?, ?, unixepoch())
			 ON CONFLICT (partition, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			partitionSecure, key, value,
		); err != nil {
			tx.Rollback()
			return &types.StorageError{Op: "write secure key " + key, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &types.StorageError{Op: "commit secure write", Err: err}
	}
	return nil
}

// SecureDeleteAll removes the given secure keys. Missing keys are not an error.
func (k *KV) SecureDeleteAll(ctx context.Context, keys ...string) error {
	tx, err := k.db.BeginTx(ctx, nil)
	if err != nil {
		return &types.StorageError{Op: "begin secure delete", Err: err}
	}
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM kv WHERE partition = ? AND key = ?`,
			partitionSecure, key,
		); err != nil {
			tx.Rollback()
			return &types.StorageError{Op: "delete secure key " + key, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &types.StorageError{Op: "commit secure delete", Err: err}
	}
	return nil
}

// Get reads one key from the general partition.
func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	return k.get(ctx, partitionGeneral, key)
}

// Set writes one key in the general partition.
func (k *KV) Set(ctx context.Context, key, value string) error {
	return k.set(ctx, partitionGeneral, key, value)
}

// Delete removes one key from the general partition.
func (k *KV) Delete(ctx context.Context, key string) error {
	return k.delete(ctx, partitionGeneral, key)
}
