package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/oops"
	_ "modernc.org/sqlite"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);`

type kvRow struct {
	Key       string `db:"key"`
	Value     string `db:"value"`
	UpdatedAt int64  `db:"updated_at"`
}

// SQLiteStore keeps values in a single kv table
type SQLiteStore struct {
	db       *sqlx.DB
	maxBytes int
}

// OpenSQLite opens or creates the database at path
func OpenSQLite(ctx context.Context, path string, maxBytes int) (*SQLiteStore, error) {
	errb := oops.Code("STORE_OPEN").In("store").With("path", path)

	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errb.Wrapf(err, "opening sqlite database")
	}
	// sqlite serializes writers; one connection avoids busy errors
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, kvSchema); err != nil {
		db.Close()
		return nil, errb.Wrapf(err, "migrating kv table")
	}
	return &SQLiteStore{db: db, maxBytes: maxBytes}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, key string) (string, bool, error) {
	var row kvRow
	err := s.db.GetContext(ctx, &row, `SELECT key, value, updated_at FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, oops.Code("STORE_LOAD").In("store").With("key", key).Wrapf(err, "selecting value")
	}
	return row.Value, true, nil
}

func (s *SQLiteStore) Save(ctx context.Context, key, value string) error {
	if err := checkQuota(key, value, s.maxBytes); err != nil {
		return err
	}
	row := kvRow{Key: key, Value: value, UpdatedAt: time.Now().UnixMilli()}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (:key, :value, :updated_at)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, row)
	if err != nil {
		return oops.Code("STORE_SAVE").In("store").With("key", key).Wrapf(err, "upserting value")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
