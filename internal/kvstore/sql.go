package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"crowdfix/internal/dbs"

	"github.com/jmoiron/sqlx"
)

const createKVTable = `CREATE TABLE IF NOT EXISTS kv_store (
	k VARCHAR(191) NOT NULL PRIMARY KEY,
	v TEXT NOT NULL
)`

type sqlStore struct {
	db     *sqlx.DB
	upsert string
}

// NewSQLStore creates the kv_store table if needed. The driver name selects
// the upsert dialect.
func NewSQLStore(db *sqlx.DB) (Store, error) {
	if err := dbs.Exec(db, createKVTable); err != nil {
		return nil, err
	}

	upsert := `INSERT INTO kv_store (k, v) VALUES (?, ?) ON CONFLICT (k) DO UPDATE SET v = excluded.v`
	if db.DriverName() == "mysql" {
		upsert = `INSERT INTO kv_store (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`
	}

	return &sqlStore{db: db, upsert: db.Rebind(upsert)}, nil
}

func (s *sqlStore) Get(ctx context.Context, key string, dest interface{}) error {
	var raw string
	query := s.db.Rebind(`SELECT v FROM kv_store WHERE k = ?`)
	if err := s.db.GetContext(ctx, &raw, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return json.Unmarshal([]byte(raw), dest)
}

func (s *sqlStore) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.upsert, key, string(raw)); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

func (s *sqlStore) Delete(ctx context.Context, key string) error {
	query := s.db.Rebind(`DELETE FROM kv_store WHERE k = ?`)
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
