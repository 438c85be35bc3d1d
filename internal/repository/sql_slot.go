package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know about
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

type sqlSlotStore struct {
	db *sqlx.DB
}

// NewSQLSlotStore wraps an open database whose schema is already migrated
func NewSQLSlotStore(db *sqlx.DB) SlotStore {
	return &sqlSlotStore{db: db}
}

// OpenSQLSlotStore connects to a postgres or sqlite database and migrates the slot table
func OpenSQLSlotStore(driver, dsn string) (SlotStore, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// single writer keeps sqlite from returning SQLITE_BUSY on concurrent saves
		db.SetMaxOpenConns(1)
	}

	if err := RunMigrations(driver, dsn); err != nil {
		db.Close()
		return nil, err
	}

	return NewSQLSlotStore(db), nil
}

func (s *sqlSlotStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := s.db.Rebind(`
		SELECT payload
		FROM ledger_slots
		WHERE slot_key = ?
	`)

	var payload string
	err := s.db.GetContext(ctx, &payload, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return []byte(payload), true, nil
}

func (s *sqlSlotStore) Set(ctx context.Context, key string, value []byte) error {
	query := s.db.Rebind(`
		INSERT INTO ledger_slots (slot_key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (slot_key) DO UPDATE
		SET payload = excluded.payload, updated_at = excluded.updated_at
	`)

	_, err := s.db.ExecContext(ctx, query, key, string(value), time.Now().UTC())
	return err
}

func (s *sqlSlotStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlSlotStore) Close() error {
	return s.db.Close()
}
