// internal/storage/pgstore/store.go
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/storage"
)

const (
	table        = "kv_store"
	colKey       = "key"
	colValue     = "value"
	colUpdatedAt = "updated_at"
)

const createTable = `CREATE TABLE IF NOT EXISTS ` + table + ` (
	` + colKey + ` TEXT PRIMARY KEY,
	` + colValue + ` BYTEA NOT NULL,
	` + colUpdatedAt + ` TIMESTAMPTZ NOT NULL DEFAULT now()
)`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// querier is the subset of *pgxpool.Pool the store needs.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store keeps blobs in a single key/value table.
type Store struct {
	db    querier
	now   func() time.Time
	close func()
}

func newStore(db querier) *Store {
	return &Store{db: db, now: time.Now, close: func() {}}
}

// Connect opens a pool, waits for the database and creates the table.
func Connect(ctx context.Context, dsn string, timeout time.Duration, logger *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create db pool: %w", err)
	}

	_, err = storage.Connect(ctx, "postgres", timeout, logger, func() (struct{}, error) {
		return struct{}{}, pool.Ping(ctx)
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	s := newStore(pool)
	s.close = pool.Close
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("Connected to postgres", zap.String("table", table))
	return s, nil
}

// Migrate creates the backing table when missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create %s: %w", table, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	query := psql.Select(colValue).
		From(table).
		Where(sq.Eq{colKey: key})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var value []byte
	err = s.db.QueryRow(ctx, sqlStr, args...).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	query := psql.Insert(table).
		Columns(colKey, colValue, colUpdatedAt).
		Values(key, value, s.now().UTC()).
		Suffix("ON CONFLICT (" + colKey + ") DO UPDATE SET " +
			colValue + " = EXCLUDED." + colValue + ", " +
			colUpdatedAt + " = EXCLUDED." + colUpdatedAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	s.close()
	return nil
}
