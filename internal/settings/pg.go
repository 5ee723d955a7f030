package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Table is the relation created by the embedded migrations.
const Table = "pwfilter_settings"

// RowQuerier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore reads one row per lookup:
// SELECT value FROM pwfilter_settings WHERE scope = $1 AND key = $2.
type PGStore struct {
	db    RowQuerier
	query string
}

func NewPGStore(db RowQuerier) *PGStore {
	return &PGStore{
		db:    db,
		query: fmt.Sprintf(`SELECT value FROM %s WHERE scope = $1 AND key = $2`, pgx.Identifier{Table}.Sanitize()),
	}
}

func (s *PGStore) lookup(ctx context.Context, scope, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(ctx, s.query, scope, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *PGStore) GetString(ctx context.Context, scope, key string) (string, bool) {
	return lookupFunc(s.lookup).GetString(ctx, scope, key)
}

func (s *PGStore) GetBool(ctx context.Context, scope, key string) (bool, error) {
	return lookupFunc(s.lookup).GetBool(ctx, scope, key)
}

// ConnectPG opens a pool and pings it.
func ConnectPG(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("settings: postgres pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("settings: postgres ping failed: %w", err)
	}
	return pool, nil
}

// Execer is the write side the migrator needs.
type Execer interface {
	RowQuerier
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
