package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// DefaultPostgresTable holds the session keys when no table is configured.
const DefaultPostgresTable = "luxe_session"

// PostgresStore keeps the session keys in a PostgreSQL table, for shared
// sessions across machines.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table pgx.Identifier
}

// NewPostgresStore connects using connString and creates the table if needed.
func NewPostgresStore(ctx context.Context, connString, table string) (*PostgresStore, error) {
	if table == "" {
		table = DefaultPostgresTable
	}

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	poolConfig.MaxConns = 4
	poolConfig.ConnConfig.ConnectTimeout = 10 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", mapPostgresError(err))
	}

	s := &PostgresStore{pool: pool, table: pgx.Identifier{table}}

	create := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`, s.table.Sanitize())
	if _, err := pool.Exec(ctx, create); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create session table: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("database", poolConfig.ConnConfig.Database).
		Str("host", poolConfig.ConnConfig.Host).
		Str("table", table).
		Msg("postgres token store initialized")

	return s, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, s.table.Sanitize()), key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, mapPostgresError(err))
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	return s.RemoveMany(ctx, key)
}

// SetMany writes all values in one transaction.
func (s *PostgresStore) SetMany(ctx context.Context, values map[string]string) error {
	upsert := fmt.Sprintf(`INSERT INTO %s (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, s.table.Sanitize())

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for k, v := range values {
			batch.Queue(upsert, k, v)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to set keys: %w", mapPostgresError(err))
		}
		return nil
	})
}

// RemoveMany deletes all keys in one statement.
func (s *PostgresStore) RemoveMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = ANY($1)`, s.table.Sanitize()), keys)
	if err != nil {
		return fmt.Errorf("failed to remove keys: %w", mapPostgresError(err))
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// mapPostgresError adds context to the PostgreSQL failures a session store
// can hit; anything else is returned unchanged.
func mapPostgresError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.InsufficientPrivilege:
		return fmt.Errorf("permission denied on session table: %w", err)
	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure,
		pgerrcode.CannotConnectNow,
		pgerrcode.SQLClientUnableToEstablishSQLConnection:
		return fmt.Errorf("database connection error: %w", err)
	case pgerrcode.AdminShutdown, pgerrcode.CrashShutdown:
		return fmt.Errorf("database server unavailable: %w", err)
	case pgerrcode.QueryCanceled:
		return fmt.Errorf("query canceled: %w", err)
	case pgerrcode.TooManyConnections:
		return fmt.Errorf("database resource limit: %w", err)
	default:
		return fmt.Errorf("postgres error [%s]: %s: %w", pgErr.Code, pgErr.Message, err)
	}
}
