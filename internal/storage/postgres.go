package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresConn struct {
	pool *pgxpool.Pool
}

// OpenPostgres establishes a connection pool and verifies it with a ping.
func OpenPostgres(ctx context.Context, dsn string, maxConns int) (Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return newSQLStore(&postgresConn{pool: pool}), nil
}

func (c *postgresConn) exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := c.pool.Exec(ctx, rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (c *postgresConn) queryRow(ctx context.Context, query string, args ...any) row {
	return pgRow{c.pool.QueryRow(ctx, rebind(query), args...)}
}

func (c *postgresConn) query(ctx context.Context, query string, args ...any) (rows, error) {
	rs, err := c.pool.Query(ctx, rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

func (c *postgresConn) isConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (c *postgresConn) inTx(ctx context.Context, fn func(exec execFunc) error) error {
	return pgx.BeginFunc(ctx, c.pool, func(tx pgx.Tx) error {
		return fn(func(ctx context.Context, query string, args ...any) (int64, error) {
			tag, err := tx.Exec(ctx, rebind(query), args...)
			if err != nil {
				return 0, err
			}
			return tag.RowsAffected(), nil
		})
	})
}

func (c *postgresConn) schema() []string { return postgresSchema }

func (c *postgresConn) ping(ctx context.Context) error { return c.pool.Ping(ctx) }

func (c *postgresConn) close() error {
	c.pool.Close()
	return nil
}

type pgRow struct {
	pgx.Row
}

func (r pgRow) Scan(dest ...any) error {
	err := r.Row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// rebind rewrites ? placeholders as $1, $2, ...
func rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
