package postgres

import (
	"context"
	"crypto/tls"

	"github.com/dynsource/dynsource"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config describes one named PostgreSQL database.
type Config struct {
	ConnString string `yaml:"conn_string" validate:"required"`
	MaxConns   int32  `yaml:"max_conns" validate:"gte=0"`
	MinConns   int32  `yaml:"min_conns" validate:"gte=0"`
	TLS        bool   `yaml:"tls"`
}

// Set binds a named map of PostgreSQL configs plus the primary name.
type Set = dynsource.Set[Config]

func (c Config) withDefaults() Config {
	if c.MaxConns == 0 {
		c.MaxConns = 10
	}
	if c.MinConns == 0 {
		c.MinConns = 2
	}
	return c
}

// ConnectionDetails holds the resolved pool parameters for one database.
type ConnectionDetails struct {
	ConnString string
	MaxConns   int32
	MinConns   int32
	TLSConfig  *tls.Config
}

// Factory owns a pgx connection pool. It adapts pgxpool.Pool's void Close
// to io.Closer so the registry can tear it down.
type Factory struct {
	pool *pgxpool.Pool
}

// NewFactory creates and pings a connection pool from details.
func NewFactory(ctx context.Context, details ConnectionDetails) (*Factory, error) {
	poolConfig, err := pgxpool.ParseConfig(details.ConnString)
	if err != nil {
		return nil, NewParseConfigError(err)
	}

	poolConfig.MaxConns = details.MaxConns
	poolConfig.MinConns = details.MinConns
	if details.TLSConfig != nil {
		poolConfig.ConnConfig.TLSConfig = details.TLSConfig
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, NewPoolCreateError(err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, NewConnectionFailedError(err)
	}

	return &Factory{pool: pool}, nil
}

// Pool exposes the underlying pgx pool.
func (f *Factory) Pool() *pgxpool.Pool {
	return f.pool
}

// Ping verifies connectivity to the database.
func (f *Factory) Ping(ctx context.Context) error {
	return f.pool.Ping(ctx)
}

// Close releases the connection pool.
func (f *Factory) Close() error {
	f.pool.Close()
	return nil
}

// Template is a thin query facade over the pool. It does not own the pool;
// closing the factory closes it.
type Template struct {
	pool *pgxpool.Pool
}

// NewTemplate wraps the factory's pool.
func NewTemplate(factory *Factory) *Template {
	return &Template{pool: factory.pool}
}

// Pool exposes the underlying pgx pool for operations the template does not
// cover.
func (t *Template) Pool() *pgxpool.Pool {
	return t.pool
}

// Exec runs a statement and returns its command tag.
func (t *Template) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.pool.Exec(ctx, sql, args...)
}

// Query runs a query returning multiple rows.
func (t *Template) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.pool.Query(ctx, sql, args...)
}

// QueryRow runs a query expected to return at most one row.
func (t *Template) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.pool.QueryRow(ctx, sql, args...)
}

// Begin starts a transaction.
func (t *Template) Begin(ctx context.Context) (pgx.Tx, error) {
	return t.pool.Begin(ctx)
}

// Ping verifies connectivity to the database.
func (t *Template) Ping(ctx context.Context) error {
	return t.pool.Ping(ctx)
}
