package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/driftwatch-systems/driftwatch/internal/store"
)

// Compile-time interface satisfaction check.
var _ store.Store = (*Store)(nil)

// Config holds the Postgres backend configuration.
type Config struct {
	DSN     string `yaml:"dsn" json:"dsn"`
	Migrate bool   `yaml:"migrate" json:"migrate"`
}

// Store is a Postgres-backed implementation of the store interface.
type Store struct {
	pool    *pgxpool.Pool
	logger  *slog.Logger
	migrate bool
}

// New creates a Postgres Store and verifies the connection.
func New(ctx context.Context, cfg *Config) (*Store, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Store{
		pool:    pool,
		logger:  slog.Default(),
		migrate: cfg.Migrate,
	}, nil
}

// Start optionally runs the schema DDL.
func (s *Store) Start(ctx context.Context) error {
	if s.migrate {
		if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
			return &store.StorageError{Op: "migrate", Err: err}
		}
	}
	return s.Ping(ctx)
}

// Stop closes the connection pool.
func (s *Store) Stop(_ context.Context) error {
	s.pool.Close()
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return &store.StorageError{Op: "ping", Err: err}
	}
	return nil
}
