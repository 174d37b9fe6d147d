// Package database manages the PostgreSQL connection pool and its lifecycle.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/JaimeStill/studybuddy/pkg/lifecycle"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// System exposes the shared connection pool and registers it with the lifecycle coordinator.
type System interface {
	Connection() *sql.DB
	Start(lc *lifecycle.Coordinator) error
}

// Option customizes a database System.
type Option func(*database)

// WithMigrations applies the migrations found under dir in fsys when the system starts.
// Migrations are skipped when the configuration disables auto_migrate.
func WithMigrations(fsys fs.FS, dir string) Option {
	return func(d *database) {
		d.migrations = fsys
		d.migrationsDir = dir
	}
}

type database struct {
	conn          *sql.DB
	cfg           *Config
	logger        *slog.Logger
	migrations    fs.FS
	migrationsDir string
}

// New opens a connection pool for cfg. The pool is not verified until Start.
func New(cfg *Config, logger *slog.Logger, opts ...Option) (System, error) {
	conn, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	d := &database{
		conn:   conn,
		cfg:    cfg,
		logger: logger.With("system", "database"),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

// Start pings the database, applies pending migrations, and closes the pool on shutdown.
func (d *database) Start(lc *lifecycle.Coordinator) error {
	ctx, cancel := context.WithTimeout(lc.Context(), d.cfg.ConnTimeoutDuration())
	defer cancel()

	if err := d.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	d.logger.Info("database connected", "host", d.cfg.Host, "name", d.cfg.Name)

	if d.migrations != nil && d.cfg.Migrate() {
		if err := d.migrate(); err != nil {
			return err
		}
	}

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}
		d.logger.Info("database connection closed")
	})

	return nil
}

func (d *database) migrate() error {
	m, err := NewMigrator(d.migrations, d.migrationsDir, d.cfg.URL())
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}

	d.logger.Info("database migrated", "version", version, "dirty", dirty)
	return nil
}
