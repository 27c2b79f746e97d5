package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies all pending goose migrations from dir against the given DSN.
// Goose runs over database/sql, so a short-lived stdlib connection is opened
// alongside the pgx pool.
func Migrate(ctx context.Context, dsn, dir string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging sql connection: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("configuring goose: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	slog.Info("applying migrations", "dir", dir)
	if err := goose.UpContext(runCtx, db, dir); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	slog.Info("migrations applied")

	return nil
}
