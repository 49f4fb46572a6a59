package db

import (
	"context"
	"embed"
	"fmt"
	"net/url"

	"github.com/go-pg/pg/v10"
	"github.com/jackc/pgx"
	"github.com/jackc/pgx/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// ConnectionURL renders go-pg options as a postgres URL usable by database/sql drivers.
func ConnectionURL(opt *pg.Options) string {
	ssl := "disable"
	if opt.TLSConfig != nil {
		ssl = "require"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.User(opt.User),
		Host:     opt.Addr,
		Path:     "/" + opt.Database,
		RawQuery: url.Values{"sslmode": {ssl}}.Encode(),
	}
	if opt.Password != "" {
		u.User = url.UserPassword(opt.User, opt.Password)
	}

	return u.String()
}

// RunMigrations applies the embedded goose migrations to the database at dbURL.
func RunMigrations(ctx context.Context, dbURL string) error {
	config, err := pgx.ParseConnectionString(dbURL)
	if err != nil {
		return fmt.Errorf("parse connection string: %w", err)
	}

	sqldb := stdlib.OpenDB(config)
	defer sqldb.Close()

	if err := sqldb.PingContext(ctx); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqldb, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}
