package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-pg/pg/v10"
	"github.com/namsral/flag"

	"github.com/daniilsolovey/news-herald/config"
	_ "github.com/daniilsolovey/news-herald/docs"
	"github.com/daniilsolovey/news-herald/internal/app"
	"github.com/daniilsolovey/news-herald/internal/db"
)

var (
	flConfig  = flag.String("config", "config.toml", "path to TOML configuration file")
	flDebug   = flag.Bool("debug", false, "enable debug mode")
	flMigrate = flag.Bool("migrate", true, "apply database migrations on start")
	flDBURL   = flag.String("database-url", "", "postgres URL overriding the [Database] section (DATABASE_URL)")
	cfg       config.Config
	lg        *slog.Logger
)

// @title News Herald API
// @version 1.0
// @description News and article management API with public reading, likes and shares, newsletter subscriptions and an admin area.
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	flag.Parse()

	lg = newLogger(*flDebug)

	_, err := toml.DecodeFile(*flConfig, &cfg)
	if err != nil {
		exitOnError(err)
	}

	if err := cfg.ApplyDatabaseURL(*flDBURL); err != nil {
		exitOnError(err)
	}

	ctx := context.Background()

	if *flMigrate {
		if err := db.RunMigrations(ctx, db.ConnectionURL(&cfg.Database)); err != nil {
			exitOnError(err)
		}
		lg.Info("migrations applied")
	}

	dbc := pg.Connect(&cfg.Database)
	if err := dbc.Ping(ctx); err != nil {
		dbc.Close()
		exitOnError(err)
	}
	defer dbc.Close()

	if cfg.LogQueries || *flDebug {
		dbc.AddQueryHook(db.NewQueryHook(lg))
	}

	service, err := app.New(&cfg, dbc, lg)
	if err != nil {
		exitOnError(err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		err := service.Run(ctx, cfg.App.Port)
		if err != nil {
			lg.Error("service run failed", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	lg.Info("service stopping")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = service.GracefulShutdown(shutdownCtx)
	if err != nil {
		lg.Error("service graceful shutdown failed", "error", err)
	}
}

func newLogger(debug bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

func exitOnError(err error) {
	if err != nil {
		lg.Error("app init failed", "error", err)
		os.Exit(1)
	}
}
