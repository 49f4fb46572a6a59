package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-pg/pg/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/daniilsolovey/news-herald/config"
	"github.com/daniilsolovey/news-herald/internal/auth"
	"github.com/daniilsolovey/news-herald/internal/cors"
	"github.com/daniilsolovey/news-herald/internal/db"
	"github.com/daniilsolovey/news-herald/internal/newsportal"
	"github.com/daniilsolovey/news-herald/internal/rest"
	"github.com/daniilsolovey/news-herald/internal/rpc"
)

const (
	rpcPath     = "/rpc"
	storagePath = "/storage"
)

type App struct {
	DB      *db.Repository
	Logger  *slog.Logger
	Echo    *echo.Echo
	Config  *config.Config
	Manager *newsportal.Manager
}

func New(cfg *config.Config, dbConnect *pg.DB, logger *slog.Logger) (*App, error) {
	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init tokens: %w", err)
	}

	policy, err := cors.New(cfg.CORSConfig())
	if err != nil {
		return nil, fmt.Errorf("init cors policy: %w", err)
	}

	cache, err := newsportal.NewCache(cfg.Cache.MaxCost, cfg.Cache.TTL, logger)
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}

	repo := db.New(dbConnect)
	manager := newsportal.NewManager(
		repo,
		tokens,
		newsportal.NewImageURLBuilder(cfg.App.Env, cfg.App.URL),
		cache,
		logger,
	)

	a := &App{
		DB:      repo,
		Logger:  logger,
		Echo:    echo.New(),
		Config:  cfg,
		Manager: manager,
	}
	a.registerRoutes(policy)

	return a, nil
}

func (a *App) registerRoutes(policy *cors.Policy) {
	e := a.Echo
	e.HideBanner = true
	e.HidePort = true
	e.Validator = rest.NewValidator()

	e.Pre(policy.Middleware())
	e.Use(middleware.Recover())
	e.Use(rest.AccessLog(a.Logger))

	if a.Config.App.StorageDir != "" {
		e.Static(storagePath, a.Config.App.StorageDir)
	}

	rpcServer := rpc.New(a.Logger, a.Manager)
	e.Any(rpcPath, echo.WrapHandler(&rpcServer))

	rest.NewHandler(a.Manager, a.Logger).RegisterRoutes(e)
}

func (a *App) Run(ctx context.Context, port int) error {
	addr := fmt.Sprintf("%s:%d", a.Config.App.Host, port)
	a.Logger.InfoContext(ctx, "http server started", "addr", addr)
	if err := a.Echo.Start(addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) GracefulShutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
