package config

import (
	"fmt"
	"time"

	"github.com/go-pg/pg/v10"

	"github.com/daniilsolovey/news-herald/internal/cors"
)

type Config struct {
	Database   pg.Options
	LogQueries bool

	App struct {
		Host        string
		Port        int
		Env         string
		URL         string
		FrontendURL string
		StorageDir  string
	}

	CORS struct {
		AllowedOrigins []string
		WildcardHosts  []string
		FallbackOrigin string
	}

	Auth struct {
		JWTSecret string
		TokenTTL  time.Duration
	}

	Cache struct {
		TTL     time.Duration
		MaxCost int64
	}
}

// CORSConfig returns the CORS policy settings. The frontend URL is always an
// allowed origin.
func (c Config) CORSConfig() cors.Config {
	origins := append([]string{}, c.CORS.AllowedOrigins...)
	if c.App.FrontendURL != "" {
		origins = append(origins, c.App.FrontendURL)
	}

	return cors.Config{
		AllowedOrigins: origins,
		WildcardHosts:  c.CORS.WildcardHosts,
		FallbackOrigin: c.CORS.FallbackOrigin,
	}
}

// ApplyDatabaseURL replaces the database options with the ones parsed from a
// postgres URL. Pool size and application name from the file are kept.
func (c *Config) ApplyDatabaseURL(databaseURL string) error {
	if databaseURL == "" {
		return nil
	}

	opt, err := pg.ParseURL(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	opt.PoolSize = c.Database.PoolSize
	opt.ApplicationName = c.Database.ApplicationName
	opt.MaxRetries = 3
	c.Database = *opt

	return nil
}
