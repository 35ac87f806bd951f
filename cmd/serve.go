package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iziplay/gallery"
	routing "github.com/iziplay/gallery/pkg/api"
	"github.com/iziplay/gallery/pkg/comments"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/plugin/opentelemetry/tracing"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "serve the comment API",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "port", Value: "80", EnvVars: []string{"API_PORT"}},
		&cli.StringFlag{Name: "host", Usage: "public URL listed in the OpenAPI document", EnvVars: []string{"API_HOST"}},
		&cli.StringFlag{Name: "driver", Value: "postgres", Usage: "postgres or sqlite", EnvVars: []string{"COMMENTS_DRIVER"}},
		&cli.StringFlag{Name: "sqlite-path", Value: "data/comments.db", EnvVars: []string{"SQLITE_PATH"}},
		&cli.StringFlag{Name: "postgres-host", EnvVars: []string{"POSTGRES_HOST"}},
		&cli.StringFlag{Name: "postgres-user", EnvVars: []string{"POSTGRES_USER"}},
		&cli.StringFlag{Name: "postgres-password", EnvVars: []string{"POSTGRES_PASSWORD"}},
		&cli.StringFlag{Name: "postgres-database", EnvVars: []string{"POSTGRES_DATABASE", "POSTGRES_DB"}},
		&cli.StringFlag{Name: "postgres-port", Value: "5432", EnvVars: []string{"POSTGRES_PORT"}},
		&cli.StringFlag{Name: "jwt-secret", Usage: "require a bearer JWT signed with this secret to post comments", EnvVars: []string{"COMMENTS_JWT_SECRET"}},
	},
	Action: serve,
}

func openStore(c *cli.Context) (comments.Store, error) {
	switch c.String("driver") {
	case "sqlite":
		return comments.OpenSQLite(c.String("sqlite-path"))
	case "postgres":
		store, err := comments.OpenPostgres(comments.PostgresConfig{
			Host:     c.String("postgres-host"),
			User:     c.String("postgres-user"),
			Password: c.String("postgres-password"),
			Database: c.String("postgres-database"),
			Port:     c.String("postgres-port"),
		})
		if err != nil {
			return nil, err
		}
		if c.Bool("otel") {
			if err := store.DB.Use(tracing.NewPlugin()); err != nil {
				store.Close()
				return nil, fmt.Errorf("failed to enable gorm tracing: %w", err)
			}
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown comments driver %q", c.String("driver"))
	}
}

func serve(c *cli.Context) error {
	ctx := c.Context

	if c.Bool("otel") {
		shutdown, err := setupTracing(ctx, "gallery-api")
		if err != nil {
			return err
		}
		defer shutdown(context.Background())
	}

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = store.Ping(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("comment store unreachable: %w", err)
	}
	slog.Info("Comment store ready", "driver", c.String("driver"))

	stats := comments.NewStatsCache(store)

	addr := ":" + c.String("port")
	host := c.String("host")
	if host == "" {
		host = "http://localhost" + addr
	}

	router := routing.NewRouter(
		&routing.Handlers{Store: store, Stats: stats},
		routing.Options{
			Host:        host,
			Description: gallery.Readme,
			JWTSecret:   c.String("jwt-secret"),
		},
	)

	server := &http.Server{
		Addr:    addr,
		Handler: otelhttp.NewHandler(router, "api"),
	}

	go stats.Compute(ctx, false)

	errs := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
