// Package server parses board server flags and runs the HTTP API.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"

	platformcmd "github.com/louisbranch/squarepool/internal/platform/cmd"
	"github.com/louisbranch/squarepool/internal/platform/timeouts"
	"github.com/louisbranch/squarepool/internal/services/board/api"
	"github.com/louisbranch/squarepool/internal/services/board/service"
	"github.com/louisbranch/squarepool/internal/services/board/storage/sqlite"
)

// Config holds board server configuration.
type Config struct {
	HTTPAddr string `env:"SQUAREPOOL_HTTP_ADDR" envDefault:"localhost:8080"`
	DBPath   string `env:"SQUAREPOOL_DB_PATH"   envDefault:"squarepool.db"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the board HTTP server and blocks until the context ends.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceBoard, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()

		tokens, err := api.LoadTokenConfigFromEnv(nil)
		if err != nil {
			return fmt.Errorf("load token config: %w", err)
		}

		svc := service.New(store, nil, nil, nil)
		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           api.NewServer(svc, tokens),
			ReadHeaderTimeout: timeouts.ReadHeader,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serve http: %w", err)
		}
	})
}
