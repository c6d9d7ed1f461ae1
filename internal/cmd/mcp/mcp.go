// Package mcp parses MCP command flags and serves board tools over stdio.
package mcp

import (
	"context"
	"flag"
	"fmt"

	boardmcp "github.com/louisbranch/squarepool/internal/mcp"
	platformcmd "github.com/louisbranch/squarepool/internal/platform/cmd"
	"github.com/louisbranch/squarepool/internal/services/board/service"
	"github.com/louisbranch/squarepool/internal/services/board/storage/sqlite"
)

// Config holds MCP command configuration.
type Config struct {
	DBPath string `env:"SQUAREPOOL_DB_PATH" envDefault:"squarepool.db"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP stdio server against the configured database.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceMCP, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()

		svc := service.New(store, nil, nil, nil)
		return boardmcp.Run(ctx, boardmcp.NewServer(svc))
	})
}
