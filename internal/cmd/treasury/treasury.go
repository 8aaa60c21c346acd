// Package treasury parses treasury command flags and runs the treasury MCP
// server on stdio.
package treasury

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	platformcmd "github.com/ansu555/Moltiverse-cult/internal/platform/cmd"
	treasurymcp "github.com/ansu555/Moltiverse-cult/internal/treasury/api/mcp"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/auth"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/engine"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/storage"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/storage/sqlite"
)

// Config holds treasury command configuration.
type Config struct {
	DBPath   string `env:"MOLTIVERSE_TREASURY_DB_PATH"  envDefault:"treasury.db"`
	Operator string `env:"MOLTIVERSE_TREASURY_OPERATOR" envDefault:"operator"`
	Name     string `env:"MOLTIVERSE_MCP_NAME"          envDefault:"moltiverse-treasury"`
	Version  string `env:"MOLTIVERSE_MCP_VERSION"       envDefault:"dev"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the treasury SQLite database")
	fs.StringVar(&cfg.Operator, "operator", cfg.Operator, "principal allowed to mutate the treasury")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the store, restores the engine, and serves MCP until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceTreasury, func(ctx context.Context) error {
		grants, err := auth.LoadOperatorGrantConfigFromEnv(time.Now)
		if err != nil {
			return err
		}

		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open treasury store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close treasury store: %v", err)
			}
		}()

		var restore *engine.State
		state, err := store.LoadState(ctx)
		switch {
		case err == nil:
			restore = &state
		case errors.Is(err, storage.ErrNotFound):
			// First run starts from an empty treasury.
		default:
			return fmt.Errorf("load treasury state: %w", err)
		}

		eng, err := engine.New(engine.Config{
			Operator: auth.Principal(cfg.Operator),
			Journal:  store,
			Restore:  restore,
		})
		if err != nil {
			return err
		}

		server, err := treasurymcp.New(treasurymcp.Config{
			Engine:  eng,
			Journal: store,
			States:  store,
			Grants:  grants,
			Name:    cfg.Name,
			Version: cfg.Version,
		})
		if err != nil {
			return err
		}
		return server.Run(ctx)
	})
}
