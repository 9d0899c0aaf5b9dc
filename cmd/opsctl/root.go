// cmd/opsctl/root.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ammerola/atelier-ops/internal/adapters/db"
	"github.com/ammerola/atelier-ops/internal/app"
	"github.com/ammerola/atelier-ops/internal/pkg/config"
	"github.com/ammerola/atelier-ops/internal/pkg/logger"
)

// opsctlMaxConns keeps the admin pool small
const opsctlMaxConns = 2

// runtime is the lazily built environment shared by subcommands
type runtime struct {
	cfg      *config.Config
	log      *slog.Logger
	database *db.Database
	closers  []func()
}

func (r *runtime) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

type rootOptions struct {
	logLevel string
	rt       *runtime
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "opsctl",
		Short:         "Administrative commands for atelier-ops",
		Long:          `opsctl runs schema migrations, inspects and clears delivery sync locks, reports per-SKU sync status and imports the order catalog.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.rt != nil {
				opts.rt.close()
			}
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newLocksCmd(opts),
		newSkuStatusCmd(opts),
		newSeedCmd(opts),
	)
	return cmd
}

// setup loads configuration and, when withDB is set, opens the database.
func (o *rootOptions) setup(ctx context.Context, withDB bool) (*runtime, error) {
	if o.rt == nil {
		boot := logger.SetupLogger(&logger.LogConfig{Level: o.logLevel, Format: "text", Output: "stderr"})
		cfg, err := app.LoadConfig(ctx, boot.Logger)
		if err != nil {
			return nil, err
		}
		cfg.App.LogLevel = o.logLevel
		cfg.App.LogFormat = "text"
		o.rt = &runtime{cfg: cfg, log: app.NewLogger(cfg, "opsctl").Logger}
	}

	if withDB && o.rt.database == nil {
		database, err := app.OpenDatabase(ctx, o.rt.cfg, opsctlMaxConns, o.rt.log)
		if err != nil {
			return nil, err
		}
		o.rt.database = database
		o.rt.closers = append(o.rt.closers, database.Close)
	}
	return o.rt, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
