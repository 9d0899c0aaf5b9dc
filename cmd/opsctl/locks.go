// cmd/opsctl/locks.go
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/ammerola/atelier-ops/internal/app"
	"github.com/ammerola/atelier-ops/internal/core/services"
	"github.com/ammerola/atelier-ops/internal/pkg/config"
)

// syncService builds the sync coordinator on the configured lock backend
func (o *rootOptions) syncService(ctx context.Context) (*services.InventorySyncService, error) {
	rt, err := o.setup(ctx, true)
	if err != nil {
		return nil, err
	}

	var client redis.UniversalClient
	if rt.cfg.Sync.LockBackend == config.LockBackendRedis {
		c, err := app.OpenRedis(ctx, rt.cfg, rt.log)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, func() { c.Close() })
		client = c
	}

	lock, err := app.NewSyncLock(rt.cfg, rt.database, client, rt.log)
	if err != nil {
		return nil, err
	}
	return app.NewSyncService(rt.cfg, app.NewRepositories(rt.database, rt.log), lock, rt.log), nil
}

func parseDeliveryID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(arg))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid delivery id %q: %w", arg, err)
	}
	return id, nil
}

func newLocksCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locks",
		Short: "Inspect and clear delivery sync locks",
	}

	status := &cobra.Command{
		Use:   "status DELIVERY_ID",
		Short: "Show who holds the sync lock of a delivery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDeliveryID(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.syncService(cmd.Context())
			if err != nil {
				return err
			}
			info, err := svc.CheckSyncLockStatus(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), info)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear DELIVERY_ID",
		Short: "Release the sync lock of a delivery regardless of holder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDeliveryID(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.syncService(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.ClearSyncLock(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "released sync lock of %s\n", id)
			return nil
		},
	}

	clearStale := &cobra.Command{
		Use:   "clear-stale",
		Short: "Release every lock older than the configured stale age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.syncService(cmd.Context())
			if err != nil {
				return err
			}
			report, err := svc.ClearAllStaleLocks(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.AddCommand(status, clearCmd, clearStale)
	return cmd
}

func newSkuStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sku-status DELIVERY_ID SKU...",
		Short: "Report the sync state of SKUs from the sync journal",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDeliveryID(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.syncService(cmd.Context())
			if err != nil {
				return err
			}
			statuses, err := svc.CheckSkuSyncStatus(cmd.Context(), id, args[1:])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), statuses)
		},
	}
}
