// Command trusteed runs the trustee compliance platform: the trustee
// service, the inspection service, and the aggregation gateway, each as a
// subcommand so one binary covers every role.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vendorguard/trusteed/internal/config"
	"github.com/vendorguard/trusteed/internal/events"
	"github.com/vendorguard/trusteed/internal/export"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "trusteed <service>",
	Short:   "Trustee compliance platform services",
	Version: version,
}

func init() {
	rootCmd.AddCommand(trusteeCmd)
	rootCmd.AddCommand(inspectionCmd)
	rootCmd.AddCommand(gatewayCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// connectBus connects to NATS when a URL is configured. A connection failure
// degrades to the no-op bus so the service still serves reads and writes; it
// just stops announcing them until restarted.
func connectBus(ctx context.Context, logger *slog.Logger, natsURL, source string) events.Bus {
	if natsURL == "" {
		logger.Info("events disabled (TRUSTEED_NATS_URL not set)")
		return &events.NoopBus{}
	}
	bus, err := events.Connect(ctx, natsURL, source)
	if err != nil {
		logger.Warn("event bus unavailable, running degraded", "nats_url", natsURL, "err", err)
		return &events.NoopBus{}
	}
	logger.Info("events enabled", "nats_url", natsURL)
	return bus
}

// startExport starts the snapshot scheduler if an interval and destination
// are configured. Returns nil when export is disabled.
func startExport(ctx context.Context, logger *slog.Logger, cfg config.Export, snap export.Snapshotter) *export.Scheduler {
	if cfg.Interval <= 0 || cfg.S3Bucket == "" {
		return nil
	}
	dest, err := export.NewS3Destination(ctx, cfg.S3Bucket, cfg.S3Key, cfg.S3Region, cfg.S3Endpoint)
	if err != nil {
		logger.Error("failed to create S3 export destination", "err", err)
		return nil
	}
	scheduler := export.NewScheduler(snap, []export.Destination{dest}, cfg.Interval, logger)
	scheduler.Start()
	logger.Info("export scheduler started", "interval", cfg.Interval, "bucket", cfg.S3Bucket, "key", cfg.S3Key)
	return scheduler
}
