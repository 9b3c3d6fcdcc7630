package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vendorguard/trusteed/internal/config"
	"github.com/vendorguard/trusteed/internal/gateway"
	"github.com/vendorguard/trusteed/internal/rpc"
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the aggregation gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := config.LoadGateway()
		if err != nil {
			return err
		}

		trusteeURL, err := url.Parse(cfg.TrusteeHTTPURL)
		if err != nil {
			return fmt.Errorf("TRUSTEED_TRUSTEE_HTTP_URL: %w", err)
		}
		inspectionURL, err := url.Parse(cfg.InspectionHTTPURL)
		if err != nil {
			return fmt.Errorf("TRUSTEED_INSPECTION_HTTP_URL: %w", err)
		}

		trusteeClient, err := rpc.NewTrusteeClient(cfg.TrusteeRPCAddr, cfg.RPCTimeout)
		if err != nil {
			return err
		}
		inspectionClient, err := rpc.NewInspectionClient(cfg.InspectionRPCAddr, cfg.RPCTimeout)
		if err != nil {
			trusteeClient.Close()
			return err
		}

		agg := gateway.NewAggregator(trusteeClient, inspectionClient)

		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: gateway.NewHandler(agg, trusteeURL, inspectionURL),
		}
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		logger.Info("gateway started",
			"http_addr", cfg.HTTPAddr,
			"trustee_rpc_addr", cfg.TrusteeRPCAddr,
			"inspection_rpc_addr", cfg.InspectionRPCAddr,
		)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := trusteeClient.Close(); err != nil {
			logger.Error("error closing trustee client", "err", err)
		}
		if err := inspectionClient.Close(); err != nil {
			logger.Error("error closing inspection client", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
