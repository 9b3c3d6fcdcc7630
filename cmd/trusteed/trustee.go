package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vendorguard/trusteed/internal/config"
	"github.com/vendorguard/trusteed/internal/export"
	"github.com/vendorguard/trusteed/internal/rpc"
	"github.com/vendorguard/trusteed/internal/store/postgres"
	"github.com/vendorguard/trusteed/internal/trustee"
)

var trusteeCmd = &cobra.Command{
	Use:   "trustee",
	Short: "Start the trustee service",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := config.LoadTrustee()
		if err != nil {
			return err
		}

		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		bus := connectBus(cmd.Context(), logger, cfg.NATSURL, trustee.Source)

		svc := trustee.NewService(store, store, bus)

		grpcServer := rpc.NewServer()
		rpc.RegisterTrusteeServer(grpcServer, trustee.NewBackend(store))

		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			bus.Close()
			store.Close()
			return err
		}
		go func() {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC server error", "err", err)
			}
		}()

		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: trustee.NewHandler(svc),
		}
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		scheduler := startExport(cmd.Context(), logger, cfg.Export, &export.TrusteeSnapshot{Trustees: store})

		logger.Info("trustee service started",
			"grpc_addr", cfg.GRPCAddr,
			"http_addr", cfg.HTTPAddr,
		)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("export scheduler stopped")
		}

		// Do not drain in-flight RPCs; peers treat aborted calls as
		// inconclusive and proceed.
		grpcServer.Stop()
		logger.Info("gRPC server stopped")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := bus.Close(); err != nil {
			logger.Error("error closing event bus", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
