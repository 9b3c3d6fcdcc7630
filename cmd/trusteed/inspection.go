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
	"github.com/vendorguard/trusteed/internal/inspection"
	"github.com/vendorguard/trusteed/internal/rpc"
	"github.com/vendorguard/trusteed/internal/store/postgres"
)

var inspectionCmd = &cobra.Command{
	Use:   "inspection",
	Short: "Start the inspection service",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := config.LoadInspection()
		if err != nil {
			return err
		}

		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		bus := connectBus(cmd.Context(), logger, cfg.NATSURL, inspection.Source)

		trusteeClient, err := rpc.NewTrusteeClient(cfg.TrusteeRPCAddr, cfg.RPCTimeout)
		if err != nil {
			bus.Close()
			store.Close()
			return err
		}

		svc := inspection.NewService(store, trusteeClient, bus)

		// Bind the trustee deletion cascade. Failure to subscribe is the same
		// degraded state as a missing bus: the service keeps serving.
		cascadeCtx, cascadeCancel := context.WithCancel(context.Background())
		defer cascadeCancel()
		if err := inspection.SubscribeCascades(cascadeCtx, bus, svc); err != nil {
			logger.Warn("cascade subscription unavailable, running degraded", "err", err)
		} else {
			logger.Info("cascade subscriber started")
		}

		grpcServer := rpc.NewServer()
		rpc.RegisterInspectionServer(grpcServer, inspection.NewBackend(store))

		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			trusteeClient.Close()
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
			Handler: inspection.NewHandler(svc),
		}
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		scheduler := startExport(cmd.Context(), logger, cfg.Export, &export.InspectionSnapshot{Inspections: store})

		logger.Info("inspection service started",
			"grpc_addr", cfg.GRPCAddr,
			"http_addr", cfg.HTTPAddr,
			"trustee_rpc_addr", cfg.TrusteeRPCAddr,
		)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		cascadeCancel()

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

		if err := trusteeClient.Close(); err != nil {
			logger.Error("error closing trustee client", "err", err)
		}
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
