// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jontk/reservation/internal/grpcserver"
	"github.com/jontk/reservation/internal/listen"
	"github.com/jontk/reservation/internal/manager"
	"github.com/jontk/reservation/pkg/config"
	"github.com/jontk/reservation/pkg/logging"
	"github.com/jontk/reservation/pkg/metrics"
	"github.com/jontk/reservation/pkg/pool"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	BuildTime = ""
	Commit    = ""

	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:     "reservation-server",
		Short:   "RPC server for the resource reservation engine",
		Long:    `reservation-server serves the ReservationService RPC API over gRPC, backed by a PostgreSQL exclusion-constraint schema.`,
		Version: Version,
	}
)

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to reservation.yml (env: RESERVATION_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("reservation-server version %s\n", Version)
		if BuildTime != "" {
			fmt.Printf("Build Time: %s\n", BuildTime)
		}
		if Commit != "" {
			fmt.Printf("Commit:     %s\n", Commit)
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reservation RPC server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

func runServe() error {
	logCfg := logging.DefaultConfig()
	if debug {
		logCfg.Level = slog.LevelDebug
	}
	logger := logging.NewLogger(logCfg)

	cfg, err := loadConfig()
	if err != nil {
		logging.LogError(logger, err, "load config")
		return err
	}

	collector := metrics.NewInMemoryCollector()

	poolCfg := pool.DefaultPoolConfig()
	poolCfg.MaxConnections = cfg.DB.MaxConnections
	poolCfg.MaxIdleConnections = cfg.DB.MaxConnections

	db, err := pool.Open(cfg.DSN(), poolCfg, logger)
	if err != nil {
		logging.LogError(logger, err, "open database pool")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err := db.Ping(pingCtx); err != nil {
		logging.LogError(logger, err, "ping database")
		return fmt.Errorf("database not reachable: %w", err)
	}

	connMgr := pool.NewConnectionManager(db, nil, logger)
	connMgr.Start()
	defer connMgr.Stop()

	mgr := manager.New(db, logger, collector)

	ln := listen.New(cfg.DSN(), logger, collector)
	if err := ln.Start(ctx); err != nil {
		logging.LogError(logger, err, "start change-notification listener")
		return err
	}
	defer ln.Close()

	rpc := grpcserver.New(mgr, ln)

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(grpcserver.UnaryLoggingInterceptor(logger, collector)),
		grpc.ChainStreamInterceptor(grpcserver.StreamLoggingInterceptor(logger, collector)),
	)
	grpcServer.RegisterService(&grpcserver.ServiceDesc, rpc)

	lis, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		logging.LogError(logger, err, "listen", "addr", cfg.Addr())
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("reservation server listening", "addr", cfg.Addr())
		serveErr <- grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(30 * time.Second):
			grpcServer.Stop()
		}
		return nil
	case err := <-serveErr:
		if err != nil {
			logging.LogError(logger, err, "serve")
			return err
		}
		return nil
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
