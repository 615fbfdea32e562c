// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/moneyspace/moneyspace/internal/config"
	"github.com/moneyspace/moneyspace/internal/httpapi"
	"github.com/moneyspace/moneyspace/internal/logging"
	"github.com/moneyspace/moneyspace/internal/observability"
	"github.com/moneyspace/moneyspace/internal/space"
	spacepg "github.com/moneyspace/moneyspace/internal/space/postgres"
	"github.com/moneyspace/moneyspace/internal/store"
)

const serviceName = "moneyspace"

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MoneySpace API server",
		Long: `Start the HTTP JSON API server, serving space lifecycle, category,
and transaction endpoints, plus an optional metrics/health listener.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServeWithDeps(cmd.Context(), cfg, cmd, nil)
		},
	}

	cmd.Flags().String("http-addr", config.DefaultHTTPAddr, "API listen address")
	cmd.Flags().String("metrics-addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("log-format", config.DefaultLogFormat, "log format (json or text)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL (overridden by DATABASE_URL)")

	return cmd
}

// runServeWithDeps starts the server with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.DBFactory == nil {
		deps.DBFactory = func(ctx context.Context, url string) (Database, error) {
			return store.Connect(ctx, url)
		}
	}
	if deps.APIServerFactory == nil {
		deps.APIServerFactory = func(addr string, d httpapi.Deps) (APIServer, error) {
			return httpapi.NewServer(addr, d)
		}
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetDefault(serviceName, version, cfg.Log.Format)
	logger := slog.Default()

	logger.Info("starting server",
		"http_addr", cfg.Server.Addr,
		"log_format", cfg.Log.Format,
	)

	db, err := deps.DBFactory(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	defer db.Close()

	logger.Info("connected to database")

	pool := db.Pool()
	spaces := spacepg.NewSpaceRepository(pool)
	members := spacepg.NewMembershipRepository(pool)
	categories := spacepg.NewCategoryRepository(pool)
	grants := spacepg.NewGrantRepository(pool)
	transactions := spacepg.NewTransactionRepository(pool)

	lifecycle, err := space.NewLifecycleServiceWithLogger(
		spaces, members, categories, grants, space.NewArgon2idHasher(), logger)
	if err != nil {
		return err
	}
	directory, err := space.NewDirectoryService(spaces)
	if err != nil {
		return err
	}
	categorySvc, err := space.NewCategoryService(categories)
	if err != nil {
		return err
	}
	transactionSvc, err := space.NewTransactionService(transactions)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start observability server if configured
	var obsServer ObservabilityServer
	var metrics *observability.Metrics
	if cfg.Metrics.Addr != "" {
		// Ready once the database is connected and services are built
		srv := deps.ObservabilityServerFactory(cfg.Metrics.Addr, func() bool { return true })
		obsErrChan, err := srv.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
		}
		obsServer = srv
		if real, ok := srv.(*observability.Server); ok {
			metrics = real.Metrics()
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
	}

	apiServer, err := deps.APIServerFactory(cfg.Server.Addr, httpapi.Deps{
		Lifecycle:    lifecycle,
		Directory:    directory,
		Categories:   categorySvc,
		Transactions: transactionSvc,
		Metrics:      metrics,
		Logger:       logger,
	})
	if err != nil {
		return oops.Code("API_INIT_FAILED").Wrap(err)
	}

	apiErrChan, err := apiServer.Start()
	if err != nil {
		stopObservability(obsServer)
		return oops.Code("API_START_FAILED").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrChan, "api")

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("MoneySpace server started")
	logger.Info("server ready", "http_addr", apiServer.Addr())

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	// Graceful shutdown
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Warn("error stopping api server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// stopObservability stops the observability server with a short deadline
// during startup cleanup.
func stopObservability(srv ObservabilityServer) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		slog.Warn("failed to stop observability server during cleanup", "error", err)
	}
}

// monitorServerErrors monitors a server's error channel and cancels the
// context on error so a failed listener triggers full shutdown.
// It exits when an error arrives, the channel closes, or the context ends.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
		// Context cancelled, exit monitoring
	}
}
