// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moneyspace/moneyspace/internal/httpapi"
	"github.com/moneyspace/moneyspace/internal/observability"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// DBFactory opens a database connection pool from a URL.
	// Default: store.Connect
	DBFactory func(ctx context.Context, url string) (Database, error)

	// APIServerFactory creates the JSON API server.
	// Default: httpapi.NewServer
	APIServerFactory func(addr string, deps httpapi.Deps) (APIServer, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer
}

// Database interface wraps the methods used by serve from store.DB.
type Database interface {
	Pool() *pgxpool.Pool
	Close()
}

// APIServer interface wraps the methods used from httpapi.Server.
type APIServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

// ObservabilityServer interface wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}
