// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

// Package httpapi exposes the MoneySpace services as a JSON HTTP API.
package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/moneyspace/moneyspace/internal/observability"
	"github.com/moneyspace/moneyspace/internal/space"
)

// Deps carries the collaborators the API server needs.
// Metrics and Logger are optional.
type Deps struct {
	Lifecycle    *space.LifecycleService
	Directory    *space.DirectoryService
	Categories   *space.CategoryService
	Transactions *space.TransactionService
	Metrics      *observability.Metrics
	Logger       *slog.Logger
}

// Server serves the JSON API over HTTP.
type Server struct {
	addr         string
	lifecycle    *space.LifecycleService
	directory    *space.DirectoryService
	categories   *space.CategoryService
	transactions *space.TransactionService
	metrics      *observability.Metrics
	logger       *slog.Logger

	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates the API server. All services are required.
func NewServer(addr string, deps Deps) (*Server, error) {
	if deps.Lifecycle == nil {
		return nil, oops.Errorf("lifecycle service is required")
	}
	if deps.Directory == nil {
		return nil, oops.Errorf("directory service is required")
	}
	if deps.Categories == nil {
		return nil, oops.Errorf("category service is required")
	}
	if deps.Transactions == nil {
		return nil, oops.Errorf("transaction service is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		addr:         addr,
		lifecycle:    deps.Lifecycle,
		directory:    deps.Directory,
		categories:   deps.Categories,
		transactions: deps.Transactions,
		metrics:      deps.Metrics,
		logger:       logger,
	}, nil
}

// Handler builds the route table. Exposed for handler tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/spaces/create", s.instrument("spaces_create", s.handleCreateSpace))
	mux.HandleFunc("POST /api/spaces/verify", s.instrument("spaces_verify", s.handleVerifySpace))
	mux.HandleFunc("POST /api/spaces/reset-password", s.instrument("spaces_reset_password", s.handleResetPassword))
	mux.HandleFunc("PUT /api/spaces/update", s.instrument("spaces_update", s.handleUpdateSpace))
	mux.HandleFunc("DELETE /api/spaces/delete", s.instrument("spaces_delete", s.handleDeleteSpace))
	mux.HandleFunc("GET /api/spaces/list", s.instrument("spaces_list", s.handleListSpaces))
	mux.HandleFunc("GET /api/spaces/{id}", s.instrument("spaces_get", s.handleGetSpace))

	mux.HandleFunc("GET /api/categories", s.instrument("categories_list", s.handleListCategories))
	mux.HandleFunc("GET /api/currencies", s.instrument("currencies_list", s.handleListCurrencies))

	mux.HandleFunc("POST /api/transactions/create", s.instrument("transactions_create", s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions", s.instrument("transactions_list", s.handleListTransactions))
	mux.HandleFunc("PUT /api/transactions/update", s.instrument("transactions_update", s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/delete", s.instrument("transactions_delete", s.handleDeleteTransaction))

	return mux
}

// Start begins serving the API.
// It returns an error channel that will receive any errors from the HTTP
// server after it starts; the channel is closed on graceful stop.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the API server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	s.logger.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on.
// Returns empty string if not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument records request count and duration per route.
func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			h(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		h(rec, r)

		s.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
