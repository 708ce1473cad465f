package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/plate-changer/internal/api"
	"github.com/eugenenazirov/plate-changer/internal/config"
	"github.com/eugenenazirov/plate-changer/internal/inventory"
	"github.com/eugenenazirov/plate-changer/internal/metrics"
	"github.com/eugenenazirov/plate-changer/internal/planner"
	"github.com/eugenenazirov/plate-changer/internal/plates"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage inventory.Storage
	planner *planner.Planner
	metrics *metrics.Metrics
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	m := metrics.New()
	p, totals, err := NewPlanner(cfg, logger, planner.WithObserver(m))
	if err != nil {
		return nil, err
	}
	catalogue := p.Catalogue()

	store, err := inventory.NewMemoryStorage(catalogue, totals)
	if err != nil {
		return nil, fmt.Errorf("failed to apply initial inventory: %w", err)
	}

	handler := api.NewHandler(p, store)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithMetrics(m, m.Handler()),
	)

	logger.Info("plate catalogue loaded",
		zap.String("bar_kg", catalogue.BarKg().String()),
		zap.Strings("plates_kg", catalogue.Labels()),
		zap.Ints("inventory", totals),
	)

	return &App{
		storage: store,
		planner: p,
		metrics: m,
		handler: handler,
		router:  apiRouter,
		logger:  logger,
		server:  NewServer(cfg, BuildRootHandler(apiRouter)),
	}, nil
}

// NewPlanner builds the plate catalogue, solver and planner described by cfg.
// It also returns the configured inventory totals in catalogue order.
func NewPlanner(cfg config.Config, logger *zap.Logger, opts ...planner.Option) (*planner.Planner, []int, error) {
	catalogue, err := cfg.Catalogue()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build plate catalogue: %w", err)
	}

	totals, err := inventory.FromMap(catalogue, cfg.InventoryTotals)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to apply initial inventory: %w", err)
	}

	solver, err := plates.New(catalogue.Units(),
		plates.WithCombinationLimit(cfg.CombinationLimit),
		plates.WithPairingLimit(cfg.PairingLimit),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create solver: %w", err)
	}

	opts = append([]planner.Option{
		planner.WithMaxTotalKg(cfg.MaxTotalKg),
		planner.WithLogger(logger.Named("planner")),
	}, opts...)
	p, err := planner.New(catalogue, solver, totals, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create planner: %w", err)
	}
	return p, totals, nil
}

// BuildRootHandler routes API and metrics traffic to apiHandler and answers
// 404 for everything else.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/metrics", apiHandler)
	mux.Handle("/", http.NotFoundHandler())
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
