package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MichalMitros/cms-sync/internal/cms"
	"github.com/MichalMitros/cms-sync/internal/fallback"
	"github.com/MichalMitros/cms-sync/internal/platform"
	"github.com/MichalMitros/cms-sync/internal/platform/models"
	"github.com/MichalMitros/cms-sync/internal/syncer"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

//go:generate mockery --name FallbackService --filename fallback_service.go
//go:generate mockery --name SyncRunner --filename sync_runner.go
//go:generate mockery --name RunStore --filename run_store.go
//go:generate mockery --name CMSMonitor --filename cms_monitor.go

const defaultHistoryLimit = 10

// FallbackService serves products with fallback and owns sync status.
type FallbackService interface {
	Products(ctx context.Context, filters models.ProductFilters) fallback.ProductsResult
	Product(ctx context.Context, slug string) fallback.ProductResult
	SyncStatus(ctx context.Context) models.SyncStatus
	Strategy() fallback.Strategy
	SetStrategy(strategy fallback.Strategy)
	CircuitBreakerStatus() fallback.BreakerStatus
	ResetCircuitBreaker()
	ClearCache(ctx context.Context)
}

// SyncRunner starts synchronization in background and reports its state.
type SyncRunner interface {
	TriggerSync(ctx context.Context, opts syncer.Options) error
	Status() syncer.Status
}

// RunStore reads persisted synchronization results.
type RunStore interface {
	ListSyncRuns(ctx context.Context, limit int) ([]models.SyncResult, error)
}

// CMSMonitor checks CMS availability and manages its response cache.
type CMSMonitor interface {
	TestConnection(ctx context.Context) cms.ConnectionResult
	HealthStatus(ctx context.Context) cms.HealthStatus
	ClearCache(ctx context.Context) error
}

// API is admin and storefront HTTP API.
type API struct {
	fallback FallbackService
	runner   SyncRunner
	runs     RunStore
	cms      CMSMonitor
	metrics  http.Handler
}

// NewAPI returns new API.
func NewAPI(fallbackService FallbackService, runner SyncRunner, runs RunStore, cmsMonitor CMSMonitor, metrics http.Handler) *API {
	return &API{
		fallback: fallbackService,
		runner:   runner,
		runs:     runs,
		cms:      cmsMonitor,
		metrics:  metrics,
	}
}

// Routes returns router with all API routes and access logging.
func (a *API) Routes(logger *zerolog.Logger) http.Handler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	r := chi.NewRouter()
	r.Use(
		hlog.NewHandler(*logger),
		hlog.RequestIDHandler("requestId", "Request-Id"),
		hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			hlog.FromRequest(r).Debug().
				Str("method", r.Method).
				Stringer("url", r.URL).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("request handled")
		}),
		middleware.Recoverer,
	)

	r.Get("/products", a.listProducts)
	r.Get("/products/{slug}", a.getProduct)

	r.Get("/sync/status", a.syncStatus)
	r.Get("/sync/history", a.syncHistory)
	r.Post("/sync", a.triggerSync)

	r.Post("/circuit-breaker/reset", a.resetCircuitBreaker)
	r.Put("/fallback/strategy", a.setStrategy)
	r.Delete("/cache", a.clearCache)

	r.Get("/cms/connection", a.cmsConnection)
	r.Get("/cms/health", a.cmsHealth)

	if a.metrics != nil {
		r.Method(http.MethodGet, "/metrics", a.metrics)
	}

	return r
}

type syncStatusResponse struct {
	Status         models.SyncStatus      `json:"status"`
	Sync           syncer.Status          `json:"sync"`
	CircuitBreaker fallback.BreakerStatus `json:"circuitBreaker"`
	Strategy       fallback.Strategy      `json:"strategy"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, err := intParam(query.Get("limit"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid limit: %w", err))
		return
	}
	offset, err := intParam(query.Get("offset"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid offset: %w", err))
		return
	}

	result := a.fallback.Products(r.Context(), models.ProductFilters{
		Category: query.Get("category"),
		Limit:    limit,
		Offset:   offset,
	})

	writeJSON(w, r, http.StatusOK, result)
}

func (a *API) getProduct(w http.ResponseWriter, r *http.Request) {
	result := a.fallback.Product(r.Context(), chi.URLParam(r, "slug"))
	if result.Product == nil {
		writeJSON(w, r, http.StatusNotFound, result)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

func (a *API) syncStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, syncStatusResponse{
		Status:         a.fallback.SyncStatus(r.Context()),
		Sync:           a.runner.Status(),
		CircuitBreaker: a.fallback.CircuitBreakerStatus(),
		Strategy:       a.fallback.Strategy(),
	})
}

func (a *API) syncHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid limit: %w", err))
		return
	}
	if limit == 0 {
		limit = defaultHistoryLimit
	}

	runs, err := a.runs.ListSyncRuns(r.Context(), limit)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []models.SyncResult{}
	}

	writeJSON(w, r, http.StatusOK, runs)
}

func (a *API) triggerSync(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dryRun, err := boolParam(query.Get("dryRun"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid dryRun: %w", err))
		return
	}
	force, err := boolParam(query.Get("force"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid force: %w", err))
		return
	}

	err = a.runner.TriggerSync(r.Context(), syncer.Options{
		Category:    query.Get("category"),
		DryRun:      dryRun,
		ForceUpdate: force,
	})
	if errors.Is(err, platform.ErrSyncInProgress) {
		writeError(w, r, http.StatusConflict, err)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, r, http.StatusAccepted, messageResponse{Message: "sync started"})
}

func (a *API) resetCircuitBreaker(w http.ResponseWriter, r *http.Request) {
	a.fallback.ResetCircuitBreaker()

	writeJSON(w, r, http.StatusOK, a.fallback.CircuitBreakerStatus())
}

func (a *API) setStrategy(w http.ResponseWriter, r *http.Request) {
	strategy, err := fallback.ParseStrategy(r.URL.Query().Get("strategy"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	a.fallback.SetStrategy(strategy)

	writeJSON(w, r, http.StatusOK, struct {
		Strategy fallback.Strategy `json:"strategy"`
	}{Strategy: strategy})
}

func (a *API) clearCache(w http.ResponseWriter, r *http.Request) {
	a.fallback.ClearCache(r.Context())

	if err := a.cms.ClearCache(r.Context()); err != nil {
		writeError(w, r, http.StatusInternalServerError, fmt.Errorf("can't clear cms cache: %w", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) cmsConnection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, a.cms.TestConnection(r.Context()))
}

func (a *API) cmsHealth(w http.ResponseWriter, r *http.Request) {
	health := a.cms.HealthStatus(r.Context())
	if !health.Healthy {
		writeJSON(w, r, http.StatusServiceUnavailable, health)
		return
	}

	writeJSON(w, r, http.StatusOK, health)
}

func intParam(value string) (int, error) {
	if value == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}

	return n, nil
}

func boolParam(value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().
			Err(err).
			Msg("request failed")
	}

	writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		hlog.FromRequest(r).Error().
			Err(err).
			Msg("can't encode response")
	}
}
