package fallback

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/MichalMitros/cms-sync/internal/cache"
	"github.com/MichalMitros/cms-sync/internal/platform"
	"github.com/MichalMitros/cms-sync/internal/platform/metrics"
	"github.com/MichalMitros/cms-sync/internal/platform/models"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

//go:generate mockery --name CMSClient --filename cms_client.go
//go:generate mockery --name ProductStore --filename product_store.go
//go:generate mockery --name StatusStore --filename status_store.go

// DefaultCacheTTL is time products fetched from CMS stay cached.
const DefaultCacheTTL = 5 * time.Minute

// CMSClient reads products from CMS.
type CMSClient interface {
	Products(ctx context.Context, filters models.ProductFilters) ([]models.Product, error)
	// Product returns nil product without error when slug does not exist.
	Product(ctx context.Context, slug string) (*models.Product, error)
}

// ProductStore reads local copies of products.
type ProductStore interface {
	ListProducts(ctx context.Context, filters models.ProductFilters) ([]models.LocalProduct, error)
	// ProductBySlug returns platform.ErrNotFound when slug does not exist.
	ProductBySlug(ctx context.Context, slug string) (*models.LocalProduct, error)
}

// StatusStore persists synchronization health.
type StatusStore interface {
	// SyncStatus returns platform.ErrNotFound when no sync was ever recorded.
	SyncStatus(ctx context.Context) (*models.SyncStatus, error)
	SaveSyncStatus(ctx context.Context, success bool, errMsg string, at time.Time) error
}

// Clock provides current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Source is origin of served data.
type Source string

// Data sources.
const (
	SourceCMS   Source = "cms"
	SourceLocal Source = "local"
	SourceCache Source = "cache"
	SourceNone  Source = "none"
)

// Strategy is preference order of data sources.
type Strategy string

// Fallback strategies.
const (
	// StrategyCMSFirst tries CMS, then cache, then local store.
	StrategyCMSFirst Strategy = "cms-first"
	// StrategyCacheFirst tries cache, then local store. CMS is never consulted.
	StrategyCacheFirst Strategy = "cache-first"
	// StrategyLocalOnly reads local store only.
	StrategyLocalOnly Strategy = "local-only"
)

// ErrUnknownStrategy is returned when strategy name is not recognized.
var ErrUnknownStrategy = errors.New("unknown fallback strategy")

// ParseStrategy returns strategy by its name.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(name); s {
	case StrategyCMSFirst, StrategyCacheFirst, StrategyLocalOnly:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Meta describes where result came from.
type Meta struct {
	Source             Source `json:"source"`
	IsStale            bool   `json:"isStale"`
	Error              string `json:"error,omitempty"`
	CircuitBreakerOpen bool   `json:"circuitBreakerOpen"`
}

// Degraded reports whether result did not come from live CMS call.
func (m Meta) Degraded() bool {
	return m.Source != SourceCMS
}

// ProductsResult is products listing served by Service.
type ProductsResult struct {
	Products []models.Product `json:"products"`
	Meta
}

// ProductResult is single product served by Service. Product is nil when not found.
type ProductResult struct {
	Product *models.Product `json:"product"`
	Meta
}

// Option is custom configuration of Service.
type Option func(s *Service)

// Service serves products from CMS, cache or local store, whichever is available.
// None of its methods fail: every failure is reported in returned result.
type Service struct {
	client    CMSClient
	products  ProductStore
	status    StatusStore
	cache     cache.Cache[[]models.Product]
	cacheTTL  time.Duration
	threshold int
	recovery  time.Duration
	breaker   *Breaker
	clock     Clock
	logger    *zerolog.Logger
	metrics   *metrics.Metrics

	mu       sync.RWMutex
	strategy Strategy
}

// NewService returns new Service using StrategyCMSFirst and in-memory cache by default.
func NewService(client CMSClient, products ProductStore, status StatusStore, ops ...Option) *Service {
	nop := zerolog.Nop()
	svc := &Service{
		client:    client,
		products:  products,
		status:    status,
		cacheTTL:  DefaultCacheTTL,
		threshold: DefaultFailureThreshold,
		recovery:  DefaultRecoveryTimeout,
		clock:     systemClock{},
		logger:    &nop,
		strategy:  StrategyCMSFirst,
	}

	for _, op := range ops {
		op(svc)
	}

	if svc.cache == nil {
		svc.cache = cache.NewMemory[[]models.Product](cache.WithClock(svc.clock))
	}
	svc.breaker = NewBreaker(svc.threshold, svc.recovery, svc.clock, svc.onBreakerChange)

	return svc
}

// Products returns products matching filters from the freshest available source.
func (s *Service) Products(ctx context.Context, filters models.ProductFilters) ProductsResult {
	key := "products:" + filters.Key()

	result := fallbackRead(ctx, s, key, readers[[]models.Product]{
		cms: func(ctx context.Context) ([]models.Product, error) {
			return s.client.Products(ctx, filters)
		},
		local: func(ctx context.Context) ([]models.Product, error) {
			local, err := s.products.ListProducts(ctx, filters)
			if err != nil {
				return nil, err
			}
			return lo.Map(local, func(p models.LocalProduct, _ int) models.Product {
				return p.ToProduct()
			}), nil
		},
		toCache:   func(products []models.Product) ([]models.Product, bool) { return products, true },
		fromCache: func(products []models.Product) []models.Product { return products },
		empty:     []models.Product{},
	})

	return ProductsResult{Products: result.data, Meta: result.meta}
}

// Product returns product by slug from the freshest available source.
func (s *Service) Product(ctx context.Context, slug string) ProductResult {
	key := "product:" + slug

	result := fallbackRead(ctx, s, key, readers[*models.Product]{
		cms: func(ctx context.Context) (*models.Product, error) {
			return s.client.Product(ctx, slug)
		},
		local: func(ctx context.Context) (*models.Product, error) {
			local, err := s.products.ProductBySlug(ctx, slug)
			if errors.Is(err, platform.ErrNotFound) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return lo.ToPtr(local.ToProduct()), nil
		},
		toCache: func(product *models.Product) ([]models.Product, bool) {
			if product == nil {
				return nil, false
			}
			return []models.Product{*product}, true
		},
		fromCache: func(products []models.Product) *models.Product {
			if len(products) == 0 {
				return nil
			}
			return &products[0]
		},
	})

	return ProductResult{Product: result.data, Meta: result.meta}
}

type readers[T any] struct {
	cms       func(ctx context.Context) (T, error)
	local     func(ctx context.Context) (T, error)
	toCache   func(T) ([]models.Product, bool)
	fromCache func([]models.Product) T
	empty     T
}

type read[T any] struct {
	data T
	meta Meta
}

// fallbackRead walks data sources in order given by active strategy.
func fallbackRead[T any](ctx context.Context, s *Service, key string, r readers[T]) read[T] {
	strategy := s.Strategy()
	log := s.logger.With().Str("key", key).Str("strategy", string(strategy)).Logger()

	var cmsErr error
	if strategy == StrategyCMSFirst {
		data, err := fromCMS(ctx, s.breaker, r.cms)
		if err == nil {
			if value, ok := r.toCache(data); ok {
				if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
					log.Warn().Err(err).Msg("can't cache cms response")
				}
			}
			return respond(s, data, SourceCMS)
		}
		log.Warn().Err(err).Msg("cms unavailable, falling back")
		cmsErr = fmt.Errorf("CMS unavailable: %w", err)
	}

	if strategy != StrategyLocalOnly {
		if cached, ok := s.cached(ctx, &log, key); ok {
			return respond(s, r.fromCache(cached), SourceCache, cmsErr)
		}
	}

	data, err := r.local(ctx)
	if err == nil {
		return respond(s, data, SourceLocal, cmsErr)
	}
	log.Error().Err(err).Msg("local store unavailable")
	localErr := fmt.Errorf("local store unavailable: %w", err)

	// Last resort, expired cache entry is better than nothing.
	if cached, ok := s.stale(ctx, &log, key); ok {
		return respond(s, r.fromCache(cached), SourceCache, cmsErr, localErr)
	}

	return respond(s, r.empty, SourceNone, cmsErr, localErr)
}

func fromCMS[T any](ctx context.Context, breaker *Breaker, call func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	done, err := breaker.Allow()
	if err != nil {
		return zero, err
	}

	data, err := call(ctx)
	done(err == nil)
	if err != nil {
		return zero, err
	}

	return data, nil
}

func respond[T any](s *Service, data T, source Source, errs ...error) read[T] {
	s.metrics.FallbackResponse(string(source))

	messages := lo.FilterMap(errs, func(err error, _ int) (string, bool) {
		if err == nil {
			return "", false
		}
		return err.Error(), true
	})

	return read[T]{
		data: data,
		meta: Meta{
			Source:             source,
			IsStale:            source != SourceCMS,
			Error:              strings.Join(messages, "; "),
			CircuitBreakerOpen: s.breaker.Open(),
		},
	}
}

func (s *Service) cached(ctx context.Context, log *zerolog.Logger, key string) ([]models.Product, bool) {
	products, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("can't read cache")
		return nil, false
	}
	return products, ok
}

func (s *Service) stale(ctx context.Context, log *zerolog.Logger, key string) ([]models.Product, bool) {
	products, ok, err := s.cache.GetStale(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("can't read stale cache")
		return nil, false
	}
	return products, ok
}

// SyncStatus returns persisted synchronization health merged with live circuit breaker state.
func (s *Service) SyncStatus(ctx context.Context) models.SyncStatus {
	status := models.SyncStatus{DaysSinceLastSync: math.Inf(1)}

	stored, err := s.status.SyncStatus(ctx)
	switch {
	case errors.Is(err, platform.ErrNotFound):
	case err != nil:
		s.logger.Error().Err(err).Msg("can't read sync status")
		status.LastError = lo.ToPtr(fmt.Sprintf("can't read sync status: %s", err))
	case stored != nil:
		status = *stored
		status.DaysSinceLastSync = math.Inf(1)
	}

	if status.LastSuccessfulSync != nil {
		status.DaysSinceLastSync = s.clock.Now().Sub(*status.LastSuccessfulSync).Hours() / 24
	}
	status.CircuitBreakerOpen = s.breaker.Open()

	return status
}

// UpdateSyncStatus records outcome of synchronization attempt.
func (s *Service) UpdateSyncStatus(ctx context.Context, success bool, errMsg string) {
	if err := s.status.SaveSyncStatus(ctx, success, errMsg, s.clock.Now()); err != nil {
		s.logger.Error().Err(err).Bool("success", success).Msg("can't save sync status")
	}
}

// Strategy returns active fallback strategy.
func (s *Service) Strategy() Strategy {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.strategy
}

// SetStrategy changes active fallback strategy.
func (s *Service) SetStrategy(strategy Strategy) {
	s.mu.Lock()
	s.strategy = strategy
	s.mu.Unlock()

	s.logger.Info().Str("strategy", string(strategy)).Msg("fallback strategy changed")
}

// CircuitBreakerStatus returns circuit breaker snapshot.
func (s *Service) CircuitBreakerStatus() BreakerStatus {
	return s.breaker.Status()
}

// ResetCircuitBreaker closes circuit breaker and clears its failures.
func (s *Service) ResetCircuitBreaker() {
	s.breaker.Reset()
	s.logger.Info().Msg("circuit breaker reset")
}

// ClearCache drops all cached products.
func (s *Service) ClearCache(ctx context.Context) {
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Error().Err(err).Msg("can't clear cache")
	}
}

func (s *Service) onBreakerChange(open bool) {
	s.metrics.BreakerOpen(open)
	if open {
		s.logger.Warn().Msg("circuit breaker opened")
		return
	}
	s.logger.Info().Msg("circuit breaker closed")
}

// WithStrategy sets initial fallback strategy.
func WithStrategy(strategy Strategy) Option {
	return func(s *Service) {
		s.strategy = strategy
	}
}

// WithCache sets products cache.
func WithCache(c cache.Cache[[]models.Product]) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithCacheTTL sets time CMS responses stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithBreakerSettings sets consecutive failures opening circuit breaker and its recovery timeout.
func WithBreakerSettings(threshold int, recovery time.Duration) Option {
	return func(s *Service) {
		if threshold > 0 {
			s.threshold = threshold
		}
		if recovery > 0 {
			s.recovery = recovery
		}
	}
}

// WithClock sets clock.
func WithClock(c Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithLogger sets logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}
