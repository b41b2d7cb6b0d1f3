package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MichalMitros/cms-sync/internal/cache"
	"github.com/MichalMitros/cms-sync/internal/platform/metrics"
	"github.com/MichalMitros/cms-sync/internal/platform/models"
	"github.com/rs/zerolog"
)

// ConnectionStatus is outcome of connection test.
type ConnectionStatus string

// Connection test outcomes.
const (
	ConnectionConnected    ConnectionStatus = "connected"
	ConnectionUnauthorized ConnectionStatus = "unauthorized"
	ConnectionTimeout      ConnectionStatus = "timeout"
	ConnectionError        ConnectionStatus = "error"
)

// ConnectionResult is result of connection test.
type ConnectionResult struct {
	Status       ConnectionStatus `json:"status"`
	ResponseTime time.Duration    `json:"responseTime"`
	Message      string           `json:"message,omitempty"`
}

// HealthStatus is result of CMS health check.
type HealthStatus struct {
	Healthy      bool          `json:"isHealthy"`
	Version      string        `json:"version,omitempty"`
	ResponseTime time.Duration `json:"responseTime"`
	CheckedAt    time.Time     `json:"checkedAt"`
	Message      string        `json:"message,omitempty"`
}

// Clock provides current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// Now returns current UTC time.
func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Option is custom configuration of Client.
type Option func(c *Client)

// Client reads products from configured CMS.
type Client struct {
	cfg        Config
	adapter    Adapter
	fetcher    *fetcher
	cache      cache.Cache[[]models.Product]
	httpClient *http.Client
	backoff    Backoff
	clock      Clock
	logger     *zerolog.Logger
	metrics    *metrics.Metrics
}

// NewClient returns new Client. Returns error wrapping ErrInvalidConfig when cfg is invalid.
func NewClient(cfg Config, ops ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	adapter, err := NewAdapter(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	nop := zerolog.Nop()
	cli := &Client{
		cfg:        cfg,
		adapter:    adapter,
		httpClient: http.DefaultClient,
		backoff:    ExponentialBackoff,
		clock:      systemClock{},
		logger:     &nop,
	}
	if cfg.EnableCache {
		cli.cache = cache.NewMemory[[]models.Product]()
	}

	for _, op := range ops {
		op(cli)
	}

	if !cfg.EnableCache {
		cli.cache = nil
	}

	cli.fetcher = &fetcher{
		client:        cli.httpClient,
		adapter:       adapter,
		timeout:       cfg.Timeout,
		retryAttempts: cfg.RetryAttempts,
		backoff:       cli.backoff,
		logger:        cli.logger,
		metrics:       cli.metrics,
	}

	return cli, nil
}

// Config returns copy of client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Provider returns configured provider.
func (c *Client) Provider() Provider {
	return c.cfg.Provider
}

// TestConnection makes single health check request and reports its outcome.
func (c *Client) TestConnection(ctx context.Context) ConnectionResult {
	start := c.clock.Now()
	_, err := c.fetcher.fetchWithTimeout(ctx, c.adapter.HealthCheckURL())
	result := ConnectionResult{
		Status:       ConnectionConnected,
		ResponseTime: c.clock.Now().Sub(start),
	}

	switch {
	case err == nil:
		result.Message = "connected to " + string(c.cfg.Provider)
	case errors.Is(err, ErrUnauthorized):
		result.Status = ConnectionUnauthorized
		result.Message = err.Error()
	case errors.Is(err, ErrTimeout):
		result.Status = ConnectionTimeout
		result.Message = err.Error()
	default:
		result.Status = ConnectionError
		result.Message = err.Error()
	}

	return result
}

// HealthStatus makes single health check request and reads reported version.
func (c *Client) HealthStatus(ctx context.Context) HealthStatus {
	start := c.clock.Now()
	body, err := c.fetcher.fetchWithTimeout(ctx, c.adapter.HealthCheckURL())
	now := c.clock.Now()

	status := HealthStatus{
		Healthy:      err == nil,
		ResponseTime: now.Sub(start),
		CheckedAt:    now,
	}
	if err != nil {
		status.Message = err.Error()
		return status
	}

	var health struct {
		Version string `json:"version"`
	}
	if json.Unmarshal(body, &health) == nil {
		status.Version = health.Version
	}

	return status
}

// Products returns products matching filters, served from cache when enabled and valid.
func (c *Client) Products(ctx context.Context, filters models.ProductFilters) ([]models.Product, error) {
	key := "products:" + filters.Key()
	if products, ok := c.cached(ctx, key); ok {
		return products, nil
	}

	body, err := c.fetcher.fetchWithRetry(ctx, c.adapter.ProductsURL(filters))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	products, err := c.adapter.TransformProducts(body)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	c.store(ctx, key, products)

	return products, nil
}

// Product returns product with slug. Returns nil product and no error when CMS has no such product.
func (c *Client) Product(ctx context.Context, slug string) (*models.Product, error) {
	key := "product:" + slug
	if products, ok := c.cached(ctx, key); ok && len(products) > 0 {
		return &products[0], nil
	}

	body, err := c.fetcher.fetchWithRetry(ctx, c.adapter.ProductURL(slug))
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.NotFound() {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", slug, err)
	}

	product, err := c.adapter.TransformProduct(body)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", slug, err)
	}
	if product == nil {
		return nil, nil
	}

	c.store(ctx, key, []models.Product{*product})

	return product, nil
}

// ClearCache removes cached responses.
func (c *Client) ClearCache(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Clear(ctx)
}

func (c *Client) cached(ctx context.Context, key string) ([]models.Product, bool) {
	if c.cache == nil {
		return nil, false
	}

	products, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("key", key).
			Msg("can't read cms cache")
		return nil, false
	}

	return products, ok
}

func (c *Client) store(ctx context.Context, key string, products []models.Product) {
	if c.cache == nil {
		return
	}

	if err := c.cache.Set(ctx, key, products, c.cfg.CacheTTL); err != nil {
		c.logger.Warn().
			Err(err).
			Str("key", key).
			Msg("can't write cms cache")
	}
}

// WithHTTPClient sets Client's custom http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithCache sets Client's custom response cache. Ignored when cache is disabled in config.
func WithCache(responses cache.Cache[[]models.Product]) Option {
	return func(c *Client) {
		c.cache = responses
	}
}

// WithBackoff sets Client's custom retry backoff.
func WithBackoff(backoff Backoff) Option {
	return func(c *Client) {
		c.backoff = backoff
	}
}

// WithClock sets Client's custom Clock.
func WithClock(clock Clock) Option {
	return func(c *Client) {
		c.clock = clock
	}
}

// WithLogger sets Client's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics sets Client's metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}
