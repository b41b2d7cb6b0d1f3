package syncer

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MichalMitros/cms-sync/internal/platform"
	"github.com/MichalMitros/cms-sync/internal/platform/metrics"
	"github.com/MichalMitros/cms-sync/internal/platform/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

//go:generate mockery --name CMSClient --filename cms_client.go
//go:generate mockery --name Storage --filename storage.go
//go:generate mockery --name StatusRecorder --filename status_recorder.go
//go:generate mockery --name RunStore --filename run_store.go

const (
	// DefaultBatchSize is number of products processed together.
	DefaultBatchSize = 10
	// DefaultPageSize is number of remote products fetched per request.
	DefaultPageSize = 100
	historySize     = 10
)

// CMSClient reads remote products.
type CMSClient interface {
	Products(ctx context.Context, filters models.ProductFilters) ([]models.Product, error)
}

// Storage is local products storage.
type Storage interface {
	// ListProductRefs returns minimal projection of all local products.
	ListProductRefs(ctx context.Context) ([]models.ProductRef, error)
	// UpsertProduct creates or updates product by slug.
	UpsertProduct(ctx context.Context, product models.LocalProduct) error
	// DeleteProduct deletes product by id.
	DeleteProduct(ctx context.Context, id int) error
}

// StatusRecorder records outcome of every synchronization attempt.
type StatusRecorder interface {
	UpdateSyncStatus(ctx context.Context, success bool, errMsg string)
}

// RunStore persists synchronization results.
type RunStore interface {
	InsertSyncRun(ctx context.Context, result models.SyncResult) error
}

// Clock provides times.
type Clock interface {
	// Now returns current UTC time.
	Now() time.Time
}

// Options narrow and modify single synchronization run.
type Options struct {
	// Category limits synchronization to single category. Removals are skipped for category syncs.
	Category string `json:"category,omitempty"`
	// DryRun counts changes without writing them.
	DryRun bool `json:"dryRun"`
	// ForceUpdate updates products regardless of their update times.
	ForceUpdate bool `json:"forceUpdate"`
}

// Step is stage of synchronization run.
type Step string

// Synchronization steps.
const (
	StepIdle              Step = "idle"
	StepFetchingRemote    Step = "fetching-remote"
	StepLoadingLocal      Step = "loading-local"
	StepProcessingBatches Step = "processing-batches"
	StepHandlingRemovals  Step = "handling-removals"
	StepCompleted         Step = "completed"
	StepError             Step = "error"
)

// Status is observable state of Syncer.
type Status struct {
	Running    bool                `json:"isRunning"`
	Step       Step                `json:"currentStep"`
	Progress   int                 `json:"progress"`
	LastResult *models.SyncResult  `json:"lastResult,omitempty"`
	History    []models.SyncResult `json:"history"`
}

// Option is custom configuration of Syncer.
type Option func(s *Syncer)

// Syncer reconciles remote CMS products into local storage.
// Only one synchronization may run at a time.
type Syncer struct {
	client       CMSClient
	storage      Storage
	batchSize    int
	pageSize     int
	clock        Clock
	logger       *zerolog.Logger
	imageOptions ImageOptions
	recorder     StatusRecorder
	runs         RunStore
	metrics      *metrics.Metrics

	mu      sync.Mutex
	status  Status
	running sync.WaitGroup
}

// NewSyncer returns new Syncer.
func NewSyncer(client CMSClient, storage Storage, ops ...Option) *Syncer {
	nop := zerolog.Nop()
	syn := &Syncer{
		client:       client,
		storage:      storage,
		batchSize:    DefaultBatchSize,
		pageSize:     DefaultPageSize,
		clock:        systemClock{},
		logger:       &nop,
		imageOptions: DefaultImageOptions,
		status:       Status{Step: StepIdle, History: []models.SyncResult{}},
	}

	for _, op := range ops {
		op(syn)
	}

	return syn
}

// SyncProducts runs synchronization and returns its result.
// Returns platform.ErrSyncInProgress when another run is active
// and error when remote products can't be fetched.
func (s *Syncer) SyncProducts(ctx context.Context, opts Options) (models.SyncResult, error) {
	if err := s.begin(); err != nil {
		return models.SyncResult{}, err
	}

	return s.run(ctx, opts)
}

// TriggerSync starts synchronization in background, detached from ctx cancellation.
// Returns platform.ErrSyncInProgress when another run is active.
func (s *Syncer) TriggerSync(ctx context.Context, opts Options) error {
	if err := s.begin(); err != nil {
		return err
	}

	s.running.Add(1)
	go func() {
		defer s.running.Done()
		if _, err := s.run(context.WithoutCancel(ctx), opts); err != nil {
			s.logger.Error().
				Err(err).
				Msg("triggered sync failed")
		}
	}()

	return nil
}

// Wait blocks until triggered synchronizations finish.
func (s *Syncer) Wait() {
	s.running.Wait()
}

// Status returns current state and recent results.
func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := s.status
	status.History = slices.Clone(s.status.History)
	if s.status.LastResult != nil {
		last := *s.status.LastResult
		status.LastResult = &last
	}

	return status
}

// TransformProduct converts remote product into local record with optimized images and flattened colors.
func (s *Syncer) TransformProduct(product models.Product) models.LocalProduct {
	optimize := func(images []string) []string {
		return lo.Map(images, func(image string, _ int) string { return OptimizeImageURL(image, s.imageOptions) })
	}

	variants := lo.Map(product.Variants, func(v models.Variant, _ int) models.Variant {
		v.Images = optimize(v.Images)
		return v
	})

	colors := lo.Uniq(lo.FilterMap(product.Variants, func(v models.Variant, _ int) (string, bool) {
		return v.Color, v.Color != ""
	}))

	return models.LocalProduct{
		Slug:        product.Slug,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		Images:      optimize(product.Images),
		Colors:      colors,
		Variants:    variants,
		Tags:        lo.Ternary(product.Tags == nil, []string{}, product.Tags),
		InStock:     product.InStock,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
		SyncedAt:    s.clock.Now(),
	}
}

// ShouldUpdateProduct reports whether local product needs update from remote one.
func ShouldUpdateProduct(remote models.Product, local models.ProductRef, force bool) bool {
	return force || remote.UpdatedAt.After(local.UpdatedAt)
}

func (s *Syncer) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Running {
		return platform.ErrSyncInProgress
	}

	s.status.Running = true
	s.status.Progress = 0
	s.status.Step = StepFetchingRemote

	return nil
}

func (s *Syncer) run(ctx context.Context, opts Options) (models.SyncResult, error) {
	start := s.clock.Now()
	result := models.SyncResult{
		ID:       uuid.New(),
		DryRun:   opts.DryRun,
		Category: opts.Category,
		Errors:   []models.SyncError{},
	}

	s.logger.Info().
		Str("syncId", result.ID.String()).
		Str("category", opts.Category).
		Bool("dryRun", opts.DryRun).
		Bool("forceUpdate", opts.ForceUpdate).
		Msg("sync started")

	// fetch remote products.
	remote, err := s.fetchRemote(ctx, opts.Category)
	if err != nil {
		result.Errors = append(result.Errors, models.SyncError{Op: models.OpFetch, Err: err})
		s.finish(ctx, &result, start)
		return result, fmt.Errorf("can't fetch remote products: %w", err)
	}
	s.setProgress(StepLoadingLocal, 10)

	// load local products.
	local, loaded := s.loadLocal(ctx, &result)
	s.setProgress(StepProcessingBatches, 20)

	// process remote products in batches.
	remote = s.dedupe(remote)
	remoteSlugs := make(map[string]struct{}, len(remote))
	batches := lo.Chunk(remote, s.batchSize)
	for ix, batch := range batches {
		for _, product := range batch {
			if product.Slug != "" {
				remoteSlugs[product.Slug] = struct{}{}
			}
		}
		s.processBatch(ctx, batch, local, opts, &result)
		s.setProgress(StepProcessingBatches, 20+70*(ix+1)/len(batches))
	}

	// delete products missing from full remote catalog.
	if opts.Category == "" && loaded {
		s.setProgress(StepHandlingRemovals, 90)
		s.handleRemovals(ctx, local, remoteSlugs, opts, &result)
	}

	result.Success = true
	s.finish(ctx, &result, start)

	return result, nil
}

// fetchRemote pages through remote catalog until short page.
// Stops early when page brings no new products, as with providers ignoring offset.
func (s *Syncer) fetchRemote(ctx context.Context, category string) ([]models.Product, error) {
	var (
		products []models.Product
		seen     = make(map[string]struct{})
	)

	for offset := 0; ; {
		page, err := s.client.Products(ctx, models.ProductFilters{
			Category: category,
			Limit:    s.pageSize,
			Offset:   offset,
		})
		if err != nil {
			return nil, err
		}

		fresh := lo.CountBy(page, func(p models.Product) bool {
			_, ok := seen[p.Slug]
			return !ok
		})
		if fresh == 0 {
			return products, nil
		}
		for _, product := range page {
			seen[product.Slug] = struct{}{}
		}
		products = append(products, page...)

		if len(page) < s.pageSize {
			return products, nil
		}
		offset += len(page)
	}
}

// dedupe keeps last occurrence of every slug at position of its first one.
// Products without slug are kept, they fail validation later.
func (s *Syncer) dedupe(products []models.Product) []models.Product {
	positions := make(map[string]int, len(products))
	results := make([]models.Product, 0, len(products))

	for _, product := range products {
		if ix, ok := positions[product.Slug]; ok && product.Slug != "" {
			results[ix] = product
			continue
		}
		positions[product.Slug] = len(results)
		results = append(results, product)
	}

	if duplicates := len(products) - len(results); duplicates > 0 {
		s.logger.Warn().
			Int("duplicates", duplicates).
			Msg("remote catalog contains duplicated slugs, keeping last occurrences")
	}

	return results
}

func (s *Syncer) loadLocal(ctx context.Context, result *models.SyncResult) (map[string]models.ProductRef, bool) {
	refs, err := s.storage.ListProductRefs(ctx)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Msg("can't load local products, treating all remote products as new")
		result.Errors = append(result.Errors, models.SyncError{Op: models.OpLoad, Err: err})
		return map[string]models.ProductRef{}, false
	}

	return lo.KeyBy(refs, func(ref models.ProductRef) string { return ref.Slug }), true
}

type itemOutcome int

const (
	outcomeUnchanged itemOutcome = iota
	outcomeAdded
	outcomeUpdated
	outcomeFailed
)

// processBatch upserts batch concurrently, outcomes are aggregated in batch order.
func (s *Syncer) processBatch(
	ctx context.Context,
	batch []models.Product,
	local map[string]models.ProductRef,
	opts Options,
	result *models.SyncResult,
) {
	outcomes := make([]itemOutcome, len(batch))
	errs := make([]*models.SyncError, len(batch))

	errGroup := errgroup.Group{}
	for ix := range batch {
		ix := ix
		errGroup.Go(func() error {
			outcomes[ix], errs[ix] = s.processProduct(ctx, batch[ix], local, opts)
			return nil
		})
	}
	_ = errGroup.Wait()

	for ix := range batch {
		switch outcomes[ix] {
		case outcomeAdded:
			result.ProductsAdded++
		case outcomeUpdated:
			result.ProductsUpdated++
		case outcomeFailed:
			result.Errors = append(result.Errors, *errs[ix])
		}
	}
}

func (s *Syncer) processProduct(
	ctx context.Context,
	product models.Product,
	local map[string]models.ProductRef,
	opts Options,
) (itemOutcome, *models.SyncError) {
	if err := validate(product); err != nil {
		return outcomeFailed, &models.SyncError{Slug: product.Slug, Op: models.OpValidate, Err: err}
	}

	outcome := outcomeAdded
	if ref, ok := local[product.Slug]; ok {
		if !ShouldUpdateProduct(product, ref, opts.ForceUpdate) {
			return outcomeUnchanged, nil
		}
		outcome = outcomeUpdated
	}

	if opts.DryRun {
		return outcome, nil
	}

	if err := s.storage.UpsertProduct(ctx, s.TransformProduct(product)); err != nil {
		s.logger.Warn().
			Err(err).
			Str("slug", product.Slug).
			Msg("can't upsert product")
		return outcomeFailed, &models.SyncError{Slug: product.Slug, Op: models.OpUpsert, Err: err}
	}

	return outcome, nil
}

func (s *Syncer) handleRemovals(
	ctx context.Context,
	local map[string]models.ProductRef,
	remoteSlugs map[string]struct{},
	opts Options,
	result *models.SyncResult,
) {
	removed := lo.Filter(lo.Values(local), func(ref models.ProductRef, _ int) bool {
		_, ok := remoteSlugs[ref.Slug]
		return !ok
	})
	slices.SortFunc(removed, func(a, b models.ProductRef) int { return a.ID - b.ID })

	for _, ref := range removed {
		if opts.DryRun {
			result.ProductsRemoved++
			continue
		}

		if err := s.storage.DeleteProduct(ctx, ref.ID); err != nil {
			s.logger.Warn().
				Err(err).
				Str("slug", ref.Slug).
				Msg("can't delete product")
			result.Errors = append(result.Errors, models.SyncError{Slug: ref.Slug, Op: models.OpDelete, Err: err})
			continue
		}
		result.ProductsRemoved++
	}
}

func (s *Syncer) finish(ctx context.Context, result *models.SyncResult, start time.Time) {
	end := s.clock.Now()
	result.LastSync = end
	result.Duration = end.Sub(start)

	s.mu.Lock()
	s.status.Running = false
	s.status.Step = lo.Ternary(result.Success, StepCompleted, StepError)
	s.status.Progress = 100
	last := *result
	s.status.LastResult = &last
	s.status.History = append(s.status.History, last)
	if len(s.status.History) > historySize {
		s.status.History = slices.Clone(s.status.History[len(s.status.History)-historySize:])
	}
	s.mu.Unlock()

	s.metrics.SyncRun(result.Success)
	if !result.DryRun {
		s.metrics.SyncedProducts(result.ProductsAdded, result.ProductsUpdated, result.ProductsRemoved)
	}

	// dry runs write nothing, sync health included.
	if s.recorder != nil && !result.DryRun {
		errMsg := ""
		if !result.Success && len(result.Errors) > 0 {
			errMsg = result.Errors[0].Error()
		}
		s.recorder.UpdateSyncStatus(ctx, result.Success, errMsg)
	}

	if s.runs != nil {
		if err := s.runs.InsertSyncRun(ctx, *result); err != nil {
			s.logger.Error().
				Err(err).
				Str("syncId", result.ID.String()).
				Msg("can't save sync run")
		}
	}

	s.logger.Info().
		Str("syncId", result.ID.String()).
		Bool("success", result.Success).
		Int("added", result.ProductsAdded).
		Int("updated", result.ProductsUpdated).
		Int("removed", result.ProductsRemoved).
		Int("errors", len(result.Errors)).
		Dur("duration", result.Duration).
		Msg("sync finished")
}

func (s *Syncer) setProgress(step Step, progress int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.Step = step
	s.status.Progress = progress
}

func validate(product models.Product) error {
	if product.Slug == "" {
		return ErrEmptySlug
	}
	if product.Price.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativePrice, product.Price)
	}
	return nil
}

// WithBatchSize sets Syncer's batch size.
func WithBatchSize(size int) Option {
	return func(s *Syncer) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// WithPageSize sets number of remote products fetched per request.
func WithPageSize(size int) Option {
	return func(s *Syncer) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithClock sets Syncer's custom Clock.
func WithClock(c Clock) Option {
	return func(s *Syncer) {
		s.clock = c
	}
}

// WithLogger sets Syncer's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Syncer) {
		s.logger = logger
	}
}

// WithImageOptions sets image options used when optimizing image urls.
func WithImageOptions(opts ImageOptions) Option {
	return func(s *Syncer) {
		s.imageOptions = opts
	}
}

// WithStatusRecorder sets recorder notified after every run.
func WithStatusRecorder(recorder StatusRecorder) Option {
	return func(s *Syncer) {
		s.recorder = recorder
	}
}

// WithRunStore sets store persisting run results.
func WithRunStore(runs RunStore) Option {
	return func(s *Syncer) {
		s.runs = runs
	}
}

// WithMetrics sets Syncer's metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Syncer) {
		s.metrics = m
	}
}
