package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is provider-agnostic product fetched from CMS.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Images      []string        `json:"images"`
	Variants    []Variant       `json:"variants"`
	Tags        []string        `json:"tags"`
	InStock     bool            `json:"inStock"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Variant is product's variant model.
type Variant struct {
	ID       string          `json:"id"`
	Color    string          `json:"color"`
	ColorHex *string         `json:"colorHex,omitempty"`
	Size     *string         `json:"size,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Images   []string        `json:"images"`
}

// ProductFilters narrows products listing.
type ProductFilters struct {
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// Key returns stable key identifying filters, used for caching.
func (f ProductFilters) Key() string {
	return "category=" + f.Category + "&limit=" + strconv.Itoa(f.Limit) + "&offset=" + strconv.Itoa(f.Offset)
}

// LocalProduct is product persisted in local storage, unique by slug.
type LocalProduct struct {
	ID          int
	Slug        string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Images      []string
	Colors      []string
	Variants    []Variant
	Tags        []string
	InStock     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SyncedAt    time.Time
}

// ToProduct converts local product into Product served to the storefront.
func (p *LocalProduct) ToProduct() Product {
	return Product{
		ID:          strconv.Itoa(p.ID),
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Images:      p.Images,
		Variants:    p.Variants,
		Tags:        p.Tags,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProductRef is minimal projection of local product used for diffing.
type ProductRef struct {
	ID        int
	Slug      string
	Name      string
	Price     decimal.Decimal
	UpdatedAt time.Time
}

// SyncResult is outcome of single synchronization run.
type SyncResult struct {
	ID              uuid.UUID     `json:"id"`
	Success         bool          `json:"success"`
	DryRun          bool          `json:"dryRun"`
	Category        string        `json:"category,omitempty"`
	ProductsAdded   int           `json:"productsAdded"`
	ProductsUpdated int           `json:"productsUpdated"`
	ProductsRemoved int           `json:"productsRemoved"`
	Errors          []SyncError   `json:"errors"`
	LastSync        time.Time     `json:"lastSync"`
	Duration        time.Duration `json:"duration"`
}

// ErrorStrings returns display strings of run errors.
func (r *SyncResult) ErrorStrings() []string {
	result := make([]string, 0, len(r.Errors))
	for ix := range r.Errors {
		result = append(result, r.Errors[ix].Error())
	}
	return result
}

// SyncError is failure of single item (or step) during synchronization.
type SyncError struct {
	Slug string
	Op   string
	Err  error
}

// Sync operations reported in SyncError.
const (
	OpFetch    = "fetch"
	OpLoad     = "load"
	OpValidate = "validate"
	OpUpsert   = "upsert"
	OpDelete   = "delete"
)

func (e SyncError) Error() string {
	if e.Slug == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.cause())
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Slug, e.cause())
}

func (e SyncError) Unwrap() error {
	return e.Err
}

func (e SyncError) cause() string {
	if e.Err == nil {
		return "unknown error"
	}
	return e.Err.Error()
}

type syncErrorJSON struct {
	Slug    string `json:"slug,omitempty"`
	Op      string `json:"op"`
	Message string `json:"message"`
}

// MarshalJSON encodes SyncError with its cause as message.
func (e SyncError) MarshalJSON() ([]byte, error) {
	return json.Marshal(syncErrorJSON{Slug: e.Slug, Op: e.Op, Message: e.cause()})
}

// UnmarshalJSON decodes SyncError, cause is restored as plain error.
func (e *SyncError) UnmarshalJSON(data []byte) error {
	var decoded syncErrorJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	e.Slug = decoded.Slug
	e.Op = decoded.Op
	e.Err = errors.New(decoded.Message)
	return nil
}

// SyncStatus is persisted health snapshot of synchronization.
type SyncStatus struct {
	Healthy            bool
	LastSuccessfulSync *time.Time
	LastAttemptedSync  *time.Time
	ErrorCount         int
	LastError          *string
	DaysSinceLastSync  float64
	CircuitBreakerOpen bool
}

// MarshalJSON encodes SyncStatus, infinite DaysSinceLastSync is encoded as null.
func (s SyncStatus) MarshalJSON() ([]byte, error) {
	var days *float64
	if !math.IsInf(s.DaysSinceLastSync, 0) && !math.IsNaN(s.DaysSinceLastSync) {
		days = &s.DaysSinceLastSync
	}
	return json.Marshal(struct {
		Healthy            bool       `json:"isHealthy"`
		LastSuccessfulSync *time.Time `json:"lastSuccessfulSync"`
		LastAttemptedSync  *time.Time `json:"lastAttemptedSync"`
		ErrorCount         int        `json:"errorCount"`
		LastError          *string    `json:"lastError"`
		DaysSinceLastSync  *float64   `json:"daysSinceLastSync"`
		CircuitBreakerOpen bool       `json:"circuitBreakerOpen"`
	}{
		Healthy:            s.Healthy,
		LastSuccessfulSync: s.LastSuccessfulSync,
		LastAttemptedSync:  s.LastAttemptedSync,
		ErrorCount:         s.ErrorCount,
		LastError:          s.LastError,
		DaysSinceLastSync:  days,
		CircuitBreakerOpen: s.CircuitBreakerOpen,
	})
}
