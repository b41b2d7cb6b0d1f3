package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MichalMitros/cms-sync/internal/platform/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	pgmodels "github.com/MichalMitros/cms-sync/internal/platform/storage/gen/postgres/public/model"
)

//go:generate jet -dsn=${DATABASE_URL} -schema=public -path=./gen

// ToDBProduct converts models.LocalProduct into postgres product model.
func ToDBProduct(product *models.LocalProduct) (*pgmodels.Product, error) {
	variants, err := json.Marshal(lo.Ternary(product.Variants == nil, []models.Variant{}, product.Variants))
	if err != nil {
		return nil, fmt.Errorf("can't encode variants of %s: %w", product.Slug, err)
	}

	return &pgmodels.Product{
		ID:          int32(product.ID),
		Slug:        product.Slug,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.InexactFloat64(),
		Category:    product.Category,
		Images:      joinLines(product.Images),
		Colors:      joinLines(product.Colors),
		Variants:    string(variants),
		Tags:        joinLines(product.Tags),
		InStock:     product.InStock,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
		SyncedAt:    product.SyncedAt,
	}, nil
}

// FromDBProduct converts postgres product model into models.LocalProduct.
func FromDBProduct(product *pgmodels.Product) (models.LocalProduct, error) {
	var variants []models.Variant
	if product.Variants != "" {
		if err := json.Unmarshal([]byte(product.Variants), &variants); err != nil {
			return models.LocalProduct{}, fmt.Errorf("can't decode variants of %s: %w", product.Slug, err)
		}
	}

	return models.LocalProduct{
		ID:          int(product.ID),
		Slug:        product.Slug,
		Name:        product.Name,
		Description: product.Description,
		Price:       decimal.NewFromFloat(product.Price),
		Category:    product.Category,
		Images:      splitLines(product.Images),
		Colors:      splitLines(product.Colors),
		Variants:    lo.Ternary(variants == nil, []models.Variant{}, variants),
		Tags:        splitLines(product.Tags),
		InStock:     product.InStock,
		CreatedAt:   product.CreatedAt.UTC(),
		UpdatedAt:   product.UpdatedAt.UTC(),
		SyncedAt:    product.SyncedAt.UTC(),
	}, nil
}

func fromDBProductRef(product *pgmodels.Product) models.ProductRef {
	return models.ProductRef{
		ID:        int(product.ID),
		Slug:      product.Slug,
		Name:      product.Name,
		Price:     decimal.NewFromFloat(product.Price),
		UpdatedAt: product.UpdatedAt.UTC(),
	}
}

func toDBSyncStatus(success bool, errMsg string, at time.Time) *pgmodels.SyncStatus {
	status := &pgmodels.SyncStatus{
		ID:                syncStatusID,
		IsHealthy:         success,
		LastAttemptedSync: &at,
	}

	if success {
		status.LastSuccessfulSync = &at
		return status
	}

	status.ErrorCount = 1
	if errMsg != "" {
		status.LastError = &errMsg
	}

	return status
}

func fromDBSyncStatus(status *pgmodels.SyncStatus) models.SyncStatus {
	return models.SyncStatus{
		Healthy:            status.IsHealthy,
		LastSuccessfulSync: utcPtr(status.LastSuccessfulSync),
		LastAttemptedSync:  utcPtr(status.LastAttemptedSync),
		ErrorCount:         int(status.ErrorCount),
		LastError:          status.LastError,
	}
}

func toDBSyncRun(result *models.SyncResult) (*pgmodels.SyncRun, error) {
	errs, err := json.Marshal(lo.Ternary(result.Errors == nil, []models.SyncError{}, result.Errors))
	if err != nil {
		return nil, fmt.Errorf("can't encode sync errors: %w", err)
	}

	return &pgmodels.SyncRun{
		ID:              result.ID,
		Success:         result.Success,
		DryRun:          result.DryRun,
		Category:        result.Category,
		ProductsAdded:   int32(result.ProductsAdded),
		ProductsUpdated: int32(result.ProductsUpdated),
		ProductsRemoved: int32(result.ProductsRemoved),
		Errors:          string(errs),
		LastSync:        result.LastSync,
		DurationMs:      result.Duration.Milliseconds(),
	}, nil
}

func fromDBSyncRun(run *pgmodels.SyncRun) (models.SyncResult, error) {
	errs := []models.SyncError{}
	if run.Errors != "" {
		if err := json.Unmarshal([]byte(run.Errors), &errs); err != nil {
			return models.SyncResult{}, fmt.Errorf("can't decode errors of sync run %s: %w", run.ID, err)
		}
	}

	return models.SyncResult{
		ID:              run.ID,
		Success:         run.Success,
		DryRun:          run.DryRun,
		Category:        run.Category,
		ProductsAdded:   int(run.ProductsAdded),
		ProductsUpdated: int(run.ProductsUpdated),
		ProductsRemoved: int(run.ProductsRemoved),
		Errors:          errs,
		LastSync:        run.LastSync.UTC(),
		Duration:        time.Duration(run.DurationMs) * time.Millisecond,
	}, nil
}

func joinLines(values []string) string {
	return strings.Join(values, "\n")
}

func splitLines(value string) []string {
	if value == "" {
		return []string{}
	}
	return strings.Split(value, "\n")
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return lo.ToPtr(t.UTC())
}
