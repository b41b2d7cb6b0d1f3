package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/MichalMitros/cms-sync/internal/platform"
	"github.com/MichalMitros/cms-sync/internal/platform/models"
	"github.com/MichalMitros/cms-sync/internal/platform/models/modelstesting"
	"github.com/MichalMitros/cms-sync/internal/platform/storage"
	"github.com/MichalMitros/cms-sync/internal/platform/storage/storagetesting"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var now = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func TestPostgresIntegration(t *testing.T) {
	suite.Run(t, new(PostgresTestSuite))
}

type PostgresTestSuite struct {
	suite.Suite
	DB      *sql.DB
	Storage storage.Postgres
}

func (s *PostgresTestSuite) SetupSuite() {
	s.DB = storagetesting.Open(s.T())
	s.Storage = storage.NewPostgres(s.DB)
	storagetesting.CleanupData(s.T(), s.DB)
}

func (s *PostgresTestSuite) TearDownSuite() {
	storagetesting.CleanupData(s.T(), s.DB)
	if err := s.DB.Close(); err != nil {
		s.FailNow("close DB", err)
	}
}

func (s *PostgresTestSuite) SetupTest() {
	storagetesting.CleanupData(s.T(), s.DB)
}

func (s *PostgresTestSuite) TestIntegrationUpsertProduct() {
	ctx := context.TODO()
	product := fakeLocalProduct("desk-1", now)

	err := s.Storage.UpsertProduct(ctx, product)
	s.Require().NoError(err, "should insert product")

	updated := product
	updated.Name = "Standing desk"
	updated.Price = decimal.RequireFromString("149.50")
	updated.UpdatedAt = now.Add(time.Hour)

	err = s.Storage.UpsertProduct(ctx, updated)
	s.Require().NoError(err, "should update product")

	stored := storagetesting.GetProducts(s.T(), s.DB)
	s.Require().Len(stored, 1, "should upsert by slug")

	got, err := s.Storage.ProductBySlug(ctx, "desk-1")
	s.Require().NoError(err, "should get product")
	s.Equal(int(stored[0].ID), got.ID, "should keep id")
	s.Equal("Standing desk", got.Name, "should update name")
	s.True(decimal.RequireFromString("149.50").Equal(got.Price), "should update price")
	s.Equal(product.Tags, got.Tags, "should keep tags")
	s.Equal(product.Colors, got.Colors, "should keep colors")
	s.Equal(product.Images, got.Images, "should keep images")
	s.Len(got.Variants, len(product.Variants), "should keep variants")
	s.True(now.Add(time.Hour).Equal(got.UpdatedAt), "should update time")
}

func (s *PostgresTestSuite) TestIntegrationProductBySlugNotFound() {
	_, err := s.Storage.ProductBySlug(context.TODO(), "missing")

	s.ErrorIs(err, platform.ErrNotFound, "should return not found")
}

func (s *PostgresTestSuite) TestIntegrationListProducts() {
	ctx := context.TODO()
	for ix, slug := range []string{"desk-1", "desk-2", "chair-1"} {
		product := fakeLocalProduct(slug, now.Add(time.Duration(ix)*time.Hour))
		product.Category = lo.Ternary(slug == "chair-1", "Chairs", "Desks")
		s.Require().NoError(s.Storage.UpsertProduct(ctx, product), "should insert product")
	}

	tests := map[string]struct {
		filters   models.ProductFilters
		wantSlugs []string
	}{
		"all newest first": {
			wantSlugs: []string{"chair-1", "desk-2", "desk-1"},
		},
		"category": {
			filters:   models.ProductFilters{Category: "Desks"},
			wantSlugs: []string{"desk-2", "desk-1"},
		},
		"limit and offset": {
			filters:   models.ProductFilters{Limit: 1, Offset: 1},
			wantSlugs: []string{"desk-2"},
		},
		"unknown category": {
			filters:   models.ProductFilters{Category: "Lamps"},
			wantSlugs: []string{},
		},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			products, err := s.Storage.ListProducts(ctx, tt.filters)

			s.Require().NoError(err, "should list products")
			s.Equal(tt.wantSlugs, lo.Map(products, func(p models.LocalProduct, _ int) string {
				return p.Slug
			}), "should filter and order products")
		})
	}

	refs, err := s.Storage.ListProductRefs(ctx)
	s.Require().NoError(err, "should list refs")
	s.Len(refs, 3, "should list all refs")

	s.Require().NoError(s.Storage.DeleteProduct(ctx, refs[0].ID), "should delete product")

	refs, err = s.Storage.ListProductRefs(ctx)
	s.Require().NoError(err, "should list refs")
	s.Len(refs, 2, "should delete product")
}

func (s *PostgresTestSuite) TestIntegrationSyncStatus() {
	ctx := context.TODO()

	_, err := s.Storage.SyncStatus(ctx)
	s.Require().ErrorIs(err, platform.ErrNotFound, "should report missing status")

	s.Require().NoError(s.Storage.SaveSyncStatus(ctx, false, "fetch: boom", now), "should save failure")
	s.Require().NoError(s.Storage.SaveSyncStatus(ctx, false, "fetch: boom again", now.Add(time.Minute)), "should save failure")

	status, err := s.Storage.SyncStatus(ctx)
	s.Require().NoError(err, "should get status")
	s.False(status.Healthy, "should be unhealthy")
	s.Equal(2, status.ErrorCount, "should increment error count")
	s.Nil(status.LastSuccessfulSync, "shouldn't record success")
	s.Require().NotNil(status.LastAttemptedSync, "should record attempt")
	s.True(now.Add(time.Minute).Equal(*status.LastAttemptedSync), "should record last attempt")
	s.Require().NotNil(status.LastError, "should record error")
	s.Equal("fetch: boom again", *status.LastError, "should record last error")

	s.Require().NoError(s.Storage.SaveSyncStatus(ctx, true, "", now.Add(time.Hour)), "should save success")

	status, err = s.Storage.SyncStatus(ctx)
	s.Require().NoError(err, "should get status")
	s.True(status.Healthy, "should be healthy")
	s.Zero(status.ErrorCount, "should reset error count")
	s.Nil(status.LastError, "should clear error")
	s.Require().NotNil(status.LastSuccessfulSync, "should record success")
	s.True(now.Add(time.Hour).Equal(*status.LastSuccessfulSync), "should record success time")

	s.Len(storagetesting.GetSyncStatuses(s.T(), s.DB), 1, "should keep single row")
}

func (s *PostgresTestSuite) TestIntegrationSyncRuns() {
	ctx := context.TODO()
	older := models.SyncResult{
		ID:            uuid.New(),
		Success:       true,
		ProductsAdded: 3,
		Errors:        []models.SyncError{},
		LastSync:      now,
		Duration:      1500 * time.Millisecond,
	}
	newer := models.SyncResult{
		ID:              uuid.New(),
		Success:         true,
		DryRun:          true,
		Category:        "Desks",
		ProductsUpdated: 1,
		Errors: []models.SyncError{
			{Slug: "invalid-product", Op: models.OpUpsert, Err: errors.New("constraint violation")},
		},
		LastSync: now.Add(time.Hour),
		Duration: 200 * time.Millisecond,
	}

	s.Require().NoError(s.Storage.InsertSyncRun(ctx, older), "should insert run")
	s.Require().NoError(s.Storage.InsertSyncRun(ctx, newer), "should insert run")

	runs, err := s.Storage.ListSyncRuns(ctx, 10)
	s.Require().NoError(err, "should list runs")
	s.Require().Len(runs, 2, "should list runs")

	s.Equal(newer.ID, runs[0].ID, "should list newest first")
	s.Equal("Desks", runs[0].Category, "should keep category")
	s.True(runs[0].DryRun, "should keep dry run flag")
	s.Equal(newer.Duration, runs[0].Duration, "should keep duration")
	s.Require().Len(runs[0].Errors, 1, "should keep errors")
	s.Equal("upsert invalid-product: constraint violation", runs[0].Errors[0].Error(), "should keep error details")
	s.Equal(older.ID, runs[1].ID, "should list older run last")
	s.Equal(3, runs[1].ProductsAdded, "should keep counts")

	limited, err := s.Storage.ListSyncRuns(ctx, 1)
	s.Require().NoError(err, "should list runs")
	s.Len(limited, 1, "should limit runs")
}

func fakeLocalProduct(slug string, createdAt time.Time) models.LocalProduct {
	return modelstesting.FakeLocalProduct(func(p *models.LocalProduct) {
		p.ID = 0
		p.Slug = slug
		p.Price = decimal.RequireFromString("99.99")
		p.Variants = []models.Variant{
			modelstesting.FakeVariant(func(v *models.Variant) { v.Price = decimal.RequireFromString("109.99") }),
		}
		p.CreatedAt = createdAt
		p.UpdatedAt = createdAt
		p.SyncedAt = createdAt
	})
}
