package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MichalMitros/cms-sync/internal/platform"
	"github.com/MichalMitros/cms-sync/internal/platform/models"
	"github.com/MichalMitros/cms-sync/internal/platform/storage/gen/postgres/public/table"
	"github.com/samber/lo"

	pgmodels "github.com/MichalMitros/cms-sync/internal/platform/storage/gen/postgres/public/model"
	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

// Sync status is kept in single row.
const syncStatusID = 1

// Postgres is storage for products, sync status and sync runs.
type Postgres struct {
	db *sql.DB
}

// NewPostgres returns new Postgres.
func NewPostgres(db *sql.DB) Postgres {
	return Postgres{
		db: db,
	}
}

// ListProductRefs returns id, slug, name, price and update time of every product.
func (p Postgres) ListProductRefs(ctx context.Context) ([]models.ProductRef, error) {
	var products []pgmodels.Product
	err := table.Product.SELECT(
		table.Product.ID,
		table.Product.Slug,
		table.Product.Name,
		table.Product.Price,
		table.Product.UpdatedAt,
	).
		ORDER_BY(table.Product.ID.ASC()).
		QueryContext(ctx, p.db, &products)
	if err != nil {
		return nil, fmt.Errorf("can't get products refs: %w", err)
	}

	return lo.Map(products, func(_ pgmodels.Product, ix int) models.ProductRef {
		return fromDBProductRef(&products[ix])
	}), nil
}

// ListProducts returns products matching filters, newest first.
func (p Postgres) ListProducts(ctx context.Context, filters models.ProductFilters) ([]models.LocalProduct, error) {
	stmt := table.Product.SELECT(table.Product.AllColumns).
		ORDER_BY(table.Product.CreatedAt.DESC(), table.Product.ID.DESC())

	if filters.Category != "" {
		stmt = stmt.WHERE(table.Product.Category.EQ(pg.String(filters.Category)))
	}
	if filters.Limit > 0 {
		stmt = stmt.LIMIT(int64(filters.Limit))
	}
	if filters.Offset > 0 {
		stmt = stmt.OFFSET(int64(filters.Offset))
	}

	var products []pgmodels.Product
	if err := stmt.QueryContext(ctx, p.db, &products); err != nil {
		return nil, fmt.Errorf("can't get products: %w", err)
	}

	result := make([]models.LocalProduct, 0, len(products))
	for ix := range products {
		product, err := FromDBProduct(&products[ix])
		if err != nil {
			return nil, err
		}
		result = append(result, product)
	}

	return result, nil
}

// ProductBySlug returns product by slug. Returns platform.ErrNotFound when it does not exist.
func (p Postgres) ProductBySlug(ctx context.Context, slug string) (*models.LocalProduct, error) {
	var product pgmodels.Product
	err := table.Product.SELECT(table.Product.AllColumns).
		WHERE(table.Product.Slug.EQ(pg.String(slug))).
		QueryContext(ctx, p.db, &product)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, platform.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't get product %s: %w", slug, err)
	}

	local, err := FromDBProduct(&product)
	if err != nil {
		return nil, err
	}

	return &local, nil
}

// UpsertProduct inserts product or updates existing one with the same slug.
func (p Postgres) UpsertProduct(ctx context.Context, product models.LocalProduct) error {
	dbProduct, err := ToDBProduct(&product)
	if err != nil {
		return err
	}

	columnList := table.Product.AllColumns.Except(table.Product.ID)
	updateList := table.Product.MutableColumns.Except(table.Product.Slug)

	excludedExpressions := make([]pg.Expression, 0, len(updateList)) // converting to expression
	for _, col := range table.Product.EXCLUDED.MutableColumns.Except(table.Product.Slug) {
		excludedExpressions = append(excludedExpressions, col)
	}

	_, err = table.Product.INSERT(columnList).
		MODEL(dbProduct).
		ON_CONFLICT(table.Product.Slug).
		DO_UPDATE(
			pg.SET(
				updateList.SET(pg.ROW(excludedExpressions...)),
			),
		).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't upsert product %s: %w", product.Slug, err)
	}

	return nil
}

// DeleteProduct deletes product by id.
func (p Postgres) DeleteProduct(ctx context.Context, id int) error {
	_, err := table.Product.DELETE().
		WHERE(table.Product.ID.EQ(pg.Int32(int32(id)))).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't delete product %d: %w", id, err)
	}

	return nil
}

// SyncStatus returns stored sync status. Returns platform.ErrNotFound when no sync was recorded yet.
func (p Postgres) SyncStatus(ctx context.Context) (*models.SyncStatus, error) {
	var status pgmodels.SyncStatus
	err := table.SyncStatus.SELECT(table.SyncStatus.AllColumns).
		ORDER_BY(table.SyncStatus.ID.ASC()).
		LIMIT(1).
		QueryContext(ctx, p.db, &status)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, platform.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't get sync status: %w", err)
	}

	return lo.ToPtr(fromDBSyncStatus(&status)), nil
}

// SaveSyncStatus records sync attempt. Success resets error count, failure increments it.
func (p Postgres) SaveSyncStatus(ctx context.Context, success bool, errMsg string, at time.Time) error {
	assignments := []pg.ColumnAssigment{
		table.SyncStatus.IsHealthy.SET(table.SyncStatus.EXCLUDED.IsHealthy),
		table.SyncStatus.LastAttemptedSync.SET(table.SyncStatus.EXCLUDED.LastAttemptedSync),
		table.SyncStatus.LastError.SET(table.SyncStatus.EXCLUDED.LastError),
	}
	if success {
		assignments = append(assignments,
			table.SyncStatus.LastSuccessfulSync.SET(table.SyncStatus.EXCLUDED.LastSuccessfulSync),
			table.SyncStatus.ErrorCount.SET(pg.Int32(0)),
		)
	} else {
		assignments = append(assignments,
			table.SyncStatus.ErrorCount.SET(table.SyncStatus.ErrorCount.ADD(pg.Int32(1))),
		)
	}

	_, err := table.SyncStatus.INSERT(table.SyncStatus.AllColumns).
		MODEL(toDBSyncStatus(success, errMsg, at)).
		ON_CONFLICT(table.SyncStatus.ID).
		DO_UPDATE(pg.SET(assignments...)).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't save sync status: %w", err)
	}

	return nil
}

// InsertSyncRun stores result of sync run.
func (p Postgres) InsertSyncRun(ctx context.Context, result models.SyncResult) error {
	run, err := toDBSyncRun(&result)
	if err != nil {
		return err
	}

	_, err = table.SyncRun.INSERT(table.SyncRun.AllColumns).
		MODEL(run).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't insert sync run %s: %w", result.ID, err)
	}

	return nil
}

// ListSyncRuns returns latest sync runs, newest first. Non-positive limit returns all runs.
func (p Postgres) ListSyncRuns(ctx context.Context, limit int) ([]models.SyncResult, error) {
	stmt := table.SyncRun.SELECT(table.SyncRun.AllColumns).
		ORDER_BY(table.SyncRun.LastSync.DESC())
	if limit > 0 {
		stmt = stmt.LIMIT(int64(limit))
	}

	var runs []pgmodels.SyncRun
	if err := stmt.QueryContext(ctx, p.db, &runs); err != nil {
		return nil, fmt.Errorf("can't get sync runs: %w", err)
	}

	result := make([]models.SyncResult, 0, len(runs))
	for ix := range runs {
		run, err := fromDBSyncRun(&runs[ix])
		if err != nil {
			return nil, err
		}
		result = append(result, run)
	}

	return result, nil
}
