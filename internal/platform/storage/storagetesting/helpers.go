package storagetesting

import (
	"database/sql"
	"os"
	"testing"

	"github.com/MichalMitros/cms-sync/internal/platform/storage"
	pgmodels "github.com/MichalMitros/cms-sync/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/cms-sync/internal/platform/storage/gen/postgres/public/table"
	"github.com/go-jet/jet/v2/qrm"

	_ "github.com/lib/pq"
)

// Open opens connection to DB and creates schema. Skips test when DATABASE_URL is not set.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("please provide database URL via DATABASE_URL environment variable")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("can't open connection to %q: %s", dbURL, err)
	}

	if _, err := db.Exec(storage.Schema); err != nil {
		t.Fatal("can't create schema", err)
	}

	return db
}

// InsertProducts is a helper test function to insert products.
func InsertProducts(t *testing.T, exc qrm.Executable, products ...pgmodels.Product) {
	t.Helper()

	if len(products) == 0 {
		return
	}

	toInsert := make([]pgmodels.Product, 0, len(products))
	toInsert = append(toInsert, products...)

	_, err := table.Product.INSERT(table.Product.AllColumns.Except(table.Product.ID)).MODELS(toInsert).Exec(exc)
	if err != nil {
		t.Fatal("can't insert products", err)
	}
}

// GetProducts is a helper test function to get all products.
func GetProducts(t *testing.T, queryable qrm.Queryable) []pgmodels.Product {
	t.Helper()

	products := []pgmodels.Product{}
	err := table.Product.SELECT(table.Product.AllColumns).
		WHERE(table.Product.ID.IS_NOT_NULL()).
		ORDER_BY(table.Product.ID.ASC()).
		Query(queryable, &products)
	if err != nil {
		t.Fatal("can't get products", err)
	}

	return products
}

// GetSyncStatuses is a helper test function to get all sync status rows.
func GetSyncStatuses(t *testing.T, queryable qrm.Queryable) []pgmodels.SyncStatus {
	t.Helper()

	statuses := []pgmodels.SyncStatus{}
	err := table.SyncStatus.SELECT(table.SyncStatus.AllColumns).
		WHERE(table.SyncStatus.ID.IS_NOT_NULL()).
		Query(queryable, &statuses)
	if err != nil {
		t.Fatal("can't get sync statuses", err)
	}

	return statuses
}

// CleanupData is a helper test function to delete all data.
func CleanupData(t *testing.T, exc qrm.Executable) {
	t.Helper()

	_, err := table.Product.DELETE().WHERE(table.Product.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete products data", err)
	}

	_, err = table.SyncStatus.DELETE().WHERE(table.SyncStatus.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete sync status data", err)
	}

	_, err = table.SyncRun.DELETE().WHERE(table.SyncRun.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete sync runs data", err)
	}
}
