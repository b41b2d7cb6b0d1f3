package storage_test

import (
	"testing"

	"github.com/MichalMitros/cms-sync/internal/platform/models"
	"github.com/MichalMitros/cms-sync/internal/platform/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitFromDBProduct(t *testing.T) {
	product := fakeLocalProduct("desk-1", now)

	dbProduct, err := storage.ToDBProduct(&product)
	require.NoError(t, err, "shouldn't return any error")

	got, err := storage.FromDBProduct(dbProduct)
	require.NoError(t, err, "shouldn't return any error")

	assert.Equal(t, product.Slug, got.Slug, "should keep slug")
	assert.True(t, product.Price.Equal(got.Price), "should keep price")
	assert.Equal(t, product.Images, got.Images, "should split images")
	assert.Equal(t, product.Colors, got.Colors, "should split colors")
	assert.Equal(t, product.Tags, got.Tags, "should split tags")
	assert.Equal(t, product.Variants, got.Variants, "should decode variants")
}

func TestUnitFromDBProductEmptyLists(t *testing.T) {
	product := fakeLocalProduct("desk-1", now)
	product.Images = nil
	product.Tags = []string{}
	product.Variants = nil

	dbProduct, err := storage.ToDBProduct(&product)
	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, "[]", dbProduct.Variants, "should encode missing variants as empty list")

	got, err := storage.FromDBProduct(dbProduct)
	require.NoError(t, err, "shouldn't return any error")

	assert.Equal(t, []string{}, got.Images, "should decode empty images")
	assert.Equal(t, []string{}, got.Tags, "should decode empty tags")
	assert.Equal(t, []models.Variant{}, got.Variants, "should decode empty variants")
}

func TestUnitFromDBProductMalformedVariants(t *testing.T) {
	product := fakeLocalProduct("desk-1", now)
	dbProduct, err := storage.ToDBProduct(&product)
	require.NoError(t, err, "shouldn't return any error")
	dbProduct.Variants = "{not json"

	_, err = storage.FromDBProduct(dbProduct)

	assert.ErrorContains(t, err, "desk-1", "should report product")
}
