package syncer

import "errors"

var (
	// ErrEmptySlug is recorded for remote product without slug.
	ErrEmptySlug = errors.New("product has empty slug")
	// ErrNegativePrice is recorded for remote product with negative price.
	ErrNegativePrice = errors.New("product has negative price")
)
