package cms

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/MichalMitros/cms-sync/internal/platform/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Custom adapts generic REST API serving canonical products.
type Custom struct {
	baseAdapter
}

type customProduct struct {
	ID          flexibleString   `json:"id"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	Category    string           `json:"category"`
	Images      []string         `json:"images"`
	Variants    []variantPayload `json:"variants"`
	Tags        []string         `json:"tags"`
	InStock     *bool            `json:"inStock"`
	CreatedAt   *time.Time       `json:"createdAt"`
	UpdatedAt   *time.Time       `json:"updatedAt"`
}

// HealthCheckURL returns health endpoint.
func (c *Custom) HealthCheckURL() string {
	return c.baseURL + "/health"
}

// ProductsURL returns products endpoint.
func (c *Custom) ProductsURL(filters models.ProductFilters) string {
	query := url.Values{}
	if filters.Category != "" {
		query.Set("category", filters.Category)
	}
	if filters.Limit > 0 {
		query.Set("limit", strconv.Itoa(filters.Limit))
	}
	if filters.Offset > 0 {
		query.Set("offset", strconv.Itoa(filters.Offset))
	}

	if len(query) == 0 {
		return c.baseURL + "/products"
	}
	return c.baseURL + "/products?" + query.Encode()
}

// ProductURL returns single product endpoint.
func (c *Custom) ProductURL(slug string) string {
	return c.baseURL + "/products/" + url.PathEscape(slug)
}

// TransformProducts decodes products given as bare array or under products or data field.
func (c *Custom) TransformProducts(raw []byte) ([]models.Product, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	raws := decodeArray(raw)
	if raws == nil {
		raws = decodeArray(fields["products"])
	}
	if raws == nil {
		raws = decodeArray(fields["data"])
	}

	items := decodeItems[customProduct](raws)

	return lo.Map(items, func(item customProduct, _ int) models.Product {
		return item.toProduct()
	}), nil
}

// TransformProduct decodes product given as object or under product field.
func (c *Custom) TransformProduct(raw []byte) (*models.Product, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	item := bytes.TrimSpace(raw)
	if product, ok := fields["product"]; ok {
		item = bytes.TrimSpace(product)
	}
	if len(item) == 0 || item[0] != '{' {
		return nil, nil
	}

	wrapped, err := json.Marshal([]json.RawMessage{item})
	if err != nil {
		return nil, err
	}

	products, err := c.TransformProducts(wrapped)
	if err != nil {
		return nil, err
	}

	return firstProduct(products), nil
}

func (p *customProduct) toProduct() models.Product {
	return models.Product{
		ID:          string(p.ID),
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Images:      nonNil(p.Images),
		Variants:    toVariants(p.Variants),
		Tags:        nonNil(p.Tags),
		InStock:     lo.FromPtrOr(p.InStock, true),
		CreatedAt:   timeOrZero(p.CreatedAt),
		UpdatedAt:   timeOrZero(p.UpdatedAt),
	}
}
