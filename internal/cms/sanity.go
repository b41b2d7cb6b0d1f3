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

const (
	sanityDefaultDataset = "production"
	sanityProjection     = `{_id, _createdAt, _updatedAt, name, slug, description, price, category, ` +
		`"images": images[].asset->url, variants, tags, inStock}`
	sanityHealthQuery = `count(*[_type == "product"])`
)

// Sanity adapts Sanity query API.
type Sanity struct {
	baseAdapter
}

type sanityDocument struct {
	ID        string     `json:"_id"`
	CreatedAt *time.Time `json:"_createdAt"`
	UpdatedAt *time.Time `json:"_updatedAt"`
	Name      string     `json:"name"`
	Slug      struct {
		Current string `json:"current"`
	} `json:"slug"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	Category    string           `json:"category"`
	Images      []string         `json:"images"`
	Variants    []variantPayload `json:"variants"`
	Tags        []string         `json:"tags"`
	InStock     *bool            `json:"inStock"`
}

// HealthCheckURL returns query endpoint counting products.
func (s *Sanity) HealthCheckURL() string {
	query := url.Values{}
	query.Set("query", sanityHealthQuery)
	return s.queryURL() + "?" + query.Encode()
}

// ProductsURL returns query endpoint with GROQ products query.
func (s *Sanity) ProductsURL(filters models.ProductFilters) string {
	groq := `*[_type == "product"`
	query := url.Values{}
	if filters.Category != "" {
		groq += ` && category == $category`
		query.Set("$category", groqParam(filters.Category))
	}
	groq += `] | order(_createdAt desc)`
	if filters.Limit > 0 {
		groq += "[" + strconv.Itoa(filters.Offset) + "..." + strconv.Itoa(filters.Offset+filters.Limit) + "]"
	} else if filters.Offset > 0 {
		groq += "[" + strconv.Itoa(filters.Offset) + "..]"
	}
	query.Set("query", groq+" "+sanityProjection)

	return s.queryURL() + "?" + query.Encode()
}

// ProductURL returns query endpoint with GROQ query of product with slug.
func (s *Sanity) ProductURL(slug string) string {
	query := url.Values{}
	query.Set("query", `*[_type == "product" && slug.current == $slug][0] `+sanityProjection)
	query.Set("$slug", groqParam(slug))
	return s.queryURL() + "?" + query.Encode()
}

// groqParam encodes query parameter value as JSON literal.
func groqParam(value string) string {
	raw, _ := json.Marshal(value)
	return string(raw)
}

func (s *Sanity) queryURL() string {
	dataset := lo.Ternary(s.cfg.Environment == "", sanityDefaultDataset, s.cfg.Environment)
	return s.baseURL + "/data/query/" + url.PathEscape(dataset)
}

// TransformProducts decodes result documents.
func (s *Sanity) TransformProducts(raw []byte) ([]models.Product, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	documents := decodeItems[sanityDocument](decodeArray(fields["result"]))

	return lo.Map(documents, func(doc sanityDocument, _ int) models.Product {
		return doc.toProduct()
	}), nil
}

// TransformProduct decodes single result document.
func (s *Sanity) TransformProduct(raw []byte) (*models.Product, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	result := bytes.TrimSpace(fields["result"])
	if len(result) == 0 || result[0] != '{' {
		return s.transformFirst(raw)
	}

	wrapped, err := json.Marshal(map[string][]json.RawMessage{"result": {result}})
	if err != nil {
		return nil, err
	}

	return s.transformFirst(wrapped)
}

func (s *Sanity) transformFirst(raw []byte) (*models.Product, error) {
	products, err := s.TransformProducts(raw)
	if err != nil {
		return nil, err
	}
	return firstProduct(products), nil
}

func (d *sanityDocument) toProduct() models.Product {
	return models.Product{
		ID:          d.ID,
		Name:        d.Name,
		Slug:        d.Slug.Current,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		Images:      lo.Compact(nonNil(d.Images)),
		Variants:    toVariants(d.Variants),
		Tags:        nonNil(d.Tags),
		InStock:     lo.FromPtrOr(d.InStock, true),
		CreatedAt:   timeOrZero(d.CreatedAt),
		UpdatedAt:   timeOrZero(d.UpdatedAt),
	}
}
