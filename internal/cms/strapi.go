package cms

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MichalMitros/cms-sync/internal/platform/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Strapi adapts Strapi REST API.
type Strapi struct {
	baseAdapter
}

type strapiMediaItem struct {
	Attributes struct {
		URL string `json:"url"`
	} `json:"attributes"`
}

// strapiMedia decodes single or multiple media relation.
type strapiMedia []strapiMediaItem

func (m *strapiMedia) UnmarshalJSON(data []byte) error {
	var relation struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &relation); err != nil {
		return err
	}
	if len(relation.Data) == 0 {
		return nil
	}

	var many []strapiMediaItem
	if err := json.Unmarshal(relation.Data, &many); err == nil {
		*m = many
		return nil
	}

	var one strapiMediaItem
	if err := json.Unmarshal(relation.Data, &one); err != nil {
		return err
	}
	*m = strapiMedia{one}

	return nil
}

// strapiCategory decodes category given as plain string or as relation.
type strapiCategory string

func (c *strapiCategory) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*c = strapiCategory(name)
		return nil
	}

	var relation struct {
		Data *struct {
			Attributes struct {
				Name string `json:"name"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &relation); err != nil {
		return err
	}
	if relation.Data != nil {
		*c = strapiCategory(relation.Data.Attributes.Name)
	}

	return nil
}

type strapiItem struct {
	ID         flexibleString `json:"id"`
	Attributes struct {
		Name        string           `json:"name"`
		Slug        string           `json:"slug"`
		Description string           `json:"description"`
		Price       decimal.Decimal  `json:"price"`
		Category    strapiCategory   `json:"category"`
		Images      strapiMedia      `json:"images"`
		Variants    []variantPayload `json:"variants"`
		Tags        []string         `json:"tags"`
		InStock     *bool            `json:"inStock"`
		CreatedAt   *time.Time       `json:"createdAt"`
		UpdatedAt   *time.Time       `json:"updatedAt"`
	} `json:"attributes"`
}

// HealthCheckURL returns Strapi health endpoint.
func (s *Strapi) HealthCheckURL() string {
	return s.baseURL + "/_health"
}

// ProductsURL returns products collection endpoint with populated relations.
func (s *Strapi) ProductsURL(filters models.ProductFilters) string {
	query := url.Values{}
	query.Set("populate", "*")
	if filters.Category != "" {
		query.Set("filters[category][$eq]", filters.Category)
	}
	if filters.Offset > 0 {
		query.Set("pagination[start]", strconv.Itoa(filters.Offset))
	}
	if filters.Limit > 0 {
		query.Set("pagination[limit]", strconv.Itoa(filters.Limit))
	}
	return s.baseURL + "/api/products?" + query.Encode()
}

// ProductURL returns products collection endpoint filtered by slug.
func (s *Strapi) ProductURL(slug string) string {
	query := url.Values{}
	query.Set("populate", "*")
	query.Set("filters[slug][$eq]", slug)
	return s.baseURL + "/api/products?" + query.Encode()
}

// TransformProducts decodes data collection resolving relative media urls.
func (s *Strapi) TransformProducts(raw []byte) ([]models.Product, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	items := decodeItems[strapiItem](decodeArray(fields["data"]))

	return lo.Map(items, func(item strapiItem, _ int) models.Product {
		return s.toProduct(&item)
	}), nil
}

// TransformProduct decodes first item of data collection.
func (s *Strapi) TransformProduct(raw []byte) (*models.Product, error) {
	products, err := s.TransformProducts(raw)
	if err != nil {
		return nil, err
	}
	return firstProduct(products), nil
}

func (s *Strapi) toProduct(item *strapiItem) models.Product {
	attrs := &item.Attributes
	images := make([]string, 0, len(attrs.Images))
	for _, media := range attrs.Images {
		if media.Attributes.URL == "" {
			continue
		}
		images = append(images, s.mediaURL(media.Attributes.URL))
	}

	return models.Product{
		ID:          string(item.ID),
		Name:        attrs.Name,
		Slug:        attrs.Slug,
		Description: attrs.Description,
		Price:       attrs.Price,
		Category:    string(attrs.Category),
		Images:      images,
		Variants:    toVariants(attrs.Variants),
		Tags:        nonNil(attrs.Tags),
		InStock:     lo.FromPtrOr(attrs.InStock, true),
		CreatedAt:   timeOrZero(attrs.CreatedAt),
		UpdatedAt:   timeOrZero(attrs.UpdatedAt),
	}
}

// mediaURL resolves upload path against API url.
func (s *Strapi) mediaURL(mediaURL string) string {
	if strings.HasPrefix(mediaURL, "http://") || strings.HasPrefix(mediaURL, "https://") {
		return mediaURL
	}
	return s.baseURL + "/" + strings.TrimLeft(mediaURL, "/")
}
