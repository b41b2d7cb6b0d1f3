package cms

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MichalMitros/cms-sync/internal/platform/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Adapter translates between provider wire format and canonical products.
type Adapter interface {
	// Provider returns adapted provider.
	Provider() Provider
	// HealthCheckURL returns url of provider's health endpoint.
	HealthCheckURL() string
	// ProductsURL returns url listing products matching filters.
	ProductsURL(filters models.ProductFilters) string
	// ProductURL returns url of single product.
	ProductURL(slug string) string
	// AuthHeaders returns headers authenticating requests.
	AuthHeaders() http.Header
	// TransformProducts decodes products collection. Missing or malformed collection is empty, malformed items are skipped.
	TransformProducts(raw []byte) ([]models.Product, error)
	// TransformProduct decodes single product payload. Returns nil when payload has no product.
	TransformProduct(raw []byte) (*models.Product, error)
}

// ErrMalformedPayload is returned when response body is not JSON.
var ErrMalformedPayload = errors.New("payload is not valid json")

// NewAdapter returns Adapter for configured provider.
func NewAdapter(cfg Config) (Adapter, error) {
	base := baseAdapter{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.URL, "/"),
	}

	switch cfg.Provider {
	case ProviderContentful:
		return &Contentful{baseAdapter: base}, nil
	case ProviderStrapi:
		return &Strapi{baseAdapter: base}, nil
	case ProviderSanity:
		return &Sanity{baseAdapter: base}, nil
	case ProviderCustom:
		return &Custom{baseAdapter: base}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownProvider, cfg.Provider)
	}
}

type baseAdapter struct {
	cfg     Config
	baseURL string
}

// Provider returns configured provider.
func (a *baseAdapter) Provider() Provider {
	return a.cfg.Provider
}

// AuthHeaders returns bearer authorization and JSON content headers.
func (a *baseAdapter) AuthHeaders() http.Header {
	headers := make(http.Header)
	headers.Set("Authorization", "Bearer "+a.cfg.APIKey)
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	return headers
}

// variantPayload is variant shape shared by all providers.
type variantPayload struct {
	ID       flexibleString  `json:"id"`
	Color    string          `json:"color"`
	ColorHex *string         `json:"colorHex"`
	Size     *string         `json:"size"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Images   []string        `json:"images"`
}

func (v variantPayload) toVariant() models.Variant {
	return models.Variant{
		ID:       string(v.ID),
		Color:    v.Color,
		ColorHex: v.ColorHex,
		Size:     v.Size,
		Price:    v.Price,
		Stock:    max(v.Stock, 0),
		Images:   nonNil(v.Images),
	}
}

func toVariants(payloads []variantPayload) []models.Variant {
	return lo.Map(payloads, func(v variantPayload, _ int) models.Variant { return v.toVariant() })
}

// flexibleString decodes JSON string or number.
type flexibleString string

func (s *flexibleString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexibleString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("can't decode string or number: %w", err)
	}
	*s = flexibleString(num.String())

	return nil
}

// decodeObject decodes JSON object into fields. Body which isn't JSON is an error, other JSON values give no fields.
func decodeObject(raw []byte) (map[string]json.RawMessage, error) {
	if !json.Valid(raw) {
		return nil, ErrMalformedPayload
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return map[string]json.RawMessage{}, nil
	}

	return fields, nil
}

// decodeArray returns raw items of JSON array, or nothing when raw isn't an array.
func decodeArray(raw json.RawMessage) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// decodeItems decodes raw items skipping malformed ones.
func decodeItems[T any](raws []json.RawMessage) []T {
	items := make([]T, 0, len(raws))
	for _, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items
}

func firstProduct(products []models.Product) *models.Product {
	if len(products) == 0 {
		return nil
	}
	return &products[0]
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}
