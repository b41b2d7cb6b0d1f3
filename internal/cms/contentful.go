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

const contentfulDefaultEnvironment = "master"

// Contentful adapts Contentful delivery API.
type Contentful struct {
	baseAdapter
}

type contentfulSys struct {
	ID        string     `json:"id"`
	CreatedAt *time.Time `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

type contentfulLink struct {
	Sys struct {
		ID string `json:"id"`
	} `json:"sys"`
}

type contentfulEntry struct {
	Sys    contentfulSys `json:"sys"`
	Fields struct {
		Name        string           `json:"name"`
		Slug        string           `json:"slug"`
		Description string           `json:"description"`
		Price       decimal.Decimal  `json:"price"`
		Category    string           `json:"category"`
		Images      []contentfulLink `json:"images"`
		Variants    []variantPayload `json:"variants"`
		Tags        []string         `json:"tags"`
		InStock     *bool            `json:"inStock"`
	} `json:"fields"`
}

type contentfulAsset struct {
	Sys    contentfulSys `json:"sys"`
	Fields struct {
		File struct {
			URL string `json:"url"`
		} `json:"file"`
	} `json:"fields"`
}

// HealthCheckURL returns space endpoint.
func (c *Contentful) HealthCheckURL() string {
	return c.baseURL + "/spaces/" + url.PathEscape(c.cfg.SpaceID)
}

// ProductsURL returns product entries endpoint.
func (c *Contentful) ProductsURL(filters models.ProductFilters) string {
	query := url.Values{}
	query.Set("content_type", "product")
	if filters.Category != "" {
		query.Set("fields.category", filters.Category)
	}
	if filters.Limit > 0 {
		query.Set("limit", strconv.Itoa(filters.Limit))
	}
	if filters.Offset > 0 {
		query.Set("skip", strconv.Itoa(filters.Offset))
	}
	return c.entriesURL() + "?" + query.Encode()
}

// ProductURL returns product entries endpoint filtered by slug.
func (c *Contentful) ProductURL(slug string) string {
	query := url.Values{}
	query.Set("content_type", "product")
	query.Set("fields.slug", slug)
	query.Set("limit", "1")
	return c.entriesURL() + "?" + query.Encode()
}

func (c *Contentful) entriesURL() string {
	environment := lo.Ternary(c.cfg.Environment == "", contentfulDefaultEnvironment, c.cfg.Environment)
	return c.HealthCheckURL() + "/environments/" + url.PathEscape(environment) + "/entries"
}

// TransformProducts decodes entries collection resolving image links with included assets.
func (c *Contentful) TransformProducts(raw []byte) ([]models.Product, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	entries := decodeItems[contentfulEntry](decodeArray(fields["items"]))
	assets := c.assetURLs(fields["includes"])

	products := make([]models.Product, 0, len(entries))
	for ix := range entries {
		products = append(products, c.toProduct(&entries[ix], assets))
	}

	return products, nil
}

// TransformProduct decodes first entry of entries collection.
func (c *Contentful) TransformProduct(raw []byte) (*models.Product, error) {
	products, err := c.TransformProducts(raw)
	if err != nil {
		return nil, err
	}
	return firstProduct(products), nil
}

func (c *Contentful) assetURLs(includes json.RawMessage) map[string]string {
	var decoded struct {
		Asset []json.RawMessage `json:"Asset"`
	}
	if err := json.Unmarshal(includes, &decoded); err != nil {
		return map[string]string{}
	}

	assets := decodeItems[contentfulAsset](decoded.Asset)
	urls := make(map[string]string, len(assets))
	for _, asset := range assets {
		if asset.Fields.File.URL == "" {
			continue
		}
		urls[asset.Sys.ID] = absoluteAssetURL(asset.Fields.File.URL)
	}

	return urls
}

func (c *Contentful) toProduct(entry *contentfulEntry, assets map[string]string) models.Product {
	images := lo.FilterMap(entry.Fields.Images, func(link contentfulLink, _ int) (string, bool) {
		assetURL, ok := assets[link.Sys.ID]
		return assetURL, ok
	})

	return models.Product{
		ID:          entry.Sys.ID,
		Name:        entry.Fields.Name,
		Slug:        entry.Fields.Slug,
		Description: entry.Fields.Description,
		Price:       entry.Fields.Price,
		Category:    entry.Fields.Category,
		Images:      images,
		Variants:    toVariants(entry.Fields.Variants),
		Tags:        nonNil(entry.Fields.Tags),
		InStock:     lo.FromPtrOr(entry.Fields.InStock, true),
		CreatedAt:   timeOrZero(entry.Sys.CreatedAt),
		UpdatedAt:   timeOrZero(entry.Sys.UpdatedAt),
	}
}

// absoluteAssetURL adds https scheme to protocol-relative asset urls.
func absoluteAssetURL(assetURL string) string {
	if strings.HasPrefix(assetURL, "//") {
		return "https:" + assetURL
	}
	return assetURL
}
