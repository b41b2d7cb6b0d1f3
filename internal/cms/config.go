package cms

import (
	"fmt"
	"net/url"
	"time"
)

// Provider identifies CMS backend type.
type Provider string

// Supported CMS providers.
const (
	ProviderContentful Provider = "contentful"
	ProviderStrapi     Provider = "strapi"
	ProviderSanity     Provider = "sanity"
	ProviderCustom     Provider = "custom"
)

// Config is CMS connection configuration.
type Config struct {
	Provider      Provider      `env:"PROVIDER" envDefault:"custom"`
	URL           string        `env:"URL"`
	APIKey        string        `env:"API_KEY"`
	SpaceID       string        `env:"SPACE_ID"`
	Environment   string        `env:"ENVIRONMENT"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"10s"`
	RetryAttempts int           `env:"RETRY_ATTEMPTS" envDefault:"3"`
	EnableCache   bool          `env:"ENABLE_CACHE" envDefault:"true"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
}

// Validate returns error wrapping ErrInvalidConfig when configuration is incomplete.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidConfig)
	}
	if _, err := url.ParseRequestURI(c.URL); err != nil {
		return fmt.Errorf("%w: url is malformed: %w", ErrInvalidConfig, err)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w: api key is required", ErrInvalidConfig)
	}

	switch c.Provider {
	case ProviderContentful, ProviderSanity:
		if c.SpaceID == "" {
			return fmt.Errorf("%w: space id is required for %s", ErrInvalidConfig, c.Provider)
		}
	case ProviderStrapi, ProviderCustom:
	default:
		return fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownProvider, c.Provider)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("%w: retry attempts can't be negative", ErrInvalidConfig)
	}
	if c.EnableCache && c.CacheTTL <= 0 {
		return fmt.Errorf("%w: cache ttl must be positive when cache is enabled", ErrInvalidConfig)
	}

	return nil
}
