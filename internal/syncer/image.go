package syncer

import (
	"net/url"
	"strconv"
)

const (
	contentfulImagesHost = "images.ctfassets.net"
	sanityImagesHost     = "cdn.sanity.io"
)

// ImageOptions are dimensions and quality requested from image CDNs.
type ImageOptions struct {
	Width   int
	Height  int
	Quality int
}

// DefaultImageOptions are image options used when none are configured.
var DefaultImageOptions = ImageOptions{Width: 800, Height: 600, Quality: 80}

// OptimizeImageURL appends resizing parameters to Contentful and Sanity CDN urls.
// Other urls are returned unchanged.
func OptimizeImageURL(rawURL string, opts ImageOptions) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	query := parsed.Query()
	switch parsed.Hostname() {
	case contentfulImagesHost:
		setPositive(query, "w", opts.Width)
		setPositive(query, "h", opts.Height)
		setPositive(query, "q", opts.Quality)
		query.Set("fm", "webp")
	case sanityImagesHost:
		setPositive(query, "w", opts.Width)
		setPositive(query, "h", opts.Height)
		setPositive(query, "q", opts.Quality)
		query.Set("auto", "format")
	default:
		return rawURL
	}

	parsed.RawQuery = query.Encode()

	return parsed.String()
}

func setPositive(query url.Values, key string, value int) {
	if value > 0 {
		query.Set(key, strconv.Itoa(value))
	}
}
