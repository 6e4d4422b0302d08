// Package geocode resolves free-text location descriptions to coordinates
// via Nominatim (primary) and the Google Geocoding API (fallback).
package geocode

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client resolves a free-text location to a latitude/longitude pair.
type Client interface {
	// Resolve geocodes a location description. An unmatched location is
	// reported as Matched=false, not as an error.
	Resolve(ctx context.Context, location string) (*Result, error)
}

// Result holds the geocoding output for a location.
type Result struct {
	Latitude  float64
	Longitude float64
	Source    string // "nominatim" or "google"
	Matched   bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithGoogleAPIKey enables the Google Geocoding API as a fallback.
func WithGoogleAPIKey(key string) Option {
	return func(g *geocoder) {
		g.googleKey = key
	}
}

// WithHTTPClient sets a custom HTTP client for all requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithNominatimBaseURL overrides the default Nominatim endpoint.
func WithNominatimBaseURL(url string) Option {
	return func(g *geocoder) {
		g.nominatimURL = url
	}
}

// WithGoogleBaseURL overrides the default Google Geocoding endpoint.
func WithGoogleBaseURL(url string) Option {
	return func(g *geocoder) {
		g.googleURL = url
	}
}

// WithUserAgent sets the User-Agent header sent to Nominatim, which rejects
// requests without an identifying agent.
func WithUserAgent(ua string) Option {
	return func(g *geocoder) {
		g.userAgent = ua
	}
}

// WithRateLimit sets the requests-per-second limit for geocoding calls.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type geocoder struct {
	httpClient   *http.Client
	googleKey    string
	nominatimURL string
	googleURL    string
	userAgent    string
	limiter      *rate.Limiter
}

// NewClient creates a geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		nominatimURL: defaultNominatimURL,
		googleURL:    defaultGoogleGeocodeURL,
		userAgent:    "gnucash-vendor-locator/1.0",
		limiter:      rate.NewLimiter(1, 1), // Nominatim usage policy
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Resolve implements Client. Nominatim is tried first; when it errors or
// misses and a Google key is configured, Google is consulted before the
// location is reported unmatched.
func (g *geocoder) Resolve(ctx context.Context, location string) (*Result, error) {
	result, err := g.resolveNominatim(ctx, location)
	if err == nil && result.Matched {
		return result, nil
	}

	if g.googleKey != "" {
		gr, gerr := g.resolveGoogle(ctx, location)
		if gerr == nil {
			return gr, nil
		}
		if err == nil {
			err = gerr
		}
	}

	if err != nil {
		return nil, err
	}
	return result, nil
}
