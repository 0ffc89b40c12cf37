// Package geocode resolves free-text place names to coordinates via Nominatim.
package geocode

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultUserAgent identifies this client to the geocoding service.
const DefaultUserAgent = "follower-map"

// Client geocodes free-text locations.
type Client interface {
	// Geocode resolves a single query. A miss is reported as Matched=false, not an error.
	Geocode(ctx context.Context, query string) (*Result, error)
}

// Result holds the geocoding output for a query.
type Result struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
	Matched     bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithBaseURL sets a custom Nominatim base URL (for testing or self-hosted instances).
func WithBaseURL(u string) Option {
	return func(g *geocoder) {
		g.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithUserAgent sets the client identifier sent with every lookup.
func WithUserAgent(ua string) Option {
	return func(g *geocoder) {
		if ua != "" {
			g.userAgent = ua
		}
	}
}

// WithRateLimit sets the requests-per-second pace for lookups.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		if rps <= 0 {
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type geocoder struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient creates a new geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    nominatimBaseURL,
		userAgent:  DefaultUserAgent,
		limiter:    rate.NewLimiter(1, 1), // Nominatim usage policy: 1 req/s
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Geocode normalizes the query and looks it up. Empty queries never reach the network.
func (g *geocoder) Geocode(ctx context.Context, query string) (*Result, error) {
	q := NormalizeQuery(query)
	if q == "" {
		return &Result{Matched: false}, nil
	}
	return g.geocodeNominatim(ctx, q)
}
