// Package places is a client for the Google Places Web Service API
// (text search + place details).
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// detailsFields is the field set requested from the details endpoint.
const detailsFields = "formatted_address,formatted_phone_number,website"

// LatLng is a geographic anchor point for biased searches.
type LatLng struct {
	Lat float64
	Lng float64
}

// String renders the point in the "lat,lng" form the API expects.
func (p LatLng) String() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

// Candidate is one text-search result.
type Candidate struct {
	PlaceID          string `json:"place_id"`
	Name             string `json:"name"`
	FormattedAddress string `json:"formatted_address"`
}

// Details holds the contact fields of a place. Any field may be absent.
type Details struct {
	FormattedAddress string `json:"formatted_address"`
	FormattedPhone   string `json:"formatted_phone_number"`
	Website          string `json:"website"`
}

// Client performs Places API operations.
type Client interface {
	// Search issues a text search biased toward the anchor point.
	Search(ctx context.Context, query string, anchor LatLng, radiusMeters int) ([]Candidate, error)
	// Details fetches contact fields for a place identifier.
	Details(ctx context.Context, placeID string) (*Details, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Places API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(10, 10),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// searchResponse is the text-search JSON envelope.
type searchResponse struct {
	Results []Candidate `json:"results"`
	Status  string      `json:"status"`
}

// detailsResponse is the details JSON envelope.
type detailsResponse struct {
	Result Details `json:"result"`
	Status string  `json:"status"`
}

func (c *httpClient) Search(ctx context.Context, query string, anchor LatLng, radiusMeters int) ([]Candidate, error) {
	params := url.Values{
		"query":    {query},
		"location": {anchor.String()},
		"radius":   {strconv.Itoa(radiusMeters)},
		"key":      {c.apiKey},
	}

	var resp searchResponse
	if err := c.get(ctx, "/textsearch/json", params, &resp); err != nil {
		return nil, eris.Wrap(err, "places: text search")
	}
	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return nil, eris.Errorf("places: text search status %s", resp.Status)
	}
	return resp.Results, nil
}

func (c *httpClient) Details(ctx context.Context, placeID string) (*Details, error) {
	params := url.Values{
		"place_id": {placeID},
		"fields":   {detailsFields},
		"key":      {c.apiKey},
	}

	var resp detailsResponse
	if err := c.get(ctx, "/details/json", params, &resp); err != nil {
		return nil, eris.Wrap(err, "places: details")
	}
	if resp.Status != "OK" {
		return nil, eris.Errorf("places: details status %s", resp.Status)
	}
	return &resp.Result, nil
}

// get issues a rate-limited GET and unmarshals the JSON body into out.
func (c *httpClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "rate limit")
	}

	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.New(fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}
