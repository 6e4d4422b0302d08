package enrich

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/vendor-contacts-cli/internal/model"
	"github.com/sells-group/vendor-contacts-cli/pkg/geocode"
	"github.com/sells-group/vendor-contacts-cli/pkg/places"
)

type mockGeocoder struct {
	result *geocode.Result
	err    error
}

func (m *mockGeocoder) Resolve(_ context.Context, _ string) (*geocode.Result, error) {
	return m.result, m.err
}

func anchoredGeocoder() *mockGeocoder {
	return &mockGeocoder{result: &geocode.Result{
		Latitude: 38.3, Longitude: -85.8, Source: "nominatim", Matched: true,
	}}
}

type mockPlaces struct {
	mu         sync.Mutex
	candidates map[string][]places.Candidate
	details    map[string]*places.Details
	searchErr  map[string]error
	detailsErr error
	searched   []string
}

func (m *mockPlaces) Search(_ context.Context, query string, _ places.LatLng, _ int) ([]places.Candidate, error) {
	m.mu.Lock()
	m.searched = append(m.searched, query)
	m.mu.Unlock()
	if err := m.searchErr[query]; err != nil {
		return nil, err
	}
	return m.candidates[query], nil
}

func (m *mockPlaces) Details(_ context.Context, placeID string) (*places.Details, error) {
	if m.detailsErr != nil {
		return nil, m.detailsErr
	}
	return m.details[placeID], nil
}

type mockScraper struct {
	mu    sync.Mutex
	email string
	err   error
	calls []string
}

func (m *mockScraper) Extract(_ context.Context, siteURL string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, siteURL)
	m.mu.Unlock()
	return m.email, m.err
}

func newTestEnricher(t *testing.T, opts Options) *Enricher {
	t.Helper()
	if opts.Geocoder == nil {
		opts.Geocoder = anchoredGeocoder()
	}
	if opts.Places == nil {
		opts.Places = &mockPlaces{}
	}
	if opts.Scraper == nil {
		opts.Scraper = &mockScraper{}
	}
	if opts.Concurrency == 0 {
		opts.Concurrency = 1
	}
	e, err := New(opts)
	require.NoError(t, err)
	return e
}

func TestNew_MissingKeyIsConfigurationError(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestEnrich_KeySetMatchesDedupedInput(t *testing.T) {
	e := newTestEnricher(t, Options{Concurrency: 3})

	names := []string{"Acme", "Beta Corp", "Acme", "acme", "", "Gamma LLC"}
	results, err := e.Enrich(context.Background(), names)
	require.NoError(t, err)

	// Case-sensitive dedup: "Acme" and "acme" are distinct.
	assert.Len(t, results, 4)
	for _, name := range []string{"Acme", "acme", "Beta Corp", "Gamma LLC"} {
		contact, ok := results[name]
		require.True(t, ok, "missing key %q", name)
		assert.Equal(t, name, contact.Name)
		assert.True(t, contact.Empty())
	}
}

func TestEnrich_FullLookup(t *testing.T) {
	pc := &mockPlaces{
		candidates: map[string][]places.Candidate{
			"Acme Vending": {{PlaceID: "p1", Name: "Acme Vending"}},
		},
		details: map[string]*places.Details{
			"p1": {
				FormattedAddress: "123 Main St, Springfield, IL 62704, USA",
				FormattedPhone:   "(812) 555-0148",
				Website:          "https://acme.test/contact?x=1",
			},
		},
	}
	sc := &mockScraper{email: "info@acme.test"}
	e := newTestEnricher(t, Options{Places: pc, Scraper: sc})

	results, err := e.Enrich(context.Background(), []string{"Acme Vending"})
	require.NoError(t, err)

	contact := results["Acme Vending"]
	assert.Equal(t, "123 Main St, Springfield, IL 62704, USA", contact.Address)
	assert.Equal(t, "(812) 555-0148", contact.Phone)
	assert.Equal(t, "https://acme.test", contact.Website)
	assert.Equal(t, "info@acme.test", contact.Email)

	// The scraper sees the canonical website, not the raw details URL.
	assert.Equal(t, []string{"https://acme.test"}, sc.calls)
}

func TestEnrich_AnchorUnmatchedIsFatal(t *testing.T) {
	e := newTestEnricher(t, Options{
		Geocoder: &mockGeocoder{result: &geocode.Result{Matched: false, Source: "nominatim"}},
	})

	_, err := e.Enrich(context.Background(), []string{"Acme"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolution))
}

func TestEnrich_GeocoderErrorIsFatal(t *testing.T) {
	e := newTestEnricher(t, Options{
		Geocoder: &mockGeocoder{err: eris.New("nominatim down")},
	})

	_, err := e.Enrich(context.Background(), []string{"Acme"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolution))
	assert.Contains(t, err.Error(), "nominatim down")
}

func TestEnrich_LookupFailureIsolatedPerVendor(t *testing.T) {
	pc := &mockPlaces{
		candidates: map[string][]places.Candidate{
			"Good Vendor": {{PlaceID: "p1"}},
		},
		details: map[string]*places.Details{
			"p1": {FormattedAddress: "9 Oak Ave, Louisville, KY 40202, USA"},
		},
		searchErr: map[string]error{
			"Bad Vendor": eris.New("places: text search status REQUEST_DENIED"),
		},
	}
	e := newTestEnricher(t, Options{Places: pc})

	results, err := e.Enrich(context.Background(), []string{"Bad Vendor", "Good Vendor"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results["Bad Vendor"].Empty())
	assert.Equal(t, "9 Oak Ave, Louisville, KY 40202, USA", results["Good Vendor"].Address)
}

func TestEnrich_ScrapeFailureDegradesToNoEmail(t *testing.T) {
	pc := &mockPlaces{
		candidates: map[string][]places.Candidate{"Acme": {{PlaceID: "p1"}}},
		details: map[string]*places.Details{
			"p1": {Website: "https://acme.test"},
		},
	}
	e := newTestEnricher(t, Options{
		Places:  pc,
		Scraper: &mockScraper{err: eris.New("scrape: status 503")},
	})

	results, err := e.Enrich(context.Background(), []string{"Acme"})
	require.NoError(t, err)

	contact := results["Acme"]
	assert.Equal(t, "https://acme.test", contact.Website)
	assert.Equal(t, "", contact.Email)
}

func TestEnrich_NoWebsiteSkipsScrape(t *testing.T) {
	pc := &mockPlaces{
		candidates: map[string][]places.Candidate{"Acme": {{PlaceID: "p1"}}},
		details: map[string]*places.Details{
			"p1": {FormattedAddress: "123 Main St, Springfield, IL 62704, USA"},
		},
	}
	sc := &mockScraper{email: "never@used.test"}
	e := newTestEnricher(t, Options{Places: pc, Scraper: sc})

	results, err := e.Enrich(context.Background(), []string{"Acme"})
	require.NoError(t, err)
	assert.Empty(t, sc.calls)
	assert.Equal(t, "", results["Acme"].Email)
}

func TestEnrich_ExpiredContextFinalizesEmptyContacts(t *testing.T) {
	pc := &mockPlaces{
		candidates: map[string][]places.Candidate{"Acme": {{PlaceID: "p1"}}},
		details:    map[string]*places.Details{"p1": {FormattedAddress: "somewhere"}},
	}
	e := newTestEnricher(t, Options{Places: pc})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := e.Enrich(ctx, []string{"Acme", "Beta"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results["Acme"].Empty())
	assert.True(t, results["Beta"].Empty())
	assert.Empty(t, pc.searched)
}

func TestEnrich_EmptyInput(t *testing.T) {
	gc := &mockGeocoder{err: eris.New("should not be called")}
	e := newTestEnricher(t, Options{Geocoder: gc})

	results, err := e.Enrich(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]model.VendorContact
	puts    int
}

func (m *mapCache) Get(_ context.Context, name string) (*model.VendorContact, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.entries[name]
	if !ok {
		return nil, false, nil
	}
	return &c, true, nil
}

func (m *mapCache) Put(_ context.Context, name string, contact model.VendorContact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[name] = contact
	m.puts++
	return nil
}

func TestEnrich_CacheHitSkipsLookup(t *testing.T) {
	cache := &mapCache{entries: map[string]model.VendorContact{
		"Acme": {Name: "Acme", Address: "cached addr", Phone: "cached phone"},
	}}
	pc := &mockPlaces{}
	e := newTestEnricher(t, Options{Places: pc, Cache: cache})

	results, err := e.Enrich(context.Background(), []string{"Acme"})
	require.NoError(t, err)
	assert.Equal(t, "cached addr", results["Acme"].Address)
	assert.Empty(t, pc.searched)
}

func TestEnrich_CachePopulatedOnMiss(t *testing.T) {
	cache := &mapCache{entries: map[string]model.VendorContact{}}
	e := newTestEnricher(t, Options{Cache: cache})

	_, err := e.Enrich(context.Background(), []string{"Acme"})
	require.NoError(t, err)

	// Empty contacts are cached too.
	assert.Equal(t, 1, cache.puts)
	cached, ok := cache.entries["Acme"]
	require.True(t, ok)
	assert.True(t, cached.Empty())
}

func TestEnrich_E164Normalization(t *testing.T) {
	pc := &mockPlaces{
		candidates: map[string][]places.Candidate{"Acme": {{PlaceID: "p1"}}},
		details: map[string]*places.Details{
			"p1": {FormattedPhone: "(202) 456-1111"},
		},
	}
	e := newTestEnricher(t, Options{Places: pc, E164Region: "US"})

	results, err := e.Enrich(context.Background(), []string{"Acme"})
	require.NoError(t, err)
	assert.Equal(t, "+12024561111", results["Acme"].Phone)
}
