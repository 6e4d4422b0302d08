// Package enrich drives the vendor-contact enrichment pipeline: anchor
// geocoding, per-vendor place lookup, best-effort email scraping, and the
// merge of resolved contacts into vendor records.
package enrich

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/vendor-contacts-cli/internal/model"
	"github.com/sells-group/vendor-contacts-cli/internal/scrape"
	"github.com/sells-group/vendor-contacts-cli/pkg/geocode"
	"github.com/sells-group/vendor-contacts-cli/pkg/places"
)

// DefaultLocation anchors searches when no location is configured.
const DefaultLocation = "New Albany, Indiana, United States"

// DefaultRadiusMeters is the search radius when none is configured.
const DefaultRadiusMeters = 5000

// EmailExtractor pulls an email address out of a website.
type EmailExtractor interface {
	Extract(ctx context.Context, siteURL string) (string, error)
}

// Cache persists lookup results between runs. Implementations cache empty
// contacts too, so repeated misses don't re-hit the API.
type Cache interface {
	Get(ctx context.Context, name string) (*model.VendorContact, bool, error)
	Put(ctx context.Context, name string, contact model.VendorContact) error
}

// Options configures an Enricher. Zero-value client fields are replaced
// with production defaults; tests inject fakes.
type Options struct {
	APIKey        string
	Location      string
	RadiusMeters  int
	Concurrency   int
	ScrapeTimeout time.Duration
	// E164Region, when set, re-formats looked-up phone numbers to E.164
	// for that region. Empty keeps the source formatting.
	E164Region string

	Geocoder geocode.Client
	Places   places.Client
	Scraper  EmailExtractor
	Cache    Cache
}

// Enricher resolves a batch of company names to vendor contacts.
type Enricher struct {
	geocoder    geocode.Client
	places      places.Client
	scraper     EmailExtractor
	cache       Cache
	location    string
	radius      int
	concurrency int
	e164Region  string
}

// New builds an Enricher. The Places credential is checked here, before
// any network call is made: a missing key is ErrConfiguration.
func New(opts Options) (*Enricher, error) {
	if opts.Places == nil {
		if opts.APIKey == "" {
			return nil, ErrConfiguration
		}
		opts.Places = places.NewClient(opts.APIKey)
	}
	if opts.Geocoder == nil {
		opts.Geocoder = geocode.NewClient()
	}
	if opts.Scraper == nil {
		opts.Scraper = scrape.NewEmailScraper(opts.ScrapeTimeout)
	}
	if opts.Location == "" {
		opts.Location = DefaultLocation
	}
	if opts.RadiusMeters <= 0 {
		opts.RadiusMeters = DefaultRadiusMeters
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}

	return &Enricher{
		geocoder:    opts.Geocoder,
		places:      opts.Places,
		scraper:     opts.Scraper,
		cache:       opts.Cache,
		location:    opts.Location,
		radius:      opts.RadiusMeters,
		concurrency: opts.Concurrency,
		e164Region:  opts.E164Region,
	}, nil
}

// Enrich resolves every name to exactly one VendorContact. The result key
// set always equals the deduplicated input set: per-vendor failures degrade
// to empty contacts and never abort the batch. Only anchor resolution is
// fatal. When ctx expires mid-batch, the remaining names are finalized as
// empty contacts rather than failing the run.
func (e *Enricher) Enrich(ctx context.Context, names []string) (map[string]model.VendorContact, error) {
	unique := dedupe(names)
	results := make(map[string]model.VendorContact, len(unique))
	if len(unique) == 0 {
		return results, nil
	}

	anchorRes, err := e.geocoder.Resolve(ctx, e.location)
	if err != nil {
		return nil, eris.Wrapf(ErrResolution, "location %q: %v", e.location, err)
	}
	if !anchorRes.Matched {
		return nil, eris.Wrapf(ErrResolution, "location %q", e.location)
	}
	anchor := places.LatLng{Lat: anchorRes.Latitude, Lng: anchorRes.Longitude}

	zap.L().Info("enrich: anchored",
		zap.String("location", e.location),
		zap.Float64("lat", anchor.Lat),
		zap.Float64("lng", anchor.Lng),
		zap.String("source", anchorRes.Source),
		zap.Int("vendors", len(unique)),
	)

	// Plain errgroup, not WithContext: one vendor's failure must never
	// cancel the others. Each slot is written by exactly one goroutine.
	contacts := make([]model.VendorContact, len(unique))
	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, name := range unique {
		i, name := i, name
		g.Go(func() error {
			contacts[i] = e.lookupOne(ctx, name, anchor)
			return nil
		})
	}
	_ = g.Wait()

	for i, name := range unique {
		results[name] = contacts[i]
	}
	return results, nil
}

// lookupOne resolves a single vendor. All failure paths return an empty or
// partial contact; nothing escapes to the batch.
func (e *Enricher) lookupOne(ctx context.Context, name string, anchor places.LatLng) model.VendorContact {
	log := zap.L().With(zap.String("vendor", name))

	if ctx.Err() != nil {
		log.Warn("enrich: deadline reached, finalizing empty contact")
		return model.VendorContact{Name: name}
	}

	if e.cache != nil {
		if cached, ok, err := e.cache.Get(ctx, name); err != nil {
			log.Debug("enrich: cache read failed", zap.Error(err))
		} else if ok {
			log.Debug("enrich: cache hit", zap.Bool("empty", cached.Empty()))
			return *cached
		}
	}

	contact, err := places.Lookup(ctx, e.places, name, anchor, e.radius)
	if err != nil {
		log.Warn("enrich: lookup failed", zap.Error(err))
		contact = model.VendorContact{Name: name}
	}

	if contact.Website != "" {
		email, scrapeErr := e.scraper.Extract(ctx, contact.Website)
		if scrapeErr != nil {
			log.Warn("enrich: email scrape failed",
				zap.String("website", contact.Website),
				zap.Error(scrapeErr),
			)
		} else {
			contact.Email = email
		}
	}

	if e.e164Region != "" && contact.Phone != "" {
		contact.Phone = normalizeE164(contact.Phone, e.e164Region)
	}

	if e.cache != nil {
		if err := e.cache.Put(ctx, name, contact); err != nil {
			log.Debug("enrich: cache write failed", zap.Error(err))
		}
	}

	if contact.Empty() {
		log.Warn("enrich: no contact found")
	}
	return contact
}

// dedupe returns the distinct names, case-sensitive, sorted for
// deterministic processing order.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		unique = append(unique, n)
	}
	sort.Strings(unique)
	return unique
}
