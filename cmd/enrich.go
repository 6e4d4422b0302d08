package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/vendor-contacts-cli/internal/config"
	"github.com/sells-group/vendor-contacts-cli/internal/enrich"
	"github.com/sells-group/vendor-contacts-cli/internal/model"
	"github.com/sells-group/vendor-contacts-cli/internal/scrape"
	"github.com/sells-group/vendor-contacts-cli/internal/store"
	"github.com/sells-group/vendor-contacts-cli/pkg/geocode"
	"github.com/sells-group/vendor-contacts-cli/pkg/places"
)

var (
	enrichInput       string
	enrichOutput      string
	enrichLocation    string
	enrichRadius      int
	enrichConcurrency int
	enrichTimeout     time.Duration
	enrichE164        bool
	enrichDryRun      bool
	enrichFromNames   bool
	enrichNoCache     bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a vendor CSV with contact details from Google Places",
	Long: `Reads a semicolon-delimited GnuCash vendor CSV, looks up each unique
company name near the configured anchor location, scrapes websites for an
email address, and writes the enriched CSV.

Examples:
  # Enrich a vendor export (output defaults to <input>_with_contacts.csv)
  vendor-contacts enrich --input vendors.csv

  # Seed records from a plain unknown-vendors name list
  vendor-contacts enrich --input unknown_vendors_2026.csv --from-names --output vendors.csv

  # Bound the whole run; vendors not reached become empty contacts
  vendor-contacts enrich --input vendors.csv --timeout 2m`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		table, err := loadVendorTable()
		if err != nil {
			return err
		}
		names := table.CompanyNames()
		zap.L().Info("enrich: vendor table loaded",
			zap.String("input", enrichInput),
			zap.Int("records", len(table.Records)),
			zap.Int("companies", len(names)),
		)

		if enrichDryRun {
			return printNamesJSON(names)
		}

		enricher, closeCache, err := buildEnricher()
		if err != nil {
			return err
		}
		defer closeCache()

		if enrichTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, enrichTimeout)
			defer cancel()
		}

		contacts, err := enricher.Enrich(ctx, names)
		if err != nil {
			return eris.Wrap(err, "enrich: batch")
		}

		var merged, emails int
		for _, rec := range table.Records {
			contact, ok := contacts[rec.Company()]
			if !ok {
				continue
			}
			enrich.MergeContact(rec, contact)
			if !contact.Empty() {
				merged++
			}
			if contact.Email != "" {
				emails++
			}
		}

		outPath := enrichOutput
		if outPath == "" {
			outPath = enrich.DefaultOutputPath(enrichInput)
		}
		if err := table.Write(outPath); err != nil {
			return eris.Wrap(err, "enrich: write output")
		}

		zap.L().Info("enrich: complete",
			zap.String("output", outPath),
			zap.Int("records", len(table.Records)),
			zap.Int("vendors_looked_up", len(contacts)),
			zap.Int("vendors_enriched", merged),
			zap.Int("emails_found", emails),
		)
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInput, "input", "", "path to vendor CSV (required)")
	enrichCmd.Flags().StringVar(&enrichOutput, "output", "", "output CSV path (default: <input>_with_contacts.csv)")
	enrichCmd.Flags().StringVar(&enrichLocation, "location", "", "anchor location for place searches (default from config)")
	enrichCmd.Flags().IntVar(&enrichRadius, "radius", 0, "search radius in meters (default from config)")
	enrichCmd.Flags().IntVar(&enrichConcurrency, "concurrency", 0, "max vendors to look up concurrently (default from config)")
	enrichCmd.Flags().DurationVar(&enrichTimeout, "timeout", 0, "overall deadline for the run (0 = none)")
	enrichCmd.Flags().BoolVar(&enrichE164, "e164", false, "normalize looked-up phone numbers to E.164")
	enrichCmd.Flags().BoolVar(&enrichDryRun, "dry-run", false, "parse input and print company names, skip lookups")
	enrichCmd.Flags().BoolVar(&enrichFromNames, "from-names", false, "treat input as a plain name list and seed empty vendor records")
	enrichCmd.Flags().BoolVar(&enrichNoCache, "no-cache", false, "bypass the lookup cache even when configured")
	_ = enrichCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(enrichCmd)
}

// loadVendorTable reads the input as a vendor table, or seeds one from a
// name list in --from-names mode.
func loadVendorTable() (*enrich.VendorTable, error) {
	if enrichFromNames {
		names, err := enrich.ReadNameList(enrichInput)
		if err != nil {
			return nil, eris.Wrap(err, "enrich: read name list")
		}
		return &enrich.VendorTable{
			Header:  model.VendorFields,
			Records: model.NewVendorRecords(names),
		}, nil
	}

	table, err := enrich.ReadVendorTable(enrichInput)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: read vendor table")
	}
	return table, nil
}

// buildEnricher wires production clients from config and flags. The
// returned closer shuts down the cache, if one was opened.
func buildEnricher() (*enrich.Enricher, func(), error) {
	apiKey := config.ResolvePlacesKey(cfg)

	location := enrichLocation
	if location == "" {
		location = cfg.Geocode.Location
	}
	radius := enrichRadius
	if radius <= 0 {
		radius = cfg.Places.RadiusMeters
	}
	concurrency := enrichConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Enrich.Concurrency
	}

	geocodeOpts := []geocode.Option{
		geocode.WithUserAgent(cfg.Geocode.UserAgent),
	}
	if cfg.Geocode.RPS > 0 {
		geocodeOpts = append(geocodeOpts, geocode.WithRateLimit(cfg.Geocode.RPS))
	}
	if cfg.Geocode.GoogleKey != "" {
		geocodeOpts = append(geocodeOpts, geocode.WithGoogleAPIKey(cfg.Geocode.GoogleKey))
	} else if apiKey != "" {
		// The Places key also works for the Geocoding API fallback.
		geocodeOpts = append(geocodeOpts, geocode.WithGoogleAPIKey(apiKey))
	}

	var placesClient places.Client
	if apiKey != "" {
		placesOpts := []places.Option{}
		if cfg.Places.BaseURL != "" {
			placesOpts = append(placesOpts, places.WithBaseURL(cfg.Places.BaseURL))
		}
		placesClient = places.NewClient(apiKey, placesOpts...)
	}

	closeCache := func() {}
	var cache enrich.Cache
	if cfg.Enrich.CachePath != "" && !enrichNoCache {
		cc, err := store.NewContactCache(cfg.Enrich.CachePath, cfg.Enrich.CacheTTLDays)
		if err != nil {
			return nil, nil, eris.Wrap(err, "enrich: open cache")
		}
		if err := cc.Migrate(context.Background()); err != nil {
			_ = cc.Close()
			return nil, nil, eris.Wrap(err, "enrich: migrate cache")
		}
		cache = cc
		closeCache = func() { _ = cc.Close() }
	}

	e164Region := ""
	if enrichE164 {
		e164Region = cfg.Enrich.E164Region
	}

	enricher, err := enrich.New(enrich.Options{
		APIKey:        apiKey,
		Location:      location,
		RadiusMeters:  radius,
		Concurrency:   concurrency,
		ScrapeTimeout: time.Duration(cfg.Scrape.TimeoutSecs) * time.Second,
		E164Region:    e164Region,
		Geocoder:      geocode.NewClient(geocodeOpts...),
		Places:        placesClient,
		Scraper:       scrape.NewEmailScraper(time.Duration(cfg.Scrape.TimeoutSecs) * time.Second),
		Cache:         cache,
	})
	if err != nil {
		closeCache()
		return nil, nil, err
	}
	return enricher, closeCache, nil
}

// printNamesJSON prints the distinct company names as indented JSON.
func printNamesJSON(names []string) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(names)
}
