// Package scrape extracts contact details from vendor websites.
package scrape

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// DefaultTimeout bounds the page fetch; email scraping is best-effort and
// must never stall the batch.
const DefaultTimeout = 5 * time.Second

const maxBodyBytes = 512 * 1024

// EmailScraper fetches a website and pulls the first mailto: address.
type EmailScraper struct {
	client *http.Client
}

// NewEmailScraper creates an EmailScraper with the given per-request
// timeout. A non-positive timeout falls back to DefaultTimeout.
func NewEmailScraper(timeout time.Duration) *EmailScraper {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &EmailScraper{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: timeout,
				}).DialContext,
				TLSHandshakeTimeout: timeout,
			},
		},
	}
}

// Extract fetches siteURL and returns the address of the first anchor whose
// href starts with "mailto:", with any trailing query parameters stripped.
// An empty string with a nil error means the page had no mailto link.
func (s *EmailScraper) Extract(ctx context.Context, siteURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "scrape: create request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; VendorContactsBot/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "scrape: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", eris.Errorf("scrape: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", eris.Wrap(err, "scrape: parse html")
	}

	link := doc.Find(`a[href^="mailto:"]`).First()
	if link.Length() == 0 {
		return "", nil
	}

	href, _ := link.Attr("href")
	addr := strings.TrimPrefix(href, "mailto:")
	// mailto links may carry ?subject=... style parameters.
	if i := strings.IndexByte(addr, '?'); i >= 0 {
		addr = addr[:i]
	}
	return strings.TrimSpace(addr), nil
}
