package places

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_PopulatesContact(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/textsearch/json":
			_, _ = io.WriteString(w, `{"status": "OK", "results": [{"place_id": "p1", "name": "Acme Vending"}]}`)
		case "/details/json":
			_, _ = io.WriteString(w, `{
				"status": "OK",
				"result": {
					"formatted_address": "123 Main St, Springfield, IL 62704, USA",
					"formatted_phone_number": "(812) 555-0148",
					"website": "https://example.com/page?x=1"
				}
			}`)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	contact, err := Lookup(context.Background(), c, "Acme Vending", LatLng{Lat: 38.3, Lng: -85.8}, 5000)
	require.NoError(t, err)

	assert.Equal(t, "Acme Vending", contact.Name)
	assert.Equal(t, "123 Main St, Springfield, IL 62704, USA", contact.Address)
	assert.Equal(t, "(812) 555-0148", contact.Phone)
	assert.Equal(t, "https://example.com", contact.Website)
	assert.Equal(t, "", contact.Email)
}

func TestLookup_ZeroCandidatesIsEmptyContact(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/textsearch/json", r.URL.Path)
		_, _ = io.WriteString(w, `{"status": "ZERO_RESULTS", "results": []}`)
	})

	contact, err := Lookup(context.Background(), c, "No Such Vendor", LatLng{}, 5000)
	require.NoError(t, err)
	assert.Equal(t, "No Such Vendor", contact.Name)
	assert.True(t, contact.Empty())
}

func TestLookup_DetailsFailureReturnsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/textsearch/json":
			_, _ = io.WriteString(w, `{"status": "OK", "results": [{"place_id": "p1"}]}`)
		case "/details/json":
			w.WriteHeader(http.StatusBadGateway)
		}
	})

	contact, err := Lookup(context.Background(), c, "Acme", LatLng{}, 5000)
	require.Error(t, err)
	assert.Equal(t, "Acme", contact.Name)
	assert.True(t, contact.Empty())
}

func TestCanonicalWebsite(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/page?x=1", "https://example.com"},
		{"http://example.com/a/b#frag", "http://example.com"},
		{"https://example.com", "https://example.com"},
		{"not a url", "not a url"},
		{"/relative/path", "/relative/path"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalWebsite(tt.in), "input %q", tt.in)
	}
}
