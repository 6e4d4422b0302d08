package places

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/sells-group/vendor-contacts-cli/internal/model"
)

// Lookup resolves one business name to a VendorContact. The first search
// candidate is taken as-is; the mismatch risk for common names is accepted.
// Zero candidates yield an empty contact with a nil error; transport or API
// failures at either stage return an error for the caller to degrade.
func Lookup(ctx context.Context, c Client, name string, anchor LatLng, radiusMeters int) (model.VendorContact, error) {
	contact := model.VendorContact{Name: name}

	candidates, err := c.Search(ctx, name, anchor, radiusMeters)
	if err != nil {
		return contact, err
	}
	if len(candidates) == 0 {
		zap.L().Debug("places: no candidates", zap.String("vendor", name))
		return contact, nil
	}

	first := candidates[0]
	if first.Name != "" && first.Name != name {
		zap.L().Debug("places: first candidate name differs from query",
			zap.String("vendor", name),
			zap.String("candidate", first.Name),
		)
	}

	det, err := c.Details(ctx, first.PlaceID)
	if err != nil {
		return contact, err
	}

	contact.Address = det.FormattedAddress
	contact.Phone = det.FormattedPhone
	if det.Website != "" {
		contact.Website = CanonicalWebsite(det.Website)
	}
	return contact, nil
}

// CanonicalWebsite reduces a URL to scheme + host, stripping path, query,
// and fragment. Unparseable input is returned unchanged.
func CanonicalWebsite(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	return u.Scheme + "://" + u.Host
}
