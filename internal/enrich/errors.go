package enrich

import "github.com/rotisserie/eris"

var (
	// ErrConfiguration means no Places API credential was available. Raised
	// at construction, before any network call.
	ErrConfiguration = eris.New("enrich: places api key not configured")

	// ErrResolution means the anchor location could not be geocoded. Fatal
	// to the whole run: every lookup is biased toward the anchor point.
	ErrResolution = eris.New("enrich: anchor location not resolved")
)
