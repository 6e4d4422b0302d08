package enrich

import (
	"strings"

	"github.com/sells-group/vendor-contacts-cli/internal/model"
)

// DecomposeAddress splits a formatted, comma-delimited address into street,
// middle (city/state/zip), and country segments. With fewer than two
// segments the whole string becomes the street and the rest stays empty.
// Total over all inputs; never fails.
func DecomposeAddress(address string) model.AddressComponents {
	parts := strings.Split(address, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) < 2 {
		return model.AddressComponents{Street: address}
	}

	return model.AddressComponents{
		Street:  parts[0],
		Middle:  strings.Join(parts[1:len(parts)-1], ", "),
		Country: parts[len(parts)-1],
	}
}
