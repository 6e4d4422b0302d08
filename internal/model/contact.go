// Package model defines the data types shared across the enrichment pipeline.
package model

// VendorContact is the resolved contact information for one company name.
// A contact exists for every requested name; on total lookup failure only
// Name is set.
type VendorContact struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`
}

// Empty reports whether the contact carries no data beyond the name.
func (c VendorContact) Empty() bool {
	return c.Address == "" && c.Phone == "" && c.Email == "" && c.Website == ""
}

// AddressComponents holds the pieces of a decomposed formatted address.
// Decomposition is one-directional: interior separators are normalized to
// ", ", so reassembly is lossy.
type AddressComponents struct {
	Street  string
	Middle  string
	Country string
}
