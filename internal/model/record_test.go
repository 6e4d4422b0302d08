package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVendorRecords(t *testing.T) {
	records := NewVendorRecords([]string{"Acme Vending", "Corner Deli"})
	require.Len(t, records, 2)

	assert.Equal(t, "Acme Vending", records[0].Company())
	assert.Equal(t, "unknown contact", records[0]["name"])
	for _, field := range VendorFields {
		_, ok := records[0][field]
		assert.True(t, ok, "field %q missing", field)
	}
}

func TestVendorRecordClone(t *testing.T) {
	rec := VendorRecord{"company": "Acme", "addr1": "old"}
	clone := rec.Clone()
	clone["addr1"] = "new"

	assert.Equal(t, "old", rec["addr1"])
	assert.Equal(t, "new", clone["addr1"])
}

func TestVendorContactEmpty(t *testing.T) {
	assert.True(t, VendorContact{Name: "Acme"}.Empty())
	assert.False(t, VendorContact{Name: "Acme", Phone: "x"}.Empty())
}
