package model

// VendorFields is the canonical column order of a GnuCash vendor import
// table. Input files may carry additional columns; those pass through the
// merge untouched.
var VendorFields = []string{
	"id", "company", "name", "addr1", "addr2", "addr3", "addr4",
	"phone", "fax", "email", "notes", "shipname", "shipaddr1",
	"shipaddr2", "shipaddr3", "shipaddr4", "shiphone", "shipfax", "shipmail",
}

// RequiredVendorFields are the columns the merger reads or writes. A vendor
// table missing any of these is rejected before enrichment starts.
var RequiredVendorFields = []string{
	"company", "addr1", "addr2", "addr3", "addr4",
	"shipaddr1", "shipaddr2", "shipaddr3", "shipaddr4",
	"phone", "shiphone", "email", "shipmail",
}

// VendorRecord is one row of the vendor table, keyed by column name. Rows
// are mutated in place by the merger; no record is ever created or dropped
// during a merge.
type VendorRecord map[string]string

// Company returns the record's company name, the key used to correlate it
// with a lookup result.
func (r VendorRecord) Company() string { return r["company"] }

// Clone returns a shallow copy of the record.
func (r VendorRecord) Clone() VendorRecord {
	out := make(VendorRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// NewVendorRecords seeds empty vendor records from a list of company names,
// the shape GnuCash expects for an unknown-vendors import. The contact name
// is set to a placeholder until a human fills it in.
func NewVendorRecords(names []string) []VendorRecord {
	records := make([]VendorRecord, 0, len(names))
	for _, n := range names {
		r := make(VendorRecord, len(VendorFields))
		for _, f := range VendorFields {
			r[f] = ""
		}
		r["company"] = n
		r["name"] = "unknown contact"
		records = append(records, r)
	}
	return records
}
