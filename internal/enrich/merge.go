package enrich

import "github.com/sells-group/vendor-contacts-cli/internal/model"

// MergeContact applies a resolved contact onto a vendor record in place.
//
// Address: addr1/addr2/addr4 take the decomposed street/middle/country and
// are mirrored into shipaddr1/shipaddr2/shipaddr4; addr3 is never derived
// from the lookup, so it is left as-is and its pre-merge value is copied
// into shipaddr3. Phone and email overwrite both the primary and shipping
// fields only when present. Every other field passes through untouched.
//
// Re-merging the same contact is a no-op.
func MergeContact(rec model.VendorRecord, contact model.VendorContact) {
	if contact.Address != "" {
		comps := DecomposeAddress(contact.Address)
		rec["shipaddr3"] = rec["addr3"]
		rec["addr1"] = comps.Street
		rec["addr2"] = comps.Middle
		rec["addr4"] = comps.Country
		rec["shipaddr1"] = comps.Street
		rec["shipaddr2"] = comps.Middle
		rec["shipaddr4"] = comps.Country
	}
	if contact.Phone != "" {
		rec["phone"] = contact.Phone
		rec["shiphone"] = contact.Phone
	}
	if contact.Email != "" {
		rec["email"] = contact.Email
		rec["shipmail"] = contact.Email
	}
}
