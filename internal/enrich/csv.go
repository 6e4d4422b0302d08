package enrich

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vendor-contacts-cli/internal/model"
)

// vendorDelimiter matches the semicolon-separated files GnuCash's vendor
// importer consumes and produces.
const vendorDelimiter = ';'

// VendorTable is an in-memory vendor CSV: the header exactly as read, plus
// one record per data row. Writing preserves the input column order.
type VendorTable struct {
	Header  []string
	Records []model.VendorRecord
}

// ReadVendorTable reads a semicolon-delimited vendor CSV and validates that
// every column the merger touches is present.
func ReadVendorTable(path string) (*VendorTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.Comma = vendorDelimiter
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "csv: read %s", path)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("csv: %s is empty", path)
	}

	header := rows[0]
	have := make(map[string]int, len(header))
	for i, col := range header {
		have[col] = i
	}
	var missing []string
	for _, col := range model.RequiredVendorFields {
		if _, ok := have[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("csv: %s missing required columns: %s", path, strings.Join(missing, ", "))
	}

	records := make([]model.VendorRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(model.VendorRecord, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}

	return &VendorTable{Header: header, Records: records}, nil
}

// Write writes the table back out with the original header and column
// order, semicolon-delimited.
func (t *VendorTable) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "csv: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	writer := csv.NewWriter(f)
	writer.Comma = vendorDelimiter

	if err := writer.Write(t.Header); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	row := make([]string, len(t.Header))
	for _, rec := range t.Records {
		for i, col := range t.Header {
			row[i] = rec[col]
		}
		if err := writer.Write(row); err != nil {
			return eris.Wrap(err, "csv: write row")
		}
	}

	writer.Flush()
	return eris.Wrap(writer.Error(), "csv: flush")
}

// CompanyNames returns the non-empty company values, in row order and with
// duplicates intact; the enricher deduplicates.
func (t *VendorTable) CompanyNames() []string {
	names := make([]string, 0, len(t.Records))
	for _, rec := range t.Records {
		if name := rec.Company(); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ReadNameList reads a single-column (or name-columned) CSV of company
// names, as produced by the unknown-vendors export. When the header has a
// "name" column that column is used; otherwise the first column is.
func ReadNameList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "csv: read %s", path)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("csv: %s is empty", path)
	}

	nameIdx := 0
	for i, col := range rows[0] {
		if col == "name" {
			nameIdx = i
			break
		}
	}

	var names []string
	for _, row := range rows[1:] {
		if nameIdx < len(row) {
			if name := strings.TrimSpace(row[nameIdx]); name != "" {
				names = append(names, name)
			}
		}
	}
	return names, nil
}

// DefaultOutputPath derives the output file path from the input: same
// directory, "_with_contacts" appended before the extension.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(input, ext)
	return stem + "_with_contacts" + ext
}
