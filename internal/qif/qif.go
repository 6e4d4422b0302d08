// Package qif writes QIF transaction files for GnuCash import.
package qif

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// DefaultAccountName is the QIF account declaration used when none is given.
const DefaultAccountName = "BillPay Account **6241"

const (
	defaultMemo     = "ATM sales commission"
	defaultCategory = "Sales Commission Paid"
)

// Check is one commission payment to convert into a QIF bank transaction.
type Check struct {
	Payee  string
	Amount float64
}

// Options configures QIF output.
type Options struct {
	AccountName string
	StartNumber int
	// Date defaults to today when zero; every check carries the same date.
	Date     time.Time
	Memo     string
	Category string
}

// ReadChecksCSV reads a comma-delimited checks file with "Commission" and
// "Location" columns.
func ReadChecksCSV(path string) ([]Check, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "qif: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "qif: read %s", path)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("qif: %s is empty", path)
	}

	amountIdx, payeeIdx := -1, -1
	for i, col := range rows[0] {
		switch col {
		case "Commission":
			amountIdx = i
		case "Location":
			payeeIdx = i
		}
	}
	if amountIdx < 0 || payeeIdx < 0 {
		return nil, eris.Errorf("qif: %s missing required columns Commission, Location (have: %s)",
			path, strings.Join(rows[0], ", "))
	}

	checks := make([]Check, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if amountIdx >= len(row) || payeeIdx >= len(row) {
			continue
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(row[amountIdx]), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "qif: bad amount %q in row %d", row[amountIdx], i+2)
		}
		checks = append(checks, Check{
			Payee:  row[payeeIdx],
			Amount: amount,
		})
	}
	return checks, nil
}

// Write emits the checks as QIF bank transactions with sequential check
// numbers. Amounts are written as negative debits regardless of input sign.
func Write(w io.Writer, checks []Check, opts Options) error {
	if opts.AccountName == "" {
		opts.AccountName = DefaultAccountName
	}
	if opts.Date.IsZero() {
		opts.Date = time.Now()
	}
	if opts.Memo == "" {
		opts.Memo = defaultMemo
	}
	if opts.Category == "" {
		opts.Category = defaultCategory
	}

	date := opts.Date.Format("01/02/2006")

	var b strings.Builder
	b.WriteString("!Account\n")
	fmt.Fprintf(&b, "N%s\n", opts.AccountName)
	b.WriteString("TBank\n")
	b.WriteString("^\n")
	b.WriteString("!Type:Bank\n")

	num := opts.StartNumber
	for _, check := range checks {
		fmt.Fprintf(&b, "D%s\n", date)
		fmt.Fprintf(&b, "N%d\n", num)
		fmt.Fprintf(&b, "T%.2f\n", -math.Abs(check.Amount))
		fmt.Fprintf(&b, "P%s\n", check.Payee)
		fmt.Fprintf(&b, "M%s\n", opts.Memo)
		fmt.Fprintf(&b, "L%s\n", opts.Category)
		b.WriteString("^\n")
		num++
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrap(err, "qif: write")
	}
	return nil
}
