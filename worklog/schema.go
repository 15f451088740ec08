/*
schema.go - Canonical columns and the row codec

PURPOSE:
  The backing store holds untyped text cells under arbitrary headers.
  This file is the single boundary where that shape is validated and
  coerced into typed records: decode once per load, encode once per save.
  No other file parses cell text.

DEFAULTING RULES (per table kind):
  - A canonical column missing from the input is back-filled: numeric
    columns (ID, duration, hours, income, tip, total) get 0, text columns
    get "".
  - Unknown extra columns are dropped.
  - Output column order always matches the canonical order below.

SEE ALSO:
  - identity.go: Repairs the decoded ID column after every load
  - service.go: Calls the codec on every load/save
*/
package worklog

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CANONICAL COLUMNS
// =============================================================================

const (
	ColID       = "ID"
	ColDate     = "Date"
	ColEmployee = "Employee"
	ColClient   = "Client"
	ColService  = "Service"
	ColDuration = "Duration (min)"
	ColHours    = "Hours"
	ColIncome   = "Service Income"
	ColTip      = "Tip"
	ColTotal    = "Total Income"
)

// RecordColumns is the canonical header of the Records table.
var RecordColumns = []string{
	ColID, ColDate, ColEmployee, ColClient, ColService,
	ColDuration, ColHours, ColIncome, ColTip, ColTotal,
}

// StaffColumns is the canonical header of the Staff table.
var StaffColumns = []string{ColEmployee}

// =============================================================================
// DECODE - Raw rows to typed records
// =============================================================================

// DecodeRecords coerces raw store rows into typed records, applying the
// defaulting rules. An unparseable ID decodes to 0 ("blank") and is left
// for RepairIDs; unparseable numerics decode to zero values.
func DecodeRecords(rows []Row) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record{
			ID:              RecordID(cellInt(row, ColID)),
			Date:            cellText(row, ColDate),
			Employee:        cellText(row, ColEmployee),
			Client:          cellText(row, ColClient),
			Service:         cellText(row, ColService),
			DurationMinutes: int(cellInt(row, ColDuration)),
			Hours:           cellDecimal(row, ColHours),
			ServiceIncome:   cellDecimal(row, ColIncome),
			Tip:             cellDecimal(row, ColTip),
			TotalIncome:     cellDecimal(row, ColTotal),
		})
	}
	return records
}

// DecodeStaff coerces raw store rows into the roster, preserving stored
// order. Blank names are kept here; ListStaff filters them for pickers.
func DecodeStaff(rows []Row) []string {
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, cellText(row, ColEmployee))
	}
	return names
}

// =============================================================================
// ENCODE - Typed records to store rows
// =============================================================================

// EncodeRecords renders records as store rows in canonical column order.
// Money and hours are written with two decimal places.
func EncodeRecords(records []Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.FormatInt(int64(r.ID), 10),
			r.Date,
			r.Employee,
			r.Client,
			r.Service,
			strconv.Itoa(r.DurationMinutes),
			r.Hours.StringFixed(2),
			r.ServiceIncome.StringFixed(2),
			r.Tip.StringFixed(2),
			r.TotalIncome.StringFixed(2),
		})
	}
	return rows
}

// EncodeStaff renders the roster as store rows.
func EncodeStaff(names []string) [][]string {
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name})
	}
	return rows
}

// =============================================================================
// CELL COERCION
// =============================================================================

func cellText(row Row, col string) string {
	return row[col]
}

func cellInt(row Row, col string) int64 {
	s := strings.TrimSpace(row[col])
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	// Stores sometimes hand back integers as "60.0".
	if d, err := decimal.NewFromString(s); err == nil && d.IsInteger() {
		return d.IntPart()
	}
	return 0
}

func cellDecimal(row Row, col string) decimal.Decimal {
	s := strings.TrimSpace(row[col])
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
