/*
Package worklog provides the core record-keeping engine for a massage
practice work log.

PURPOSE:
  This package contains the domain types and algorithms for logging service
  appointments, keeping derived fields consistent, aggregating income by
  day/employee and by month, and maintaining the employee roster. Persistence
  is delegated to a TableStore (store.go) that models a spreadsheet-like
  backing store with full-table overwrites as the only write primitive.

KEY CONCEPTS IN THIS FILE (types.go):
  - Record: One service appointment (who, when, how long, how much)
  - RecordID: Stable positive integer identity, minted on create
  - RecordInput: Caller-supplied fields for create/update
  - Derived fields: Hours and TotalIncome are stored redundantly and
    recomputed on every write

DESIGN PRINCIPLES:
  1. Precision: All money and hour values use decimal.Decimal; nothing
     monetary ever touches a float64 after the API boundary.
  2. Verbatim dates: Dates are kept as the text the caller supplied.
     Unparseable dates stay visible in the raw table and are only excluded
     from month-keyed views.
  3. Single write path: Records are only persisted as a full-table rewrite
     (see Service); there is no partial update.

SEE ALSO:
  - schema.go: Canonical columns and row codec
  - identity.go: ID repair and minting
  - service.go: Create/update/delete orchestration
*/
package worklog

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// RecordID identifies a record. Positive, unique within the table, immutable
// once assigned.
type RecordID int64

// =============================================================================
// RECORD - One service appointment
// =============================================================================

// ServiceMassage is the only service type in current scope.
const ServiceMassage = "Massage"

// DurationOptions are the durations (minutes) offered to booking forms.
// Stored records may carry any previously-used positive duration.
var DurationOptions = []int{30, 45, 60, 75, 90, 105, 120}

type Record struct {
	ID              RecordID
	Date            string // calendar date as entered, normally YYYY-MM-DD
	Employee        string
	Client          string
	Service         string
	DurationMinutes int

	// Derived: DurationMinutes/60 rounded to 2 decimals. Stored redundantly.
	Hours decimal.Decimal

	ServiceIncome decimal.Decimal
	Tip           decimal.Decimal

	// Derived: ServiceIncome + Tip rounded to 2 decimals. Stored redundantly.
	TotalIncome decimal.Decimal
}

// Recompute refreshes the derived fields from their sources. Every write
// path must call this so the stored invariants hold:
//
//	Hours       == round(DurationMinutes/60, 2)
//	TotalIncome == round(ServiceIncome + Tip, 2)
func (r *Record) Recompute() {
	r.Hours = HoursForDuration(r.DurationMinutes)
	r.TotalIncome = r.ServiceIncome.Add(r.Tip).Round(2)
}

// HoursForDuration converts minutes worked to hours, rounded to 2 decimals.
func HoursForDuration(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2)
}

// =============================================================================
// RECORD INPUT - Caller-supplied fields for create/update
// =============================================================================

// RecordInput carries the editable fields of a record. ID, Hours and
// TotalIncome are never caller-supplied: identity is minted by the service
// and derived fields are recomputed.
type RecordInput struct {
	Date            string
	Employee        string
	Client          string
	Service         string // empty defaults to ServiceMassage
	DurationMinutes int

	// ServiceIncome overrides the suggested price when non-nil. The pricing
	// rule is a default, never enforced.
	ServiceIncome *decimal.Decimal

	Tip decimal.Decimal
}

// =============================================================================
// DATES
// =============================================================================

// dateLayouts are accepted when a view needs an actual calendar date
// (filtering, month grouping). Storage itself never rejects a date string.
var dateLayouts = []string{"2006-01-02", "2006-1-2", "2006/01/02"}

// ParseDate parses a stored date string. ok is false for blank or
// unparseable values.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// YearMonth derives the YYYY-MM grouping key for a stored date string.
func YearMonth(date string) (string, bool) {
	t, ok := ParseDate(date)
	if !ok {
		return "", false
	}
	return t.Format("2006-01"), true
}
