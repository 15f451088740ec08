/*
filter.go - Record filtering for list/summary/export views

PURPOSE:
  The reporting screens scope records by an employee set and an inclusive
  date range before summarizing or exporting. Filter captures that scope
  as a value so the filtered export reproduces exactly the view the caller
  had on screen.
*/
package worklog

import "time"

// Filter narrows a record slice. Zero value matches everything.
type Filter struct {
	// Employees keeps only records whose employee is in the set.
	// Empty means all employees.
	Employees []string

	// From/To bound the record date inclusively when non-zero. A record
	// whose date cannot be parsed never matches a bounded range.
	From time.Time
	To   time.Time
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return len(f.Employees) == 0 && f.From.IsZero() && f.To.IsZero()
}

// Apply returns the records matching the filter, preserving input order.
func (f Filter) Apply(records []Record) []Record {
	if f.IsZero() {
		out := make([]Record, len(records))
		copy(out, records)
		return out
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func (f Filter) matches(r Record) bool {
	if len(f.Employees) > 0 {
		found := false
		for _, name := range f.Employees {
			if r.Employee == name {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if !f.From.IsZero() || !f.To.IsZero() {
		d, ok := ParseDate(r.Date)
		if !ok {
			return false
		}
		if !f.From.IsZero() && d.Before(f.From) {
			return false
		}
		if !f.To.IsZero() && d.After(f.To) {
			return false
		}
	}
	return true
}
