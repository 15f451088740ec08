/*
aggregate.go - Group-by-sum views over the records table

PURPOSE:
  Pure functions deriving the two reporting views: income per (date,
  employee) pair and income per calendar month. Both are total over any
  record slice — an empty input yields an empty result, never an error.

MONTH HANDLING:
  Rows whose date cannot be parsed have no month and are excluded from
  month-keyed views only; they stay visible in the raw records table.
  Callers get the skipped-row count back so a data-quality warning can be
  surfaced instead of the rows vanishing silently.

ORDERING:
  Date×employee groups appear in first-seen row order, months in ascending
  YYYY-MM order. Both are deterministic for identical input, which the
  export relies on.
*/
package worklog

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DATE × EMPLOYEE SUMMARY
// =============================================================================

// DailySummary is one (date, employee) group with summed fields.
type DailySummary struct {
	Date          string
	Employee      string
	Hours         decimal.Decimal
	ServiceIncome decimal.Decimal
	Tip           decimal.Decimal
	TotalIncome   decimal.Decimal
}

// SummaryColumns is the header of the date×employee summary view.
var SummaryColumns = []string{
	ColDate, ColEmployee, ColHours, ColIncome, ColTip, ColTotal,
}

// SummarizeByDay groups records by exact (date, employee) pair and sums
// hours, service income, tip and total income. Groups appear in the order
// their first row appears in the input.
func SummarizeByDay(records []Record) []DailySummary {
	type dayKey struct {
		date     string
		employee string
	}

	index := make(map[dayKey]int)
	summaries := make([]DailySummary, 0)

	for _, r := range records {
		k := dayKey{date: r.Date, employee: r.Employee}
		i, seen := index[k]
		if !seen {
			i = len(summaries)
			index[k] = i
			summaries = append(summaries, DailySummary{
				Date:          r.Date,
				Employee:      r.Employee,
				Hours:         decimal.Zero,
				ServiceIncome: decimal.Zero,
				Tip:           decimal.Zero,
				TotalIncome:   decimal.Zero,
			})
		}
		summaries[i].Hours = summaries[i].Hours.Add(r.Hours)
		summaries[i].ServiceIncome = summaries[i].ServiceIncome.Add(r.ServiceIncome)
		summaries[i].Tip = summaries[i].Tip.Add(r.Tip)
		summaries[i].TotalIncome = summaries[i].TotalIncome.Add(r.TotalIncome)
	}
	return summaries
}

// =============================================================================
// MONTHLY SUMMARY
// =============================================================================

// MonthlySummary is one calendar month with summed income fields.
type MonthlySummary struct {
	Month         string // YYYY-MM
	ServiceIncome decimal.Decimal
	Tip           decimal.Decimal
	TotalIncome   decimal.Decimal
}

// MonthlyColumns is the header of the monthly summary view.
var MonthlyColumns = []string{"Month", ColIncome, ColTip, ColTotal}

// SummarizeByMonth groups records by YYYY-MM and sums the income fields,
// ascending by month. skipped reports how many rows were excluded for an
// unparseable date.
func SummarizeByMonth(records []Record) (summaries []MonthlySummary, skipped int) {
	months, groups, skipped := GroupByMonth(records)

	summaries = make([]MonthlySummary, 0, len(months))
	for _, ym := range months {
		s := MonthlySummary{
			Month:         ym,
			ServiceIncome: decimal.Zero,
			Tip:           decimal.Zero,
			TotalIncome:   decimal.Zero,
		}
		for _, r := range groups[ym] {
			s.ServiceIncome = s.ServiceIncome.Add(r.ServiceIncome)
			s.Tip = s.Tip.Add(r.Tip)
			s.TotalIncome = s.TotalIncome.Add(r.TotalIncome)
		}
		summaries = append(summaries, s)
	}
	return summaries, skipped
}

// GroupByMonth partitions records by YYYY-MM. months is ascending; each
// group preserves original row order. Rows with unparseable dates are
// counted in skipped and appear in no group.
func GroupByMonth(records []Record) (months []string, groups map[string][]Record, skipped int) {
	groups = make(map[string][]Record)
	for _, r := range records {
		ym, ok := YearMonth(r.Date)
		if !ok {
			skipped++
			continue
		}
		if _, seen := groups[ym]; !seen {
			months = append(months, ym)
		}
		groups[ym] = append(groups[ym], r)
	}
	sort.Strings(months)
	return months, groups, skipped
}
