/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model from
  the external contract. Money fields travel as decimal strings (never
  floats) in both directions; decimal.Decimal accepts JSON numbers and
  strings on the way in.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/worklog/worklog"
)

// =============================================================================
// RECORDS
// =============================================================================

// RecordDTO represents a stored record in API responses.
type RecordDTO struct {
	ID              int64  `json:"id"`
	Date            string `json:"date"`
	Employee        string `json:"employee"`
	Client          string `json:"client"`
	Service         string `json:"service"`
	DurationMinutes int    `json:"duration_minutes"`
	Hours           string `json:"hours"`
	ServiceIncome   string `json:"service_income"`
	Tip             string `json:"tip"`
	TotalIncome     string `json:"total_income"`
}

func recordDTO(r worklog.Record) RecordDTO {
	return RecordDTO{
		ID:              int64(r.ID),
		Date:            r.Date,
		Employee:        r.Employee,
		Client:          r.Client,
		Service:         r.Service,
		DurationMinutes: r.DurationMinutes,
		Hours:           r.Hours.StringFixed(2),
		ServiceIncome:   r.ServiceIncome.StringFixed(2),
		Tip:             r.Tip.StringFixed(2),
		TotalIncome:     r.TotalIncome.StringFixed(2),
	}
}

func recordDTOs(records []worklog.Record) []RecordDTO {
	dtos := make([]RecordDTO, 0, len(records))
	for _, r := range records {
		dtos = append(dtos, recordDTO(r))
	}
	return dtos
}

// RecordRequest is the request body for create and update. ServiceIncome
// nil means "use the suggested price for the duration"; Tip nil means 0.
type RecordRequest struct {
	Date            string           `json:"date"`
	Employee        string           `json:"employee"`
	Client          string           `json:"client"`
	Service         string           `json:"service"`
	DurationMinutes int              `json:"duration_minutes"`
	ServiceIncome   *decimal.Decimal `json:"service_income"`
	Tip             *decimal.Decimal `json:"tip"`
}

func (req RecordRequest) input() worklog.RecordInput {
	in := worklog.RecordInput{
		Date:            req.Date,
		Employee:        req.Employee,
		Client:          req.Client,
		Service:         req.Service,
		DurationMinutes: req.DurationMinutes,
		ServiceIncome:   req.ServiceIncome,
	}
	if req.Tip != nil {
		in.Tip = *req.Tip
	}
	return in
}

// DeleteRecordsRequest selects records for bulk deletion.
type DeleteRecordsRequest struct {
	IDs []int64 `json:"ids"`
}

// DeleteResponse reports how many entries a bulk delete removed.
type DeleteResponse struct {
	Removed int `json:"removed"`
}

// =============================================================================
// STAFF
// =============================================================================

// StaffRequest carries a single roster name.
type StaffRequest struct {
	Name string `json:"name"`
}

// RemoveStaffRequest selects roster names for removal.
type RemoveStaffRequest struct {
	Names []string `json:"names"`
}

// =============================================================================
// SUMMARIES
// =============================================================================

// DailySummaryDTO is one (date, employee) group.
type DailySummaryDTO struct {
	Date          string `json:"date"`
	Employee      string `json:"employee"`
	Hours         string `json:"hours"`
	ServiceIncome string `json:"service_income"`
	Tip           string `json:"tip"`
	TotalIncome   string `json:"total_income"`
}

func dailySummaryDTOs(summaries []worklog.DailySummary) []DailySummaryDTO {
	dtos := make([]DailySummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		dtos = append(dtos, DailySummaryDTO{
			Date:          s.Date,
			Employee:      s.Employee,
			Hours:         s.Hours.StringFixed(2),
			ServiceIncome: s.ServiceIncome.StringFixed(2),
			Tip:           s.Tip.StringFixed(2),
			TotalIncome:   s.TotalIncome.StringFixed(2),
		})
	}
	return dtos
}

// MonthlySummaryDTO is one calendar month.
type MonthlySummaryDTO struct {
	Month         string `json:"month"`
	ServiceIncome string `json:"service_income"`
	Tip           string `json:"tip"`
	TotalIncome   string `json:"total_income"`
}

// MonthlySummaryResponse carries the monthly view plus a data-quality
// signal: how many rows were excluded for an unparseable date.
type MonthlySummaryResponse struct {
	Months      []MonthlySummaryDTO `json:"months"`
	SkippedRows int                 `json:"skipped_rows"`
}

func monthlySummaryDTOs(summaries []worklog.MonthlySummary) []MonthlySummaryDTO {
	dtos := make([]MonthlySummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		dtos = append(dtos, MonthlySummaryDTO{
			Month:         s.Month,
			ServiceIncome: s.ServiceIncome.StringFixed(2),
			Tip:           s.Tip.StringFixed(2),
			TotalIncome:   s.TotalIncome.StringFixed(2),
		})
	}
	return dtos
}

// =============================================================================
// META
// =============================================================================

// DurationOptionDTO pairs an offered duration with its suggested price,
// for booking forms.
type DurationOptionDTO struct {
	Minutes        int    `json:"minutes"`
	Hours          string `json:"hours"`
	SuggestedPrice string `json:"suggested_price"`
}
