/*
Package export assembles multi-sheet xlsx workbooks from the work log.

PURPOSE:
  Produces the two downloadable artifacts:

  Filtered export - exactly the records view the caller has in scope plus
  its date×employee summary. Two sheets.

  Full export - reloads records and staff fresh from the store (any
  caller-side filter is deliberately ignored) and builds: the full records
  sheet, its date×employee summary, the staff roster, a monthly summary,
  and one sheet per distinct YYYY-MM month. Each month sheet holds that
  month's rows in original order followed by a synthetic totals row: the
  date cell reads "Total", non-monetary cells are blank, and the income
  columns carry the month's sums.

SHEET NAMING:
  Month sheets are named by their YYYY-MM key, sanitized to the xlsx
  constraints (31 chars, no []:*?/\). Two distinct months normalizing to
  one name abort the export with a SheetNameError; data is never silently
  merged.

DETERMINISM:
  For identical input the sheet set, row order and totals are identical
  across calls. Row order within a sheet is the stored order; only the
  month sheet set is sorted (ascending, hence chronological).

SEE ALSO:
  - worklog/aggregate.go: The summary views written here
  - api/handlers.go: Serves the bytes as a download
*/
package export

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/warp/worklog/worklog"
)

// Sheet names of the fixed (non-month) sheets.
const (
	SheetFilteredRecords = "Records (filtered)"
	SheetFilteredSummary = "Summary (filtered)"
	SheetRecords         = "Records"
	SheetSummary         = "Summary"
	SheetStaff           = "Staff"
	SheetMonthly         = "Monthly"
)

// TotalMarker fills the date cell of the synthetic totals row on month
// sheets.
const TotalMarker = "Total"

// =============================================================================
// EXPORT MODES
// =============================================================================

// Filtered builds the two-sheet workbook for the records currently in
// scope: the records themselves and their date×employee summary.
func Filtered(records []worklog.Record) ([]byte, error) {
	b, err := newBuilder()
	if err != nil {
		return nil, err
	}
	defer b.close()

	if err := b.addSheet(SheetFilteredRecords, worklog.RecordColumns, recordRows(records)); err != nil {
		return nil, err
	}
	if err := b.addSheet(SheetFilteredSummary, worklog.SummaryColumns, summaryRows(worklog.SummarizeByDay(records))); err != nil {
		return nil, err
	}
	return b.bytes()
}

// Full reloads everything fresh from the store and builds the complete
// workbook: records, summary, staff, monthly summary, one sheet per month.
func Full(ctx context.Context, svc *worklog.Service) ([]byte, error) {
	records, err := svc.LoadRecords(ctx)
	if err != nil {
		return nil, err
	}
	staff, err := svc.LoadStaff(ctx)
	if err != nil {
		return nil, err
	}

	b, err := newBuilder()
	if err != nil {
		return nil, err
	}
	defer b.close()

	if err := b.addSheet(SheetRecords, worklog.RecordColumns, recordRows(records)); err != nil {
		return nil, err
	}
	if err := b.addSheet(SheetSummary, worklog.SummaryColumns, summaryRows(worklog.SummarizeByDay(records))); err != nil {
		return nil, err
	}
	if err := b.addSheet(SheetStaff, worklog.StaffColumns, staffRows(staff)); err != nil {
		return nil, err
	}

	monthly, _ := worklog.SummarizeByMonth(records)
	if err := b.addSheet(SheetMonthly, worklog.MonthlyColumns, monthlyRows(monthly)); err != nil {
		return nil, err
	}

	months, groups, _ := worklog.GroupByMonth(records)
	for _, ym := range months {
		if err := b.addSheet(ym, worklog.RecordColumns, monthSheetRows(groups[ym])); err != nil {
			return nil, err
		}
	}
	return b.bytes()
}

// =============================================================================
// ROW RENDERING
// =============================================================================

func recordRows(records []worklog.Record) [][]interface{} {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{
			int64(r.ID), r.Date, r.Employee, r.Client, r.Service,
			r.DurationMinutes, cell(r.Hours), cell(r.ServiceIncome),
			cell(r.Tip), cell(r.TotalIncome),
		})
	}
	return rows
}

func summaryRows(summaries []worklog.DailySummary) [][]interface{} {
	rows := make([][]interface{}, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []interface{}{
			s.Date, s.Employee, cell(s.Hours), cell(s.ServiceIncome),
			cell(s.Tip), cell(s.TotalIncome),
		})
	}
	return rows
}

func staffRows(names []string) [][]interface{} {
	rows := make([][]interface{}, 0, len(names))
	for _, name := range names {
		rows = append(rows, []interface{}{name})
	}
	return rows
}

func monthlyRows(summaries []worklog.MonthlySummary) [][]interface{} {
	rows := make([][]interface{}, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []interface{}{
			s.Month, cell(s.ServiceIncome), cell(s.Tip), cell(s.TotalIncome),
		})
	}
	return rows
}

// monthSheetRows renders one month's records followed by the totals row.
func monthSheetRows(records []worklog.Record) [][]interface{} {
	rows := recordRows(records)

	income, tip, total := decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range records {
		income = income.Add(r.ServiceIncome)
		tip = tip.Add(r.Tip)
		total = total.Add(r.TotalIncome)
	}
	rows = append(rows, []interface{}{
		"", TotalMarker, "", "", "", "", "", cell(income), cell(tip), cell(total),
	})
	return rows
}

// cell renders a decimal as a workbook number. Values are rounded to two
// places upstream, so the float conversion is exact enough for display
// and spreadsheet arithmetic.
func cell(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// =============================================================================
// WORKBOOK BUILDER
// =============================================================================

// xlsx sheet names cap at 31 characters and reject []:*?/\.
const maxSheetName = 31

type builder struct {
	f       *excelize.File
	first   bool
	claimed map[string]string // sanitized name -> requested name
}

func newBuilder() (*builder, error) {
	return &builder{
		f:       excelize.NewFile(),
		first:   true,
		claimed: make(map[string]string),
	}, nil
}

func (b *builder) close() {
	b.f.Close()
}

// addSheet appends a sheet with the given header and rows. The requested
// name is sanitized; a collision with an already-claimed name aborts.
func (b *builder) addSheet(name string, header []string, rows [][]interface{}) error {
	sheet := sanitizeSheetName(name)
	if prev, taken := b.claimed[sheet]; taken {
		return &worklog.SheetNameError{Name: sheet, First: prev, Second: name}
	}
	b.claimed[sheet] = name

	if b.first {
		// A new workbook starts with one default sheet; claim it.
		if err := b.f.SetSheetName(b.f.GetSheetName(0), sheet); err != nil {
			return err
		}
		b.first = false
	} else {
		if _, err := b.f.NewSheet(sheet); err != nil {
			return err
		}
	}

	headerCells := make([]interface{}, len(header))
	for i, col := range header {
		headerCells[i] = col
	}
	if err := b.setRow(sheet, 1, headerCells); err != nil {
		return err
	}
	for i, row := range rows {
		if err := b.setRow(sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) setRow(sheet string, rowNum int, cells []interface{}) error {
	axis, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return b.f.SetSheetRow(sheet, axis, &cells)
}

func (b *builder) bytes() ([]byte, error) {
	buf, err := b.f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sanitizeSheetName maps a requested name onto the xlsx constraints.
// YYYY-MM keys pass through unchanged; this guards arbitrary table names.
func sanitizeSheetName(name string) string {
	replacer := strings.NewReplacer(
		"[", "-", "]", "-", ":", "-", "*", "-", "?", "-", "/", "-", "\\", "-",
	)
	s := replacer.Replace(name)
	s = strings.Trim(s, "'")
	if s == "" {
		s = "Sheet"
	}
	if len(s) > maxSheetName {
		s = s[:maxSheetName]
	}
	return s
}
