package export_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/warp/worklog/export"
	"github.com/warp/worklog/store/memory"
	"github.com/warp/worklog/worklog"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newPopulatedService(t *testing.T) *worklog.Service {
	t.Helper()
	svc := worklog.NewService(memory.New())
	ctx := context.Background()

	add := func(date, employee string, minutes int, tip string) {
		t.Helper()
		tipDec, err := decimal.NewFromString(tip)
		require.NoError(t, err)
		_, err = svc.AddRecord(ctx, worklog.RecordInput{
			Date:            date,
			Employee:        employee,
			Client:          "Client",
			DurationMinutes: minutes,
			Tip:             tipDec,
		})
		require.NoError(t, err)
	}

	// Two October rows, one November row. Suggested prices apply:
	// 60min=65.00, 45min=48.75, 90min=97.50.
	add("2025-10-03", "Anna", 60, "5.00")
	add("2025-10-20", "Mei", 45, "0.00")
	add("2025-11-02", "Anna", 90, "2.50")
	return svc
}

func openWorkbook(t *testing.T, payload []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

// =============================================================================
// FULL EXPORT TESTS
// =============================================================================

func TestFull_SheetSet(t *testing.T) {
	// GIVEN: Records across 2025-10 and 2025-11
	// WHEN: Building the full export
	// THEN: Fixed sheets plus one chronological sheet per month

	svc := newPopulatedService(t)
	payload, err := export.Full(context.Background(), svc)
	require.NoError(t, err)

	f := openWorkbook(t, payload)
	assert.Equal(t, []string{
		export.SheetRecords,
		export.SheetSummary,
		export.SheetStaff,
		export.SheetMonthly,
		"2025-10",
		"2025-11",
	}, f.GetSheetList())
}

func TestFull_MonthSheetRowsAndTotals(t *testing.T) {
	// Per-month sheet: header + that month's rows + exactly one totals row
	// whose monetary columns equal the month's sums.

	svc := newPopulatedService(t)
	payload, err := export.Full(context.Background(), svc)
	require.NoError(t, err)

	f := openWorkbook(t, payload)
	rows, err := f.GetRows("2025-10")
	require.NoError(t, err)
	require.Len(t, rows, 4, "header + 2 records + totals row")

	assert.Equal(t, worklog.RecordColumns, rows[0])

	// Source rows in original order.
	assert.Equal(t, "2025-10-03", rows[1][1])
	assert.Equal(t, "Anna", rows[1][2])
	assert.Equal(t, "2025-10-20", rows[2][1])

	// Totals row: date cell marked, non-monetary cells blank,
	// income columns summed (65 + 48.75, tips 5, totals 70 + 48.75).
	totals := rows[3]
	assert.Equal(t, export.TotalMarker, totals[1])
	assert.Equal(t, "", totals[0])
	assert.Equal(t, "", totals[2])
	assert.Equal(t, "113.75", totals[7])
	assert.Equal(t, "5", totals[8])
	assert.Equal(t, "118.75", totals[9])
}

func TestFull_MonthlySummarySheet(t *testing.T) {
	svc := newPopulatedService(t)
	payload, err := export.Full(context.Background(), svc)
	require.NoError(t, err)

	f := openWorkbook(t, payload)
	rows, err := f.GetRows(export.SheetMonthly)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, worklog.MonthlyColumns, rows[0])
	assert.Equal(t, "2025-10", rows[1][0])
	assert.Equal(t, "118.75", rows[1][3])
	assert.Equal(t, "2025-11", rows[2][0])
	assert.Equal(t, "100", rows[2][3], "97.50 + 2.50")
}

func TestFull_StaffSheet(t *testing.T) {
	svc := newPopulatedService(t)
	payload, err := export.Full(context.Background(), svc)
	require.NoError(t, err)

	f := openWorkbook(t, payload)
	rows, err := f.GetRows(export.SheetStaff)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header + two auto-inserted employees")
	assert.Equal(t, "Anna", rows[1][0])
	assert.Equal(t, "Mei", rows[2][0])
}

func TestFull_EmptyStore(t *testing.T) {
	// An empty log still exports cleanly: fixed sheets with headers only,
	// no month sheets.

	svc := worklog.NewService(memory.New())
	payload, err := export.Full(context.Background(), svc)
	require.NoError(t, err)

	f := openWorkbook(t, payload)
	assert.Equal(t, []string{
		export.SheetRecords,
		export.SheetSummary,
		export.SheetStaff,
		export.SheetMonthly,
	}, f.GetSheetList())

	rows, err := f.GetRows(export.SheetRecords)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, worklog.RecordColumns, rows[0])
}

func TestFull_Deterministic(t *testing.T) {
	// Identical input must yield identical sheet sets, row order and totals.
	svc := newPopulatedService(t)
	ctx := context.Background()

	first, err := export.Full(ctx, svc)
	require.NoError(t, err)
	second, err := export.Full(ctx, svc)
	require.NoError(t, err)

	fa := openWorkbook(t, first)
	fb := openWorkbook(t, second)
	require.Equal(t, fa.GetSheetList(), fb.GetSheetList())

	for _, sheet := range fa.GetSheetList() {
		rowsA, err := fa.GetRows(sheet)
		require.NoError(t, err)
		rowsB, err := fb.GetRows(sheet)
		require.NoError(t, err)
		assert.Equal(t, rowsA, rowsB, "sheet %s", sheet)
	}
}

// =============================================================================
// FILTERED EXPORT TESTS
// =============================================================================

func TestFiltered_TwoSheets(t *testing.T) {
	// GIVEN: A filtered records view
	// WHEN: Building the filtered export
	// THEN: Exactly the view plus its date×employee summary

	svc := newPopulatedService(t)
	ctx := context.Background()

	records, err := svc.LoadRecords(ctx)
	require.NoError(t, err)
	filtered := worklog.Filter{Employees: []string{"Anna"}}.Apply(records)

	payload, err := export.Filtered(filtered)
	require.NoError(t, err)

	f := openWorkbook(t, payload)
	assert.Equal(t, []string{
		export.SheetFilteredRecords,
		export.SheetFilteredSummary,
	}, f.GetSheetList())

	rows, err := f.GetRows(export.SheetFilteredRecords)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header + Anna's two records")
	assert.Equal(t, "Anna", rows[1][2])
	assert.Equal(t, "Anna", rows[2][2])

	summary, err := f.GetRows(export.SheetFilteredSummary)
	require.NoError(t, err)
	require.Len(t, summary, 3, "two distinct (date, employee) groups")
	assert.Equal(t, worklog.SummaryColumns, summary[0])
}
