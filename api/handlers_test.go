/*
handlers_test.go - HTTP-level tests for the work log API

Tests run against the full router with an in-memory store, exercising
JSON contracts, query filters, error status mapping and the export
download.
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/warp/worklog/api"
	"github.com/warp/worklog/store/memory"
	"github.com/warp/worklog/worklog"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := worklog.NewService(memory.New())
	server := httptest.NewServer(api.NewRouter(api.NewHandler(svc)))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func createRecord(t *testing.T, server *httptest.Server, date, employee string, minutes int) api.RecordDTO {
	t.Helper()
	resp := doJSON(t, http.MethodPost, server.URL+"/api/records", map[string]interface{}{
		"date":             date,
		"employee":         employee,
		"client":           "Client",
		"duration_minutes": minutes,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var dto api.RecordDTO
	decodeBody(t, resp, &dto)
	return dto
}

// =============================================================================
// RECORD ENDPOINT TESTS
// =============================================================================

func TestCreateRecord_Success(t *testing.T) {
	server := newTestServer(t)

	dto := createRecord(t, server, "2025-10-03", "Anna", 90)
	assert.Equal(t, int64(1), dto.ID)
	assert.Equal(t, "Massage", dto.Service)
	assert.Equal(t, "1.50", dto.Hours)
	assert.Equal(t, "97.50", dto.ServiceIncome, "suggested price applied")
	assert.Equal(t, "97.50", dto.TotalIncome)
}

func TestCreateRecord_ValidationError(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/records", map[string]interface{}{
		"date":             "2025-10-03",
		"employee":         "Anna",
		"duration_minutes": 60,
		// client missing
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Contains(t, body["error"], "client")
}

func TestCreateRecord_IncomeOverrideAsString(t *testing.T) {
	// Decimal fields accept JSON strings, keeping money off floats.
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/records", map[string]interface{}{
		"date":             "2025-10-03",
		"employee":         "Anna",
		"client":           "Ben",
		"duration_minutes": 60,
		"service_income":   "80.00",
		"tip":              "7.25",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var dto api.RecordDTO
	decodeBody(t, resp, &dto)
	assert.Equal(t, "80.00", dto.ServiceIncome)
	assert.Equal(t, "87.25", dto.TotalIncome)
}

func TestListRecords_EmployeeFilter(t *testing.T) {
	server := newTestServer(t)
	createRecord(t, server, "2025-10-03", "Anna", 60)
	createRecord(t, server, "2025-10-03", "Mei", 60)
	createRecord(t, server, "2025-10-04", "Anna", 60)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/records?employee=Anna", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var records []api.RecordDTO
	decodeBody(t, resp, &records)
	require.Len(t, records, 2)
	assert.Equal(t, "Anna", records[0].Employee)
	assert.Equal(t, "Anna", records[1].Employee)
}

func TestListRecords_DateRangeFilter(t *testing.T) {
	server := newTestServer(t)
	createRecord(t, server, "2025-10-03", "Anna", 60)
	createRecord(t, server, "2025-11-03", "Anna", 60)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/records?from=2025-10-01&to=2025-10-31", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var records []api.RecordDTO
	decodeBody(t, resp, &records)
	require.Len(t, records, 1)
	assert.Equal(t, "2025-10-03", records[0].Date)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/records?from=not-a-date", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateRecord_NotFound(t *testing.T) {
	server := newTestServer(t)
	createRecord(t, server, "2025-10-03", "Anna", 60)

	resp := doJSON(t, http.MethodPut, server.URL+"/api/records/99", map[string]interface{}{
		"date":             "2025-10-03",
		"employee":         "Anna",
		"client":           "Ben",
		"duration_minutes": 60,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteRecords_ReportsRemovedCount(t *testing.T) {
	server := newTestServer(t)
	first := createRecord(t, server, "2025-10-01", "Anna", 60)
	createRecord(t, server, "2025-10-02", "Mei", 60)

	resp := doJSON(t, http.MethodDelete, server.URL+"/api/records", map[string]interface{}{
		"ids": []int64{first.ID, 404},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result api.DeleteResponse
	decodeBody(t, resp, &result)
	assert.Equal(t, 1, result.Removed)
}

func TestDeleteAllRecords(t *testing.T) {
	server := newTestServer(t)
	createRecord(t, server, "2025-10-01", "Anna", 60)

	resp := doJSON(t, http.MethodDelete, server.URL+"/api/records/all", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/records", nil)
	var records []api.RecordDTO
	decodeBody(t, resp, &records)
	assert.Empty(t, records)
}

// =============================================================================
// STAFF ENDPOINT TESTS
// =============================================================================

func TestStaff_AddListRemove(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/staff", map[string]string{"name": "Anna"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/staff", map[string]string{"name": "Anna"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "duplicate roster name")

	resp = doJSON(t, http.MethodGet, server.URL+"/api/staff", nil)
	var names []string
	decodeBody(t, resp, &names)
	assert.Equal(t, []string{"Anna"}, names)

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/staff", map[string]interface{}{
		"names": []string{"Anna"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result api.DeleteResponse
	decodeBody(t, resp, &result)
	assert.Equal(t, 1, result.Removed)
}

// =============================================================================
// SUMMARY ENDPOINT TESTS
// =============================================================================

func TestGetSummary(t *testing.T) {
	server := newTestServer(t)
	createRecord(t, server, "2025-10-03", "Anna", 60)
	createRecord(t, server, "2025-10-03", "Anna", 45)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summaries []api.DailySummaryDTO
	decodeBody(t, resp, &summaries)
	require.Len(t, summaries, 1)
	assert.Equal(t, "1.75", summaries[0].Hours)
	assert.Equal(t, "113.75", summaries[0].ServiceIncome)
}

func TestGetMonthlySummary_ReportsSkippedRows(t *testing.T) {
	server := newTestServer(t)
	createRecord(t, server, "2025-10-03", "Anna", 60)
	createRecord(t, server, "whenever", "Anna", 60)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/summary/monthly", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result api.MonthlySummaryResponse
	decodeBody(t, resp, &result)
	require.Len(t, result.Months, 1)
	assert.Equal(t, "2025-10", result.Months[0].Month)
	assert.Equal(t, 1, result.SkippedRows)
}

// =============================================================================
// META & EXPORT ENDPOINT TESTS
// =============================================================================

func TestGetDurationOptions(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/meta/durations", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var options []api.DurationOptionDTO
	decodeBody(t, resp, &options)
	require.Len(t, options, len(worklog.DurationOptions))
	assert.Equal(t, 60, options[2].Minutes)
	assert.Equal(t, "65.00", options[2].SuggestedPrice)
}

func TestExport_FullWorkbookDownload(t *testing.T) {
	server := newTestServer(t)
	createRecord(t, server, "2025-10-03", "Anna", 60)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/export?scope=all", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))
	assert.True(t, strings.Contains(resp.Header.Get("Content-Disposition"), "work_log_all.xlsx"))

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "2025-10")
}

func TestExport_InvalidScope(t *testing.T) {
	server := newTestServer(t)
	resp := doJSON(t, http.MethodGet, server.URL+"/api/export?scope=sideways", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
