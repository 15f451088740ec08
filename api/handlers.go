/*
handlers.go - HTTP API handlers for the work log

PURPOSE:
  Exposes the record keeper via REST. Handles HTTP request/response, JSON
  serialization and query-parameter filters, and delegates everything else
  to the worklog service and export builder.

ENDPOINTS:
  Records:
    GET    /api/records            List records (filterable)
    POST   /api/records            Create record
    PUT    /api/records/{id}       Update record
    DELETE /api/records            Bulk delete by ID set
    DELETE /api/records/all        Delete every record

  Staff:
    GET    /api/staff              Distinct roster names, sorted
    POST   /api/staff              Add roster name
    DELETE /api/staff              Remove roster names

  Summaries:
    GET    /api/summary            Date×employee summary (filterable)
    GET    /api/summary/monthly    Monthly summary (filterable)

  Meta:
    GET    /api/meta/durations     Offered durations + suggested prices

  Export:
    GET    /api/export?scope=filtered|all   xlsx download

FILTER PARAMETERS:
  employee  repeatable, exact match
  from, to  inclusive date bounds, YYYY-MM-DD

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 409: Duplicate staff, export sheet-name collision
  - 502: Backing store unavailable
  - 500: Everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/warp/worklog/export"
	"github.com/warp/worklog/worklog"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *worklog.Service
}

// NewHandler creates a handler over the given service.
func NewHandler(svc *worklog.Service) *Handler {
	return &Handler{Service: svc}
}

// =============================================================================
// RECORD HANDLERS
// =============================================================================

// ListRecords returns records matching the query filter.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.loadFiltered(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordDTOs(records))
}

// CreateRecord validates and stores a new record.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &worklog.ValidationError{Field: "body", Message: "invalid JSON"})
		return
	}

	created, err := h.Service.AddRecord(r.Context(), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recordDTO(created))
}

// UpdateRecord replaces the editable fields of an existing record.
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, &worklog.ValidationError{Field: "id", Message: "must be an integer"})
		return
	}

	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &worklog.ValidationError{Field: "body", Message: "invalid JSON"})
		return
	}

	updated, err := h.Service.UpdateRecord(r.Context(), worklog.RecordID(id), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordDTO(updated))
}

// DeleteRecords removes the records whose IDs are in the request body.
func (h *Handler) DeleteRecords(w http.ResponseWriter, r *http.Request) {
	var req DeleteRecordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &worklog.ValidationError{Field: "body", Message: "invalid JSON"})
		return
	}

	ids := make([]worklog.RecordID, 0, len(req.IDs))
	for _, id := range req.IDs {
		ids = append(ids, worklog.RecordID(id))
	}

	removed, err := h.Service.DeleteRecords(r.Context(), ids)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteResponse{Removed: removed})
}

// DeleteAllRecords replaces the records table with a header-only table.
func (h *Handler) DeleteAllRecords(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteAll(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// STAFF HANDLERS
// =============================================================================

// ListStaff returns the distinct sorted roster names.
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	names, err := h.Service.ListStaff(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// AddStaff appends a roster name, rejecting duplicates.
func (h *Handler) AddStaff(w http.ResponseWriter, r *http.Request) {
	var req StaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &worklog.ValidationError{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := h.Service.AddStaff(r.Context(), req.Name); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// RemoveStaff drops roster names. Records referencing them are untouched.
func (h *Handler) RemoveStaff(w http.ResponseWriter, r *http.Request) {
	var req RemoveStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &worklog.ValidationError{Field: "body", Message: "invalid JSON"})
		return
	}
	removed, err := h.Service.RemoveStaff(r.Context(), req.Names)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteResponse{Removed: removed})
}

// =============================================================================
// SUMMARY HANDLERS
// =============================================================================

// GetSummary returns the date×employee summary of the filtered records.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	records, err := h.loadFiltered(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dailySummaryDTOs(worklog.SummarizeByDay(records)))
}

// GetMonthlySummary returns per-month income sums of the filtered records,
// with the count of rows skipped for unparseable dates.
func (h *Handler) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	records, err := h.loadFiltered(r)
	if err != nil {
		writeError(w, err)
		return
	}
	monthly, skipped := worklog.SummarizeByMonth(records)
	writeJSON(w, http.StatusOK, MonthlySummaryResponse{
		Months:      monthlySummaryDTOs(monthly),
		SkippedRows: skipped,
	})
}

// =============================================================================
// META HANDLERS
// =============================================================================

// GetDurationOptions returns the offered durations with suggested prices.
func (h *Handler) GetDurationOptions(w http.ResponseWriter, r *http.Request) {
	options := make([]DurationOptionDTO, 0, len(worklog.DurationOptions))
	for _, minutes := range worklog.DurationOptions {
		options = append(options, DurationOptionDTO{
			Minutes:        minutes,
			Hours:          worklog.HoursForDuration(minutes).StringFixed(2),
			SuggestedPrice: worklog.SuggestedPrice(minutes).StringFixed(2),
		})
	}
	writeJSON(w, http.StatusOK, options)
}

// =============================================================================
// EXPORT HANDLER
// =============================================================================

// Export streams an xlsx workbook. scope=filtered exports the current
// query filter's view; scope=all (default) reloads everything fresh and
// ignores the filter.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")

	var (
		payload  []byte
		filename string
		err      error
	)
	switch scope {
	case "filtered":
		var records []worklog.Record
		records, err = h.loadFiltered(r)
		if err == nil {
			payload, err = export.Filtered(records)
		}
		filename = "work_log_filtered.xlsx"
	case "", "all":
		payload, err = export.Full(r.Context(), h.Service)
		filename = "work_log_all.xlsx"
	default:
		writeError(w, &worklog.ValidationError{Field: "scope", Message: "must be filtered or all"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// =============================================================================
// HELPERS
// =============================================================================

// loadFiltered loads the records table fresh and applies the query filter.
func (h *Handler) loadFiltered(r *http.Request) ([]worklog.Record, error) {
	filter, err := filterFromQuery(r)
	if err != nil {
		return nil, err
	}
	records, err := h.Service.LoadRecords(r.Context())
	if err != nil {
		return nil, err
	}
	return filter.Apply(records), nil
}

func filterFromQuery(r *http.Request) (worklog.Filter, error) {
	q := r.URL.Query()
	filter := worklog.Filter{Employees: q["employee"]}

	if from := q.Get("from"); from != "" {
		t, ok := worklog.ParseDate(from)
		if !ok {
			return worklog.Filter{}, &worklog.ValidationError{Field: "from", Message: "must be a date (YYYY-MM-DD)"}
		}
		filter.From = t
	}
	if to := q.Get("to"); to != "" {
		t, ok := worklog.ParseDate(to)
		if !ok {
			return worklog.Filter{}, &worklog.ValidationError{Field: "to", Message: "must be a date (YYYY-MM-DD)"}
		}
		filter.To = t
	}
	return filter, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case worklog.IsClientError(err):
		status = http.StatusBadRequest
		if errors.Is(err, worklog.ErrStaffExists) {
			status = http.StatusConflict
		}
	case worklog.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, worklog.ErrSheetNameCollision):
		status = http.StatusConflict
	case errors.Is(err, worklog.ErrStoreUnavailable):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
