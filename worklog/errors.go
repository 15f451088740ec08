/*
errors.go - Centralized error types for the work log engine

PURPOSE:
  All error kinds in one place for consistency and discoverability.
  Callers classify with errors.Is / errors.As; the HTTP layer maps these
  onto status codes.

ERROR CATEGORIES:
  1. Validation errors - rejected input, nothing written
  2. Not-found errors  - edit/delete referencing a vanished ID
  3. Store errors      - backing store unreachable; propagated, never retried here
  4. Export errors     - sheet naming conflicts during workbook export

SEE ALSO:
  - service.go: Produces validation/not-found errors
  - store.go: Store error contract
*/
package worklog

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned when caller input fails a business rule
	// (e.g. empty employee or client name). No write is performed.
	ErrValidation = errors.New("validation failed")

	// ErrRecordNotFound is returned when an update or delete references an
	// ID absent from a freshly reloaded table (e.g. concurrently deleted).
	ErrRecordNotFound = errors.New("record not found")

	// ErrStaffExists is returned when adding a roster name that is already
	// present (case-sensitive exact match).
	ErrStaffExists = errors.New("staff member already exists")

	// ErrSheetNameCollision is returned when two distinct months normalize
	// to the same export sheet name. The export is aborted rather than
	// silently merging data.
	ErrSheetNameCollision = errors.New("sheet name collision")

	// ErrStoreUnavailable wraps backing-store failures (unreachable, auth).
	// The engine never retries internally; callers decide retry vs abort.
	ErrStoreUnavailable = errors.New("backing store unavailable")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports which field was rejected and why.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports the missing record ID.
type NotFoundError struct {
	ID RecordID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrRecordNotFound }

// SheetNameError reports two month keys that collide after sanitizing to
// the workbook's sheet-name constraints.
type SheetNameError struct {
	Name   string
	First  string
	Second string
}

func (e *SheetNameError) Error() string {
	return fmt.Sprintf("sheet name %q claimed by both %q and %q", e.Name, e.First, e.Second)
}

func (e *SheetNameError) Unwrap() error { return ErrSheetNameCollision }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrStaffExists)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}
