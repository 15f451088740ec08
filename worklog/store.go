/*
store.go - Persistence interface for the backing table store

PURPOSE:
  Defines the boundary between the work log engine and whatever holds the
  data (a remote spreadsheet in production, SQLite or memory here). The
  store is an opaque key-value table service: named tables, a header row,
  string cells. The engine never issues partial writes.

FULL-REWRITE CONTRACT:
  Overwrite replaces a table wholesale (header + rows). There is no
  row-level update or delete. Every mutation in service.go is therefore
  read-modify-overwrite, and two concurrent writers race: the later
  overwrite wins and silently discards the earlier one. That lost-update
  anomaly is an accepted limitation of the design, not something this
  layer hides or fixes.

IMPLEMENTATIONS:
  - store/sqlite: Durable store over SQLite
  - store/memory: In-memory store for testing/dev

SEE ALSO:
  - schema.go: Turns raw rows into typed records at the load boundary
  - service.go: The only callers of this interface
*/
package worklog

import "context"

// =============================================================================
// TABLE STORE - Interface to the backing store
// =============================================================================

// Row is one stored row keyed by header column name. Cells are untyped
// text; schema.go owns all coercion.
type Row map[string]string

// TableHandle refers to an opened (possibly freshly created) table.
type TableHandle interface {
	// Name returns the table identifier within the store.
	Name() string
}

// TableStore is the sole persistence mechanism. All operations are
// synchronous and blocking; none is safely cancellable mid-flight — a
// rewrite is all-or-nothing only to the extent the backing store makes a
// single write call atomic.
type TableStore interface {
	// OpenOrCreate opens the named table, creating it with the given header
	// if it does not exist yet.
	OpenOrCreate(ctx context.Context, name string, header []string) (TableHandle, error)

	// ReadAll returns every data row (header excluded) in stored order.
	ReadAll(ctx context.Context, h TableHandle) ([]Row, error)

	// Overwrite replaces the entire table content with header plus rows.
	Overwrite(ctx context.Context, h TableHandle, header []string, rows [][]string) error
}
