/*
Package sqlite provides a SQLite-backed implementation of the TableStore
interface.

PURPOSE:
  Stands in for the remote spreadsheet as the durable backing store. The
  database deliberately mirrors the spreadsheet shape rather than the
  domain: it knows named tables, a header, and ordered rows of text cells.
  All typing lives in the worklog schema layer, so swapping this for a
  real spreadsheet client changes nothing above the TableStore boundary.

KEY TABLES:
  sheet_tables: One row per named table (header stored as JSON)
  sheet_rows:   Ordered text-cell rows per table (cells stored as JSON)

OVERWRITE ATOMICITY:
  Overwrite runs as a single SQL transaction (delete + bulk insert), so a
  full-table rewrite is all-or-nothing here. That is a property of this
  implementation; the design layer above does not assume it of every
  backing store.

WAL MODE:
  Opened with WAL for better concurrency and crash recovery. This does
  not add writer conflict detection: the last full overwrite still wins.

USAGE:
  store, err := sqlite.New("./data/worklog.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  svc := worklog.NewService(store)

SEE ALSO:
  - worklog/store.go: Interface definition and rewrite contract
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/worklog/worklog"
)

// Store implements worklog.TableStore using SQLite.
type Store struct {
	db *sql.DB
}

type handle struct {
	name string
}

func (h handle) Name() string { return h.name }

// New creates a SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sheet_tables (
		name        TEXT PRIMARY KEY,
		header_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sheet_rows (
		table_name TEXT NOT NULL REFERENCES sheet_tables(name) ON DELETE CASCADE,
		position   INTEGER NOT NULL,
		cells_json TEXT NOT NULL,
		PRIMARY KEY (table_name, position)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TABLE STORE IMPLEMENTATION
// =============================================================================

// OpenOrCreate opens the named table, creating it with the given header if
// absent. An existing table keeps its stored header.
func (s *Store) OpenOrCreate(ctx context.Context, name string, header []string) (worklog.TableHandle, error) {
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sheet_tables (name, header_json) VALUES (?, ?)`,
		name, string(headerJSON))
	if err != nil {
		return nil, storeErr("open table "+name, err)
	}
	return handle{name: name}, nil
}

// ReadAll returns every data row in stored order, zipped against the
// table's stored header.
func (s *Store) ReadAll(ctx context.Context, h worklog.TableHandle) ([]worklog.Row, error) {
	var headerJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT header_json FROM sheet_tables WHERE name = ?`, h.Name()).Scan(&headerJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("read header for "+h.Name(), err)
	}

	var header []string
	if err := json.Unmarshal([]byte(headerJSON), &header); err != nil {
		return nil, fmt.Errorf("decode header for %q: %w", h.Name(), err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT cells_json FROM sheet_rows WHERE table_name = ? ORDER BY position`, h.Name())
	if err != nil {
		return nil, storeErr("read rows for "+h.Name(), err)
	}
	defer rows.Close()

	var result []worklog.Row
	for rows.Next() {
		var cellsJSON string
		if err := rows.Scan(&cellsJSON); err != nil {
			return nil, storeErr("scan row for "+h.Name(), err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(cellsJSON), &cells); err != nil {
			return nil, fmt.Errorf("decode row for %q: %w", h.Name(), err)
		}

		row := make(worklog.Row, len(header))
		for i, col := range header {
			if i < len(cells) {
				row[col] = cells[i]
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate rows for "+h.Name(), err)
	}
	return result, nil
}

// Overwrite replaces the table content wholesale within one SQL
// transaction.
func (s *Store) Overwrite(ctx context.Context, h worklog.TableHandle, header []string, rows [][]string) error {
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin overwrite of "+h.Name(), err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sheet_tables (name, header_json) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET header_json = excluded.header_json`,
		h.Name(), string(headerJSON))
	if err != nil {
		return storeErr("write header for "+h.Name(), err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM sheet_rows WHERE table_name = ?`, h.Name())
	if err != nil {
		return storeErr("clear rows for "+h.Name(), err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sheet_rows (table_name, position, cells_json) VALUES (?, ?, ?)`)
	if err != nil {
		return storeErr("prepare insert for "+h.Name(), err)
	}
	defer stmt.Close()

	for i, cells := range rows {
		cellsJSON, err := json.Marshal(cells)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, h.Name(), i, string(cellsJSON)); err != nil {
			return storeErr(fmt.Sprintf("write row %d for %s", i, h.Name()), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit overwrite of "+h.Name(), err)
	}
	return nil
}

// storeErr classifies database-level failures under ErrStoreUnavailable so
// callers can tell them apart from domain errors. Retry is the caller's
// decision; nothing here retries.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", worklog.ErrStoreUnavailable, op, err)
}
