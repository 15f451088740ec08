// Package memory provides an in-memory TableStore implementation
// (for testing/dev).
package memory

import (
	"context"
	"sync"

	"github.com/warp/worklog/worklog"
)

// =============================================================================
// MEMORY STORE - In-memory table store
// =============================================================================

type Store struct {
	mu     sync.RWMutex
	tables map[string]*table
}

type table struct {
	header []string
	rows   [][]string
}

type handle struct {
	name string
}

func (h handle) Name() string { return h.name }

func New() *Store {
	return &Store{tables: make(map[string]*table)}
}

// OpenOrCreate opens the named table, creating an empty one under the
// given header if it does not exist.
func (s *Store) OpenOrCreate(_ context.Context, name string, header []string) (worklog.TableHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[name]; !ok {
		s.tables[name] = &table{header: copyRow(header)}
	}
	return handle{name: name}, nil
}

// ReadAll returns every data row zipped against the table header.
// Results are defensive copies; mutating them never touches the store.
func (s *Store) ReadAll(_ context.Context, h worklog.TableHandle) ([]worklog.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[h.Name()]
	if !ok {
		return nil, nil
	}

	rows := make([]worklog.Row, 0, len(t.rows))
	for _, cells := range t.rows {
		row := make(worklog.Row, len(t.header))
		for i, col := range t.header {
			if i < len(cells) {
				row[col] = cells[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Overwrite replaces the table content wholesale.
func (s *Store) Overwrite(_ context.Context, h worklog.TableHandle, header []string, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &table{header: copyRow(header), rows: make([][]string, 0, len(rows))}
	for _, cells := range rows {
		t.rows = append(t.rows, copyRow(cells))
	}
	s.tables[h.Name()] = t
	return nil
}

func copyRow(cells []string) []string {
	out := make([]string, len(cells))
	copy(out, cells)
	return out
}
