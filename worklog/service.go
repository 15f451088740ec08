/*
service.go - Record and staff services over the table store

PURPOSE:
  Orchestrates create, update, delete and roster sync. Every mutation
  follows the same discipline, isolated in mutateRecords/mutateStaff:
  reload the table fresh from the store, apply the change in memory,
  rewrite the whole table. Acting on stale in-memory state is therefore
  impossible within one operation.

CONCURRENCY:
  Single logical writer assumed. There is no locking, no optimistic
  concurrency token, no conflict detection: two concurrent writers race
  and the later overwrite wins, discarding the earlier writer's changes.
  This lost-update anomaly is an accepted limitation of the design.
  Likewise a freshly minted ID can collide if another writer inserts
  between load and save.

SEE ALSO:
  - store.go: The full-rewrite persistence contract
  - identity.go: ID repair and minting
*/
package worklog

import (
	"context"
	"sort"
	"strings"
)

// Default table identifiers in the backing store.
const (
	DefaultRecordsTable = "Records"
	DefaultStaffTable   = "Staff"
)

// =============================================================================
// SERVICE
// =============================================================================

// Service exposes the record and roster operations. Construct one per
// process and share it; the store handles its own connection lifecycle.
type Service struct {
	store        TableStore
	recordsTable string
	staffTable   string
}

// NewService creates a service over the default table names.
func NewService(store TableStore) *Service {
	return NewServiceWithTables(store, DefaultRecordsTable, DefaultStaffTable)
}

// NewServiceWithTables creates a service over custom table identifiers.
func NewServiceWithTables(store TableStore, recordsTable, staffTable string) *Service {
	return &Service{
		store:        store,
		recordsTable: recordsTable,
		staffTable:   staffTable,
	}
}

// =============================================================================
// LOAD / SAVE - The only paths touching the store
// =============================================================================

// LoadRecords reads the records table, coerces it to the canonical schema
// and repairs the ID column. The result is a transient working copy; the
// store remains the sole durable owner.
func (s *Service) LoadRecords(ctx context.Context) ([]Record, error) {
	h, err := s.store.OpenOrCreate(ctx, s.recordsTable, RecordColumns)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ReadAll(ctx, h)
	if err != nil {
		return nil, err
	}
	records := DecodeRecords(rows)
	RepairIDs(records)
	return records, nil
}

// SaveRecords rewrites the entire records table.
func (s *Service) SaveRecords(ctx context.Context, records []Record) error {
	h, err := s.store.OpenOrCreate(ctx, s.recordsTable, RecordColumns)
	if err != nil {
		return err
	}
	return s.store.Overwrite(ctx, h, RecordColumns, EncodeRecords(records))
}

// LoadStaff reads the roster in stored order.
func (s *Service) LoadStaff(ctx context.Context) ([]string, error) {
	h, err := s.store.OpenOrCreate(ctx, s.staffTable, StaffColumns)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ReadAll(ctx, h)
	if err != nil {
		return nil, err
	}
	return DecodeStaff(rows), nil
}

// SaveStaff rewrites the entire roster.
func (s *Service) SaveStaff(ctx context.Context, names []string) error {
	h, err := s.store.OpenOrCreate(ctx, s.staffTable, StaffColumns)
	if err != nil {
		return err
	}
	return s.store.Overwrite(ctx, h, StaffColumns, EncodeStaff(names))
}

// mutateRecords is the reload-before-mutate helper: load fresh, apply fn,
// rewrite. fn returning an error aborts with nothing written.
func (s *Service) mutateRecords(ctx context.Context, fn func(records []Record) ([]Record, error)) error {
	records, err := s.LoadRecords(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	return s.SaveRecords(ctx, updated)
}

func (s *Service) mutateStaff(ctx context.Context, fn func(names []string) ([]string, error)) error {
	names, err := s.LoadStaff(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(names)
	if err != nil {
		return err
	}
	return s.SaveStaff(ctx, updated)
}

// =============================================================================
// RECORD OPERATIONS
// =============================================================================

// AddRecord validates the input, mints a fresh ID against the current
// table, syncs the roster and appends the record. Returns the stored
// record including its assigned ID and derived fields.
func (s *Service) AddRecord(ctx context.Context, in RecordInput) (Record, error) {
	if err := validateInput(in); err != nil {
		return Record{}, err
	}

	if err := s.EnsureStaff(ctx, in.Employee); err != nil {
		return Record{}, err
	}

	var created Record
	err := s.mutateRecords(ctx, func(records []Record) ([]Record, error) {
		created = recordFromInput(in)
		created.ID = NextID(records)
		return append(records, created), nil
	})
	if err != nil {
		return Record{}, err
	}
	return created, nil
}

// UpdateRecord mutates the record with the given ID in place, recomputing
// derived fields. The table is reloaded fresh first; an ID that vanished
// in the meantime yields a NotFoundError and no write.
func (s *Service) UpdateRecord(ctx context.Context, id RecordID, in RecordInput) (Record, error) {
	if err := validateInput(in); err != nil {
		return Record{}, err
	}

	// Reload fresh; the ID may have vanished since the caller last looked.
	records, err := s.LoadRecords(ctx)
	if err != nil {
		return Record{}, err
	}

	idx := -1
	for i := range records {
		if records[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Record{}, &NotFoundError{ID: id}
	}

	updated := recordFromInput(in)
	updated.ID = id
	records[idx] = updated

	if err := s.EnsureStaff(ctx, in.Employee); err != nil {
		return Record{}, err
	}
	if err := s.SaveRecords(ctx, records); err != nil {
		return Record{}, err
	}
	return updated, nil
}

// DeleteRecords removes every record whose ID is in ids and reports how
// many rows were removed. IDs not present are ignored.
func (s *Service) DeleteRecords(ctx context.Context, ids []RecordID) (int, error) {
	drop := make(map[RecordID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	removed := 0
	err := s.mutateRecords(ctx, func(records []Record) ([]Record, error) {
		kept := records[:0]
		for _, r := range records {
			if drop[r.ID] {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// DeleteAll replaces the records table with a header-only table.
func (s *Service) DeleteAll(ctx context.Context) error {
	return s.SaveRecords(ctx, nil)
}

// =============================================================================
// STAFF OPERATIONS
// =============================================================================

// ListStaff returns the distinct non-blank roster names sorted for
// pickers.
func (s *Service) ListStaff(ctx context.Context) ([]string, error) {
	names, err := s.LoadStaff(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(names))
	distinct := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" || seen[name] {
			continue
		}
		seen[name] = true
		distinct = append(distinct, name)
	}
	sort.Strings(distinct)
	return distinct, nil
}

// AddStaff appends a name to the roster. Duplicates (case-sensitive exact
// match) are rejected with ErrStaffExists.
func (s *Service) AddStaff(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "employee", Message: "name must not be empty"}
	}
	return s.mutateStaff(ctx, func(names []string) ([]string, error) {
		for _, existing := range names {
			if existing == name {
				return nil, ErrStaffExists
			}
		}
		return append(names, name), nil
	})
}

// RemoveStaff drops the given names from the roster and reports how many
// entries were removed. Records referencing a removed name are untouched.
func (s *Service) RemoveStaff(ctx context.Context, names []string) (int, error) {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		drop[name] = true
	}

	removed := 0
	err := s.mutateStaff(ctx, func(current []string) ([]string, error) {
		kept := current[:0]
		for _, name := range current {
			if drop[name] {
				removed++
				continue
			}
			kept = append(kept, name)
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// EnsureStaff inserts the name into the roster if absent. Blank names are
// ignored. Records may reference an unknown name; this keeps the pickers
// in sync when a record introduces one.
func (s *Service) EnsureStaff(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	return s.mutateStaff(ctx, func(names []string) ([]string, error) {
		for _, existing := range names {
			if existing == name {
				return names, nil
			}
		}
		return append(names, name), nil
	})
}

// =============================================================================
// INPUT VALIDATION
// =============================================================================

func validateInput(in RecordInput) error {
	if strings.TrimSpace(in.Employee) == "" {
		return &ValidationError{Field: "employee", Message: "name must not be empty"}
	}
	if strings.TrimSpace(in.Client) == "" {
		return &ValidationError{Field: "client", Message: "name must not be empty"}
	}
	if in.DurationMinutes <= 0 {
		return &ValidationError{Field: "duration", Message: "must be a positive number of minutes"}
	}
	if in.ServiceIncome != nil && in.ServiceIncome.IsNegative() {
		return &ValidationError{Field: "serviceIncome", Message: "must not be negative"}
	}
	if in.Tip.IsNegative() {
		return &ValidationError{Field: "tip", Message: "must not be negative"}
	}
	return nil
}

// recordFromInput builds a record from caller input, applying the pricing
// default and recomputing derived fields. ID is left for the caller.
func recordFromInput(in RecordInput) Record {
	service := in.Service
	if service == "" {
		service = ServiceMassage
	}

	income := SuggestedPrice(in.DurationMinutes)
	if in.ServiceIncome != nil {
		income = *in.ServiceIncome
	}

	r := Record{
		Date:            in.Date,
		Employee:        in.Employee,
		Client:          in.Client,
		Service:         service,
		DurationMinutes: in.DurationMinutes,
		ServiceIncome:   income,
		Tip:             in.Tip,
	}
	r.Recompute()
	return r
}
