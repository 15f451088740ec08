/*
identity.go - Stable record identity despite full-sheet overwrites

PURPOSE:
  The backing store carries no auto-increment, so the engine owns ID
  discipline: repair on every load, mint fresh on create. Persisted data
  need not arrive with perfect IDs — repeated loads without a save are
  idempotent (valid IDs are never touched).

SEE ALSO:
  - schema.go: Decodes unparseable IDs to 0 ("blank")
  - service.go: Mints a new ID immediately before each insert
*/
package worklog

// RepairIDs ensures every record carries a unique positive ID, in place.
//
// If every ID is blank (<= 0), rows are numbered 1..N in row order.
// Otherwise blanks are filled with maxID+1, maxID+2, ... in row order,
// never reusing a number already present. Already-valid IDs are untouched,
// so repairing twice is a no-op.
func RepairIDs(records []Record) {
	allBlank := true
	for _, r := range records {
		if r.ID > 0 {
			allBlank = false
			break
		}
	}

	if allBlank {
		for i := range records {
			records[i].ID = RecordID(i + 1)
		}
		return
	}

	maxID := maxRecordID(records)
	for i := range records {
		if records[i].ID <= 0 {
			maxID++
			records[i].ID = maxID
		}
	}
}

// NextID returns the ID for a record about to be inserted: one past the
// largest existing ID, or 1 for an empty table. Computed fresh against a
// just-loaded table to reduce (not eliminate) collision risk under
// concurrent writers.
func NextID(records []Record) RecordID {
	if len(records) == 0 {
		return 1
	}
	return maxRecordID(records) + 1
}

func maxRecordID(records []Record) RecordID {
	var max RecordID
	for _, r := range records {
		if r.ID > max {
			max = r.ID
		}
	}
	return max
}
