package recordmgr

import "github.com/ajoshi/pagestore/internal/record"

// Predicate is the narrow interface a sequential scan invokes per
// candidate record: given the record and its schema, return the attribute
// value the scan should treat as the match verdict. A non-Bool result is
// treated as non-matching. A general expression language is deliberately
// out of scope, so this interface is the scan's only dependency on one.
type Predicate interface {
	Eval(r *Record, schema *record.Schema) (record.Value, error)
}

// Scan is a sequential scan cursor over a table's data-page chain: the
// current (page, slot), the optional predicate, and a running count of
// records yielded.
type Scan struct {
	table        *Table
	page         int
	slot         int
	cond         Predicate
	totalScanned int
}

// StartScan begins a scan at the first data page, slot 0. cond may be nil,
// in which case every live record matches.
func (t *Table) StartScan(cond Predicate) (*Scan, error) {
	if t == nil || t.pool == nil {
		return nil, ErrTableNotOpen
	}
	return &Scan{table: t, page: firstDataPage, slot: 0, cond: cond}, nil
}

// Next advances the cursor, skipping tombstone-free slots and non-matching
// records, and materializes the next match into r. It returns
// ErrNoMoreTuples once the data-page chain is exhausted. The cursor always
// advances past a match before returning it, so the following call resumes
// at the next slot.
func (s *Scan) Next(r *Record) error {
	t := s.table
	for s.page >= 0 {
		page := s.page
		_, buf, err := t.pool.Pin(page)
		if err != nil {
			return ErrNoMoreTuples
		}
		slotsPerPage, _, next := readPageHeader(buf)

		for s.slot < slotsPerPage {
			slot := s.slot
			if !isSlotUsed(buf, slot, t.recordSize) {
				s.slot++
				continue
			}

			if r.data == nil {
				r.data = make([]byte, t.recordSize)
			}
			if r.schema == nil {
				r.schema = t.schema
			}
			copy(r.data, recordDataPointer(buf, slot, t.recordSize))
			r.ID = RID{Page: page, Slot: slot}

			matches := true
			if s.cond != nil {
				result, err := s.cond.Eval(r, t.schema)
				if err != nil {
					t.pool.Unpin(page)
					return err
				}
				matches = result.Type == record.Bool && result.BoolV
			}

			s.slot++
			if matches {
				s.totalScanned++
				t.pool.Unpin(page)
				return nil
			}
		}

		s.page = next
		s.slot = 0
		t.pool.Unpin(page)
	}
	return ErrNoMoreTuples
}

// Close releases scan state. Scans hold no pinned pages between Next
// calls, so this is a no-op kept for symmetry with startScan/closeScan.
func (s *Scan) Close() error {
	return nil
}
