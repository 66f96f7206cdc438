package recordmgr

import (
	"fmt"
	"log/slog"

	"github.com/ajoshi/pagestore/internal/bufferpool"
	"github.com/ajoshi/pagestore/internal/pagefile"
	"github.com/ajoshi/pagestore/internal/record"
)

var logPrefix = "recordmgr: "

// Table is an open heap file: its schema, a dedicated three-frame FIFO
// buffer pool, the fixed record size the schema implies, a running tuple
// count, and the head of the free-list.
type Table struct {
	name          string
	path          string
	schema        *record.Schema
	pool          *bufferpool.Pool
	recordSize    int
	numTuples     int
	firstFreePage int
}

func tablePath(name string) string { return name + ".table" }

// CreateTable creates a one-page file `<name>.table`, writes the schema to
// page 0, and appends page 1 as the first data page with a freshly
// initialized header.
func CreateTable(name string, schema *record.Schema) error {
	path := tablePath(name)
	if err := pagefile.Create(path); err != nil {
		return err
	}

	pool, err := bufferpool.NewPool(path, 3, bufferpool.FIFO)
	if err != nil {
		return err
	}
	defer pool.Shutdown()

	recordSize := schema.RecordSize()
	_, buf, err := pool.Pin(schemaPage)
	if err != nil {
		return err
	}
	if err := writeSchemaPage(buf, schema); err != nil {
		pool.Unpin(schemaPage)
		return err
	}
	pool.MarkDirty(schemaPage)
	pool.Unpin(schemaPage)

	if _, err := appendDataPage(path); err != nil {
		return err
	}

	_, buf, err = pool.Pin(firstDataPage)
	if err != nil {
		return err
	}
	slotsPerPage := calculateSlotsPerPage(recordSize)
	writePageHeader(buf, slotsPerPage, slotsPerPage, -1)
	pool.MarkDirty(firstDataPage)
	pool.Unpin(firstDataPage)

	slog.Debug(logPrefix+"created table", "name", name, "recordSize", recordSize, "slotsPerPage", slotsPerPage)
	return nil
}

// appendDataPage opens its own pagefile.Handle on path, appends one
// zero-filled page, and closes it; it never shares state with a table's
// buffer pool, since the record manager only ever touches the file store
// directly to create/destroy a table's file or append an empty page. This
// I/O path coexists with frames the pool already has cached for that file
// because pagefile.Handle.checkRange self-heals a stale cached page count
// (see pagefile.refreshCapacity).
func appendDataPage(path string) (int, error) {
	h, err := pagefile.Open(path)
	if err != nil {
		return 0, err
	}
	defer h.Close()
	if err := h.AppendEmptyBlock(); err != nil {
		return 0, err
	}
	return h.TotalPages() - 1, nil
}

// OpenTable opens an existing table file: a fresh three-frame FIFO buffer
// pool, the persisted schema, and the recomputed tuple count and free-list
// head from walking the data-page chain.
func OpenTable(name string) (*Table, error) {
	path := tablePath(name)
	pool, err := bufferpool.NewPool(path, 3, bufferpool.FIFO)
	if err != nil {
		return nil, err
	}

	_, buf, err := pool.Pin(schemaPage)
	if err != nil {
		pool.Shutdown()
		return nil, err
	}
	schema, err := readSchemaPage(buf)
	pool.Unpin(schemaPage)
	if err != nil {
		pool.Shutdown()
		return nil, err
	}

	t := &Table{
		name:          name,
		path:          path,
		schema:        schema,
		pool:          pool,
		recordSize:    schema.RecordSize(),
		firstFreePage: firstDataPage,
	}

	page := firstDataPage
	firstFreeFound := false
	for page >= 0 {
		_, buf, err := pool.Pin(page)
		if err != nil {
			break
		}
		slotsPerPage, freeSlots, next := readPageHeader(buf)
		t.numTuples += slotsPerPage - freeSlots
		if !firstFreeFound && freeSlots > 0 {
			t.firstFreePage = page
			firstFreeFound = true
		}
		pool.Unpin(page)
		page = next
	}

	slog.Debug(logPrefix+"opened table", "name", name, "numTuples", t.numTuples, "firstFreePage", t.firstFreePage)
	return t, nil
}

// Close flushes every dirty frame and shuts down the table's buffer pool.
func (t *Table) Close() error {
	if t == nil || t.pool == nil {
		return ErrTableNotOpen
	}
	if err := t.pool.ForceFlushPool(); err != nil {
		return err
	}
	if err := t.pool.Shutdown(); err != nil {
		return err
	}
	t.pool = nil
	return nil
}

// DeleteTable removes a table's backing file from disk.
func DeleteTable(name string) error {
	return pagefile.Destroy(tablePath(name))
}

// NumTuples returns the cached count of live tuples.
func (t *Table) NumTuples() int {
	if t == nil {
		return 0
	}
	return t.numTuples
}

// Schema returns the table's schema.
func (t *Table) Schema() *record.Schema { return t.schema }

// findFreeSlot walks the free-list starting at firstFreePage looking for a
// page with freeSlots > 0; if none is found it appends a new data page and
// splices it at the head of the list.
func (t *Table) findFreeSlot() (RID, error) {
	page := t.firstFreePage
	for page >= 0 {
		_, buf, err := t.pool.Pin(page)
		if err != nil {
			break
		}
		slotsPerPage, freeSlots, next := readPageHeader(buf)
		if freeSlots > 0 {
			for slot := 0; slot < slotsPerPage; slot++ {
				if !isSlotUsed(buf, slot, t.recordSize) {
					t.pool.Unpin(page)
					return RID{Page: page, Slot: slot}, nil
				}
			}
		}
		t.pool.Unpin(page)
		page = next
	}

	newPage, err := appendDataPage(t.path)
	if err != nil {
		return NoRID, err
	}

	_, buf, err := t.pool.Pin(newPage)
	if err != nil {
		return NoRID, err
	}
	slotsPerPage := calculateSlotsPerPage(t.recordSize)
	writePageHeader(buf, slotsPerPage, slotsPerPage, -1)

	if t.firstFreePage == firstDataPage {
		_, firstBuf, err := t.pool.Pin(firstDataPage)
		if err == nil {
			firstSlots, firstFree, firstNext := readPageHeader(firstBuf)
			writePageHeader(buf, slotsPerPage, slotsPerPage, firstNext)
			writePageHeader(firstBuf, firstSlots, firstFree, newPage)
			t.pool.MarkDirty(firstDataPage)
			t.pool.Unpin(firstDataPage)
		}
	}

	t.firstFreePage = newPage
	t.pool.MarkDirty(newPage)
	t.pool.Unpin(newPage)

	return RID{Page: newPage, Slot: 0}, nil
}

// Insert finds a free slot, writes r's payload there, marks the slot used,
// stamps r.ID, and marks the page dirty.
func (t *Table) Insert(r *Record) error {
	if t == nil || t.pool == nil {
		return ErrTableNotOpen
	}
	rid, err := t.findFreeSlot()
	if err != nil {
		return err
	}

	_, buf, err := t.pool.Pin(rid.Page)
	if err != nil {
		return err
	}
	copy(recordDataPointer(buf, rid.Slot, t.recordSize), r.data)
	setSlotUsed(buf, rid.Slot, t.recordSize, true)
	slotsPerPage, freeSlots, next := readPageHeader(buf)
	writePageHeader(buf, slotsPerPage, freeSlots-1, next)
	t.pool.MarkDirty(rid.Page)
	t.pool.Unpin(rid.Page)

	r.ID = rid
	t.numTuples++
	return nil
}

// Delete clears the tombstone at id, splicing the page onto the free-list
// head if its nextFreePage link is -1.
func (t *Table) Delete(id RID) error {
	if t == nil || t.pool == nil {
		return ErrTableNotOpen
	}
	_, buf, err := t.pool.Pin(id.Page)
	if err != nil {
		return err
	}
	if !isSlotUsed(buf, id.Slot, t.recordSize) {
		t.pool.Unpin(id.Page)
		return fmt.Errorf("%w: %+v", ErrRecordNotFound, id)
	}

	setSlotUsed(buf, id.Slot, t.recordSize, false)
	slotsPerPage, freeSlots, next := readPageHeader(buf)
	if next == -1 {
		// Not already threaded onto the free-list: splice it at the head.
		writePageHeader(buf, slotsPerPage, freeSlots+1, t.firstFreePage)
		t.firstFreePage = id.Page
	} else {
		writePageHeader(buf, slotsPerPage, freeSlots+1, next)
	}

	t.pool.MarkDirty(id.Page)
	t.pool.Unpin(id.Page)
	t.numTuples--
	return nil
}

// Update overwrites the payload bytes of an already-live record in place;
// the record size never changes, so there is no relocation.
func (t *Table) Update(r *Record) error {
	if t == nil || t.pool == nil {
		return ErrTableNotOpen
	}
	_, buf, err := t.pool.Pin(r.ID.Page)
	if err != nil {
		return err
	}
	if !isSlotUsed(buf, r.ID.Slot, t.recordSize) {
		t.pool.Unpin(r.ID.Page)
		return fmt.Errorf("%w: %+v", ErrRecordNotFound, r.ID)
	}
	copy(recordDataPointer(buf, r.ID.Slot, t.recordSize), r.data)
	t.pool.MarkDirty(r.ID.Page)
	t.pool.Unpin(r.ID.Page)
	return nil
}

// Get reads the record at id into r, allocating r's payload buffer if
// unset.
func (t *Table) Get(id RID, r *Record) error {
	if t == nil || t.pool == nil {
		return ErrTableNotOpen
	}
	_, buf, err := t.pool.Pin(id.Page)
	if err != nil {
		return err
	}
	if !isSlotUsed(buf, id.Slot, t.recordSize) {
		t.pool.Unpin(id.Page)
		return fmt.Errorf("%w: %+v", ErrRecordNotFound, id)
	}
	if r.data == nil {
		r.data = make([]byte, t.recordSize)
	}
	if r.schema == nil {
		r.schema = t.schema
	}
	copy(r.data, recordDataPointer(buf, id.Slot, t.recordSize))
	r.ID = id
	t.pool.Unpin(id.Page)
	return nil
}
