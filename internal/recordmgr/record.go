// Package recordmgr is the record manager: per-table heap file with
// slotted pages, tombstoned slot occupancy, a per-file singly-linked
// free-page list, a persisted schema page, record CRUD by RID, and a
// predicate-filtered sequential scan.
package recordmgr

import (
	"fmt"

	"github.com/ajoshi/pagestore/internal/bx"
	"github.com/ajoshi/pagestore/internal/record"
)

// RID identifies a record by (page, slot). NoRID is the sentinel for an
// unplaced record.
type RID struct {
	Page int
	Slot int
}

// NoRID is the RID of a record that has not yet been inserted.
var NoRID = RID{Page: -1, Slot: -1}

// Record is a fixed-size payload bound to a schema, plus the RID it lives
// at once inserted. CreateRecord allocates a zero-filled payload and sets
// ID to NoRID, mirroring the original source's createRecord.
type Record struct {
	ID     RID
	schema *record.Schema
	data   []byte
}

// CreateRecord allocates a zero-filled record payload sized for schema.
func CreateRecord(schema *record.Schema) (*Record, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrParameter)
	}
	return &Record{ID: NoRID, schema: schema, data: make([]byte, schema.RecordSize())}, nil
}

// GetAttr reads the value of attribute attrNum out of the record payload.
func (r *Record) GetAttr(attrNum int) (record.Value, error) {
	if r == nil || r.schema == nil {
		return record.Value{}, ErrParameter
	}
	if attrNum < 0 || attrNum >= r.schema.NumAttrs() {
		return record.Value{}, fmt.Errorf("%w: attribute index %d", ErrParameter, attrNum)
	}
	attr := r.schema.Attrs[attrNum]
	off := r.schema.AttrOffset(attrNum)
	switch attr.Type {
	case record.Int:
		return record.IntValue(bx.I32(r.data[off : off+4])), nil
	case record.Float:
		return record.FloatValue(bitsToFloat32(bx.U32(r.data[off : off+4]))), nil
	case record.Bool:
		return record.BoolValue(r.data[off] != 0), nil
	case record.String:
		return record.StringValue(string(r.data[off : off+attr.TypeLength])), nil
	default:
		return record.Value{}, fmt.Errorf("%w: unknown data type %v", ErrParameter, attr.Type)
	}
}

// SetAttr writes value into attribute attrNum of the record payload. The
// value's type must match the schema's declared type for that attribute.
func (r *Record) SetAttr(attrNum int, value record.Value) error {
	if r == nil || r.schema == nil {
		return ErrParameter
	}
	if attrNum < 0 || attrNum >= r.schema.NumAttrs() {
		return fmt.Errorf("%w: attribute index %d", ErrParameter, attrNum)
	}
	attr := r.schema.Attrs[attrNum]
	if value.Type != attr.Type {
		return fmt.Errorf("%w: attribute %q wants %v, got %v", ErrTypeMismatch, attr.Name, attr.Type, value.Type)
	}
	off := r.schema.AttrOffset(attrNum)
	switch attr.Type {
	case record.Int:
		bx.PutI32(r.data[off:off+4], value.IntV)
	case record.Float:
		bx.PutU32(r.data[off:off+4], float32ToBits(value.FloatV))
	case record.Bool:
		if value.BoolV {
			r.data[off] = 1
		} else {
			r.data[off] = 0
		}
	case record.String:
		n := copy(r.data[off:off+attr.TypeLength], value.StringV)
		for ; n < attr.TypeLength; n++ {
			r.data[off+n] = 0
		}
	}
	return nil
}
