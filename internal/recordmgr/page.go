package recordmgr

import (
	"fmt"

	"github.com/ajoshi/pagestore/internal/bx"
	"github.com/ajoshi/pagestore/internal/pagefile"
	"github.com/ajoshi/pagestore/internal/record"
)

const (
	// headerSize is the three-int32 data-page header: slotsPerPage,
	// freeSlots, nextFreePage.
	headerSize = 12

	schemaPage    = 0
	firstDataPage = 1
)

// calculateSlotsPerPage is floor((PAGE_SIZE - headerSize) / (recordSize+1)),
// the tombstone byte counting as one byte of slot overhead.
func calculateSlotsPerPage(recordSize int) int {
	usable := pagefile.PageSize - headerSize
	return usable / (recordSize + 1)
}

func readPageHeader(buf []byte) (slotsPerPage, freeSlots, nextFreePage int) {
	return int(bx.U32(buf[0:4])), int(bx.U32(buf[4:8])), int(bx.I32(buf[8:12]))
}

func writePageHeader(buf []byte, slotsPerPage, freeSlots, nextFreePage int) {
	bx.PutU32(buf[0:4], uint32(slotsPerPage))
	bx.PutU32(buf[4:8], uint32(freeSlots))
	bx.PutI32(buf[8:12], int32(nextFreePage))
}

func slotOffset(slot, recordSize int) int {
	return headerSize + slot*(recordSize+1)
}

func isSlotUsed(buf []byte, slot, recordSize int) bool {
	return buf[slotOffset(slot, recordSize)] == 1
}

func setSlotUsed(buf []byte, slot, recordSize int, used bool) {
	if used {
		buf[slotOffset(slot, recordSize)] = 1
	} else {
		buf[slotOffset(slot, recordSize)] = 0
	}
}

func recordDataPointer(buf []byte, slot, recordSize int) []byte {
	off := slotOffset(slot, recordSize) + 1
	return buf[off : off+recordSize]
}

// writeSchemaPage serializes schema into page 0's buffer: numAttr:int32,
// keySize:int32, then per attribute {dataType:int32, typeLength:int32,
// nameLen:int32, name:utf8}, then keySize key indices.
func writeSchemaPage(buf []byte, schema *record.Schema) error {
	off := 0
	need := func(n int) error {
		if off+n > len(buf) {
			return ErrSchemaTooLarge
		}
		return nil
	}

	if err := need(8); err != nil {
		return err
	}
	bx.PutU32(buf[off:off+4], uint32(schema.NumAttrs()))
	off += 4
	bx.PutU32(buf[off:off+4], uint32(len(schema.KeyAttr)))
	off += 4

	for _, a := range schema.Attrs {
		nameLen := len(a.Name)
		if err := need(12 + nameLen); err != nil {
			return err
		}
		bx.PutU32(buf[off:off+4], uint32(a.Type))
		off += 4
		bx.PutU32(buf[off:off+4], uint32(a.TypeLength))
		off += 4
		bx.PutU32(buf[off:off+4], uint32(nameLen))
		off += 4
		copy(buf[off:off+nameLen], a.Name)
		off += nameLen
	}

	for _, k := range schema.KeyAttr {
		if err := need(4); err != nil {
			return err
		}
		bx.PutI32(buf[off:off+4], int32(k))
		off += 4
	}
	return nil
}

func readSchemaPage(buf []byte) (*record.Schema, error) {
	off := 0
	numAttr := int(bx.U32(buf[off : off+4]))
	off += 4
	keySize := int(bx.U32(buf[off : off+4]))
	off += 4

	names := make([]string, numAttr)
	types := make([]record.DataType, numAttr)
	typeLengths := make([]int, numAttr)
	for i := 0; i < numAttr; i++ {
		types[i] = record.DataType(bx.I32(buf[off : off+4]))
		off += 4
		typeLengths[i] = int(bx.I32(buf[off : off+4]))
		off += 4
		nameLen := int(bx.U32(buf[off : off+4]))
		off += 4
		names[i] = string(buf[off : off+nameLen])
		off += nameLen
	}

	keys := make([]int, keySize)
	for i := 0; i < keySize; i++ {
		keys[i] = int(bx.I32(buf[off : off+4]))
		off += 4
	}

	return record.CreateSchema(names, types, typeLengths, keys)
}
