package recordmgr

import "errors"

var (
	// ErrParameter covers nil/invalid arguments and out-of-range attribute
	// numbers.
	ErrParameter = errors.New("recordmgr: invalid parameter")

	// ErrTypeMismatch is returned by Record.SetAttr when the value's type
	// does not match the schema's declared type for that attribute.
	ErrTypeMismatch = errors.New("recordmgr: attribute data type mismatch")

	// ErrRecordNotFound covers a RID whose slot tombstone is clear. A RID
	// whose page index lies outside the file is not reported with this
	// value: Get, Update and Delete return the error from the buffer pool's
	// Pin (pagefile.ErrOutOfRange) as is.
	ErrRecordNotFound = errors.New("recordmgr: record not found")

	// ErrSchemaTooLarge is returned by CreateTable when the serialized
	// schema does not fit in a single page.
	ErrSchemaTooLarge = errors.New("recordmgr: schema too large for one page")

	// ErrNoMoreTuples is returned by Scan.Next once the data-page chain is
	// exhausted.
	ErrNoMoreTuples = errors.New("recordmgr: no more tuples")

	// ErrTableNotOpen covers operations on a closed or zero-value Table.
	ErrTableNotOpen = errors.New("recordmgr: table is not open")
)
