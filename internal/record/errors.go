package record

import "errors"

var (
	// ErrParameter is returned by CreateSchema for invalid arguments: no
	// attributes, mismatched slice lengths, or a STRING attribute without a
	// positive typeLength.
	ErrParameter = errors.New("record: invalid parameter")

	// ErrTypeMismatch names an attribute data type mismatch. No function in
	// this package returns it; recordmgr's Record.SetAttr reports a mismatch
	// with recordmgr.ErrTypeMismatch.
	ErrTypeMismatch = errors.New("record: attribute data type mismatch")
)
