package pagefile

import "errors"

var (
	// ErrOutOfRange is returned when a page index falls outside [0, totalPages).
	ErrOutOfRange = errors.New("pagefile: page index out of range")

	// ErrBadBufferSize is returned when a read/write buffer is not exactly PageSize bytes.
	ErrBadBufferSize = errors.New("pagefile: buffer size must equal PageSize")

	// ErrNotInitialized is returned when an operation targets a closed or zero-value handle.
	ErrNotInitialized = errors.New("pagefile: handle is not initialized")

	// ErrNoPreviousBlock / ErrNoNextBlock are returned by the relative-read helpers.
	ErrNoPreviousBlock = errors.New("pagefile: no previous block")
	ErrNoNextBlock     = errors.New("pagefile: no next block")
	ErrEmptyFile       = errors.New("pagefile: file is empty")
)
