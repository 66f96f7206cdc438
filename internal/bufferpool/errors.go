package bufferpool

import "errors"

var (
	// ErrParameter covers null/invalid arguments and non-positive sizes.
	ErrParameter = errors.New("bufferpool: invalid parameter")

	// ErrNotInitialized covers operations on a shut-down or zero-value pool.
	ErrNotInitialized = errors.New("bufferpool: pool is not initialized")

	// ErrNoEvictableFrame is returned when an eviction attempt finds every
	// frame pinned.
	ErrNoEvictableFrame = errors.New("bufferpool: all frames pinned")

	// ErrPageNotCached is returned by Unpin/MarkDirty/ForcePage when the
	// page is not currently resident in any frame.
	ErrPageNotCached = errors.New("bufferpool: page not cached")

	// ErrAlreadyUnpinned is a programming error: Unpin called on a frame
	// whose fix count is already zero.
	ErrAlreadyUnpinned = errors.New("bufferpool: page fix count already zero")

	// ErrShutdownPinned is returned when Shutdown is called while a frame
	// still has a non-zero fix count.
	ErrShutdownPinned = errors.New("bufferpool: cannot shut down with pinned frames")
)
