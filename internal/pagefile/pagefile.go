// Package pagefile is the thin byte-level paged file store that sits below
// the buffer pool. It is an external collaborator per the design this repo
// follows: only the contract the buffer pool relies on (create/open/close/
// destroy, block-indexed read/write, append, ensure-capacity) is implemented
// here, on top of a swappable block device so the same Handle type can be
// backed by a regular file, an O_DIRECT file, or an in-memory buffer.
package pagefile

import (
	"fmt"
	"log/slog"
	"os"
)

const (
	// PageSize is the fixed page length the whole storage stack assumes.
	PageSize = 4096

	// NoPage is the sentinel for "no page bound".
	NoPage = -1
)

var logPrefix = "pagefile: "

// blockDevice is the minimal seek-free random access surface a Handle needs.
// The fileDevice (*os.File), directDevice and memDevice adapters satisfy it.
type blockDevice interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
	Truncate(size int64) error
	Sync() error
	Close() error
	Size() (int64, error)
}

// Handle is an open paged file: name, total page count, a cursor position
// used by the relative-read helpers, and the backing block device.
type Handle struct {
	name       string
	totalPages int
	curPos     int
	dev        blockDevice
	direct     bool
}

// Name returns the path the handle was opened from.
func (h *Handle) Name() string { return h.name }

// TotalPages returns the current page count.
func (h *Handle) TotalPages() int { return h.totalPages }

// CurPos returns the cursor position used by the relative-read helpers.
func (h *Handle) CurPos() int { return h.curPos }

// Create produces a file exactly one zero-filled PAGE_SIZE page long.
func Create(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("pagefile: create %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, PageSize)
	if _, err := f.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("pagefile: write first page of %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("pagefile: sync %s: %w", path, err)
	}
	slog.Debug(logPrefix+"created", "path", path)
	return nil
}

// Open opens an existing paged file using the default buffered backend.
func Open(path string) (*Handle, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("pagefile: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pagefile: stat %s: %w", path, err)
	}
	return &Handle{
		name:       path,
		totalPages: int(info.Size()) / PageSize,
		curPos:     0,
		dev:        &fileDevice{f: f},
	}, nil
}

// fileDevice adapts the default buffered *os.File backend to blockDevice.
type fileDevice struct {
	f *os.File
}

func (d *fileDevice) ReadAt(p []byte, off int64) (int, error)  { return d.f.ReadAt(p, off) }
func (d *fileDevice) WriteAt(p []byte, off int64) (int, error) { return d.f.WriteAt(p, off) }
func (d *fileDevice) Truncate(size int64) error                { return d.f.Truncate(size) }
func (d *fileDevice) Sync() error                              { return d.f.Sync() }
func (d *fileDevice) Close() error                              { return d.f.Close() }

func (d *fileDevice) Size() (int64, error) {
	info, err := d.f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Close releases the handle's backing file.
func (h *Handle) Close() error {
	if h == nil || h.dev == nil {
		return ErrNotInitialized
	}
	err := h.dev.Close()
	h.dev = nil
	return err
}

// Destroy removes the page file from disk.
func Destroy(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("pagefile: destroy %s: %w", path, err)
	}
	return nil
}

// refreshCapacity re-reads the backing device's actual size. Two Handles
// can have the same path open at once (the record manager appends a data
// page through its own Handle while the buffer pool's Handle still has
// older frames of that file cached); a stale cached totalPages would wrongly
// reject a page another Handle just appended, so checkRange falls back to
// this before giving up.
func (h *Handle) refreshCapacity() error {
	size, err := h.dev.Size()
	if err != nil {
		return fmt.Errorf("pagefile: stat %s: %w", h.name, err)
	}
	h.totalPages = int(size / PageSize)
	return nil
}

func (h *Handle) checkRange(pageIdx int) error {
	if h == nil || h.dev == nil {
		return ErrNotInitialized
	}
	if pageIdx < 0 {
		return fmt.Errorf("%w: page %d, totalPages %d", ErrOutOfRange, pageIdx, h.totalPages)
	}
	if pageIdx >= h.totalPages {
		if err := h.refreshCapacity(); err != nil {
			return err
		}
	}
	if pageIdx >= h.totalPages {
		return fmt.Errorf("%w: page %d, totalPages %d", ErrOutOfRange, pageIdx, h.totalPages)
	}
	return nil
}

// ReadBlock reads page pageIdx into buf, which must be exactly PageSize bytes.
func (h *Handle) ReadBlock(pageIdx int, buf []byte) error {
	if len(buf) != PageSize {
		return ErrBadBufferSize
	}
	if err := h.checkRange(pageIdx); err != nil {
		return err
	}
	if _, err := h.dev.ReadAt(buf, int64(pageIdx)*PageSize); err != nil {
		return fmt.Errorf("pagefile: read block %d of %s: %w", pageIdx, h.name, err)
	}
	h.curPos = pageIdx
	return nil
}

// WriteBlock writes buf (exactly PageSize bytes) to page pageIdx and flushes
// to the OS before returning.
func (h *Handle) WriteBlock(pageIdx int, buf []byte) error {
	if len(buf) != PageSize {
		return ErrBadBufferSize
	}
	if err := h.checkRange(pageIdx); err != nil {
		return err
	}
	if _, err := h.dev.WriteAt(buf, int64(pageIdx)*PageSize); err != nil {
		return fmt.Errorf("pagefile: write block %d of %s: %w", pageIdx, h.name, err)
	}
	if err := h.dev.Sync(); err != nil {
		return fmt.Errorf("pagefile: sync block %d of %s: %w", pageIdx, h.name, err)
	}
	h.curPos = pageIdx
	return nil
}

// ReadFirstBlock reads page 0.
func (h *Handle) ReadFirstBlock(buf []byte) error { return h.ReadBlock(0, buf) }

// ReadPreviousBlock reads the page before the cursor.
func (h *Handle) ReadPreviousBlock(buf []byte) error {
	if h == nil || h.dev == nil {
		return ErrNotInitialized
	}
	if h.curPos <= 0 {
		return ErrNoPreviousBlock
	}
	return h.ReadBlock(h.curPos-1, buf)
}

// ReadCurrentBlock re-reads the page at the cursor.
func (h *Handle) ReadCurrentBlock(buf []byte) error {
	if h == nil || h.dev == nil {
		return ErrNotInitialized
	}
	return h.ReadBlock(h.curPos, buf)
}

// ReadNextBlock reads the page after the cursor.
func (h *Handle) ReadNextBlock(buf []byte) error {
	if h == nil || h.dev == nil {
		return ErrNotInitialized
	}
	if h.curPos >= h.totalPages-1 {
		return ErrNoNextBlock
	}
	return h.ReadBlock(h.curPos+1, buf)
}

// ReadLastBlock reads the final page of the file.
func (h *Handle) ReadLastBlock(buf []byte) error {
	if h == nil || h.dev == nil {
		return ErrNotInitialized
	}
	if h.totalPages == 0 {
		return ErrEmptyFile
	}
	return h.ReadBlock(h.totalPages-1, buf)
}

// AppendEmptyBlock extends the file by one zero-filled page and leaves the
// cursor on the new page.
func (h *Handle) AppendEmptyBlock() error {
	if h == nil || h.dev == nil {
		return ErrNotInitialized
	}
	buf := make([]byte, PageSize)
	off := int64(h.totalPages) * PageSize
	if _, err := h.dev.WriteAt(buf, off); err != nil {
		return fmt.Errorf("pagefile: append block to %s: %w", h.name, err)
	}
	if err := h.dev.Sync(); err != nil {
		return fmt.Errorf("pagefile: sync append of %s: %w", h.name, err)
	}
	h.totalPages++
	h.curPos = h.totalPages - 1
	return nil
}

// EnsureCapacity appends pages until totalPages >= n.
func (h *Handle) EnsureCapacity(n int) error {
	for h.totalPages < n {
		if err := h.AppendEmptyBlock(); err != nil {
			return err
		}
	}
	return nil
}
