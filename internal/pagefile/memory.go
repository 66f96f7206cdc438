package pagefile

import (
	"fmt"

	"github.com/dsnet/golib/memfile"
)

// OpenMemory wraps an in-memory byte slice as a paged file handle, so the
// Handle contract can be exercised without touching a file descriptor (see
// TestMemoryBackend). buf is grown in place
// by AppendEmptyBlock, mirroring how *os.File grows on WriteAt past EOF.
func OpenMemory(buf *[]byte) *Handle {
	return &Handle{
		name:       "memory",
		totalPages: len(*buf) / PageSize,
		curPos:     0,
		dev:        &memDevice{buf: buf, mf: memfile.New(buf)},
	}
}

// memDevice adapts memfile.File (an io.ReaderAt/WriterAt/Closer over a
// caller-owned []byte) to the blockDevice interface. buf is kept alongside
// mf so Size() can see growth performed through another Handle sharing the
// same backing slice pointer.
type memDevice struct {
	buf *[]byte
	mf  *memfile.File
}

func (m *memDevice) ReadAt(p []byte, off int64) (int, error)  { return m.mf.ReadAt(p, off) }
func (m *memDevice) WriteAt(p []byte, off int64) (int, error) { return m.mf.WriteAt(p, off) }
func (m *memDevice) Sync() error                              { return nil }
func (m *memDevice) Close() error                             { return m.mf.Close() }
func (m *memDevice) Size() (int64, error)                     { return int64(len(*m.buf)), nil }

func (m *memDevice) Truncate(size int64) error {
	return fmt.Errorf("pagefile: truncate not supported on memory backend")
}
