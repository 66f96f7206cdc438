package pagefile

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ncw/directio"
)

// OpenDirect opens an existing paged file bypassing the OS page cache via
// O_DIRECT, for callers that need "flushed to disk" to mean true on-disk
// durability rather than page-cache durability. Reads and
// writes are routed through directio-aligned scratch buffers since O_DIRECT
// requires aligned, block-multiple I/O and callers are not expected to
// align their own PageSize buffers.
//
// OpenDirect does not fall back to the buffered backend that Open uses: a platform/filesystem that rejects O_DIRECT (common on tmpfs)
// surfaces as an I/O error, since the caller explicitly asked for direct
// mode.
func OpenDirect(path string) (*Handle, error) {
	f, err := directio.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("pagefile: open direct %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pagefile: stat direct %s: %w", path, err)
	}
	if directio.BlockSize > PageSize || PageSize%directio.BlockSize != 0 {
		f.Close()
		return nil, fmt.Errorf("pagefile: O_DIRECT block size %d incompatible with page size %d", directio.BlockSize, PageSize)
	}
	slog.Debug(logPrefix+"opened direct backend", "path", path, "blockSize", directio.BlockSize)
	return &Handle{
		name:       path,
		totalPages: int(info.Size()) / PageSize,
		curPos:     0,
		dev:        &directDevice{f: f},
		direct:     true,
	}, nil
}

// directDevice adapts an O_DIRECT *os.File to the blockDevice interface,
// copying through an aligned scratch buffer on every call.
type directDevice struct {
	f *os.File
}

func (d *directDevice) ReadAt(p []byte, off int64) (int, error) {
	block := directio.AlignedBlock(len(p))
	n, err := d.f.ReadAt(block, off)
	copy(p, block)
	return n, err
}

func (d *directDevice) WriteAt(p []byte, off int64) (int, error) {
	block := directio.AlignedBlock(len(p))
	copy(block, p)
	return d.f.WriteAt(block, off)
}

func (d *directDevice) Truncate(size int64) error { return d.f.Truncate(size) }
func (d *directDevice) Sync() error                { return d.f.Sync() }
func (d *directDevice) Close() error                { return d.f.Close() }

func (d *directDevice) Size() (int64, error) {
	info, err := d.f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
