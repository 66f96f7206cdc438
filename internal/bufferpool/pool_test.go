package bufferpool

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajoshi/pagestore/internal/pagefile"
)

func newTestFile(t *testing.T, pages int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t.table")
	require.NoError(t, pagefile.Create(path))
	h, err := pagefile.Open(path)
	require.NoError(t, err)
	require.NoError(t, h.EnsureCapacity(pages))
	require.NoError(t, h.Close())
	return path
}

// S1 — FIFO eviction.
func TestScenario_FIFOEviction(t *testing.T) {
	path := newTestFile(t, 5)
	pool, err := NewPool(path, 3, FIFO)
	require.NoError(t, err)

	for _, page := range []int{1, 2, 3} {
		_, _, err := pool.Pin(page)
		require.NoError(t, err)
		require.NoError(t, pool.Unpin(page))
	}
	_, _, err = pool.Pin(4)
	require.NoError(t, err)

	require.ElementsMatch(t, []int{4, 2, 3}, pool.FrameContents())
	require.Equal(t, 4, pool.NumReadIO())
	require.Equal(t, 0, pool.NumWriteIO())
}

// S2 — dirty write-back.
func TestScenario_DirtyWriteBack(t *testing.T) {
	path := newTestFile(t, 3)
	pool, err := NewPool(path, 1, FIFO)
	require.NoError(t, err)

	_, _, err = pool.Pin(1)
	require.NoError(t, err)
	require.NoError(t, pool.MarkDirty(1))
	require.NoError(t, pool.Unpin(1))

	_, _, err = pool.Pin(2)
	require.NoError(t, err)

	require.Equal(t, 2, pool.NumReadIO())
	require.Equal(t, 1, pool.NumWriteIO())
	require.Equal(t, []bool{false}, pool.DirtyFlags())
}

// S3 — LRU.
func TestScenario_LRU(t *testing.T) {
	path := newTestFile(t, 4)
	pool, err := NewPool(path, 2, LRU)
	require.NoError(t, err)

	for _, page := range []int{1, 2, 1} {
		_, _, err := pool.Pin(page)
		require.NoError(t, err)
		require.NoError(t, pool.Unpin(page))
	}
	_, _, err = pool.Pin(3)
	require.NoError(t, err)

	require.ElementsMatch(t, []int{1, 3}, pool.FrameContents())
}

// S4 — CLOCK.
func TestScenario_CLOCK(t *testing.T) {
	path := newTestFile(t, 5)
	pool, err := NewPool(path, 3, CLOCK)
	require.NoError(t, err)

	for _, page := range []int{1, 2, 3, 1} {
		_, _, err := pool.Pin(page)
		require.NoError(t, err)
		require.NoError(t, pool.Unpin(page))
	}
	_, _, err = pool.Pin(4)
	require.NoError(t, err)

	require.ElementsMatch(t, []int{1, 4, 3}, pool.FrameContents())
}

func TestPin_SamePageTwice(t *testing.T) {
	path := newTestFile(t, 1)
	pool, err := NewPool(path, 1, FIFO)
	require.NoError(t, err)

	_, _, err = pool.Pin(0)
	require.NoError(t, err)
	_, _, err = pool.Pin(0)
	require.NoError(t, err)

	require.Equal(t, []int{2}, pool.FixCounts())
}

func TestPin_AllPinned_NoEvictableFrame(t *testing.T) {
	path := newTestFile(t, 2)
	pool, err := NewPool(path, 1, FIFO)
	require.NoError(t, err)

	_, _, err = pool.Pin(0)
	require.NoError(t, err)

	_, _, err = pool.Pin(1)
	require.ErrorIs(t, err, ErrNoEvictableFrame)
}

func TestUnpin_AlreadyZero(t *testing.T) {
	path := newTestFile(t, 1)
	pool, err := NewPool(path, 1, FIFO)
	require.NoError(t, err)

	_, _, err = pool.Pin(0)
	require.NoError(t, err)
	require.NoError(t, pool.Unpin(0))
	require.ErrorIs(t, pool.Unpin(0), ErrAlreadyUnpinned)
}

func TestShutdown_FailsWithPinnedFrame(t *testing.T) {
	path := newTestFile(t, 1)
	pool, err := NewPool(path, 1, FIFO)
	require.NoError(t, err)

	_, _, err = pool.Pin(0)
	require.NoError(t, err)
	require.ErrorIs(t, pool.Shutdown(), ErrShutdownPinned)
}

func TestForceFlushPool(t *testing.T) {
	path := newTestFile(t, 2)
	pool, err := NewPool(path, 2, FIFO)
	require.NoError(t, err)

	_, buf0, err := pool.Pin(0)
	require.NoError(t, err)
	buf0[10] = 11
	require.NoError(t, pool.MarkDirty(0))
	require.NoError(t, pool.Unpin(0))

	require.NoError(t, pool.ForceFlushPool())
	require.Equal(t, []bool{false, false}, pool.DirtyFlags())
	require.Equal(t, 1, pool.NumWriteIO())
}

func TestShutdown_ReloadPersistsWrites(t *testing.T) {
	path := newTestFile(t, 1)
	pool, err := NewPool(path, 1, FIFO)
	require.NoError(t, err)

	_, buf, err := pool.Pin(0)
	require.NoError(t, err)
	buf[0] = 99
	require.NoError(t, pool.MarkDirty(0))
	require.NoError(t, pool.Unpin(0))
	require.NoError(t, pool.Shutdown())

	h, err := pagefile.Open(path)
	require.NoError(t, err)
	defer h.Close()

	out := make([]byte, pagefile.PageSize)
	require.NoError(t, h.ReadBlock(0, out))
	require.Equal(t, byte(99), out[0])
}
