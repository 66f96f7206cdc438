// Package bufferpool caches pages from a pagefile.Handle in a fixed number
// of frames, with pinning discipline, three replacement strategies
// (FIFO/LRU/CLOCK), dirty write-back on eviction, and read/write I/O
// accounting.
package bufferpool

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ajoshi/pagestore/internal/pagefile"
)

var logPrefix = "bufferpool: "

// frame is a single cache slot: a bound page index (or pagefile.NoPage), its
// buffer, dirty flag, fix count, and the bookkeeping the three replacement
// strategies need (lastUsed for LRU, accessCount for observability, refBit
// for CLOCK).
type frame struct {
	pageNum     int
	buf         []byte
	dirty       bool
	fixCount    int
	lastUsed    uint64
	accessCount int
	refBit      bool
}

// Pool is a fixed-size buffer pool bound to one paged file.
type Pool struct {
	id       uuid.UUID
	file     *pagefile.Handle
	strategy Strategy
	repl     replacer

	mu     sync.Mutex
	frames []*frame

	numReadIO  int
	numWriteIO int
}

// NewPool opens pageFileName and allocates numPages frames using strategy.
func NewPool(pageFileName string, numPages int, strategy Strategy) (*Pool, error) {
	return newPool(pageFileName, numPages, strategy, pagefile.Open)
}

// NewPoolDirect is NewPool backed by pagefile.OpenDirect instead of the
// buffered backend, for callers that configured storage.direct (see
// internal/config) and want the buffer pool's write-back to mean true
// on-disk durability rather than page-cache durability.
func NewPoolDirect(pageFileName string, numPages int, strategy Strategy) (*Pool, error) {
	return newPool(pageFileName, numPages, strategy, pagefile.OpenDirect)
}

func newPool(pageFileName string, numPages int, strategy Strategy, open func(string) (*pagefile.Handle, error)) (*Pool, error) {
	if numPages <= 0 {
		return nil, fmt.Errorf("%w: numPages must be > 0, got %d", ErrParameter, numPages)
	}

	file, err := open(pageFileName)
	if err != nil {
		return nil, err
	}

	frames := make([]*frame, numPages)
	for i := range frames {
		frames[i] = &frame{pageNum: pagefile.NoPage, buf: make([]byte, pagefile.PageSize)}
	}

	p := &Pool{
		id:       uuid.New(),
		file:     file,
		strategy: strategy.effective(),
		frames:   frames,
	}
	p.repl = newReplacer(p.strategy)

	slog.Debug(logPrefix+"initialized", "pool", p.id, "file", pageFileName, "numPages", numPages, "strategy", strategy.String())
	return p, nil
}

func newReplacer(s Strategy) replacer {
	switch s {
	case LRU:
		return newLRUReplacer()
	case CLOCK:
		return newClockReplacer()
	default:
		return newFIFOReplacer()
	}
}

// Shutdown force-flushes every dirty frame, closes the file and releases all
// frames. It is an error to call it with any frame still pinned.
func (p *Pool) Shutdown() error {
	if p == nil || p.file == nil {
		return ErrNotInitialized
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, f := range p.frames {
		if f.pageNum != pagefile.NoPage && f.fixCount > 0 {
			return fmt.Errorf("%w: page %d has fix count %d", ErrShutdownPinned, f.pageNum, f.fixCount)
		}
	}

	if err := p.forceFlushLocked(); err != nil {
		return err
	}
	if err := p.file.Close(); err != nil {
		return err
	}
	p.file = nil
	p.frames = nil
	slog.Debug(logPrefix+"shut down", "pool", p.id)
	return nil
}

func (p *Pool) findFrame(pageIdx int) int {
	for i, f := range p.frames {
		if f.pageNum == pageIdx {
			return i
		}
	}
	return -1
}

func (p *Pool) findFree() int {
	for i, f := range p.frames {
		if f.pageNum == pagefile.NoPage {
			return i
		}
	}
	return -1
}

// Pin loads (or returns the already-cached) page pageIdx and increments its
// fix count, covering the hit / free-frame-miss / eviction-miss cases.
func (p *Pool) Pin(pageIdx int) (int, []byte, error) {
	if p == nil || p.file == nil {
		return 0, nil, ErrNotInitialized
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if idx := p.findFrame(pageIdx); idx != -1 {
		f := p.frames[idx]
		f.fixCount++
		f.lastUsed = nextTick()
		f.accessCount++
		f.refBit = true
		p.repl.onHit(idx)
		slog.Debug(logPrefix+"pin hit", "pool", p.id, "page", pageIdx, "frame", idx, "fixCount", f.fixCount)
		return idx, f.buf, nil
	}

	idx := p.findFree()
	if idx == -1 {
		var ok bool
		idx, ok = p.repl.victim(p.frames)
		if !ok {
			return 0, nil, ErrNoEvictableFrame
		}
		victim := p.frames[idx]
		if victim.dirty {
			if err := p.file.WriteBlock(victim.pageNum, victim.buf); err != nil {
				return 0, nil, err
			}
			p.numWriteIO++
			victim.dirty = false
		}
		slog.Debug(logPrefix+"evicted", "pool", p.id, "victimPage", victim.pageNum, "frame", idx, "strategy", p.strategy.String())
	}

	f := p.frames[idx]
	if err := p.file.ReadBlock(pageIdx, f.buf); err != nil {
		return 0, nil, err
	}
	p.numReadIO++
	f.pageNum = pageIdx
	f.dirty = false
	f.fixCount = 1
	f.lastUsed = nextTick()
	f.accessCount = 1
	// refBit starts clear on a fresh load: only an actual re-access (a pin
	// hit) gives a frame a second chance under CLOCK. A page pinned exactly
	// once never gets a second chance.
	f.refBit = false
	p.repl.onLoad(idx)

	slog.Debug(logPrefix+"pin miss loaded", "pool", p.id, "page", pageIdx, "frame", idx)
	return idx, f.buf, nil
}

// Unpin decrements the fix count of the frame holding pageIdx.
func (p *Pool) Unpin(pageIdx int) error {
	if p == nil || p.file == nil {
		return ErrNotInitialized
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.findFrame(pageIdx)
	if idx == -1 {
		return fmt.Errorf("%w: page %d", ErrPageNotCached, pageIdx)
	}
	f := p.frames[idx]
	if f.fixCount <= 0 {
		return fmt.Errorf("%w: page %d", ErrAlreadyUnpinned, pageIdx)
	}
	f.fixCount--
	return nil
}

// MarkDirty sets the dirty bit of the frame holding pageIdx.
func (p *Pool) MarkDirty(pageIdx int) error {
	if p == nil || p.file == nil {
		return ErrNotInitialized
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.findFrame(pageIdx)
	if idx == -1 {
		return fmt.Errorf("%w: page %d", ErrPageNotCached, pageIdx)
	}
	p.frames[idx].dirty = true
	return nil
}

// ForcePage writes the frame holding pageIdx to disk regardless of its dirty
// bit and clears it.
func (p *Pool) ForcePage(pageIdx int) error {
	if p == nil || p.file == nil {
		return ErrNotInitialized
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.findFrame(pageIdx)
	if idx == -1 {
		return fmt.Errorf("%w: page %d", ErrPageNotCached, pageIdx)
	}
	f := p.frames[idx]
	if err := p.file.WriteBlock(f.pageNum, f.buf); err != nil {
		return err
	}
	p.numWriteIO++
	f.dirty = false
	return nil
}

// ForceFlushPool writes back every dirty, bound frame without evicting it.
func (p *Pool) ForceFlushPool() error {
	if p == nil || p.file == nil {
		return ErrNotInitialized
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.forceFlushLocked()
}

func (p *Pool) forceFlushLocked() error {
	for _, f := range p.frames {
		if !f.dirty || f.pageNum == pagefile.NoPage {
			continue
		}
		if err := p.file.WriteBlock(f.pageNum, f.buf); err != nil {
			return err
		}
		p.numWriteIO++
		f.dirty = false
	}
	return nil
}

// FrameContents returns a snapshot of the bound page index of every frame
// (pagefile.NoPage for empty frames).
func (p *Pool) FrameContents() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int, len(p.frames))
	for i, f := range p.frames {
		out[i] = f.pageNum
	}
	return out
}

// DirtyFlags returns a snapshot of every frame's dirty bit.
func (p *Pool) DirtyFlags() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]bool, len(p.frames))
	for i, f := range p.frames {
		out[i] = f.dirty
	}
	return out
}

// FixCounts returns a snapshot of every frame's fix count.
func (p *Pool) FixCounts() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int, len(p.frames))
	for i, f := range p.frames {
		out[i] = f.fixCount
	}
	return out
}

// NumReadIO returns the number of backing-store reads triggered by pin-misses.
func (p *Pool) NumReadIO() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.numReadIO
}

// NumWriteIO returns the number of backing-store writes (eviction
// write-back, forced pages, flushed dirty frames).
func (p *Pool) NumWriteIO() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.numWriteIO
}
