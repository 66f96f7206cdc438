package bufferpool

import "log/slog"

// Strategy names a replacement policy. FIFO, LRU and CLOCK are fully
// implemented; LFU and LRU-K are accepted as configuration values but fall
// through to LRU. This is documented behavior, not a silently unsupported
// option.
type Strategy int

const (
	FIFO Strategy = iota
	LRU
	CLOCK
	LFU
	LRUK
)

func (s Strategy) String() string {
	switch s {
	case FIFO:
		return "FIFO"
	case LRU:
		return "LRU"
	case CLOCK:
		return "CLOCK"
	case LFU:
		return "LFU"
	case LRUK:
		return "LRU-K"
	default:
		return "unknown"
	}
}

// effective returns the strategy actually used to pick victims: LFU and
// LRU-K fall back to LRU.
func (s Strategy) effective() Strategy {
	switch s {
	case LFU, LRUK:
		slog.Info(logPrefix+"strategy falls back to LRU", "requested", s.String())
		return LRU
	default:
		return s
	}
}

// replacer picks a victim frame index among the pool's frames. All methods
// assume the caller holds the pool's mutex.
type replacer interface {
	// onLoad is called after frame idx is populated with a newly loaded page
	// (both the free-slot and eviction-miss paths).
	onLoad(idx int)
	// onHit is called when pin finds the page already resident in frame idx.
	onHit(idx int)
	// victim selects an evictable frame (fixCount == 0), or returns ok=false
	// if none exists.
	victim(frames []*frame) (idx int, ok bool)
}
