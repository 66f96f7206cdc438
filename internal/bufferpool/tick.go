package bufferpool

import "sync/atomic"

// accessTick is the process-wide, strictly monotonically increasing pin-time
// counter used by LRU recency ordering, matching the original source's
// static access counter rather than scoping it per pool. A 64-bit counter
// rules out the wraparound hazard a 32-bit counter would have.
var accessTick uint64

func nextTick() uint64 {
	return atomic.AddUint64(&accessTick, 1)
}
