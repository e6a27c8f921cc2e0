package smoother

import "sync/atomic"

// Stats counts session activity. Counters are atomic because the status API
// reads them from another goroutine while the processing loop increments.
type Stats struct {
	eventsIn             atomic.Uint64
	eventsOut            atomic.Uint64
	cycles               atomic.Uint64
	suppressedVertical   atomic.Uint64
	suppressedHorizontal atomic.Uint64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	EventsIn             uint64 `json:"events_in"`
	EventsOut            uint64 `json:"events_out"`
	Cycles               uint64 `json:"cycles"`
	SuppressedVertical   uint64 `json:"suppressed_vertical"`
	SuppressedHorizontal uint64 `json:"suppressed_horizontal"`
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		EventsIn:             s.eventsIn.Load(),
		EventsOut:            s.eventsOut.Load(),
		Cycles:               s.cycles.Load(),
		SuppressedVertical:   s.suppressedVertical.Load(),
		SuppressedHorizontal: s.suppressedHorizontal.Load(),
	}
}
