package filter

import "github.com/ITJesse/mouse-smoother/internal/evdev"

// Grouper accumulates the events of one hardware report cycle. SYN_REPORT
// markers are never stored; they trigger the flush that hands the batch on.
type Grouper struct {
	pending []evdev.Event
}

// Push appends an event to the in-progress batch.
func (g *Grouper) Push(ev evdev.Event) {
	g.pending = append(g.pending, ev)
}

// Flush returns the accumulated batch and starts a fresh one. The returned
// slice is owned by the caller.
func (g *Grouper) Flush() []evdev.Event {
	batch := g.pending
	g.pending = nil
	return batch
}

// Len reports how many events are pending in the current batch.
func (g *Grouper) Len() int {
	return len(g.pending)
}
