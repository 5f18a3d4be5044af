package events

import "sync"

// Feed is an in-process Emitter that fans events out to subscribers over
// buffered channels. Persistence and indexing of the feed are external
// concerns; a slow subscriber loses events rather than stalling the ledger.
type Feed struct {
	mu   sync.Mutex
	subs []chan Event
}

// NewFeed constructs an empty feed.
func NewFeed() *Feed { return &Feed{} }

// Subscribe registers a new subscriber with the given buffer size.
func (f *Feed) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan Event, buffer)
	f.mu.Lock()
	f.subs = append(f.subs, ch)
	f.mu.Unlock()
	return ch
}

// Emit delivers the event to every subscriber that has buffer capacity.
func (f *Feed) Emit(evt Event) {
	if f == nil || evt == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}
