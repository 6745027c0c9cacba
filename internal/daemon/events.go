package daemon

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// eventHub numbers events, keeps the most recent ones for replay and fans
// them out to live subscribers. Slow subscribers miss events rather than
// block the poller.
type eventHub struct {
	mu      sync.Mutex
	limit   int
	lastID  int64
	events  []Event
	nextSub int
	subs    map[int]chan Event
}

func newEventHub(limit int) *eventHub {
	return &eventHub{limit: limit, subs: make(map[int]chan Event)}
}

// publish assigns the next id to ev, retains it and delivers it.
func (h *eventHub) publish(ev Event) Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastID++
	ev.ID = h.lastID
	h.events = append(h.events, ev)
	if over := len(h.events) - h.limit; over > 0 {
		h.events = append(h.events[:0:0], h.events[over:]...)
	}
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return ev
}

// since returns retained events with an id greater than id, oldest first.
func (h *eventHub) since(id int64) []Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Event, 0, len(h.events))
	for _, ev := range h.events {
		if ev.ID > id {
			out = append(out, ev)
		}
	}
	return out
}

// subscribe registers a buffered channel for future events.
func (h *eventHub) subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	h.mu.Lock()
	h.nextSub++
	id := h.nextSub
	h.subs[id] = ch
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

func (h *eventHub) counts() (events, subscribers int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events), len(h.subs)
}

// writeSSE writes ev as one server-sent event. Events with an id carry it so
// reconnecting clients can resume with Last-Event-ID.
func writeSSE(w io.Writer, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if ev.ID > 0 {
		if _, err := fmt.Fprintf(w, "id: %d\n", ev.ID); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
	return err
}
