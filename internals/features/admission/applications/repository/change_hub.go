package repository

import (
	"log"
	"sync"
	"time"

	"github.com/lib/pq"
)

const applicationsChannel = "applications_changed"

// ChangeHub holds a single LISTEN connection on the applications notify
// channel and fans notifications out to any number of dashboard streams.
// Each subscriber channel has capacity 1; a slow consumer coalesces bursts
// into one pending signal instead of blocking the hub.
type ChangeHub struct {
	listener *pq.Listener

	mu   sync.Mutex
	subs map[chan struct{}]struct{}
	done chan struct{}
}

func NewChangeHub(dsn string) (*ChangeHub, error) {
	l := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("[STREAM] listener event=%d err=%v", ev, err)
		}
	})
	if err := l.Listen(applicationsChannel); err != nil {
		l.Close()
		return nil, err
	}

	h := &ChangeHub{
		listener: l,
		subs:     make(map[chan struct{}]struct{}),
		done:     make(chan struct{}),
	}
	go h.run()
	return h, nil
}

func (h *ChangeHub) run() {
	// Ping periodically so a silently dead connection reconnects; after a
	// reconnect any missed notifications are covered by the subscribers'
	// own refresh tick.
	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-h.done:
			return
		case n := <-h.listener.Notify:
			if n == nil {
				// nil means the connection was re-established
				h.broadcast()
				continue
			}
			h.broadcast()
		case <-ping.C:
			go func() {
				if err := h.listener.Ping(); err != nil {
					log.Printf("[STREAM] listener ping failed: %v", err)
				}
			}()
		}
	}
}

func (h *ChangeHub) broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe returns a signal channel that receives after every change to the
// applications table, plus an unsubscribe func the caller must invoke.
func (h *ChangeHub) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

func (h *ChangeHub) Close() error {
	close(h.done)
	return h.listener.Close()
}
