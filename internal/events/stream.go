// Package events provides a Server-Sent Events stream of state updates.
package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const defaultKeepAlive = time.Second

// Stream broadcasts JSON payloads to connected SSE clients.
type Stream struct {
	mu          sync.RWMutex
	subs        map[chan []byte]struct{}
	last        []byte
	minInterval time.Duration
	keepAlive   time.Duration
	lastPush    time.Time
}

// NewStream creates a stream with a minimum publish interval.
func NewStream(minInterval time.Duration) *Stream {
	return &Stream{
		subs:        make(map[chan []byte]struct{}),
		minInterval: minInterval,
		keepAlive:   defaultKeepAlive,
	}
}

// SetMinInterval sets the minimum interval between broadcasts.
func (s *Stream) SetMinInterval(d time.Duration) {
	s.mu.Lock()
	s.minInterval = d
	s.mu.Unlock()
}

// Subscribers returns the number of connected clients.
func (s *Stream) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// PublishJSON encodes v and publishes it.
func (s *Stream) PublishJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	s.Publish(data)
	return nil
}

// Publish sends a payload to all subscribers with throttling. A throttled
// payload is kept as the latest state and goes out with the next keep-alive.
func (s *Stream) Publish(payload []byte) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := append([]byte(nil), payload...)
	s.last = msg
	if s.minInterval > 0 && now.Sub(s.lastPush) < s.minInterval {
		return
	}
	s.lastPush = now
	for ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- msg:
		default:
		}
	}
}

// Handler serves the event stream to the HTTP client.
func (s *Stream) Handler(w http.ResponseWriter, r *http.Request) {
	fl, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ch := s.subscribe()
	defer s.unsubscribe(ch)

	s.mu.RLock()
	every := s.keepAlive
	s.mu.RUnlock()
	keep := time.NewTicker(every)
	defer keep.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			if err := writeEvent(w, msg); err != nil {
				return
			}
			fl.Flush()
		case <-keep.C:
			s.mu.RLock()
			msg := append([]byte(nil), s.last...)
			s.mu.RUnlock()
			if len(msg) > 0 {
				if err := writeEvent(w, msg); err != nil {
					return
				}
				fl.Flush()
			}
		}
	}
}

// subscribe registers a client and primes it with the latest payload.
func (s *Stream) subscribe() chan []byte {
	ch := make(chan []byte, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	if len(s.last) > 0 {
		ch <- append([]byte(nil), s.last...)
	}
	s.mu.Unlock()
	return ch
}

// unsubscribe removes a client subscription.
func (s *Stream) unsubscribe(ch chan []byte) {
	s.mu.Lock()
	delete(s.subs, ch)
	close(ch)
	s.mu.Unlock()
}

// writeEvent writes one SSE data event. Payloads are single-line JSON.
func writeEvent(w http.ResponseWriter, msg []byte) error {
	if _, err := w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	_, err := w.Write([]byte("\n\n"))
	return err
}
