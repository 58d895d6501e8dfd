// Package testutil holds fakes shared by package tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/frudas24/rcpad/internal/session"
)

// FakeActuator is an HTTP server standing in for the RC car.
type FakeActuator struct {
	Server *httptest.Server

	mu       sync.Mutex
	received []session.Controls
	status   int
	reply    string
	gate     chan struct{}
}

// NewFakeActuator starts a fake actuator answering 200 "OK".
func NewFakeActuator() *FakeActuator {
	f := &FakeActuator{status: http.StatusOK, reply: "OK"}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

// URL returns the controls endpoint of the fake.
func (f *FakeActuator) URL() string {
	return f.Server.URL + "/controls"
}

// SetReply changes the status code and body returned to later requests.
func (f *FakeActuator) SetReply(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.reply = body
}

// Hold makes later requests block until Unhold.
func (f *FakeActuator) Hold() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate == nil {
		f.gate = make(chan struct{})
	}
}

// Unhold releases blocked requests.
func (f *FakeActuator) Unhold() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
}

// Received returns the snapshots decoded so far, in arrival order.
func (f *FakeActuator) Received() []session.Controls {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]session.Controls(nil), f.received...)
}

// WaitFor polls until at least n snapshots arrived or timeout elapses.
func (f *FakeActuator) WaitFor(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if len(f.Received()) >= n {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// Close releases held requests and stops the server.
func (f *FakeActuator) Close() {
	f.Unhold()
	f.Server.Close()
}

// handle records the posted snapshot and answers with the configured reply.
func (f *FakeActuator) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/controls" {
		http.NotFound(w, r)
		return
	}
	var c session.Controls
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.received = append(f.received, c)
	gate := f.gate
	status, reply := f.status, f.reply
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(reply))
}
