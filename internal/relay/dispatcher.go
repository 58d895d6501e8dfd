package relay

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/frudas24/rcpad/internal/session"
)

// DefaultMaxInFlight keeps snapshots ordered on the wire.
const DefaultMaxInFlight = 1

// Sender delivers one snapshot to a target.
type Sender interface {
	Send(ctx context.Context, target string, c session.Controls) (string, error)
}

// Result describes one completed delivery attempt.
type Result struct {
	Controls session.Controls
	Reply    string
	Err      error
}

// Status summarizes relay activity.
type Status struct {
	Target      string    `json:"target"`
	Sent        uint64    `json:"sent"`
	Failed      uint64    `json:"failed"`
	Coalesced   uint64    `json:"coalesced"`
	InFlight    int       `json:"inFlight"`
	LastError   string    `json:"lastError,omitempty"`
	LastSuccess time.Time `json:"lastSuccess,omitempty"`
}

// Options configures a Dispatcher.
type Options struct {
	MaxInFlight int
	// OnResult runs after every delivery attempt, outside the dispatcher lock.
	OnResult func(Result)
}

// Dispatcher relays snapshots without blocking callers. When MaxInFlight
// requests are outstanding the newest snapshot is parked and sent as soon as
// a slot frees; older parked snapshots are dropped.
type Dispatcher struct {
	sender   Sender
	target   func() string
	max      int
	onResult func(Result)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	inflight int
	pending  *session.Controls
	closed   bool
	status   Status
}

// NewDispatcher returns a dispatcher sending to the URL returned by target.
func NewDispatcher(sender Sender, target func() string, opts Options) *Dispatcher {
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = DefaultMaxInFlight
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		sender:   sender,
		target:   target,
		max:      opts.MaxInFlight,
		onResult: opts.OnResult,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Forward queues c for delivery and returns immediately.
func (d *Dispatcher) Forward(c session.Controls) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.inflight >= d.max {
		if d.pending != nil {
			d.status.Coalesced++
		}
		d.pending = &c
		d.mu.Unlock()
		return
	}
	d.inflight++
	d.wg.Add(1)
	d.mu.Unlock()
	go d.run(c)
}

// SendNow delivers c synchronously, recording the outcome in Status.
func (d *Dispatcher) SendNow(ctx context.Context, c session.Controls) (string, error) {
	reply, err := d.sender.Send(ctx, d.target(), c)
	d.record(Result{Controls: c, Reply: reply, Err: err})
	return reply, err
}

// KeepAlive re-forwards current() every interval until ctx is done.
func (d *Dispatcher) KeepAlive(ctx context.Context, interval time.Duration, current func() session.Controls) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.ctx.Done():
			return
		case <-t.C:
			d.Forward(current())
		}
	}
}

// Status returns a copy of the relay counters.
func (d *Dispatcher) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.status
	st.Target = d.target()
	st.InFlight = d.inflight
	return st
}

// Close stops accepting snapshots, aborts outstanding requests and waits for
// the senders to exit.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.pending = nil
	d.mu.Unlock()
	d.cancel()
	d.wg.Wait()
}

// run sends c and then drains the parked snapshot, if any.
func (d *Dispatcher) run(c session.Controls) {
	defer d.wg.Done()
	for {
		reply, err := d.sender.Send(d.ctx, d.target(), c)
		d.record(Result{Controls: c, Reply: reply, Err: err})

		d.mu.Lock()
		if d.pending == nil || d.closed {
			d.inflight--
			d.mu.Unlock()
			return
		}
		c = *d.pending
		d.pending = nil
		d.mu.Unlock()
	}
}

// record updates counters, logs failures and notifies the result hook.
func (d *Dispatcher) record(res Result) {
	d.mu.Lock()
	if res.Err != nil {
		d.status.Failed++
		d.status.LastError = res.Err.Error()
	} else {
		d.status.Sent++
		d.status.LastError = ""
		d.status.LastSuccess = time.Now()
	}
	d.mu.Unlock()
	if res.Err != nil {
		log.Printf("relay: send failed: %v", res.Err)
	}
	if d.onResult != nil {
		d.onResult(res)
	}
}
