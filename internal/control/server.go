package control

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/frudas24/rcpad/internal/joystick"
	"github.com/frudas24/rcpad/internal/layout"
	"github.com/frudas24/rcpad/internal/session"
	"github.com/frudas24/rcpad/internal/settings"
	"github.com/gorilla/websocket"
)

// Default pulse lengths for momentary switches.
const (
	DefaultHornPulse = 500 * time.Millisecond
	DefaultFlipPulse = 100 * time.Millisecond
)

// Policy decides what happens when a second controller connects.
type Policy string

const (
	// PolicyReplace closes the current controller and accepts the new one.
	PolicyReplace Policy = "replace"
	// PolicyReject refuses the new controller.
	PolicyReject Policy = "reject"
)

var (
	// ErrBusy reports that another controller is attached.
	ErrBusy = errors.New("control: controller already attached")
	// ErrNotAttached reports a message from a connection that is not the active controller.
	ErrNotAttached = errors.New("control: connection is not the active controller")
)

// Conn is a controller transport: a websocket or a WebRTC data channel.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Options configures a Server.
type Options struct {
	BaseDiameter float64
	KnobRatio    float64
	HornPulse    time.Duration
	FlipPulse    time.Duration
	Policy       Policy
	// OnControls receives every changed snapshot. It runs with the server
	// lock held and must not call back into the Server.
	OnControls func(session.Controls)
}

// Server owns the joystick engine and serializes every controller event.
type Server struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	session  *session.Session
	layout   *layout.Table
	tracker  *joystick.Tracker
	policy   Policy
	pulses   map[session.Switch]time.Duration
	timers   map[session.Switch]*time.Timer
	notify   func(session.Controls)

	conn     Conn
	lastKnob map[string]Knob
}

// NewServer builds the rotation and movement joysticks over a fresh layout table.
func NewServer(sess *session.Session, opts Options) (*Server, error) {
	if opts.HornPulse <= 0 {
		opts.HornPulse = DefaultHornPulse
	}
	if opts.FlipPulse <= 0 {
		opts.FlipPulse = DefaultFlipPulse
	}
	if opts.Policy != PolicyReject {
		opts.Policy = PolicyReplace
	}
	s := &Server{
		session: sess,
		layout:  layout.NewTable(),
		tracker: joystick.NewTracker(),
		policy:  opts.Policy,
		pulses: map[session.Switch]time.Duration{
			session.SwitchHorn: opts.HornPulse,
			session.SwitchFlip: opts.FlipPulse,
		},
		timers:   make(map[session.Switch]*time.Timer),
		notify:   opts.OnControls,
		lastKnob: make(map[string]Knob),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	widgets := []struct {
		cfg   joystick.Config
		apply func(joystick.Signal) session.Controls
	}{
		{
			cfg:   joystick.Config{ID: WidgetRotation, Horizontal: true},
			apply: func(sig joystick.Signal) session.Controls { return sess.SetRotation(sig.X) },
		},
		{
			cfg:   joystick.Config{ID: WidgetMovement, Vertical: true},
			apply: func(sig joystick.Signal) session.Controls { return sess.SetMovement(sig.Y) },
		},
	}
	for _, def := range widgets {
		def.cfg.BaseDiameter = opts.BaseDiameter
		def.cfg.KnobRatio = opts.KnobRatio
		apply := def.apply
		w, err := joystick.NewWidget(def.cfg, s.layout.Slot(def.cfg.ID), func(sig joystick.Signal) {
			s.changed(apply(sig))
		})
		if err != nil {
			return nil, fmt.Errorf("widget %s: %w", def.cfg.ID, err)
		}
		if err := s.tracker.Add(w); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Attach makes conn the active controller according to the policy.
func (s *Server) Attach(conn Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil && s.conn != conn {
		if s.policy == PolicyReject {
			return ErrBusy
		}
		old := s.conn
		s.conn = nil
		s.releaseAllLocked()
		_ = old.Close()
		log.Printf("control: replaced active controller")
	}
	s.conn = conn
	s.lastKnob = make(map[string]Knob)
	for _, w := range s.tracker.Widgets() {
		s.lastKnob[w.ID()] = knobOf(w)
	}
	hello := Hello{T: MsgHello, Widgets: s.widgetsLocked()}
	if err := conn.WriteJSON(hello); err != nil {
		log.Printf("control: hello failed: %v", err)
	}
	return nil
}

// Detach drops conn if it is the active controller and centers both
// joysticks so the actuator receives a stop snapshot.
func (s *Server) Detach(conn Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != conn || conn == nil {
		return
	}
	s.conn = nil
	s.releaseAllLocked()
	s.layout.Reset()
}

// Attached reports whether a controller is connected.
func (s *Server) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Dispatch applies one message from conn.
func (s *Server) Dispatch(conn Conn, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil || s.conn != conn {
		return ErrNotAttached
	}
	err := s.handleMessage(msg)
	s.syncKnobsLocked()
	return err
}

// handleMessage dispatches a single controller message.
func (s *Server) handleMessage(msg Message) error {
	switch msg.T {
	case MsgLayout:
		return s.handleLayout(msg)
	case MsgDown, MsgMove, MsgUp, MsgCancel:
		return s.handlePointer(msg)
	case MsgSwitch:
		sw, ok := session.ParseSwitch(msg.Name)
		if !ok {
			return fmt.Errorf("unknown switch %q", msg.Name)
		}
		s.stopPulse(sw)
		s.changed(s.session.SetSwitch(sw, msg.On != nil && *msg.On))
		return nil
	case MsgPulse:
		return s.handlePulse(msg.Name)
	case MsgSpeed:
		if msg.Value == nil {
			return fmt.Errorf("speed without value")
		}
		s.changed(s.session.SetSpeed(*msg.Value))
		return nil
	default:
		return nil
	}
}

// handleLayout records a widget's live bounds and resizes its base.
func (s *Server) handleLayout(msg Message) error {
	w, ok := s.tracker.Widget(msg.Widget)
	if !ok {
		return fmt.Errorf("unknown widget %q", msg.Widget)
	}
	if msg.Rect == nil {
		s.layout.Remove(msg.Widget)
		return nil
	}
	r := layout.Normalize(*msg.Rect)
	if r.Empty() {
		s.layout.Remove(msg.Widget)
		return nil
	}
	s.layout.Set(msg.Widget, r)
	return w.SetBaseDiameter(math.Min(r.W, r.H))
}

// handlePointer feeds raw input to the tracker.
func (s *Server) handlePointer(msg Message) error {
	kind, ok := joystick.ParseSourceKind(msg.Src)
	if !ok {
		return fmt.Errorf("unknown source %q", msg.Src)
	}
	src := joystick.Source{Kind: kind, ID: msg.ID}
	p := layout.Point{X: msg.X, Y: msg.Y}
	switch msg.T {
	case MsgDown:
		if msg.Widget != "" {
			s.tracker.PressStart(msg.Widget, src, p)
			return nil
		}
		s.tracker.Press(src, p)
	case MsgMove:
		s.tracker.Move(src, p)
	case MsgUp:
		s.tracker.Release(src)
	case MsgCancel:
		s.tracker.Cancel(src)
	}
	return nil
}

// handlePulse turns a momentary switch on and schedules it off.
func (s *Server) handlePulse(name string) error {
	sw, ok := session.ParseSwitch(name)
	if !ok {
		return fmt.Errorf("unknown switch %q", name)
	}
	d, ok := s.pulses[sw]
	if !ok {
		return fmt.Errorf("switch %q has no pulse", name)
	}
	s.stopPulse(sw)
	s.changed(s.session.SetSwitch(sw, true))
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.timers[sw] != t {
			return
		}
		delete(s.timers, sw)
		s.changed(s.session.SetSwitch(sw, false))
	})
	s.timers[sw] = t
	return nil
}

// stopPulse cancels a pending pulse end for sw.
func (s *Server) stopPulse(sw session.Switch) {
	if t, ok := s.timers[sw]; ok {
		t.Stop()
		delete(s.timers, sw)
	}
}

// ApplySettings re-derives every widget signal through the new response stage.
func (s *Server) ApplySettings(st settings.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := st.Response()
	for _, w := range s.tracker.Widgets() {
		w.SetResponse(r)
	}
	s.syncKnobsLocked()
}

// Widgets returns a snapshot of every joystick.
func (s *Server) Widgets() []WidgetState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.widgetsLocked()
}

// Close stops pending pulses and closes the active controller.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sw, t := range s.timers {
		t.Stop()
		delete(s.timers, sw)
	}
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.tracker.ReleaseAll()
}

// releaseAllLocked ends every binding.
func (s *Server) releaseAllLocked() {
	if released := s.tracker.ReleaseAll(); len(released) > 0 {
		log.Printf("control: released %d joystick(s)", len(released))
	}
}

// widgetsLocked snapshots every widget in registration order.
func (s *Server) widgetsLocked() []WidgetState {
	ws := s.tracker.Widgets()
	out := make([]WidgetState, 0, len(ws))
	for _, w := range ws {
		out = append(out, stateOf(w))
	}
	return out
}

// syncKnobsLocked sends knob feedback for every widget whose knob moved.
func (s *Server) syncKnobsLocked() {
	if s.conn == nil {
		return
	}
	for _, w := range s.tracker.Widgets() {
		k := knobOf(w)
		if prev, ok := s.lastKnob[k.Widget]; ok && prev == k {
			continue
		}
		s.lastKnob[k.Widget] = k
		if err := s.conn.WriteJSON(k); err != nil {
			log.Printf("control: knob write failed: %v", err)
			return
		}
	}
}

// changed forwards a new snapshot to the consumer.
func (s *Server) changed(c session.Controls) {
	if s.notify != nil {
		s.notify(c)
	}
}
