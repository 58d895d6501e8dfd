// Package app wires HTTP, controller transports, and the actuator relay together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/frudas24/rcpad/internal/config"
	"github.com/frudas24/rcpad/internal/control"
	"github.com/frudas24/rcpad/internal/events"
	"github.com/frudas24/rcpad/internal/relay"
	"github.com/frudas24/rcpad/internal/session"
	"github.com/frudas24/rcpad/internal/settings"
	"github.com/frudas24/rcpad/internal/signaling"
	"github.com/frudas24/rcpad/internal/webrtc"
)

const stopTimeout = time.Second

// App coordinates the HTTP API, controller transports, and relay.
type App struct {
	mu        sync.Mutex
	cfg       config.Config
	session   *session.Session
	relay     *relay.Dispatcher
	events    *events.Stream
	control   *control.Server
	factory   *webrtc.Factory
	signaling *signaling.Server

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// eventPayload is one /api/events update.
type eventPayload struct {
	Controls session.Controls `json:"controls"`
	Relay    relay.Status     `json:"relay"`
}

// New creates the application. A nil factory disables the WebRTC transport.
func New(cfg config.Config, sess *session.Session, sender relay.Sender, factory *webrtc.Factory) (*App, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	if sender == nil {
		return nil, errors.New("relay sender is required")
	}

	a := &App{
		cfg:     cfg,
		session: sess,
		factory: factory,
		events:  events.NewStream(time.Duration(cfg.EventsIntervalMs) * time.Millisecond),
	}
	a.relay = relay.NewDispatcher(sender, sess.Target, relay.Options{
		MaxInFlight: cfg.RelayMaxInFlight,
		OnResult:    func(relay.Result) { a.publishState() },
	})

	ctrl, err := control.NewServer(sess, control.Options{
		BaseDiameter: cfg.JoystickSize,
		KnobRatio:    cfg.KnobRatio,
		HornPulse:    time.Duration(cfg.HornPulseMs) * time.Millisecond,
		FlipPulse:    time.Duration(cfg.FlipPulseMs) * time.Millisecond,
		Policy:       control.Policy(cfg.ControllerPolicy),
		OnControls:   a.forward,
	})
	if err != nil {
		return nil, fmt.Errorf("control: %w", err)
	}
	a.control = ctrl

	if factory != nil {
		policy := signaling.ViewerReplace
		if cfg.ControllerPolicy == string(control.PolicyReject) {
			policy = signaling.ViewerReject
		}
		a.signaling = signaling.NewServer(factory, ctrl, policy)
	}
	return a, nil
}

// Start loads persisted settings and starts background work.
func (a *App) Start() error {
	st, err := settings.Load(a.cfg.SettingsPath)
	if err != nil {
		return err
	}
	a.session.SetSettings(st)
	a.control.ApplySettings(st)

	ctx, cancel := context.WithCancel(context.Background())
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()

	if a.cfg.RelayKeepAliveMs > 0 {
		every := time.Duration(a.cfg.RelayKeepAliveMs) * time.Millisecond
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.relay.KeepAlive(ctx, every, a.session.Controls)
		}()
	}
	a.publishState()
	log.Printf("relay target: %s", st.Target())
	return nil
}

// Stop centers the joysticks, sends a final stop snapshot and shuts down.
func (a *App) Stop() error {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	a.wg.Wait()

	a.control.Close()
	ctx, done := context.WithTimeout(context.Background(), stopTimeout)
	defer done()
	_, err := a.relay.SendNow(ctx, a.session.Controls())
	a.relay.Close()
	if a.factory != nil {
		a.factory.ClosePeer()
	}
	if err != nil {
		return fmt.Errorf("final stop snapshot: %w", err)
	}
	return nil
}

// UpdateSettings validates, persists and applies new settings.
func (a *App) UpdateSettings(st settings.Settings) (settings.Settings, error) {
	st = st.WithDefaults()
	if err := st.Validate(); err != nil {
		return settings.Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if err := settings.Save(a.cfg.SettingsPath, st); err != nil {
		return settings.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	a.session.SetSettings(st)
	a.control.ApplySettings(st)
	a.publishState()
	return st, nil
}

// ErrInvalidSettings wraps settings validation failures.
var ErrInvalidSettings = errors.New("invalid settings")

// forward relays a changed snapshot and publishes it. It runs under the
// control server lock.
func (a *App) forward(c session.Controls) {
	a.relay.Forward(c)
	a.publishState()
}

// publishState pushes controls and relay status to event subscribers.
func (a *App) publishState() {
	payload := eventPayload{Controls: a.session.Controls(), Relay: a.relay.Status()}
	if err := a.events.PublishJSON(payload); err != nil {
		log.Printf("events: %v", err)
	}
}

// Signaling returns the signaling websocket handler, nil when disabled.
func (a *App) Signaling() *signaling.Server {
	return a.signaling
}

// Control returns the control websocket handler.
func (a *App) Control() *control.Server {
	return a.control
}

// Events returns the state event stream.
func (a *App) Events() *events.Stream {
	return a.events
}
