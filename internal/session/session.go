// Package session holds the aggregate control state relayed to the actuator.
package session

import (
	"sync"

	"github.com/frudas24/rcpad/internal/settings"
)

// DefaultSpeed is the speed a fresh session starts with.
const DefaultSpeed = 50

// Switch names an auxiliary on/off control.
type Switch string

const (
	// SwitchLights toggles the headlights.
	SwitchLights Switch = "lights"
	// SwitchHorn sounds the horn.
	SwitchHorn Switch = "horn"
	// SwitchFlip triggers the flip action.
	SwitchFlip Switch = "flip"
	// SwitchTurbo enables turbo mode.
	SwitchTurbo Switch = "turbo"
)

// ParseSwitch maps a wire name to a known switch.
func ParseSwitch(name string) (Switch, bool) {
	switch Switch(name) {
	case SwitchLights, SwitchHorn, SwitchFlip, SwitchTurbo:
		return Switch(name), true
	default:
		return "", false
	}
}

// Controls is the snapshot sent to the actuator.
type Controls struct {
	Rotation int  `json:"rotation"`
	Movement int  `json:"movement"`
	Speed    int  `json:"speed"`
	Lights   bool `json:"lights"`
	Horn     bool `json:"horn"`
	Flip     bool `json:"flip"`
	Turbo    bool `json:"turbo"`
}

// Session holds runtime state shared by the transports.
type Session struct {
	mu       sync.RWMutex
	controls Controls
	settings settings.Settings
}

// New returns a session with neutral controls and the given settings.
func New(s settings.Settings) *Session {
	return &Session{
		controls: Controls{Speed: DefaultSpeed},
		settings: s,
	}
}

// SetRotation stores the rotation axis.
func (s *Session) SetRotation(v int) Controls {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controls.Rotation = clampAxis(v)
	return s.controls
}

// SetMovement stores the movement axis.
func (s *Session) SetMovement(v int) Controls {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controls.Movement = clampAxis(v)
	return s.controls
}

// SetSpeed stores the speed, clamped to 0..100.
func (s *Session) SetSpeed(v int) Controls {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controls.Speed = clamp(v, 0, 100)
	return s.controls
}

// SetSwitch stores one auxiliary switch. Unknown switches leave state unchanged.
func (s *Session) SetSwitch(sw Switch, on bool) Controls {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch sw {
	case SwitchLights:
		s.controls.Lights = on
	case SwitchHorn:
		s.controls.Horn = on
	case SwitchFlip:
		s.controls.Flip = on
	case SwitchTurbo:
		s.controls.Turbo = on
	}
	return s.controls
}

// SetControls replaces the whole snapshot after clamping.
func (s *Session) SetControls(c Controls) Controls {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Rotation = clampAxis(c.Rotation)
	c.Movement = clampAxis(c.Movement)
	c.Speed = clamp(c.Speed, 0, 100)
	s.controls = c
	return s.controls
}

// Controls returns the current snapshot.
func (s *Session) Controls() Controls {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.controls
}

// SetSettings stores the active settings.
func (s *Session) SetSettings(v settings.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = v
}

// Settings returns the active settings.
func (s *Session) Settings() settings.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Target returns the actuator URL derived from the active settings.
func (s *Session) Target() string {
	return s.Settings().Target()
}

func clampAxis(v int) int {
	return clamp(v, -100, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
