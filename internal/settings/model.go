// Package settings holds the persisted controller settings.
package settings

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/frudas24/rcpad/internal/joystick"
)

const (
	defaultDeviceName  = "RC-Car-2023"
	defaultSensitivity = 75
	defaultDeadzone    = 10
	defaultIPAddress   = "192.168.4.1"
	defaultPort        = "80"

	// MaxDeadzone is the largest accepted deadzone percentage.
	MaxDeadzone = 30
)

// Settings is the controller configuration edited from the settings panel.
type Settings struct {
	DeviceName     string `yaml:"device_name" json:"deviceName"`
	InvertControls bool   `yaml:"invert_controls" json:"invertControls"`
	Sensitivity    int    `yaml:"sensitivity" json:"sensitivity"`
	Deadzone       int    `yaml:"deadzone" json:"deadzone"`
	Vibration      bool   `yaml:"vibration" json:"vibration"`
	IPAddress      string `yaml:"ip_address" json:"ipAddress"`
	Port           string `yaml:"port" json:"port"`
}

// Defaults returns the factory settings.
func Defaults() Settings {
	return Settings{
		DeviceName:  defaultDeviceName,
		Sensitivity: defaultSensitivity,
		Deadzone:    defaultDeadzone,
		Vibration:   true,
		IPAddress:   defaultIPAddress,
		Port:        defaultPort,
	}
}

// WithDefaults fills empty text fields with factory values.
func (s Settings) WithDefaults() Settings {
	d := Defaults()
	s.DeviceName = strings.TrimSpace(s.DeviceName)
	s.IPAddress = strings.TrimSpace(s.IPAddress)
	s.Port = strings.TrimSpace(s.Port)
	if s.DeviceName == "" {
		s.DeviceName = d.DeviceName
	}
	if s.IPAddress == "" {
		s.IPAddress = d.IPAddress
	}
	if s.Port == "" {
		s.Port = d.Port
	}
	return s
}

// Validate reports the first out-of-range field.
func (s Settings) Validate() error {
	if s.Sensitivity < 0 || s.Sensitivity > 100 {
		return fmt.Errorf("sensitivity must be 0-100")
	}
	if s.Deadzone < 0 || s.Deadzone > MaxDeadzone {
		return fmt.Errorf("deadzone must be 0-%d", MaxDeadzone)
	}
	if strings.ContainsAny(s.IPAddress, "/?# ") {
		return fmt.Errorf("ipAddress must be a host name or address")
	}
	port, err := strconv.Atoi(s.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("port must be 1-65535")
	}
	return nil
}

// Target returns the actuator controls URL.
func (s Settings) Target() string {
	s = s.WithDefaults()
	return "http://" + net.JoinHostPort(s.IPAddress, s.Port) + "/controls"
}

// Response maps the panel values onto the joystick response stage. Full
// sensitivity is linear; lower values soften small deflections.
func (s Settings) Response() joystick.Response {
	return joystick.Response{
		Deadzone: float64(s.Deadzone) / 100,
		Expo:     float64(100-s.Sensitivity) / 100,
		InvertY:  s.InvertControls,
	}
}
