// Package config loads environment configuration for RCPad.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	defaultListenAddr       = "0.0.0.0:8080"
	defaultDataDir          = "./data"
	defaultJoystickSize     = 150
	defaultKnobRatio        = 0.4
	defaultRelayTimeoutMs   = 3000
	defaultRelayMaxInFlight = 1
	defaultRelayKeepAliveMs = 0
	defaultHornPulseMs      = 500
	defaultFlipPulseMs      = 100
	defaultControllerPolicy = "replace"
	defaultWebRTCEnabled    = true
	defaultEventsIntervalMs = 50
)

// Config holds runtime configuration values.
type Config struct {
	ListenAddr       string
	DataDir          string
	SettingsPath     string
	StaticDir        string
	JoystickSize     float64
	KnobRatio        float64
	RelayTimeoutMs   int
	RelayMaxInFlight int
	RelayKeepAliveMs int
	HornPulseMs      int
	FlipPulseMs      int
	ControllerPolicy string
	WebRTCEnabled    bool
	EventsIntervalMs int
}

// Load reads configuration from $DATA_DIR/.env and environment variables.
// Variables already present in the environment win over the file.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:       defaultListenAddr,
		DataDir:          envString("DATA_DIR", defaultDataDir),
		JoystickSize:     defaultJoystickSize,
		KnobRatio:        defaultKnobRatio,
		RelayTimeoutMs:   defaultRelayTimeoutMs,
		RelayMaxInFlight: defaultRelayMaxInFlight,
		RelayKeepAliveMs: defaultRelayKeepAliveMs,
		HornPulseMs:      defaultHornPulseMs,
		FlipPulseMs:      defaultFlipPulseMs,
		ControllerPolicy: defaultControllerPolicy,
		WebRTCEnabled:    defaultWebRTCEnabled,
		EventsIntervalMs: defaultEventsIntervalMs,
	}

	if err := loadEnvFile(filepath.Join(cfg.DataDir, ".env")); err != nil {
		return Config{}, err
	}

	cfg.ListenAddr = envString("LISTEN_ADDR", cfg.ListenAddr)
	cfg.SettingsPath = envString("SETTINGS_PATH", filepath.Join(cfg.DataDir, "settings.yaml"))
	cfg.StaticDir = envString("STATIC_DIR", "")
	cfg.WebRTCEnabled = envBool("WEBRTC_ENABLED", cfg.WebRTCEnabled)

	policy := strings.ToLower(envString("CONTROLLER_POLICY", cfg.ControllerPolicy))
	if policy != "replace" && policy != "reject" {
		return Config{}, fmt.Errorf("CONTROLLER_POLICY must be replace or reject")
	}
	cfg.ControllerPolicy = policy

	size, err := envFloat("JOYSTICK_SIZE", cfg.JoystickSize)
	if err != nil {
		return Config{}, err
	}
	if size <= 0 {
		return Config{}, fmt.Errorf("JOYSTICK_SIZE must be > 0")
	}
	cfg.JoystickSize = size

	ratio, err := envFloat("KNOB_RATIO", cfg.KnobRatio)
	if err != nil {
		return Config{}, err
	}
	if ratio <= 0 || ratio >= 1 {
		return Config{}, fmt.Errorf("KNOB_RATIO must be between 0 and 1")
	}
	cfg.KnobRatio = ratio

	timeout, err := envInt("RELAY_TIMEOUT_MS", cfg.RelayTimeoutMs)
	if err != nil {
		return Config{}, err
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("RELAY_TIMEOUT_MS must be > 0")
	}
	cfg.RelayTimeoutMs = timeout

	inflight, err := envInt("RELAY_MAX_INFLIGHT", cfg.RelayMaxInFlight)
	if err != nil {
		return Config{}, err
	}
	if inflight <= 0 {
		return Config{}, fmt.Errorf("RELAY_MAX_INFLIGHT must be > 0")
	}
	cfg.RelayMaxInFlight = inflight

	keepAlive, err := envInt("RELAY_KEEPALIVE_MS", cfg.RelayKeepAliveMs)
	if err != nil {
		return Config{}, err
	}
	if keepAlive < 0 {
		return Config{}, fmt.Errorf("RELAY_KEEPALIVE_MS must be >= 0")
	}
	cfg.RelayKeepAliveMs = keepAlive

	horn, err := envInt("HORN_PULSE_MS", cfg.HornPulseMs)
	if err != nil {
		return Config{}, err
	}
	if horn <= 0 {
		return Config{}, fmt.Errorf("HORN_PULSE_MS must be > 0")
	}
	cfg.HornPulseMs = horn

	flip, err := envInt("FLIP_PULSE_MS", cfg.FlipPulseMs)
	if err != nil {
		return Config{}, err
	}
	if flip <= 0 {
		return Config{}, fmt.Errorf("FLIP_PULSE_MS must be > 0")
	}
	cfg.FlipPulseMs = flip

	events, err := envInt("EVENTS_INTERVAL_MS", cfg.EventsIntervalMs)
	if err != nil {
		return Config{}, err
	}
	if events < 0 {
		return Config{}, fmt.Errorf("EVENTS_INTERVAL_MS must be >= 0")
	}
	cfg.EventsIntervalMs = events

	return cfg, nil
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// envFloat returns a float env override when present, otherwise a default.
func envFloat(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return value, nil
}

// envBool returns a bool env override when present, otherwise a default.
func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// loadEnvFile loads KEY=VALUE pairs from a .env file.
func loadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// parseEnvLine parses a single .env line into key/value.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	if strings.HasPrefix(line, "export ") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	}
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	value = strings.Trim(strings.TrimSpace(value), `"'`)
	return key, value, true
}
