package app

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/frudas24/rcpad/internal/control"
	"github.com/frudas24/rcpad/internal/relay"
	"github.com/frudas24/rcpad/internal/session"
	"github.com/frudas24/rcpad/internal/settings"
	"github.com/frudas24/rcpad/internal/web"
)

const maxBodyBytes = 16 << 10

// RegisterRoutes wires API and static handlers onto the mux.
func (a *App) RegisterRoutes(mux *http.ServeMux, staticDir string) {
	mux.HandleFunc("/api/state", a.handleState)
	mux.HandleFunc("/api/settings", a.handleSettings)
	mux.HandleFunc("/api/controls", a.handleControls)
	mux.HandleFunc("/api/events", a.events.Handler)
	mux.Handle("/ws/control", a.Control())
	if sig := a.Signaling(); sig != nil {
		mux.Handle("/ws/signal", sig)
	}
	mux.HandleFunc("/favicon.ico", handleFavicon)

	mux.Handle("/", staticFileServer(staticDir))
}

type stateResponse struct {
	Controls   session.Controls      `json:"controls"`
	Settings   settings.Settings     `json:"settings"`
	Relay      relay.Status          `json:"relay"`
	Controller bool                  `json:"controller"`
	WebRTC     bool                  `json:"webrtc"`
	Widgets    []control.WidgetState `json:"widgets"`
}

type controlsResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	DeviceResponse string `json:"deviceResponse,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
	Error          string `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleState returns controls, settings, relay status and joystick state.
func (a *App) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{
		Controls:   a.session.Controls(),
		Settings:   a.session.Settings(),
		Relay:      a.relay.Status(),
		Controller: a.control.Attached(),
		WebRTC:     a.signaling != nil,
		Widgets:    a.control.Widgets(),
	})
}

// handleSettings reads or replaces the controller settings. Fields missing
// from a POST keep their current values.
func (a *App) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, a.session.Settings())
	case http.MethodPost:
		st := a.session.Settings()
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&st); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request"})
			return
		}
		saved, err := a.UpdateSettings(st)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrInvalidSettings) {
				status = http.StatusBadRequest
			}
			writeJSON(w, status, errorResponse{Error: err.Error()})
			return
		}
		log.Printf("settings: updated, relay target %s", saved.Target())
		writeJSON(w, http.StatusOK, saved)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleControls relays a full snapshot synchronously and reports the device reply.
func (a *App) handleControls(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var c session.Controls
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, controlsResponse{Message: "Invalid controls payload", Error: err.Error()})
		return
	}
	c = a.session.SetControls(c)
	a.publishState()

	reply, err := a.relay.SendNow(r.Context(), c)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, controlsResponse{
			Message: "Failed to send controls to device",
			Error:   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, controlsResponse{
		Success:        true,
		Message:        "Controls sent to device successfully",
		DeviceResponse: reply,
		Timestamp:      time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// staticFileServer returns a handler for static assets, preferring disk then embed.
func staticFileServer(staticDir string) http.Handler {
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			return http.FileServer(http.Dir(staticDir))
		}
		log.Printf("static dir %s unavailable, serving embedded assets", staticDir)
	}

	embedded, err := web.StaticFS()
	if err != nil {
		log.Printf("static assets unavailable: %v", err)
		return http.NotFoundHandler()
	}
	return http.FileServer(http.FS(embedded))
}

// handleFavicon avoids noisy 404s for the default browser request.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
