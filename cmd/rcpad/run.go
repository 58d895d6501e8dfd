package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/frudas24/rcpad/internal/app"
	"github.com/frudas24/rcpad/internal/config"
	"github.com/frudas24/rcpad/internal/relay"
	"github.com/frudas24/rcpad/internal/session"
	"github.com/frudas24/rcpad/internal/settings"
	"github.com/frudas24/rcpad/internal/webrtc"
)

// run wires the application and blocks until shutdown.
func run(debug bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	webrtc.SetDebugLogging(debug)
	if debug {
		log.Printf("debug: enabled")
	}
	logStartup(cfg)

	var factory *webrtc.Factory
	if cfg.WebRTCEnabled {
		factory, err = webrtc.NewFactory()
		if err != nil {
			return err
		}
	}

	sess := session.New(settings.Defaults())
	client := relay.NewClient(time.Duration(cfg.RelayTimeoutMs) * time.Millisecond)

	appInstance, err := app.New(cfg, sess, client, factory)
	if err != nil {
		return err
	}
	if err := appInstance.Start(); err != nil {
		return err
	}
	defer func() {
		if err := appInstance.Stop(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	mux := http.NewServeMux()
	appInstance.RegisterRoutes(mux, cfg.StaticDir)
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// logFatal prints and exits for startup failures.
func logFatal(err error) {
	log.Printf("fatal: %v", err)
	os.Exit(1)
}

// logStartup prints startup checks and connection info.
func logStartup(cfg config.Config) {
	log.Printf("RCPad starting")
	logEnvStatus(cfg)
	if fileExists(cfg.SettingsPath) {
		log.Printf("settings: %s", cfg.SettingsPath)
	} else {
		log.Printf("settings: defaults (%s not found)", cfg.SettingsPath)
	}
	if cfg.WebRTCEnabled {
		log.Printf("webrtc: enabled")
	} else {
		log.Printf("webrtc: disabled")
	}
	log.Printf("controller policy: %s", cfg.ControllerPolicy)
	logListenStatus(cfg.ListenAddr)
}

// logEnvStatus reports whether a .env file was found.
func logEnvStatus(cfg config.Config) {
	envPath := filepath.Join(cfg.DataDir, ".env")
	if fileExists(envPath) {
		log.Printf("env check: ok (%s)", envPath)
	} else {
		log.Printf("env check: missing (%s)", envPath)
	}
}

// logListenStatus reports the listen address and a local URL helper.
func logListenStatus(addr string) {
	log.Printf("listen addr: %s", addr)
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	log.Printf("local url: http://%s", net.JoinHostPort(host, port))
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
