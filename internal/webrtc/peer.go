// Package webrtc provides peer connections carrying the control data channel.
package webrtc

import (
	"fmt"
	"sync"

	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v3"
)

// ControlLabel is the data channel label used by the controller page.
const ControlLabel = "control"

// Factory creates peer connections. At most one peer is live at a time.
type Factory struct {
	mu   sync.Mutex
	api  *webrtc.API
	peer *webrtc.PeerConnection
}

// NewFactory initializes the WebRTC API with default codecs, interceptors and
// a pion logger factory.
func NewFactory() (*Factory, error) {
	media := &webrtc.MediaEngine{}
	if err := media.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	interceptors := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(media, interceptors); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}

	settings := webrtc.SettingEngine{LoggerFactory: newLoggerFactory()}

	api := webrtc.NewAPI(
		webrtc.WithMediaEngine(media),
		webrtc.WithInterceptorRegistry(interceptors),
		webrtc.WithSettingEngine(settings),
	)
	return &Factory{api: api}, nil
}

// NewPeer closes any previous peer and creates a new one.
func (f *Factory) NewPeer() (*webrtc.PeerConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.peer != nil {
		_ = f.peer.Close()
		f.peer = nil
	}
	peer, err := f.api.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return nil, err
	}
	f.peer = peer
	return peer, nil
}

// ClosePeer closes the current peer connection.
func (f *Factory) ClosePeer() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.peer != nil {
		_ = f.peer.Close()
		f.peer = nil
	}
}

// API exposes the configured API, e.g. for building client peers in tests.
func (f *Factory) API() *webrtc.API {
	return f.api
}
