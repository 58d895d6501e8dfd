package webrtc

import (
	"sync/atomic"

	"github.com/pion/logging"
)

// debugPeer controls whether verbose data channel and pion logs are emitted.
var debugPeer atomic.Bool

// SetDebugLogging enables/disables verbose WebRTC debug logs.
func SetDebugLogging(enabled bool) {
	debugPeer.Store(enabled)
}

// DebugEnabled reports whether WebRTC debug logs are enabled.
func DebugEnabled() bool {
	return debugPeer.Load()
}

// newLoggerFactory routes pion's internal logs at a level matching the debug flag.
func newLoggerFactory() *logging.DefaultLoggerFactory {
	f := logging.NewDefaultLoggerFactory()
	if DebugEnabled() {
		f.DefaultLogLevel = logging.LogLevelDebug
	} else {
		f.DefaultLogLevel = logging.LogLevelWarn
	}
	return f
}
