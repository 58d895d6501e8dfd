package webrtc

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/pion/webrtc/v3"
)

// DataConn adapts a data channel to a JSON message connection.
type DataConn struct {
	writeMu sync.Mutex
	dc      *webrtc.DataChannel
}

// NewDataConn wraps dc.
func NewDataConn(dc *webrtc.DataChannel) *DataConn {
	return &DataConn{dc: dc}
}

// WriteJSON sends v as one text message.
func (c *DataConn) WriteJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if DebugEnabled() {
		log.Printf("webrtc: send %s", data)
	}
	return c.dc.SendText(string(data))
}

// Close closes the data channel.
func (c *DataConn) Close() error {
	return c.dc.Close()
}

// Label returns the channel label.
func (c *DataConn) Label() string {
	return c.dc.Label()
}
