package control

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 2 * time.Second

// wsConn adapts a websocket to Conn with serialized writes.
type wsConn struct {
	writeMu sync.Mutex
	conn    *websocket.Conn
}

// WriteJSON writes one JSON message with a deadline.
func (c *wsConn) WriteJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// Close closes the websocket.
func (c *wsConn) Close() error {
	return c.conn.Close()
}

// ServeHTTP upgrades the connection and processes controller messages.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn := &wsConn{conn: ws}
	if err := s.Attach(conn); err != nil {
		log.Printf("control: rejected %s: %v", r.RemoteAddr, err)
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "controller already attached")
		_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		_ = ws.Close()
		return
	}
	log.Printf("control: controller attached from %s", r.RemoteAddr)
	defer func() {
		s.Detach(conn)
		_ = conn.Close()
		log.Printf("control: controller detached from %s", r.RemoteAddr)
	}()

	for {
		var msg Message
		if err := ws.ReadJSON(&msg); err != nil {
			return
		}
		if err := s.Dispatch(conn, msg); err != nil {
			if errors.Is(err, ErrNotAttached) {
				return
			}
			log.Printf("control: %s: %v", msg.T, err)
		}
	}
}
