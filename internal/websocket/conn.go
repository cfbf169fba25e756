package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single outbound write.
	writeWait = 10 * time.Second
	// readWait bounds the idle time between inbound client messages. Clients
	// are expected to ping well within this window.
	readWait = 5 * time.Minute
)

// WriteTyped sends a typed event payload with a write deadline applied.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

// WriteError sends an ErrorResponse event.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// ReadJSON decodes the next inbound message, refreshing the read deadline.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	if err := conn.SetReadDeadline(time.Now().Add(readWait)); err != nil {
		return err
	}
	return conn.ReadJSON(v)
}
