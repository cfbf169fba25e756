package websocket

import "encoding/json"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError        Event = "error"
	EventPong         Event = "pong"
	EventGradebookRow Event = "gradebook_row"
)

// GradebookRowEvent carries one refreshed gradebook row to live watchers
// after a score write. The payload is the row exactly as published on the
// section channel.
type GradebookRowEvent struct {
	Event Event           `json:"event"`
	Row   json.RawMessage `json:"row"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
