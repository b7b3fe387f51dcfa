// Package api contains the wire types for the control-session endpoints.
package api

import "encoding/json"

// ControlMessageRequest enqueues a user message for the global control session.
type ControlMessageRequest struct {
	Content string `json:"content"`
}

// ControlMessageResponse acknowledges an enqueued message.
type ControlMessageResponse struct {
	ID     string `json:"id"`
	Queued bool   `json:"queued"`
}

// ControlToolResultRequest submits the outcome of an interactive tool call.
// Result is JSON null when the operator cancelled instead of selecting.
type ControlToolResultRequest struct {
	ToolCallID string          `json:"tool_call_id"`
	Name       string          `json:"name"`
	Result     json.RawMessage `json:"result"`
}

// ControlStatus is the session's coarse execution phase as reported by the
// server, plus the number of user messages still queued server-side.
type ControlStatus struct {
	State    string `json:"state"`
	QueueLen int    `json:"queue_len"`
}

// OKResponse is the generic `{"ok": true}` acknowledgement.
type OKResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse represents an error response from the API.
type ErrorResponse struct {
	Error string `json:"error"`
}
