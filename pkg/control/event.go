package control

import "encoding/json"

// RunState is the control session's coarse execution phase as reported by
// the server.
type RunState string

const (
	RunStateIdle           RunState = "idle"
	RunStateRunning        RunState = "running"
	RunStateWaitingForTool RunState = "waiting_for_tool"
)

// ParseRunState maps a wire value to a RunState. Anything unrecognized is
// treated as idle so an ambiguous status never freezes the console in a
// busy state.
func ParseRunState(s string) RunState {
	switch RunState(s) {
	case RunStateRunning:
		return RunStateRunning
	case RunStateWaitingForTool:
		return RunStateWaitingForTool
	default:
		return RunStateIdle
	}
}

// Event is one decoded control-session event. The set of implementations is
// closed; everything downstream of Decode operates on this union and never
// on raw payloads.
type Event interface {
	isEvent()
}

// StatusEvent reports the session run state and queued message count. The
// server sends it on every transition and as an initial snapshot on
// subscribe.
type StatusEvent struct {
	Type     string   `json:"type"`
	State    RunState `json:"state"`
	QueueLen int      `json:"queue_len"`
}

func Status(state RunState, queueLen int) Event {
	return &StatusEvent{
		Type:     "status",
		State:    state,
		QueueLen: queueLen,
	}
}

func (e *StatusEvent) isEvent() {}

// UserMessageEvent is emitted when a queued user message starts processing.
type UserMessageEvent struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Content string `json:"content"`
}

func UserMessage(id, content string) Event {
	return &UserMessageEvent{
		Type:    "user_message",
		ID:      id,
		Content: content,
	}
}

func (e *UserMessageEvent) isEvent() {}

// AssistantMessageEvent carries one completed agent turn.
type AssistantMessageEvent struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Content   string `json:"content"`
	Success   bool   `json:"success"`
	CostCents uint64 `json:"cost_cents"`
	Model     string `json:"model,omitempty"`
}

func AssistantMessage(id, content string, success bool, costCents uint64, model string) Event {
	return &AssistantMessageEvent{
		Type:      "assistant_message",
		ID:        id,
		Content:   content,
		Success:   success,
		CostCents: costCents,
		Model:     model,
	}
}

func (e *AssistantMessageEvent) isEvent() {}

// ToolCallEvent announces an agent-issued tool invocation.
type ToolCallEvent struct {
	Type       string          `json:"type"`
	ToolCallID string          `json:"tool_call_id"`
	Name       string          `json:"name"`
	Args       json.RawMessage `json:"args"`
}

func ToolCall(toolCallID, name string, args json.RawMessage) Event {
	return &ToolCallEvent{
		Type:       "tool_call",
		ToolCallID: toolCallID,
		Name:       name,
		Args:       args,
	}
}

func (e *ToolCallEvent) isEvent() {}

// ToolResultEvent carries the outcome of an earlier tool call, matched by
// ToolCallID. Result is JSON null when the call was cancelled.
type ToolResultEvent struct {
	Type       string          `json:"type"`
	ToolCallID string          `json:"tool_call_id"`
	Name       string          `json:"name"`
	Result     json.RawMessage `json:"result"`
}

func ToolResult(toolCallID, name string, result json.RawMessage) Event {
	return &ToolResultEvent{
		Type:       "tool_result",
		ToolCallID: toolCallID,
		Name:       name,
		Result:     result,
	}
}

func (e *ToolResultEvent) isEvent() {}

// ErrorEvent surfaces a server-side failure as a message for the operator.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func Error(msg string) Event {
	return &ErrorEvent{
		Type:    "error",
		Message: msg,
	}
}

func (e *ErrorEvent) isEvent() {}
