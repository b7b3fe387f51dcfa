package console

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/missionctl/missionctl/pkg/control"
	"github.com/missionctl/missionctl/pkg/uitool"
)

// Session is the console's view of the one global control session: the
// conversation log plus the run-state tracker. Apply is the single entry
// point for decoded events and enforces the display policy — internal tool
// traffic stays out of the log, results that match nothing are dropped.
//
// Session is not safe for concurrent use; the TUI applies events on its own
// update loop.
type Session struct {
	log      Log
	state    control.RunState
	queueLen int
}

// NewSession returns an empty session in the idle state.
func NewSession() *Session {
	return &Session{state: control.RunStateIdle}
}

// Apply folds one decoded event into the session. It reports whether the
// visible state changed, so callers know when to re-render.
func (s *Session) Apply(event control.Event) bool {
	switch e := event.(type) {
	case *control.StatusEvent:
		s.state = e.State
		s.queueLen = e.QueueLen
		return true

	case *control.UserMessageEvent:
		s.log.Append(&UserMessage{ID: orLocalID(e.ID), Content: e.Content})
		return true

	case *control.AssistantMessageEvent:
		s.log.Append(&AssistantMessage{
			ID:        orLocalID(e.ID),
			Content:   e.Content,
			Success:   e.Success,
			CostCents: e.CostCents,
			Model:     e.Model,
		})
		return true

	case *control.ToolCallEvent:
		if !uitool.IsUITool(e.Name) {
			slog.Debug("Ignoring internal tool call", "name", e.Name)
			return false
		}
		s.log.Append(&ToolInvocation{
			ID:         uuid.NewString(),
			ToolCallID: e.ToolCallID,
			Name:       e.Name,
			Args:       e.Args,
		})
		return true

	case *control.ToolResultEvent:
		if s.log.Correlate(e.ToolCallID, e.Result) {
			return true
		}
		slog.Debug("Dropping result with no matching call", "tool_call_id", e.ToolCallID, "name", e.Name)
		return false

	case *control.ErrorEvent:
		s.Notify(e.Message)
		return true
	}
	return false
}

// Notify appends a console-generated notice to the log.
func (s *Session) Notify(content string) {
	s.log.Append(&SystemNotice{ID: uuid.NewString(), Content: content})
}

// CorrelateLocal attaches a result produced by the operator themselves,
// ahead of the server echoing it back. The echo is then a no-op because
// correlation keeps the first answer.
func (s *Session) CorrelateLocal(toolCallID string, result json.RawMessage) bool {
	return s.log.Correlate(toolCallID, result)
}

// PendingInvocation returns the oldest unanswered interactive tool call, or
// nil when none is pending.
func (s *Session) PendingInvocation() *ToolInvocation {
	for _, item := range s.log.Items() {
		inv, ok := item.(*ToolInvocation)
		if ok && !inv.Answered() && uitool.KindOf(inv.Name) == uitool.KindOptionList {
			return inv
		}
	}
	return nil
}

// Items returns the conversation log in render order.
func (s *Session) Items() []ChatItem {
	return s.log.Items()
}

// State returns the current run state.
func (s *Session) State() control.RunState {
	return s.state
}

// QueueLen returns the number of user messages queued server-side.
func (s *Session) QueueLen() int {
	return s.queueLen
}

func orLocalID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
