// Package console holds the operator-side model of the control session: the
// conversation log, tool-call correlation, and the run-state tracker. It is
// pure state — no I/O — so the TUI and the plain-text watcher share it.
package console

import "encoding/json"

// ChatItem is one rendered entry in the conversation log. The union is
// closed; render order is insertion order.
type ChatItem interface {
	ItemID() string
	isChatItem()
}

// UserMessage is an operator message the agent has started processing.
type UserMessage struct {
	ID      string
	Content string
}

func (m *UserMessage) ItemID() string { return m.ID }
func (m *UserMessage) isChatItem()    {}

// AssistantMessage is one completed agent turn.
type AssistantMessage struct {
	ID        string
	Content   string
	Success   bool
	CostCents uint64
	Model     string
}

func (m *AssistantMessage) ItemID() string { return m.ID }
func (m *AssistantMessage) isChatItem()    {}

// ToolInvocation is an operator-facing tool call and, once correlated, its
// result. Result nil means unanswered; JSON null means cancelled.
type ToolInvocation struct {
	ID         string
	ToolCallID string
	Name       string
	Args       json.RawMessage
	Result     json.RawMessage
}

func (t *ToolInvocation) ItemID() string { return t.ID }
func (t *ToolInvocation) isChatItem()    {}

// Answered reports whether a result has been correlated onto this call.
func (t *ToolInvocation) Answered() bool { return t.Result != nil }

// SystemNotice is console-generated text: stream errors, failed submissions.
type SystemNotice struct {
	ID      string
	Content string
}

func (n *SystemNotice) ItemID() string { return n.ID }
func (n *SystemNotice) isChatItem()    {}

// Log is the append-only conversation log. Entries are never removed or
// reordered; the only in-place mutation is result correlation.
type Log struct {
	items []ChatItem
}

// Append adds an item at the end of the log.
func (l *Log) Append(item ChatItem) {
	l.items = append(l.items, item)
}

// Correlate attaches a result to the ToolInvocation with the given
// tool-call id. It reports false when no entry matches. A second result for
// an already-answered call is ignored: the first answer wins.
func (l *Log) Correlate(toolCallID string, result json.RawMessage) bool {
	for _, item := range l.items {
		inv, ok := item.(*ToolInvocation)
		if !ok || inv.ToolCallID != toolCallID {
			continue
		}
		if !inv.Answered() {
			inv.Result = result
		}
		return true
	}
	return false
}

// Items returns the log entries in insertion order. The slice is shared;
// callers must not mutate it.
func (l *Log) Items() []ChatItem {
	return l.items
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.items)
}
