package tui

import (
	"github.com/missionctl/missionctl/pkg/control"
)

// Message types.
// We define dedicated types to leverage Bubble Tea's type-based message
// routing. They remain unexported as they are internal to the TUI.
type (
	// subscribedMsg delivers a freshly opened event stream.
	subscribedMsg struct{ sub *control.Subscription }

	// subscribeFailedMsg reports that the stream could not be opened.
	subscribeFailedMsg struct{ err error }

	// eventMsg carries one decoded control event to the update loop.
	eventMsg struct{ event control.Event }

	// streamClosedMsg signals the event stream ended; err is nil on a
	// clean local teardown.
	streamClosedMsg struct{ err error }

	// noticeMsg appends operator-visible text to the log, used for
	// failed submissions and other console-side conditions.
	noticeMsg struct{ text string }
)
