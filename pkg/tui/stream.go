package tui

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/missionctl/missionctl/pkg/control"
)

// streamManager owns the console's single event subscription. At most one
// stream is live at a time: adopting a new one tears the previous one down
// first, and teardown is safe to repeat.
type streamManager struct {
	client *control.Client
	sub    *control.Subscription
}

func newStreamManager(client *control.Client) *streamManager {
	return &streamManager{client: client}
}

// subscribe opens the event stream off the update loop and delivers it as a
// subscribedMsg.
func (s *streamManager) subscribe(ctx context.Context) tea.Cmd {
	client := s.client
	return func() tea.Msg {
		sub, err := client.Subscribe(ctx)
		if err != nil {
			return subscribeFailedMsg{err: err}
		}
		return subscribedMsg{sub: sub}
	}
}

// adopt installs a new subscription, closing any previous one first so two
// streams never run concurrently.
func (s *streamManager) adopt(sub *control.Subscription) {
	s.close()
	s.sub = sub
}

// close tears down the current subscription. Idempotent; safe with no
// subscription at all.
func (s *streamManager) close() {
	if s.sub != nil {
		s.sub.Close()
		s.sub = nil
	}
}

// waitForEvent blocks on the next stream event. The update loop re-arms it
// after every delivery so events are processed one at a time, in order.
func (s *streamManager) waitForEvent() tea.Cmd {
	sub := s.sub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-sub.Events()
		if !ok {
			return streamClosedMsg{err: sub.Err()}
		}
		return eventMsg{event: event}
	}
}
