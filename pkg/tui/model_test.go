package tui

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/missionctl/missionctl/pkg/console"
	"github.com/missionctl/missionctl/pkg/control"
	"github.com/missionctl/missionctl/pkg/stub"
)

func newTestModel(t *testing.T) *model {
	t.Helper()

	backend := stub.New()
	t.Cleanup(backend.Close)
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	client, err := control.NewClient(server.URL)
	require.NoError(t, err)

	m := New(t.Context(), client, "dark")
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func applyEvent(m *model, event control.Event) tea.Cmd {
	_, cmd := m.Update(eventMsg{event: event})
	return cmd
}

func pendingInvocation(t *testing.T, m *model) *console.ToolInvocation {
	t.Helper()
	inv := m.session.PendingInvocation()
	require.NotNil(t, inv)
	return inv
}

func TestOptionListConfirm(t *testing.T) {
	m := newTestModel(t)

	applyEvent(m, control.ToolCall("tc1", "ui_optionList",
		json.RawMessage(`{"title":"Pick","options":["first","second","third"]}`)))

	inv := pendingInvocation(t, m)
	assert.False(t, m.textInput.Focused(), "input yields to the widget while pending")

	m.Update(tea.KeyPressMsg{Code: '2', Text: "2"})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	require.True(t, inv.Answered())
	assert.JSONEq(t, `{"selected":"second"}`, string(inv.Result))
	assert.NotNil(t, cmd, "confirm must produce a submission command")
	assert.True(t, m.textInput.Focused(), "input returns once the widget resolves")
}

func TestOptionListCancel(t *testing.T) {
	m := newTestModel(t)

	applyEvent(m, control.ToolCall("tc1", "ui_optionList",
		json.RawMessage(`{"options":["a","b"]}`)))

	inv := pendingInvocation(t, m)
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})

	require.True(t, inv.Answered())
	assert.Equal(t, json.RawMessage("null"), inv.Result)
	assert.NotNil(t, cmd)
}

func TestOptionListMultiSelect(t *testing.T) {
	m := newTestModel(t)

	applyEvent(m, control.ToolCall("tc1", "ui_optionList",
		json.RawMessage(`{"options":["a","b","c"],"multi":true}`)))

	inv := pendingInvocation(t, m)
	m.Update(tea.KeyPressMsg{Code: '1', Text: "1"})
	m.Update(tea.KeyPressMsg{Code: '3', Text: "3"})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	require.True(t, inv.Answered())
	assert.JSONEq(t, `{"selected":["a","c"]}`, string(inv.Result))
}

func TestOptionListEmptyCallID(t *testing.T) {
	m := newTestModel(t)

	applyEvent(m, control.ToolCall("", "ui_optionList",
		json.RawMessage(`{"options":["a","b"],"multi":true}`)))

	inv := pendingInvocation(t, m)
	assert.False(t, m.textInput.Focused(), "widget must arm even without a call id")

	m.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	require.True(t, inv.Answered())
	assert.JSONEq(t, `{"selected":["a"]}`, string(inv.Result))
	assert.True(t, m.textInput.Focused())
}

func TestAnsweredWidgetIsReadOnly(t *testing.T) {
	m := newTestModel(t)

	applyEvent(m, control.ToolCall("tc1", "ui_optionList",
		json.RawMessage(`{"options":["a","b"]}`)))

	inv := pendingInvocation(t, m)
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.True(t, inv.Answered())
	first := string(inv.Result)

	// Further widget keys must not change the recorded answer.
	m.Update(tea.KeyPressMsg{Code: '2', Text: "2"})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, first, string(inv.Result))
}

func TestServerEchoDoesNotOverrideLocalAnswer(t *testing.T) {
	m := newTestModel(t)

	applyEvent(m, control.ToolCall("tc1", "ui_optionList",
		json.RawMessage(`{"options":["a","b"]}`)))

	inv := pendingInvocation(t, m)
	m.Update(tea.KeyPressMsg{Code: '1', Text: "1"})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.True(t, inv.Answered())

	applyEvent(m, control.ToolResult("tc1", "ui_optionList", json.RawMessage(`{"selected":"b"}`)))
	assert.JSONEq(t, `{"selected":"a"}`, string(inv.Result))
}

func TestDataTableNeverCapturesInput(t *testing.T) {
	m := newTestModel(t)

	applyEvent(m, control.ToolCall("tc1", "ui_dataTable",
		json.RawMessage(`{"columns":["a"],"rows":[["1"]]}`)))

	assert.Nil(t, m.session.PendingInvocation())
	assert.True(t, m.textInput.Focused())
}

func TestStreamClosedAppendsNotice(t *testing.T) {
	m := newTestModel(t)

	m.Update(streamClosedMsg{err: nil})

	items := m.session.Items()
	require.NotEmpty(t, items)
	notice, ok := items[len(items)-1].(*console.SystemNotice)
	require.True(t, ok)
	assert.Contains(t, notice.Content, "restart the console")
	assert.True(t, m.streamDown)
}

func TestStreamManagerSingleSubscription(t *testing.T) {
	backend := stub.New()
	t.Cleanup(backend.Close)
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	client, err := control.NewClient(server.URL)
	require.NoError(t, err)

	manager := newStreamManager(client)

	first, err := client.Subscribe(t.Context())
	require.NoError(t, err)
	manager.adopt(first)

	second, err := client.Subscribe(t.Context())
	require.NoError(t, err)
	manager.adopt(second)

	// Adopting the second stream must have torn the first one down.
	select {
	case _, ok := <-drain(first.Events()):
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("first subscription never closed")
	}

	manager.close()
	manager.close()
}

// drain forwards a channel so the select above sees the close even when
// buffered events precede it.
func drain(ch <-chan control.Event) <-chan control.Event {
	out := make(chan control.Event)
	go func() {
		defer close(out)
		for range ch {
		}
	}()
	return out
}
