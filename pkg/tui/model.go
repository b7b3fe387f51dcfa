// Package tui implements the interactive operator console: a chat view over
// the control-session event stream with send, tool-widget, and cancel
// controls.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"

	"github.com/missionctl/missionctl/pkg/console"
	"github.com/missionctl/missionctl/pkg/control"
	"github.com/missionctl/missionctl/pkg/history"
	"github.com/missionctl/missionctl/pkg/uitool"
)

// model is the console application state.
type model struct {
	// TUI components
	viewport  viewport.Model
	textInput textinput.Model
	spinner   spinner.Model
	renderer  *glamour.TermRenderer

	// Business logic
	ctx     context.Context
	client  *control.Client
	session *console.Session
	streams *streamManager
	widget  widgetState
	history *history.History
	theme   string

	// App state
	ready        bool
	width        int
	height       int
	userScrolled bool
	streamDown   bool
	err          error
}

// New creates the console model for one mounted session. The theme names a
// standard glamour style for markdown rendering.
func New(ctx context.Context, client *control.Client, theme string) *model {
	ti := textinput.New()
	ti.Placeholder = "Message the agent..."
	ti.Focus()
	ti.CharLimit = 0
	ti.Prompt = inputPromptStyle.Render("> ")
	ti.SetVirtualCursor(true)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(warn)

	// A broken history file only loses recall, never the console.
	hist, err := history.New()
	if err != nil {
		hist = &history.History{}
	}

	return &model{
		viewport:  viewport.New(),
		textInput: ti,
		spinner:   s,
		ctx:       ctx,
		client:    client,
		session:   console.NewSession(),
		streams:   newStreamManager(client),
		history:   hist,
		theme:     theme,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.streams.subscribe(m.ctx),
	)
}

func (m *model) updateDimensions(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 1
	footerHeight := 3
	m.viewport.SetWidth(width - 2)
	m.viewport.SetHeight(height - headerHeight - footerHeight - 3)
	m.viewport.Style = chatViewportStyle.Width(width).Height(height - headerHeight - footerHeight - 1)

	m.textInput.SetWidth(width - 2)
	m.renderer = newMarkdownRenderer(width-4, m.theme)
}

// refresh re-renders the log into the viewport.
func (m *model) refresh() {
	m.viewport.SetContent(m.renderLog())
	if !m.userScrolled {
		m.viewport.GotoBottom()
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.updateDimensions(msg.Width, msg.Height)
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKeyPress(msg)

	case subscribedMsg:
		m.streams.adopt(msg.sub)
		return m, m.streams.waitForEvent()

	case subscribeFailedMsg:
		m.streamDown = true
		m.session.Notify(fmt.Sprintf("could not connect to the control session: %v", msg.err))
		m.refresh()
		return m, nil

	case eventMsg:
		if m.session.Apply(msg.event) {
			m.syncWidget()
			m.refresh()
		}
		return m, m.streams.waitForEvent()

	case streamClosedMsg:
		m.streams.close()
		m.streamDown = true
		if msg.err != nil {
			m.session.Notify(fmt.Sprintf("event stream lost (%v) — restart the console to reconnect", msg.err))
		} else {
			m.session.Notify("event stream closed — restart the console to reconnect")
		}
		m.refresh()
		return m, nil

	case noticeMsg:
		m.session.Notify(msg.text)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var vpCmd tea.Cmd
	prevY := m.viewport.YOffset()
	m.viewport, vpCmd = m.viewport.Update(msg)
	if m.viewport.YOffset() != prevY {
		maxScroll := max(strings.Count(m.renderLog(), "\n")-m.viewport.Height(), 0)
		m.userScrolled = m.viewport.YOffset() < maxScroll
	}
	if vpCmd != nil {
		cmds = append(cmds, vpCmd)
	}

	var tiCmd tea.Cmd
	m.textInput, tiCmd = m.textInput.Update(msg)
	if tiCmd != nil {
		cmds = append(cmds, tiCmd)
	}
	return m, tea.Batch(cmds...)
}

// syncWidget keeps the interaction state pointed at the current pending
// invocation and toggles input focus accordingly.
func (m *model) syncWidget() {
	pending := m.session.PendingInvocation()
	if pending == nil {
		if m.widget.armed {
			m.widget.disarm()
			m.textInput.Focus()
		}
		return
	}
	if !m.widget.armed || pending.ToolCallID != m.widget.toolCallID {
		m.widget.arm(pending.ToolCallID)
		m.textInput.Blur()
	}
}

func (m *model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.streams.close()
		return m, tea.Quit
	case "ctrl+x":
		return m, m.cancelRun()
	}

	if pending := m.activePendingWidget(); pending != nil {
		return m.handleWidgetKey(msg, pending)
	}

	switch msg.String() {
	case "enter":
		content := strings.TrimSpace(m.textInput.Value())
		if content == "" {
			return m, nil
		}
		m.textInput.Reset()
		m.userScrolled = false
		if err := m.history.Add(content); err != nil {
			slog.Debug("Failed to persist input history", "error", err)
		}
		return m, m.sendMessage(content)
	case "up":
		m.textInput.SetValue(m.history.Previous())
		return m, nil
	case "down":
		m.textInput.SetValue(m.history.Next())
		return m, nil
	}

	var cmds []tea.Cmd
	var vpCmd, tiCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	m.textInput, tiCmd = m.textInput.Update(msg)
	if vpCmd != nil {
		cmds = append(cmds, vpCmd)
	}
	if tiCmd != nil {
		cmds = append(cmds, tiCmd)
	}
	return m, tea.Batch(cmds...)
}

// activePendingWidget returns the pending invocation when widget keys should
// capture input.
func (m *model) activePendingWidget() *console.ToolInvocation {
	pending := m.session.PendingInvocation()
	if pending == nil || !m.widget.armed || pending.ToolCallID != m.widget.toolCallID {
		return nil
	}
	return pending
}

func (m *model) handleWidgetKey(msg tea.KeyPressMsg, pending *console.ToolInvocation) (tea.Model, tea.Cmd) {
	list, err := uitool.ParseOptionList(pending.Args)
	if err != nil {
		// Unrenderable widget: nothing to confirm, allow only cancel.
		if msg.String() == "esc" {
			return m, m.submitResult(pending, uitool.Cancelled())
		}
		return m, nil
	}

	key := msg.String()
	switch {
	case key == "up" || key == "k":
		if m.widget.cursor > 0 {
			m.widget.cursor--
		}
	case key == "down" || key == "j":
		if m.widget.cursor < len(list.Options)-1 {
			m.widget.cursor++
		}
	case key == "space" && list.Multi:
		m.widget.picked[m.widget.cursor] = !m.widget.picked[m.widget.cursor]
	case len(key) == 1 && key[0] >= '1' && key[0] <= '9':
		idx := int(key[0] - '1')
		if idx < len(list.Options) {
			m.widget.cursor = idx
			if list.Multi {
				m.widget.picked[idx] = !m.widget.picked[idx]
			}
		}
	case key == "esc":
		return m, m.submitResult(pending, uitool.Cancelled())
	case key == "enter":
		if list.Multi {
			var values []string
			for i, opt := range list.Options {
				if m.widget.picked[i] {
					values = append(values, opt.Value)
				}
			}
			return m, m.submitResult(pending, uitool.Selections(values))
		}
		return m, m.submitResult(pending, uitool.Selection(list.Options[m.widget.cursor].Value))
	}

	m.refresh()
	return m, nil
}

// submitResult correlates the answer locally first, then posts it. A failed
// POST surfaces as a notice; the local answer stays.
func (m *model) submitResult(pending *console.ToolInvocation, payload []byte) tea.Cmd {
	m.session.CorrelateLocal(pending.ToolCallID, payload)
	m.syncWidget()
	m.refresh()

	client, ctx := m.client, m.ctx
	toolCallID, name := pending.ToolCallID, pending.Name
	return func() tea.Msg {
		if err := client.SendToolResult(ctx, toolCallID, name, payload); err != nil {
			return noticeMsg{text: fmt.Sprintf("failed to submit tool result: %v", err)}
		}
		return nil
	}
}

func (m *model) sendMessage(content string) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		if _, err := client.SendMessage(ctx, content); err != nil {
			return noticeMsg{text: fmt.Sprintf("failed to send message: %v", err)}
		}
		return nil
	}
}

func (m *model) cancelRun() tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		if err := client.CancelRun(ctx); err != nil {
			return noticeMsg{text: fmt.Sprintf("failed to cancel run: %v", err)}
		}
		return nil
	}
}

func (m *model) statusLine() string {
	switch m.session.State() {
	case control.RunStateRunning:
		return statusRunningStyle.Render(m.spinner.View() + "running")
	case control.RunStateWaitingForTool:
		return statusWaitingStyle.Render("waiting for your input")
	default:
		return statusIdleStyle.Render("idle")
	}
}

func (m *model) View() tea.View {
	if !m.ready {
		return tea.NewView("Initializing...")
	}

	header := headerStyle.Render("missionctl console")
	status := m.statusLine()
	if n := m.session.QueueLen(); n > 0 {
		status += metaStyle.Render(fmt.Sprintf("  %d queued", n))
	}
	header += "  " + status

	var footer string
	switch {
	case m.err != nil:
		footer = errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.streamDown:
		footer = errorStyle.Render("disconnected — ctrl+c to exit")
	default:
		footer = footerStyle.Render("\n" + m.textInput.View() + "\n" +
			metaStyle.Render("enter send · ctrl+x cancel run · ctrl+c quit"))
	}

	view := tea.NewView(appStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			m.viewport.View(),
			footer,
		),
	))
	view.AltScreen = true
	return view
}
