package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"charm.land/glamour/v2"
	"charm.land/glamour/v2/styles"

	"github.com/missionctl/missionctl/pkg/console"
	"github.com/missionctl/missionctl/pkg/uitool"
)

// widgetState tracks the operator's in-progress interaction with the pending
// option list. It is re-armed whenever a different invocation becomes
// pending. The explicit armed flag matters because a tool_call_id can be
// empty on the wire.
type widgetState struct {
	armed      bool
	toolCallID string
	cursor     int
	picked     map[int]bool
}

func (w *widgetState) arm(toolCallID string) {
	w.armed = true
	w.toolCallID = toolCallID
	w.cursor = 0
	w.picked = map[int]bool{}
}

func (w *widgetState) disarm() {
	w.armed = false
	w.toolCallID = ""
	w.picked = nil
}

// renderLog renders the whole conversation, newest last. Assistant content
// goes through the markdown renderer; everything else is styled plain text.
func (m *model) renderLog() string {
	var b strings.Builder
	for _, item := range m.session.Items() {
		switch it := item.(type) {
		case *console.UserMessage:
			b.WriteString(userLabelStyle.Render("You") + " " + it.Content + "\n\n")

		case *console.AssistantMessage:
			label := assistantLabelStyle.Render("Agent")
			if !it.Success {
				label = failedLabelStyle.Render("Agent (failed)")
			}
			b.WriteString(label + "\n")
			b.WriteString(m.renderMarkdown(it.Content))
			if meta := assistantMeta(it); meta != "" {
				b.WriteString(metaStyle.Render(meta) + "\n")
			}
			b.WriteString("\n")

		case *console.ToolInvocation:
			b.WriteString(m.renderInvocation(it) + "\n\n")

		case *console.SystemNotice:
			b.WriteString(noticeStyle.Render("• "+it.Content) + "\n\n")
		}
	}
	return b.String()
}

func (m *model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content + "\n"
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return rendered
}

func assistantMeta(msg *console.AssistantMessage) string {
	var parts []string
	if msg.Model != "" {
		parts = append(parts, msg.Model)
	}
	if msg.CostCents > 0 {
		parts = append(parts, fmt.Sprintf("$%d.%02d", msg.CostCents/100, msg.CostCents%100))
	}
	return strings.Join(parts, " · ")
}

func (m *model) renderInvocation(inv *console.ToolInvocation) string {
	switch uitool.KindOf(inv.Name) {
	case uitool.KindOptionList:
		return m.renderOptionList(inv)
	case uitool.KindDataTable:
		return renderDataTable(inv)
	default:
		return widgetDoneStyle.Render(widgetErrorStyle.Render("unsupported tool: " + inv.Name))
	}
}

func (m *model) renderOptionList(inv *console.ToolInvocation) string {
	list, err := uitool.ParseOptionList(inv.Args)
	if err != nil {
		return widgetDoneStyle.Render(widgetErrorStyle.Render("bad option list: " + err.Error()))
	}

	var b strings.Builder
	if list.Title != "" {
		b.WriteString(widgetTitleStyle.Render(list.Title) + "\n")
	}
	if list.Prompt != "" {
		b.WriteString(list.Prompt + "\n")
	}

	active := !inv.Answered() && m.widget.armed && m.widget.toolCallID == inv.ToolCallID
	answered := answeredValues(inv.Result)

	for i, opt := range list.Options {
		line := fmt.Sprintf("%d. %s", i+1, opt.Label)
		switch {
		case answered[opt.Value]:
			line = optionPickedStyle.Render("✓ " + line)
		case active && i == m.widget.cursor:
			line = optionCursorStyle.Render("> " + line)
		case active && m.widget.picked[i]:
			line = optionPickedStyle.Render("* " + line)
		default:
			line = optionStyle.Render("  " + line)
		}
		b.WriteString(line + "\n")
	}

	switch {
	case inv.Answered() && bytes.Equal(inv.Result, []byte("null")):
		b.WriteString(metaStyle.Render("cancelled"))
	case inv.Answered():
		b.WriteString(metaStyle.Render("answered"))
	case active && list.Multi:
		b.WriteString(metaStyle.Render("1-9/space toggle · enter confirm · esc cancel"))
	case active:
		b.WriteString(metaStyle.Render("1-9 select · enter confirm · esc cancel"))
	default:
		b.WriteString(metaStyle.Render("waiting"))
	}

	if inv.Answered() {
		return widgetDoneStyle.Render(b.String())
	}
	return widgetStyle.Render(b.String())
}

// answeredValues extracts the selected value set from a correlated result so
// confirmed choices stay marked in the read-only rendering.
func answeredValues(result json.RawMessage) map[string]bool {
	values := map[string]bool{}
	if result == nil {
		return values
	}
	var single struct {
		Selected string `json:"selected"`
	}
	if err := json.Unmarshal(result, &single); err == nil && single.Selected != "" {
		values[single.Selected] = true
		return values
	}
	var multi struct {
		Selected []string `json:"selected"`
	}
	if err := json.Unmarshal(result, &multi); err == nil {
		for _, v := range multi.Selected {
			values[v] = true
		}
	}
	return values
}

func renderDataTable(inv *console.ToolInvocation) string {
	table, err := uitool.ParseDataTable(inv.Args)
	if err != nil {
		return widgetDoneStyle.Render(widgetErrorStyle.Render("bad data table: " + err.Error()))
	}

	widths := make([]int, len(table.Columns))
	for i, col := range table.Columns {
		widths[i] = len(col)
	}
	for _, row := range table.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	if table.Title != "" {
		b.WriteString(widgetTitleStyle.Render(table.Title) + "\n")
	}
	b.WriteString(tableHeaderStyle.Render(padRow(table.Columns, widths)) + "\n")
	for _, row := range table.Rows {
		b.WriteString(padRow(row, widths) + "\n")
	}
	return widgetDoneStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func padRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		width := len(cell)
		if i < len(widths) {
			width = widths[i]
		}
		padded[i] = fmt.Sprintf("%-*s", width, cell)
	}
	return strings.Join(padded, "  ")
}

// newMarkdownRenderer builds the glamour renderer for the configured theme.
// An unknown theme name falls back to the dark style rather than losing
// markdown rendering altogether.
func newMarkdownRenderer(width int, theme string) *glamour.TermRenderer {
	if _, ok := styles.DefaultStyles[theme]; !ok {
		theme = styles.DarkStyle
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return renderer
}
