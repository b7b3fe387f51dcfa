// Package uitool defines the interactive tool surface the agent exposes to
// the operator console. Tool names under the reserved "ui_" prefix are
// rendered in the console; everything else is internal agent machinery and
// never shown.
package uitool

import (
	"encoding/json"
	"fmt"
)

// Prefix is the reserved name prefix for operator-facing tools.
const Prefix = "ui_"

const (
	NameOptionList = "ui_optionList"
	NameDataTable  = "ui_dataTable"
)

// Kind classifies a ui_ tool by how the console treats it.
type Kind int

const (
	// KindUnsupported is any ui_-prefixed name the console doesn't know.
	KindUnsupported Kind = iota
	// KindOptionList is the interactive single/multi choice widget.
	KindOptionList
	// KindDataTable is a display-only tabular widget.
	KindDataTable
)

// IsUITool reports whether a tool name is operator-facing.
func IsUITool(name string) bool {
	return len(name) >= len(Prefix) && name[:len(Prefix)] == Prefix
}

// KindOf maps a tool name to its widget kind. Non-ui_ names are the caller's
// problem; they also map to KindUnsupported.
func KindOf(name string) Kind {
	switch name {
	case NameOptionList:
		return KindOptionList
	case NameDataTable:
		return KindDataTable
	default:
		return KindUnsupported
	}
}

// Option is a single selectable choice. Value is what gets submitted; Label
// is what the operator sees.
type Option struct {
	Label string
	Value string
}

// OptionList is the parsed ui_optionList payload.
type OptionList struct {
	ID      string
	Title   string
	Prompt  string
	Options []Option
	Multi   bool
}

// DataTable is the parsed ui_dataTable payload.
type DataTable struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// ParseOptionList decodes ui_optionList args. Options may be bare strings or
// {label, value} objects; bare strings use the same text for both. An empty
// option set is an error so the widget never renders with nothing to pick.
func ParseOptionList(args json.RawMessage) (*OptionList, error) {
	var raw struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Prompt  string `json:"prompt"`
		Options []any  `json:"options"`
		Multi   bool   `json:"multi"`
	}
	if err := json.Unmarshal(args, &raw); err != nil {
		return nil, fmt.Errorf("parsing option list args: %w", err)
	}

	list := &OptionList{
		ID:     raw.ID,
		Title:  raw.Title,
		Prompt: raw.Prompt,
		Multi:  raw.Multi,
	}
	for _, o := range raw.Options {
		switch v := o.(type) {
		case string:
			list.Options = append(list.Options, Option{Label: v, Value: v})
		case map[string]any:
			label, _ := v["label"].(string)
			value, _ := v["value"].(string)
			if value == "" {
				value = label
			}
			if label == "" {
				label = value
			}
			if value == "" {
				continue
			}
			list.Options = append(list.Options, Option{Label: label, Value: value})
		}
	}
	if len(list.Options) == 0 {
		return nil, fmt.Errorf("option list has no usable options")
	}
	return list, nil
}

// ParseDataTable decodes ui_dataTable args. Cells of any JSON type are
// coerced to strings so a sloppy agent payload still renders.
func ParseDataTable(args json.RawMessage) (*DataTable, error) {
	var raw struct {
		Title   string  `json:"title"`
		Columns []any   `json:"columns"`
		Rows    [][]any `json:"rows"`
	}
	if err := json.Unmarshal(args, &raw); err != nil {
		return nil, fmt.Errorf("parsing data table args: %w", err)
	}

	table := &DataTable{Title: raw.Title}
	for _, c := range raw.Columns {
		table.Columns = append(table.Columns, cellString(c))
	}
	for _, r := range raw.Rows {
		row := make([]string, 0, len(r))
		for _, c := range r {
			row = append(row, cellString(c))
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func cellString(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case nil:
		return ""
	case float64:
		// JSON numbers; trim the float formatting for integral values.
		if c == float64(int64(c)) {
			return fmt.Sprintf("%d", int64(c))
		}
		return fmt.Sprintf("%g", c)
	case bool:
		return fmt.Sprintf("%t", c)
	default:
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Sprintf("%v", c)
		}
		return string(b)
	}
}

// Selection builds the result payload for a confirmed choice.
func Selection(value string) json.RawMessage {
	b, _ := json.Marshal(map[string]string{"selected": value})
	return b
}

// Selections builds the result payload for a confirmed multi-select.
func Selections(values []string) json.RawMessage {
	b, _ := json.Marshal(map[string][]string{"selected": values})
	return b
}

// Cancelled is the result payload for an operator cancellation.
func Cancelled() json.RawMessage {
	return json.RawMessage("null")
}
