// Package history persists the console's input history across sessions so
// up-arrow recall works after a restart.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/missionctl/missionctl/pkg/paths"
)

// maxEntries caps the persisted history length; the oldest entries fall off.
const maxEntries = 500

type History struct {
	Messages []string `json:"messages"`

	path    string
	current int
}

// New loads the history from the data directory, starting empty when no
// history file exists yet.
func New() (*History, error) {
	return NewFromPath(filepath.Join(paths.DataDir(), "history.json"))
}

// NewFromPath loads the history from an explicit file path.
func NewFromPath(path string) (*History, error) {
	h := &History{
		path:    path,
		current: -1,
	}
	if err := h.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return h, nil
}

// Add appends a message, dropping any earlier duplicate, and resets the
// recall cursor past the end.
func (h *History) Add(message string) error {
	var messages []string
	for _, msg := range h.Messages {
		if msg != message {
			messages = append(messages, msg)
		}
	}
	messages = append(messages, message)
	if len(messages) > maxEntries {
		messages = messages[len(messages)-maxEntries:]
	}

	h.Messages = messages
	h.current = len(h.Messages)

	return h.save()
}

// Previous steps the recall cursor back and returns the entry there. It
// stays on the oldest entry once reached.
func (h *History) Previous() string {
	if len(h.Messages) == 0 {
		return ""
	}
	if h.current == -1 {
		h.current = len(h.Messages) - 1
		return h.Messages[h.current]
	}
	if h.current <= 0 {
		return h.Messages[0]
	}
	h.current--
	return h.Messages[h.current]
}

// Next steps the recall cursor forward, returning "" once past the newest
// entry so the input clears.
func (h *History) Next() string {
	if len(h.Messages) == 0 {
		return ""
	}
	if h.current >= len(h.Messages)-1 {
		h.current = len(h.Messages)
		return ""
	}
	h.current++
	return h.Messages[h.current]
}

func (h *History) save() error {
	data, err := json.Marshal(h)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(h.path, data, 0o644)
}

func (h *History) load() error {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, h)
}
