// Package stub is a scripted control-session backend for development and
// tests. It speaks the real wire surface — message queue, SSE event stream,
// pending tool calls, cancellation — with a toy agent behind it that echoes
// messages and demonstrates the interactive tools.
package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/missionctl/missionctl/pkg/api"
)

type envelope struct {
	name string
	data []byte
}

type queuedMessage struct {
	id      string
	content string
}

// Server is the scripted backend. Create with New, serve via Handler for
// tests or Run for a real listener, and Close when done.
type Server struct {
	echo *echo.Echo

	mu       sync.Mutex
	state    string
	queue    []queuedMessage
	pending  map[string]chan json.RawMessage
	subs     map[chan envelope]struct{}
	wake     chan struct{}
	cancelCh chan struct{}
	done     chan struct{}
}

// New creates the stub server and starts its agent loop.
func New() *Server {
	s := &Server{
		state:    "idle",
		pending:  map[string]chan json.RawMessage{},
		subs:     map[chan envelope]struct{}{},
		wake:     make(chan struct{}, 1),
		cancelCh: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.POST("/api/control/message", s.handleMessage)
	e.POST("/api/control/tool_result", s.handleToolResult)
	e.POST("/api/control/cancel", s.handleCancel)
	e.GET("/api/control/status", s.handleStatus)
	e.GET("/api/control/events", s.handleEvents)

	s.echo = e
	go s.agentLoop()
	return s
}

// Handler exposes the HTTP surface for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	go func() {
		<-ctx.Done()
		s.echo.Shutdown(context.Background())
	}()
	slog.Info("Stub control backend listening", "addr", addr)
	err := s.echo.Start(addr)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Close stops the agent loop.
func (s *Server) Close() {
	close(s.done)
}

func (s *Server) handleMessage(c echo.Context) error {
	var req api.ControlMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if strings.TrimSpace(req.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "empty message")
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.queue = append(s.queue, queuedMessage{id: id, content: req.Content})
	s.mu.Unlock()
	s.broadcastStatus()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return c.JSON(http.StatusOK, api.ControlMessageResponse{ID: id, Queued: true})
}

func (s *Server) handleToolResult(c echo.Context) error {
	var req api.ControlToolResultRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}

	s.mu.Lock()
	ch, ok := s.pending[req.ToolCallID]
	if ok {
		delete(s.pending, req.ToolCallID)
	}
	s.mu.Unlock()

	if !ok {
		s.broadcast("error", map[string]any{
			"type":    "error",
			"message": fmt.Sprintf("no pending tool call %q", req.ToolCallID),
		})
		return echo.NewHTTPError(http.StatusNotFound, "no pending tool call")
	}

	result := req.Result
	if result == nil {
		result = json.RawMessage("null")
	}
	s.broadcast("tool_result", map[string]any{
		"type":         "tool_result",
		"tool_call_id": req.ToolCallID,
		"name":         req.Name,
		"result":       json.RawMessage(result),
	})
	ch <- result
	return c.JSON(http.StatusOK, api.OKResponse{OK: true})
}

func (s *Server) handleCancel(c echo.Context) error {
	// The agent loop unblocks on the signal and abandons any pending tool.
	select {
	case s.cancelCh <- struct{}{}:
	default:
	}
	return c.JSON(http.StatusOK, api.OKResponse{OK: true})
}

func (s *Server) handleStatus(c echo.Context) error {
	s.mu.Lock()
	status := api.ControlStatus{State: s.state, QueueLen: len(s.queue)}
	s.mu.Unlock()
	return c.JSON(http.StatusOK, status)
}

func (s *Server) handleEvents(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)

	ch := make(chan envelope, 64)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	snapshot, _ := json.Marshal(map[string]any{
		"type":      "status",
		"state":     s.state,
		"queue_len": len(s.queue),
	})
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}()

	// Initial snapshot so a fresh console knows the state immediately.
	fmt.Fprintf(w, "event: status\ndata: %s\n\n", snapshot)
	w.Flush()

	for {
		select {
		case env := <-ch:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", env.name, env.data)
			w.Flush()
		case <-c.Request().Context().Done():
			return nil
		case <-s.done:
			return nil
		}
	}
}

func (s *Server) broadcast(name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal event", "event", name, "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- envelope{name: name, data: data}:
		default:
			// Slow subscriber; drop rather than block the session.
		}
	}
}

func (s *Server) broadcastStatus() {
	s.mu.Lock()
	state, queueLen := s.state, len(s.queue)
	s.mu.Unlock()
	s.broadcast("status", map[string]any{
		"type":      "status",
		"state":     state,
		"queue_len": queueLen,
	})
}

func (s *Server) setState(state string) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.broadcastStatus()
}

// agentLoop drains the message queue one at a time, playing a small script
// per message: "pick ..." demonstrates the option list, "table ..." the data
// table, anything else gets echoed back.
func (s *Server) agentLoop() {
	for {
		msg, ok := s.nextMessage()
		if !ok {
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}

		s.setState("running")
		s.broadcast("user_message", map[string]any{
			"type":    "user_message",
			"id":      msg.id,
			"content": msg.content,
		})

		reply, cancelled := s.runScript(msg)
		if cancelled {
			s.broadcast("error", map[string]any{
				"type":    "error",
				"message": "run cancelled",
			})
		} else {
			s.broadcast("assistant_message", map[string]any{
				"type":       "assistant_message",
				"id":         uuid.NewString(),
				"content":    reply,
				"success":    true,
				"cost_cents": 3,
				"model":      "stub",
			})
		}
		s.setState("idle")
	}
}

func (s *Server) nextMessage() (queuedMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return queuedMessage{}, false
	}
	msg := s.queue[0]
	s.queue = s.queue[1:]
	return msg, true
}

func (s *Server) runScript(msg queuedMessage) (reply string, cancelled bool) {
	// Drain a stale cancel from a previous turn.
	select {
	case <-s.cancelCh:
	default:
	}

	lower := strings.ToLower(msg.content)
	switch {
	case strings.Contains(lower, "pick"):
		result, ok := s.callTool("ui_optionList", map[string]any{
			"title":   "Pick one",
			"prompt":  msg.content,
			"options": []string{"first", "second", "third"},
		})
		if !ok {
			return "", true
		}
		var selection struct {
			Selected string `json:"selected"`
		}
		if err := json.Unmarshal(result, &selection); err != nil || selection.Selected == "" {
			return "No selection made.", false
		}
		return fmt.Sprintf("You picked %q.", selection.Selected), false

	case strings.Contains(lower, "table"):
		s.broadcast("tool_call", map[string]any{
			"type":         "tool_call",
			"tool_call_id": uuid.NewString(),
			"name":         "ui_dataTable",
			"args": map[string]any{
				"title":   "Sample data",
				"columns": []string{"name", "count"},
				"rows":    [][]any{{"alpha", 3}, {"beta", 7}},
			},
		})
		return "Rendered a table.", false

	default:
		return "Echo: " + msg.content, false
	}
}

// callTool emits a tool_call, marks the session waiting, and blocks until a
// result is posted or the run is cancelled.
func (s *Server) callTool(name string, args map[string]any) (json.RawMessage, bool) {
	id := uuid.NewString()
	ch := make(chan json.RawMessage, 1)

	s.mu.Lock()
	s.pending[id] = ch
	s.mu.Unlock()

	s.broadcast("tool_call", map[string]any{
		"type":         "tool_call",
		"tool_call_id": id,
		"name":         name,
		"args":         args,
	})
	s.setState("waiting_for_tool")

	select {
	case result := <-ch:
		return result, true
	case <-s.cancelCh:
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
		return nil, false
	case <-s.done:
		return nil, false
	}
}
