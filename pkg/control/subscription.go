package control

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"sync"
)

// Subscription is a live handle on the control-session event stream. Events
// arrive on Events() in server order; the channel closes when the stream
// ends for any reason, after which Err() reports why. Close is safe to call
// any number of times and after the stream has already ended.
type Subscription struct {
	events chan Event

	closeOnce sync.Once
	cancel    context.CancelFunc
	body      io.Closer

	mu  sync.Mutex
	err error
}

// Events returns the channel decoded events are delivered on.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Err reports why the stream ended. It is nil while the stream is live and
// after a clean shutdown via Close.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close tears the subscription down: the reader goroutine stops and the
// events channel closes. Idempotent.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.body.Close()
	})
}

func (s *Subscription) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// Subscribe opens the SSE event stream. The server pushes an initial status
// snapshot immediately, then events as they happen. There is exactly no
// reconnect logic here: when the stream drops, the caller decides whether a
// fresh console is wanted.
func (c *Client) Subscribe(ctx context.Context) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	u := *c.baseURL
	u.Path = path.Join(u.Path, "/api/control/events")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	// The stream outlives any request timeout; use a transport-only client.
	streamClient := &http.Client{Transport: c.httpClient.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribing to event stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("subscribing to event stream: HTTP %d", resp.StatusCode)
	}

	sub := &Subscription{
		events: make(chan Event),
		cancel: cancel,
		body:   resp.Body,
	}
	go sub.read(ctx, resp.Body)
	return sub, nil
}

// read consumes SSE frames until the stream ends. Each frame is an optional
// "event:" line followed by one "data:" line; comment lines and unknown
// fields are skipped per the SSE format.
func (s *Subscription) read(ctx context.Context, body io.Reader) {
	defer close(s.events)

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var eventType string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			eventType = ""
		case strings.HasPrefix(line, ":"):
			// keep-alive comment
		case strings.HasPrefix(line, "event:"):
			eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			event, ok := Decode(eventType, []byte(data))
			if !ok {
				slog.Debug("Dropping unrecognized control event", "event_type", eventType)
				continue
			}
			select {
			case s.events <- event:
			case <-ctx.Done():
				return
			}
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		s.setErr(fmt.Errorf("reading event stream: %w", err))
	}
}
