package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yeyan1996/vue/pkg/dom"
	"github.com/yeyan1996/vue/pkg/runtime"
	"github.com/yeyan1996/vue/pkg/vdom"
)

func counterApp() runtime.Options {
	return runtime.Options{
		Name: "counter",
		Data: func() map[string]any { return map[string]any{"n": 0} },
		Render: func(c *runtime.Component) *vdom.VNode {
			btn := vdom.NewElement("button", &vdom.Data{
				On: map[string]func(any){
					"click": func(any) { c.Set("n", c.Get("n").(int)+1) },
				},
			}, vdom.NewText("+"))
			label := vdom.NewElement("p", &vdom.Data{},
				vdom.NewText(strconv.Itoa(c.Get("n").(int))))
			return vdom.NewElement("div", &vdom.Data{}, btn, label)
		},
	}
}

func newTestServer(t *testing.T, config *Config) (*Server, *httptest.Server) {
	t.Helper()
	if config == nil {
		config = DefaultConfig()
		config.EnableMetrics = false
	}
	s := New(counterApp(), config)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) patchFrame {
	t.Helper()
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var frame patchFrame
	if err := json.Unmarshal(msg, &frame); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return frame
}

func TestIndexServesRenderedHTML(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}

	html := string(data)
	if !strings.Contains(html, "<button>+</button>") {
		t.Errorf("expected rendered button in page, got %s", html)
	}
	if !strings.Contains(html, "<p>0</p>") {
		t.Errorf("expected rendered initial state, got %s", html)
	}
}

func TestWebSocketMountAndEvent(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dialWS(t, ts)

	mount := readFrame(t, conn)
	if mount.Type != frameMount {
		t.Fatalf("expected mount frame first, got %q", mount.Type)
	}
	var buttonID uint64
	for _, op := range mount.Ops {
		if op.Kind == dom.OpCreateElement && op.Tag == "button" {
			buttonID = op.Node
		}
	}
	if buttonID == 0 {
		t.Fatalf("expected button in mount ops, got %v", mount.Ops)
	}

	event, _ := json.Marshal(eventFrame{Type: frameEvent, Node: buttonID, Event: "click"})
	if err := conn.WriteMessage(websocket.TextMessage, event); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	patch := readFrame(t, conn)
	if patch.Type != framePatch {
		t.Fatalf("expected patch frame, got %q", patch.Type)
	}
	found := false
	for _, op := range patch.Ops {
		if op.Kind == dom.OpSetText && op.Value == "1" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected setText op with new count, got %v", patch.Ops)
	}
}

func TestWebSocketPing(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dialWS(t, ts)
	readFrame(t, conn) // mount

	ping, _ := json.Marshal(eventFrame{Type: framePing})
	if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	pong := readFrame(t, conn)
	if pong.Type != framePong {
		t.Errorf("expected pong, got %q", pong.Type)
	}
}

func TestSessionLimit(t *testing.T) {
	config := DefaultConfig()
	config.EnableMetrics = false
	config.MaxSessions = 1
	_, ts := newTestServer(t, config)

	first := dialWS(t, ts)
	readFrame(t, first)

	second := dialWS(t, ts)
	_, _, err := second.ReadMessage()
	if err == nil {
		t.Fatalf("expected second session to be rejected")
	}
}

func TestManagerAddGetRemove(t *testing.T) {
	m := NewManager(0)
	s := &Session{}
	id, err := m.Add(s)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	got, err := m.Get(id)
	if err != nil || got != s {
		t.Errorf("expected to look session up by id")
	}
	m.Remove(id)
	if _, err := m.Get(id); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if m.Count() != 0 {
		t.Errorf("expected empty manager")
	}
}

func TestManagerLimit(t *testing.T) {
	m := NewManager(1)
	if _, err := m.Add(&Session{}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if _, err := m.Add(&Session{}); err != ErrTooManySessions {
		t.Errorf("expected ErrTooManySessions, got %v", err)
	}
}

func TestManagerPreservesAssignedID(t *testing.T) {
	m := NewManager(0)
	s := &Session{id: newSessionID()}
	want := s.ID()
	id, err := m.Add(s)
	if err != nil || id != want {
		t.Fatalf("expected Add to keep id %q, got %q, %v", want, id, err)
	}
	if got, _ := m.Get(want); got != s {
		t.Errorf("expected session registered under its own id")
	}
}

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestSessionLogsCarryID(t *testing.T) {
	var buf syncBuffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	_, ts := newTestServer(t, nil)
	conn := dialWS(t, ts)
	readFrame(t, conn)
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && !strings.Contains(buf.String(), "session closed") {
		time.Sleep(10 * time.Millisecond)
	}

	var closed string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "session closed") {
			closed = line
		}
	}
	if closed == "" {
		t.Fatalf("expected a session closed line, got %q", buf.String())
	}
	id := ""
	for _, f := range strings.Fields(closed) {
		if strings.HasPrefix(f, "session=") {
			id = strings.TrimPrefix(f, "session=")
		}
	}
	if len(id) != 32 {
		t.Errorf("expected session log to carry the session id, got %q in %q", id, closed)
	}
}
