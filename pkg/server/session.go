package server

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yeyan1996/vue/pkg/dom"
	"github.com/yeyan1996/vue/pkg/middleware"
	"github.com/yeyan1996/vue/pkg/reactive"
	"github.com/yeyan1996/vue/pkg/runtime"
	"github.com/yeyan1996/vue/pkg/vdom"
)

// Frame types on the session wire protocol. Frames are JSON objects
// with a "type" discriminator.
const (
	frameMount = "mount"
	framePatch = "patch"
	frameEvent = "event"
	framePing  = "ping"
	framePong  = "pong"
	frameError = "error"
)

// eventFrame is a client-to-server frame.
type eventFrame struct {
	Type    string          `json:"type"`
	Node    uint64          `json:"node,omitempty"`
	Event   string          `json:"event,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// patchFrame is a server-to-client frame carrying patch operations.
type patchFrame struct {
	Type string   `json:"type"`
	Ops  []dom.Op `json:"ops,omitempty"`
}

type errorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Session owns one connected client: a component instance rendered into
// an in-memory document, a recorder capturing every mutation, and the
// WebSocket the resulting patch stream is written to. All rendering and
// event handling happens on the session's read loop goroutine.
type Session struct {
	id     string
	conn   *websocket.Conn
	config *Config
	logger *slog.Logger

	ops      *dom.Ops
	rec      *dom.Recorder
	document *dom.Node
	root     *runtime.Component

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
	onClose   func(*Session)
}

func newSession(id string, conn *websocket.Conn, app runtime.Options, config *Config, logger *slog.Logger) *Session {
	s := &Session{
		id:     id,
		conn:   conn,
		config: config,
		logger: logger.With("session", id),
		closed: make(chan struct{}),
	}

	s.ops = dom.NewOps()
	s.rec = dom.NewRecorder(s.ops)
	patcher := vdom.NewPatcher(s.rec, vdom.DefaultModules(s.rec)...)

	s.document = s.ops.CreateElement("main").(*dom.Node)
	mountPoint := s.ops.CreateElement("div").(*dom.Node)
	s.ops.AppendChild(s.document, mountPoint)

	s.root = runtime.New(patcher, app)
	s.root.Mount(mountPoint, false)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Start sends the mount frame and blocks reading client frames until
// the connection drops or the session is closed.
func (s *Session) Start() {
	defer s.Close()

	if err := s.writeFrame(patchFrame{Type: frameMount, Ops: s.rec.Log()}); err != nil {
		s.logger.Error("mount frame write failed", "error", err)
		return
	}
	s.rec.Reset()

	s.readLoop()
}

func (s *Session) readLoop() {
	s.conn.SetReadLimit(s.config.MaxMessageSize)
	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				middleware.RecordWebSocketError("read")
			}
			return
		}

		var frame eventFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			s.logger.Error("frame decode error", "error", err)
			s.writeFrame(errorFrame{Type: frameError, Message: "invalid frame"})
			middleware.RecordWebSocketError("decode")
			continue
		}

		switch frame.Type {
		case frameEvent:
			s.handleEvent(frame)
		case framePing:
			s.writeFrame(eventFrame{Type: framePong})
		default:
			s.logger.Warn("unknown frame type", "type", frame.Type)
		}
	}
}

// handleEvent dispatches a client event into the document, flushes the
// resulting reactive updates, and streams the recorded patch ops back.
func (s *Session) handleEvent(frame eventFrame) {
	target := s.findNode(s.document, frame.Node)
	if target == nil {
		s.logger.Warn("event for unknown node", "node", frame.Node, "event", frame.Event)
		middleware.RecordEvent(frame.Event, ErrSessionNotFound)
		return
	}

	var payload any
	if len(frame.Payload) > 0 {
		if err := json.Unmarshal(frame.Payload, &payload); err != nil {
			s.logger.Error("payload decode error", "error", err)
			middleware.RecordEvent(frame.Event, err)
			return
		}
	}

	start := time.Now()
	dom.Dispatch(target, frame.Event, payload)
	reactive.Flush()
	middleware.RecordFlush(time.Since(start))
	middleware.RecordEvent(frame.Event, nil)

	if ops := s.rec.Log(); len(ops) > 0 {
		if err := s.writeFrame(patchFrame{Type: framePatch, Ops: ops}); err != nil {
			s.logger.Error("patch frame write failed", "error", err)
			middleware.RecordWebSocketError("write")
		}
		middleware.RecordPatchOps(len(ops))
		s.rec.Reset()
	}
}

func (s *Session) findNode(n *dom.Node, id uint64) *dom.Node {
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := s.findNode(c, id); found != nil {
			return found
		}
	}
	return nil
}

func (s *Session) writeFrame(frame any) error {
	select {
	case <-s.closed:
		return ErrSessionClosed
	default:
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Close tears down the component tree and the connection. Safe to call
// more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		s.root.Destroy()
		s.conn.Close()
		if s.onClose != nil {
			s.onClose(s)
		}
		s.logger.Info("session closed")
	})
}
