package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeyan1996/vue/pkg/dom"
	"github.com/yeyan1996/vue/pkg/middleware"
	"github.com/yeyan1996/vue/pkg/runtime"
	"github.com/yeyan1996/vue/pkg/vdom"
)

// Server serves an application component over HTTP: server-rendered
// HTML on GET /, a live patch stream per client on GET /ws, and a
// Prometheus scrape endpoint on GET /metrics.
type Server struct {
	app      runtime.Options
	config   *Config
	logger   *slog.Logger
	router   chi.Router
	sessions *Manager
	upgrader websocket.Upgrader

	httpServer *http.Server
}

// New creates a Server for the given root component. A nil config uses
// DefaultConfig.
func New(app runtime.Options, config *Config) *Server {
	config = config.withDefaults()

	s := &Server{
		app:      app,
		config:   config,
		logger:   slog.Default().With("component", "server"),
		sessions: NewManager(config.MaxSessions),
		upgrader: websocket.Upgrader{
			ReadBufferSize:    config.ReadBufferSize,
			WriteBufferSize:   config.WriteBufferSize,
			EnableCompression: config.EnableCompression,
			CheckOrigin:       config.CheckOrigin,
		},
	}
	if s.upgrader.CheckOrigin == nil {
		s.upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}

	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	if s.config.EnableMetrics {
		r.Use(middleware.Prometheus())
	}
	if s.config.EnableTracing {
		r.Use(middleware.OpenTelemetry())
	}

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWebSocket)
	if s.config.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	return r
}

// Handler returns the HTTP handler, for mounting under another mux or
// an httptest server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the session registry.
func (s *Server) Sessions() *Manager {
	return s.sessions
}

// handleIndex renders the application once into an in-memory document
// and serves the HTML shell around it.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ops := dom.NewOps()
	patcher := vdom.NewPatcher(ops, vdom.DefaultModules(ops)...)

	container := ops.CreateElement("main").(*dom.Node)
	mountPoint := ops.CreateElement("div").(*dom.Node)
	ops.AppendChild(container, mountPoint)

	root := runtime.New(patcher, s.app)
	root.Mount(mountPoint, false)
	defer root.Destroy()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!DOCTYPE html><html><head><title>%s</title></head><body>", s.config.PageTitle)
	if err := dom.WriteHTML(w, container); err != nil {
		s.logger.Error("render write failed", "error", err)
		return
	}
	fmt.Fprint(w, "</body></html>")
}

// handleWebSocket upgrades the connection and runs a session on it.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade failed", "error", err)
		middleware.RecordWebSocketError("upgrade")
		return
	}

	sess := newSession(newSessionID(), conn, s.app, s.config, s.logger)
	if _, err := s.sessions.Add(sess); err != nil {
		s.logger.Warn("session rejected", "error", err)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			closeDeadline())
		conn.Close()
		return
	}
	sess.onClose = func(sess *Session) {
		s.sessions.Remove(sess.id)
		middleware.RecordSessionClose()
	}
	middleware.RecordSessionOpen()
	s.logger.Info("session started", "session", sess.id)

	sess.Start()
}

func closeDeadline() time.Time {
	return time.Now().Add(5 * time.Second)
}

// ListenAndServe starts the server and blocks until it exits.
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:    s.config.Address,
		Handler: s.router,
	}
	s.logger.Info("listening", "address", s.config.Address)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown closes all sessions and stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.sessions.Shutdown()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
