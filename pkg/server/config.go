package server

import (
	"net/http"
	"time"
)

// Config holds configuration for the HTTP/WebSocket server.
type Config struct {
	// Address is the address to listen on (e.g., ":8080").
	// Default: ":8080".
	Address string

	// PageTitle is the title of the served HTML shell.
	// Default: "vue app".
	PageTitle string

	// ReadTimeout is the maximum time to wait for a message from the
	// client. Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful
	// shutdown. Default: 30 seconds.
	ShutdownTimeout time.Duration

	// MaxMessageSize is the maximum size of an incoming WebSocket
	// message. Default: 64KB.
	MaxMessageSize int64

	// MaxSessions is the maximum number of concurrent sessions.
	// 0 means no limit. Default: 0.
	MaxSessions int

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// EnableCompression enables WebSocket compression.
	// Default: true.
	EnableCompression bool

	// CheckOrigin is called to validate the request origin.
	// Default: allows all origins (not recommended for production).
	CheckOrigin func(r *http.Request) bool

	// EnableMetrics mounts the Prometheus middleware and the /metrics
	// scrape endpoint. Default: true.
	EnableMetrics bool

	// EnableTracing mounts the OpenTelemetry middleware.
	// Default: false.
	EnableTracing bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		PageTitle:         "vue app",
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		ShutdownTimeout:   30 * time.Second,
		MaxMessageSize:    64 * 1024,
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		EnableCompression: true,
		EnableMetrics:     true,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	out := *c
	defaults := DefaultConfig()
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.PageTitle == "" {
		out.PageTitle = defaults.PageTitle
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = defaults.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = defaults.MaxMessageSize
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = defaults.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = defaults.WriteBufferSize
	}
	return &out
}
