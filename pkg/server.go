package soaprouter

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"
)

// Server hosts a Router over one or more transports: plain HTTP/1.1,
// HTTP/2 cleartext (h2c), and HTTP/3 over QUIC.
type Server interface {
	Listen(addr string) error
	ListenTLS(addr, certFile, keyFile string) error
	ListenQUIC(addr, certFile, keyFile string) error
	Shutdown(ctx context.Context) error
	Close() error

	EnableHTTP2() Server
	EnableQUIC() Server

	Addr() string
	IsRunning() bool
}

// ServerConfig configures a Server's transports and connection
// limits.
type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	MaxHeaderBytes  int
	ShutdownTimeout time.Duration

	EnableHTTP2 bool
	EnableQUIC  bool
	TLSConfig   *tls.Config

	ListenerConfig *ListenerConfig
}

// DefaultServerConfig returns the server's out-of-the-box timeouts,
// matching the ambient framework's documented HTTP server defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		MaxHeaderBytes:  1 << 20,
		ShutdownTimeout: 30 * time.Second,
	}
}

// NewServer constructs a Server hosting handler (ordinarily a
// *Router[S]) under config.
func NewServer(config ServerConfig, handler http.Handler, logger Logger) Server {
	if logger == nil {
		logger = NewLogger(nil)
	}
	return &httpServer{config: config, handler: handler, logger: logger}
}
