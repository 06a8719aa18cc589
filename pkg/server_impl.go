package soaprouter

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// httpServer is the Server implementation wiring a Router (or any
// http.Handler) to HTTP/1.1, h2c, and HTTP/3-over-QUIC transports, in
// the same shape as the ambient framework's httpServer.
type httpServer struct {
	mu      sync.Mutex
	config  ServerConfig
	handler http.Handler
	logger  Logger

	addr    string
	running atomic.Bool

	httpServer   *http.Server
	listener     net.Listener
	http3Server  *http3.Server
	quicListener *quic.EarlyListener

	http2Enabled bool
	quicEnabled  bool
}

func (s *httpServer) EnableHTTP2() Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.http2Enabled = true
	return s
}

func (s *httpServer) EnableQUIC() Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quicEnabled = true
	return s
}

func (s *httpServer) Listen(addr string) error {
	s.logger.Warn("starting SOAP router without TLS; use ListenTLS for production")

	s.mu.Lock()
	if s.running.Load() {
		s.mu.Unlock()
		return errors.New("server is already running")
	}
	s.addr = addr

	listenerConfig := ListenerConfig{Network: "tcp", Address: addr, ReuseAddr: true}
	if s.config.ListenerConfig != nil {
		listenerConfig = *s.config.ListenerConfig
		listenerConfig.Address = addr
	}
	listener, err := CreateListener(listenerConfig)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("create listener: %w", err)
	}
	s.listener = listener
	s.httpServer = s.newHTTPServer()
	s.running.Store(true)
	s.mu.Unlock()

	var serveErr error
	if s.http2Enabled {
		h2s := &http2.Server{}
		serveErr = http.Serve(listener, h2c.NewHandler(s.httpServer.Handler, h2s))
	} else {
		serveErr = s.httpServer.Serve(listener)
	}

	s.running.Store(false)
	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", serveErr)
	}
	return nil
}

func (s *httpServer) ListenTLS(addr, certFile, keyFile string) error {
	s.mu.Lock()
	if s.running.Load() {
		s.mu.Unlock()
		return errors.New("server is already running")
	}
	s.addr = addr

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("load TLS certificates: %w", err)
	}

	tlsConfig := &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}
	if s.config.TLSConfig != nil {
		tlsConfig = s.config.TLSConfig.Clone()
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	s.httpServer = s.newHTTPServer()
	s.httpServer.TLSConfig = tlsConfig
	if s.http2Enabled {
		if err := http2.ConfigureServer(s.httpServer, &http2.Server{}); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("configure HTTP/2: %w", err)
		}
	}
	s.running.Store(true)
	s.mu.Unlock()

	serveErr := s.httpServer.ListenAndServeTLS(certFile, keyFile)
	s.running.Store(false)
	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", serveErr)
	}
	return nil
}

func (s *httpServer) ListenQUIC(addr, certFile, keyFile string) error {
	s.mu.Lock()
	if s.running.Load() {
		s.mu.Unlock()
		return errors.New("server is already running")
	}
	if !s.quicEnabled {
		s.mu.Unlock()
		return errors.New("QUIC is not enabled; call EnableQUIC first")
	}
	s.addr = addr

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("load TLS certificates: %w", err)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		NextProtos:   []string{"h3"},
	}

	quicConfig := &quic.Config{
		MaxIdleTimeout:  s.config.IdleTimeout,
		KeepAlivePeriod: 30 * time.Second,
	}

	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("resolve UDP address: %w", err)
	}
	udpConn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("open UDP listener: %w", err)
	}

	quicListener, err := quic.ListenEarly(udpConn, tlsConfig, quicConfig)
	if err != nil {
		udpConn.Close()
		s.mu.Unlock()
		return fmt.Errorf("create QUIC listener: %w", err)
	}
	s.quicListener = quicListener
	s.http3Server = &http3.Server{Handler: s.handler, TLSConfig: tlsConfig, QUICConfig: quicConfig}
	s.running.Store(true)
	s.mu.Unlock()

	serveErr := s.http3Server.ServeListener(quicListener)
	s.running.Store(false)
	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) && !errors.Is(serveErr, quic.ErrServerClosed) {
		return fmt.Errorf("QUIC server error: %w", serveErr)
	}
	return nil
}

func (s *httpServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if s.http3Server != nil {
		if err := s.http3Server.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.quicListener != nil {
		if err := s.quicListener.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *httpServer) Close() error {
	return s.Shutdown(context.Background())
}

func (s *httpServer) Addr() string { return s.addr }

func (s *httpServer) IsRunning() bool { return s.running.Load() }

func (s *httpServer) newHTTPServer() *http.Server {
	return &http.Server{
		Addr:           s.addr,
		Handler:        s.handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}
}
