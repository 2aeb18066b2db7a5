package proxy

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apisec/sentinel/pkg/config"
	"github.com/apisec/sentinel/pkg/proxy/ca"
	"github.com/apisec/sentinel/pkg/proxy/events"
	"github.com/apisec/sentinel/pkg/proxy/intercept"
)

// Server is the interception proxy. Only one instance may run per
// process; Start reports ErrAlreadyRunning otherwise.
type Server struct {
	cfg config.ProxyConfig

	ca          *ca.Manager
	coordinator *intercept.Coordinator
	hub         *events.Hub
	analyzer    Analyzer
	store       AssetStore
	logger      *slog.Logger

	client *http.Client

	mu        sync.Mutex
	running   bool
	listener  net.Listener
	stopping  atomic.Bool
	wg        sync.WaitGroup
	stoppedCh chan struct{}
}

// NewServer constructs a Server. caMgr is required; analyzer, store, and
// hub may be nil, in which case scanning, persistence, or event
// publishing is skipped.
func NewServer(cfg config.ProxyConfig, caMgr *ca.Manager, hub *events.Hub, analyzer Analyzer, store AssetStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:         cfg,
		ca:          caMgr,
		coordinator: intercept.NewCoordinator(cfg.InterceptionTimeout),
		hub:         hub,
		analyzer:    analyzer,
		store:       store,
		logger:      logger,
		client: &http.Client{
			Timeout: 0, // per-flow suspension has no built-in bound; see spec
			Transport: &http.Transport{
				Proxy:               nil,
				TLSHandshakeTimeout: 15 * time.Second,
			},
		},
	}
}

// SetInterceptionConfig updates which phases are captured/suspended. Safe
// to call while the server is running; takes effect on the next flow.
func (s *Server) SetInterceptionConfig(captureBody, interceptRequests, interceptResponses bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.CaptureBody = captureBody
	s.cfg.InterceptRequests = interceptRequests
	s.cfg.InterceptResponses = interceptResponses
}

// ResolveInterception resolves a pending request or response interception.
// It tries the request table first, then the response table, since a
// correlation id is only ever registered in one of the two.
func (s *Server) ResolveInterception(id string, result intercept.Result) error {
	if err := s.coordinator.Requests.Resolve(id, result); err == nil {
		return nil
	}
	return s.coordinator.Responses.Resolve(id, result)
}

// RootCAPEM returns the proxy's dynamic root certificate in PEM form.
func (s *Server) RootCAPEM() []byte {
	return s.ca.RootPEM()
}

// Start begins accepting connections and blocks until the listener is
// closed by Shutdown or encounters a fatal error.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}

	ln, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("proxy: failed to listen on %s: %w", s.cfg.ListenAddress, err)
	}
	s.listener = ln
	s.running = true
	s.stopping.Store(false)
	s.stoppedCh = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info("interception proxy listening", "address", s.cfg.ListenAddress)

	pollInterval := s.cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}

	// Watchdog: polls the stopping flag every pollInterval and closes the
	// listener to unblock Accept once a shutdown has been requested.
	watchdogDone := make(chan struct{})
	go func() {
		defer close(watchdogDone)
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if s.stopping.Load() {
					_ = ln.Close()
					return
				}
			case <-s.stoppedCh:
				return
			}
		}
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.stopping.Load() {
				break
			}
			s.logger.Warn("accept error", "error", err)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, conn)
		}()
	}

	close(s.stoppedCh)
	<-watchdogDone
	s.wg.Wait()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("interception proxy stopped")
	return nil
}

// Shutdown stops accepting new connections and lets in-flight flows
// complete, bounded by ctx's deadline. Pending interceptions are not
// cancelled explicitly; a disconnected client eventually drops its
// registered channel.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.mu.Unlock()

	s.stopping.Store(true)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the server is currently accepting connections.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Addr returns the address the listener is bound to, once Start has begun
// listening. Used by tests and by callers that bind to an ephemeral port.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
