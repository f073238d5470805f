// Package server accepts clients one at a time and replays the source file
// to each of them.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tcppub/internal/core/delivery"
	"tcppub/internal/core/source"
	"tcppub/internal/shared/errors"
	"tcppub/internal/shared/logger"
	"tcppub/internal/shared/types"
	"tcppub/internal/sys/sockopt"
)

// ErrServerClosed is returned by Serve after Close or context cancellation.
var ErrServerClosed = stderrors.New("server closed")

const acceptRetryDelay = 50 * time.Millisecond

// Config is the resolved, immutable server configuration.
type Config struct {
	Host                string
	Port                int
	Interval            time.Duration
	Filename            string
	MultiMessage        bool
	Delimiter           string
	Loop                bool
	WriteTimeout        time.Duration
	IsolateSourceErrors bool
}

// Address returns host:port.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// PayloadLoader produces a fresh payload for each accepted connection.
type PayloadLoader interface {
	Load() (*source.Payload, error)
}

// Server replays the source file to one client at a time.
type Server struct {
	cfg          Config
	loader       PayloadLoader
	deliverer    *delivery.Deliverer
	listener     net.Listener
	listenerInfo *types.ListenerInfo
	log          zerolog.Logger

	mu        sync.Mutex // guards listener, listenerInfo and active
	active    net.Conn
	closed    atomic.Bool
	closeOnce sync.Once
}

// New builds a server reading cfg.Filename for every connection.
func New(cfg Config) *Server {
	return NewWithLoader(cfg, source.NewLoader(cfg.Filename, cfg.MultiMessage, cfg.Delimiter))
}

// NewWithLoader builds a server with a custom payload source.
func NewWithLoader(cfg Config, loader PayloadLoader) *Server {
	return &Server{
		cfg:    cfg,
		loader: loader,
		deliverer: delivery.New(delivery.Options{
			Interval:     cfg.Interval,
			Loop:         cfg.Loop,
			WriteTimeout: cfg.WriteTimeout,
		}),
		log: logger.WithComponent("server"),
	}
}

// InitializeListener binds the listening socket with SO_REUSEADDR but does
// not accept. Failures are KindBindFailure.
func (s *Server) InitializeListener(ctx context.Context) (*types.ListenerInfo, error) {
	addr := s.cfg.Address()
	lc := net.ListenConfig{Control: sockopt.ReuseAddrControl}
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.NewError(errors.KindBindFailure, "failed to listen on", addr).Base(err)
	}
	tcpAddr := listener.Addr().(*net.TCPAddr)
	info := &types.ListenerInfo{
		Address: tcpAddr.IP.String(),
		Port:    tcpAddr.Port,
	}
	s.mu.Lock()
	s.listener = listener
	s.listenerInfo = info
	s.mu.Unlock()

	s.log.Info().
		Str("listen_addr", listener.Addr().String()).
		Str("file", s.cfg.Filename).
		Bool("multi_message", s.cfg.MultiMessage).
		Bool("loop", s.cfg.Loop).
		Dur("interval", s.cfg.Interval).
		Msg("server listening")
	return info, nil
}

// GetListenerInfo returns the bound address, or nil before InitializeListener.
func (s *Server) GetListenerInfo() *types.ListenerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenerInfo
}

// Addr returns the listener address, or nil before InitializeListener.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ListenAndServe binds and then serves until a fatal error.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if _, err := s.InitializeListener(ctx); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve runs the blocking accept loop. Connections are handled strictly one
// after another on the calling goroutine. It returns ErrServerClosed after
// Close, or the SourceUnavailable error when source errors are fatal; in
// the latter case the listener is closed before returning.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return stderrors.New("Serve called before InitializeListener")
	}
	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.closed.Load() || stderrors.Is(err, net.ErrClosed) {
				s.log.Info().Msg("listener closed")
				return ErrServerClosed
			}
			s.log.Warn().Err(err).Msg("failed to accept connection")
			time.Sleep(acceptRetryDelay)
			continue
		}
		if err := s.handleConnection(conn); err != nil {
			_ = s.Close()
			return err
		}
	}
}

// Close stops accepting and closes the in-flight connection, if any.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.mu.Lock()
		if s.listener != nil {
			err = s.listener.Close()
		}
		if s.active != nil {
			_ = s.active.Close()
		}
		s.mu.Unlock()
	})
	return err
}

func (s *Server) setActive(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return false
	}
	s.active = conn
	return true
}

func (s *Server) clearActive() {
	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
}

func (s *Server) handleConnection(conn net.Conn) error {
	defer conn.Close()
	if !s.setActive(conn) {
		return nil
	}
	defer s.clearActive()

	l := s.log.With().
		Str("session_id", uuid.NewString()).
		Str("remote_addr", conn.RemoteAddr().String()).
		Logger()
	ctx := l.WithContext(context.Background())
	l.Info().Msg("client connected")

	payload, err := s.loader.Load()
	if err != nil {
		if s.cfg.IsolateSourceErrors {
			l.Error().Err(err).Msg("source unavailable, dropping connection")
			return nil
		}
		return err
	}
	l.Debug().Int("segments", payload.Len()).Int("bytes", payload.Size()).Msg("payload loaded")

	start := time.Now()
	stats, err := s.deliverer.Run(ctx, conn, payload)
	reason := "completed"
	if err != nil {
		reason = "connection closed"
		l.Debug().Err(err).Msg("delivery ended")
	}
	l.Info().
		Str("reason", reason).
		Uint64("bytes", stats.BytesWritten).
		Int64("writes", stats.Writes).
		Int64("rounds", stats.Rounds).
		Dur("duration", time.Since(start)).
		Msg("session finished")
	return nil
}
