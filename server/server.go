// Package server accepts TCP connections and answers one HTTP/1.1 request
// per connection with a file from the web root.
//
// Each accepted connection is handled on its own goroutine. A failing or
// panicking handler only affects its own connection.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/vocdoni/staticd/accesslog"
	"github.com/vocdoni/staticd/content"
	"github.com/vocdoni/staticd/log"
	"golang.org/x/sync/semaphore"
)

// Config holds the server settings. It is read-only once the server starts.
type Config struct {
	Host    string
	Port    int // 0 picks a free port
	WebRoot string
	// ReadTimeout and WriteTimeout bound the time spent reading the request
	// and writing the response. Zero means no deadline.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// MaxConnections limits the number of connections handled at the same
	// time. Zero means unbounded.
	MaxConnections int64
	// GzipCacheSize is the number of compressed bodies kept in memory. Zero
	// disables the cache.
	GzipCacheSize int
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Server is the listener loop.
type Server struct {
	conf  Config
	sink  accesslog.Sink
	stats Stats
	gzip  *content.GzipCache
	sem   *semaphore.Weighted

	mu       sync.Mutex
	listener net.Listener
	cancel   context.CancelFunc
	conns    sync.WaitGroup
	done     chan struct{}
}

// New returns a server for conf that reports every handled request to sink.
func New(conf *Config, sink accesslog.Sink) (*Server, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing server configuration")
	}
	if conf.WebRoot == "" {
		return nil, fmt.Errorf("missing web root")
	}
	if conf.Port < 0 || conf.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", conf.Port)
	}
	if sink == nil {
		sink = accesslog.LoggerSink{}
	}
	s := &Server{
		conf: *conf,
		sink: sink,
	}
	if conf.GzipCacheSize > 0 {
		var err error
		if s.gzip, err = content.NewGzipCache(conf.GzipCacheSize); err != nil {
			return nil, err
		}
	}
	if conf.MaxConnections > 0 {
		s.sem = semaphore.NewWeighted(conf.MaxConnections)
	}
	return s, nil
}

// Start binds the listening socket and starts accepting connections in the
// background. Bind errors are returned. The server stops when ctx is
// cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("server already running")
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.conf.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.conf.Address(), err)
	}
	ctx, cancel := context.WithCancel(ctx)
	s.listener = ln
	s.cancel = cancel
	s.done = make(chan struct{})

	log.Infow("file server listening",
		"address", ln.Addr().String(),
		"webRoot", s.conf.WebRoot,
		"maxConnections", s.conf.MaxConnections)

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	go s.acceptLoop(ctx, ln, s.done)
	return nil
}

// acceptLoop waits for connections and hands each one to its own handler
// goroutine. It only returns once the listener is closed.
func (s *Server) acceptLoop(ctx context.Context, ln net.Listener, done chan struct{}) {
	defer close(done)
	for {
		if s.sem != nil {
			if err := s.sem.Acquire(ctx, 1); err != nil {
				return
			}
		}
		conn, err := ln.Accept()
		if err != nil {
			if s.sem != nil {
				s.sem.Release(1)
			}
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return
			}
			log.Warnw("failed to accept connection", "error", err)
			continue
		}
		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			if s.sem != nil {
				defer s.sem.Release(1)
			}
			s.handle(conn)
		}()
	}
}

// Addr returns the address the server is listening on, or nil if it is not
// running.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stats returns the current request counters.
func (s *Server) Stats() StatsSnapshot {
	return s.stats.Snapshot()
}

// WebRoot returns the directory files are served from.
func (s *Server) WebRoot() string {
	return s.conf.WebRoot
}

// Stop closes the listener and waits for in-flight connections to finish.
func (s *Server) Stop() {
	s.mu.Lock()
	if s.listener == nil {
		s.mu.Unlock()
		return
	}
	s.cancel()
	done := s.done
	s.listener = nil
	s.cancel = nil
	s.mu.Unlock()

	<-done
	s.conns.Wait()
	log.Infow("file server stopped", "stats", s.stats.Snapshot())
}
