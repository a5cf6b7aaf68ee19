package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/vocdoni/staticd/accesslog"
	"github.com/vocdoni/staticd/content"
	"github.com/vocdoni/staticd/log"
	"github.com/vocdoni/staticd/server"
)

// HTTPDService owns the file server and its access log. Start provisions the
// web root, opens the access log and starts listening; Stop undoes it in
// reverse order.
type HTTPDService struct {
	Server *server.Server

	conf         server.Config
	accessLogDir string
	accessLog    *accesslog.DailyFile
	mu           sync.Mutex
	running      bool
}

// NewHTTPD creates a new HTTPDService. When accessLogDir is empty requests
// are only reported to the structured logger.
func NewHTTPD(conf server.Config, accessLogDir string) *HTTPDService {
	return &HTTPDService{
		conf:         conf,
		accessLogDir: accessLogDir,
	}
}

// Start provisions the web root and starts the file server.
func (hs *HTTPDService) Start(ctx context.Context) error {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	if hs.running {
		return fmt.Errorf("service already running")
	}
	if err := content.Provision(hs.conf.WebRoot); err != nil {
		return fmt.Errorf("failed to provision web root: %w", err)
	}

	sinks := accesslog.MultiSink{accesslog.LoggerSink{}}
	var daily *accesslog.DailyFile
	if hs.accessLogDir != "" {
		var err error
		if daily, err = accesslog.NewDailyFile(hs.accessLogDir); err != nil {
			return fmt.Errorf("failed to open access log: %w", err)
		}
		sinks = append(sinks, daily)
		log.Infow("access log enabled", "dir", hs.accessLogDir)
	}

	srv, err := server.New(&hs.conf, sinks)
	if err == nil {
		err = srv.Start(ctx)
	}
	if err != nil {
		if daily != nil {
			_ = daily.Close()
		}
		return fmt.Errorf("failed to start file server: %w", err)
	}
	hs.Server = srv
	hs.accessLog = daily
	hs.running = true
	return nil
}

// Stop halts the file server, waiting for in-flight requests, and closes the
// access log.
func (hs *HTTPDService) Stop() {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	if !hs.running {
		return
	}
	hs.Server.Stop()
	if hs.accessLog != nil {
		if err := hs.accessLog.Close(); err != nil {
			log.Warnw("failed to close access log", "error", err)
		}
		hs.accessLog = nil
	}
	hs.running = false
}
