package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/vocdoni/staticd/api"
	"github.com/vocdoni/staticd/log"
)

// APIService represents a service that manages the admin HTTP API server.
type APIService struct {
	API     *api.API
	files   api.FileServer
	mu      sync.Mutex
	cancel  context.CancelFunc
	host    string
	port    int
	version string
}

// NewAPI creates a new APIService instance.
func NewAPI(files api.FileServer, host string, port int, version string, disableLogging bool) *APIService {
	if disableLogging {
		api.DisabledLogging = disableLogging
		log.Debugw("API logging is disabled")
	}
	return &APIService{
		files:   files,
		host:    host,
		port:    port,
		version: version,
	}
}

// Start begins the API server. It returns an error if the service
// is already running or if it fails to start.
func (as *APIService) Start(ctx context.Context) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		return fmt.Errorf("service already running")
	}

	ctx, as.cancel = context.WithCancel(ctx)

	var err error
	as.API, err = api.New(ctx, &api.APIConfig{
		Host:       as.host,
		Port:       as.port,
		FileServer: as.files,
		Version:    as.version,
	})
	if err != nil {
		as.cancel()
		as.cancel = nil
		return fmt.Errorf("failed to start API server: %w", err)
	}
	return nil
}

// Stop halts the API server.
func (as *APIService) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		as.cancel()
		as.cancel = nil
	}
}

// HostPort returns the host and port of the API server.
func (as *APIService) HostPort() (string, int) {
	return as.host, as.port
}
