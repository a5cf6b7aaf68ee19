package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vocdoni/staticd/log"
	"github.com/vocdoni/staticd/server"
)

const (
	maxRequestBodyLog = 512 // Maximum length of request body to log
	shutdownTimeout   = 5 * time.Second
)

// FileServer is the part of the file server exposed by the API.
type FileServer interface {
	Stats() server.StatsSnapshot
	WebRoot() string
}

// APIConfig type represents the configuration for the admin API HTTP server.
type APIConfig struct {
	Host       string
	Port       int // 0 picks a free port
	FileServer FileServer
	Version    string
}

// API type represents the admin HTTP server. It reports the state of the
// file server and is meant to be bound to a private address.
type API struct {
	router     *chi.Mux
	httpServer *http.Server
	listener   net.Listener
	files      FileServer
	version    string
	started    time.Time
}

// New creates a new API instance with the given configuration and starts
// serving it. The server is shut down when ctx is cancelled.
func New(ctx context.Context, conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.FileServer == nil {
		return nil, fmt.Errorf("missing file server instance")
	}
	a := &API{
		files:   conf.FileServer,
		version: conf.Version,
		started: time.Now(),
	}
	a.initRouter()

	addr := net.JoinHostPort(conf.Host, strconv.Itoa(conf.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	a.listener = ln
	a.httpServer = &http.Server{
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infow("starting API server", "address", ln.Addr().String())
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw(err, "API server failed")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warnw("failed to shut down API server", "error", err)
		}
	}()
	return a, nil
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// Addr returns the address the API is listening on.
func (a *API) Addr() net.Addr {
	return a.listener.Addr()
}

// registerHandlers registers all the HTTP handlers for the API endpoints.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})
	log.Infow("register handler", "endpoint", StatsEndpoint, "method", "GET")
	a.router.Get(StatsEndpoint, a.stats)
	log.Infow("register handler", "endpoint", InfoEndpoint, "method", "GET")
	a.router.Get(InfoEndpoint, a.info)

	a.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		ErrResourceNotFound.Withf("no endpoint %s", r.URL.Path).Write(w)
	})
	a.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ErrMethodNotAllowed.Withf("%s %s", r.Method, r.URL.Path).Write(w)
	})
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}).Handler)
	a.router.Use(loggingMiddleware(maxRequestBodyLog))
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.Timeout(10 * time.Second))

	a.registerHandlers()
}
