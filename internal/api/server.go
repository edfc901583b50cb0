package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/casos-demo/casos-core/internal/auth"
	"github.com/casos-demo/casos-core/internal/caso"
	"github.com/casos-demo/casos-core/internal/infrastructure/config"
	"github.com/casos-demo/casos-core/internal/infrastructure/database"
	"github.com/casos-demo/casos-core/internal/infrastructure/logging"
	"github.com/casos-demo/casos-core/internal/infrastructure/ratelimit"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// EventPublisher publishes case events to an external bus.
// Implemented by *mqtt.Client.
type EventPublisher interface {
	PublishEvent(action string, v any) error
	IsConnected() bool
}

// OperationRecorder records case-store operation metrics.
// Implemented by *influxdb.Client.
type OperationRecorder interface {
	WriteCaseOperation(operation, outcome string, took time.Duration)
	WriteCaseCount(count int)
	IsConnected() bool
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config    config.APIConfig
	WS        config.WebSocketConfig
	Security  config.SecurityConfig
	Logger    *logging.Logger
	Store     *caso.Store
	Gate      *auth.Gate
	DB        *database.DB               // optional, reported by /metrics
	Events    EventPublisher             // optional
	Metrics   OperationRecorder          // optional
	Limiter   *ratelimit.Limiter         // optional, nil disables rate limiting
	RateStats ratelimit.Recorder         // optional
	KeyFunc   func(*http.Request) string // optional, defaults to ratelimit.KeyFunc
	Version   string
}

// Server is the HTTP API server for the casos backend.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	wsCfg     config.WebSocketConfig
	secCfg    config.SecurityConfig
	logger    *logging.Logger
	store     *caso.Store
	gate      *auth.Gate
	db        *database.DB
	events    EventPublisher
	metrics   OperationRecorder
	limiter   *ratelimit.Limiter
	rateStats ratelimit.Recorder
	clientKey func(*http.Request) string
	version   string
	startTime time.Time

	server  *http.Server
	hub     *Hub
	tickets *ticketStore
	cancel  context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called. The WebSocket hub is
// created here so handlers can broadcast before the listener is up.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("caso store is required")
	}
	if deps.Gate == nil {
		return nil, fmt.Errorf("auth gate is required")
	}

	keyFn := deps.KeyFunc
	if keyFn == nil {
		keyFn = ratelimit.KeyFunc(deps.Security.RateLimit.TrustXForwardedFor)
	}

	return &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		secCfg:    deps.Security,
		logger:    deps.Logger,
		store:     deps.Store,
		gate:      deps.Gate,
		db:        deps.DB,
		events:    deps.Events,
		metrics:   deps.Metrics,
		limiter:   deps.Limiter,
		rateStats: deps.RateStats,
		clientKey: keyFn,
		version:   deps.Version,
		startTime: time.Now(),
		hub:       NewHub(deps.WS, deps.Logger),
		tickets:   newTicketStore(),
	}, nil
}

// Start begins listening for HTTP connections.
//
// It starts the WebSocket hub, the ticket and rate-limit janitors, and
// launches the HTTP listener in a background goroutine. The server can be
// stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	go s.hub.Run(srvCtx)
	go s.cleanTicketsLoop(srvCtx)
	if s.limiter != nil {
		s.limiter.StartJanitor(srvCtx)
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}
