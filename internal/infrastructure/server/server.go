package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/pacd/internal/api/http"
	"github.com/GriffinCanCode/pacd/internal/api/middleware"
	"github.com/GriffinCanCode/pacd/internal/infrastructure/config"
	"github.com/GriffinCanCode/pacd/internal/infrastructure/logging"
	"github.com/GriffinCanCode/pacd/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/pacd/internal/pac"
	"github.com/GriffinCanCode/pacd/internal/pac/helpers"
	"github.com/GriffinCanCode/pacd/internal/pac/sandbox"
	"github.com/GriffinCanCode/pacd/internal/resolver"
	"github.com/GriffinCanCode/pacd/internal/source"
)

// ShutdownTimeout bounds how long in-flight requests may finish
const ShutdownTimeout = 10 * time.Second

// ErrNoScript is returned when no script location is configured
var ErrNoScript = errors.New("no PAC script configured (set PAC_SCRIPT or --script)")

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	resolver *resolver.Service
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewResolver builds the resolver service described by cfg. The script is
// not loaded until Reload is called.
func NewResolver(cfg *config.Config, logger *zap.Logger, metrics *monitoring.Metrics) (*resolver.Service, error) {
	if cfg.PAC.Script == "" {
		return nil, ErrNoScript
	}

	fetchCfg := source.DefaultFetcherConfig()
	fetchCfg.Timeout = cfg.Fetch.Timeout
	fetchCfg.Retries = cfg.Fetch.Retries
	fetchCfg.UserAgent = cfg.Fetch.UserAgent

	loader := source.NewLoader(source.NewFetcher(fetchCfg, logger), logger)
	library := helpers.New(helpers.Options{Logger: logger})

	evalCfg := pac.DefaultConfig()
	evalCfg.CacheSize = cfg.PAC.CacheSize
	evalCfg.Sandbox = sandbox.Config{
		MaxCallStackSize: cfg.PAC.MaxCallStackSize,
		AllowEval:        cfg.PAC.AllowEval,
		Policy:           sandbox.DefaultPolicy(),
	}

	return resolver.New(resolver.Config{
		Location:    cfg.PAC.Script,
		Evaluator:   evalCfg,
		EvalTimeout: cfg.PAC.EvalTimeout,
		LoadTimeout: cfg.PAC.LoadTimeout,
	}, loader, library, logger, metrics), nil
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	logger.Info("Initializing pacd",
		zap.String("addr", cfg.Addr()),
		zap.String("script", cfg.PAC.Script),
	)

	metrics := monitoring.NewMetrics()

	svc, err := NewResolver(cfg, logger.Logger, metrics)
	if err != nil {
		return nil, err
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Recovery(logger.Logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger.Logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	apihttp.NewHandlers(svc, metrics, logger.Logger).Register(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return &Server{
		router:   router,
		resolver: svc,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

// Resolver returns the resolver service
func (s *Server) Resolver() *resolver.Service {
	return s.resolver
}

// Load performs the initial script load
func (s *Server) Load(ctx context.Context) error {
	if _, err := s.resolver.Reload(ctx); err != nil {
		return fmt.Errorf("initial load of %s: %w", s.config.PAC.Script, err)
	}
	return nil
}

// Run loads the script, starts the watcher for local scripts and serves
// HTTP until ctx is done
func (s *Server) Run(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}

	if s.config.PAC.Watch {
		go func() {
			err := s.resolver.Watch(ctx)
			switch {
			case errors.Is(err, resolver.ErrNotWatchable):
				s.logger.Info("Script is remote, use POST /v1/reload to refresh it")
			case err != nil:
				s.logger.Error("Script watcher stopped", zap.Error(err))
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close flushes the logger
func (s *Server) Close() error {
	_ = s.logger.Sync()
	return nil
}
