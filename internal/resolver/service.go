package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/GriffinCanCode/pacd/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/pacd/internal/pac"
	"github.com/GriffinCanCode/pacd/internal/pac/directive"
	"github.com/GriffinCanCode/pacd/internal/pac/sandbox"
	"github.com/GriffinCanCode/pacd/internal/shared/utils"
	"github.com/GriffinCanCode/pacd/internal/source"
)

const (
	// DefaultDebounce collapses the burst of events editors emit on save
	DefaultDebounce = 250 * time.Millisecond
	// DefaultLoadTimeout bounds a whole reload: retrieval plus evaluator build
	DefaultLoadTimeout = 2 * time.Minute
	// DefaultBuildTimeout bounds the script's top-level code when no
	// evaluation timeout is configured
	DefaultBuildTimeout = 5 * time.Second
)

var (
	ErrNotLoaded    = errors.New("no PAC script loaded")
	ErrNotWatchable = errors.New("script location is not a local file")
)

// ScriptLoader fetches script text. *source.Loader satisfies it.
type ScriptLoader interface {
	Load(ctx context.Context, location string) (*source.Script, error)
}

// Config configures the service
type Config struct {
	Location    string
	Evaluator   pac.Config
	EvalTimeout time.Duration
	LoadTimeout time.Duration
	Debounce    time.Duration
}

// Status describes the active script
type Status struct {
	Location     string         `json:"location"`
	Checksum     string         `json:"checksum"`
	Charset      string         `json:"charset"`
	LoadedAt     time.Time      `json:"loaded_at"`
	EntryPoint   pac.EntryPoint `json:"entry_point"`
	CacheEnabled bool           `json:"cache_enabled"`
	CachedPlans  int            `json:"cached_plans"`
	Engine       string         `json:"engine"`
}

type active struct {
	script    *source.Script
	evaluator *pac.Evaluator
}

// Service owns the current evaluator
type Service struct {
	cfg     Config
	loader  ScriptLoader
	helpers sandbox.Helpers
	logger  *zap.Logger
	metrics *monitoring.Metrics

	current atomic.Pointer[active]
	reloads singleflight.Group
}

// New creates a service. Nothing is loaded until Reload is called.
func New(cfg Config, loader ScriptLoader, helpers sandbox.Helpers, logger *zap.Logger, metrics *monitoring.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultLoadTimeout
	}
	if cfg.Evaluator.Logger == nil {
		cfg.Evaluator.Logger = logger
	}
	if cfg.Evaluator.Metrics == nil {
		cfg.Evaluator.Metrics = metrics
	}

	return &Service{
		cfg:     cfg,
		loader:  loader,
		helpers: helpers,
		logger:  logger.Named("resolver"),
		metrics: metrics,
	}
}

// Reload loads the script and swaps in a new evaluator. Concurrent calls
// share one load, which runs detached from any caller's context and is
// bounded by LoadTimeout; a caller whose ctx ends stops waiting without
// aborting it. On failure the previous evaluator stays active. An
// unchanged script keeps the current evaluator and its cache.
func (s *Service) Reload(ctx context.Context) (Status, error) {
	ch := s.reloads.DoChan("reload", func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.LoadTimeout)
		defer cancel()
		return s.reload(loadCtx)
	})

	select {
	case <-ctx.Done():
		return Status{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			s.logger.Debug("Joined in-flight reload")
		}
		if res.Err != nil {
			return Status{}, res.Err
		}
		return res.Val.(Status), nil
	}
}

func (s *Service) reload(ctx context.Context) (Status, error) {
	script, err := s.loader.Load(ctx, s.cfg.Location)
	if err != nil {
		s.metrics.RecordScriptLoad(false)
		s.logger.Error("Failed to load PAC script, keeping previous", zap.String("location", s.cfg.Location), zap.Error(err))
		return Status{}, fmt.Errorf("load script: %w", err)
	}

	if cur := s.current.Load(); cur != nil && cur.script.Checksum == script.Checksum {
		s.logger.Debug("PAC script unchanged", zap.String("checksum", utils.ShortHash(script.Checksum)))
		return statusOf(cur), nil
	}

	buildTimeout := s.cfg.EvalTimeout
	if buildTimeout <= 0 {
		buildTimeout = DefaultBuildTimeout
	}
	buildCtx, cancel := context.WithTimeout(ctx, buildTimeout)
	defer cancel()

	evaluator, err := pac.NewContext(buildCtx, script.Body, s.helpers, s.cfg.Evaluator)
	if err != nil {
		s.metrics.RecordScriptLoad(false)
		s.logger.Error("Rejected PAC script, keeping previous", zap.String("location", s.cfg.Location), zap.Error(err))
		return Status{}, err
	}

	next := &active{script: script, evaluator: evaluator}
	// In-flight queries may still hold the previous evaluator, so it is
	// left for the garbage collector rather than closed
	s.current.Store(next)

	s.metrics.RecordScriptLoad(true)
	s.metrics.SetCacheEnabled(evaluator.CacheEnabled())
	s.logger.Info("Activated PAC script",
		zap.String("location", s.cfg.Location),
		zap.String("checksum", utils.ShortHash(script.Checksum)),
		zap.Stringer("entry_point", evaluator.EntryPoint()))
	return statusOf(next), nil
}

// FindProxies answers a query with the active evaluator, bounded by the
// configured timeout. Without a loaded script it answers DIRECT and
// returns ErrNotLoaded.
func (s *Service) FindProxies(ctx context.Context, target *url.URL) (pac.Result, error) {
	cur := s.current.Load()
	if cur == nil {
		return pac.Result{Plan: directive.DirectPlan(), Outcome: pac.OutcomeFallback, Err: ErrNotLoaded}, ErrNotLoaded
	}
	return cur.evaluator.Timed(ctx, target, s.cfg.EvalTimeout), nil
}

// Status describes the active script
func (s *Service) Status() (Status, bool) {
	cur := s.current.Load()
	if cur == nil {
		return Status{}, false
	}
	return statusOf(cur), true
}

// Script returns the active script
func (s *Service) Script() (*source.Script, bool) {
	cur := s.current.Load()
	if cur == nil {
		return nil, false
	}
	return cur.script, true
}

// Location returns where the script is loaded from
func (s *Service) Location() string {
	return s.cfg.Location
}

func statusOf(a *active) Status {
	return Status{
		Location:     a.script.Location,
		Checksum:     a.script.Checksum,
		Charset:      a.script.Charset,
		LoadedAt:     a.script.LoadedAt,
		EntryPoint:   a.evaluator.EntryPoint(),
		CacheEnabled: a.evaluator.CacheEnabled(),
		CachedPlans:  a.evaluator.CacheLen(),
		Engine:       a.evaluator.EngineInfo(),
	}
}

// Watch reloads the script whenever its file changes, until ctx is done.
// The parent directory is watched so editors that replace the file by
// rename are followed.
func (s *Service) Watch(ctx context.Context) error {
	path, ok := source.LocalPath(s.cfg.Location)
	if !ok {
		return ErrNotWatchable
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	s.logger.Info("Watching PAC script", zap.String("path", abs))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.cfg.Debounce)
			} else {
				timer.Reset(s.cfg.Debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("Script watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			if _, err := s.Reload(ctx); err != nil {
				s.logger.Warn("Reload after change failed", zap.Error(err))
			}
		}
	}
}
