package pac

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/pacd/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/pacd/internal/pac/cache"
	"github.com/GriffinCanCode/pacd/internal/pac/directive"
	"github.com/GriffinCanCode/pacd/internal/pac/sandbox"
)

// Scripts calling any of these depend on when they run, so their results
// must not be memoized. Matches inside comments or strings count too.
var timeSensitive = regexp.MustCompile(`(timeRange|dateRange|weekdayRange)\s*\(`)

// IsTimeSensitive reports whether source calls a time-dependent helper
func IsTimeSensitive(source string) bool {
	return timeSensitive.MatchString(source)
}

// Outcome describes how a query was answered
type Outcome int

const (
	OutcomeEvaluated Outcome = iota
	OutcomeCached
	OutcomeNoResult
	OutcomeFallback
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEvaluated:
		return monitoring.OutcomeEvaluated
	case OutcomeCached:
		return monitoring.OutcomeCached
	case OutcomeNoResult:
		return monitoring.OutcomeNoResult
	case OutcomeFallback:
		return monitoring.OutcomeFallback
	default:
		return "unknown"
	}
}

// MarshalText renders the outcome name
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Result is the answer to one query. Plan is empty for OutcomeNoResult and
// [DIRECT] for OutcomeFallback, in which case Err says why.
type Result struct {
	Plan    directive.Plan
	Outcome Outcome
	Err     error
}

// Config configures an Evaluator
type Config struct {
	CacheSize int
	Sandbox   sandbox.Config
	Logger    *zap.Logger
	Metrics   *monitoring.Metrics
}

// DefaultConfig returns the default evaluator configuration
func DefaultConfig() Config {
	return Config{
		CacheSize: cache.DefaultCapacity,
		Sandbox:   sandbox.DefaultConfig(),
	}
}

// Evaluator answers proxy queries from one PAC script
type Evaluator struct {
	script  string
	runtime *sandbox.Runtime
	entry   EntryPoint
	cache   *cache.Cache // nil when caching is disabled

	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// New builds an evaluator for script
func New(script string, helpers sandbox.Helpers, cfg Config) (*Evaluator, error) {
	return NewContext(context.Background(), script, helpers, cfg)
}

// NewContext builds an evaluator, bounding the script's top-level code by ctx
func NewContext(ctx context.Context, script string, helpers sandbox.Helpers, cfg Config) (*Evaluator, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("pac")

	cacheable := !IsTimeSensitive(script)

	var results *cache.Cache
	if cacheable {
		size := cfg.CacheSize
		if size == 0 {
			size = cache.DefaultCapacity
		}
		c, err := cache.New(size)
		if err != nil {
			return nil, &ParsingError{Err: err}
		}
		results = c
	}

	rt, err := sandbox.New(ctx, script, helpers, cfg.Sandbox)
	if err != nil {
		return nil, &ParsingError{Err: err}
	}

	entry, err := ResolveEntryPoint(rt)
	if err != nil {
		rt.Close()
		return nil, &ParsingError{Err: err}
	}

	e := &Evaluator{
		script:  script,
		runtime: rt,
		entry:   entry,
		cache:   results,
		logger:  logger,
		metrics: cfg.Metrics,
	}

	logger.Info("PAC script loaded",
		zap.Stringer("entry_point", entry),
		zap.Bool("cache_enabled", cacheable),
		zap.String("engine", sandbox.EngineInfo()),
	)
	return e, nil
}

// FindProxies returns the proxy plan for target. It never fails: any
// problem yields [DIRECT], and a script returning null yields an empty plan.
func (e *Evaluator) FindProxies(target *url.URL) directive.Plan {
	return e.Evaluate(context.Background(), target).Plan
}

// Evaluate answers a query, reporting how the answer was obtained. ctx
// bounds script execution.
func (e *Evaluator) Evaluate(ctx context.Context, target *url.URL) Result {
	timer := monitoring.NewTimer(e.metrics)
	key := CacheKey(target)

	if e.cache != nil {
		plan, ok := e.cache.Get(key)
		e.metrics.RecordCacheLookup(ok)
		if ok {
			timer.Stop(monitoring.OutcomeCached)
			return Result{Plan: plan, Outcome: OutcomeCached}
		}
	}

	res := e.invoke(ctx, target)
	if res.Outcome == OutcomeEvaluated && e.cache != nil {
		e.cache.Put(key, res.Plan)
	}

	timer.Stop(res.Outcome.String())
	return res
}

func (e *Evaluator) invoke(ctx context.Context, target *url.URL) Result {
	raw, err := e.runtime.Invoke(ctx, e.entry.FunctionName(), StripURL(target), Host(target))
	if err != nil {
		return e.fallback(target, err)
	}

	if raw == nil {
		e.logger.Debug("PAC script returned no result", zap.String("url", target.Redacted()))
		return Result{Plan: directive.Plan{}, Outcome: OutcomeNoResult}
	}

	s, ok := raw.(string)
	if !ok {
		return e.fallback(target, &directive.ValidationError{
			Input:  fmt.Sprint(raw),
			Reason: fmt.Sprintf("result is a %T, not a string", raw),
		})
	}

	plan, err := directive.Parse(s)
	if err != nil {
		return e.fallback(target, err)
	}
	return Result{Plan: plan, Outcome: OutcomeEvaluated}
}

// fallback logs err and answers DIRECT
func (e *Evaluator) fallback(target *url.URL, err error) Result {
	kind := FailureKind(err)
	e.metrics.RecordScriptFailure(kind)

	fields := []zap.Field{
		zap.String("url", target.Redacted()),
		zap.String("entry_point", e.entry.FunctionName()),
		zap.String("kind", kind),
		zap.Error(err),
	}
	if kind == FailureSandbox {
		e.logger.Error("PAC script attempted to escape the sandbox, using DIRECT", fields...)
	} else {
		e.logger.Warn("PAC evaluation failed, using DIRECT", fields...)
	}

	return Result{Plan: directive.DirectPlan(), Outcome: OutcomeFallback, Err: err}
}

// EntryPoint returns the calling convention the script implements
func (e *Evaluator) EntryPoint() EntryPoint {
	return e.entry
}

// CacheEnabled reports whether results are memoized
func (e *Evaluator) CacheEnabled() bool {
	return e.cache != nil
}

// CacheLen returns the number of memoized results
func (e *Evaluator) CacheLen() int {
	if e.cache == nil {
		return 0
	}
	return e.cache.Len()
}

// Script returns the source the evaluator was built from
func (e *Evaluator) Script() string {
	return e.script
}

// EngineInfo describes the JavaScript engine
func (e *Evaluator) EngineInfo() string {
	return sandbox.EngineInfo()
}

// Close releases the script runtime. Queries after Close answer DIRECT.
func (e *Evaluator) Close() error {
	return e.runtime.Close()
}

// Timed wraps Evaluate with a deadline; a zero timeout means none
func (e *Evaluator) Timed(ctx context.Context, target *url.URL, timeout time.Duration) Result {
	if timeout <= 0 {
		return e.Evaluate(ctx, target)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return e.Evaluate(ctx, target)
}
