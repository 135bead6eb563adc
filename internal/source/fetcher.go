package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/pacd/internal/infrastructure/resilience"
)

// FetcherConfig configures remote script retrieval
type FetcherConfig struct {
	Timeout      time.Duration
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	UserAgent    string
	// Requests per second across all hosts, zero means unlimited
	RateLimit float64
	// Consecutive failures before a host's breaker opens
	TripAfter uint32
	// How long an open breaker rejects requests
	OpenTimeout time.Duration
}

// DefaultFetcherConfig returns production defaults
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		Timeout:      30 * time.Second,
		Retries:      3,
		RetryWaitMin: 500 * time.Millisecond,
		RetryWaitMax: 5 * time.Second,
		UserAgent:    "pacd/1.0",
		RateLimit:    1,
		TripAfter:    5,
		OpenTimeout:  30 * time.Second,
	}
}

// Fetcher downloads scripts over HTTP
type Fetcher struct {
	resty    *resty.Client
	limiter  *rate.Limiter
	breakers *resilience.Group
	logger   *zap.Logger
}

// NewFetcher creates a fetcher with retries, rate limiting and a per-host
// circuit breaker
func NewFetcher(cfg FetcherConfig, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("fetch")

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Retries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = &retryLogger{logger: logger.Sugar()}
	// Surface the last response instead of a generic "giving up" error
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(cfg.Timeout).
		SetResponseBodyLimit(MaxScriptSize).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/x-ns-proxy-autoconfig, application/javascript, text/plain, */*")

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	tripAfter := cfg.TripAfter
	if tripAfter == 0 {
		tripAfter = 5
	}
	breakers := resilience.NewGroup(resilience.Settings{
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
		IsFailure: isFetchFailure,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Script host circuit changed state",
				zap.String("host", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})

	return &Fetcher{
		resty:    restyClient,
		limiter:  limiter,
		breakers: breakers,
		logger:   logger,
	}
}

// Fetch downloads u and returns the body and its Content-Type
func (f *Fetcher) Fetch(ctx context.Context, u *url.URL) ([]byte, string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("rate limit error: %w", err)
	}

	var (
		body        []byte
		contentType string
	)
	err := f.breakers.Get(u.Host).Do(ctx, func(ctx context.Context) error {
		resp, err := f.resty.R().SetContext(ctx).Get(u.String())
		if errors.Is(err, resty.ErrResponseBodyTooLarge) {
			return ErrScriptTooLarge
		}
		if err != nil {
			return fmt.Errorf("fetch %s: %w", u.Redacted(), err)
		}
		if resp.IsError() {
			return &StatusError{URL: u.Redacted(), Status: resp.StatusCode()}
		}
		body = resp.Body()
		contentType = resp.Header().Get("Content-Type")
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	if len(body) > MaxScriptSize {
		return nil, "", ErrScriptTooLarge
	}

	f.logger.Debug("Fetched PAC script",
		zap.String("url", u.Redacted()),
		zap.Int("bytes", len(body)),
		zap.String("content_type", contentType))
	return body, contentType, nil
}

// BreakerState returns the circuit state for host
func (f *Fetcher) BreakerState(host string) resilience.State {
	return f.breakers.Get(host).State()
}

// Client errors say nothing about the host's health
func isFetchFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrScriptTooLarge) {
		return false
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Temporary()
	}
	return true
}

// retryLogger adapts zap to retryablehttp.LeveledLogger
type retryLogger struct {
	logger *zap.SugaredLogger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warnw(msg, keysAndValues...)
}

var _ retryablehttp.LeveledLogger = (*retryLogger)(nil)
