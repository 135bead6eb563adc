package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/pacd/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/pacd/internal/pac"
	"github.com/GriffinCanCode/pacd/internal/pac/directive"
	"github.com/GriffinCanCode/pacd/internal/resolver"
)

// Resolver answers queries against the active script.
// *resolver.Service satisfies it.
type Resolver interface {
	FindProxies(ctx context.Context, target *url.URL) (pac.Result, error)
	Status() (resolver.Status, bool)
	Reload(ctx context.Context) (resolver.Status, error)
}

// Handlers contains the HTTP handlers
type Handlers struct {
	resolver Resolver
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandlers creates the handler set
func NewHandlers(r Resolver, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		resolver: r,
		metrics:  metrics,
		logger:   logger.Named("api"),
	}
}

// Register mounts the routes on router
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/health", h.Health)

	v1 := router.Group("/v1")
	v1.GET("/proxy", h.FindProxy)
	v1.GET("/script", h.Script)
	v1.POST("/reload", h.Reload)
	v1.GET("/stats", h.Stats)
}

// ProxyResponse answers a proxy query
type ProxyResponse struct {
	URL       string         `json:"url"`
	Plan      directive.Plan `json:"plan"`
	Directive string         `json:"directive"`
	Outcome   pac.Outcome    `json:"outcome"`
	Failure   string         `json:"failure,omitempty"`
}

// Health handles health check
func (h *Handlers) Health(c *gin.Context) {
	_, loaded := h.resolver.Status()
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"loaded": loaded,
	})
}

// FindProxy returns the plan for the url query parameter. The target is
// stripped of path and credentials before it is echoed back.
func (h *Handlers) FindProxy(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url parameter is required"})
		return
	}

	target, err := url.Parse(raw)
	if err != nil || target.Scheme == "" || target.Host == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url must be absolute, e.g. https://example.com/"})
		return
	}

	res, err := h.resolver.FindProxies(c.Request.Context(), target)
	if errors.Is(err, resolver.ErrNotLoaded) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     err.Error(),
			"directive": res.Plan.String(),
		})
		return
	}

	plan := res.Plan
	if plan == nil {
		plan = directive.Plan{}
	}
	resp := ProxyResponse{
		URL:       pac.StripURL(target),
		Plan:      plan,
		Directive: plan.String(),
		Outcome:   res.Outcome,
	}
	if res.Err != nil {
		resp.Failure = pac.FailureKind(res.Err)
	}
	c.JSON(http.StatusOK, resp)
}

// Script describes the active script
func (h *Handlers) Script(c *gin.Context) {
	status, ok := h.resolver.Status()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": resolver.ErrNotLoaded.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// Reload reloads the script. A rejected script answers 422, a script that
// could not be retrieved 502. Either way the previous script stays active.
func (h *Handlers) Reload(c *gin.Context) {
	status, err := h.resolver.Reload(c.Request.Context())
	if err != nil {
		code := http.StatusBadGateway
		var invalid *pac.ParsingError
		if errors.As(err, &invalid) {
			code = http.StatusUnprocessableEntity
		}
		h.logger.Warn("Reload request failed", zap.Int("status", code), zap.Error(err))
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// Stats returns evaluation counters
func (h *Handlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.GetSnapshot())
}
