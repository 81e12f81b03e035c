package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/deppfellow/sportspredict/internal/errs"
	"github.com/deppfellow/sportspredict/internal/metrics"
	"github.com/deppfellow/sportspredict/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware limits each client IP to MaxRequests per Window.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns the limiter. Each client gets a token bucket of MaxRequests
// tokens refilled evenly over Window; idle buckets are dropped after Window.
// Disabled configs yield a pass-through.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	cfg := r.server.Config.Server.RateLimit
	if !cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(cfg.MaxRequests) / cfg.Window.Seconds()),
		Burst:     cfg.MaxRequests,
		ExpiresIn: cfg.Window,
	})

	retryAfter := retryAfterSeconds(cfg.Window, cfg.MaxRequests)

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "Unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			GetLogger(c).Warn().
				Str("client", identifier).
				Msg("rate limit exceeded")

			return errs.NewTooManyRequestsError("Too many requests, please try again later", retryAfter)
		},
	})
}

// retryAfterSeconds is the time for one token to refill, rounded up.
func retryAfterSeconds(window time.Duration, maxRequests int) string {
	secs := math.Ceil(window.Seconds() / float64(maxRequests))
	return strconv.Itoa(max(int(secs), 1))
}

// RecordRateLimitHit counts a rejection and reports it to New Relic when an
// application is configured.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	metrics.RateLimited.Inc()

	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]any{
			"endpoint": endpoint,
		})
	}
}
