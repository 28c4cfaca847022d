package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/securematch/securematch/application/port/inbound"
	domainerr "github.com/securematch/securematch/domain/error"
	"github.com/securematch/securematch/infrastructure/http/response"
	"github.com/securematch/securematch/infrastructure/service/logger"
)

// RateLimitRule bounds one class of requests per client IP.
type RateLimitRule struct {
	Name          string
	Limit         int
	Window        time.Duration
	BlockDuration time.Duration
}

type RateLimitMiddleware struct {
	rateLimitService inbound.RateLimitService
	clientIP         *ClientIPResolver
	logger           logger.Logger
}

// NewRateLimitMiddleware keys limits by client IP. With a nil resolver the
// peer address is used and forwarding headers are ignored.
func NewRateLimitMiddleware(rateLimitService inbound.RateLimitService, clientIP *ClientIPResolver, log logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		clientIP:         clientIP,
		logger:           log,
	}
}

// Limit counts every request, including ones later rejected by the handler.
// Limiter failures let the request through.
func (m *RateLimitMiddleware) Limit(rule RateLimitRule) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.rateLimitService == nil || rule.Limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			clientIP := m.clientIP.ClientIP(r)
			key := fmt.Sprintf("%s:ip:%s", rule.Name, clientIP)
			traceID := logger.CorrelationIDFromContext(ctx)

			isBlocked, err := m.rateLimitService.IsBlocked(ctx, key)
			if err != nil {
				m.logger.Error(ctx, "Failed to check block status", err, map[string]interface{}{
					"ip":  clientIP,
					"key": key,
				})
			}
			if isBlocked {
				logger.LogSecurityEvent(ctx, m.logger, "rate_limit_blocked", "MEDIUM", map[string]interface{}{
					"ip":   clientIP,
					"path": r.URL.Path,
					"key":  key,
				})
				w.Header().Set("Retry-After", strconv.Itoa(int(rule.BlockDuration.Seconds())))
				response.AppError(w, domainerr.ErrRateLimitExceeded(rule.BlockDuration.String()), traceID)
				return
			}

			allowed, err := m.rateLimitService.CheckLimit(ctx, key, rule.Limit, rule.Window)
			if err != nil {
				m.logger.Error(ctx, "Failed to check rate limit", err, map[string]interface{}{
					"ip":  clientIP,
					"key": key,
				})
				allowed = true
			}

			if !allowed {
				if rule.BlockDuration > 0 {
					if err := m.rateLimitService.Block(ctx, key, rule.BlockDuration, "Rate limit exceeded"); err != nil {
						m.logger.Error(ctx, "Failed to block IP", err, map[string]interface{}{
							"ip":  clientIP,
							"key": key,
						})
					}
				}

				logger.LogSecurityEvent(ctx, m.logger, "rate_limit_exceeded", "HIGH", map[string]interface{}{
					"ip":        clientIP,
					"path":      r.URL.Path,
					"key":       key,
					"userAgent": r.UserAgent(),
				})

				retry := rule.BlockDuration
				if retry <= 0 {
					retry = rule.Window
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
				response.AppError(w, domainerr.ErrRateLimitExceeded(rule.Window.String()), traceID)
				return
			}

			if err := m.rateLimitService.Increment(ctx, key, rule.Window); err != nil {
				m.logger.Error(ctx, "Failed to increment rate limit", err, map[string]interface{}{
					"ip":  clientIP,
					"key": key,
				})
			}

			next.ServeHTTP(w, r)
		})
	}
}
