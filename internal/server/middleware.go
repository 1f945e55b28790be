package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/openfra/fra-atlas/internal/worker"
)

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogRemoteIP: true,
		LogLatency:  true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			log.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	})
}

func securityHeaders() echo.MiddlewareFunc {
	return middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	})
}

// rateLimit throttles clients per IP. Quota headers mirror what upstream
// data portals send so frontends can reuse their backoff logic.
func (s *Server) rateLimit() echo.MiddlewareFunc {
	requests := s.cfg.RateLimit.ServerRequests
	window := s.cfg.RateLimit.ServerWindow
	if requests <= 0 || window <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	limiter := worker.NewLimiter(float64(requests)/float64(window), requests)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if !limiter.Allow(ip) {
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", window))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "Rate limit exceeded",
					"message":     fmt.Sprintf("Maximum %d requests per %d seconds", requests, window),
					"retry_after": window,
				})
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", fmt.Sprintf("%d", requests))
			h.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", int(limiter.Tokens(ip))))
			h.Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Unix()+int64(window)))
			return next(c)
		}
	}
}

const roleKey = "role"

// requireRole guards a route behind bearer token auth. An empty token table
// disables auth entirely so demo deployments stay open.
func (s *Server) requireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(s.cfg.Server.Tokens) == 0 {
				return next(c)
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return s.handleError(c, nil, "Missing bearer token", http.StatusUnauthorized)
			}

			role, ok := s.cfg.Server.Tokens[token]
			if !ok {
				return s.handleError(c, nil, "Invalid token", http.StatusUnauthorized)
			}

			allowed := false
			for _, r := range roles {
				if r == role {
					allowed = true
					break
				}
			}
			if !allowed {
				return s.handleError(c, nil, fmt.Sprintf("Role %q is not permitted here", role), http.StatusForbidden)
			}

			c.Set(roleKey, role)
			return next(c)
		}
	}
}

// httpMetrics records request counts and latency per route template.
func (s *Server) httpMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			s.metrics.RecordHTTPRequest(c.Request().Method, path, status, time.Since(start).Seconds())
			return err
		}
	}
}
