package web

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"screener/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// requestLogging logs each request and records its metrics
func requestLogging(log zerolog.Logger, rec *metrics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			latency := time.Since(start)
			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			rec.RecordHTTPRequest(route, req.Method, status, latency)

			ev := log.Debug()
			if status >= http.StatusInternalServerError {
				ev = log.Warn()
			}
			ev.Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("remote", c.RealIP()).
				Int("status", status).
				Dur("latency", latency).
				Msg("http request")

			return nil
		}
	}
}

// recoverer turns a handler panic into a 500 response
func recoverer(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					perr, ok := r.(error)
					if !ok {
						perr = fmt.Errorf("%v", r)
					}
					log.Error().Err(perr).Bytes("stack", debug.Stack()).Msg("panic in handler")
					err = errorResponse(c, http.StatusInternalServerError, fmt.Errorf("internal server error"))
				}
			}()
			return next(c)
		}
	}
}
