package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"hilltop/internal/utils"

	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

type contextKey string

const contextKeyRequestID contextKey = "request_id"

const headerRequestID = "X-Request-ID"

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// wrapResponseWriter reuses a writer already wrapped further out so every
// layer sees the same status.
func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}

// RequestIDMiddleware tags the request with an id, reusing a short incoming
// X-Request-ID, and echoes it on the response.
func (s *Service) RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" || len(id) > 64 {
			id = utils.NanoID()
		}

		w.Header().Set(headerRequestID, id)

		ctx := context.WithValue(r.Context(), contextKeyRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := wrapResponseWriter(w)

		next.ServeHTTP(rw, r)

		entry := s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
			"request_id":  requestIDFromContext(r.Context()),
		})

		if rw.statusCode >= http.StatusInternalServerError {
			entry.Warn("http request")
			return
		}
		entry.Info("http request")
	})
}

// RecoverMiddleware turns a panicking handler into a 500 response.
func (s *Service) RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := wrapResponseWriter(w)

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			s.logger.WithFields(logrus.Fields{
				"request_id": requestIDFromContext(r.Context()),
				"panic":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
			}).Error("handler panicked")

			if !rw.wroteHeader {
				s.writeJSON(rw, r, http.StatusInternalServerError, errorResponse{
					Message: "Internal server error",
				})
			}
		}()

		next.ServeHTTP(rw, r)
	})
}

// instrument records request count, latency and in-flight requests for one
// route.
func (s *Service) instrument(route string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := wrapResponseWriter(w)

		s.metrics.ConnectionOpened()
		defer s.metrics.ConnectionClosed()

		next.ServeHTTP(rw, r)

		s.metrics.ObserveHTTPRequest(r.Method, route, rw.statusCode, time.Since(started))
	})
}

// HandleCORS lets the configured browser origins call the API. It is a no-op
// when no origins are configured.
func (s *Service) HandleCORS(next http.Handler) http.Handler {
	if len(s.config.CORSAllowedOrigins) == 0 {
		return next
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", headerRequestID},
		ExposedHeaders:   []string{headerRequestID},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}

// NoStore marks API responses as uncacheable.
func (s *Service) NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// StripTrailingSlash redirects GET and HEAD requests to the path without the
// trailing slash. Other methods pass through unchanged.
func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path != "/" && strings.HasSuffix(path, "/") && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
			newURL := *r.URL
			newURL.Path = strings.TrimRight(path, "/")
			if newURL.Path == "" {
				newURL.Path = "/"
			}

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
