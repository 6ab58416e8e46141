package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type contextKey string

const usernameKey contextKey = "username"

// usernameFromContext returns the token subject put there by requireAuth or optionalAuth.
func usernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok && username != ""
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
// present is false when no Authorization header was sent at all.
func bearerToken(r *http.Request) (token string, present bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", true
	}
	return strings.TrimSpace(token), true
}

// requireAuth rejects the request with 401 unless it carries a valid access token.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _ := bearerToken(r)
		if token == "" {
			respondWithError(w, http.StatusUnauthorized, "Not Authorized")
			return
		}
		s.serveAuthenticated(w, r, next, token)
	})
}

// optionalAuth lets anonymous requests through but still rejects a bad token.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, present := bearerToken(r)
		if !present {
			next.ServeHTTP(w, r)
			return
		}
		if token == "" {
			respondWithError(w, http.StatusUnauthorized, "Not Authorized")
			return
		}
		s.serveAuthenticated(w, r, next, token)
	})
}

func (s *Server) serveAuthenticated(w http.ResponseWriter, r *http.Request, next http.Handler, token string) {
	username, err := s.userService.Authenticate(token)
	if err != nil {
		slog.DebugContext(r.Context(), "token rejected", slog.Any("error", err))
		respondWithError(w, http.StatusUnauthorized, "Not Authorized")
		return
	}
	ctx := context.WithValue(r.Context(), usernameKey, username)
	next.ServeHTTP(w, r.WithContext(ctx))
}

// requestLogger writes one structured line per request and feeds the request metrics.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.RecordRequest(r.Method, route, status, duration)

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}
		s.logger.LogAttrs(r.Context(), level, "http_request",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Float64("duration_ms", float64(duration.Microseconds())/1000),
		)
	})
}
