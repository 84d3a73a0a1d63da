package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/bloomgen/internal/auth"
	"github.com/dgallion1/bloomgen/internal/logger"
	"github.com/dgallion1/bloomgen/internal/session"
)

type ctxKey int

const sessionKey ctxKey = iota

// SessionMiddleware resolves the bearer token to a stored session.
func SessionMiddleware(tokens *auth.TokenIssuer, store session.Store, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				jsonError(w, "missing authorization", http.StatusUnauthorized)
				return
			}
			claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				jsonError(w, "invalid token", http.StatusUnauthorized)
				return
			}
			sess, err := store.Get(r.Context(), claims.ID)
			if errors.Is(err, session.ErrSessionNotFound) {
				jsonError(w, "session expired", http.StatusUnauthorized)
				return
			}
			if err != nil {
				log.Error("session lookup failed", "session", claims.ID, "error", err)
				jsonError(w, "session store unavailable", http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
		})
	}
}

// RequirePermission rejects sessions whose role fails allow.
func RequirePermission(allow func(auth.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := sessionFrom(r.Context())
			if !ok {
				jsonError(w, "missing session", http.StatusUnauthorized)
				return
			}
			if !allow(auth.Role(sess.Role)) {
				jsonError(w, "forbidden for role "+sess.Role, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionFrom(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(session.Session)
	return sess, ok
}

// RequestLogger logs incoming requests.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: 200}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
