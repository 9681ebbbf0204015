package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nazmulrahman/young-star-app/internal/auth"
	"github.com/nazmulrahman/young-star-app/pkg/ctxdata"
	"github.com/nazmulrahman/young-star-app/pkg/logging"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func NewLoggingMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			traceID, err := uuid.NewV7()
			if err != nil {
				traceID = uuid.New()
			}

			ctx := ctxdata.WithTraceID(r.Context(), traceID.String())
			ctx = logging.ContextWithLogger(ctx, logger)
			r = r.WithContext(ctx)

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			w.Header().Set("X-Trace-Id", traceID.String())

			next.ServeHTTP(sw, r)

			logger.Info(ctx, "request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// requirePrincipal verifies the bearer session token and stashes the
// principal; it does not touch the profile store.
func (p *Portal) requirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeErrorStatus(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		principal, err := auth.ParseSessionToken(p.secret, token)
		if err != nil {
			writeErrorStatus(w, http.StatusUnauthorized, "invalid session token")
			return
		}
		ctx := context.WithValue(r.Context(), principalKey{}, principal)
		ctx = ctxdata.WithUserID(ctx, principal.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireProfile resolves the principal to a role-bearing profile; every
// collection route sits behind it.
func (p *Portal) requireProfile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r.Context())
		if !ok {
			writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		profile, err := p.resolver.Resolve(r.Context(), principal)
		if err != nil {
			writeError(w, r, p.log, err)
			return
		}
		ctx := context.WithValue(r.Context(), profileKey{}, profile)
		ctx = ctxdata.WithUserRole(ctx, profile.Role.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
