package api

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ashishpal07/qp-assessment/internal/auth"
)

// authenticate verifies the bearer token and threads the caller's identity
// through the request context. A missing token is a 403, an invalid or
// expired one a 401, matching the boundary contract.
func (s *Server) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header || token == "" {
			s.respondMessage(w, http.StatusForbidden, "Token not provided.")
			return
		}

		identity, err := s.tokens.Verify(token)
		if err != nil {
			s.respondMessage(w, http.StatusUnauthorized, "Unauthorized.")
			return
		}

		next(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	}
}

func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFrom(r.Context())
		if !ok || !identity.IsAdmin() {
			s.respondMessage(w, http.StatusForbidden, "Admin access required.")
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
