package web

import (
	"context"
	"net/http"
	"time"

	"github.com/listenupapp/bookshelf/internal/http/response"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			s.logger.Error("health check failed", "error", err)
			response.Error(w, http.StatusServiceUnavailable, "database unavailable", nil, s.logger)
			return
		}
	}
	response.Success(w, map[string]string{"status": "healthy"}, s.logger)
}
