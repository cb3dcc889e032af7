package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/study-assistant/internal/api/shared"
	"github.com/phrazzld/study-assistant/internal/platform/logger"
	"github.com/phrazzld/study-assistant/internal/redact"
)

// healthPingTimeout bounds the database check made by the health endpoint.
const healthPingTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports process and database health.
type HealthHandler struct {
	db  Pinger
	now func() time.Time
}

// NewHealthHandler creates a HealthHandler. A nil db skips the database check.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, now: time.Now}
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "Server is running",
		Timestamp: shared.Timestamp(h.now()),
	}
	status := http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		resp.Database = "ok"
		if err := h.db.PingContext(ctx); err != nil {
			logger.FromContext(r.Context()).Warn("database health check failed",
				slog.String("error", redact.Error(err)))
			resp.Status = "Database unavailable"
			resp.Database = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	shared.RespondWithJSON(w, r, status, resp)
}
