// Package handler serves the readiness check.
package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"org-membership-service/internal/platform/httpx"
)

// PingTimeout bounds the database ping.
const PingTimeout = 2 * time.Second

// Pinger checks connectivity to a backing store. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler reports readiness.
type Handler struct {
	Log *zap.Logger
	DB  Pinger
}

// NewHandler creates a new health Handler. db may be nil, in which case the service always reports ready.
func NewHandler(db Pinger, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, DB: db}
}

type status struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

// ServeHealth returns 200 when the database answers a ping and 503 otherwise.
func (h *Handler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		_ = httpx.WriteJSON(w, http.StatusOK, status{Status: "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), PingTimeout)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		h.Log.Warn("health: database ping failed", zap.Error(err))
		_ = httpx.WriteJSON(w, http.StatusServiceUnavailable, status{Status: "unavailable", Database: "down"})
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, status{Status: "ok", Database: "up"})
}
