package handler

import (
	"context"
	"net/http"

	"github.com/hitasa/salesshare/internal/api/middleware"
	"github.com/hitasa/salesshare/internal/api/response"
)

// DBPinger verifies database connectivity for health reporting.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service and database health.
type HealthHandler struct {
	db      DBPinger
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db DBPinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// ServeHTTP handles GET /health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	resp := healthResponse{Status: "healthy", Version: h.version, Database: "connected"}
	if h.db == nil || h.db.Ping(r.Context()) != nil {
		resp.Status = "degraded"
		resp.Database = "disconnected"
	}

	response.Success(w, http.StatusOK, resp, requestID)
}
