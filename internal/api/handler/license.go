package handler

import (
	"net/http"
	"time"

	"github.com/hitasa/salesshare/internal/api/middleware"
	"github.com/hitasa/salesshare/internal/api/response"
	"github.com/hitasa/salesshare/internal/license"
)

type licenseResponse struct {
	Type      string   `json:"type"`
	Active    bool     `json:"active"`
	Features  []string `json:"features"`
	StartsAt  string   `json:"startsAt"`
	ExpiresAt *string  `json:"expiresAt"`
}

// LicenseHandler exposes the actor's effective license and feature set so the
// presentation layer can gate UI affordances. Data access never depends on it.
type LicenseHandler struct {
	svc *license.Service
}

// NewLicenseHandler creates a new LicenseHandler.
func NewLicenseHandler(svc *license.Service) *LicenseHandler {
	return &LicenseHandler{svc: svc}
}

// Get handles GET /license.
func (h *LicenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Bearer token is required", requestID)
		return
	}

	l, err := h.svc.Effective(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	resp := licenseResponse{
		Type:     l.Type,
		Active:   l.Active,
		Features: license.Features(l.Type),
		StartsAt: l.StartsAt.UTC().Format(time.RFC3339),
	}
	if l.ExpiresAt != nil {
		exp := l.ExpiresAt.UTC().Format(time.RFC3339)
		resp.ExpiresAt = &exp
	}

	response.Success(w, http.StatusOK, resp, requestID)
}
