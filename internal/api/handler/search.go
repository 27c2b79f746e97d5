package handler

import (
	"net/http"
	"strings"

	"github.com/hitasa/salesshare/internal/api/middleware"
	"github.com/hitasa/salesshare/internal/api/response"
	"github.com/hitasa/salesshare/internal/search"
)

// SearchHandler proxies the external company-search provider. Results are
// candidates only; persisting one goes through POST /companies.
type SearchHandler struct {
	provider search.Provider
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(provider search.Provider) *SearchHandler {
	return &SearchHandler{provider: provider}
}

// Search handles GET /search?q=...
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "q query parameter is required", requestID)
		return
	}

	candidates, err := h.provider.Search(r.Context(), query)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, candidates, requestID)
}
