package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hitasa/salesshare/internal/api/middleware"
	"github.com/hitasa/salesshare/internal/api/response"
	"github.com/hitasa/salesshare/internal/api/validation"
	"github.com/hitasa/salesshare/internal/policy"
	"github.com/hitasa/salesshare/internal/team"
)

type createTeamRequest struct {
	Name string `json:"name"`
}

type inviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type teamResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type memberResponse struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	JoinedAt string `json:"joinedAt"`
}

type invitationResponse struct {
	ID        string `json:"id"`
	TeamID    string `json:"teamId"`
	TeamName  string `json:"teamName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expiresAt"`
	CreatedAt string `json:"createdAt"`
}

func toTeamResponse(t *team.Team) teamResponse {
	return teamResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		CreatedBy: t.CreatedBy.String(),
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toInvitationResponse(inv *team.Invitation) invitationResponse {
	return invitationResponse{
		ID:        inv.ID.String(),
		TeamID:    inv.TeamID.String(),
		TeamName:  inv.TeamName,
		Email:     inv.Email,
		Role:      string(inv.Role),
		Status:    inv.Status,
		ExpiresAt: inv.ExpiresAt.UTC().Format(time.RFC3339),
		CreatedAt: inv.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// TeamHandler handles team, membership and invitation endpoints.
type TeamHandler struct {
	svc *team.Service
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(svc *team.Service) *TeamHandler {
	return &TeamHandler{svc: svc}
}

// Create handles POST /teams.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateTeamRequest(validation.CreateTeamRequest{Name: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	t, err := h.svc.CreateTeam(r.Context(), middleware.Actor(r.Context()), req.Name)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusCreated, toTeamResponse(t), requestID)
}

// List handles GET /teams: the actor's teams.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teams, err := h.svc.ListMyTeams(r.Context(), middleware.Actor(r.Context()))
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	items := make([]teamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, toTeamResponse(&teams[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// Delete handles DELETE /teams/{id}. Admin only.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teamID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	if err := h.svc.DeleteTeam(r.Context(), middleware.Actor(r.Context()), teamID); err != nil {
		writeError(w, err, requestID)
		return
	}

	response.NoContent(w)
}

// ListMembers handles GET /teams/{id}/members.
func (h *TeamHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teamID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	members, err := h.svc.ListMembers(r.Context(), middleware.Actor(r.Context()), teamID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	items := make([]memberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, memberResponse{
			UserID:   m.UserID.String(),
			Email:    m.Email,
			Name:     m.Name,
			Role:     string(m.Role),
			JoinedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// RemoveMember handles DELETE /teams/{id}/members/{userId}. Admin only.
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teamID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}
	userID, ok := parseIDParam(w, r, "userId", requestID)
	if !ok {
		return
	}

	if err := h.svc.RemoveMember(r.Context(), middleware.Actor(r.Context()), teamID, userID); err != nil {
		writeError(w, err, requestID)
		return
	}

	response.NoContent(w)
}

// Invite handles POST /teams/{id}/invitations. Admin only.
func (h *TeamHandler) Invite(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teamID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateInviteRequest(validation.InviteRequest{Email: req.Email, Role: req.Role})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	inv, err := h.svc.Invite(r.Context(), middleware.Actor(r.Context()), teamID, req.Email, policy.Role(req.Role))
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusCreated, toInvitationResponse(inv), requestID)
}

// ListInvitations handles GET /teams/{id}/invitations. Admin only.
func (h *TeamHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teamID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	invitations, err := h.svc.ListTeamInvitations(r.Context(), middleware.Actor(r.Context()), teamID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	items := make([]invitationResponse, 0, len(invitations))
	for i := range invitations {
		items = append(items, toInvitationResponse(&invitations[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// parseIDParam parses a UUID URL parameter, writing a 400 response on failure.
func parseIDParam(w http.ResponseWriter, r *http.Request, name, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", name+" must be a valid UUID", requestID)
		return uuid.Nil, false
	}
	return id, true
}
