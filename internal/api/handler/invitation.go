package handler

import (
	"net/http"

	"github.com/hitasa/salesshare/internal/api/middleware"
	"github.com/hitasa/salesshare/internal/api/response"
	"github.com/hitasa/salesshare/internal/team"
)

// InvitationHandler handles the invitee side of team invitations.
type InvitationHandler struct {
	svc *team.Service
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(svc *team.Service) *InvitationHandler {
	return &InvitationHandler{svc: svc}
}

// List handles GET /invitations: pending invitations addressed to the actor.
func (h *InvitationHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	invitations, err := h.svc.MyInvitations(r.Context(), middleware.Actor(r.Context()))
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

// Accept handles POST /invitations/{id}/accept.
func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, true)
}

// Decline handles POST /invitations/{id}/decline.
func (h *InvitationHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, false)
}

func (h *InvitationHandler) respond(w http.ResponseWriter, r *http.Request, accept bool) {
	requestID := middleware.GetRequestID(r.Context())

	invitationID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	err := h.svc.RespondToInvitation(r.Context(), middleware.Actor(r.Context()), invitationID, accept)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	response.NoContent(w)
}
