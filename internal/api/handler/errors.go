package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitasa/salesshare/internal/api/response"
	"github.com/hitasa/salesshare/internal/auth"
	"github.com/hitasa/salesshare/internal/company"
	"github.com/hitasa/salesshare/internal/project"
	"github.com/hitasa/salesshare/internal/search"
	"github.com/hitasa/salesshare/internal/team"
)

// writeError maps domain sentinel errors onto the response error categories.
// Anything unmapped is logged and surfaces as INTERNAL_ERROR.
func writeError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, company.ErrForbidden),
		errors.Is(err, team.ErrForbidden),
		errors.Is(err, project.ErrForbidden),
		errors.Is(err, company.ErrCompanyAlreadyLinked):
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action", requestID)

	case errors.Is(err, company.ErrCompanyNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Company not found", requestID)
	case errors.Is(err, team.ErrTeamNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
	case errors.Is(err, team.ErrMembershipNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team membership not found", requestID)
	case errors.Is(err, team.ErrInvitationNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Invitation not found", requestID)
	case errors.Is(err, project.ErrProjectNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Project not found", requestID)
	case errors.Is(err, project.ErrCompanyNotInProject):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Company is not in this project", requestID)
	case errors.Is(err, auth.ErrUserNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)

	case errors.Is(err, company.ErrAlreadyInRepository):
		response.Err(w, http.StatusConflict, "ALREADY_EXISTS", "Company is already in your repository", requestID)
	case errors.Is(err, project.ErrCompanyAlreadyInProject):
		response.Err(w, http.StatusConflict, "ALREADY_EXISTS", "Company is already in this project", requestID)
	case errors.Is(err, team.ErrMembershipExists):
		response.Err(w, http.StatusConflict, "ALREADY_EXISTS", "User is already a team member", requestID)
	case errors.Is(err, auth.ErrDuplicateEmail):
		response.Err(w, http.StatusConflict, "ALREADY_EXISTS", "Email is already registered", requestID)

	case errors.Is(err, team.ErrInvitationNotPending):
		response.Err(w, http.StatusConflict, "CONFLICT", "Invitation is no longer pending", requestID)

	case errors.Is(err, company.ErrInvalidRating):
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "Rating must be between 1 and 5", requestID)
	case errors.Is(err, company.ErrEmptyComment):
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "Comment text must not be empty", requestID)
	case errors.Is(err, project.ErrEmptyNote):
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "Note text must not be empty", requestID)

	case errors.Is(err, search.ErrUnavailable):
		response.Err(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Search provider is unavailable", requestID)

	default:
		slog.Error("request failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", requestID)
	}
}
