package validation

import (
	"strings"

	"github.com/google/uuid"
)

// CreateCompanyRequest mirrors the fields needed for create company validation.
type CreateCompanyRequest struct {
	Name string
}

// ValidateCreateCompanyRequest validates the fields of a create company request.
func ValidateCreateCompanyRequest(req CreateCompanyRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > 255 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}

	return errs
}

// LinkTeamRequest mirrors the fields needed for link-to-team validation.
type LinkTeamRequest struct {
	TeamID string
}

// ValidateLinkTeamRequest validates the fields of a link-to-team request.
func ValidateLinkTeamRequest(req LinkTeamRequest) []FieldError {
	var errs []FieldError

	if req.TeamID == "" {
		errs = append(errs, FieldError{Field: "teamId", Message: "teamId is required"})
	} else if _, err := uuid.Parse(req.TeamID); err != nil {
		errs = append(errs, FieldError{Field: "teamId", Message: "teamId must be a valid UUID"})
	}

	return errs
}

// AddReviewRequest mirrors the fields needed for add review validation.
type AddReviewRequest struct {
	Rating int
}

// ValidateAddReviewRequest validates the fields of an add review request.
func ValidateAddReviewRequest(req AddReviewRequest) []FieldError {
	var errs []FieldError

	if req.Rating < 1 || req.Rating > 5 {
		errs = append(errs, FieldError{Field: "rating", Message: "rating must be between 1 and 5"})
	}

	return errs
}

// AddCommentRequest mirrors the fields needed for add comment validation.
type AddCommentRequest struct {
	Text string
}

// ValidateAddCommentRequest validates the fields of an add comment request.
func ValidateAddCommentRequest(req AddCommentRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Text) == "" {
		errs = append(errs, FieldError{Field: "text", Message: "text is required"})
	}

	return errs
}
