package validation

import (
	"net/mail"
	"strings"
)

// CreateTeamRequest mirrors the fields needed for create team validation.
type CreateTeamRequest struct {
	Name string
}

// ValidateCreateTeamRequest validates the fields of a create team request.
func ValidateCreateTeamRequest(req CreateTeamRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > 255 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}

	return errs
}

// InviteRequest mirrors the fields needed for invitation validation.
type InviteRequest struct {
	Email string
	Role  string
}

// ValidateInviteRequest validates the fields of an invitation request.
func ValidateInviteRequest(req InviteRequest) []FieldError {
	var errs []FieldError

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs = append(errs, FieldError{Field: "email", Message: "email must be a valid address"})
	}

	if req.Role != "admin" && req.Role != "member" {
		errs = append(errs, FieldError{Field: "role", Message: "role must be \"admin\" or \"member\""})
	}

	return errs
}
