package validation

import (
	"strings"

	"github.com/google/uuid"
)

// CreateProjectRequest mirrors the fields needed for create project validation.
type CreateProjectRequest struct {
	Name   string
	TeamID string
}

// ValidateCreateProjectRequest validates the fields of a create project request.
func ValidateCreateProjectRequest(req CreateProjectRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > 255 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}

	if req.TeamID != "" {
		if _, err := uuid.Parse(req.TeamID); err != nil {
			errs = append(errs, FieldError{Field: "teamId", Message: "teamId must be a valid UUID"})
		}
	}

	return errs
}

// AddProjectCompanyRequest mirrors the fields needed for association validation.
type AddProjectCompanyRequest struct {
	CompanyID string
}

// ValidateAddProjectCompanyRequest validates the fields of an association request.
func ValidateAddProjectCompanyRequest(req AddProjectCompanyRequest) []FieldError {
	var errs []FieldError

	if req.CompanyID == "" {
		errs = append(errs, FieldError{Field: "companyId", Message: "companyId is required"})
	} else if _, err := uuid.Parse(req.CompanyID); err != nil {
		errs = append(errs, FieldError{Field: "companyId", Message: "companyId must be a valid UUID"})
	}

	return errs
}

// AddNoteRequest mirrors the fields needed for add note validation.
type AddNoteRequest struct {
	Text string
}

// ValidateAddNoteRequest validates the fields of an add note request.
func ValidateAddNoteRequest(req AddNoteRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Text) == "" {
		errs = append(errs, FieldError{Field: "text", Message: "text is required"})
	}

	return errs
}
