package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hitasa/salesshare/internal/api/middleware"
	"github.com/hitasa/salesshare/internal/api/response"
	"github.com/hitasa/salesshare/internal/api/validation"
	"github.com/hitasa/salesshare/internal/project"
)

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TeamID      string `json:"teamId"`
}

type addProjectCompanyRequest struct {
	CompanyID string `json:"companyId"`
}

type addNoteRequest struct {
	Text string `json:"text"`
}

type projectResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CreatedBy   string  `json:"createdBy"`
	TeamID      *string `json:"teamId"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type noteResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

func toProjectResponse(p *project.Project) projectResponse {
	resp := projectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		CreatedBy:   p.CreatedBy.String(),
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.TeamID != nil {
		id := p.TeamID.String()
		resp.TeamID = &id
	}
	return resp
}

// ProjectHandler handles project endpoints.
type ProjectHandler struct {
	svc *project.Service
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(svc *project.Service) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// Create handles POST /projects.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateProjectRequest(validation.CreateProjectRequest{
		Name:   req.Name,
		TeamID: req.TeamID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	var teamID *uuid.UUID
	if req.TeamID != "" {
		id, _ := uuid.Parse(req.TeamID)
		teamID = &id
	}

	p, err := h.svc.CreateProject(r.Context(), middleware.Actor(r.Context()), req.Name, req.Description, teamID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusCreated, toProjectResponse(p), requestID)
}

// List handles GET /projects: projects visible to the actor.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projects, err := h.svc.VisibleProjects(r.Context(), middleware.Actor(r.Context()))
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	items := make([]projectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, toProjectResponse(&projects[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// Get handles GET /projects/{id}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	p, err := h.svc.GetProject(r.Context(), middleware.Actor(r.Context()), projectID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, toProjectResponse(p), requestID)
}

// Delete handles DELETE /projects/{id}.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	if err := h.svc.DeleteProject(r.Context(), middleware.Actor(r.Context()), projectID); err != nil {
		writeError(w, err, requestID)
		return
	}

	response.NoContent(w)
}

// AddCompany handles POST /projects/{id}/companies.
func (h *ProjectHandler) AddCompany(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req addProjectCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateAddProjectCompanyRequest(validation.AddProjectCompanyRequest{CompanyID: req.CompanyID})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	companyID, _ := uuid.Parse(req.CompanyID)
	if err := h.svc.AddCompany(r.Context(), middleware.Actor(r.Context()), projectID, companyID); err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusCreated, map[string]string{
		"projectId": projectID.String(),
		"companyId": companyID.String(),
	}, requestID)
}

// RemoveCompany handles DELETE /projects/{id}/companies/{companyId}.
func (h *ProjectHandler) RemoveCompany(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}
	companyID, ok := parseIDParam(w, r, "companyId", requestID)
	if !ok {
		return
	}

	if err := h.svc.RemoveCompany(r.Context(), middleware.Actor(r.Context()), projectID, companyID); err != nil {
		writeError(w, err, requestID)
		return
	}

	response.NoContent(w)
}

// ListCompanies handles GET /projects/{id}/companies.
func (h *ProjectHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	companies, err := h.svc.ListCompanies(r.Context(), middleware.Actor(r.Context()), projectID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, toCompanyResponses(companies), requestID)
}

// AvailableCompanies handles GET /projects/{id}/available-companies.
func (h *ProjectHandler) AvailableCompanies(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	companies, err := h.svc.AvailableCompanies(r.Context(), middleware.Actor(r.Context()), projectID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, toCompanyResponses(companies), requestID)
}

// AddNote handles POST /projects/{id}/notes.
func (h *ProjectHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req addNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateAddNoteRequest(validation.AddNoteRequest{Text: req.Text})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	n, err := h.svc.AddNote(r.Context(), middleware.Actor(r.Context()), projectID, req.Text)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusCreated, noteResponse{
		ID:        n.ID.String(),
		Text:      n.Text,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}, requestID)
}

// ListNotes handles GET /projects/{id}/notes.
func (h *ProjectHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	notes, err := h.svc.ListNotes(r.Context(), middleware.Actor(r.Context()), projectID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	items := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		items = append(items, noteResponse{
			ID:        n.ID.String(),
			Text:      n.Text,
			CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	response.Success(w, http.StatusOK, items, requestID)
}
