package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hitasa/salesshare/internal/api/middleware"
	"github.com/hitasa/salesshare/internal/api/response"
	"github.com/hitasa/salesshare/internal/api/validation"
	"github.com/hitasa/salesshare/internal/company"
)

type createCompanyRequest struct {
	Name        string `json:"name"`
	Industry    string `json:"industry"`
	SalesVolume string `json:"salesVolume"`
	Growth      string `json:"growth"`
	Website     string `json:"website"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Review      string `json:"review"`
	Notes       string `json:"notes"`
}

type updateCompanyRequest struct {
	Name        *string `json:"name"`
	Industry    *string `json:"industry"`
	SalesVolume *string `json:"salesVolume"`
	Growth      *string `json:"growth"`
	Website     *string `json:"website"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Review      *string `json:"review"`
	Notes       *string `json:"notes"`
}

type linkTeamRequest struct {
	TeamID string `json:"teamId"`
}

type companyResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Industry    string  `json:"industry"`
	SalesVolume string  `json:"salesVolume"`
	Growth      string  `json:"growth"`
	Website     string  `json:"website"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	Review      string  `json:"review"`
	Notes       string  `json:"notes"`
	CreatedBy   string  `json:"createdBy"`
	TeamID      *string `json:"teamId"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toCompanyResponse(c *company.Company) companyResponse {
	resp := companyResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Industry:    c.Industry,
		SalesVolume: c.SalesVolume,
		Growth:      c.Growth,
		Website:     c.Website,
		Phone:       c.Phone,
		Email:       c.Email,
		Review:      c.Review,
		Notes:       c.Notes,
		CreatedBy:   c.CreatedBy.String(),
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if c.TeamID != nil {
		id := c.TeamID.String()
		resp.TeamID = &id
	}
	return resp
}

func toCompanyResponses(companies []company.Company) []companyResponse {
	items := make([]companyResponse, 0, len(companies))
	for i := range companies {
		items = append(items, toCompanyResponse(&companies[i]))
	}
	return items
}

// CompanyHandler handles company and repository endpoints.
type CompanyHandler struct {
	svc *company.Service
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(svc *company.Service) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

// List handles GET /companies: every company visible to the actor.
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	companies, err := h.svc.VisibleCompanies(r.Context(), middleware.Actor(r.Context()))
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, toCompanyResponses(companies), requestID)
}

// Create handles POST /companies: persists an externally sourced company and
// adds it to the actor's repository in one step.
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateCompanyRequest(validation.CreateCompanyRequest{Name: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	c := &company.Company{
		Name:        req.Name,
		Industry:    req.Industry,
		SalesVolume: req.SalesVolume,
		Growth:      req.Growth,
		Website:     req.Website,
		Phone:       req.Phone,
		Email:       req.Email,
		Review:      req.Review,
		Notes:       req.Notes,
	}

	if err := h.svc.AddCompany(r.Context(), middleware.Actor(r.Context()), c); err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusCreated, toCompanyResponse(c), requestID)
}

// Get handles GET /companies/{id}.
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	companyID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	c, err := h.svc.GetCompany(r.Context(), middleware.Actor(r.Context()), companyID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, toCompanyResponse(c), requestID)
}

// Update handles PATCH /companies/{id}.
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	companyID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	if req.Name != nil {
		fieldErrors := validation.ValidateCreateCompanyRequest(validation.CreateCompanyRequest{Name: *req.Name})
		if len(fieldErrors) > 0 {
			response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
			return
		}
	}

	upd := company.Update{
		Name:        req.Name,
		Industry:    req.Industry,
		SalesVolume: req.SalesVolume,
		Growth:      req.Growth,
		Website:     req.Website,
		Phone:       req.Phone,
		Email:       req.Email,
		Review:      req.Review,
		Notes:       req.Notes,
	}

	c, err := h.svc.UpdateCompany(r.Context(), middleware.Actor(r.Context()), companyID, upd)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, toCompanyResponse(c), requestID)
}

// LinkTeam handles POST /companies/{id}/team: the one-way unlinked -> linked
// transition.
func (h *CompanyHandler) LinkTeam(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	companyID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req linkTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateLinkTeamRequest(validation.LinkTeamRequest{TeamID: req.TeamID})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	teamID, _ := uuid.Parse(req.TeamID)
	if err := h.svc.LinkToTeam(r.Context(), middleware.Actor(r.Context()), companyID, teamID); err != nil {
		writeError(w, err, requestID)
		return
	}

	response.NoContent(w)
}

// PersonalRepository handles GET /repository.
func (h *CompanyHandler) PersonalRepository(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	companies, err := h.svc.PersonalRepository(r.Context(), middleware.Actor(r.Context()))
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, toCompanyResponses(companies), requestID)
}

// TeamRepository handles GET /repository/team.
func (h *CompanyHandler) TeamRepository(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	companies, err := h.svc.TeamRepository(r.Context(), middleware.Actor(r.Context()))
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, toCompanyResponses(companies), requestID)
}

// AddToRepository handles POST /repository/{companyId}.
func (h *CompanyHandler) AddToRepository(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	companyID, ok := parseIDParam(w, r, "companyId", requestID)
	if !ok {
		return
	}

	if err := h.svc.AddToRepository(r.Context(), middleware.Actor(r.Context()), companyID); err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusCreated, map[string]string{"companyId": companyID.String()}, requestID)
}

// RemoveFromRepository handles DELETE /repository/{companyId}. Idempotent.
func (h *CompanyHandler) RemoveFromRepository(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	companyID, ok := parseIDParam(w, r, "companyId", requestID)
	if !ok {
		return
	}

	if err := h.svc.RemoveFromRepository(r.Context(), middleware.Actor(r.Context()), companyID); err != nil {
		writeError(w, err, requestID)
		return
	}

	response.NoContent(w)
}
