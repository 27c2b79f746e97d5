package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/hitasa/salesshare/internal/api/middleware"
	"github.com/hitasa/salesshare/internal/api/response"
	"github.com/hitasa/salesshare/internal/api/validation"
	"github.com/hitasa/salesshare/internal/company"
)

type addReviewRequest struct {
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	IsTeamReview bool   `json:"isTeamReview"`
}

type addCommentRequest struct {
	Text string `json:"text"`
}

type reviewResponse struct {
	ID           string `json:"id"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	IsTeamReview bool   `json:"isTeamReview"`
	Date         string `json:"date"`
}

type reviewListResponse struct {
	Reviews       []reviewResponse `json:"reviews"`
	AverageRating float64          `json:"averageRating"`
}

type commentResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

func toReviewResponse(rv *company.Review) reviewResponse {
	return reviewResponse{
		ID:           rv.ID.String(),
		Rating:       rv.Rating,
		Comment:      rv.Comment,
		IsTeamReview: rv.IsTeamReview,
		Date:         rv.Date.UTC().Format(time.RFC3339),
	}
}

// ReviewHandler handles review and comment endpoints.
type ReviewHandler struct {
	svc *company.Service
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(svc *company.Service) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// List handles GET /companies/{id}/reviews: the visibility-filtered merged
// list plus the average rating over it, rounded to one decimal for display.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	companyID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	reviews, err := h.svc.VisibleReviews(r.Context(), middleware.Actor(r.Context()), companyID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	items := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, toReviewResponse(&reviews[i]))
	}

	resp := reviewListResponse{
		Reviews:       items,
		AverageRating: math.Round(company.AverageRating(reviews)*10) / 10,
	}

	response.Success(w, http.StatusOK, resp, requestID)
}

// Create handles POST /companies/{id}/reviews.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	companyID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req addReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateAddReviewRequest(validation.AddReviewRequest{Rating: req.Rating})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	rv, err := h.svc.AddReview(r.Context(), middleware.Actor(r.Context()), companyID, req.Rating, req.Comment, req.IsTeamReview)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusCreated, toReviewResponse(rv), requestID)
}

// ListComments handles GET /companies/{id}/comments.
func (h *ReviewHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	companyID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	comments, err := h.svc.ListComments(r.Context(), middleware.Actor(r.Context()), companyID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	items := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		items = append(items, commentResponse{
			ID:        c.ID.String(),
			Text:      c.Text,
			CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// CreateComment handles POST /companies/{id}/comments.
func (h *ReviewHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	companyID, ok := parseIDParam(w, r, "id", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateAddCommentRequest(validation.AddCommentRequest{Text: req.Text})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	c, err := h.svc.AddComment(r.Context(), middleware.Actor(r.Context()), companyID, req.Text)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusCreated, commentResponse{
		ID:        c.ID.String(),
		Text:      c.Text,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}, requestID)
}
