package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"clubhub/internal/delivery/http/helpers"
	"clubhub/internal/domain"
)

// CreateClubRequest is the request body for POST /clubs.
type CreateClubRequest struct {
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Location      string  `json:"location"`
	BannerURL     string  `json:"banner_url" validate:"omitempty,url"`
	MembershipFee float64 `json:"membership_fee" validate:"gte=0"`
}

// ClubSuccessResponse is the success response envelope for endpoints returning one club.
type ClubSuccessResponse struct {
	Data  *domain.Club      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ClubListResponse is the data payload for GET /clubs.
type ClubListResponse struct {
	Items      []*domain.Club         `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ClubListSuccessResponse is the success response envelope for GET /clubs (200).
type ClubListSuccessResponse struct {
	Data  ClubListResponse  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// MembersSuccessResponse is the success response envelope for GET /clubs/{clubID}/members (200).
type MembersSuccessResponse struct {
	Data  []*domain.Membership `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ClubController handles club creation and listings.
type ClubController struct {
	Logger  *slog.Logger
	Service domain.ClubService
}

// NewClubController creates a ClubController with the given logger and service.
func NewClubController(logger *slog.Logger, svc domain.ClubService) *ClubController {
	return &ClubController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateClub godoc
// @Summary Create a club
// @Description Create a club owned by the calling manager. New clubs start pending until an admin approves them.
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateClubRequest true "Club data"
// @Success 201 {object} controllers.ClubSuccessResponse "data contains the created club"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /clubs [post]
func (c *ClubController) CreateClub(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	var req CreateClubRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	club := &domain.Club{
		Name:          req.Name,
		Description:   req.Description,
		Category:      strings.TrimSpace(req.Category),
		Location:      req.Location,
		BannerURL:     req.BannerURL,
		MembershipFee: req.MembershipFee,
	}
	if err := c.Service.CreateClub(r.Context(), p, club); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, club)
}

// ListClubs godoc
// @Summary List approved clubs
// @Description Public listing of approved clubs, newest first.
// @Tags clubs
// @Produce json
// @Param search query string false "Case-insensitive name search"
// @Param category query string false "Category"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ClubListSuccessResponse "data contains items and pagination"
// @Router /clubs [get]
func (c *ClubController) ListClubs(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	q := r.URL.Query()
	clubs, total, err := c.Service.ListClubs(r.Context(), domain.ClubFilter{
		Search:     strings.TrimSpace(q.Get("search")),
		Category:   strings.TrimSpace(q.Get("category")),
		Pagination: params,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ClubListResponse{
		Items:      clubs,
		Pagination: helpers.NewPaginationMeta(params, total),
	})
}

// GetClub godoc
// @Summary Get a club
// @Tags clubs
// @Produce json
// @Param clubID path string true "Club ID (UUID)"
// @Success 200 {object} controllers.ClubSuccessResponse "data contains the club"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /clubs/{clubID} [get]
func (c *ClubController) GetClub(w http.ResponseWriter, r *http.Request) {
	club, err := c.Service.GetClub(r.Context(), r.PathValue("clubID"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, club)
}

// ListManagedClubs godoc
// @Summary List my managed clubs
// @Description Clubs owned by the calling manager, in every status.
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the clubs"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /manager/clubs [get]
func (c *ClubController) ListManagedClubs(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	clubs, err := c.Service.ListManagedClubs(r.Context(), p)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, clubs)
}

// ListMembers godoc
// @Summary List club members
// @Description Members of a club. Visible to the owning manager and admins.
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Success 200 {object} controllers.MembersSuccessResponse "data contains the memberships"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /clubs/{clubID}/members [get]
func (c *ClubController) ListMembers(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	members, err := c.Service.ListMembers(r.Context(), p, r.PathValue("clubID"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, members)
}
