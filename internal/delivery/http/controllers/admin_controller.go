package controllers

import (
	"log/slog"
	"net/http"

	"clubhub/internal/delivery/http/helpers"
	"clubhub/internal/domain"
)

// SetClubStatusRequest is the request body for PATCH /admin/clubs/{clubID}/status.
type SetClubStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// SetRoleRequest is the request body for PATCH /admin/users/{userID}/role.
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=member manager admin"`
}

// UserListResponse is the data payload for GET /admin/users.
type UserListResponse struct {
	Items      []*domain.User         `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// StatsSuccessResponse is the success response envelope for GET /admin/stats (200).
type StatsSuccessResponse struct {
	Data  *domain.Stats     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ReconcileSuccessResponse is the success response envelope for POST /admin/reconcile (200).
type ReconcileSuccessResponse struct {
	Data  *domain.ReconcileReport `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// AdminController serves the admin dashboard.
type AdminController struct {
	Logger  *slog.Logger
	Service domain.AdminService
	Clubs   domain.ClubService
}

// NewAdminController creates an AdminController with the given logger and services.
func NewAdminController(logger *slog.Logger, svc domain.AdminService, clubs domain.ClubService) *AdminController {
	return &AdminController{
		Logger:  logger,
		Service: svc,
		Clubs:   clubs,
	}
}

// Stats godoc
// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.StatsSuccessResponse "data contains the counts"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /admin/stats [get]
func (c *AdminController) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := c.Service.Stats(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, st)
}

// ListUsers godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Router /admin/users [get]
func (c *AdminController) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	users, total, err := c.Service.ListUsers(r.Context(), params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UserListResponse{
		Items:      users,
		Pagination: helpers.NewPaginationMeta(params, total),
	})
}

// SetUserRole godoc
// @Summary Change a user's role
// @Description Takes effect at the user's next login. Admins cannot change their own role.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID (UUID)"
// @Param body body SetRoleRequest true "New role"
// @Success 200 {object} controllers.UserSuccessResponse "data contains the updated user"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_state"
// @Router /admin/users/{userID}/role [patch]
func (c *AdminController) SetUserRole(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	var req SetRoleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.SetUserRole(r.Context(), p, r.PathValue("userID"), domain.Role(req.Role))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// SetClubStatus godoc
// @Summary Approve or reject a club
// @Description Only pending clubs can be decided.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Param body body SetClubStatusRequest true "approved or rejected"
// @Success 200 {object} controllers.ClubSuccessResponse "data contains the club"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_state (already decided)"
// @Router /admin/clubs/{clubID}/status [patch]
func (c *AdminController) SetClubStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	var req SetClubStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	club, err := c.Clubs.SetStatus(r.Context(), p, r.PathValue("clubID"), domain.ClubStatus(req.Status))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, club)
}

// Reconcile godoc
// @Summary Repair payments without access
// @Description Grants the membership or registration for every recorded payment that has none.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ReconcileSuccessResponse "data contains the report"
// @Router /admin/reconcile [post]
func (c *AdminController) Reconcile(w http.ResponseWriter, r *http.Request) {
	report, err := c.Service.Reconcile(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}
