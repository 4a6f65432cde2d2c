package controllers

import (
	"log/slog"
	"net/http"

	"clubhub/internal/delivery/http/helpers"
	"clubhub/internal/domain"
)

// SubmitManagerRequest is the request body for POST /manager-requests.
type SubmitManagerRequest struct {
	Name string `json:"name" validate:"required"`
}

// DecideManagerRequest is the request body for PATCH /admin/manager-requests/{requestID}.
type DecideManagerRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

// ManagerRequestSuccessResponse is the success response envelope for endpoints returning one request.
type ManagerRequestSuccessResponse struct {
	Data  *domain.ManagerRequest `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ManagerRequestController handles applications for the manager role.
type ManagerRequestController struct {
	Logger  *slog.Logger
	Service domain.ManagerRequestService
}

// NewManagerRequestController creates a ManagerRequestController with the given logger and service.
func NewManagerRequestController(logger *slog.Logger, svc domain.ManagerRequestService) *ManagerRequestController {
	return &ManagerRequestController{
		Logger:  logger,
		Service: svc,
	}
}

// Submit godoc
// @Summary Request the manager role
// @Description A member asks to become a club manager. At most one pending request per user.
// @Tags manager-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitManagerRequest true "Applicant name"
// @Success 201 {object} controllers.ManagerRequestSuccessResponse "data contains the request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (pending request exists) or invalid_state (already manager)"
// @Router /manager-requests [post]
func (c *ManagerRequestController) Submit(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	var req SubmitManagerRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	mr, err := c.Service.Submit(r.Context(), p, req.Name)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, mr)
}

// List godoc
// @Summary List manager requests
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected; empty lists all"
// @Success 200 {object} helpers.APIResponse "data contains the requests"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /admin/manager-requests [get]
func (c *ManagerRequestController) List(w http.ResponseWriter, r *http.Request) {
	status := domain.ManagerRequestStatus(r.URL.Query().Get("status"))
	items, err := c.Service.List(r.Context(), status)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}

// Decide godoc
// @Summary Approve or reject a manager request
// @Description Approval promotes the member to manager. The applicant is notified by email.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param requestID path string true "Request ID (UUID)"
// @Param body body DecideManagerRequest true "approve or reject"
// @Success 200 {object} controllers.ManagerRequestSuccessResponse "data contains the resolved request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_state (already decided)"
// @Router /admin/manager-requests/{requestID} [patch]
func (c *ManagerRequestController) Decide(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	var req DecideManagerRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	mr, err := c.Service.Decide(r.Context(), p, r.PathValue("requestID"), req.Decision == "approve")
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, mr)
}
