package controllers

import (
	"log/slog"
	"net/http"

	"clubhub/internal/delivery/http/helpers"
	"clubhub/internal/domain"
)

// MeController lists what the caller has joined and paid for.
type MeController struct {
	Logger  *slog.Logger
	Service domain.MemberService
}

// NewMeController creates a MeController with the given logger and service.
func NewMeController(logger *slog.Logger, svc domain.MemberService) *MeController {
	return &MeController{
		Logger:  logger,
		Service: svc,
	}
}

// ListMemberships godoc
// @Summary My memberships
// @Description Memberships of the caller, each with its club.
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains membership and club pairs"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me/memberships [get]
func (c *MeController) ListMemberships(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	items, err := c.Service.ListMyMemberships(r.Context(), p)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}

// ListRegistrations godoc
// @Summary My event registrations
// @Description Registrations of the caller, each with its event.
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains registration and event pairs"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me/registrations [get]
func (c *MeController) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	items, err := c.Service.ListMyRegistrations(r.Context(), p)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}

// ListPayments godoc
// @Summary My payments
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the payments"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me/payments [get]
func (c *MeController) ListPayments(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	items, err := c.Service.ListMyPayments(r.Context(), p)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}
