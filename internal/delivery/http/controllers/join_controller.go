package controllers

import (
	"log/slog"
	"net/http"

	"clubhub/internal/delivery/http/helpers"
	"clubhub/internal/domain"
)

// ConfirmPaymentRequest is the request body for POST .../join/confirm.
type ConfirmPaymentRequest struct {
	Reference string `json:"reference" validate:"required"`
}

// CheckoutSuccessRequest is the request body for POST .../checkout-success.
type CheckoutSuccessRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// JoinSuccessResponse is the success response envelope for join and confirm endpoints.
type JoinSuccessResponse struct {
	Data  *domain.JoinResult `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// PaymentIntentSuccessResponse is the success response envelope for POST .../payment-intent (201).
type PaymentIntentSuccessResponse struct {
	Data  *domain.PaymentIntentResult `json:"data"`
	Error *helpers.APIError           `json:"error"`
}

// CheckoutSessionSuccessResponse is the success response envelope for POST .../checkout-session (201).
type CheckoutSessionSuccessResponse struct {
	Data  *domain.CheckoutSessionResult `json:"data"`
	Error *helpers.APIError             `json:"error"`
}

// JoinController drives the join workflow for clubs and events. Every handler is
// mounted twice, under /clubs/{clubID} and /events/{eventID}.
type JoinController struct {
	Logger  *slog.Logger
	Service domain.JoinService
}

// NewJoinController creates a JoinController with the given logger and service.
func NewJoinController(logger *slog.Logger, svc domain.JoinService) *JoinController {
	return &JoinController{
		Logger:  logger,
		Service: svc,
	}
}

func targetFromPath(r *http.Request) domain.Target {
	if id := r.PathValue("eventID"); id != "" {
		return domain.EventTarget(id)
	}
	return domain.ClubTarget(r.PathValue("clubID"))
}

func (c *JoinController) writeResult(w http.ResponseWriter, res *domain.JoinResult) {
	status := http.StatusCreated
	if res.AlreadyJoined {
		status = http.StatusOK
	}
	helpers.WriteJSONSuccess(w, status, res)
}

// Join godoc
// @Summary Join for free
// @Description Join a free club or register for a free event. Repeating the call returns the existing record with already_joined=true.
// @Tags join
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} controllers.JoinSuccessResponse "newly joined"
// @Success 200 {object} controllers.JoinSuccessResponse "already joined"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (malformed id)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_state (target charges a fee or club not approved) or full"
// @Router /clubs/{clubID}/join [post]
// @Router /events/{eventID}/join [post]
func (c *JoinController) Join(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	res, err := c.Service.RequestFreeJoin(r.Context(), p, targetFromPath(r))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.writeResult(w, res)
}

// CreatePaymentIntent godoc
// @Summary Create a payment intent
// @Description Start a paid join. The amount is derived from the club or event fee; the client completes payment with client_secret.
// @Tags join
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} controllers.PaymentIntentSuccessResponse "data contains reference and client_secret"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (malformed id)"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_state (target is free or already joined) or full"
// @Failure 502 {object} helpers.APIResponse "error.code: gateway_unavailable"
// @Router /clubs/{clubID}/payment-intent [post]
// @Router /events/{eventID}/payment-intent [post]
func (c *JoinController) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	res, err := c.Service.CreatePaymentIntent(r.Context(), p, targetFromPath(r))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, res)
}

// ConfirmPayment godoc
// @Summary Confirm a paid join
// @Description Verify the payment with the gateway, record it, and grant access. Safe to retry with the same reference.
// @Tags join
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Param eventID path string true "Event ID (UUID)"
// @Param body body ConfirmPaymentRequest true "Gateway payment reference"
// @Success 201 {object} controllers.JoinSuccessResponse "newly joined"
// @Success 200 {object} controllers.JoinSuccessResponse "already joined"
// @Failure 402 {object} helpers.APIResponse "error.code: payment_not_completed"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (reference not issued to this user for this target)"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_state (captured amount below the fee or other currency)"
// @Failure 502 {object} helpers.APIResponse "error.code: gateway_unavailable"
// @Router /clubs/{clubID}/join/confirm [post]
// @Router /events/{eventID}/join/confirm [post]
func (c *JoinController) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	var req ConfirmPaymentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.ConfirmPayment(r.Context(), p, targetFromPath(r), req.Reference)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.writeResult(w, res)
}

// CreateCheckoutSession godoc
// @Summary Create a hosted checkout session
// @Description Start a paid join through the gateway's hosted checkout page. Event checkouts hold a seat until confirmed.
// @Tags join
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} controllers.CheckoutSessionSuccessResponse "data contains session_id and url"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (malformed id)"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_state (target is free or already joined) or full"
// @Failure 502 {object} helpers.APIResponse "error.code: gateway_unavailable"
// @Router /clubs/{clubID}/checkout-session [post]
// @Router /events/{eventID}/checkout-session [post]
func (c *JoinController) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	res, err := c.Service.CreateCheckoutSession(r.Context(), p, targetFromPath(r))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, res)
}

// CheckoutSuccess godoc
// @Summary Confirm a checkout session
// @Description Called after the gateway redirects back. Verifies the session is paid, records the payment, and grants access.
// @Tags join
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Param eventID path string true "Event ID (UUID)"
// @Param body body CheckoutSuccessRequest true "Checkout session id"
// @Success 201 {object} controllers.JoinSuccessResponse "newly joined"
// @Success 200 {object} controllers.JoinSuccessResponse "already joined"
// @Failure 402 {object} helpers.APIResponse "error.code: payment_not_completed"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_state (captured amount below the fee or other currency)"
// @Router /clubs/{clubID}/checkout-success [post]
// @Router /events/{eventID}/checkout-success [post]
func (c *JoinController) CheckoutSuccess(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	var req CheckoutSuccessRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.ConfirmCheckout(r.Context(), p, targetFromPath(r), req.SessionID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.writeResult(w, res)
}
