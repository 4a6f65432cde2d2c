package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"clubhub/internal/delivery/http/helpers"
	"clubhub/internal/domain"
)

// CreateEventRequest is the request body for POST /clubs/{clubID}/events.
type CreateEventRequest struct {
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date" validate:"required"`
	Location     string    `json:"location"`
	IsPaid       bool      `json:"is_paid"`
	Fee          float64   `json:"fee" validate:"gte=0"`
	MaxAttendees *int      `json:"max_attendees" validate:"omitempty,min=1"`
}

// EventSuccessResponse is the success response envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListResponse is the data payload for GET /events.
type EventListResponse struct {
	Items      []*domain.Event        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// EventListSuccessResponse is the success response envelope for GET /events (200).
type EventListSuccessResponse struct {
	Data  EventListResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventController handles event creation and listings.
type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

// NewEventController creates an EventController with the given logger and service.
func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Create an event in an approved club owned by the caller. Paid events need a positive fee; max_attendees is optional.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: invalid_state (club not approved)"
// @Router /clubs/{clubID}/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := &domain.Event{
		ClubID:       r.PathValue("clubID"),
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Location:     req.Location,
		IsPaid:       req.IsPaid,
		Fee:          req.Fee,
		MaxAttendees: req.MaxAttendees,
	}
	if err := c.Service.CreateEvent(r.Context(), p, event); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListClubEvents godoc
// @Summary List a club's events
// @Tags events
// @Produce json
// @Param clubID path string true "Club ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the events"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /clubs/{clubID}/events [get]
func (c *EventController) ListClubEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListClubEvents(r.Context(), r.PathValue("clubID"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetEvent(r.Context(), r.PathValue("eventID"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListUpcoming godoc
// @Summary List upcoming events
// @Description Upcoming events of approved clubs, soonest first.
// @Tags events
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.EventListSuccessResponse "data contains items and pagination"
// @Router /events [get]
func (c *EventController) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListUpcoming(r.Context(), params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventListResponse{
		Items:      events,
		Pagination: helpers.NewPaginationMeta(params, total),
	})
}
