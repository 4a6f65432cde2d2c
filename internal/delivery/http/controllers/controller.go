package controllers

import (
	"net/http"

	"clubhub/internal/delivery/http/helpers"
	"clubhub/internal/delivery/http/middleware"
	"clubhub/internal/domain"
)

// principalOrUnauthorized returns the principal set by RequireAuth, writing a 401 when it is missing.
func principalOrUnauthorized(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return domain.Principal{}, false
	}
	return p, true
}

// StatusResponse is a minimal data payload for endpoints with nothing else to return.
type StatusResponse struct {
	Status string `json:"status"`
}
