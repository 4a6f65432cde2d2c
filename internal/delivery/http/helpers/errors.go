package helpers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"clubhub/internal/domain"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters: the user-specific sentinels wrap the generic ones.
var errorMappings = []errorMapping{
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
	{domain.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	{domain.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrCodeBadRequest},
	{domain.ErrAlreadyExists, http.StatusConflict, ErrCodeConflict},
	{domain.ErrInvalidState, http.StatusConflict, ErrCodeInvalidState},
	{domain.ErrFull, http.StatusConflict, ErrCodeFull},
	{domain.ErrPaymentNotCompleted, http.StatusPaymentRequired, ErrCodePaymentNotCompleted},
	{domain.ErrGatewayUnavailable, http.StatusBadGateway, ErrCodeGatewayUnavailable},
	{domain.ErrStoreUnavailable, http.StatusServiceUnavailable, ErrCodeStoreUnavailable},
	{context.DeadlineExceeded, http.StatusServiceUnavailable, ErrCodeStoreUnavailable},
}

// StatusForError returns the HTTP status and error code for a service error.
func StatusForError(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}

// WriteServiceError maps err onto the API error envelope. Server-side failures
// are logged and their detail is not sent to the client.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := StatusForError(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		message = http.StatusText(status)
	}
	WriteJSONError(w, status, code, message)
}
