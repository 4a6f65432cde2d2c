package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"clubhub/internal/delivery/http/controllers"
	"clubhub/internal/domain"
)

type tokenTable map[string]domain.Principal

func (t tokenTable) Verify(token string) (domain.Principal, error) {
	p, ok := t[token]
	if !ok {
		return domain.Principal{}, errors.New("unknown token")
	}
	return p, nil
}

func newTestRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := tokenTable{
		"member":  {UserID: "u1", Email: "ana@example.com", Role: domain.RoleMember},
		"manager": {UserID: "u2", Email: "mgr@example.com", Role: domain.RoleManager},
	}
	return NewRouter(Controllers{
		Auth:           controllers.NewAuthController(logger, nil, controllers.CookieConfig{Name: "clubhub_token"}),
		Clubs:          controllers.NewClubController(logger, nil),
		Events:         controllers.NewEventController(logger, nil),
		Join:           controllers.NewJoinController(logger, nil),
		Me:             controllers.NewMeController(logger, nil),
		ManagerRequest: controllers.NewManagerRequestController(logger, nil),
		Admin:          controllers.NewAdminController(logger, nil, nil),
	}, RouterConfig{
		Verifier:       tokens,
		CookieName:     "clubhub_token",
		AllowedOrigins: []string{"https://app.example.com"},
		RequestTimeout: time.Second,
		Logger:         logger,
	})
}

// Requests below are rejected before reaching a controller, so nil services are never called.
func TestRouter_accessControl(t *testing.T) {
	router := newTestRouter()
	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"health is public", http.MethodGet, "/healthz", "", http.StatusOK},
		{"join needs auth", http.MethodPost, "/clubs/c1/join", "", http.StatusUnauthorized},
		{"event confirm needs auth", http.MethodPost, "/events/e1/join/confirm", "", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/me/payments", "forged", http.StatusUnauthorized},
		{"member cannot create club", http.MethodPost, "/clubs", "member", http.StatusForbidden},
		{"member cannot list managed clubs", http.MethodGet, "/manager/clubs", "member", http.StatusForbidden},
		{"manager cannot see stats", http.MethodGet, "/admin/stats", "manager", http.StatusForbidden},
		{"manager cannot reconcile", http.MethodPost, "/admin/reconcile", "manager", http.StatusForbidden},
		{"wrong method", http.MethodDelete, "/clubs", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestRouter_corsPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/clubs/c1/join", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()

	newTestRouter().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}
