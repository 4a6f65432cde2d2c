package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"clubhub/internal/delivery/http/controllers"
	"clubhub/internal/delivery/http/middleware"
	"clubhub/internal/domain"
)

// Controllers groups every HTTP controller the router mounts.
type Controllers struct {
	Auth           *controllers.AuthController
	Clubs          *controllers.ClubController
	Events         *controllers.EventController
	Join           *controllers.JoinController
	Me             *controllers.MeController
	ManagerRequest *controllers.ManagerRequestController
	Admin          *controllers.AdminController
}

// RouterConfig carries the cross-cutting settings of the HTTP stack.
type RouterConfig struct {
	Verifier       domain.TokenVerifier
	CookieName     string
	AllowedOrigins []string
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter initializes the HTTP router with all application routes and wraps it
// in the timeout, CORS, logging and tracing middleware.
func NewRouter(c Controllers, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	authed := middleware.RequireAuth(cfg.Verifier, cfg.CookieName, cfg.Logger)
	role := func(r domain.Role, next http.HandlerFunc) http.HandlerFunc {
		return authed(middleware.RequireRole(r)(next))
	}
	member := func(next http.HandlerFunc) http.HandlerFunc { return role(domain.RoleMember, next) }
	manager := func(next http.HandlerFunc) http.HandlerFunc { return role(domain.RoleManager, next) }
	admin := func(next http.HandlerFunc) http.HandlerFunc { return role(domain.RoleAdmin, next) }

	// Auth
	mux.HandleFunc("POST /auth/register", c.Auth.Register)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("POST /auth/logout", c.Auth.Logout)
	mux.HandleFunc("GET /users/me", member(c.Auth.Me))

	// Clubs
	mux.HandleFunc("GET /clubs", c.Clubs.ListClubs)
	mux.HandleFunc("POST /clubs", manager(c.Clubs.CreateClub))
	mux.HandleFunc("GET /clubs/{clubID}", c.Clubs.GetClub)
	mux.HandleFunc("GET /clubs/{clubID}/members", manager(c.Clubs.ListMembers))
	mux.HandleFunc("GET /manager/clubs", manager(c.Clubs.ListManagedClubs))

	// Events
	mux.HandleFunc("GET /events", c.Events.ListUpcoming)
	mux.HandleFunc("GET /events/{eventID}", c.Events.GetEvent)
	mux.HandleFunc("GET /clubs/{clubID}/events", c.Events.ListClubEvents)
	mux.HandleFunc("POST /clubs/{clubID}/events", manager(c.Events.CreateEvent))

	// Join workflow, identical for clubs and events
	for _, prefix := range []string{"/clubs/{clubID}", "/events/{eventID}"} {
		mux.HandleFunc("POST "+prefix+"/join", member(c.Join.Join))
		mux.HandleFunc("POST "+prefix+"/payment-intent", member(c.Join.CreatePaymentIntent))
		mux.HandleFunc("POST "+prefix+"/join/confirm", member(c.Join.ConfirmPayment))
		mux.HandleFunc("POST "+prefix+"/checkout-session", member(c.Join.CreateCheckoutSession))
		mux.HandleFunc("POST "+prefix+"/checkout-success", member(c.Join.CheckoutSuccess))
	}

	// Me
	mux.HandleFunc("GET /me/memberships", member(c.Me.ListMemberships))
	mux.HandleFunc("GET /me/registrations", member(c.Me.ListRegistrations))
	mux.HandleFunc("GET /me/payments", member(c.Me.ListPayments))

	// Manager requests
	mux.HandleFunc("POST /manager-requests", member(c.ManagerRequest.Submit))
	mux.HandleFunc("GET /admin/manager-requests", admin(c.ManagerRequest.List))
	mux.HandleFunc("PATCH /admin/manager-requests/{requestID}", admin(c.ManagerRequest.Decide))

	// Admin
	mux.HandleFunc("GET /admin/stats", admin(c.Admin.Stats))
	mux.HandleFunc("GET /admin/users", admin(c.Admin.ListUsers))
	mux.HandleFunc("PATCH /admin/users/{userID}/role", admin(c.Admin.SetUserRole))
	mux.HandleFunc("PATCH /admin/clubs/{clubID}/status", admin(c.Admin.SetClubStatus))
	mux.HandleFunc("POST /admin/reconcile", admin(c.Admin.Reconcile))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.Timeout(cfg.RequestTimeout, handler)
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	handler = middleware.Tracing(handler)
	return handler
}
