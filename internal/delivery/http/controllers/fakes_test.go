package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"clubhub/internal/delivery/http/helpers"
	"clubhub/internal/delivery/http/middleware"
	"clubhub/internal/domain"
)

var (
	testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	member     = domain.Principal{UserID: "user-1", Email: "ana@example.com", Role: domain.RoleMember}
	adminUser  = domain.Principal{UserID: "user-9", Email: "root@example.com", Role: domain.RoleAdmin}
)

// newRequest builds a request with an optional JSON body, path values and principal.
func newRequest(t *testing.T, method, target string, body any, p *domain.Principal, pathValues map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, "http://test"+target, &buf)
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	if p != nil {
		req = req.WithContext(middleware.SetPrincipal(req.Context(), *p))
	}
	return req
}

// decodeEnvelope decodes the response envelope and unmarshals data into dest when non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	if dest != nil && envelope.Data != nil {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, dest))
	}
	return envelope
}

// fakeAuthService implements domain.AuthService.
type fakeAuthService struct {
	user  *domain.User
	token string
	err   error

	lastEmail string
}

func (f *fakeAuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	f.lastEmail = email
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	f.lastEmail = email
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.user, nil
}

func (f *fakeAuthService) Me(ctx context.Context, p domain.Principal) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

// fakeJoinService implements domain.JoinService.
type fakeJoinService struct {
	result   *domain.JoinResult
	intent   *domain.PaymentIntentResult
	checkout *domain.CheckoutSessionResult
	err      error

	lastTarget    domain.Target
	lastReference string
	lastPrincipal domain.Principal
}

func (f *fakeJoinService) record(p domain.Principal, t domain.Target, ref string) {
	f.lastPrincipal, f.lastTarget, f.lastReference = p, t, ref
}

func (f *fakeJoinService) RequestFreeJoin(ctx context.Context, p domain.Principal, t domain.Target) (*domain.JoinResult, error) {
	f.record(p, t, "")
	return f.result, f.err
}

func (f *fakeJoinService) CreatePaymentIntent(ctx context.Context, p domain.Principal, t domain.Target) (*domain.PaymentIntentResult, error) {
	f.record(p, t, "")
	return f.intent, f.err
}

func (f *fakeJoinService) ConfirmPayment(ctx context.Context, p domain.Principal, t domain.Target, reference string) (*domain.JoinResult, error) {
	f.record(p, t, reference)
	return f.result, f.err
}

func (f *fakeJoinService) CreateCheckoutSession(ctx context.Context, p domain.Principal, t domain.Target) (*domain.CheckoutSessionResult, error) {
	f.record(p, t, "")
	return f.checkout, f.err
}

func (f *fakeJoinService) ConfirmCheckout(ctx context.Context, p domain.Principal, t domain.Target, sessionID string) (*domain.JoinResult, error) {
	f.record(p, t, sessionID)
	return f.result, f.err
}

func (f *fakeJoinService) GrantPayment(ctx context.Context, payment *domain.Payment) error {
	return f.err
}

// fakeClubService implements domain.ClubService.
type fakeClubService struct {
	club    *domain.Club
	clubs   []*domain.Club
	total   int
	members []*domain.Membership
	err     error

	lastFilter domain.ClubFilter
	lastStatus domain.ClubStatus
}

func (f *fakeClubService) CreateClub(ctx context.Context, p domain.Principal, club *domain.Club) error {
	if f.err != nil {
		return f.err
	}
	club.ID = "club-1"
	club.Status = domain.ClubStatusPending
	club.ManagerEmail = p.Email
	return nil
}

func (f *fakeClubService) GetClub(ctx context.Context, id string) (*domain.Club, error) {
	return f.club, f.err
}

func (f *fakeClubService) ListClubs(ctx context.Context, filter domain.ClubFilter) ([]*domain.Club, int, error) {
	f.lastFilter = filter
	return f.clubs, f.total, f.err
}

func (f *fakeClubService) ListManagedClubs(ctx context.Context, p domain.Principal) ([]*domain.Club, error) {
	return f.clubs, f.err
}

func (f *fakeClubService) ListMembers(ctx context.Context, p domain.Principal, clubID string) ([]*domain.Membership, error) {
	return f.members, f.err
}

func (f *fakeClubService) SetStatus(ctx context.Context, p domain.Principal, clubID string, status domain.ClubStatus) (*domain.Club, error) {
	f.lastStatus = status
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Club{ID: clubID, Status: status}, nil
}

// fakeEventService implements domain.EventService.
type fakeEventService struct {
	event  *domain.Event
	events []*domain.Event
	total  int
	err    error

	created *domain.Event
}

func (f *fakeEventService) CreateEvent(ctx context.Context, p domain.Principal, event *domain.Event) error {
	f.created = event
	if f.err != nil {
		return f.err
	}
	event.ID = "event-1"
	return nil
}

func (f *fakeEventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	return f.event, f.err
}

func (f *fakeEventService) ListClubEvents(ctx context.Context, clubID string) ([]*domain.Event, error) {
	return f.events, f.err
}

func (f *fakeEventService) ListUpcoming(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	return f.events, f.total, f.err
}

// fakeManagerRequestService implements domain.ManagerRequestService.
type fakeManagerRequestService struct {
	req *domain.ManagerRequest
	err error

	lastApprove bool
}

func (f *fakeManagerRequestService) Submit(ctx context.Context, p domain.Principal, name string) (*domain.ManagerRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ManagerRequest{ID: "req-1", Email: p.Email, Name: name, Status: domain.ManagerRequestPending}, nil
}

func (f *fakeManagerRequestService) List(ctx context.Context, status domain.ManagerRequestStatus) ([]*domain.ManagerRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*domain.ManagerRequest{f.req}, nil
}

func (f *fakeManagerRequestService) Decide(ctx context.Context, p domain.Principal, id string, approve bool) (*domain.ManagerRequest, error) {
	f.lastApprove = approve
	return f.req, f.err
}

// fakeAdminService implements domain.AdminService.
type fakeAdminService struct {
	stats  *domain.Stats
	report *domain.ReconcileReport
	users  []*domain.User
	err    error
}

func (f *fakeAdminService) Stats(ctx context.Context) (*domain.Stats, error) {
	return f.stats, f.err
}

func (f *fakeAdminService) ListUsers(ctx context.Context, params domain.PaginationParams) ([]*domain.User, int, error) {
	return f.users, len(f.users), f.err
}

func (f *fakeAdminService) SetUserRole(ctx context.Context, p domain.Principal, userID string, role domain.Role) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: userID, Role: role}, nil
}

func (f *fakeAdminService) Reconcile(ctx context.Context) (*domain.ReconcileReport, error) {
	return f.report, f.err
}

// fakeMemberService implements domain.MemberService.
type fakeMemberService struct {
	memberships   []*domain.MembershipWithClub
	registrations []*domain.EventRegistrationWithEvent
	payments      []*domain.Payment
	err           error
}

func (f *fakeMemberService) ListMyMemberships(ctx context.Context, p domain.Principal) ([]*domain.MembershipWithClub, error) {
	return f.memberships, f.err
}

func (f *fakeMemberService) ListMyRegistrations(ctx context.Context, p domain.Principal) ([]*domain.EventRegistrationWithEvent, error) {
	return f.registrations, f.err
}

func (f *fakeMemberService) ListMyPayments(ctx context.Context, p domain.Principal) ([]*domain.Payment, error) {
	return f.payments, f.err
}
