package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"clubhub/internal/domain"
)

// memStore is an in-memory resource store. It enforces the same unique keys as
// the Postgres schema: (user, club), (event, user) and the gateway reference.
type memStore struct {
	mu            sync.Mutex
	users         map[string]*domain.User
	clubs         map[string]*domain.Club
	events        map[string]*domain.Event
	memberships   map[string]*domain.Membership // key user|club
	registrations map[string]*domain.EventRegistration
	payments      map[string]*domain.Payment // key gateway reference
	attempts      map[string]*domain.PaymentAttempt
	requests      map[string]*domain.ManagerRequest

	failLedger error
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[string]*domain.User{},
		clubs:         map[string]*domain.Club{},
		events:        map[string]*domain.Event{},
		memberships:   map[string]*domain.Membership{},
		registrations: map[string]*domain.EventRegistration{},
		payments:      map[string]*domain.Payment{},
		attempts:      map[string]*domain.PaymentAttempt{},
		requests:      map[string]*domain.ManagerRequest{},
	}
}

func pairKey(a, b string) string { return a + "|" + b }

func (s *memStore) addClub(fee float64, status domain.ClubStatus) *domain.Club {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &domain.Club{ID: uuid.NewString(), Name: "Chess Club", Description: "Weekly games", MembershipFee: fee,
		Status: status, ManagerEmail: "mgr@example.com", CreatedAt: time.Now()}
	s.clubs[c.ID] = c
	return c
}

func (s *memStore) addEvent(clubID string, fee float64, max *int) *domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &domain.Event{ID: uuid.NewString(), ClubID: clubID, Title: "Spring Open", IsPaid: fee > 0, Fee: fee,
		MaxAttendees: max, ManagerEmail: "mgr@example.com", Date: time.Now().Add(72 * time.Hour), CreatedAt: time.Now()}
	s.events[e.ID] = e
	return e
}

func (s *memStore) addUser(email string, role domain.Role) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &domain.User{ID: uuid.NewString(), Email: email, Name: strings.Split(email, "@")[0], Role: role, CreatedAt: time.Now()}
	s.users[u.ID] = u
	return u
}

func (s *memStore) membershipCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.memberships)
}

func (s *memStore) registrationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.registrations)
}

func (s *memStore) paymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}

// users

type memUsers struct{ *memStore }

func (r memUsers) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	r.users[u.ID] = u
	return nil
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) List(ctx context.Context, params domain.PaginationParams) ([]*domain.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, len(out), nil
}

func (r memUsers) UpdateRole(ctx context.Context, email string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.Role = role
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r memUsers) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

// clubs

type memClubs struct{ *memStore }

func (r memClubs) Create(ctx context.Context, c *domain.Club) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.NewString()
	r.clubs[c.ID] = c
	return nil
}

func (r memClubs) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clubs[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (r memClubs) List(ctx context.Context, f domain.ClubFilter) ([]*domain.Club, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Club, 0)
	for _, c := range r.clubs {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.ManagerEmail != "" && c.ManagerEmail != f.ManagerEmail {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, c)
	}
	return out, len(out), nil
}

func (r memClubs) UpdateStatus(ctx context.Context, id string, from, to domain.ClubStatus) (*domain.Club, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clubs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if c.Status != from {
		return nil, domain.ErrInvalidState
	}
	c.Status = to
	return c, nil
}

func (r memClubs) CountByStatus(ctx context.Context) (map[domain.ClubStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[domain.ClubStatus]int{}
	for _, c := range r.clubs {
		out[c.Status]++
	}
	return out, nil
}

// events

type memEvents struct{ *memStore }

func (r memEvents) Create(ctx context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.NewString()
	r.events[e.ID] = e
	return nil
}

func (r memEvents) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.events[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (r memEvents) ListByClubID(ctx context.Context, clubID string) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Event, 0)
	for _, e := range r.events {
		if e.ClubID == clubID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memEvents) ListUpcoming(ctx context.Context, from time.Time, params domain.PaginationParams) ([]*domain.Event, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Event, 0)
	for _, e := range r.events {
		if !e.Date.Before(from) {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

func (r memEvents) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events), nil
}

// memberships

type memMemberships struct{ *memStore }

func (r memMemberships) Create(ctx context.Context, m *domain.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey(m.UserEmail, m.ClubID)
	if _, ok := r.memberships[key]; ok {
		return domain.ErrAlreadyExists
	}
	m.ID = uuid.NewString()
	r.memberships[key] = m
	return nil
}

func (r memMemberships) GetByUserAndClub(ctx context.Context, userEmail, clubID string) (*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.memberships[pairKey(userEmail, clubID)]; ok {
		return m, nil
	}
	return nil, domain.ErrNotFound
}

func (r memMemberships) ListByUser(ctx context.Context, userEmail string) ([]*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Membership, 0)
	for _, m := range r.memberships {
		if m.UserEmail == userEmail {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r memMemberships) ListByClub(ctx context.Context, clubID string) ([]*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Membership, 0)
	for _, m := range r.memberships {
		if m.ClubID == clubID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r memMemberships) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.memberships), nil
}

// registrations

type memRegistrations struct{ *memStore }

func (r memRegistrations) CreateWithinCapacity(ctx context.Context, reg *domain.EventRegistration, capacity int, holdsSince time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[reg.EventID]; !ok {
		return domain.ErrNotFound
	}
	for key, existing := range r.registrations {
		if existing.EventID == reg.EventID && existing.Status == domain.RegistrationStatusPendingPayment &&
			existing.JoinedAt.Before(holdsSince) {
			delete(r.registrations, key)
		}
	}
	key := pairKey(reg.EventID, reg.UserEmail)
	if _, ok := r.registrations[key]; ok {
		return domain.ErrAlreadyExists
	}
	if capacity > 0 && r.countLocked(reg.EventID, holdsSince) >= capacity {
		return domain.ErrFull
	}
	reg.ID = uuid.NewString()
	r.registrations[key] = reg
	return nil
}

func (r memRegistrations) countLocked(eventID string, holdsSince time.Time) int {
	n := 0
	for _, reg := range r.registrations {
		if reg.EventID != eventID {
			continue
		}
		if reg.Status == domain.RegistrationStatusRegistered || !reg.JoinedAt.Before(holdsSince) {
			n++
		}
	}
	return n
}

func (r memRegistrations) GetByEventAndUser(ctx context.Context, eventID, userEmail string) (*domain.EventRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg, ok := r.registrations[pairKey(eventID, userEmail)]; ok {
		return reg, nil
	}
	return nil, domain.ErrNotFound
}

func (r memRegistrations) ListByUser(ctx context.Context, userEmail string) ([]*domain.EventRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.EventRegistration, 0)
	for _, reg := range r.registrations {
		if reg.UserEmail == userEmail {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (r memRegistrations) CountByEvent(ctx context.Context, eventID string, holdsSince time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countLocked(eventID, holdsSince), nil
}

func (r memRegistrations) DeletePending(ctx context.Context, eventID, userEmail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey(eventID, userEmail)
	if reg, ok := r.registrations[key]; ok && reg.Status == domain.RegistrationStatusPendingPayment {
		delete(r.registrations, key)
	}
	return nil
}

func (r memRegistrations) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, reg := range r.registrations {
		if reg.Status == domain.RegistrationStatusRegistered {
			n++
		}
	}
	return n, nil
}

// payments and ledger

type memPayments struct{ *memStore }

func (r memPayments) GetByReference(ctx context.Context, reference string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.payments[reference]; ok {
		return p, nil
	}
	for _, p := range r.payments {
		if p.SettlementReference != nil && *p.SettlementReference == reference {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memPayments) ListByUser(ctx context.Context, userEmail string) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Payment, 0)
	for _, p := range r.payments {
		if p.UserEmail == userEmail {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memPayments) ListUngranted(ctx context.Context) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Payment, 0)
	for _, p := range r.payments {
		switch {
		case p.ClubID != nil:
			if _, ok := r.memberships[pairKey(p.UserEmail, *p.ClubID)]; !ok {
				out = append(out, p)
			}
		case p.EventID != nil:
			reg, ok := r.registrations[pairKey(*p.EventID, p.UserEmail)]
			if !ok || reg.Status != domain.RegistrationStatusRegistered {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r memPayments) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payments), nil
}

func (r memPayments) Revenue(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, p := range r.payments {
		total += p.Amount
	}
	return total, nil
}

type memAttempts struct{ *memStore }

func (r memAttempts) Create(ctx context.Context, a *domain.PaymentAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.attempts[a.Reference]; ok {
		return domain.ErrAlreadyExists
	}
	stored := *a
	r.attempts[a.Reference] = &stored
	return nil
}

func (r memAttempts) GetByReference(ctx context.Context, reference string) (*domain.PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.attempts[reference]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

type memLedger struct{ *memStore }

func (l memLedger) upsertLocked(p *domain.Payment) error {
	existing, ok := l.payments[p.GatewayReference]
	if !ok && p.SettlementReference != nil {
		for _, other := range l.payments {
			if other.SettlementReference != nil && *other.SettlementReference == *p.SettlementReference {
				existing, ok = other, true
				break
			}
		}
	}
	if ok {
		if existing.UserEmail != p.UserEmail || existing.Type != p.Type {
			return domain.ErrForbidden
		}
		*p = *existing
		return nil
	}
	p.ID = uuid.NewString()
	stored := *p
	l.payments[p.GatewayReference] = &stored
	return nil
}

func (l memLedger) RecordClubPayment(ctx context.Context, p *domain.Payment, m *domain.Membership) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failLedger != nil {
		return false, l.failLedger
	}
	if err := l.upsertLocked(p); err != nil {
		return false, err
	}
	m.PaymentID = &p.ID
	key := pairKey(m.UserEmail, m.ClubID)
	if _, ok := l.memberships[key]; ok {
		return false, nil
	}
	m.ID = uuid.NewString()
	l.memberships[key] = m
	return true, nil
}

func (l memLedger) RecordEventPayment(ctx context.Context, p *domain.Payment, reg *domain.EventRegistration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failLedger != nil {
		return false, l.failLedger
	}
	if err := l.upsertLocked(p); err != nil {
		return false, err
	}
	reg.PaymentID = &p.ID
	reg.Status = domain.RegistrationStatusRegistered
	key := pairKey(reg.EventID, reg.UserEmail)
	if existing, ok := l.registrations[key]; ok {
		if existing.Status != domain.RegistrationStatusPendingPayment {
			return false, nil
		}
		existing.Status = domain.RegistrationStatusRegistered
		existing.AmountPaid = reg.AmountPaid
		existing.PaymentID = reg.PaymentID
		*reg = *existing
		return true, nil
	}
	reg.ID = uuid.NewString()
	l.registrations[key] = reg
	return true, nil
}

// manager requests

type memManagerRequests struct{ *memStore }

func (r memManagerRequests) Create(ctx context.Context, req *domain.ManagerRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.requests {
		if existing.Email == req.Email && existing.Status == domain.ManagerRequestPending {
			return domain.ErrAlreadyExists
		}
	}
	req.ID = uuid.NewString()
	r.requests[req.ID] = req
	return nil
}

func (r memManagerRequests) GetByID(ctx context.Context, id string) (*domain.ManagerRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req, ok := r.requests[id]; ok {
		return req, nil
	}
	return nil, domain.ErrNotFound
}

func (r memManagerRequests) GetPendingByEmail(ctx context.Context, email string) (*domain.ManagerRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.Email == email && req.Status == domain.ManagerRequestPending {
			return req, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memManagerRequests) ListByStatus(ctx context.Context, status domain.ManagerRequestStatus) ([]*domain.ManagerRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.ManagerRequest, 0)
	for _, req := range r.requests {
		if status == "" || req.Status == status {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r memManagerRequests) Resolve(ctx context.Context, id string, status domain.ManagerRequestStatus) (*domain.ManagerRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if req.Status != domain.ManagerRequestPending {
		return nil, domain.ErrInvalidState
	}
	req.Status = status
	return req, nil
}

// fakeGateway serves scripted intent and session states.
type fakeGateway struct {
	mu       sync.Mutex
	statuses map[string]*domain.GatewayStatus
	sessions map[string]*domain.GatewaySessionStatus
	err      error

	intents      int
	lastAmount   int64
	lastMetadata map[string]string
	lastItem     domain.CheckoutLineItem
	retrievals   int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{statuses: map[string]*domain.GatewayStatus{}, sessions: map[string]*domain.GatewaySessionStatus{}}
}

func (g *fakeGateway) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*domain.GatewayIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.intents++
	g.lastAmount = amount
	g.lastMetadata = metadata
	ref := "pi_" + uuid.NewString()
	g.statuses[ref] = &domain.GatewayStatus{State: domain.GatewayStatePending, Currency: currency, Metadata: metadata}
	return &domain.GatewayIntent{Reference: ref, ClientSecret: ref + "_secret"}, nil
}

func (g *fakeGateway) RetrieveStatus(ctx context.Context, reference string) (*domain.GatewayStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.retrievals++
	if g.err != nil {
		return nil, g.err
	}
	st, ok := g.statuses[reference]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return st, nil
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, item domain.CheckoutLineItem, successURL, cancelURL, currency string, metadata map[string]string) (*domain.GatewaySession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.lastItem = item
	g.lastMetadata = metadata
	id := "cs_" + uuid.NewString()
	g.sessions[id] = &domain.GatewaySessionStatus{Currency: currency, Metadata: metadata}
	return &domain.GatewaySession{SessionID: id, URL: "https://checkout.test/" + id}, nil
}

func (g *fakeGateway) RetrieveSession(ctx context.Context, sessionID string) (*domain.GatewaySessionStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.retrievals++
	if g.err != nil {
		return nil, g.err
	}
	st, ok := g.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return st, nil
}

func (g *fakeGateway) settle(reference string, state domain.GatewayState, amount int64, currency string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	st, ok := g.statuses[reference]
	if !ok {
		st = &domain.GatewayStatus{}
		g.statuses[reference] = st
	}
	st.State, st.CapturedAmount, st.Currency = state, amount, currency
}

func (g *fakeGateway) pay(sessionID string, amount int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	st := g.sessions[sessionID]
	st.Paid, st.CapturedAmount, st.PaymentReference = true, amount, "pi_for_"+sessionID
}

func (g *fakeGateway) expire(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[sessionID].Expired = true
}

type publishedEvent struct {
	key     string
	payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{key: key, payload: payload})
	return p.err
}

func (p *fakePublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.key)
	}
	return out
}

type fakeEmailService struct {
	mu        sync.Mutex
	receipts  []*domain.JoinReceiptEmailData
	decisions []*domain.ManagerDecisionEmailData
	err       error
}

func (f *fakeEmailService) SendJoinReceipt(ctx context.Context, data *domain.JoinReceiptEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receipts = append(f.receipts, data)
	return f.err
}

func (f *fakeEmailService) SendManagerDecision(ctx context.Context, data *domain.ManagerDecisionEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions = append(f.decisions, data)
	return f.err
}

var errBoom = errors.New("boom")
