package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"clubhub/internal/domain"
)

// JoinConfig carries the settings the join workflow needs from configuration.
type JoinConfig struct {
	Currency         string
	MembershipPeriod time.Duration
	SuccessURL       string
	CancelURL        string
	// CheckoutHold is how long a pending_payment seat stays reserved.
	CheckoutHold time.Duration
}

const defaultCheckoutHold = 45 * time.Minute

// JoinDependencies groups the collaborators of the join workflow.
type JoinDependencies struct {
	Clubs         domain.ClubRepository
	Events        domain.EventRepository
	Memberships   domain.MembershipRepository
	Registrations domain.EventRegistrationRepository
	Payments      domain.PaymentRepository
	Attempts      domain.PaymentAttemptRepository
	Ledger        domain.Ledger
	Gateway       domain.PaymentGateway
	Publisher     domain.EventPublisher
	Email         domain.EmailService
}

type joinService struct {
	JoinDependencies
	cfg    JoinConfig
	logger *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewJoinService returns the JoinService driving free joins and paid confirmations.
func NewJoinService(deps JoinDependencies, cfg JoinConfig, logger *slog.Logger) domain.JoinService {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	if cfg.CheckoutHold <= 0 {
		cfg.CheckoutHold = defaultCheckoutHold
	}
	return &joinService{
		JoinDependencies: deps,
		cfg:              cfg,
		logger:           logger,
		tracer:           otel.Tracer("clubhub/services/join"),
		now:              time.Now,
	}
}

// resolvedTarget is a validated club or event together with its record.
type resolvedTarget struct {
	domain.Target
	club  *domain.Club
	event *domain.Event
}

func (r *resolvedTarget) name() string {
	if r.club != nil {
		return r.club.Name
	}
	return r.event.Title
}

func (r *resolvedTarget) description() string {
	if r.club != nil {
		return r.club.Description
	}
	return r.event.Description
}

func (r *resolvedTarget) free() bool {
	if r.club != nil {
		return r.club.IsFree()
	}
	return r.event.IsFree()
}

func (r *resolvedTarget) amount() int64 {
	if r.club != nil {
		return domain.MinorUnits(r.club.MembershipFee)
	}
	return domain.MinorUnits(r.event.Fee)
}

func (r *resolvedTarget) capacity() int {
	if r.event == nil || r.event.MaxAttendees == nil {
		return 0
	}
	return *r.event.MaxAttendees
}

// resolve parses the target id and loads the record. Clubs must be approved;
// any existing event is eligible.
func (s *joinService) resolve(ctx context.Context, t domain.Target, requireJoinable bool) (*resolvedTarget, error) {
	id, err := domain.ParseID(t.ID)
	if err != nil {
		return nil, err
	}
	rt := &resolvedTarget{Target: domain.Target{Kind: t.Kind, ID: id}}
	switch t.Kind {
	case domain.TargetClub:
		club, err := s.Clubs.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get club: %w", err)
		}
		if requireJoinable && !club.IsJoinable() {
			return nil, fmt.Errorf("club is %s: %w", club.Status, domain.ErrInvalidState)
		}
		rt.club = club
	case domain.TargetEvent:
		event, err := s.Events.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get event: %w", err)
		}
		rt.event = event
	default:
		return nil, fmt.Errorf("%w: unknown target kind %q", domain.ErrInvalidInput, t.Kind)
	}
	return rt, nil
}

// holdsSince is the oldest joined_at a pending reservation may carry and still
// count toward capacity.
func (s *joinService) holdsSince() time.Time {
	return s.now().Add(-s.cfg.CheckoutHold)
}

func checkPrincipal(p domain.Principal) (domain.Principal, error) {
	p.Email = domain.NormalizeEmail(p.Email)
	if p.Email == "" || !domain.Authorize(p, domain.RoleMember) {
		return p, domain.ErrForbidden
	}
	return p, nil
}

// access returns the principal's existing record for the target. joined is
// false when nothing exists or only a pending reservation does.
func (s *joinService) access(ctx context.Context, p domain.Principal, rt *resolvedTarget) (res *domain.JoinResult, joined bool, err error) {
	res = &domain.JoinResult{Kind: rt.Kind, TargetID: rt.ID}
	if rt.club != nil {
		m, err := s.Memberships.GetByUserAndClub(ctx, p.Email, rt.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return res, false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("get membership: %w", err)
		}
		res.Membership = m
		return res, true, nil
	}
	reg, err := s.Registrations.GetByEventAndUser(ctx, rt.ID, p.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return res, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get registration: %w", err)
	}
	res.Registration = reg
	return res, reg.Status == domain.RegistrationStatusRegistered, nil
}

func (s *joinService) RequestFreeJoin(ctx context.Context, p domain.Principal, t domain.Target) (res *domain.JoinResult, err error) {
	ctx, span := s.startSpan(ctx, "join.RequestFreeJoin", t)
	defer func() { endSpan(span, err) }()

	p, err = checkPrincipal(p)
	if err != nil {
		return nil, err
	}
	rt, err := s.resolve(ctx, t, true)
	if err != nil {
		return nil, err
	}
	if !rt.free() {
		return nil, fmt.Errorf("%s requires payment: %w", rt.Target, domain.ErrInvalidState)
	}

	existing, joined, err := s.access(ctx, p, rt)
	if err != nil {
		return nil, err
	}
	if joined {
		existing.AlreadyJoined = true
		return existing, nil
	}

	now := s.now()
	if rt.club != nil {
		m := domain.NewMembership(p.Email, rt.ID, now)
		if err := s.Memberships.Create(ctx, m); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return s.alreadyJoined(ctx, p, rt)
			}
			return nil, fmt.Errorf("create membership: %w", err)
		}
		s.publish(ctx, domain.EventMembershipGranted, membershipEvent(m))
		return &domain.JoinResult{Kind: rt.Kind, TargetID: rt.ID, Membership: m}, nil
	}

	reg := domain.NewEventRegistration(rt.ID, p.Email, domain.RegistrationStatusRegistered, now)
	if err := s.Registrations.CreateWithinCapacity(ctx, reg, rt.capacity(), s.holdsSince()); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return s.alreadyJoined(ctx, p, rt)
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}
	s.publish(ctx, domain.EventRegistrationCreated, registrationEvent(reg))
	return &domain.JoinResult{Kind: rt.Kind, TargetID: rt.ID, Registration: reg}, nil
}

// alreadyJoined reports the record that won a concurrent insert.
func (s *joinService) alreadyJoined(ctx context.Context, p domain.Principal, rt *resolvedTarget) (*domain.JoinResult, error) {
	res, _, err := s.access(ctx, p, rt)
	if err != nil {
		return nil, err
	}
	res.AlreadyJoined = true
	return res, nil
}

// payable loads a target for a paid flow: it must carry a fee and the
// principal must not already hold access.
func (s *joinService) payable(ctx context.Context, p domain.Principal, t domain.Target) (*resolvedTarget, *domain.JoinResult, error) {
	rt, err := s.resolve(ctx, t, true)
	if err != nil {
		return nil, nil, err
	}
	if rt.free() {
		return nil, nil, fmt.Errorf("%s is free: %w", rt.Target, domain.ErrInvalidState)
	}
	if rt.amount() < 1 {
		return nil, nil, fmt.Errorf("%s fee rounds to zero: %w", rt.Target, domain.ErrInvalidState)
	}
	existing, joined, err := s.access(ctx, p, rt)
	if err != nil {
		return nil, nil, err
	}
	if joined {
		return nil, nil, fmt.Errorf("already joined %s: %w", rt.Target, domain.ErrInvalidState)
	}
	return rt, existing, nil
}

func (s *joinService) metadata(p domain.Principal, rt *resolvedTarget) map[string]string {
	return map[string]string{
		domain.MetadataType:   string(rt.PaymentType()),
		domain.MetadataTarget: rt.ID,
		domain.MetadataEmail:  p.Email,
	}
}

func (s *joinService) CreatePaymentIntent(ctx context.Context, p domain.Principal, t domain.Target) (res *domain.PaymentIntentResult, err error) {
	ctx, span := s.startSpan(ctx, "join.CreatePaymentIntent", t)
	defer func() { endSpan(span, err) }()

	p, err = checkPrincipal(p)
	if err != nil {
		return nil, err
	}
	rt, existing, err := s.payable(ctx, p, t)
	if err != nil {
		return nil, err
	}
	if rt.event != nil && existing.Registration == nil {
		n, err := s.Registrations.CountByEvent(ctx, rt.ID, s.holdsSince())
		if err != nil {
			return nil, fmt.Errorf("count registrations: %w", err)
		}
		if !rt.event.HasCapacity(n) {
			return nil, fmt.Errorf("event %s: %w", rt.ID, domain.ErrFull)
		}
	}

	amount := rt.amount()
	intent, err := s.Gateway.CreateIntent(ctx, amount, s.cfg.Currency, s.metadata(p, rt))
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	if err := s.recordAttempt(ctx, intent.Reference, p, rt, amount); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "payment intent created", "target", rt.Target.String(), "reference", intent.Reference, "amount", amount)
	return &domain.PaymentIntentResult{
		Reference:    intent.Reference,
		ClientSecret: intent.ClientSecret,
		Amount:       amount,
		Currency:     s.cfg.Currency,
	}, nil
}

func (s *joinService) CreateCheckoutSession(ctx context.Context, p domain.Principal, t domain.Target) (res *domain.CheckoutSessionResult, err error) {
	ctx, span := s.startSpan(ctx, "join.CreateCheckoutSession", t)
	defer func() { endSpan(span, err) }()

	p, err = checkPrincipal(p)
	if err != nil {
		return nil, err
	}
	rt, existing, err := s.payable(ctx, p, t)
	if err != nil {
		return nil, err
	}
	amount := rt.amount()
	now := s.now()

	// Paid event seats are held as pending_payment until checkout confirms or
	// the hold lapses. Reopening checkout renews the caller's own hold.
	if rt.event != nil {
		if existing.Registration != nil {
			if err := s.Registrations.DeletePending(ctx, rt.ID, p.Email); err != nil {
				return nil, fmt.Errorf("renew reservation: %w", err)
			}
		}
		reg := domain.NewEventRegistration(rt.ID, p.Email, domain.RegistrationStatusPendingPayment, now)
		if err := s.Registrations.CreateWithinCapacity(ctx, reg, rt.capacity(), s.holdsSince()); err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("reserve registration: %w", err)
		}
	}

	item := domain.CheckoutLineItem{
		Name:        rt.name(),
		Description: rt.description(),
		Amount:      amount,
		ExpiresAt:   now.Add(s.cfg.CheckoutHold),
	}
	session, err := s.Gateway.CreateCheckoutSession(ctx, item, s.cfg.SuccessURL, s.cfg.CancelURL, s.cfg.Currency, s.metadata(p, rt))
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	if err := s.recordAttempt(ctx, session.SessionID, p, rt, amount); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "checkout session created", "target", rt.Target.String(), "session_id", session.SessionID, "amount", amount)
	return &domain.CheckoutSessionResult{
		SessionID: session.SessionID,
		URL:       session.URL,
		Amount:    amount,
		Currency:  s.cfg.Currency,
	}, nil
}

// recordAttempt remembers who a gateway reference was issued to, for which
// target and at what price. Confirmation trusts nothing else.
func (s *joinService) recordAttempt(ctx context.Context, reference string, p domain.Principal, rt *resolvedTarget, amount int64) error {
	err := s.Attempts.Create(ctx, &domain.PaymentAttempt{
		Reference: reference,
		UserEmail: p.Email,
		Type:      rt.PaymentType(),
		TargetID:  rt.ID,
		Amount:    amount,
		Currency:  s.cfg.Currency,
		CreatedAt: s.now(),
	})
	if err != nil {
		return fmt.Errorf("record payment attempt: %w", err)
	}
	return nil
}

// settlement is the gateway's authoritative view of a payment.
type settlement struct {
	paid     bool
	expired  bool
	state    string
	amount   int64
	currency string
	// reference is the underlying charge when the confirmed reference is a
	// checkout session.
	reference string
	metadata  map[string]string
}

func (s *joinService) ConfirmPayment(ctx context.Context, p domain.Principal, t domain.Target, reference string) (res *domain.JoinResult, err error) {
	ctx, span := s.startSpan(ctx, "join.ConfirmPayment", t)
	defer func() { endSpan(span, err) }()

	return s.confirm(ctx, p, t, reference, func(ctx context.Context) (*settlement, error) {
		st, err := s.Gateway.RetrieveStatus(ctx, reference)
		if err != nil {
			return nil, fmt.Errorf("retrieve payment status: %w", err)
		}
		return &settlement{
			paid:     st.State == domain.GatewayStateSucceeded,
			state:    string(st.State),
			amount:   st.CapturedAmount,
			currency: st.Currency,
			metadata: st.Metadata,
		}, nil
	})
}

func (s *joinService) ConfirmCheckout(ctx context.Context, p domain.Principal, t domain.Target, sessionID string) (res *domain.JoinResult, err error) {
	ctx, span := s.startSpan(ctx, "join.ConfirmCheckout", t)
	defer func() { endSpan(span, err) }()

	return s.confirm(ctx, p, t, sessionID, func(ctx context.Context) (*settlement, error) {
		st, err := s.Gateway.RetrieveSession(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("retrieve checkout session: %w", err)
		}
		state := "unpaid"
		if st.Expired {
			state = "expired"
		}
		return &settlement{
			paid:      st.Paid,
			expired:   st.Expired,
			state:     state,
			amount:    st.CapturedAmount,
			currency:  st.Currency,
			reference: st.PaymentReference,
			metadata:  st.Metadata,
		}, nil
	})
}

// confirm records a settled payment and grants the access it funds. The
// reference is the idempotency key: a recorded reference short-circuits to the
// stored outcome without contacting the gateway. Unrecorded references must
// have been issued to this principal for this target.
func (s *joinService) confirm(ctx context.Context, p domain.Principal, t domain.Target, reference string, settle func(context.Context) (*settlement, error)) (*domain.JoinResult, error) {
	p, err := checkPrincipal(p)
	if err != nil {
		return nil, err
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, fmt.Errorf("%w: missing payment reference", domain.ErrInvalidInput)
	}
	rt, err := s.resolve(ctx, t, false)
	if err != nil {
		return nil, err
	}

	if res, ok, err := s.replayRecorded(ctx, p, rt, reference); ok || err != nil {
		return res, err
	}

	attempt, err := s.Attempts.GetByReference(ctx, reference)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("payment %s was not issued here: %w", reference, domain.ErrForbidden)
	case err != nil:
		return nil, fmt.Errorf("get payment attempt: %w", err)
	case !attempt.Matches(p.Email, rt.Target):
		return nil, fmt.Errorf("payment %s belongs to another user or target: %w", reference, domain.ErrForbidden)
	}

	st, err := settle(ctx)
	if err != nil {
		return nil, err
	}
	if !st.paid {
		if st.expired && rt.event != nil {
			s.releaseHold(ctx, p, rt, attempt)
		}
		return nil, fmt.Errorf("payment %s is %s: %w", reference, st.state, domain.ErrPaymentNotCompleted)
	}
	if err := checkMetadata(st.metadata, p, rt); err != nil {
		return nil, err
	}
	if st.currency == "" {
		st.currency = attempt.Currency
	}
	if !strings.EqualFold(st.currency, attempt.Currency) {
		return nil, fmt.Errorf("payment %s settled in %s, expected %s: %w", reference, st.currency, attempt.Currency, domain.ErrInvalidState)
	}
	if st.amount < attempt.Amount {
		return nil, fmt.Errorf("payment %s captured %d of %d: %w", reference, st.amount, attempt.Amount, domain.ErrInvalidState)
	}
	if st.reference != "" {
		if res, ok, err := s.replayRecorded(ctx, p, rt, st.reference); ok || err != nil {
			return res, err
		}
	}

	payment := &domain.Payment{
		UserEmail:        p.Email,
		Type:             rt.PaymentType(),
		Amount:           st.amount,
		Currency:         strings.ToLower(st.currency),
		GatewayReference: reference,
		CreatedAt:        s.now(),
	}
	if st.reference != "" {
		payment.SettlementReference = &st.reference
	}
	res, err := s.record(ctx, rt, payment)
	if err != nil {
		return nil, err
	}
	if !res.AlreadyJoined {
		s.sendReceipt(ctx, rt, payment)
	}
	return res, nil
}

// replayRecorded reports ok when reference already backs a recorded payment.
// A payment recorded for another principal or target is forbidden.
func (s *joinService) replayRecorded(ctx context.Context, p domain.Principal, rt *resolvedTarget, reference string) (*domain.JoinResult, bool, error) {
	recorded, err := s.Payments.GetByReference(ctx, reference)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("get payment: %w", err)
	case !paymentMatches(recorded, p, rt):
		return nil, false, fmt.Errorf("payment %s belongs to another user or target: %w", reference, domain.ErrForbidden)
	}
	res, err := s.replay(ctx, p, rt, recorded)
	return res, err == nil, err
}

// releaseHold frees the seat held for a checkout the gateway will never pay.
// A hold renewed after the attempt belongs to a newer checkout and is kept.
func (s *joinService) releaseHold(ctx context.Context, p domain.Principal, rt *resolvedTarget, attempt *domain.PaymentAttempt) {
	reg, err := s.Registrations.GetByEventAndUser(ctx, rt.ID, p.Email)
	if err != nil || reg.Status != domain.RegistrationStatusPendingPayment || reg.JoinedAt.After(attempt.CreatedAt) {
		return
	}
	if err := s.Registrations.DeletePending(ctx, rt.ID, p.Email); err != nil {
		s.logger.WarnContext(ctx, "reservation not released", "target", rt.Target.String(), "err", err)
		return
	}
	s.logger.InfoContext(ctx, "reservation released", "target", rt.Target.String())
}

// replay returns the outcome of an already recorded payment. Access missing
// behind a recorded payment is granted again through the ledger.
func (s *joinService) replay(ctx context.Context, p domain.Principal, rt *resolvedTarget, payment *domain.Payment) (*domain.JoinResult, error) {
	res, joined, err := s.access(ctx, p, rt)
	if err != nil {
		return nil, err
	}
	if !joined {
		s.logger.WarnContext(ctx, "recorded payment without access, granting", "reference", payment.GatewayReference)
		return s.record(ctx, rt, payment)
	}
	res.AlreadyJoined = true
	res.Payment = payment
	return res, nil
}

// record writes the payment and its access record through the ledger and
// publishes the resulting events.
func (s *joinService) record(ctx context.Context, rt *resolvedTarget, payment *domain.Payment) (*domain.JoinResult, error) {
	res := &domain.JoinResult{Kind: rt.Kind, TargetID: rt.ID, Payment: payment}
	if rt.club != nil {
		payment.ClubID = &rt.ID
	} else {
		payment.EventID = &rt.ID
	}
	joinedAt := s.now()

	var granted bool
	var err error
	if rt.club != nil {
		m := domain.NewMembership(payment.UserEmail, rt.ID, joinedAt)
		expires := joinedAt.Add(s.cfg.MembershipPeriod)
		m.ExpiresAt = &expires
		granted, err = s.Ledger.RecordClubPayment(ctx, payment, m)
		res.Membership = m
	} else {
		reg := domain.NewEventRegistration(rt.ID, payment.UserEmail, domain.RegistrationStatusRegistered, joinedAt)
		reg.AmountPaid = payment.Amount
		granted, err = s.Ledger.RecordEventPayment(ctx, payment, reg)
		res.Registration = reg
	}
	if err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}

	s.publish(ctx, domain.EventPaymentRecorded, paymentEvent(payment))
	if !granted {
		existing, _, err := s.access(ctx, domain.Principal{Email: payment.UserEmail}, rt)
		if err != nil {
			return nil, err
		}
		res.Membership, res.Registration = existing.Membership, existing.Registration
		res.AlreadyJoined = true
		return res, nil
	}
	if res.Membership != nil {
		s.publish(ctx, domain.EventMembershipGranted, membershipEvent(res.Membership))
	} else {
		s.publish(ctx, domain.EventRegistrationCreated, registrationEvent(res.Registration))
	}
	s.logger.InfoContext(ctx, "payment recorded and access granted",
		"target", rt.Target.String(), "reference", payment.GatewayReference, "amount", payment.Amount, "currency", payment.Currency)
	return res, nil
}

func (s *joinService) GrantPayment(ctx context.Context, payment *domain.Payment) error {
	var t domain.Target
	switch {
	case payment.Type == domain.PaymentTypeClub && payment.ClubID != nil:
		t = domain.ClubTarget(*payment.ClubID)
	case payment.Type == domain.PaymentTypeEvent && payment.EventID != nil:
		t = domain.EventTarget(*payment.EventID)
	default:
		return fmt.Errorf("%w: payment %s has no target", domain.ErrInvalidInput, payment.ID)
	}
	rt, err := s.resolve(ctx, t, false)
	if err != nil {
		return err
	}
	_, err = s.record(ctx, rt, payment)
	return err
}

func paymentMatches(payment *domain.Payment, p domain.Principal, rt *resolvedTarget) bool {
	if payment.UserEmail != p.Email || payment.Type != rt.PaymentType() {
		return false
	}
	if rt.club != nil {
		return payment.ClubID != nil && *payment.ClubID == rt.ID
	}
	return payment.EventID != nil && *payment.EventID == rt.ID
}

// checkMetadata compares what the gateway echoes back with the request. Absent
// keys are not checked since some gateways drop metadata on retrieval; the
// recorded attempt is what binds a reference to its target.
func checkMetadata(md map[string]string, p domain.Principal, rt *resolvedTarget) error {
	mismatch := func(key, want string) bool {
		got, ok := md[key]
		return ok && got != "" && !strings.EqualFold(got, want)
	}
	if mismatch(domain.MetadataType, string(rt.PaymentType())) ||
		mismatch(domain.MetadataTarget, rt.ID) ||
		mismatch(domain.MetadataEmail, p.Email) {
		return fmt.Errorf("payment was made for another user or target: %w", domain.ErrForbidden)
	}
	return nil
}

func (s *joinService) sendReceipt(ctx context.Context, rt *resolvedTarget, payment *domain.Payment) {
	if s.Email == nil {
		return
	}
	err := s.Email.SendJoinReceipt(ctx, &domain.JoinReceiptEmailData{
		Email:      payment.UserEmail,
		TargetKind: rt.Kind,
		TargetName: rt.name(),
		Amount:     payment.Amount,
		Currency:   strings.ToUpper(payment.Currency),
		Reference:  payment.GatewayReference,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "join receipt not sent", "reference", payment.GatewayReference, "err", err)
	}
}

func (s *joinService) publish(ctx context.Context, key string, payload any) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, key, payload); err != nil {
		s.logger.WarnContext(ctx, "event not published", "routing_key", key, "err", err)
	}
}

func (s *joinService) startSpan(ctx context.Context, name string, t domain.Target) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("target.kind", string(t.Kind)),
		attribute.String("target.id", t.ID),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

type paymentRecorded struct {
	PaymentID string             `json:"payment_id"`
	Reference string             `json:"reference"`
	UserEmail string             `json:"user_email"`
	Type      domain.PaymentType `json:"type"`
	TargetID  string             `json:"target_id"`
	Amount    int64              `json:"amount"`
	Currency  string             `json:"currency"`
}

func paymentEvent(p *domain.Payment) paymentRecorded {
	target := ""
	if p.ClubID != nil {
		target = *p.ClubID
	} else if p.EventID != nil {
		target = *p.EventID
	}
	return paymentRecorded{
		PaymentID: p.ID,
		Reference: p.GatewayReference,
		UserEmail: p.UserEmail,
		Type:      p.Type,
		TargetID:  target,
		Amount:    p.Amount,
		Currency:  p.Currency,
	}
}

type accessGranted struct {
	ID        string  `json:"id"`
	UserEmail string  `json:"user_email"`
	TargetID  string  `json:"target_id"`
	PaymentID *string `json:"payment_id,omitempty"`
}

func membershipEvent(m *domain.Membership) accessGranted {
	return accessGranted{ID: m.ID, UserEmail: m.UserEmail, TargetID: m.ClubID, PaymentID: m.PaymentID}
}

func registrationEvent(r *domain.EventRegistration) accessGranted {
	return accessGranted{ID: r.ID, UserEmail: r.UserEmail, TargetID: r.EventID, PaymentID: r.PaymentID}
}
