package domain

import (
	"context"
	"time"
)

// PaymentType names what a payment funded.
type PaymentType string

const (
	PaymentTypeClub  PaymentType = "club"
	PaymentTypeEvent PaymentType = "event"
)

// Payment is the write-once ledger row for a completed payment. GatewayReference
// is unique and doubles as the idempotency key for confirmation replays.
// SettlementReference is the provider payment behind a checkout session; it is
// unique as well, so one charge maps to at most one row.
// swagger:model Payment
type Payment struct {
	ID                  string      `json:"id"`
	UserEmail           string      `json:"user_email"`
	Type                PaymentType `json:"type"`
	ClubID              *string     `json:"club_id"`
	EventID             *string     `json:"event_id"`
	Amount              int64       `json:"amount"`
	Currency            string      `json:"currency"`
	GatewayReference    string      `json:"gateway_reference"`
	SettlementReference *string     `json:"settlement_reference,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
}

// PaymentRepository defines read access to the ledger.
type PaymentRepository interface {
	// GetByReference matches either the gateway or the settlement reference.
	GetByReference(ctx context.Context, reference string) (*Payment, error)
	ListByUser(ctx context.Context, userEmail string) ([]*Payment, error)
	// ListUngranted returns payments no membership or registration references.
	ListUngranted(ctx context.Context) ([]*Payment, error)
	Count(ctx context.Context) (int, error)
	Revenue(ctx context.Context) (int64, error)
}

// Ledger writes a payment together with the access it funds in one transaction.
// The payment row is inserted first; its id becomes the access record's PaymentID.
// granted is false when the access record already existed. A gateway reference
// that is already recorded is reused, so replays and reconciliation converge on
// one payment row; a reference recorded for another user or target yields
// ErrForbidden and nothing is written.
type Ledger interface {
	RecordClubPayment(ctx context.Context, p *Payment, m *Membership) (granted bool, err error)
	RecordEventPayment(ctx context.Context, p *Payment, reg *EventRegistration) (granted bool, err error)
}

// PaymentAttempt records what an intent or checkout session was opened for.
// Confirmation only settles a reference against the attempt behind it.
type PaymentAttempt struct {
	Reference string
	UserEmail string
	Type      PaymentType
	TargetID  string
	Amount    int64
	Currency  string
	CreatedAt time.Time
}

// Matches reports whether the attempt was opened by email for t.
func (a *PaymentAttempt) Matches(email string, t Target) bool {
	return a.UserEmail == email && a.Type == t.PaymentType() && a.TargetID == t.ID
}

// PaymentAttemptRepository stores attempts keyed by gateway reference.
type PaymentAttemptRepository interface {
	Create(ctx context.Context, a *PaymentAttempt) error
	GetByReference(ctx context.Context, reference string) (*PaymentAttempt, error)
}

// GatewayState is the provider-reported state of a payment intent.
type GatewayState string

const (
	GatewayStateSucceeded GatewayState = "succeeded"
	GatewayStatePending   GatewayState = "pending"
	GatewayStateFailed    GatewayState = "failed"
	GatewayStateCanceled  GatewayState = "canceled"
)

// GatewayIntent is a provider-side payment intent awaiting client confirmation.
type GatewayIntent struct {
	Reference    string
	ClientSecret string
}

// GatewayStatus is the authoritative state of an intent as reported by the provider.
type GatewayStatus struct {
	State          GatewayState
	CapturedAmount int64
	Currency       string
	Metadata       map[string]string
}

// CheckoutLineItem describes the single item sold through a hosted checkout.
// A non-zero ExpiresAt closes the session at that time.
type CheckoutLineItem struct {
	Name        string
	Description string
	Amount      int64
	ExpiresAt   time.Time
}

// GatewaySession is a hosted checkout session.
type GatewaySession struct {
	SessionID string
	URL       string
}

// GatewaySessionStatus is the authoritative state of a checkout session.
// Expired sessions can no longer be paid.
type GatewaySessionStatus struct {
	Paid             bool
	Expired          bool
	CapturedAmount   int64
	Currency         string
	PaymentReference string
	Metadata         map[string]string
}

// PaymentGateway wraps the external payment processor. Implementations wrap
// transport and provider failures with ErrGatewayUnavailable and unknown
// references with ErrNotFound.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*GatewayIntent, error)
	RetrieveStatus(ctx context.Context, reference string) (*GatewayStatus, error)
	CreateCheckoutSession(ctx context.Context, item CheckoutLineItem, successURL, cancelURL, currency string, metadata map[string]string) (*GatewaySession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*GatewaySessionStatus, error)
}

// Metadata keys attached to every gateway object created by the join workflow.
const (
	MetadataType   = "type"
	MetadataTarget = "target_id"
	MetadataEmail  = "user_email"
)
