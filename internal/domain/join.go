package domain

import (
	"context"
	"fmt"
)

// TargetKind distinguishes clubs from events in the join workflow.
type TargetKind string

const (
	TargetClub  TargetKind = "club"
	TargetEvent TargetKind = "event"
)

// Target is the club or event a principal wants to join.
type Target struct {
	Kind TargetKind
	ID   string
}

// ClubTarget returns a Target for the club id.
func ClubTarget(id string) Target { return Target{Kind: TargetClub, ID: id} }

// EventTarget returns a Target for the event id.
func EventTarget(id string) Target { return Target{Kind: TargetEvent, ID: id} }

// PaymentType maps the target kind onto the ledger type.
func (t Target) PaymentType() PaymentType {
	if t.Kind == TargetEvent {
		return PaymentTypeEvent
	}
	return PaymentTypeClub
}

func (t Target) String() string {
	return fmt.Sprintf("%s:%s", t.Kind, t.ID)
}

// JoinResult is the outcome of a join, confirm, or checkout-success call.
// AlreadyJoined marks an idempotent replay; the shape is otherwise identical.
type JoinResult struct {
	Kind          TargetKind         `json:"kind"`
	TargetID      string             `json:"target_id"`
	AlreadyJoined bool               `json:"already_joined"`
	Membership    *Membership        `json:"membership,omitempty"`
	Registration  *EventRegistration `json:"registration,omitempty"`
	Payment       *Payment           `json:"payment,omitempty"`
}

// PaymentIntentResult is returned to the client to complete a payment.
type PaymentIntentResult struct {
	Reference    string `json:"reference"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// CheckoutSessionResult is returned to the client to redirect to hosted checkout.
type CheckoutSessionResult struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

// JoinService grants access to clubs and events, free or paid.
type JoinService interface {
	RequestFreeJoin(ctx context.Context, p Principal, t Target) (*JoinResult, error)
	CreatePaymentIntent(ctx context.Context, p Principal, t Target) (*PaymentIntentResult, error)
	ConfirmPayment(ctx context.Context, p Principal, t Target, reference string) (*JoinResult, error)
	CreateCheckoutSession(ctx context.Context, p Principal, t Target) (*CheckoutSessionResult, error)
	ConfirmCheckout(ctx context.Context, p Principal, t Target, sessionID string) (*JoinResult, error)
	// GrantPayment creates the access record for a ledger row that has none.
	GrantPayment(ctx context.Context, payment *Payment) error
}
