package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"clubhub/internal/domain"
)

type stripeIntents interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type stripeSessions interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeGateway implements domain.PaymentGateway with Stripe PaymentIntents and Checkout Sessions.
// The stripe-go backend retries idempotent network failures on its own.
type StripeGateway struct {
	intents  stripeIntents
	sessions stripeSessions
}

// NewStripeGateway returns a gateway using the given secret key.
func NewStripeGateway(secretKey string) *StripeGateway {
	sc := client.New(secretKey, nil)
	return &StripeGateway{intents: sc.PaymentIntents, sessions: sc.CheckoutSessions}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*domain.GatewayIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	pi, err := g.intents.New(params)
	if err != nil {
		return nil, wrapStripeError("create payment intent", err)
	}
	return &domain.GatewayIntent{Reference: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (g *StripeGateway) RetrieveStatus(ctx context.Context, reference string) (*domain.GatewayStatus, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.intents.Get(reference, params)
	if err != nil {
		return nil, wrapStripeError("retrieve payment intent", err)
	}
	return &domain.GatewayStatus{
		State:          intentState(pi),
		CapturedAmount: pi.AmountReceived,
		Currency:       string(pi.Currency),
		Metadata:       pi.Metadata,
	}, nil
}

func intentState(pi *stripe.PaymentIntent) domain.GatewayState {
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return domain.GatewayStateSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return domain.GatewayStateCanceled
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		// Stripe returns a failed attempt to requires_payment_method with the error attached.
		if pi.LastPaymentError != nil {
			return domain.GatewayStateFailed
		}
		return domain.GatewayStatePending
	default:
		return domain.GatewayStatePending
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, item domain.CheckoutLineItem, successURL, cancelURL, currency string, metadata map[string]string) (*domain.GatewaySession, error) {
	product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(item.Name),
	}
	if item.Description != "" {
		product.Description = stripe.String(item.Description)
	}
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(currency),
					UnitAmount:  stripe.Int64(item.Amount),
					ProductData: product,
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	// Copied onto the PaymentIntent so the charge itself names its target.
	params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{Metadata: metadata}
	if !item.ExpiresAt.IsZero() {
		params.ExpiresAt = stripe.Int64(item.ExpiresAt.Unix())
	}
	s, err := g.sessions.New(params)
	if err != nil {
		return nil, wrapStripeError("create checkout session", err)
	}
	return &domain.GatewaySession{SessionID: s.ID, URL: s.URL}, nil
}

func (g *StripeGateway) RetrieveSession(ctx context.Context, sessionID string) (*domain.GatewaySessionStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := g.sessions.Get(sessionID, params)
	if err != nil {
		return nil, wrapStripeError("retrieve checkout session", err)
	}
	status := &domain.GatewaySessionStatus{
		Paid:           s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Expired:        s.Status == stripe.CheckoutSessionStatusExpired,
		CapturedAmount: s.AmountTotal,
		Currency:       string(s.Currency),
		Metadata:       s.Metadata,
	}
	if s.PaymentIntent != nil {
		status.PaymentReference = s.PaymentIntent.ID
	}
	return status, nil
}

func wrapStripeError(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.Code == stripe.ErrorCodeResourceMissing {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrGatewayUnavailable, err)
}
