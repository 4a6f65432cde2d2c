package payment

import (
	"context"
	"fmt"
	"log/slog"

	"clubhub/internal/domain"
)

// Config selects and configures the payment provider.
type Config struct {
	Provider           string
	StripeSecretKey    string
	MidtransServerKey  string
	MidtransProduction bool
}

// NewGateway builds the configured PaymentGateway. Provider "stripe" uses Stripe
// PaymentIntents and Checkout; "midtrans" uses Snap with Core API status checks.
// Any other value yields a gateway that refuses every call.
func NewGateway(cfg Config, logger *slog.Logger) (domain.PaymentGateway, error) {
	switch cfg.Provider {
	case "stripe":
		if cfg.StripeSecretKey == "" {
			return nil, fmt.Errorf("stripe gateway: secret key is required")
		}
		return NewStripeGateway(cfg.StripeSecretKey), nil
	case "midtrans":
		if cfg.MidtransServerKey == "" {
			return nil, fmt.Errorf("midtrans gateway: server key is required")
		}
		return NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransProduction), nil
	default:
		logger.Warn("no payment provider configured; paid joins are disabled", "provider", cfg.Provider)
		return disabledGateway{}, nil
	}
}

type disabledGateway struct{}

var errDisabled = fmt.Errorf("%w: no payment provider configured", domain.ErrGatewayUnavailable)

func (disabledGateway) CreateIntent(context.Context, int64, string, map[string]string) (*domain.GatewayIntent, error) {
	return nil, errDisabled
}

func (disabledGateway) RetrieveStatus(context.Context, string) (*domain.GatewayStatus, error) {
	return nil, errDisabled
}

func (disabledGateway) CreateCheckoutSession(context.Context, domain.CheckoutLineItem, string, string, string, map[string]string) (*domain.GatewaySession, error) {
	return nil, errDisabled
}

func (disabledGateway) RetrieveSession(context.Context, string) (*domain.GatewaySessionStatus, error) {
	return nil, errDisabled
}
