package payment

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	"clubhub/internal/domain"
)

type snapAPI interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type coreAPI interface {
	CheckTransaction(param string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
}

// MidtransGateway implements domain.PaymentGateway with Midtrans Snap.
// Both the intent and the checkout flavours are Snap transactions keyed by a
// merchant order id; the Snap token serves as the client secret.
//
// Midtrans amounts are whole currency units, so minor units are divided by 100
// on the way out and multiplied back when reading the settled gross amount.
// Fees with a fractional unit cannot be charged and are refused.
type MidtransGateway struct {
	snap snapAPI
	core coreAPI
}

// NewMidtransGateway returns a gateway for the given server key.
func NewMidtransGateway(serverKey string, production bool) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	var s snap.Client
	s.New(serverKey, env)
	var c coreapi.Client
	c.New(serverKey, env)
	return &MidtransGateway{snap: &s, core: &c}
}

func (g *MidtransGateway) createTransaction(item domain.CheckoutLineItem, metadata map[string]string) (orderID string, resp *snap.Response, err error) {
	if item.Amount <= 0 || item.Amount%100 != 0 {
		return "", nil, fmt.Errorf("amount %d is not a whole currency unit: %w", item.Amount, domain.ErrInvalidState)
	}
	orderID = uuid.NewString()
	gross := item.Amount / 100
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: gross,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    metadata[domain.MetadataTarget],
				Name:  truncate(item.Name, 50),
				Price: gross,
				Qty:   1,
			},
		},
		CustomField1: metadata[domain.MetadataType],
		CustomField2: metadata[domain.MetadataTarget],
		CustomField3: metadata[domain.MetadataEmail],
	}
	if email := metadata[domain.MetadataEmail]; email != "" {
		req.CustomerDetail = &midtrans.CustomerDetails{Email: email}
	}
	if !item.ExpiresAt.IsZero() {
		if minutes := int64(time.Until(item.ExpiresAt) / time.Minute); minutes > 0 {
			req.Expiry = &snap.ExpiryDetails{Unit: "minute", Duration: minutes}
		}
	}
	resp, merr := g.snap.CreateTransaction(req)
	if merr != nil {
		return "", nil, fmt.Errorf("create snap transaction: %w: %s", domain.ErrGatewayUnavailable, merr.Message)
	}
	return orderID, resp, nil
}

func (g *MidtransGateway) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*domain.GatewayIntent, error) {
	orderID, resp, err := g.createTransaction(domain.CheckoutLineItem{Name: "ClubHub " + metadata[domain.MetadataType], Amount: amount}, metadata)
	if err != nil {
		return nil, err
	}
	return &domain.GatewayIntent{Reference: orderID, ClientSecret: resp.Token}, nil
}

func (g *MidtransGateway) CreateCheckoutSession(ctx context.Context, item domain.CheckoutLineItem, successURL, cancelURL, currency string, metadata map[string]string) (*domain.GatewaySession, error) {
	// Finish/cancel redirects are configured on the Snap dashboard.
	orderID, resp, err := g.createTransaction(item, metadata)
	if err != nil {
		return nil, err
	}
	return &domain.GatewaySession{SessionID: orderID, URL: resp.RedirectURL}, nil
}

func (g *MidtransGateway) check(orderID string) (*coreapi.TransactionStatusResponse, error) {
	st, merr := g.core.CheckTransaction(orderID)
	if merr != nil {
		if merr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("check transaction: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("check transaction: %w: %s", domain.ErrGatewayUnavailable, merr.Message)
	}
	if st.StatusCode == "404" {
		return nil, fmt.Errorf("check transaction: %w", domain.ErrNotFound)
	}
	return st, nil
}

func (g *MidtransGateway) RetrieveStatus(ctx context.Context, reference string) (*domain.GatewayStatus, error) {
	st, err := g.check(reference)
	if err != nil {
		return nil, err
	}
	amount, err := grossToMinor(st.GrossAmount)
	if err != nil {
		return nil, fmt.Errorf("check transaction: %w: %v", domain.ErrGatewayUnavailable, err)
	}
	return &domain.GatewayStatus{
		State:          transactionState(st.TransactionStatus, st.FraudStatus),
		CapturedAmount: amount,
		Currency:       strings.ToLower(st.Currency),
	}, nil
}

func (g *MidtransGateway) RetrieveSession(ctx context.Context, sessionID string) (*domain.GatewaySessionStatus, error) {
	st, err := g.check(sessionID)
	if err != nil {
		return nil, err
	}
	amount, err := grossToMinor(st.GrossAmount)
	if err != nil {
		return nil, fmt.Errorf("check transaction: %w: %v", domain.ErrGatewayUnavailable, err)
	}
	state := transactionState(st.TransactionStatus, st.FraudStatus)
	return &domain.GatewaySessionStatus{
		Paid:             state == domain.GatewayStateSucceeded,
		Expired:          state == domain.GatewayStateCanceled || state == domain.GatewayStateFailed,
		CapturedAmount:   amount,
		Currency:         strings.ToLower(st.Currency),
		PaymentReference: st.TransactionID,
	}, nil
}

// transactionState maps Midtrans transaction_status onto gateway states.
// capture only counts once fraud screening has accepted it.
func transactionState(status, fraud string) domain.GatewayState {
	switch strings.ToLower(status) {
	case "settlement":
		return domain.GatewayStateSucceeded
	case "capture":
		if fraud == "" || strings.EqualFold(fraud, "accept") {
			return domain.GatewayStateSucceeded
		}
		return domain.GatewayStatePending
	case "cancel", "expire":
		return domain.GatewayStateCanceled
	case "deny", "failure":
		return domain.GatewayStateFailed
	default:
		return domain.GatewayStatePending
	}
}

func grossToMinor(gross string) (int64, error) {
	if gross == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(gross, 64)
	if err != nil {
		return 0, fmt.Errorf("parse gross amount %q: %w", gross, err)
	}
	return int64(math.Round(v * 100)), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
