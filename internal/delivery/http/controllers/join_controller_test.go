package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/delivery/http/helpers"
	"clubhub/internal/domain"
)

func TestJoinController_Join(t *testing.T) {
	tests := []struct {
		name       string
		path       map[string]string
		result     *domain.JoinResult
		svcErr     error
		wantStatus int
		wantTarget domain.Target
		wantCode   string
	}{
		{
			name:       "club newly joined",
			path:       map[string]string{"clubID": "c1"},
			result:     &domain.JoinResult{Kind: domain.TargetClub, TargetID: "c1"},
			wantStatus: http.StatusCreated,
			wantTarget: domain.ClubTarget("c1"),
		},
		{
			name:       "event already joined",
			path:       map[string]string{"eventID": "e1"},
			result:     &domain.JoinResult{Kind: domain.TargetEvent, TargetID: "e1", AlreadyJoined: true},
			wantStatus: http.StatusOK,
			wantTarget: domain.EventTarget("e1"),
		},
		{
			name:       "paid target",
			path:       map[string]string{"clubID": "c1"},
			svcErr:     domain.ErrInvalidState,
			wantStatus: http.StatusConflict,
			wantTarget: domain.ClubTarget("c1"),
			wantCode:   helpers.ErrCodeInvalidState,
		},
		{
			name:       "malformed id",
			path:       map[string]string{"clubID": "c1"},
			svcErr:     domain.ErrInvalidInput,
			wantStatus: http.StatusBadRequest,
			wantTarget: domain.ClubTarget("c1"),
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "event full",
			path:       map[string]string{"eventID": "e1"},
			svcErr:     domain.ErrFull,
			wantStatus: http.StatusConflict,
			wantTarget: domain.EventTarget("e1"),
			wantCode:   helpers.ErrCodeFull,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeJoinService{result: tt.result, err: tt.svcErr}
			ctrl := NewJoinController(testLogger, svc)
			rr := httptest.NewRecorder()

			ctrl.Join(rr, newRequest(t, http.MethodPost, "/x/join", nil, &member, tt.path))

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantTarget, svc.lastTarget)
			assert.Equal(t, member, svc.lastPrincipal)
			envelope := decodeEnvelope(t, rr, nil)
			if tt.wantCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
			}
		})
	}
}

func TestJoinController_ConfirmPayment(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		result     *domain.JoinResult
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{"recorded", ConfirmPaymentRequest{Reference: "pi_1"}, &domain.JoinResult{Kind: domain.TargetClub}, nil, http.StatusCreated, ""},
		{"replay", ConfirmPaymentRequest{Reference: "pi_1"}, &domain.JoinResult{Kind: domain.TargetClub, AlreadyJoined: true}, nil, http.StatusOK, ""},
		{"missing reference", `{}`, nil, nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"not paid", ConfirmPaymentRequest{Reference: "pi_1"}, nil, domain.ErrPaymentNotCompleted, http.StatusPaymentRequired, helpers.ErrCodePaymentNotCompleted},
		{"someone else's payment", ConfirmPaymentRequest{Reference: "pi_1"}, nil, domain.ErrForbidden, http.StatusForbidden, helpers.ErrCodeForbidden},
		{"underpaid", ConfirmPaymentRequest{Reference: "pi_1"}, nil, domain.ErrInvalidState, http.StatusConflict, helpers.ErrCodeInvalidState},
		{"gateway down", ConfirmPaymentRequest{Reference: "pi_1"}, nil, domain.ErrGatewayUnavailable, http.StatusBadGateway, helpers.ErrCodeGatewayUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeJoinService{result: tt.result, err: tt.svcErr}
			ctrl := NewJoinController(testLogger, svc)
			rr := httptest.NewRecorder()

			ctrl.ConfirmPayment(rr, newRequest(t, http.MethodPost, "/clubs/c1/join/confirm", tt.body, &member, map[string]string{"clubID": "c1"}))

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr, nil)
			if tt.wantCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			assert.Equal(t, "pi_1", svc.lastReference)
		})
	}
}

func TestJoinController_PaymentIntent(t *testing.T) {
	svc := &fakeJoinService{intent: &domain.PaymentIntentResult{Reference: "pi_1", ClientSecret: "secret", Amount: 2500, Currency: "usd"}}
	ctrl := NewJoinController(testLogger, svc)
	rr := httptest.NewRecorder()

	ctrl.CreatePaymentIntent(rr, newRequest(t, http.MethodPost, "/events/e1/payment-intent", nil, &member, map[string]string{"eventID": "e1"}))

	require.Equal(t, http.StatusCreated, rr.Code)
	var res domain.PaymentIntentResult
	decodeEnvelope(t, rr, &res)
	assert.Equal(t, "secret", res.ClientSecret)
	assert.Equal(t, int64(2500), res.Amount)
	assert.Equal(t, domain.EventTarget("e1"), svc.lastTarget)
}

func TestJoinController_PaymentIntent_freeTarget(t *testing.T) {
	for _, create := range []func(*JoinController) http.HandlerFunc{
		func(c *JoinController) http.HandlerFunc { return c.CreatePaymentIntent },
		func(c *JoinController) http.HandlerFunc { return c.CreateCheckoutSession },
	} {
		ctrl := NewJoinController(testLogger, &fakeJoinService{err: domain.ErrInvalidState})
		rr := httptest.NewRecorder()

		create(ctrl)(rr, newRequest(t, http.MethodPost, "/clubs/c1/payment-intent", nil, &member, map[string]string{"clubID": "c1"}))

		require.Equal(t, http.StatusConflict, rr.Code)
		envelope := decodeEnvelope(t, rr, nil)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeInvalidState, envelope.Error.Code)
	}
}

func TestJoinController_Checkout(t *testing.T) {
	svc := &fakeJoinService{
		checkout: &domain.CheckoutSessionResult{SessionID: "cs_1", URL: "https://pay.test/cs_1"},
		result:   &domain.JoinResult{Kind: domain.TargetClub, TargetID: "c1"},
	}
	ctrl := NewJoinController(testLogger, svc)
	path := map[string]string{"clubID": "c1"}

	rr := httptest.NewRecorder()
	ctrl.CreateCheckoutSession(rr, newRequest(t, http.MethodPost, "/clubs/c1/checkout-session", nil, &member, path))
	require.Equal(t, http.StatusCreated, rr.Code)
	var session domain.CheckoutSessionResult
	decodeEnvelope(t, rr, &session)
	assert.Equal(t, "https://pay.test/cs_1", session.URL)

	rr = httptest.NewRecorder()
	ctrl.CheckoutSuccess(rr, newRequest(t, http.MethodPost, "/clubs/c1/checkout-success", CheckoutSuccessRequest{SessionID: "cs_1"}, &member, path))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "cs_1", svc.lastReference)

	rr = httptest.NewRecorder()
	ctrl.CheckoutSuccess(rr, newRequest(t, http.MethodPost, "/clubs/c1/checkout-success", `{"session_id":""}`, &member, path))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestJoinController_requiresPrincipal(t *testing.T) {
	ctrl := NewJoinController(testLogger, &fakeJoinService{})
	rr := httptest.NewRecorder()

	ctrl.Join(rr, newRequest(t, http.MethodPost, "/clubs/c1/join", nil, nil, map[string]string{"clubID": "c1"}))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
