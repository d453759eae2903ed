package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"account-storefront/internal/apperr"
	"account-storefront/internal/client"
	"account-storefront/internal/config"
	"account-storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) client.GatewayClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return client.NewGatewayClient(&config.Gateway{
		BaseApiURL: srv.URL,
		APIKey:     "secret key",
		Timeout:    2 * time.Second,
	})
}

func TestGatewayClient_CreateCharge(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/payment/deposit", r.URL.Path)
		assert.Equal(t, "secret key", r.URL.Query().Get("apikey"))

		var req model.GatewayDepositRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.EqualValues(t, 30000, req.Amount)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orderId":"ext-1","amountToPay":"30123","qrCodeUrl":"https://qr.example/ext-1"}`))
	})

	charge, err := gw.CreateCharge(context.Background(), 30000)
	require.NoError(t, err)
	assert.Equal(t, "ext-1", charge.ExternalOrderID)
	assert.EqualValues(t, 30123, charge.AmountToPay)
	assert.Equal(t, "https://qr.example/ext-1", charge.QRPayload)
}

func TestGatewayClient_CreateChargeWithoutAmountUsesLocalTotal(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"orderId":"ext-1","qrCodeUrl":"q"}`))
	})

	charge, err := gw.CreateCharge(context.Background(), 15000)
	require.NoError(t, err)
	assert.EqualValues(t, 15000, charge.AmountToPay)
}

func TestGatewayClient_CreateChargeFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
		},
		{
			name: "missing order id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"qrCodeUrl":"q"}`))
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gw := newTestGateway(t, tt.handler)

			_, err := gw.CreateCharge(context.Background(), 100)
			assert.ErrorIs(t, err, apperr.ErrGatewayUnavailable)
		})
	}
}

func TestGatewayClient_GetChargeStatus(t *testing.T) {
	tests := []struct {
		wire string
		want model.ChargeStatus
	}{
		{wire: "settlement", want: model.ChargePaid},
		{wire: "PAID", want: model.ChargePaid},
		{wire: "expired", want: model.ChargeExpired},
		{wire: "pending", want: model.ChargePending},
		{wire: "something-new", want: model.ChargePending},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.wire, func(t *testing.T) {
			t.Parallel()
			gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/payment/status/ext-9", r.URL.Path)
				_, _ = w.Write([]byte(`{"status":"` + tt.wire + `"}`))
			})

			status, err := gw.GetChargeStatus(context.Background(), "ext-9")
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestGatewayClient_GetChargeStatusUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	gw := client.NewGatewayClient(&config.Gateway{BaseApiURL: srv.URL, Timeout: time.Second})
	status, err := gw.GetChargeStatus(context.Background(), "ext-1")
	assert.ErrorIs(t, err, apperr.ErrGatewayUnavailable)
	assert.Equal(t, model.ChargePending, status)
}

func TestGatewayClient_CreateChargeRejectsFractionalAmount(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"orderId":"ext-1","amountToPay":"15000.5","qrCodeUrl":"q"}`))
	})

	charge, err := gw.CreateCharge(context.Background(), 15000)
	assert.Nil(t, charge)
	assert.ErrorIs(t, err, apperr.ErrGatewayUnavailable)
}

func TestGatewayClient_MalformedBaseURL(t *testing.T) {
	gw := client.NewGatewayClient(&config.Gateway{BaseApiURL: "://no-scheme", Timeout: time.Second})

	status, err := gw.GetChargeStatus(context.Background(), "ext-1")
	assert.ErrorIs(t, err, apperr.ErrGatewayUnavailable)
	assert.Equal(t, model.ChargePending, status)

	_, err = gw.CreateCharge(context.Background(), 100)
	assert.ErrorIs(t, err, apperr.ErrGatewayUnavailable)
}
