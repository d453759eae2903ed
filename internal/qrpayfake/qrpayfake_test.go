package qrpayfake_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"account-storefront/internal/apperr"
	"account-storefront/internal/client"
	"account-storefront/internal/config"
	"account-storefront/internal/model"
	"account-storefront/internal/qrpayfake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateway_ChargeLifecycle(t *testing.T) {
	fake := qrpayfake.New("k1")
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	gw := client.NewGatewayClient(&config.Gateway{BaseApiURL: srv.URL, APIKey: "k1", Timeout: time.Second})
	ctx := context.Background()

	charge, err := gw.CreateCharge(ctx, 30000)
	require.NoError(t, err)
	assert.NotEmpty(t, charge.ExternalOrderID)
	assert.EqualValues(t, 30001, charge.AmountToPay)
	assert.Contains(t, charge.QRPayload, charge.ExternalOrderID)

	status, err := gw.GetChargeStatus(ctx, charge.ExternalOrderID)
	require.NoError(t, err)
	assert.Equal(t, model.ChargePending, status)

	require.NoError(t, fake.SetStatus(charge.ExternalOrderID, qrpayfake.StatusSettlement))
	status, err = gw.GetChargeStatus(ctx, charge.ExternalOrderID)
	require.NoError(t, err)
	assert.Equal(t, model.ChargePaid, status)

	assert.Error(t, fake.SetStatus("missing", qrpayfake.StatusExpired))
	assert.Error(t, fake.SetStatus(charge.ExternalOrderID, "refunded"))
}

func TestGateway_SimulateEndpoint(t *testing.T) {
	fake := qrpayfake.New("")
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	gw := client.NewGatewayClient(&config.Gateway{BaseApiURL: srv.URL, Timeout: time.Second})
	ctx := context.Background()

	charge, err := gw.CreateCharge(ctx, 100)
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/payment/simulate/"+charge.ExternalOrderID, "application/json",
		strings.NewReader(`{"status":"expired"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, err := gw.GetChargeStatus(ctx, charge.ExternalOrderID)
	require.NoError(t, err)
	assert.Equal(t, model.ChargeExpired, status)
}

func TestGateway_RejectsWrongAPIKey(t *testing.T) {
	srv := httptest.NewServer(qrpayfake.New("k1").Handler())
	t.Cleanup(srv.Close)

	gw := client.NewGatewayClient(&config.Gateway{BaseApiURL: srv.URL, APIKey: "wrong", Timeout: time.Second})
	_, err := gw.CreateCharge(context.Background(), 100)
	assert.ErrorIs(t, err, apperr.ErrGatewayUnavailable)
}
