package client

import (
	"account-storefront/internal/apperr"
	"account-storefront/internal/config"
	"account-storefront/internal/model"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// GatewayClient talks to the QR payment provider.
type GatewayClient interface {
	CreateCharge(ctx context.Context, amount int64) (*model.Charge, error)
	GetChargeStatus(ctx context.Context, externalOrderID string) (model.ChargeStatus, error)
}

type gatewayClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	apiKey     string
}

func NewGatewayClient(gatewayCfg *config.Gateway) GatewayClient {
	return &gatewayClientImpl{
		httpClient: &http.Client{
			Timeout: gatewayCfg.Timeout,
		},
		baseApiURL: strings.TrimRight(gatewayCfg.BaseApiURL, "/"),
		apiKey:     gatewayCfg.APIKey,
	}
}

func (c *gatewayClientImpl) endpoint(path string) string {
	return c.baseApiURL + path + "?apikey=" + url.QueryEscape(c.apiKey)
}

func (c *gatewayClientImpl) CreateCharge(ctx context.Context, amount int64) (*model.Charge, error) {
	body, err := json.Marshal(model.GatewayDepositRequest{Amount: amount})
	if err != nil {
		return nil, fmt.Errorf("marshal deposit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint("/api/payment/deposit"),
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w: %w", apperr.ErrGatewayUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create charge: %w: %w", apperr.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("gateway error %d: %s: %w", resp.StatusCode, string(b), apperr.ErrGatewayUnavailable)
	}

	var result model.GatewayDepositResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode deposit response: %w: %w", apperr.ErrGatewayUnavailable, err)
	}
	if result.OrderID == "" {
		return nil, fmt.Errorf("deposit response has no order id: %w", apperr.ErrGatewayUnavailable)
	}

	// the gateway may add a unique-amount suffix; without one we charge the local total
	amountToPay := amount
	if result.AmountToPay.Valid {
		if !result.AmountToPay.Decimal.IsInteger() {
			return nil, fmt.Errorf("amount to pay %s is not a whole amount: %w",
				result.AmountToPay.Decimal.String(), apperr.ErrGatewayUnavailable)
		}
		amountToPay = result.AmountToPay.Decimal.IntPart()
	}

	return &model.Charge{
		ExternalOrderID: result.OrderID,
		AmountToPay:     amountToPay,
		QRPayload:       result.QRCodeURL,
	}, nil
}

func (c *gatewayClientImpl) GetChargeStatus(ctx context.Context, externalOrderID string) (model.ChargeStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoint("/api/payment/status/"+url.PathEscape(externalOrderID)),
		nil)
	if err != nil {
		return model.ChargePending, fmt.Errorf("http new request: %w: %w", apperr.ErrGatewayUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.ChargePending, fmt.Errorf("charge status: %w: %w", apperr.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.ChargePending, fmt.Errorf("gateway error %d: %w", resp.StatusCode, apperr.ErrGatewayUnavailable)
	}

	var result model.GatewayStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return model.ChargePending, fmt.Errorf("decode status response: %w: %w", apperr.ErrGatewayUnavailable, err)
	}

	return ParseChargeStatus(result.Status), nil
}

// ParseChargeStatus maps the gateway's status word. Anything unrecognised is still pending.
func ParseChargeStatus(status string) model.ChargeStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "settlement", "paid":
		return model.ChargePaid
	case "expired":
		return model.ChargeExpired
	default:
		return model.ChargePending
	}
}
