package client

import (
	"account-storefront/internal/apperr"
	"account-storefront/internal/dto"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StorefrontClient calls the storefront's public order API.
type StorefrontClient interface {
	PlaceOrder(ctx context.Context, productID string, quantity int) (*dto.PlaceOrderResponse, error)
	OrderStatus(ctx context.Context, orderID string) (*dto.OrderStatusResponse, error)
	Stock(ctx context.Context, productID string) (*dto.StockResponse, error)
}

type storefrontClientImpl struct {
	httpClient *http.Client
	baseURL    string
}

func NewStorefrontClient(baseURL string, timeout time.Duration) StorefrontClient {
	return &storefrontClientImpl{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *storefrontClientImpl) PlaceOrder(ctx context.Context, productID string, quantity int) (*dto.PlaceOrderResponse, error) {
	var result dto.PlaceOrderResponse
	err := c.do(ctx, http.MethodPost, "/api/orders", dto.PlaceOrderRequest{
		ProductID: productID,
		Quantity:  quantity,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	return &result, nil
}

func (c *storefrontClientImpl) OrderStatus(ctx context.Context, orderID string) (*dto.OrderStatusResponse, error) {
	var result dto.OrderStatusResponse
	err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(orderID)+"/status", nil, &result)
	if err != nil {
		return nil, fmt.Errorf("order status: %w", err)
	}
	return &result, nil
}

func (c *storefrontClientImpl) Stock(ctx context.Context, productID string) (*dto.StockResponse, error) {
	var result dto.StockResponse
	err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(productID)+"/stock", nil, &result)
	if err != nil {
		return nil, fmt.Errorf("stock: %w", err)
	}
	return &result, nil
}

func (c *storefrontClientImpl) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal req payload: %w", err)
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// APIError is a storefront error response. It unwraps to the matching apperr sentinel.
type APIError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront %d %s: %s", e.StatusCode, e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return apperr.FromKind(e.Kind)
}

func decodeAPIError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body dto.ErrorResponse
	if err := json.Unmarshal(b, &body); err != nil || body.Error.Kind == "" {
		return &APIError{StatusCode: resp.StatusCode, Kind: "internal", Message: strings.TrimSpace(string(b))}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Kind:       body.Error.Kind,
		Message:    body.Error.Message,
	}
}
