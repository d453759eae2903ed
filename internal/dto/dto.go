package dto

import "time"

type PlaceOrderRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type PlaceOrderResponse struct {
	OrderID   string    `json:"order_id"`
	ProductID string    `json:"app_id"`
	Quantity  int       `json:"quantity"`
	Total     int64     `json:"total"`
	QRPayload string    `json:"qr_url"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderStatusResponse struct {
	OrderID           string   `json:"order_id"`
	Status            string   `json:"status"`
	DeliveredAccounts []string `json:"delivered_accounts,omitempty"`
}

type StockResponse struct {
	ProductID string `json:"product_id"`
	Available int64  `json:"available"`
}

type ProductRequest struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Price       *int64  `json:"price"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

type BulkCredentialsRequest struct {
	Raw string `json:"raw"`
}

type BulkCredentialsResponse struct {
	Inserted int `json:"inserted"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
