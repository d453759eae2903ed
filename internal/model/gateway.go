package model

import "github.com/shopspring/decimal"

type ChargeStatus string

const (
	ChargePending ChargeStatus = "PENDING"
	ChargePaid    ChargeStatus = "PAID"
	ChargeExpired ChargeStatus = "EXPIRED"
)

// Charge is a QR charge created at the gateway.
type Charge struct {
	ExternalOrderID string
	AmountToPay     int64
	QRPayload       string
}

type GatewayDepositRequest struct {
	Amount int64 `json:"amount"`
}

// GatewayDepositResponse accepts amountToPay as either a JSON number or a string.
type GatewayDepositResponse struct {
	OrderID     string              `json:"orderId"`
	AmountToPay decimal.NullDecimal `json:"amountToPay"`
	QRCodeURL   string              `json:"qrCodeUrl"`
}

type GatewayStatusResponse struct {
	OrderID string `json:"orderId,omitempty"`
	Status  string `json:"status"` // pending, settlement, expired
}
