package model

import (
	"time"

	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderSettlement OrderStatus = "settlement"
	OrderExpired    OrderStatus = "expired"
)

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderSettlement || s == OrderExpired
}

type Order struct {
	ID                string                      `gorm:"primaryKey;size:64;not null" json:"id"`
	ExternalID        string                      `gorm:"size:128;uniqueIndex;not null" json:"order_id"` // gateway order id
	ProductID         string                      `gorm:"size:64;index;not null" json:"app_id"`
	Quantity          int                         `gorm:"not null" json:"quantity"`
	Total             int64                       `gorm:"not null" json:"total"` // amount-to-pay confirmed by the gateway
	Status            OrderStatus                 `gorm:"size:16;index;not null" json:"status"`
	QRPayload         string                      `gorm:"type:text" json:"qr_url,omitempty"`
	DeliveredAccounts datatypes.JSONSlice[string] `json:"delivered_accounts,omitempty"`
	CreatedAt         time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}
