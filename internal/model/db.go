package model

import "time"

type Product struct {
	ID          string    `gorm:"primaryKey;size:64;not null" json:"id"` // slug, e.g. net-x
	Name        string    `gorm:"size:128;not null" json:"name"`
	Price       int64     `gorm:"not null" json:"price"` // smallest currency unit
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"type:text" json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CredentialStatus string

const (
	CredentialAvailable CredentialStatus = "available"
	CredentialSold      CredentialStatus = "sold"
)

// Credential is one sellable login. The auto-increment ID is the allocation order.
type Credential struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	ProductID string           `gorm:"size:64;not null;index:idx_credential_stock,priority:1" json:"product_id"`
	Username  string           `gorm:"type:text;not null" json:"username"`
	Password  string           `gorm:"type:text;not null" json:"-"`
	Status    CredentialStatus `gorm:"size:16;not null;index:idx_credential_stock,priority:2" json:"status"`
	OrderID   *string          `gorm:"size:64;index" json:"order_id,omitempty"` // ledger order id once sold
	SoldAt    *time.Time       `json:"sold_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// Payload is what the buyer receives.
func (c *Credential) Payload() string {
	return c.Username + ":" + c.Password
}

type CredentialInput struct {
	Username string
	Password string
}

type Admin struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:128;not null"` // bcrypt
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
