package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User - an authenticated identity. Passwords are bcrypt hashes.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	CreatedAt    time.Time `json:"created_at"`
	Profile      *Profile  `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// Profile - one per user, carries the display name and the role.
// Created out-of-band (seed-admin, registration); read-only for the app.
type Profile struct {
	UserID string `gorm:"primaryKey;size:36" json:"user_id"`
	Name   string `gorm:"size:255" json:"name"`
	Role   Role   `gorm:"type:varchar(16);not null" json:"role"`
}

// Tenant - one store. At most one per owning user.
type Tenant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StoreName string    `gorm:"size:255;not null" json:"store_name"`
	UserID    string    `gorm:"uniqueIndex;size:36;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Product - the tenant's catalogue
type Product struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	TenantID uint            `gorm:"index;not null" json:"tenant_id"`
	Name     string          `gorm:"size:255;not null" json:"name"`
	Price    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"price"`
}

// Sale - a checkout header. TotalAmount is the sum of its item subtotals.
type Sale struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	TenantID        uint            `gorm:"index;not null" json:"tenant_id"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total_amount"`
	TransactionDate time.Time       `gorm:"index;not null" json:"transaction_date"`
	Notes           string          `gorm:"type:text" json:"notes"`
	Items           []SaleItem      `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// SaleItem - one cart line of a sale
type SaleItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	SaleID       uint            `gorm:"index;not null" json:"sale_id"`
	ProductID    uint            `gorm:"index;not null" json:"product_id"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"price_per_unit"` // Snapshot of price at time of sale
	Subtotal     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"subtotal"`
}

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction - a ledger entry. Single source of truth for cashflow figures.
type Transaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	TenantID        uint            `gorm:"index;not null" json:"tenant_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Type            TransactionType `gorm:"type:varchar(16);index;not null" json:"type"`
	Description     string          `gorm:"size:512" json:"description"`
	TransactionDate time.Time       `gorm:"index;not null" json:"transaction_date"`
	SaleID          *uint           `gorm:"index" json:"sale_id,omitempty"`
}

// Visitor - one gate arrival recorded from a scanned QR code
type Visitor struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ArrivalTime time.Time `gorm:"index;not null" json:"arrival_time"`
	QRCodeData  string    `gorm:"type:text" json:"qr_code_data"`
}

// RevokedToken - token ids invalidated by sign-out
type RevokedToken struct {
	TokenID   string    `gorm:"primaryKey;size:36" json:"token_id"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Profile{},
		&Tenant{},
		&Product{},
		&Sale{},
		&SaleItem{},
		&Transaction{},
		&Visitor{},
		&RevokedToken{},
	}
}
