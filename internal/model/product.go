package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LowStockThreshold is the stock level at or below which a crossing from
// above fires a low-stock notification.
const LowStockThreshold = 10

// Product represents a catalogue product. Stock is administrator-managed;
// order creation never decrements it.
type Product struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	Description   string          `json:"description,omitempty" db:"description"`
	Price         decimal.Decimal `json:"price" db:"price"`
	Category      string          `json:"category" db:"category"`
	StockQuantity int             `json:"stockQuantity" db:"stock_quantity"`
	IsActive      bool            `json:"isActive" db:"is_active"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// CreateProductRequest is the admin product creation payload.
type CreateProductRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stockQuantity"`
}

// UpdateProductRequest carries partial product fields; nil fields are left
// untouched.
type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	Category      *string          `json:"category,omitempty"`
	StockQuantity *int             `json:"stockQuantity,omitempty"`
	IsActive      *bool            `json:"isActive,omitempty"`
}
