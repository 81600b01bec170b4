package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus tracks fulfilment progress.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus tracks the payment leg of an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Valid reports whether the payment status is one of the known values.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// ShippingAddress is embedded in an order. The structure is immutable but
// replaceable wholesale on update.
type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// OrderItem is a line item with a frozen snapshot of the unit price at order
// time, not a live product price reference.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID uuid.UUID       `json:"product" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
}

// Order represents a customer order with embedded line items.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	OrderNumber     string          `json:"orderNumber" db:"order_number"`
	CustomerID      uuid.UUID       `json:"customer" db:"customer_id"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status          OrderStatus     `json:"status" db:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	PaymentMethod   string          `json:"paymentMethod" db:"payment_method"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// ComputeTotal returns the sum of price*quantity across the given items.
func ComputeTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// CustomerInput is either a reference to an existing customer (JSON string
// holding the id) or inline guest contact information (JSON object).
type CustomerInput struct {
	ID    *uuid.UUID
	Guest *GuestInfo
}

// UnmarshalJSON accepts either form of the checkout customer field.
func (c *CustomerInput) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid customer id %q: %w", s, err)
		}
		c.ID = &id
		return nil
	}

	var guest GuestInfo
	if err := json.Unmarshal(data, &guest); err != nil {
		return fmt.Errorf("invalid customer info: %w", err)
	}
	c.Guest = &guest
	return nil
}

// Empty reports whether neither form was supplied.
func (c *CustomerInput) Empty() bool {
	return c == nil || (c.ID == nil && c.Guest == nil)
}

// OrderItemRequest is a single line item in an order request. The price is
// the client-submitted unit price.
type OrderItemRequest struct {
	ProductID uuid.UUID       `json:"product"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	Customer        CustomerInput      `json:"customer"`
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	PaymentStatus   *PaymentStatus     `json:"paymentStatus,omitempty"`
}

// UpdateOrderRequest carries partial order fields. Nil fields are left
// untouched. A client-submitted totalAmount is never trusted; the total is
// recomputed whenever Items is present.
type UpdateOrderRequest struct {
	Status          *OrderStatus        `json:"status,omitempty"`
	PaymentStatus   *PaymentStatus      `json:"paymentStatus,omitempty"`
	PaymentMethod   *string             `json:"paymentMethod,omitempty"`
	ShippingAddress *ShippingAddress    `json:"shippingAddress,omitempty"`
	Items           *[]OrderItemRequest `json:"items,omitempty"`
}

// OrderFilter narrows order list queries.
type OrderFilter struct {
	CustomerID    *uuid.UUID
	Status        *OrderStatus
	PaymentStatus *PaymentStatus
	Limit         int
	Offset        int
}

// OrderResponse is an order with its customer and product references
// expanded.
type OrderResponse struct {
	Order
	CustomerInfo *User     `json:"customerInfo,omitempty"`
	Products     []Product `json:"products,omitempty"`
}
