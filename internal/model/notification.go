package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies system events.
type NotificationType string

const (
	NotificationOrder   NotificationType = "order"
	NotificationStock   NotificationType = "stock"
	NotificationPayment NotificationType = "payment"
	NotificationSystem  NotificationType = "system"
	NotificationOther   NotificationType = "other"
)

// Valid reports whether the notification type is one of the known values.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationOrder, NotificationStock, NotificationPayment,
		NotificationSystem, NotificationOther:
		return true
	}
	return false
}

// RelatedKind discriminates what a notification points at.
type RelatedKind string

const (
	RelatedNone    RelatedKind = "none"
	RelatedOrder   RelatedKind = "order"
	RelatedProduct RelatedKind = "product"
)

// RelatedRef is a tagged reference to the entity a notification is about.
// Kind RelatedNone means the notification is free-standing; ID is only
// meaningful for the other kinds.
type RelatedRef struct {
	Kind RelatedKind `json:"kind"`
	ID   uuid.UUID   `json:"id,omitzero"`
}

// NoRelated is the reference used by free-standing notifications.
func NoRelated() RelatedRef {
	return RelatedRef{Kind: RelatedNone}
}

// OrderRef points a notification at an order.
func OrderRef(id uuid.UUID) RelatedRef {
	return RelatedRef{Kind: RelatedOrder, ID: id}
}

// ProductRef points a notification at a product.
func ProductRef(id uuid.UUID) RelatedRef {
	return RelatedRef{Kind: RelatedProduct, ID: id}
}

// Notification is an append-only record of a system event. Only the
// read/readAt pair mutates after creation.
type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Type      NotificationType `json:"type" db:"type"`
	Related   RelatedRef       `json:"related"`
	Read      bool             `json:"read" db:"is_read"`
	ReadAt    *time.Time       `json:"readAt,omitempty" db:"read_at"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}

// CreateNotificationRequest is the admin-facing creation payload (a side
// door; primary-flow notifications are emitted by internal triggers only).
type CreateNotificationRequest struct {
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
}
