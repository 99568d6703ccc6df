package models

import "time"

// PaymentEvent records every verified webhook event we applied (or skipped as
// a duplicate). The unique event_id index is what makes webhook redelivery a
// no-op with no repeated side effects.
type PaymentEvent struct {
	ID uint `gorm:"primaryKey" json:"id"`

	EventID       string `gorm:"column:event_id;uniqueIndex;size:128" json:"eventId"`
	Type          string `gorm:"column:type;size:64" json:"type"`
	IntentID      string `gorm:"column:intent_id;size:128;index" json:"intentId"`
	ReservationID *uint  `gorm:"column:reservation_id;index" json:"reservationId,omitempty"`

	ProcessedAt time.Time `gorm:"column:processed_at" json:"processedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}
