package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reservation lifecycle statuses.
const (
	ReservationStatusPending       = "pending"
	ReservationStatusPaid          = "paid"
	ReservationStatusPaymentFailed = "payment_failed"
	ReservationStatusConfirmed     = "confirmed"
	ReservationStatusCancelled     = "cancelled"
	ReservationStatusCompleted     = "completed"
)

// reservationTransitions is the only source of truth for status changes.
// payment_failed -> pending is the payment retry path (new intent id).
var reservationTransitions = map[string][]string{
	ReservationStatusPending:       {ReservationStatusPaid, ReservationStatusPaymentFailed, ReservationStatusCancelled},
	ReservationStatusPaid:          {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed:     {ReservationStatusCompleted},
	ReservationStatusPaymentFailed: {ReservationStatusPending},
}

// CanTransitionReservation reports whether from -> to is a legal status change.
func CanTransitionReservation(from, to string) bool {
	for _, next := range reservationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalReservationStatus reports whether no further transitions exist.
func IsTerminalReservationStatus(s string) bool {
	return s == ReservationStatusCompleted || s == ReservationStatusCancelled
}

func IsValidReservationStatus(s string) bool {
	switch s {
	case ReservationStatusPending, ReservationStatusPaid, ReservationStatusPaymentFailed,
		ReservationStatusConfirmed, ReservationStatusCancelled, ReservationStatusCompleted:
		return true
	}
	return false
}

type Reservation struct {
	gorm.Model

	ReservationNumber string `gorm:"column:reservation_number;uniqueIndex;size:32" json:"reservationNumber"`

	PropertyID uint     `gorm:"column:property_id;index" json:"propertyId"`
	Property   Property `gorm:"foreignKey:PropertyID;references:ID" json:"property,omitempty"`

	// ProfileID is set when the customer checked out while logged in.
	ProfileID *uint `gorm:"column:profile_id;index" json:"profileId,omitempty"`

	CustomerFirstName string `gorm:"column:customer_first_name;size:100" json:"customerFirstName"`
	CustomerLastName  string `gorm:"column:customer_last_name;size:100" json:"customerLastName"`
	CustomerEmail     string `gorm:"column:customer_email;size:150;index" json:"customerEmail"`
	CustomerPhone     string `gorm:"column:customer_phone;size:50" json:"customerPhone"`
	CustomerCompany   string `gorm:"column:customer_company;size:150" json:"customerCompany,omitempty"`

	// Amounts in euro cents.
	ReservationFeeCents     int64 `gorm:"column:reservation_fee_amount" json:"reservationFeeAmount"`
	TotalPropertyPriceCents int64 `gorm:"column:total_property_price" json:"totalPropertyPrice"`

	Status string `gorm:"column:status;size:32;index;default:pending" json:"status"`

	// PaymentIntentID binds one payment attempt to this reservation. It is only
	// ever overwritten by the explicit retry flow.
	PaymentIntentID *string `gorm:"column:payment_intent_id;uniqueIndex;size:128" json:"paymentIntentId,omitempty"`

	ReservationExpiresAt *time.Time `gorm:"column:reservation_expires_at;index" json:"reservationExpiresAt,omitempty"`
	PaidAt               *time.Time `gorm:"column:paid_at" json:"paidAt,omitempty"`

	TermsAccepted   bool           `gorm:"column:terms_accepted;default:false" json:"termsAccepted"`
	TermsAcceptedAt *time.Time     `gorm:"column:terms_accepted_at" json:"termsAcceptedAt,omitempty"`
	Preferences     datatypes.JSON `gorm:"column:preferences" json:"preferences,omitempty"`
	SignatureData   string         `gorm:"column:signature_data;type:longtext" json:"signatureData,omitempty"`

	IntendedUse string `gorm:"column:intended_use;type:text" json:"intendedUse,omitempty"`
	Notes       string `gorm:"column:notes;type:text" json:"notes,omitempty"`
}
