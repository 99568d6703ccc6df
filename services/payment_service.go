// services/payment_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"desteiger-backend/models"
	"desteiger-backend/utils"

	"gorm.io/gorm"
)

// PaymentService applies verified processor events to reservations and keeps
// the payment_events audit trail. It never touches a reservation before the
// gateway verified the event signature.
type PaymentService struct {
	DB      *gorm.DB
	Gateway PaymentGateway
}

func NewPaymentService(db *gorm.DB, gateway PaymentGateway) *PaymentService {
	return &PaymentService{DB: db, Gateway: gateway}
}

// CreateIntent exposes bare intent creation for the public
// /create-payment-intent endpoint.
func (s *PaymentService) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (PaymentIntent, error) {
	return s.Gateway.CreateIntent(ctx, amountCents, currency, metadata)
}

// VerifyWebhook delegates to the gateway's signature boundary.
func (s *PaymentService) VerifyWebhook(payload []byte, sigHeader string) (WebhookEvent, error) {
	return s.Gateway.VerifyWebhook(payload, sigHeader)
}

// ProcessEvent applies one verified webhook event. All outcomes the processor
// would retry on must return nil:
//   - unknown event types are ignored
//   - an intent id with no matching reservation is logged and ignored
//   - a replayed event id or an already-applied transition is a no-op
//
// The confirmation email is only sent when this call actually moved the
// reservation to paid, so redelivery never mails twice.
func (s *PaymentService) ProcessEvent(event WebhookEvent) error {
	var target string
	switch event.Type {
	case EventPaymentSucceeded:
		target = models.ReservationStatusPaid
	case EventPaymentFailed:
		target = models.ReservationStatusPaymentFailed
	default:
		log.Printf("webhook: ignoring event type %s", event.Type)
		return nil
	}
	if event.IntentID == "" {
		log.Printf("webhook: event %s carries no intent id, ignoring", event.ID)
		return nil
	}

	applied := false
	var reservation models.Reservation

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		if err := tx.Where("payment_intent_id = ?", event.IntentID).First(&reservation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("webhook: no reservation for intent %s, ignoring event %s", event.IntentID, event.ID)
				return nil
			}
			return fmt.Errorf("failed to look up reservation by intent: %w", err)
		}

		// Dedup on event id. A duplicate insert means this exact delivery was
		// already applied; bail out without side effects.
		record := models.PaymentEvent{
			EventID:       event.ID,
			Type:          event.Type,
			IntentID:      event.IntentID,
			ReservationID: &reservation.ID,
			ProcessedAt:   now,
		}
		if err := tx.Create(&record).Error; err != nil {
			if IsDuplicateKey(err) {
				log.Printf("webhook: event %s already processed", event.ID)
				return nil
			}
			return fmt.Errorf("failed to record payment event: %w", err)
		}

		if !models.CanTransitionReservation(reservation.Status, target) {
			// e.g. succeeded delivered after an admin cancel, or a repeat with
			// a fresh event id. The transition predicate decides; we stay 2xx.
			log.Printf("webhook: reservation %s is %s, not applying %s",
				reservation.ReservationNumber, reservation.Status, event.Type)
			return nil
		}

		updates := map[string]interface{}{"status": target}
		if target == models.ReservationStatusPaid && reservation.PaidAt == nil {
			updates["paid_at"] = now
		}
		res := tx.Model(&models.Reservation{}).
			Where("id = ? AND status = ?", reservation.ID, reservation.Status).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to apply payment outcome: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			log.Printf("webhook: lost transition race on reservation %s, ignoring", reservation.ReservationNumber)
			return nil
		}
		applied = true
		return nil
	})
	if txErr != nil {
		return txErr
	}

	if applied && target == models.ReservationStatusPaid {
		var property models.Property
		if err := s.DB.First(&property, reservation.PropertyID).Error; err != nil {
			log.Printf("warning: could not load property %d for confirmation email: %v", reservation.PropertyID, err)
		}
		customerName := strings.TrimSpace(reservation.CustomerFirstName + " " + reservation.CustomerLastName)
		if mailErr := utils.SendReservationPaidEmail(
			reservation.CustomerEmail,
			customerName,
			reservation.ReservationNumber,
			property.Name,
			reservation.ReservationFeeCents,
		); mailErr != nil {
			// mail is best-effort; the payment state is already committed
			log.Printf("warning: confirmation email for %s failed: %v", reservation.ReservationNumber, mailErr)
		}
	}

	return nil
}
