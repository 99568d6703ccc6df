// services/reservation_service.go
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

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReservationInput carries everything the checkout flow submits. Status,
// timestamps and pricing are always server-assigned, whatever the client sent.
type ReservationInput struct {
	PropertyID uint
	ProfileID  *uint

	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string

	TermsAccepted bool
	Preferences   datatypes.JSON
	SignatureData string
	IntendedUse   string
	Notes         string
}

// ReservationService owns the reservation lifecycle: creation, the checkout
// orchestration against the payment gateway, status transitions and expiry.
type ReservationService struct {
	DB      *gorm.DB
	Gateway PaymentGateway

	HoldDuration time.Duration
	DefaultFee   int64 // cents
	Currency     string
}

func NewReservationService(db *gorm.DB, gateway PaymentGateway) *ReservationService {
	holdHours := utils.EnvInt64OrDefault("RESERVATION_HOLD_HOURS", 72)
	return &ReservationService{
		DB:           db,
		Gateway:      gateway,
		HoldDuration: time.Duration(holdHours) * time.Hour,
		DefaultFee:   utils.EnvInt64OrDefault("RESERVATION_FEE_CENTS", 250000),
		Currency:     utils.EnvOrDefault("PAYMENT_CURRENCY", "eur"),
	}
}

func (s *ReservationService) feeFor(p models.Property) int64 {
	if p.ReservationFeeCents != nil && *p.ReservationFeeCents > 0 {
		return *p.ReservationFeeCents
	}
	return s.DefaultFee
}

func validateInput(in ReservationInput) error {
	if in.PropertyID == 0 {
		return fmt.Errorf("%w: property reference is required", ErrValidation)
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return fmt.Errorf("%w: customer first and last name are required", ErrValidation)
	}
	if strings.TrimSpace(in.Email) == "" {
		return fmt.Errorf("%w: customer email is required", ErrValidation)
	}
	if strings.TrimSpace(in.Phone) == "" {
		return fmt.Errorf("%w: customer phone is required", ErrValidation)
	}
	if !in.TermsAccepted {
		return fmt.Errorf("%w: terms must be accepted", ErrValidation)
	}
	return nil
}

// Create inserts a pending reservation and flips the property to reserved in
// the same transaction. The reservation number is retried on unique-index
// collision.
func (s *ReservationService) Create(in ReservationInput) (models.Reservation, error) {
	if err := validateInput(in); err != nil {
		return models.Reservation{}, err
	}

	var reservation models.Reservation
	now := time.Now().UTC()
	expiresAt := now.Add(s.HoldDuration)

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := tx.First(&property, in.PropertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPropertyNotFound
			}
			return fmt.Errorf("failed to load property: %w", err)
		}
		if property.Status != models.PropertyStatusAvailable {
			return fmt.Errorf("%w: property %s is %s", ErrPropertyUnavailable, property.Slug, property.Status)
		}

		reservation = models.Reservation{
			PropertyID:              property.ID,
			ProfileID:               in.ProfileID,
			CustomerFirstName:       strings.TrimSpace(in.FirstName),
			CustomerLastName:        strings.TrimSpace(in.LastName),
			CustomerEmail:           strings.TrimSpace(in.Email),
			CustomerPhone:           strings.TrimSpace(in.Phone),
			CustomerCompany:         strings.TrimSpace(in.Company),
			ReservationFeeCents:     s.feeFor(property),
			TotalPropertyPriceCents: property.SalePriceCents,
			Status:                  models.ReservationStatusPending,
			ReservationExpiresAt:    &expiresAt,
			TermsAccepted:           true,
			TermsAcceptedAt:         utils.PtrTime(now),
			Preferences:             in.Preferences,
			SignatureData:           in.SignatureData,
			IntendedUse:             strings.TrimSpace(in.IntendedUse),
			Notes:                   strings.TrimSpace(in.Notes),
		}

		const maxRetries = 5
		var createErr error
		for attempt := 0; attempt < maxRetries; attempt++ {
			number, gErr := utils.GenerateReservationNumber(now)
			if gErr != nil {
				return fmt.Errorf("failed to generate reservation number: %w", gErr)
			}
			reservation.ReservationNumber = number

			createErr = tx.Create(&reservation).Error
			if createErr == nil {
				break
			}
			if IsDuplicateKey(createErr) {
				log.Printf("reservation number collision (attempt %d) - retrying", attempt+1)
				continue
			}
			return fmt.Errorf("failed to create reservation: %w", createErr)
		}
		if createErr != nil {
			return fmt.Errorf("failed to create reservation after retries: %w", createErr)
		}

		// Conditional flip: the current status is part of the predicate, so
		// two concurrent checkouts for the same unit cannot both win.
		res := tx.Model(&models.Property{}).
			Where("id = ? AND status = ?", property.ID, models.PropertyStatusAvailable).
			Update("status", models.PropertyStatusReserved)
		if res.Error != nil {
			return fmt.Errorf("failed to reserve property: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: property %s was taken by a concurrent reservation", ErrPropertyUnavailable, property.Slug)
		}
		return nil
	})
	if txErr != nil {
		return models.Reservation{}, txErr
	}
	return reservation, nil
}

// Checkout runs the full creation flow: pending reservation, payment intent,
// intent id persisted on the row. When the gateway call fails the reservation
// stays pending (retry or expiry will pick it up) and the error is surfaced.
func (s *ReservationService) Checkout(ctx context.Context, in ReservationInput) (models.Reservation, string, error) {
	reservation, err := s.Create(in)
	if err != nil {
		return models.Reservation{}, "", err
	}

	intent, err := s.Gateway.CreateIntent(ctx, reservation.ReservationFeeCents, s.Currency, map[string]string{
		"reservation_id":     fmt.Sprintf("%d", reservation.ID),
		"reservation_number": reservation.ReservationNumber,
	})
	if err != nil {
		log.Printf("checkout: intent creation failed for reservation %s: %v", reservation.ReservationNumber, err)
		return reservation, "", err
	}

	if err := s.DB.Model(&models.Reservation{}).
		Where("id = ?", reservation.ID).
		Update("payment_intent_id", intent.ID).Error; err != nil {
		return reservation, "", fmt.Errorf("failed to store payment intent id: %w", err)
	}
	reservation.PaymentIntentID = &intent.ID
	return reservation, intent.ClientSecret, nil
}

// Get returns one reservation with its property. Expired pending holds are
// swept first so callers never observe a stale hold.
func (s *ReservationService) Get(id uint) (models.Reservation, error) {
	if err := s.ExpireOverdue(time.Now().UTC()); err != nil {
		log.Printf("warning: expiry sweep failed: %v", err)
	}

	var r models.Reservation
	if err := s.DB.Preload("Property").First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r, ErrReservationNotFound
		}
		return r, fmt.Errorf("failed to retrieve reservation: %w", err)
	}
	return r, nil
}

func (s *ReservationService) list(where *gorm.DB) ([]models.Reservation, error) {
	if err := s.ExpireOverdue(time.Now().UTC()); err != nil {
		log.Printf("warning: expiry sweep failed: %v", err)
	}

	var out []models.Reservation
	if err := where.
		Preload("Property").
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reservations: %w", err)
	}
	return out, nil
}

func (s *ReservationService) ListAll() ([]models.Reservation, error) {
	return s.list(s.DB.Model(&models.Reservation{}))
}

func (s *ReservationService) ListByStatus(status string) ([]models.Reservation, error) {
	if !models.IsValidReservationStatus(status) {
		return nil, fmt.Errorf("%w: unknown reservation status %q", ErrValidation, status)
	}
	return s.list(s.DB.Where("status = ?", status))
}

func (s *ReservationService) ListByCustomer(profileID uint) ([]models.Reservation, error) {
	return s.list(s.DB.Where("profile_id = ?", profileID))
}

// transitionFrom is the conditional write at the core of the state machine:
// the current status is part of the predicate, so of two racing transitions
// exactly one wins and the loser sees zero rows affected.
func (s *ReservationService) transitionFrom(db *gorm.DB, id uint, from, to string, extra map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := db.Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update reservation status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// releaseProperty flips a reserved property back to available; sold and
// maintenance rows are left alone.
func (s *ReservationService) releaseProperty(db *gorm.DB, propertyID uint) error {
	return db.Model(&models.Property{}).
		Where("id = ? AND status = ?", propertyID, models.PropertyStatusReserved).
		Update("status", models.PropertyStatusAvailable).Error
}

// UpdateStatus validates and applies one state-machine step, with the
// property-side effects that belong to it.
func (s *ReservationService) UpdateStatus(id uint, next string) (models.Reservation, error) {
	if !models.IsValidReservationStatus(next) {
		return models.Reservation{}, fmt.Errorf("%w: unknown reservation status %q", ErrValidation, next)
	}

	var updated models.Reservation
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var r models.Reservation
		if err := tx.First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("failed to load reservation: %w", err)
		}

		if !models.CanTransitionReservation(r.Status, next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, next)
		}

		extra := map[string]interface{}{}
		now := time.Now().UTC()
		if next == models.ReservationStatusPaid && r.PaidAt == nil {
			extra["paid_at"] = now
		}

		applied, err := s.transitionFrom(tx, r.ID, r.Status, next, extra)
		if err != nil {
			return err
		}
		if !applied {
			// a concurrent transition won the race
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, next)
		}

		switch next {
		case models.ReservationStatusCancelled:
			if err := s.releaseProperty(tx, r.PropertyID); err != nil {
				return fmt.Errorf("failed to release property: %w", err)
			}
		case models.ReservationStatusCompleted:
			if err := tx.Model(&models.Property{}).
				Where("id = ?", r.PropertyID).
				Update("status", models.PropertyStatusSold).Error; err != nil {
				return fmt.Errorf("failed to mark property sold: %w", err)
			}
		}

		return tx.Preload("Property").First(&updated, r.ID).Error
	})
	if txErr != nil {
		return models.Reservation{}, txErr
	}
	return updated, nil
}

// RetryPayment re-enters pending from payment_failed with a fresh intent.
// This is the only place payment_intent_id is ever overwritten.
func (s *ReservationService) RetryPayment(ctx context.Context, id uint) (models.Reservation, string, error) {
	var r models.Reservation
	if err := s.DB.Preload("Property").First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r, "", ErrReservationNotFound
		}
		return r, "", fmt.Errorf("failed to load reservation: %w", err)
	}

	if r.Status != models.ReservationStatusPaymentFailed {
		return r, "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, models.ReservationStatusPending)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.HoldDuration)
	applied, err := s.transitionFrom(s.DB, r.ID, models.ReservationStatusPaymentFailed, models.ReservationStatusPending, map[string]interface{}{
		"reservation_expires_at": expiresAt,
	})
	if err != nil {
		return r, "", err
	}
	if !applied {
		return r, "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, models.ReservationStatusPending)
	}

	intent, err := s.Gateway.CreateIntent(ctx, r.ReservationFeeCents, s.Currency, map[string]string{
		"reservation_id":     fmt.Sprintf("%d", r.ID),
		"reservation_number": r.ReservationNumber,
		"retry":              "true",
	})
	if err != nil {
		log.Printf("retry: intent creation failed for reservation %s: %v", r.ReservationNumber, err)
		return r, "", err
	}

	if err := s.DB.Model(&models.Reservation{}).
		Where("id = ?", r.ID).
		Update("payment_intent_id", intent.ID).Error; err != nil {
		return r, "", fmt.Errorf("failed to store payment intent id: %w", err)
	}

	var updated models.Reservation
	if err := s.DB.Preload("Property").First(&updated, r.ID).Error; err != nil {
		return r, "", fmt.Errorf("failed to reload reservation: %w", err)
	}
	return updated, intent.ClientSecret, nil
}

// ExpireOverdue lazily cancels pending reservations whose hold ran out and
// releases their properties. Safe to call from any read path or a cron job;
// each row is cancelled with a conditional write so a concurrently arriving
// payment webhook can still win.
func (s *ReservationService) ExpireOverdue(now time.Time) error {
	var overdue []models.Reservation
	if err := s.DB.
		Where("status = ? AND reservation_expires_at IS NOT NULL AND reservation_expires_at < ?",
			models.ReservationStatusPending, now).
		Find(&overdue).Error; err != nil {
		return fmt.Errorf("failed to scan for expired reservations: %w", err)
	}

	for _, r := range overdue {
		applied, err := s.transitionFrom(s.DB, r.ID, models.ReservationStatusPending, models.ReservationStatusCancelled, nil)
		if err != nil {
			return err
		}
		if !applied {
			continue
		}
		log.Printf("reservation %s expired, hold released", r.ReservationNumber)
		if err := s.releaseProperty(s.DB, r.PropertyID); err != nil {
			return fmt.Errorf("failed to release property %d: %w", r.PropertyID, err)
		}
	}
	return nil
}
