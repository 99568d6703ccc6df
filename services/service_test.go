package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"desteiger-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.Property{},
		&models.Reservation{},
		&models.Inquiry{},
		&models.PaymentEvent{},
	))
	return db
}

func seedProperty(t *testing.T, db *gorm.DB, typeNumber int) models.Property {
	t.Helper()
	p := models.Property{
		Slug:           fmt.Sprintf("bedrijfsunit-%d", typeNumber),
		Name:           fmt.Sprintf("Bedrijfsunit %d", typeNumber),
		Type:           models.PropertyTypeBedrijfsunit,
		UnitNumber:     fmt.Sprintf("%d", typeNumber),
		TypeNumber:     typeNumber,
		GrossAreaM2:    120,
		NetAreaM2:      110,
		SalePriceCents: 24950000,
		Status:         models.PropertyStatusAvailable,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func validInput(propertyID uint) ReservationInput {
	return ReservationInput{
		PropertyID:    propertyID,
		FirstName:     "Jan",
		LastName:      "de Vries",
		Email:         "jan@example.com",
		Phone:         "+31612345678",
		TermsAccepted: true,
	}
}

// fakeGateway satisfies PaymentGateway without network calls.
type fakeGateway struct {
	created    int
	failCreate bool
	lastMeta   map[string]string
}

func (g *fakeGateway) CreateIntent(_ context.Context, amountCents int64, currency string, metadata map[string]string) (PaymentIntent, error) {
	if g.failCreate {
		return PaymentIntent{}, fmt.Errorf("%w: connection refused", ErrGatewayUnavailable)
	}
	if amountCents <= 0 {
		return PaymentIntent{}, fmt.Errorf("%w: amount must be a positive number of cents", ErrValidation)
	}
	g.created++
	g.lastMeta = metadata
	return PaymentIntent{
		ID:           fmt.Sprintf("pi_fake_%d", g.created),
		ClientSecret: fmt.Sprintf("pi_fake_%d_secret", g.created),
	}, nil
}

func (g *fakeGateway) VerifyWebhook(payload []byte, sigHeader string) (WebhookEvent, error) {
	if sigHeader != "valid" {
		return WebhookEvent{}, fmt.Errorf("%w: bad header", ErrInvalidSignature)
	}
	return WebhookEvent{ID: "evt_fake", Type: EventPaymentSucceeded, IntentID: string(payload)}, nil
}

func newTestReservationService(db *gorm.DB, gw PaymentGateway) *ReservationService {
	return &ReservationService{
		DB:           db,
		Gateway:      gw,
		HoldDuration: 72 * time.Hour,
		DefaultFee:   250000,
		Currency:     "eur",
	}
}
