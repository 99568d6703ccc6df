package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"desteiger-backend/models"
	"desteiger-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testWebhookSecret = "whsec_test_secret"

func webhookTestSetup(t *testing.T) (*gorm.DB, *gin.Engine, models.Reservation) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Property{},
		&models.Reservation{},
		&models.PaymentEvent{},
	))

	property := models.Property{
		Slug: "bedrijfsunit-1", Name: "Bedrijfsunit 1", Type: models.PropertyTypeBedrijfsunit,
		UnitNumber: "1", TypeNumber: 1, SalePriceCents: 24950000,
		Status: models.PropertyStatusReserved,
	}
	require.NoError(t, db.Create(&property).Error)

	intentID := "pi_test_123"
	reservation := models.Reservation{
		ReservationNumber:       "DS-20260830-TEST",
		PropertyID:              property.ID,
		CustomerFirstName:       "Jan",
		CustomerLastName:        "de Vries",
		CustomerEmail:           "jan@example.com",
		CustomerPhone:           "+31612345678",
		ReservationFeeCents:     1000,
		TotalPropertyPriceCents: property.SalePriceCents,
		Status:                  models.ReservationStatusPending,
		PaymentIntentID:         &intentID,
	}
	require.NoError(t, db.Create(&reservation).Error)

	// real Stripe signature verification, no network involved
	gateway := services.NewStripeGateway("sk_test_dummy", testWebhookSecret, time.Second)
	ctrl := NewPaymentController(services.NewPaymentService(db, gateway))

	r := gin.New()
	r.POST("/stripe/webhook", ctrl.HandleWebhook)
	return db, r, reservation
}

// signStripePayload forges a valid stripe-signature header the way the SDK
// expects it: t=<unix>,v1=hex(hmac_sha256(secret, "<unix>.<payload>")).
func signStripePayload(secret string, payload []byte, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts.Unix())
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func succeededEventPayload(eventID, intentID string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":%q,"object":"event","type":"payment_intent.succeeded","data":{"object":{"id":%q,"object":"payment_intent"}}}`,
		eventID, intentID,
	))
}

func postWebhook(r *gin.Engine, payload []byte, sig string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/stripe/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if sig != "" {
		req.Header.Set("Stripe-Signature", sig)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookValidSignatureMarksPaid(t *testing.T) {
	db, r, reservation := webhookTestSetup(t)

	payload := succeededEventPayload("evt_test_1", *reservation.PaymentIntentID)
	w := postWebhook(r, payload, signStripePayload(testWebhookSecret, payload, time.Now()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received": true}`, w.Body.String())

	var stored models.Reservation
	require.NoError(t, db.First(&stored, reservation.ID).Error)
	assert.Equal(t, models.ReservationStatusPaid, stored.Status)
	require.NotNil(t, stored.PaidAt)
}

func TestWebhookInvalidSignatureRejectedWithoutMutation(t *testing.T) {
	db, r, reservation := webhookTestSetup(t)

	payload := succeededEventPayload("evt_test_1", *reservation.PaymentIntentID)

	// wrong secret
	w := postWebhook(r, payload, signStripePayload("whsec_wrong", payload, time.Now()))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// missing header entirely
	w = postWebhook(r, payload, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// tampered body under a once-valid signature
	sig := signStripePayload(testWebhookSecret, payload, time.Now())
	tampered := bytes.Replace(payload, []byte("pi_test_123"), []byte("pi_evil_456"), 1)
	w = postWebhook(r, tampered, sig)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var stored models.Reservation
	require.NoError(t, db.First(&stored, reservation.ID).Error)
	assert.Equal(t, models.ReservationStatusPending, stored.Status, "unverified events must never mutate a reservation")
	assert.Nil(t, stored.PaidAt)
}

func TestWebhookReplayDelivery(t *testing.T) {
	db, r, reservation := webhookTestSetup(t)

	payload := succeededEventPayload("evt_test_1", *reservation.PaymentIntentID)
	w := postWebhook(r, payload, signStripePayload(testWebhookSecret, payload, time.Now()))
	require.Equal(t, http.StatusOK, w.Code)

	var first models.Reservation
	require.NoError(t, db.First(&first, reservation.ID).Error)
	require.NotNil(t, first.PaidAt)

	// the gateway redelivers the exact same event
	w = postWebhook(r, payload, signStripePayload(testWebhookSecret, payload, time.Now()))
	assert.Equal(t, http.StatusOK, w.Code)

	var second models.Reservation
	require.NoError(t, db.First(&second, reservation.ID).Error)
	assert.Equal(t, models.ReservationStatusPaid, second.Status)
	assert.True(t, first.PaidAt.Equal(*second.PaidAt), "paid_at must survive redelivery unchanged")

	var events int64
	require.NoError(t, db.Model(&models.PaymentEvent{}).Count(&events).Error)
	assert.Equal(t, int64(1), events)
}

func TestWebhookUnknownIntentStillAcknowledged(t *testing.T) {
	db, r, reservation := webhookTestSetup(t)

	payload := succeededEventPayload("evt_test_2", "pi_never_seen")
	w := postWebhook(r, payload, signStripePayload(testWebhookSecret, payload, time.Now()))

	// must be 2xx or the gateway would redeliver forever
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Reservation
	require.NoError(t, db.First(&stored, reservation.ID).Error)
	assert.Equal(t, models.ReservationStatusPending, stored.Status)
}

func TestWebhookFailedEventPayload(t *testing.T) {
	db, r, reservation := webhookTestSetup(t)

	payload := []byte(fmt.Sprintf(
		`{"id":"evt_test_3","object":"event","type":"payment_intent.payment_failed","data":{"object":{"id":%q,"object":"payment_intent"}}}`,
		*reservation.PaymentIntentID,
	))
	w := postWebhook(r, payload, signStripePayload(testWebhookSecret, payload, time.Now()))
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Reservation
	require.NoError(t, db.First(&stored, reservation.ID).Error)
	assert.Equal(t, models.ReservationStatusPaymentFailed, stored.Status)
}
