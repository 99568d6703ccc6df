package services

import (
	"context"
	"testing"

	"desteiger-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func checkoutReservation(t *testing.T, db *gorm.DB) (*ReservationService, models.Reservation) {
	t.Helper()
	svc := newTestReservationService(db, &fakeGateway{})
	property := seedProperty(t, db, 1)
	r, _, err := svc.Checkout(context.Background(), validInput(property.ID))
	require.NoError(t, err)
	return svc, r
}

func TestProcessEventSucceededMarksPaid(t *testing.T) {
	db := testDB(t)
	_, r := checkoutReservation(t, db)
	pay := NewPaymentService(db, &fakeGateway{})

	err := pay.ProcessEvent(WebhookEvent{ID: "evt_1", Type: EventPaymentSucceeded, IntentID: *r.PaymentIntentID})
	require.NoError(t, err)

	var stored models.Reservation
	require.NoError(t, db.First(&stored, r.ID).Error)
	assert.Equal(t, models.ReservationStatusPaid, stored.Status)
	require.NotNil(t, stored.PaidAt)

	var events int64
	require.NoError(t, db.Model(&models.PaymentEvent{}).Count(&events).Error)
	assert.Equal(t, int64(1), events)
}

func TestProcessEventReplayIsIdempotent(t *testing.T) {
	db := testDB(t)
	_, r := checkoutReservation(t, db)
	pay := NewPaymentService(db, &fakeGateway{})

	event := WebhookEvent{ID: "evt_1", Type: EventPaymentSucceeded, IntentID: *r.PaymentIntentID}
	require.NoError(t, pay.ProcessEvent(event))

	var first models.Reservation
	require.NoError(t, db.First(&first, r.ID).Error)
	require.NotNil(t, first.PaidAt)
	firstPaidAt := *first.PaidAt

	// identical delivery again: same end state, paid_at untouched, one audit row
	require.NoError(t, pay.ProcessEvent(event))

	var second models.Reservation
	require.NoError(t, db.First(&second, r.ID).Error)
	assert.Equal(t, models.ReservationStatusPaid, second.Status)
	require.NotNil(t, second.PaidAt)
	assert.True(t, firstPaidAt.Equal(*second.PaidAt), "paid_at must be stamped exactly once")

	var events int64
	require.NoError(t, db.Model(&models.PaymentEvent{}).Count(&events).Error)
	assert.Equal(t, int64(1), events)
}

func TestProcessEventRepeatOutcomeWithFreshEventID(t *testing.T) {
	db := testDB(t)
	_, r := checkoutReservation(t, db)
	pay := NewPaymentService(db, &fakeGateway{})

	require.NoError(t, pay.ProcessEvent(WebhookEvent{ID: "evt_1", Type: EventPaymentSucceeded, IntentID: *r.PaymentIntentID}))
	var first models.Reservation
	require.NoError(t, db.First(&first, r.ID).Error)

	// the processor may re-send the outcome under a new event id; the state
	// machine predicate makes it a no-op
	require.NoError(t, pay.ProcessEvent(WebhookEvent{ID: "evt_2", Type: EventPaymentSucceeded, IntentID: *r.PaymentIntentID}))

	var second models.Reservation
	require.NoError(t, db.First(&second, r.ID).Error)
	assert.Equal(t, models.ReservationStatusPaid, second.Status)
	assert.True(t, first.PaidAt.Equal(*second.PaidAt))
}

func TestProcessEventFailedMarksPaymentFailed(t *testing.T) {
	db := testDB(t)
	_, r := checkoutReservation(t, db)
	pay := NewPaymentService(db, &fakeGateway{})

	require.NoError(t, pay.ProcessEvent(WebhookEvent{ID: "evt_1", Type: EventPaymentFailed, IntentID: *r.PaymentIntentID}))

	var stored models.Reservation
	require.NoError(t, db.First(&stored, r.ID).Error)
	assert.Equal(t, models.ReservationStatusPaymentFailed, stored.Status)
	assert.Nil(t, stored.PaidAt)
}

func TestProcessEventUnknownIntentIsIgnored(t *testing.T) {
	db := testDB(t)
	_, r := checkoutReservation(t, db)
	pay := NewPaymentService(db, &fakeGateway{})

	// benign unmatched event: success (nil), nothing mutated
	require.NoError(t, pay.ProcessEvent(WebhookEvent{ID: "evt_1", Type: EventPaymentSucceeded, IntentID: "pi_unknown"}))

	var stored models.Reservation
	require.NoError(t, db.First(&stored, r.ID).Error)
	assert.Equal(t, models.ReservationStatusPending, stored.Status)
}

func TestProcessEventIgnoresUnknownTypes(t *testing.T) {
	db := testDB(t)
	_, r := checkoutReservation(t, db)
	pay := NewPaymentService(db, &fakeGateway{})

	require.NoError(t, pay.ProcessEvent(WebhookEvent{ID: "evt_1", Type: "charge.refunded", IntentID: *r.PaymentIntentID}))

	var stored models.Reservation
	require.NoError(t, db.First(&stored, r.ID).Error)
	assert.Equal(t, models.ReservationStatusPending, stored.Status)
}

func TestProcessEventAfterCancelDoesNotResurrect(t *testing.T) {
	db := testDB(t)
	svc, r := checkoutReservation(t, db)
	pay := NewPaymentService(db, &fakeGateway{})

	_, err := svc.UpdateStatus(r.ID, models.ReservationStatusCancelled)
	require.NoError(t, err)

	// the success arrives after an admin cancel; webhook stays 2xx but the
	// terminal state wins
	require.NoError(t, pay.ProcessEvent(WebhookEvent{ID: "evt_1", Type: EventPaymentSucceeded, IntentID: *r.PaymentIntentID}))

	var stored models.Reservation
	require.NoError(t, db.First(&stored, r.ID).Error)
	assert.Equal(t, models.ReservationStatusCancelled, stored.Status)
	assert.Nil(t, stored.PaidAt)
}
