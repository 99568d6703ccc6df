package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionReservation(t *testing.T) {
	allowed := [][2]string{
		{ReservationStatusPending, ReservationStatusPaid},
		{ReservationStatusPending, ReservationStatusPaymentFailed},
		{ReservationStatusPending, ReservationStatusCancelled},
		{ReservationStatusPaid, ReservationStatusConfirmed},
		{ReservationStatusPaid, ReservationStatusCancelled},
		{ReservationStatusConfirmed, ReservationStatusCompleted},
		{ReservationStatusPaymentFailed, ReservationStatusPending},
	}
	for _, pair := range allowed {
		assert.True(t, CanTransitionReservation(pair[0], pair[1]), "%s -> %s should be allowed", pair[0], pair[1])
	}

	denied := [][2]string{
		{ReservationStatusPending, ReservationStatusCompleted},
		{ReservationStatusPending, ReservationStatusConfirmed},
		{ReservationStatusPaid, ReservationStatusCompleted},
		{ReservationStatusCancelled, ReservationStatusPending},
		{ReservationStatusCompleted, ReservationStatusCancelled},
		{ReservationStatusPaymentFailed, ReservationStatusPaid},
		{ReservationStatusPending, ReservationStatusPending},
	}
	for _, pair := range denied {
		assert.False(t, CanTransitionReservation(pair[0], pair[1]), "%s -> %s should be denied", pair[0], pair[1])
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, IsTerminalReservationStatus(ReservationStatusCompleted))
	assert.True(t, IsTerminalReservationStatus(ReservationStatusCancelled))
	assert.False(t, IsTerminalReservationStatus(ReservationStatusPaid))
	assert.False(t, IsTerminalReservationStatus(ReservationStatusPaymentFailed))
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleAdmin.CanManage())
	assert.True(t, RoleSuperAdmin.CanManage())
	assert.False(t, RoleCustomer.CanManage())
	assert.False(t, Role("intruder").CanManage())
	assert.False(t, IsValidRole(Role("intruder")))
}
