package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.False(t, IsDuplicateKey(errors.New("connection refused")))

	// typed MySQL path, including when gorm wraps the driver error
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'DS-20260830-K4PQ' for key 'reservation_number'"}
	assert.True(t, IsDuplicateKey(dup))
	assert.True(t, IsDuplicateKey(fmt.Errorf("create failed: %w", dup)))
	assert.False(t, IsDuplicateKey(&mysql.MySQLError{Number: 1452, Message: "foreign key constraint fails"}))

	// sqlite test driver only offers message text
	assert.True(t, IsDuplicateKey(errors.New("UNIQUE constraint failed: payment_events.event_id")))
}
