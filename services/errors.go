package services

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Sentinel errors shared across services; controllers map these onto HTTP
// statuses with errors.Is.
var (
	ErrValidation          = errors.New("validation_failed")
	ErrPropertyNotFound    = errors.New("property_not_found")
	ErrPropertyUnavailable = errors.New("property_unavailable")
	ErrReservationNotFound = errors.New("reservation_not_found")
	ErrInvalidTransition   = errors.New("invalid_status_transition")
	ErrInquiryNotFound     = errors.New("inquiry_not_found")
	ErrGatewayUnavailable  = errors.New("payment_gateway_unavailable")
	ErrInvalidSignature    = errors.New("invalid_webhook_signature")
)

// IsDuplicateKey reports whether err is a unique-constraint violation. MySQL
// surfaces these as errno 1062; the string fallback covers the sqlite driver
// used in tests.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate") || strings.Contains(lower, "unique") || strings.Contains(lower, "constraint")
}
