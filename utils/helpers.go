package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// EnvInt64OrDefault parses an integer env var, falling back on def when the
// var is unset or malformed.
func EnvInt64OrDefault(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return n
}

const reservationCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// randomCode returns n chars from reservationCharset. Uses crypto/rand +
// rand.Int (math/big) to avoid modulo bias.
func randomCode(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid length")
	}
	var sb strings.Builder
	alphaLen := big.NewInt(int64(len(reservationCharset)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, alphaLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(reservationCharset[num.Int64()])
	}
	return sb.String(), nil
}

// GenerateReservationNumber builds a human-readable reservation number like
// "DS-20260830-K4PQ". Uniqueness is enforced by the DB index; callers retry
// on collision.
func GenerateReservationNumber(now time.Time) (string, error) {
	suffix, err := randomCode(4)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("DS-%s-%s", now.UTC().Format("20060102"), suffix), nil
}

// PtrTime returns pointer to time.Time
func PtrTime(t time.Time) *time.Time { return &t }

// MaskEmail returns masked email for safe display in logs.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}
	local := parts[0]
	masked := local
	if len(local) > 2 {
		masked = local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:]
	} else if len(local) == 2 {
		masked = local[:1] + "*"
	}
	return masked + "@" + parts[1]
}
