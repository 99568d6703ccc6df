package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// SendReservationPaidEmail confirms a successful reservation payment. When
// SMTP is not configured (dev), it logs a mock send and succeeds so the
// webhook flow never fails on mail delivery.
func SendReservationPaidEmail(recipientEmail, customerName, reservationNumber, propertyName string, feeCents int64) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPass := os.Getenv("SMTP_PASSWORD")
	fromName := os.Getenv("SMTP_FROM_NAME")

	if smtpUser == "" || smtpPass == "" || smtpHost == "" || smtpPort == "" {
		log.Printf("[MOCK EMAIL] reservation paid to:%s reservation:%s property:%s fee:%.2f",
			MaskEmail(recipientEmail), reservationNumber, propertyName, float64(feeCents)/100)
		return nil
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}

	customerName = safe(customerName)
	reservationNumber = safe(reservationNumber)
	propertyName = safe(propertyName)
	feeText := fmt.Sprintf("€ %.2f", float64(feeCents)/100)

	from := fmt.Sprintf("%s <%s>", fromName, smtpUser)
	to := []string{recipientEmail}
	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	subject := fmt.Sprintf("Reservering %s bevestigd - De Steiger", reservationNumber)
	boundary := "----=_RESERVATION_EMAIL_BOUNDARY"

	plainBody := fmt.Sprintf(
		"Beste %s,\n\n"+
			"We hebben uw betaling van %s ontvangen voor %s.\n"+
			"Uw reserveringsnummer is %s.\n\n"+
			"Ons team neemt binnen twee werkdagen contact met u op over de volgende stappen.\n\n"+
			"Met vriendelijke groet,\nDe Steiger\n",
		customerName, feeText, propertyName, reservationNumber,
	)

	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Reservering bevestigd</title>
<style>
body { background:#f5f7fb; font-family:Arial, Helvetica, sans-serif; color:#222; }
.container { max-width:640px; margin:20px auto; }
.card { background:#fff; border:1px solid #e6eef6; padding:24px; border-radius:8px; }
.ref { font-size:20px; font-weight:bold; letter-spacing:1px; }
</style>
</head>
<body>
<div class="container">
<div class="card">
<p>Beste %s,</p>
<p>We hebben uw betaling van <strong>%s</strong> ontvangen voor <strong>%s</strong>.</p>
<p>Uw reserveringsnummer:</p>
<p class="ref">%s</p>
<p>Ons team neemt binnen twee werkdagen contact met u op over de volgende stappen.</p>
<p>Met vriendelijke groet,<br>De Steiger</p>
</div>
</div>
</body>
</html>`, customerName, feeText, propertyName, reservationNumber)

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", recipientEmail))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary))
	msg.WriteString("\r\n")
	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(plainBody)
	msg.WriteString("\r\n")
	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")
	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	if err := smtp.SendMail(addr, auth, smtpUser, to, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
