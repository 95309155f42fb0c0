// Package mailer delivers assembled offers over SMTP.
package mailer

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	gomail "gopkg.in/gomail.v2"

	"github.com/nlescano/floordesk/internal/domain"
)

type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewFromEnv reads SMTP_HOST/PORT/USER/PASS and MAIL_FROM. Returns nil when
// the host is unset so callers can skip sending in dev.
func NewFromEnv() *SMTPMailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Warn().Msg("SMTP not configured, offer emails disabled")
		return nil
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}
	user := os.Getenv("SMTP_USER")
	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = user
	}
	return &SMTPMailer{
		host: host,
		port: port,
		user: user,
		pass: os.Getenv("SMTP_PASS"),
		from: from,
	}
}

func (m *SMTPMailer) SendOffer(to string, snap *domain.OfferSnapshot, attachment []byte) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Offer "+snap.OfferNumber)

	body := fmt.Sprintf("Please find attached offer %s.\n\nTotal: %.2f\n", snap.OfferNumber, snap.GrandTotal)
	if snap.Commission != nil {
		body += fmt.Sprintf("Architect commission (%.2f%%): %.2f\n", snap.Commission.Pct, snap.Commission.Amount)
	}
	msg.SetBody("text/plain", body)

	if len(attachment) > 0 {
		name := "offer-" + snap.OfferNumber + ".xlsx"
		msg.Attach(name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(attachment)
			return err
		}))
	}

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send offer %s: %w", snap.OfferNumber, err)
	}
	log.Info().Str("offer", snap.OfferNumber).Str("to", to).Msg("offer emailed")
	return nil
}
