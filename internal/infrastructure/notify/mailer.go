package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"

	"github.com/eventhub/registration-system/internal/core/ports"
)

// SMTPConfig captures the settings for the ticket mailer.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Deduper guards against delivering the same ticket twice.
type Deduper interface {
	AlreadySent(ctx context.Context, ticketID string) (bool, error)
	MarkSent(ctx context.Context, ticketID string) error
}

// Mailer delivers ticket emails with the QR code attached. When no SMTP
// host is configured, Send logs and returns nil, mirroring a disabled
// mail transport in development.
type Mailer struct {
	cfg   SMTPConfig
	dedup Deduper
	log   zerolog.Logger
}

func NewMailer(cfg SMTPConfig, dedup Deduper, log zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, dedup: dedup, log: log}
}

// Send implements ports.Notifier.
func (m *Mailer) Send(ctx context.Context, n ports.TicketNotification) error {
	if m.cfg.Host == "" {
		m.log.Warn().Str("ticket_id", n.TicketID).Msg("smtp not configured, skipping ticket email")
		return nil
	}

	sent, err := m.dedup.AlreadySent(ctx, n.TicketID)
	if err != nil {
		m.log.Warn().Err(err).Str("ticket_id", n.TicketID).Msg("dedup check failed, sending anyway")
	} else if sent {
		m.log.Debug().Str("ticket_id", n.TicketID).Msg("ticket email already sent, skipping")
		return nil
	}

	png, err := TicketQR(n.Token)
	if err != nil {
		return fmt.Errorf("render qr: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", n.Email)
	msg.SetHeader("Subject", "Your ticket for "+n.EventTitle)
	msg.SetBody("text/html", ticketBody(n))
	msg.Embed("ticket-qr.png", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(png))
		return err
	}))

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Pass)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send ticket email: %w", err)
	}

	if err := m.dedup.MarkSent(ctx, n.TicketID); err != nil {
		m.log.Warn().Err(err).Str("ticket_id", n.TicketID).Msg("failed to set dedup key")
	}

	m.log.Info().Str("ticket_id", n.TicketID).Str("email", n.Email).Msg("ticket email sent")
	return nil
}

func ticketBody(n ports.TicketNotification) string {
	return fmt.Sprintf(
		`<p>Hi %s,</p>
<p>You are registered for <strong>%s</strong> at %s, starting %s.</p>
<p>Show the QR code below at the entrance. Each ticket admits one person, once.</p>
<img src="cid:ticket-qr.png" alt="ticket QR code"/>
<p>Ticket ID: %s</p>`,
		n.Name, n.EventTitle, n.EventVenue,
		n.EventStart.Format(time.RFC1123), n.TicketID,
	)
}
