package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/aureliajewels/aurelia-backend/pkg/config"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
)

// Message is a plain-text email ready for delivery.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers an email message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer sends plain-text email over SMTP. An unconfigured mailer
// drops messages with a warning so callers never block on delivery.
type Mailer struct {
	cfg  config.SMTPConfig
	logg *logger.Logger
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New builds a Mailer from the SMTP configuration.
func New(cfg config.SMTPConfig, logg *logger.Logger) *Mailer {
	return &Mailer{cfg: cfg, logg: logg, send: smtp.SendMail}
}

// Configured reports whether an SMTP host and sender address are set.
func (m *Mailer) Configured() bool {
	return m != nil && strings.TrimSpace(m.cfg.Host) != "" && strings.TrimSpace(m.cfg.From) != ""
}

// Send delivers the message over SMTP.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if !m.Configured() {
		if m.logg != nil {
			m.logg.Warn(ctx, "smtp not configured, dropping email")
		}
		return nil
	}
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("email recipient is required")
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	if err := m.send(addr, auth, m.cfg.From, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("sending email to %s: %w", msg.To, err)
	}
	return nil
}
