package gomail

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/notification"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/config"
)

// Sender delivers notification emails over SMTP.
type Sender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSender builds an SMTP sender from the mail settings. Port 465 uses
// implicit TLS; other ports negotiate STARTTLS. SMTP_FROM without an
// address is treated as a display name on the authenticated account.
func NewSender(cfg config.SMTPSettings) *Sender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.SSL = cfg.Port == 465
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}

	from := cfg.From
	switch {
	case from == "":
		from = cfg.User
	case !strings.Contains(from, "@"):
		from = gomail.NewMessage().FormatAddress(cfg.User, from)
	}
	return &Sender{dialer: d, from: from}
}

// Send delivers one HTML email. The SMTP dial has no context hook, so the
// call runs in a goroutine and the context only bounds the wait.
func (s *Sender) Send(ctx context.Context, email notification.Email) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/html", email.HTML)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send email to %s: %w", email.To, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send email to %s: %w", email.To, ctx.Err())
	}
}

var _ notification.Sender = (*Sender)(nil)
