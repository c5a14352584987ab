package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"regexp"
	"strings"

	"github.com/spec-kit/helpdesk/internal/config"
)

// Mailer delivers a single message to a single recipient. Implementations
// are external collaborators; the dispatch policy lives in Notifier.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer sends mail through a plain SMTP endpoint with AUTH.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	cfg  config.MailConfig
}

// NewSMTPMailer builds a mailer from config.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%s", cfg.SMTPHost, cfg.SMTPPort),
		auth: smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost),
		cfg:  cfg,
	}
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>?`)

// Send delivers one HTML message with a stripped-tags text alternative.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	textBody := strings.TrimSpace(htmlTagPattern.ReplaceAllString(htmlBody, ""))

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.FromAddress)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: multipart/alternative; boundary=helpdesk-alt\r\n")
	msg.WriteString("\r\n")
	msg.WriteString("--helpdesk-alt\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(textBody)
	msg.WriteString("\r\n--helpdesk-alt\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n--helpdesk-alt--\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.cfg.FromAddress, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
