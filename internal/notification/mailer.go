// Package notification delivers verification and password reset messages
// over SMTP, including SMS delivery through carrier email gateways.
package notification

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Email is a single outgoing message.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// SMTPConfig holds mail relay settings. Username and Password are optional;
// local relays like Mailhog accept unauthenticated mail.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// sendMailFunc matches smtp.SendMail and is replaceable in tests.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends transactional mail through a standard SMTP relay.
type SMTPMailer struct {
	config   SMTPConfig
	baseURL  string
	logger   *slog.Logger
	sendMail sendMailFunc
}

// NewSMTPMailer creates a mailer. baseURL is used to build links in message
// bodies and must not end with a slash.
func NewSMTPMailer(config SMTPConfig, baseURL string, logger *slog.Logger) *SMTPMailer {
	if config.FromName == "" {
		config.FromName = "Credential API"
	}
	return &SMTPMailer{
		config:   config,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		logger:   logger,
		sendMail: smtp.SendMail,
	}
}

// SendEmailVerification mails a verification link carrying the opaque token.
func (m *SMTPMailer) SendEmailVerification(ctx context.Context, to, name, token string) error {
	confirmURL := fmt.Sprintf("%s/auth/verify/email/confirm?token=%s", m.baseURL, token)

	textBody := fmt.Sprintf(`Hi %s,

Please verify your email address by opening the link below:

%s

The link expires in 48 hours. If you did not create this account you can
ignore this message.
`, name, confirmURL)

	htmlBody := fmt.Sprintf(`<p>Hi %s,</p>
<p>Please verify your email address by clicking the link below:</p>
<p><a href="%s">Verify email address</a></p>
<p>The link expires in 48 hours. If you did not create this account you can
ignore this message.</p>`, name, confirmURL)

	return m.send(ctx, Email{
		To:       to,
		Subject:  "Verify your email address",
		TextBody: textBody,
		HTMLBody: htmlBody,
	})
}

// SendPasswordReset mails a password reset link carrying the reset token.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	resetURL := fmt.Sprintf("%s/auth/password/reset?token=%s", m.baseURL, token)

	textBody := fmt.Sprintf(`Hi %s,

We received a request to reset your password. Open the link below to choose
a new one:

%s

The link expires in 15 minutes. If you did not request a reset you can
ignore this message; your password will not change.
`, name, resetURL)

	htmlBody := fmt.Sprintf(`<p>Hi %s,</p>
<p>We received a request to reset your password. Click the link below to
choose a new one:</p>
<p><a href="%s">Reset password</a></p>
<p>The link expires in 15 minutes. If you did not request a reset you can
ignore this message; your password will not change.</p>`, name, resetURL)

	return m.send(ctx, Email{
		To:       to,
		Subject:  "Reset your password",
		TextBody: textBody,
		HTMLBody: htmlBody,
	})
}

// SendRaw delivers a plain-text message without the HTML part. Used by the
// carrier SMS gateway, where gateways strip markup anyway.
func (m *SMTPMailer) SendRaw(ctx context.Context, to, subject, body string) error {
	return m.send(ctx, Email{To: to, Subject: subject, TextBody: body})
}

func (m *SMTPMailer) send(_ context.Context, email Email) error {
	msg := m.buildMessage(email)
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	var auth smtp.Auth
	if m.config.Username != "" && m.config.Password != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	if err := m.sendMail(addr, auth, m.config.From, []string{email.To}, msg); err != nil {
		m.logger.Error("failed to send email",
			"to", email.To,
			"subject", email.Subject,
			"error", err,
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("email sent", "to", email.To, "subject", email.Subject)
	return nil
}

const mimeBoundary = "===============CREDENTIAL_API_BOUNDARY==============="

// buildMessage assembles the raw RFC 5322 message. HTML bodies produce a
// multipart/alternative payload; text-only messages stay single part.
func (m *SMTPMailer) buildMessage(email Email) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s <%s>\r\n", m.config.FromName, m.config.From)
	fmt.Fprintf(&buf, "To: %s\r\n", email.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", email.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")

	if email.HTMLBody == "" {
		buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
		buf.WriteString("\r\n")
		buf.WriteString(email.TextBody)
		buf.WriteString("\r\n")
		return buf.Bytes()
	}

	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n", mimeBoundary)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(email.TextBody)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(email.HTMLBody)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s--\r\n", mimeBoundary)

	return buf.Bytes()
}
