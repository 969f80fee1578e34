package notification

import (
	"context"
	"io"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type capturedMail struct {
	addr string
	auth smtp.Auth
	from string
	to   []string
	msg  []byte
}

func newCapturingMailer(config SMTPConfig, baseURL string) (*SMTPMailer, *capturedMail) {
	captured := &capturedMail{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mailer := NewSMTPMailer(config, baseURL, logger)
	mailer.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		captured.addr = addr
		captured.auth = a
		captured.from = from
		captured.to = to
		captured.msg = msg
		return nil
	}

	return mailer, captured
}

func TestSMTPMailer_SendEmailVerification(t *testing.T) {
	config := SMTPConfig{
		Host: "localhost",
		Port: 1025,
		From: "no-reply@example.com",
	}
	mailer, captured := newCapturingMailer(config, "http://localhost:8000/")

	err := mailer.SendEmailVerification(context.Background(), "user@example.com", "Rae", "abc123")
	assert.NoError(t, err)

	assert.Equal(t, "localhost:1025", captured.addr)
	assert.Nil(t, captured.auth)
	assert.Equal(t, "no-reply@example.com", captured.from)
	assert.Equal(t, []string{"user@example.com"}, captured.to)

	body := string(captured.msg)
	assert.Contains(t, body, "Subject: Verify your email address")
	assert.Contains(t, body, "http://localhost:8000/auth/verify/email/confirm?token=abc123")
	assert.Contains(t, body, "multipart/alternative")
	assert.Contains(t, body, "text/plain")
	assert.Contains(t, body, "text/html")
}

func TestSMTPMailer_SendPasswordReset(t *testing.T) {
	config := SMTPConfig{
		Host:     "mail.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "no-reply@example.com",
	}
	mailer, captured := newCapturingMailer(config, "https://app.example.com")

	err := mailer.SendPasswordReset(context.Background(), "user@example.com", "Rae", "tok")
	assert.NoError(t, err)

	assert.NotNil(t, captured.auth)
	assert.Contains(t, string(captured.msg), "https://app.example.com/auth/password/reset?token=tok")
}

func TestSMTPMailer_SendRawIsSinglePart(t *testing.T) {
	mailer, captured := newCapturingMailer(SMTPConfig{Host: "localhost", Port: 1025, From: "a@b"}, "")

	err := mailer.SendRaw(context.Background(), "5551234567@tmomail.net", "", "Your code is 123456")
	assert.NoError(t, err)

	body := string(captured.msg)
	assert.Contains(t, body, "Your code is 123456")
	assert.NotContains(t, body, "multipart/alternative")
}

func TestCarrierSMSGateway_Send(t *testing.T) {
	tests := []struct {
		name       string
		phone      string
		carrier    string
		wantDomain string
	}{
		{"KnownCarrier", "+1 (555) 123-4567", "att", "txt.att.net"},
		{"CaseInsensitive", "5551234567", "Verizon", "vtext.com"},
		{"UnknownCarrierFallsBack", "5551234567", "pigeon", "tmomail.net"},
		{"EmptyCarrierFallsBack", "5551234567", "", "tmomail.net"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer, captured := newCapturingMailer(SMTPConfig{Host: "localhost", Port: 1025, From: "a@b"}, "")
			gateway := NewCarrierSMSGateway(mailer, slog.New(slog.NewTextHandler(io.Discard, nil)))

			err := gateway.Send(context.Background(), tt.phone, tt.carrier, "Your code is 123456")
			assert.NoError(t, err)

			assert.Len(t, captured.to, 1)
			assert.True(t, strings.HasSuffix(captured.to[0], "@"+tt.wantDomain), captured.to[0])
			if tt.name == "KnownCarrier" {
				assert.Equal(t, "15551234567@txt.att.net", captured.to[0])
			}
		})
	}
}

func TestLogSMSGateway_Send(t *testing.T) {
	gateway := NewLogSMSGateway(slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := gateway.Send(context.Background(), "5551234567", "att", "Your code is 123456")
	assert.NoError(t, err)
}
