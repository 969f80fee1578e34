package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// carrierDomains maps carrier hints to their email-to-SMS gateway domains.
var carrierDomains = map[string]string{
	"att":        "txt.att.net",
	"tmobile":    "tmomail.net",
	"t-mobile":   "tmomail.net",
	"verizon":    "vtext.com",
	"sprint":     "messaging.sprintpcs.com",
	"boost":      "sms.myboostmobile.com",
	"cricket":    "sms.cricketwireless.net",
	"uscellular": "email.uscc.net",
}

const defaultCarrierDomain = "tmomail.net"

// CarrierSMSGateway delivers SMS messages through carrier email-to-SMS
// gateways, piggybacking on the existing SMTP relay.
type CarrierSMSGateway struct {
	mailer *SMTPMailer
	logger *slog.Logger
}

// NewCarrierSMSGateway creates a gateway backed by the given mailer.
func NewCarrierSMSGateway(mailer *SMTPMailer, logger *slog.Logger) *CarrierSMSGateway {
	return &CarrierSMSGateway{mailer: mailer, logger: logger}
}

// Send delivers message to the phone number through the hinted carrier's
// gateway. Unknown or missing hints fall back to a default carrier.
func (g *CarrierSMSGateway) Send(ctx context.Context, phone, carrier, message string) error {
	domain, ok := carrierDomains[strings.ToLower(strings.TrimSpace(carrier))]
	if !ok {
		domain = defaultCarrierDomain
		if carrier != "" {
			g.logger.Warn("unknown sms carrier, using default gateway", "carrier", carrier)
		}
	}

	to := fmt.Sprintf("%s@%s", digitsOnly(phone), domain)
	return g.mailer.SendRaw(ctx, to, "", message)
}

// digitsOnly strips formatting characters so gateways accept the address.
func digitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LogSMSGateway writes messages to the log instead of sending them. Used in
// development and in environments without an SMS backend.
type LogSMSGateway struct {
	logger *slog.Logger
}

// NewLogSMSGateway creates a log-only gateway.
func NewLogSMSGateway(logger *slog.Logger) *LogSMSGateway {
	return &LogSMSGateway{logger: logger}
}

func (g *LogSMSGateway) Send(_ context.Context, phone, carrier, message string) error {
	g.logger.Info("sms message", "to", phone, "carrier", carrier, "message", message)
	return nil
}
