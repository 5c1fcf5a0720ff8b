package notification

import (
	"context"
	"errors"
	"strings"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/infrastructure/config"
)

// SMSResult reports the provider's verdict for one message. Failures
// are data, not errors: bulk sends carry on past individual rejects.
type SMSResult struct {
	Success    bool   `json:"success"`
	To         string `json:"to"`
	MessageSID string `json:"message_sid,omitempty"`
	Status     string `json:"status,omitempty"`
	Error      string `json:"error,omitempty"`
}

// SMSSender delivers a single SMS message.
type SMSSender interface {
	Send(ctx context.Context, to, body string) SMSResult
}

var _ SMSSender = (*TwilioSMSSender)(nil)

// TwilioSMSSender sends SMS through the Twilio REST API.
type TwilioSMSSender struct {
	client *twilio.RestClient
	from   string
	logger *zap.Logger
}

// NewTwilioSMSSender creates a TwilioSMSSender from configuration.
func NewTwilioSMSSender(cfg *config.SMSConfig, logger *zap.Logger) (*TwilioSMSSender, error) {
	if cfg == nil {
		return nil, errors.New("sms configuration is required")
	}
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, errors.New("twilio credentials are required")
	}
	if cfg.FromNumber == "" {
		return nil, errors.New("twilio from number is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &TwilioSMSSender{
		client: client,
		from:   cfg.FromNumber,
		logger: logger,
	}, nil
}

// Send delivers one SMS. The recipient number is normalized to E.164,
// assuming a US number when no country code is given.
func (s *TwilioSMSSender) Send(_ context.Context, to, body string) SMSResult {
	to = NormalizePhone(to)
	if to == "" {
		return SMSResult{Success: false, To: to, Error: "phone number missing"}
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		s.logger.Warn("SMS delivery failed", zap.String("to", to), zap.Error(err))
		return SMSResult{Success: false, To: to, Error: err.Error()}
	}

	result := SMSResult{Success: true, To: to}
	if resp.Sid != nil {
		result.MessageSID = *resp.Sid
	}
	if resp.Status != nil {
		result.Status = *resp.Status
	}
	s.logger.Debug("SMS sent", zap.String("to", to), zap.String("sid", result.MessageSID))
	return result
}

// NormalizePhone strips formatting characters and prefixes +1 when the
// number carries no country code.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	cleaned := strings.NewReplacer("-", "", "(", "", ")", "", " ", "", ".", "").Replace(phone)
	if cleaned == "" {
		return ""
	}
	return "+1" + cleaned
}

// NoopSMSSender reports every message as failed-disabled. Used when SMS
// is not configured.
type NoopSMSSender struct{}

// Send reports the message as undeliverable.
func (NoopSMSSender) Send(_ context.Context, to, _ string) SMSResult {
	return SMSResult{Success: false, To: to, Error: "sms delivery disabled"}
}

var _ SMSSender = NoopSMSSender{}
