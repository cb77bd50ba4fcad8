package sms

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/glacialguard/alert-service/internal/config"
	"github.com/glacialguard/alert-service/internal/models"
)

// TwilioOption customises the Twilio-backed provider.
type TwilioOption func(*TwilioProvider)

// restClient abstracts the twilio-go message API for tests.
type restClient interface {
	CreateMessage(params *twilioapi.CreateMessageParams) (*twilioapi.ApiV2010Message, error)
}

// WithTwilioClient overrides the underlying twilio-go API client.
func WithTwilioClient(client restClient) TwilioOption {
	return func(p *TwilioProvider) {
		if client != nil {
			p.client = client
		}
	}
}

// TwilioProvider delivers SMS through the Twilio Messages API. Stateless
// aside from held credentials; each Send is a single best-effort attempt.
type TwilioProvider struct {
	logger zerolog.Logger
	client restClient
	from   string
}

// NewTwilioProvider constructs a Twilio-backed SMS provider.
func NewTwilioProvider(cfg config.TwilioConfig, timeout time.Duration, logger zerolog.Logger, opts ...TwilioOption) (*TwilioProvider, error) {
	if strings.TrimSpace(cfg.AccountSID) == "" {
		return nil, errors.New("twilio sms provider: account SID is required")
	}
	if strings.TrimSpace(cfg.AuthToken) == "" {
		return nil, errors.New("twilio sms provider: auth token is required")
	}
	if strings.TrimSpace(cfg.PhoneNumber) == "" {
		return nil, errors.New("twilio sms provider: sending number is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: strings.TrimSpace(cfg.AccountSID),
		Password: strings.TrimSpace(cfg.AuthToken),
	})
	if timeout > 0 {
		rest.SetTimeout(timeout)
	}

	p := &TwilioProvider{
		logger: logger,
		client: rest.Api,
		from:   strings.TrimSpace(cfg.PhoneNumber),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Send delivers one SMS via Twilio.
func (p *TwilioProvider) Send(ctx context.Context, to, body string) (*Result, error) {
	if to == "" {
		return nil, errors.New("twilio sms provider: recipient is required")
	}
	// twilio-go carries no context; honour cancellation before the call.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(p.from)
	params.SetBody(body)

	msg, err := p.client.CreateMessage(params)
	if err != nil {
		return nil, fmt.Errorf("twilio sms provider: create message: %w", err)
	}

	result := &Result{
		MessageID: stringValue(msg.Sid),
		Status:    stringValue(msg.Status),
		Cost:      SMSCost,
	}
	if result.Status == "" {
		result.Status = models.StatusSent
	}

	p.logger.Debug().
		Str("channel", models.ChannelSMS).
		Str("to", to).
		Str("provider_id", result.MessageID).
		Str("provider_status", result.Status).
		Msg("twilio sms accepted")

	return result, nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
