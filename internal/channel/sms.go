package channel

import (
	"context"
	"errors"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/glacialguard/alert-service/internal/models"
	smsprovider "github.com/glacialguard/alert-service/internal/providers/sms"
)

// SMSAdapter implements Adapter for the SMS channel.
type SMSAdapter struct {
	logger   zerolog.Logger
	provider smsprovider.Provider
}

// NewSMSAdapter constructs an SMS adapter using the supplied provider.
func NewSMSAdapter(provider smsprovider.Provider, logger zerolog.Logger) (*SMSAdapter, error) {
	if provider == nil {
		return nil, errors.New("sms adapter: provider dependency is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &SMSAdapter{logger: logger, provider: provider}, nil
}

// Name implements Adapter.
func (a *SMSAdapter) Name() string { return models.ChannelSMS }

// Deliver implements Adapter.
func (a *SMSAdapter) Deliver(ctx context.Context, recipient, message string) models.DeliveryOutcome {
	result, err := a.provider.Send(ctx, recipient, message)
	if err != nil {
		a.logger.Warn().
			Str("channel", models.ChannelSMS).
			Str("to", recipient).
			Err(err).
			Msg("sms delivery failed")
		return models.DeliveryOutcome{
			PhoneNumber: recipient,
			Success:     false,
			Status:      models.StatusFailed,
			Error:       err.Error(),
		}
	}

	return models.DeliveryOutcome{
		PhoneNumber: recipient,
		Success:     true,
		MessageID:   result.MessageID,
		Status:      result.Status,
		Cost:        result.Cost,
		Note:        result.Note,
	}
}
