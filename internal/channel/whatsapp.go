package channel

import (
	"context"
	"errors"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/glacialguard/alert-service/internal/models"
	waprovider "github.com/glacialguard/alert-service/internal/providers/whatsapp"
)

// WhatsAppAdapter implements Adapter for the WhatsApp channel.
type WhatsAppAdapter struct {
	logger   zerolog.Logger
	provider waprovider.Provider
}

// NewWhatsAppAdapter constructs a WhatsApp adapter using the supplied provider.
func NewWhatsAppAdapter(provider waprovider.Provider, logger zerolog.Logger) (*WhatsAppAdapter, error) {
	if provider == nil {
		return nil, errors.New("whatsapp adapter: provider dependency is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &WhatsAppAdapter{logger: logger, provider: provider}, nil
}

// Name implements Adapter.
func (a *WhatsAppAdapter) Name() string { return models.ChannelWhatsApp }

// Deliver implements Adapter.
func (a *WhatsAppAdapter) Deliver(ctx context.Context, recipient, message string) models.DeliveryOutcome {
	result, err := a.provider.Send(ctx, recipient, message)
	if err != nil {
		a.logger.Warn().
			Str("channel", models.ChannelWhatsApp).
			Str("to", recipient).
			Err(err).
			Msg("whatsapp delivery failed")
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
		Note:        result.Note,
	}
}
