package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"

	"github.com/glacialguard/alert-service/internal/models"
)

const simulatedNote = "Simulated - configure WhatsApp Business API for real messages"

// SimulatedOption customises the simulated provider.
type SimulatedOption func(*SimulatedProvider)

// WithClock overrides the clock used to mint simulated message ids.
func WithClock(now func() time.Time) SimulatedOption {
	return func(p *SimulatedProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// SimulatedProvider is the WhatsApp provider used when Cloud API
// credentials are absent. Deterministic success, no network I/O.
type SimulatedProvider struct {
	logger zerolog.Logger
	now    func() time.Time
}

// NewSimulatedProvider constructs a simulated WhatsApp provider.
func NewSimulatedProvider(logger zerolog.Logger, opts ...SimulatedOption) *SimulatedProvider {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	p := &SimulatedProvider{
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Send pretends to deliver the message and reports a simulated success.
func (p *SimulatedProvider) Send(ctx context.Context, to, body string) (*Result, error) {
	if to == "" {
		return nil, errors.New("whatsapp simulated: recipient is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	p.logger.Info().
		Str("channel", models.ChannelWhatsApp).
		Str("to", to).
		Msg("simulated whatsapp delivery")

	return &Result{
		MessageID: fmt.Sprintf("wp_sim_%d", p.now().UnixMilli()),
		Status:    models.StatusSimulated,
		Note:      simulatedNote,
	}, nil
}
