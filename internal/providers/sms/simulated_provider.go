package sms

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"

	"github.com/glacialguard/alert-service/internal/models"
)

const simulatedNote = "Simulated - configure Twilio for real SMS"

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

// SimulatedProvider is the SMS provider used when Twilio credentials are
// absent. It deterministically succeeds without network I/O, so a success
// outcome is not proof of real-world delivery.
type SimulatedProvider struct {
	logger zerolog.Logger
	now    func() time.Time
}

// NewSimulatedProvider constructs a simulated SMS provider.
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
		return nil, errors.New("sms simulated: recipient is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	p.logger.Info().
		Str("channel", models.ChannelSMS).
		Str("to", to).
		Str("preview", preview(body)).
		Msg("simulated sms delivery")

	return &Result{
		MessageID: fmt.Sprintf("sim_%d", p.now().UnixMilli()),
		Status:    models.StatusSimulated,
		Cost:      SMSCost,
		Note:      simulatedNote,
	}, nil
}

func preview(body string) string {
	const limit = 50
	runes := []rune(body)
	if len(runes) <= limit {
		return body
	}
	return string(runes[:limit]) + "..."
}
