// Package dispatch implements the alert fan-out orchestrator. One logical
// dispatch request expands into recipient × channel (× language for
// glacier-keyed alerts) delivery attempts, each recorded as an individual
// DeliveryOutcome. A failed attempt never aborts its siblings; only a
// validation failure or a directory miss rejects a request before any
// delivery is attempted.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/glacialguard/alert-service/internal/channel"
	"github.com/glacialguard/alert-service/internal/directory"
	"github.com/glacialguard/alert-service/internal/models"
	"github.com/glacialguard/alert-service/internal/status"
	"github.com/glacialguard/alert-service/internal/templates"
)

// Validation errors, surfaced before any delivery attempt.
var (
	ErrNoRecipients   = errors.New("dispatch: at least one recipient is required")
	ErrEmptyMessage   = errors.New("dispatch: message is required")
	ErrUnknownChannel = errors.New("dispatch: unknown channel")
)

// Default alert timings when the caller does not supply them.
const (
	DefaultFloodTimeMinutes      = 45
	DefaultEvacuationTimeMinutes = 30
)

// Option customises the dispatcher.
type Option func(*Dispatcher)

// WithConcurrency caps how many delivery attempts run at once. The
// default of 1 keeps attempts strictly sequential; higher caps change
// only wall-clock time, never the order of the outcome list.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = int64(n)
		}
	}
}

// WithStatusPublisher attaches a delivery status event publisher.
func WithStatusPublisher(pub status.Publisher) Option {
	return func(d *Dispatcher) {
		if pub != nil {
			d.statusPub = pub
		}
	}
}

// Dispatcher coordinates recipients, templates and channel adapters for
// one dispatch request at a time. Stateless between requests.
type Dispatcher struct {
	logger      zerolog.Logger
	sms         channel.Adapter
	whatsapp    channel.Adapter
	directory   directory.Directory
	renderer    *templates.Renderer
	statusPub   status.Publisher
	concurrency int64
}

// New constructs a Dispatcher. Both channel adapters, the directory and
// the renderer are required collaborators.
func New(sms, whatsapp channel.Adapter, dir directory.Directory, renderer *templates.Renderer, logger zerolog.Logger, opts ...Option) (*Dispatcher, error) {
	if sms == nil {
		return nil, errors.New("dispatcher: sms adapter is required")
	}
	if whatsapp == nil {
		return nil, errors.New("dispatcher: whatsapp adapter is required")
	}
	if dir == nil {
		return nil, errors.New("dispatcher: directory is required")
	}
	if renderer == nil {
		return nil, errors.New("dispatcher: renderer is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	d := &Dispatcher{
		logger:      logger,
		sms:         sms,
		whatsapp:    whatsapp,
		directory:   dir,
		renderer:    renderer,
		statusPub:   status.NewNop(),
		concurrency: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// GlacierAlert carries the parameters of a glacier-keyed multilingual
// dispatch.
type GlacierAlert struct {
	GlacierName           string
	RiskScore             float64
	FloodTimeMinutes      int
	EvacuationTimeMinutes int
}

// GlacierResult pairs the resolved directory entry with the per-channel
// outcomes of a multilingual dispatch.
type GlacierResult struct {
	Entry   *directory.Entry
	Results *models.ChannelResults
}

// DispatchSingle sends one pre-composed message to every recipient over a
// single channel, in recipient order.
func (d *Dispatcher) DispatchSingle(ctx context.Context, phoneNumbers []string, message, channelName string) ([]models.DeliveryOutcome, models.DispatchSummary, error) {
	if len(phoneNumbers) == 0 {
		return nil, models.DispatchSummary{}, ErrNoRecipients
	}
	if message == "" {
		return nil, models.DispatchSummary{}, ErrEmptyMessage
	}
	adapter, err := d.adapterFor(channelName)
	if err != nil {
		return nil, models.DispatchSummary{}, err
	}

	attempts := make([]attempt, 0, len(phoneNumbers))
	for _, phone := range phoneNumbers {
		attempts = append(attempts, attempt{adapter: adapter, recipient: phone, message: message})
	}

	outcomes := d.run(ctx, uuid.NewString(), "", attempts)
	return outcomes, summarize(outcomes), nil
}

// DispatchEmergency sends the composed emergency message to every
// recipient over every requested channel, grouping outcomes per channel.
// The channel loop runs outermost (sms before whatsapp), recipients
// innermost, matching the documented response ordering.
func (d *Dispatcher) DispatchEmergency(ctx context.Context, phoneNumbers []string, message string, channels []string) (*models.ChannelResults, error) {
	if len(phoneNumbers) == 0 {
		return nil, ErrNoRecipients
	}
	if message == "" {
		return nil, ErrEmptyMessage
	}
	adapters, err := d.adaptersFor(channels)
	if err != nil {
		return nil, err
	}

	attempts := make([]attempt, 0, len(adapters)*len(phoneNumbers))
	for _, adapter := range adapters {
		for _, phone := range phoneNumbers {
			attempts = append(attempts, attempt{adapter: adapter, recipient: phone, message: message})
		}
	}

	outcomes := d.run(ctx, uuid.NewString(), "", attempts)
	return partition(attempts, outcomes), nil
}

// DispatchGlacier resolves the glacier's contact entry and fans out one
// rendered message per supported language to every registered number over
// every requested channel: languages outermost, recipients in the middle,
// channels innermost. Every number receives every language; the directory
// models no per-recipient language preference.
//
// A directory miss rejects the whole request before any attempt is made.
func (d *Dispatcher) DispatchGlacier(ctx context.Context, alert GlacierAlert, channels []string) (*GlacierResult, error) {
	entry, err := d.directory.Lookup(alert.GlacierName)
	if err != nil {
		return nil, err
	}
	adapters, err := d.adaptersFor(channels)
	if err != nil {
		return nil, err
	}

	floodTime := alert.FloodTimeMinutes
	if floodTime <= 0 {
		floodTime = DefaultFloodTimeMinutes
	}
	evacTime := alert.EvacuationTimeMinutes
	if evacTime <= 0 {
		evacTime = DefaultEvacuationTimeMinutes
	}

	attempts := make([]attempt, 0, len(entry.Languages)*len(entry.PhoneNumbers)*len(adapters))
	for _, language := range entry.Languages {
		message := d.renderer.Render(language, templates.Params{
			GlacierName:           entry.GlacierName,
			Region:                entry.Region,
			SafeZone:              entry.SafeZone(),
			FloodTimeMinutes:      floodTime,
			EvacuationTimeMinutes: evacTime,
		})
		for _, phone := range entry.PhoneNumbers {
			for _, adapter := range adapters {
				attempts = append(attempts, attempt{
					adapter:   adapter,
					recipient: phone,
					message:   message,
					note:      fmt.Sprintf("Language: %s", language),
					language:  language,
				})
			}
		}
	}

	dispatchID := uuid.NewString()
	d.logger.Info().
		Str("dispatch_id", dispatchID).
		Str("glacier", entry.GlacierName).
		Float64("risk_score", alert.RiskScore).
		Int("attempts", len(attempts)).
		Msg("multilingual emergency dispatch started")

	outcomes := d.run(ctx, dispatchID, entry.GlacierName, attempts)
	return &GlacierResult{Entry: entry, Results: partition(attempts, outcomes)}, nil
}

// TestDispatch sends the system-check message to a single number over the
// named channel.
func (d *Dispatcher) TestDispatch(ctx context.Context, phoneNumber, channelName string) (models.DeliveryOutcome, error) {
	if phoneNumber == "" {
		return models.DeliveryOutcome{}, ErrNoRecipients
	}
	adapter, err := d.adapterFor(channelName)
	if err != nil {
		return models.DeliveryOutcome{}, err
	}

	message := fmt.Sprintf("🧪 TEST ALERT: GlacialGuard system operational. Time: %s", d.renderer.CurrentTime())
	outcomes := d.run(ctx, uuid.NewString(), "", []attempt{{adapter: adapter, recipient: phoneNumber, message: message}})
	return outcomes[0], nil
}

// ComposeEmergencyMessage builds the free-form emergency broadcast text
// used by the direct emergency endpoint.
func (d *Dispatcher) ComposeEmergencyMessage(message, lakeName, location string) string {
	return fmt.Sprintf("🚨 GLACIAL EMERGENCY 🚨\n%s\nLake: %s\nLocation: %s\nTime: %s\n\nEVACUATE IMMEDIATELY!",
		message, lakeName, location, d.renderer.CurrentTime())
}

func (d *Dispatcher) adapterFor(name string) (channel.Adapter, error) {
	switch name {
	case models.ChannelSMS, "":
		return d.sms, nil
	case models.ChannelWhatsApp:
		return d.whatsapp, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
	}
}

// adaptersFor resolves the requested channel subset, defaulting to both
// channels with sms first.
func (d *Dispatcher) adaptersFor(channels []string) ([]channel.Adapter, error) {
	if len(channels) == 0 {
		return []channel.Adapter{d.sms, d.whatsapp}, nil
	}

	var (
		wantSMS bool
		wantWA  bool
	)
	for _, name := range channels {
		switch name {
		case models.ChannelSMS:
			wantSMS = true
		case models.ChannelWhatsApp:
			wantWA = true
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
		}
	}

	out := make([]channel.Adapter, 0, 2)
	if wantSMS {
		out = append(out, d.sms)
	}
	if wantWA {
		out = append(out, d.whatsapp)
	}
	return out, nil
}

func summarize(outcomes []models.DeliveryOutcome) models.DispatchSummary {
	var s models.DispatchSummary
	for _, out := range outcomes {
		if out.Success {
			s.TotalSent++
		} else {
			s.TotalFailed++
		}
	}
	return s
}

// partition splits a flat outcome list into per-channel groups, keeping
// the original attempt order within each group.
func partition(attempts []attempt, outcomes []models.DeliveryOutcome) *models.ChannelResults {
	results := &models.ChannelResults{
		SMS:      []models.DeliveryOutcome{},
		WhatsApp: []models.DeliveryOutcome{},
	}
	for i, at := range attempts {
		switch at.adapter.Name() {
		case models.ChannelWhatsApp:
			results.WhatsApp = append(results.WhatsApp, outcomes[i])
		default:
			results.SMS = append(results.SMS, outcomes[i])
		}
	}
	results.Summary = summarize(outcomes)
	return results
}

func (d *Dispatcher) publishOutcome(ctx context.Context, dispatchID, glacierName string, at attempt, out models.DeliveryOutcome) {
	d.statusPub.PublishOutcome(ctx, models.StatusEvent{
		DispatchID:  dispatchID,
		Channel:     at.adapter.Name(),
		PhoneNumber: at.recipient,
		Language:    at.language,
		GlacierName: glacierName,
		Success:     out.Success,
		Status:      out.Status,
		MessageID:   out.MessageID,
		Error:       out.Error,
		Timestamp:   time.Now().UTC(),
	})
}
