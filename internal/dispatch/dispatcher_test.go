package dispatch_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/glacialguard/alert-service/internal/channel"
	"github.com/glacialguard/alert-service/internal/directory"
	"github.com/glacialguard/alert-service/internal/dispatch"
	"github.com/glacialguard/alert-service/internal/models"
	"github.com/glacialguard/alert-service/internal/providers/sms"
	"github.com/glacialguard/alert-service/internal/providers/whatsapp"
	"github.com/glacialguard/alert-service/internal/templates"
)

// stubAdapter records delivery calls and optionally fails them.
type stubAdapter struct {
	name string
	fail bool

	mu    sync.Mutex
	calls []string
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Deliver(_ context.Context, recipient, message string) models.DeliveryOutcome {
	s.mu.Lock()
	s.calls = append(s.calls, recipient)
	s.mu.Unlock()

	if s.fail {
		return models.DeliveryOutcome{
			PhoneNumber: recipient,
			Success:     false,
			Status:      models.StatusFailed,
			Error:       "provider unavailable",
		}
	}
	return models.DeliveryOutcome{
		PhoneNumber: recipient,
		Success:     true,
		MessageID:   fmt.Sprintf("%s-%d", s.name, len(s.calls)),
		Status:      models.StatusSimulated,
	}
}

func (s *stubAdapter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestDispatcher(t *testing.T, sms, wa channel.Adapter, opts ...dispatch.Option) *dispatch.Dispatcher {
	t.Helper()
	renderer := templates.NewRenderer(templates.WithClock(func() time.Time {
		return time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	}))
	d, err := dispatch.New(sms, wa, directory.NewStatic(), renderer, zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	return d
}

func TestDispatchSingleOneOutcomePerRecipient(t *testing.T) {
	sms := &stubAdapter{name: models.ChannelSMS}
	wa := &stubAdapter{name: models.ChannelWhatsApp}
	d := newTestDispatcher(t, sms, wa)

	outcomes, summary, err := d.DispatchSingle(context.Background(), []string{"+15551234567"}, "test", models.ChannelSMS)
	if err != nil {
		t.Fatalf("unexpected dispatch error: %v", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if !outcomes[0].Success {
		t.Fatalf("expected success, got %+v", outcomes[0])
	}
	if summary.TotalSent != 1 || summary.TotalFailed != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if wa.callCount() != 0 {
		t.Fatalf("whatsapp adapter must not be invoked for an sms dispatch")
	}
}

func TestDispatchSingleRejectsEmptyRecipients(t *testing.T) {
	d := newTestDispatcher(t, &stubAdapter{name: models.ChannelSMS}, &stubAdapter{name: models.ChannelWhatsApp})

	if _, _, err := d.DispatchSingle(context.Background(), nil, "test", models.ChannelSMS); !errors.Is(err, dispatch.ErrNoRecipients) {
		t.Fatalf("expected ErrNoRecipients, got %v", err)
	}
}

func TestDispatchSingleRejectsUnknownChannel(t *testing.T) {
	d := newTestDispatcher(t, &stubAdapter{name: models.ChannelSMS}, &stubAdapter{name: models.ChannelWhatsApp})

	_, _, err := d.DispatchSingle(context.Background(), []string{"+15551234567"}, "test", "carrier-pigeon")
	if !errors.Is(err, dispatch.ErrUnknownChannel) {
		t.Fatalf("expected ErrUnknownChannel, got %v", err)
	}
}

func TestDispatchEmergencyChannelGrouping(t *testing.T) {
	sms := &stubAdapter{name: models.ChannelSMS}
	wa := &stubAdapter{name: models.ChannelWhatsApp}
	d := newTestDispatcher(t, sms, wa)

	phones := []string{"+911111111111", "+922222222222"}
	results, err := d.DispatchEmergency(context.Background(), phones, "evacuate now", nil)
	if err != nil {
		t.Fatalf("unexpected dispatch error: %v", err)
	}
	if len(results.SMS) != 2 || len(results.WhatsApp) != 2 {
		t.Fatalf("expected 2 outcomes per channel, got sms=%d whatsapp=%d", len(results.SMS), len(results.WhatsApp))
	}
	if results.Summary.TotalSent != 4 || results.Summary.TotalFailed != 0 {
		t.Fatalf("unexpected summary %+v", results.Summary)
	}
	for i, phone := range phones {
		if results.SMS[i].PhoneNumber != phone {
			t.Fatalf("sms outcome %d: expected %s, got %s", i, phone, results.SMS[i].PhoneNumber)
		}
	}
}

func TestDispatchEmergencyFailureDoesNotAbortSiblings(t *testing.T) {
	sms := &stubAdapter{name: models.ChannelSMS, fail: true}
	wa := &stubAdapter{name: models.ChannelWhatsApp}
	d := newTestDispatcher(t, sms, wa)

	phones := []string{"+911111111111", "+922222222222", "+933333333333"}
	results, err := d.DispatchEmergency(context.Background(), phones, "evacuate now", nil)
	if err != nil {
		t.Fatalf("unexpected dispatch error: %v", err)
	}
	if results.Summary.TotalFailed != 3 || results.Summary.TotalSent != 3 {
		t.Fatalf("expected 3 failed and 3 sent, got %+v", results.Summary)
	}
	if sms.callCount() != 3 || wa.callCount() != 3 {
		t.Fatalf("every combination must be attempted, got sms=%d whatsapp=%d", sms.callCount(), wa.callCount())
	}
}

func TestDispatchGlacierFanOutCount(t *testing.T) {
	sms := &stubAdapter{name: models.ChannelSMS}
	wa := &stubAdapter{name: models.ChannelWhatsApp}
	d := newTestDispatcher(t, sms, wa)

	// Gangotri: 2 phone numbers x 4 languages x 2 channels = 16 attempts.
	result, err := d.DispatchGlacier(context.Background(), dispatch.GlacierAlert{
		GlacierName: "Gangotri",
		RiskScore:   0.93,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected dispatch error: %v", err)
	}

	if got := result.Results.Summary.TotalSent; got != 16 {
		t.Fatalf("expected 16 sent, got %d", got)
	}
	if got := result.Results.Summary.TotalFailed; got != 0 {
		t.Fatalf("expected 0 failed, got %d", got)
	}
	if len(result.Results.SMS) != 8 || len(result.Results.WhatsApp) != 8 {
		t.Fatalf("expected 8 outcomes per channel, got sms=%d whatsapp=%d", len(result.Results.SMS), len(result.Results.WhatsApp))
	}
	if result.Entry.Region != "Uttarakhand" {
		t.Fatalf("expected resolved entry, got %+v", result.Entry)
	}
}

func TestDispatchGlacierLanguageOrderAndNotes(t *testing.T) {
	sms := &stubAdapter{name: models.ChannelSMS}
	wa := &stubAdapter{name: models.ChannelWhatsApp}
	d := newTestDispatcher(t, sms, wa)

	result, err := d.DispatchGlacier(context.Background(), dispatch.GlacierAlert{GlacierName: "Gangotri"}, nil)
	if err != nil {
		t.Fatalf("unexpected dispatch error: %v", err)
	}

	// Language outer loop, recipients middle: the first two sms outcomes
	// belong to hindi, the last two to english.
	wantLangs := []string{"hindi", "hindi", "garhwali", "garhwali", "kumaoni", "kumaoni", "english", "english"}
	for i, out := range result.Results.SMS {
		want := fmt.Sprintf("Language: %s", wantLangs[i])
		if out.Note != want {
			t.Fatalf("sms outcome %d: expected note %q, got %q", i, want, out.Note)
		}
	}
}

func TestDispatchGlacierUnknownGlacierNoSideEffects(t *testing.T) {
	sms := &stubAdapter{name: models.ChannelSMS}
	wa := &stubAdapter{name: models.ChannelWhatsApp}
	d := newTestDispatcher(t, sms, wa)

	_, err := d.DispatchGlacier(context.Background(), dispatch.GlacierAlert{GlacierName: "Nonexistent Glacier"}, nil)
	if !errors.Is(err, directory.ErrNotFound) {
		t.Fatalf("expected directory.ErrNotFound, got %v", err)
	}
	if sms.callCount() != 0 || wa.callCount() != 0 {
		t.Fatalf("no adapter may be invoked on a directory miss, got sms=%d whatsapp=%d", sms.callCount(), wa.callCount())
	}
}

func TestDispatchGlacierDefaultTimings(t *testing.T) {
	sms := &recordingAdapter{name: models.ChannelSMS}
	wa := &stubAdapter{name: models.ChannelWhatsApp}
	d := newTestDispatcher(t, sms, wa)

	if _, err := d.DispatchGlacier(context.Background(), dispatch.GlacierAlert{GlacierName: "Khumbu"}, []string{models.ChannelSMS}); err != nil {
		t.Fatalf("unexpected dispatch error: %v", err)
	}
	if len(sms.messages) == 0 {
		t.Fatal("expected at least one rendered message")
	}
	if !strings.Contains(sms.messages[len(sms.messages)-1], "45 minutes") {
		t.Fatalf("expected default flood time of 45 minutes in message:\n%s", sms.messages[len(sms.messages)-1])
	}
}

func TestDispatchContinuesAfterCallerDisconnect(t *testing.T) {
	// Real simulated providers: both the engine and the provider layer
	// must ignore the caller's cancellation.
	smsAdapter, err := channel.NewSMSAdapter(sms.NewSimulatedProvider(zerolog.Nop()), zerolog.Nop())
	if err != nil {
		t.Fatalf("sms adapter: %v", err)
	}
	waAdapter, err := channel.NewWhatsAppAdapter(whatsapp.NewSimulatedProvider(zerolog.Nop()), zerolog.Nop())
	if err != nil {
		t.Fatalf("whatsapp adapter: %v", err)
	}
	d := newTestDispatcher(t, smsAdapter, waAdapter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, summary, err := d.DispatchSingle(ctx, []string{"+911111111111", "+922222222222"}, "evacuate now", models.ChannelSMS)
	if err != nil {
		t.Fatalf("unexpected dispatch error: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if summary.TotalSent != 2 || summary.TotalFailed != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	for i, out := range outcomes {
		if !out.Success || out.Status != models.StatusSimulated {
			t.Fatalf("outcome %d must reflect a real attempt, got %+v", i, out)
		}
	}
}

func TestDispatchGlacierCompletesAfterCallerDisconnect(t *testing.T) {
	sms := &stubAdapter{name: models.ChannelSMS}
	wa := &stubAdapter{name: models.ChannelWhatsApp}
	d := newTestDispatcher(t, sms, wa, dispatch.WithConcurrency(4))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := d.DispatchGlacier(ctx, dispatch.GlacierAlert{GlacierName: "Gangotri"}, nil)
	if err != nil {
		t.Fatalf("unexpected dispatch error: %v", err)
	}
	if result.Results.Summary.TotalSent != 16 || result.Results.Summary.TotalFailed != 0 {
		t.Fatalf("all 16 combinations must be attempted, got %+v", result.Results.Summary)
	}
}

func TestDispatchOrderStableUnderConcurrency(t *testing.T) {
	sms := &stubAdapter{name: models.ChannelSMS}
	wa := &stubAdapter{name: models.ChannelWhatsApp}
	d := newTestDispatcher(t, sms, wa, dispatch.WithConcurrency(8))

	phones := []string{"+911111111111", "+922222222222", "+933333333333", "+944444444444"}
	results, err := d.DispatchEmergency(context.Background(), phones, "evacuate now", nil)
	if err != nil {
		t.Fatalf("unexpected dispatch error: %v", err)
	}
	for i, phone := range phones {
		if results.SMS[i].PhoneNumber != phone {
			t.Fatalf("outcome order must match attempt order at index %d: expected %s, got %s", i, phone, results.SMS[i].PhoneNumber)
		}
		if results.WhatsApp[i].PhoneNumber != phone {
			t.Fatalf("whatsapp outcome order must match attempt order at index %d", i)
		}
	}
}

func TestTestDispatchUsesRequestedChannel(t *testing.T) {
	sms := &stubAdapter{name: models.ChannelSMS}
	wa := &stubAdapter{name: models.ChannelWhatsApp}
	d := newTestDispatcher(t, sms, wa)

	out, err := d.TestDispatch(context.Background(), "+15551234567", models.ChannelWhatsApp)
	if err != nil {
		t.Fatalf("unexpected dispatch error: %v", err)
	}
	if !out.Success {
		t.Fatalf("expected success, got %+v", out)
	}
	if sms.callCount() != 0 || wa.callCount() != 1 {
		t.Fatalf("expected whatsapp-only delivery, got sms=%d whatsapp=%d", sms.callCount(), wa.callCount())
	}
}

// recordingAdapter keeps the full message bodies it was asked to deliver.
type recordingAdapter struct {
	name string

	mu       sync.Mutex
	messages []string
}

func (r *recordingAdapter) Name() string { return r.name }

func (r *recordingAdapter) Deliver(_ context.Context, recipient, message string) models.DeliveryOutcome {
	r.mu.Lock()
	r.messages = append(r.messages, message)
	r.mu.Unlock()
	return models.DeliveryOutcome{PhoneNumber: recipient, Success: true, Status: models.StatusSimulated}
}
