package config_test

import (
	"strings"
	"testing"

	"github.com/glacialguard/alert-service/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	if cfg.App.Port != 5000 {
		t.Fatalf("expected default port 5000, got %d", cfg.App.Port)
	}
	if cfg.Dispatch.Concurrency != 1 {
		t.Fatalf("expected sequential dispatch by default, got concurrency %d", cfg.Dispatch.Concurrency)
	}
	if cfg.Reports.Backend != "memory" {
		t.Fatalf("expected memory reports backend, got %s", cfg.Reports.Backend)
	}
	if cfg.Providers.Twilio.Configured() {
		t.Fatal("twilio must not be configured without credentials")
	}
	if cfg.Kafka.Enabled() {
		t.Fatal("kafka must be disabled without brokers")
	}
}

func TestLoadProviderCredentials(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")
	t.Setenv("TWILIO_PHONE_NUMBER", "+1234567890")
	t.Setenv("WHATSAPP_ACCESS_TOKEN", "wa-token")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "98765")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if !cfg.Providers.Twilio.Configured() {
		t.Fatal("expected twilio to be configured")
	}
	if !cfg.Providers.WhatsApp.Configured() {
		t.Fatal("expected whatsapp to be configured")
	}
}

func TestLoadPartialTwilioCredentialsStaySimulated(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if cfg.Providers.Twilio.Configured() {
		t.Fatal("partial credentials must not enable live delivery")
	}
}

func TestLoadRejectsRedisBackendWithoutURL(t *testing.T) {
	t.Setenv("REPORTS_BACKEND", "redis")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected validation error for redis backend without REDIS_URL")
	} else if !strings.Contains(err.Error(), "REDIS_URL") {
		t.Fatalf("expected REDIS_URL in error, got %v", err)
	}
}

func TestLoadRejectsInvalidConcurrency(t *testing.T) {
	t.Setenv("DISPATCH_CONCURRENCY", "0")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected validation error for zero concurrency")
	}
}

func TestLoadKafkaBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if !cfg.Kafka.Enabled() {
		t.Fatal("expected kafka to be enabled with brokers set")
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Fatalf("expected 2 brokers, got %v", cfg.Kafka.Brokers)
	}
}
