package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures all runtime configuration for the alert service.
type Config struct {
	App       AppConfig
	Providers ProviderConfig
	Dispatch  DispatchConfig
	Kafka     KafkaConfig
	Reports   ReportsConfig
	RiskModel RiskModelConfig
	Uploads   UploadConfig
}

// AppConfig contains generic application level settings.
type AppConfig struct {
	Env           string
	Port          int
	LogLevel      string
	AllowedOrigin string
}

// TwilioConfig stores Twilio credentials for SMS delivery.
type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

// Configured reports whether live Twilio delivery can be attempted.
// Missing credentials select simulate mode rather than failing startup.
func (c TwilioConfig) Configured() bool {
	return strings.TrimSpace(c.AccountSID) != "" &&
		strings.TrimSpace(c.AuthToken) != "" &&
		strings.TrimSpace(c.PhoneNumber) != ""
}

// WhatsAppConfig stores Meta Cloud API credentials for WhatsApp delivery.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
}

// Configured reports whether live WhatsApp delivery can be attempted.
func (c WhatsAppConfig) Configured() bool {
	return strings.TrimSpace(c.AccessToken) != "" &&
		strings.TrimSpace(c.PhoneNumberID) != ""
}

// ProviderConfig wraps configuration for the external delivery providers.
type ProviderConfig struct {
	Twilio                 TwilioConfig
	WhatsApp               WhatsAppConfig
	ProviderTimeoutSeconds int
}

// Timeout returns the per-call provider timeout.
func (c ProviderConfig) Timeout() time.Duration {
	return time.Duration(c.ProviderTimeoutSeconds) * time.Second
}

// DispatchConfig controls the fan-out engine. Concurrency 1 reproduces a
// strictly sequential dispatch loop.
type DispatchConfig struct {
	Concurrency int
}

// KafkaConfig holds the optional status event stream settings. No brokers
// means status publishing is disabled.
type KafkaConfig struct {
	Brokers     []string
	StatusTopic string
}

// Enabled reports whether delivery status events should be published.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// ReportsConfig selects the community report storage backend.
type ReportsConfig struct {
	Backend  string
	RedisURL string
}

// RiskModelConfig points at the external risk prediction service.
type RiskModelConfig struct {
	URL string
}

// UploadConfig controls report image uploads.
type UploadConfig struct {
	Dir string
}

// Load reads environment variables, applies defaults, validates values
// and returns a populated Config instance.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ldr := &envLoader{}

	cfg := &Config{}
	cfg.App.Env = ldr.getString("APP_ENV", "development", false)
	cfg.App.Port = ldr.getInt("APP_PORT", 5000, false)
	cfg.App.LogLevel = ldr.getString("LOG_LEVEL", "info", false)
	cfg.App.AllowedOrigin = ldr.getString("ALLOWED_ORIGIN", "http://localhost:5173", false)

	cfg.Providers.Twilio.AccountSID = ldr.getString("TWILIO_ACCOUNT_SID", "", false)
	cfg.Providers.Twilio.AuthToken = ldr.getString("TWILIO_AUTH_TOKEN", "", false)
	cfg.Providers.Twilio.PhoneNumber = ldr.getString("TWILIO_PHONE_NUMBER", "", false)
	cfg.Providers.WhatsApp.AccessToken = ldr.getString("WHATSAPP_ACCESS_TOKEN", "", false)
	cfg.Providers.WhatsApp.PhoneNumberID = ldr.getString("WHATSAPP_PHONE_NUMBER_ID", "", false)
	cfg.Providers.ProviderTimeoutSeconds = ldr.getInt("PROVIDER_TIMEOUT_SECONDS", 30, false)

	cfg.Dispatch.Concurrency = ldr.getInt("DISPATCH_CONCURRENCY", 1, false)

	cfg.Kafka.Brokers = ldr.getStringSlice("KAFKA_BROKERS", false)
	cfg.Kafka.StatusTopic = ldr.getString("KAFKA_STATUS_TOPIC", "alerts.delivery-status", false)

	cfg.Reports.Backend = strings.ToLower(ldr.getString("REPORTS_BACKEND", "memory", false))
	cfg.Reports.RedisURL = ldr.getString("REDIS_URL", "", false)

	cfg.RiskModel.URL = ldr.getString("RISK_MODEL_URL", "", false)

	cfg.Uploads.Dir = ldr.getString("UPLOAD_DIR", "uploads", false)

	if cfg.Dispatch.Concurrency < 1 {
		ldr.addError("DISPATCH_CONCURRENCY must be at least 1")
	}
	if cfg.Providers.ProviderTimeoutSeconds < 1 {
		ldr.addError("PROVIDER_TIMEOUT_SECONDS must be at least 1")
	}
	switch cfg.Reports.Backend {
	case "memory":
	case "redis":
		if cfg.Reports.RedisURL == "" {
			ldr.addError("REDIS_URL is required when REPORTS_BACKEND is redis")
		}
	default:
		ldr.addError(fmt.Sprintf("REPORTS_BACKEND must be memory or redis, got %q", cfg.Reports.Backend))
	}

	if err := ldr.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type envLoader struct {
	errs []string
}

func (l *envLoader) validate() error {
	if len(l.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(l.errs, "; "))
}

func (l *envLoader) getString(key, def string, required bool) string {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		return val
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getInt(key string, def int, required bool) int {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			l.addError(fmt.Sprintf("%s must be a valid integer", key))
			return def
		}
		return i
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getStringSlice(key string, required bool) []string {
	raw := l.getString(key, "", required)
	if raw == "" {
		if required {
			return nil
		}
		return []string{}
	}
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if required && len(out) == 0 {
		l.addError(fmt.Sprintf("%s must contain at least one entry", key))
	}
	return out
}

func (l *envLoader) addError(err string) {
	l.errs = append(l.errs, err)
}
