// Package factory selects live or simulated providers once at startup,
// based on which credentials are configured. Absence of credentials is not
// an error: it switches the channel into simulate mode so the rest of the
// system can be exercised without live accounts.
package factory

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/glacialguard/alert-service/internal/config"
	smsprovider "github.com/glacialguard/alert-service/internal/providers/sms"
	waprovider "github.com/glacialguard/alert-service/internal/providers/whatsapp"
)

// SMS constructs the SMS provider: Twilio when credentials are present,
// otherwise the simulated provider.
func SMS(cfg config.ProviderConfig, timeout time.Duration, logger zerolog.Logger) (smsprovider.Provider, error) {
	if cfg.Twilio.Configured() {
		provider, err := smsprovider.NewTwilioProvider(cfg.Twilio, timeout, logger)
		if err != nil {
			return nil, fmt.Errorf("factory: twilio sms provider init: %w", err)
		}
		logger.Info().
			Str("backend", "twilio").
			Msg("sms provider initialised")
		return provider, nil
	}

	logger.Warn().
		Str("backend", "simulated").
		Msg("twilio credentials missing - sms will be simulated")
	return smsprovider.NewSimulatedProvider(logger), nil
}

// WhatsApp constructs the WhatsApp provider: Meta Cloud API when
// credentials are present, otherwise the simulated provider.
func WhatsApp(cfg config.ProviderConfig, timeout time.Duration, logger zerolog.Logger) (waprovider.Provider, error) {
	if cfg.WhatsApp.Configured() {
		provider, err := waprovider.NewCloudProvider(cfg.WhatsApp, timeout, logger)
		if err != nil {
			return nil, fmt.Errorf("factory: whatsapp cloud provider init: %w", err)
		}
		logger.Info().
			Str("backend", "cloud-api").
			Msg("whatsapp provider initialised")
		return provider, nil
	}

	logger.Warn().
		Str("backend", "simulated").
		Msg("whatsapp credentials missing - whatsapp will be simulated")
	return waprovider.NewSimulatedProvider(logger), nil
}
