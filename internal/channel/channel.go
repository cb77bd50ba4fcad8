// Package channel wraps the delivery providers behind a uniform adapter
// contract. Adapters never propagate provider failures as errors: every
// attempt, successful or not, is converted into a DeliveryOutcome at this
// boundary so one failed recipient can never abort a dispatch.
package channel

import (
	"context"

	"github.com/glacialguard/alert-service/internal/models"
)

// Adapter is the single-operation delivery contract for one channel.
type Adapter interface {
	// Name returns the channel identifier (models.ChannelSMS or
	// models.ChannelWhatsApp).
	Name() string
	// Deliver makes exactly one best-effort delivery attempt. The returned
	// outcome records success or failure; it never panics and the adapter
	// never returns an error.
	Deliver(ctx context.Context, recipient, message string) models.DeliveryOutcome
}
