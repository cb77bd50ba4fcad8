package dispatch

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/glacialguard/alert-service/internal/channel"
	"github.com/glacialguard/alert-service/internal/models"
)

// attempt is one recipient/channel/language delivery unit.
type attempt struct {
	adapter   channel.Adapter
	recipient string
	message   string
	note      string
	language  string
}

// run executes every attempt and returns the outcomes in attempt order.
// Outcome slots are preallocated and addressed by index, so the returned
// order is identical to sequential iteration regardless of the
// concurrency cap.
//
// Delivery is detached from the caller's cancellation: once a dispatch is
// accepted, a client disconnect must not stop the in-flight loop. Every
// combination is always attempted; providers bound their own call time
// with the configured per-call timeout.
func (d *Dispatcher) run(ctx context.Context, dispatchID, glacierName string, attempts []attempt) []models.DeliveryOutcome {
	ctx = context.WithoutCancel(ctx)
	outcomes := make([]models.DeliveryOutcome, len(attempts))

	sem := semaphore.NewWeighted(d.concurrency)
	var wg sync.WaitGroup

	for i, at := range attempts {
		// Acquire cannot fail here: the detached context is never done.
		if err := sem.Acquire(ctx, 1); err != nil {
			outcomes[i] = models.DeliveryOutcome{
				PhoneNumber: at.recipient,
				Success:     false,
				Status:      models.StatusFailed,
				Error:       err.Error(),
				Note:        at.note,
			}
			d.publishOutcome(ctx, dispatchID, glacierName, at, outcomes[i])
			continue
		}

		wg.Add(1)
		go func(i int, at attempt) {
			defer wg.Done()
			defer sem.Release(1)

			out := at.adapter.Deliver(ctx, at.recipient, at.message)
			if at.note != "" {
				out.Note = at.note
			}
			outcomes[i] = out
			d.publishOutcome(ctx, dispatchID, glacierName, at, out)
		}(i, at)
	}

	wg.Wait()
	return outcomes
}
