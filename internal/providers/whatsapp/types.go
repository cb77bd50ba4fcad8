package whatsapp

import "context"

// Result describes a completed provider send.
type Result struct {
	MessageID string
	Status    string
	Note      string
}

// Provider represents an outbound WhatsApp provider. Exactly one attempt
// per call; no retry or backoff at this layer.
type Provider interface {
	Send(ctx context.Context, to, body string) (*Result, error)
}
