package sms

import "context"

// SMSCost is the flat per-message cost estimate attached to outcomes.
const SMSCost = "₹0.50"

// Result describes a completed provider send.
type Result struct {
	MessageID string
	Status    string
	Cost      string
	Note      string
}

// Provider represents an outbound SMS provider. Exactly one attempt per
// call; no retry or backoff at this layer.
type Provider interface {
	Send(ctx context.Context, to, body string) (*Result, error)
}
