package models

import "time"

// Channel identifiers for the two supported delivery channels.
const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
)

// Delivery status vocabulary. An outcome always carries exactly one of
// these; "simulated" counts as a success for aggregation purposes.
const (
	StatusSent      = "sent"
	StatusSimulated = "simulated"
	StatusFailed    = "failed"
)

// Priority levels accepted on alert requests.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// DeliveryOutcome is the result of a single delivery attempt to one
// recipient over one channel. It is created once per attempt and never
// mutated afterwards.
type DeliveryOutcome struct {
	PhoneNumber string `json:"phoneNumber"`
	Success     bool   `json:"success"`
	MessageID   string `json:"messageId,omitempty"`
	Status      string `json:"status"`
	Cost        string `json:"cost,omitempty"`
	Error       string `json:"error,omitempty"`
	Note        string `json:"note,omitempty"`
}

// DispatchSummary aggregates every outcome produced for one request.
// TotalSent + TotalFailed always equals the number of attempts made.
type DispatchSummary struct {
	TotalSent   int `json:"totalSent"`
	TotalFailed int `json:"totalFailed"`
}

// ChannelResults groups per-channel outcomes alongside the aggregate
// summary, matching the wire shape of the emergency endpoints.
type ChannelResults struct {
	SMS      []DeliveryOutcome `json:"sms"`
	WhatsApp []DeliveryOutcome `json:"whatsapp"`
	Summary  DispatchSummary   `json:"summary"`
}

// StatusEvent describes one delivery attempt for the optional status
// event stream. Best-effort observability only; publishing failures never
// affect dispatch results.
type StatusEvent struct {
	DispatchID  string    `json:"dispatch_id"`
	Channel     string    `json:"channel"`
	PhoneNumber string    `json:"phone_number"`
	Language    string    `json:"language,omitempty"`
	GlacierName string    `json:"glacier_name,omitempty"`
	Success     bool      `json:"success"`
	Status      string    `json:"status"`
	MessageID   string    `json:"message_id,omitempty"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
