package models

import "time"

// Community report statuses.
const (
	ReportStatusPending  = "pending"
	ReportStatusVerified = "verified"
	ReportStatusRejected = "rejected"
)

// Missing-person report statuses and search states.
const (
	MissingStatusSearching = "searching"
	MissingStatusFound     = "found"

	SearchStatusActive   = "active"
	SearchStatusResolved = "resolved"
)

// ReportImage references an uploaded photo attached to a report.
type ReportImage struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	URL          string `json:"url"`
	Caption      string `json:"caption,omitempty"`
}

// CommunityReport is a citizen observation submitted from the field
// (unusual water levels, cracks, landslides and the like).
type CommunityReport struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	Category    string        `json:"category"`
	Village     string        `json:"village"`
	Location    string        `json:"location"`
	Description string        `json:"description"`
	Images      []ReportImage `json:"images"`
	Villager    string        `json:"villager"`
	Timestamp   time.Time     `json:"timestamp"`
	Verified    bool          `json:"verified"`
	Upvotes     int           `json:"upvotes"`
	Status      string        `json:"status"`
	Priority    string        `json:"priority"`
	AdminNotes  string        `json:"adminNotes"`
}

// MissingPersonReport tracks a person reported missing during or after a
// flood event.
type MissingPersonReport struct {
	ID           string        `json:"id"`
	PersonName   string        `json:"personName"`
	Age          int           `json:"age"`
	LastSeen     string        `json:"lastSeen"`
	Description  string        `json:"description"`
	ContactInfo  string        `json:"contactInfo"`
	Urgency      string        `json:"urgency"`
	Images       []ReportImage `json:"images"`
	Reporter     string        `json:"reporter"`
	Village      string        `json:"village"`
	Timestamp    time.Time     `json:"timestamp"`
	Status       string        `json:"status"`
	Location     [2]float64    `json:"location"`
	AdminNotes   string        `json:"adminNotes"`
	SearchStatus string        `json:"searchStatus"`
}
