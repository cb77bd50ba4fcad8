// Package directory holds the static glacier contact directory used to
// resolve recipients for glacier-keyed alert dispatches.
package directory

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a glacier name has no directory entry. A
// lookup miss is terminal for a glacier-keyed dispatch: the whole request
// is rejected before any delivery attempt.
var ErrNotFound = errors.New("glacier not found in directory")

// Entry describes the contacts registered for one glacier. Entries are
// immutable after construction; slices must not be modified by callers.
type Entry struct {
	GlacierName     string   `json:"glacierName"`
	Region          string   `json:"region"`
	PhoneNumbers    []string `json:"phoneNumbers"`
	Languages       []string `json:"languages"`
	EvacuationZones []string `json:"evacuationZones"`
}

// SafeZone returns the primary evacuation zone for alert messages.
func (e *Entry) SafeZone() string {
	if len(e.EvacuationZones) == 0 {
		return ""
	}
	return e.EvacuationZones[0]
}

// Directory resolves glacier names to contact entries.
type Directory interface {
	// Lookup performs an exact, case-sensitive match on the glacier name.
	Lookup(glacierName string) (*Entry, error)
}

// Static is the in-process Directory backed by a fixed table, loaded once
// at construction and never mutated.
type Static struct {
	entries map[string]*Entry
}

// NewStatic builds a directory from the built-in glacier table.
func NewStatic() *Static {
	return NewStaticWithEntries(glacierContacts)
}

// NewStaticWithEntries builds a directory from the supplied entries,
// keyed by glacier name. Used by tests to supply small fixtures.
func NewStaticWithEntries(entries []Entry) *Static {
	m := make(map[string]*Entry, len(entries))
	for i := range entries {
		e := entries[i]
		m[e.GlacierName] = &e
	}
	return &Static{entries: m}
}

// Lookup implements Directory.
func (s *Static) Lookup(glacierName string) (*Entry, error) {
	entry, ok := s.entries[glacierName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, glacierName)
	}
	return entry, nil
}

var glacierContacts = []Entry{
	{
		GlacierName:     "Bara Shigri",
		Region:          "Himachal Pradesh",
		PhoneNumbers:    []string{"+918767936699", "+917218147401"},
		Languages:       []string{"hindi", "english"},
		EvacuationZones: []string{"Keylong", "Manali"},
	},
	{
		GlacierName:     "Baspa",
		Region:          "Himachal Pradesh",
		PhoneNumbers:    []string{"+918767936699", "+917218147401"},
		Languages:       []string{"hindi", "english"},
		EvacuationZones: []string{"Chitkul", "Sangla"},
	},
	{
		GlacierName:     "Chandra",
		Region:          "Himachal Pradesh",
		PhoneNumbers:    []string{"+918767936699", "+917218147401"},
		Languages:       []string{"hindi", "english"},
		EvacuationZones: []string{"Batal", "Chatru"},
	},
	{
		GlacierName:     "Durung-Drung",
		Region:          "Ladakh",
		PhoneNumbers:    []string{"+918767936699", "+917218147401"},
		Languages:       []string{"hindi", "english"},
		EvacuationZones: []string{"Padum", "Zangla"},
	},
	{
		GlacierName:     "Gangotri",
		Region:          "Uttarakhand",
		PhoneNumbers:    []string{"+918767936699", "+917218147401"},
		Languages:       []string{"hindi", "garhwali", "kumaoni", "english"},
		EvacuationZones: []string{"Gangotri", "Uttarkashi"},
	},
	{
		GlacierName:     "Khumbu",
		Region:          "Nepal",
		PhoneNumbers:    []string{"+918767936699", "+917218147401"},
		Languages:       []string{"nepali", "english"},
		EvacuationZones: []string{"Namche Bazaar", "Lukla"},
	},
	{
		GlacierName:     "Rongbuk",
		Region:          "Tibet",
		PhoneNumbers:    []string{"+918767936699", "+917218147401"},
		Languages:       []string{"tibetan", "english"},
		EvacuationZones: []string{"Rongbuk Monastery", "Base Camp"},
	},
	{
		GlacierName:     "Siachen",
		Region:          "Kashmir",
		PhoneNumbers:    []string{"+918767936699", "+917218147401"},
		Languages:       []string{"urdu", "hindi", "english"},
		EvacuationZones: []string{"Nubra Valley", "Diskit"},
	},
	{
		GlacierName:     "Thajwas",
		Region:          "Kashmir",
		PhoneNumbers:    []string{"+918767936699", "+917218147401"},
		Languages:       []string{"urdu", "hindi", "english"},
		EvacuationZones: []string{"Sonamarg", "Gund"},
	},
	{
		GlacierName:     "Yamunotri",
		Region:          "Uttarakhand",
		PhoneNumbers:    []string{"+918767936699", "+917218147401"},
		Languages:       []string{"hindi", "garhwali", "kumaoni", "english"},
		EvacuationZones: []string{"Yamunotri", "Hanuman Chatti"},
	},
}
