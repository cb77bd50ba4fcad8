package directory_test

import (
	"errors"
	"testing"

	"github.com/glacialguard/alert-service/internal/directory"
)

func TestLookupKnownGlacier(t *testing.T) {
	dir := directory.NewStatic()

	entry, err := dir.Lookup("Gangotri")
	if err != nil {
		t.Fatalf("unexpected lookup error: %v", err)
	}
	if entry.Region != "Uttarakhand" {
		t.Fatalf("expected region Uttarakhand, got %s", entry.Region)
	}
	if len(entry.PhoneNumbers) != 2 {
		t.Fatalf("expected 2 phone numbers, got %d", len(entry.PhoneNumbers))
	}
	wantLangs := []string{"hindi", "garhwali", "kumaoni", "english"}
	if len(entry.Languages) != len(wantLangs) {
		t.Fatalf("expected %d languages, got %v", len(wantLangs), entry.Languages)
	}
	for i, lang := range wantLangs {
		if entry.Languages[i] != lang {
			t.Fatalf("expected language %s at position %d, got %s", lang, i, entry.Languages[i])
		}
	}
	if entry.SafeZone() != "Gangotri" {
		t.Fatalf("expected first evacuation zone as safe zone, got %s", entry.SafeZone())
	}
}

func TestLookupIsCaseSensitive(t *testing.T) {
	dir := directory.NewStatic()

	if _, err := dir.Lookup("gangotri"); !errors.Is(err, directory.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for lowercase name, got %v", err)
	}
}

func TestLookupUnknownGlacier(t *testing.T) {
	dir := directory.NewStatic()

	entry, err := dir.Lookup("Nonexistent Glacier")
	if !errors.Is(err, directory.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil entry on miss, got %+v", entry)
	}
}

func TestEveryMonitoredGlacierResolves(t *testing.T) {
	dir := directory.NewStatic()

	glaciers := []string{
		"Bara Shigri", "Baspa", "Chandra", "Durung-Drung", "Gangotri",
		"Khumbu", "Rongbuk", "Siachen", "Thajwas", "Yamunotri",
	}
	for _, name := range glaciers {
		entry, err := dir.Lookup(name)
		if err != nil {
			t.Fatalf("glacier %q not resolvable: %v", name, err)
		}
		if len(entry.PhoneNumbers) == 0 || len(entry.Languages) == 0 {
			t.Fatalf("glacier %q has incomplete contact data: %+v", name, entry)
		}
	}
}
