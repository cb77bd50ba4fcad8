package util

import (
	"errors"
	"testing"
)

func TestNormalizeE164(t *testing.T) {
	normalized, err := NormalizeE164("  +918767936699 ")
	if err != nil {
		t.Fatalf("expected success for valid number: %v", err)
	}
	if normalized != "+918767936699" {
		t.Fatalf("expected trimmed number, got %q", normalized)
	}

	for _, bad := range []string{"", "8767936699", "+0918767936699", "+91 87679 36699"} {
		if _, err := NormalizeE164(bad); !errors.Is(err, ErrInvalidPhone) {
			t.Fatalf("expected ErrInvalidPhone for %q, got %v", bad, err)
		}
	}
}

func TestNormalizeE164List(t *testing.T) {
	result, err := NormalizeE164List([]string{"+918767936699", "+917218147401"}, 1, 0)
	if err != nil {
		t.Fatalf("expected success: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 numbers, got %d", len(result))
	}

	if _, err := NormalizeE164List(nil, 1, 0); err == nil {
		t.Fatal("expected error for empty list with min 1")
	}

	if _, err := NormalizeE164List([]string{"+918767936699", "bogus"}, 1, 0); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone for mixed list, got %v", err)
	}
}

func TestParseUUIDv4(t *testing.T) {
	if _, err := ParseUUIDv4("b0c9c2b0-1f3a-4d2d-9e3f-123456789abc"); err != nil {
		t.Fatalf("expected success parsing valid uuid: %v", err)
	}

	if _, err := ParseUUIDv4(""); !errors.Is(err, ErrInvalidUUID) {
		t.Fatalf("expected ErrInvalidUUID for empty string, got %v", err)
	}

	if _, err := ParseUUIDv4("6fa459ea-ee8a-11d2-90f6-000000000000"); !errors.Is(err, ErrInvalidUUID) {
		t.Fatalf("expected ErrInvalidUUID for non v4 uuid, got %v", err)
	}
}
