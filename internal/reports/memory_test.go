package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/glacialguard/alert-service/internal/models"
)

func newCommunityReport(villager, status, priority string, ts time.Time) models.CommunityReport {
	return models.CommunityReport{
		ID:          uuid.NewString(),
		Type:        "observation",
		Category:    "water-level",
		Village:     "Uttarkashi",
		Description: "river rising fast near the footbridge",
		Villager:    villager,
		Timestamp:   ts,
		Status:      status,
		Priority:    priority,
	}
}

func TestMemoryListReportsNewestFirst(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	older := newCommunityReport("Asha", models.ReportStatusPending, "high", base)
	newer := newCommunityReport("Ravi", models.ReportStatusPending, "high", base.Add(time.Hour))
	for _, r := range []models.CommunityReport{older, newer} {
		if _, err := store.SubmitReport(ctx, r); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	listed, err := store.ListReports(ctx, ReportFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(listed))
	}
	if listed[0].ID != newer.ID {
		t.Fatalf("expected newest report first, got %s", listed[0].Villager)
	}
}

func TestMemoryReportFilters(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	now := time.Now()

	if _, err := store.SubmitReport(ctx, newCommunityReport("Asha Devi", models.ReportStatusPending, "high", now)); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := store.SubmitReport(ctx, newCommunityReport("Ravi Kumar", models.ReportStatusVerified, "medium", now)); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	byStatus, err := store.ListReports(ctx, ReportFilter{Status: models.ReportStatusVerified})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].Villager != "Ravi Kumar" {
		t.Fatalf("status filter returned wrong rows: %+v", byStatus)
	}

	byPriority, err := store.ListReports(ctx, ReportFilter{Priority: "high"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(byPriority) != 1 || byPriority[0].Villager != "Asha Devi" {
		t.Fatalf("priority filter returned wrong rows: %+v", byPriority)
	}

	bySearch, err := store.ListReports(ctx, ReportFilter{Search: "asha"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(bySearch) != 1 || bySearch[0].Villager != "Asha Devi" {
		t.Fatalf("search filter returned wrong rows: %+v", bySearch)
	}
}

func TestMemoryUpdateReportStatusSetsVerified(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	report := newCommunityReport("Asha", models.ReportStatusPending, "high", time.Now())
	if _, err := store.SubmitReport(ctx, report); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	updated, err := store.UpdateReportStatus(ctx, report.ID, models.ReportStatusVerified, "confirmed by field team")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.Verified {
		t.Fatal("verified flag must follow the verified status")
	}
	if updated.AdminNotes != "confirmed by field team" {
		t.Fatalf("admin notes not applied: %q", updated.AdminNotes)
	}

	reverted, err := store.UpdateReportStatus(ctx, report.ID, models.ReportStatusRejected, "")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if reverted.Verified {
		t.Fatal("verified flag must clear when status leaves verified")
	}
	if reverted.AdminNotes != "confirmed by field team" {
		t.Fatal("empty admin notes must not erase existing notes")
	}
}

func TestMemoryUpdateUnknownReport(t *testing.T) {
	store := NewMemory()
	if _, err := store.UpdateReportStatus(context.Background(), "missing-id", models.ReportStatusVerified, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryMissingPersonFoundResolvesSearch(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	report := models.MissingPersonReport{
		ID:           uuid.NewString(),
		PersonName:   "Mohan Singh",
		Age:          54,
		LastSeen:     "near the old bridge",
		Reporter:     "Asha Devi",
		Village:      "Uttarkashi",
		Timestamp:    time.Now(),
		Status:       models.MissingStatusSearching,
		SearchStatus: models.SearchStatusActive,
	}
	if _, err := store.SubmitMissingPerson(ctx, report); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	updated, err := store.UpdateMissingPersonStatus(ctx, report.ID, models.MissingStatusFound, "located at relief camp")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.SearchStatus != models.SearchStatusResolved {
		t.Fatalf("expected search resolved, got %q", updated.SearchStatus)
	}

	bySearch, err := store.ListMissingPersons(ctx, MissingFilter{Search: "mohan"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(bySearch) != 1 {
		t.Fatalf("search filter returned %d rows", len(bySearch))
	}
}
