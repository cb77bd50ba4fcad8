// Package reports persists community observations and missing-person
// reports behind a small repository interface so the HTTP layer stays
// storage-agnostic.
package reports

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/glacialguard/alert-service/internal/models"
)

// ErrNotFound is returned when a report id does not resolve.
var ErrNotFound = errors.New("report not found")

// ReportFilter narrows a community report listing. Empty fields match
// everything. Search does a case-insensitive substring match against the
// villager, village and description fields.
type ReportFilter struct {
	Status   string
	Priority string
	Search   string
}

// MissingFilter narrows a missing-person listing. Search matches the
// person name, reporter, village and description.
type MissingFilter struct {
	Status string
	Search string
}

// Repository stores both report collections. Listings are newest first.
type Repository interface {
	SubmitReport(ctx context.Context, report models.CommunityReport) (models.CommunityReport, error)
	ListReports(ctx context.Context, filter ReportFilter) ([]models.CommunityReport, error)
	UpdateReportStatus(ctx context.Context, id, status, adminNotes string) (models.CommunityReport, error)

	SubmitMissingPerson(ctx context.Context, report models.MissingPersonReport) (models.MissingPersonReport, error)
	ListMissingPersons(ctx context.Context, filter MissingFilter) ([]models.MissingPersonReport, error)
	UpdateMissingPersonStatus(ctx context.Context, id, status, adminNotes string) (models.MissingPersonReport, error)
}

// applyReportStatus mutates a community report for a status transition.
// Verification is derived from the status so the two can never disagree.
func applyReportStatus(report *models.CommunityReport, status, adminNotes string) {
	report.Status = status
	report.Verified = status == models.ReportStatusVerified
	if adminNotes != "" {
		report.AdminNotes = adminNotes
	}
}

// applyMissingStatus mutates a missing-person report for a status
// transition. Finding the person resolves the search.
func applyMissingStatus(report *models.MissingPersonReport, status, adminNotes string) {
	report.Status = status
	if status == models.MissingStatusFound {
		report.SearchStatus = models.SearchStatusResolved
	} else {
		report.SearchStatus = models.SearchStatusActive
	}
	if adminNotes != "" {
		report.AdminNotes = adminNotes
	}
}

func (f ReportFilter) matches(report models.CommunityReport) bool {
	if f.Status != "" && report.Status != f.Status {
		return false
	}
	if f.Priority != "" && report.Priority != f.Priority {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		haystack := strings.ToLower(report.Villager + " " + report.Village + " " + report.Description)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func (f MissingFilter) matches(report models.MissingPersonReport) bool {
	if f.Status != "" && report.Status != f.Status {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		haystack := strings.ToLower(report.PersonName + " " + report.Reporter + " " + report.Village + " " + report.Description)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func sortReportsNewestFirst(reports []models.CommunityReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Timestamp.After(reports[j].Timestamp)
	})
}

func sortMissingNewestFirst(reports []models.MissingPersonReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Timestamp.After(reports[j].Timestamp)
	})
}
