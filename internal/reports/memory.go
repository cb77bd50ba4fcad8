package reports

import (
	"context"
	"sync"

	"github.com/glacialguard/alert-service/internal/models"
)

// Memory is the default in-process store. It is safe for concurrent use
// and loses its contents on restart.
type Memory struct {
	mu      sync.RWMutex
	reports []models.CommunityReport
	missing []models.MissingPersonReport
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) SubmitReport(_ context.Context, report models.CommunityReport) (models.CommunityReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, report)
	return report, nil
}

func (m *Memory) ListReports(_ context.Context, filter ReportFilter) ([]models.CommunityReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]models.CommunityReport, 0, len(m.reports))
	for _, report := range m.reports {
		if filter.matches(report) {
			matched = append(matched, report)
		}
	}
	sortReportsNewestFirst(matched)
	return matched, nil
}

func (m *Memory) UpdateReportStatus(_ context.Context, id, status, adminNotes string) (models.CommunityReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.reports {
		if m.reports[i].ID == id {
			applyReportStatus(&m.reports[i], status, adminNotes)
			return m.reports[i], nil
		}
	}
	return models.CommunityReport{}, ErrNotFound
}

func (m *Memory) SubmitMissingPerson(_ context.Context, report models.MissingPersonReport) (models.MissingPersonReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.missing = append(m.missing, report)
	return report, nil
}

func (m *Memory) ListMissingPersons(_ context.Context, filter MissingFilter) ([]models.MissingPersonReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]models.MissingPersonReport, 0, len(m.missing))
	for _, report := range m.missing {
		if filter.matches(report) {
			matched = append(matched, report)
		}
	}
	sortMissingNewestFirst(matched)
	return matched, nil
}

func (m *Memory) UpdateMissingPersonStatus(_ context.Context, id, status, adminNotes string) (models.MissingPersonReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.missing {
		if m.missing[i].ID == id {
			applyMissingStatus(&m.missing[i], status, adminNotes)
			return m.missing[i], nil
		}
	}
	return models.MissingPersonReport{}, ErrNotFound
}
