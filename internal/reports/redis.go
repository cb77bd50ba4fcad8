package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/glacialguard/alert-service/internal/models"
)

const (
	reportsKey = "glacialguard:community-reports"
	missingKey = "glacialguard:missing-persons"
)

// Redis stores each collection as a hash keyed by report id, with JSON
// values. Listings load the whole hash; report volumes are small enough
// that server-side filtering is not worth the complexity.
type Redis struct {
	rdb    *redis.Client
	logger zerolog.Logger
}

// NewRedis connects to the instance described by redisURL (redis:// or
// rediss://) and fails fast when it is unreachable.
func NewRedis(ctx context.Context, redisURL string, logger zerolog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second
	opts.MaxRetries = 3

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Redis{rdb: rdb, logger: logger.With().Str("component", "reports.redis").Logger()}, nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

func (r *Redis) SubmitReport(ctx context.Context, report models.CommunityReport) (models.CommunityReport, error) {
	if err := r.store(ctx, reportsKey, report.ID, report); err != nil {
		return models.CommunityReport{}, err
	}
	return report, nil
}

func (r *Redis) ListReports(ctx context.Context, filter ReportFilter) ([]models.CommunityReport, error) {
	values, err := r.rdb.HVals(ctx, reportsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list community reports: %w", err)
	}

	matched := make([]models.CommunityReport, 0, len(values))
	for _, raw := range values {
		var report models.CommunityReport
		if err := json.Unmarshal([]byte(raw), &report); err != nil {
			r.logger.Warn().Err(err).Msg("skipping malformed community report record")
			continue
		}
		if filter.matches(report) {
			matched = append(matched, report)
		}
	}
	sortReportsNewestFirst(matched)
	return matched, nil
}

func (r *Redis) UpdateReportStatus(ctx context.Context, id, status, adminNotes string) (models.CommunityReport, error) {
	var report models.CommunityReport
	if err := r.load(ctx, reportsKey, id, &report); err != nil {
		return models.CommunityReport{}, err
	}
	applyReportStatus(&report, status, adminNotes)
	if err := r.store(ctx, reportsKey, id, report); err != nil {
		return models.CommunityReport{}, err
	}
	return report, nil
}

func (r *Redis) SubmitMissingPerson(ctx context.Context, report models.MissingPersonReport) (models.MissingPersonReport, error) {
	if err := r.store(ctx, missingKey, report.ID, report); err != nil {
		return models.MissingPersonReport{}, err
	}
	return report, nil
}

func (r *Redis) ListMissingPersons(ctx context.Context, filter MissingFilter) ([]models.MissingPersonReport, error) {
	values, err := r.rdb.HVals(ctx, missingKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list missing-person reports: %w", err)
	}

	matched := make([]models.MissingPersonReport, 0, len(values))
	for _, raw := range values {
		var report models.MissingPersonReport
		if err := json.Unmarshal([]byte(raw), &report); err != nil {
			r.logger.Warn().Err(err).Msg("skipping malformed missing-person record")
			continue
		}
		if filter.matches(report) {
			matched = append(matched, report)
		}
	}
	sortMissingNewestFirst(matched)
	return matched, nil
}

func (r *Redis) UpdateMissingPersonStatus(ctx context.Context, id, status, adminNotes string) (models.MissingPersonReport, error) {
	var report models.MissingPersonReport
	if err := r.load(ctx, missingKey, id, &report); err != nil {
		return models.MissingPersonReport{}, err
	}
	applyMissingStatus(&report, status, adminNotes)
	if err := r.store(ctx, missingKey, id, report); err != nil {
		return models.MissingPersonReport{}, err
	}
	return report, nil
}

func (r *Redis) store(ctx context.Context, key, id string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal report %s: %w", id, err)
	}
	if err := r.rdb.HSet(ctx, key, id, payload).Err(); err != nil {
		return fmt.Errorf("store report %s: %w", id, err)
	}
	return nil
}

func (r *Redis) load(ctx context.Context, key, id string, dest any) error {
	raw, err := r.rdb.HGet(ctx, key, id).Result()
	if err == redis.Nil {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load report %s: %w", id, err)
	}
	return json.Unmarshal([]byte(raw), dest)
}
