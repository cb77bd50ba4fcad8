// Package riskdata serves the current glacial-lake risk snapshot. A
// built-in dataset answers every request; when a risk-model service URL
// is configured the service refreshes from it and falls back to the
// built-in data on any error.
package riskdata

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Lakes at or above this score count as high risk.
const highRiskThreshold = 0.6

const defaultRequestTimeout = 10 * time.Second

// Coordinates locates a lake.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Lake is one monitored glacial lake with its latest risk assessment.
type Lake struct {
	LakeID             string      `json:"lakeId"`
	Name               string      `json:"name"`
	Region             string      `json:"region"`
	Coordinates        Coordinates `json:"coordinates"`
	CurrentRisk        float64     `json:"currentRisk"`
	LastAssessment     string      `json:"lastAssessment"`
	DownstreamVillages []string    `json:"downstreamVillages"`
}

// Snapshot is the full dataset returned to clients.
type Snapshot struct {
	Lakes         []Lake `json:"lakes"`
	Timestamp     string `json:"timestamp"`
	TotalLakes    int    `json:"totalLakes"`
	HighRiskCount int    `json:"highRiskCount"`
}

type modelResponse struct {
	Lakes []Lake `json:"lakes"`
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the assessment timestamp source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Service answers risk snapshot requests.
type Service struct {
	modelURL string
	client   *resty.Client
	logger   zerolog.Logger
	clock    func() time.Time
}

// NewService builds a Service. An empty modelURL disables remote
// refresh entirely.
func NewService(modelURL string, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		modelURL: modelURL,
		client:   resty.New().SetTimeout(defaultRequestTimeout),
		logger:   logger.With().Str("component", "riskdata").Logger(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Snapshot returns the latest dataset, preferring the external risk
// model when one is configured and reachable.
func (s *Service) Snapshot(ctx context.Context) Snapshot {
	if s.modelURL != "" {
		if snap, err := s.fetchRemote(ctx); err == nil {
			return snap
		} else {
			s.logger.Warn().Err(err).Msg("risk model unreachable, serving built-in snapshot")
		}
	}
	return s.builtinSnapshot()
}

func (s *Service) fetchRemote(ctx context.Context) (Snapshot, error) {
	var body modelResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get(s.modelURL)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch risk model data: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return Snapshot{}, fmt.Errorf("risk model returned status %d", resp.StatusCode())
	}
	if len(body.Lakes) == 0 {
		return Snapshot{}, fmt.Errorf("risk model returned no lakes")
	}
	return s.assemble(body.Lakes), nil
}

func (s *Service) builtinSnapshot() Snapshot {
	now := s.clock().UTC().Format(time.RFC3339)
	lakes := []Lake{
		{
			LakeID:             "UK_001_Chorabari",
			Name:               "Chorabari Tal",
			Region:             "Uttarakhand",
			Coordinates:        Coordinates{Lat: 30.7194, Lng: 79.0669},
			CurrentRisk:        0.72,
			LastAssessment:     now,
			DownstreamVillages: []string{"Kedarnath", "Gaurikund", "Phata"},
		},
		{
			LakeID:             "UK_002_Gandhi",
			Name:               "Gandhi Sarovar",
			Region:             "Uttarakhand",
			Coordinates:        Coordinates{Lat: 30.8456, Lng: 79.1234},
			CurrentRisk:        0.45,
			LastAssessment:     now,
			DownstreamVillages: []string{"Bhojbasa", "Gangotri"},
		},
	}
	return s.assemble(lakes)
}

func (s *Service) assemble(lakes []Lake) Snapshot {
	highRisk := 0
	for _, lake := range lakes {
		if lake.CurrentRisk >= highRiskThreshold {
			highRisk++
		}
	}
	return Snapshot{
		Lakes:         lakes,
		Timestamp:     s.clock().UTC().Format(time.RFC3339),
		TotalLakes:    len(lakes),
		HighRiskCount: highRisk,
	}
}
