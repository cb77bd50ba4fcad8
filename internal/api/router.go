// Package api is the HTTP boundary: thin gin handlers that validate
// request shape, invoke the dispatch orchestrator or report store, and
// serialize aggregates back to the caller.
package api

import (
	"errors"
	"net/http"
	"reflect"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/glacialguard/alert-service/internal/dispatch"
	"github.com/glacialguard/alert-service/internal/reports"
	"github.com/glacialguard/alert-service/internal/riskdata"
)

// Config carries the handler-level settings.
type Config struct {
	AllowedOrigin string
	UploadDir     string
}

// Server wires the HTTP layer to the domain services.
type Server struct {
	dispatcher *dispatch.Dispatcher
	reports    reports.Repository
	risk       *riskdata.Service
	cfg        Config
	logger     zerolog.Logger
	clock      func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the response timestamp source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New validates dependencies and returns a Server.
func New(dispatcher *dispatch.Dispatcher, repo reports.Repository, risk *riskdata.Service, cfg Config, logger zerolog.Logger, opts ...Option) (*Server, error) {
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if repo == nil {
		return nil, errors.New("report repository is required")
	}
	if risk == nil {
		return nil, errors.New("risk data service is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}

	s := &Server{
		dispatcher: dispatcher,
		reports:    repo,
		risk:       risk,
		cfg:        cfg,
		logger:     logger.With().Str("component", "api").Logger(),
		clock:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Router builds the gin engine with every route registered, wrapped in
// the CORS handler for the configured frontend origin.
func (s *Server) Router() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	api := router.Group("/api")
	{
		alerts := api.Group("/alerts")
		{
			alerts.POST("/sms", s.sendSMSAlert)
			alerts.POST("/whatsapp", s.sendWhatsAppAlert)
			alerts.POST("/emergency", s.sendEmergencyAlert)
			alerts.POST("/multilingual-emergency", s.sendMultilingualEmergencyAlert)
			alerts.POST("/test", s.testAlert)
		}

		community := api.Group("/community")
		{
			community.POST("/reports", s.submitCommunityReport)
			community.GET("/reports", s.listCommunityReports)
			community.PUT("/reports/:id/status", s.updateCommunityReportStatus)

			community.POST("/missing-persons", s.submitMissingPersonReport)
			community.GET("/missing-persons", s.listMissingPersonReports)
			community.PUT("/missing-persons/:id/status", s.updateMissingPersonStatus)

			community.GET("/uploads/:filename", s.serveUpload)
		}

		api.GET("/uploads/:filename", s.serveUpload)
		api.GET("/processed-data", s.getProcessedData)
		api.GET("/health", s.health)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{s.cfg.AllowedOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	return c.Handler(router)
}
