// Package server exposes the atlas over HTTP: the aggregated collection,
// stored claims, decision support, documents, and the event stream.
package server

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/openfra/fra-atlas/internal/datastore"
	"github.com/openfra/fra-atlas/internal/dss"
	"github.com/openfra/fra-atlas/internal/geo"
	"github.com/openfra/fra-atlas/internal/llm"
	"github.com/openfra/fra-atlas/internal/model"
	"github.com/openfra/fra-atlas/internal/ocr"
	"github.com/openfra/fra-atlas/internal/pipeline"
	"github.com/openfra/fra-atlas/internal/telemetry"
)

// Server wires the pipeline, datastore, and decision support behind echo.
// The datastore is optional: without one the API runs in demo mode, stored
// claims fall back to samples and document endpoints answer 503.
type Server struct {
	echo      *echo.Echo
	cfg       *model.Config
	log       *slog.Logger
	pipeline  *pipeline.Pipeline
	refresher *pipeline.Refresher
	metrics   *telemetry.Metrics

	db      datastore.Interface // nil in demo mode
	ocr     *ocr.Manager        // nil without a datastore
	layers  *geo.Layers
	engine  *dss.Engine
	advisor *llm.Advisor // nil unless an LLM provider is configured

	startedAt time.Time
}

// New composes a server from configuration. A failed datastore open degrades
// to demo mode instead of failing startup, matching /health semantics.
func New(cfg *model.Config, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	var db datastore.Interface = datastore.New(cfg)
	if err := db.Open(); err != nil {
		log.Warn("datastore unavailable, running in demo mode", "error", err)
		db = nil
	}

	p, err := pipeline.New(cfg, log, metrics, db)
	if err != nil {
		return nil, err
	}

	var ocrManager *ocr.Manager
	if db != nil {
		ocrManager = ocr.NewManager(db, ocr.NewStubEngine(), cfg.Concurrency.OCRWorkers, log)
		ocrManager.OnFinal(metrics.RecordOCRJob)
		if err := ocrManager.Resume(); err != nil {
			log.Warn("resume pending ocr jobs", "error", err)
		}
	}

	layers := geo.LoadLayers(map[string]string{
		geo.LayerStates:    cfg.Geo.StateBoundariesPath,
		geo.LayerDistricts: cfg.Geo.DistrictBoundariesPath,
	}, log)
	if _, ok := layers.Get(geo.LayerVillages); !ok {
		layers.Set(geo.LayerVillages, geo.SampleVillageLayer())
	}

	var advisor *llm.Advisor
	if cfg.LLM.Provider != "" {
		lcfg := llm.ConfigFromModel(cfg.LLM)
		lcfg.HTTPProxy = cfg.HTTP.HTTPProxy
		lcfg.HTTPSProxy = cfg.HTTP.HTTPSProxy
		lcfg.NoProxy = cfg.HTTP.NoProxy
		advisor, err = llm.NewAdvisor(lcfg)
		if err != nil {
			log.Warn("llm advisor disabled", "error", err)
			advisor = nil
		}
	}

	s := &Server{
		echo:      echo.New(),
		cfg:       cfg,
		log:       log,
		pipeline:  p,
		refresher: pipeline.NewRefresher(p, cfg.Server.RefreshInterval, log),
		metrics:   metrics,
		db:        db,
		ocr:       ocrManager,
		layers:    layers,
		engine:    dss.NewEngine(),
		advisor:   advisor,
		startedAt: time.Now().UTC(),
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.setupMiddleware()
	s.routes()
	return s, nil
}

func (s *Server) setupMiddleware() {
	e := s.echo
	e.Use(middleware.Recover())
	e.Use(requestLogger(s.log))
	e.Use(securityHeaders())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.Server.CORSOrigins,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderAuthorization, "X-Requested-With",
		},
		AllowCredentials: true,
	}))
	e.Use(s.rateLimit())
	e.Use(s.httpMetrics())
}

func (s *Server) routes() {
	e := s.echo
	e.GET("/", s.handleRoot)
	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	api := e.Group("/api/v1")

	atlas := api.Group("/atlas")
	atlas.GET("/claims", s.handleAtlasClaims)
	atlas.POST("/refresh", s.handleAtlasRefresh, s.requireRole("admin", "officer"))
	atlas.GET("/summary", s.handleAtlasSummary)
	atlas.GET("/states", s.handleAtlasStates)
	atlas.GET("/nearby", s.handleAtlasNearby)
	atlas.GET("/export.geojson", s.handleExportGeoJSON)
	atlas.GET("/export.csv", s.handleExportCSV)

	geoGroup := api.Group("/geo")
	geoGroup.GET("/layers/:layer", s.handleGeoLayer)
	geoGroup.GET("/villages/:id", s.handleVillageDetails)

	claims := api.Group("/claims")
	claims.GET("", s.handleListClaims)
	claims.GET("/sample", s.handleSampleClaims)
	claims.POST("", s.handleCreateClaim, s.requireRole("admin", "officer"))
	claims.POST("/bulk-create", s.handleBulkCreateClaims, s.requireRole("admin", "officer"))
	claims.GET("/:id", s.handleGetClaim)
	claims.DELETE("/:id", s.handleDeleteClaim, s.requireRole("admin"))

	api.GET("/dashboard/stats", s.handleDashboardStats)

	api.POST("/rules/evaluate", s.handleRulesEvaluate)
	dssGroup := api.Group("/dss")
	dssGroup.GET("/villages/:id/recommendations", s.handleVillageRecommendations)
	dssGroup.GET("/analytics/state/:state", s.handleStateAnalytics)

	docs := api.Group("/documents")
	docs.Use(middleware.BodyLimit(fmt.Sprintf("%d", s.cfg.Uploads.MaxBytes)))
	docs.GET("", s.handleListDocuments)
	docs.POST("/upload", s.handleDocumentUpload, s.requireRole("admin", "officer", "community"))
	docs.POST("/:id/ocr", s.handleDocumentOCR, s.requireRole("admin", "officer"))
	docs.GET("/:id/extract", s.handleDocumentExtract)
	docs.GET("/jobs/:id", s.handleOCRJobStatus)
	docs.GET("/search", s.handleDocumentSearch)
	docs.DELETE("/:id", s.handleDocumentDelete, s.requireRole("admin"))

	gov := api.Group("/government")
	gov.GET("/api-status", s.handleAPIStatus)
	gov.GET("/:key", s.handleGovernmentProxy)

	ml := api.Group("/ml")
	ml.GET("/models/status", s.handleMLModelStatus)
	ml.POST("/asset-detect", s.handleAssetDetect)

	api.GET("/tiles/:z/:x/:y", s.handleTile)

	events := api.Group("/events")
	events.GET("/stream", s.handleEventStream)
	events.POST("/select", s.handleLocationSelect)
}

// Start runs an initial aggregation in the background, enables the periodic
// refresher, and serves until Shutdown.
func (s *Server) Start() error {
	go func() {
		if _, err := s.pipeline.Run(context.Background(), pipeline.RunOptions{}); err != nil {
			s.log.Warn("initial aggregation run failed", "error", err)
		}
	}()
	s.refresher.Start(context.Background())

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.log.Info("http server listening", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown stops the refresher and OCR workers, then drains the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.refresher.Stop()
	if s.ocr != nil {
		s.ocr.Close()
	}
	err := s.echo.Shutdown(ctx)
	if s.db != nil {
		if cerr := s.db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message":     "FRA Atlas API",
		"version":     "1.0.0",
		"status":      "operational",
		"description": "Forest Rights Act claims atlas and decision support",
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	resp := echo.Map{
		"status":    "healthy",
		"database":  "connected",
		"uptime_s":  int(time.Since(s.startedAt).Seconds()),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if s.db == nil {
		resp["status"] = "degraded"
		resp["database"] = "disconnected"
		resp["warning"] = "datastore unavailable - running in demo mode"
	}
	return c.JSON(http.StatusOK, resp)
}

// ErrorResponse is the uniform error body for API failures
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// handleError logs and answers a request failure with a correlation id the
// caller can quote back.
func (s *Server) handleError(c echo.Context, err error, message string, code int) error {
	resp := ErrorResponse{
		Error:         message,
		Message:       message,
		Code:          code,
		CorrelationID: correlationID(),
	}
	if err != nil {
		resp.Error = err.Error()
	}

	s.log.Error("api error",
		"correlation_id", resp.CorrelationID,
		"message", message,
		"error", resp.Error,
		"code", code,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"ip", c.RealIP())

	return c.JSON(code, resp)
}

// pathParam returns a route parameter with percent-escapes decoded; state
// and village names carry spaces.
func pathParam(c echo.Context, name string) string {
	v := c.Param(name)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

const correlationCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func correlationID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "ERR-RAND"
	}
	for i := range b {
		b[i] = correlationCharset[int(b[i])%len(correlationCharset)]
	}
	return string(b)
}
