package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openfra/fra-atlas/internal/aggregate"
	"github.com/openfra/fra-atlas/internal/export"
	"github.com/openfra/fra-atlas/internal/filter"
	"github.com/openfra/fra-atlas/internal/model"
	"github.com/openfra/fra-atlas/internal/pipeline"
)

const (
	defaultClaimLimit = 500
	maxClaimLimit     = 5000

	defaultNearbyRadiusKm = 50.0
	maxNearbyRadiusKm     = 1000.0
)

// handleAtlasClaims serves a filtered page of the aggregated collection.
func (s *Server) handleAtlasClaims(c echo.Context) error {
	var crit filter.Criteria
	if err := c.Bind(&crit); err != nil {
		return s.handleError(c, err, "Invalid filter parameters", http.StatusBadRequest)
	}

	limit := intParam(c, "limit", defaultClaimLimit)
	if limit < 1 {
		limit = defaultClaimLimit
	}
	if limit > maxClaimLimit {
		limit = maxClaimLimit
	}
	offset := intParam(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	matched := filter.Apply(s.pipeline.Store().Claims(), crit)
	total := len(matched)
	page := paginate(matched, offset, limit)
	snap := s.pipeline.Store().Snapshot()

	return c.JSON(http.StatusOK, echo.Map{
		"claims":     page,
		"total":      total,
		"count":      len(page),
		"limit":      limit,
		"offset":     offset,
		"generation": snap.Generation,
		"updated_at": snap.StartedAt,
	})
}

// handleAtlasRefresh runs the aggregation pipeline and answers with the
// committed snapshot. Superseded runs report their outcome honestly.
func (s *Server) handleAtlasRefresh(c echo.Context) error {
	opts := pipeline.RunOptions{
		State:    c.QueryParam("state"),
		District: c.QueryParam("district"),
		NoCache:  c.QueryParam("no_cache") == "true",
	}

	snap, err := s.pipeline.Run(c.Request().Context(), opts)
	if err != nil {
		return s.handleError(c, err, "Aggregation run aborted", http.StatusServiceUnavailable)
	}

	status := "completed"
	if snap.Generation != s.pipeline.Store().Generation() {
		status = "superseded"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": status,
		"run":    snap,
	})
}

// handleAtlasSummary aggregates the whole collection into headline numbers.
func (s *Server) handleAtlasSummary(c echo.Context) error {
	claims := s.pipeline.Store().Claims()
	summary := aggregate.Summarize(claims)
	states := aggregate.StateRollup(claims)
	if len(states) > 5 {
		states = states[:5]
	}

	return c.JSON(http.StatusOK, echo.Map{
		"summary":    summary,
		"top_states": states,
		"run":        s.pipeline.Store().Snapshot(),
	})
}

func (s *Server) handleAtlasStates(c echo.Context) error {
	states := aggregate.StateRollup(s.pipeline.Store().Claims())
	return c.JSON(http.StatusOK, echo.Map{
		"states": states,
		"count":  len(states),
	})
}

// handleAtlasNearby finds claims around a point, nearest first.
func (s *Server) handleAtlasNearby(c echo.Context) error {
	lat, latErr := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if latErr != nil || lngErr != nil {
		return s.handleError(c, nil, "lat and lng query parameters are required", http.StatusBadRequest)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return s.handleError(c, nil, "lat/lng out of range", http.StatusBadRequest)
	}

	radius := defaultNearbyRadiusKm
	if raw := c.QueryParam("radius_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			return s.handleError(c, err, "radius_km must be a positive number", http.StatusBadRequest)
		}
		radius = parsed
	}
	if radius > maxNearbyRadiusKm {
		radius = maxNearbyRadiusKm
	}

	center := model.Coordinates{Lat: lat, Lng: lng}
	results := filter.Nearby(s.pipeline.Store().Claims(), center, radius)

	return c.JSON(http.StatusOK, echo.Map{
		"center":    center,
		"radius_km": radius,
		"results":   results,
		"count":     len(results),
	})
}

func (s *Server) handleExportGeoJSON(c echo.Context) error {
	var crit filter.Criteria
	if err := c.Bind(&crit); err != nil {
		return s.handleError(c, err, "Invalid filter parameters", http.StatusBadRequest)
	}

	payload, err := export.GeoJSON(filter.Apply(s.pipeline.Store().Claims(), crit))
	if err != nil {
		return s.handleError(c, err, "GeoJSON export failed", http.StatusInternalServerError)
	}

	name := export.Filename("fra-claims", "geojson", time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, "application/geo+json", payload)
}

func (s *Server) handleExportCSV(c echo.Context) error {
	var crit filter.Criteria
	if err := c.Bind(&crit); err != nil {
		return s.handleError(c, err, "Invalid filter parameters", http.StatusBadRequest)
	}

	payload, err := export.CSV(filter.Apply(s.pipeline.Store().Claims(), crit))
	if err != nil {
		return s.handleError(c, err, "CSV export failed", http.StatusInternalServerError)
	}

	name := export.Filename("fra-claims", "csv", time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, "text/csv", payload)
}

func intParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func paginate(claims []model.Claim, offset, limit int) []model.Claim {
	if offset >= len(claims) {
		return []model.Claim{}
	}
	end := offset + limit
	if end > len(claims) {
		end = len(claims)
	}
	return claims[offset:end]
}
