package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openfra/fra-atlas/internal/aggregate"
	"github.com/openfra/fra-atlas/internal/datastore"
)

// handleListClaims pages through stored claims. Without a datastore the
// sample records answer so the frontend always has something to draw.
func (s *Server) handleListClaims(c echo.Context) error {
	q := datastore.ClaimQuery{
		State:    c.QueryParam("state"),
		District: c.QueryParam("district"),
		Village:  c.QueryParam("village"),
		Status:   c.QueryParam("status"),
		Limit:    intParam(c, "limit", 100),
		Offset:   intParam(c, "offset", 0),
	}

	if s.db != nil {
		claims, total, err := s.db.ListClaims(q)
		if err == nil {
			return c.JSON(http.StatusOK, echo.Map{
				"claims": claims,
				"total":  total,
				"count":  len(claims),
				"source": "database",
			})
		}
		s.log.Warn("list claims failed, serving samples", "error", err)
	}

	samples := datastore.SampleClaims()
	return c.JSON(http.StatusOK, echo.Map{
		"claims": samples,
		"total":  len(samples),
		"count":  len(samples),
		"source": "sample",
	})
}

func (s *Server) handleSampleClaims(c echo.Context) error {
	samples := datastore.SampleClaims()
	return c.JSON(http.StatusOK, echo.Map{
		"claims": samples,
		"count":  len(samples),
	})
}

func (s *Server) handleCreateClaim(c echo.Context) error {
	if s.db == nil {
		return s.handleError(c, nil, "Datastore unavailable in demo mode", http.StatusServiceUnavailable)
	}

	var claim datastore.StoredClaim
	if err := c.Bind(&claim); err != nil {
		return s.handleError(c, err, "Invalid claim payload", http.StatusBadRequest)
	}
	if claim.ClaimID == "" {
		return s.handleError(c, nil, "id is required", http.StatusBadRequest)
	}
	if claim.State == "" {
		return s.handleError(c, nil, "state is required", http.StatusBadRequest)
	}
	if claim.ClaimType != "" && claim.ClaimType != "individual" && claim.ClaimType != "community" {
		return s.handleError(c, nil, "claim_type must be individual or community", http.StatusBadRequest)
	}
	if claim.Status == "" {
		claim.Status = "pending"
	}

	if err := s.db.SaveClaim(&claim); err != nil {
		return s.handleError(c, err, "Failed to save claim", http.StatusInternalServerError)
	}
	return c.JSON(http.StatusCreated, claim)
}

func (s *Server) handleBulkCreateClaims(c echo.Context) error {
	if s.db == nil {
		return s.handleError(c, nil, "Datastore unavailable in demo mode", http.StatusServiceUnavailable)
	}

	var body struct {
		Claims []datastore.StoredClaim `json:"claims"`
	}
	if err := c.Bind(&body); err != nil {
		return s.handleError(c, err, "Invalid bulk payload", http.StatusBadRequest)
	}
	if len(body.Claims) == 0 {
		return s.handleError(c, nil, "claims array is empty", http.StatusBadRequest)
	}

	created, err := s.db.SaveClaims(body.Claims)
	if err != nil {
		return s.handleError(c, err, "Bulk create failed", http.StatusInternalServerError)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"created":  created,
		"received": len(body.Claims),
	})
}

func (s *Server) handleGetClaim(c echo.Context) error {
	id := c.Param("id")

	if s.db == nil {
		for _, sample := range datastore.SampleClaims() {
			if sample.ClaimID == id {
				return c.JSON(http.StatusOK, sample)
			}
		}
		return s.handleError(c, nil, "Claim not found", http.StatusNotFound)
	}

	claim, err := s.db.GetClaim(id)
	if errors.Is(err, datastore.ErrNotFound) {
		return s.handleError(c, nil, "Claim not found", http.StatusNotFound)
	}
	if err != nil {
		return s.handleError(c, err, "Failed to load claim", http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, claim)
}

func (s *Server) handleDeleteClaim(c echo.Context) error {
	if s.db == nil {
		return s.handleError(c, nil, "Datastore unavailable in demo mode", http.StatusServiceUnavailable)
	}

	id := c.Param("id")
	err := s.db.DeleteClaim(id)
	if errors.Is(err, datastore.ErrNotFound) {
		return s.handleError(c, nil, "Claim not found", http.StatusNotFound)
	}
	if err != nil {
		return s.handleError(c, err, "Failed to delete claim", http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":     id,
		"status": "deleted",
	})
}

// Analytic rates the processing backend does not compute yet.
const (
	dashboardProcessingRate  = 85.5
	dashboardAvgDays         = 12.3
	dashboardSchemeMatchRate = 78.0
)

// handleDashboardStats serves the headline dashboard. Stored-claim counts
// come from the datastore, collection numbers from the latest run, and demo
// constants fill in when the datastore is away.
func (s *Server) handleDashboardStats(c echo.Context) error {
	snap := s.pipeline.Store().Snapshot()
	summary := aggregate.Summarize(s.pipeline.Store().Claims())
	atlas := echo.Map{
		"records":        summary.TotalRecords,
		"states_covered": summary.StatesCovered,
		"generation":     snap.Generation,
		"degraded":       snap.Degraded(),
	}

	if s.db != nil {
		stats, err := s.db.ClaimStats()
		if err == nil {
			return c.JSON(http.StatusOK, echo.Map{
				"claims_count":        stats.ClaimsCount,
				"approved_claims":     stats.ApprovedClaims,
				"pending_claims":      stats.PendingClaims,
				"rejected_claims":     stats.RejectedClaims,
				"total_area_ha":       stats.TotalAreaHa,
				"processing_rate":     dashboardProcessingRate,
				"avg_processing_days": dashboardAvgDays,
				"scheme_match_rate":   dashboardSchemeMatchRate,
				"atlas":               atlas,
				"source":              "database",
			})
		}
		s.log.Warn("claim stats failed, serving demo dashboard", "error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"claims_count":        4,
		"approved_claims":     2,
		"pending_claims":      1,
		"rejected_claims":     1,
		"total_area_ha":       20.7,
		"processing_rate":     dashboardProcessingRate,
		"avg_processing_days": dashboardAvgDays,
		"scheme_match_rate":   dashboardSchemeMatchRate,
		"atlas":               atlas,
		"source":              "demo",
	})
}
