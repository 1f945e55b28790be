package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/openfra/fra-atlas/internal/aggregate"
	"github.com/openfra/fra-atlas/internal/geo"
)

// handleGeoLayer serves a boundary layer as GeoJSON, annotated with claim
// statistics where names line up. An optional bbox query clips the result.
func (s *Server) handleGeoLayer(c echo.Context) error {
	id := strings.TrimSuffix(c.Param("layer"), ".geojson")

	fc, ok := s.layers.Get(id)
	if !ok {
		return s.handleError(c, nil,
			"Unknown layer, available: "+strings.Join(s.layers.IDs(), ", "),
			http.StatusNotFound)
	}

	claims := s.pipeline.Store().Claims()
	switch id {
	case geo.LayerStates:
		fc = geo.JoinStates(fc, aggregate.StateRollup(claims))
	case geo.LayerDistricts:
		fc = geo.JoinDistricts(fc, aggregate.DistrictRollup(claims))
	}

	if raw := c.QueryParam("bbox"); raw != "" {
		box, err := geo.ParseBBox(raw)
		if err != nil {
			return s.handleError(c, err, "Invalid bbox, expected minLng,minLat,maxLng,maxLat", http.StatusBadRequest)
		}
		fc = geo.Clip(fc, box)
	}

	return c.JSON(http.StatusOK, fc)
}

// handleVillageDetails resolves a village drilldown. Stored claims are the
// richest source; the aggregated collection is the fallback, and a canned
// demo village answers when neither knows the name.
func (s *Server) handleVillageDetails(c echo.Context) error {
	id := pathParam(c, "id")

	if s.db != nil {
		stats, err := s.db.VillageStats(id)
		if err != nil {
			s.log.Warn("village stats query failed", "village", id, "error", err)
		} else if stats.ClaimsCount > 0 {
			status := "inactive"
			if stats.ApprovedClaims > 0 {
				status = "active"
			}
			return c.JSON(http.StatusOK, echo.Map{
				"village_id":      id,
				"name":            stats.Village,
				"district":        stats.District,
				"state":           stats.State,
				"fra_status":      status,
				"total_claims":    stats.ClaimsCount,
				"approved_claims": stats.ApprovedClaims,
				"total_area_ha":   stats.TotalAreaHa,
				"source":          "stored",
			})
		}
	}

	if info, ok := geo.VillageDetails(s.pipeline.Store().Claims(), id); ok {
		return c.JSON(http.StatusOK, echo.Map{
			"village_id":      id,
			"name":            info.Name,
			"district":        info.District,
			"state":           info.State,
			"fra_status":      info.FRAStatus,
			"total_claims":    info.TotalClaims,
			"approved_claims": info.ApprovedClaims,
			"rejected_claims": info.RejectedClaims,
			"pending_claims":  info.PendingClaims,
			"source":          "aggregated",
		})
	}

	// Demo village so map drilldowns keep working before any data lands.
	return c.JSON(http.StatusOK, echo.Map{
		"village_id":      id,
		"name":            "Dhanpura",
		"district":        "Betul",
		"state":           "Madhya Pradesh",
		"fra_status":      "active",
		"total_claims":    15,
		"approved_claims": 12,
		"rejected_claims": 2,
		"pending_claims":  1,
		"source":          "demo",
	})
}
