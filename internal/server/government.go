package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openfra/fra-atlas/internal/fetch"
	"github.com/openfra/fra-atlas/internal/model"
)

// handleGovernmentProxy fetches one registry endpoint on demand and passes
// the records through with provenance metadata. The shared fetch client
// applies the response cache and the per-host rate limit.
func (s *Server) handleGovernmentProxy(c echo.Context) error {
	key := c.Param("key")

	limit := intParam(c, "limit", 100)
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	offset := intParam(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	opts := fetch.Options{
		State:    c.QueryParam("state"),
		District: c.QueryParam("district"),
		Limit:    limit,
		Offset:   offset,
		NoCache:  c.QueryParam("no_cache") == "true",
	}

	ep, resp, err := s.pipeline.FetchEndpoint(c.Request().Context(), key, opts)
	if err != nil {
		var gerr *fetch.GatewayError
		if errors.As(err, &gerr) {
			code := http.StatusBadGateway
			if gerr.StatusCode == http.StatusNotFound {
				code = http.StatusNotFound
			}
			return s.handleError(c, err, "Upstream gateway error", code)
		}
		if strings.HasPrefix(err.Error(), "unknown endpoint") {
			return s.handleError(c, err, "Unknown dataset", http.StatusNotFound)
		}
		return s.handleError(c, err, "Gateway fetch failed", http.StatusBadGateway)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": echo.Map{
			"records": resp.Records,
			"total":   resp.Total,
			"count":   len(resp.Records),
		},
		"metadata": echo.Map{
			"source":   ep.Source,
			"dataset":  ep.Title,
			"resource": ep.Resource,
			"year":     ep.Year,
			"filters_applied": echo.Map{
				"state":    opts.State,
				"district": opts.District,
			},
			"pagination": echo.Map{
				"offset":        offset,
				"limit":         limit,
				"total_records": resp.Total,
			},
			"cached":    resp.Cached,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// handleAPIStatus probes every registry endpoint with a one-record request.
func (s *Server) handleAPIStatus(c echo.Context) error {
	statuses := s.pipeline.Probe(c.Request().Context())

	overall := "operational"
	apis := make(map[string]model.EndpointStatus, len(statuses))
	for _, st := range statuses {
		apis[st.Key] = st
		if !st.IsAccessible {
			overall = "degraded"
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"overall_status": overall,
		"apis":           apis,
		"target_states":  s.cfg.Sync.States,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
