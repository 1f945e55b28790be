package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/openfra/fra-atlas/internal/dss"
)

// handleRulesEvaluate scores a household profile against the scheme rules.
// With advisory=true and a configured LLM provider the response carries a
// narrative advisory; advisory failures never block the evaluation.
func (s *Server) handleRulesEvaluate(c echo.Context) error {
	var profile dss.Profile
	if err := c.Bind(&profile); err != nil {
		return s.handleError(c, err, "Invalid profile payload", http.StatusBadRequest)
	}
	if len(profile) == 0 {
		return s.handleError(c, nil, "Profile is empty", http.StatusBadRequest)
	}

	eval := s.engine.Evaluate(profile)

	resp := echo.Map{
		"total_score":     eval.TotalScore,
		"recommendations": eval.Recommendations,
	}

	if c.QueryParam("advisory") == "true" {
		advisory, err := s.advisor.Generate(c.Request().Context(), eval, s.engine.SchemeNames())
		if err != nil {
			s.log.Warn("advisory generation failed", "error", err)
		}
		if advisory == nil {
			resp["advisory"] = echo.Map{
				"enabled":  false,
				"warnings": []string{"No LLM provider configured"},
			}
		} else {
			resp["advisory"] = advisory
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// handleVillageRecommendations serves scheme recommendations for one village.
// A schemes query narrows the set, comma separated.
func (s *Server) handleVillageRecommendations(c echo.Context) error {
	id := pathParam(c, "id")

	var schemes []string
	if raw := c.QueryParam("schemes"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				schemes = append(schemes, name)
			}
		}
	}

	return c.JSON(http.StatusOK, dss.VillageRecommendations(id, schemes))
}

func (s *Server) handleStateAnalytics(c echo.Context) error {
	state := pathParam(c, "state")
	if state == "" {
		return s.handleError(c, nil, "state is required", http.StatusBadRequest)
	}
	analytics := dss.Analytics(state, s.pipeline.Store().Claims())
	return c.JSON(http.StatusOK, analytics)
}
