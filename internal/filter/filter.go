package filter

import (
	"strings"

	"github.com/openfra/fra-atlas/internal/model"
)

// Criteria selects a subset of the aggregated collection. Zero-valued fields
// pass everything through.
type Criteria struct {
	Year     string `json:"year,omitempty" query:"year"`
	State    string `json:"state,omitempty" query:"state"`
	District string `json:"district,omitempty" query:"district"`
	Status   string `json:"status,omitempty" query:"status"`
	Type     string `json:"claim_type,omitempty" query:"claim_type"`
}

// IsZero reports whether no criterion is set
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Apply returns the claims matching all set criteria, preserving order.
// It never mutates the input; applying the same criteria twice returns the
// same subset as applying once.
func Apply(claims []model.Claim, c Criteria) []model.Claim {
	if c.IsZero() {
		out := make([]model.Claim, len(claims))
		copy(out, claims)
		return out
	}
	out := make([]model.Claim, 0, len(claims))
	for _, claim := range claims {
		if c.Matches(claim) {
			out = append(out, claim)
		}
	}
	return out
}

// Matches reports whether one claim passes all set criteria
func (c Criteria) Matches(claim model.Claim) bool {
	if c.State != "" && claim.State != c.State {
		return false
	}
	if c.District != "" && claim.District != c.District {
		return false
	}
	if c.Status != "" && string(claim.Status) != c.Status {
		return false
	}
	if c.Type != "" && string(claim.Type) != c.Type {
		return false
	}
	if c.Year != "" && !matchesYear(claim, c.Year) {
		return false
	}
	return true
}

// matchesYear checks the as-on date, then the source label, then the year
// tag. Substring matching on the first two covers dates like "30.06.2024"
// and source labels that embed a vintage.
func matchesYear(claim model.Claim, year string) bool {
	if strings.Contains(claim.LastUpdated, year) {
		return true
	}
	if strings.Contains(claim.Source, year) {
		return true
	}
	return claim.Year == year
}
