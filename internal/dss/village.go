package dss

import (
	"strings"

	"github.com/openfra/fra-atlas/internal/model"
)

// VillageRecommendation pairs a scheme with a priority and the signal that
// triggered it.
type VillageRecommendation struct {
	Scheme      string  `json:"scheme"`
	Priority    string  `json:"priority"`
	Eligibility string  `json:"eligibility"`
	Reason      string  `json:"reason"`
	Confidence  float64 `json:"confidence"`
}

// RecommendationSet is the village-level recommendations payload.
type RecommendationSet struct {
	VillageID       string                  `json:"village_id"`
	Recommendations []VillageRecommendation `json:"recommendations"`
}

// Static demo signals; the village asset survey feed replaces these.
var villageSignals = []VillageRecommendation{
	{
		Scheme:      "Jal Jeevan Mission",
		Priority:    "high",
		Eligibility: "eligible",
		Reason:      "Water stress index: 0.8, No piped water supply",
		Confidence:  0.92,
	},
	{
		Scheme:      "PM-KISAN",
		Priority:    "medium",
		Eligibility: "eligible",
		Reason:      "15 FRA beneficiaries with agricultural land",
		Confidence:  0.87,
	},
}

// VillageRecommendations returns scheme recommendations for a village,
// optionally narrowed to the requested scheme names (case-insensitive).
func VillageRecommendations(villageID string, schemes []string) RecommendationSet {
	set := RecommendationSet{
		VillageID:       villageID,
		Recommendations: []VillageRecommendation{},
	}
	for _, rec := range villageSignals {
		if len(schemes) > 0 && !containsFold(schemes, rec.Scheme) {
			continue
		}
		set.Recommendations = append(set.Recommendations, rec)
	}
	return set
}

// StateAnalytics is the state-level insight payload.
type StateAnalytics struct {
	State             string            `json:"state"`
	TotalVillages     int               `json:"total_villages"`
	FRAVillages       int               `json:"fra_villages"`
	SchemeCoverage    map[string]string `json:"scheme_coverage"`
	ClaimsReceived    int               `json:"claims_received"`
	TitlesDistributed int               `json:"titles_distributed"`
	RecordCount       int               `json:"record_count"`
}

// Analytics summarizes scheme coverage for a state, folding in live counts
// from the aggregation snapshot when records for the state exist. Village
// counts and coverage percentages are demo figures.
func Analytics(state string, claims []model.Claim) StateAnalytics {
	out := StateAnalytics{
		State:         state,
		TotalVillages: 1250,
		FRAVillages:   380,
		SchemeCoverage: map[string]string{
			"PM-KISAN":   "78%",
			"Jal Jeevan": "45%",
			"MGNREGA":    "89%",
		},
	}
	for _, c := range claims {
		if !strings.EqualFold(c.State, state) {
			continue
		}
		out.ClaimsReceived += c.Total.Received
		out.TitlesDistributed += c.Total.Distributed
		out.RecordCount++
	}
	return out
}

func containsFold(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}
