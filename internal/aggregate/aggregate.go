package aggregate

import (
	"math"
	"sort"

	"github.com/openfra/fra-atlas/internal/model"
)

// Concat merges per-endpoint claim batches into one collection, endpoint
// order outer and record order inner. No cross-source deduplication happens
// here: two datasets reporting the same underlying claim produce two entries,
// since the sources share no stable key.
func Concat(batches [][]model.Claim) []model.Claim {
	var total int
	for _, b := range batches {
		total += len(b)
	}
	out := make([]model.Claim, 0, total)
	for _, b := range batches {
		out = append(out, b...)
	}
	return out
}

// Summary is the all-India rollup across a claim collection
type Summary struct {
	TotalRecords           int     `json:"total_records"`
	TotalClaimsReceived    int     `json:"total_claims_received"`
	TotalTitlesDistributed int     `json:"total_titles_distributed"`
	IndividualClaims       int     `json:"total_individual_claims"`
	CommunityClaims        int     `json:"total_community_claims"`
	IndividualTitles       int     `json:"total_individual_titles"`
	CommunityTitles        int     `json:"total_community_titles"`
	ClaimsPending          int     `json:"claims_pending"`
	ProcessingEfficiency   float64 `json:"processing_efficiency"`
	AverageApprovalRate    float64 `json:"average_approval_rate"`
	StatesCovered          int     `json:"states_covered"`

	StatusCounts map[model.ClaimStatus]int `json:"status_counts"`
}

// Summarize computes the national rollup. Efficiency is titles over claims;
// the average approval rate is the mean of per-record rates, both rounded to
// two decimals the way the ministry's progress reports publish them.
func Summarize(claims []model.Claim) Summary {
	s := Summary{
		TotalRecords: len(claims),
		StatusCounts: make(map[model.ClaimStatus]int),
	}

	states := make(map[string]bool)
	var rateSum float64
	for _, c := range claims {
		s.TotalClaimsReceived += c.Total.Received
		s.TotalTitlesDistributed += c.Total.Distributed
		s.IndividualClaims += c.Individual.Received
		s.CommunityClaims += c.Community.Received
		s.IndividualTitles += c.Individual.Distributed
		s.CommunityTitles += c.Community.Distributed
		s.StatusCounts[c.Status]++
		states[c.State] = true
		rateSum += c.ApprovalRate
	}

	s.ClaimsPending = s.TotalClaimsReceived - s.TotalTitlesDistributed
	s.StatesCovered = len(states)
	if s.TotalClaimsReceived > 0 {
		s.ProcessingEfficiency = round2(float64(s.TotalTitlesDistributed) / float64(s.TotalClaimsReceived) * 100)
	}
	if len(claims) > 0 {
		s.AverageApprovalRate = round2(rateSum / float64(len(claims)))
	}
	return s
}

// StateSummary is one state's share of the collection
type StateSummary struct {
	State                string  `json:"state"`
	Records              int     `json:"records"`
	ClaimsReceived       int     `json:"claims_received"`
	TitlesDistributed    int     `json:"titles_distributed"`
	ProcessingEfficiency float64 `json:"processing_efficiency"`
	ApprovalRate         float64 `json:"approval_rate"`
}

// StateRollup groups claims by state, sorted by claims received descending.
// States tie-break alphabetically so the order is stable across runs.
func StateRollup(claims []model.Claim) []StateSummary {
	byState := make(map[string]*StateSummary)
	rateSums := make(map[string]float64)

	for _, c := range claims {
		entry, ok := byState[c.State]
		if !ok {
			entry = &StateSummary{State: c.State}
			byState[c.State] = entry
		}
		entry.Records++
		entry.ClaimsReceived += c.Total.Received
		entry.TitlesDistributed += c.Total.Distributed
		rateSums[c.State] += c.ApprovalRate
	}

	out := make([]StateSummary, 0, len(byState))
	for state, entry := range byState {
		if entry.ClaimsReceived > 0 {
			entry.ProcessingEfficiency = round2(float64(entry.TitlesDistributed) / float64(entry.ClaimsReceived) * 100)
		}
		entry.ApprovalRate = round2(rateSums[state] / float64(entry.Records))
		out = append(out, *entry)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ClaimsReceived != out[j].ClaimsReceived {
			return out[i].ClaimsReceived > out[j].ClaimsReceived
		}
		return out[i].State < out[j].State
	})
	return out
}

// DistrictSummary is one district's share of the collection
type DistrictSummary struct {
	District             string  `json:"district"`
	State                string  `json:"state"`
	Records              int     `json:"records"`
	ClaimsReceived       int     `json:"claims_received"`
	TitlesDistributed    int     `json:"titles_distributed"`
	ProcessingEfficiency float64 `json:"processing_efficiency"`
	ApprovalRate         float64 `json:"approval_rate"`
}

// DistrictRollup groups claims by (state, district). Rows that only resolve
// to the district fallback sentinel are grouped under it as-is; they simply
// never join to a real boundary polygon.
func DistrictRollup(claims []model.Claim) []DistrictSummary {
	type key struct{ state, district string }
	byKey := make(map[key]*DistrictSummary)
	rateSums := make(map[key]float64)

	for _, c := range claims {
		k := key{c.State, c.District}
		entry, ok := byKey[k]
		if !ok {
			entry = &DistrictSummary{District: c.District, State: c.State}
			byKey[k] = entry
		}
		entry.Records++
		entry.ClaimsReceived += c.Total.Received
		entry.TitlesDistributed += c.Total.Distributed
		rateSums[k] += c.ApprovalRate
	}

	out := make([]DistrictSummary, 0, len(byKey))
	for k, entry := range byKey {
		if entry.ClaimsReceived > 0 {
			entry.ProcessingEfficiency = round2(float64(entry.TitlesDistributed) / float64(entry.ClaimsReceived) * 100)
		}
		entry.ApprovalRate = round2(rateSums[k] / float64(entry.Records))
		out = append(out, *entry)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		return out[i].District < out[j].District
	})
	return out
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
