package geo

import (
	"strings"

	"github.com/openfra/fra-atlas/internal/aggregate"
)

// Boundary property keys carrying the region name. Census-derived boundary
// files use ST_NM and DISTRICT; lowercase variants show up in converted sets.
var stateNameKeys = []string{"ST_NM", "st_nm", "NAME_1", "state", "State"}
var districtNameKeys = []string{"DISTRICT", "district", "NAME_2", "DTNAME"}

// featureName pulls the first present name property
func featureName(f Feature, keys []string) string {
	for _, k := range keys {
		if v, ok := f.Properties[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// JoinStates annotates state boundary features with claim rollups, matched
// by name case-insensitively. Features without a matching rollup keep their
// original properties untouched.
func JoinStates(fc *FeatureCollection, rollup []aggregate.StateSummary) *FeatureCollection {
	byName := make(map[string]rollupStats, len(rollup))
	for _, s := range rollup {
		byName[strings.ToLower(s.State)] = rollupStats{
			received:    s.ClaimsReceived,
			distributed: s.TitlesDistributed,
			rate:        s.ApprovalRate,
			records:     s.Records,
		}
	}

	out := &FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, len(fc.Features))}
	for i, f := range fc.Features {
		out.Features[i] = annotate(f, stateNameKeys, byName)
	}
	return out
}

// JoinDistricts annotates district boundaries with per-district rollups
func JoinDistricts(fc *FeatureCollection, rollup []aggregate.DistrictSummary) *FeatureCollection {
	byName := make(map[string]rollupStats, len(rollup))
	for _, d := range rollup {
		byName[strings.ToLower(d.District)] = rollupStats{
			received:    d.ClaimsReceived,
			distributed: d.TitlesDistributed,
			rate:        d.ApprovalRate,
			records:     d.Records,
		}
	}

	out := &FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, len(fc.Features))}
	for i, f := range fc.Features {
		out.Features[i] = annotate(f, districtNameKeys, byName)
	}
	return out
}

type rollupStats struct {
	received    int
	distributed int
	rate        float64
	records     int
}

func annotate(f Feature, nameKeys []string, byName map[string]rollupStats) Feature {
	name := featureName(f, nameKeys)
	stats, ok := byName[strings.ToLower(name)]
	if !ok {
		return f
	}

	props := make(map[string]any, len(f.Properties)+4)
	for k, v := range f.Properties {
		props[k] = v
	}
	props["fra_claims_received"] = stats.received
	props["fra_titles_distributed"] = stats.distributed
	props["fra_approval_rate"] = stats.rate
	props["fra_records"] = stats.records

	return Feature{Type: f.Type, Properties: props, Geometry: f.Geometry}
}
