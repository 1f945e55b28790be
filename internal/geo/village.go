package geo

import (
	"encoding/json"
	"strings"

	"github.com/openfra/fra-atlas/internal/model"
)

// VillageInfo summarizes claim records that resolved to one village
type VillageInfo struct {
	Name           string `json:"name"`
	District       string `json:"district"`
	State          string `json:"state"`
	FRAStatus      string `json:"fra_status"`
	TotalClaims    int    `json:"total_claims"`
	ApprovedClaims int    `json:"approved_claims"`
	RejectedClaims int    `json:"rejected_claims"`
	PendingClaims  int    `json:"pending_claims"`
}

// VillageDetails rolls up the collection for one village name. Most gateway
// datasets stop at district level, so this often comes back empty; the
// stored-claims path is the richer source for village drilldowns.
func VillageDetails(claims []model.Claim, name string) (VillageInfo, bool) {
	info := VillageInfo{Name: name, FRAStatus: "inactive"}
	found := false

	for _, c := range claims {
		if !strings.EqualFold(c.Village, name) {
			continue
		}
		if !found {
			info.District = c.District
			info.State = c.State
			found = true
		}
		info.TotalClaims++
		switch c.Status {
		case model.StatusApproved:
			info.ApprovedClaims++
		case model.StatusRejected:
			info.RejectedClaims++
		default:
			info.PendingClaims++
		}
	}

	if info.TotalClaims > 0 {
		info.FRAStatus = "active"
	}
	return info, found
}

// SampleVillageLayer returns a small demo overlay used when no village
// boundary file is configured.
func SampleVillageLayer() *FeatureCollection {
	geometry := json.RawMessage(`{"type":"Polygon","coordinates":[[[77.9,22.4],[77.95,22.4],[77.95,22.45],[77.9,22.45],[77.9,22.4]]]}`)
	return &FeatureCollection{
		Type: "FeatureCollection",
		Features: []Feature{{
			Type: "Feature",
			Properties: map[string]any{
				"village":            "Dhanpura",
				"district":           "Betul",
				"state":              "Madhya Pradesh",
				"fra_claims":         15,
				"titles_distributed": 12,
			},
			Geometry: geometry,
		}},
	}
}
