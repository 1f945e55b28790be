package geo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/openfra/fra-atlas/internal/aggregate"
	"github.com/openfra/fra-atlas/internal/model"
)

const stateLayerJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"ST_NM": "Odisha"},
			"geometry": {"type": "Polygon", "coordinates": [[[84.0,19.0],[87.0,19.0],[87.0,22.0],[84.0,22.0],[84.0,19.0]]]}
		},
		{
			"type": "Feature",
			"properties": {"ST_NM": "Tripura"},
			"geometry": {"type": "Polygon", "coordinates": [[[91.0,23.0],[92.5,23.0],[92.5,24.5],[91.0,24.5],[91.0,23.0]]]}
		}
	]
}`

func writeLayer(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadLayers(t *testing.T) {
	path := writeLayer(t, "states.geojson", stateLayerJSON)

	layers := LoadLayers(map[string]string{
		LayerStates:    path,
		LayerDistricts: "/nonexistent/districts.geojson",
	}, nil)

	fc, ok := layers.Get(LayerStates)
	if !ok {
		t.Fatal("states layer should load")
	}
	if len(fc.Features) != 2 {
		t.Errorf("features = %d", len(fc.Features))
	}

	// A missing file degrades to no overlay, not an error.
	if _, ok := layers.Get(LayerDistricts); ok {
		t.Error("missing districts file should not produce a layer")
	}
}

func TestLoadLayers_RejectsNonCollection(t *testing.T) {
	path := writeLayer(t, "bad.geojson", `{"type":"Feature"}`)
	layers := LoadLayers(map[string]string{LayerStates: path}, nil)
	if _, ok := layers.Get(LayerStates); ok {
		t.Error("non-collection JSON should be skipped")
	}
}

func TestJoinStates(t *testing.T) {
	var fc FeatureCollection
	if err := json.Unmarshal([]byte(stateLayerJSON), &fc); err != nil {
		t.Fatal(err)
	}

	rollup := []aggregate.StateSummary{
		{State: "ODISHA", Records: 3, ClaimsReceived: 700, TitlesDistributed: 350, ApprovalRate: 50.0},
	}

	joined := JoinStates(&fc, rollup)

	odisha := joined.Features[0].Properties
	if odisha["fra_claims_received"] != 700 || odisha["fra_titles_distributed"] != 350 {
		t.Errorf("odisha properties = %+v", odisha)
	}
	if odisha["ST_NM"] != "Odisha" {
		t.Error("original properties must survive the join")
	}

	// No rollup for Tripura: untouched.
	if _, ok := joined.Features[1].Properties["fra_claims_received"]; ok {
		t.Error("unmatched feature should not be annotated")
	}

	// The join must not mutate the source collection.
	if _, ok := fc.Features[0].Properties["fra_claims_received"]; ok {
		t.Error("join mutated the input collection")
	}
}

func TestJoinDistricts(t *testing.T) {
	fc := &FeatureCollection{
		Type: "FeatureCollection",
		Features: []Feature{
			{Type: "Feature", Properties: map[string]any{"DISTRICT": "Koraput"}},
		},
	}

	rollup := []aggregate.DistrictSummary{
		{District: "Koraput", State: "Odisha", Records: 2, ClaimsReceived: 120, TitlesDistributed: 90, ApprovalRate: 75.0},
	}

	joined := JoinDistricts(fc, rollup)
	props := joined.Features[0].Properties
	if props["fra_claims_received"] != 120 || props["fra_approval_rate"] != 75.0 {
		t.Errorf("properties = %+v", props)
	}
}

func TestParseBBox(t *testing.T) {
	box, err := ParseBBox("84.0,19.0,87.0,22.0")
	if err != nil {
		t.Fatal(err)
	}
	if box.MinX != 84 || box.MaxY != 22 {
		t.Errorf("box = %+v", box)
	}

	for _, bad := range []string{"", "1,2,3", "a,b,c,d", "10,10,5,20"} {
		if _, err := ParseBBox(bad); err == nil {
			t.Errorf("ParseBBox(%q) should fail", bad)
		}
	}
}

func TestClip(t *testing.T) {
	var fc FeatureCollection
	if err := json.Unmarshal([]byte(stateLayerJSON), &fc); err != nil {
		t.Fatal(err)
	}

	// Box over Odisha only.
	box := BBox{MinX: 83, MinY: 18, MaxX: 88, MaxY: 23}
	clipped := Clip(&fc, box)
	if len(clipped.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(clipped.Features))
	}
	if clipped.Features[0].Properties["ST_NM"] != "Odisha" {
		t.Errorf("wrong feature survived: %+v", clipped.Features[0].Properties)
	}

	// Box over the Bay of Bengal, touching neither polygon.
	empty := Clip(&fc, BBox{MinX: 88, MinY: 10, MaxX: 90, MaxY: 15})
	if len(empty.Features) != 0 {
		t.Errorf("expected no features, got %d", len(empty.Features))
	}
}

func TestVillageDetails(t *testing.T) {
	claims := []model.Claim{
		{Village: "Dhanpura", District: "Betul", State: "Madhya Pradesh", Status: model.StatusApproved},
		{Village: "dhanpura", District: "Betul", State: "Madhya Pradesh", Status: model.StatusPending},
		{Village: "Dhanpura", District: "Betul", State: "Madhya Pradesh", Status: model.StatusRejected},
		{Village: "Elsewhere", District: "Koraput", State: "Odisha", Status: model.StatusApproved},
	}

	info, found := VillageDetails(claims, "Dhanpura")
	if !found {
		t.Fatal("village should be found")
	}
	if info.TotalClaims != 3 || info.ApprovedClaims != 1 || info.RejectedClaims != 1 || info.PendingClaims != 1 {
		t.Errorf("info = %+v", info)
	}
	if info.FRAStatus != "active" {
		t.Errorf("fra status = %q", info.FRAStatus)
	}

	if _, found := VillageDetails(claims, "Nowhere"); found {
		t.Error("unknown village reported found")
	}
}

func TestSampleVillageLayer(t *testing.T) {
	fc := SampleVillageLayer()
	if fc.Type != "FeatureCollection" || len(fc.Features) != 1 {
		t.Fatalf("unexpected shape: %+v", fc)
	}
	if fc.Features[0].Properties["village"] != "Dhanpura" {
		t.Errorf("properties = %+v", fc.Features[0].Properties)
	}

	ext, ok := extent(fc.Features[0].Geometry)
	if !ok {
		t.Fatal("sample geometry should have an extent")
	}
	if ext.MinX != 77.9 || ext.MaxY != 22.45 {
		t.Errorf("extent = %+v", ext)
	}
}
