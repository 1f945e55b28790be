package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/openfra/fra-atlas/internal/model"
)

func sampleClaim() model.Claim {
	return model.Claim{
		ID:           "fra_claims_2024_4_1719750000000_a1b2c3",
		State:        "Odisha",
		District:     "Koraput",
		Type:         model.ClaimTypeIndividual,
		Status:       model.StatusApproved,
		Coordinates:  model.Coordinates{Lat: 20.9517, Lng: 85.0985},
		Individual:   model.Counts{Received: 120, Distributed: 90},
		Total:        model.Counts{Received: 120, Distributed: 90},
		ApprovalRate: 75.0,
		AreaHectares: 225.0,
		Year:         "2024",
		Source:       "Ministry of Tribal Affairs",
		LastUpdated:  "30.06.2024",
	}
}

func TestGeoJSON(t *testing.T) {
	data, err := GeoJSON([]model.Claim{sampleClaim()})
	if err != nil {
		t.Fatal(err)
	}

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if fc.Type != "FeatureCollection" || len(fc.Features) != 1 {
		t.Fatalf("collection shape: type=%q features=%d", fc.Type, len(fc.Features))
	}

	f := fc.Features[0]
	if f.Geometry.Type != "Point" {
		t.Errorf("geometry type = %q", f.Geometry.Type)
	}
	// GeoJSON wants lng first.
	if f.Geometry.Coordinates[0] != 85.0985 || f.Geometry.Coordinates[1] != 20.9517 {
		t.Errorf("coordinates = %v", f.Geometry.Coordinates)
	}
	if f.Properties["state"] != "Odisha" || f.Properties["status"] != "Approved" {
		t.Errorf("properties = %+v", f.Properties)
	}
	if f.Properties["approval_rate"] != 75.0 {
		t.Errorf("approval_rate = %v", f.Properties["approval_rate"])
	}
}

func TestGeoJSON_Empty(t *testing.T) {
	data, err := GeoJSON(nil)
	if err != nil {
		t.Fatal(err)
	}
	var fc struct {
		Features []any `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		t.Fatal(err)
	}
	if fc.Features == nil || len(fc.Features) != 0 {
		t.Errorf("empty export should carry an empty features array, got %v", fc.Features)
	}
}

func TestCSV(t *testing.T) {
	withComma := sampleClaim()
	withComma.Source = "Ministry of Tribal Affairs, GoI"

	data, err := CSV([]model.Claim{sampleClaim(), withComma})
	if err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "id" || rows[0][1] != "state" {
		t.Errorf("header = %v", rows[0])
	}
	if len(rows[1]) != len(csvHeader) {
		t.Errorf("row width %d, header width %d", len(rows[1]), len(csvHeader))
	}
	if rows[1][1] != "Odisha" {
		t.Errorf("state cell = %q", rows[1][1])
	}
	// The comma in the source label must survive quoting.
	if rows[2][17] != "Ministry of Tribal Affairs, GoI" {
		t.Errorf("source cell = %q", rows[2][17])
	}
}

func TestCSV_EmptyHasHeaderOnly(t *testing.T) {
	data, err := CSV(nil)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("expected header only, got %d rows", len(rows))
	}
}

func TestFilename(t *testing.T) {
	at := time.Date(2024, 6, 30, 14, 15, 0, 0, time.UTC)
	if got := Filename("fra-claims", "csv", at); got != "fra-claims-20240630-1415.csv" {
		t.Errorf("filename = %q", got)
	}
}
