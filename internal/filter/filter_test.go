package filter

import (
	"reflect"
	"testing"

	"github.com/openfra/fra-atlas/internal/model"
)

func sampleClaims() []model.Claim {
	return []model.Claim{
		{ID: "1", State: "Odisha", District: "Koraput", Status: model.StatusApproved, Type: model.ClaimTypeIndividual, Year: "2024", Source: "Ministry of Tribal Affairs", LastUpdated: "30.06.2024"},
		{ID: "2", State: "Odisha", District: "Multiple Districts", Status: model.StatusPending, Type: model.ClaimTypeCommunity, Year: "2023", Source: "Ministry of Tribal Affairs", LastUpdated: "31.12.2023"},
		{ID: "3", State: "Tripura", District: "Dhalai", Status: model.StatusApproved, Type: model.ClaimTypeIndividual, Year: "2024", Source: "Ministry of Tribal Affairs", LastUpdated: "30.06.2024"},
		{ID: "4", State: "Telangana", District: "Multiple Districts", Status: model.StatusRejected, Type: model.ClaimTypeIndividual, Year: "2018", Source: "Ministry of Tribal Affairs", LastUpdated: "31.10.2018"},
	}
}

func ids(claims []model.Claim) []string {
	out := make([]string, len(claims))
	for i, c := range claims {
		out[i] = c.ID
	}
	return out
}

func TestApply_ZeroCriteriaPassesThrough(t *testing.T) {
	claims := sampleClaims()
	got := Apply(claims, Criteria{})
	if !reflect.DeepEqual(ids(got), []string{"1", "2", "3", "4"}) {
		t.Errorf("pass-through changed the collection: %v", ids(got))
	}
}

func TestApply_State(t *testing.T) {
	got := Apply(sampleClaims(), Criteria{State: "Odisha"})
	if !reflect.DeepEqual(ids(got), []string{"1", "2"}) {
		t.Errorf("got %v", ids(got))
	}
}

func TestApply_Combined(t *testing.T) {
	got := Apply(sampleClaims(), Criteria{State: "Odisha", Status: "Approved"})
	if !reflect.DeepEqual(ids(got), []string{"1"}) {
		t.Errorf("got %v", ids(got))
	}
}

func TestApply_YearMatchesProvenanceFields(t *testing.T) {
	claims := []model.Claim{
		// Year only in the as-on date.
		{ID: "a", LastUpdated: "30.06.2024"},
		// Year only in the source label.
		{ID: "b", Source: "Monthly Progress Report June 2024", LastUpdated: "recent"},
		// Year only in the year tag.
		{ID: "c", Year: "2024", LastUpdated: "n/a", Source: "MoTA"},
		// No 2024 anywhere.
		{ID: "d", Year: "2018", LastUpdated: "31.10.2018", Source: "MoTA"},
	}

	got := Apply(claims, Criteria{Year: "2024"})
	if !reflect.DeepEqual(ids(got), []string{"a", "b", "c"}) {
		t.Errorf("got %v", ids(got))
	}
}

func TestApply_Idempotent(t *testing.T) {
	claims := sampleClaims()
	c := Criteria{State: "Odisha", Year: "2024"}

	once := Apply(claims, c)
	twice := Apply(once, c)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filtering twice changed the result: %v vs %v", ids(once), ids(twice))
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	claims := sampleClaims()
	before := ids(claims)

	_ = Apply(claims, Criteria{State: "Tripura"})

	if !reflect.DeepEqual(ids(claims), before) {
		t.Error("input collection mutated")
	}
}

func TestApply_TypeAndDistrict(t *testing.T) {
	got := Apply(sampleClaims(), Criteria{Type: "Community"})
	if !reflect.DeepEqual(ids(got), []string{"2"}) {
		t.Errorf("type filter got %v", ids(got))
	}

	got = Apply(sampleClaims(), Criteria{District: "Multiple Districts"})
	if !reflect.DeepEqual(ids(got), []string{"2", "4"}) {
		t.Errorf("district filter got %v", ids(got))
	}
}

func TestHaversine(t *testing.T) {
	bhopal := model.Coordinates{Lat: 23.2599, Lng: 77.4126}
	bhubaneswar := model.Coordinates{Lat: 20.2961, Lng: 85.8245}

	d := Haversine(bhopal, bhubaneswar)
	// Roughly 930 km apart.
	if d < 890 || d > 970 {
		t.Errorf("distance = %v km, expected ~930", d)
	}

	if z := Haversine(bhopal, bhopal); z != 0 {
		t.Errorf("zero distance = %v", z)
	}
}

func TestNearby(t *testing.T) {
	center := model.Coordinates{Lat: 20.0, Lng: 85.0}
	claims := []model.Claim{
		{ID: "far", Coordinates: model.Coordinates{Lat: 28.0, Lng: 77.0}},
		{ID: "near", Coordinates: model.Coordinates{Lat: 20.1, Lng: 85.1}},
		{ID: "nearer", Coordinates: model.Coordinates{Lat: 20.01, Lng: 85.0}},
	}

	got := Nearby(claims, center, 50)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Claim.ID != "nearer" || got[1].Claim.ID != "near" {
		t.Errorf("order = %q, %q", got[0].Claim.ID, got[1].Claim.ID)
	}
	if got[0].DistanceKm <= 0 || got[0].DistanceKm >= got[1].DistanceKm {
		t.Errorf("distances = %v, %v", got[0].DistanceKm, got[1].DistanceKm)
	}

	if res := Nearby(claims, center, 0); res != nil {
		t.Errorf("zero radius should return nil, got %v", res)
	}
}
