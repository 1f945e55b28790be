package registry

import (
	"testing"

	"github.com/openfra/fra-atlas/internal/model"
)

func TestDefault_Builtins(t *testing.T) {
	r := Default()

	if r.Len() != 8 {
		t.Fatalf("expected 8 built-in endpoints, got %d", r.Len())
	}

	seen := make(map[string]bool)
	for _, ep := range r.All() {
		if ep.Key == "" || ep.Resource == "" || ep.Source == "" {
			t.Errorf("endpoint %q has empty required fields: %+v", ep.Key, ep)
		}
		if seen[ep.Key] {
			t.Errorf("duplicate endpoint key %q", ep.Key)
		}
		seen[ep.Key] = true
	}

	rejected, ok := r.Get("fra_rejected_2018")
	if !ok {
		t.Fatal("rejected claims endpoint missing")
	}
	if rejected.Kind != KindRejected {
		t.Errorf("expected rejected kind, got %q", rejected.Kind)
	}

	jk, ok := r.Get("jk_district_rights")
	if !ok {
		t.Fatal("J&K endpoint missing")
	}
	if jk.ImplicitState != "Jammu and Kashmir" {
		t.Errorf("expected implicit state for J&K dataset, got %q", jk.ImplicitState)
	}
	if jk.StateParam != "" {
		t.Errorf("J&K dataset should not support a state filter, got %q", jk.StateParam)
	}
}

func TestDefault_OrderStable(t *testing.T) {
	a := Default().Keys()
	b := Default().Keys()

	if len(a) != len(b) {
		t.Fatalf("key count differs between instances: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("registry order not stable at %d: %q vs %q", i, a[i], b[i])
		}
	}
	if a[0] != "fra_claims_2024" {
		t.Errorf("expected latest claims dataset first, got %q", a[0])
	}
}

func TestBuild_OverrideAndAppend(t *testing.T) {
	overrides := []model.EndpointConfig{
		{
			Key:      "fra_claims_2024",
			Resource: "/resource/custom-mirror",
		},
		{
			Key:      "fra_claims_2025",
			Resource: "/resource/next-vintage",
			Title:    "FRA Claims and Titles Distributed (2025)",
			Source:   "Ministry of Tribal Affairs",
			Year:     "2025",
			Kind:     "claims",
			FieldMap: map[string][]string{
				"state":          {"state"},
				"total_received": {"number_of_claims_received_upto_30_06_2025___total"},
			},
		},
	}

	r, err := Build(overrides)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if r.Len() != 9 {
		t.Fatalf("expected 9 endpoints after append, got %d", r.Len())
	}

	ep, _ := r.Get("fra_claims_2024")
	if ep.Resource != "/resource/custom-mirror" {
		t.Errorf("override did not replace resource: %q", ep.Resource)
	}
	// Untouched fields survive an override.
	if ep.Kind != KindClaims || ep.Year != "2024" {
		t.Errorf("override clobbered unrelated fields: %+v", ep)
	}
	if len(ep.Fields.TotalReceived) == 0 {
		t.Error("override clobbered field map")
	}

	added, ok := r.Get("fra_claims_2025")
	if !ok {
		t.Fatal("appended endpoint missing")
	}
	if added.Fields.TotalReceived[0] != "number_of_claims_received_upto_30_06_2025___total" {
		t.Errorf("field map not built from config: %+v", added.Fields)
	}

	keys := r.Keys()
	if keys[len(keys)-1] != "fra_claims_2025" {
		t.Errorf("appended endpoint should keep config order, got tail %q", keys[len(keys)-1])
	}
}

func TestBuild_OverridePreservesKind(t *testing.T) {
	// A resource-only override of a non-claims endpoint must not reset
	// its kind.
	r, err := Build([]model.EndpointConfig{{Key: "fsi_fire_alerts", Resource: "/resource/fire-mirror"}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	ep, _ := r.Get("fsi_fire_alerts")
	if ep.Kind != KindFire {
		t.Errorf("kind = %q, want %q", ep.Kind, KindFire)
	}
	if ep.Resource != "/resource/fire-mirror" {
		t.Errorf("resource = %q", ep.Resource)
	}
}

func TestBuild_Disable(t *testing.T) {
	r, err := Build([]model.EndpointConfig{{Key: "fsi_fire_alerts", Disabled: true}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, ok := r.Get("fsi_fire_alerts"); ok {
		t.Error("disabled endpoint still present")
	}
	if r.Len() != 7 {
		t.Errorf("expected 7 endpoints after disable, got %d", r.Len())
	}
}

func TestBuild_RejectsBadKind(t *testing.T) {
	_, err := Build([]model.EndpointConfig{{Key: "x", Kind: "bogus"}})
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(""); err != nil || k != KindClaims {
		t.Errorf("empty kind should default to claims, got %q err %v", k, err)
	}
	if _, err := ParseKind("weather"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
