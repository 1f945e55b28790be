package registry

import (
	"fmt"

	"github.com/openfra/fra-atlas/internal/model"
)

// Kind selects the normalization strategy for an endpoint
type Kind string

const (
	KindClaims   Kind = "claims"   // Claims received / titles distributed datasets
	KindApproval Kind = "approval" // State-wise approval percentage datasets
	KindFire     Kind = "fire"     // Forest fire alert counts
	KindRejected Kind = "rejected" // Rejected claims; status is forced, never derived
)

// ParseKind converts a config string into a Kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindClaims, KindApproval, KindFire, KindRejected:
		return Kind(s), nil
	case "":
		return KindClaims, nil
	default:
		return "", fmt.Errorf("unknown endpoint kind: %q", s)
	}
}

// FieldMap lists candidate source field names per canonical field.
// Government datasets rename columns between vintages, so each canonical
// field carries several candidates; the first one present in a record wins.
type FieldMap struct {
	RowID    []string
	State    []string
	District []string
	Village  []string

	IndividualReceived    []string
	CommunityReceived     []string
	TotalReceived         []string
	IndividualDistributed []string
	CommunityDistributed  []string
	TotalDistributed      []string

	ApprovalPct []string
	Area        []string
}

// Endpoint describes one dataset resource on the open-data gateway
type Endpoint struct {
	Key      string // Stable identifier used in ids, metrics, and API paths
	Resource string // Gateway resource path, e.g. /resource/<uuid>
	Title    string
	Source   string // Publishing body, carried into Claim.Source
	Year     string
	AsOn     string // As-on date carried into Claim.LastUpdated

	Kind Kind

	StateParam    string // Query filter name for state, "" when unsupported
	DistrictParam string
	ImplicitState string // Dataset scoped to a single state (J&K rights)

	Fields FieldMap
}

// Registry holds the ordered endpoint set for aggregation runs.
// Order is load-bearing: the aggregator concatenates per-endpoint results in
// registry order.
type Registry struct {
	order []string
	byKey map[string]Endpoint
}

// Default returns a registry with the built-in endpoints
func Default() *Registry {
	r := &Registry{byKey: make(map[string]Endpoint)}
	for _, ep := range builtinEndpoints() {
		r.add(ep)
	}
	return r
}

// Build returns the built-in registry overlaid with config endpoints.
// A config entry whose key matches a built-in replaces it in place; new keys
// append in config order; Disabled removes the endpoint.
func Build(overrides []model.EndpointConfig) (*Registry, error) {
	r := Default()
	for _, ec := range overrides {
		if ec.Key == "" {
			return nil, fmt.Errorf("endpoint config with empty key")
		}
		if ec.Disabled {
			r.remove(ec.Key)
			continue
		}
		ep, err := fromConfig(ec)
		if err != nil {
			return nil, fmt.Errorf("endpoint %q: %w", ec.Key, err)
		}
		if existing, ok := r.byKey[ec.Key]; ok {
			r.byKey[ec.Key] = mergeEndpoint(existing, ep)
		} else {
			if ep.Kind == "" {
				ep.Kind = KindClaims
			}
			r.add(ep)
		}
	}
	return r, nil
}

// All returns endpoints in registry order
func (r *Registry) All() []Endpoint {
	out := make([]Endpoint, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byKey[key])
	}
	return out
}

// Get looks up an endpoint by key
func (r *Registry) Get(key string) (Endpoint, bool) {
	ep, ok := r.byKey[key]
	return ep, ok
}

// Keys returns all endpoint keys in registry order
func (r *Registry) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the endpoint count
func (r *Registry) Len() int {
	return len(r.order)
}

func (r *Registry) add(ep Endpoint) {
	r.order = append(r.order, ep.Key)
	r.byKey[ep.Key] = ep
}

func (r *Registry) remove(key string) {
	if _, ok := r.byKey[key]; !ok {
		return
	}
	delete(r.byKey, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func fromConfig(ec model.EndpointConfig) (Endpoint, error) {
	// An unspecified kind stays empty here so mergeEndpoint can tell
	// "not set" apart from an explicit "claims"; Build defaults it when
	// the entry appends a new endpoint.
	var kind Kind
	if ec.Kind != "" {
		k, err := ParseKind(ec.Kind)
		if err != nil {
			return Endpoint{}, err
		}
		kind = k
	}
	ep := Endpoint{
		Key:           ec.Key,
		Resource:      ec.Resource,
		Title:         ec.Title,
		Source:        ec.Source,
		Year:          ec.Year,
		AsOn:          ec.AsOn,
		Kind:          kind,
		StateParam:    ec.StateParam,
		DistrictParam: ec.DistrictParam,
		ImplicitState: ec.ImplicitState,
		Fields:        fieldMapFromConfig(ec.FieldMap),
	}
	return ep, nil
}

func fieldMapFromConfig(m map[string][]string) FieldMap {
	return FieldMap{
		RowID:                 m["row_id"],
		State:                 m["state"],
		District:              m["district"],
		Village:               m["village"],
		IndividualReceived:    m["individual_received"],
		CommunityReceived:     m["community_received"],
		TotalReceived:         m["total_received"],
		IndividualDistributed: m["individual_distributed"],
		CommunityDistributed:  m["community_distributed"],
		TotalDistributed:      m["total_distributed"],
		ApprovalPct:           m["approval_pct"],
		Area:                  m["area"],
	}
}

// mergeEndpoint overlays non-empty override fields onto the built-in entry,
// so a config override can change just the resource or the field map.
func mergeEndpoint(base, over Endpoint) Endpoint {
	if over.Resource != "" {
		base.Resource = over.Resource
	}
	if over.Title != "" {
		base.Title = over.Title
	}
	if over.Source != "" {
		base.Source = over.Source
	}
	if over.Year != "" {
		base.Year = over.Year
	}
	if over.AsOn != "" {
		base.AsOn = over.AsOn
	}
	if over.Kind != "" {
		base.Kind = over.Kind
	}
	if over.StateParam != "" {
		base.StateParam = over.StateParam
	}
	if over.DistrictParam != "" {
		base.DistrictParam = over.DistrictParam
	}
	if over.ImplicitState != "" {
		base.ImplicitState = over.ImplicitState
	}
	base.Fields = mergeFieldMap(base.Fields, over.Fields)
	return base
}

func mergeFieldMap(base, over FieldMap) FieldMap {
	pick := func(b, o []string) []string {
		if len(o) > 0 {
			return o
		}
		return b
	}
	return FieldMap{
		RowID:                 pick(base.RowID, over.RowID),
		State:                 pick(base.State, over.State),
		District:              pick(base.District, over.District),
		Village:               pick(base.Village, over.Village),
		IndividualReceived:    pick(base.IndividualReceived, over.IndividualReceived),
		CommunityReceived:     pick(base.CommunityReceived, over.CommunityReceived),
		TotalReceived:         pick(base.TotalReceived, over.TotalReceived),
		IndividualDistributed: pick(base.IndividualDistributed, over.IndividualDistributed),
		CommunityDistributed:  pick(base.CommunityDistributed, over.CommunityDistributed),
		TotalDistributed:      pick(base.TotalDistributed, over.TotalDistributed),
		ApprovalPct:           pick(base.ApprovalPct, over.ApprovalPct),
		Area:                  pick(base.Area, over.Area),
	}
}
