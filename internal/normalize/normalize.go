package normalize

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/openfra/fra-atlas/internal/model"
	"github.com/openfra/fra-atlas/internal/registry"
)

// aggregateRows are summary labels that must not become map markers. They
// appear in the state or district column of most gateway datasets.
var aggregateRows = map[string]bool{
	"Total":       true,
	"Grand Total": true,
	"Sub Total":   true,
}

// Normalizer turns raw gateway rows into canonical claims. One instance is
// shared across runs; the rng behind coordinate jitter and id suffixes is
// guarded so endpoint batches can normalize concurrently.
type Normalizer struct {
	mu        sync.Mutex
	rng       *rand.Rand
	now       func() time.Time
	jitter    float64
	overrides map[string]model.Coordinates
}

// New builds a normalizer from config. A non-zero Geo.Seed makes coordinate
// jitter and id suffixes reproducible, which the tests rely on.
func New(cfg *model.Config) *Normalizer {
	jitter := cfg.Geo.JitterDegrees
	if jitter <= 0 {
		jitter = 0.75
	}
	seed := cfg.Geo.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Normalizer{
		rng:       rand.New(rand.NewSource(seed)),
		now:       time.Now,
		jitter:    jitter,
		overrides: cfg.Geo.SeedOverrides,
	}
}

// Normalize maps an endpoint's raw rows to claims, preserving row order.
// Rows without a resolvable state, and aggregate summary rows, are dropped.
func (n *Normalizer) Normalize(ep registry.Endpoint, rows []Row) []model.Claim {
	claims := make([]model.Claim, 0, len(rows))
	for i, row := range rows {
		claim, ok := n.normalizeOne(ep, i, row)
		if !ok {
			continue
		}
		claims = append(claims, claim)
	}
	return claims
}

func (n *Normalizer) normalizeOne(ep registry.Endpoint, index int, row Row) (model.Claim, bool) {
	state := stringField(row, ep.Fields.State)
	if state == "" {
		state = ep.ImplicitState
	}
	if state == "" || aggregateRows[state] {
		return model.Claim{}, false
	}

	district := stringField(row, ep.Fields.District)
	if aggregateRows[district] {
		return model.Claim{}, false
	}
	if district == "" {
		district = model.DistrictFallback
	}

	individual, community, total := n.counts(ep, row)
	rate := n.approvalRate(ep, row, total)

	status := model.StatusForRate(rate)
	if ep.Kind == registry.KindRejected {
		status = model.StatusRejected
	}

	area, hasArea := floatField(row, ep.Fields.Area)
	if !hasArea || area <= 0 {
		area = float64(total.Distributed) * 2.5
	}

	claimType := model.ClaimTypeIndividual
	if community.Received > individual.Received {
		claimType = model.ClaimTypeCommunity
	}

	lastUpdated := ep.AsOn
	if lastUpdated == "" {
		lastUpdated = n.now().Format("2006-01-02")
	}

	seed := SeedFor(state, n.overrides)

	n.mu.Lock()
	lat := seed.Lat + (n.rng.Float64()*2-1)*n.jitter
	lng := seed.Lng + (n.rng.Float64()*2-1)*n.jitter
	suffix := n.rng.Intn(1 << 24)
	n.mu.Unlock()

	rowID := stringField(row, ep.Fields.RowID)
	if rowID == "" {
		rowID = strconv.Itoa(index)
	}

	return model.Claim{
		ID:           fmt.Sprintf("%s_%s_%d_%06x", ep.Key, rowID, n.now().UnixMilli(), suffix),
		State:        state,
		District:     district,
		Village:      stringField(row, ep.Fields.Village),
		Type:         claimType,
		Status:       status,
		Coordinates:  model.Coordinates{Lat: lat, Lng: lng},
		Individual:   individual,
		Community:    community,
		Total:        total,
		ApprovalRate: rate,
		AreaHectares: math.Round(area*100) / 100,
		Year:         ep.Year,
		Source:       ep.Source,
		LastUpdated:  lastUpdated,
	}, true
}

// counts extracts received/distributed pairs. When any individual or
// community column exists the total is recomputed as their sum; a sourced
// total only stands in when the dataset has no component columns at all.
func (n *Normalizer) counts(ep registry.Endpoint, row Row) (individual, community, total model.Counts) {
	fm := ep.Fields

	indR, okIR := intField(row, fm.IndividualReceived)
	indD, okID := intField(row, fm.IndividualDistributed)
	comR, okCR := intField(row, fm.CommunityReceived)
	comD, okCD := intField(row, fm.CommunityDistributed)

	individual = model.Counts{Received: indR, Distributed: indD}
	community = model.Counts{Received: comR, Distributed: comD}

	if okIR || okID || okCR || okCD {
		total = individual.Add(community)
		return individual, community, total
	}

	totR, _ := intField(row, fm.TotalReceived)
	totD, _ := intField(row, fm.TotalDistributed)
	total = model.Counts{Received: totR, Distributed: totD}
	return individual, community, total
}

// approvalRate passes a sourced percentage through, otherwise derives
// distributed/received. Result is clamped to [0,100] and kept to one decimal.
func (n *Normalizer) approvalRate(ep registry.Endpoint, row Row, total model.Counts) float64 {
	var rate float64
	if pct, ok := floatField(row, ep.Fields.ApprovalPct); ok {
		rate = pct
	} else if total.Received > 0 {
		rate = float64(total.Distributed) / float64(total.Received) * 100
	}
	if rate < 0 {
		rate = 0
	}
	if rate > 100 {
		rate = 100
	}
	return math.Round(rate*10) / 10
}
