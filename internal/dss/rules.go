// Package dss scores village and claimant profiles against Centrally
// Sponsored Scheme eligibility rules and serves scheme recommendations.
package dss

import (
	"sort"

	"github.com/openfra/fra-atlas/internal/model"
)

// Profile is the attribute map a caller submits for evaluation. Values arrive
// as decoded JSON, so numbers are float64 and missing keys read as zero.
type Profile map[string]any

// Float returns the numeric value for key, or 0 when absent or non-numeric.
func (p Profile) Float(key string) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Bool returns the boolean value for key, or false when absent.
func (p Profile) Bool(key string) bool {
	b, _ := p[key].(bool)
	return b
}

// Rule is one eligibility check. Score is the contribution when Check passes,
// Reason the line shown to the user.
type Rule struct {
	Name   string
	Scheme string
	Score  int
	Reason string
	Check  func(Profile) bool
}

func builtinRules() []Rule {
	return []Rule{
		{
			Name:   "PM-KISAN-smallholder",
			Scheme: "PM-KISAN",
			Score:  20,
			Reason: "Smallholder farmer",
			Check: func(p Profile) bool {
				return p.Float("land_holding_ha") <= 2.0 && p.Bool("is_farmer")
			},
		},
		{
			Name:   "JalJeevan-water-gap",
			Scheme: "Jal Jeevan Mission",
			Score:  15,
			Reason: "No tap water connection",
			Check: func(p Profile) bool {
				return !p.Bool("has_tap_water")
			},
		},
		{
			Name:   "MGNREGA-labor",
			Scheme: "MGNREGA",
			Score:  10,
			Reason: "High unemployment",
			Check: func(p Profile) bool {
				return p.Float("unemployment_rate") >= 0.2
			},
		},
	}
}

// Engine evaluates profiles against a fixed rule set. The zero value is not
// usable; construct with NewEngine.
type Engine struct {
	rules []Rule
}

// NewEngine returns an engine loaded with the built-in scheme rules.
func NewEngine() *Engine {
	return &Engine{rules: builtinRules()}
}

// Register appends a custom rule after the built-ins.
func (e *Engine) Register(r Rule) {
	e.rules = append(e.rules, r)
}

// Evaluate runs every rule over the profile. Rules that do not apply
// contribute nothing; qualifying rules are returned in registration order.
func (e *Engine) Evaluate(p Profile) model.Evaluation {
	eval := model.Evaluation{Recommendations: []model.SchemeRecommendation{}}
	for _, r := range e.rules {
		if !r.Check(p) {
			continue
		}
		eval.TotalScore += r.Score
		eval.Recommendations = append(eval.Recommendations, model.SchemeRecommendation{
			Rule:   r.Name,
			Scheme: r.Scheme,
			Score:  r.Score,
			Reason: r.Reason,
		})
	}
	return eval
}

// SchemeNames lists every scheme the engine knows about, deduplicated and
// sorted. The advisory layer uses this to detect off-list scheme mentions.
func (e *Engine) SchemeNames() []string {
	seen := make(map[string]bool, len(e.rules))
	names := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		if r.Scheme == "" || seen[r.Scheme] {
			continue
		}
		seen[r.Scheme] = true
		names = append(names, r.Scheme)
	}
	sort.Strings(names)
	return names
}
