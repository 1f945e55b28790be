package llm

import (
	"context"
	"fmt"

	"github.com/openfra/fra-atlas/internal/model"
)

// Advisor wraps an optional provider and degrades gracefully: a missing,
// unavailable, or failing provider yields warnings on the advisory, never an
// error that would block the rule evaluation itself.
type Advisor struct {
	provider Provider
	config   Config
}

// NewAdvisor creates an advisor from configuration. An empty provider name
// yields a disabled advisor, not an error.
func NewAdvisor(config Config) (*Advisor, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Advisor{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (a *Advisor) IsEnabled() bool {
	return a != nil && a.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled
func (a *Advisor) ProviderName() string {
	if !a.IsEnabled() {
		return ""
	}
	return a.provider.Name()
}

// Generate produces an advisory for a rule evaluation. Returns nil when the
// advisor is disabled. knownSchemes is the rule engine's full scheme list.
func (a *Advisor) Generate(ctx context.Context, eval model.Evaluation, knownSchemes []string) (*model.Advisory, error) {
	if !a.IsEnabled() {
		return nil, nil
	}

	advisory := &model.Advisory{
		Enabled:       true,
		Provider:      a.provider.Name(),
		Model:         a.config.Model,
		StrictSchemes: a.config.StrictSchemes,
	}

	if !a.provider.IsAvailable(ctx) {
		advisory.Enabled = false
		advisory.Warnings = append(advisory.Warnings,
			fmt.Sprintf("LLM provider %s is not available - check configuration and connectivity", a.provider.Name()))
		return advisory, nil
	}

	resp, err := a.provider.Advise(ctx, AdviseRequest{
		Evaluation:     eval,
		AllowedSchemes: eligibleSchemes(eval),
		KnownSchemes:   knownSchemes,
		Model:          a.config.Model,
		MaxTokens:      a.config.MaxTokens,
	})
	if err != nil {
		// Graceful degradation: the evaluation already succeeded, so report
		// the advisory failure as a warning.
		advisory.Warnings = append(advisory.Warnings,
			fmt.Sprintf("Advisory generation failed: %v", err))
		return advisory, nil
	}

	advisory.Text = resp.Advisory
	if resp.Model != "" {
		advisory.Model = resp.Model
	}
	advisory.Warnings = append(advisory.Warnings,
		fmt.Sprintf("Tokens used: %d", resp.TokensUsed),
		fmt.Sprintf("Verified %d scheme mentions against the allowlist", len(resp.MentionedSchemes)))

	return advisory, nil
}

// eligibleSchemes extracts the deduplicated scheme allowlist from an evaluation
func eligibleSchemes(eval model.Evaluation) []string {
	seen := make(map[string]bool)
	var names []string
	for _, rec := range eval.Recommendations {
		if rec.Scheme == "" || seen[rec.Scheme] {
			continue
		}
		seen[rec.Scheme] = true
		names = append(names, rec.Scheme)
	}
	return names
}
