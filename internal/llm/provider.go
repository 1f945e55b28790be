package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openfra/fra-atlas/internal/model"
)

// Provider defines the interface for LLM advisory backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Advise generates a narrative for a rule evaluation with strict scheme mode
	Advise(ctx context.Context, req AdviseRequest) (*AdviseResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// AdviseRequest contains the input for advisory generation
type AdviseRequest struct {
	// Evaluation is the deterministic rule outcome the advisory narrates.
	// The advisory explains it and never re-decides it.
	Evaluation model.Evaluation

	// AllowedSchemes is the STRICT allowlist of schemes the LLM can discuss
	// This prevents hallucination - the LLM cannot recommend any scheme not in this list
	AllowedSchemes []string

	// KnownSchemes is every scheme name the rule engine recognizes, used to
	// detect mentions of schemes outside the allowlist
	KnownSchemes []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// AdviseResponse contains the LLM's advisory output
type AdviseResponse struct {
	// Advisory is the generated narrative text
	Advisory string

	// MentionedSchemes are the known schemes the text references (for verification)
	MentionedSchemes []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictSchemes enforces the scheme allowlist (should always be true)
	StrictSchemes bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:      "", // Disabled by default
		Model:         "",
		Timeout:       30,
		StrictSchemes: true, // CRITICAL: Always enforce
		MaxTokens:     1000,
	}
}

const advisorySystemPrompt = "You are a development-planning assistant that drafts Forest Rights Act scheme advisories with strict adherence to the allowed scheme list."

// BuildPrompt constructs the default prompt for advisory generation with strict scheme mode
func BuildPrompt(eval model.Evaluation, allowedSchemes []string) string {
	prompt := fmt.Sprintf(`You are drafting a short advisory note for a Forest Rights Act village development plan. Eligibility and scores were decided by a deterministic rule engine - you explain them, you NEVER re-decide them.

CRITICAL RULES:
1. You MUST ONLY discuss schemes from this allowed list:
%s

2. DO NOT suggest schemes outside this list or invent new benefits.
3. DO NOT change, question, or re-derive any score or eligibility outcome.
4. If no schemes qualified, state that explicitly and stop.

Evaluation Summary:
- Total Score: %d
- Qualifying Rules: %d

Qualifying Schemes:
`, joinSchemes(allowedSchemes), eval.TotalScore, len(eval.Recommendations))

	for _, rec := range eval.Recommendations {
		prompt += fmt.Sprintf("- %s (+%d): %s\n", rec.Scheme, rec.Score, rec.Reason)
	}

	prompt += "\nProvide a 3-4 sentence advisory on sequencing these schemes for the village."

	return prompt
}

// Helper functions

func joinSchemes(schemes []string) string {
	if len(schemes) == 0 {
		return "(No schemes qualified)"
	}
	result := ""
	for _, scheme := range schemes {
		result += fmt.Sprintf("\n- %s", scheme)
	}
	return result
}

// findSchemes returns the known schemes mentioned in text, case-insensitively
func findSchemes(text string, known []string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, scheme := range known {
		if scheme == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(scheme)) {
			found = append(found, scheme)
		}
	}
	return found
}

// checkSchemeLeak rejects text that mentions a known scheme outside the allowlist
func checkSchemeLeak(mentioned, allowed []string) error {
	for _, scheme := range mentioned {
		if !contains(allowed, scheme) {
			return fmt.Errorf("SCHEME LEAK: advisory mentions unlisted scheme: %s", scheme)
		}
	}
	return nil
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
