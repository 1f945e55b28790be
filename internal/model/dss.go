package model

// SchemeRecommendation is a single qualifying rule from the eligibility engine
type SchemeRecommendation struct {
	Rule   string `json:"rule"`
	Scheme string `json:"scheme"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// Evaluation is the outcome of scoring one profile against the scheme rules
type Evaluation struct {
	TotalScore      int                    `json:"total_score"`
	Recommendations []SchemeRecommendation `json:"recommendations"`
}

// Advisory is the optional LLM narrative attached to an evaluation. It is
// generated after scoring and never feeds back into scores or eligibility.
type Advisory struct {
	Enabled       bool     `json:"enabled"`
	Provider      string   `json:"provider,omitempty"`
	Model         string   `json:"model,omitempty"`
	StrictSchemes bool     `json:"strict_schemes"`
	Text          string   `json:"text,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}
