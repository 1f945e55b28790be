package model

// DistrictFallback is the sentinel used when a source row carries no usable
// district or village name (state-level datasets report aggregated rows).
const DistrictFallback = "Multiple Districts"

// Claim represents one normalized FRA claims record from any source endpoint
type Claim struct {
	ID       string `json:"id"`                // Synthesized unique id (endpoint key + row id + timestamp + suffix)
	State    string `json:"state"`             // State or union territory name as reported by the source
	District string `json:"district"`          // District name, or DistrictFallback
	Village  string `json:"village,omitempty"` // Village name when the dataset resolves that deep

	Type   ClaimType   `json:"claim_type"` // Individual or Community
	Status ClaimStatus `json:"status"`     // Derived from approval rate unless the source forces it

	Coordinates Coordinates `json:"coordinates"` // Jittered state-seed position for map placement

	Individual Counts `json:"individual_claims"`
	Community  Counts `json:"community_claims"`
	Total      Counts `json:"total_claims"`

	ApprovalRate float64 `json:"approval_rate"` // Percent, one decimal, clamped to [0,100]
	AreaHectares float64 `json:"area_hectares"` // Sourced, or estimated from titles distributed

	Year        string `json:"year,omitempty"` // Dataset vintage tag (e.g. "2024")
	Source      string `json:"source"`         // Human-readable dataset label
	LastUpdated string `json:"last_updated"`   // As-on date carried from the dataset
}

// Counts pairs claims received with titles distributed
type Counts struct {
	Received    int `json:"received"`
	Distributed int `json:"distributed"`
}

// Add returns the component-wise sum of two counts
func (c Counts) Add(other Counts) Counts {
	return Counts{
		Received:    c.Received + other.Received,
		Distributed: c.Distributed + other.Distributed,
	}
}

// IsZero reports whether both counters are zero
func (c Counts) IsZero() bool {
	return c.Received == 0 && c.Distributed == 0
}

// Coordinates is a WGS84 point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ClaimType categorizes who holds the claim
type ClaimType string

const (
	ClaimTypeIndividual ClaimType = "Individual" // IFR: individual forest rights
	ClaimTypeCommunity  ClaimType = "Community"  // CFR/CR: community forest resource rights
)

// ClaimStatus is the processing state shown on the dashboard
type ClaimStatus string

const (
	StatusApproved    ClaimStatus = "Approved"
	StatusUnderReview ClaimStatus = "Under Review"
	StatusPending     ClaimStatus = "Pending"
	StatusRejected    ClaimStatus = "Rejected"
)

// StatusForRate maps an approval rate to a claim status using fixed bands:
// >=70 approved, 40-69 under review, 10-39 pending, below 10 rejected.
// Sources that force a status (the rejected-claims dataset) bypass this.
func StatusForRate(rate float64) ClaimStatus {
	switch {
	case rate >= 70:
		return StatusApproved
	case rate >= 40:
		return StatusUnderReview
	case rate >= 10:
		return StatusPending
	default:
		return StatusRejected
	}
}

// ValidStatus reports whether s is one of the known claim statuses
func ValidStatus(s ClaimStatus) bool {
	switch s {
	case StatusApproved, StatusUnderReview, StatusPending, StatusRejected:
		return true
	default:
		return false
	}
}
