package model

import "time"

// RunSnapshot summarizes one aggregation run across all registry endpoints.
// Partial failures are first-class data here: a run that lost endpoints still
// completes, and the snapshot says exactly which sources contributed.
type RunSnapshot struct {
	Generation int64     `json:"generation"`  // Monotonic run counter; stale runs never replace newer ones
	StartedAt  time.Time `json:"started_at"`  // UTC
	DurationMS int64     `json:"duration_ms"` // Wall time for the whole run
	Records    int       `json:"records"`     // Claims in the aggregated collection
	Failed     int       `json:"failed_endpoints"`
	Succeeded  int       `json:"succeeded_endpoints"`

	Endpoints []EndpointResult `json:"endpoints"`
}

// EndpointResult records the outcome of one endpoint fetch within a run
type EndpointResult struct {
	Key        string `json:"key"`
	Title      string `json:"title,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Records    int    `json:"records"`           // Claims contributed after normalization
	Skipped    int    `json:"skipped,omitempty"` // Rows dropped (aggregate rows, missing state)
	Cached     bool   `json:"cached,omitempty"`  // Served from the response cache
	Failed     bool   `json:"failed"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// Degraded reports whether the run lost at least one endpoint
func (s *RunSnapshot) Degraded() bool {
	return s.Failed > 0
}

// EndpointStatus is the result of probing one endpoint for availability.
// Used by the api-status surface, not by aggregation runs.
type EndpointStatus struct {
	Key          string `json:"key"`
	Title        string `json:"title"`
	Resource     string `json:"resource"`
	IsAccessible bool   `json:"is_accessible"`
	StatusCode   int    `json:"status_code,omitempty"`
	Records      int    `json:"sample_records"` // Records in the limit=1 probe response
	Error        string `json:"error,omitempty"`
}
