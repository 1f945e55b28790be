package datastore

import "time"

// StoredClaim is a parcel-level claim record managed through the API, as
// opposed to the in-memory aggregation collection which is rebuilt per run.
// Public ids follow the "IFR-001"/"CFR-001" convention.
type StoredClaim struct {
	ID      uint   `gorm:"primaryKey" json:"-"`
	ClaimID string `gorm:"uniqueIndex;size:64" json:"id"`

	HolderName string `json:"holder_name,omitempty"`
	Village    string `gorm:"index" json:"village,omitempty"`
	District   string `gorm:"index" json:"district,omitempty"`
	State      string `gorm:"index:idx_claims_state_status" json:"state"`

	ClaimType string `json:"claim_type,omitempty"` // individual or community
	Status    string `gorm:"index:idx_claims_state_status" json:"status"`

	Lat float64 `json:"lat,omitempty"`
	Lng float64 `json:"lng,omitempty"`
	// Geometry holds a GeoJSON geometry as text; parcel polygons when
	// surveyed, empty for point-only records.
	Geometry string  `gorm:"type:text" json:"geometry,omitempty"`
	AreaHa   float64 `json:"area_ha"`

	// Source tags imported records with the aggregation id they came from.
	Source string `json:"source,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document is an uploaded claim document awaiting or carrying OCR output
type Document struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Filename string `gorm:"index" json:"filename"`
	// StoredPath is the on-disk location under the uploads directory.
	StoredPath  string `json:"-"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`

	ClaimID    *uint  `gorm:"index" json:"claim_id,omitempty"`
	UploadedBy string `json:"uploaded_by,omitempty"`

	Status string `gorm:"index" json:"status"` // uploaded, processing, processed, failed

	// ExtractedText and EntitiesJSON are filled once OCR completes.
	ExtractedText string `gorm:"type:text" json:"extracted_text,omitempty"`
	EntitiesJSON  string `gorm:"type:text" json:"entities,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document statuses
const (
	DocumentUploaded   = "uploaded"
	DocumentProcessing = "processing"
	DocumentProcessed  = "processed"
	DocumentFailed     = "failed"
)

// OCRJob tracks one OCR pass over a document
type OCRJob struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	DocumentID uint   `gorm:"index" json:"document_id"`
	Status     string `gorm:"index" json:"status"` // queued, running, done, failed
	Engine     string `json:"engine,omitempty"`

	Text         string  `gorm:"type:text" json:"text,omitempty"`
	EntitiesJSON string  `gorm:"type:text" json:"entities,omitempty"`
	Confidence   float64 `json:"confidence,omitempty"`
	Error        string  `json:"error,omitempty"`

	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// OCR job statuses
const (
	JobQueued  = "queued"
	JobRunning = "running"
	JobDone    = "done"
	JobFailed  = "failed"
)

// SyncRun records one aggregation run persisted for history and dashboards
type SyncRun struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Generation int64     `gorm:"index" json:"generation"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Records    int       `json:"records"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Degraded   bool      `json:"degraded"`
	// DetailJSON is the serialized per-endpoint result list.
	DetailJSON string    `gorm:"type:text" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
