// interfaces.go defines the datastore contract and backend selection
package datastore

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openfra/fra-atlas/internal/model"
)

// Interface abstracts the underlying database so handlers and the pipeline
// never touch gorm directly.
type Interface interface {
	Open() error
	Close() error

	SaveClaim(claim *StoredClaim) error
	SaveClaims(claims []StoredClaim) (int, error)
	GetClaim(claimID string) (StoredClaim, error)
	ListClaims(q ClaimQuery) ([]StoredClaim, int64, error)
	DeleteClaim(claimID string) error
	ClaimStats() (ClaimStats, error)
	VillageStats(village string) (VillageStats, error)

	SaveDocument(doc *Document) error
	GetDocument(id uint) (Document, error)
	ListDocuments(limit, offset int) ([]Document, int64, error)
	DeleteDocument(id uint) error
	SearchDocuments(query string, limit int) ([]Document, error)

	CreateOCRJob(job *OCRJob) error
	UpdateOCRJob(job *OCRJob) error
	GetOCRJob(id uint) (OCRJob, error)
	PendingOCRJobs(limit int) ([]OCRJob, error)

	SaveSyncRun(run *SyncRun) error
	LatestSyncRun() (SyncRun, error)
	ListSyncRuns(limit int) ([]SyncRun, error)
}

// ClaimQuery filters and paginates ListClaims
type ClaimQuery struct {
	State    string
	District string
	Village  string
	Status   string
	Limit    int
	Offset   int
}

// ClaimStats is the dashboard rollup over stored claims
type ClaimStats struct {
	ClaimsCount    int64   `json:"claims_count"`
	ApprovedClaims int64   `json:"approved_claims"`
	PendingClaims  int64   `json:"pending_claims"`
	RejectedClaims int64   `json:"rejected_claims"`
	TotalAreaHa    float64 `json:"total_area_ha"`
}

// VillageStats summarizes stored claims for one village
type VillageStats struct {
	Village        string  `json:"village"`
	District       string  `json:"district,omitempty"`
	State          string  `json:"state,omitempty"`
	ClaimsCount    int64   `json:"claims_count"`
	ApprovedClaims int64   `json:"approved_claims"`
	TotalAreaHa    float64 `json:"total_area_ha"`
}

// DataStore implements Interface on a GORM handle; backend types embed it
// and contribute Open/Close.
type DataStore struct {
	DB *gorm.DB
}

// New selects a backend from config. SQLite is the default when nothing is
// enabled so a bare checkout works without provisioning.
func New(cfg *model.Config) Interface {
	switch {
	case cfg.Database.Postgres.Enabled:
		return &PostgresStore{Config: cfg.Database.Postgres}
	case cfg.Database.SQLite.Enabled:
		return &SQLiteStore{Path: cfg.Database.SQLite.Path}
	default:
		return &SQLiteStore{Path: cfg.Database.SQLite.Path}
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func autoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&StoredClaim{}, &Document{}, &OCRJob{}, &SyncRun{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
