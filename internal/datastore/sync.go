package datastore

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/openfra/fra-atlas/internal/model"
)

// SaveSyncRun records a completed aggregation run
func (ds *DataStore) SaveSyncRun(run *SyncRun) error {
	if err := ds.DB.Create(run).Error; err != nil {
		return fmt.Errorf("save sync run: %w", err)
	}
	return nil
}

// LatestSyncRun returns the most recent run
func (ds *DataStore) LatestSyncRun() (SyncRun, error) {
	var run SyncRun
	err := ds.DB.Order("id desc").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return SyncRun{}, ErrNotFound
	}
	if err != nil {
		return SyncRun{}, fmt.Errorf("latest sync run: %w", err)
	}
	return run, nil
}

// ListSyncRuns returns recent runs, newest first
func (ds *DataStore) ListSyncRuns(limit int) ([]SyncRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var runs []SyncRun
	err := ds.DB.Order("id desc").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	return runs, nil
}

// FromClaim converts an aggregated claim into its stored form. Type and
// status are lowercased to match stored-claim conventions.
func FromClaim(c model.Claim) StoredClaim {
	return StoredClaim{
		ClaimID:   c.ID,
		Village:   c.Village,
		District:  c.District,
		State:     c.State,
		ClaimType: strings.ToLower(string(c.Type)),
		Status:    strings.ToLower(string(c.Status)),
		Lat:       c.Coordinates.Lat,
		Lng:       c.Coordinates.Lng,
		AreaHa:    c.AreaHectares,
		Source:    c.Source,
	}
}

// FromClaims converts a run's collection, keeping only the listed states.
// An empty state list keeps everything.
func FromClaims(claims []model.Claim, states []string) []StoredClaim {
	keep := make(map[string]bool, len(states))
	for _, s := range states {
		keep[strings.ToLower(s)] = true
	}
	out := make([]StoredClaim, 0, len(claims))
	for _, c := range claims {
		if len(keep) > 0 && !keep[strings.ToLower(c.State)] {
			continue
		}
		out = append(out, FromClaim(c))
	}
	return out
}
