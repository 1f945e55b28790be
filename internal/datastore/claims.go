package datastore

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned for lookups that match nothing
var ErrNotFound = errors.New("not found")

// SaveClaim inserts or updates one claim keyed by its public id
func (ds *DataStore) SaveClaim(claim *StoredClaim) error {
	if claim.ClaimID == "" {
		return fmt.Errorf("claim id is required")
	}
	claim.Status = strings.ToLower(claim.Status)
	err := ds.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "claim_id"}},
		UpdateAll: true,
	}).Create(claim).Error
	if err != nil {
		return fmt.Errorf("save claim %s: %w", claim.ClaimID, err)
	}
	return nil
}

// SaveClaims bulk-upserts claims in one transaction and returns the number
// accepted. Rows without a claim id are skipped, not fatal.
func (ds *DataStore) SaveClaims(claims []StoredClaim) (int, error) {
	saved := 0
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		for i := range claims {
			if claims[i].ClaimID == "" {
				continue
			}
			claims[i].Status = strings.ToLower(claims[i].Status)
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "claim_id"}},
				UpdateAll: true,
			}).Create(&claims[i]).Error
			if err != nil {
				return fmt.Errorf("save claim %s: %w", claims[i].ClaimID, err)
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return saved, nil
}

// GetClaim fetches one claim by public id
func (ds *DataStore) GetClaim(claimID string) (StoredClaim, error) {
	var claim StoredClaim
	err := ds.DB.Where("claim_id = ?", claimID).First(&claim).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StoredClaim{}, ErrNotFound
	}
	if err != nil {
		return StoredClaim{}, fmt.Errorf("get claim %s: %w", claimID, err)
	}
	return claim, nil
}

// ListClaims returns a filtered page plus the total matching count
func (ds *DataStore) ListClaims(q ClaimQuery) ([]StoredClaim, int64, error) {
	tx := ds.DB.Model(&StoredClaim{})
	if q.State != "" {
		tx = tx.Where("state = ?", q.State)
	}
	if q.District != "" {
		tx = tx.Where("district = ?", q.District)
	}
	if q.Village != "" {
		tx = tx.Where("village = ?", q.Village)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", strings.ToLower(q.Status))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count claims: %w", err)
	}

	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var claims []StoredClaim
	err := tx.Order("id").Limit(limit).Offset(q.Offset).Find(&claims).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list claims: %w", err)
	}
	return claims, total, nil
}

// DeleteClaim removes a claim by public id
func (ds *DataStore) DeleteClaim(claimID string) error {
	res := ds.DB.Where("claim_id = ?", claimID).Delete(&StoredClaim{})
	if res.Error != nil {
		return fmt.Errorf("delete claim %s: %w", claimID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClaimStats computes the dashboard rollup in one pass per status
func (ds *DataStore) ClaimStats() (ClaimStats, error) {
	var stats ClaimStats

	if err := ds.DB.Model(&StoredClaim{}).Count(&stats.ClaimsCount).Error; err != nil {
		return stats, fmt.Errorf("count claims: %w", err)
	}

	type statusCount struct {
		Status string
		N      int64
	}
	var rows []statusCount
	err := ds.DB.Model(&StoredClaim{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return stats, fmt.Errorf("count by status: %w", err)
	}
	for _, r := range rows {
		switch r.Status {
		case "approved":
			stats.ApprovedClaims = r.N
		case "pending":
			stats.PendingClaims = r.N
		case "rejected":
			stats.RejectedClaims = r.N
		}
	}

	err = ds.DB.Model(&StoredClaim{}).
		Select("coalesce(sum(area_ha), 0)").
		Scan(&stats.TotalAreaHa).Error
	if err != nil {
		return stats, fmt.Errorf("sum area: %w", err)
	}
	return stats, nil
}

// VillageStats rolls up stored claims for one village
func (ds *DataStore) VillageStats(village string) (VillageStats, error) {
	stats := VillageStats{Village: village}

	var claims []StoredClaim
	err := ds.DB.Where("village = ?", village).Find(&claims).Error
	if err != nil {
		return stats, fmt.Errorf("village stats %s: %w", village, err)
	}

	for _, c := range claims {
		stats.ClaimsCount++
		if c.Status == "approved" {
			stats.ApprovedClaims++
		}
		stats.TotalAreaHa += c.AreaHa
		if stats.District == "" {
			stats.District = c.District
			stats.State = c.State
		}
	}
	return stats, nil
}
