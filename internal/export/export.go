package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/openfra/fra-atlas/internal/model"
)

type pointGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // GeoJSON order: lng, lat
}

type pointProperties struct {
	ID                    string  `json:"id"`
	State                 string  `json:"state"`
	District              string  `json:"district"`
	Village               string  `json:"village,omitempty"`
	ClaimType             string  `json:"claim_type"`
	Status                string  `json:"status"`
	IndividualReceived    int     `json:"individual_received"`
	IndividualDistributed int     `json:"individual_distributed"`
	CommunityReceived     int     `json:"community_received"`
	CommunityDistributed  int     `json:"community_distributed"`
	TotalReceived         int     `json:"total_received"`
	TotalDistributed      int     `json:"total_distributed"`
	ApprovalRate          float64 `json:"approval_rate"`
	AreaHectares          float64 `json:"area_hectares"`
	Year                  string  `json:"year,omitempty"`
	Source                string  `json:"source"`
	LastUpdated           string  `json:"last_updated"`
}

type pointFeature struct {
	Type       string          `json:"type"`
	Geometry   pointGeometry   `json:"geometry"`
	Properties pointProperties `json:"properties"`
}

type featureCollection struct {
	Type     string         `json:"type"`
	Features []pointFeature `json:"features"`
}

// GeoJSON renders claims as a FeatureCollection of Point features
func GeoJSON(claims []model.Claim) ([]byte, error) {
	fc := featureCollection{
		Type:     "FeatureCollection",
		Features: make([]pointFeature, 0, len(claims)),
	}

	for _, c := range claims {
		fc.Features = append(fc.Features, pointFeature{
			Type: "Feature",
			Geometry: pointGeometry{
				Type:        "Point",
				Coordinates: []float64{c.Coordinates.Lng, c.Coordinates.Lat},
			},
			Properties: pointProperties{
				ID:                    c.ID,
				State:                 c.State,
				District:              c.District,
				Village:               c.Village,
				ClaimType:             string(c.Type),
				Status:                string(c.Status),
				IndividualReceived:    c.Individual.Received,
				IndividualDistributed: c.Individual.Distributed,
				CommunityReceived:     c.Community.Received,
				CommunityDistributed:  c.Community.Distributed,
				TotalReceived:         c.Total.Received,
				TotalDistributed:      c.Total.Distributed,
				ApprovalRate:          c.ApprovalRate,
				AreaHectares:          c.AreaHectares,
				Year:                  c.Year,
				Source:                c.Source,
				LastUpdated:           c.LastUpdated,
			},
		})
	}

	return json.MarshalIndent(fc, "", "  ")
}

var csvHeader = []string{
	"id", "state", "district", "village", "claim_type", "status",
	"lat", "lng",
	"individual_received", "individual_distributed",
	"community_received", "community_distributed",
	"total_received", "total_distributed",
	"approval_rate", "area_hectares", "year", "source", "last_updated",
}

// CSV renders claims as a flat spreadsheet with a fixed header row
func CSV(claims []model.Claim) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, c := range claims {
		row := []string{
			c.ID, c.State, c.District, c.Village, string(c.Type), string(c.Status),
			strconv.FormatFloat(c.Coordinates.Lat, 'f', 6, 64),
			strconv.FormatFloat(c.Coordinates.Lng, 'f', 6, 64),
			strconv.Itoa(c.Individual.Received), strconv.Itoa(c.Individual.Distributed),
			strconv.Itoa(c.Community.Received), strconv.Itoa(c.Community.Distributed),
			strconv.Itoa(c.Total.Received), strconv.Itoa(c.Total.Distributed),
			strconv.FormatFloat(c.ApprovalRate, 'f', 1, 64),
			strconv.FormatFloat(c.AreaHectares, 'f', 2, 64),
			c.Year, c.Source, c.LastUpdated,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename builds a timestamped download name like fra-claims-20240630-1415.csv
func Filename(prefix, ext string, at time.Time) string {
	return fmt.Sprintf("%s-%s.%s", prefix, at.Format("20060102-1504"), ext)
}
