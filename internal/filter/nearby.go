package filter

import (
	"math"
	"sort"

	"github.com/openfra/fra-atlas/internal/model"
)

const earthRadiusKm = 6371.0

// NearbyResult pairs a claim with its distance from a query point
type NearbyResult struct {
	Claim      model.Claim `json:"claim"`
	DistanceKm float64     `json:"distance_km"`
}

// Nearby returns claims within radiusKm of the center, nearest first.
// A non-positive radius returns nothing.
func Nearby(claims []model.Claim, center model.Coordinates, radiusKm float64) []NearbyResult {
	if radiusKm <= 0 {
		return nil
	}
	out := make([]NearbyResult, 0)
	for _, c := range claims {
		d := Haversine(center, c.Coordinates)
		if d <= radiusKm {
			out = append(out, NearbyResult{Claim: c, DistanceKm: math.Round(d*100) / 100})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}

// Haversine returns the great-circle distance between two points in km
func Haversine(a, b model.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
