package normalize

import (
	"strings"

	"github.com/openfra/fra-atlas/internal/model"
)

// indiaCentroid anchors records whose state has no seed entry.
var indiaCentroid = model.Coordinates{Lat: 22.9734, Lng: 78.6569}

// stateSeeds holds approximate state and union territory centroids used to
// place markers for datasets that carry no geometry. These are heuristic map
// anchors, not surveyed positions; per-record jitter separates markers from
// the same state. Config can override or extend the table.
var stateSeeds = map[string]model.Coordinates{
	"andhra pradesh":    {Lat: 15.9129, Lng: 79.7400},
	"arunachal pradesh": {Lat: 28.2180, Lng: 94.7278},
	"assam":             {Lat: 26.2006, Lng: 92.9376},
	"bihar":             {Lat: 25.0961, Lng: 85.3131},
	"chhattisgarh":      {Lat: 21.2787, Lng: 81.8661},
	"goa":               {Lat: 15.2993, Lng: 74.1240},
	"gujarat":           {Lat: 22.2587, Lng: 71.1924},
	"haryana":           {Lat: 29.0588, Lng: 76.0856},
	"himachal pradesh":  {Lat: 31.1048, Lng: 77.1734},
	"jharkhand":         {Lat: 23.6102, Lng: 85.2799},
	"karnataka":         {Lat: 15.3173, Lng: 75.7139},
	"kerala":            {Lat: 10.8505, Lng: 76.2711},
	"madhya pradesh":    {Lat: 23.4733, Lng: 77.9470},
	"maharashtra":       {Lat: 19.7515, Lng: 75.7139},
	"manipur":           {Lat: 24.6637, Lng: 93.9063},
	"meghalaya":         {Lat: 25.4670, Lng: 91.3662},
	"mizoram":           {Lat: 23.1645, Lng: 92.9376},
	"nagaland":          {Lat: 26.1584, Lng: 94.5624},
	"odisha":            {Lat: 20.9517, Lng: 85.0985},
	"punjab":            {Lat: 31.1471, Lng: 75.3412},
	"rajasthan":         {Lat: 27.0238, Lng: 74.2179},
	"sikkim":            {Lat: 27.5330, Lng: 88.5122},
	"tamil nadu":        {Lat: 11.1271, Lng: 78.6569},
	"telangana":         {Lat: 18.1124, Lng: 79.0193},
	"tripura":           {Lat: 23.9408, Lng: 91.9882},
	"uttar pradesh":     {Lat: 26.8467, Lng: 80.9462},
	"uttarakhand":       {Lat: 30.0668, Lng: 79.0193},
	"west bengal":       {Lat: 22.9868, Lng: 87.8550},

	"andaman and nicobar islands":              {Lat: 11.7401, Lng: 92.6586},
	"chandigarh":                               {Lat: 30.7333, Lng: 76.7794},
	"dadra and nagar haveli and daman and diu": {Lat: 20.1809, Lng: 73.0169},
	"delhi":             {Lat: 28.7041, Lng: 77.1025},
	"jammu and kashmir": {Lat: 33.7782, Lng: 76.5762},
	"ladakh":            {Lat: 34.1526, Lng: 77.5771},
	"lakshadweep":       {Lat: 10.5667, Lng: 72.6417},
	"puducherry":        {Lat: 11.9416, Lng: 79.8083},
}

// SeedFor returns the seed coordinate for a state name, falling back to the
// national centroid. Lookup is case-insensitive since datasets disagree on
// capitalization ("MADHYA PRADESH" vs "Madhya Pradesh").
func SeedFor(state string, overrides map[string]model.Coordinates) model.Coordinates {
	key := strings.ToLower(strings.TrimSpace(state))
	if overrides != nil {
		for name, c := range overrides {
			if strings.ToLower(strings.TrimSpace(name)) == key {
				return c
			}
		}
	}
	if c, ok := stateSeeds[key]; ok {
		return c
	}
	return indiaCentroid
}
