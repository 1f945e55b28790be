package geo

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
)

// FeatureCollection is the subset of GeoJSON the atlas needs. Geometries
// pass through as raw JSON; only properties are read and annotated.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// Layer ids served under /api/geo/layers/
const (
	LayerStates    = "states"
	LayerDistricts = "districts"
	LayerVillages  = "villages"
)

// Layers holds the optional boundary overlays. A missing or unreadable file
// just leaves that overlay out; the map renders without it.
type Layers struct {
	mu   sync.RWMutex
	byID map[string]*FeatureCollection
}

// LoadLayers reads the configured boundary files. Load failures are logged
// and skipped, never fatal.
func LoadLayers(paths map[string]string, log *slog.Logger) *Layers {
	l := &Layers{byID: make(map[string]*FeatureCollection)}
	for id, path := range paths {
		if path == "" {
			continue
		}
		fc, err := readCollection(path)
		if err != nil {
			if log != nil {
				log.Warn("boundary layer unavailable", "layer", id, "path", path, "error", err)
			}
			continue
		}
		l.byID[id] = fc
		if log != nil {
			log.Info("boundary layer loaded", "layer", id, "features", len(fc.Features))
		}
	}
	return l
}

func readCollection(path string) (*FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%s: not a FeatureCollection", path)
	}
	return &fc, nil
}

// Get returns a loaded layer by id
func (l *Layers) Get(id string) (*FeatureCollection, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fc, ok := l.byID[id]
	return fc, ok
}

// Set installs or replaces a layer, used for the built-in villages sample
func (l *Layers) Set(id string, fc *FeatureCollection) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byID[id] = fc
}

// IDs returns the loaded layer ids
func (l *Layers) IDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.byID))
	for id := range l.byID {
		out = append(out, id)
	}
	return out
}

// BBox is a lng/lat bounding box
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// ParseBBox parses "minx,miny,maxx,maxy"
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("bbox needs 4 comma-separated numbers, got %q", s)
	}
	var vals [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("bbox component %d: %w", i, err)
		}
		vals[i] = f
	}
	b := BBox{MinX: vals[0], MinY: vals[1], MaxX: vals[2], MaxY: vals[3]}
	if b.MinX > b.MaxX || b.MinY > b.MaxY {
		return BBox{}, fmt.Errorf("bbox min exceeds max: %q", s)
	}
	return b, nil
}

// Clip returns the features whose geometry extent intersects the box
func Clip(fc *FeatureCollection, box BBox) *FeatureCollection {
	out := &FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(fc.Features))}
	for _, f := range fc.Features {
		ext, ok := extent(f.Geometry)
		if !ok {
			continue
		}
		if ext.MinX <= box.MaxX && ext.MaxX >= box.MinX && ext.MinY <= box.MaxY && ext.MaxY >= box.MinY {
			out.Features = append(out.Features, f)
		}
	}
	return out
}

// extent walks a geometry's nested coordinate arrays and accumulates the
// bounding box. Works for any geometry type since GeoJSON positions are
// always the innermost [lng, lat] pairs.
func extent(geometry json.RawMessage) (BBox, bool) {
	var g struct {
		Coordinates any `json:"coordinates"`
	}
	if err := json.Unmarshal(geometry, &g); err != nil || g.Coordinates == nil {
		return BBox{}, false
	}
	box := BBox{MinX: 180, MinY: 90, MaxX: -180, MaxY: -90}
	found := false
	walkPositions(g.Coordinates, func(lng, lat float64) {
		found = true
		if lng < box.MinX {
			box.MinX = lng
		}
		if lng > box.MaxX {
			box.MaxX = lng
		}
		if lat < box.MinY {
			box.MinY = lat
		}
		if lat > box.MaxY {
			box.MaxY = lat
		}
	})
	return box, found
}

func walkPositions(node any, visit func(lng, lat float64)) {
	arr, ok := node.([]any)
	if !ok || len(arr) == 0 {
		return
	}
	// A position is a flat array of numbers.
	if x, ok := arr[0].(float64); ok {
		if len(arr) >= 2 {
			if y, ok := arr[1].(float64); ok {
				visit(x, y)
			}
		}
		return
	}
	for _, child := range arr {
		walkPositions(child, visit)
	}
}
