package services

import (
	"math"
	"sort"

	"cortex/domain/config"
	"cortex/domain/core/valueobjects"
)

// PositionEvent ties a canvas position to the entity that produced it.
type PositionEvent struct {
	Position valueobjects.Position
	OwnerID  string
}

// ActivityRegion is a cell of the canvas where several events landed.
type ActivityRegion struct {
	CellX      int      `json:"cell_x"`
	CellY      int      `json:"cell_y"`
	EventCount int      `json:"event_count"`
	OwnerIDs   []string `json:"owner_ids"`
	CenterX    float64  `json:"center_x"`
	CenterY    float64  `json:"center_y"`
}

// SpatialClusterDetector bins 2D positions into a fixed grid and reports
// cells with repeated activity. This is a single-pass spatial hash, not a
// density clustering algorithm: no refinement, no noise rejection.
type SpatialClusterDetector struct {
	config *config.DomainConfig
}

// NewSpatialClusterDetector creates a spatial cluster detector
func NewSpatialClusterDetector(cfg *config.DomainConfig) *SpatialClusterDetector {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &SpatialClusterDetector{config: cfg}
}

// Detect returns the busy regions of the canvas. When the bounding box of
// all positions fits within the compact region size on both axes, everything
// is one region; otherwise the box is divided into a fixed grid and only
// cells with enough events are reported.
func (sd *SpatialClusterDetector) Detect(events []PositionEvent) []ActivityRegion {
	if len(events) == 0 {
		return []ActivityRegion{}
	}

	minX, minY := events[0].Position.X(), events[0].Position.Y()
	maxX, maxY := minX, minY
	for _, ev := range events[1:] {
		minX = math.Min(minX, ev.Position.X())
		minY = math.Min(minY, ev.Position.Y())
		maxX = math.Max(maxX, ev.Position.X())
		maxY = math.Max(maxY, ev.Position.Y())
	}

	width := maxX - minX
	height := maxY - minY

	if width < sd.config.CompactRegionSize && height < sd.config.CompactRegionSize {
		return []ActivityRegion{{
			CellX:      0,
			CellY:      0,
			EventCount: len(events),
			OwnerIDs:   distinctOwners(events),
			CenterX:    minX + width/2,
			CenterY:    minY + height/2,
		}}
	}

	cellSize := math.Max(width, height) / float64(sd.config.GridDivisions)

	type cellKey struct{ x, y int }
	cells := make(map[cellKey][]PositionEvent)
	for _, ev := range events {
		key := cellKey{
			x: clampCell(int(math.Floor((ev.Position.X()-minX)/cellSize)), sd.config.GridDivisions),
			y: clampCell(int(math.Floor((ev.Position.Y()-minY)/cellSize)), sd.config.GridDivisions),
		}
		cells[key] = append(cells[key], ev)
	}

	regions := []ActivityRegion{}
	for key, members := range cells {
		// Membership is decided by distinct coordinates, so a burst of events
		// at one spot does not make a cell a region on its own. The event
		// count still reports every event in the cell.
		if distinctPositionCount(members) < sd.config.MinPositionsPerCell {
			continue
		}
		regions = append(regions, ActivityRegion{
			CellX:      key.x,
			CellY:      key.y,
			EventCount: len(members),
			OwnerIDs:   distinctOwners(members),
			CenterX:    minX + (float64(key.x)+0.5)*cellSize,
			CenterY:    minY + (float64(key.y)+0.5)*cellSize,
		})
	}

	sort.Slice(regions, func(i, j int) bool {
		if regions[i].CellY != regions[j].CellY {
			return regions[i].CellY < regions[j].CellY
		}
		return regions[i].CellX < regions[j].CellX
	})

	return regions
}

// clampCell keeps positions on the max edge of the bounding box inside the
// last cell instead of spilling into an extra row or column
func clampCell(cell, divisions int) int {
	if cell >= divisions {
		return divisions - 1
	}
	if cell < 0 {
		return 0
	}
	return cell
}

func distinctPositionCount(events []PositionEvent) int {
	type point struct{ x, y float64 }
	seen := make(map[point]bool, len(events))
	for _, ev := range events {
		seen[point{ev.Position.X(), ev.Position.Y()}] = true
	}
	return len(seen)
}

func distinctOwners(events []PositionEvent) []string {
	seen := make(map[string]bool)
	owners := []string{}
	for _, ev := range events {
		if ev.OwnerID == "" || seen[ev.OwnerID] {
			continue
		}
		seen[ev.OwnerID] = true
		owners = append(owners, ev.OwnerID)
	}
	sort.Strings(owners)
	return owners
}
