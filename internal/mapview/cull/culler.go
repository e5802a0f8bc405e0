// Package cull decides per frame which regions and point features fall
// inside the camera's visible rectangle.
package cull

import (
	"go.uber.org/zap"

	"github.com/antonzymin-eng/imperii-map/internal/logger"
	"github.com/antonzymin-eng/imperii-map/internal/mapdata"
)

// Culler tests region bounding boxes and feature positions against the
// current viewport rectangle. UpdateViewport must be called once per
// frame before any visibility query.
type Culler struct {
	viewport mapdata.Rect
	expanded mapdata.Rect

	// expansion scales the predictive viewport; 1.0 disables it.
	expansion float32

	visibleCount int
	totalCount   int
}

// New creates a culler with the given predictive expansion factor.
// The viewport starts empty: nothing is visible until the first
// UpdateViewport.
func New(expansion float32) *Culler {
	if expansion < 1.0 {
		expansion = 1.0
	}
	return &Culler{expansion: expansion}
}

// UpdateViewport sets the visible world rectangle for this frame and
// derives the expanded predictive rectangle from it.
func (c *Culler) UpdateViewport(bounds mapdata.Rect) {
	c.viewport = bounds
	c.expanded = bounds.Expand(c.expansion)
}

// Viewport returns the current visible rectangle.
func (c *Culler) Viewport() mapdata.Rect {
	return c.viewport
}

// IsVisible reports whether the bounding box overlaps the viewport.
// Touching edges count as visible.
func (c *Culler) IsVisible(bounds mapdata.Rect) bool {
	return c.viewport.Intersects(bounds)
}

// IsVisibleExpanded tests against the predictive viewport instead.
func (c *Culler) IsVisibleExpanded(bounds mapdata.Rect) bool {
	return c.expanded.Intersects(bounds)
}

// IsPointVisible reports whether a world position lies inside the
// viewport.
func (c *Culler) IsPointVisible(x, y float32) bool {
	return c.viewport.Contains(x, y)
}

// IsFeatureVisible gates a point feature on both its configured LOD
// range (inclusive) and point containment in the viewport.
func (c *Culler) IsFeatureVisible(f mapdata.FeatureMarker, currentLOD int) bool {
	if currentLOD < f.LODMin || currentLOD > f.LODMax {
		return false
	}
	return c.IsPointVisible(f.Position.X, f.Position.Y)
}

// UpdateVisibility refreshes every region's Visible flag and the
// visible/total diagnostics counters.
func (c *Culler) UpdateVisibility(regions []*mapdata.Region) {
	c.visibleCount = 0
	c.totalCount = len(regions)

	for _, r := range regions {
		if r == nil {
			continue
		}
		r.Visible = c.IsVisible(r.Bounds)
		if r.Visible {
			c.visibleCount++
		}
	}

	logger.Debug("viewport culling",
		zap.Int("visible", c.visibleCount),
		zap.Int("total", c.totalCount),
	)
}

// VisibleRegions returns the identifiers of regions overlapping the
// viewport. The result is only valid for the frame that produced it.
func (c *Culler) VisibleRegions(regions []*mapdata.Region) []uint32 {
	visible := make([]uint32, 0, len(regions))
	for _, r := range regions {
		if r != nil && c.IsVisible(r.Bounds) {
			visible = append(visible, r.ID)
		}
	}
	return visible
}

// VisibleCount returns the region count of the last UpdateVisibility.
func (c *Culler) VisibleCount() int {
	return c.visibleCount
}

// TotalCount returns the total region count of the last UpdateVisibility.
func (c *Culler) TotalCount() int {
	return c.totalCount
}

// CullingEfficiency returns the fraction of regions culled, 0 when no
// regions are known.
func (c *Culler) CullingEfficiency() float32 {
	if c.totalCount == 0 {
		return 0
	}
	return 1 - float32(c.visibleCount)/float32(c.totalCount)
}
