// Package mapview assembles the CPU side of the map's bulk upload
// phase: full-detail triangulation, LOD index buffers and packed
// attribute texel buffers, ready for a single push to the GPU.
package mapview

import (
	"github.com/antonzymin-eng/imperii-map/internal/mapdata"
	"github.com/antonzymin-eng/imperii-map/internal/mapview/atlas"
	"github.com/antonzymin-eng/imperii-map/internal/mapview/geometry"
)

// Scene is everything the render coordinator needs to upload, plus the
// CPU-side lookups used for picking and diagnostics.
type Scene struct {
	Regions []*mapdata.Region
	Mesh    *geometry.MapMesh
	Layout  atlas.Layout
	Colors  []byte
	Meta    []byte
}

// BuildScene runs the bulk phase over the given regions: triangulate
// everything, derive the LOD buffers and pack the attribute texels.
// Per-region failures are absorbed inside the stages; BuildScene always
// returns a usable scene.
func BuildScene(regions []*mapdata.Region, rowWidth, maxTextureDim int) *Scene {
	mesh := geometry.BuildMesh(regions)
	layout := atlas.ComputeLayout(len(regions), rowWidth, maxTextureDim)

	return &Scene{
		Regions: regions,
		Mesh:    mesh,
		Layout:  layout,
		Colors:  atlas.PackColors(regions, layout),
		Meta:    atlas.PackMetadata(regions, layout),
	}
}

// ColorAt reads the packed color texel of a region identifier. The
// second return is false for identifiers beyond texture capacity.
func (s *Scene) ColorAt(id uint32) (mapdata.Color, bool) {
	if int(id) >= s.Layout.Capacity() {
		return mapdata.Color{}, false
	}
	u, v := s.Layout.TexelFor(id)
	off := (v*s.Layout.Width + u) * 4
	return mapdata.Color{
		R: s.Colors[off+0],
		G: s.Colors[off+1],
		B: s.Colors[off+2],
		A: s.Colors[off+3],
	}, true
}

// TerrainCodeAt reads the packed classification byte of a region
// identifier.
func (s *Scene) TerrainCodeAt(id uint32) (uint8, bool) {
	if int(id) >= s.Layout.Capacity() {
		return 0, false
	}
	u, v := s.Layout.TexelFor(id)
	return s.Meta[(v*s.Layout.Width+u)*4], true
}

// RegionAt returns the region containing the given world point, or nil.
// Bounding boxes narrow the candidates; the exact answer comes from a
// point-in-polygon test on the boundary.
func (s *Scene) RegionAt(x, y float32) *mapdata.Region {
	for _, r := range s.Regions {
		if r == nil || !r.Bounds.Contains(x, y) {
			continue
		}
		if pointInPolygon(x, y, r.Boundary) {
			return r
		}
	}
	return nil
}

// pointInPolygon is a standard ray-crossing test.
func pointInPolygon(x, y float32, pts []mapdata.Point) bool {
	inside := false
	n := len(pts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := pts[i], pts[j]
		if (pi.Y > y) != (pj.Y > y) &&
			x < (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}
