// Package geometry converts region boundaries into GPU-renderable
// triangle meshes, including the reduced-detail variants used at low
// zoom levels.
package geometry

import (
	"fmt"

	"github.com/rclancey/earcut"

	"github.com/antonzymin-eng/imperii-map/internal/mapdata"
)

// Triangulate converts a simple polygon into a triangle index list.
// Input is an ordered boundary of at least 3 points where the last
// point is distinct from the first. Output indices reference positions
// 0..len(pts)-1 of the input and come in groups of three.
//
// A nil error guarantees a non-empty result with a length that is a
// positive multiple of 3 and every index in range. Callers treat an
// error as a per-region failure, not a fatal one.
func Triangulate(pts []mapdata.Point) ([]uint32, error) {
	if len(pts) < 3 {
		return nil, fmt.Errorf("polygon has %d points, need at least 3", len(pts))
	}

	// Earcut consumes a flat [x0 y0 x1 y1 ...] coordinate list.
	coords := make([]float64, 0, len(pts)*2)
	for _, p := range pts {
		coords = append(coords, float64(p.X), float64(p.Y))
	}

	raw, err := earcut.Earcut(coords, nil, 2)
	if err != nil {
		return nil, fmt.Errorf("earcut: %w", err)
	}
	if len(raw) < 3 || len(raw)%3 != 0 {
		return nil, fmt.Errorf("degenerate triangulation: %d indices", len(raw))
	}

	out := make([]uint32, len(raw))
	for i, idx := range raw {
		if idx < 0 || idx >= len(pts) {
			return nil, fmt.Errorf("triangulation index %d out of range [0,%d)", idx, len(pts))
		}
		out[i] = uint32(idx)
	}
	return out, nil
}

// TriangleAreaSum returns the summed area of the triangles described by
// indices over pts. Used to validate triangulations against the
// polygon's shoelace area.
func TriangleAreaSum(pts []mapdata.Point, indices []uint32) float32 {
	var sum float64
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := pts[indices[i]], pts[indices[i+1]], pts[indices[i+2]]
		cross := float64(b.X-a.X)*float64(c.Y-a.Y) - float64(c.X-a.X)*float64(b.Y-a.Y)
		if cross < 0 {
			cross = -cross
		}
		sum += cross / 2
	}
	return float32(sum)
}
