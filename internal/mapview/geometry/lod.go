package geometry

import (
	"go.uber.org/zap"

	"github.com/antonzymin-eng/imperii-map/internal/logger"
	"github.com/antonzymin-eng/imperii-map/internal/mapdata"
)

// DecimateSelection picks the local vertex offsets kept at the given
// decimation factor. It steps through the boundary at stride factor
// starting from index 0 and always keeps the final vertex so the
// polygon stays closed. If decimation would leave fewer than 3
// vertices, the full set is returned instead.
func DecimateSelection(count, factor int) []uint32 {
	if count <= 0 {
		return nil
	}
	if factor <= 1 {
		return fullSelection(count)
	}

	sel := make([]uint32, 0, count/factor+2)
	for i := 0; i < count; i += factor {
		sel = append(sel, uint32(i))
	}
	last := uint32(count - 1)
	if sel[len(sel)-1] != last {
		sel = append(sel, last)
	}

	// Never hand a degenerate polygon to the triangulator.
	if len(sel) < 3 {
		return fullSelection(count)
	}
	return sel
}

func fullSelection(count int) []uint32 {
	sel := make([]uint32, count)
	for i := range sel {
		sel[i] = uint32(i)
	}
	return sel
}

// appendLODIndices re-triangulates the decimated boundary of one region
// and appends the result, remapped to shared vertex buffer offsets, to
// mesh.LOD[level]. A region whose decimated boundary fails to
// triangulate contributes zero triangles at this level only.
func appendLODIndices(mesh *MapMesh, region *mapdata.Region, record RegionMeshRecord, fullIndices []uint32, level, factor int) {
	sel := DecimateSelection(len(region.Boundary), factor)

	// Decimation fell back to the full set: reuse the full-detail
	// triangulation instead of re-triangulating the same polygon.
	if len(sel) == len(region.Boundary) {
		for _, idx := range fullIndices {
			mesh.LOD[level] = append(mesh.LOD[level], record.VertexStart+idx)
		}
		return
	}

	pts := make([]mapdata.Point, len(sel))
	for i, s := range sel {
		pts[i] = region.Boundary[s]
	}

	local, err := Triangulate(pts)
	if err != nil {
		logger.Warn("LOD re-triangulation failed, region degrades at this level",
			zap.Uint32("id", region.ID),
			zap.Int("lod", level),
			zap.Int("decimation_factor", factor),
			zap.Int("selected_points", len(pts)),
			zap.Error(err),
		)
		return
	}

	// Remap local triangle indices through the selection table back to
	// shared vertex buffer offsets.
	for _, idx := range local {
		mesh.LOD[level] = append(mesh.LOD[level], record.VertexStart+sel[idx])
	}
}
