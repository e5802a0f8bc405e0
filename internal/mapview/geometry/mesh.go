package geometry

import (
	"go.uber.org/zap"

	"github.com/antonzymin-eng/imperii-map/internal/logger"
	"github.com/antonzymin-eng/imperii-map/internal/mapdata"
)

// LODCount is the number of detail levels: 0 full, 1 medium, 2 low.
const LODCount = 3

// Vertex is the GPU vertex layout: world position, owning region
// identifier and a texture coordinate normalized to the region's
// bounding box. 20 bytes, matching the shader's attribute bindings.
type Vertex struct {
	X, Y     float32
	RegionID uint32
	U, V     float32
}

// VertexStride is the byte size of one Vertex as uploaded to the GPU.
const VertexStride = 20

// RegionMeshRecord is the per-region bookkeeping of the shared vertex
// buffer. A region occupies the contiguous range
// [VertexStart, VertexStart+VertexCount) and ranges never overlap.
type RegionMeshRecord struct {
	ID          uint32
	VertexStart uint32
	VertexCount uint32
	Area        float32
	Bounds      mapdata.Rect
}

// MapMesh is the output of the bulk geometry build: one shared vertex
// buffer and one combined triangle index buffer per LOD level.
type MapMesh struct {
	Vertices []Vertex
	Records  []RegionMeshRecord

	// LOD[k] holds the combined indices of every region at detail
	// level k. Indices reference the shared vertex buffer.
	LOD [LODCount][]uint32
}

// TriangleCount returns the triangle count of the given LOD level.
func (m *MapMesh) TriangleCount(lod int) int {
	if lod < 0 || lod >= LODCount {
		return 0
	}
	return len(m.LOD[lod]) / 3
}

// BuildMesh triangulates every region and assembles the shared vertex
// buffer plus all LOD index buffers. Regions that fail to triangulate
// are skipped with a warning; the build itself never fails.
func BuildMesh(regions []*mapdata.Region) *MapMesh {
	mesh := &MapMesh{}

	estVerts := 0
	for _, r := range regions {
		if r != nil {
			estVerts += len(r.Boundary)
		}
	}
	mesh.Vertices = make([]Vertex, 0, estVerts)
	mesh.Records = make([]RegionMeshRecord, 0, len(regions))
	for k := range mesh.LOD {
		mesh.LOD[k] = make([]uint32, 0, estVerts*3>>uint(k))
	}

	skipped := 0
	for _, region := range regions {
		if region == nil || len(region.Boundary) == 0 {
			continue
		}

		local, err := Triangulate(region.Boundary)
		if err != nil {
			logger.Warn("triangulation failed, skipping region",
				zap.Uint32("id", region.ID),
				zap.String("name", region.Name),
				zap.Int("boundary_points", len(region.Boundary)),
				zap.Error(err),
			)
			skipped++
			continue
		}

		base := uint32(len(mesh.Vertices))
		appendRegionVertices(mesh, region)

		record := RegionMeshRecord{
			ID:          region.ID,
			VertexStart: base,
			VertexCount: uint32(len(region.Boundary)),
			Area:        region.Area,
			Bounds:      region.Bounds,
		}
		mesh.Records = append(mesh.Records, record)

		// LOD 0 reuses the full-detail triangulation as-is.
		for _, idx := range local {
			mesh.LOD[0] = append(mesh.LOD[0], base+idx)
		}

		// Derived levels re-triangulate a decimated subsequence.
		for level := 1; level < LODCount; level++ {
			factor := 1 << uint(level)
			appendLODIndices(mesh, region, record, local, level, factor)
		}
	}

	logger.Info("map mesh built",
		zap.Int("regions", len(mesh.Records)),
		zap.Int("skipped", skipped),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles_lod0", mesh.TriangleCount(0)),
		zap.Int("triangles_lod1", mesh.TriangleCount(1)),
		zap.Int("triangles_lod2", mesh.TriangleCount(2)),
	)
	return mesh
}

// appendRegionVertices pushes the region's boundary into the shared
// vertex buffer with bbox-normalized texture coordinates.
func appendRegionVertices(mesh *MapMesh, region *mapdata.Region) {
	w := region.Bounds.Width()
	h := region.Bounds.Height()
	for _, p := range region.Boundary {
		var u, v float32
		if w > 0 {
			u = (p.X - region.Bounds.MinX) / w
		}
		if h > 0 {
			v = (p.Y - region.Bounds.MinY) / h
		}
		mesh.Vertices = append(mesh.Vertices, Vertex{
			X:        p.X,
			Y:        p.Y,
			RegionID: region.ID,
			U:        u,
			V:        v,
		})
	}
}
