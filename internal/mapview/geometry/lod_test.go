package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonzymin-eng/imperii-map/internal/mapdata"
)

func TestDecimateSelection(t *testing.T) {
	tests := []struct {
		name   string
		count  int
		factor int
		want   []uint32
	}{
		{"factor 1 keeps everything", 5, 1, []uint32{0, 1, 2, 3, 4}},
		{"factor 2 even count", 8, 2, []uint32{0, 2, 4, 6, 7}},
		{"factor 2 odd count", 7, 2, []uint32{0, 2, 4, 6}},
		{"factor 4", 10, 4, []uint32{0, 4, 8, 9}},
		{"zero count", 0, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecimateSelection(tt.count, tt.factor))
		})
	}
}

func TestDecimateSelectionKeepsLastVertex(t *testing.T) {
	for count := 3; count <= 40; count++ {
		for _, factor := range []int{2, 4} {
			sel := DecimateSelection(count, factor)
			require.NotEmpty(t, sel)
			assert.Equal(t, uint32(0), sel[0], "count=%d factor=%d", count, factor)
			assert.Equal(t, uint32(count-1), sel[len(sel)-1], "count=%d factor=%d", count, factor)
		}
	}
}

func TestDecimateSelectionDegenerateFallback(t *testing.T) {
	// Decimating a small boundary would leave fewer than 3 vertices, so
	// the full set comes back instead.
	for _, count := range []int{3, 4} {
		sel := DecimateSelection(count, 4)
		assert.Len(t, sel, count, "count=%d", count)
	}
}

// regularPolygon approximates a circle of the given radius with n points.
func regularPolygon(n int, radius float32) []mapdata.Point {
	pts := make([]mapdata.Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = mapdata.Point{
			X: radius * float32(math.Cos(a)),
			Y: radius * float32(math.Sin(a)),
		}
	}
	return pts
}

func buildRegions(t *testing.T, boundaries ...[]mapdata.Point) []*mapdata.Region {
	t.Helper()
	regions := make([]*mapdata.Region, len(boundaries))
	for i, b := range boundaries {
		regions[i] = &mapdata.Region{ID: uint32(i + 1), Boundary: b}
		regions[i].Derive()
	}
	return regions
}

func TestBuildMeshLODLevels(t *testing.T) {
	regions := buildRegions(t,
		regularPolygon(32, 10),
		regularPolygon(16, 5),
		provinceish(),
	)

	mesh := BuildMesh(regions)
	require.Len(t, mesh.Records, 3)

	// Coarser levels never carry more indices than finer ones for
	// boundaries this large.
	assert.GreaterOrEqual(t, len(mesh.LOD[0]), len(mesh.LOD[1]))
	assert.GreaterOrEqual(t, len(mesh.LOD[1]), len(mesh.LOD[2]))

	for level := 0; level < LODCount; level++ {
		indices := mesh.LOD[level]
		require.NotEmpty(t, indices, "level %d", level)
		require.Zero(t, len(indices)%3, "level %d", level)
		for _, idx := range indices {
			assert.Less(t, int(idx), len(mesh.Vertices), "level %d", level)
		}
	}
}

func TestBuildMeshRemapStaysInRegionRange(t *testing.T) {
	regions := buildRegions(t,
		regularPolygon(20, 8),
		regularPolygon(24, 3),
	)

	mesh := BuildMesh(regions)
	require.Len(t, mesh.Records, 2)

	// Every index at every level must land inside the vertex range of
	// some region record; ranges are contiguous and non-overlapping.
	for level := 0; level < LODCount; level++ {
		for _, idx := range mesh.LOD[level] {
			owned := false
			for _, rec := range mesh.Records {
				if idx >= rec.VertexStart && idx < rec.VertexStart+rec.VertexCount {
					owned = true
					break
				}
			}
			assert.True(t, owned, "level %d index %d outside all region ranges", level, idx)
		}
	}
}

func TestBuildMeshSmallRegionReusesFullDetail(t *testing.T) {
	// A triangle cannot be decimated; every level carries the same
	// single triangle.
	regions := buildRegions(t, []mapdata.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 3}})

	mesh := BuildMesh(regions)
	require.Len(t, mesh.Records, 1)

	for level := 0; level < LODCount; level++ {
		assert.Equal(t, 1, mesh.TriangleCount(level), "level %d", level)
		assert.Equal(t, mesh.LOD[0], mesh.LOD[level], "level %d", level)
	}
}

func TestBuildMeshSkipsBadRegion(t *testing.T) {
	regions := buildRegions(t,
		regularPolygon(12, 6),
		[]mapdata.Point{{X: 0, Y: 0}, {X: 1, Y: 1}},
	)
	regions = append(regions, nil)

	mesh := BuildMesh(regions)
	assert.Len(t, mesh.Records, 1)
	assert.Equal(t, uint32(1), mesh.Records[0].ID)
}

func TestBuildMeshVertexAttributes(t *testing.T) {
	regions := buildRegions(t, square(10))
	mesh := BuildMesh(regions)

	require.Len(t, mesh.Vertices, 4)
	for _, v := range mesh.Vertices {
		assert.Equal(t, uint32(1), v.RegionID)
		assert.GreaterOrEqual(t, v.U, float32(0))
		assert.LessOrEqual(t, v.U, float32(1))
		assert.GreaterOrEqual(t, v.V, float32(0))
		assert.LessOrEqual(t, v.V, float32(1))
	}

	// Corners map to the UV corners.
	assert.Equal(t, Vertex{X: 0, Y: 0, RegionID: 1, U: 0, V: 0}, mesh.Vertices[0])
	assert.Equal(t, Vertex{X: 10, Y: 10, RegionID: 1, U: 1, V: 1}, mesh.Vertices[2])
}
