// Package mapdata defines the region data model shared by the map
// rendering pipeline: boundaries, colors, terrain classification and
// the derived geometry bookkeeping (bounding box, centroid, area).
package mapdata

// Point is a 2-D world-space position.
type Point struct {
	X float32
	Y float32
}

// Color is an RGBA color with 8-bit channels.
type Color struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX float32
	MinY float32
	MaxX float32
	MaxY float32
}

// Width returns the horizontal extent of the rect.
func (r Rect) Width() float32 { return r.MaxX - r.MinX }

// Height returns the vertical extent of the rect.
func (r Rect) Height() float32 { return r.MaxY - r.MinY }

// Center returns the midpoint of the rect.
func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Contains reports whether the point (x, y) lies inside the rect.
// Points on the edge count as contained.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Intersects reports whether two rects overlap on both axes.
// Touching edges count as an intersection.
func (r Rect) Intersects(other Rect) bool {
	return !(r.MaxX < other.MinX || r.MinX > other.MaxX ||
		r.MaxY < other.MinY || r.MinY > other.MaxY)
}

// Expand returns the rect scaled by factor around its center.
func (r Rect) Expand(factor float32) Rect {
	c := r.Center()
	halfW := r.Width() / 2 * factor
	halfH := r.Height() / 2 * factor
	return Rect{
		MinX: c.X - halfW,
		MinY: c.Y - halfH,
		MaxX: c.X + halfW,
		MaxY: c.Y + halfH,
	}
}

// TerrainType classifies a region's dominant terrain.
type TerrainType uint8

const (
	TerrainPlains TerrainType = iota
	TerrainHills
	TerrainMountains
	TerrainForest
	TerrainDesert
	TerrainCoast
	TerrainWetland
	TerrainHighlands
	TerrainUnknown
)

// TerrainFromString parses a terrain name as found in map data files.
func TerrainFromString(s string) TerrainType {
	switch s {
	case "plains":
		return TerrainPlains
	case "hills":
		return TerrainHills
	case "mountains":
		return TerrainMountains
	case "forest":
		return TerrainForest
	case "desert":
		return TerrainDesert
	case "coast":
		return TerrainCoast
	case "wetland":
		return TerrainWetland
	case "highlands":
		return TerrainHighlands
	default:
		return TerrainUnknown
	}
}

func (t TerrainType) String() string {
	switch t {
	case TerrainPlains:
		return "plains"
	case TerrainHills:
		return "hills"
	case TerrainMountains:
		return "mountains"
	case TerrainForest:
		return "forest"
	case TerrainDesert:
		return "desert"
	case TerrainCoast:
		return "coast"
	case TerrainWetland:
		return "wetland"
	case TerrainHighlands:
		return "highlands"
	default:
		return "unknown"
	}
}

// FeatureType classifies a point feature inside a region.
type FeatureType uint8

const (
	FeatureCity FeatureType = iota
	FeatureTown
	FeatureVillage
	FeatureFortress
	FeaturePort
	FeatureUnknown
)

// FeatureFromString parses a feature name as found in map data files.
func FeatureFromString(s string) FeatureType {
	switch s {
	case "city":
		return FeatureCity
	case "town":
		return FeatureTown
	case "village":
		return FeatureVillage
	case "fortress":
		return FeatureFortress
	case "port":
		return FeaturePort
	default:
		return FeatureUnknown
	}
}

// FeatureMarker is a point feature rendered on top of a region at a
// restricted detail range. A feature is only eligible for drawing while
// the active LOD lies within [LODMin, LODMax] inclusive.
type FeatureMarker struct {
	Type     FeatureType
	Name     string
	Position Point
	LODMin   int
	LODMax   int
}

// NoRegion is the reserved identifier meaning "no region". Map data may
// use any other uint32 value, including 0; the loader rejects regions
// carrying this id and the renderer uses it as the cleared
// selection/hover value.
const NoRegion = ^uint32(0)

// Region holds one province's render-relevant data. Boundary is a closed
// simple polygon without an explicit closing duplicate point. Bounds,
// Center and Area are derived via Derive after the boundary is set.
type Region struct {
	ID      uint32
	Name    string
	Color   Color
	Terrain TerrainType

	Boundary []Point
	Bounds   Rect
	Center   Point
	Area     float32

	Features []FeatureMarker

	// Visible is maintained by the viewport culler each frame.
	Visible bool
}

// Derive recomputes Bounds, Center and Area from the boundary.
// Safe to call on an empty boundary (leaves the fields zeroed).
func (r *Region) Derive() {
	if len(r.Boundary) == 0 {
		return
	}

	b := Rect{
		MinX: r.Boundary[0].X, MaxX: r.Boundary[0].X,
		MinY: r.Boundary[0].Y, MaxY: r.Boundary[0].Y,
	}
	var sumX, sumY float32
	for _, p := range r.Boundary {
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
		sumX += p.X
		sumY += p.Y
	}
	r.Bounds = b
	r.Center = Point{X: sumX / float32(len(r.Boundary)), Y: sumY / float32(len(r.Boundary))}
	r.Area = PolygonArea(r.Boundary)
}

// PolygonArea returns the absolute area of a simple polygon via the
// shoelace formula.
func PolygonArea(pts []Point) float32 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += float64(pts[i].X)*float64(pts[j].Y) - float64(pts[j].X)*float64(pts[i].Y)
	}
	if sum < 0 {
		sum = -sum
	}
	return float32(sum / 2)
}
