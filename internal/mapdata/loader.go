package mapdata

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/antonzymin-eng/imperii-map/internal/logger"
)

// mapFile mirrors the on-disk JSON map format.
type mapFile struct {
	Name    string       `json:"name"`
	Regions []regionJSON `json:"regions"`
}

type regionJSON struct {
	ID       uint32        `json:"id"`
	Name     string        `json:"name"`
	Color    [4]uint8      `json:"color"`
	Terrain  string        `json:"terrain"`
	Boundary [][2]float32  `json:"boundary"`
	Features []featureJSON `json:"features,omitempty"`
}

type featureJSON struct {
	Type     string     `json:"type"`
	Name     string     `json:"name"`
	Position [2]float32 `json:"position"`
	LODMin   int        `json:"lod_min"`
	LODMax   int        `json:"lod_max"`
}

// LoadFile reads a JSON map file and returns the regions it describes.
// Regions with fewer than 3 boundary points or carrying the reserved
// NoRegion identifier are dropped with a warning; a file that cannot be
// read or parsed is a hard error.
func LoadFile(path string) ([]*Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file %s: %w", path, err)
	}

	var mf mapFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parsing map file %s: %w", path, err)
	}

	regions := make([]*Region, 0, len(mf.Regions))
	for _, rj := range mf.Regions {
		if rj.ID == NoRegion {
			logger.Warn("skipping region with reserved identifier",
				zap.Uint32("id", rj.ID),
				zap.String("name", rj.Name),
			)
			continue
		}
		if len(rj.Boundary) < 3 {
			logger.Warn("skipping region with degenerate boundary",
				zap.Uint32("id", rj.ID),
				zap.String("name", rj.Name),
				zap.Int("points", len(rj.Boundary)),
			)
			continue
		}

		r := &Region{
			ID:      rj.ID,
			Name:    rj.Name,
			Color:   Color{R: rj.Color[0], G: rj.Color[1], B: rj.Color[2], A: rj.Color[3]},
			Terrain: TerrainFromString(rj.Terrain),
		}
		r.Boundary = make([]Point, len(rj.Boundary))
		for i, p := range rj.Boundary {
			r.Boundary[i] = Point{X: p[0], Y: p[1]}
		}
		for _, fj := range rj.Features {
			r.Features = append(r.Features, FeatureMarker{
				Type:     FeatureFromString(fj.Type),
				Name:     fj.Name,
				Position: Point{X: fj.Position[0], Y: fj.Position[1]},
				LODMin:   fj.LODMin,
				LODMax:   fj.LODMax,
			})
		}
		r.Derive()
		regions = append(regions, r)
	}

	logger.Info("map data loaded",
		zap.String("path", path),
		zap.String("map", mf.Name),
		zap.Int("regions", len(regions)),
		zap.Int("dropped", len(mf.Regions)-len(regions)),
	)
	return regions, nil
}
