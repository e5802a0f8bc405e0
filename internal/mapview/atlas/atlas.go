// Package atlas packs per-region attributes into dense lookup-texture
// buffers addressed directly by region identifier: the texel of region
// id lives at (id mod width, id div width). Shaders and CPU consumers
// resolve attributes in O(1) with no indirection.
package atlas

import (
	"go.uber.org/zap"

	"github.com/antonzymin-eng/imperii-map/internal/logger"
	"github.com/antonzymin-eng/imperii-map/internal/mapdata"
)

// DefaultRowWidth is the fixed row width of the attribute textures.
const DefaultRowWidth = 256

// Layout describes the dimensions of the attribute textures.
type Layout struct {
	Width  int
	Height int
}

// Capacity returns the number of addressable region identifiers.
func (l Layout) Capacity() int {
	return l.Width * l.Height
}

// TexelFor returns the texel coordinate of the given region id.
// Only valid for id < Capacity().
func (l Layout) TexelFor(id uint32) (u, v int) {
	return int(id) % l.Width, int(id) / l.Width
}

// IDForTexel is the inverse of TexelFor.
func (l Layout) IDForTexel(u, v int) uint32 {
	return uint32(v*l.Width + u)
}

// ComputeLayout picks the smallest texture that can address regionCount
// identifiers at the given fixed row width, clamped to the backend's
// maximum texture dimension. If clamping shrinks capacity below the
// region count a warning is emitted; the overflowing regions simply
// stay unaddressable.
func ComputeLayout(regionCount, rowWidth, maxDim int) Layout {
	if rowWidth <= 0 {
		rowWidth = DefaultRowWidth
	}
	if rowWidth > maxDim {
		rowWidth = maxDim
	}

	height := (regionCount + rowWidth - 1) / rowWidth
	if height < 1 {
		height = 1
	}
	if height > maxDim {
		height = maxDim
	}

	layout := Layout{Width: rowWidth, Height: height}
	if layout.Capacity() < regionCount {
		logger.Warn("attribute texture capacity below region count",
			zap.Int("capacity", layout.Capacity()),
			zap.Int("regions", regionCount),
			zap.Int("max_texture_dim", maxDim),
		)
	}
	return layout
}

// PackColors writes each region's RGBA fill color at its texel in a
// width*height*4 byte buffer. Unused texels stay zero (transparent).
// Regions whose id exceeds capacity are dropped with a warning.
func PackColors(regions []*mapdata.Region, layout Layout) []byte {
	buf := make([]byte, layout.Capacity()*4)
	for _, r := range regions {
		if r == nil {
			continue
		}
		off, ok := texelOffset(r, layout)
		if !ok {
			continue
		}
		buf[off+0] = r.Color.R
		buf[off+1] = r.Color.G
		buf[off+2] = r.Color.B
		buf[off+3] = r.Color.A
	}
	return buf
}

// PackMetadata writes each region's classification byte at its texel.
// Channel 0 carries the terrain code; channels 1-3 are reserved and
// stay zero.
func PackMetadata(regions []*mapdata.Region, layout Layout) []byte {
	buf := make([]byte, layout.Capacity()*4)
	for _, r := range regions {
		if r == nil {
			continue
		}
		off, ok := texelOffset(r, layout)
		if !ok {
			continue
		}
		buf[off+0] = TerrainCode(r.Terrain)
	}
	return buf
}

func texelOffset(r *mapdata.Region, layout Layout) (int, bool) {
	if int(r.ID) >= layout.Capacity() {
		logger.Warn("region id exceeds attribute texture capacity",
			zap.Uint32("id", r.ID),
			zap.String("name", r.Name),
			zap.Int("capacity", layout.Capacity()),
		)
		return 0, false
	}
	u, v := layout.TexelFor(r.ID)
	return (v*layout.Width + u) * 4, true
}

// TerrainCode maps a terrain kind to its 8-bit classification code.
// Kinds occupy distinct decades so shaders can band on ranges.
func TerrainCode(t mapdata.TerrainType) uint8 {
	switch t {
	case mapdata.TerrainPlains:
		return 10
	case mapdata.TerrainHills:
		return 15
	case mapdata.TerrainForest:
		return 20
	case mapdata.TerrainMountains:
		return 30
	case mapdata.TerrainDesert:
		return 40
	case mapdata.TerrainCoast:
		return 50
	case mapdata.TerrainWetland:
		return 60
	case mapdata.TerrainHighlands:
		return 70
	default:
		return 0
	}
}
