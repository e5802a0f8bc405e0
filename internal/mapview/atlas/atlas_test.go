package atlas

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonzymin-eng/imperii-map/internal/logger"
	"github.com/antonzymin-eng/imperii-map/internal/mapdata"
)

func TestMain(m *testing.M) {
	_ = logger.InitWithFileConfig("error", logger.FileConfig{}, false)
	os.Exit(m.Run())
}

func TestLayoutTexelRoundTrip(t *testing.T) {
	l := Layout{Width: 256, Height: 4}

	for _, id := range []uint32{0, 1, 255, 256, 257, 700, 1023} {
		u, v := l.TexelFor(id)
		assert.Equal(t, int(id)%256, u)
		assert.Equal(t, int(id)/256, v)
		assert.Equal(t, id, l.IDForTexel(u, v))
	}
}

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		name     string
		regions  int
		rowWidth int
		maxDim   int
		want     Layout
	}{
		{"single row", 100, 256, 16384, Layout{256, 1}},
		{"exact fill", 512, 256, 16384, Layout{256, 2}},
		{"one over", 513, 256, 16384, Layout{256, 3}},
		{"empty map still one row", 0, 256, 16384, Layout{256, 1}},
		{"default row width", 100, 0, 16384, Layout{256, 1}},
		{"row width clamped", 100, 256, 128, Layout{128, 1}},
		{"height clamped", 100000, 256, 64, Layout{64, 64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeLayout(tt.regions, tt.rowWidth, tt.maxDim))
		})
	}
}

func TestPackColors(t *testing.T) {
	regions := []*mapdata.Region{
		{ID: 0, Color: mapdata.Color{R: 10, G: 20, B: 30, A: 255}},
		{ID: 5, Color: mapdata.Color{R: 200, G: 0, B: 100, A: 128}},
		nil,
	}
	layout := Layout{Width: 8, Height: 2}

	buf := PackColors(regions, layout)
	require.Len(t, buf, 8*2*4)

	assert.Equal(t, []byte{10, 20, 30, 255}, buf[0:4])
	assert.Equal(t, []byte{200, 0, 100, 128}, buf[5*4:5*4+4])

	// Unoccupied texels stay fully transparent.
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[3*4:3*4+4])
}

func TestPackColorsOverCapacity(t *testing.T) {
	layout := Layout{Width: 4, Height: 1}
	regions := []*mapdata.Region{
		{ID: 3, Color: mapdata.Color{R: 1, G: 2, B: 3, A: 4}},
		{ID: 4, Color: mapdata.Color{R: 9, G: 9, B: 9, A: 9}},
	}

	buf := PackColors(regions, layout)
	require.Len(t, buf, 16)

	// id 3 is the last addressable texel; id 4 is dropped.
	assert.Equal(t, []byte{1, 2, 3, 4}, buf[12:16])
	for _, b := range buf[:12] {
		assert.Zero(t, b)
	}
}

func TestPackMetadata(t *testing.T) {
	regions := []*mapdata.Region{
		{ID: 0, Terrain: mapdata.TerrainPlains},
		{ID: 1, Terrain: mapdata.TerrainMountains},
		{ID: 2, Terrain: mapdata.TerrainUnknown},
	}
	layout := Layout{Width: 4, Height: 1}

	buf := PackMetadata(regions, layout)
	require.Len(t, buf, 16)

	assert.Equal(t, uint8(10), buf[0])
	assert.Equal(t, uint8(30), buf[4])
	assert.Equal(t, uint8(0), buf[8])

	// Reserved channels stay zero.
	for i := 0; i < 16; i += 4 {
		assert.Zero(t, buf[i+1])
		assert.Zero(t, buf[i+2])
		assert.Zero(t, buf[i+3])
	}
}

func TestTerrainCodes(t *testing.T) {
	tests := []struct {
		terrain mapdata.TerrainType
		code    uint8
	}{
		{mapdata.TerrainPlains, 10},
		{mapdata.TerrainHills, 15},
		{mapdata.TerrainForest, 20},
		{mapdata.TerrainMountains, 30},
		{mapdata.TerrainDesert, 40},
		{mapdata.TerrainCoast, 50},
		{mapdata.TerrainWetland, 60},
		{mapdata.TerrainHighlands, 70},
		{mapdata.TerrainUnknown, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, TerrainCode(tt.terrain), tt.terrain.String())
	}
}
