// Package render owns every GPU resource of the map: vertex and index
// buffers, the attribute lookup textures and the shader program. It
// selects the active LOD from camera zoom and issues the single draw
// call covering all regions.
package render

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/antonzymin-eng/imperii-map/internal/engine/shader"
	"github.com/antonzymin-eng/imperii-map/internal/logger"
	"github.com/antonzymin-eng/imperii-map/internal/mapdata"
	"github.com/antonzymin-eng/imperii-map/internal/mapview/atlas"
	"github.com/antonzymin-eng/imperii-map/internal/mapview/geometry"
)

// RenderMode selects what the fragment shader colors regions by.
type RenderMode int

const (
	ModePolitical RenderMode = iota
	ModeTerrain
	ModeTrade
	ModeReligion
	ModeCulture
)

// MinTextureDim is the smallest hardware texture dimension we accept.
// Anything below cannot address even a trivial region set.
const MinTextureDim = 64

// Config holds coordinator tuning read from the viewer config.
type Config struct {
	HighDetailZoom    float32
	MediumDetailZoom  float32
	AttributeRowWidth int
}

// Coordinator owns the GPU-side map state for its full lifetime.
// Create with New after the GL context exists; Close releases
// everything together.
type Coordinator struct {
	cfg Config

	program uint32
	vao     uint32
	vbo     uint32
	ibos    [geometry.LODCount]uint32

	colorTex uint32
	metaTex  uint32
	layout   atlas.Layout

	maxTextureDim int

	// Uniform locations.
	uViewProjection int32
	uRenderMode     int32
	uSelectedID     int32
	uHoveredID      int32
	uGlowTime       int32
	uRegionColors   int32
	uRegionMeta     int32

	indexCounts [geometry.LODCount]int32
	vertexCount int
	regionCount int

	mode       RenderMode
	selectedID uint32
	hoveredID  uint32
	glowTime   float32
	currentLOD int

	lastRenderTime time.Duration
}

// New initializes GL state and creates the shader program, buffers and
// textures. Any failure here is fatal: the returned error leaves no
// live GPU state behind.
func New(cfg Config) (*Coordinator, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	renderer := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", renderer),
	)

	var maxDim int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxDim)
	if maxDim < MinTextureDim {
		return nil, fmt.Errorf("hardware max texture size %d below minimum %d", maxDim, MinTextureDim)
	}

	c := &Coordinator{
		cfg:           cfg,
		maxTextureDim: int(maxDim),
		selectedID:    mapdata.NoRegion,
		hoveredID:     mapdata.NoRegion,
	}

	var err error
	c.program, err = shader.CompileProgram(mapVertexShader, mapFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("compiling map shader: %w", err)
	}

	// Every uniform is load-bearing; a missing one means the shader
	// sources and this list drifted apart.
	c.uViewProjection = shader.MustGetUniform(c.program, "uViewProjection")
	c.uRenderMode = shader.MustGetUniform(c.program, "uRenderMode")
	c.uSelectedID = shader.MustGetUniform(c.program, "uSelectedID")
	c.uHoveredID = shader.MustGetUniform(c.program, "uHoveredID")
	c.uGlowTime = shader.MustGetUniform(c.program, "uGlowTime")
	c.uRegionColors = shader.MustGetUniform(c.program, "uRegionColors")
	c.uRegionMeta = shader.MustGetUniform(c.program, "uRegionMeta")

	c.createBuffers()
	c.createTextures()

	gl.ClearColor(0.08, 0.10, 0.14, 1.0)

	logger.Info("map render coordinator initialized",
		zap.Int("max_texture_dim", c.maxTextureDim),
	)
	return c, nil
}

// createBuffers sets up the VAO, the shared vertex buffer and one index
// buffer per LOD level. Storage is allocated at upload time.
func (c *Coordinator) createBuffers() {
	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)

	gl.GenBuffers(1, &c.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)

	// Layout: vec2 position, uint region id, vec2 uv.
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, geometry.VertexStride, nil)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribIPointer(1, 1, gl.UNSIGNED_INT, geometry.VertexStride, gl.PtrOffset(8))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, geometry.VertexStride, gl.PtrOffset(12))

	gl.GenBuffers(int32(len(c.ibos)), &c.ibos[0])

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// createTextures creates the two attribute textures with nearest
// filtering; their storage is sized during upload.
func (c *Coordinator) createTextures() {
	for _, tex := range []*uint32{&c.colorTex, &c.metaTex} {
		gl.GenTextures(1, tex)
		gl.BindTexture(gl.TEXTURE_2D, *tex)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Upload pushes a freshly built mesh and the region attributes to the
// GPU. This is the bulk phase: it runs when the region set is (re)loaded,
// not per frame.
func (c *Coordinator) Upload(mesh *geometry.MapMesh, regions []*mapdata.Region) error {
	if len(mesh.Vertices) == 0 {
		return fmt.Errorf("refusing to upload empty mesh")
	}

	start := time.Now()

	gl.BindVertexArray(c.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*geometry.VertexStride,
		unsafe.Pointer(&mesh.Vertices[0]),
		gl.STATIC_DRAW)

	for level, indices := range mesh.LOD {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, c.ibos[level])
		if len(indices) > 0 {
			gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
				len(indices)*4,
				unsafe.Pointer(&indices[0]),
				gl.STATIC_DRAW)
		}
		c.indexCounts[level] = int32(len(indices))
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	c.layout = atlas.ComputeLayout(len(regions), c.cfg.AttributeRowWidth, c.maxTextureDim)
	c.allocateAttributeTextures(regions)

	c.vertexCount = len(mesh.Vertices)
	c.regionCount = len(regions)

	logger.Info("map geometry uploaded",
		zap.Int("vertices", c.vertexCount),
		zap.Int("regions", c.regionCount),
		zap.Int32("indices_lod0", c.indexCounts[0]),
		zap.Int32("indices_lod1", c.indexCounts[1]),
		zap.Int32("indices_lod2", c.indexCounts[2]),
		zap.Int("atlas_width", c.layout.Width),
		zap.Int("atlas_height", c.layout.Height),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// allocateAttributeTextures sizes both textures to the current layout
// and fills them with packed attribute data.
func (c *Coordinator) allocateAttributeTextures(regions []*mapdata.Region) {
	colors := atlas.PackColors(regions, c.layout)
	meta := atlas.PackMetadata(regions, c.layout)

	gl.BindTexture(gl.TEXTURE_2D, c.colorTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(c.layout.Width), int32(c.layout.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&colors[0]))

	gl.BindTexture(gl.TEXTURE_2D, c.metaTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(c.layout.Width), int32(c.layout.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&meta[0]))

	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// UploadAttributes refreshes only the two attribute textures. Cheap:
// used when region colors or classification change without any
// geometry change.
func (c *Coordinator) UploadAttributes(regions []*mapdata.Region) {
	if c.layout.Capacity() == 0 {
		return
	}
	colors := atlas.PackColors(regions, c.layout)
	meta := atlas.PackMetadata(regions, c.layout)

	gl.BindTexture(gl.TEXTURE_2D, c.colorTex)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0,
		int32(c.layout.Width), int32(c.layout.Height),
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&colors[0]))

	gl.BindTexture(gl.TEXTURE_2D, c.metaTex)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0,
		int32(c.layout.Width), int32(c.layout.Height),
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&meta[0]))

	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Resize updates the GL viewport after a window size change.
func (c *Coordinator) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// BeginFrame clears the framebuffer.
func (c *Coordinator) BeginFrame() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// SelectLOD maps camera zoom to a LOD level: zoom at or above the high
// threshold renders full detail, at or above the medium threshold
// medium detail, anything below low detail. Recomputed every frame
// with no hysteresis.
func SelectLOD(zoom, highThreshold, mediumThreshold float32) int {
	switch {
	case zoom >= highThreshold:
		return 0
	case zoom >= mediumThreshold:
		return 1
	default:
		return 2
	}
}

// Render draws all regions at the LOD implied by the camera zoom in a
// single indexed draw call. Selection and hover highlighting happen
// per-fragment against the uniform identifiers.
func (c *Coordinator) Render(viewProjection mgl32.Mat4, zoom, dt float32) {
	if c.vertexCount == 0 {
		return
	}

	start := time.Now()

	c.glowTime += dt
	c.currentLOD = SelectLOD(zoom, c.cfg.HighDetailZoom, c.cfg.MediumDetailZoom)
	count := c.indexCounts[c.currentLOD]
	if count == 0 {
		return
	}

	gl.UseProgram(c.program)

	gl.UniformMatrix4fv(c.uViewProjection, 1, false, &viewProjection[0])
	gl.Uniform1i(c.uRenderMode, int32(c.mode))
	gl.Uniform1ui(c.uSelectedID, c.selectedID)
	gl.Uniform1ui(c.uHoveredID, c.hoveredID)
	gl.Uniform1f(c.uGlowTime, c.glowTime)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, c.colorTex)
	gl.Uniform1i(c.uRegionColors, 0)

	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, c.metaTex)
	gl.Uniform1i(c.uRegionMeta, 1)

	gl.BindVertexArray(c.vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, c.ibos[c.currentLOD])
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
	gl.UseProgram(0)

	c.lastRenderTime = time.Since(start)
}

// SetRenderMode switches what regions are colored by.
func (c *Coordinator) SetRenderMode(mode RenderMode) { c.mode = mode }

// RenderMode returns the active render mode.
func (c *Coordinator) RenderMode() RenderMode { return c.mode }

// SetSelectedRegion sets the identifier highlighted as selected.
// Pass mapdata.NoRegion to clear the selection; any real identifier,
// including 0, is a valid selection.
func (c *Coordinator) SetSelectedRegion(id uint32) { c.selectedID = id }

// SetHoveredRegion sets the identifier highlighted as hovered.
// Pass mapdata.NoRegion to clear the hover.
func (c *Coordinator) SetHoveredRegion(id uint32) { c.hoveredID = id }

// SelectedRegion returns the currently selected identifier.
func (c *Coordinator) SelectedRegion() uint32 { return c.selectedID }

// HoveredRegion returns the currently hovered identifier.
func (c *Coordinator) HoveredRegion() uint32 { return c.hoveredID }

// CurrentLOD returns the LOD level chosen by the last Render.
func (c *Coordinator) CurrentLOD() int { return c.currentLOD }

// VertexCount returns the uploaded vertex count.
func (c *Coordinator) VertexCount() int { return c.vertexCount }

// RegionCount returns the uploaded region count.
func (c *Coordinator) RegionCount() int { return c.regionCount }

// TriangleCount returns the triangle count drawn at the current LOD.
func (c *Coordinator) TriangleCount() int { return int(c.indexCounts[c.currentLOD]) / 3 }

// LastRenderTime returns the CPU-side duration of the last draw.
func (c *Coordinator) LastRenderTime() time.Duration { return c.lastRenderTime }

// Layout returns the attribute texture layout of the last upload.
func (c *Coordinator) Layout() atlas.Layout { return c.layout }

// MaxTextureDim returns the hardware texture dimension limit.
func (c *Coordinator) MaxTextureDim() int { return c.maxTextureDim }

// Close releases every GPU resource owned by the coordinator.
func (c *Coordinator) Close() {
	logger.Info("closing map render coordinator")
	if c.vao != 0 {
		gl.DeleteVertexArrays(1, &c.vao)
	}
	if c.vbo != 0 {
		gl.DeleteBuffers(1, &c.vbo)
	}
	for i := range c.ibos {
		if c.ibos[i] != 0 {
			gl.DeleteBuffers(1, &c.ibos[i])
		}
	}
	if c.colorTex != 0 {
		gl.DeleteTextures(1, &c.colorTex)
	}
	if c.metaTex != 0 {
		gl.DeleteTextures(1, &c.metaTex)
	}
	if c.program != 0 {
		gl.DeleteProgram(c.program)
	}
}
