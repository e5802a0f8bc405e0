// Package camera provides the 2-D orthographic map camera.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/antonzymin-eng/imperii-map/internal/mapdata"
)

// Camera is a top-down map camera. Position is the world-space point at
// the center of the screen; Zoom is the pixels-per-world-unit scale.
type Camera struct {
	X, Y float32
	Zoom float32

	// Viewport size in pixels, updated on window resize.
	ViewportWidth  float32
	ViewportHeight float32

	MinZoom float32
	MaxZoom float32
}

// New creates a camera centered at the origin with zoom 1.
func New(viewportWidth, viewportHeight, minZoom, maxZoom float32) *Camera {
	return &Camera{
		Zoom:           1.0,
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
		MinZoom:        minZoom,
		MaxZoom:        maxZoom,
	}
}

// Resize updates the viewport pixel size.
func (c *Camera) Resize(width, height int) {
	c.ViewportWidth = float32(width)
	c.ViewportHeight = float32(height)
}

// Pan moves the camera center by a screen-space delta, scaled so the
// map appears to follow the cursor regardless of zoom.
func (c *Camera) Pan(dxPixels, dyPixels float32) {
	c.X -= dxPixels / c.Zoom
	c.Y += dyPixels / c.Zoom
}

// ZoomAt scales the zoom by factor while keeping the world point under
// the given screen position fixed.
func (c *Camera) ZoomAt(screenX, screenY, factor float32) {
	wx, wy := c.ScreenToWorld(screenX, screenY)

	c.Zoom *= factor
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	if c.Zoom > c.MaxZoom {
		c.Zoom = c.MaxZoom
	}

	// Shift the center so (wx, wy) stays under the cursor.
	nx, ny := c.ScreenToWorld(screenX, screenY)
	c.X += wx - nx
	c.Y += wy - ny
}

// ScreenToWorld converts a screen pixel position (origin top-left) to
// world coordinates.
func (c *Camera) ScreenToWorld(screenX, screenY float32) (float32, float32) {
	wx := c.X + (screenX-c.ViewportWidth/2)/c.Zoom
	wy := c.Y + (c.ViewportHeight/2-screenY)/c.Zoom
	return wx, wy
}

// Bounds returns the world rectangle currently visible.
func (c *Camera) Bounds() mapdata.Rect {
	halfW := c.ViewportWidth / c.Zoom / 2
	halfH := c.ViewportHeight / c.Zoom / 2
	return mapdata.Rect{
		MinX: c.X - halfW,
		MinY: c.Y - halfH,
		MaxX: c.X + halfW,
		MaxY: c.Y + halfH,
	}
}

// ViewProjection returns the orthographic view-projection matrix
// mapping the visible world rectangle to normalized device coordinates.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	b := c.Bounds()
	return mgl32.Ortho(b.MinX, b.MaxX, b.MinY, b.MaxY, -1, 1)
}

// CenterOn moves the camera so the given rect fills the viewport as
// closely as possible.
func (c *Camera) CenterOn(r mapdata.Rect) {
	center := r.Center()
	c.X = center.X
	c.Y = center.Y

	if r.Width() <= 0 || r.Height() <= 0 {
		return
	}
	zx := c.ViewportWidth / r.Width()
	zy := c.ViewportHeight / r.Height()
	z := zx
	if zy < z {
		z = zy
	}
	if z < c.MinZoom {
		z = c.MinZoom
	}
	if z > c.MaxZoom {
		z = c.MaxZoom
	}
	c.Zoom = z
}
