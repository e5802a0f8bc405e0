// Package app wires the window, camera, culler and render coordinator
// into the interactive map viewer loop.
package app

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/antonzymin-eng/imperii-map/internal/config"
	"github.com/antonzymin-eng/imperii-map/internal/engine/camera"
	"github.com/antonzymin-eng/imperii-map/internal/engine/window"
	"github.com/antonzymin-eng/imperii-map/internal/logger"
	"github.com/antonzymin-eng/imperii-map/internal/mapdata"
	"github.com/antonzymin-eng/imperii-map/internal/mapview"
	"github.com/antonzymin-eng/imperii-map/internal/mapview/cull"
	"github.com/antonzymin-eng/imperii-map/internal/mapview/render"
)

// App is the viewer application.
type App struct {
	cfg     *config.Config
	running bool

	window      *window.Window
	coordinator *render.Coordinator
	camera      *camera.Camera
	culler      *cull.Culler
	scene       *mapview.Scene
}

// New loads the map data, creates the window and GPU resources and
// runs the bulk upload. Any error here is fatal to startup.
func New(cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	regions, err := mapdata.LoadFile(cfg.Map.DataPath)
	if err != nil {
		return nil, fmt.Errorf("loading map data: %w", err)
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("map file %s contains no usable regions", cfg.Map.DataPath)
	}

	a.window, err = window.New(window.Config{
		Title:      "Imperii Map",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	// GL context exists now; the coordinator owns everything GPU-side.
	a.coordinator, err = render.New(render.Config{
		HighDetailZoom:    cfg.Map.HighDetailZoom,
		MediumDetailZoom:  cfg.Map.MediumDetailZoom,
		AttributeRowWidth: cfg.Map.AttributeRowWidth,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("creating render coordinator: %w", err)
	}

	// Bulk phase: triangulate, build LODs, pack attributes, upload.
	a.scene = mapview.BuildScene(regions, cfg.Map.AttributeRowWidth, a.coordinator.MaxTextureDim())
	if err := a.coordinator.Upload(a.scene.Mesh, regions); err != nil {
		a.coordinator.Close()
		a.window.Close()
		return nil, fmt.Errorf("uploading map: %w", err)
	}

	// The actual window size can differ from the configured one, e.g.
	// in fullscreen mode.
	winW, winH := a.window.GetSize()
	a.coordinator.Resize(winW, winH)

	a.camera = camera.New(
		float32(winW), float32(winH),
		cfg.Camera.MinZoom, cfg.Camera.MaxZoom,
	)
	a.camera.CenterOn(mapBounds(regions))

	a.culler = cull.New(cfg.Map.CullExpansion)

	logger.Info("viewer initialized", zap.Int("regions", len(regions)))
	return a, nil
}

// Close releases the app's resources in reverse creation order.
func (a *App) Close() {
	if a.coordinator != nil {
		a.coordinator.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

// Run drives the per-frame phase until quit.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		a.handleEvents()
		a.handleKeyboardPan(dt)

		// Cull against this frame's viewport before drawing.
		a.culler.UpdateViewport(a.camera.Bounds())
		a.culler.UpdateVisibility(a.scene.Regions)

		a.coordinator.BeginFrame()
		a.coordinator.Render(a.camera.ViewProjection(), a.camera.Zoom, dt)
		a.window.SwapBuffers()

		frameCount++
		if a.cfg.Graphics.ShowFPS && time.Since(fpsTimer) >= time.Second {
			a.window.SetTitle(fmt.Sprintf("Imperii Map | %d fps, %d/%d regions, LOD %d, %s",
				frameCount,
				a.culler.VisibleCount(), a.culler.TotalCount(),
				a.coordinator.CurrentLOD(),
				a.coordinator.LastRenderTime().Round(10*time.Microsecond),
			))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// handleEvents drains the SDL event queue.
func (a *App) handleEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			a.running = false

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				a.camera.Resize(int(e.Data1), int(e.Data2))
				a.coordinator.Resize(int(e.Data1), int(e.Data2))
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				a.handleKeyDown(e.Keysym.Sym)
			}

		case *sdl.MouseWheelEvent:
			mx, my, _ := sdl.GetMouseState()
			factor := float32(1.0) + float32(e.Y)*0.1
			a.camera.ZoomAt(float32(mx), float32(my), factor)

		case *sdl.MouseMotionEvent:
			if e.State&sdl.ButtonLMask() != 0 {
				a.camera.Pan(float32(e.XRel), float32(e.YRel))
			} else {
				wx, wy := a.camera.ScreenToWorld(float32(e.X), float32(e.Y))
				if r := a.scene.RegionAt(wx, wy); r != nil {
					a.coordinator.SetHoveredRegion(r.ID)
				} else {
					a.coordinator.SetHoveredRegion(mapdata.NoRegion)
				}
			}

		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN && e.Button == sdl.BUTTON_LEFT {
				wx, wy := a.camera.ScreenToWorld(float32(e.X), float32(e.Y))
				if r := a.scene.RegionAt(wx, wy); r != nil {
					a.coordinator.SetSelectedRegion(r.ID)
					logger.Info("region selected",
						zap.Uint32("id", r.ID),
						zap.String("name", r.Name),
						zap.String("terrain", r.Terrain.String()),
					)
				} else {
					a.coordinator.SetSelectedRegion(mapdata.NoRegion)
				}
			}
		}
	}
}

// handleKeyDown processes one-shot key presses.
func (a *App) handleKeyDown(key sdl.Keycode) {
	switch key {
	case sdl.K_ESCAPE:
		a.running = false
	case sdl.K_m:
		mode := a.coordinator.RenderMode() + 1
		if mode > render.ModeCulture {
			mode = render.ModePolitical
		}
		a.coordinator.SetRenderMode(mode)
		logger.Info("render mode changed", zap.Int("mode", int(mode)))
	}
}

// handleKeyboardPan applies held-key camera movement.
func (a *App) handleKeyboardPan(dt float32) {
	keys := sdl.GetKeyboardState()
	speed := a.cfg.Camera.PanSpeed * dt

	var dx, dy float32
	if keys[sdl.SCANCODE_LEFT] != 0 || keys[sdl.SCANCODE_A] != 0 {
		dx += speed
	}
	if keys[sdl.SCANCODE_RIGHT] != 0 || keys[sdl.SCANCODE_D] != 0 {
		dx -= speed
	}
	if keys[sdl.SCANCODE_UP] != 0 || keys[sdl.SCANCODE_W] != 0 {
		dy += speed
	}
	if keys[sdl.SCANCODE_DOWN] != 0 || keys[sdl.SCANCODE_S] != 0 {
		dy -= speed
	}
	if dx != 0 || dy != 0 {
		a.camera.Pan(dx, dy)
	}
}

// mapBounds returns the union of all region bounding boxes.
func mapBounds(regions []*mapdata.Region) mapdata.Rect {
	b := regions[0].Bounds
	for _, r := range regions[1:] {
		if r.Bounds.MinX < b.MinX {
			b.MinX = r.Bounds.MinX
		}
		if r.Bounds.MinY < b.MinY {
			b.MinY = r.Bounds.MinY
		}
		if r.Bounds.MaxX > b.MaxX {
			b.MaxX = r.Bounds.MaxX
		}
		if r.Bounds.MaxY > b.MaxY {
			b.MaxY = r.Bounds.MaxY
		}
	}
	return b
}
