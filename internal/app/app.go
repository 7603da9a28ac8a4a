// Package app implements the demo main loop: window, input, camera
// and scene wired together.
package app

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Nuos/LoD/internal/config"
	"github.com/Nuos/LoD/internal/engine/camera"
	"github.com/Nuos/LoD/internal/engine/debug"
	"github.com/Nuos/LoD/internal/engine/input"
	"github.com/Nuos/LoD/internal/engine/renderer"
	"github.com/Nuos/LoD/internal/engine/scene"
	"github.com/Nuos/LoD/internal/engine/window"
	"github.com/Nuos/LoD/internal/logger"
)

// App is the running demo instance.
type App struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	scene    *scene.Scene

	dragging bool

	screenshots *debug.ScreenshotCapture
}

// New creates the demo: window and GL context first, then the scene.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing demo",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	a := &App{cfg: cfg}

	var err error
	a.window, err = window.New(window.Config{
		Title:      "LoD",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	a.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.scene, err = scene.New(cfg, logger.Log)
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}
	a.scene.Resize(int32(cfg.Graphics.Width), int32(cfg.Graphics.Height))

	a.input = input.New()
	a.screenshots = debug.NewScreenshotCapture("screenshots", "lod")

	aspect := float32(cfg.Graphics.Width) / float32(cfg.Graphics.Height)
	a.camera = camera.NewOrbitCamera(aspect)
	hm := a.scene.Heightmap()
	a.camera.FitToTerrain(float32(hm.W), float32(hm.H), cfg.Terrain.HeightScale)

	logger.Info("demo initialized")
	return a, nil
}

// Run drives the main loop until quit.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting main loop")

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()
		a.handleHeldKeys()

		a.scene.Update(dt)

		a.renderer.Begin()
		a.scene.Render(a.camera)
		a.renderer.End()

		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleEvents() {
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			a.renderer.Resize(event.Width, event.Height)
			a.scene.Resize(int32(event.Width), int32(event.Height))
			a.camera.SetAspect(event.Width, event.Height)

		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				a.running = false
			case sdl.SCANCODE_F3:
				a.scene.ToggleOverlay()
			case sdl.SCANCODE_F12:
				a.captureScreenshot()
			}

		case input.EventMouseDown:
			if event.Button == sdl.BUTTON_LEFT {
				a.dragging = true
			}
			if event.Button == sdl.BUTTON_RIGHT {
				a.recenterOn(event.MouseX, event.MouseY)
			}

		case input.EventMouseUp:
			if event.Button == sdl.BUTTON_LEFT {
				a.dragging = false
			}

		case input.EventMouseMove:
			if a.dragging {
				a.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
			}

		case input.EventMouseWheel:
			a.camera.HandleZoom(float32(event.DeltaY))
		}
	}
}

// recenterOn moves the orbit center to the terrain point under the
// cursor.
func (a *App) recenterOn(mouseX, mouseY int) {
	w, h := a.renderer.Size()
	hit, ok := a.scene.PickTerrain(a.camera, float32(mouseX), float32(mouseY), float32(w), float32(h))
	if !ok {
		return
	}
	a.camera.Center = hit
	logger.Debug("camera recentered",
		zap.Float32("x", hit.X),
		zap.Float32("y", hit.Y),
		zap.Float32("z", hit.Z),
	)
}

func (a *App) captureScreenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.screenshots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// handleHeldKeys pans the camera while WASD or the arrow keys are
// down.
func (a *App) handleHeldKeys() {
	var forward, right float32
	if a.input.IsKeyHeld(sdl.SCANCODE_W) || a.input.IsKeyHeld(sdl.SCANCODE_UP) {
		forward++
	}
	if a.input.IsKeyHeld(sdl.SCANCODE_S) || a.input.IsKeyHeld(sdl.SCANCODE_DOWN) {
		forward--
	}
	if a.input.IsKeyHeld(sdl.SCANCODE_D) || a.input.IsKeyHeld(sdl.SCANCODE_RIGHT) {
		right++
	}
	if a.input.IsKeyHeld(sdl.SCANCODE_A) || a.input.IsKeyHeld(sdl.SCANCODE_LEFT) {
		right--
	}
	if forward != 0 || right != 0 {
		a.camera.Move(forward, right, 0)
	}
}

// Close cleans up in reverse creation order.
func (a *App) Close() {
	logger.Info("closing demo")

	if a.scene != nil {
		a.scene.Destroy()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
