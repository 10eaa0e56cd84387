package engine

import (
	"errors"
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/zschzen/Vulkan-Course/engine/assets"
	"github.com/zschzen/Vulkan-Course/engine/core"
	"github.com/zschzen/Vulkan-Course/engine/platform"
	"github.com/zschzen/Vulkan-Course/engine/renderer/vulkan"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    bool
	isSuspended  bool
	platform     *platform.Platform
	events       *core.EventSystem
	renderer     *vulkan.VulkanRenderer
	watcher      *assets.ShaderWatcher
	width        uint32
	height       uint32
	clock        *core.Clock
	metrics      *core.Metrics
	lastTime     float64
}

func New(g *Game) (*Engine, error) {
	if g.FnInitialize == nil || g.FnUpdate == nil || g.FnOnResize == nil {
		return nil, fmt.Errorf("game instance is missing one of its callbacks")
	}

	events := core.NewEventSystem()

	p, err := platform.New(events)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	r := vulkan.New(p, vulkan.RendererConfig{
		AppName:   g.ApplicationConfig.Name,
		Debug:     g.ApplicationConfig.Debug,
		ShaderDir: g.ApplicationConfig.ShaderDir,
	})

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		platform:     p,
		events:       events,
		renderer:     r,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		isRunning:    true,
		isSuspended:  false,
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
		lastTime:     0,
	}, nil
}

// Renderer exposes the Vulkan backend so game callbacks can load resources
// and steer the camera.
func (e *Engine) Renderer() *vulkan.VulkanRenderer {
	return e.renderer
}

// GetFramebufferSize returns the width and height (in this order) of the
// application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	core.LogSetLevel(e.gameInstance.ApplicationConfig.LogLevel)

	// register some events
	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	e.events.Register(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	e.events.Register(core.EVENT_CODE_KEY_RELEASED, e.onKey)
	e.events.Register(core.EVENT_CODE_RESIZED, e.onResized)
	e.events.Register(core.EVENT_CODE_SHADER_RELOADED, e.onShaderReloaded)

	if err := e.platform.Startup(e.gameInstance.ApplicationConfig.Name,
		e.gameInstance.ApplicationConfig.StartPosX,
		e.gameInstance.ApplicationConfig.StartPosY,
		e.gameInstance.ApplicationConfig.StartWidth,
		e.gameInstance.ApplicationConfig.StartHeight); err != nil {
		return err
	}

	if err := e.renderer.Initialize(e.width, e.height); err != nil {
		return err
	}

	// Shader hot reload is a convenience. A failed watcher only costs the
	// feature, not the run.
	watcher, err := assets.NewShaderWatcher(e.events, e.gameInstance.ApplicationConfig.ShaderDir)
	if err != nil {
		core.LogWarn("shader watcher disabled: %s", err)
	} else {
		e.watcher = watcher
	}

	if path := e.gameInstance.ApplicationConfig.TexturePath; path != "" {
		if err := e.renderer.LoadTexture(path); err != nil {
			return err
		}
	}

	if err := e.gameInstance.FnInitialize(e); err != nil {
		return err
	}
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var targetFrameSeconds float64 = 0
	if fps := e.gameInstance.ApplicationConfig.TargetFPS; fps > 0 {
		targetFrameSeconds = 1.0 / float64(fps)
	}

	for e.isRunning {
		if !e.platform.PumpMessages() {
			e.isRunning = false
		}

		if e.isSuspended {
			// Nothing to draw while minimized, just keep pumping events.
			e.platform.Sleep(0.05)
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := e.platform.GetAbsoluteTime()

		if err := e.gameInstance.FnUpdate(e, delta); err != nil {
			core.LogFatal("Game update failed, shutting down.")
			e.isRunning = false
			break
		}

		if err := e.renderer.DrawFrame(delta); err != nil {
			// A booting swapchain just skipped the frame, nothing lost.
			if errors.Is(err, core.ErrSwapchainBooting) {
				e.lastTime = currentTime
				continue
			}
			core.LogError("frame draw failed: %s", err)
			e.isRunning = false
			break
		}

		frameElapsedTime := e.platform.GetAbsoluteTime() - frameStartTime
		e.metrics.Update(frameElapsedTime)
		if e.metrics.Frame()%240 == 0 {
			core.LogDebug("frame time: %.3fms, fps: %.1f", e.metrics.FrameTime(), e.metrics.FPS())
		}

		// Give leftover frame time back to the OS.
		if remainingSeconds := targetFrameSeconds - frameElapsedTime; remainingSeconds > 0 {
			e.platform.Sleep(remainingSeconds)
		}

		e.lastTime = currentTime
	}

	return nil
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown

	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			core.LogError(err.Error())
		}
	}
	if err := e.renderer.Shutdown(); err != nil {
		return err
	}
	e.events.Shutdown()
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	return nil
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	if context.Type == core.EVENT_CODE_KEY_PRESSED && ke.KeyCode == int(glfw.KeyEscape) {
		// NOTE: Technically firing an event to itself, but there may be
		// other listeners.
		e.events.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	width := se.WindowWidth
	height := se.WindowHeight

	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height

	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}

	e.renderer.Resized(width, height)
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
	return false
}

func (e *Engine) onShaderReloaded(context core.EventContext) bool {
	e.renderer.ShaderReloaded()
	return true
}
