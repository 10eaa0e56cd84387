package engine

// Game is the application half of the engine: configuration plus the
// callbacks invoked during the main loop.
type Game struct {
	ApplicationConfig ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnOnResize        OnResize
}

type Initialize func(e *Engine) error
type Update func(e *Engine, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
