/*
This is an example application that drives the engine package: two colored
quads spinning in opposite directions.
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/zschzen/Vulkan-Course/engine"
	"github.com/zschzen/Vulkan-Course/engine/renderer/vulkan"
)

type sceneState struct {
	meshes []*vulkan.Mesh
	angle  float32
}

func newGame() (*engine.Game, error) {
	config, err := engine.LoadApplicationConfig("assets/config.toml")
	if err != nil {
		return nil, err
	}

	state := &sceneState{}

	return &engine.Game{
		ApplicationConfig: config,
		State:             state,
		FnInitialize: func(e *engine.Engine) error {
			quad := []vulkan.Vertex{
				{Position: mgl32.Vec3{-0.4, 0.4, 0.0}, Color: mgl32.Vec3{1.0, 0.0, 0.0}},
				{Position: mgl32.Vec3{-0.4, -0.4, 0.0}, Color: mgl32.Vec3{0.0, 1.0, 0.0}},
				{Position: mgl32.Vec3{0.4, -0.4, 0.0}, Color: mgl32.Vec3{0.0, 0.0, 1.0}},
				{Position: mgl32.Vec3{0.4, 0.4, 0.0}, Color: mgl32.Vec3{1.0, 1.0, 0.0}},
			}
			indices := []uint32{0, 1, 2, 2, 3, 0}

			for i := 0; i < 2; i++ {
				mesh, err := e.Renderer().LoadMesh(quad, indices)
				if err != nil {
					return err
				}
				state.meshes = append(state.meshes, mesh)
			}
			return nil
		},
		FnUpdate: func(e *engine.Engine, deltaTime float64) error {
			state.angle += float32(deltaTime) * 0.8
			for i, mesh := range state.meshes {
				offset := mgl32.Translate3D(float32(i)*1.2-0.6, 0, 0)
				spin := mgl32.HomogRotate3DZ(state.angle)
				if i%2 == 1 {
					spin = mgl32.HomogRotate3DZ(-state.angle)
				}
				mesh.Model = offset.Mul4(spin)
			}
			return nil
		},
		FnOnResize: func(width uint32, height uint32) error {
			return nil
		},
	}, nil
}

func main() {
	game, err := newGame()
	if err != nil {
		panic(err)
	}

	app, err := engine.New(game)
	if err != nil {
		panic(err)
	}

	if err := app.Initialize(); err != nil {
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		<-sigCh
		_ = app.Shutdown()
		os.Exit(0)
	}()

	if err := app.Run(); err != nil {
		panic(err)
	}

	if err := app.Shutdown(); err != nil {
		panic(err)
	}
}
