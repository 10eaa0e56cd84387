package vulkan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zschzen/Vulkan-Course/engine/core"
)

func TestShaderReloadedFlagLatchesOnce(t *testing.T) {
	vr := &VulkanRenderer{}

	vr.ShaderReloaded()
	vr.ShaderReloaded()

	require.True(t, vr.pipelineDirty.CompareAndSwap(true, false))
	require.False(t, vr.pipelineDirty.CompareAndSwap(true, false))
}

// The watcher fires shader-reloaded events from its own goroutine while the
// render loop polls the rebuild flag. Run with -race.
func TestShaderReloadedSafeFromWatcherGoroutine(t *testing.T) {
	vr := &VulkanRenderer{}
	events := core.NewEventSystem()
	events.Register(core.EVENT_CODE_SHADER_RELOADED, func(context core.EventContext) bool {
		vr.ShaderReloaded()
		return true
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			events.Fire(core.EventContext{Type: core.EVENT_CODE_SHADER_RELOADED})
			time.Sleep(time.Millisecond)
		}
	}()

	rebuilds := 0
	deadline := time.Now().Add(5 * time.Second)
	for {
		if vr.pipelineDirty.CompareAndSwap(true, false) {
			rebuilds++
		}
		select {
		case <-done:
			if vr.pipelineDirty.CompareAndSwap(true, false) {
				rebuilds++
			}
			require.Positive(t, rebuilds)
			require.False(t, vr.pipelineDirty.Load())
			return
		default:
		}
		if time.Now().After(deadline) {
			t.Fatal("watcher goroutine did not finish firing")
		}
		time.Sleep(100 * time.Microsecond)
	}
}

func TestClaimSwapchainImageTracksOwningFence(t *testing.T) {
	vr := &VulkanRenderer{context: &VulkanContext{
		ImagesInFlight: make([]*VulkanFence, 3),
	}}

	// An unowned image is claimed without any wait.
	slot := &vr.context.FrameSlots[0]
	slot.InFlight = &VulkanFence{IsSignaled: true}
	vr.claimSwapchainImage(1, slot)
	require.Same(t, slot.InFlight, vr.context.ImagesInFlight[1])

	// A later slot acquiring the same image waits on the recorded fence
	// before taking ownership. A signaled fence returns immediately.
	next := &vr.context.FrameSlots[1]
	next.InFlight = &VulkanFence{IsSignaled: true}
	vr.claimSwapchainImage(1, next)
	require.Same(t, next.InFlight, vr.context.ImagesInFlight[1])

	// Other images keep their (absent) owners.
	require.Nil(t, vr.context.ImagesInFlight[0])
	require.Nil(t, vr.context.ImagesInFlight[2])
}
