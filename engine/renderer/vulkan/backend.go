package vulkan

import (
	"fmt"
	"math"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/goki/vulkan"
	"github.com/google/uuid"

	"github.com/zschzen/Vulkan-Course/engine/core"
	"github.com/zschzen/Vulkan-Course/engine/platform"
)

type RendererConfig struct {
	AppName string
	// Enables validation layers and the debug messenger.
	Debug bool
	// Directory holding the compiled vert.spv / frag.spv binaries.
	ShaderDir string
}

type VulkanRenderer struct {
	platform    *platform.Platform
	config      RendererConfig
	FrameNumber uint64
	context     *VulkanContext

	cachedFramebufferWidth  uint32
	cachedFramebufferHeight uint32

	pipeline    *VulkanPipeline
	descriptors *VulkanDescriptors

	meshes  []*Mesh
	texture *VulkanTexture

	// Latest camera state, written into the per-image uniform buffer at the
	// start of every frame.
	view mgl32.Mat4

	// Set when a recompiled shader binary lands on disk. The watcher fires
	// from its own goroutine while the render loop polls, so the flag is
	// atomic. The pipeline is rebuilt at the top of the next frame, after a
	// device idle.
	pipelineDirty atomic.Bool
}

func New(p *platform.Platform, config RendererConfig) *VulkanRenderer {
	return &VulkanRenderer{
		platform: p,
		config:   config,
		context: &VulkanContext{
			Allocator:         nil,
			Device:            &VulkanDevice{GraphicsQueueIndex: -1, PresentQueueIndex: -1},
			MainDeletionQueue: NewDeletionQueue(),
		},
		view: mgl32.LookAtV(mgl32.Vec3{0, 0, 2}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}),
	}
}

func (vr *VulkanRenderer) Initialize(appWidth, appHeight uint32) error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		err := fmt.Errorf("GetInstanceProcAddress is nil")
		core.LogError(err.Error())
		return err
	}
	vk.SetGetInstanceProcAddr(procAddr)

	if err := vk.Init(); err != nil {
		core.LogError("failed to initialize vk: %s", err)
		return err
	}

	vr.context.FramebufferWidth = appWidth
	vr.context.FramebufferHeight = appHeight

	// Setup Vulkan instance.
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(vr.config.AppName),
		PEngineName:        VulkanSafeString("Vulkan Course"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	// Obtain a list of required extensions.
	requiredExtensions := vr.platform.GetRequiredExtensionNames()

	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		createInfo.Flags |= 1 // VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
	}

	if vr.config.Debug {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)
		core.LogInfo("Required extensions:")
		for i := range requiredExtensions {
			core.LogInfo("  %s", requiredExtensions[i])
		}
	}

	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)

	// Validation layers. Only enabled on debug builds, and every required
	// layer must actually exist.
	requiredValidationLayerNames := []string{}
	if vr.config.Debug {
		core.LogInfo("Validation layers enabled. Enumerating...")
		requiredValidationLayerNames = []string{"VK_LAYER_KHRONOS_validation"}

		var availableLayerCount uint32
		if res := vk.EnumerateInstanceLayerProperties(&availableLayerCount, nil); res != vk.Success {
			err := fmt.Errorf("failed to enumerate instance layers with error `%s`", VulkanResultString(res))
			core.LogError(err.Error())
			return err
		}
		availableLayers := make([]vk.LayerProperties, availableLayerCount)
		if res := vk.EnumerateInstanceLayerProperties(&availableLayerCount, availableLayers); res != vk.Success {
			err := fmt.Errorf("failed to enumerate instance layers with error `%s`", VulkanResultString(res))
			core.LogError(err.Error())
			return err
		}

		for i := range requiredValidationLayerNames {
			found := false
			for j := range availableLayers {
				availableLayers[j].Deref()
				end := FindFirstZeroInByteArray(availableLayers[j].LayerName[:])
				if requiredValidationLayerNames[i] == string(availableLayers[j].LayerName[:end]) {
					found = true
					break
				}
			}
			if !found {
				err := fmt.Errorf("required validation layer is missing: %s", requiredValidationLayerNames[i])
				core.LogError(err.Error())
				return err
			}
		}
		core.LogInfo("All required validation layers are present.")
	}

	createInfo.EnabledLayerCount = uint32(len(requiredValidationLayerNames))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(requiredValidationLayerNames)

	if res := vk.CreateInstance(&createInfo, vr.context.Allocator, &vr.context.Instance); res != vk.Success {
		err := fmt.Errorf("failed to create the Vulkan instance with error `%s`", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	if err := vk.InitInstance(vr.context.Instance); err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("Vulkan instance created.")
	vr.context.MainDeletionQueue.Push(func() {
		core.LogDebug("Destroying Vulkan instance...")
		vk.DestroyInstance(vr.context.Instance, vr.context.Allocator)
	})

	// Debugger
	if vr.config.Debug {
		core.LogDebug("Creating Vulkan debugger...")
		debugCreateInfo := vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
			PfnCallback: dbgCallbackFunc,
		}

		var dbg vk.DebugReportCallback
		if res := vk.CreateDebugReportCallback(vr.context.Instance, &debugCreateInfo, nil, &dbg); res != vk.Success {
			err := fmt.Errorf("failed to create debug report callback with error `%s`", VulkanResultString(res))
			core.LogError(err.Error())
			return err
		}
		vr.context.debugMessenger = dbg
		vr.context.MainDeletionQueue.Push(func() {
			core.LogDebug("Destroying Vulkan debugger...")
			if vr.context.debugMessenger != vk.NullDebugReportCallback {
				vk.DestroyDebugReportCallback(vr.context.Instance, vr.context.debugMessenger, vr.context.Allocator)
			}
		})
		core.LogDebug("Vulkan debugger created.")
	}

	// Surface
	core.LogDebug("Creating Vulkan surface...")
	surface, err := vr.platform.CreateVulkanSurface(vr.context.Instance)
	if err != nil {
		core.LogError("Failed to create platform surface!")
		return err
	}
	vr.context.Surface = surface
	vr.context.MainDeletionQueue.Push(func() {
		core.LogDebug("Destroying Vulkan surface...")
		if vr.context.Surface != vk.NullSurface {
			vk.DestroySurface(vr.context.Instance, vr.context.Surface, vr.context.Allocator)
			vr.context.Surface = vk.NullSurface
		}
	})
	core.LogDebug("Vulkan surface created.")

	// Device creation
	if err := DeviceCreate(vr.context); err != nil {
		core.LogError("Failed to create device!")
		return err
	}
	vr.context.MainDeletionQueue.Push(func() {
		core.LogDebug("Destroying Vulkan device...")
		DeviceDestroy(vr.context)
	})

	// Swapchain
	sc, err := SwapchainCreate(vr.context, vr.context.FramebufferWidth, vr.context.FramebufferHeight)
	if err != nil {
		return err
	}
	vr.context.Swapchain = sc
	vr.context.MainDeletionQueue.Push(func() {
		vr.context.Swapchain.SwapchainDestroy(vr.context)
	})

	rp, err := RenderpassCreate(
		vr.context,
		0, 0, float32(vr.context.FramebufferWidth), float32(vr.context.FramebufferHeight),
		0.0, 0.0, 0.2, 1.0,
		1.0,
		0)
	if err != nil {
		return err
	}
	vr.context.MainRenderpass = rp
	vr.context.MainDeletionQueue.Push(func() {
		vr.context.MainRenderpass.RenderpassDestroy(vr.context)
	})

	// Swapchain framebuffers.
	if err := vr.regenerateFramebuffers(vr.context.Swapchain, vr.context.MainRenderpass); err != nil {
		return err
	}
	vr.context.MainDeletionQueue.Push(func() {
		for i := 0; i < int(vr.context.Swapchain.ImageCount); i++ {
			vr.context.Swapchain.Framebuffers[i].Destroy(vr.context)
		}
	})

	// Command buffers, one per swapchain image.
	if err := vr.createCommandBuffers(); err != nil {
		return err
	}
	vr.context.MainDeletionQueue.Push(func() {
		for i := range vr.context.GraphicsCommandBuffers {
			if vr.context.GraphicsCommandBuffers[i].Handle != nil {
				vr.context.GraphicsCommandBuffers[i].Free(vr.context, vr.context.Device.GraphicsCommandPool)
			}
		}
		vr.context.GraphicsCommandBuffers = nil
	})

	// Sync objects: one slot per in-flight frame.
	if err := vr.createFrameSlots(); err != nil {
		return err
	}
	vr.context.MainDeletionQueue.Push(func() {
		for i := range vr.context.FrameSlots {
			slot := &vr.context.FrameSlots[i]
			if slot.ImageAvailable != vk.NullSemaphore {
				vk.DestroySemaphore(vr.context.Device.LogicalDevice, slot.ImageAvailable, vr.context.Allocator)
				slot.ImageAvailable = vk.NullSemaphore
			}
			if slot.RenderFinished != vk.NullSemaphore {
				vk.DestroySemaphore(vr.context.Device.LogicalDevice, slot.RenderFinished, vr.context.Allocator)
				slot.RenderFinished = vk.NullSemaphore
			}
			if slot.InFlight != nil {
				slot.InFlight.FenceDestroy(vr.context)
			}
		}
		vr.context.ImagesInFlight = nil
	})

	// Descriptors and per-image uniform buffers.
	descriptors, err := NewDescriptors(vr.context, vr.context.Swapchain.ImageCount)
	if err != nil {
		return err
	}
	vr.descriptors = descriptors
	vr.context.MainDeletionQueue.Push(func() {
		vr.descriptors.Destroy(vr.context)
	})

	// Graphics pipeline.
	if err := vr.createPipeline(); err != nil {
		return err
	}
	vr.context.MainDeletionQueue.Push(func() {
		// Late bound on purpose: shader reloads swap the pipeline out.
		vr.pipeline.Destroy(vr.context)
	})

	// Resources loaded later (meshes, textures) are destroyed here too.
	vr.context.MainDeletionQueue.Push(func() {
		if vr.texture != nil {
			vr.texture.Destroy(vr.context)
			vr.texture = nil
		}
		for _, mesh := range vr.meshes {
			mesh.Destroy(vr.context)
		}
		vr.meshes = nil
	})

	core.LogInfo("Vulkan renderer initialized successfully.")
	return nil
}

// Shutdown waits for the device to go idle and unwinds everything the
// renderer created, in reverse creation order.
func (vr *VulkanRenderer) Shutdown() error {
	if vr.context.Device.LogicalDevice != nil {
		vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)
	}
	vr.context.MainDeletionQueue.Flush()
	return nil
}

// Resized caches the new framebuffer dimensions and bumps the size
// generation. The actual swapchain recreation happens at the top of the
// next frame.
func (vr *VulkanRenderer) Resized(width, height uint32) {
	vr.cachedFramebufferWidth = width
	vr.cachedFramebufferHeight = height
	vr.context.FramebufferSizeGeneration++

	core.LogInfo("Vulkan renderer resized: w/h/gen: %d/%d/%d", width, height, vr.context.FramebufferSizeGeneration)
}

// ShaderReloaded flags the pipeline for a rebuild at the top of the next
// frame. Safe to call from any goroutine.
func (vr *VulkanRenderer) ShaderReloaded() {
	vr.pipelineDirty.Store(true)
}

// SetView updates the camera view matrix written to the uniform block.
func (vr *VulkanRenderer) SetView(view mgl32.Mat4) {
	vr.view = view
}

// LoadMesh uploads the geometry and registers the mesh for drawing and
// shutdown teardown.
func (vr *VulkanRenderer) LoadMesh(vertices []Vertex, indices []uint32) (*Mesh, error) {
	mesh, err := NewMesh(vr.context, vr.context.Device.GraphicsCommandPool, vr.context.Device.GraphicsQueue, vertices, indices)
	if err != nil {
		return nil, err
	}
	vr.meshes = append(vr.meshes, mesh)
	return mesh, nil
}

// UnloadMesh destroys a registered mesh immediately. The device is idled
// first so no in-flight frame still references its buffers.
func (vr *VulkanRenderer) UnloadMesh(id uuid.UUID) error {
	for i, mesh := range vr.meshes {
		if mesh.ID == id {
			vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)
			mesh.Destroy(vr.context)
			vr.meshes = append(vr.meshes[:i], vr.meshes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("mesh %s is not registered", id)
}

// LoadTexture decodes the file and uploads it through the staged image path.
func (vr *VulkanRenderer) LoadTexture(path string) error {
	texture, err := TextureCreateFromFile(vr.context, vr.context.Device.GraphicsCommandPool, vr.context.Device.GraphicsQueue, path)
	if err != nil {
		return err
	}
	if vr.texture != nil {
		vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)
		vr.texture.Destroy(vr.context)
	}
	vr.texture = texture
	return nil
}

// DrawFrame runs one full frame: sync wait, acquire, uniform update, record,
// submit, present. A core.ErrSwapchainBooting return means the frame was
// skipped for a recreation and the caller should simply continue.
func (vr *VulkanRenderer) DrawFrame(deltaTime float64) error {
	if err := vr.beginFrame(); err != nil {
		return err
	}

	if err := vr.updateGlobalState(); err != nil {
		return err
	}
	vr.recordScene()

	if err := vr.endFrame(); err != nil {
		return err
	}
	vr.FrameNumber++
	return nil
}

func (vr *VulkanRenderer) beginFrame() error {
	device := vr.context.Device

	// Check if recreating swap chain and boot out.
	if vr.context.RecreatingSwapchain {
		result := vk.DeviceWaitIdle(device.LogicalDevice)
		if !VulkanResultIsSuccess(result) {
			err := fmt.Errorf("begin frame device wait idle failed with error `%s`", VulkanResultString(result))
			core.LogError(err.Error())
			return err
		}
		core.LogInfo("Recreating swapchain, booting.")
		return core.ErrSwapchainBooting
	}

	// A recompiled shader swaps the pipeline before any recording starts.
	// The flag is re-armed on failure so the rebuild is retried next frame.
	if vr.pipelineDirty.CompareAndSwap(true, false) {
		if err := vr.rebuildPipeline(); err != nil {
			vr.pipelineDirty.Store(true)
			return err
		}
	}

	// Check if the framebuffer has been resized. If so, a new swapchain must
	// be created before this frame can proceed.
	if vr.context.FramebufferSizeGeneration != vr.context.FramebufferSizeLastGeneration {
		result := vk.DeviceWaitIdle(device.LogicalDevice)
		if !VulkanResultIsSuccess(result) {
			err := fmt.Errorf("begin frame device wait idle failed with error `%s`", VulkanResultString(result))
			core.LogError(err.Error())
			return err
		}

		// If the swapchain recreation failed (because, for example, the
		// window was minimized), boot out before unsetting the flag.
		if !vr.recreateSwapchain() {
			return core.ErrSwapchainBooting
		}

		core.LogInfo("Resized, booting.")
		return core.ErrSwapchainBooting
	}

	slot := &vr.context.FrameSlots[vr.context.CurrentFrame]

	// Wait for the execution of the current frame to complete. The fence
	// being free will allow this one to move on.
	if !slot.InFlight.FenceWait(vr.context, math.MaxUint64) {
		err := fmt.Errorf("in-flight fence wait failure")
		core.LogWarn(err.Error())
		return err
	}

	// Acquire the next image from the swap chain. Pass along the semaphore
	// that should be signaled when this completes. The same semaphore will
	// later be waited on by the queue submission.
	imageIndex, result := vr.context.Swapchain.SwapchainAcquireNextImageIndex(vr.context, math.MaxUint64, slot.ImageAvailable, vk.NullFence)
	if result == vk.ErrorOutOfDate {
		vr.requestSwapchainRecreation()
		return core.ErrSwapchainBooting
	} else if result != vk.Success && result != vk.Suboptimal {
		return fmt.Errorf("failed to acquire swapchain image with error `%s`", VulkanResultString(result))
	}
	vr.context.ImageIndex = imageIndex

	// The acquire can hand back an image whose previous submission has not
	// retired yet. Its command buffer must not be rewritten until then.
	vr.claimSwapchainImage(imageIndex, slot)

	// Begin recording commands.
	commandBuffer := vr.context.GraphicsCommandBuffers[vr.context.ImageIndex]
	commandBuffer.Reset()
	if err := commandBuffer.Begin(false, false, false); err != nil {
		return err
	}

	// Dynamic state.
	viewport := vk.Viewport{
		X:        0.0,
		Y:        0.0,
		Width:    float32(vr.context.FramebufferWidth),
		Height:   float32(vr.context.FramebufferHeight),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: vk.Extent2D{
			Width:  vr.context.FramebufferWidth,
			Height: vr.context.FramebufferHeight,
		},
	}
	vk.CmdSetViewport(commandBuffer.Handle, 0, 1, []vk.Viewport{viewport})
	vk.CmdSetScissor(commandBuffer.Handle, 0, 1, []vk.Rect2D{scissor})

	vr.context.MainRenderpass.W = float32(vr.context.FramebufferWidth)
	vr.context.MainRenderpass.H = float32(vr.context.FramebufferHeight)

	vr.context.MainRenderpass.RenderpassBegin(commandBuffer, vr.context.Swapchain.Framebuffers[vr.context.ImageIndex].Handle)

	return nil
}

// updateGlobalState rewrites the acquired image's uniform block with the
// current projection and view.
func (vr *VulkanRenderer) updateGlobalState() error {
	aspect := float32(vr.context.FramebufferWidth) / float32(vr.context.FramebufferHeight)
	projection := mgl32.Perspective(mgl32.DegToRad(45.0), aspect, 0.1, 100.0)
	// Vulkan clip space has an inverted Y compared to OpenGL.
	projection[5] *= -1

	ubo := UniformBufferObject{
		Projection: projection,
		View:       vr.view,
	}
	return vr.descriptors.UpdateUniformBuffer(vr.context, vr.context.ImageIndex, &ubo)
}

// recordScene records the draw commands for every registered mesh into the
// acquired image's command buffer.
func (vr *VulkanRenderer) recordScene() {
	commandBuffer := vr.context.GraphicsCommandBuffers[vr.context.ImageIndex]

	vr.pipeline.Bind(commandBuffer, vk.PipelineBindPointGraphics)

	vk.CmdBindDescriptorSets(commandBuffer.Handle, vk.PipelineBindPointGraphics,
		vr.pipeline.PipelineLayout, 0, 1,
		[]vk.DescriptorSet{vr.descriptors.Sets[vr.context.ImageIndex]}, 0, nil)

	for _, mesh := range vr.meshes {
		vk.CmdPushConstants(commandBuffer.Handle, vr.pipeline.PipelineLayout,
			vk.ShaderStageFlags(vk.ShaderStageVertexBit), 0, PushConstantModelSize,
			unsafe.Pointer(&mesh.Model[0]))

		vk.CmdBindVertexBuffers(commandBuffer.Handle, 0, 1,
			[]vk.Buffer{mesh.VertexBuffer.Handle}, []vk.DeviceSize{0})
		vk.CmdBindIndexBuffer(commandBuffer.Handle, mesh.IndexBuffer.Handle, 0, vk.IndexTypeUint32)

		vk.CmdDrawIndexed(commandBuffer.Handle, mesh.IndexCount, 1, 0, 0, 0)
	}
}

func (vr *VulkanRenderer) endFrame() error {
	commandBuffer := vr.context.GraphicsCommandBuffers[vr.context.ImageIndex]
	slot := &vr.context.FrameSlots[vr.context.CurrentFrame]

	vr.context.MainRenderpass.RenderpassEnd(commandBuffer)

	if err := commandBuffer.End(); err != nil {
		return err
	}

	// Reset the fence for use on the next frame.
	if err := slot.InFlight.FenceReset(vr.context); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType: vk.StructureTypeSubmitInfo,

		// Command buffer(s) to be executed.
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{commandBuffer.Handle},

		// The semaphore(s) to be signaled when the queue is complete.
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{slot.RenderFinished},

		// Wait semaphore ensures that the operation cannot begin until the
		// image is available.
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{slot.ImageAvailable},

		// Each wait semaphore is paired with the pipeline stage that stalls
		// on it. Color attachment output keeps earlier stages running while
		// the image is still being presented.
		PWaitDstStageMask: []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
	}

	if result := vk.QueueSubmit(vr.context.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, slot.InFlight.Handle); result != vk.Success {
		err := fmt.Errorf("queue submit failed with error `%s`", VulkanResultString(result))
		core.LogError(err.Error())
		return err
	}

	commandBuffer.UpdateSubmitted()

	// Give the image back to the swapchain. This also advances CurrentFrame.
	result := vr.context.Swapchain.SwapchainPresent(
		vr.context,
		vr.context.Device.PresentQueue,
		slot.RenderFinished,
		vr.context.ImageIndex)
	if result == vk.ErrorOutOfDate || result == vk.Suboptimal {
		// A stale presented image is visible, so suboptimal forces a
		// recreation here even though it was tolerated at acquire time.
		vr.requestSwapchainRecreation()
	} else if result != vk.Success {
		err := fmt.Errorf("failed to present swapchain image with error `%s`", VulkanResultString(result))
		core.LogError(err.Error())
		return err
	}
	return nil
}

// claimSwapchainImage waits out the submission that last targeted the image
// and records the current slot's fence as its new owner.
func (vr *VulkanRenderer) claimSwapchainImage(imageIndex uint32, slot *FrameSlot) {
	if vr.context.ImagesInFlight[imageIndex] != nil {
		vr.context.ImagesInFlight[imageIndex].FenceWait(vr.context, math.MaxUint64)
	}
	vr.context.ImagesInFlight[imageIndex] = slot.InFlight
}

// requestSwapchainRecreation routes a driver-reported stale swapchain into
// the same top-of-frame recreation path a window resize takes. When no
// resize event supplied fresh dimensions, the current ones are reused.
func (vr *VulkanRenderer) requestSwapchainRecreation() {
	if vr.cachedFramebufferWidth == 0 && vr.cachedFramebufferHeight == 0 {
		vr.cachedFramebufferWidth = vr.context.FramebufferWidth
		vr.cachedFramebufferHeight = vr.context.FramebufferHeight
	}
	vr.context.FramebufferSizeGeneration++
}

func (vr *VulkanRenderer) createCommandBuffers() error {
	if len(vr.context.GraphicsCommandBuffers) == 0 {
		vr.context.GraphicsCommandBuffers = make([]*VulkanCommandBuffer, vr.context.Swapchain.ImageCount)
	}
	for i := 0; i < int(vr.context.Swapchain.ImageCount); i++ {
		if vr.context.GraphicsCommandBuffers[i] != nil && vr.context.GraphicsCommandBuffers[i].Handle != nil {
			vr.context.GraphicsCommandBuffers[i].Free(vr.context, vr.context.Device.GraphicsCommandPool)
		}
		vr.context.GraphicsCommandBuffers[i] = nil
		cb, err := NewVulkanCommandBuffer(vr.context, vr.context.Device.GraphicsCommandPool, true)
		if err != nil {
			return err
		}
		vr.context.GraphicsCommandBuffers[i] = cb
	}

	core.LogDebug("Vulkan command buffers created.")
	return nil
}

func (vr *VulkanRenderer) createFrameSlots() error {
	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}

	for i := range vr.context.FrameSlots {
		slot := &vr.context.FrameSlots[i]

		if res := vk.CreateSemaphore(vr.context.Device.LogicalDevice, &semaphoreCreateInfo, vr.context.Allocator, &slot.ImageAvailable); res != vk.Success {
			err := fmt.Errorf("failed to create image-available semaphore with error `%s`", VulkanResultString(res))
			core.LogError(err.Error())
			return err
		}
		if res := vk.CreateSemaphore(vr.context.Device.LogicalDevice, &semaphoreCreateInfo, vr.context.Allocator, &slot.RenderFinished); res != vk.Success {
			err := fmt.Errorf("failed to create render-finished semaphore with error `%s`", VulkanResultString(res))
			core.LogError(err.Error())
			return err
		}

		// Create the fence in a signaled state, so the very first frame does
		// not wait on a submission that never happened.
		fence, err := NewFence(vr.context, true)
		if err != nil {
			return err
		}
		slot.InFlight = fence
	}

	// In-flight fences do not yet target any image, so the per-image list
	// starts out nil. Actual fences are owned by the frame slots.
	vr.context.ImagesInFlight = make([]*VulkanFence, vr.context.Swapchain.ImageCount)

	return nil
}

func (vr *VulkanRenderer) regenerateFramebuffers(swapchain *VulkanSwapchain, renderpass *VulkanRenderpass) error {
	swapchain.Framebuffers = make([]*VulkanFramebuffer, swapchain.ImageCount)
	for i := 0; i < int(swapchain.ImageCount); i++ {
		attachments := []vk.ImageView{
			swapchain.Views[i],
			swapchain.DepthAttachment.View,
		}
		fb, err := FramebufferCreate(vr.context, renderpass, vr.context.FramebufferWidth, vr.context.FramebufferHeight, attachments)
		if err != nil {
			return err
		}
		swapchain.Framebuffers[i] = fb
	}
	return nil
}

func (vr *VulkanRenderer) createPipeline() error {
	vertStage, err := NewShaderStage(vr.context, filepath.Join(vr.config.ShaderDir, "vert.spv"), vk.ShaderStageVertexBit)
	if err != nil {
		return err
	}
	// Modules are baked into the pipeline, so they can go as soon as it is
	// created.
	defer vertStage.Destroy(vr.context)

	fragStage, err := NewShaderStage(vr.context, filepath.Join(vr.config.ShaderDir, "frag.spv"), vk.ShaderStageFragmentBit)
	if err != nil {
		return err
	}
	defer fragStage.Destroy(vr.context)

	pipeline, err := NewGraphicsPipeline(vr.context, &VulkanPipelineConfig{
		Renderpass: vr.context.MainRenderpass,
		Stages: []vk.PipelineShaderStageCreateInfo{
			vertStage.ShaderStageCreateInfo,
			fragStage.ShaderStageCreateInfo,
		},
		DescriptorSetLayouts: []vk.DescriptorSetLayout{vr.descriptors.SetLayout},
		Viewport: vk.Viewport{
			X:        0,
			Y:        0,
			Width:    float32(vr.context.FramebufferWidth),
			Height:   float32(vr.context.FramebufferHeight),
			MinDepth: 0,
			MaxDepth: 1,
		},
		Scissor: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: vk.Extent2D{Width: vr.context.FramebufferWidth, Height: vr.context.FramebufferHeight},
		},
	})
	if err != nil {
		return err
	}
	vr.pipeline = pipeline
	return nil
}

// rebuildPipeline swaps the graphics pipeline for one built from the latest
// shader binaries. The old pipeline keeps running if the rebuild fails.
func (vr *VulkanRenderer) rebuildPipeline() error {
	result := vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)
	if !VulkanResultIsSuccess(result) {
		err := fmt.Errorf("pipeline rebuild device wait idle failed with error `%s`", VulkanResultString(result))
		core.LogError(err.Error())
		return err
	}

	oldPipeline := vr.pipeline
	if err := vr.createPipeline(); err != nil {
		core.LogWarn("shader reload failed, keeping the previous pipeline: %s", err)
		vr.pipeline = oldPipeline
		return nil
	}
	oldPipeline.Destroy(vr.context)
	core.LogInfo("Graphics pipeline rebuilt from reloaded shaders.")
	return nil
}

func (vr *VulkanRenderer) recreateSwapchain() bool {
	// If already being recreated, do not try again.
	if vr.context.RecreatingSwapchain {
		core.LogDebug("recreateSwapchain called when already recreating. Booting.")
		return false
	}

	// Detect if the window is too small to be drawn to.
	if vr.cachedFramebufferWidth == 0 || vr.cachedFramebufferHeight == 0 {
		core.LogDebug("recreateSwapchain called when window is < 1 in a dimension. Booting.")
		return false
	}

	vr.context.RecreatingSwapchain = true

	// Wait for any operations to complete.
	vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)

	// Clear these out just in case.
	for i := range vr.context.ImagesInFlight {
		vr.context.ImagesInFlight[i] = nil
	}

	// Requery support, the surface may have changed under us.
	if err := DeviceQuerySwapchainSupport(vr.context.Device.PhysicalDevice, vr.context.Surface, vr.context.Device.SwapchainSupport); err != nil {
		vr.context.RecreatingSwapchain = false
		return false
	}
	DeviceDetectDepthFormat(vr.context.Device)

	// The old framebuffers reference the old image views, so they go before
	// the swapchain they belong to.
	for i := range vr.context.Swapchain.Framebuffers {
		if vr.context.Swapchain.Framebuffers[i] != nil {
			vr.context.Swapchain.Framebuffers[i].Destroy(vr.context)
		}
	}

	sc, err := vr.context.Swapchain.SwapchainRecreate(vr.context, vr.cachedFramebufferWidth, vr.cachedFramebufferHeight)
	if err != nil {
		vr.context.RecreatingSwapchain = false
		return false
	}
	vr.context.Swapchain = sc

	// Sync the framebuffer size with the cached sizes.
	vr.context.FramebufferWidth = vr.cachedFramebufferWidth
	vr.context.FramebufferHeight = vr.cachedFramebufferHeight
	vr.context.MainRenderpass.X = 0
	vr.context.MainRenderpass.Y = 0
	vr.context.MainRenderpass.W = float32(vr.context.FramebufferWidth)
	vr.context.MainRenderpass.H = float32(vr.context.FramebufferHeight)
	vr.cachedFramebufferWidth = 0
	vr.cachedFramebufferHeight = 0

	// Update framebuffer size generation.
	vr.context.FramebufferSizeLastGeneration = vr.context.FramebufferSizeGeneration

	if err := vr.regenerateFramebuffers(vr.context.Swapchain, vr.context.MainRenderpass); err != nil {
		vr.context.RecreatingSwapchain = false
		return false
	}

	if err := vr.createCommandBuffers(); err != nil {
		vr.context.RecreatingSwapchain = false
		return false
	}

	// The image count may have changed with the new swapchain.
	vr.context.ImagesInFlight = make([]*VulkanFence, vr.context.Swapchain.ImageCount)

	vr.context.RecreatingSwapchain = false
	return true
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("PERFORMANCE: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogInfo("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
