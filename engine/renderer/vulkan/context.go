package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/zschzen/Vulkan-Course/engine/core"
)

// FrameSlot bundles the synchronization primitives owned by one in-flight
// frame. Slots are cycled through by CurrentFrame, independent of which
// swapchain image the frame ends up rendering to.
type FrameSlot struct {
	// Signaled by the acquire, waited on by the queue submission.
	ImageAvailable vk.Semaphore
	// Signaled by the queue submission, waited on by the present.
	RenderFinished vk.Semaphore
	// Signaled when this slot's submission has fully executed.
	InFlight *VulkanFence
}

type VulkanContext struct {
	// The framebuffer's current width.
	FramebufferWidth uint32
	// The framebuffer's current height.
	FramebufferHeight uint32
	// Current generation of framebuffer size. If it does not match
	// FramebufferSizeLastGeneration, a new swapchain should be generated.
	FramebufferSizeGeneration uint64
	// The generation of the framebuffer when the swapchain was last created.
	FramebufferSizeLastGeneration uint64

	Instance  vk.Instance
	Allocator *vk.AllocationCallbacks
	Surface   vk.Surface

	debugMessenger vk.DebugReportCallback

	Device *VulkanDevice

	Swapchain      *VulkanSwapchain
	MainRenderpass *VulkanRenderpass

	// One command buffer per swapchain image.
	GraphicsCommandBuffers []*VulkanCommandBuffer

	// Per-frame sync objects, indexed by CurrentFrame.
	FrameSlots [MaxFramesInFlight]FrameSlot

	// Holds pointers to fences which exist and are owned elsewhere, indexed
	// by swapchain image. nil when no frame currently targets that image.
	ImagesInFlight []*VulkanFence

	ImageIndex   uint32
	CurrentFrame uint32

	RecreatingSwapchain bool

	// Teardown callbacks for resources that live for the whole renderer
	// lifetime. Flushed once during shutdown, after the device is idle.
	MainDeletionQueue *DeletionQueue
}

func (vc *VulkanContext) FindMemoryIndex(typeFilter, propertyFlags uint32) int32 {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(vc.Device.PhysicalDevice, &memoryProperties)
	memoryProperties.Deref()

	for i := uint32(0); i < memoryProperties.MemoryTypeCount; i++ {
		// Check each memory type to see if its bit is set to 1.
		memoryProperties.MemoryTypes[i].Deref()
		if (typeFilter&(1<<i)) != 0 && (uint32(memoryProperties.MemoryTypes[i].PropertyFlags)&propertyFlags) == propertyFlags {
			return int32(i)
		}
	}
	core.LogWarn("Unable to find suitable memory type!")
	return -1
}
