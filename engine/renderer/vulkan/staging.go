package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/zschzen/Vulkan-Course/engine/core"
)

// BufferUploadStaged moves data into a new device-local buffer through a
// host-visible staging buffer. The staging buffer only lives for the duration
// of the call: create, fill, copy on a single-use command buffer, wait for
// the queue to drain, destroy.
func BufferUploadStaged(context *VulkanContext, pool vk.CommandPool, queue vk.Queue, usage vk.BufferUsageFlags, data []byte) (*VulkanBuffer, error) {
	if len(data) == 0 {
		err := fmt.Errorf("refusing to upload an empty buffer")
		core.LogError(err.Error())
		return nil, err
	}
	size := vk.DeviceSize(len(data))

	staging, err := BufferCreate(context, size,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	// The staging buffer must not outlive this call whatever happens below.
	defer staging.Destroy(context)

	if err := staging.LoadData(context, 0, size, data); err != nil {
		return nil, err
	}

	deviceLocal, err := BufferCreate(context, size,
		usage|vk.BufferUsageFlags(vk.BufferUsageTransferDstBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return nil, err
	}

	if err := staging.CopyTo(context, pool, queue, deviceLocal, size); err != nil {
		deviceLocal.Destroy(context)
		return nil, err
	}

	return deviceLocal, nil
}

// ImageUploadStaged fills a device-local image from pixel data through a
// staging buffer. The image is transitioned undefined -> transfer-dst for
// the copy and ends in shader-read-only layout.
func ImageUploadStaged(context *VulkanContext, pool vk.CommandPool, queue vk.Queue, image *VulkanImage, pixels []byte) error {
	if len(pixels) == 0 {
		err := fmt.Errorf("refusing to upload an empty image")
		core.LogError(err.Error())
		return err
	}
	size := vk.DeviceSize(len(pixels))

	staging, err := BufferCreate(context, size,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return err
	}
	defer staging.Destroy(context)

	if err := staging.LoadData(context, 0, size, pixels); err != nil {
		return err
	}

	if err := image.TransitionLayout(context, pool, queue, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal); err != nil {
		return err
	}
	if err := image.CopyFromBuffer(context, pool, queue, staging); err != nil {
		return err
	}
	return image.TransitionLayout(context, pool, queue, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal)
}
