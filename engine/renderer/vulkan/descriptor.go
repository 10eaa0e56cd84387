package vulkan

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/goki/vulkan"

	"github.com/zschzen/Vulkan-Course/engine/core"
)

// UniformBufferObject is the per-image global uniform block read by the
// vertex shader at binding 0.
type UniformBufferObject struct {
	Projection mgl32.Mat4
	View       mgl32.Mat4
}

const uniformBufferObjectSize = vk.DeviceSize(unsafe.Sizeof(UniformBufferObject{}))

// VulkanDescriptors owns the uniform-buffer descriptor machinery: one
// host-visible buffer and one descriptor set per swapchain image. Contents
// are rewritten every frame, so buffers stay host visible.
type VulkanDescriptors struct {
	SetLayout      vk.DescriptorSetLayout
	Pool           vk.DescriptorPool
	Sets           []vk.DescriptorSet
	UniformBuffers []*VulkanBuffer
}

func NewDescriptors(context *VulkanContext, imageCount uint32) (*VulkanDescriptors, error) {
	d := &VulkanDescriptors{}

	// Layout: a single uniform buffer visible to the vertex stage.
	uboLayoutBinding := vk.DescriptorSetLayoutBinding{
		Binding:         0,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
	}

	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 1,
		PBindings:    []vk.DescriptorSetLayoutBinding{uboLayoutBinding},
	}

	var setLayout vk.DescriptorSetLayout
	if res := vk.CreateDescriptorSetLayout(context.Device.LogicalDevice, &layoutInfo, context.Allocator, &setLayout); res != vk.Success {
		err := fmt.Errorf("failed to create descriptor set layout with error `%s`", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	d.SetLayout = setLayout

	// Pool sized for one uniform descriptor per swapchain image.
	poolSize := vk.DescriptorPoolSize{
		Type:            vk.DescriptorTypeUniformBuffer,
		DescriptorCount: imageCount,
	}
	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		PoolSizeCount: 1,
		PPoolSizes:    []vk.DescriptorPoolSize{poolSize},
		MaxSets:       imageCount,
	}

	var pool vk.DescriptorPool
	if res := vk.CreateDescriptorPool(context.Device.LogicalDevice, &poolInfo, context.Allocator, &pool); res != vk.Success {
		err := fmt.Errorf("failed to create descriptor pool with error `%s`", VulkanResultString(res))
		core.LogError(err.Error())
		d.Destroy(context)
		return nil, err
	}
	d.Pool = pool

	// One uniform buffer per image, so in-flight frames never stomp on each
	// other's globals.
	d.UniformBuffers = make([]*VulkanBuffer, imageCount)
	for i := range d.UniformBuffers {
		buffer, err := BufferCreate(context, uniformBufferObjectSize,
			vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
		if err != nil {
			d.Destroy(context)
			return nil, err
		}
		d.UniformBuffers[i] = buffer
	}

	// Allocate the sets.
	layouts := make([]vk.DescriptorSetLayout, imageCount)
	for i := range layouts {
		layouts[i] = d.SetLayout
	}
	allocInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     d.Pool,
		DescriptorSetCount: imageCount,
		PSetLayouts:        layouts,
	}
	d.Sets = make([]vk.DescriptorSet, imageCount)
	if res := vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocInfo, &d.Sets[0]); res != vk.Success {
		err := fmt.Errorf("failed to allocate descriptor sets with error `%s`", VulkanResultString(res))
		core.LogError(err.Error())
		d.Destroy(context)
		return nil, err
	}

	// Point every set at its buffer.
	for i := range d.Sets {
		bufferInfo := vk.DescriptorBufferInfo{
			Buffer: d.UniformBuffers[i].Handle,
			Offset: 0,
			Range:  uniformBufferObjectSize,
		}
		write := vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          d.Sets[i],
			DstBinding:      0,
			DstArrayElement: 0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			PBufferInfo:     []vk.DescriptorBufferInfo{bufferInfo},
		}
		vk.UpdateDescriptorSets(context.Device.LogicalDevice, 1, []vk.WriteDescriptorSet{write}, 0, nil)
	}

	core.LogDebug("Descriptor sets created for %d swapchain images.", imageCount)
	return d, nil
}

// UpdateUniformBuffer rewrites the uniform block backing the given image's
// descriptor set.
func (d *VulkanDescriptors) UpdateUniformBuffer(context *VulkanContext, imageIndex uint32, ubo *UniformBufferObject) error {
	data := unsafe.Slice((*byte)(unsafe.Pointer(ubo)), int(uniformBufferObjectSize))
	return d.UniformBuffers[imageIndex].LoadData(context, 0, uniformBufferObjectSize, data)
}

// Destroy tears the descriptor objects down. Destroying the pool frees the
// sets allocated from it.
func (d *VulkanDescriptors) Destroy(context *VulkanContext) {
	for _, buffer := range d.UniformBuffers {
		if buffer != nil {
			buffer.Destroy(context)
		}
	}
	d.UniformBuffers = nil
	d.Sets = nil
	if d.Pool != vk.NullDescriptorPool {
		vk.DestroyDescriptorPool(context.Device.LogicalDevice, d.Pool, context.Allocator)
		d.Pool = vk.NullDescriptorPool
	}
	if d.SetLayout != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(context.Device.LogicalDevice, d.SetLayout, context.Allocator)
		d.SetLayout = vk.NullDescriptorSetLayout
	}
}
