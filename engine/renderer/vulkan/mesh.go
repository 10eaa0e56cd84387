package vulkan

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/goki/vulkan"
	"github.com/google/uuid"

	"github.com/zschzen/Vulkan-Course/engine/core"
)

// Mesh owns a device-local vertex/index buffer pair uploaded through the
// staging path, plus the model matrix pushed per draw.
type Mesh struct {
	ID           uuid.UUID
	VertexBuffer *VulkanBuffer
	IndexBuffer  *VulkanBuffer
	VertexCount  uint32
	IndexCount   uint32
	Model        mgl32.Mat4
}

// NewMesh uploads both buffers to device-local memory. The intermediate
// staging buffers are gone by the time this returns.
func NewMesh(context *VulkanContext, pool vk.CommandPool, queue vk.Queue, vertices []Vertex, indices []uint32) (*Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		err := fmt.Errorf("mesh requires at least one vertex and one index")
		core.LogError(err.Error())
		return nil, err
	}

	mesh := &Mesh{
		ID:          uuid.New(),
		VertexCount: uint32(len(vertices)),
		IndexCount:  uint32(len(indices)),
		Model:       mgl32.Ident4(),
	}

	vertexBuffer, err := BufferUploadStaged(context, pool, queue,
		vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit), VertexBytes(vertices))
	if err != nil {
		return nil, err
	}
	mesh.VertexBuffer = vertexBuffer

	indexBuffer, err := BufferUploadStaged(context, pool, queue,
		vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit), IndexBytes(indices))
	if err != nil {
		vertexBuffer.Destroy(context)
		return nil, err
	}
	mesh.IndexBuffer = indexBuffer

	core.LogDebug("Mesh %s uploaded: %d vertices, %d indices.", mesh.ID, mesh.VertexCount, mesh.IndexCount)
	return mesh, nil
}

func (m *Mesh) Destroy(context *VulkanContext) {
	if m.IndexBuffer != nil {
		m.IndexBuffer.Destroy(context)
		m.IndexBuffer = nil
	}
	if m.VertexBuffer != nil {
		m.VertexBuffer.Destroy(context)
		m.VertexBuffer = nil
	}
}
