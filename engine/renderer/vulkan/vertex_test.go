package vulkan

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/require"
)

func TestVertexBindingDescription(t *testing.T) {
	binding := VertexBindingDescription()
	require.Equal(t, uint32(0), binding.Binding)
	require.Equal(t, uint32(24), binding.Stride)
	require.Equal(t, vk.VertexInputRateVertex, binding.InputRate)
}

func TestVertexAttributeDescriptions(t *testing.T) {
	attrs := VertexAttributeDescriptions()
	require.Len(t, attrs, 2)

	require.Equal(t, uint32(0), attrs[0].Location)
	require.Equal(t, vk.FormatR32g32b32Sfloat, attrs[0].Format)
	require.Equal(t, uint32(0), attrs[0].Offset)

	require.Equal(t, uint32(1), attrs[1].Location)
	require.Equal(t, vk.FormatR32g32b32Sfloat, attrs[1].Format)
	require.Equal(t, uint32(12), attrs[1].Offset)
}

func TestVertexBytes(t *testing.T) {
	vertices := []Vertex{
		{Position: mgl32.Vec3{1, 2, 3}, Color: mgl32.Vec3{0.5, 0.5, 0.5}},
		{Position: mgl32.Vec3{4, 5, 6}, Color: mgl32.Vec3{1, 1, 1}},
	}
	raw := VertexBytes(vertices)
	require.Len(t, raw, 2*int(VertexStride))

	require.Nil(t, VertexBytes(nil))
}

func TestIndexBytes(t *testing.T) {
	indices := []uint32{0, 1, 2, 2, 3, 0}
	raw := IndexBytes(indices)
	require.Len(t, raw, 4*len(indices))

	require.Nil(t, IndexBytes(nil))
}
