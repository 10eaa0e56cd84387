package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/require"
)

func TestVulkanResultString(t *testing.T) {
	require.Equal(t, "VK_SUCCESS", VulkanResultString(vk.Success))
	require.Equal(t, "VK_ERROR_OUT_OF_DATE_KHR", VulkanResultString(vk.ErrorOutOfDate))
	require.Equal(t, "VK_SUBOPTIMAL_KHR", VulkanResultString(vk.Suboptimal))
	require.Equal(t, "VK_RESULT_UNRECOGNIZED", VulkanResultString(vk.Result(-9999)))
}

func TestVulkanResultIsSuccess(t *testing.T) {
	require.True(t, VulkanResultIsSuccess(vk.Success))
	require.True(t, VulkanResultIsSuccess(vk.Suboptimal))
	require.True(t, VulkanResultIsSuccess(vk.Timeout))
	require.False(t, VulkanResultIsSuccess(vk.ErrorOutOfDate))
	require.False(t, VulkanResultIsSuccess(vk.ErrorDeviceLost))
}

func TestVulkanSafeString(t *testing.T) {
	require.Equal(t, "main\x00", VulkanSafeString("main"))
	require.Equal(t, "main\x00", VulkanSafeString("main\x00"))
	require.Equal(t, "\x00", VulkanSafeString(""))
}

func TestVulkanSafeStrings(t *testing.T) {
	in := []string{"VK_KHR_surface", "VK_KHR_swapchain\x00"}
	out := VulkanSafeStrings(in)
	require.Equal(t, []string{"VK_KHR_surface\x00", "VK_KHR_swapchain\x00"}, out)
	// The input must not be rewritten in place.
	require.Equal(t, "VK_KHR_surface", in[0])
}

func TestFindFirstZeroInByteArray(t *testing.T) {
	require.Equal(t, 3, FindFirstZeroInByteArray([]byte{'a', 'b', 'c', 0, 'x'}))
	require.Equal(t, 0, FindFirstZeroInByteArray([]byte{0}))
	require.Equal(t, 2, FindFirstZeroInByteArray([]byte{'a', 'b'}))
	require.Equal(t, 0, FindFirstZeroInByteArray(nil))
}
