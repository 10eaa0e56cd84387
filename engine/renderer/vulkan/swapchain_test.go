package vulkan

import (
	"math"
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/require"
)

func TestChooseSurfaceFormat(t *testing.T) {
	for _, tc := range []struct {
		name     string
		formats  []vk.SurfaceFormat
		expected vk.SurfaceFormat
	}{
		{
			name: "single undefined entry yields the preferred default",
			formats: []vk.SurfaceFormat{
				{Format: vk.FormatUndefined},
			},
			expected: vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
		{
			name: "rgba8 srgb preferred over earlier entries",
			formats: []vk.SurfaceFormat{
				{Format: vk.FormatR5g6b5UnormPack16, ColorSpace: vk.ColorSpaceSrgbNonlinear},
				{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
			},
			expected: vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
		{
			name: "bgra8 srgb accepted too",
			formats: []vk.SurfaceFormat{
				{Format: vk.FormatR16g16b16a16Sfloat, ColorSpace: vk.ColorSpaceSrgbNonlinear},
				{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
			},
			expected: vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
		{
			name: "preferred format in the wrong color space does not count",
			formats: []vk.SurfaceFormat{
				{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceAdobergbLinear},
				{Format: vk.FormatR16g16b16a16Sfloat, ColorSpace: vk.ColorSpaceSrgbNonlinear},
			},
			expected: vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceAdobergbLinear},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, ChooseSurfaceFormat(tc.formats))
		})
	}
}

func TestChooseSurfaceFormatFallsBackToFirst(t *testing.T) {
	formats := []vk.SurfaceFormat{
		{Format: vk.FormatR5g6b5UnormPack16, ColorSpace: vk.ColorSpaceAdobergbLinear},
		{Format: vk.FormatR16g16b16a16Sfloat, ColorSpace: vk.ColorSpaceAdobergbLinear},
	}
	require.Equal(t, formats[0], ChooseSurfaceFormat(formats))
}

func TestChoosePresentMode(t *testing.T) {
	require.Equal(t, vk.PresentModeMailbox, ChoosePresentMode([]vk.PresentMode{
		vk.PresentModeFifo,
		vk.PresentModeMailbox,
		vk.PresentModeImmediate,
	}))

	// Fifo is guaranteed to exist, everything else falls back to it.
	require.Equal(t, vk.PresentModeFifo, ChoosePresentMode([]vk.PresentMode{
		vk.PresentModeImmediate,
		vk.PresentModeFifoRelaxed,
	}))
	require.Equal(t, vk.PresentModeFifo, ChoosePresentMode(nil))
}

func TestChooseSwapExtent(t *testing.T) {
	t.Run("platform dictated extent wins", func(t *testing.T) {
		caps := vk.SurfaceCapabilities{
			CurrentExtent:  vk.Extent2D{Width: 800, Height: 600},
			MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: vk.Extent2D{Width: 4096, Height: 4096},
		}
		require.Equal(t, vk.Extent2D{Width: 800, Height: 600}, ChooseSwapExtent(caps, 1280, 720))
	})

	t.Run("free extent clamps the framebuffer size", func(t *testing.T) {
		caps := vk.SurfaceCapabilities{
			CurrentExtent:  vk.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32},
			MinImageExtent: vk.Extent2D{Width: 100, Height: 100},
			MaxImageExtent: vk.Extent2D{Width: 1000, Height: 1000},
		}
		require.Equal(t, vk.Extent2D{Width: 100, Height: 1000}, ChooseSwapExtent(caps, 50, 2000))
		require.Equal(t, vk.Extent2D{Width: 640, Height: 480}, ChooseSwapExtent(caps, 640, 480))
	})
}

func TestChooseImageCount(t *testing.T) {
	for _, tc := range []struct {
		name     string
		min, max uint32
		expected uint32
	}{
		{"one over the minimum", 2, 8, 3},
		{"capped by the maximum", 3, 3, 3},
		{"zero maximum means uncapped", 4, 0, 5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			caps := vk.SurfaceCapabilities{MinImageCount: tc.min, MaxImageCount: tc.max}
			require.Equal(t, tc.expected, ChooseImageCount(caps))
		})
	}
}

func TestNextFrameIndex(t *testing.T) {
	require.Equal(t, uint32(1), NextFrameIndex(0, 2))
	require.Equal(t, uint32(0), NextFrameIndex(1, 2))
	require.Equal(t, uint32(0), NextFrameIndex(2, 3))

	// A full cycle through the ring visits every slot exactly once.
	seen := map[uint32]int{}
	frame := uint32(0)
	for i := 0; i < int(MaxFramesInFlight)*3; i++ {
		seen[frame]++
		frame = NextFrameIndex(frame, MaxFramesInFlight)
	}
	for slot, count := range seen {
		require.Less(t, slot, MaxFramesInFlight)
		require.Equal(t, 3, count)
	}
}
