package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/require"
)

func TestDepthFormatUsable(t *testing.T) {
	depth := vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit)

	tests := []struct {
		name       string
		properties vk.FormatProperties
		usable     bool
	}{
		{
			name:       "optimal tiling supported",
			properties: vk.FormatProperties{OptimalTilingFeatures: depth},
			usable:     true,
		},
		{
			// The depth image is created with optimal tiling, so linear-only
			// support must not qualify.
			name:       "linear tiling only",
			properties: vk.FormatProperties{LinearTilingFeatures: depth},
			usable:     false,
		},
		{
			name: "both tilings supported",
			properties: vk.FormatProperties{
				LinearTilingFeatures:  depth,
				OptimalTilingFeatures: depth,
			},
			usable: true,
		},
		{
			name: "no depth-stencil support",
			properties: vk.FormatProperties{
				OptimalTilingFeatures: vk.FormatFeatureFlags(vk.FormatFeatureColorAttachmentBit),
			},
			usable: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.usable, DepthFormatUsable(tc.properties))
		})
	}
}
