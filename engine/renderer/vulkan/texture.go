package vulkan

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	vk "github.com/goki/vulkan"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"

	"github.com/zschzen/Vulkan-Course/engine/core"
)

// VulkanTexture is an image decoded from disk and pushed through the staged
// buffer-to-image upload, ending in shader-read-only layout.
type VulkanTexture struct {
	ID    uuid.UUID
	Image *VulkanImage
}

func TextureCreateFromFile(context *VulkanContext, pool vk.CommandPool, queue vk.Queue, path string) (*VulkanTexture, error) {
	f, err := os.Open(path)
	if err != nil {
		err := fmt.Errorf("unable to open texture `%s`: %w", path, err)
		core.LogError(err.Error())
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		err := fmt.Errorf("unable to decode texture `%s`: %w", path, err)
		core.LogError(err.Error())
		return nil, err
	}

	bounds := src.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, src, bounds.Min, draw.Src)

	width := uint32(bounds.Dx())
	height := uint32(bounds.Dy())

	vi, err := ImageCreate(
		context,
		vk.ImageType2d,
		width,
		height,
		vk.FormatR8g8b8a8Unorm,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageTransferDstBit|vk.ImageUsageSampledBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true,
		vk.ImageAspectFlags(vk.ImageAspectColorBit))
	if err != nil {
		return nil, err
	}

	if err := ImageUploadStaged(context, pool, queue, vi, rgba.Pix); err != nil {
		vi.ImageDestroy(context)
		return nil, err
	}

	texture := &VulkanTexture{
		ID:    uuid.New(),
		Image: vi,
	}
	core.LogInfo("Texture %s loaded from `%s` (%dx%d).", texture.ID, path, width, height)
	return texture, nil
}

func (vt *VulkanTexture) Destroy(context *VulkanContext) {
	if vt.Image != nil {
		vt.Image.ImageDestroy(context)
		vt.Image = nil
	}
}
