package graphics

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfx/internal/arena"
	"github.com/vkngwrapper/gfx/native"
)

// TextureViewDescription selects the subresources of a texture visible to shaders. Zero counts select
// every remaining mip level or array layer.
type TextureViewDescription struct {
	Target         *Texture
	BaseMipLevel   int
	MipLevels      int
	BaseArrayLayer int
	ArrayLayers    int
}

type TextureView struct {
	device *GraphicsDevice
	handle arena.Handle

	target         *Texture
	baseMipLevel   int
	mipLevels      int
	baseArrayLayer int
	arrayLayers    int
	view           native.ImageView
}

// CreateTextureView creates a view of a sampled or storage texture
func (d *GraphicsDevice) CreateTextureView(description TextureViewDescription) (*TextureView, error) {
	d.logger.Debug("GraphicsDevice::CreateTextureView")

	target := description.Target
	if target == nil || target.isStaging() {
		return nil, errors.Wrap(ErrInvalidOperation, "texture views require a non-staging target texture")
	}

	mipLevels := description.MipLevels
	if mipLevels == 0 {
		mipLevels = target.mipLevels - description.BaseMipLevel
	}
	arrayLayers := description.ArrayLayers
	if arrayLayers == 0 {
		arrayLayers = target.arrayLayers - description.BaseArrayLayer
	}
	if description.BaseMipLevel < 0 || mipLevels <= 0 || description.BaseMipLevel+mipLevels > target.mipLevels ||
		description.BaseArrayLayer < 0 || arrayLayers <= 0 || description.BaseArrayLayer+arrayLayers > target.arrayLayers {
		return nil, errors.Wrapf(ErrInvalidOperation, "view of mips [%d, +%d) layers [%d, +%d) exceeds its %d-mip %d-layer target",
			description.BaseMipLevel, mipLevels, description.BaseArrayLayer, arrayLayers, target.mipLevels, target.arrayLayers)
	}

	view := &TextureView{
		device:         d,
		target:         target,
		baseMipLevel:   description.BaseMipLevel,
		mipLevels:      mipLevels,
		baseArrayLayer: description.BaseArrayLayer,
		arrayLayers:    arrayLayers,
	}

	nativeView, err := d.createImageView(target, view.viewType(), view.subresourceRange())
	if err != nil {
		return nil, err
	}
	view.view = nativeView

	view.handle = d.track(view)
	return view, nil
}

func (d *GraphicsDevice) createImageView(target *Texture, viewType native.ImageViewType, subresourceRange native.ImageSubresourceRange) (native.ImageView, error) {
	view, res, err := d.driver.CreateImageView(native.ImageViewCreateInfo{
		Image:    target.image,
		ViewType: viewType,
		Format:   toNativeFormat(target.format),
		Range:    subresourceRange,
	})
	if err != nil {
		return 0, nativeError(res, err, "create an image view")
	}
	return view, nil
}

func (v *TextureView) viewType() native.ImageViewType {
	if v.target.usage&TextureUsageCubemap != 0 {
		if v.arrayLayers == 1 {
			return native.ImageViewTypeCube
		}
		return native.ImageViewTypeCubeArray
	}

	switch v.target.textureType {
	case TextureType1D:
		if v.arrayLayers == 1 {
			return native.ImageViewType1D
		}
		return native.ImageViewType1DArray
	case TextureType2D:
		if v.arrayLayers == 1 {
			return native.ImageViewType2D
		}
		return native.ImageViewType2DArray
	case TextureType3D:
		return native.ImageViewType3D
	}

	panic(fmt.Sprintf("attempting to view a texture of unknown type %s", v.target.textureType))
}

// subresourceRange covers the view's native layers, six per cube for cubemaps. Depth textures are
// viewed through their depth aspect only.
func (v *TextureView) subresourceRange() native.ImageSubresourceRange {
	aspect := native.ImageAspectColor
	if v.target.usage&TextureUsageDepthStencil != 0 {
		aspect = native.ImageAspectDepth
	}

	baseLayer, layerCount := v.baseArrayLayer, v.arrayLayers
	if v.target.usage&TextureUsageCubemap != 0 {
		baseLayer *= 6
		layerCount *= 6
	}

	return native.ImageSubresourceRange{
		Aspect:         aspect,
		BaseMipLevel:   v.baseMipLevel,
		LevelCount:     v.mipLevels,
		BaseArrayLayer: baseLayer,
		LayerCount:     layerCount,
	}
}

// transition moves every subresource the view covers to newLayout
func (v *TextureView) transition(commandBuffer native.CommandBuffer, newLayout native.ImageLayout) {
	subresources := v.subresourceRange()
	for layer := subresources.BaseArrayLayer; layer < subresources.BaseArrayLayer+subresources.LayerCount; layer++ {
		for mip := subresources.BaseMipLevel; mip < subresources.BaseMipLevel+subresources.LevelCount; mip++ {
			v.target.TransitionImageLayout(commandBuffer, mip, 1, layer, 1, newLayout)
		}
	}
}

// needsTransition reports whether any covered subresource is not already in layout
func (v *TextureView) needsTransition(layout native.ImageLayout) bool {
	subresources := v.subresourceRange()
	for layer := subresources.BaseArrayLayer; layer < subresources.BaseArrayLayer+subresources.LayerCount; layer++ {
		for mip := subresources.BaseMipLevel; mip < subresources.BaseMipLevel+subresources.LevelCount; mip++ {
			if v.target.ImageLayout(mip, layer) != layout {
				return true
			}
		}
	}
	return false
}

func (v *TextureView) Target() *Texture {
	return v.target
}

func (v *TextureView) Native() native.ImageView {
	return v.view
}

func (v *TextureView) Destroy() error {
	v.device.logger.Debug("TextureView::Destroy")

	if !v.device.untrack(v.handle) {
		panic("attempting to destroy a texture view that has already been destroyed")
	}
	return v.release()
}

func (v *TextureView) resourceKind() string {
	return kindTextureView
}

func (v *TextureView) release() error {
	v.device.driver.DestroyImageView(v.view)
	return nil
}
