package graphics

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfx/format"
	"github.com/vkngwrapper/gfx/native"
)

// MappedResource is the host-visible memory of a buffer or of one subresource of a staging texture
type MappedResource struct {
	Data        []byte
	SizeInBytes int
	RowPitch    int
	DepthPitch  int
}

// UpdateBuffer writes data into buffer at offset. Mapped buffers are written directly; all others are
// written through a pooled staging buffer and a copy on a shared command pool.
func (d *GraphicsDevice) UpdateBuffer(buffer *DeviceBuffer, offset int, data []byte) error {
	d.logger.Debug("GraphicsDevice::UpdateBuffer")

	if offset < 0 || offset+len(data) > buffer.size {
		return errors.Wrapf(ErrInvalidOperation, "cannot write %d bytes at offset %d into a %d-byte buffer", len(data), offset, buffer.size)
	}
	if len(data) == 0 {
		return nil
	}

	mapped := buffer.mappedBytes()
	if mapped != nil {
		copy(mapped[offset:], data)
		return nil
	}

	staging, err := d.getFreeStagingBuffer(len(data))
	if err != nil {
		return err
	}
	copy(staging.mappedBytes(), data)
	resources := submissionResources{stagingBuffers: []*DeviceBuffer{staging}}

	pool, err := d.getFreeCommandPool()
	if err != nil {
		return errors.CombineErrors(err, d.recycleStaging(resources))
	}
	commandBuffer, err := pool.beginNewCommandBuffer()
	if err != nil {
		return errors.CombineErrors(err, d.recycleStaging(resources))
	}

	d.driver.CmdCopyBuffer(commandBuffer, staging.buffer, buffer.buffer, []native.BufferCopy{
		{SrcOffset: 0, DstOffset: offset, Size: len(data)},
	})

	return pool.endAndSubmit(resources)
}

// UpdateTexture writes a width x height x depth region of texels into one subresource of texture.
// Staging textures are written directly; all others are written through a pooled staging texture.
func (d *GraphicsDevice) UpdateTexture(texture *Texture, data []byte, x, y, z, width, height, depth, mipLevel, arrayLayer int) error {
	d.logger.Debug("GraphicsDevice::UpdateTexture")

	if mipLevel < 0 || mipLevel >= texture.mipLevels || arrayLayer < 0 || arrayLayer >= texture.actualArrayLayers() {
		return errors.Wrapf(ErrInvalidOperation, "subresource mip %d layer %d is out of range", mipLevel, arrayLayer)
	}
	if width <= 0 || height <= 0 || depth <= 0 {
		return errors.Wrapf(ErrInvalidOperation, "a %dx%dx%d region is empty", width, height, depth)
	}
	mipWidth, mipHeight, mipDepth := texture.mipDimensions(mipLevel)
	if x < 0 || y < 0 || z < 0 || x+width > mipWidth || y+height > mipHeight || z+depth > mipDepth {
		return errors.Wrapf(ErrInvalidOperation, "region %dx%dx%d at (%d, %d, %d) exceeds mip level %d", width, height, depth, x, y, z, mipLevel)
	}
	regionSize := format.RegionSize(width, height, depth, texture.format)
	if len(data) < regionSize {
		return errors.Wrapf(ErrInvalidOperation, "a %dx%dx%d region needs %d bytes, but %d were provided", width, height, depth, regionSize, len(data))
	}

	if texture.isStaging() {
		texture.writeStaging(data, x, y, z, width, height, depth, mipLevel, arrayLayer)
		return nil
	}

	staging, err := d.getFreeStagingTexture(width, height, depth, texture.format)
	if err != nil {
		return err
	}
	staging.writeStaging(data, 0, 0, 0, width, height, depth, 0, 0)
	resources := submissionResources{stagingTexture: staging}

	pool, err := d.getFreeCommandPool()
	if err != nil {
		return errors.CombineErrors(err, d.recycleStaging(resources))
	}
	commandBuffer, err := pool.beginNewCommandBuffer()
	if err != nil {
		return errors.CombineErrors(err, d.recycleStaging(resources))
	}

	copyTextureCore(d.driver, commandBuffer,
		TextureRegion{Texture: staging},
		TextureRegion{Texture: texture, X: x, Y: y, Z: z, MipLevel: mipLevel, ArrayLayer: arrayLayer},
		width, height, depth, 1)

	return pool.endAndSubmit(resources)
}

func (t *Texture) writeStaging(data []byte, x, y, z, width, height, depth, mipLevel, arrayLayer int) {
	layout := t.SubresourceLayout(mipLevel, arrayLayer)
	mapped := t.stagingBuffer.mappedBytes()[layout.Offset:]

	srcRowPitch := format.RowPitch(width, t.format)
	srcDepthPitch := format.DepthPitch(srcRowPitch, height, t.format)

	copyTextureRegion(
		data, 0, 0, 0, srcRowPitch, srcDepthPitch,
		mapped, x, y, z, layout.RowPitch, layout.DepthPitch,
		width, height, depth, t.format)
}

// MapBuffer returns the host-visible memory of a dynamic or staging buffer
func (d *GraphicsDevice) MapBuffer(buffer *DeviceBuffer) (MappedResource, error) {
	mapped := buffer.mappedBytes()
	if mapped == nil {
		return MappedResource{}, errors.Wrapf(ErrInvalidOperation, "a buffer with usage %s is not host visible", buffer.usage)
	}

	return MappedResource{
		Data:        mapped,
		SizeInBytes: buffer.size,
		RowPitch:    buffer.size,
		DepthPitch:  buffer.size,
	}, nil
}

// UnmapBuffer ends a MapBuffer. Host-visible memory stays persistently mapped, so this only verifies
// the buffer could have been mapped.
func (d *GraphicsDevice) UnmapBuffer(buffer *DeviceBuffer) error {
	if buffer.mappedBytes() == nil {
		return errors.Wrapf(ErrInvalidOperation, "a buffer with usage %s is not host visible", buffer.usage)
	}
	return nil
}

// MapTexture returns the host-visible memory of one subresource of a staging texture
func (d *GraphicsDevice) MapTexture(texture *Texture, mipLevel, arrayLayer int) (MappedResource, error) {
	if !texture.isStaging() {
		return MappedResource{}, errors.Wrap(ErrInvalidOperation, "only staging textures can be mapped")
	}
	if mipLevel < 0 || mipLevel >= texture.mipLevels || arrayLayer < 0 || arrayLayer >= texture.actualArrayLayers() {
		return MappedResource{}, errors.Wrapf(ErrInvalidOperation, "subresource mip %d layer %d is out of range", mipLevel, arrayLayer)
	}

	layout := texture.SubresourceLayout(mipLevel, arrayLayer)
	return MappedResource{
		Data:        texture.stagingBuffer.mappedBytes()[layout.Offset : layout.Offset+layout.Size],
		SizeInBytes: layout.Size,
		RowPitch:    layout.RowPitch,
		DepthPitch:  layout.DepthPitch,
	}, nil
}

// UnmapTexture ends a MapTexture
func (d *GraphicsDevice) UnmapTexture(texture *Texture) error {
	if !texture.isStaging() {
		return errors.Wrap(ErrInvalidOperation, "only staging textures can be mapped")
	}
	return nil
}

// ClearColorTexture clears every subresource of a render target and leaves it in the color attachment
// layout
func (d *GraphicsDevice) ClearColorTexture(texture *Texture, color [4]float32) error {
	d.logger.Debug("GraphicsDevice::ClearColorTexture")

	pool, err := d.getFreeCommandPool()
	if err != nil {
		return err
	}
	commandBuffer, err := pool.beginNewCommandBuffer()
	if err != nil {
		return err
	}

	texture.transitionAll(commandBuffer, native.ImageLayoutTransferDstOptimal)
	d.driver.CmdClearColorImage(commandBuffer, texture.image, native.ImageLayoutTransferDstOptimal, color, []native.ImageSubresourceRange{
		{
			Aspect:     native.ImageAspectColor,
			LevelCount: texture.mipLevels,
			LayerCount: texture.actualArrayLayers(),
		},
	})
	texture.transitionAll(commandBuffer, native.ImageLayoutColorAttachmentOptimal)

	return pool.endAndSubmit(submissionResources{})
}

// ClearDepthTexture clears every subresource of a depth-stencil texture and leaves it in the
// depth-stencil attachment layout
func (d *GraphicsDevice) ClearDepthTexture(texture *Texture, depth float32, stencil uint32) error {
	d.logger.Debug("GraphicsDevice::ClearDepthTexture")

	pool, err := d.getFreeCommandPool()
	if err != nil {
		return err
	}
	commandBuffer, err := pool.beginNewCommandBuffer()
	if err != nil {
		return err
	}

	texture.transitionAll(commandBuffer, native.ImageLayoutTransferDstOptimal)
	d.driver.CmdClearDepthStencilImage(commandBuffer, texture.image, native.ImageLayoutTransferDstOptimal, depth, stencil, []native.ImageSubresourceRange{
		{
			Aspect:     texture.aspect(),
			LevelCount: texture.mipLevels,
			LayerCount: texture.actualArrayLayers(),
		},
	})
	texture.transitionAll(commandBuffer, native.ImageLayoutDepthStencilAttachmentOptimal)

	return pool.endAndSubmit(submissionResources{})
}
