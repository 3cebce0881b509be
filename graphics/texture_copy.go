package graphics

import (
	"github.com/vkngwrapper/gfx/format"
	"github.com/vkngwrapper/gfx/native"
)

// TextureRegion addresses the origin of a copy within one mip level of a texture. ArrayLayer is a
// native layer index, so each face of a cubemap is its own layer.
type TextureRegion struct {
	Texture    *Texture
	X, Y, Z    int
	MipLevel   int
	ArrayLayer int
}

// copyTextureCore records a copy of a width x height x depth region, across layerCount array layers,
// from source to destination. Staging textures are copied through their backing buffers and optimal
// textures through their images, so there are four cases.
func copyTextureCore(driver native.CommandDriver, commandBuffer native.CommandBuffer, source, destination TextureRegion, width, height, depth, layerCount int) {
	sourceStaging := source.Texture.isStaging()
	destinationStaging := destination.Texture.isStaging()

	switch {
	case !sourceStaging && !destinationStaging:
		copyImageToImage(driver, commandBuffer, source, destination, width, height, depth, layerCount)
	case sourceStaging && !destinationStaging:
		copyBufferToImage(driver, commandBuffer, source, destination, width, height, depth, layerCount)
	case !sourceStaging && destinationStaging:
		copyImageToBuffer(driver, commandBuffer, source, destination, width, height, depth, layerCount)
	default:
		copyBufferToBuffer(driver, commandBuffer, source, destination, width, height, depth, layerCount)
	}
}

func copyImageToImage(driver native.CommandDriver, commandBuffer native.CommandBuffer, source, destination TextureRegion, width, height, depth, layerCount int) {
	src := source.Texture
	dst := destination.Texture

	src.TransitionImageLayout(commandBuffer, source.MipLevel, 1, source.ArrayLayer, layerCount, native.ImageLayoutTransferSrcOptimal)
	dst.TransitionImageLayout(commandBuffer, destination.MipLevel, 1, destination.ArrayLayer, layerCount, native.ImageLayoutTransferDstOptimal)

	driver.CmdCopyImage(commandBuffer,
		src.image, native.ImageLayoutTransferSrcOptimal,
		dst.image, native.ImageLayoutTransferDstOptimal,
		[]native.ImageCopy{
			{
				SrcSubresource: native.ImageSubresourceLayers{
					Aspect:         src.aspect(),
					MipLevel:       source.MipLevel,
					BaseArrayLayer: source.ArrayLayer,
					LayerCount:     layerCount,
				},
				SrcOffset: native.Offset3D{X: source.X, Y: source.Y, Z: source.Z},
				DstSubresource: native.ImageSubresourceLayers{
					Aspect:         dst.aspect(),
					MipLevel:       destination.MipLevel,
					BaseArrayLayer: destination.ArrayLayer,
					LayerCount:     layerCount,
				},
				DstOffset: native.Offset3D{X: destination.X, Y: destination.Y, Z: destination.Z},
				Extent:    native.Extent3D{Width: width, Height: height, Depth: depth},
			},
		})

	if src.usage&TextureUsageSampled != 0 {
		src.TransitionImageLayout(commandBuffer, source.MipLevel, 1, source.ArrayLayer, layerCount, native.ImageLayoutShaderReadOnlyOptimal)
	}
	if dst.usage&TextureUsageSampled != 0 {
		dst.TransitionImageLayout(commandBuffer, destination.MipLevel, 1, destination.ArrayLayer, layerCount, native.ImageLayoutShaderReadOnlyOptimal)
	}
}

// stagingPitches returns the buffer row length and image height, in texels, of one mip level of a
// staging texture, along with the byte offset of a texel origin within it
func stagingPitches(region TextureRegion) (rowLength, imageHeight, originOffset int) {
	texture := region.Texture
	blockDimension := format.BlockDimension(texture.format)
	mipWidth, mipHeight, _ := texture.mipDimensions(region.MipLevel)

	rowLength = maxInt(mipWidth, blockDimension)
	imageHeight = maxInt(mipHeight, blockDimension)

	rowPitch := format.RowPitch(rowLength, texture.format)
	depthPitch := format.DepthPitch(rowPitch, imageHeight, texture.format)
	originOffset = region.Z*depthPitch +
		(region.Y/blockDimension)*rowPitch +
		(region.X/blockDimension)*format.ElementSizeInBytes(texture.format)

	return rowLength, imageHeight, originOffset
}

func copyBufferToImage(driver native.CommandDriver, commandBuffer native.CommandBuffer, source, destination TextureRegion, width, height, depth, layerCount int) {
	src := source.Texture
	dst := destination.Texture

	dst.TransitionImageLayout(commandBuffer, destination.MipLevel, 1, destination.ArrayLayer, layerCount, native.ImageLayoutTransferDstOptimal)

	rowLength, imageHeight, originOffset := stagingPitches(source)
	mipWidth, mipHeight, _ := src.mipDimensions(source.MipLevel)

	regions := make([]native.BufferImageCopy, 0, layerCount)
	for layer := 0; layer < layerCount; layer++ {
		layout := src.SubresourceLayout(source.MipLevel, source.ArrayLayer+layer)
		regions = append(regions, native.BufferImageCopy{
			BufferOffset:      layout.Offset + originOffset,
			BufferRowLength:   rowLength,
			BufferImageHeight: imageHeight,
			ImageSubresource: native.ImageSubresourceLayers{
				Aspect:         dst.aspect(),
				MipLevel:       destination.MipLevel,
				BaseArrayLayer: destination.ArrayLayer + layer,
				LayerCount:     1,
			},
			ImageOffset: native.Offset3D{X: destination.X, Y: destination.Y, Z: destination.Z},
			ImageExtent: native.Extent3D{
				Width:  minInt(width, mipWidth),
				Height: minInt(height, mipHeight),
				Depth:  depth,
			},
		})
	}

	driver.CmdCopyBufferToImage(commandBuffer, src.stagingBuffer.buffer, dst.image, native.ImageLayoutTransferDstOptimal, regions)

	if dst.usage&TextureUsageSampled != 0 {
		dst.TransitionImageLayout(commandBuffer, destination.MipLevel, 1, destination.ArrayLayer, layerCount, native.ImageLayoutShaderReadOnlyOptimal)
	}
}

func copyImageToBuffer(driver native.CommandDriver, commandBuffer native.CommandBuffer, source, destination TextureRegion, width, height, depth, layerCount int) {
	src := source.Texture
	dst := destination.Texture

	src.TransitionImageLayout(commandBuffer, source.MipLevel, 1, source.ArrayLayer, layerCount, native.ImageLayoutTransferSrcOptimal)

	rowLength, imageHeight, originOffset := stagingPitches(destination)

	regions := make([]native.BufferImageCopy, 0, layerCount)
	for layer := 0; layer < layerCount; layer++ {
		layout := dst.SubresourceLayout(destination.MipLevel, destination.ArrayLayer+layer)
		regions = append(regions, native.BufferImageCopy{
			BufferOffset:      layout.Offset + originOffset,
			BufferRowLength:   rowLength,
			BufferImageHeight: imageHeight,
			ImageSubresource: native.ImageSubresourceLayers{
				Aspect:         src.aspect(),
				MipLevel:       source.MipLevel,
				BaseArrayLayer: source.ArrayLayer + layer,
				LayerCount:     1,
			},
			ImageOffset: native.Offset3D{X: source.X, Y: source.Y, Z: source.Z},
			ImageExtent: native.Extent3D{Width: width, Height: height, Depth: depth},
		})
	}

	driver.CmdCopyImageToBuffer(commandBuffer, src.image, native.ImageLayoutTransferSrcOptimal, dst.stagingBuffer.buffer, regions)

	if src.usage&TextureUsageSampled != 0 {
		src.TransitionImageLayout(commandBuffer, source.MipLevel, 1, source.ArrayLayer, layerCount, native.ImageLayoutShaderReadOnlyOptimal)
	}
}

// copyBufferToBuffer copies between two staging textures one row at a time, since a buffer copy has
// no notion of row or depth pitch
func copyBufferToBuffer(driver native.CommandDriver, commandBuffer native.CommandBuffer, source, destination TextureRegion, width, height, depth, layerCount int) {
	src := source.Texture
	dst := destination.Texture

	blockDimension := format.BlockDimension(src.format)
	elementSize := format.ElementSizeInBytes(src.format)
	rowSize := format.RowPitch(width, src.format)
	numRows := format.NumRows(height, src.format)

	var regions []native.BufferCopy
	for layer := 0; layer < layerCount; layer++ {
		srcLayout := src.SubresourceLayout(source.MipLevel, source.ArrayLayer+layer)
		dstLayout := dst.SubresourceLayout(destination.MipLevel, destination.ArrayLayer+layer)

		for z := 0; z < depth; z++ {
			for row := 0; row < numRows; row++ {
				regions = append(regions, native.BufferCopy{
					SrcOffset: srcLayout.Offset +
						srcLayout.DepthPitch*(z+source.Z) +
						srcLayout.RowPitch*(row+source.Y/blockDimension) +
						elementSize*(source.X/blockDimension),
					DstOffset: dstLayout.Offset +
						dstLayout.DepthPitch*(z+destination.Z) +
						dstLayout.RowPitch*(row+destination.Y/blockDimension) +
						elementSize*(destination.X/blockDimension),
					Size: rowSize,
				})
			}
		}
	}

	driver.CmdCopyBuffer(commandBuffer, src.stagingBuffer.buffer, dst.stagingBuffer.buffer, regions)
}

// copyTextureRegion copies a region between two host-visible texel arrays with their own pitches
func copyTextureRegion(
	source []byte, srcX, srcY, srcZ, srcRowPitch, srcDepthPitch int,
	destination []byte, dstX, dstY, dstZ, dstRowPitch, dstDepthPitch int,
	width, height, depth int,
	pixelFormat format.PixelFormat,
) {
	blockDimension := format.BlockDimension(pixelFormat)
	elementSize := format.ElementSizeInBytes(pixelFormat)
	rowSize := format.RowPitch(width, pixelFormat)
	numRows := format.NumRows(height, pixelFormat)

	for z := 0; z < depth; z++ {
		for row := 0; row < numRows; row++ {
			srcOffset := srcDepthPitch*(z+srcZ) + srcRowPitch*(row+srcY/blockDimension) + elementSize*(srcX/blockDimension)
			dstOffset := dstDepthPitch*(z+dstZ) + dstRowPitch*(row+dstY/blockDimension) + elementSize*(dstX/blockDimension)
			copy(destination[dstOffset:dstOffset+rowSize], source[srcOffset:srcOffset+rowSize])
		}
	}
}
