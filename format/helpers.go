package format

import (
	"fmt"

	"github.com/vkngwrapper/gfx/memutils"
)

// SizeInBytes returns the size of a single texel. It panics for block-compressed formats, which
// have no per-texel size, and for unknown formats.
func SizeInBytes(format PixelFormat) int {
	switch format {
	case R8UNorm, R8SNorm, R8UInt, R8SInt:
		return 1

	case R16UNorm, R16SNorm, R16UInt, R16SInt, R16Float,
		R8G8UNorm, R8G8SNorm, R8G8UInt, R8G8SInt:
		return 2

	case R32UInt, R32SInt, R32Float,
		R16G16UNorm, R16G16SNorm, R16G16UInt, R16G16SInt, R16G16Float,
		R8G8B8A8UNorm, R8G8B8A8SNorm, R8G8B8A8UInt, R8G8B8A8SInt, B8G8R8A8UNorm,
		R10G10B10A2UNorm, R10G10B10A2UInt, R11G11B10Float,
		D24UNormS8UInt:
		return 4

	case D32FloatS8UInt:
		return 5

	case R16G16B16A16UNorm, R16G16B16A16SNorm, R16G16B16A16UInt, R16G16B16A16SInt, R16G16B16A16Float,
		R32G32UInt, R32G32SInt, R32G32Float:
		return 8

	case R32G32B32A32Float, R32G32B32A32UInt, R32G32B32A32SInt:
		return 16
	}

	if IsCompressed(format) {
		panic(fmt.Sprintf("attempting to get the texel size of compressed format %s", format))
	}
	panic(invalidFormat("get the texel size", format))
}

// IsStencil returns true for depth formats that carry a stencil component
func IsStencil(format PixelFormat) bool {
	return format == D24UNormS8UInt || format == D32FloatS8UInt
}

// IsDepthStencil returns true for formats that can only be used as a depth-stencil target
func IsDepthStencil(format PixelFormat) bool {
	return IsStencil(format)
}

// IsCompressed returns true for 4x4 block-compressed formats
func IsCompressed(format PixelFormat) bool {
	switch format {
	case BC1RgbUNorm, BC1RgbaUNorm, BC2UNorm, BC3UNorm,
		ETC2R8G8B8UNorm, ETC2R8G8B8A1UNorm, ETC2R8G8B8A8UNorm:
		return true
	}
	return false
}

// BlockSizeInBytes returns the size of a single 4x4 block of a compressed format
func BlockSizeInBytes(format PixelFormat) int {
	switch format {
	case BC1RgbUNorm, BC1RgbaUNorm, ETC2R8G8B8UNorm, ETC2R8G8B8A1UNorm:
		return 8
	case BC2UNorm, BC3UNorm, ETC2R8G8B8A8UNorm:
		return 16
	}

	panic(invalidFormat("get the block size", format))
}

// BlockDimension is 4 for compressed formats and 1 otherwise
func BlockDimension(format PixelFormat) int {
	if IsCompressed(format) {
		return 4
	}
	return 1
}

// ElementSizeInBytes is the size of the smallest addressable unit: a block for compressed formats and
// a texel otherwise
func ElementSizeInBytes(format PixelFormat) int {
	if IsCompressed(format) {
		return BlockSizeInBytes(format)
	}
	return SizeInBytes(format)
}

// RowPitch returns the number of bytes in a single row of the provided width. For compressed formats,
// a row is a row of 4x4 blocks.
func RowPitch(width int, format PixelFormat) int {
	if IsCompressed(format) {
		return memutils.DivideRoundingUp(width, 4) * BlockSizeInBytes(format)
	}

	return width * SizeInBytes(format)
}

// NumRows returns the number of rows in a region of the provided height
func NumRows(height int, format PixelFormat) int {
	if IsCompressed(format) {
		return memutils.DivideRoundingUp(height, 4)
	}

	return height
}

// DepthPitch returns the number of bytes in a single depth slice
func DepthPitch(rowPitch int, height int, format PixelFormat) int {
	return rowPitch * NumRows(height, format)
}

// RegionSize returns the number of bytes in a width x height x depth region. Compressed regions are
// rounded up to whole blocks, so a mip smaller than a block still occupies one.
func RegionSize(width, height, depth int, format PixelFormat) int {
	return DepthPitch(RowPitch(width, format), height, format) * depth
}
