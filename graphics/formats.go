package graphics

import (
	"fmt"

	"github.com/vkngwrapper/gfx/format"
	"github.com/vkngwrapper/gfx/native"
)

var nativeFormats = map[format.PixelFormat]native.Format{
	format.R8UNorm:           native.FormatR8UNorm,
	format.R8SNorm:           native.FormatR8SNorm,
	format.R8UInt:            native.FormatR8UInt,
	format.R8SInt:            native.FormatR8SInt,
	format.R16UNorm:          native.FormatR16UNorm,
	format.R16SNorm:          native.FormatR16SNorm,
	format.R16UInt:           native.FormatR16UInt,
	format.R16SInt:           native.FormatR16SInt,
	format.R16Float:          native.FormatR16SFloat,
	format.R32UInt:           native.FormatR32UInt,
	format.R32SInt:           native.FormatR32SInt,
	format.R32Float:          native.FormatR32SFloat,
	format.R8G8UNorm:         native.FormatR8G8UNorm,
	format.R8G8SNorm:         native.FormatR8G8SNorm,
	format.R8G8UInt:          native.FormatR8G8UInt,
	format.R8G8SInt:          native.FormatR8G8SInt,
	format.R16G16UNorm:       native.FormatR16G16UNorm,
	format.R16G16SNorm:       native.FormatR16G16SNorm,
	format.R16G16UInt:        native.FormatR16G16UInt,
	format.R16G16SInt:        native.FormatR16G16SInt,
	format.R16G16Float:       native.FormatR16G16SFloat,
	format.R32G32UInt:        native.FormatR32G32UInt,
	format.R32G32SInt:        native.FormatR32G32SInt,
	format.R32G32Float:       native.FormatR32G32SFloat,
	format.R8G8B8A8UNorm:     native.FormatR8G8B8A8UNorm,
	format.R8G8B8A8SNorm:     native.FormatR8G8B8A8SNorm,
	format.R8G8B8A8UInt:      native.FormatR8G8B8A8UInt,
	format.R8G8B8A8SInt:      native.FormatR8G8B8A8SInt,
	format.B8G8R8A8UNorm:     native.FormatB8G8R8A8UNorm,
	format.R10G10B10A2UNorm:  native.FormatA2B10G10R10UNormPack32,
	format.R10G10B10A2UInt:   native.FormatA2B10G10R10UIntPack32,
	format.R11G11B10Float:    native.FormatB10G11R11UFloatPack32,
	format.R16G16B16A16UNorm: native.FormatR16G16B16A16UNorm,
	format.R16G16B16A16SNorm: native.FormatR16G16B16A16SNorm,
	format.R16G16B16A16UInt:  native.FormatR16G16B16A16UInt,
	format.R16G16B16A16SInt:  native.FormatR16G16B16A16SInt,
	format.R16G16B16A16Float: native.FormatR16G16B16A16SFloat,
	format.R32G32B32A32UInt:  native.FormatR32G32B32A32UInt,
	format.R32G32B32A32SInt:  native.FormatR32G32B32A32SInt,
	format.R32G32B32A32Float: native.FormatR32G32B32A32SFloat,
	format.D24UNormS8UInt:    native.FormatD24UNormS8UInt,
	format.D32FloatS8UInt:    native.FormatD32SFloatS8UInt,
	format.BC1RgbUNorm:       native.FormatBC1RGBUNormBlock,
	format.BC1RgbaUNorm:      native.FormatBC1RGBAUNormBlock,
	format.BC2UNorm:          native.FormatBC2UNormBlock,
	format.BC3UNorm:          native.FormatBC3UNormBlock,
	format.ETC2R8G8B8UNorm:   native.FormatETC2R8G8B8UNormBlock,
	format.ETC2R8G8B8A1UNorm: native.FormatETC2R8G8B8A1UNormBlock,
	format.ETC2R8G8B8A8UNorm: native.FormatETC2R8G8B8A8UNormBlock,
}

var pixelFormats = make(map[native.Format]format.PixelFormat, len(nativeFormats))

func init() {
	for pixelFormat, nativeFormat := range nativeFormats {
		pixelFormats[nativeFormat] = pixelFormat
	}
}

func toNativeFormat(pixelFormat format.PixelFormat) native.Format {
	nativeFormat, ok := nativeFormats[pixelFormat]
	if !ok {
		panic(fmt.Sprintf("attempting to translate unknown pixel format %s", pixelFormat))
	}
	return nativeFormat
}

func fromNativeFormat(nativeFormat native.Format) format.PixelFormat {
	pixelFormat, ok := pixelFormats[nativeFormat]
	if !ok {
		panic(fmt.Sprintf("attempting to translate unsupported native format %d", int32(nativeFormat)))
	}
	return pixelFormat
}
