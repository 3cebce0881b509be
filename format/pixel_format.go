package format

import "fmt"

// PixelFormat is the backend-agnostic texel format of a texture
type PixelFormat int32

const (
	R8G8B8A8UNorm PixelFormat = iota
	B8G8R8A8UNorm
	R8UNorm
	R16UNorm
	R32G32B32A32Float
	R32Float
	BC3UNorm
	D24UNormS8UInt
	D32FloatS8UInt
	R32G32B32A32UInt
	R8G8SNorm
	BC1RgbUNorm
	BC1RgbaUNorm
	BC2UNorm
	R10G10B10A2UNorm
	R10G10B10A2UInt
	R11G11B10Float
	R8SNorm
	R8UInt
	R8SInt
	R16SNorm
	R16UInt
	R16SInt
	R16Float
	R32UInt
	R32SInt
	R8G8UNorm
	R8G8UInt
	R8G8SInt
	R16G16UNorm
	R16G16SNorm
	R16G16UInt
	R16G16SInt
	R16G16Float
	R32G32UInt
	R32G32SInt
	R32G32Float
	R8G8B8A8SNorm
	R8G8B8A8UInt
	R8G8B8A8SInt
	R16G16B16A16UNorm
	R16G16B16A16SNorm
	R16G16B16A16UInt
	R16G16B16A16SInt
	R16G16B16A16Float
	R32G32B32A32SInt
	ETC2R8G8B8UNorm
	ETC2R8G8B8A1UNorm
	ETC2R8G8B8A8UNorm
)

var pixelFormatMapping = map[PixelFormat]string{
	R8G8B8A8UNorm:     "R8G8B8A8UNorm",
	B8G8R8A8UNorm:     "B8G8R8A8UNorm",
	R8UNorm:           "R8UNorm",
	R16UNorm:          "R16UNorm",
	R32G32B32A32Float: "R32G32B32A32Float",
	R32Float:          "R32Float",
	BC3UNorm:          "BC3UNorm",
	D24UNormS8UInt:    "D24UNormS8UInt",
	D32FloatS8UInt:    "D32FloatS8UInt",
	R32G32B32A32UInt:  "R32G32B32A32UInt",
	R8G8SNorm:         "R8G8SNorm",
	BC1RgbUNorm:       "BC1RgbUNorm",
	BC1RgbaUNorm:      "BC1RgbaUNorm",
	BC2UNorm:          "BC2UNorm",
	R10G10B10A2UNorm:  "R10G10B10A2UNorm",
	R10G10B10A2UInt:   "R10G10B10A2UInt",
	R11G11B10Float:    "R11G11B10Float",
	R8SNorm:           "R8SNorm",
	R8UInt:            "R8UInt",
	R8SInt:            "R8SInt",
	R16SNorm:          "R16SNorm",
	R16UInt:           "R16UInt",
	R16SInt:           "R16SInt",
	R16Float:          "R16Float",
	R32UInt:           "R32UInt",
	R32SInt:           "R32SInt",
	R8G8UNorm:         "R8G8UNorm",
	R8G8UInt:          "R8G8UInt",
	R8G8SInt:          "R8G8SInt",
	R16G16UNorm:       "R16G16UNorm",
	R16G16SNorm:       "R16G16SNorm",
	R16G16UInt:        "R16G16UInt",
	R16G16SInt:        "R16G16SInt",
	R16G16Float:       "R16G16Float",
	R32G32UInt:        "R32G32UInt",
	R32G32SInt:        "R32G32SInt",
	R32G32Float:       "R32G32Float",
	R8G8B8A8SNorm:     "R8G8B8A8SNorm",
	R8G8B8A8UInt:      "R8G8B8A8UInt",
	R8G8B8A8SInt:      "R8G8B8A8SInt",
	R16G16B16A16UNorm: "R16G16B16A16UNorm",
	R16G16B16A16SNorm: "R16G16B16A16SNorm",
	R16G16B16A16UInt:  "R16G16B16A16UInt",
	R16G16B16A16SInt:  "R16G16B16A16SInt",
	R16G16B16A16Float: "R16G16B16A16Float",
	R32G32B32A32SInt:  "R32G32B32A32SInt",
	ETC2R8G8B8UNorm:   "ETC2R8G8B8UNorm",
	ETC2R8G8B8A1UNorm: "ETC2R8G8B8A1UNorm",
	ETC2R8G8B8A8UNorm: "ETC2R8G8B8A8UNorm",
}

func (f PixelFormat) String() string {
	str, ok := pixelFormatMapping[f]
	if !ok {
		return "unknown PixelFormat"
	}
	return str
}

func invalidFormat(operation string, format PixelFormat) string {
	return fmt.Sprintf("attempting to %s with invalid pixel format %d", operation, int32(format))
}
