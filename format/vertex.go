package format

import "fmt"

// VertexElementFormat is the format of a single vertex attribute
type VertexElementFormat int32

const (
	Float1 VertexElementFormat = iota
	Float2
	Float3
	Float4
	Byte2Norm
	Byte2
	Byte4Norm
	Byte4
	SByte2Norm
	SByte2
	SByte4Norm
	SByte4
	UShort2Norm
	UShort2
	UShort4Norm
	UShort4
	Short2Norm
	Short2
	Short4Norm
	Short4
	UInt1
	UInt2
	UInt3
	UInt4
	Int1
	Int2
	Int3
	Int4
)

// VertexElementSize returns the size of a single vertex attribute in bytes
func VertexElementSize(format VertexElementFormat) int {
	switch format {
	case Byte2Norm, Byte2, SByte2Norm, SByte2:
		return 2
	case Float1, UInt1, Int1,
		Byte4Norm, Byte4, SByte4Norm, SByte4,
		UShort2Norm, UShort2, Short2Norm, Short2:
		return 4
	case Float2, UInt2, Int2,
		UShort4Norm, UShort4, Short4Norm, Short4:
		return 8
	case Float3, UInt3, Int3:
		return 12
	case Float4, UInt4, Int4:
		return 16
	}

	panic(fmt.Sprintf("attempting to get the size of invalid vertex element format %d", int32(format)))
}
