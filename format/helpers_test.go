package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizeInBytes(t *testing.T) {
	testCases := map[string]struct {
		Format PixelFormat
		Size   int
	}{
		"R8":        {Format: R8UNorm, Size: 1},
		"R16":       {Format: R16Float, Size: 2},
		"RGBA8":     {Format: R8G8B8A8UNorm, Size: 4},
		"BGRA8":     {Format: B8G8R8A8UNorm, Size: 4},
		"D24S8":     {Format: D24UNormS8UInt, Size: 4},
		"D32S8":     {Format: D32FloatS8UInt, Size: 5},
		"RGBA16":    {Format: R16G16B16A16Float, Size: 8},
		"RGBA32":    {Format: R32G32B32A32Float, Size: 16},
		"RG32":      {Format: R32G32Float, Size: 8},
		"R11G11B10": {Format: R11G11B10Float, Size: 4},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, testCase.Size, SizeInBytes(testCase.Format))
		})
	}
}

func TestSizeInBytesPanics(t *testing.T) {
	require.Panics(t, func() { SizeInBytes(BC3UNorm) })
	require.Panics(t, func() { SizeInBytes(PixelFormat(9999)) })
	require.Panics(t, func() { BlockSizeInBytes(R8G8B8A8UNorm) })
}

func TestCompressedPitches(t *testing.T) {
	require.True(t, IsCompressed(BC1RgbaUNorm))
	require.False(t, IsCompressed(R8G8B8A8UNorm))

	require.Equal(t, 8, BlockSizeInBytes(BC1RgbUNorm))
	require.Equal(t, 16, BlockSizeInBytes(BC3UNorm))

	// 10 texels wide is 3 blocks
	require.Equal(t, 24, RowPitch(10, BC1RgbUNorm))
	require.Equal(t, 3, NumRows(10, BC1RgbUNorm))
	require.Equal(t, 72, DepthPitch(24, 10, BC1RgbUNorm))

	require.Equal(t, 40, RowPitch(10, R8G8B8A8UNorm))
	require.Equal(t, 10, NumRows(10, R8G8B8A8UNorm))
	require.Equal(t, 400, DepthPitch(40, 10, R8G8B8A8UNorm))
}

func TestRegionSize(t *testing.T) {
	require.Equal(t, 8*8*2*4, RegionSize(8, 8, 2, R8G8B8A8UNorm))
	require.Equal(t, 2*2*16, RegionSize(8, 8, 1, BC3UNorm))
}

func TestRegionSizeRoundsToWholeBlocks(t *testing.T) {
	testCases := map[string]struct {
		Width  int
		Height int
		Depth  int
		Format PixelFormat
		Size   int
	}{
		"OneTexelBlock": {Width: 1, Height: 1, Depth: 1, Format: BC1RgbaUNorm, Size: 8},
		"HalfBlock":     {Width: 2, Height: 2, Depth: 1, Format: BC1RgbaUNorm, Size: 8},
		"Unaligned":     {Width: 6, Height: 8, Depth: 1, Format: BC3UNorm, Size: 2 * 2 * 16},
		"Tall":          {Width: 4, Height: 5, Depth: 2, Format: BC2UNorm, Size: 2 * 16 * 2},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			size := RegionSize(testCase.Width, testCase.Height, testCase.Depth, testCase.Format)
			require.Equal(t, testCase.Size, size)

			rowPitch := RowPitch(testCase.Width, testCase.Format)
			require.Equal(t, DepthPitch(rowPitch, testCase.Height, testCase.Format)*testCase.Depth, size)
		})
	}
}

func TestStencil(t *testing.T) {
	require.True(t, IsStencil(D24UNormS8UInt))
	require.True(t, IsStencil(D32FloatS8UInt))
	require.False(t, IsStencil(R32Float))
}

func TestVertexElementSize(t *testing.T) {
	require.Equal(t, 2, VertexElementSize(Byte2Norm))
	require.Equal(t, 4, VertexElementSize(Float1))
	require.Equal(t, 8, VertexElementSize(Short4))
	require.Equal(t, 12, VertexElementSize(Float3))
	require.Equal(t, 16, VertexElementSize(Int4))
	require.Panics(t, func() { VertexElementSize(VertexElementFormat(200)) })
}
