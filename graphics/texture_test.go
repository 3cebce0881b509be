package graphics

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/gfx/format"
	"github.com/vkngwrapper/gfx/native"
)

func TestMipDimension(t *testing.T) {
	testCases := map[string]struct {
		Largest  int
		MipLevel int
		Expected int
	}{
		"Base":           {Largest: 64, MipLevel: 0, Expected: 64},
		"Third":          {Largest: 64, MipLevel: 3, Expected: 8},
		"OddClampsToOne": {Largest: 5, MipLevel: 3, Expected: 1},
		"PastSmallest":   {Largest: 1, MipLevel: 4, Expected: 1},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, testCase.Expected, mipDimension(testCase.Largest, testCase.MipLevel))
		})
	}
}

func TestCreateTextureValidation(t *testing.T) {
	_, device := newTestDevice(t)

	_, err := device.CreateTexture(TextureDescription{Width: 0, Height: 4, Depth: 1, MipLevels: 1, ArrayLayers: 1})
	require.ErrorIs(t, err, ErrInvalidOperation)

	_, err = device.CreateTexture(TextureDescription{Width: 4, Height: 4, Depth: 1, MipLevels: 0, ArrayLayers: 1})
	require.ErrorIs(t, err, ErrInvalidOperation)
}

func TestCubemapHasSixLayersPerCube(t *testing.T) {
	driver, device := newTestDevice(t)

	texture, err := device.CreateTexture(TextureDescription{
		Width:       4,
		Height:      4,
		Depth:       1,
		MipLevels:   1,
		ArrayLayers: 1,
		Format:      format.R8G8B8A8UNorm,
		Usage:       TextureUsageSampled | TextureUsageCubemap,
		Type:        TextureType2D,
	})
	require.NoError(t, err)

	info, ok := driver.ImageInfo(texture.Native())
	require.True(t, ok)
	require.Equal(t, 6, info.ArrayLayers)
	require.True(t, info.CubeCompatible)
	require.Equal(t, native.ImageLayoutPreinitialized, info.InitialLayout)
	require.Equal(t, native.ImageLayoutPreinitialized, texture.ImageLayout(0, 5))
}

func TestRenderTargetsAreClearedOnCreation(t *testing.T) {
	driver, device := newTestDevice(t)

	color := createTestTexture(t, device, 8, 8, format.R8G8B8A8UNorm, TextureUsageRenderTarget)
	depth := createTestTexture(t, device, 8, 8, format.D32FloatS8UInt, TextureUsageDepthStencil)

	require.Len(t, driver.CallsNamed("CmdClearColorImage"), 1)
	require.Len(t, driver.CallsNamed("CmdClearDepthStencilImage"), 1)
	require.Equal(t, native.ImageLayoutColorAttachmentOptimal, color.ImageLayout(0, 0))
	require.Equal(t, native.ImageLayoutDepthStencilAttachmentOptimal, depth.ImageLayout(0, 0))
}

func TestTransitionImageLayout(t *testing.T) {
	driver, device := newTestDevice(t)
	commandBuffer := native.CommandBuffer(1)

	texture, err := device.CreateTexture(TextureDescription{
		Width:       8,
		Height:      8,
		Depth:       1,
		MipLevels:   2,
		ArrayLayers: 1,
		Format:      format.R8G8B8A8UNorm,
		Usage:       TextureUsageSampled | TextureUsageStorage,
		Type:        TextureType2D,
	})
	require.NoError(t, err)
	driver.ResetCalls()

	texture.TransitionImageLayout(commandBuffer, 0, 2, 0, 1, native.ImageLayoutTransferDstOptimal)
	barriers := driver.CallsNamed("CmdPipelineBarrier")
	require.Len(t, barriers, 1)
	imageBarriers := barriers[0].Args[3].([]native.ImageMemoryBarrier)
	require.Len(t, imageBarriers, 1)
	require.Equal(t, native.ImageLayoutPreinitialized, imageBarriers[0].OldLayout)
	require.Equal(t, native.ImageLayoutTransferDstOptimal, imageBarriers[0].NewLayout)
	require.Equal(t, 2, imageBarriers[0].Range.LevelCount)
	require.Equal(t, native.ImageLayoutTransferDstOptimal, texture.ImageLayout(1, 0))

	// Transitioning to the current layout records nothing
	texture.TransitionImageLayout(commandBuffer, 0, 2, 0, 1, native.ImageLayoutTransferDstOptimal)
	require.Len(t, driver.CallsNamed("CmdPipelineBarrier"), 1)

	texture.TransitionImageLayout(commandBuffer, 0, 1, 0, 1, native.ImageLayoutShaderReadOnlyOptimal)
	require.Panics(t, func() {
		texture.TransitionImageLayout(commandBuffer, 0, 2, 0, 1, native.ImageLayoutGeneral)
	})

	// Mixed layouts are transitioned one subresource at a time
	driver.ResetCalls()
	texture.transitionAll(commandBuffer, native.ImageLayoutGeneral)
	require.Len(t, driver.CallsNamed("CmdPipelineBarrier"), 2)
	require.Equal(t, native.ImageLayoutGeneral, texture.ImageLayout(0, 0))
	require.Equal(t, native.ImageLayoutGeneral, texture.ImageLayout(1, 0))
}

func TestUnsupportedLayoutTransitionsPanic(t *testing.T) {
	testCases := map[string]struct {
		Old native.ImageLayout
		New native.ImageLayout
	}{
		"PreinitializedToPresent": {Old: native.ImageLayoutPreinitialized, New: native.ImageLayoutPresentSrc},
		"ToUndefined":             {Old: native.ImageLayoutShaderReadOnlyOptimal, New: native.ImageLayoutUndefined},
		"SameLayout":              {Old: native.ImageLayoutGeneral, New: native.ImageLayoutGeneral},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			driver, _ := newTestDevice(t)

			require.Panics(t, func() {
				recordLayoutTransition(driver, native.CommandBuffer(1), native.Image(1), native.ImageSubresourceRange{
					Aspect:     native.ImageAspectColor,
					LevelCount: 1,
					LayerCount: 1,
				}, testCase.Old, testCase.New)
			})
		})
	}
}

func TestStagingSubresourceLayout(t *testing.T) {
	_, device := newTestDevice(t)

	texture, err := device.CreateTexture(TextureDescription{
		Width:       8,
		Height:      4,
		Depth:       1,
		MipLevels:   2,
		ArrayLayers: 2,
		Format:      format.R8G8B8A8UNorm,
		Usage:       TextureUsageStaging,
		Type:        TextureType2D,
	})
	require.NoError(t, err)
	require.Equal(t, 2*(8*4*4+4*2*4), texture.stagingBuffer.SizeInBytes())

	layout := texture.SubresourceLayout(1, 1)
	require.Equal(t, 8*4*4+4*2*4+8*4*4, layout.Offset)
	require.Equal(t, 16, layout.RowPitch)
	require.Equal(t, 32, layout.DepthPitch)
	require.Equal(t, 32, layout.Size)

	// Staging textures have no layouts of their own
	require.Equal(t, native.ImageLayoutGeneral, texture.ImageLayout(1, 1))
}

func TestUpdateStagingTextureWritesDirectly(t *testing.T) {
	driver, device := newTestDevice(t)

	texture, err := device.CreateTexture(TextureDescription{
		Width:       4,
		Height:      2,
		Depth:       1,
		MipLevels:   1,
		ArrayLayers: 1,
		Format:      format.R8G8B8A8UNorm,
		Usage:       TextureUsageStaging,
		Type:        TextureType2D,
	})
	require.NoError(t, err)

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, device.UpdateTexture(texture, data, 1, 1, 0, 2, 1, 1, 0, 0))
	require.Empty(t, driver.CallsNamed("QueueSubmit"))

	mapped, err := device.MapTexture(texture, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 16, mapped.RowPitch)
	require.Equal(t, data, mapped.Data[20:28])
	require.Equal(t, make([]byte, 20), mapped.Data[:20])
	require.NoError(t, device.UnmapTexture(texture))
}

func TestCompressedMipsSmallerThanABlock(t *testing.T) {
	_, device := newTestDevice(t)

	texture, err := device.CreateTexture(TextureDescription{
		Width:       4,
		Height:      4,
		Depth:       1,
		MipLevels:   3,
		ArrayLayers: 1,
		Format:      format.BC1RgbaUNorm,
		Usage:       TextureUsageStaging,
		Type:        TextureType2D,
	})
	require.NoError(t, err)

	// Every mip of a 4x4 BC1 texture occupies one 8-byte block
	require.Equal(t, 24, texture.stagingBuffer.SizeInBytes())
	for mip := 0; mip < 3; mip++ {
		layout := texture.SubresourceLayout(mip, 0)
		require.Equal(t, mip*8, layout.Offset)
		require.Equal(t, 8, layout.Size)
		require.Equal(t, 8, layout.RowPitch)
		require.Equal(t, 8, layout.DepthPitch)
	}

	mip1 := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	mip2 := []byte{9, 10, 11, 12, 13, 14, 15, 16}
	require.NoError(t, device.UpdateTexture(texture, mip1, 0, 0, 0, 2, 2, 1, 1, 0))
	require.NoError(t, device.UpdateTexture(texture, mip2, 0, 0, 0, 1, 1, 1, 2, 0))

	mapped, err := device.MapTexture(texture, 1, 0)
	require.NoError(t, err)
	require.Equal(t, mip1, mapped.Data)
	mapped, err = device.MapTexture(texture, 2, 0)
	require.NoError(t, err)
	require.Equal(t, mip2, mapped.Data)
	require.Equal(t, make([]byte, 8), texture.stagingBuffer.mappedBytes()[:8])

	err = device.UpdateTexture(texture, nil, 0, 0, 0, 1, 1, 1, 2, 0)
	require.ErrorIs(t, err, ErrInvalidOperation)
	err = device.UpdateTexture(texture, make([]byte, 7), 0, 0, 0, 2, 2, 1, 1, 0)
	require.ErrorIs(t, err, ErrInvalidOperation)
}

func TestUpdateCompressedMipTailThroughStaging(t *testing.T) {
	driver, device := newTestDevice(t)

	texture, err := device.CreateTexture(TextureDescription{
		Width:       4,
		Height:      4,
		Depth:       1,
		MipLevels:   3,
		ArrayLayers: 1,
		Format:      format.BC1RgbaUNorm,
		Usage:       TextureUsageSampled,
		Type:        TextureType2D,
	})
	require.NoError(t, err)

	require.NoError(t, device.UpdateTexture(texture, make([]byte, 8), 0, 0, 0, 1, 1, 1, 2, 0))

	copies := driver.CallsNamed("CmdCopyBufferToImage")
	require.Len(t, copies, 1)
	regions := copies[0].Args[4].([]native.BufferImageCopy)
	require.Len(t, regions, 1)
	require.Equal(t, 4, regions[0].BufferRowLength)
	require.Equal(t, 4, regions[0].BufferImageHeight)
	require.Equal(t, 2, regions[0].ImageSubresource.MipLevel)
	require.Equal(t, native.Extent3D{Width: 1, Height: 1, Depth: 1}, regions[0].ImageExtent)
}

func TestUpdateTextureUploadsThroughPooledStaging(t *testing.T) {
	driver, device := newTestDevice(t)

	texture := createTestTexture(t, device, 4, 4, format.R8G8B8A8UNorm, TextureUsageSampled)
	require.NoError(t, device.UpdateTexture(texture, make([]byte, 64), 0, 0, 0, 4, 4, 1, 0, 0))

	copies := driver.CallsNamed("CmdCopyBufferToImage")
	require.Len(t, copies, 1)
	require.Equal(t, texture.Native(), copies[0].Args[2])
	regions := copies[0].Args[4].([]native.BufferImageCopy)
	require.Len(t, regions, 1)
	require.Equal(t, 4, regions[0].BufferRowLength)
	require.Equal(t, native.Extent3D{Width: 4, Height: 4, Depth: 1}, regions[0].ImageExtent)
	require.Equal(t, native.ImageLayoutShaderReadOnlyOptimal, texture.ImageLayout(0, 0))

	require.Empty(t, device.availableStagingTextures)
	require.NoError(t, device.WaitForIdle())
	require.Len(t, device.availableStagingTextures, 1)

	// A smaller region reuses the pooled staging texture
	driver.ResetCalls()
	require.NoError(t, device.UpdateTexture(texture, make([]byte, 16), 2, 2, 0, 2, 2, 1, 0, 0))
	require.Empty(t, driver.CallsNamed("CreateBuffer"))
	require.Empty(t, device.availableStagingTextures)
}

func TestUpdateTextureValidation(t *testing.T) {
	testCases := map[string]struct {
		Data                 []byte
		X, Y                 int
		Width, Height        int
		MipLevel, ArrayLayer int
	}{
		"MipOutOfRange":   {Data: make([]byte, 64), Width: 1, Height: 1, MipLevel: 1},
		"LayerOutOfRange": {Data: make([]byte, 64), Width: 1, Height: 1, ArrayLayer: 1},
		"RegionOverruns":  {Data: make([]byte, 64), X: 2, Width: 4, Height: 4},
		"DataTooShort":    {Data: make([]byte, 63), Width: 4, Height: 4},
		"EmptyRegion":     {Width: 0, Height: 1},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			_, device := newTestDevice(t)
			texture := createTestTexture(t, device, 4, 4, format.R8G8B8A8UNorm, TextureUsageSampled)

			err := device.UpdateTexture(texture, testCase.Data, testCase.X, testCase.Y, 0,
				testCase.Width, testCase.Height, 1, testCase.MipLevel, testCase.ArrayLayer)
			require.ErrorIs(t, err, ErrInvalidOperation)
		})
	}
}

func TestCopyTextureRegion(t *testing.T) {
	// Two 4x4 single-byte images; copy the 2x2 block at (1, 1) to (2, 0)
	source := make([]byte, 16)
	for i := range source {
		source[i] = byte(i)
	}
	destination := make([]byte, 16)

	copyTextureRegion(
		source, 1, 1, 0, 4, 16,
		destination, 2, 0, 0, 4, 16,
		2, 2, 1, format.R8UNorm)

	require.Equal(t, []byte{
		0, 0, 5, 6,
		0, 0, 9, 10,
		0, 0, 0, 0,
		0, 0, 0, 0,
	}, destination)
}

func TestCopyTextureBetweenImages(t *testing.T) {
	fixture := newRenderFixture(t, 1, false, 0)
	commandList := fixture.commandList

	source := createTestTexture(t, fixture.device, 8, 8, format.R8G8B8A8UNorm, TextureUsageSampled)
	destination := createTestTexture(t, fixture.device, 8, 8, format.R8G8B8A8UNorm, TextureUsageSampled)
	fixture.driver.ResetCalls()

	require.NoError(t, commandList.Begin())
	require.NoError(t, commandList.CopyTexture(
		TextureRegion{Texture: source, X: 1},
		TextureRegion{Texture: destination, Y: 2},
		4, 4, 1, 1))
	require.NoError(t, commandList.End())

	copies := fixture.driver.CallsNamed("CmdCopyImage")
	require.Len(t, copies, 1)
	regions := copies[0].Args[5].([]native.ImageCopy)
	require.Equal(t, native.Offset3D{X: 1}, regions[0].SrcOffset)
	require.Equal(t, native.Offset3D{Y: 2}, regions[0].DstOffset)
	require.Equal(t, native.ImageLayoutShaderReadOnlyOptimal, source.ImageLayout(0, 0))
	require.Equal(t, native.ImageLayoutShaderReadOnlyOptimal, destination.ImageLayout(0, 0))
}
