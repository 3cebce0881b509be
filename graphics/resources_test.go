package graphics

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/gfx/format"
	"github.com/vkngwrapper/gfx/native"
)

func TestTextureViewTypes(t *testing.T) {
	_, device := newTestDevice(t)

	testCases := map[string]struct {
		Description TextureDescription
		BaseLayer   int
		Layers      int

		ViewType   native.ImageViewType
		BaseNative int
		NativeSize int
	}{
		"Single2D": {
			Description: TextureDescription{Width: 8, Height: 8, Depth: 1, MipLevels: 1, ArrayLayers: 1, Type: TextureType2D},
			ViewType:    native.ImageViewType2D,
			NativeSize:  1,
		},
		"Array2D": {
			Description: TextureDescription{Width: 8, Height: 8, Depth: 1, MipLevels: 1, ArrayLayers: 4, Type: TextureType2D},
			BaseLayer:   1,
			ViewType:    native.ImageViewType2DArray,
			BaseNative:  1,
			NativeSize:  3,
		},
		"Cube": {
			Description: TextureDescription{Width: 8, Height: 8, Depth: 1, MipLevels: 1, ArrayLayers: 1, Type: TextureType2D, Usage: TextureUsageCubemap},
			ViewType:    native.ImageViewTypeCube,
			NativeSize:  6,
		},
		"SecondCubeOfArray": {
			Description: TextureDescription{Width: 8, Height: 8, Depth: 1, MipLevels: 1, ArrayLayers: 2, Type: TextureType2D, Usage: TextureUsageCubemap},
			BaseLayer:   1,
			Layers:      1,
			ViewType:    native.ImageViewTypeCube,
			BaseNative:  6,
			NativeSize:  6,
		},
		"Volume": {
			Description: TextureDescription{Width: 8, Height: 8, Depth: 8, MipLevels: 1, ArrayLayers: 1, Type: TextureType3D},
			ViewType:    native.ImageViewType3D,
			NativeSize:  1,
		},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			description := testCase.Description
			description.Format = format.R8G8B8A8UNorm
			description.Usage |= TextureUsageSampled

			texture, err := device.CreateTexture(description)
			require.NoError(t, err)

			view, err := device.CreateTextureView(TextureViewDescription{
				Target:         texture,
				BaseArrayLayer: testCase.BaseLayer,
				ArrayLayers:    testCase.Layers,
			})
			require.NoError(t, err)
			require.Same(t, texture, view.Target())

			require.Equal(t, testCase.ViewType, view.viewType())
			subresources := view.subresourceRange()
			require.Equal(t, testCase.BaseNative, subresources.BaseArrayLayer)
			require.Equal(t, testCase.NativeSize, subresources.LayerCount)
			require.Equal(t, 1, subresources.LevelCount)

			require.NoError(t, view.Destroy())
		})
	}
}

func TestCreateTextureViewValidation(t *testing.T) {
	_, device := newTestDevice(t)

	sampled := createTestTexture(t, device, 8, 8, format.R8G8B8A8UNorm, TextureUsageSampled)
	staging := createTestTexture(t, device, 8, 8, format.R8G8B8A8UNorm, TextureUsageStaging)

	testCases := map[string]struct {
		Description TextureViewDescription
	}{
		"NoTarget": {
			Description: TextureViewDescription{},
		},
		"StagingTarget": {
			Description: TextureViewDescription{Target: staging},
		},
		"MipOutOfRange": {
			Description: TextureViewDescription{Target: sampled, BaseMipLevel: 1},
		},
		"LayersOutOfRange": {
			Description: TextureViewDescription{Target: sampled, ArrayLayers: 2},
		},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := device.CreateTextureView(testCase.Description)
			require.ErrorIs(t, err, ErrInvalidOperation)
		})
	}
}

func TestCreateSampler(t *testing.T) {
	driver, device := newTestDevice(t)

	compare := native.CompareOpLessOrEqual
	sampler, err := device.CreateSampler(SamplerDescription{
		MagFilter:         native.FilterLinear,
		MinFilter:         native.FilterLinear,
		ComparisonKind:    &compare,
		MaximumAnisotropy: 4,
		MaximumLod:        8,
	})
	require.NoError(t, err)

	calls := driver.CallsNamed("CreateSampler")
	require.Len(t, calls, 1)
	info := calls[0].Args[0].(native.SamplerCreateInfo)
	require.True(t, info.CompareEnable)
	require.Equal(t, native.CompareOpLessOrEqual, info.CompareOp)
	require.True(t, info.AnisotropyEnable)
	require.Equal(t, float32(4), info.MaxAnisotropy)
	require.Equal(t, float32(8), info.MaxLod)

	plain, err := device.CreateSampler(SamplerDescription{})
	require.NoError(t, err)
	info = driver.CallsNamed("CreateSampler")[1].Args[0].(native.SamplerCreateInfo)
	require.False(t, info.CompareEnable)
	require.False(t, info.AnisotropyEnable)

	require.NoError(t, sampler.Destroy())
	require.NoError(t, plain.Destroy())
	require.Panics(t, func() { _ = plain.Destroy() })
}

func TestMapBuffer(t *testing.T) {
	driver, device := newTestDevice(t)

	dynamic := createTestBuffer(t, device, 64, BufferUsageUniformBuffer|BufferUsageDynamic)
	mapped, err := device.MapBuffer(dynamic)
	require.NoError(t, err)
	require.Equal(t, 64, mapped.SizeInBytes)
	require.Len(t, mapped.Data, 64)

	mapped.Data[3] = 42
	require.Equal(t, byte(42), driver.BufferContents(dynamic.Native())[3])
	require.NoError(t, device.UnmapBuffer(dynamic))

	deviceLocal := createTestBuffer(t, device, 64, BufferUsageVertexBuffer)
	_, err = device.MapBuffer(deviceLocal)
	require.ErrorIs(t, err, ErrInvalidOperation)
	require.ErrorIs(t, device.UnmapBuffer(deviceLocal), ErrInvalidOperation)
}

func TestClearColorTexture(t *testing.T) {
	driver, device := newTestDevice(t)

	texture := createTestTexture(t, device, 8, 8, format.R8G8B8A8UNorm, TextureUsageRenderTarget|TextureUsageSampled)
	require.NoError(t, device.WaitForIdle())
	driver.ResetCalls()

	color := [4]float32{1, 0, 0, 1}
	require.NoError(t, device.ClearColorTexture(texture, color))

	clears := driver.CallsNamed("CmdClearColorImage")
	require.Len(t, clears, 1)
	require.Equal(t, texture.Native(), clears[0].Args[1])
	require.Equal(t, native.ImageLayoutTransferDstOptimal, clears[0].Args[2])
	require.Equal(t, color, clears[0].Args[3])
	require.Len(t, driver.CallsNamed("QueueSubmit"), 1)

	require.Equal(t, native.ImageLayoutColorAttachmentOptimal, texture.ImageLayout(0, 0))
}

func TestClearDepthTexture(t *testing.T) {
	driver, device := newTestDevice(t)

	texture := createTestTexture(t, device, 8, 8, format.D24UNormS8UInt, TextureUsageDepthStencil)
	require.NoError(t, device.WaitForIdle())
	driver.ResetCalls()

	require.NoError(t, device.ClearDepthTexture(texture, 1, 0))

	clears := driver.CallsNamed("CmdClearDepthStencilImage")
	require.Len(t, clears, 1)
	require.Equal(t, float32(1), clears[0].Args[3])
	ranges := clears[0].Args[5].([]native.ImageSubresourceRange)
	require.Len(t, ranges, 1)
	require.Equal(t, native.ImageAspectDepth|native.ImageAspectStencil, ranges[0].Aspect)

	require.Equal(t, native.ImageLayoutDepthStencilAttachmentOptimal, texture.ImageLayout(0, 0))
}
