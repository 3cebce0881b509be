package graphics

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gfx/format"
	"github.com/vkngwrapper/gfx/native"
)

func TestVertexInputState(t *testing.T) {
	bindings, attributes := vertexInputState([]VertexLayoutDescription{
		{
			Elements: []VertexElementDescription{
				{Name: "Position", Format: format.Float3},
				{Name: "TexCoord", Format: format.Float2},
			},
		},
		{
			Stride:           32,
			InstanceStepRate: 1,
			Elements: []VertexElementDescription{
				{Name: "Tint", Format: format.Float4, Offset: 16},
			},
		},
	})

	require.Equal(t, []VertexBinding{
		{Binding: 0, Stride: 20},
		{Binding: 1, Stride: 32, InstanceStepRate: 1},
	}, bindings)
	require.Equal(t, []VertexAttribute{
		{Location: 0, Binding: 0, Format: format.Float3, Offset: 0},
		{Location: 1, Binding: 0, Format: format.Float2, Offset: 12},
		{Location: 2, Binding: 1, Format: format.Float4, Offset: 16},
	}, attributes)
}

func TestCreatePipelineValidation(t *testing.T) {
	_, device := newTestDevice(t)

	vertexShader, err := device.CreateShader(ShaderDescription{Stage: native.ShaderStageVertex, Code: []byte{3, 2, 35, 7}})
	require.NoError(t, err)

	_, err = device.CreateGraphicsPipeline(GraphicsPipelineDescription{})
	require.ErrorIs(t, err, ErrInvalidOperation)

	_, err = device.CreateComputePipeline(ComputePipelineDescription{})
	require.ErrorIs(t, err, ErrInvalidOperation)

	_, err = device.CreateComputePipeline(ComputePipelineDescription{Shader: vertexShader})
	require.ErrorIs(t, err, ErrInvalidOperation)
}

func TestCreatePipelineFailureReleasesLayout(t *testing.T) {
	driver, device := newTestDevice(t)

	shader, err := device.CreateShader(ShaderDescription{Stage: native.ShaderStageVertex, Code: []byte{3, 2, 35, 7}})
	require.NoError(t, err)

	before := driver.LiveObjects()
	driver.Failures = map[string]common.VkResult{"CreatePipeline": core1_0.VKErrorOutOfDeviceMemory}

	_, err = device.CreateGraphicsPipeline(GraphicsPipelineDescription{
		Shaders: []*Shader{shader},
		Outputs: OutputDescription{
			ColorAttachments: []OutputAttachmentDescription{{Format: format.R8G8B8A8UNorm}},
		},
	})
	require.ErrorIs(t, err, ErrOutOfMemory)
	require.Equal(t, before, driver.LiveObjects())
}

func TestGraphicsPipelineProperties(t *testing.T) {
	_, device := newTestDevice(t)

	shader, err := device.CreateShader(ShaderDescription{Stage: native.ShaderStageVertex, Code: []byte{3, 2, 35, 7}})
	require.NoError(t, err)

	pipeline, err := device.CreateGraphicsPipeline(GraphicsPipelineDescription{
		Shaders: []*Shader{shader},
		VertexLayouts: []VertexLayoutDescription{
			{Elements: []VertexElementDescription{{Name: "Position", Format: format.Float3}}},
		},
		Outputs: OutputDescription{
			ColorAttachments: []OutputAttachmentDescription{{Format: format.R8G8B8A8UNorm}},
		},
		ScissorTestEnabled: true,
	})
	require.NoError(t, err)

	require.False(t, pipeline.IsComputePipeline())
	require.True(t, pipeline.ScissorTestEnabled())
	require.Equal(t, 0, pipeline.ResourceSetCount())
	require.Equal(t, []int{12}, pipeline.VertexStrides())
	require.NoError(t, pipeline.Destroy())
	require.Panics(t, func() { _ = pipeline.Destroy() })
}

func TestCreateFramebufferValidation(t *testing.T) {
	_, device := newTestDevice(t)

	sampled := createTestTexture(t, device, 16, 16, format.R8G8B8A8UNorm, TextureUsageSampled)
	color := createTestTexture(t, device, 16, 16, format.R8G8B8A8UNorm, TextureUsageRenderTarget)

	testCases := map[string]struct {
		Description FramebufferDescription
	}{
		"NoAttachments": {
			Description: FramebufferDescription{},
		},
		"ColorTargetNotRenderTarget": {
			Description: FramebufferDescription{
				ColorTargets: []FramebufferAttachmentDescription{{Target: sampled}},
			},
		},
		"MissingColorTarget": {
			Description: FramebufferDescription{
				ColorTargets: []FramebufferAttachmentDescription{{}},
			},
		},
		"DepthTargetNotDepthStencil": {
			Description: FramebufferDescription{
				DepthTarget: &FramebufferAttachmentDescription{Target: color},
			},
		},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := device.CreateFramebuffer(testCase.Description)
			require.ErrorIs(t, err, ErrInvalidOperation)
		})
	}
}

func TestFramebufferRenderPassVariants(t *testing.T) {
	driver, device := newTestDevice(t)

	color := createTestTexture(t, device, 64, 64, format.R8G8B8A8UNorm, TextureUsageRenderTarget)
	depth := createTestTexture(t, device, 64, 64, format.D24UNormS8UInt, TextureUsageDepthStencil)
	require.NoError(t, device.WaitForIdle())

	before := driver.LiveObjects()
	driver.ResetCalls()

	framebuffer, err := device.CreateFramebuffer(FramebufferDescription{
		ColorTargets: []FramebufferAttachmentDescription{{Target: color}},
		DepthTarget:  &FramebufferAttachmentDescription{Target: depth},
	})
	require.NoError(t, err)

	require.Equal(t, 64, framebuffer.Width())
	require.Equal(t, 64, framebuffer.Height())
	require.Equal(t, 1, framebuffer.ColorTargetCount())
	require.True(t, framebuffer.HasDepthTarget())
	require.Same(t, color, framebuffer.ColorTarget(0))
	require.Same(t, depth, framebuffer.DepthTarget())
	require.False(t, framebuffer.IsSwapchainFramebuffer())

	renderPasses := driver.CallsNamed("CreateRenderPass")
	require.Len(t, renderPasses, 3)

	loadOps := []native.AttachmentLoadOp{native.AttachmentLoadOpDontCare, native.AttachmentLoadOpLoad, native.AttachmentLoadOpClear}
	for index, loadOp := range loadOps {
		info := renderPasses[index].Args[0].(native.RenderPassCreateInfo)
		require.Len(t, info.ColorAttachments, 1)
		require.Equal(t, loadOp, info.ColorAttachments[0].LoadOp)
		require.Equal(t, native.ImageLayoutColorAttachmentOptimal, info.ColorAttachments[0].FinalLayout)

		require.NotNil(t, info.DepthAttachment)
		require.Equal(t, loadOp, info.DepthAttachment.LoadOp)
		require.Equal(t, loadOp, info.DepthAttachment.StencilLoadOp)
		require.Equal(t, native.ImageLayoutDepthStencilAttachmentOptimal, info.DepthAttachment.FinalLayout)
	}

	loadInfo := renderPasses[1].Args[0].(native.RenderPassCreateInfo)
	require.Equal(t, native.ImageLayoutColorAttachmentOptimal, loadInfo.ColorAttachments[0].InitialLayout)
	clearInfo := renderPasses[2].Args[0].(native.RenderPassCreateInfo)
	require.Equal(t, native.ImageLayoutUndefined, clearInfo.ColorAttachments[0].InitialLayout)

	framebuffers := driver.CallsNamed("CreateFramebuffer")
	require.Len(t, framebuffers, 1)
	info := framebuffers[0].Args[0].(native.FramebufferCreateInfo)
	require.Len(t, info.Attachments, 2)
	require.Equal(t, 64, info.Width)
	require.Equal(t, 64, info.Height)

	require.NoError(t, framebuffer.Destroy())
	require.Equal(t, before, driver.LiveObjects())
}

func TestFramebufferTargetsMipLevel(t *testing.T) {
	_, device := newTestDevice(t)

	color, err := device.CreateTexture(TextureDescription{
		Width:       64,
		Height:      32,
		Depth:       1,
		MipLevels:   3,
		ArrayLayers: 1,
		Format:      format.R8G8B8A8UNorm,
		Usage:       TextureUsageRenderTarget,
		Type:        TextureType2D,
		SampleCount: 1,
	})
	require.NoError(t, err)

	framebuffer, err := device.CreateFramebuffer(FramebufferDescription{
		ColorTargets: []FramebufferAttachmentDescription{{Target: color, MipLevel: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, 16, framebuffer.Width())
	require.Equal(t, 8, framebuffer.Height())
}
