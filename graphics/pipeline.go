package graphics

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfx/format"
	"github.com/vkngwrapper/gfx/internal/arena"
	"github.com/vkngwrapper/gfx/native"
)

// VertexElementDescription is one attribute of a vertex layout. A zero Offset places the element
// directly after the previous one.
type VertexElementDescription struct {
	Name   string
	Format format.VertexElementFormat
	Offset int
}

// VertexLayoutDescription describes the vertices read from one vertex buffer binding. A zero Stride is
// computed from the elements. A non-zero InstanceStepRate advances the binding per instance.
type VertexLayoutDescription struct {
	Stride           int
	InstanceStepRate int
	Elements         []VertexElementDescription
}

type VertexBinding struct {
	Binding          int
	Stride           int
	InstanceStepRate int
}

type VertexAttribute struct {
	Location int
	Binding  int
	Format   format.VertexElementFormat
	Offset   int
}

// OutputAttachmentDescription is the format of one framebuffer attachment a pipeline renders to
type OutputAttachmentDescription struct {
	Format format.PixelFormat
}

// OutputDescription is the shape of the framebuffers a graphics pipeline may be used with
type OutputDescription struct {
	DepthAttachment  *OutputAttachmentDescription
	ColorAttachments []OutputAttachmentDescription
	SampleCount      int
}

// FixedFunctionState is handed to the driver as the opaque fixed-function part of a graphics pipeline
type FixedFunctionState struct {
	VertexBindings       []VertexBinding
	VertexAttributes     []VertexAttribute
	ColorAttachmentCount int
	SampleCount          int
	// State carries blend, depth-stencil, rasterizer and topology state exactly as the caller gave it
	State any
}

type GraphicsPipelineDescription struct {
	Shaders         []*Shader
	VertexLayouts   []VertexLayoutDescription
	ResourceLayouts []*ResourceLayout
	Outputs         OutputDescription

	ScissorTestEnabled bool
	State              any
}

type ComputePipelineDescription struct {
	Shader          *Shader
	ResourceLayouts []*ResourceLayout
}

// Pipeline is a compiled graphics or compute pipeline along with its layout. Graphics pipelines also
// own a render pass compatible with every framebuffer matching their OutputDescription.
type Pipeline struct {
	device *GraphicsDevice
	handle arena.Handle

	bindPoint          native.PipelineBindPoint
	pipeline           native.Pipeline
	layout             native.PipelineLayout
	renderPass         native.RenderPass
	resourceSetCount   int
	scissorTestEnabled bool
	vertexStrides      []int
}

func (d *GraphicsDevice) CreateGraphicsPipeline(description GraphicsPipelineDescription) (*Pipeline, error) {
	d.logger.Debug("GraphicsDevice::CreateGraphicsPipeline")

	if len(description.Shaders) == 0 {
		return nil, errors.Wrap(ErrInvalidOperation, "a graphics pipeline requires at least one shader")
	}

	bindings, attributes := vertexInputState(description.VertexLayouts)

	sampleCount := description.Outputs.SampleCount
	if sampleCount == 0 {
		sampleCount = 1
	}

	layout, err := d.createPipelineLayout(description.ResourceLayouts)
	if err != nil {
		return nil, err
	}

	renderPass, res, err := d.driver.CreateRenderPass(compatibleRenderPass(description.Outputs, sampleCount))
	if err != nil {
		d.driver.DestroyPipelineLayout(layout)
		return nil, nativeError(res, err, "create a compatible render pass")
	}

	stages := make([]native.PipelineShaderStage, 0, len(description.Shaders))
	for _, shader := range description.Shaders {
		stages = append(stages, native.PipelineShaderStage{
			Stage:      shader.stage,
			Module:     shader.module,
			EntryPoint: shader.entryPoint,
		})
	}

	nativePipeline, res, err := d.driver.CreatePipeline(native.PipelineCreateInfo{
		BindPoint:       native.PipelineBindPointGraphics,
		Layout:          layout,
		RenderPass:      renderPass,
		Stages:          stages,
		DynamicViewport: true,
		DynamicScissor:  true,
		FixedFunctionState: FixedFunctionState{
			VertexBindings:       bindings,
			VertexAttributes:     attributes,
			ColorAttachmentCount: len(description.Outputs.ColorAttachments),
			SampleCount:          sampleCount,
			State:                description.State,
		},
	})
	if err != nil {
		d.driver.DestroyRenderPass(renderPass)
		d.driver.DestroyPipelineLayout(layout)
		return nil, nativeError(res, err, "create a graphics pipeline")
	}

	strides := make([]int, len(bindings))
	for index, binding := range bindings {
		strides[index] = binding.Stride
	}

	pipeline := &Pipeline{
		device:             d,
		bindPoint:          native.PipelineBindPointGraphics,
		pipeline:           nativePipeline,
		layout:             layout,
		renderPass:         renderPass,
		resourceSetCount:   len(description.ResourceLayouts),
		scissorTestEnabled: description.ScissorTestEnabled,
		vertexStrides:      strides,
	}
	pipeline.handle = d.track(pipeline)
	return pipeline, nil
}

func (d *GraphicsDevice) CreateComputePipeline(description ComputePipelineDescription) (*Pipeline, error) {
	d.logger.Debug("GraphicsDevice::CreateComputePipeline")

	if description.Shader == nil || description.Shader.stage&native.ShaderStageCompute == 0 {
		return nil, errors.Wrap(ErrInvalidOperation, "a compute pipeline requires a compute shader")
	}

	layout, err := d.createPipelineLayout(description.ResourceLayouts)
	if err != nil {
		return nil, err
	}

	nativePipeline, res, err := d.driver.CreatePipeline(native.PipelineCreateInfo{
		BindPoint: native.PipelineBindPointCompute,
		Layout:    layout,
		Stages: []native.PipelineShaderStage{
			{
				Stage:      description.Shader.stage,
				Module:     description.Shader.module,
				EntryPoint: description.Shader.entryPoint,
			},
		},
	})
	if err != nil {
		d.driver.DestroyPipelineLayout(layout)
		return nil, nativeError(res, err, "create a compute pipeline")
	}

	pipeline := &Pipeline{
		device:           d,
		bindPoint:        native.PipelineBindPointCompute,
		pipeline:         nativePipeline,
		layout:           layout,
		resourceSetCount: len(description.ResourceLayouts),
	}
	pipeline.handle = d.track(pipeline)
	return pipeline, nil
}

func (d *GraphicsDevice) createPipelineLayout(resourceLayouts []*ResourceLayout) (native.PipelineLayout, error) {
	setLayouts := make([]native.DescriptorSetLayout, 0, len(resourceLayouts))
	for _, resourceLayout := range resourceLayouts {
		setLayouts = append(setLayouts, resourceLayout.layout)
	}

	layout, res, err := d.driver.CreatePipelineLayout(native.PipelineLayoutCreateInfo{SetLayouts: setLayouts})
	if err != nil {
		return 0, nativeError(res, err, "create a pipeline layout")
	}
	return layout, nil
}

// vertexInputState assigns one binding per vertex layout and consecutive shader locations to every
// element across all layouts
func vertexInputState(layouts []VertexLayoutDescription) ([]VertexBinding, []VertexAttribute) {
	bindings := make([]VertexBinding, 0, len(layouts))
	var attributes []VertexAttribute

	location := 0
	for binding, layout := range layouts {
		offset := 0
		for _, element := range layout.Elements {
			if element.Offset != 0 {
				offset = element.Offset
			}
			attributes = append(attributes, VertexAttribute{
				Location: location,
				Binding:  binding,
				Format:   element.Format,
				Offset:   offset,
			})
			offset += format.VertexElementSize(element.Format)
			location++
		}

		stride := layout.Stride
		if stride == 0 {
			stride = offset
		}
		bindings = append(bindings, VertexBinding{
			Binding:          binding,
			Stride:           stride,
			InstanceStepRate: layout.InstanceStepRate,
		})
	}

	return bindings, attributes
}

// compatibleRenderPass builds the render pass a graphics pipeline is compiled against. Its load and
// store operations are irrelevant to compatibility, only formats and sample counts matter.
func compatibleRenderPass(outputs OutputDescription, sampleCount int) native.RenderPassCreateInfo {
	info := native.RenderPassCreateInfo{
		ColorAttachments: make([]native.AttachmentDescription, 0, len(outputs.ColorAttachments)),
	}

	for _, color := range outputs.ColorAttachments {
		info.ColorAttachments = append(info.ColorAttachments, native.AttachmentDescription{
			Format:         toNativeFormat(color.Format),
			Samples:        sampleCount,
			LoadOp:         native.AttachmentLoadOpDontCare,
			StoreOp:        native.AttachmentStoreOpStore,
			StencilLoadOp:  native.AttachmentLoadOpDontCare,
			StencilStoreOp: native.AttachmentStoreOpDontCare,
			InitialLayout:  native.ImageLayoutUndefined,
			FinalLayout:    native.ImageLayoutShaderReadOnlyOptimal,
		})
	}

	if outputs.DepthAttachment != nil {
		stencilStore := native.AttachmentStoreOpDontCare
		if format.IsStencil(outputs.DepthAttachment.Format) {
			stencilStore = native.AttachmentStoreOpStore
		}

		info.DepthAttachment = &native.AttachmentDescription{
			Format:         toNativeFormat(outputs.DepthAttachment.Format),
			Samples:        sampleCount,
			LoadOp:         native.AttachmentLoadOpDontCare,
			StoreOp:        native.AttachmentStoreOpStore,
			StencilLoadOp:  native.AttachmentLoadOpDontCare,
			StencilStoreOp: stencilStore,
			InitialLayout:  native.ImageLayoutUndefined,
			FinalLayout:    native.ImageLayoutDepthStencilAttachmentOptimal,
		}
	}

	return info
}

func (p *Pipeline) IsComputePipeline() bool {
	return p.bindPoint == native.PipelineBindPointCompute
}

// ResourceSetCount is the number of resource set slots the pipeline's layout declares
func (p *Pipeline) ResourceSetCount() int {
	return p.resourceSetCount
}

func (p *Pipeline) ScissorTestEnabled() bool {
	return p.scissorTestEnabled
}

// VertexStrides returns the stride in bytes of each vertex buffer binding
func (p *Pipeline) VertexStrides() []int {
	return p.vertexStrides
}

func (p *Pipeline) Native() native.Pipeline {
	return p.pipeline
}

func (p *Pipeline) Destroy() error {
	p.device.logger.Debug("Pipeline::Destroy")

	if !p.device.untrack(p.handle) {
		panic("attempting to destroy a pipeline that has already been destroyed")
	}
	return p.release()
}

func (p *Pipeline) resourceKind() string {
	return kindPipeline
}

func (p *Pipeline) release() error {
	p.device.driver.DestroyPipeline(p.pipeline)
	p.device.driver.DestroyRenderPass(p.renderPass)
	p.device.driver.DestroyPipelineLayout(p.layout)
	return nil
}
