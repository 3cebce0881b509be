package native

import "github.com/vkngwrapper/core/v2/common"

// ImageLayout is the driver-internal arrangement of an image subresource
type ImageLayout int32

const (
	ImageLayoutUndefined ImageLayout = iota
	ImageLayoutGeneral
	ImageLayoutColorAttachmentOptimal
	ImageLayoutDepthStencilAttachmentOptimal
	ImageLayoutDepthStencilReadOnlyOptimal
	ImageLayoutShaderReadOnlyOptimal
	ImageLayoutTransferSrcOptimal
	ImageLayoutTransferDstOptimal
	ImageLayoutPreinitialized
	ImageLayoutPresentSrc
)

var imageLayoutMapping = map[ImageLayout]string{
	ImageLayoutUndefined:                     "Undefined",
	ImageLayoutGeneral:                       "General",
	ImageLayoutColorAttachmentOptimal:        "ColorAttachmentOptimal",
	ImageLayoutDepthStencilAttachmentOptimal: "DepthStencilAttachmentOptimal",
	ImageLayoutDepthStencilReadOnlyOptimal:   "DepthStencilReadOnlyOptimal",
	ImageLayoutShaderReadOnlyOptimal:         "ShaderReadOnlyOptimal",
	ImageLayoutTransferSrcOptimal:            "TransferSrcOptimal",
	ImageLayoutTransferDstOptimal:            "TransferDstOptimal",
	ImageLayoutPreinitialized:                "Preinitialized",
	ImageLayoutPresentSrc:                    "PresentSrc",
}

func (l ImageLayout) String() string {
	str, ok := imageLayoutMapping[l]
	if !ok {
		return "unknown ImageLayout"
	}
	return str
}

// PipelineStageFlags identifies stages of the device pipeline for synchronization
type PipelineStageFlags int32

var pipelineStageFlagsMapping = common.NewFlagStringMapping[PipelineStageFlags]()

func (f PipelineStageFlags) Register(str string) {
	pipelineStageFlagsMapping.Register(f, str)
}
func (f PipelineStageFlags) String() string {
	return pipelineStageFlagsMapping.FlagsToString(f)
}

const (
	PipelineStageTopOfPipe PipelineStageFlags = 1 << iota
	PipelineStageFragmentShader
	PipelineStageEarlyFragmentTests
	PipelineStageLateFragmentTests
	PipelineStageColorAttachmentOutput
	PipelineStageComputeShader
	PipelineStageTransfer
	PipelineStageBottomOfPipe
	PipelineStageVertexInput
	PipelineStageVertexShader
)

// AccessFlags identifies memory access types for synchronization
type AccessFlags int32

var accessFlagsMapping = common.NewFlagStringMapping[AccessFlags]()

func (f AccessFlags) Register(str string) {
	accessFlagsMapping.Register(f, str)
}
func (f AccessFlags) String() string {
	return accessFlagsMapping.FlagsToString(f)
}

const (
	AccessShaderRead AccessFlags = 1 << iota
	AccessShaderWrite
	AccessColorAttachmentRead
	AccessColorAttachmentWrite
	AccessDepthStencilAttachmentRead
	AccessDepthStencilAttachmentWrite
	AccessTransferRead
	AccessTransferWrite
	AccessHostWrite
	AccessMemoryRead
	AccessVertexAttributeRead
	AccessIndexRead
	AccessUniformRead
)

// ImageAspectFlags selects the color, depth, or stencil planes of an image
type ImageAspectFlags int32

var imageAspectFlagsMapping = common.NewFlagStringMapping[ImageAspectFlags]()

func (f ImageAspectFlags) Register(str string) {
	imageAspectFlagsMapping.Register(f, str)
}
func (f ImageAspectFlags) String() string {
	return imageAspectFlagsMapping.FlagsToString(f)
}

const (
	ImageAspectColor ImageAspectFlags = 1 << iota
	ImageAspectDepth
	ImageAspectStencil
)

// BufferUsageFlags describes how a native buffer may be used
type BufferUsageFlags int32

var bufferUsageFlagsMapping = common.NewFlagStringMapping[BufferUsageFlags]()

func (f BufferUsageFlags) Register(str string) {
	bufferUsageFlagsMapping.Register(f, str)
}
func (f BufferUsageFlags) String() string {
	return bufferUsageFlagsMapping.FlagsToString(f)
}

const (
	BufferUsageTransferSrc BufferUsageFlags = 1 << iota
	BufferUsageTransferDst
	BufferUsageUniformBuffer
	BufferUsageStorageBuffer
	BufferUsageIndexBuffer
	BufferUsageVertexBuffer
	BufferUsageIndirectBuffer
)

// ImageUsageFlags describes how a native image may be used
type ImageUsageFlags int32

var imageUsageFlagsMapping = common.NewFlagStringMapping[ImageUsageFlags]()

func (f ImageUsageFlags) Register(str string) {
	imageUsageFlagsMapping.Register(f, str)
}
func (f ImageUsageFlags) String() string {
	return imageUsageFlagsMapping.FlagsToString(f)
}

const (
	ImageUsageTransferSrc ImageUsageFlags = 1 << iota
	ImageUsageTransferDst
	ImageUsageSampled
	ImageUsageStorage
	ImageUsageColorAttachment
	ImageUsageDepthStencilAttachment
)

// ShaderStageFlags identifies the shader stages a descriptor is visible to
type ShaderStageFlags int32

var shaderStageFlagsMapping = common.NewFlagStringMapping[ShaderStageFlags]()

func (f ShaderStageFlags) Register(str string) {
	shaderStageFlagsMapping.Register(f, str)
}
func (f ShaderStageFlags) String() string {
	return shaderStageFlagsMapping.FlagsToString(f)
}

const (
	ShaderStageVertex ShaderStageFlags = 1 << iota
	ShaderStageTessellationControl
	ShaderStageTessellationEvaluation
	ShaderStageGeometry
	ShaderStageFragment
	ShaderStageCompute
)

// CommandPoolCreateFlags controls command buffer allocation behavior of a pool
type CommandPoolCreateFlags int32

var commandPoolCreateFlagsMapping = common.NewFlagStringMapping[CommandPoolCreateFlags]()

func (f CommandPoolCreateFlags) Register(str string) {
	commandPoolCreateFlagsMapping.Register(f, str)
}
func (f CommandPoolCreateFlags) String() string {
	return commandPoolCreateFlagsMapping.FlagsToString(f)
}

const (
	CommandPoolCreateTransient CommandPoolCreateFlags = 1 << iota
	CommandPoolCreateResetCommandBuffer
)

// CommandBufferUsageFlags is passed to BeginCommandBuffer
type CommandBufferUsageFlags int32

var commandBufferUsageFlagsMapping = common.NewFlagStringMapping[CommandBufferUsageFlags]()

func (f CommandBufferUsageFlags) Register(str string) {
	commandBufferUsageFlagsMapping.Register(f, str)
}
func (f CommandBufferUsageFlags) String() string {
	return commandBufferUsageFlagsMapping.FlagsToString(f)
}

const (
	CommandBufferUsageOneTimeSubmit CommandBufferUsageFlags = 1 << iota
)

// DescriptorPoolCreateFlags controls descriptor pool behavior
type DescriptorPoolCreateFlags int32

var descriptorPoolCreateFlagsMapping = common.NewFlagStringMapping[DescriptorPoolCreateFlags]()

func (f DescriptorPoolCreateFlags) Register(str string) {
	descriptorPoolCreateFlagsMapping.Register(f, str)
}
func (f DescriptorPoolCreateFlags) String() string {
	return descriptorPoolCreateFlagsMapping.FlagsToString(f)
}

const (
	DescriptorPoolCreateFreeDescriptorSet DescriptorPoolCreateFlags = 1 << iota
)

// DescriptorType is the kind of resource bound at a descriptor slot
type DescriptorType int32

const (
	DescriptorTypeSampler DescriptorType = iota
	DescriptorTypeSampledImage
	DescriptorTypeStorageImage
	DescriptorTypeUniformBuffer
	DescriptorTypeStorageBuffer
)

var descriptorTypeMapping = map[DescriptorType]string{
	DescriptorTypeSampler:       "Sampler",
	DescriptorTypeSampledImage:  "SampledImage",
	DescriptorTypeStorageImage:  "StorageImage",
	DescriptorTypeUniformBuffer: "UniformBuffer",
	DescriptorTypeStorageBuffer: "StorageBuffer",
}

func (t DescriptorType) String() string {
	str, ok := descriptorTypeMapping[t]
	if !ok {
		return "unknown DescriptorType"
	}
	return str
}

// PipelineBindPoint distinguishes graphics and compute pipeline state
type PipelineBindPoint int32

const (
	PipelineBindPointGraphics PipelineBindPoint = iota
	PipelineBindPointCompute
)

var pipelineBindPointMapping = map[PipelineBindPoint]string{
	PipelineBindPointGraphics: "Graphics",
	PipelineBindPointCompute:  "Compute",
}

func (p PipelineBindPoint) String() string {
	str, ok := pipelineBindPointMapping[p]
	if !ok {
		return "unknown PipelineBindPoint"
	}
	return str
}

// AttachmentLoadOp is the render pass behavior for attachment contents at the start of the pass
type AttachmentLoadOp int32

const (
	AttachmentLoadOpLoad AttachmentLoadOp = iota
	AttachmentLoadOpClear
	AttachmentLoadOpDontCare
)

var attachmentLoadOpMapping = map[AttachmentLoadOp]string{
	AttachmentLoadOpLoad:     "Load",
	AttachmentLoadOpClear:    "Clear",
	AttachmentLoadOpDontCare: "DontCare",
}

func (o AttachmentLoadOp) String() string {
	str, ok := attachmentLoadOpMapping[o]
	if !ok {
		return "unknown AttachmentLoadOp"
	}
	return str
}

// AttachmentStoreOp is the render pass behavior for attachment contents at the end of the pass
type AttachmentStoreOp int32

const (
	AttachmentStoreOpStore AttachmentStoreOp = iota
	AttachmentStoreOpDontCare
)

// IndexType is the width of indices in an index buffer
type IndexType int32

const (
	IndexTypeUInt16 IndexType = iota
	IndexTypeUInt32
)

// ImageType is the dimensionality of a native image
type ImageType int32

const (
	ImageType1D ImageType = iota
	ImageType2D
	ImageType3D
)

// ImageViewType is the dimensionality of a native image view
type ImageViewType int32

const (
	ImageViewType1D ImageViewType = iota
	ImageViewType2D
	ImageViewType3D
	ImageViewTypeCube
	ImageViewType1DArray
	ImageViewType2DArray
	ImageViewTypeCubeArray
)

// Filter is a sampler texel filter
type Filter int32

const (
	FilterNearest Filter = iota
	FilterLinear
)

// SamplerMipmapMode is a sampler mip filter
type SamplerMipmapMode int32

const (
	SamplerMipmapModeNearest SamplerMipmapMode = iota
	SamplerMipmapModeLinear
)

// SamplerAddressMode is the behavior of a sampler outside of [0, 1]
type SamplerAddressMode int32

const (
	SamplerAddressModeRepeat SamplerAddressMode = iota
	SamplerAddressModeMirroredRepeat
	SamplerAddressModeClampToEdge
	SamplerAddressModeClampToBorder
)

// BorderColor is the color returned by a clamp-to-border sampler
type BorderColor int32

const (
	BorderColorFloatTransparentBlack BorderColor = iota
	BorderColorFloatOpaqueBlack
	BorderColorFloatOpaqueWhite
)

// CompareOp is a depth, stencil or sampler comparison
type CompareOp int32

const (
	CompareOpNever CompareOp = iota
	CompareOpLess
	CompareOpEqual
	CompareOpLessOrEqual
	CompareOpGreater
	CompareOpNotEqual
	CompareOpGreaterOrEqual
	CompareOpAlways
)

// PresentMode is the swapchain presentation behavior
type PresentMode int32

const (
	PresentModeImmediate PresentMode = iota
	PresentModeMailbox
	PresentModeFIFO
	PresentModeFIFORelaxed
)

var presentModeMapping = map[PresentMode]string{
	PresentModeImmediate:   "Immediate",
	PresentModeMailbox:     "Mailbox",
	PresentModeFIFO:        "FIFO",
	PresentModeFIFORelaxed: "FIFORelaxed",
}

func (m PresentMode) String() string {
	str, ok := presentModeMapping[m]
	if !ok {
		return "unknown PresentMode"
	}
	return str
}

// ColorSpace is the swapchain color space
type ColorSpace int32

const (
	ColorSpaceSRGBNonlinear ColorSpace = iota
)

// Format is the native texel format. Only formats the backend can produce are listed.
type Format int32

const (
	FormatUndefined Format = iota
	FormatR8UNorm
	FormatR8SNorm
	FormatR8UInt
	FormatR8SInt
	FormatR16UNorm
	FormatR16SNorm
	FormatR16UInt
	FormatR16SInt
	FormatR16SFloat
	FormatR32UInt
	FormatR32SInt
	FormatR32SFloat
	FormatR8G8UNorm
	FormatR8G8SNorm
	FormatR8G8UInt
	FormatR8G8SInt
	FormatR16G16UNorm
	FormatR16G16SNorm
	FormatR16G16UInt
	FormatR16G16SInt
	FormatR16G16SFloat
	FormatR32G32UInt
	FormatR32G32SInt
	FormatR32G32SFloat
	FormatR8G8B8A8UNorm
	FormatR8G8B8A8SNorm
	FormatR8G8B8A8UInt
	FormatR8G8B8A8SInt
	FormatB8G8R8A8UNorm
	FormatA2B10G10R10UNormPack32
	FormatA2B10G10R10UIntPack32
	FormatB10G11R11UFloatPack32
	FormatR16G16B16A16UNorm
	FormatR16G16B16A16SNorm
	FormatR16G16B16A16UInt
	FormatR16G16B16A16SInt
	FormatR16G16B16A16SFloat
	FormatR32G32B32A32UInt
	FormatR32G32B32A32SInt
	FormatR32G32B32A32SFloat
	FormatD24UNormS8UInt
	FormatD32SFloatS8UInt
	FormatBC1RGBUNormBlock
	FormatBC1RGBAUNormBlock
	FormatBC2UNormBlock
	FormatBC3UNormBlock
	FormatETC2R8G8B8UNormBlock
	FormatETC2R8G8B8A1UNormBlock
	FormatETC2R8G8B8A8UNormBlock
)

func init() {
	PipelineStageTopOfPipe.Register("TopOfPipe")
	PipelineStageFragmentShader.Register("FragmentShader")
	PipelineStageEarlyFragmentTests.Register("EarlyFragmentTests")
	PipelineStageLateFragmentTests.Register("LateFragmentTests")
	PipelineStageColorAttachmentOutput.Register("ColorAttachmentOutput")
	PipelineStageComputeShader.Register("ComputeShader")
	PipelineStageTransfer.Register("Transfer")
	PipelineStageBottomOfPipe.Register("BottomOfPipe")
	PipelineStageVertexInput.Register("VertexInput")
	PipelineStageVertexShader.Register("VertexShader")

	AccessShaderRead.Register("ShaderRead")
	AccessShaderWrite.Register("ShaderWrite")
	AccessColorAttachmentRead.Register("ColorAttachmentRead")
	AccessColorAttachmentWrite.Register("ColorAttachmentWrite")
	AccessDepthStencilAttachmentRead.Register("DepthStencilAttachmentRead")
	AccessDepthStencilAttachmentWrite.Register("DepthStencilAttachmentWrite")
	AccessTransferRead.Register("TransferRead")
	AccessTransferWrite.Register("TransferWrite")
	AccessHostWrite.Register("HostWrite")
	AccessMemoryRead.Register("MemoryRead")
	AccessVertexAttributeRead.Register("VertexAttributeRead")
	AccessIndexRead.Register("IndexRead")
	AccessUniformRead.Register("UniformRead")

	ImageAspectColor.Register("Color")
	ImageAspectDepth.Register("Depth")
	ImageAspectStencil.Register("Stencil")

	BufferUsageTransferSrc.Register("TransferSrc")
	BufferUsageTransferDst.Register("TransferDst")
	BufferUsageUniformBuffer.Register("UniformBuffer")
	BufferUsageStorageBuffer.Register("StorageBuffer")
	BufferUsageIndexBuffer.Register("IndexBuffer")
	BufferUsageVertexBuffer.Register("VertexBuffer")
	BufferUsageIndirectBuffer.Register("IndirectBuffer")

	ImageUsageTransferSrc.Register("TransferSrc")
	ImageUsageTransferDst.Register("TransferDst")
	ImageUsageSampled.Register("Sampled")
	ImageUsageStorage.Register("Storage")
	ImageUsageColorAttachment.Register("ColorAttachment")
	ImageUsageDepthStencilAttachment.Register("DepthStencilAttachment")

	ShaderStageVertex.Register("Vertex")
	ShaderStageTessellationControl.Register("TessellationControl")
	ShaderStageTessellationEvaluation.Register("TessellationEvaluation")
	ShaderStageGeometry.Register("Geometry")
	ShaderStageFragment.Register("Fragment")
	ShaderStageCompute.Register("Compute")

	CommandPoolCreateTransient.Register("Transient")
	CommandPoolCreateResetCommandBuffer.Register("ResetCommandBuffer")

	CommandBufferUsageOneTimeSubmit.Register("OneTimeSubmit")

	DescriptorPoolCreateFreeDescriptorSet.Register("FreeDescriptorSet")
}
