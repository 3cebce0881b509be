package native

// Offset3D is a texel offset within an image
type Offset3D struct {
	X, Y, Z int
}

// Extent3D is a texel extent within an image
type Extent3D struct {
	Width, Height, Depth int
}

// Extent2D is a two-dimensional extent
type Extent2D struct {
	Width, Height int
}

// Rect2D is a two-dimensional region
type Rect2D struct {
	X, Y          int
	Width, Height int
}

// Viewport is a viewport transform
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// ClearValue holds either a color or depth-stencil clear value
type ClearValue struct {
	Color   [4]float32
	Depth   float32
	Stencil uint32
}

type ClearAttachment struct {
	Aspect          ImageAspectFlags
	ColorAttachment int
	Value           ClearValue
}

type ClearRect struct {
	Rect           Rect2D
	BaseArrayLayer int
	LayerCount     int
}

type ImageSubresourceRange struct {
	Aspect         ImageAspectFlags
	BaseMipLevel   int
	LevelCount     int
	BaseArrayLayer int
	LayerCount     int
}

type ImageSubresourceLayers struct {
	Aspect         ImageAspectFlags
	MipLevel       int
	BaseArrayLayer int
	LayerCount     int
}

type ImageSubresource struct {
	Aspect     ImageAspectFlags
	MipLevel   int
	ArrayLayer int
}

// SubresourceLayout is the memory layout of a single subresource of a linear image
type SubresourceLayout struct {
	Offset     int
	Size       int
	RowPitch   int
	ArrayPitch int
	DepthPitch int
}

type BufferCopy struct {
	SrcOffset int
	DstOffset int
	Size      int
}

type ImageCopy struct {
	SrcSubresource ImageSubresourceLayers
	SrcOffset      Offset3D
	DstSubresource ImageSubresourceLayers
	DstOffset      Offset3D
	Extent         Extent3D
}

type BufferImageCopy struct {
	BufferOffset      int
	BufferRowLength   int
	BufferImageHeight int
	ImageSubresource  ImageSubresourceLayers
	ImageOffset       Offset3D
	ImageExtent       Extent3D
}

type ImageMemoryBarrier struct {
	SrcAccessMask AccessFlags
	DstAccessMask AccessFlags
	OldLayout     ImageLayout
	NewLayout     ImageLayout
	Image         Image
	Range         ImageSubresourceRange
}

type BufferCreateInfo struct {
	Size  int
	Usage BufferUsageFlags
}

type ImageCreateInfo struct {
	Type           ImageType
	Format         Format
	Extent         Extent3D
	MipLevels      int
	ArrayLayers    int
	Samples        int
	Usage          ImageUsageFlags
	CubeCompatible bool
	InitialLayout  ImageLayout
}

type ImageViewCreateInfo struct {
	Image    Image
	ViewType ImageViewType
	Format   Format
	Range    ImageSubresourceRange
}

type SamplerCreateInfo struct {
	MagFilter        Filter
	MinFilter        Filter
	MipmapMode       SamplerMipmapMode
	AddressModeU     SamplerAddressMode
	AddressModeV     SamplerAddressMode
	AddressModeW     SamplerAddressMode
	MipLodBias       float32
	AnisotropyEnable bool
	MaxAnisotropy    float32
	CompareEnable    bool
	CompareOp        CompareOp
	MinLod           float32
	MaxLod           float32
	BorderColor      BorderColor
}

type AttachmentDescription struct {
	Format         Format
	Samples        int
	LoadOp         AttachmentLoadOp
	StoreOp        AttachmentStoreOp
	StencilLoadOp  AttachmentLoadOp
	StencilStoreOp AttachmentStoreOp
	InitialLayout  ImageLayout
	FinalLayout    ImageLayout
}

// RenderPassCreateInfo describes a single-subpass render pass
type RenderPassCreateInfo struct {
	ColorAttachments []AttachmentDescription
	DepthAttachment  *AttachmentDescription
}

type FramebufferCreateInfo struct {
	RenderPass  RenderPass
	Attachments []ImageView
	Width       int
	Height      int
	Layers      int
}

type RenderPassBeginInfo struct {
	RenderPass  RenderPass
	Framebuffer Framebuffer
	RenderArea  Rect2D
	ClearValues []ClearValue
}

type CommandPoolCreateInfo struct {
	Flags            CommandPoolCreateFlags
	QueueFamilyIndex int
}

type DescriptorPoolSize struct {
	Type  DescriptorType
	Count int
}

type DescriptorPoolCreateInfo struct {
	Flags     DescriptorPoolCreateFlags
	MaxSets   int
	PoolSizes []DescriptorPoolSize
}

type DescriptorSetLayoutBinding struct {
	Binding         int
	DescriptorType  DescriptorType
	DescriptorCount int
	StageFlags      ShaderStageFlags
}

type DescriptorBufferInfo struct {
	Buffer Buffer
	Offset int
	Range  int
}

type DescriptorImageInfo struct {
	Sampler     Sampler
	ImageView   ImageView
	ImageLayout ImageLayout
}

// WriteDescriptorSet updates a single binding. Exactly one of BufferInfo and ImageInfo is set.
type WriteDescriptorSet struct {
	DstSet         DescriptorSet
	DstBinding     int
	DescriptorType DescriptorType
	BufferInfo     *DescriptorBufferInfo
	ImageInfo      *DescriptorImageInfo
}

type PipelineLayoutCreateInfo struct {
	SetLayouts []DescriptorSetLayout
}

type PipelineShaderStage struct {
	Stage      ShaderStageFlags
	Module     ShaderModule
	EntryPoint string
}

// PipelineCreateInfo carries the pieces of pipeline state the backend tracks. Fixed-function state
// is opaque to the backend and passed through in FixedFunctionState.
type PipelineCreateInfo struct {
	BindPoint          PipelineBindPoint
	Layout             PipelineLayout
	RenderPass         RenderPass
	Stages             []PipelineShaderStage
	DynamicViewport    bool
	DynamicScissor     bool
	FixedFunctionState any
}

type SubmitInfo struct {
	WaitDstStageMask PipelineStageFlags
	CommandBuffers   []CommandBuffer
}

type SurfaceCapabilities struct {
	MinImageCount  int
	MaxImageCount  int
	CurrentExtent  Extent2D
	MinImageExtent Extent2D
	MaxImageExtent Extent2D
}

type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

type SwapchainCreateInfo struct {
	Surface       Surface
	MinImageCount int
	ImageFormat   Format
	ColorSpace    ColorSpace
	ImageExtent   Extent2D
	ImageUsage    ImageUsageFlags
	PresentMode   PresentMode
	Clipped       bool
	OldSwapchain  Swapchain
}

// DeviceInfo describes the logical device the driver was opened against
type DeviceInfo struct {
	GraphicsQueue            Queue
	GraphicsQueueFamilyIndex int
	PresentQueue             Queue
	PresentQueueFamilyIndex  int
	Extensions               []string
}
