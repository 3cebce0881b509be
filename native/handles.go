package native

// Opaque native object handles. The zero value of every handle type is the null handle.
type (
	Queue               uint64
	DeviceMemory        uint64
	Buffer              uint64
	Image               uint64
	ImageView           uint64
	Sampler             uint64
	CommandPool         uint64
	CommandBuffer       uint64
	Fence               uint64
	DescriptorPool      uint64
	DescriptorSet       uint64
	DescriptorSetLayout uint64
	RenderPass          uint64
	Framebuffer         uint64
	ShaderModule        uint64
	Pipeline            uint64
	PipelineLayout      uint64
	Surface             uint64
	Swapchain           uint64
)
