package native

import (
	"math"
	"time"
	"unsafe"

	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

//go:generate mockgen -destination mocks/mocks.go -package mocks github.com/vkngwrapper/gfx/native MemoryDriver,DescriptorDriver

// NoTimeout can be passed to blocking driver calls to wait indefinitely
const NoTimeout = time.Duration(math.MaxInt64)

// MemoryDriver allocates and maps native device memory
type MemoryDriver interface {
	MemoryProperties() *core1_0.PhysicalDeviceMemoryProperties
	AllocateMemory(info core1_0.MemoryAllocateInfo) (DeviceMemory, common.VkResult, error)
	FreeMemory(memory DeviceMemory)
	MapMemory(memory DeviceMemory, offset int, size int) (unsafe.Pointer, common.VkResult, error)
	UnmapMemory(memory DeviceMemory)
}

// ResourceDriver creates buffers, images, views and samplers
type ResourceDriver interface {
	CreateBuffer(info BufferCreateInfo) (Buffer, common.VkResult, error)
	DestroyBuffer(buffer Buffer)
	BufferMemoryRequirements(buffer Buffer) core1_0.MemoryRequirements
	BindBufferMemory(buffer Buffer, memory DeviceMemory, offset int) (common.VkResult, error)

	CreateImage(info ImageCreateInfo) (Image, common.VkResult, error)
	DestroyImage(image Image)
	ImageMemoryRequirements(image Image) core1_0.MemoryRequirements
	BindImageMemory(image Image, memory DeviceMemory, offset int) (common.VkResult, error)
	ImageSubresourceLayout(image Image, subresource ImageSubresource) SubresourceLayout

	CreateImageView(info ImageViewCreateInfo) (ImageView, common.VkResult, error)
	DestroyImageView(view ImageView)

	CreateSampler(info SamplerCreateInfo) (Sampler, common.VkResult, error)
	DestroySampler(sampler Sampler)
}

// PipelineDriver creates render passes, framebuffers, shader modules and pipelines
type PipelineDriver interface {
	CreateRenderPass(info RenderPassCreateInfo) (RenderPass, common.VkResult, error)
	DestroyRenderPass(renderPass RenderPass)
	CreateFramebuffer(info FramebufferCreateInfo) (Framebuffer, common.VkResult, error)
	DestroyFramebuffer(framebuffer Framebuffer)

	CreateShaderModule(code []byte) (ShaderModule, common.VkResult, error)
	DestroyShaderModule(module ShaderModule)

	CreatePipelineLayout(info PipelineLayoutCreateInfo) (PipelineLayout, common.VkResult, error)
	DestroyPipelineLayout(layout PipelineLayout)
	CreatePipeline(info PipelineCreateInfo) (Pipeline, common.VkResult, error)
	DestroyPipeline(pipeline Pipeline)
}

// DescriptorDriver manages descriptor pools, set layouts and sets
type DescriptorDriver interface {
	CreateDescriptorPool(info DescriptorPoolCreateInfo) (DescriptorPool, common.VkResult, error)
	DestroyDescriptorPool(pool DescriptorPool)
	AllocateDescriptorSet(pool DescriptorPool, layout DescriptorSetLayout) (DescriptorSet, common.VkResult, error)
	FreeDescriptorSet(pool DescriptorPool, set DescriptorSet) (common.VkResult, error)

	CreateDescriptorSetLayout(bindings []DescriptorSetLayoutBinding) (DescriptorSetLayout, common.VkResult, error)
	DestroyDescriptorSetLayout(layout DescriptorSetLayout)
	UpdateDescriptorSets(writes []WriteDescriptorSet)
}

// CommandDriver manages command pools and records commands into command buffers
type CommandDriver interface {
	CreateCommandPool(info CommandPoolCreateInfo) (CommandPool, common.VkResult, error)
	DestroyCommandPool(pool CommandPool)
	AllocateCommandBuffer(pool CommandPool) (CommandBuffer, common.VkResult, error)
	FreeCommandBuffer(pool CommandPool, buffer CommandBuffer)
	BeginCommandBuffer(buffer CommandBuffer, flags CommandBufferUsageFlags) (common.VkResult, error)
	EndCommandBuffer(buffer CommandBuffer) (common.VkResult, error)

	CmdBeginRenderPass(buffer CommandBuffer, info RenderPassBeginInfo)
	CmdEndRenderPass(buffer CommandBuffer)
	CmdPipelineBarrier(buffer CommandBuffer, srcStages, dstStages PipelineStageFlags, imageBarriers []ImageMemoryBarrier)

	CmdBindPipeline(buffer CommandBuffer, bindPoint PipelineBindPoint, pipeline Pipeline)
	CmdBindDescriptorSets(buffer CommandBuffer, bindPoint PipelineBindPoint, layout PipelineLayout, firstSet int, sets []DescriptorSet)
	CmdBindVertexBuffer(buffer CommandBuffer, binding int, vertexBuffer Buffer, offset int)
	CmdBindIndexBuffer(buffer CommandBuffer, indexBuffer Buffer, offset int, indexType IndexType)
	CmdSetViewport(buffer CommandBuffer, index int, viewport Viewport)
	CmdSetScissor(buffer CommandBuffer, index int, scissor Rect2D)

	CmdDraw(buffer CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance int)
	CmdDrawIndexed(buffer CommandBuffer, indexCount, instanceCount, firstIndex, vertexOffset, firstInstance int)
	CmdDispatch(buffer CommandBuffer, groupCountX, groupCountY, groupCountZ int)

	CmdClearAttachments(buffer CommandBuffer, attachments []ClearAttachment, rects []ClearRect)
	CmdClearColorImage(buffer CommandBuffer, image Image, layout ImageLayout, color [4]float32, ranges []ImageSubresourceRange)
	CmdClearDepthStencilImage(buffer CommandBuffer, image Image, layout ImageLayout, depth float32, stencil uint32, ranges []ImageSubresourceRange)

	CmdCopyBuffer(buffer CommandBuffer, src, dst Buffer, regions []BufferCopy)
	CmdCopyImage(buffer CommandBuffer, src Image, srcLayout ImageLayout, dst Image, dstLayout ImageLayout, regions []ImageCopy)
	CmdCopyBufferToImage(buffer CommandBuffer, src Buffer, dst Image, dstLayout ImageLayout, regions []BufferImageCopy)
	CmdCopyImageToBuffer(buffer CommandBuffer, src Image, srcLayout ImageLayout, dst Buffer, regions []BufferImageCopy)
}

// SyncDriver manages fences and queue submission
type SyncDriver interface {
	CreateFence(signaled bool) (Fence, common.VkResult, error)
	DestroyFence(fence Fence)
	// GetFenceStatus does not block: it reports whether the fence is currently signaled
	GetFenceStatus(fence Fence) (bool, common.VkResult, error)
	WaitForFences(fences []Fence, waitAll bool, timeout time.Duration) (common.VkResult, error)
	ResetFences(fences []Fence) (common.VkResult, error)

	// QueueSubmit submits work to the queue and signals fence, which may be null, once all of it completes.
	// An empty submits slice only signals the fence.
	QueueSubmit(queue Queue, submits []SubmitInfo, fence Fence) (common.VkResult, error)
	QueueWaitIdle(queue Queue) (common.VkResult, error)
}

// PresentDriver manages surfaces and swapchains
type PresentDriver interface {
	SurfaceCapabilities(surface Surface) (SurfaceCapabilities, common.VkResult, error)
	SurfaceFormats(surface Surface) ([]SurfaceFormat, common.VkResult, error)
	SurfacePresentModes(surface Surface) ([]PresentMode, common.VkResult, error)

	CreateSwapchain(info SwapchainCreateInfo) (Swapchain, common.VkResult, error)
	DestroySwapchain(swapchain Swapchain)
	SwapchainImages(swapchain Swapchain) ([]Image, common.VkResult, error)
	AcquireNextImage(swapchain Swapchain, timeout time.Duration, fence Fence) (int, common.VkResult, error)
	QueuePresent(queue Queue, swapchain Swapchain, imageIndex int) (common.VkResult, error)
}

// Driver is the complete native device surface consumed by the backend
type Driver interface {
	DeviceInfo() DeviceInfo

	MemoryDriver
	ResourceDriver
	PipelineDriver
	DescriptorDriver
	CommandDriver
	SyncDriver
	PresentDriver
}
