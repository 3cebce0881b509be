package nativetest

import (
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gfx/native"
)

func (d *Driver) CreateCommandPool(info native.CommandPoolCreateInfo) (native.CommandPool, common.VkResult, error) {
	handle, res, err := d.createObject("CommandPool", info)
	return native.CommandPool(handle), res, err
}

func (d *Driver) DestroyCommandPool(pool native.CommandPool) {
	d.destroyObject("CommandPool", uint64(pool))
}

func (d *Driver) AllocateCommandBuffer(pool native.CommandPool) (native.CommandBuffer, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("AllocateCommandBuffer", pool)
	if res, err := d.failure("AllocateCommandBuffer"); err != nil {
		return 0, res, err
	}
	return native.CommandBuffer(d.create("CommandBuffer")), core1_0.VKSuccess, nil
}

func (d *Driver) FreeCommandBuffer(pool native.CommandPool, buffer native.CommandBuffer) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("FreeCommandBuffer", pool, buffer)
	d.destroy("CommandBuffer", uint64(buffer))
}

func (d *Driver) BeginCommandBuffer(buffer native.CommandBuffer, flags native.CommandBufferUsageFlags) (common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("BeginCommandBuffer", buffer, flags)
	return d.failure("BeginCommandBuffer")
}

func (d *Driver) EndCommandBuffer(buffer native.CommandBuffer) (common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("EndCommandBuffer", buffer)
	return d.failure("EndCommandBuffer")
}

func (d *Driver) recordCommand(name string, args ...any) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record(name, args...)
}

func (d *Driver) CmdBeginRenderPass(buffer native.CommandBuffer, info native.RenderPassBeginInfo) {
	d.recordCommand("CmdBeginRenderPass", buffer, info)
}

func (d *Driver) CmdEndRenderPass(buffer native.CommandBuffer) {
	d.recordCommand("CmdEndRenderPass", buffer)
}

func (d *Driver) CmdPipelineBarrier(buffer native.CommandBuffer, srcStages, dstStages native.PipelineStageFlags, imageBarriers []native.ImageMemoryBarrier) {
	d.recordCommand("CmdPipelineBarrier", buffer, srcStages, dstStages, imageBarriers)
}

func (d *Driver) CmdBindPipeline(buffer native.CommandBuffer, bindPoint native.PipelineBindPoint, pipeline native.Pipeline) {
	d.recordCommand("CmdBindPipeline", buffer, bindPoint, pipeline)
}

func (d *Driver) CmdBindDescriptorSets(buffer native.CommandBuffer, bindPoint native.PipelineBindPoint, layout native.PipelineLayout, firstSet int, sets []native.DescriptorSet) {
	setsCopy := make([]native.DescriptorSet, len(sets))
	copy(setsCopy, sets)
	d.recordCommand("CmdBindDescriptorSets", buffer, bindPoint, layout, firstSet, setsCopy)
}

func (d *Driver) CmdBindVertexBuffer(buffer native.CommandBuffer, binding int, vertexBuffer native.Buffer, offset int) {
	d.recordCommand("CmdBindVertexBuffer", buffer, binding, vertexBuffer, offset)
}

func (d *Driver) CmdBindIndexBuffer(buffer native.CommandBuffer, indexBuffer native.Buffer, offset int, indexType native.IndexType) {
	d.recordCommand("CmdBindIndexBuffer", buffer, indexBuffer, offset, indexType)
}

func (d *Driver) CmdSetViewport(buffer native.CommandBuffer, index int, viewport native.Viewport) {
	d.recordCommand("CmdSetViewport", buffer, index, viewport)
}

func (d *Driver) CmdSetScissor(buffer native.CommandBuffer, index int, scissor native.Rect2D) {
	d.recordCommand("CmdSetScissor", buffer, index, scissor)
}

func (d *Driver) CmdDraw(buffer native.CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance int) {
	d.recordCommand("CmdDraw", buffer, vertexCount, instanceCount, firstVertex, firstInstance)
}

func (d *Driver) CmdDrawIndexed(buffer native.CommandBuffer, indexCount, instanceCount, firstIndex, vertexOffset, firstInstance int) {
	d.recordCommand("CmdDrawIndexed", buffer, indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
}

func (d *Driver) CmdDispatch(buffer native.CommandBuffer, groupCountX, groupCountY, groupCountZ int) {
	d.recordCommand("CmdDispatch", buffer, groupCountX, groupCountY, groupCountZ)
}

func (d *Driver) CmdClearAttachments(buffer native.CommandBuffer, attachments []native.ClearAttachment, rects []native.ClearRect) {
	d.recordCommand("CmdClearAttachments", buffer, attachments, rects)
}

func (d *Driver) CmdClearColorImage(buffer native.CommandBuffer, image native.Image, layout native.ImageLayout, color [4]float32, ranges []native.ImageSubresourceRange) {
	d.recordCommand("CmdClearColorImage", buffer, image, layout, color, ranges)
}

func (d *Driver) CmdClearDepthStencilImage(buffer native.CommandBuffer, image native.Image, layout native.ImageLayout, depth float32, stencil uint32, ranges []native.ImageSubresourceRange) {
	d.recordCommand("CmdClearDepthStencilImage", buffer, image, layout, depth, stencil, ranges)
}

// CmdCopyBuffer is executed immediately when both buffers are bound to memory
func (d *Driver) CmdCopyBuffer(buffer native.CommandBuffer, src, dst native.Buffer, regions []native.BufferCopy) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("CmdCopyBuffer", buffer, src, dst, regions)

	srcRecord, srcOK := d.buffers[src]
	dstRecord, dstOK := d.buffers[dst]
	if !srcOK || !dstOK || srcRecord.memory == 0 || dstRecord.memory == 0 {
		return
	}

	srcBytes := d.memory[srcRecord.memory][srcRecord.offset : srcRecord.offset+srcRecord.size]
	dstBytes := d.memory[dstRecord.memory][dstRecord.offset : dstRecord.offset+dstRecord.size]
	for _, region := range regions {
		copy(dstBytes[region.DstOffset:region.DstOffset+region.Size], srcBytes[region.SrcOffset:region.SrcOffset+region.Size])
	}
}

func (d *Driver) CmdCopyImage(buffer native.CommandBuffer, src native.Image, srcLayout native.ImageLayout, dst native.Image, dstLayout native.ImageLayout, regions []native.ImageCopy) {
	d.recordCommand("CmdCopyImage", buffer, src, srcLayout, dst, dstLayout, regions)
}

func (d *Driver) CmdCopyBufferToImage(buffer native.CommandBuffer, src native.Buffer, dst native.Image, dstLayout native.ImageLayout, regions []native.BufferImageCopy) {
	d.recordCommand("CmdCopyBufferToImage", buffer, src, dst, dstLayout, regions)
}

func (d *Driver) CmdCopyImageToBuffer(buffer native.CommandBuffer, src native.Image, srcLayout native.ImageLayout, dst native.Buffer, regions []native.BufferImageCopy) {
	d.recordCommand("CmdCopyImageToBuffer", buffer, src, srcLayout, dst, regions)
}
