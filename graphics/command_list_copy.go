package graphics

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfx/native"
)

// UpdateBuffer records an upload of data into buffer at offset. The data is copied into a staging
// buffer immediately, so the caller may reuse data as soon as UpdateBuffer returns.
func (c *CommandList) UpdateBuffer(buffer *DeviceBuffer, offset int, data []byte) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}
	if offset < 0 || offset+len(data) > buffer.size {
		return errors.Wrapf(ErrInvalidOperation, "an update of %d bytes at offset %d overruns a %d-byte buffer",
			len(data), offset, buffer.size)
	}
	if len(data) == 0 {
		return nil
	}

	staging, err := c.getFreeStagingBuffer(len(data))
	if err != nil {
		return err
	}
	copy(staging.mappedBytes(), data)
	c.stagingBuffers = append(c.stagingBuffers, staging)

	c.ensureNoRenderPass()
	c.device.driver.CmdCopyBuffer(c.commandBuffer, staging.buffer, buffer.buffer, []native.BufferCopy{
		{DstOffset: offset, Size: len(data)},
	})
	c.bufferWriteBarrier()

	return nil
}

// CopyBuffer records a copy of size bytes between two buffers
func (c *CommandList) CopyBuffer(source *DeviceBuffer, sourceOffset int, destination *DeviceBuffer, destinationOffset int, size int) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}
	if sourceOffset < 0 || sourceOffset+size > source.size {
		return errors.Wrapf(ErrInvalidOperation, "a copy of %d bytes at offset %d overruns the %d-byte source buffer",
			size, sourceOffset, source.size)
	}
	if destinationOffset < 0 || destinationOffset+size > destination.size {
		return errors.Wrapf(ErrInvalidOperation, "a copy of %d bytes at offset %d overruns the %d-byte destination buffer",
			size, destinationOffset, destination.size)
	}

	c.ensureNoRenderPass()
	c.device.driver.CmdCopyBuffer(c.commandBuffer, source.buffer, destination.buffer, []native.BufferCopy{
		{SrcOffset: sourceOffset, DstOffset: destinationOffset, Size: size},
	})
	c.bufferWriteBarrier()

	return nil
}

// bufferWriteBarrier makes transfer writes visible to every later stage that reads buffers
func (c *CommandList) bufferWriteBarrier() {
	c.device.driver.CmdPipelineBarrier(c.commandBuffer,
		native.PipelineStageTransfer,
		native.PipelineStageVertexInput|native.PipelineStageVertexShader|native.PipelineStageFragmentShader|native.PipelineStageComputeShader,
		nil)
}

// CopyTexture records a copy of a width x height x depth region, across layerCount array layers, between
// two textures. Either texture may be a staging texture.
func (c *CommandList) CopyTexture(source, destination TextureRegion, width, height, depth, layerCount int) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}
	if source.Texture == nil || destination.Texture == nil {
		return errors.Wrap(ErrInvalidOperation, "both textures of a copy must be set")
	}
	if source.Texture.format != destination.Texture.format {
		return errors.Wrapf(ErrInvalidOperation, "cannot copy between textures of formats %s and %s",
			source.Texture.format, destination.Texture.format)
	}

	c.ensureNoRenderPass()
	copyTextureCore(c.device.driver, c.commandBuffer, source, destination, width, height, depth, layerCount)
	return nil
}
