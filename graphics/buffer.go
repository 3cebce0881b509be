package graphics

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gfx/internal/arena"
	"github.com/vkngwrapper/gfx/memory"
	"github.com/vkngwrapper/gfx/native"
)

// BufferUsage describes how a DeviceBuffer will be used
type BufferUsage int32

var bufferUsageMapping = common.NewFlagStringMapping[BufferUsage]()

func (f BufferUsage) Register(str string) {
	bufferUsageMapping.Register(f, str)
}
func (f BufferUsage) String() string {
	return bufferUsageMapping.FlagsToString(f)
}

const (
	BufferUsageVertexBuffer BufferUsage = 1 << iota
	BufferUsageIndexBuffer
	BufferUsageUniformBuffer
	BufferUsageStructuredBufferReadOnly
	BufferUsageStructuredBufferReadWrite
	BufferUsageIndirectBuffer
	// BufferUsageDynamic places the buffer in persistently mapped host memory, so updates are plain
	// memory writes
	BufferUsageDynamic
	// BufferUsageStaging places the buffer in persistently mapped host memory for use as a copy source
	// or destination
	BufferUsageStaging
)

func init() {
	BufferUsageVertexBuffer.Register("VertexBuffer")
	BufferUsageIndexBuffer.Register("IndexBuffer")
	BufferUsageUniformBuffer.Register("UniformBuffer")
	BufferUsageStructuredBufferReadOnly.Register("StructuredBufferReadOnly")
	BufferUsageStructuredBufferReadWrite.Register("StructuredBufferReadWrite")
	BufferUsageIndirectBuffer.Register("IndirectBuffer")
	BufferUsageDynamic.Register("Dynamic")
	BufferUsageStaging.Register("Staging")
}

// BufferDescription describes a DeviceBuffer to create
type BufferDescription struct {
	SizeInBytes int
	Usage       BufferUsage
	// StructureByteStride is the size of one element of a structured buffer
	StructureByteStride int
}

// DeviceBuffer is a native buffer bound to a block from the device's memory manager
type DeviceBuffer struct {
	device *GraphicsDevice
	handle arena.Handle

	buffer native.Buffer
	block  memory.Block
	size   int
	usage  BufferUsage
	stride int
}

// CreateBuffer creates a DeviceBuffer. Dynamic and staging buffers are persistently mapped; all other
// buffers live in device-local memory and are written through staging buffers.
func (d *GraphicsDevice) CreateBuffer(description BufferDescription) (*DeviceBuffer, error) {
	d.logger.Debug("GraphicsDevice::CreateBuffer")

	if description.SizeInBytes <= 0 {
		return nil, errors.Wrapf(ErrInvalidOperation, "buffer size must be positive, but was %d", description.SizeInBytes)
	}

	buffer, err := d.newDeviceBuffer(description)
	if err != nil {
		return nil, err
	}

	buffer.handle = d.track(buffer)
	return buffer, nil
}

func (d *GraphicsDevice) newDeviceBuffer(description BufferDescription) (*DeviceBuffer, error) {
	usage := native.BufferUsageTransferSrc | native.BufferUsageTransferDst
	if description.Usage&BufferUsageVertexBuffer != 0 {
		usage |= native.BufferUsageVertexBuffer
	}
	if description.Usage&BufferUsageIndexBuffer != 0 {
		usage |= native.BufferUsageIndexBuffer
	}
	if description.Usage&BufferUsageUniformBuffer != 0 {
		usage |= native.BufferUsageUniformBuffer
	}
	if description.Usage&(BufferUsageStructuredBufferReadOnly|BufferUsageStructuredBufferReadWrite) != 0 {
		usage |= native.BufferUsageStorageBuffer
	}
	if description.Usage&BufferUsageIndirectBuffer != 0 {
		usage |= native.BufferUsageIndirectBuffer
	}

	nativeBuffer, res, err := d.driver.CreateBuffer(native.BufferCreateInfo{
		Size:  description.SizeInBytes,
		Usage: usage,
	})
	if err != nil {
		return nil, nativeError(res, err, "create a buffer")
	}

	hostVisible := description.Usage&(BufferUsageDynamic|BufferUsageStaging) != 0
	requiredFlags := core1_0.MemoryPropertyDeviceLocal
	if hostVisible {
		requiredFlags = core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent
	}

	requirements := d.driver.BufferMemoryRequirements(nativeBuffer)
	block := d.memory.Allocate(requirements.MemoryTypeBits, requiredFlags, hostVisible, requirements.Size, uint(requirements.Alignment))

	res, err = d.driver.BindBufferMemory(nativeBuffer, block.Memory, block.Offset)
	if err != nil {
		d.memory.Free(block)
		d.driver.DestroyBuffer(nativeBuffer)
		return nil, nativeError(res, err, "bind buffer memory")
	}

	return &DeviceBuffer{
		device: d,
		buffer: nativeBuffer,
		block:  block,
		size:   description.SizeInBytes,
		usage:  description.Usage,
		stride: description.StructureByteStride,
	}, nil
}

func (b *DeviceBuffer) SizeInBytes() int {
	return b.size
}

func (b *DeviceBuffer) Usage() BufferUsage {
	return b.usage
}

func (b *DeviceBuffer) StructureByteStride() int {
	return b.stride
}

// Native returns the underlying native buffer
func (b *DeviceBuffer) Native() native.Buffer {
	return b.buffer
}

// mappedBytes returns the buffer's host-visible memory, or nil if the buffer is not mapped
func (b *DeviceBuffer) mappedBytes() []byte {
	bytes := b.block.MappedBytes()
	if bytes == nil {
		return nil
	}
	return bytes[:b.size]
}

// Destroy destroys the native buffer and returns its memory block. The buffer must not be referenced by
// any in-flight submission.
func (b *DeviceBuffer) Destroy() error {
	b.device.logger.Debug("DeviceBuffer::Destroy")

	if !b.device.untrack(b.handle) {
		panic("attempting to destroy a buffer that has already been destroyed")
	}

	return b.release()
}

func (b *DeviceBuffer) resourceKind() string {
	return kindBuffer
}

func (b *DeviceBuffer) release() error {
	b.device.driver.DestroyBuffer(b.buffer)
	b.device.memory.Free(b.block)
	return nil
}
