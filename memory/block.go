package memory

import (
	"unsafe"

	"github.com/vkngwrapper/gfx/native"
)

// Block is a byte range of a chunk of device memory, handed to exactly one resource at a time. The
// chunk itself is owned by the ChunkAllocator that produced the block.
type Block struct {
	MemoryTypeIndex int
	Memory          native.DeviceMemory
	// BaseMappedPointer is the host address of the start of the owning chunk, or nil if the chunk
	// is not persistently mapped
	BaseMappedPointer unsafe.Pointer
	Offset            int
	Size              int
}

// IsPersistentMapped returns true if the block's memory can be written from the host
func (b Block) IsPersistentMapped() bool {
	return b.BaseMappedPointer != nil
}

// MappedPointer returns the host address of the start of the block, or nil if the block is not mapped
func (b Block) MappedPointer() unsafe.Pointer {
	if b.BaseMappedPointer == nil {
		return nil
	}

	return unsafe.Add(b.BaseMappedPointer, b.Offset)
}

// MappedBytes returns the block's mapped memory as a byte slice, or nil if the block is not mapped
func (b Block) MappedBytes() []byte {
	ptr := b.MappedPointer()
	if ptr == nil || b.Size == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(ptr), b.Size)
}

// End is the offset one past the last byte of the block
func (b Block) End() int {
	return b.Offset + b.Size
}
