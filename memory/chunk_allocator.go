package memory

import (
	"context"
	"sort"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gfx/memutils"
	"github.com/vkngwrapper/gfx/native"
	"golang.org/x/exp/slog"
)

// ChunkAllocator owns a single native memory allocation and carves it into Blocks with a first-fit
// free list. Freed blocks are appended to the free list as-is and are never merged with their
// neighbors, so a chunk can fragment over its lifetime.
//
// ChunkAllocator is not synchronized; the owning Manager serializes access.
type ChunkAllocator struct {
	logger           *slog.Logger
	driver           native.MemoryDriver
	memoryTypeIndex  int
	persistentMapped bool

	memory        native.DeviceMemory
	mappedPointer unsafe.Pointer
	size          int

	allocatedBytes int
	freeBlocks     []Block
	outstanding    *swiss.Map[int, Block]
}

// Init allocates the chunk's native memory and, for persistently mapped chunks, maps all of it
func (a *ChunkAllocator) Init(logger *slog.Logger, driver native.MemoryDriver, memoryTypeIndex int, persistentMapped bool, size int) (common.VkResult, error) {
	if a.memory != 0 {
		panic("attempting to initialize a chunk allocator that is already in use")
	}
	if size <= 0 {
		return core1_0.VKErrorUnknown, errors.Newf("chunk size must be positive, but was %d", size)
	}

	memory, res, err := driver.AllocateMemory(core1_0.MemoryAllocateInfo{
		AllocationSize:  size,
		MemoryTypeIndex: memoryTypeIndex,
	})
	if err != nil {
		return res, err
	}

	var mapped unsafe.Pointer
	if persistentMapped {
		mapped, res, err = driver.MapMemory(memory, 0, size)
		if err != nil {
			driver.FreeMemory(memory)
			return res, err
		}
	}

	a.logger = logger
	a.driver = driver
	a.memoryTypeIndex = memoryTypeIndex
	a.persistentMapped = persistentMapped
	a.memory = memory
	a.mappedPointer = mapped
	a.size = size
	a.allocatedBytes = 0
	a.outstanding = swiss.NewMap[int, Block](42)
	a.freeBlocks = append(a.freeBlocks[:0], a.newBlock(0, size))

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "ChunkAllocator::Init",
		slog.Int("MemoryTypeIndex", memoryTypeIndex),
		slog.Bool("PersistentMapped", persistentMapped),
		slog.Int("Size", size))

	return core1_0.VKSuccess, nil
}

func (a *ChunkAllocator) newBlock(offset, size int) Block {
	return Block{
		MemoryTypeIndex:   a.memoryTypeIndex,
		Memory:            a.memory,
		BaseMappedPointer: a.mappedPointer,
		Offset:            offset,
		Size:              size,
	}
}

// Allocate returns the first free block that can hold size bytes at the requested alignment. Alignment
// must be a power of two. The alignment padding in front of the block and the unused tail behind it
// are both returned to the free list. The second return value is false if no free block is large enough.
func (a *ChunkAllocator) Allocate(size int, alignment uint) (Block, bool) {
	if size <= 0 {
		panic("attempting to allocate a block with a non-positive size")
	}
	memutils.DebugCheckPow2(alignment, "alignment")

	for i := 0; i < len(a.freeBlocks); i++ {
		freeBlock := a.freeBlocks[i]

		padding := memutils.AlignmentPadding(freeBlock.Offset, alignment)
		if freeBlock.Size <= padding {
			continue
		}

		usableSize := freeBlock.Size - padding
		if usableSize < size {
			continue
		}

		// Swap-remove: free list order is irrelevant
		lastIndex := len(a.freeBlocks) - 1
		a.freeBlocks[i] = a.freeBlocks[lastIndex]
		a.freeBlocks = a.freeBlocks[:lastIndex]

		if padding > 0 {
			a.freeBlocks = append(a.freeBlocks, a.newBlock(freeBlock.Offset, padding))
		}

		block := a.newBlock(freeBlock.Offset+padding, size)
		if usableSize > size {
			a.freeBlocks = append(a.freeBlocks, a.newBlock(block.End(), usableSize-size))
		}

		a.outstanding.Put(block.Offset, block)
		a.allocatedBytes += size

		memutils.DebugValidate(a)
		return block, true
	}

	return Block{}, false
}

// Free returns a block to the free list. It panics if the block was not handed out by this allocator.
func (a *ChunkAllocator) Free(block Block) {
	if block.Memory != a.memory {
		panic("attempting to free a block into a chunk allocator that does not own its memory")
	}

	outstanding, ok := a.outstanding.Get(block.Offset)
	if !ok || outstanding.Size != block.Size {
		panic(errors.Newf("attempting to free a block at offset %d that is not outstanding", block.Offset))
	}

	a.outstanding.Delete(block.Offset)
	a.allocatedBytes -= block.Size
	a.freeBlocks = append(a.freeBlocks, outstanding)

	memutils.DebugValidate(a)
}

// Owns returns true if the block was carved from this allocator's chunk
func (a *ChunkAllocator) Owns(block Block) bool {
	return block.Memory == a.memory
}

func (a *ChunkAllocator) Size() int {
	return a.size
}

func (a *ChunkAllocator) AllocatedBytes() int {
	return a.allocatedBytes
}

func (a *ChunkAllocator) OutstandingCount() int {
	return a.outstanding.Count()
}

// FreeBlocks returns a copy of the current free list
func (a *ChunkAllocator) FreeBlocks() []Block {
	blocks := make([]Block, len(a.freeBlocks))
	copy(blocks, a.freeBlocks)
	return blocks
}

// AddDetailedStatistics adds this chunk and its outstanding and free ranges to stats
func (a *ChunkAllocator) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	stats.BlockCount++
	stats.BlockBytes += a.size

	a.outstanding.Iter(func(offset int, block Block) bool {
		stats.AddAllocation(block.Size)
		return false
	})

	for _, freeBlock := range a.freeBlocks {
		stats.AddUnusedRange(freeBlock.Size)
	}
}

// Validate verifies that the outstanding blocks and the free list exactly tile the chunk
func (a *ChunkAllocator) Validate() error {
	if a.memory == 0 {
		return errors.New("chunk allocator has no backing memory")
	}

	ranges := make([]Block, 0, len(a.freeBlocks)+a.outstanding.Count())
	ranges = append(ranges, a.freeBlocks...)

	outstandingBytes := 0
	a.outstanding.Iter(func(offset int, block Block) bool {
		outstandingBytes += block.Size
		ranges = append(ranges, block)
		return false
	})

	if outstandingBytes != a.allocatedBytes {
		return errors.Newf("allocated bytes is %d, but outstanding blocks total %d bytes", a.allocatedBytes, outstandingBytes)
	}

	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].Offset < ranges[j].Offset
	})

	nextOffset := 0
	for _, r := range ranges {
		if r.Size <= 0 {
			return errors.Newf("block at offset %d has non-positive size %d", r.Offset, r.Size)
		}
		if r.Offset != nextOffset {
			return errors.Newf("expected a block at offset %d but found one at %d", nextOffset, r.Offset)
		}
		nextOffset = r.End()
	}

	if nextOffset != a.size {
		return errors.Newf("blocks end at offset %d, but the chunk is %d bytes", nextOffset, a.size)
	}

	return nil
}

// Destroy unmaps and frees the chunk's native memory. Blocks still outstanding are logged and
// an error is returned, but the memory is freed regardless.
func (a *ChunkAllocator) Destroy() error {
	if a.memory == 0 {
		panic("attempting to destroy a chunk allocator that has no backing memory")
	}

	var err error
	if a.outstanding.Count() > 0 {
		a.outstanding.Iter(func(offset int, block Block) bool {
			a.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED MEMORY] unfreed block",
				slog.Int("MemoryTypeIndex", a.memoryTypeIndex),
				slog.Int("offset", offset),
				slog.Int("size", block.Size),
			)
			return false
		})

		err = errors.Newf("%d blocks were not freed before the destruction of this chunk", a.outstanding.Count())
	}

	if a.persistentMapped {
		a.driver.UnmapMemory(a.memory)
	}
	a.driver.FreeMemory(a.memory)

	a.memory = 0
	a.mappedPointer = nil
	a.freeBlocks = nil
	a.outstanding = nil

	return err
}
