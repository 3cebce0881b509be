package memory

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gfx/memutils"
	"github.com/vkngwrapper/gfx/native"
	"golang.org/x/exp/slog"
)

// ChunkAllocatorSet is a growable list of ChunkAllocators that share a memory type and mapping mode
type ChunkAllocatorSet struct {
	logger           *slog.Logger
	driver           native.MemoryDriver
	memoryTypeIndex  int
	persistentMapped bool
	chunkSize        int

	allocators []*ChunkAllocator
}

func (s *ChunkAllocatorSet) Init(logger *slog.Logger, driver native.MemoryDriver, memoryTypeIndex int, persistentMapped bool, chunkSize int) {
	s.logger = logger
	s.driver = driver
	s.memoryTypeIndex = memoryTypeIndex
	s.persistentMapped = persistentMapped
	s.chunkSize = chunkSize
}

// Allocate tries every existing chunk in creation order and creates a new chunk if none of them
// can satisfy the request. Requests that could never fit in a standard chunk get a chunk of their own.
func (s *ChunkAllocatorSet) Allocate(size int, alignment uint) (Block, common.VkResult, error) {
	for _, allocator := range s.allocators {
		block, ok := allocator.Allocate(size, alignment)
		if ok {
			return block, core1_0.VKSuccess, nil
		}
	}

	chunkSize := s.chunkSize
	if size > chunkSize {
		chunkSize = memutils.AlignUp(size, alignment)
	}

	allocator := &ChunkAllocator{}
	res, err := allocator.Init(s.logger, s.driver, s.memoryTypeIndex, s.persistentMapped, chunkSize)
	if err != nil {
		return Block{}, res, errors.Wrapf(err, "failed to allocate a %d-byte chunk from memory type %d", chunkSize, s.memoryTypeIndex)
	}
	s.allocators = append(s.allocators, allocator)

	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "    Created new chunk",
		slog.Int("MemoryTypeIndex", s.memoryTypeIndex),
		slog.Int("ChunkCount", len(s.allocators)))

	block, ok := allocator.Allocate(size, alignment)
	if !ok {
		panic(errors.Newf("attempting to allocate %d bytes from a fresh %d-byte chunk failed", size, chunkSize))
	}

	return block, core1_0.VKSuccess, nil
}

// Free returns a block to the chunk that owns its memory. It panics if no chunk in this set owns it.
func (s *ChunkAllocatorSet) Free(block Block) {
	for _, allocator := range s.allocators {
		if allocator.Owns(block) {
			allocator.Free(block)
			return
		}
	}

	panic(errors.Newf("attempting to free a block whose memory does not belong to memory type %d", s.memoryTypeIndex))
}

// ChunkCount is the number of native allocations owned by this set
func (s *ChunkAllocatorSet) ChunkCount() int {
	return len(s.allocators)
}

func (s *ChunkAllocatorSet) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	for _, allocator := range s.allocators {
		allocator.AddDetailedStatistics(stats)
	}
}

func (s *ChunkAllocatorSet) PrintDetailedMap(json *jwriter.ObjectState) {
	chunks := json.Name("Chunks").Array()
	defer chunks.End()

	for _, allocator := range s.allocators {
		obj := chunks.Object()

		var stats memutils.DetailedStatistics
		stats.Clear()
		allocator.AddDetailedStatistics(&stats)

		obj.Name("Size").Int(allocator.Size())
		obj.Name("FreeBlockCount").Int(len(allocator.freeBlocks))
		stats.PrintJson(&obj)

		obj.End()
	}
}

// Validate validates every chunk in the set
func (s *ChunkAllocatorSet) Validate() error {
	for index, allocator := range s.allocators {
		err := allocator.Validate()
		if err != nil {
			return errors.Wrapf(err, "chunk %d of memory type %d is invalid", index, s.memoryTypeIndex)
		}
	}

	return nil
}

// Destroy frees every chunk. All chunks are freed even if some report unreleased blocks.
func (s *ChunkAllocatorSet) Destroy() error {
	var err error
	for _, allocator := range s.allocators {
		err = errors.CombineErrors(err, allocator.Destroy())
	}
	s.allocators = nil

	return err
}
