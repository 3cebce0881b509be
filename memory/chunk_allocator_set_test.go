package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gfx/native"
	"github.com/vkngwrapper/gfx/native/mocks"
	"go.uber.org/mock/gomock"
)

// expectChunks hands out sequential memory handles and records the size of each chunk requested
func expectChunks(driver *mocks.MockMemoryDriver, sizes *[]int) {
	next := native.DeviceMemory(1)
	driver.EXPECT().AllocateMemory(gomock.Any()).DoAndReturn(
		func(info core1_0.MemoryAllocateInfo) (native.DeviceMemory, common.VkResult, error) {
			*sizes = append(*sizes, info.AllocationSize)
			memory := next
			next++
			return memory, core1_0.VKSuccess, nil
		}).AnyTimes()
	driver.EXPECT().FreeMemory(gomock.Any()).AnyTimes()
}

func TestChunkAllocatorSetGrowth(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver := mocks.NewMockMemoryDriver(ctrl)

	var sizes []int
	expectChunks(driver, &sizes)

	set := &ChunkAllocatorSet{}
	set.Init(testLogger(), driver, 2, false, 1024)

	first, _, err := set.Allocate(600, 4)
	require.NoError(t, err)
	second, _, err := set.Allocate(600, 4)
	require.NoError(t, err)

	require.Equal(t, 2, set.ChunkCount())
	require.Equal(t, []int{1024, 1024}, sizes)
	require.NotEqual(t, first.Memory, second.Memory)
	require.Equal(t, 2, first.MemoryTypeIndex)

	// Blocks from the first chunk survive the growth
	set.Free(first)
	third, _, err := set.Allocate(300, 4)
	require.NoError(t, err)
	require.Equal(t, first.Memory, third.Memory)

	for _, allocator := range set.allocators {
		require.NoError(t, allocator.Validate())
	}

	set.Free(second)
	set.Free(third)
	require.NoError(t, set.Destroy())
}

func TestChunkAllocatorSetOversizedRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver := mocks.NewMockMemoryDriver(ctrl)

	var sizes []int
	expectChunks(driver, &sizes)

	set := &ChunkAllocatorSet{}
	set.Init(testLogger(), driver, 0, false, 1024)

	block, _, err := set.Allocate(5000, 256)
	require.NoError(t, err)
	require.Equal(t, 5000, block.Size)
	require.Equal(t, []int{5120}, sizes)

	// Standard requests still get standard chunks once the oversized chunk is full
	_, _, err = set.Allocate(200, 1)
	require.NoError(t, err)
	require.Equal(t, []int{5120}, sizes)

	_, _, err = set.Allocate(1000, 1)
	require.NoError(t, err)
	require.Equal(t, []int{5120, 1024}, sizes)

	require.Error(t, set.Destroy())
}

func TestChunkAllocatorSetFreeForeignBlock(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver := mocks.NewMockMemoryDriver(ctrl)

	var sizes []int
	expectChunks(driver, &sizes)

	set := &ChunkAllocatorSet{}
	set.Init(testLogger(), driver, 0, false, 1024)

	_, _, err := set.Allocate(10, 1)
	require.NoError(t, err)

	require.Panics(t, func() {
		set.Free(Block{Memory: native.DeviceMemory(500), Size: 10})
	})
}

func TestChunkAllocatorSetChunkFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver := mocks.NewMockMemoryDriver(ctrl)
	driver.EXPECT().AllocateMemory(gomock.Any()).Return(native.DeviceMemory(0), core1_0.VKErrorOutOfDeviceMemory, core1_0.VKErrorOutOfDeviceMemory.ToError())

	set := &ChunkAllocatorSet{}
	set.Init(testLogger(), driver, 0, false, 1024)

	_, res, err := set.Allocate(10, 1)
	require.Error(t, err)
	require.Equal(t, common.VkResult(core1_0.VKErrorOutOfDeviceMemory), res)
	require.Equal(t, 0, set.ChunkCount())
}
