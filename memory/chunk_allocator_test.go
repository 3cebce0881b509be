package memory

import (
	"io"
	"math/rand"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gfx/native"
	"github.com/vkngwrapper/gfx/native/mocks"
	"go.uber.org/mock/gomock"
	"golang.org/x/exp/slog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard))
}

func readyChunkAllocator(t *testing.T, ctrl *gomock.Controller, size int, mapped bool) (*mocks.MockMemoryDriver, *ChunkAllocator, []byte) {
	driver := mocks.NewMockMemoryDriver(ctrl)
	memory := native.DeviceMemory(7)

	driver.EXPECT().AllocateMemory(core1_0.MemoryAllocateInfo{
		AllocationSize:  size,
		MemoryTypeIndex: 1,
	}).Return(memory, core1_0.VKSuccess, nil)

	var backing []byte
	if mapped {
		backing = make([]byte, size)
		driver.EXPECT().MapMemory(memory, 0, size).Return(unsafe.Pointer(&backing[0]), core1_0.VKSuccess, nil)
	}

	allocator := &ChunkAllocator{}
	_, err := allocator.Init(testLogger(), driver, 1, mapped, size)
	require.NoError(t, err)

	return driver, allocator, backing
}

func TestChunkAllocatorTiling(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver, allocator, _ := readyChunkAllocator(t, ctrl, 1<<16, false)

	rng := rand.New(rand.NewSource(1337))
	var outstanding []Block

	for i := 0; i < 2000; i++ {
		if len(outstanding) > 0 && rng.Intn(3) == 0 {
			index := rng.Intn(len(outstanding))
			allocator.Free(outstanding[index])
			outstanding = append(outstanding[:index], outstanding[index+1:]...)
		} else {
			size := rng.Intn(700) + 1
			alignment := uint(1) << uint(rng.Intn(8))

			block, ok := allocator.Allocate(size, alignment)
			if ok {
				require.Equal(t, 0, block.Offset%int(alignment))
				require.GreaterOrEqual(t, block.Size, size)
				outstanding = append(outstanding, block)
			}
		}

		require.NoError(t, allocator.Validate())
		require.Equal(t, len(outstanding), allocator.OutstandingCount())
	}

	for _, block := range outstanding {
		allocator.Free(block)
	}
	require.NoError(t, allocator.Validate())
	require.Equal(t, 0, allocator.AllocatedBytes())

	driver.EXPECT().FreeMemory(native.DeviceMemory(7))
	require.NoError(t, allocator.Destroy())
}

func TestChunkAllocatorAlignment(t *testing.T) {
	testCases := map[string]struct {
		Size      int
		Alignment uint
	}{
		"Unaligned": {Size: 5, Alignment: 1},
		"Align4":    {Size: 12, Alignment: 4},
		"Align64":   {Size: 100, Alignment: 64},
		"Align256":  {Size: 1, Alignment: 256},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			driver, allocator, _ := readyChunkAllocator(t, ctrl, 4096, false)

			// Knock the free list off of any natural alignment
			_, ok := allocator.Allocate(3, 1)
			require.True(t, ok)

			block, ok := allocator.Allocate(testCase.Size, testCase.Alignment)
			require.True(t, ok)
			require.Equal(t, 0, block.Offset%int(testCase.Alignment))
			require.Equal(t, testCase.Size, block.Size)
			require.NoError(t, allocator.Validate())

			driver.EXPECT().FreeMemory(native.DeviceMemory(7))
			require.Error(t, allocator.Destroy())
		})
	}
}

func TestChunkAllocatorPaddingReturnedToFreeList(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, allocator, _ := readyChunkAllocator(t, ctrl, 1024, false)

	first, ok := allocator.Allocate(3, 1)
	require.True(t, ok)
	require.Equal(t, 0, first.Offset)

	second, ok := allocator.Allocate(16, 16)
	require.True(t, ok)
	require.Equal(t, 16, second.Offset)

	// The padding between the two blocks can still be handed out
	padding, ok := allocator.Allocate(13, 1)
	require.True(t, ok)
	require.Equal(t, 3, padding.Offset)
	require.NoError(t, allocator.Validate())
}

func TestChunkAllocatorExhaustion(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, allocator, _ := readyChunkAllocator(t, ctrl, 1024, false)

	block, ok := allocator.Allocate(1024, 1)
	require.True(t, ok)
	require.Equal(t, 1024, block.Size)

	_, ok = allocator.Allocate(1, 1)
	require.False(t, ok)

	allocator.Free(block)
	_, ok = allocator.Allocate(1, 1)
	require.True(t, ok)
}

func TestChunkAllocatorDoesNotCoalesce(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, allocator, _ := readyChunkAllocator(t, ctrl, 1024, false)

	first, ok := allocator.Allocate(512, 1)
	require.True(t, ok)
	second, ok := allocator.Allocate(512, 1)
	require.True(t, ok)

	allocator.Free(first)
	allocator.Free(second)
	require.Len(t, allocator.FreeBlocks(), 2)

	// 1024 free bytes remain, but in two unmerged 512 byte blocks
	_, ok = allocator.Allocate(1024, 1)
	require.False(t, ok)
	require.NoError(t, allocator.Validate())
}

func TestChunkAllocatorDoubleFreePanics(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, allocator, _ := readyChunkAllocator(t, ctrl, 1024, false)

	block, ok := allocator.Allocate(64, 1)
	require.True(t, ok)
	allocator.Free(block)

	require.Panics(t, func() {
		allocator.Free(block)
	})

	require.Panics(t, func() {
		allocator.Free(Block{Memory: native.DeviceMemory(99), Size: 64})
	})
}

func TestChunkAllocatorMappedPointer(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver, allocator, backing := readyChunkAllocator(t, ctrl, 256, true)

	_, ok := allocator.Allocate(10, 1)
	require.True(t, ok)

	block, ok := allocator.Allocate(16, 16)
	require.True(t, ok)
	require.True(t, block.IsPersistentMapped())
	require.Equal(t, unsafe.Pointer(&backing[16]), block.MappedPointer())

	copy(block.MappedBytes(), []byte{1, 2, 3, 4})
	require.Equal(t, []byte{1, 2, 3, 4}, backing[16:20])

	allocator.Free(block)
	driver.EXPECT().UnmapMemory(native.DeviceMemory(7))
	driver.EXPECT().FreeMemory(native.DeviceMemory(7))
	// One block is still outstanding
	require.Error(t, allocator.Destroy())
}

func TestChunkAllocatorInitFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver := mocks.NewMockMemoryDriver(ctrl)
	driver.EXPECT().AllocateMemory(gomock.Any()).Return(native.DeviceMemory(0), core1_0.VKErrorOutOfDeviceMemory, core1_0.VKErrorOutOfDeviceMemory.ToError())

	allocator := &ChunkAllocator{}
	res, err := allocator.Init(testLogger(), driver, 0, false, 1024)
	require.Error(t, err)
	require.Equal(t, common.VkResult(core1_0.VKErrorOutOfDeviceMemory), res)
}
