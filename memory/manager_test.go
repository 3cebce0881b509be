package memory

import (
	"encoding/json"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gfx/memutils"
	"github.com/vkngwrapper/gfx/native"
	"github.com/vkngwrapper/gfx/native/mocks"
	"go.uber.org/mock/gomock"
)

var testMemoryProperties = &core1_0.PhysicalDeviceMemoryProperties{
	MemoryTypes: []core1_0.MemoryType{
		{PropertyFlags: core1_0.MemoryPropertyDeviceLocal, HeapIndex: 0},
		{PropertyFlags: core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent, HeapIndex: 1},
		{PropertyFlags: core1_0.MemoryPropertyDeviceLocal | core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent, HeapIndex: 0},
	},
	MemoryHeaps: []core1_0.MemoryHeap{
		{Size: 1 << 30, Flags: core1_0.MemoryHeapDeviceLocal},
		{Size: 1 << 30},
	},
}

func TestFindMemoryType(t *testing.T) {
	testCases := map[string]struct {
		TypeBits      uint32
		RequiredFlags core1_0.MemoryPropertyFlags
		ExpectedIndex int
		ExpectedError bool
	}{
		"AnyType": {
			TypeBits:      0x7,
			ExpectedIndex: 0,
		},
		"DeviceLocal": {
			TypeBits:      0x7,
			RequiredFlags: core1_0.MemoryPropertyDeviceLocal,
			ExpectedIndex: 0,
		},
		"HostVisible": {
			TypeBits:      0x7,
			RequiredFlags: core1_0.MemoryPropertyHostVisible,
			ExpectedIndex: 1,
		},
		"HostVisibleMaskedOut": {
			TypeBits:      0x5,
			RequiredFlags: core1_0.MemoryPropertyHostVisible,
			ExpectedIndex: 2,
		},
		"DeviceLocalHostVisible": {
			TypeBits:      0x7,
			RequiredFlags: core1_0.MemoryPropertyDeviceLocal | core1_0.MemoryPropertyHostVisible,
			ExpectedIndex: 2,
		},
		"NoBits": {
			TypeBits:      0,
			ExpectedError: true,
		},
		"NoMatchingFlags": {
			TypeBits:      0x3,
			RequiredFlags: core1_0.MemoryPropertyDeviceLocal | core1_0.MemoryPropertyHostCoherent,
			ExpectedError: true,
		},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			index, err := FindMemoryType(testMemoryProperties, testCase.TypeBits, testCase.RequiredFlags)
			if testCase.ExpectedError {
				require.ErrorIs(t, err, ErrNoSuitableMemoryType)
				return
			}

			require.NoError(t, err)
			require.Equal(t, testCase.ExpectedIndex, index)
		})
	}
}

func readyManager(t *testing.T, ctrl *gomock.Controller) (*mocks.MockMemoryDriver, *Manager) {
	driver := mocks.NewMockMemoryDriver(ctrl)
	driver.EXPECT().MemoryProperties().Return(testMemoryProperties)

	manager := NewManager(testLogger(), driver, Options{
		MappedChunkSize:   4096,
		UnmappedChunkSize: 8192,
	})
	return driver, manager
}

func TestManagerSeparatesMappedAndUnmapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver, manager := readyManager(t, ctrl)

	backing := make([]byte, 4096)
	driver.EXPECT().AllocateMemory(core1_0.MemoryAllocateInfo{AllocationSize: 8192, MemoryTypeIndex: 2}).
		Return(native.DeviceMemory(1), core1_0.VKSuccess, nil)
	driver.EXPECT().AllocateMemory(core1_0.MemoryAllocateInfo{AllocationSize: 4096, MemoryTypeIndex: 2}).
		Return(native.DeviceMemory(2), core1_0.VKSuccess, nil)
	driver.EXPECT().MapMemory(native.DeviceMemory(2), 0, 4096).
		Return(unsafe.Pointer(&backing[0]), core1_0.VKSuccess, nil)

	hostVisible := core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyDeviceLocal

	unmapped := manager.Allocate(0x7, hostVisible, false, 100, 16)
	require.Equal(t, native.DeviceMemory(1), unmapped.Memory)
	require.False(t, unmapped.IsPersistentMapped())

	mapped := manager.Allocate(0x7, hostVisible, true, 100, 16)
	require.Equal(t, native.DeviceMemory(2), mapped.Memory)
	require.True(t, mapped.IsPersistentMapped())

	require.Equal(t, 1, manager.ChunkCount(2, false))
	require.Equal(t, 1, manager.ChunkCount(2, true))
	require.Equal(t, 0, manager.ChunkCount(0, false))

	var stats memutils.DetailedStatistics
	manager.CalculateStatistics(&stats)
	require.Equal(t, 2, stats.BlockCount)
	require.Equal(t, 2, stats.AllocationCount)
	require.Equal(t, 8192+4096, stats.BlockBytes)
	require.Equal(t, 200, stats.AllocationBytes)

	manager.Free(unmapped)
	manager.Free(mapped)

	driver.EXPECT().FreeMemory(native.DeviceMemory(1))
	driver.EXPECT().UnmapMemory(native.DeviceMemory(2))
	driver.EXPECT().FreeMemory(native.DeviceMemory(2))
	require.NoError(t, manager.Destroy())
	require.Equal(t, 0, manager.ChunkCount(2, false))
}

func TestManagerAllocateNoMemoryTypePanics(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, manager := readyManager(t, ctrl)

	require.Panics(t, func() {
		manager.Allocate(0x1, core1_0.MemoryPropertyHostVisible, false, 16, 1)
	})
}

func TestManagerAllocateDriverFailurePanics(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver, manager := readyManager(t, ctrl)

	driver.EXPECT().AllocateMemory(gomock.Any()).
		Return(native.DeviceMemory(0), core1_0.VKErrorOutOfDeviceMemory, core1_0.VKErrorOutOfDeviceMemory.ToError())

	require.Panics(t, func() {
		manager.Allocate(0x1, 0, false, 16, 1)
	})
}

func TestManagerFreeUnknownTypePanics(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, manager := readyManager(t, ctrl)

	require.Panics(t, func() {
		manager.Free(Block{MemoryTypeIndex: 1, Memory: native.DeviceMemory(4), Size: 16})
	})
}

func TestManagerBuildStatsString(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver, manager := readyManager(t, ctrl)

	driver.EXPECT().AllocateMemory(gomock.Any()).DoAndReturn(
		func(info core1_0.MemoryAllocateInfo) (native.DeviceMemory, common.VkResult, error) {
			return native.DeviceMemory(info.MemoryTypeIndex + 10), core1_0.VKSuccess, nil
		}).Times(2)

	manager.Allocate(0x1, 0, false, 64, 1)
	manager.Allocate(0x1, 0, false, 64, 1)
	manager.Allocate(0x2, 0, false, 512, 1)

	var document map[string]any
	require.NoError(t, json.Unmarshal([]byte(manager.BuildStatsString()), &document))

	total := document["Total"].(map[string]any)
	require.EqualValues(t, 3, total["AllocationCount"])
	require.EqualValues(t, 2, total["BlockCount"])

	unmapped := document["Unmapped"].(map[string]any)
	require.Contains(t, unmapped, "0")
	require.Contains(t, unmapped, "1")
	require.Empty(t, document["Mapped"])

	typeZero := unmapped["0"].(map[string]any)
	chunks := typeZero["Chunks"].([]any)
	require.Len(t, chunks, 1)
	require.EqualValues(t, 8192, chunks[0].(map[string]any)["Size"])
}
