package graphics

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
	"github.com/vkngwrapper/gfx/format"
	"github.com/vkngwrapper/gfx/memory"
	"github.com/vkngwrapper/gfx/native/nativetest"
	"golang.org/x/exp/slog"
)

func newTestDeviceWithLogger(t *testing.T, logger *slog.Logger) (*nativetest.Driver, *GraphicsDevice) {
	driver := nativetest.NewDriver()
	device, err := NewGraphicsDevice(logger, driver, DeviceOptions{
		Memory: memory.Options{
			MappedChunkSize:   4 * 1024 * 1024,
			UnmappedChunkSize: 4 * 1024 * 1024,
		},
	})
	require.NoError(t, err)

	return driver, device
}

func newTestDevice(t *testing.T) (*nativetest.Driver, *GraphicsDevice) {
	return newTestDeviceWithLogger(t, slog.New(slog.NewTextHandler(io.Discard)))
}

func createTestBuffer(t *testing.T, device *GraphicsDevice, size int, usage BufferUsage) *DeviceBuffer {
	buffer, err := device.CreateBuffer(BufferDescription{SizeInBytes: size, Usage: usage})
	require.NoError(t, err)
	return buffer
}

func createTestTexture(t *testing.T, device *GraphicsDevice, width, height int, pixelFormat format.PixelFormat, usage TextureUsage) *Texture {
	texture, err := device.CreateTexture(TextureDescription{
		Width:       width,
		Height:      height,
		Depth:       1,
		MipLevels:   1,
		ArrayLayers: 1,
		Format:      pixelFormat,
		Usage:       usage,
		Type:        TextureType2D,
	})
	require.NoError(t, err)
	return texture
}

func TestNewDeviceStartsEmpty(t *testing.T) {
	driver, device := newTestDevice(t)

	require.Equal(t, 0, device.LiveResourceCount())
	require.Empty(t, driver.CallNames("QueueSubmit"))
	require.NoError(t, device.Destroy())
	require.Empty(t, driver.LiveObjects())
}

func TestUpdateBufferWritesThroughStaging(t *testing.T) {
	driver, device := newTestDevice(t)

	buffer := createTestBuffer(t, device, 64, BufferUsageVertexBuffer)
	data := bytes.Repeat([]byte{7}, 32)

	require.NoError(t, device.UpdateBuffer(buffer, 16, data))
	require.Equal(t, data, driver.BufferContents(buffer.Native())[16:48])
	require.Len(t, driver.CallsNamed("QueueSubmit"), 1)

	// The staging buffer stays with the submission until its fence signals
	require.Empty(t, device.availableStagingBuffers)
	driver.CompletePendingWork()
	require.NoError(t, device.checkSubmittedFences())
	require.Len(t, device.availableStagingBuffers, 1)
	require.Equal(t, DefaultMinStagingBufferSize, device.availableStagingBuffers[0].SizeInBytes())

	require.NoError(t, buffer.Destroy())
	require.NoError(t, device.Destroy())
	require.Empty(t, driver.LiveObjects())
}

func TestUpdateBufferMappedWritesDirectly(t *testing.T) {
	driver, device := newTestDevice(t)

	buffer := createTestBuffer(t, device, 64, BufferUsageUniformBuffer|BufferUsageDynamic)
	data := []byte{1, 2, 3, 4}

	require.NoError(t, device.UpdateBuffer(buffer, 8, data))
	require.Equal(t, data, driver.BufferContents(buffer.Native())[8:12])
	require.Empty(t, driver.CallsNamed("QueueSubmit"))

	err := device.UpdateBuffer(buffer, 62, data)
	require.ErrorIs(t, err, ErrInvalidOperation)
}

func TestOversizedStagingBufferIsReleased(t *testing.T) {
	driver, device := newTestDevice(t)

	buffer := createTestBuffer(t, device, 2048, BufferUsageVertexBuffer)
	liveBuffers := driver.LiveObjects()["Buffer"]

	require.NoError(t, device.UpdateBuffer(buffer, 0, make([]byte, 1024)))
	require.Equal(t, liveBuffers+1, driver.LiveObjects()["Buffer"])

	driver.CompletePendingWork()
	require.NoError(t, device.checkSubmittedFences())
	require.Empty(t, device.availableStagingBuffers)
	require.Equal(t, liveBuffers, driver.LiveObjects()["Buffer"])
}

func TestCommandListStagingBuffersRetireWithFence(t *testing.T) {
	driver, device := newTestDevice(t)

	buffer := createTestBuffer(t, device, 64, BufferUsageVertexBuffer)
	commandList, err := device.CreateCommandList()
	require.NoError(t, err)

	data := bytes.Repeat([]byte{3}, 32)
	require.NoError(t, commandList.Begin())
	require.NoError(t, commandList.UpdateBuffer(buffer, 16, data))
	require.NoError(t, commandList.End())

	require.Len(t, commandList.stagingBuffers, 1)
	first := commandList.stagingBuffers[0]
	require.NoError(t, device.SubmitCommands(commandList, nil))
	require.Equal(t, data, driver.BufferContents(buffer.Native())[16:48])

	// While the first submission is in flight, its staging buffer cannot be handed out again
	require.NoError(t, commandList.Begin())
	require.NoError(t, commandList.UpdateBuffer(buffer, 0, data))
	require.NoError(t, commandList.End())
	second := commandList.stagingBuffers[0]
	require.NotSame(t, first, second)
	require.NoError(t, device.SubmitCommands(commandList, nil))
	require.Equal(t, 2, commandList.outstandingSubmissions())

	driver.CompletePendingWork()
	require.NoError(t, device.checkSubmittedFences())
	require.Equal(t, 0, commandList.outstandingSubmissions())
	require.Contains(t, commandList.availableStagingBuffers, first)
	require.Contains(t, commandList.availableStagingBuffers, second)

	// The command list's staging pool is its own
	require.Empty(t, device.availableStagingBuffers)
	liveBuffers := driver.LiveObjects()["Buffer"]
	require.NoError(t, commandList.Begin())
	require.NoError(t, commandList.UpdateBuffer(buffer, 0, data))
	require.Contains(t, []*DeviceBuffer{first, second}, commandList.stagingBuffers[0])
	require.Equal(t, liveBuffers, driver.LiveObjects()["Buffer"])
	require.NoError(t, commandList.End())
}

func TestDisposedCommandListReleasesStagingPool(t *testing.T) {
	driver, device := newTestDevice(t)

	buffer := createTestBuffer(t, device, 64, BufferUsageVertexBuffer)
	liveBuffers := driver.LiveObjects()["Buffer"]
	commandList, err := device.CreateCommandList()
	require.NoError(t, err)

	require.NoError(t, commandList.Begin())
	require.NoError(t, commandList.UpdateBuffer(buffer, 0, make([]byte, 16)))
	require.NoError(t, commandList.End())
	require.NoError(t, device.SubmitCommands(commandList, nil))
	require.NoError(t, commandList.Dispose())
	require.Equal(t, liveBuffers+1, driver.LiveObjects()["Buffer"])

	driver.CompletePendingWork()
	require.NoError(t, device.checkSubmittedFences())
	require.Equal(t, liveBuffers, driver.LiveObjects()["Buffer"])
	require.Empty(t, device.availableStagingBuffers)
}

func TestSubmitCommandsSignalsCallerFence(t *testing.T) {
	driver, device := newTestDevice(t)

	commandList, err := device.CreateCommandList()
	require.NoError(t, err)
	fence, err := device.CreateFence(false)
	require.NoError(t, err)

	require.NoError(t, commandList.Begin())
	require.NoError(t, commandList.End())
	require.NoError(t, device.SubmitCommands(commandList, fence))

	submits := driver.CallsNamed("QueueSubmit")
	require.Len(t, submits, 2)
	require.Len(t, submits[0].Args[1], 1)
	require.NotEqual(t, fence.Native(), submits[0].Args[2])
	require.Nil(t, submits[1].Args[1])
	require.Equal(t, fence.Native(), submits[1].Args[2])

	signaled, err := fence.Signaled()
	require.NoError(t, err)
	require.False(t, signaled)

	driver.CompletePendingWork()
	signaled, err = fence.Signaled()
	require.NoError(t, err)
	require.True(t, signaled)

	require.NoError(t, fence.Reset())
	signaled, err = fence.Signaled()
	require.NoError(t, err)
	require.False(t, signaled)
}

func TestSubmitCommandsRejectsUnendedList(t *testing.T) {
	_, device := newTestDevice(t)

	commandList, err := device.CreateCommandList()
	require.NoError(t, err)

	err = device.SubmitCommands(commandList, nil)
	require.Equal(t, ResultInvalidOperation, ResultOf(err))

	require.NoError(t, commandList.Begin())
	err = device.SubmitCommands(commandList, nil)
	require.Equal(t, ResultInvalidOperation, ResultOf(err))

	require.NoError(t, commandList.End())
	require.NoError(t, device.SubmitCommands(commandList, nil))

	// A recording is submitted at most once
	err = device.SubmitCommands(commandList, nil)
	require.Equal(t, ResultInvalidOperation, ResultOf(err))
}

func TestSubmitFailureIsReported(t *testing.T) {
	driver, device := newTestDevice(t)

	commandList, err := device.CreateCommandList()
	require.NoError(t, err)
	require.NoError(t, commandList.Begin())
	require.NoError(t, commandList.End())

	driver.Failures = map[string]common.VkResult{"QueueSubmit": core1_0.VKErrorOutOfDeviceMemory}
	err = device.SubmitCommands(commandList, nil)
	require.Error(t, err)
	require.Equal(t, ResultOutOfMemory, ResultOf(err))
	require.Equal(t, 0, commandList.outstandingSubmissions())

	// The tracking fence went back to the pool
	require.Len(t, device.availableFences, 1)
}

func TestCallerFenceFailureLeavesWorkTracked(t *testing.T) {
	driver, device := newTestDevice(t)

	buffer := createTestBuffer(t, device, 64, BufferUsageVertexBuffer)
	commandList, err := device.CreateCommandList()
	require.NoError(t, err)
	fence, err := device.CreateFence(false)
	require.NoError(t, err)

	require.NoError(t, commandList.Begin())
	require.NoError(t, commandList.UpdateBuffer(buffer, 0, make([]byte, 16)))
	require.NoError(t, commandList.End())
	staging := commandList.stagingBuffers[0]

	driver.Failures = map[string]common.VkResult{"QueueSubmit": core1_0.VKErrorDeviceLost}
	driver.FailuresAfter = map[string]int{"QueueSubmit": 1}
	err = device.SubmitCommands(commandList, fence)
	require.Error(t, err)
	require.Len(t, driver.CallsNamed("QueueSubmit"), 2)

	// The work went out, so it stays tracked until its own fence retires it
	require.Equal(t, 1, commandList.outstandingSubmissions())
	require.Empty(t, device.availableFences)
	require.NotContains(t, commandList.availableStagingBuffers, staging)

	driver.Failures = nil
	driver.CompletePendingWork()
	require.NoError(t, device.checkSubmittedFences())
	require.Equal(t, 0, commandList.outstandingSubmissions())
	require.Len(t, device.availableFences, 1)
	require.Contains(t, commandList.availableStagingBuffers, staging)
}

func TestDisposedCommandListRetiresAfterFence(t *testing.T) {
	driver, device := newTestDevice(t)

	pools := driver.LiveObjects()["CommandPool"]
	commandList, err := device.CreateCommandList()
	require.NoError(t, err)
	require.Equal(t, pools+1, driver.LiveObjects()["CommandPool"])

	require.NoError(t, commandList.Begin())
	require.NoError(t, commandList.End())
	require.NoError(t, device.SubmitCommands(commandList, nil))

	require.NoError(t, commandList.Dispose())
	require.Equal(t, pools+1, driver.LiveObjects()["CommandPool"])
	require.ErrorIs(t, commandList.Begin(), ErrInvalidOperation)

	driver.CompletePendingWork()
	require.NoError(t, device.checkSubmittedFences())
	require.Equal(t, pools, driver.LiveObjects()["CommandPool"])
	require.Zero(t, driver.LiveObjects()["CommandBuffer"])
}

func TestDisposeIdleCommandListRetiresImmediately(t *testing.T) {
	driver, device := newTestDevice(t)

	commandList, err := device.CreateCommandList()
	require.NoError(t, err)
	require.NoError(t, commandList.Begin())
	require.NoError(t, commandList.End())

	require.NoError(t, commandList.Dispose())
	require.Zero(t, driver.LiveObjects()["CommandPool"])
	require.Zero(t, driver.LiveObjects()["CommandBuffer"])
	require.Panics(t, func() {
		_ = commandList.Dispose()
	})
}

func TestDestroyReleasesLeakedResources(t *testing.T) {
	var logs bytes.Buffer
	driver, device := newTestDeviceWithLogger(t, slog.New(slog.NewTextHandler(&logs)))

	createTestBuffer(t, device, 64, BufferUsageVertexBuffer)
	createTestTexture(t, device, 16, 16, format.R8G8B8A8UNorm, TextureUsageSampled|TextureUsageRenderTarget)
	commandList, err := device.CreateCommandList()
	require.NoError(t, err)

	require.NoError(t, commandList.Begin())
	require.NoError(t, commandList.UpdateBuffer(createTestBuffer(t, device, 32, BufferUsageIndexBuffer), 0, make([]byte, 16)))
	require.NoError(t, commandList.End())
	require.NoError(t, device.SubmitCommands(commandList, nil))

	require.Equal(t, 4, device.LiveResourceCount())
	require.NoError(t, device.Destroy())

	require.Equal(t, 0, device.LiveResourceCount())
	require.Empty(t, driver.LiveObjects())
	require.Contains(t, logs.String(), "[UNRELEASED RESOURCE]")
	require.Contains(t, logs.String(), "Kind=Buffer")
	require.Contains(t, logs.String(), "Kind=Texture")
	require.Contains(t, logs.String(), "Kind=CommandList")
}

func TestSharedCommandPoolsAreCached(t *testing.T) {
	driver, device := newTestDevice(t)

	buffer := createTestBuffer(t, device, 64, BufferUsageVertexBuffer)
	for i := 0; i < sharedCommandPoolCacheSize+2; i++ {
		require.NoError(t, device.UpdateBuffer(buffer, 0, []byte{byte(i)}))
	}
	require.Equal(t, sharedCommandPoolCacheSize+2, device.sharedPoolCount)

	require.NoError(t, device.WaitForIdle())
	require.Equal(t, sharedCommandPoolCacheSize, device.sharedPoolCount)
	require.Len(t, device.availableSharedPools, sharedCommandPoolCacheSize)
	require.Equal(t, sharedCommandPoolCacheSize, driver.LiveObjects()["CommandPool"])

	// Retired pools are reused rather than created
	driver.ResetCalls()
	require.NoError(t, device.UpdateBuffer(buffer, 0, []byte{1}))
	require.Empty(t, driver.CallsNamed("CreateCommandPool"))
}

func TestBuildStatsString(t *testing.T) {
	_, device := newTestDevice(t)

	createTestBuffer(t, device, 64, BufferUsageVertexBuffer)
	createTestBuffer(t, device, 64, BufferUsageUniformBuffer|BufferUsageDynamic)

	stats := device.BuildStatsString()
	require.Contains(t, stats, `"Buffer":2`)
	require.Contains(t, stats, `"Pools":{`)
	require.Contains(t, stats, `"Memory":{`)
	require.Contains(t, stats, `"Descriptors":{`)
}

func TestResultOf(t *testing.T) {
	testCases := map[string]struct {
		Err    error
		Result Result
	}{
		"Nil":               {Err: nil, Result: ResultSuccess},
		"InvalidOperation":  {Err: ErrInvalidOperation, Result: ResultInvalidOperation},
		"UnsupportedSystem": {Err: ErrUnsupportedSystem, Result: ResultUnsupportedSystem},
		"OutOfMemory":       {Err: nativeError(core1_0.VKErrorOutOfHostMemory, nil, "allocate"), Result: ResultOutOfMemory},
		"SurfaceLost":       {Err: nativeError(khr_surface.VKErrorSurfaceLost, nil, "present"), Result: ResultSwapchainLost},
		"Unmarked":          {Err: nativeError(core1_0.VKErrorUnknown, nil, "do anything"), Result: ResultInvalidOperation},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, testCase.Result, ResultOf(testCase.Err))
		})
	}
}

func TestFenceWait(t *testing.T) {
	driver, device := newTestDevice(t)

	fence, err := device.CreateFence(true)
	require.NoError(t, err)

	signaled, err := fence.Wait(0)
	require.NoError(t, err)
	require.True(t, signaled)

	require.NoError(t, fence.Destroy())
	require.Zero(t, driver.LiveObjects()["Fence"])
	require.Panics(t, func() {
		_ = fence.Destroy()
	})
}
