package graphics

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/gfx/descriptor"
	"github.com/vkngwrapper/gfx/internal/arena"
	"github.com/vkngwrapper/gfx/internal/utils"
	"github.com/vkngwrapper/gfx/memory"
	"github.com/vkngwrapper/gfx/memutils"
	"github.com/vkngwrapper/gfx/native"
	"golang.org/x/exp/slog"
)

// trackedResource is a native object created through the GraphicsDevice. Every tracked resource is
// released when the device is destroyed, if its owner has not done so already.
type trackedResource interface {
	resourceKind() string
	release() error
}

const (
	kindBuffer         = "Buffer"
	kindTexture        = "Texture"
	kindTextureView    = "TextureView"
	kindSampler        = "Sampler"
	kindShader         = "Shader"
	kindResourceLayout = "ResourceLayout"
	kindResourceSet    = "ResourceSet"
	kindPipeline       = "Pipeline"
	kindFramebuffer    = "Framebuffer"
	kindFence          = "Fence"
	kindCommandList    = "CommandList"
	kindSwapchain      = "Swapchain"
)

var resourceKinds = []string{
	kindBuffer, kindTexture, kindTextureView, kindSampler, kindShader, kindResourceLayout,
	kindResourceSet, kindPipeline, kindFramebuffer, kindFence, kindCommandList, kindSwapchain,
}

type submission struct {
	commandList   *CommandList
	commandBuffer native.CommandBuffer
}

// GraphicsDevice owns the native queue, the memory and descriptor managers, and every pool of
// recycled objects: staging buffers and textures, one-shot command pools and submission fences.
//
// Work submitted through the device is retired lazily: every submission first polls the fences of
// earlier submissions and reclaims whatever they were keeping alive.
type GraphicsDevice struct {
	logger  *slog.Logger
	driver  native.Driver
	info    native.DeviceInfo
	options DeviceOptions

	memory      *memory.Manager
	descriptors *descriptor.PoolManager

	queueMutex utils.OptionalMutex

	resourceMutex utils.OptionalRWMutex
	resources     arena.Arena[trackedResource]

	// mutex guards everything below it
	mutex utils.OptionalMutex

	availableStagingBuffers  []*DeviceBuffer
	submittedStagingBuffers  *swiss.Map[native.CommandBuffer, []*DeviceBuffer]
	availableStagingTextures []*Texture
	submittedStagingTextures *swiss.Map[native.CommandBuffer, *Texture]

	sharedPoolCount      int
	availableSharedPools []*sharedCommandPool
	submittedSharedPools *swiss.Map[native.CommandBuffer, *sharedCommandPool]

	availableFences      []native.Fence
	submittedFences      *swiss.Map[native.Fence, submission]
	disposedCommandLists *swiss.Map[*CommandList, struct{}]
}

// NewGraphicsDevice creates a GraphicsDevice on top of an opened native driver
func NewGraphicsDevice(logger *slog.Logger, driver native.Driver, options DeviceOptions) (*GraphicsDevice, error) {
	logger.Debug("GraphicsDevice::NewGraphicsDevice")

	options = options.withDefaults()
	useMutex := options.Flags&DeviceCreateExternallySynchronized == 0

	device := &GraphicsDevice{
		logger:  logger,
		driver:  driver,
		info:    driver.DeviceInfo(),
		options: options,

		memory: memory.NewManager(logger, driver, options.Memory),

		queueMutex:    utils.OptionalMutex{UseMutex: useMutex},
		resourceMutex: utils.OptionalRWMutex{UseMutex: useMutex},
		mutex:         utils.OptionalMutex{UseMutex: useMutex},

		submittedStagingBuffers:  swiss.NewMap[native.CommandBuffer, []*DeviceBuffer](16),
		submittedStagingTextures: swiss.NewMap[native.CommandBuffer, *Texture](16),
		submittedSharedPools:     swiss.NewMap[native.CommandBuffer, *sharedCommandPool](16),
		submittedFences:          swiss.NewMap[native.Fence, submission](16),
		disposedCommandLists:     swiss.NewMap[*CommandList, struct{}](8),
	}

	descriptors, res, err := descriptor.NewPoolManager(logger, driver, options.Descriptors)
	if err != nil {
		return nil, errors.CombineErrors(nativeError(res, err, "create the descriptor pool manager"), device.memory.Destroy())
	}
	device.descriptors = descriptors

	return device, nil
}

// Driver returns the native driver this device issues calls to
func (d *GraphicsDevice) Driver() native.Driver {
	return d.driver
}

// MemoryManager returns the allocator that backs every buffer and texture created by this device
func (d *GraphicsDevice) MemoryManager() *memory.Manager {
	return d.memory
}

// DescriptorPoolManager returns the allocator that backs every resource set created by this device
func (d *GraphicsDevice) DescriptorPoolManager() *descriptor.PoolManager {
	return d.descriptors
}

func (d *GraphicsDevice) track(resource trackedResource) arena.Handle {
	d.resourceMutex.Lock()
	defer d.resourceMutex.Unlock()

	return d.resources.Insert(resource)
}

// untrack removes a resource from the device's records. It returns false if the resource had already
// been released.
func (d *GraphicsDevice) untrack(handle arena.Handle) bool {
	d.resourceMutex.Lock()
	defer d.resourceMutex.Unlock()

	_, ok := d.resources.Remove(handle)
	return ok
}

// LiveResourceCount is the number of resources created through this device that have not been destroyed
func (d *GraphicsDevice) LiveResourceCount() int {
	d.resourceMutex.RLock()
	defer d.resourceMutex.RUnlock()

	return d.resources.Len()
}

// BuildStatsString returns a json document describing the device's pools along with the memory and
// descriptor managers' own statistics
func (d *GraphicsDevice) BuildStatsString() string {
	kinds := make(map[string]int)
	d.resourceMutex.RLock()
	d.resources.Each(func(handle arena.Handle, resource trackedResource) {
		kinds[resource.resourceKind()]++
	})
	d.resourceMutex.RUnlock()

	var memoryStats memutils.DetailedStatistics
	d.memory.CalculateStatistics(&memoryStats)
	descriptorStats := d.descriptors.Statistics()

	d.mutex.Lock()
	defer d.mutex.Unlock()

	writer := jwriter.NewWriter()
	root := writer.Object()

	resourcesObj := root.Name("Resources").Object()
	for _, kind := range resourceKinds {
		resourcesObj.Name(kind).Int(kinds[kind])
	}
	resourcesObj.End()

	poolsObj := root.Name("Pools").Object()
	poolsObj.Name("AvailableStagingBuffers").Int(len(d.availableStagingBuffers))
	poolsObj.Name("SubmittedStagingBuffers").Int(d.submittedStagingBuffers.Count())
	poolsObj.Name("AvailableStagingTextures").Int(len(d.availableStagingTextures))
	poolsObj.Name("SubmittedStagingTextures").Int(d.submittedStagingTextures.Count())
	poolsObj.Name("SharedCommandPools").Int(d.sharedPoolCount)
	poolsObj.Name("AvailableFences").Int(len(d.availableFences))
	poolsObj.Name("SubmittedFences").Int(d.submittedFences.Count())
	poolsObj.Name("DisposedCommandLists").Int(d.disposedCommandLists.Count())
	poolsObj.End()

	memoryObj := root.Name("Memory").Object()
	memoryStats.PrintJson(&memoryObj)
	memoryObj.End()

	descriptorObj := root.Name("Descriptors").Object()
	descriptorObj.Name("PoolCount").Int(descriptorStats.PoolCount)
	descriptorObj.Name("SetCapacity").Int(descriptorStats.SetCapacity)
	descriptorObj.Name("AllocatedSets").Int(descriptorStats.AllocatedSets)
	descriptorObj.End()

	root.End()
	return string(writer.Bytes())
}

// Destroy waits for the device to go idle, retires every submission and releases all pooled objects.
// Resources that were never destroyed by their owners are logged and released as well.
func (d *GraphicsDevice) Destroy() error {
	d.logger.Debug("GraphicsDevice::Destroy")

	err := d.WaitForIdle()
	err = errors.CombineErrors(err, d.checkSubmittedFences())

	// Leaked resources are released before the pools are emptied
	var leaked []trackedResource
	d.resourceMutex.Lock()
	d.resources.Drain(func(resource trackedResource) {
		leaked = append(leaked, resource)
	})
	d.resourceMutex.Unlock()

	for _, resource := range leaked {
		d.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED RESOURCE]",
			slog.String("Kind", resource.resourceKind()))
		err = errors.CombineErrors(err, resource.release())
	}

	d.mutex.Lock()
	stagingBuffers := d.availableStagingBuffers
	stagingTextures := d.availableStagingTextures
	sharedPools := d.availableSharedPools
	fences := d.availableFences
	d.availableStagingBuffers = nil
	d.availableStagingTextures = nil
	d.availableSharedPools = nil
	d.availableFences = nil
	d.sharedPoolCount = 0
	inFlight := d.submittedFences.Count()
	d.mutex.Unlock()

	if inFlight > 0 {
		err = errors.CombineErrors(err, errors.Newf("%d submissions were still in flight after the device went idle", inFlight))
	}

	for _, buffer := range stagingBuffers {
		err = errors.CombineErrors(err, buffer.release())
	}
	for _, texture := range stagingTextures {
		err = errors.CombineErrors(err, texture.release())
	}
	for _, pool := range sharedPools {
		pool.destroy()
	}
	for _, fence := range fences {
		d.driver.DestroyFence(fence)
	}

	err = errors.CombineErrors(err, d.descriptors.Destroy())
	err = errors.CombineErrors(err, d.memory.Destroy())

	return err
}
