package descriptor

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gfx/internal/utils"
	"github.com/vkngwrapper/gfx/native"
	"golang.org/x/exp/slog"
)

// Statistics describes the pools owned by a PoolManager
type Statistics struct {
	PoolCount     int
	SetCapacity   int
	AllocatedSets int
	// Consumed is the number of descriptors of each kind held by outstanding sets
	Consumed ResourceCounts
}

// PoolManager hands out descriptor sets from a growable list of large, fixed-capacity descriptor pools.
// A new pool is created whenever no existing pool can cover a request.
type PoolManager struct {
	logger *slog.Logger
	driver native.DescriptorDriver

	setsPerPool        int
	descriptorsPerKind int

	mutex utils.OptionalMutex
	pools []*pool
}

// NewPoolManager creates a PoolManager along with its first native pool
func NewPoolManager(logger *slog.Logger, driver native.DescriptorDriver, options Options) (*PoolManager, common.VkResult, error) {
	manager := &PoolManager{
		logger:             logger,
		driver:             driver,
		setsPerPool:        options.SetsPerPool,
		descriptorsPerKind: options.DescriptorsPerKind,
		mutex: utils.OptionalMutex{
			UseMutex: !options.ExternallySynchronized,
		},
	}

	if manager.setsPerPool == 0 {
		manager.setsPerPool = DefaultSetsPerPool
	}
	if manager.descriptorsPerKind == 0 {
		manager.descriptorsPerKind = DefaultDescriptorsPerKind
	}

	_, res, err := manager.createPool()
	if err != nil {
		return nil, res, err
	}

	return manager, res, nil
}

func (m *PoolManager) createPool() (*pool, common.VkResult, error) {
	kinds := []native.DescriptorType{
		native.DescriptorTypeUniformBuffer,
		native.DescriptorTypeSampledImage,
		native.DescriptorTypeSampler,
		native.DescriptorTypeStorageBuffer,
		native.DescriptorTypeStorageImage,
	}

	sizes := make([]native.DescriptorPoolSize, 0, len(kinds))
	for _, kind := range kinds {
		sizes = append(sizes, native.DescriptorPoolSize{Type: kind, Count: m.descriptorsPerKind})
	}

	handle, res, err := m.driver.CreateDescriptorPool(native.DescriptorPoolCreateInfo{
		Flags:     native.DescriptorPoolCreateFreeDescriptorSet,
		MaxSets:   m.setsPerPool,
		PoolSizes: sizes,
	})
	if err != nil {
		return nil, res, errors.Wrap(err, "failed to create descriptor pool")
	}

	created := newPool(handle, m.setsPerPool, m.descriptorsPerKind)
	m.pools = append(m.pools, created)

	m.logger.LogAttrs(context.Background(), slog.LevelDebug, "PoolManager::createPool",
		slog.Int("PoolCount", len(m.pools)),
		slog.Int("SetsPerPool", m.setsPerPool),
		slog.Int("DescriptorsPerKind", m.descriptorsPerKind))

	return created, res, nil
}

// Allocate allocates a descriptor set with the provided layout. counts must describe the layout's
// bindings; the set is carved from the first pool with enough remaining capacity for all of them.
func (m *PoolManager) Allocate(counts ResourceCounts, layout native.DescriptorSetLayout) (AllocationToken, common.VkResult, error) {
	m.logger.Debug("PoolManager::Allocate")

	if !counts.fitsWithin(m.descriptorsPerKind) {
		return AllocationToken{}, core1_0.VKErrorTooManyObjects, errors.Newf("a descriptor set needing %+v descriptors can never fit in a pool of %d descriptors per kind", counts, m.descriptorsPerKind)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	target, res, err := m.reservePool(counts)
	if err != nil {
		return AllocationToken{}, res, err
	}

	set, res, err := m.driver.AllocateDescriptorSet(target.handle, layout)
	if err != nil {
		target.release(counts)
		return AllocationToken{}, res, errors.Wrap(err, "failed to allocate descriptor set")
	}

	return AllocationToken{Set: set, Pool: target.handle}, res, nil
}

func (m *PoolManager) reservePool(counts ResourceCounts) (*pool, common.VkResult, error) {
	for _, candidate := range m.pools {
		if candidate.reserve(counts) {
			return candidate, core1_0.VKSuccess, nil
		}
	}

	created, res, err := m.createPool()
	if err != nil {
		return nil, res, err
	}

	if !created.reserve(counts) {
		panic(errors.Newf("attempting to reserve %+v descriptors from a fresh pool failed", counts))
	}

	return created, res, nil
}

// Free returns a descriptor set to the pool it was allocated from and restores that pool's capacity.
// counts must be the same counts the set was allocated with.
func (m *PoolManager) Free(token AllocationToken, counts ResourceCounts) (common.VkResult, error) {
	m.logger.Debug("PoolManager::Free")

	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, candidate := range m.pools {
		if candidate.handle != token.Pool {
			continue
		}

		res, err := m.driver.FreeDescriptorSet(candidate.handle, token.Set)
		if err != nil {
			return res, errors.Wrap(err, "failed to free descriptor set")
		}

		candidate.release(counts)
		return res, nil
	}

	panic(errors.Newf("attempting to free a descriptor set into pool %d, which this manager does not own", token.Pool))
}

// PoolCount is the number of native descriptor pools owned by this manager
func (m *PoolManager) PoolCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return len(m.pools)
}

func (m *PoolManager) Statistics() Statistics {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	stats := Statistics{
		PoolCount:   len(m.pools),
		SetCapacity: len(m.pools) * m.setsPerPool,
	}

	for _, p := range m.pools {
		stats.AllocatedSets += m.setsPerPool - p.remainingSets
		stats.Consumed.UniformBufferCount += m.descriptorsPerKind - p.remaining.UniformBufferCount
		stats.Consumed.SampledImageCount += m.descriptorsPerKind - p.remaining.SampledImageCount
		stats.Consumed.SamplerCount += m.descriptorsPerKind - p.remaining.SamplerCount
		stats.Consumed.StorageBufferCount += m.descriptorsPerKind - p.remaining.StorageBufferCount
		stats.Consumed.StorageImageCount += m.descriptorsPerKind - p.remaining.StorageImageCount
	}

	return stats
}

func printCounts(json *jwriter.ObjectState, counts ResourceCounts) {
	json.Name("UniformBuffers").Int(counts.UniformBufferCount)
	json.Name("SampledImages").Int(counts.SampledImageCount)
	json.Name("Samplers").Int(counts.SamplerCount)
	json.Name("StorageBuffers").Int(counts.StorageBufferCount)
	json.Name("StorageImages").Int(counts.StorageImageCount)
}

// BuildStatsString returns a json document describing the remaining capacity of every pool
func (m *PoolManager) BuildStatsString() string {
	stats := m.Statistics()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	writer := jwriter.NewWriter()
	root := writer.Object()

	total := root.Name("Total").Object()
	total.Name("PoolCount").Int(stats.PoolCount)
	total.Name("SetCapacity").Int(stats.SetCapacity)
	total.Name("AllocatedSets").Int(stats.AllocatedSets)
	consumed := total.Name("Consumed").Object()
	printCounts(&consumed, stats.Consumed)
	consumed.End()
	total.End()

	pools := root.Name("Pools").Array()
	for _, p := range m.pools {
		obj := pools.Object()
		obj.Name("RemainingSets").Int(p.remainingSets)
		remaining := obj.Name("Remaining").Object()
		printCounts(&remaining, p.remaining)
		remaining.End()
		obj.End()
	}
	pools.End()

	root.End()
	return string(writer.Bytes())
}

// Destroy destroys every native pool. Descriptor sets still allocated from them become invalid.
func (m *PoolManager) Destroy() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var err error
	for _, p := range m.pools {
		if p.remainingSets != m.setsPerPool {
			m.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED DESCRIPTORS] pool destroyed with outstanding sets",
				slog.Int("OutstandingSets", m.setsPerPool-p.remainingSets))
			err = errors.CombineErrors(err, errors.Newf("%d descriptor sets were not freed before the destruction of their pool", m.setsPerPool-p.remainingSets))
		}
		m.driver.DestroyDescriptorPool(p.handle)
	}
	m.pools = nil

	return err
}
