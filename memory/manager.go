package memory

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gfx/internal/utils"
	"github.com/vkngwrapper/gfx/memutils"
	"github.com/vkngwrapper/gfx/native"
	"golang.org/x/exp/slog"
)

// Manager is the device-wide block allocator. It keeps one ChunkAllocatorSet per memory type and
// mapping mode, created on first use.
//
// Allocation happens at resource creation rather than per frame, so a single coarse lock guards
// every set.
type Manager struct {
	logger           *slog.Logger
	driver           native.MemoryDriver
	memoryProperties *core1_0.PhysicalDeviceMemoryProperties

	mappedChunkSize   int
	unmappedChunkSize int

	mutex    utils.OptionalMutex
	mapped   *swiss.Map[int, *ChunkAllocatorSet]
	unmapped *swiss.Map[int, *ChunkAllocatorSet]
}

// NewManager creates a Manager that allocates from the provided driver
func NewManager(logger *slog.Logger, driver native.MemoryDriver, options Options) *Manager {
	manager := &Manager{
		logger:            logger,
		driver:            driver,
		memoryProperties:  driver.MemoryProperties(),
		mappedChunkSize:   options.MappedChunkSize,
		unmappedChunkSize: options.UnmappedChunkSize,
		mutex: utils.OptionalMutex{
			UseMutex: !options.ExternallySynchronized,
		},
		mapped:   swiss.NewMap[int, *ChunkAllocatorSet](8),
		unmapped: swiss.NewMap[int, *ChunkAllocatorSet](8),
	}

	if manager.mappedChunkSize == 0 {
		manager.mappedChunkSize = DefaultMappedChunkSize
	}
	if manager.unmappedChunkSize == 0 {
		manager.unmappedChunkSize = DefaultUnmappedChunkSize
	}

	return manager
}

// MemoryProperties returns the memory type table this manager allocates against
func (m *Manager) MemoryProperties() *core1_0.PhysicalDeviceMemoryProperties {
	return m.memoryProperties
}

// Allocate returns a block of at least size bytes at the requested alignment, from the first memory type
// that matches memoryTypeBits and requiredFlags. It panics if no memory type matches or the driver cannot
// allocate a new chunk: device memory exhaustion is not recoverable at this layer.
func (m *Manager) Allocate(memoryTypeBits uint32, requiredFlags core1_0.MemoryPropertyFlags, persistentMapped bool, size int, alignment uint) Block {
	m.logger.Debug("Manager::Allocate")

	m.mutex.Lock()
	defer m.mutex.Unlock()

	memoryTypeIndex, err := FindMemoryType(m.memoryProperties, memoryTypeBits, requiredFlags)
	if err != nil {
		panic(errors.Wrap(err, "attempting to allocate device memory"))
	}

	allocatorSet := m.allocatorSet(memoryTypeIndex, persistentMapped)
	block, _, err := allocatorSet.Allocate(size, alignment)
	if err != nil {
		panic(errors.Wrapf(err, "attempting to allocate %d bytes of device memory", size))
	}

	return block
}

// Free returns a block to the chunk it was carved from
func (m *Manager) Free(block Block) {
	m.logger.Debug("Manager::Free")

	m.mutex.Lock()
	defer m.mutex.Unlock()

	sets := m.unmapped
	if block.IsPersistentMapped() {
		sets = m.mapped
	}

	allocatorSet, ok := sets.Get(block.MemoryTypeIndex)
	if !ok {
		panic(errors.Newf("attempting to free a block from memory type %d, which has never been allocated from", block.MemoryTypeIndex))
	}

	allocatorSet.Free(block)
}

func (m *Manager) allocatorSet(memoryTypeIndex int, persistentMapped bool) *ChunkAllocatorSet {
	sets := m.unmapped
	chunkSize := m.unmappedChunkSize
	if persistentMapped {
		sets = m.mapped
		chunkSize = m.mappedChunkSize
	}

	allocatorSet, ok := sets.Get(memoryTypeIndex)
	if !ok {
		allocatorSet = &ChunkAllocatorSet{}
		allocatorSet.Init(m.logger, m.driver, memoryTypeIndex, persistentMapped, chunkSize)
		sets.Put(memoryTypeIndex, allocatorSet)
	}

	return allocatorSet
}

// ChunkCount returns the number of native allocations backing the given memory type and mapping mode
func (m *Manager) ChunkCount(memoryTypeIndex int, persistentMapped bool) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	sets := m.unmapped
	if persistentMapped {
		sets = m.mapped
	}

	allocatorSet, ok := sets.Get(memoryTypeIndex)
	if !ok {
		return 0
	}
	return allocatorSet.ChunkCount()
}

// CalculateStatistics fills stats with totals across every chunk owned by this manager
func (m *Manager) CalculateStatistics(stats *memutils.DetailedStatistics) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	stats.Clear()
	visit := func(memoryTypeIndex int, allocatorSet *ChunkAllocatorSet) bool {
		allocatorSet.AddDetailedStatistics(stats)
		return false
	}
	m.mapped.Iter(visit)
	m.unmapped.Iter(visit)
}

// Validate verifies the tiling of every chunk owned by this manager
func (m *Manager) Validate() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var err error
	visit := func(memoryTypeIndex int, allocatorSet *ChunkAllocatorSet) bool {
		err = allocatorSet.Validate()
		return err != nil
	}
	m.mapped.Iter(visit)
	if err != nil {
		return err
	}
	m.unmapped.Iter(visit)

	return err
}

// BuildStatsString returns a json document describing every chunk owned by this manager
func (m *Manager) BuildStatsString() string {
	var total memutils.DetailedStatistics
	m.CalculateStatistics(&total)

	m.mutex.Lock()
	defer m.mutex.Unlock()

	writer := jwriter.NewWriter()
	root := writer.Object()

	totalObj := root.Name("Total").Object()
	total.PrintJson(&totalObj)
	totalObj.End()

	m.printSets(&root, "Mapped", m.mapped)
	m.printSets(&root, "Unmapped", m.unmapped)

	root.End()
	return string(writer.Bytes())
}

func (m *Manager) printSets(root *jwriter.ObjectState, name string, sets *swiss.Map[int, *ChunkAllocatorSet]) {
	setsObj := root.Name(name).Object()
	defer setsObj.End()

	for typeIndex := range m.memoryProperties.MemoryTypes {
		allocatorSet, ok := sets.Get(typeIndex)
		if !ok {
			continue
		}

		typeObj := setsObj.Name(strconv.Itoa(typeIndex)).Object()
		typeObj.Name("PropertyFlags").String(m.memoryProperties.MemoryTypes[typeIndex].PropertyFlags.String())
		allocatorSet.PrintDetailedMap(&typeObj)
		typeObj.End()
	}
}

// Destroy frees every chunk owned by this manager
func (m *Manager) Destroy() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var err error
	destroy := func(memoryTypeIndex int, allocatorSet *ChunkAllocatorSet) bool {
		err = errors.CombineErrors(err, allocatorSet.Destroy())
		return false
	}
	m.mapped.Iter(destroy)
	m.unmapped.Iter(destroy)

	m.mapped = swiss.NewMap[int, *ChunkAllocatorSet](8)
	m.unmapped = swiss.NewMap[int, *ChunkAllocatorSet](8)

	return err
}
