package descriptor

import (
	"github.com/vkngwrapper/gfx/native"
)

// pool is one fixed-capacity native descriptor pool and the capacity it has left
type pool struct {
	handle native.DescriptorPool

	remainingSets int
	remaining     ResourceCounts
}

func newPool(handle native.DescriptorPool, sets, descriptorsPerKind int) *pool {
	return &pool{
		handle:        handle,
		remainingSets: sets,
		remaining: ResourceCounts{
			UniformBufferCount: descriptorsPerKind,
			SampledImageCount:  descriptorsPerKind,
			SamplerCount:       descriptorsPerKind,
			StorageBufferCount: descriptorsPerKind,
			StorageImageCount:  descriptorsPerKind,
		},
	}
}

// reserve consumes capacity for one set. Nothing is consumed unless every counter can cover the request.
func (p *pool) reserve(counts ResourceCounts) bool {
	// Storage buffers are checked against their own counter. Checking them against the sampler
	// count would let the storage buffer counter underflow.
	if p.remainingSets <= 0 ||
		p.remaining.UniformBufferCount < counts.UniformBufferCount ||
		p.remaining.SampledImageCount < counts.SampledImageCount ||
		p.remaining.SamplerCount < counts.SamplerCount ||
		p.remaining.StorageBufferCount < counts.StorageBufferCount ||
		p.remaining.StorageImageCount < counts.StorageImageCount {
		return false
	}

	p.remainingSets--
	p.remaining.UniformBufferCount -= counts.UniformBufferCount
	p.remaining.SampledImageCount -= counts.SampledImageCount
	p.remaining.SamplerCount -= counts.SamplerCount
	p.remaining.StorageBufferCount -= counts.StorageBufferCount
	p.remaining.StorageImageCount -= counts.StorageImageCount
	return true
}

func (p *pool) release(counts ResourceCounts) {
	p.remainingSets++
	p.remaining.UniformBufferCount += counts.UniformBufferCount
	p.remaining.SampledImageCount += counts.SampledImageCount
	p.remaining.SamplerCount += counts.SamplerCount
	p.remaining.StorageBufferCount += counts.StorageBufferCount
	p.remaining.StorageImageCount += counts.StorageImageCount
}
