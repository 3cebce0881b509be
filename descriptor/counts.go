package descriptor

import (
	"github.com/vkngwrapper/gfx/native"
)

// ResourceCounts is the number of descriptors of each kind consumed by one descriptor set
type ResourceCounts struct {
	UniformBufferCount int
	SampledImageCount  int
	SamplerCount       int
	StorageBufferCount int
	StorageImageCount  int
}

// CountBindings totals the descriptors declared by a set layout's bindings
func CountBindings(bindings []native.DescriptorSetLayoutBinding) ResourceCounts {
	var counts ResourceCounts
	for _, binding := range bindings {
		count := binding.DescriptorCount
		if count == 0 {
			count = 1
		}

		switch binding.DescriptorType {
		case native.DescriptorTypeUniformBuffer:
			counts.UniformBufferCount += count
		case native.DescriptorTypeSampledImage:
			counts.SampledImageCount += count
		case native.DescriptorTypeSampler:
			counts.SamplerCount += count
		case native.DescriptorTypeStorageBuffer:
			counts.StorageBufferCount += count
		case native.DescriptorTypeStorageImage:
			counts.StorageImageCount += count
		default:
			panic("attempting to count an unknown descriptor type: " + binding.DescriptorType.String())
		}
	}

	return counts
}

func (c ResourceCounts) fitsWithin(limit int) bool {
	return c.UniformBufferCount <= limit &&
		c.SampledImageCount <= limit &&
		c.SamplerCount <= limit &&
		c.StorageBufferCount <= limit &&
		c.StorageImageCount <= limit
}

// AllocationToken identifies an allocated descriptor set and the pool it must be freed back to
type AllocationToken struct {
	Set  native.DescriptorSet
	Pool native.DescriptorPool
}
