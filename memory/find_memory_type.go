package memory

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// ErrNoSuitableMemoryType is returned from FindMemoryType when no memory type matches the request
var ErrNoSuitableMemoryType = errors.New("no suitable memory type")

// FindMemoryType returns the index of the first memory type whose bit is set in memoryTypeBits and
// whose property flags include every flag in requiredFlags
func FindMemoryType(properties *core1_0.PhysicalDeviceMemoryProperties, memoryTypeBits uint32, requiredFlags core1_0.MemoryPropertyFlags) (int, error) {
	for typeIndex, memoryType := range properties.MemoryTypes {
		if memoryTypeBits&(1<<uint(typeIndex)) == 0 {
			continue
		}

		if memoryType.PropertyFlags&requiredFlags == requiredFlags {
			return typeIndex, nil
		}
	}

	return -1, errors.Wrapf(ErrNoSuitableMemoryType, "memory type bits %#x with required flags %s", memoryTypeBits, requiredFlags)
}
