package graphics

import (
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/gfx/descriptor"
	"github.com/vkngwrapper/gfx/memory"
)

// DeviceCreateFlags indicates specific device behaviors to activate or deactivate
type DeviceCreateFlags int32

var deviceCreateFlagsMapping = common.NewFlagStringMapping[DeviceCreateFlags]()

func (f DeviceCreateFlags) Register(str string) {
	deviceCreateFlagsMapping.Register(f, str)
}
func (f DeviceCreateFlags) String() string {
	return deviceCreateFlagsMapping.FlagsToString(f)
}

const (
	// DeviceCreateExternallySynchronized specifies that the GraphicsDevice and the managers it owns will
	// only be used from one goroutine at a time. All internal locks are disabled.
	DeviceCreateExternallySynchronized DeviceCreateFlags = 1 << iota
	// DeviceCreateDebug runs allocator validation after every retirement pass and logs every retired fence
	DeviceCreateDebug
)

func init() {
	DeviceCreateExternallySynchronized.Register("DeviceCreateExternallySynchronized")
	DeviceCreateDebug.Register("DeviceCreateDebug")
}

const (
	DefaultMinStagingBufferSize       int = 256
	DefaultMaxStagingBufferSize       int = 512
	DefaultMinStagingTextureDimension int = 256
	// sharedCommandPoolCacheSize is the number of one-shot command pools kept for reuse. Pools created
	// past this count are destroyed once their submission retires.
	sharedCommandPoolCacheSize int = 4
)

// DeviceOptions contains optional settings for a GraphicsDevice. Zero fields receive their defaults.
type DeviceOptions struct {
	Flags DeviceCreateFlags

	// MinStagingBufferSize is the smallest staging buffer ever created, so small uploads share buffers
	MinStagingBufferSize int
	// MaxStagingBufferSize is the largest staging buffer returned to the pool on retirement. Larger
	// staging buffers are destroyed instead.
	MaxStagingBufferSize int
	// MinStagingTextureDimension is the smallest width and height of a pooled staging texture
	MinStagingTextureDimension int

	Memory      memory.Options
	Descriptors descriptor.Options
}

func (o DeviceOptions) withDefaults() DeviceOptions {
	if o.MinStagingBufferSize == 0 {
		o.MinStagingBufferSize = DefaultMinStagingBufferSize
	}
	if o.MaxStagingBufferSize == 0 {
		o.MaxStagingBufferSize = DefaultMaxStagingBufferSize
	}
	if o.MinStagingTextureDimension == 0 {
		o.MinStagingTextureDimension = DefaultMinStagingTextureDimension
	}

	if o.Flags&DeviceCreateExternallySynchronized != 0 {
		o.Memory.ExternallySynchronized = true
		o.Descriptors.ExternallySynchronized = true
	}
	return o
}
