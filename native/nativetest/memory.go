package nativetest

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gfx/native"
)

func (d *Driver) MemoryProperties() *core1_0.PhysicalDeviceMemoryProperties {
	return d.Properties
}

func (d *Driver) AllocateMemory(info core1_0.MemoryAllocateInfo) (native.DeviceMemory, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("AllocateMemory", info)
	if res, err := d.failure("AllocateMemory"); err != nil {
		return 0, res, err
	}

	memory := native.DeviceMemory(d.create("DeviceMemory"))
	d.memory[memory] = make([]byte, info.AllocationSize)
	return memory, core1_0.VKSuccess, nil
}

func (d *Driver) FreeMemory(memory native.DeviceMemory) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("FreeMemory", memory)
	d.destroy("DeviceMemory", uint64(memory))
	delete(d.memory, memory)
}

func (d *Driver) MapMemory(memory native.DeviceMemory, offset int, size int) (unsafe.Pointer, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("MapMemory", memory, offset, size)
	if res, err := d.failure("MapMemory"); err != nil {
		return nil, res, err
	}

	backing, ok := d.memory[memory]
	if !ok {
		return nil, core1_0.VKErrorMemoryMapFailed, errors.Newf("nativetest: memory %d is not live", memory)
	}
	if offset+size > len(backing) {
		return nil, core1_0.VKErrorMemoryMapFailed, errors.Newf("nativetest: mapping %d bytes at offset %d overruns a %d-byte allocation", size, offset, len(backing))
	}

	return mappedPointer(backing, offset), core1_0.VKSuccess, nil
}

func (d *Driver) UnmapMemory(memory native.DeviceMemory) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("UnmapMemory", memory)
}
