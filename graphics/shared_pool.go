package graphics

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfx/native"
)

// sharedCommandPool is a single-buffer command pool used for device-level work that has no
// CommandList of its own: buffer and texture uploads, clears and layout transitions
type sharedCommandPool struct {
	device        *GraphicsDevice
	pool          native.CommandPool
	commandBuffer native.CommandBuffer

	// cached pools return to the device on retirement; all others are destroyed
	cached bool
}

func (d *GraphicsDevice) getFreeCommandPool() (*sharedCommandPool, error) {
	d.mutex.Lock()
	if len(d.availableSharedPools) > 0 {
		last := len(d.availableSharedPools) - 1
		pool := d.availableSharedPools[last]
		d.availableSharedPools = d.availableSharedPools[:last]
		d.mutex.Unlock()
		return pool, nil
	}

	cached := d.sharedPoolCount < sharedCommandPoolCacheSize
	d.sharedPoolCount++
	d.mutex.Unlock()

	pool, err := d.newSharedCommandPool(cached)
	if err != nil {
		d.mutex.Lock()
		d.sharedPoolCount--
		d.mutex.Unlock()
		return nil, err
	}

	return pool, nil
}

func (d *GraphicsDevice) newSharedCommandPool(cached bool) (*sharedCommandPool, error) {
	commandPool, res, err := d.driver.CreateCommandPool(native.CommandPoolCreateInfo{
		Flags:            native.CommandPoolCreateTransient | native.CommandPoolCreateResetCommandBuffer,
		QueueFamilyIndex: d.info.GraphicsQueueFamilyIndex,
	})
	if err != nil {
		return nil, nativeError(res, err, "create a shared command pool")
	}

	commandBuffer, res, err := d.driver.AllocateCommandBuffer(commandPool)
	if err != nil {
		d.driver.DestroyCommandPool(commandPool)
		return nil, nativeError(res, err, "allocate a shared command buffer")
	}

	return &sharedCommandPool{
		device:        d,
		pool:          commandPool,
		commandBuffer: commandBuffer,
		cached:        cached,
	}, nil
}

func (p *sharedCommandPool) beginNewCommandBuffer() (native.CommandBuffer, error) {
	res, err := p.device.driver.BeginCommandBuffer(p.commandBuffer, native.CommandBufferUsageOneTimeSubmit)
	if err != nil {
		p.device.returnCommandPool(p)
		return 0, nativeError(res, err, "begin a shared command buffer")
	}

	return p.commandBuffer, nil
}

// endAndSubmit submits the pool's command buffer. The pool, along with any staging resources the
// commands read from, is held by the device until the submission retires.
func (p *sharedCommandPool) endAndSubmit(resources submissionResources) error {
	res, err := p.device.driver.EndCommandBuffer(p.commandBuffer)
	if err != nil {
		p.device.returnCommandPool(p)
		return errors.CombineErrors(nativeError(res, err, "end a shared command buffer"), p.device.recycleStaging(resources))
	}

	resources.sharedPool = p
	err = p.device.submitCommandBuffer(nil, p.commandBuffer, nil, resources)
	if err != nil {
		p.device.returnCommandPool(p)
		return errors.CombineErrors(errors.Wrap(err, "failed to submit a shared command buffer"), p.device.recycleStaging(resources))
	}

	return nil
}

// returnCommandPool puts a pool that never reached the queue back in the available list
func (d *GraphicsDevice) returnCommandPool(pool *sharedCommandPool) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.availableSharedPools = append(d.availableSharedPools, pool)
}

func (p *sharedCommandPool) destroy() {
	p.device.driver.FreeCommandBuffer(p.pool, p.commandBuffer)
	p.device.driver.DestroyCommandPool(p.pool)
}
