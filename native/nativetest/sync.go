package nativetest

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gfx/native"
)

func (d *Driver) CreateFence(signaled bool) (native.Fence, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("CreateFence", signaled)
	if res, err := d.failure("CreateFence"); err != nil {
		return 0, res, err
	}

	fence := native.Fence(d.create("Fence"))
	d.fences[fence] = signaled
	return fence, core1_0.VKSuccess, nil
}

func (d *Driver) DestroyFence(fence native.Fence) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("DestroyFence", fence)
	d.destroy("Fence", uint64(fence))
	delete(d.fences, fence)
}

func (d *Driver) GetFenceStatus(fence native.Fence) (bool, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	signaled, ok := d.fences[fence]
	if !ok {
		return false, core1_0.VKErrorUnknown, errors.Newf("nativetest: fence %d is not live", fence)
	}
	return signaled, core1_0.VKSuccess, nil
}

// WaitForFences completes all pending work, since nothing else would ever signal the fences
func (d *Driver) WaitForFences(fences []native.Fence, waitAll bool, timeout time.Duration) (common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("WaitForFences", fences, waitAll)
	d.completePendingWork()

	for _, fence := range fences {
		signaled := d.fences[fence]
		if !signaled && waitAll {
			return core1_0.VKTimeout, nil
		}
		if signaled && !waitAll {
			return core1_0.VKSuccess, nil
		}
	}

	if !waitAll && len(fences) > 0 {
		return core1_0.VKTimeout, nil
	}
	return core1_0.VKSuccess, nil
}

func (d *Driver) ResetFences(fences []native.Fence) (common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("ResetFences", fences)
	for _, fence := range fences {
		d.fences[fence] = false
	}
	return core1_0.VKSuccess, nil
}

func (d *Driver) QueueSubmit(queue native.Queue, submits []native.SubmitInfo, fence native.Fence) (common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("QueueSubmit", queue, submits, fence)
	if res, err := d.failure("QueueSubmit"); err != nil {
		return res, err
	}

	if fence != 0 {
		if d.AutoSignal {
			d.fences[fence] = true
		} else {
			d.pendingFences = append(d.pendingFences, fence)
		}
	}
	return core1_0.VKSuccess, nil
}

func (d *Driver) QueueWaitIdle(queue native.Queue) (common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("QueueWaitIdle", queue)
	d.completePendingWork()
	return core1_0.VKSuccess, nil
}
