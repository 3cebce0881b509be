package graphics

import (
	"time"

	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gfx/internal/arena"
	"github.com/vkngwrapper/gfx/native"
)

// Fence is a caller-visible fence that can be passed to SubmitCommands
type Fence struct {
	device *GraphicsDevice
	handle arena.Handle
	fence  native.Fence
}

// CreateFence creates a Fence, optionally already signaled
func (d *GraphicsDevice) CreateFence(signaled bool) (*Fence, error) {
	d.logger.Debug("GraphicsDevice::CreateFence")

	nativeFence, res, err := d.driver.CreateFence(signaled)
	if err != nil {
		return nil, nativeError(res, err, "create a fence")
	}

	fence := &Fence{device: d, fence: nativeFence}
	fence.handle = d.track(fence)
	return fence, nil
}

// Signaled reports whether the fence is signaled without blocking
func (f *Fence) Signaled() (bool, error) {
	signaled, res, err := f.device.driver.GetFenceStatus(f.fence)
	if err != nil {
		return false, nativeError(res, err, "query a fence")
	}
	return signaled, nil
}

// Wait blocks until the fence is signaled or timeout passes. It returns false on timeout.
func (f *Fence) Wait(timeout time.Duration) (bool, error) {
	res, err := f.device.driver.WaitForFences([]native.Fence{f.fence}, true, timeout)
	if err != nil {
		return false, nativeError(res, err, "wait for a fence")
	}
	return res != core1_0.VKTimeout, nil
}

// Reset returns the fence to the unsignaled state
func (f *Fence) Reset() error {
	res, err := f.device.driver.ResetFences([]native.Fence{f.fence})
	if err != nil {
		return nativeError(res, err, "reset a fence")
	}
	return nil
}

func (f *Fence) Native() native.Fence {
	return f.fence
}

func (f *Fence) Destroy() error {
	f.device.logger.Debug("Fence::Destroy")

	if !f.device.untrack(f.handle) {
		panic("attempting to destroy a fence that has already been destroyed")
	}
	return f.release()
}

func (f *Fence) resourceKind() string {
	return kindFence
}

func (f *Fence) release() error {
	f.device.driver.DestroyFence(f.fence)
	return nil
}
