package graphics

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfx/native"
	"golang.org/x/exp/slog"
)

// submissionResources are kept alive by a submission until its fence retires
type submissionResources struct {
	stagingBuffers []*DeviceBuffer
	stagingTexture *Texture
	sharedPool     *sharedCommandPool
}

type retiredSubmission struct {
	fence native.Fence
	submission
}

// SubmitCommands submits the most recently ended recording of commandList. If fence is not nil, it is
// signaled once the commands complete.
func (d *GraphicsDevice) SubmitCommands(commandList *CommandList, fence *Fence) error {
	d.logger.Debug("GraphicsDevice::SubmitCommands")

	commandBuffer, err := commandList.pendingSubmission()
	if err != nil {
		return err
	}

	return d.submitCommandBuffer(commandList, commandBuffer, fence, submissionResources{})
}

func (d *GraphicsDevice) freeSubmissionFence() (native.Fence, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(d.availableFences) > 0 {
		fence := d.availableFences[0]
		d.availableFences = d.availableFences[1:]
		return fence, nil
	}

	fence, res, err := d.driver.CreateFence(false)
	if err != nil {
		return 0, nativeError(res, err, "create a submission fence")
	}
	return fence, nil
}

func (d *GraphicsDevice) returnSubmissionFence(fence native.Fence) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.availableFences = append(d.availableFences, fence)
}

// submitCommandBuffer submits a single command buffer and tracks it with a fence from the device's pool.
// Earlier submissions are retired first. A caller fence is signaled by an empty submission queued after
// the work, so the work is always tracked even if signaling the caller's fence fails.
func (d *GraphicsDevice) submitCommandBuffer(commandList *CommandList, commandBuffer native.CommandBuffer, fence *Fence, resources submissionResources) error {
	err := d.checkSubmittedFences()
	if err != nil {
		return err
	}

	submissionFence, err := d.freeSubmissionFence()
	if err != nil {
		return err
	}

	d.queueMutex.Lock()
	defer d.queueMutex.Unlock()

	submits := []native.SubmitInfo{
		{
			WaitDstStageMask: native.PipelineStageColorAttachmentOutput,
			CommandBuffers:   []native.CommandBuffer{commandBuffer},
		},
	}

	res, err := d.driver.QueueSubmit(d.info.GraphicsQueue, submits, submissionFence)
	if err != nil {
		d.returnSubmissionFence(submissionFence)
		return nativeError(res, err, "submit commands")
	}

	d.recordSubmission(submissionFence, commandList, commandBuffer, resources)

	if fence != nil {
		res, err = d.driver.QueueSubmit(d.info.GraphicsQueue, nil, fence.fence)
		if err != nil {
			return nativeError(res, err, "signal the caller's fence")
		}
	}

	return nil
}

func (d *GraphicsDevice) recordSubmission(submissionFence native.Fence, commandList *CommandList, commandBuffer native.CommandBuffer, resources submissionResources) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if commandList != nil {
		commandList.commandBufferSubmitted(commandBuffer)
	}

	d.submittedFences.Put(submissionFence, submission{commandList: commandList, commandBuffer: commandBuffer})
	if len(resources.stagingBuffers) > 0 {
		d.submittedStagingBuffers.Put(commandBuffer, resources.stagingBuffers)
	}
	if resources.stagingTexture != nil {
		d.submittedStagingTextures.Put(commandBuffer, resources.stagingTexture)
	}
	if resources.sharedPool != nil {
		d.submittedSharedPools.Put(commandBuffer, resources.sharedPool)
	}
}

// checkSubmittedFences polls every tracked fence without blocking and retires the submissions whose
// fences have signaled
func (d *GraphicsDevice) checkSubmittedFences() error {
	var err error
	var oversizedBuffers []*DeviceBuffer
	var uncachedPools []*sharedCommandPool
	var disposedLists []*CommandList

	d.mutex.Lock()

	var retired []retiredSubmission
	d.submittedFences.Iter(func(fence native.Fence, sub submission) bool {
		signaled, res, statusErr := d.driver.GetFenceStatus(fence)
		if statusErr != nil {
			err = errors.CombineErrors(err, nativeError(res, statusErr, "query a submission fence"))
			return false
		}

		if signaled {
			retired = append(retired, retiredSubmission{fence: fence, submission: sub})
		}
		return false
	})

	for _, sub := range retired {
		d.submittedFences.Delete(sub.fence)

		if sub.commandList != nil {
			oversizedBuffers = append(oversizedBuffers, sub.commandList.commandBufferCompleted(sub.commandBuffer)...)
		}

		res, resetErr := d.driver.ResetFences([]native.Fence{sub.fence})
		if resetErr != nil {
			err = errors.CombineErrors(err, nativeError(res, resetErr, "reset a submission fence"))
			d.driver.DestroyFence(sub.fence)
		} else {
			d.availableFences = append(d.availableFences, sub.fence)
		}

		stagingTexture, ok := d.submittedStagingTextures.Get(sub.commandBuffer)
		if ok {
			d.submittedStagingTextures.Delete(sub.commandBuffer)
		}
		stagingBuffers, ok := d.submittedStagingBuffers.Get(sub.commandBuffer)
		if ok {
			d.submittedStagingBuffers.Delete(sub.commandBuffer)
		}
		oversizedBuffers = append(oversizedBuffers, d.recycleStagingLocked(stagingBuffers, stagingTexture)...)

		pool, ok := d.submittedSharedPools.Get(sub.commandBuffer)
		if ok {
			d.submittedSharedPools.Delete(sub.commandBuffer)
			if pool.cached {
				d.availableSharedPools = append(d.availableSharedPools, pool)
			} else {
				d.sharedPoolCount--
				uncachedPools = append(uncachedPools, pool)
			}
		}

		if sub.commandList != nil && sub.commandList.outstandingSubmissions() == 0 {
			_, disposed := d.disposedCommandLists.Get(sub.commandList)
			if disposed {
				d.disposedCommandLists.Delete(sub.commandList)
				disposedLists = append(disposedLists, sub.commandList)
			}
		}
	}

	d.mutex.Unlock()

	for _, buffer := range oversizedBuffers {
		err = errors.CombineErrors(err, buffer.release())
	}
	for _, pool := range uncachedPools {
		pool.destroy()
	}
	for _, commandList := range disposedLists {
		d.logger.LogAttrs(context.Background(), slog.LevelDebug, "    Retired disposed command list",
			slog.Int("CommandBuffers", commandList.commandBufferCount()))
		err = errors.CombineErrors(err, commandList.retire())
	}

	if len(retired) > 0 && d.options.Flags&DeviceCreateDebug != 0 {
		d.logger.LogAttrs(context.Background(), slog.LevelDebug, "    Retired submissions",
			slog.Int("Count", len(retired)),
			slog.Int("OversizedStagingBuffers", len(oversizedBuffers)))

		validateErr := d.memory.Validate()
		if validateErr != nil {
			panic(errors.Wrap(validateErr, "attempting to retire submissions left device memory inconsistent"))
		}
	}

	return err
}

// enqueueDisposedCommandList retires commandList once none of its submissions are in flight
func (d *GraphicsDevice) enqueueDisposedCommandList(commandList *CommandList) error {
	d.mutex.Lock()
	if commandList.outstandingSubmissions() > 0 {
		d.disposedCommandLists.Put(commandList, struct{}{})
		d.mutex.Unlock()
		return nil
	}
	d.mutex.Unlock()

	return commandList.retire()
}

// WaitForIdle blocks until the device has finished all submitted work, then retires it
func (d *GraphicsDevice) WaitForIdle() error {
	d.logger.Debug("GraphicsDevice::WaitForIdle")

	d.queueMutex.Lock()
	res, err := d.driver.QueueWaitIdle(d.info.GraphicsQueue)
	d.queueMutex.Unlock()

	if err != nil {
		return nativeError(res, err, "wait for the device to go idle")
	}

	return d.checkSubmittedFences()
}
