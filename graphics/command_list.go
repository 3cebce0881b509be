package graphics

import (
	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/gfx/internal/arena"
	"github.com/vkngwrapper/gfx/internal/utils"
	"github.com/vkngwrapper/gfx/native"
	"golang.org/x/exp/slices"
)

type recordingState int

const (
	recordingStateInitial recordingState = iota
	recordingStateRecording
	recordingStateEnded
	recordingStateSubmitted
)

// boundResourceSets tracks the resource sets bound at one pipeline bind point. Sets are bound natively
// only when a draw or dispatch needs them, in contiguous runs of dirty slots.
type boundResourceSets struct {
	sets     []*ResourceSet
	changed  []bool
	newCount int
}

func (b *boundResourceSets) reset(count int) {
	b.sets = make([]*ResourceSet, count)
	b.changed = make([]bool, count)
	b.newCount = 0
}

func (b *boundResourceSets) set(slot int, set *ResourceSet) {
	if b.sets[slot] == set {
		return
	}

	b.sets[slot] = set
	if !b.changed[slot] {
		b.changed[slot] = true
		b.newCount++
	}
}

// CommandList records commands into native command buffers drawn from its own command pool. A
// CommandList may be recorded, submitted and recorded again while earlier recordings are still in
// flight; each recording gets a command buffer of its own.
//
// A CommandList must only be recorded from one goroutine at a time.
type CommandList struct {
	device *GraphicsDevice
	handle arena.Handle
	pool   native.CommandPool

	// mutex guards the command buffer lists and the staging pool, which are also touched by fence
	// retirement
	mutex                   utils.OptionalMutex
	available               []native.CommandBuffer
	submitted               []native.CommandBuffer
	availableStagingBuffers []*DeviceBuffer
	submittedStagingBuffers *swiss.Map[native.CommandBuffer, []*DeviceBuffer]

	state         recordingState
	commandBuffer native.CommandBuffer
	disposed      bool

	// stagingBuffers hold the data of UpdateBuffer calls made during the current recording
	stagingBuffers []*DeviceBuffer

	framebuffer           *Framebuffer
	framebufferEverActive bool
	activeRenderPass      native.RenderPass
	clearValues           []native.ClearValue
	validClearValues      []bool
	scissorRects          []native.Rect2D

	graphicsPipeline     *Pipeline
	graphicsResourceSets boundResourceSets
	computePipeline      *Pipeline
	computeResourceSets  boundResourceSets
}

func (d *GraphicsDevice) CreateCommandList() (*CommandList, error) {
	d.logger.Debug("GraphicsDevice::CreateCommandList")

	pool, res, err := d.driver.CreateCommandPool(native.CommandPoolCreateInfo{
		Flags:            native.CommandPoolCreateResetCommandBuffer,
		QueueFamilyIndex: d.info.GraphicsQueueFamilyIndex,
	})
	if err != nil {
		return nil, nativeError(res, err, "create a command pool")
	}

	commandList := &CommandList{
		device:                  d,
		pool:                    pool,
		mutex:                   utils.OptionalMutex{UseMutex: d.options.Flags&DeviceCreateExternallySynchronized == 0},
		submittedStagingBuffers: swiss.NewMap[native.CommandBuffer, []*DeviceBuffer](4),
	}
	commandList.handle = d.track(commandList)
	return commandList, nil
}

// Begin starts a new recording. A recording that was ended but never submitted is discarded and its
// command buffer is reused.
func (c *CommandList) Begin() error {
	c.device.logger.Debug("CommandList::Begin")

	if c.disposed {
		return errors.Wrap(ErrInvalidOperation, "the command list has been disposed")
	}

	switch c.state {
	case recordingStateRecording:
		return errors.Wrap(ErrInvalidOperation, "the command list is already recording")

	case recordingStateEnded:
		c.mutex.Lock()
		oversized := c.device.poolStagingBuffers(&c.availableStagingBuffers, c.stagingBuffers)
		c.mutex.Unlock()
		c.stagingBuffers = nil

		for _, buffer := range oversized {
			err := buffer.release()
			if err != nil {
				return err
			}
		}

	default:
		commandBuffer, err := c.nextCommandBuffer()
		if err != nil {
			return err
		}
		c.commandBuffer = commandBuffer
	}

	res, err := c.device.driver.BeginCommandBuffer(c.commandBuffer, 0)
	if err != nil {
		return nativeError(res, err, "begin a command buffer")
	}

	c.state = recordingStateRecording
	c.framebuffer = nil
	c.framebufferEverActive = false
	c.activeRenderPass = 0
	c.clearValues = nil
	c.validClearValues = nil
	c.scissorRects = nil
	c.graphicsPipeline = nil
	c.graphicsResourceSets.reset(0)
	c.computePipeline = nil
	c.computeResourceSets.reset(0)

	return nil
}

func (c *CommandList) nextCommandBuffer() (native.CommandBuffer, error) {
	c.mutex.Lock()
	if len(c.available) > 0 {
		last := len(c.available) - 1
		commandBuffer := c.available[last]
		c.available = c.available[:last]
		c.mutex.Unlock()
		return commandBuffer, nil
	}
	c.mutex.Unlock()

	commandBuffer, res, err := c.device.driver.AllocateCommandBuffer(c.pool)
	if err != nil {
		return 0, nativeError(res, err, "allocate a command buffer")
	}
	return commandBuffer, nil
}

// End finishes the current recording. A framebuffer that was set but never rendered to still has its
// render pass opened and closed, so queued clears are applied.
func (c *CommandList) End() error {
	c.device.logger.Debug("CommandList::End")

	err := c.checkRecording()
	if err != nil {
		return err
	}

	c.finishFramebuffer()

	res, err := c.device.driver.EndCommandBuffer(c.commandBuffer)
	if err != nil {
		return nativeError(res, err, "end a command buffer")
	}

	c.state = recordingStateEnded
	return nil
}

func (c *CommandList) checkRecording() error {
	if c.state != recordingStateRecording {
		return errors.Wrap(ErrInvalidOperation, "the command list is not recording")
	}
	return nil
}

// SetPipeline binds a graphics or compute pipeline. Resource sets bound at the pipeline's bind point
// are forgotten and must be set again.
func (c *CommandList) SetPipeline(pipeline *Pipeline) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}

	if pipeline.IsComputePipeline() {
		if c.computePipeline == pipeline {
			return nil
		}
		c.computeResourceSets.reset(pipeline.resourceSetCount)
		c.computePipeline = pipeline
	} else {
		if c.graphicsPipeline == pipeline {
			return nil
		}
		c.graphicsResourceSets.reset(pipeline.resourceSetCount)
		c.graphicsPipeline = pipeline
	}

	c.device.driver.CmdBindPipeline(c.commandBuffer, pipeline.bindPoint, pipeline.pipeline)
	return nil
}

func (c *CommandList) SetGraphicsResourceSet(slot int, set *ResourceSet) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}
	if c.graphicsPipeline == nil {
		return errors.Wrap(ErrInvalidOperation, "a graphics pipeline must be set before its resource sets")
	}

	return setResourceSet(&c.graphicsResourceSets, slot, set)
}

func (c *CommandList) SetComputeResourceSet(slot int, set *ResourceSet) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}
	if c.computePipeline == nil {
		return errors.Wrap(ErrInvalidOperation, "a compute pipeline must be set before its resource sets")
	}

	return setResourceSet(&c.computeResourceSets, slot, set)
}

func setResourceSet(bound *boundResourceSets, slot int, set *ResourceSet) error {
	if set == nil {
		return errors.Wrap(ErrInvalidOperation, "a resource set cannot be unbound")
	}
	if slot < 0 || slot >= len(bound.sets) {
		return errors.Wrapf(ErrInvalidOperation, "resource set slot %d is out of range for a pipeline with %d sets",
			slot, len(bound.sets))
	}

	bound.set(slot, set)
	return nil
}

// flushNewResourceSets binds every dirty slot, issuing one native call per run of adjacent dirty slots
func (c *CommandList) flushNewResourceSets(bound *boundResourceSets, pipeline *Pipeline) {
	if bound.newCount == 0 {
		return
	}

	remaining := bound.newCount
	slot := 0
	for remaining > 0 && slot < len(bound.sets) {
		first := slot
		var run []native.DescriptorSet
		for slot < len(bound.sets) && bound.changed[slot] {
			bound.changed[slot] = false
			run = append(run, bound.sets[slot].token.Set)
			slot++
		}

		if len(run) > 0 {
			c.device.driver.CmdBindDescriptorSets(c.commandBuffer, pipeline.bindPoint, pipeline.layout, first, run)
			remaining -= len(run)
		}
		slot++
	}

	bound.newCount = 0
}

// transitionBoundTextures moves the textures of every bound set into the layouts their slots declare.
// Layout transitions cannot be recorded inside a render pass, so an open pass is ended first.
func (c *CommandList) transitionBoundTextures(bound *boundResourceSets) {
	var sampled, storage []*TextureView
	for _, set := range bound.sets {
		if set == nil {
			continue
		}
		for _, view := range set.sampledTextures {
			if view.needsTransition(native.ImageLayoutShaderReadOnlyOptimal) {
				sampled = append(sampled, view)
			}
		}
		for _, view := range set.storageTextures {
			if view.needsTransition(native.ImageLayoutGeneral) {
				storage = append(storage, view)
			}
		}
	}

	if len(sampled) == 0 && len(storage) == 0 {
		return
	}

	c.ensureNoRenderPass()
	for _, view := range sampled {
		view.transition(c.commandBuffer, native.ImageLayoutShaderReadOnlyOptimal)
	}
	for _, view := range storage {
		view.transition(c.commandBuffer, native.ImageLayoutGeneral)
	}
}

func (c *CommandList) preDrawCommand() error {
	err := c.checkRecording()
	if err != nil {
		return err
	}
	if c.framebuffer == nil {
		return errors.Wrap(ErrInvalidOperation, "a framebuffer must be set before drawing")
	}
	if c.graphicsPipeline == nil {
		return errors.Wrap(ErrInvalidOperation, "a graphics pipeline must be set before drawing")
	}

	c.transitionBoundTextures(&c.graphicsResourceSets)
	c.ensureRenderPassActive()
	c.flushNewResourceSets(&c.graphicsResourceSets, c.graphicsPipeline)

	if !c.graphicsPipeline.scissorTestEnabled {
		c.setFullScissorRects()
	}

	return nil
}

func (c *CommandList) Draw(vertexCount, instanceCount, vertexStart, instanceStart int) error {
	err := c.preDrawCommand()
	if err != nil {
		return err
	}

	c.device.driver.CmdDraw(c.commandBuffer, vertexCount, instanceCount, vertexStart, instanceStart)
	return nil
}

func (c *CommandList) DrawIndexed(indexCount, instanceCount, indexStart, vertexOffset, instanceStart int) error {
	err := c.preDrawCommand()
	if err != nil {
		return err
	}

	c.device.driver.CmdDrawIndexed(c.commandBuffer, indexCount, instanceCount, indexStart, vertexOffset, instanceStart)
	return nil
}

// Dispatch runs the bound compute pipeline. Dispatches are recorded outside of any render pass.
func (c *CommandList) Dispatch(groupCountX, groupCountY, groupCountZ int) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}
	if c.computePipeline == nil {
		return errors.Wrap(ErrInvalidOperation, "a compute pipeline must be set before dispatching")
	}

	c.ensureNoRenderPass()
	c.transitionBoundTextures(&c.computeResourceSets)
	c.flushNewResourceSets(&c.computeResourceSets, c.computePipeline)

	c.device.driver.CmdDispatch(c.commandBuffer, groupCountX, groupCountY, groupCountZ)
	return nil
}

func (c *CommandList) SetVertexBuffer(index int, buffer *DeviceBuffer, offset int) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}
	if buffer.usage&BufferUsageVertexBuffer == 0 {
		return errors.Wrap(ErrInvalidOperation, "the buffer was not created with BufferUsageVertexBuffer")
	}

	c.device.driver.CmdBindVertexBuffer(c.commandBuffer, index, buffer.buffer, offset)
	return nil
}

func (c *CommandList) SetIndexBuffer(buffer *DeviceBuffer, indexType native.IndexType, offset int) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}
	if buffer.usage&BufferUsageIndexBuffer == 0 {
		return errors.Wrap(ErrInvalidOperation, "the buffer was not created with BufferUsageIndexBuffer")
	}

	c.device.driver.CmdBindIndexBuffer(c.commandBuffer, buffer.buffer, offset, indexType)
	return nil
}

// pendingSubmission returns the ended recording's command buffer
func (c *CommandList) pendingSubmission() (native.CommandBuffer, error) {
	switch c.state {
	case recordingStateEnded:
		return c.commandBuffer, nil
	case recordingStateSubmitted:
		return 0, errors.Wrap(ErrInvalidOperation, "the command list's last recording was already submitted")
	default:
		return 0, errors.Wrap(ErrInvalidOperation, "the command list has no ended recording to submit")
	}
}

// getFreeStagingBuffer returns the first buffer of at least size bytes from the command list's own
// staging pool, or creates a new one
func (c *CommandList) getFreeStagingBuffer(size int) (*DeviceBuffer, error) {
	c.mutex.Lock()
	buffer := takeStagingBuffer(&c.availableStagingBuffers, size)
	c.mutex.Unlock()

	if buffer != nil {
		return buffer, nil
	}
	return c.device.newStagingBuffer(size)
}

// commandBufferSubmitted is called by the device, with its mutex held, once commandBuffer is on the
// queue. The recording's staging buffers stay out of the pool until the submission completes.
func (c *CommandList) commandBufferSubmitted(commandBuffer native.CommandBuffer) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.submitted = append(c.submitted, commandBuffer)
	c.state = recordingStateSubmitted
	if len(c.stagingBuffers) > 0 {
		c.submittedStagingBuffers.Put(commandBuffer, c.stagingBuffers)
	}
	c.stagingBuffers = nil
}

// commandBufferCompleted is called by the device, with its mutex held, when the fence of a submission
// of commandBuffer has signaled. Staging buffers too large to pool are returned for release.
func (c *CommandList) commandBufferCompleted(commandBuffer native.CommandBuffer) (oversized []*DeviceBuffer) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	index := slices.Index(c.submitted, commandBuffer)
	if index < 0 {
		panic("attempting to complete a command buffer that was not submitted by this command list")
	}
	c.submitted = slices.Delete(c.submitted, index, index+1)
	c.available = append(c.available, commandBuffer)

	stagingBuffers, ok := c.submittedStagingBuffers.Get(commandBuffer)
	if !ok {
		return nil
	}
	c.submittedStagingBuffers.Delete(commandBuffer)
	return c.device.poolStagingBuffers(&c.availableStagingBuffers, stagingBuffers)
}

func (c *CommandList) outstandingSubmissions() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.submitted)
}

func (c *CommandList) commandBufferCount() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := len(c.available) + len(c.submitted)
	if c.commandBuffer != 0 && c.state != recordingStateSubmitted {
		count++
	}
	return count
}

// Dispose requests destruction of the command list. The native objects are destroyed once no
// submission of the command list is in flight.
func (c *CommandList) Dispose() error {
	c.device.logger.Debug("CommandList::Dispose")

	if !c.device.untrack(c.handle) {
		panic("attempting to dispose a command list that has already been disposed")
	}
	c.disposed = true
	return c.device.enqueueDisposedCommandList(c)
}

func (c *CommandList) resourceKind() string {
	return kindCommandList
}

func (c *CommandList) release() error {
	c.disposed = true
	return c.retire()
}

// retire frees every command buffer and the pool. It must only run once no submission is in flight.
func (c *CommandList) retire() error {
	c.mutex.Lock()
	commandBuffers := c.available
	if c.commandBuffer != 0 && c.state != recordingStateSubmitted {
		commandBuffers = append(commandBuffers, c.commandBuffer)
	}
	if len(c.submitted) > 0 {
		c.mutex.Unlock()
		panic("attempting to retire a command list with submissions in flight")
	}
	stagingBuffers := append(c.availableStagingBuffers, c.stagingBuffers...)
	c.available = nil
	c.commandBuffer = 0
	c.availableStagingBuffers = nil
	c.stagingBuffers = nil
	c.mutex.Unlock()

	for _, commandBuffer := range commandBuffers {
		c.device.driver.FreeCommandBuffer(c.pool, commandBuffer)
	}
	c.device.driver.DestroyCommandPool(c.pool)

	var err error
	for _, buffer := range stagingBuffers {
		err = errors.CombineErrors(err, buffer.release())
	}
	return err
}
