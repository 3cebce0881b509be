package graphics

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfx/native"
)

// SetFramebuffer makes framebuffer the target of subsequent draws. No render pass is opened until a
// draw needs one, so clears issued before the first draw are folded into the pass where possible.
func (c *CommandList) SetFramebuffer(framebuffer *Framebuffer) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}
	if framebuffer == nil {
		return errors.Wrap(ErrInvalidOperation, "the framebuffer cannot be nil")
	}

	c.finishFramebuffer()

	c.framebuffer = framebuffer
	c.framebufferEverActive = false

	attachmentCount := framebuffer.attachmentCount()
	c.clearValues = make([]native.ClearValue, attachmentCount)
	c.validClearValues = make([]bool, attachmentCount)
	c.scissorRects = make([]native.Rect2D, maxInt(1, framebuffer.ColorTargetCount()))

	c.setFullViewports()
	c.setFullScissorRects()
	return nil
}

// finishFramebuffer closes out rendering into the current framebuffer. Queued clears are applied even
// if nothing was drawn, and the attachments are moved to their final layouts.
func (c *CommandList) finishFramebuffer() {
	if c.framebuffer == nil {
		return
	}

	if !c.framebufferEverActive {
		c.beginCurrentRenderPass()
	}
	c.ensureNoRenderPass()
	c.framebuffer.transitionToFinalLayout(c.commandBuffer)
}

func (c *CommandList) ensureRenderPassActive() {
	if c.activeRenderPass == 0 {
		c.beginCurrentRenderPass()
	}
}

func (c *CommandList) ensureNoRenderPass() {
	if c.activeRenderPass != 0 {
		c.endCurrentRenderPass()
	}
}

// beginCurrentRenderPass opens a pass over the current framebuffer. The clear variant is used when every
// attachment has a queued clear. Otherwise the first activation discards previous contents, later ones
// load them, and queued clears are applied with an explicit clear once the pass is open.
func (c *CommandList) beginCurrentRenderPass() {
	current := c.framebuffer.current()

	haveAnyAttachments := len(c.validClearValues) > 0
	haveAllClearValues := true
	haveAnyClearValues := false
	for _, valid := range c.validClearValues {
		haveAllClearValues = haveAllClearValues && valid
		haveAnyClearValues = haveAnyClearValues || valid
	}

	info := native.RenderPassBeginInfo{
		Framebuffer: current.framebuffer,
		RenderArea:  native.Rect2D{Width: current.width, Height: current.height},
	}

	switch {
	case haveAnyAttachments && haveAllClearValues:
		info.RenderPass = current.renderPassClear
		info.ClearValues = make([]native.ClearValue, len(c.clearValues))
		copy(info.ClearValues, c.clearValues)
	case !c.framebufferEverActive:
		info.RenderPass = current.renderPassInit
	default:
		info.RenderPass = current.renderPassLoad
		c.framebuffer.transitionToAttachmentLayouts(c.commandBuffer)
	}

	c.device.driver.CmdBeginRenderPass(c.commandBuffer, info)
	c.activeRenderPass = info.RenderPass
	c.framebufferEverActive = true

	if haveAnyClearValues && !haveAllClearValues {
		var attachments []native.ClearAttachment
		for index, valid := range c.validClearValues {
			if !valid {
				continue
			}

			if index < len(current.colorTargets) {
				attachments = append(attachments, native.ClearAttachment{
					Aspect:          native.ImageAspectColor,
					ColorAttachment: index,
					Value:           c.clearValues[index],
				})
			} else {
				attachments = append(attachments, native.ClearAttachment{
					Aspect: current.depthTarget.target.aspect(),
					Value:  c.clearValues[index],
				})
			}
		}

		c.device.driver.CmdClearAttachments(c.commandBuffer, attachments, []native.ClearRect{
			{
				Rect:       native.Rect2D{Width: current.width, Height: current.height},
				LayerCount: 1,
			},
		})
	}

	for index := range c.validClearValues {
		c.validClearValues[index] = false
	}
}

// endCurrentRenderPass closes the open pass, followed by a full execution barrier so later passes can
// safely read what this one wrote
func (c *CommandList) endCurrentRenderPass() {
	c.device.driver.CmdEndRenderPass(c.commandBuffer)
	c.framebuffer.setAttachmentLayouts()
	c.activeRenderPass = 0

	c.device.driver.CmdPipelineBarrier(c.commandBuffer, native.PipelineStageBottomOfPipe, native.PipelineStageTopOfPipe, nil)
}

// ClearColorTarget clears one color attachment of the current framebuffer. Outside a render pass the
// clear is queued until the pass opens.
func (c *CommandList) ClearColorTarget(index int, color [4]float32) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}
	if c.framebuffer == nil {
		return errors.Wrap(ErrInvalidOperation, "a framebuffer must be set before clearing it")
	}
	if index < 0 || index >= c.framebuffer.ColorTargetCount() {
		return errors.Wrapf(ErrInvalidOperation, "color target %d is out of range for a framebuffer with %d color targets",
			index, c.framebuffer.ColorTargetCount())
	}

	value := native.ClearValue{Color: color}
	if c.activeRenderPass == 0 {
		c.clearValues[index] = value
		c.validClearValues[index] = true
		return nil
	}

	c.device.driver.CmdClearAttachments(c.commandBuffer,
		[]native.ClearAttachment{{Aspect: native.ImageAspectColor, ColorAttachment: index, Value: value}},
		[]native.ClearRect{c.fullClearRect()})
	return nil
}

// ClearDepthStencil clears the depth target of the current framebuffer, and its stencil plane if it
// has one
func (c *CommandList) ClearDepthStencil(depth float32, stencil uint32) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}
	if c.framebuffer == nil || !c.framebuffer.HasDepthTarget() {
		return errors.Wrap(ErrInvalidOperation, "the current framebuffer has no depth target")
	}

	value := native.ClearValue{Depth: depth, Stencil: stencil}
	if c.activeRenderPass == 0 {
		index := len(c.clearValues) - 1
		c.clearValues[index] = value
		c.validClearValues[index] = true
		return nil
	}

	c.device.driver.CmdClearAttachments(c.commandBuffer,
		[]native.ClearAttachment{{Aspect: c.framebuffer.DepthTarget().aspect(), Value: value}},
		[]native.ClearRect{c.fullClearRect()})
	return nil
}

func (c *CommandList) fullClearRect() native.ClearRect {
	return native.ClearRect{
		Rect:       native.Rect2D{Width: c.framebuffer.Width(), Height: c.framebuffer.Height()},
		LayerCount: 1,
	}
}

func (c *CommandList) SetViewport(index int, viewport native.Viewport) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}

	c.device.driver.CmdSetViewport(c.commandBuffer, index, viewport)
	return nil
}

// SetFullViewports sets the viewport of every color target to the whole framebuffer
func (c *CommandList) SetFullViewports() error {
	err := c.checkRecording()
	if err != nil {
		return err
	}
	if c.framebuffer == nil {
		return errors.Wrap(ErrInvalidOperation, "a framebuffer must be set before its viewports")
	}

	c.setFullViewports()
	return nil
}

func (c *CommandList) setFullViewports() {
	viewport := native.Viewport{
		Width:    float32(c.framebuffer.Width()),
		Height:   float32(c.framebuffer.Height()),
		MaxDepth: 1,
	}
	for index := 0; index < maxInt(1, c.framebuffer.ColorTargetCount()); index++ {
		c.device.driver.CmdSetViewport(c.commandBuffer, index, viewport)
	}
}

// SetScissorRect sets the scissor rect of one color target. Setting the rect already in place records
// nothing.
func (c *CommandList) SetScissorRect(index, x, y, width, height int) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(c.scissorRects) {
		return errors.Wrapf(ErrInvalidOperation, "scissor rect %d is out of range", index)
	}

	c.setScissorRect(index, native.Rect2D{X: x, Y: y, Width: width, Height: height})
	return nil
}

func (c *CommandList) SetFullScissorRects() error {
	err := c.checkRecording()
	if err != nil {
		return err
	}
	if c.framebuffer == nil {
		return errors.Wrap(ErrInvalidOperation, "a framebuffer must be set before its scissor rects")
	}

	c.setFullScissorRects()
	return nil
}

func (c *CommandList) setFullScissorRects() {
	full := native.Rect2D{Width: c.framebuffer.Width(), Height: c.framebuffer.Height()}
	for index := range c.scissorRects {
		c.setScissorRect(index, full)
	}
}

func (c *CommandList) setScissorRect(index int, rect native.Rect2D) {
	if c.scissorRects[index] == rect {
		return
	}

	c.scissorRects[index] = rect
	c.device.driver.CmdSetScissor(c.commandBuffer, index, rect)
}
