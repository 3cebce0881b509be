package graphics

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfx/format"
	"github.com/vkngwrapper/gfx/internal/arena"
	"github.com/vkngwrapper/gfx/native"
)

// FramebufferAttachmentDescription selects the mip level and native array layer of a texture that a
// framebuffer renders into
type FramebufferAttachmentDescription struct {
	Target     *Texture
	ArrayLayer int
	MipLevel   int
}

type FramebufferDescription struct {
	DepthTarget  *FramebufferAttachmentDescription
	ColorTargets []FramebufferAttachmentDescription
}

type framebufferAttachment struct {
	target     *Texture
	arrayLayer int
	mipLevel   int
}

func (a framebufferAttachment) transition(commandBuffer native.CommandBuffer, layout native.ImageLayout) {
	a.target.TransitionImageLayout(commandBuffer, a.mipLevel, 1, a.arrayLayer, 1, layout)
}

// Framebuffer is a set of render targets. It is either owned, rendering into textures the caller
// created, or backed by a swapchain, in which case its attachments change with the swapchain's
// current image.
type Framebuffer struct {
	device *GraphicsDevice
	handle arena.Handle

	owned     *ownedFramebuffer
	swapchain *swapchainFramebuffer
}

// ownedFramebuffer is one native framebuffer over a fixed attachment list, with the three render pass
// variants a CommandList chooses between when it opens a pass
type ownedFramebuffer struct {
	colorTargets []framebufferAttachment
	depthTarget  *framebufferAttachment

	renderPassInit  native.RenderPass
	renderPassLoad  native.RenderPass
	renderPassClear native.RenderPass

	attachmentViews []native.ImageView
	framebuffer     native.Framebuffer

	width  int
	height int
}

func (d *GraphicsDevice) CreateFramebuffer(description FramebufferDescription) (*Framebuffer, error) {
	d.logger.Debug("GraphicsDevice::CreateFramebuffer")

	colorTargets := make([]framebufferAttachment, 0, len(description.ColorTargets))
	for index, color := range description.ColorTargets {
		if color.Target == nil || color.Target.usage&TextureUsageRenderTarget == 0 {
			return nil, errors.Wrapf(ErrInvalidOperation, "color target %d is not a render target texture", index)
		}
		colorTargets = append(colorTargets, framebufferAttachment{
			target:     color.Target,
			arrayLayer: color.ArrayLayer,
			mipLevel:   color.MipLevel,
		})
	}

	var depthTarget *framebufferAttachment
	if description.DepthTarget != nil {
		if description.DepthTarget.Target == nil || description.DepthTarget.Target.usage&TextureUsageDepthStencil == 0 {
			return nil, errors.Wrap(ErrInvalidOperation, "the depth target is not a depth-stencil texture")
		}
		depthTarget = &framebufferAttachment{
			target:     description.DepthTarget.Target,
			arrayLayer: description.DepthTarget.ArrayLayer,
			mipLevel:   description.DepthTarget.MipLevel,
		}
	}

	if len(colorTargets) == 0 && depthTarget == nil {
		return nil, errors.Wrap(ErrInvalidOperation, "a framebuffer requires at least one attachment")
	}

	owned, err := d.newOwnedFramebuffer(colorTargets, depthTarget)
	if err != nil {
		return nil, err
	}

	framebuffer := &Framebuffer{device: d, owned: owned}
	framebuffer.handle = d.track(framebuffer)
	return framebuffer, nil
}

func (d *GraphicsDevice) newOwnedFramebuffer(colorTargets []framebufferAttachment, depthTarget *framebufferAttachment) (*ownedFramebuffer, error) {
	f := &ownedFramebuffer{
		colorTargets: colorTargets,
		depthTarget:  depthTarget,
	}

	var err error
	f.renderPassInit, err = d.createFramebufferRenderPass(colorTargets, depthTarget, native.AttachmentLoadOpDontCare)
	if err != nil {
		f.destroy(d.driver)
		return nil, err
	}
	f.renderPassLoad, err = d.createFramebufferRenderPass(colorTargets, depthTarget, native.AttachmentLoadOpLoad)
	if err != nil {
		f.destroy(d.driver)
		return nil, err
	}
	f.renderPassClear, err = d.createFramebufferRenderPass(colorTargets, depthTarget, native.AttachmentLoadOpClear)
	if err != nil {
		f.destroy(d.driver)
		return nil, err
	}

	for _, attachment := range f.attachments() {
		aspect := native.ImageAspectColor
		if attachment.target.usage&TextureUsageDepthStencil != 0 {
			aspect = native.ImageAspectDepth
		}

		view, err := d.createImageView(attachment.target, native.ImageViewType2D, native.ImageSubresourceRange{
			Aspect:         aspect,
			BaseMipLevel:   attachment.mipLevel,
			LevelCount:     1,
			BaseArrayLayer: attachment.arrayLayer,
			LayerCount:     1,
		})
		if err != nil {
			f.destroy(d.driver)
			return nil, err
		}
		f.attachmentViews = append(f.attachmentViews, view)
	}

	sizing := depthTarget
	if len(colorTargets) > 0 {
		sizing = &colorTargets[0]
	}
	f.width, f.height, _ = sizing.target.mipDimensions(sizing.mipLevel)

	framebuffer, res, err := d.driver.CreateFramebuffer(native.FramebufferCreateInfo{
		RenderPass:  f.renderPassInit,
		Attachments: f.attachmentViews,
		Width:       f.width,
		Height:      f.height,
		Layers:      1,
	})
	if err != nil {
		f.destroy(d.driver)
		return nil, nativeError(res, err, "create a framebuffer")
	}
	f.framebuffer = framebuffer

	return f, nil
}

// createFramebufferRenderPass creates one render pass variant. Load passes expect their attachments
// to already be in attachment layouts, the others discard previous contents.
func (d *GraphicsDevice) createFramebufferRenderPass(colorTargets []framebufferAttachment, depthTarget *framebufferAttachment, loadOp native.AttachmentLoadOp) (native.RenderPass, error) {
	colorInitial := native.ImageLayoutUndefined
	depthInitial := native.ImageLayoutUndefined
	if loadOp == native.AttachmentLoadOpLoad {
		colorInitial = native.ImageLayoutColorAttachmentOptimal
		depthInitial = native.ImageLayoutDepthStencilAttachmentOptimal
	}

	info := native.RenderPassCreateInfo{
		ColorAttachments: make([]native.AttachmentDescription, 0, len(colorTargets)),
	}
	for _, color := range colorTargets {
		info.ColorAttachments = append(info.ColorAttachments, native.AttachmentDescription{
			Format:         toNativeFormat(color.target.format),
			Samples:        color.target.sampleCount,
			LoadOp:         loadOp,
			StoreOp:        native.AttachmentStoreOpStore,
			StencilLoadOp:  native.AttachmentLoadOpDontCare,
			StencilStoreOp: native.AttachmentStoreOpDontCare,
			InitialLayout:  colorInitial,
			FinalLayout:    native.ImageLayoutColorAttachmentOptimal,
		})
	}

	if depthTarget != nil {
		stencilLoad := native.AttachmentLoadOpDontCare
		stencilStore := native.AttachmentStoreOpDontCare
		if format.IsStencil(depthTarget.target.format) {
			stencilLoad = loadOp
			stencilStore = native.AttachmentStoreOpStore
		}

		info.DepthAttachment = &native.AttachmentDescription{
			Format:         toNativeFormat(depthTarget.target.format),
			Samples:        depthTarget.target.sampleCount,
			LoadOp:         loadOp,
			StoreOp:        native.AttachmentStoreOpStore,
			StencilLoadOp:  stencilLoad,
			StencilStoreOp: stencilStore,
			InitialLayout:  depthInitial,
			FinalLayout:    native.ImageLayoutDepthStencilAttachmentOptimal,
		}
	}

	renderPass, res, err := d.driver.CreateRenderPass(info)
	if err != nil {
		return 0, nativeError(res, err, "create a framebuffer render pass")
	}
	return renderPass, nil
}

// attachments lists color targets followed by the depth target, the order clear values are given in
func (f *ownedFramebuffer) attachments() []framebufferAttachment {
	attachments := make([]framebufferAttachment, 0, len(f.colorTargets)+1)
	attachments = append(attachments, f.colorTargets...)
	if f.depthTarget != nil {
		attachments = append(attachments, *f.depthTarget)
	}
	return attachments
}

// destroy releases whatever native objects have been created so far. Null handles are ignored by the
// driver.
func (f *ownedFramebuffer) destroy(driver native.Driver) {
	driver.DestroyFramebuffer(f.framebuffer)
	for _, view := range f.attachmentViews {
		driver.DestroyImageView(view)
	}
	driver.DestroyRenderPass(f.renderPassInit)
	driver.DestroyRenderPass(f.renderPassLoad)
	driver.DestroyRenderPass(f.renderPassClear)
}

func (f *Framebuffer) current() *ownedFramebuffer {
	if f.swapchain != nil {
		return f.swapchain.framebuffers[f.swapchain.imageIndex]
	}
	return f.owned
}

// Width is the renderable width of the framebuffer's current attachments
func (f *Framebuffer) Width() int {
	return f.current().width
}

// Height is the renderable height of the framebuffer's current attachments
func (f *Framebuffer) Height() int {
	return f.current().height
}

func (f *Framebuffer) ColorTargetCount() int {
	return len(f.current().colorTargets)
}

func (f *Framebuffer) HasDepthTarget() bool {
	return f.current().depthTarget != nil
}

// ColorTarget returns the texture rendered into by the given color attachment
func (f *Framebuffer) ColorTarget(index int) *Texture {
	return f.current().colorTargets[index].target
}

func (f *Framebuffer) DepthTarget() *Texture {
	depth := f.current().depthTarget
	if depth == nil {
		return nil
	}
	return depth.target
}

func (f *Framebuffer) IsSwapchainFramebuffer() bool {
	return f.swapchain != nil
}

func (f *Framebuffer) Native() native.Framebuffer {
	return f.current().framebuffer
}

// attachmentCount is the number of clear values a pass over this framebuffer takes
func (f *Framebuffer) attachmentCount() int {
	current := f.current()
	if current.depthTarget != nil {
		return len(current.colorTargets) + 1
	}
	return len(current.colorTargets)
}

// setAttachmentLayouts records the final layouts every render pass variant leaves its attachments in
func (f *Framebuffer) setAttachmentLayouts() {
	current := f.current()
	for _, color := range current.colorTargets {
		color.target.setImageLayout(color.mipLevel, color.arrayLayer, native.ImageLayoutColorAttachmentOptimal)
	}
	if current.depthTarget != nil {
		current.depthTarget.target.setImageLayout(current.depthTarget.mipLevel, current.depthTarget.arrayLayer,
			native.ImageLayoutDepthStencilAttachmentOptimal)
	}
}

// transitionToAttachmentLayouts prepares the attachments for the load pass variant
func (f *Framebuffer) transitionToAttachmentLayouts(commandBuffer native.CommandBuffer) {
	current := f.current()
	for _, color := range current.colorTargets {
		color.transition(commandBuffer, native.ImageLayoutColorAttachmentOptimal)
	}
	if current.depthTarget != nil {
		current.depthTarget.transition(commandBuffer, native.ImageLayoutDepthStencilAttachmentOptimal)
	}
}

// transitionToFinalLayout moves swapchain images to the present layout and sampled attachments to the
// shader-read layout once rendering into them is over
func (f *Framebuffer) transitionToFinalLayout(commandBuffer native.CommandBuffer) {
	current := f.current()

	if f.swapchain != nil {
		for _, color := range current.colorTargets {
			color.transition(commandBuffer, native.ImageLayoutPresentSrc)
		}
		return
	}

	for _, attachment := range current.attachments() {
		if attachment.target.usage&TextureUsageSampled != 0 {
			attachment.transition(commandBuffer, native.ImageLayoutShaderReadOnlyOptimal)
		}
	}
}

// Destroy destroys an owned framebuffer. Swapchain framebuffers are destroyed with their swapchain.
func (f *Framebuffer) Destroy() error {
	f.device.logger.Debug("Framebuffer::Destroy")

	if f.swapchain != nil {
		return errors.Wrap(ErrInvalidOperation, "swapchain framebuffers are destroyed with their swapchain")
	}
	if !f.device.untrack(f.handle) {
		panic("attempting to destroy a framebuffer that has already been destroyed")
	}
	return f.release()
}

func (f *Framebuffer) resourceKind() string {
	return kindFramebuffer
}

func (f *Framebuffer) release() error {
	f.owned.destroy(f.device.driver)
	return nil
}

// swapchainFramebuffer holds one owned framebuffer per swapchain image, all sharing a single depth
// texture
type swapchainFramebuffer struct {
	colorTextures []*Texture
	depthTexture  *Texture
	framebuffers  []*ownedFramebuffer
	imageIndex    int
}

func (d *GraphicsDevice) newSwapchainFramebuffer(images []native.Image, colorFormat format.PixelFormat, width, height int, depthFormat *format.PixelFormat) (*swapchainFramebuffer, error) {
	f := &swapchainFramebuffer{}

	if depthFormat != nil {
		depth, err := d.newTexture(TextureDescription{
			Width:       width,
			Height:      height,
			Depth:       1,
			MipLevels:   1,
			ArrayLayers: 1,
			Format:      *depthFormat,
			Usage:       TextureUsageDepthStencil,
			Type:        TextureType2D,
			SampleCount: 1,
		})
		if err != nil {
			return nil, err
		}
		f.depthTexture = depth

		err = depth.clearIfRenderTarget()
		if err != nil {
			return nil, errors.CombineErrors(err, f.destroy(d.driver))
		}
	}

	for _, image := range images {
		color := d.newSwapchainTexture(image, colorFormat, width, height, TextureUsageRenderTarget)
		f.colorTextures = append(f.colorTextures, color)

		var depthTarget *framebufferAttachment
		if f.depthTexture != nil {
			depthTarget = &framebufferAttachment{target: f.depthTexture}
		}

		framebuffer, err := d.newOwnedFramebuffer([]framebufferAttachment{{target: color}}, depthTarget)
		if err != nil {
			return nil, errors.CombineErrors(err, f.destroy(d.driver))
		}
		f.framebuffers = append(f.framebuffers, framebuffer)
	}

	return f, nil
}

func (f *swapchainFramebuffer) destroy(driver native.Driver) error {
	for _, framebuffer := range f.framebuffers {
		framebuffer.destroy(driver)
	}
	f.framebuffers = nil
	f.colorTextures = nil

	if f.depthTexture == nil {
		return nil
	}
	err := f.depthTexture.release()
	f.depthTexture = nil
	return err
}
