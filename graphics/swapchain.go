package graphics

import (
	"context"
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/extensions/v2/khr_swapchain"
	"github.com/vkngwrapper/gfx/format"
	"github.com/vkngwrapper/gfx/internal/arena"
	"github.com/vkngwrapper/gfx/native"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

const acquireTimeout = time.Duration(math.MaxInt64)

// SwapchainDescription describes a Swapchain to create over a surface the caller obtained from its
// window system. Zero Width and Height use the surface's current extent.
type SwapchainDescription struct {
	Surface             native.Surface
	Width               int
	Height              int
	DepthFormat         *format.PixelFormat
	SyncToVerticalBlank bool
}

// Swapchain presents rendered images to a surface. Its Framebuffer always targets the image most
// recently acquired from the native swapchain.
type Swapchain struct {
	device *GraphicsDevice
	handle arena.Handle

	surface             native.Surface
	swapchain           native.Swapchain
	framebuffer         *Framebuffer
	imageAvailableFence native.Fence
	depthFormat         *format.PixelFormat

	width               int
	height              int
	syncToVerticalBlank bool
	recreatePending     bool
}

func (d *GraphicsDevice) CreateSwapchain(description SwapchainDescription) (*Swapchain, error) {
	d.logger.Debug("GraphicsDevice::CreateSwapchain")

	if !slices.Contains(d.info.Extensions, khr_swapchain.ExtensionName) {
		return nil, errors.Wrapf(ErrUnsupportedSystem, "the device does not support %s", khr_swapchain.ExtensionName)
	}

	fence, res, err := d.driver.CreateFence(false)
	if err != nil {
		return nil, nativeError(res, err, "create the image-available fence")
	}

	swapchain := &Swapchain{
		device:              d,
		surface:             description.Surface,
		framebuffer:         &Framebuffer{device: d, swapchain: &swapchainFramebuffer{}},
		imageAvailableFence: fence,
		depthFormat:         description.DepthFormat,
		width:               description.Width,
		height:              description.Height,
		syncToVerticalBlank: description.SyncToVerticalBlank,
	}

	err = swapchain.recreate()
	if err == nil {
		err = swapchain.acquireFirstImage()
	}
	if err != nil {
		return nil, errors.CombineErrors(err, swapchain.release())
	}

	swapchain.handle = d.track(swapchain)
	return swapchain, nil
}

// recreate creates a new native swapchain, retiring the previous one along with its framebuffers
func (s *Swapchain) recreate() error {
	d := s.device

	capabilities, res, err := d.driver.SurfaceCapabilities(s.surface)
	if err != nil {
		return nativeError(res, err, "query surface capabilities")
	}

	surfaceFormats, res, err := d.driver.SurfaceFormats(s.surface)
	if err != nil {
		return nativeError(res, err, "query surface formats")
	}
	surfaceFormat, err := chooseSurfaceFormat(surfaceFormats)
	if err != nil {
		return err
	}

	presentModes, res, err := d.driver.SurfacePresentModes(s.surface)
	if err != nil {
		return nativeError(res, err, "query surface present modes")
	}

	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 {
		imageCount = minInt(imageCount, capabilities.MaxImageCount)
	}

	extent := s.chooseExtent(capabilities)

	oldSwapchain := s.swapchain
	if oldSwapchain != 0 {
		// The old swapchain's images may still be read by in-flight presentation work
		err = d.WaitForIdle()
		if err != nil {
			return err
		}
	}

	nativeSwapchain, res, err := d.driver.CreateSwapchain(native.SwapchainCreateInfo{
		Surface:       s.surface,
		MinImageCount: imageCount,
		ImageFormat:   surfaceFormat.Format,
		ColorSpace:    surfaceFormat.ColorSpace,
		ImageExtent:   extent,
		ImageUsage:    native.ImageUsageColorAttachment | native.ImageUsageTransferSrc | native.ImageUsageTransferDst,
		PresentMode:   choosePresentMode(presentModes, s.syncToVerticalBlank),
		Clipped:       true,
		OldSwapchain:  oldSwapchain,
	})
	if err != nil {
		return nativeError(res, err, "create a swapchain")
	}

	err = s.framebuffer.swapchain.destroy(d.driver)
	if oldSwapchain != 0 {
		d.driver.DestroySwapchain(oldSwapchain)
	}
	s.swapchain = nativeSwapchain
	if err != nil {
		return err
	}

	images, res, err := d.driver.SwapchainImages(nativeSwapchain)
	if err != nil {
		return nativeError(res, err, "get swapchain images")
	}

	framebuffer, err := d.newSwapchainFramebuffer(images, fromNativeFormat(surfaceFormat.Format), extent.Width, extent.Height, s.depthFormat)
	if err != nil {
		return err
	}
	s.framebuffer.swapchain = framebuffer
	s.recreatePending = false

	d.logger.LogAttrs(context.Background(), slog.LevelDebug, "    Created swapchain",
		slog.Int("Images", len(images)),
		slog.Int("Width", extent.Width),
		slog.Int("Height", extent.Height))

	return nil
}

// chooseSurfaceFormat prefers 8-bit BGRA in the sRGB-nonlinear color space. A surface reporting a
// single undefined format accepts anything.
func chooseSurfaceFormat(formats []native.SurfaceFormat) (native.SurfaceFormat, error) {
	preferred := native.SurfaceFormat{Format: native.FormatB8G8R8A8UNorm, ColorSpace: native.ColorSpaceSRGBNonlinear}

	if len(formats) == 0 {
		return native.SurfaceFormat{}, errors.Wrap(ErrUnsupportedSystem, "the surface reports no formats")
	}
	if len(formats) == 1 && formats[0].Format == native.FormatUndefined {
		return preferred, nil
	}
	for _, surfaceFormat := range formats {
		if surfaceFormat == preferred {
			return surfaceFormat, nil
		}
	}

	for _, surfaceFormat := range formats {
		if _, ok := pixelFormats[surfaceFormat.Format]; ok {
			return surfaceFormat, nil
		}
	}
	return native.SurfaceFormat{}, errors.Wrap(ErrUnsupportedSystem, "the surface reports no usable formats")
}

func choosePresentMode(modes []native.PresentMode, syncToVerticalBlank bool) native.PresentMode {
	if syncToVerticalBlank {
		if slices.Contains(modes, native.PresentModeFIFORelaxed) {
			return native.PresentModeFIFORelaxed
		}
		return native.PresentModeFIFO
	}

	if slices.Contains(modes, native.PresentModeMailbox) {
		return native.PresentModeMailbox
	}
	if slices.Contains(modes, native.PresentModeImmediate) {
		return native.PresentModeImmediate
	}
	return native.PresentModeFIFO
}

func (s *Swapchain) chooseExtent(capabilities native.SurfaceCapabilities) native.Extent2D {
	width, height := s.width, s.height
	if width == 0 || height == 0 {
		width = capabilities.CurrentExtent.Width
		height = capabilities.CurrentExtent.Height
	}

	return native.Extent2D{
		Width:  maxInt(capabilities.MinImageExtent.Width, minInt(capabilities.MaxImageExtent.Width, width)),
		Height: maxInt(capabilities.MinImageExtent.Height, minInt(capabilities.MaxImageExtent.Height, height)),
	}
}

func (s *Swapchain) acquireFirstImage() error {
	acquired, err := s.acquireNextImage()
	if err == nil && !acquired {
		acquired, err = s.acquireNextImage()
	}
	if err == nil && !acquired {
		err = errors.Wrap(ErrSwapchainLost, "the swapchain stayed out of date after being recreated")
	}
	return err
}

// acquireNextImage acquires the next image and waits until it is ready to be rendered into. It
// returns false when the swapchain was out of date or suboptimal and had to be recreated, in which
// case no image was acquired.
func (s *Swapchain) acquireNextImage() (bool, error) {
	d := s.device

	if s.recreatePending {
		err := s.recreate()
		if err != nil {
			return false, err
		}
	}

	imageIndex, res, err := d.driver.AcquireNextImage(s.swapchain, acquireTimeout, s.imageAvailableFence)
	if res == khr_swapchain.VKErrorOutOfDate || res == khr_swapchain.VKSuboptimal {
		if res == khr_swapchain.VKSuboptimal {
			// A suboptimal acquire still signals the fence, which must be unsignaled before it is reused
			err = s.waitForImage()
			if err != nil {
				return false, err
			}
		}

		return false, s.recreate()
	}
	if err != nil {
		return false, nativeError(res, err, "acquire the next swapchain image")
	}

	err = s.waitForImage()
	if err != nil {
		return false, err
	}

	s.framebuffer.swapchain.imageIndex = imageIndex
	return true, nil
}

func (s *Swapchain) waitForImage() error {
	d := s.device

	res, err := d.driver.WaitForFences([]native.Fence{s.imageAvailableFence}, true, acquireTimeout)
	if err != nil {
		return nativeError(res, err, "wait for the image-available fence")
	}
	res, err = d.driver.ResetFences([]native.Fence{s.imageAvailableFence})
	if err != nil {
		return nativeError(res, err, "reset the image-available fence")
	}
	return nil
}

// SwapBuffers presents the swapchain's current image and acquires the next one
func (d *GraphicsDevice) SwapBuffers(swapchain *Swapchain) error {
	d.logger.Debug("GraphicsDevice::SwapBuffers")

	d.queueMutex.Lock()
	res, err := d.driver.QueuePresent(d.info.PresentQueue, swapchain.swapchain, swapchain.framebuffer.swapchain.imageIndex)
	d.queueMutex.Unlock()

	if err != nil && res != khr_swapchain.VKErrorOutOfDate {
		return nativeError(res, err, "present a swapchain image")
	}

	acquired, err := swapchain.acquireNextImage()
	if err == nil && !acquired {
		acquired, err = swapchain.acquireNextImage()
	}
	if err != nil {
		return err
	}
	if !acquired {
		return errors.Wrap(ErrSwapchainLost, "the swapchain stayed out of date after being recreated")
	}
	return nil
}

// Framebuffer targets the swapchain's current image. It remains valid across resizes.
func (s *Swapchain) Framebuffer() *Framebuffer {
	return s.framebuffer
}

// Resize changes the size of the swapchain's images, starting with the next acquired image
func (s *Swapchain) Resize(width, height int) {
	s.device.logger.Debug("Swapchain::Resize")

	s.width = width
	s.height = height
	s.recreatePending = true
}

func (s *Swapchain) SyncToVerticalBlank() bool {
	return s.syncToVerticalBlank
}

// SetSyncToVerticalBlank changes the present mode, starting with the next acquired image
func (s *Swapchain) SetSyncToVerticalBlank(sync bool) {
	if s.syncToVerticalBlank == sync {
		return
	}

	s.syncToVerticalBlank = sync
	s.recreatePending = true
}

func (s *Swapchain) Native() native.Swapchain {
	return s.swapchain
}

// Destroy waits for the device to go idle, then destroys the swapchain and its framebuffer
func (s *Swapchain) Destroy() error {
	s.device.logger.Debug("Swapchain::Destroy")

	if !s.device.untrack(s.handle) {
		panic("attempting to destroy a swapchain that has already been destroyed")
	}

	err := s.device.WaitForIdle()
	return errors.CombineErrors(err, s.release())
}

func (s *Swapchain) resourceKind() string {
	return kindSwapchain
}

func (s *Swapchain) release() error {
	err := s.framebuffer.swapchain.destroy(s.device.driver)
	s.device.driver.DestroySwapchain(s.swapchain)
	s.device.driver.DestroyFence(s.imageAvailableFence)
	s.swapchain = 0
	s.imageAvailableFence = 0
	return err
}
