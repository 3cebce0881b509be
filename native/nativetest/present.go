package nativetest

import (
	"time"

	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gfx/native"
)

func (d *Driver) SurfaceCapabilities(surface native.Surface) (native.SurfaceCapabilities, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("SurfaceCapabilities", surface)
	if res, err := d.failure("SurfaceCapabilities"); err != nil {
		return native.SurfaceCapabilities{}, res, err
	}
	return d.Capabilities, core1_0.VKSuccess, nil
}

func (d *Driver) SurfaceFormats(surface native.Surface) ([]native.SurfaceFormat, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("SurfaceFormats", surface)
	return d.Formats, core1_0.VKSuccess, nil
}

func (d *Driver) SurfacePresentModes(surface native.Surface) ([]native.PresentMode, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("SurfacePresentModes", surface)
	return d.PresentModes, core1_0.VKSuccess, nil
}

// CreateSwapchain creates MinImageCount images for the new swapchain
func (d *Driver) CreateSwapchain(info native.SwapchainCreateInfo) (native.Swapchain, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("CreateSwapchain", info)
	if res, err := d.failure("CreateSwapchain"); err != nil {
		return 0, res, err
	}

	swapchain := native.Swapchain(d.create("Swapchain"))
	images := make([]native.Image, 0, info.MinImageCount)
	for i := 0; i < info.MinImageCount; i++ {
		d.nextHandle++
		image := native.Image(d.nextHandle)
		d.images[image] = &imageRecord{
			info: native.ImageCreateInfo{
				Type:        native.ImageType2D,
				Format:      info.ImageFormat,
				Extent:      native.Extent3D{Width: info.ImageExtent.Width, Height: info.ImageExtent.Height, Depth: 1},
				MipLevels:   1,
				ArrayLayers: 1,
				Samples:     1,
				Usage:       info.ImageUsage,
			},
		}
		images = append(images, image)
	}
	d.swapchainImages[swapchain] = images
	return swapchain, core1_0.VKSuccess, nil
}

func (d *Driver) DestroySwapchain(swapchain native.Swapchain) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("DestroySwapchain", swapchain)
	d.destroy("Swapchain", uint64(swapchain))
	for _, image := range d.swapchainImages[swapchain] {
		delete(d.images, image)
	}
	delete(d.swapchainImages, swapchain)
	delete(d.nextImage, swapchain)
}

func (d *Driver) SwapchainImages(swapchain native.Swapchain) ([]native.Image, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	images := make([]native.Image, len(d.swapchainImages[swapchain]))
	copy(images, d.swapchainImages[swapchain])
	return images, core1_0.VKSuccess, nil
}

func (d *Driver) popResult(results *[]common.VkResult) common.VkResult {
	if len(*results) == 0 {
		return core1_0.VKSuccess
	}

	res := (*results)[0]
	*results = (*results)[1:]
	return res
}

// AcquireNextImage hands out images round-robin and signals fence immediately. Results queued in
// AcquireResults are returned first; error results do not advance the image index.
func (d *Driver) AcquireNextImage(swapchain native.Swapchain, timeout time.Duration, fence native.Fence) (int, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("AcquireNextImage", swapchain, fence)

	res := d.popResult(&d.AcquireResults)
	if res < 0 {
		return 0, res, res.ToError()
	}

	images := d.swapchainImages[swapchain]
	index := d.nextImage[swapchain]
	d.nextImage[swapchain] = (index + 1) % len(images)

	if fence != 0 {
		d.fences[fence] = true
	}
	return index, res, nil
}

func (d *Driver) QueuePresent(queue native.Queue, swapchain native.Swapchain, imageIndex int) (common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("QueuePresent", queue, swapchain, imageIndex)

	res := d.popResult(&d.PresentResults)
	if res < 0 {
		return res, res.ToError()
	}
	return res, nil
}
