package nativetest

import (
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gfx/native"
)

func (d *Driver) allMemoryTypes() uint32 {
	return uint32(1)<<uint(len(d.Properties.MemoryTypes)) - 1
}

func (d *Driver) CreateBuffer(info native.BufferCreateInfo) (native.Buffer, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("CreateBuffer", info)
	if res, err := d.failure("CreateBuffer"); err != nil {
		return 0, res, err
	}

	buffer := native.Buffer(d.create("Buffer"))
	d.buffers[buffer] = &bufferRecord{size: info.Size}
	return buffer, core1_0.VKSuccess, nil
}

func (d *Driver) DestroyBuffer(buffer native.Buffer) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("DestroyBuffer", buffer)
	d.destroy("Buffer", uint64(buffer))
	delete(d.buffers, buffer)
}

func (d *Driver) BufferMemoryRequirements(buffer native.Buffer) core1_0.MemoryRequirements {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return core1_0.MemoryRequirements{
		Size:           d.lookupBuffer(buffer).size,
		Alignment:      d.BufferAlignment,
		MemoryTypeBits: d.allMemoryTypes(),
	}
}

func (d *Driver) BindBufferMemory(buffer native.Buffer, memory native.DeviceMemory, offset int) (common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("BindBufferMemory", buffer, memory, offset)
	record := d.lookupBuffer(buffer)
	record.memory = memory
	record.offset = offset
	return core1_0.VKSuccess, nil
}

func (d *Driver) CreateImage(info native.ImageCreateInfo) (native.Image, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("CreateImage", info)
	if res, err := d.failure("CreateImage"); err != nil {
		return 0, res, err
	}

	image := native.Image(d.create("Image"))
	d.images[image] = &imageRecord{info: info}
	return image, core1_0.VKSuccess, nil
}

func (d *Driver) DestroyImage(image native.Image) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("DestroyImage", image)
	d.destroy("Image", uint64(image))
	delete(d.images, image)
}

// ImageMemoryRequirements reports a generous 16 bytes per texel for every mip and layer
func (d *Driver) ImageMemoryRequirements(image native.Image) core1_0.MemoryRequirements {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	info := d.images[image].info
	texels := info.Extent.Width * info.Extent.Height * info.Extent.Depth
	return core1_0.MemoryRequirements{
		Size:           texels * 16 * info.MipLevels * info.ArrayLayers,
		Alignment:      d.BufferAlignment,
		MemoryTypeBits: d.allMemoryTypes(),
	}
}

func (d *Driver) BindImageMemory(image native.Image, memory native.DeviceMemory, offset int) (common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("BindImageMemory", image, memory, offset)
	record := d.images[image]
	record.memory = memory
	record.offset = offset
	return core1_0.VKSuccess, nil
}

// ImageSubresourceLayout lays subresources out tightly at 4 bytes per texel, layer-major
func (d *Driver) ImageSubresourceLayout(image native.Image, subresource native.ImageSubresource) native.SubresourceLayout {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	info := d.images[image].info
	offset := 0
	var layout native.SubresourceLayout
	for layer := 0; layer < info.ArrayLayers; layer++ {
		for mip := 0; mip < info.MipLevels; mip++ {
			width := maxInt(1, info.Extent.Width>>uint(mip))
			height := maxInt(1, info.Extent.Height>>uint(mip))
			depth := maxInt(1, info.Extent.Depth>>uint(mip))

			size := width * height * depth * 4
			if layer == subresource.ArrayLayer && mip == subresource.MipLevel {
				layout = native.SubresourceLayout{
					Offset:     offset,
					Size:       size,
					RowPitch:   width * 4,
					DepthPitch: width * height * 4,
					ArrayPitch: size,
				}
			}
			offset += size
		}
	}
	return layout
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (d *Driver) CreateImageView(info native.ImageViewCreateInfo) (native.ImageView, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("CreateImageView", info)
	if res, err := d.failure("CreateImageView"); err != nil {
		return 0, res, err
	}
	return native.ImageView(d.create("ImageView")), core1_0.VKSuccess, nil
}

func (d *Driver) DestroyImageView(view native.ImageView) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("DestroyImageView", view)
	d.destroy("ImageView", uint64(view))
}

func (d *Driver) CreateSampler(info native.SamplerCreateInfo) (native.Sampler, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("CreateSampler", info)
	if res, err := d.failure("CreateSampler"); err != nil {
		return 0, res, err
	}
	return native.Sampler(d.create("Sampler")), core1_0.VKSuccess, nil
}

func (d *Driver) DestroySampler(sampler native.Sampler) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("DestroySampler", sampler)
	d.destroy("Sampler", uint64(sampler))
}
