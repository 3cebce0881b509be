package graphics

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gfx/format"
	"github.com/vkngwrapper/gfx/internal/arena"
	"github.com/vkngwrapper/gfx/memory"
	"github.com/vkngwrapper/gfx/native"
)

// TextureUsage describes how a Texture will be used
type TextureUsage int32

var textureUsageMapping = common.NewFlagStringMapping[TextureUsage]()

func (f TextureUsage) Register(str string) {
	textureUsageMapping.Register(f, str)
}
func (f TextureUsage) String() string {
	return textureUsageMapping.FlagsToString(f)
}

const (
	TextureUsageSampled TextureUsage = 1 << iota
	TextureUsageStorage
	TextureUsageRenderTarget
	TextureUsageDepthStencil
	TextureUsageCubemap
	// TextureUsageStaging textures are linear, host-visible copy sources and destinations. They are
	// backed by a buffer rather than a native image.
	TextureUsageStaging
)

func init() {
	TextureUsageSampled.Register("Sampled")
	TextureUsageStorage.Register("Storage")
	TextureUsageRenderTarget.Register("RenderTarget")
	TextureUsageDepthStencil.Register("DepthStencil")
	TextureUsageCubemap.Register("Cubemap")
	TextureUsageStaging.Register("Staging")
}

// TextureType is the dimensionality of a Texture
type TextureType int32

const (
	TextureType1D TextureType = iota
	TextureType2D
	TextureType3D
)

var textureTypeMapping = map[TextureType]string{
	TextureType1D: "Texture1D",
	TextureType2D: "Texture2D",
	TextureType3D: "Texture3D",
}

func (t TextureType) String() string {
	str, ok := textureTypeMapping[t]
	if !ok {
		return "unknown TextureType"
	}
	return str
}

// TextureDescription describes a Texture to create. ArrayLayers counts whole cubes for cubemaps.
type TextureDescription struct {
	Width       int
	Height      int
	Depth       int
	MipLevels   int
	ArrayLayers int
	Format      format.PixelFormat
	Usage       TextureUsage
	Type        TextureType
	SampleCount int
}

// Texture is either a native image bound to a block of device-local memory, a staging texture backed
// by a mapped buffer, or an image owned by a swapchain.
type Texture struct {
	device *GraphicsDevice
	handle arena.Handle

	width       int
	height      int
	depth       int
	mipLevels   int
	arrayLayers int
	format      format.PixelFormat
	usage       TextureUsage
	textureType TextureType
	sampleCount int

	image          native.Image
	block          memory.Block
	stagingBuffer  *DeviceBuffer
	swapchainImage bool

	// layouts holds the current layout of every subresource, indexed by layer*mipLevels + mip
	layouts []native.ImageLayout
}

// CreateTexture creates a Texture. Render targets and depth-stencil textures are cleared to zero
// before CreateTexture returns.
func (d *GraphicsDevice) CreateTexture(description TextureDescription) (*Texture, error) {
	d.logger.Debug("GraphicsDevice::CreateTexture")

	if description.Width <= 0 || description.Height <= 0 || description.Depth <= 0 {
		return nil, errors.Wrapf(ErrInvalidOperation, "texture dimensions must be positive, but were %dx%dx%d",
			description.Width, description.Height, description.Depth)
	}
	if description.MipLevels <= 0 || description.ArrayLayers <= 0 {
		return nil, errors.Wrapf(ErrInvalidOperation, "a texture must have at least one mip level and array layer")
	}

	texture, err := d.newTexture(description)
	if err != nil {
		return nil, err
	}

	err = texture.clearIfRenderTarget()
	if err != nil {
		return nil, errors.CombineErrors(err, texture.release())
	}

	texture.handle = d.track(texture)
	return texture, nil
}

func (d *GraphicsDevice) newTexture(description TextureDescription) (*Texture, error) {
	texture := &Texture{
		device:      d,
		width:       description.Width,
		height:      description.Height,
		depth:       description.Depth,
		mipLevels:   description.MipLevels,
		arrayLayers: description.ArrayLayers,
		format:      description.Format,
		usage:       description.Usage,
		textureType: description.Type,
		sampleCount: description.SampleCount,
	}
	if texture.sampleCount == 0 {
		texture.sampleCount = 1
	}

	if texture.isStaging() {
		size := 0
		for mip := 0; mip < texture.mipLevels; mip++ {
			width, height, depth := texture.mipDimensions(mip)
			size += format.RegionSize(width, height, depth, texture.format)
		}
		size *= texture.actualArrayLayers()

		stagingBuffer, err := d.newDeviceBuffer(BufferDescription{SizeInBytes: size, Usage: BufferUsageStaging})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create the buffer backing a staging texture")
		}
		texture.stagingBuffer = stagingBuffer
		return texture, nil
	}

	usage := native.ImageUsageTransferSrc | native.ImageUsageTransferDst
	if texture.usage&TextureUsageSampled != 0 {
		usage |= native.ImageUsageSampled
	}
	if texture.usage&TextureUsageStorage != 0 {
		usage |= native.ImageUsageStorage
	}
	if texture.usage&TextureUsageRenderTarget != 0 {
		usage |= native.ImageUsageColorAttachment
	}
	if texture.usage&TextureUsageDepthStencil != 0 {
		usage |= native.ImageUsageDepthStencilAttachment
	}

	image, res, err := d.driver.CreateImage(native.ImageCreateInfo{
		Type:   texture.nativeImageType(),
		Format: toNativeFormat(texture.format),
		Extent: native.Extent3D{
			Width:  texture.width,
			Height: texture.height,
			Depth:  texture.depth,
		},
		MipLevels:      texture.mipLevels,
		ArrayLayers:    texture.actualArrayLayers(),
		Samples:        texture.sampleCount,
		Usage:          usage,
		CubeCompatible: texture.usage&TextureUsageCubemap != 0,
		InitialLayout:  native.ImageLayoutPreinitialized,
	})
	if err != nil {
		return nil, nativeError(res, err, "create an image")
	}

	requirements := d.driver.ImageMemoryRequirements(image)
	texture.block = d.memory.Allocate(requirements.MemoryTypeBits, core1_0.MemoryPropertyDeviceLocal, false, requirements.Size, uint(requirements.Alignment))

	res, err = d.driver.BindImageMemory(image, texture.block.Memory, texture.block.Offset)
	if err != nil {
		d.memory.Free(texture.block)
		d.driver.DestroyImage(image)
		return nil, nativeError(res, err, "bind image memory")
	}

	texture.image = image
	texture.layouts = make([]native.ImageLayout, texture.mipLevels*texture.actualArrayLayers())
	for index := range texture.layouts {
		texture.layouts[index] = native.ImageLayoutPreinitialized
	}

	return texture, nil
}

// newSwapchainTexture wraps an image owned by a swapchain. The image is never destroyed by the texture.
func (d *GraphicsDevice) newSwapchainTexture(image native.Image, pixelFormat format.PixelFormat, width, height int, usage TextureUsage) *Texture {
	return &Texture{
		device:         d,
		width:          width,
		height:         height,
		depth:          1,
		mipLevels:      1,
		arrayLayers:    1,
		format:         pixelFormat,
		usage:          usage,
		textureType:    TextureType2D,
		sampleCount:    1,
		image:          image,
		swapchainImage: true,
		layouts:        []native.ImageLayout{native.ImageLayoutUndefined},
	}
}

func (t *Texture) clearIfRenderTarget() error {
	if t.usage&TextureUsageRenderTarget != 0 {
		return t.device.ClearColorTexture(t, [4]float32{})
	}
	if t.usage&TextureUsageDepthStencil != 0 {
		return t.device.ClearDepthTexture(t, 0, 0)
	}
	return nil
}

func (t *Texture) Width() int                 { return t.width }
func (t *Texture) Height() int                { return t.height }
func (t *Texture) Depth() int                 { return t.depth }
func (t *Texture) MipLevels() int             { return t.mipLevels }
func (t *Texture) ArrayLayers() int           { return t.arrayLayers }
func (t *Texture) Format() format.PixelFormat { return t.format }
func (t *Texture) Usage() TextureUsage        { return t.usage }
func (t *Texture) Type() TextureType          { return t.textureType }
func (t *Texture) SampleCount() int           { return t.sampleCount }

// Native returns the underlying native image. Staging textures have no image and return 0.
func (t *Texture) Native() native.Image {
	return t.image
}

func (t *Texture) isStaging() bool {
	return t.usage&TextureUsageStaging != 0
}

// actualArrayLayers is the number of native array layers: six per cube for cubemaps
func (t *Texture) actualArrayLayers() int {
	if t.usage&TextureUsageCubemap != 0 {
		return t.arrayLayers * 6
	}
	return t.arrayLayers
}

func (t *Texture) nativeImageType() native.ImageType {
	switch t.textureType {
	case TextureType1D:
		return native.ImageType1D
	case TextureType2D:
		return native.ImageType2D
	case TextureType3D:
		return native.ImageType3D
	}

	panic(fmt.Sprintf("attempting to create a texture of unknown type %s", t.textureType))
}

func mipDimension(largest, mipLevel int) int {
	return maxInt(1, largest>>uint(mipLevel))
}

func (t *Texture) mipDimensions(mipLevel int) (width, height, depth int) {
	return mipDimension(t.width, mipLevel), mipDimension(t.height, mipLevel), mipDimension(t.depth, mipLevel)
}

func (t *Texture) layoutIndex(mipLevel, arrayLayer int) int {
	return arrayLayer*t.mipLevels + mipLevel
}

// ImageLayout returns the current layout of a single subresource
func (t *Texture) ImageLayout(mipLevel, arrayLayer int) native.ImageLayout {
	if t.isStaging() {
		return native.ImageLayoutGeneral
	}
	return t.layouts[t.layoutIndex(mipLevel, arrayLayer)]
}

func (t *Texture) setImageLayout(mipLevel, arrayLayer int, layout native.ImageLayout) {
	if t.isStaging() {
		return
	}
	t.layouts[t.layoutIndex(mipLevel, arrayLayer)] = layout
}

// setStagingDimensions re-dimensions a pooled staging texture for a new region. The backing buffer must
// already be large enough.
func (t *Texture) setStagingDimensions(width, height, depth int, pixelFormat format.PixelFormat) {
	if !t.isStaging() {
		panic("attempting to re-dimension a texture that is not a staging texture")
	}

	t.width = width
	t.height = height
	t.depth = depth
	t.mipLevels = 1
	t.arrayLayers = 1
	t.format = pixelFormat
}

func (t *Texture) aspect() native.ImageAspectFlags {
	if t.usage&TextureUsageDepthStencil == 0 {
		return native.ImageAspectColor
	}

	if format.IsStencil(t.format) {
		return native.ImageAspectDepth | native.ImageAspectStencil
	}
	return native.ImageAspectDepth
}

func (t *Texture) mipOffset(mipLevel int) int {
	offset := 0
	for mip := 0; mip < mipLevel; mip++ {
		width, height, depth := t.mipDimensions(mip)
		offset += format.RegionSize(width, height, depth, t.format)
	}
	return offset
}

// SubresourceLayout returns the memory layout of a single subresource. For staging textures, the
// layout is computed from the format's pitches; otherwise the driver is asked.
func (t *Texture) SubresourceLayout(mipLevel, arrayLayer int) native.SubresourceLayout {
	if !t.isStaging() {
		return t.device.driver.ImageSubresourceLayout(t.image, native.ImageSubresource{
			Aspect:     t.aspect(),
			MipLevel:   mipLevel,
			ArrayLayer: arrayLayer,
		})
	}

	width, height, depth := t.mipDimensions(mipLevel)
	rowPitch := format.RowPitch(width, t.format)
	depthPitch := format.DepthPitch(rowPitch, height, t.format)

	return native.SubresourceLayout{
		Offset:     arrayLayer*t.mipOffset(t.mipLevels) + t.mipOffset(mipLevel),
		Size:       depthPitch * depth,
		RowPitch:   rowPitch,
		DepthPitch: depthPitch,
		ArrayPitch: depthPitch * depth,
	}
}

// TransitionImageLayout records a layout transition for a range of subresources into commandBuffer.
// Subresources already in newLayout are left alone, and staging textures have no layouts to transition.
func (t *Texture) TransitionImageLayout(commandBuffer native.CommandBuffer, baseMipLevel, levelCount, baseArrayLayer, layerCount int, newLayout native.ImageLayout) {
	if t.isStaging() {
		return
	}

	oldLayout := t.layouts[t.layoutIndex(baseMipLevel, baseArrayLayer)]
	if oldLayout == newLayout {
		return
	}

	for layer := baseArrayLayer; layer < baseArrayLayer+layerCount; layer++ {
		for mip := baseMipLevel; mip < baseMipLevel+levelCount; mip++ {
			if t.layouts[t.layoutIndex(mip, layer)] != oldLayout {
				panic(fmt.Sprintf("attempting to transition subresources in differing layouts: mip %d layer %d is %s, expected %s",
					mip, layer, t.layouts[t.layoutIndex(mip, layer)], oldLayout))
			}
		}
	}

	recordLayoutTransition(t.device.driver, commandBuffer, t.image, native.ImageSubresourceRange{
		Aspect:         t.aspect(),
		BaseMipLevel:   baseMipLevel,
		LevelCount:     levelCount,
		BaseArrayLayer: baseArrayLayer,
		LayerCount:     layerCount,
	}, oldLayout, newLayout)

	for layer := baseArrayLayer; layer < baseArrayLayer+layerCount; layer++ {
		for mip := baseMipLevel; mip < baseMipLevel+levelCount; mip++ {
			t.layouts[t.layoutIndex(mip, layer)] = newLayout
		}
	}
}

// transitionAll transitions every subresource of the texture. Subresources may start in different
// layouts, so each one is transitioned on its own.
func (t *Texture) transitionAll(commandBuffer native.CommandBuffer, newLayout native.ImageLayout) {
	if t.isStaging() {
		return
	}

	uniform := true
	for _, layout := range t.layouts {
		if layout != t.layouts[0] {
			uniform = false
			break
		}
	}

	if uniform {
		t.TransitionImageLayout(commandBuffer, 0, t.mipLevels, 0, t.actualArrayLayers(), newLayout)
		return
	}

	for layer := 0; layer < t.actualArrayLayers(); layer++ {
		for mip := 0; mip < t.mipLevels; mip++ {
			t.TransitionImageLayout(commandBuffer, mip, 1, layer, 1, newLayout)
		}
	}
}

// Destroy destroys the texture's image and returns its memory. The texture must not be referenced by
// any in-flight submission.
func (t *Texture) Destroy() error {
	t.device.logger.Debug("Texture::Destroy")

	if !t.device.untrack(t.handle) {
		panic("attempting to destroy a texture that has already been destroyed")
	}

	return t.release()
}

func (t *Texture) resourceKind() string {
	return kindTexture
}

func (t *Texture) release() error {
	if t.swapchainImage {
		return nil
	}

	if t.stagingBuffer != nil {
		return t.stagingBuffer.release()
	}

	t.device.driver.DestroyImage(t.image)
	t.device.memory.Free(t.block)
	return nil
}
