package graphics

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfx/format"
	"golang.org/x/exp/slices"
)

// getFreeStagingBuffer returns the first buffer of at least size bytes from the device's staging pool, or
// creates a new one. Buffers held by in-flight submissions are never in the pool.
func (d *GraphicsDevice) getFreeStagingBuffer(size int) (*DeviceBuffer, error) {
	d.mutex.Lock()
	buffer := takeStagingBuffer(&d.availableStagingBuffers, size)
	d.mutex.Unlock()

	if buffer != nil {
		return buffer, nil
	}
	return d.newStagingBuffer(size)
}

// newStagingBuffer creates a staging buffer of at least MinStagingBufferSize bytes so that small uploads
// can share it once it is pooled
func (d *GraphicsDevice) newStagingBuffer(size int) (*DeviceBuffer, error) {
	newSize := maxInt(d.options.MinStagingBufferSize, size)
	return d.newDeviceBuffer(BufferDescription{SizeInBytes: newSize, Usage: BufferUsageStaging})
}

// takeStagingBuffer removes and returns the first buffer in pool that is at least size bytes
func takeStagingBuffer(pool *[]*DeviceBuffer, size int) *DeviceBuffer {
	for index, buffer := range *pool {
		if buffer.size >= size {
			*pool = slices.Delete(*pool, index, index+1)
			return buffer
		}
	}
	return nil
}

// poolStagingBuffers appends the buffers that are no larger than MaxStagingBufferSize to pool. The rest
// are returned so the caller can release them.
func (d *GraphicsDevice) poolStagingBuffers(pool *[]*DeviceBuffer, buffers []*DeviceBuffer) (oversized []*DeviceBuffer) {
	for _, buffer := range buffers {
		if buffer.size <= d.options.MaxStagingBufferSize {
			*pool = append(*pool, buffer)
		} else {
			oversized = append(oversized, buffer)
		}
	}
	return oversized
}

// getFreeStagingTexture returns a pooled staging texture with room for a width x height x depth region,
// re-dimensioned to match the region. New staging textures are created at least
// MinStagingTextureDimension wide and high so they can be reused for other small uploads.
func (d *GraphicsDevice) getFreeStagingTexture(width, height, depth int, pixelFormat format.PixelFormat) (*Texture, error) {
	totalSize := format.RegionSize(width, height, depth, pixelFormat)

	d.mutex.Lock()
	for index, texture := range d.availableStagingTextures {
		if texture.stagingBuffer.size >= totalSize {
			d.availableStagingTextures = slices.Delete(d.availableStagingTextures, index, index+1)
			d.mutex.Unlock()

			texture.setStagingDimensions(width, height, depth, pixelFormat)
			return texture, nil
		}
	}
	d.mutex.Unlock()

	texture, err := d.newTexture(TextureDescription{
		Width:       maxInt(d.options.MinStagingTextureDimension, width),
		Height:      maxInt(d.options.MinStagingTextureDimension, height),
		Depth:       depth,
		MipLevels:   1,
		ArrayLayers: 1,
		Format:      pixelFormat,
		Usage:       TextureUsageStaging,
		Type:        TextureType3D,
		SampleCount: 1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create a staging texture")
	}

	texture.setStagingDimensions(width, height, depth, pixelFormat)
	return texture, nil
}

// recycleStagingLocked returns a submission's staging resources to the device pools. Staging buffers
// larger than MaxStagingBufferSize are not pooled; they are returned to the caller for release.
func (d *GraphicsDevice) recycleStagingLocked(buffers []*DeviceBuffer, texture *Texture) (oversized []*DeviceBuffer) {
	oversized = d.poolStagingBuffers(&d.availableStagingBuffers, buffers)

	if texture != nil {
		d.availableStagingTextures = append(d.availableStagingTextures, texture)
	}

	return oversized
}

// recycleStaging returns the staging resources of work that never reached the queue
func (d *GraphicsDevice) recycleStaging(resources submissionResources) error {
	d.mutex.Lock()
	oversized := d.recycleStagingLocked(resources.stagingBuffers, resources.stagingTexture)
	d.mutex.Unlock()

	var err error
	for _, buffer := range oversized {
		err = errors.CombineErrors(err, buffer.release())
	}
	return err
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
