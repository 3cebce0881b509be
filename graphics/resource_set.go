package graphics

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfx/descriptor"
	"github.com/vkngwrapper/gfx/internal/arena"
	"github.com/vkngwrapper/gfx/native"
)

// BindableResource is anything that can be bound to a ResourceSet slot: a *DeviceBuffer, a
// DeviceBufferRange, a *TextureView or a *Sampler
type BindableResource interface {
	bindableResource()
}

// DeviceBufferRange binds part of a buffer
type DeviceBufferRange struct {
	Buffer      *DeviceBuffer
	Offset      int
	SizeInBytes int
}

func (b *DeviceBuffer) bindableResource()     {}
func (r DeviceBufferRange) bindableResource() {}
func (v *TextureView) bindableResource()      {}
func (s *Sampler) bindableResource()          {}

type ResourceSetDescription struct {
	Layout *ResourceLayout
	// BoundResources holds one resource per layout element, in element order
	BoundResources []BindableResource
}

// ResourceSet is a descriptor set allocated from the device's descriptor pools. Textures bound to it
// are transitioned to the layout their slot expects before the set is used by a draw or dispatch.
type ResourceSet struct {
	device *GraphicsDevice
	handle arena.Handle

	layout *ResourceLayout
	token  descriptor.AllocationToken

	sampledTextures []*TextureView
	storageTextures []*TextureView
}

func (d *GraphicsDevice) CreateResourceSet(description ResourceSetDescription) (*ResourceSet, error) {
	d.logger.Debug("GraphicsDevice::CreateResourceSet")

	layout := description.Layout
	if len(description.BoundResources) != len(layout.elements) {
		return nil, errors.Wrapf(ErrInvalidOperation, "the resource layout has %d elements, but %d resources were provided",
			len(layout.elements), len(description.BoundResources))
	}

	set := &ResourceSet{device: d, layout: layout}
	writes := make([]native.WriteDescriptorSet, 0, len(layout.elements))

	for index, element := range layout.elements {
		write := native.WriteDescriptorSet{
			DstBinding:     index,
			DescriptorType: element.Kind.descriptorType(),
		}

		switch element.Kind {
		case ResourceKindUniformBuffer, ResourceKindStructuredBufferReadOnly, ResourceKindStructuredBufferReadWrite:
			bufferRange, ok := asBufferRange(description.BoundResources[index])
			if !ok {
				return nil, errors.Wrapf(ErrInvalidOperation, "element %d (%s) requires a buffer", index, element.Name)
			}
			write.BufferInfo = &native.DescriptorBufferInfo{
				Buffer: bufferRange.Buffer.buffer,
				Offset: bufferRange.Offset,
				Range:  bufferRange.SizeInBytes,
			}

		case ResourceKindTextureReadOnly, ResourceKindTextureReadWrite:
			view, ok := description.BoundResources[index].(*TextureView)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidOperation, "element %d (%s) requires a texture view", index, element.Name)
			}

			imageLayout := native.ImageLayoutShaderReadOnlyOptimal
			if element.Kind == ResourceKindTextureReadWrite {
				imageLayout = native.ImageLayoutGeneral
				set.storageTextures = append(set.storageTextures, view)
			} else {
				set.sampledTextures = append(set.sampledTextures, view)
			}
			write.ImageInfo = &native.DescriptorImageInfo{
				ImageView:   view.view,
				ImageLayout: imageLayout,
			}

		case ResourceKindSampler:
			sampler, ok := description.BoundResources[index].(*Sampler)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidOperation, "element %d (%s) requires a sampler", index, element.Name)
			}
			write.ImageInfo = &native.DescriptorImageInfo{
				Sampler: sampler.sampler,
			}
		}

		writes = append(writes, write)
	}

	token, res, err := d.descriptors.Allocate(layout.counts, layout.layout)
	if err != nil {
		return nil, nativeError(res, err, "allocate a descriptor set")
	}
	set.token = token

	for index := range writes {
		writes[index].DstSet = token.Set
	}
	d.driver.UpdateDescriptorSets(writes)

	set.handle = d.track(set)
	return set, nil
}

func asBufferRange(resource BindableResource) (DeviceBufferRange, bool) {
	switch typed := resource.(type) {
	case *DeviceBuffer:
		return DeviceBufferRange{Buffer: typed, SizeInBytes: typed.size}, true
	case DeviceBufferRange:
		return typed, typed.Buffer != nil
	}
	return DeviceBufferRange{}, false
}

func (s *ResourceSet) Layout() *ResourceLayout {
	return s.layout
}

func (s *ResourceSet) Native() native.DescriptorSet {
	return s.token.Set
}

// Destroy returns the descriptor set to its pool. The set must not be referenced by any in-flight
// submission.
func (s *ResourceSet) Destroy() error {
	s.device.logger.Debug("ResourceSet::Destroy")

	if !s.device.untrack(s.handle) {
		panic("attempting to destroy a resource set that has already been destroyed")
	}
	return s.release()
}

func (s *ResourceSet) resourceKind() string {
	return kindResourceSet
}

func (s *ResourceSet) release() error {
	res, err := s.device.descriptors.Free(s.token, s.layout.counts)
	if err != nil {
		return nativeError(res, err, "free a descriptor set")
	}
	return nil
}
