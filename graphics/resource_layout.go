package graphics

import (
	"fmt"

	"github.com/vkngwrapper/gfx/descriptor"
	"github.com/vkngwrapper/gfx/internal/arena"
	"github.com/vkngwrapper/gfx/native"
)

// ResourceKind is the kind of resource bound at one slot of a ResourceLayout
type ResourceKind int32

const (
	ResourceKindUniformBuffer ResourceKind = iota
	ResourceKindStructuredBufferReadOnly
	ResourceKindStructuredBufferReadWrite
	ResourceKindTextureReadOnly
	ResourceKindTextureReadWrite
	ResourceKindSampler
)

var resourceKindMapping = map[ResourceKind]string{
	ResourceKindUniformBuffer:             "UniformBuffer",
	ResourceKindStructuredBufferReadOnly:  "StructuredBufferReadOnly",
	ResourceKindStructuredBufferReadWrite: "StructuredBufferReadWrite",
	ResourceKindTextureReadOnly:           "TextureReadOnly",
	ResourceKindTextureReadWrite:          "TextureReadWrite",
	ResourceKindSampler:                   "Sampler",
}

func (k ResourceKind) String() string {
	str, ok := resourceKindMapping[k]
	if !ok {
		return "unknown ResourceKind"
	}
	return str
}

func (k ResourceKind) descriptorType() native.DescriptorType {
	switch k {
	case ResourceKindUniformBuffer:
		return native.DescriptorTypeUniformBuffer
	case ResourceKindStructuredBufferReadOnly, ResourceKindStructuredBufferReadWrite:
		return native.DescriptorTypeStorageBuffer
	case ResourceKindTextureReadOnly:
		return native.DescriptorTypeSampledImage
	case ResourceKindTextureReadWrite:
		return native.DescriptorTypeStorageImage
	case ResourceKindSampler:
		return native.DescriptorTypeSampler
	}

	panic(fmt.Sprintf("attempting to translate unknown resource kind %d", int32(k)))
}

// ResourceLayoutElement describes one slot of a ResourceLayout. Slots are bound in declaration order.
type ResourceLayoutElement struct {
	Name   string
	Kind   ResourceKind
	Stages native.ShaderStageFlags
}

type ResourceLayoutDescription struct {
	Elements []ResourceLayoutElement
}

// ResourceLayout is the shape of a ResourceSet: a native descriptor set layout with one binding per
// element
type ResourceLayout struct {
	device *GraphicsDevice
	handle arena.Handle

	elements []ResourceLayoutElement
	layout   native.DescriptorSetLayout
	counts   descriptor.ResourceCounts
}

func (d *GraphicsDevice) CreateResourceLayout(description ResourceLayoutDescription) (*ResourceLayout, error) {
	d.logger.Debug("GraphicsDevice::CreateResourceLayout")

	bindings := make([]native.DescriptorSetLayoutBinding, 0, len(description.Elements))
	for index, element := range description.Elements {
		bindings = append(bindings, native.DescriptorSetLayoutBinding{
			Binding:         index,
			DescriptorType:  element.Kind.descriptorType(),
			DescriptorCount: 1,
			StageFlags:      element.Stages,
		})
	}

	setLayout, res, err := d.driver.CreateDescriptorSetLayout(bindings)
	if err != nil {
		return nil, nativeError(res, err, "create a descriptor set layout")
	}

	elements := make([]ResourceLayoutElement, len(description.Elements))
	copy(elements, description.Elements)

	layout := &ResourceLayout{
		device:   d,
		elements: elements,
		layout:   setLayout,
		counts:   descriptor.CountBindings(bindings),
	}
	layout.handle = d.track(layout)
	return layout, nil
}

func (l *ResourceLayout) Elements() []ResourceLayoutElement {
	return l.elements
}

// Counts is the number of descriptors of each kind a set of this layout consumes
func (l *ResourceLayout) Counts() descriptor.ResourceCounts {
	return l.counts
}

func (l *ResourceLayout) Native() native.DescriptorSetLayout {
	return l.layout
}

func (l *ResourceLayout) Destroy() error {
	l.device.logger.Debug("ResourceLayout::Destroy")

	if !l.device.untrack(l.handle) {
		panic("attempting to destroy a resource layout that has already been destroyed")
	}
	return l.release()
}

func (l *ResourceLayout) resourceKind() string {
	return kindResourceLayout
}

func (l *ResourceLayout) release() error {
	l.device.driver.DestroyDescriptorSetLayout(l.layout)
	return nil
}
