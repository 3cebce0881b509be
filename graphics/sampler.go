package graphics

import (
	"github.com/vkngwrapper/gfx/internal/arena"
	"github.com/vkngwrapper/gfx/native"
)

// SamplerDescription describes a Sampler to create. Filter, address and comparison values are native
// values; translation from engine-level enums happens above this package.
type SamplerDescription struct {
	AddressModeU native.SamplerAddressMode
	AddressModeV native.SamplerAddressMode
	AddressModeW native.SamplerAddressMode

	MagFilter  native.Filter
	MinFilter  native.Filter
	MipmapMode native.SamplerMipmapMode

	// ComparisonKind enables depth comparison when not nil
	ComparisonKind *native.CompareOp
	// MaximumAnisotropy enables anisotropic filtering when greater than zero
	MaximumAnisotropy int

	MinimumLod  float32
	MaximumLod  float32
	LodBias     float32
	BorderColor native.BorderColor
}

type Sampler struct {
	device  *GraphicsDevice
	handle  arena.Handle
	sampler native.Sampler
}

func (d *GraphicsDevice) CreateSampler(description SamplerDescription) (*Sampler, error) {
	d.logger.Debug("GraphicsDevice::CreateSampler")

	info := native.SamplerCreateInfo{
		MagFilter:        description.MagFilter,
		MinFilter:        description.MinFilter,
		MipmapMode:       description.MipmapMode,
		AddressModeU:     description.AddressModeU,
		AddressModeV:     description.AddressModeV,
		AddressModeW:     description.AddressModeW,
		MipLodBias:       description.LodBias,
		AnisotropyEnable: description.MaximumAnisotropy > 0,
		MaxAnisotropy:    float32(description.MaximumAnisotropy),
		MinLod:           description.MinimumLod,
		MaxLod:           description.MaximumLod,
		BorderColor:      description.BorderColor,
	}
	if description.ComparisonKind != nil {
		info.CompareEnable = true
		info.CompareOp = *description.ComparisonKind
	}

	nativeSampler, res, err := d.driver.CreateSampler(info)
	if err != nil {
		return nil, nativeError(res, err, "create a sampler")
	}

	sampler := &Sampler{device: d, sampler: nativeSampler}
	sampler.handle = d.track(sampler)
	return sampler, nil
}

func (s *Sampler) Native() native.Sampler {
	return s.sampler
}

func (s *Sampler) Destroy() error {
	s.device.logger.Debug("Sampler::Destroy")

	if !s.device.untrack(s.handle) {
		panic("attempting to destroy a sampler that has already been destroyed")
	}
	return s.release()
}

func (s *Sampler) resourceKind() string {
	return kindSampler
}

func (s *Sampler) release() error {
	s.device.driver.DestroySampler(s.sampler)
	return nil
}
