package nativetest

import (
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/gfx/native"
)

func (d *Driver) createObject(kind string, info any) (uint64, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("Create"+kind, info)
	if res, err := d.failure("Create" + kind); err != nil {
		return 0, res, err
	}
	return d.create(kind), core1_0.VKSuccess, nil
}

func (d *Driver) destroyObject(kind string, handle uint64) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("Destroy"+kind, handle)
	d.destroy(kind, handle)
}

func (d *Driver) CreateRenderPass(info native.RenderPassCreateInfo) (native.RenderPass, common.VkResult, error) {
	handle, res, err := d.createObject("RenderPass", info)
	return native.RenderPass(handle), res, err
}

func (d *Driver) DestroyRenderPass(renderPass native.RenderPass) {
	d.destroyObject("RenderPass", uint64(renderPass))
}

func (d *Driver) CreateFramebuffer(info native.FramebufferCreateInfo) (native.Framebuffer, common.VkResult, error) {
	handle, res, err := d.createObject("Framebuffer", info)
	return native.Framebuffer(handle), res, err
}

func (d *Driver) DestroyFramebuffer(framebuffer native.Framebuffer) {
	d.destroyObject("Framebuffer", uint64(framebuffer))
}

func (d *Driver) CreateShaderModule(code []byte) (native.ShaderModule, common.VkResult, error) {
	handle, res, err := d.createObject("ShaderModule", len(code))
	return native.ShaderModule(handle), res, err
}

func (d *Driver) DestroyShaderModule(module native.ShaderModule) {
	d.destroyObject("ShaderModule", uint64(module))
}

func (d *Driver) CreatePipelineLayout(info native.PipelineLayoutCreateInfo) (native.PipelineLayout, common.VkResult, error) {
	handle, res, err := d.createObject("PipelineLayout", info)
	return native.PipelineLayout(handle), res, err
}

func (d *Driver) DestroyPipelineLayout(layout native.PipelineLayout) {
	d.destroyObject("PipelineLayout", uint64(layout))
}

func (d *Driver) CreatePipeline(info native.PipelineCreateInfo) (native.Pipeline, common.VkResult, error) {
	handle, res, err := d.createObject("Pipeline", info)
	return native.Pipeline(handle), res, err
}

func (d *Driver) DestroyPipeline(pipeline native.Pipeline) {
	d.destroyObject("Pipeline", uint64(pipeline))
}

func (d *Driver) CreateDescriptorPool(info native.DescriptorPoolCreateInfo) (native.DescriptorPool, common.VkResult, error) {
	handle, res, err := d.createObject("DescriptorPool", info)
	return native.DescriptorPool(handle), res, err
}

func (d *Driver) DestroyDescriptorPool(pool native.DescriptorPool) {
	d.destroyObject("DescriptorPool", uint64(pool))
}

func (d *Driver) AllocateDescriptorSet(pool native.DescriptorPool, layout native.DescriptorSetLayout) (native.DescriptorSet, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("AllocateDescriptorSet", pool, layout)
	if res, err := d.failure("AllocateDescriptorSet"); err != nil {
		return 0, res, err
	}
	return native.DescriptorSet(d.create("DescriptorSet")), core1_0.VKSuccess, nil
}

func (d *Driver) FreeDescriptorSet(pool native.DescriptorPool, set native.DescriptorSet) (common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("FreeDescriptorSet", pool, set)
	d.destroy("DescriptorSet", uint64(set))
	return core1_0.VKSuccess, nil
}

func (d *Driver) CreateDescriptorSetLayout(bindings []native.DescriptorSetLayoutBinding) (native.DescriptorSetLayout, common.VkResult, error) {
	handle, res, err := d.createObject("DescriptorSetLayout", bindings)
	return native.DescriptorSetLayout(handle), res, err
}

func (d *Driver) DestroyDescriptorSetLayout(layout native.DescriptorSetLayout) {
	d.destroyObject("DescriptorSetLayout", uint64(layout))
}

func (d *Driver) UpdateDescriptorSets(writes []native.WriteDescriptorSet) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.record("UpdateDescriptorSets", writes)
}
