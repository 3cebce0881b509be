package graphics

import (
	"fmt"

	"github.com/vkngwrapper/gfx/native"
)

type layoutPair struct {
	oldLayout native.ImageLayout
	newLayout native.ImageLayout
}

type layoutBarrier struct {
	srcAccess native.AccessFlags
	dstAccess native.AccessFlags
	srcStage  native.PipelineStageFlags
	dstStage  native.PipelineStageFlags
}

// layoutBarriers lists every layout transition the backend performs. Anything missing from this table is
// a bug in the caller.
var layoutBarriers = map[layoutPair]layoutBarrier{
	{native.ImageLayoutUndefined, native.ImageLayoutTransferDstOptimal}: {
		dstAccess: native.AccessTransferWrite,
		srcStage:  native.PipelineStageTopOfPipe, dstStage: native.PipelineStageTransfer,
	},
	{native.ImageLayoutUndefined, native.ImageLayoutColorAttachmentOptimal}: {
		dstAccess: native.AccessColorAttachmentWrite,
		srcStage:  native.PipelineStageTopOfPipe, dstStage: native.PipelineStageColorAttachmentOutput,
	},
	{native.ImageLayoutUndefined, native.ImageLayoutDepthStencilAttachmentOptimal}: {
		dstAccess: native.AccessDepthStencilAttachmentWrite,
		srcStage:  native.PipelineStageTopOfPipe, dstStage: native.PipelineStageEarlyFragmentTests,
	},
	{native.ImageLayoutPreinitialized, native.ImageLayoutTransferDstOptimal}: {
		dstAccess: native.AccessTransferWrite,
		srcStage:  native.PipelineStageTopOfPipe, dstStage: native.PipelineStageTransfer,
	},
	{native.ImageLayoutPreinitialized, native.ImageLayoutTransferSrcOptimal}: {
		dstAccess: native.AccessTransferRead,
		srcStage:  native.PipelineStageTopOfPipe, dstStage: native.PipelineStageTransfer,
	},
	{native.ImageLayoutPreinitialized, native.ImageLayoutShaderReadOnlyOptimal}: {
		dstAccess: native.AccessShaderRead,
		srcStage:  native.PipelineStageTopOfPipe, dstStage: native.PipelineStageFragmentShader,
	},
	{native.ImageLayoutPreinitialized, native.ImageLayoutGeneral}: {
		dstAccess: native.AccessShaderRead | native.AccessShaderWrite,
		srcStage:  native.PipelineStageTopOfPipe, dstStage: native.PipelineStageFragmentShader | native.PipelineStageComputeShader,
	},
	{native.ImageLayoutGeneral, native.ImageLayoutShaderReadOnlyOptimal}: {
		srcAccess: native.AccessShaderWrite, dstAccess: native.AccessShaderRead,
		srcStage: native.PipelineStageFragmentShader | native.PipelineStageComputeShader, dstStage: native.PipelineStageFragmentShader,
	},
	{native.ImageLayoutShaderReadOnlyOptimal, native.ImageLayoutGeneral}: {
		srcAccess: native.AccessShaderRead, dstAccess: native.AccessShaderRead | native.AccessShaderWrite,
		srcStage: native.PipelineStageFragmentShader, dstStage: native.PipelineStageFragmentShader | native.PipelineStageComputeShader,
	},
	{native.ImageLayoutTransferDstOptimal, native.ImageLayoutGeneral}: {
		srcAccess: native.AccessTransferWrite, dstAccess: native.AccessShaderRead | native.AccessShaderWrite,
		srcStage: native.PipelineStageTransfer, dstStage: native.PipelineStageFragmentShader | native.PipelineStageComputeShader,
	},
	{native.ImageLayoutGeneral, native.ImageLayoutTransferDstOptimal}: {
		srcAccess: native.AccessShaderWrite, dstAccess: native.AccessTransferWrite,
		srcStage: native.PipelineStageFragmentShader | native.PipelineStageComputeShader, dstStage: native.PipelineStageTransfer,
	},
	{native.ImageLayoutShaderReadOnlyOptimal, native.ImageLayoutTransferSrcOptimal}: {
		srcAccess: native.AccessShaderRead, dstAccess: native.AccessTransferRead,
		srcStage: native.PipelineStageFragmentShader, dstStage: native.PipelineStageTransfer,
	},
	{native.ImageLayoutShaderReadOnlyOptimal, native.ImageLayoutTransferDstOptimal}: {
		srcAccess: native.AccessShaderRead, dstAccess: native.AccessTransferWrite,
		srcStage: native.PipelineStageFragmentShader, dstStage: native.PipelineStageTransfer,
	},
	{native.ImageLayoutShaderReadOnlyOptimal, native.ImageLayoutColorAttachmentOptimal}: {
		srcAccess: native.AccessShaderRead, dstAccess: native.AccessColorAttachmentWrite,
		srcStage: native.PipelineStageFragmentShader, dstStage: native.PipelineStageColorAttachmentOutput,
	},
	{native.ImageLayoutShaderReadOnlyOptimal, native.ImageLayoutDepthStencilAttachmentOptimal}: {
		srcAccess: native.AccessShaderRead, dstAccess: native.AccessDepthStencilAttachmentWrite,
		srcStage: native.PipelineStageFragmentShader, dstStage: native.PipelineStageLateFragmentTests,
	},
	{native.ImageLayoutTransferDstOptimal, native.ImageLayoutShaderReadOnlyOptimal}: {
		srcAccess: native.AccessTransferWrite, dstAccess: native.AccessShaderRead,
		srcStage: native.PipelineStageTransfer, dstStage: native.PipelineStageFragmentShader,
	},
	{native.ImageLayoutTransferSrcOptimal, native.ImageLayoutShaderReadOnlyOptimal}: {
		srcAccess: native.AccessTransferRead, dstAccess: native.AccessShaderRead,
		srcStage: native.PipelineStageTransfer, dstStage: native.PipelineStageFragmentShader,
	},
	{native.ImageLayoutTransferSrcOptimal, native.ImageLayoutTransferDstOptimal}: {
		srcAccess: native.AccessTransferRead, dstAccess: native.AccessTransferWrite,
		srcStage: native.PipelineStageTransfer, dstStage: native.PipelineStageTransfer,
	},
	{native.ImageLayoutTransferDstOptimal, native.ImageLayoutTransferSrcOptimal}: {
		srcAccess: native.AccessTransferWrite, dstAccess: native.AccessTransferRead,
		srcStage: native.PipelineStageTransfer, dstStage: native.PipelineStageTransfer,
	},
	{native.ImageLayoutColorAttachmentOptimal, native.ImageLayoutTransferSrcOptimal}: {
		srcAccess: native.AccessColorAttachmentWrite, dstAccess: native.AccessTransferRead,
		srcStage: native.PipelineStageColorAttachmentOutput, dstStage: native.PipelineStageTransfer,
	},
	{native.ImageLayoutColorAttachmentOptimal, native.ImageLayoutTransferDstOptimal}: {
		srcAccess: native.AccessColorAttachmentWrite, dstAccess: native.AccessTransferWrite,
		srcStage: native.PipelineStageColorAttachmentOutput, dstStage: native.PipelineStageTransfer,
	},
	{native.ImageLayoutColorAttachmentOptimal, native.ImageLayoutShaderReadOnlyOptimal}: {
		srcAccess: native.AccessColorAttachmentWrite, dstAccess: native.AccessShaderRead,
		srcStage: native.PipelineStageColorAttachmentOutput, dstStage: native.PipelineStageFragmentShader,
	},
	{native.ImageLayoutColorAttachmentOptimal, native.ImageLayoutPresentSrc}: {
		srcAccess: native.AccessColorAttachmentWrite, dstAccess: native.AccessMemoryRead,
		srcStage: native.PipelineStageColorAttachmentOutput, dstStage: native.PipelineStageBottomOfPipe,
	},
	{native.ImageLayoutPresentSrc, native.ImageLayoutColorAttachmentOptimal}: {
		srcAccess: native.AccessMemoryRead, dstAccess: native.AccessColorAttachmentWrite,
		srcStage: native.PipelineStageBottomOfPipe, dstStage: native.PipelineStageColorAttachmentOutput,
	},
	{native.ImageLayoutDepthStencilAttachmentOptimal, native.ImageLayoutShaderReadOnlyOptimal}: {
		srcAccess: native.AccessDepthStencilAttachmentWrite, dstAccess: native.AccessShaderRead,
		srcStage: native.PipelineStageLateFragmentTests, dstStage: native.PipelineStageFragmentShader,
	},
	{native.ImageLayoutDepthStencilAttachmentOptimal, native.ImageLayoutTransferDstOptimal}: {
		srcAccess: native.AccessDepthStencilAttachmentWrite, dstAccess: native.AccessTransferWrite,
		srcStage: native.PipelineStageLateFragmentTests, dstStage: native.PipelineStageTransfer,
	},
	{native.ImageLayoutTransferSrcOptimal, native.ImageLayoutColorAttachmentOptimal}: {
		srcAccess: native.AccessTransferRead, dstAccess: native.AccessColorAttachmentWrite,
		srcStage: native.PipelineStageTransfer, dstStage: native.PipelineStageColorAttachmentOutput,
	},
	{native.ImageLayoutTransferSrcOptimal, native.ImageLayoutPresentSrc}: {
		srcAccess: native.AccessTransferRead, dstAccess: native.AccessMemoryRead,
		srcStage: native.PipelineStageTransfer, dstStage: native.PipelineStageBottomOfPipe,
	},
	{native.ImageLayoutTransferDstOptimal, native.ImageLayoutColorAttachmentOptimal}: {
		srcAccess: native.AccessTransferWrite, dstAccess: native.AccessColorAttachmentWrite,
		srcStage: native.PipelineStageTransfer, dstStage: native.PipelineStageColorAttachmentOutput,
	},
	{native.ImageLayoutTransferDstOptimal, native.ImageLayoutDepthStencilAttachmentOptimal}: {
		srcAccess: native.AccessTransferWrite, dstAccess: native.AccessDepthStencilAttachmentWrite,
		srcStage: native.PipelineStageTransfer, dstStage: native.PipelineStageLateFragmentTests,
	},
}

// recordLayoutTransition records a single image barrier moving a subresource range from oldLayout to
// newLayout. It panics for a transition that is not in the table, including oldLayout == newLayout.
func recordLayoutTransition(
	driver native.CommandDriver,
	commandBuffer native.CommandBuffer,
	image native.Image,
	subresourceRange native.ImageSubresourceRange,
	oldLayout, newLayout native.ImageLayout,
) {
	barrier, ok := layoutBarriers[layoutPair{oldLayout: oldLayout, newLayout: newLayout}]
	if !ok {
		panic(fmt.Sprintf("attempting an unsupported image layout transition from %s to %s", oldLayout, newLayout))
	}

	driver.CmdPipelineBarrier(commandBuffer, barrier.srcStage, barrier.dstStage, []native.ImageMemoryBarrier{
		{
			SrcAccessMask: barrier.srcAccess,
			DstAccessMask: barrier.dstAccess,
			OldLayout:     oldLayout,
			NewLayout:     newLayout,
			Image:         image,
			Range:         subresourceRange,
		},
	})
}
