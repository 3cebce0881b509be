// Package nativetest provides an in-memory native.Driver that records every call it receives.
// Device memory is backed by Go byte slices, so persistently mapped memory can be read and written
// from tests. Recorded commands are not executed, with the exception of buffer to buffer copies.
package nativetest

import (
	"sync"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
	"github.com/vkngwrapper/extensions/v2/khr_swapchain"
	"github.com/vkngwrapper/gfx/native"
)

// Call is a single recorded driver call
type Call struct {
	Name string
	Args []any
}

type bufferRecord struct {
	size   int
	memory native.DeviceMemory
	offset int
}

type imageRecord struct {
	info   native.ImageCreateInfo
	memory native.DeviceMemory
	offset int
}

// Driver is a fake native.Driver. Its exported fields may be changed between calls to steer its behavior.
type Driver struct {
	mutex sync.Mutex

	Info       native.DeviceInfo
	Properties *core1_0.PhysicalDeviceMemoryProperties

	// BufferAlignment is the alignment reported in buffer and image memory requirements
	BufferAlignment int
	// AutoSignal signals a submission's fence as soon as it is submitted. When false, fences stay
	// unsignaled until CompletePendingWork, WaitForFences or QueueWaitIdle is called.
	AutoSignal bool

	Capabilities native.SurfaceCapabilities
	Formats      []native.SurfaceFormat
	PresentModes []native.PresentMode
	// AcquireResults and PresentResults are consumed one per call. Once empty, calls succeed.
	AcquireResults []common.VkResult
	PresentResults []common.VkResult
	// Failures makes every call with the given name fail with the given result
	Failures map[string]common.VkResult
	// FailuresAfter lets the named call succeed this many more times before its entry in Failures applies
	FailuresAfter map[string]int

	calls      []Call
	nextHandle uint64
	live       map[uint64]string

	memory  map[native.DeviceMemory][]byte
	buffers map[native.Buffer]*bufferRecord
	images  map[native.Image]*imageRecord

	fences        map[native.Fence]bool
	pendingFences []native.Fence

	swapchainImages map[native.Swapchain][]native.Image
	nextImage       map[native.Swapchain]int
}

var _ native.Driver = &Driver{}

// NewDriver creates a fake driver with one device-local and one host-visible memory type and a
// single 800x600 surface
func NewDriver() *Driver {
	return &Driver{
		Info: native.DeviceInfo{
			GraphicsQueue:            native.Queue(1),
			GraphicsQueueFamilyIndex: 0,
			PresentQueue:             native.Queue(1),
			PresentQueueFamilyIndex:  0,
			Extensions:               []string{khr_surface.ExtensionName, khr_swapchain.ExtensionName},
		},
		Properties: &core1_0.PhysicalDeviceMemoryProperties{
			MemoryTypes: []core1_0.MemoryType{
				{PropertyFlags: core1_0.MemoryPropertyDeviceLocal, HeapIndex: 0},
				{PropertyFlags: core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent, HeapIndex: 1},
			},
			MemoryHeaps: []core1_0.MemoryHeap{
				{Size: 1 << 30, Flags: core1_0.MemoryHeapDeviceLocal},
				{Size: 1 << 30},
			},
		},
		BufferAlignment: 16,
		Capabilities: native.SurfaceCapabilities{
			MinImageCount:  2,
			MaxImageCount:  3,
			CurrentExtent:  native.Extent2D{Width: 800, Height: 600},
			MinImageExtent: native.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: native.Extent2D{Width: 4096, Height: 4096},
		},
		Formats: []native.SurfaceFormat{
			{Format: native.FormatB8G8R8A8UNorm, ColorSpace: native.ColorSpaceSRGBNonlinear},
		},
		PresentModes: []native.PresentMode{native.PresentModeFIFO},

		live:            make(map[uint64]string),
		memory:          make(map[native.DeviceMemory][]byte),
		buffers:         make(map[native.Buffer]*bufferRecord),
		images:          make(map[native.Image]*imageRecord),
		fences:          make(map[native.Fence]bool),
		swapchainImages: make(map[native.Swapchain][]native.Image),
		nextImage:       make(map[native.Swapchain]int),
	}
}

func (d *Driver) record(name string, args ...any) {
	d.calls = append(d.calls, Call{Name: name, Args: args})
}

func (d *Driver) failure(name string) (common.VkResult, error) {
	res, ok := d.Failures[name]
	if !ok {
		return core1_0.VKSuccess, nil
	}

	if remaining := d.FailuresAfter[name]; remaining > 0 {
		d.FailuresAfter[name] = remaining - 1
		return core1_0.VKSuccess, nil
	}

	return res, errors.Wrapf(res.ToError(), "nativetest: injected %s failure", name)
}

func (d *Driver) create(kind string) uint64 {
	d.nextHandle++
	d.live[d.nextHandle] = kind
	return d.nextHandle
}

func (d *Driver) destroy(kind string, handle uint64) {
	if handle == 0 {
		return
	}

	liveKind, ok := d.live[handle]
	if !ok || liveKind != kind {
		panic(errors.Newf("nativetest: attempting to destroy %s %d, which is not live", kind, handle))
	}
	delete(d.live, handle)
}

// Calls returns a copy of every recorded call
func (d *Driver) Calls() []Call {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	calls := make([]Call, len(d.calls))
	copy(calls, d.calls)
	return calls
}

// CallsNamed returns every recorded call with the given name, in order
func (d *Driver) CallsNamed(name string) []Call {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	var calls []Call
	for _, call := range d.calls {
		if call.Name == name {
			calls = append(calls, call)
		}
	}
	return calls
}

// CallNames returns the names of every recorded call whose name is in filter, in order. An empty
// filter returns every name.
func (d *Driver) CallNames(filter ...string) []string {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	wanted := make(map[string]bool, len(filter))
	for _, name := range filter {
		wanted[name] = true
	}

	var names []string
	for _, call := range d.calls {
		if len(filter) == 0 || wanted[call.Name] {
			names = append(names, call.Name)
		}
	}
	return names
}

// ResetCalls discards the call log
func (d *Driver) ResetCalls() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.calls = nil
}

// LiveObjects counts the native objects that have been created and not yet destroyed, by kind
func (d *Driver) LiveObjects() map[string]int {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	counts := make(map[string]int)
	for _, kind := range d.live {
		counts[kind]++
	}
	return counts
}

// CompletePendingWork signals the fence of every submission made so far
func (d *Driver) CompletePendingWork() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.completePendingWork()
}

func (d *Driver) completePendingWork() {
	for _, fence := range d.pendingFences {
		if _, ok := d.fences[fence]; ok {
			d.fences[fence] = true
		}
	}
	d.pendingFences = nil
}

// FenceSignaled reports whether a fence is currently signaled
func (d *Driver) FenceSignaled(fence native.Fence) bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.fences[fence]
}

// BufferContents returns the bytes backing a buffer that has been bound to memory
func (d *Driver) BufferContents(buffer native.Buffer) []byte {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	record, ok := d.buffers[buffer]
	if !ok || record.memory == 0 {
		return nil
	}
	return d.memory[record.memory][record.offset : record.offset+record.size]
}

func (d *Driver) DeviceInfo() native.DeviceInfo {
	return d.Info
}

// ImageInfo returns the create info of a live image
func (d *Driver) ImageInfo(image native.Image) (native.ImageCreateInfo, bool) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	record, ok := d.images[image]
	if !ok {
		return native.ImageCreateInfo{}, false
	}
	return record.info, true
}

func (d *Driver) lookupBuffer(buffer native.Buffer) *bufferRecord {
	record, ok := d.buffers[buffer]
	if !ok {
		panic(errors.Newf("nativetest: buffer %d is not live", buffer))
	}
	return record
}

func mappedPointer(backing []byte, offset int) unsafe.Pointer {
	return unsafe.Pointer(&backing[offset])
}
