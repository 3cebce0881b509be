package graphics

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
)

// Result is the recoverable outcome of a public entry point
type Result int32

const (
	ResultSuccess Result = iota
	ResultInvalidOperation
	ResultUnsupportedSystem
	ResultOutOfMemory
	ResultSwapchainLost
)

var resultMapping = map[Result]string{
	ResultSuccess:           "Success",
	ResultInvalidOperation:  "InvalidOperation",
	ResultUnsupportedSystem: "UnsupportedSystem",
	ResultOutOfMemory:       "OutOfMemory",
	ResultSwapchainLost:     "SwapchainLost",
}

func (r Result) String() string {
	str, ok := resultMapping[r]
	if !ok {
		return "unknown Result"
	}
	return str
}

var (
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrUnsupportedSystem = errors.New("unsupported system")
	ErrOutOfMemory       = errors.New("out of memory")
	ErrSwapchainLost     = errors.New("swapchain lost")
)

// ResultOf maps an error returned by this package to its Result. Errors that are not marked with one of
// the package's sentinels are reported as ResultInvalidOperation.
func ResultOf(err error) Result {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, ErrSwapchainLost):
		return ResultSwapchainLost
	case errors.Is(err, ErrOutOfMemory):
		return ResultOutOfMemory
	case errors.Is(err, ErrUnsupportedSystem):
		return ResultUnsupportedSystem
	default:
		return ResultInvalidOperation
	}
}

// nativeError wraps an error returned by the native driver, marking it with the sentinel that matches
// its result code
func nativeError(res common.VkResult, err error, action string) error {
	if err == nil {
		err = res.ToError()
	}

	wrapped := errors.Wrapf(err, "failed to %s", action)
	switch res {
	case core1_0.VKErrorOutOfDeviceMemory, core1_0.VKErrorOutOfHostMemory:
		return errors.Mark(wrapped, ErrOutOfMemory)
	case khr_surface.VKErrorSurfaceLost:
		return errors.Mark(wrapped, ErrSwapchainLost)
	}
	return wrapped
}
