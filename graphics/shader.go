package graphics

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfx/internal/arena"
	"github.com/vkngwrapper/gfx/native"
)

// ShaderDescription carries precompiled shader bytecode. Shader compilation happens above this package.
type ShaderDescription struct {
	Stage      native.ShaderStageFlags
	Code       []byte
	EntryPoint string
}

type Shader struct {
	device     *GraphicsDevice
	handle     arena.Handle
	stage      native.ShaderStageFlags
	entryPoint string
	module     native.ShaderModule
}

func (d *GraphicsDevice) CreateShader(description ShaderDescription) (*Shader, error) {
	d.logger.Debug("GraphicsDevice::CreateShader")

	if len(description.Code) == 0 {
		return nil, errors.Wrap(ErrInvalidOperation, "shader bytecode is empty")
	}

	module, res, err := d.driver.CreateShaderModule(description.Code)
	if err != nil {
		return nil, nativeError(res, err, "create a shader module")
	}

	entryPoint := description.EntryPoint
	if entryPoint == "" {
		entryPoint = "main"
	}

	shader := &Shader{
		device:     d,
		stage:      description.Stage,
		entryPoint: entryPoint,
		module:     module,
	}
	shader.handle = d.track(shader)
	return shader, nil
}

func (s *Shader) Stage() native.ShaderStageFlags {
	return s.stage
}

func (s *Shader) Destroy() error {
	s.device.logger.Debug("Shader::Destroy")

	if !s.device.untrack(s.handle) {
		panic("attempting to destroy a shader that has already been destroyed")
	}
	return s.release()
}

func (s *Shader) resourceKind() string {
	return kindShader
}

func (s *Shader) release() error {
	s.device.driver.DestroyShaderModule(s.module)
	return nil
}
