//go:build !nogpu

// Package gpu registers the wgpu compute blit engine used for buffer
// copy-back during presentation.
//
// Import this package to route partial-update copies through a GPU compute
// shader instead of the manual row-by-row path. If GPU initialization fails
// (no Vulkan available), registration is skipped with a warning and all
// copies stay on the software path.
//
// Usage:
//
//	import _ "github.com/gogpu/sgl/gpu" // enable GPU-accelerated copy-back
package gpu

import (
	"errors"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/sgl"
	gpuimpl "github.com/gogpu/sgl/internal/gpu"
)

// ErrNilProvider is returned by SetDeviceProvider for a nil provider.
var ErrNilProvider = errors.New("gpu: provider must not be nil")

func init() {
	engine := &gpuimpl.Blitter{}
	if err := sgl.RegisterBlitter(engine); err != nil {
		sgl.Logger().Warn("GPU blit engine not available", "err", err)
	}
}

// SetDeviceProvider configures the blit engine to use a shared GPU device
// from an external provider (e.g., gogpu). This avoids creating a separate
// GPU instance and enables efficient device sharing.
//
// The provider should also implement gpucontext.HalProvider for direct HAL
// access; otherwise the engine keeps its own device.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	if provider == nil {
		return ErrNilProvider
	}
	return sgl.SetBlitterDeviceProvider(provider)
}
