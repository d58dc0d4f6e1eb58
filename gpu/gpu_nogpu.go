//go:build nogpu

// Package gpu is compiled out under the nogpu tag; all buffer copies use
// the software path.
package gpu

import (
	"errors"

	"github.com/gogpu/gpucontext"
)

// ErrNilProvider is returned by SetDeviceProvider for a nil provider.
var ErrNilProvider = errors.New("gpu: provider must not be nil")

// SetDeviceProvider is a no-op without GPU support.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	if provider == nil {
		return ErrNilProvider
	}
	return nil
}
