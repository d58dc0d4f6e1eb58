package sgl

import (
	"errors"
	"sync"

	"github.com/gogpu/sgl/region"
)

// ErrBlitUnsupported indicates the blit engine cannot handle this copy.
// The caller transparently falls back to the software copy path.
var ErrBlitUnsupported = errors.New("sgl: blit not supported by engine")

// Blitter is an optional hardware copy accelerator.
//
// When registered via RegisterBlitter, buffer copy-back during presentation
// tries the engine first. If it returns ErrBlitUnsupported or any other
// error, the copy transparently falls back to the manual per-rectangle path;
// engine failures are never surfaced to the caller of a swap.
//
// Implementations are provided by backend packages. Users opt in via blank
// import:
//
//	import _ "github.com/gogpu/sgl/gpu" // enables wgpu-accelerated blits
type Blitter interface {
	// Name returns the engine name (e.g. "wgpu-blit").
	Name() string

	// Init initializes engine resources. Called once during registration.
	Init() error

	// Close releases engine resources.
	Close()

	// Blit copies the clip region's pixels from src to dst. Both planes
	// must share a format. The region is consumed through its restartable
	// iterator and is not modified.
	Blit(dst, src Plane, clip *region.Region) error
}

var (
	blitMu     sync.RWMutex
	blitEngine Blitter
)

// RegisterBlitter registers a hardware blit engine.
//
// Only one engine can be registered. Subsequent calls replace the previous
// one, closing it. The engine's Init() method is called during registration;
// if Init() fails, the engine is not registered and the error is returned.
func RegisterBlitter(b Blitter) error {
	if b == nil {
		return errors.New("sgl: blitter must not be nil")
	}
	if err := b.Init(); err != nil {
		return err
	}
	propagateLogger(b, Logger())
	blitMu.Lock()
	old := blitEngine
	blitEngine = b
	blitMu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// ActiveBlitter returns the currently registered blit engine, or nil if
// none.
func ActiveBlitter() Blitter {
	blitMu.RLock()
	b := blitEngine
	blitMu.RUnlock()
	return b
}

// SetBlitterDeviceProvider passes a GPU device provider to the registered
// blit engine, enabling device sharing with a host application. If no engine
// is registered or it doesn't support device sharing, this is a no-op.
func SetBlitterDeviceProvider(provider any) error {
	b := ActiveBlitter()
	if b == nil {
		return nil
	}
	if dpa, ok := b.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}

// DeviceProviderAware is an optional interface for blit engines that can
// share GPU resources with an external provider instead of creating their
// own device.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}
