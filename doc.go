// Package sgl provides the surface and buffer management layer of an
// embedded OpenGL-ES display driver.
//
// # Overview
//
// sgl owns the lifecycle of drawable backing stores (on-screen window
// surfaces, off-screen pixmaps and pbuffers) and mediates double-buffered
// presentation with dirty-region partial updates. Rendering itself is out of
// scope: a rasterization context consumes the color/depth plane descriptors
// that a drawable exposes through its bind operations.
//
// # Architecture
//
// The library is organized into:
//   - Root package: pixel formats, plane descriptors, the native
//     window/buffer provider contracts, the blit engine registry with its
//     software fallback, configuration tables, and the display lifecycle.
//   - region: rectangle algebra for minimal-copy partial updates.
//   - surface: the drawable contract and its Window/Pixmap/Pbuffer variants.
//   - memwin: an in-memory provider used by tests and demos.
//   - gpu: optional wgpu-backed blit acceleration (blank import to enable).
//
// # Quick Start
//
//	win := memwin.New(640, 480, sgl.FormatRGBX8888, 2)
//	s, err := surface.NewWindow(sgl.DefaultDisplay(), cfg, win)
//	if err != nil {
//		// ...
//	}
//	defer s.Destroy()
//
//	if err := s.Connect(); err != nil {
//		// ...
//	}
//	for frame := 0; frame < n; frame++ {
//		s.BindDraw(ctx) // expose planes to the rasterizer
//		// ... draw ...
//		s.Present()
//	}
//	s.Disconnect()
//
// # Concurrency
//
// Drawables are confined to the goroutine that created them. The library
// provides no internal locking for concurrent operations on the same
// drawable; violations are diagnosed, not handled. Buffer "locking" pins a
// native buffer into CPU-addressable memory and may block in the provider
// without timeout; it is not a concurrency primitive.
package sgl

// Version is the current version of the library.
const Version = "0.1.0"
