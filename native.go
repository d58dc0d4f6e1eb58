package sgl

// Usage flags describe the intended CPU access when locking a native buffer.
// Providers may use them to choose cache policies or staging strategies.
type Usage uint32

const (
	// UsageSoftwareRead requests CPU read access to the locked memory.
	UsageSoftwareRead Usage = 1 << iota

	// UsageSoftwareWrite requests CPU write access to the locked memory.
	UsageSoftwareWrite

	// UsageHardwareRender marks the buffer as a rendering target for the
	// driver; providers may back it with device-visible memory.
	UsageHardwareRender
)

// NativeBuffer is one buffer obtained from a provider's queue. Buffers carry
// an intrusive reference count shared between this layer and the provider's
// consumer side: a reference must be taken before use and released exactly
// once when no longer needed.
type NativeBuffer interface {
	// Width returns the buffer width in pixels.
	Width() int32

	// Height returns the buffer height in pixels.
	Height() int32

	// Stride returns the row stride in pixels. Stride may exceed Width for
	// alignment.
	Stride() int32

	// Format returns the buffer's pixel format.
	Format() Format

	// IncRef takes a reference on the buffer.
	IncRef()

	// DecRef releases a reference. Releasing the last reference may return
	// the buffer's memory to the provider.
	DecRef()
}

// NativeWindow is the buffer-queue provider behind a window surface. It is
// implemented by the host environment (a compositor connection, a
// framebuffer device, or memwin for tests).
//
// Dequeue and Lock are synchronous and may block without timeout, for
// example while a buffer is still held by display scan-out. That blocking is
// expected; there are no cancellation semantics.
type NativeWindow interface {
	// IncRef takes a reference on the window itself.
	IncRef()

	// DecRef releases a window reference.
	DecRef()

	// Size returns the window's nominal dimensions. The dimensions of a
	// dequeued buffer are authoritative and may differ after a resize.
	Size() (width, height int32)

	// Dequeue acquires the next buffer available for rendering.
	Dequeue() (NativeBuffer, error)

	// Lock pins buf into CPU-addressable memory for the given usage and
	// returns the mapped bytes. The mapping stays valid until Unlock.
	Lock(buf NativeBuffer, usage Usage) ([]byte, error)

	// Unlock releases a CPU mapping produced by Lock.
	Unlock(buf NativeBuffer) error

	// Queue hands a rendered buffer to the provider's consumer side for
	// presentation. The buffer must not be locked when queued.
	Queue(buf NativeBuffer) error
}
