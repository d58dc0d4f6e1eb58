package sgl

import "sync"

// Resource is anything owned by a display that must be torn down when the
// display terminates. Surfaces implement it.
type Resource interface {
	Destroy()
}

// Display is the one logical display of the host environment. Drawables are
// created against an initialized display and are destroyed when it
// terminates.
type Display struct {
	mu          sync.Mutex
	initialized bool
	resources   map[Resource]struct{}
}

var defaultDisplay = &Display{}

// DefaultDisplay returns the single logical display. The host environment
// guarantees at most one.
func DefaultDisplay() *Display { return defaultDisplay }

// Initialize prepares the display for surface creation. Initializing an
// already-initialized display is a no-op.
func (d *Display) Initialize() error {
	if d == nil {
		return ErrBadDisplay
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		d.initialized = true
		d.resources = make(map[Resource]struct{})
	}
	return nil
}

// Terminate destroys every resource created against the display and marks it
// uninitialized. Safe to call on an uninitialized display.
func (d *Display) Terminate() {
	if d == nil {
		return
	}
	d.mu.Lock()
	res := d.resources
	d.resources = nil
	d.initialized = false
	d.mu.Unlock()

	// Destroy outside the lock: Destroy calls back into unregister.
	for r := range res {
		r.Destroy()
	}
}

// Initialized reports whether the display is ready for surface creation.
func (d *Display) Initialized() bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.initialized
}

// Register associates a resource with the display for teardown on
// Terminate. Fails with ErrNotInitialized on a terminated display.
func (d *Display) Register(r Resource) error {
	if d == nil {
		return ErrBadDisplay
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return ErrNotInitialized
	}
	d.resources[r] = struct{}{}
	return nil
}

// Unregister removes a resource, typically from its Destroy path. Unknown
// resources are ignored.
func (d *Display) Unregister(r Resource) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.resources != nil {
		delete(d.resources, r)
	}
}
