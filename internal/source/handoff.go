package source

import "sync"

// Handoff passes one pending result from a worker goroutine to the main thread.
// The worker calls Set; the main thread calls Take once per frame. A newer Set replaces an untaken value.
type Handoff[T any] struct {
	mu      sync.Mutex
	pending bool
	value   T
}

// Set stores v as the pending result.
func (h *Handoff[T]) Set(v T) {
	h.mu.Lock()
	h.value = v
	h.pending = true
	h.mu.Unlock()
}

// Take returns the pending result and true, clearing it. Returns the zero value and false when nothing is pending.
func (h *Handoff[T]) Take() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var zero T
	if !h.pending {
		return zero, false
	}
	v := h.value
	h.value = zero
	h.pending = false
	return v, true
}
