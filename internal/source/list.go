package source

import "sync"

// List is an in-memory Directory. Set may be called from any goroutine; the change becomes visible on the next Poll.
type List struct {
	changes Handoff[[]Source]
	mu      sync.RWMutex
	current []Source
}

// NewList returns a List whose current sources are names, in order.
func NewList(names ...string) *List {
	return &List{current: fromNames(names)}
}

// Set replaces the list of source names. Indices are assigned in order.
func (l *List) Set(names ...string) {
	l.changes.Set(fromNames(names))
}

// Sources returns a copy of the current list.
func (l *List) Sources() []Source {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Source, len(l.current))
	copy(out, l.current)
	return out
}

// Lookup returns the source at index in the current list.
func (l *List) Lookup(index int) (Source, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if index < 0 || index >= len(l.current) {
		return Source{}, false
	}
	return l.current[index], true
}

// Open returns a binding to the source at index.
func (l *List) Open(index int) (Binding, error) {
	src, ok := l.Lookup(index)
	if !ok {
		return nil, ErrNoSource
	}
	return &listBinding{src: src}, nil
}

// Poll applies a pending Set. It returns the new list and true only when the list actually changed.
func (l *List) Poll() ([]Source, bool) {
	next, ok := l.changes.Take()
	if !ok {
		return nil, false
	}
	l.mu.Lock()
	changed := !equal(l.current, next)
	l.current = next
	l.mu.Unlock()
	if !changed {
		return nil, false
	}
	return l.Sources(), true
}

type listBinding struct {
	src    Source
	closed bool
}

func (b *listBinding) Source() Source { return b.src }

func (b *listBinding) Close() error {
	b.closed = true
	return nil
}
