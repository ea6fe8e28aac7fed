// Package source enumerates the live video sources a screen can be bound to.
// A Directory lists sources by index and name; the editor only ever matches them by name,
// because indices shift whenever a source appears or disappears.
package source

import "errors"

// ErrNoSource is returned by Open for an index that is not in the directory.
var ErrNoSource = errors.New("source: no such source")

// Source is one entry of a directory: an index valid until the next change, and a human-readable name.
type Source struct {
	Index int
	Name  string
}

// Binding is a live connection from a screen to a source. Bindings are never persisted or snapshotted;
// they are re-derived from the source name after a project load or undo.
type Binding interface {
	Source() Source
	Close() error
}

// Directory is the set of sources currently available.
// Sources and Open reflect the list as of the last Poll. Poll is called once per frame on the main thread
// and returns the new list with true when it changed since the previous Poll.
type Directory interface {
	Sources() []Source
	Open(index int) (Binding, error)
	Poll() ([]Source, bool)
}

// IndexOf returns the index of the source with exactly name in list, or -1.
func IndexOf(list []Source, name string) int {
	for _, s := range list {
		if s.Name == name {
			return s.Index
		}
	}
	return -1
}

func fromNames(names []string) []Source {
	out := make([]Source, len(names))
	for i, n := range names {
		out[i] = Source{Index: i, Name: n}
	}
	return out
}

func equal(a, b []Source) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
