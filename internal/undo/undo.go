// Package undo keeps a bounded history of full-scene snapshots.
//
// The host pushes a snapshot immediately before every mutating action. Undo swaps the current state
// for the most recent snapshot and keeps the current state for Redo, so undoing N times and redoing
// N times returns exactly to where the user started.
package undo

import (
	"encoding/json"

	"stage-designer/internal/logger"
)

// DefaultLimit is the number of undo steps kept when New is given a non-positive limit.
const DefaultLimit = 50

// Snapshot is a fully serialized scene: one JSON document per screen plus the selection at capture time.
// It holds no references to live objects, so it stays valid however the scene changes afterwards.
type Snapshot struct {
	Screens  []json.RawMessage
	Selected []int
	Primary  int
}

// Target is the state the manager captures and restores, normally the scene.
type Target interface {
	Snapshot() Snapshot
	Restore(Snapshot)
}

// Manager holds the undo and redo stacks for one Target.
type Manager struct {
	target Target
	limit  int
	undo   []Snapshot
	redo   []Snapshot
	// discarded is the redo history thrown away by the latest Push, returned by a Drop that follows it.
	discarded []Snapshot
}

// New returns a Manager for target keeping at most limit undo steps.
func New(target Target, limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{target: target, limit: limit}
}

// Push captures the current state of the target. Call it before applying a mutation.
// Any redo history is discarded, and the oldest step is dropped beyond the limit.
func (m *Manager) Push() {
	m.undo = append(m.undo, m.target.Snapshot())
	if len(m.undo) > m.limit {
		m.undo = append(m.undo[:0], m.undo[len(m.undo)-m.limit:]...)
	}
	m.discarded, m.redo = m.redo, nil
	logger.L().Debug("undo push", "depth", len(m.undo))
}

// Undo restores the most recent snapshot and keeps the current state for Redo.
// Returns false, doing nothing, when there is nothing to undo.
func (m *Manager) Undo() bool {
	if len(m.undo) == 0 {
		return false
	}
	m.discarded = nil
	prev := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, m.target.Snapshot())
	m.target.Restore(prev)
	logger.L().Debug("undo", "depth", len(m.undo), "redo", len(m.redo))
	return true
}

// Redo re-applies the state most recently replaced by Undo.
// Returns false, doing nothing, when there is nothing to redo.
func (m *Manager) Redo() bool {
	if len(m.redo) == 0 {
		return false
	}
	m.discarded = nil
	next := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, m.target.Snapshot())
	m.target.Restore(next)
	logger.L().Debug("redo", "depth", len(m.undo), "redo", len(m.redo))
	return true
}

// Drop discards the most recent undo step without restoring it, for a mutation that was abandoned
// after Push. When it directly follows that Push, the redo history the Push discarded comes back.
// Returns false when there is nothing to drop.
func (m *Manager) Drop() bool {
	if len(m.undo) == 0 {
		return false
	}
	m.undo = m.undo[:len(m.undo)-1]
	if m.discarded != nil {
		m.redo, m.discarded = m.discarded, nil
	}
	return true
}

// Clear drops the whole history, e.g. after loading a project.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
	m.discarded = nil
}

// CanUndo reports whether Undo would do anything.
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether Redo would do anything.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Len returns the number of undo steps held.
func (m *Manager) Len() int { return len(m.undo) }
