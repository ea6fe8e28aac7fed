package undo

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter is a Target whose whole state is a list of names and a primary index.
type counter struct {
	names   []string
	primary int
}

func (c *counter) Snapshot() Snapshot {
	s := Snapshot{Primary: c.primary}
	for _, n := range c.names {
		raw, _ := json.Marshal(n)
		s.Screens = append(s.Screens, raw)
	}
	if c.primary >= 0 {
		s.Selected = []int{c.primary}
	}
	return s
}

func (c *counter) Restore(s Snapshot) {
	c.names = nil
	for _, raw := range s.Screens {
		var n string
		_ = json.Unmarshal(raw, &n)
		c.names = append(c.names, n)
	}
	c.primary = s.Primary
}

func (c *counter) add() {
	c.names = append(c.names, "Screen "+strconv.Itoa(len(c.names)+1))
	c.primary = len(c.names) - 1
}

func TestEmptyHistory(t *testing.T) {
	c := &counter{primary: -1}
	m := New(c, 0)
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
	assert.False(t, m.Undo())
	assert.False(t, m.Redo())
	assert.Equal(t, -1, c.primary)
}

func TestUndoRedoSymmetry(t *testing.T) {
	c := &counter{primary: -1}
	m := New(c, 0)
	initial := c.Snapshot()

	const n = 5
	for i := 0; i < n; i++ {
		m.Push()
		c.add()
	}
	final := c.Snapshot()

	for i := 0; i < n; i++ {
		require.True(t, m.Undo(), "undo %d", i)
	}
	assert.False(t, m.Undo())
	assert.Equal(t, initial, c.Snapshot())

	for i := 0; i < n; i++ {
		require.True(t, m.Redo(), "redo %d", i)
	}
	assert.False(t, m.Redo())
	assert.Equal(t, final, c.Snapshot())
}

func TestPushClearsRedo(t *testing.T) {
	c := &counter{primary: -1}
	m := New(c, 0)
	m.Push()
	c.add()
	require.True(t, m.Undo())
	require.True(t, m.CanRedo())

	m.Push()
	c.add()
	assert.False(t, m.CanRedo())
}

func TestLimitEvictsOldest(t *testing.T) {
	c := &counter{primary: -1}
	m := New(c, 3)
	for i := 0; i < 5; i++ {
		m.Push()
		c.add()
	}
	assert.Equal(t, 3, m.Len())

	for m.Undo() {
	}
	assert.Len(t, c.names, 2, "the two oldest steps were evicted")
}

func TestDefaultLimit(t *testing.T) {
	c := &counter{primary: -1}
	m := New(c, -1)
	for i := 0; i < DefaultLimit+10; i++ {
		m.Push()
		c.add()
	}
	assert.Equal(t, DefaultLimit, m.Len())
}

func TestClear(t *testing.T) {
	c := &counter{primary: -1}
	m := New(c, 0)
	m.Push()
	c.add()
	m.Undo()
	m.Clear()
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
}

func TestDropForgetsNewestStep(t *testing.T) {
	c := &counter{primary: -1}
	m := New(c, 0)
	assert.False(t, m.Drop())

	m.Push()
	c.add()
	m.Push()
	require.True(t, m.Drop())
	assert.Equal(t, 1, m.Len())

	require.True(t, m.Undo())
	assert.Empty(t, c.names)
}

func TestDropAfterPushKeepsRedo(t *testing.T) {
	c := &counter{primary: -1}
	m := New(c, 0)
	m.Push()
	c.add()
	m.Push()
	c.add()
	require.True(t, m.Undo())
	require.True(t, m.CanRedo())

	m.Push()
	assert.False(t, m.CanRedo())
	require.True(t, m.Drop())
	assert.True(t, m.CanRedo(), "an abandoned step keeps the redo history")
	assert.Equal(t, 1, m.Len())

	require.True(t, m.Redo())
	assert.Equal(t, []string{"Screen 1", "Screen 2"}, c.names)
}

func TestDropAfterUndoLeavesRedoAlone(t *testing.T) {
	c := &counter{primary: -1}
	m := New(c, 0)
	m.Push()
	c.add()
	m.Push()
	c.add()
	require.True(t, m.Undo())

	require.True(t, m.Drop())
	assert.Equal(t, 0, m.Len())
	assert.True(t, m.CanRedo())
	assert.Equal(t, []string{"Screen 1"}, c.names)
}
