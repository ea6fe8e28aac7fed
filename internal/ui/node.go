package ui

import (
	"slices"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Node is a single UI element: panel, label, etc. It has optional classes and id for CSS matching,
// bounds (resolved by the engine from its style), and optional text for labels.
// Offset is added after layout, so list rows can share one rule and stack downwards.
type Node struct {
	Type   string // "panel", "label", etc.
	Class  string // space-separated, e.g. "row selected" matches .row and .selected
	ID     string // e.g. "main" for #main
	Bounds rl.Rectangle
	Offset rl.Vector2
	Text   string // for label-type nodes
}

// NewNode creates a node with type and optional class, id, and text.
func NewNode(typ, class, id, text string) *Node {
	return &Node{Type: typ, Class: class, ID: id, Text: text}
}

// HasClass reports whether class is one of the node's classes.
func (n *Node) HasClass(class string) bool {
	return slices.Contains(strings.Fields(n.Class), class)
}

// Matches reports whether a simple selector (.class, #id or type) applies to the node.
func (n *Node) Matches(sel string) bool {
	switch {
	case sel == "":
		return false
	case sel[0] == '.':
		return n.HasClass(sel[1:])
	case sel[0] == '#':
		return n.ID != "" && n.ID == sel[1:]
	}
	return n.Type == sel
}
