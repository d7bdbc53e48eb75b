// SPDX-License-Identifier: MPL-2.0

package suite

import (
	"errors"
	"slices"
)

// ErrStopWalk can be returned by a Walk callback to end the walk early
// without an error.
var ErrStopWalk = errors.New("stop walk")

// Node is an ordered container of units and child nodes. Units come before
// children when walking.
type Node struct {
	Name     string
	Layer    Layer
	Units    []*Unit
	Children []*Node
}

// NewNode creates an empty node.
func NewNode(name string) *Node {
	return &Node{Name: name}
}

// AddUnit appends u.
func (n *Node) AddUnit(u *Unit) { n.Units = append(n.Units, u) }

// AddChild appends c. Nil children are ignored.
func (n *Node) AddChild(c *Node) {
	if c != nil {
		n.Children = append(n.Children, c)
	}
}

// Walk calls fn for every unit in depth-first order. Returning ErrStopWalk
// ends the walk and Walk returns nil; any other error is returned as is.
func (n *Node) Walk(fn func(u *Unit) error) error {
	err := n.walk(fn)
	if errors.Is(err, ErrStopWalk) {
		return nil
	}
	return err
}

func (n *Node) walk(fn func(u *Unit) error) error {
	for _, u := range n.Units {
		if err := fn(u); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := c.walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// AllUnits returns every unit in walk order.
func (n *Node) AllUnits() []*Unit {
	var out []*Unit
	_ = n.Walk(func(u *Unit) error {
		out = append(out, u)
		return nil
	})
	return out
}

// CountUnits returns the number of units in the tree.
func (n *Node) CountUnits() int {
	count := len(n.Units)
	for _, c := range n.Children {
		count += c.CountUnits()
	}
	return count
}

// Paths returns the relative paths of every unit in walk order.
func (n *Node) Paths() []string {
	units := n.AllUnits()
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.Path
	}
	return out
}

// Layers returns the distinct layer IDs used in the tree, in first-use order.
// Units without a layer contribute nothing.
func (n *Node) Layers() []LayerID {
	var ids []LayerID
	add := func(id LayerID) {
		if !id.IsZero() && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	var visit func(*Node)
	visit = func(node *Node) {
		if node.Layer != nil {
			add(node.Layer.LayerID())
		}
		for _, u := range node.Units {
			add(u.LayerID())
		}
		for _, c := range node.Children {
			visit(c)
		}
	}
	visit(n)
	return ids
}

// Child returns the first direct child named name.
func (n *Node) Child(name string) (*Node, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
