// Package spatial holds a BSP bounding-box search tree. Items are stored at the
// deepest tree cell that fully contains their box, so an item is found again by
// descending with the same box it was inserted with; callers that move an item
// must pass both the old and the new box to Update.
package spatial

import "github.com/gorustyt/gridnavmesh/common"

const defaultMinSize = 4

type entry[T comparable] struct {
	item T
	box  common.Box
}

type cell[T comparable] struct {
	bounds   common.Box
	children [2]*cell[T]
	items    []entry[T]
}

type Tree[T comparable] struct {
	root    *cell[T]
	minSize int
	count   int
}

// NewTree creates a tree partitioning bounds. Items whose box leaves bounds
// are still accepted and kept at the root.
func NewTree[T comparable](bounds common.Box) *Tree[T] {
	return &Tree[T]{root: &cell[T]{bounds: bounds}, minSize: defaultMinSize}
}

func (t *Tree[T]) Len() int {
	return t.count
}

func (c *cell[T]) split(minSize int) bool {
	if c.children[0] != nil {
		return true
	}
	b := c.bounds
	if b.Width() <= minSize && b.Height() <= minSize {
		return false
	}
	lo, hi := b, b
	if b.Width() >= b.Height() {
		mid := b.MinX + b.Width()/2
		lo.MaxX, hi.MinX = mid, mid+1
	} else {
		mid := b.MinY + b.Height()/2
		lo.MaxY, hi.MinY = mid, mid+1
	}
	c.children[0] = &cell[T]{bounds: lo}
	c.children[1] = &cell[T]{bounds: hi}
	return true
}

func (t *Tree[T]) home(box common.Box, create bool) *cell[T] {
	c := t.root
	for {
		if create {
			if !c.split(t.minSize) {
				return c
			}
		} else if c.children[0] == nil {
			return c
		}
		switch {
		case c.children[0].bounds.ContainsBox(box):
			c = c.children[0]
		case c.children[1].bounds.ContainsBox(box):
			c = c.children[1]
		default:
			return c
		}
	}
}

func (t *Tree[T]) Insert(item T, box common.Box) {
	c := t.home(box, true)
	c.items = append(c.items, entry[T]{item: item, box: box})
	t.count++
}

// Remove detaches item, which must have been inserted with box.
func (t *Tree[T]) Remove(item T, box common.Box) bool {
	c := t.home(box, false)
	for i, e := range c.items {
		if e.item == item {
			c.items = append(c.items[:i], c.items[i+1:]...)
			t.count--
			return true
		}
	}
	return false
}

// Update moves item from its old box to a new one.
func (t *Tree[T]) Update(item T, oldBox, newBox common.Box) {
	common.AssertTrue(t.Remove(item, oldBox), "spatial: item not indexed under %v", oldBox)
	t.Insert(item, newBox)
}

// QueryPoint calls fn for every item whose box contains p, until fn returns
// false.
func (t *Tree[T]) QueryPoint(p common.Point, fn func(item T) bool) {
	for c := t.root; c != nil; {
		for _, e := range c.items {
			if e.box.ContainsPoint(p) && !fn(e.item) {
				return
			}
		}
		switch {
		case c.children[0] == nil:
			c = nil
		case c.children[0].bounds.ContainsPoint(p):
			c = c.children[0]
		case c.children[1].bounds.ContainsPoint(p):
			c = c.children[1]
		default:
			c = nil
		}
	}
}

// Search calls fn for every item whose box overlaps box, until fn returns
// false.
func (t *Tree[T]) Search(box common.Box, fn func(item T) bool) {
	stack := []*cell[T]{t.root}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range c.items {
			if e.box.Overlaps(box) && !fn(e.item) {
				return
			}
		}
		for i := len(c.children) - 1; i >= 0; i-- {
			if ch := c.children[i]; ch != nil && ch.bounds.Overlaps(box) {
				stack = append(stack, ch)
			}
		}
	}
}
