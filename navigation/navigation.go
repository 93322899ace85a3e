/*
DESCRIPTION
  navigation.go provides Navigator, the owner of the current picture index and
  the previous, current and next picture slots.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package navigation provides the picture navigation state machine driven by
// swipe gestures and loss of tracking.
package navigation

import "image"

// StartIndex is the index navigation starts from and returns to on Reset.
const StartIndex = 1

// Loader provides pictures by index.
type Loader interface {
	// Len returns the number of pictures available.
	Len() int

	// Load returns the picture at index i, which Load normalises into
	// [0, Len()). A nil image is returned if there are no pictures or the
	// picture could not be decoded.
	Load(i int) image.Image
}

// Prefetcher may be implemented by a Loader that can load pictures ahead of
// time without blocking.
type Prefetcher interface {
	Prefetch(indices ...int)
}

// State is a snapshot of navigation. Current corresponds to Index, Previous
// to Index-1 and Next to Index+1.
type State struct {
	Index    int
	Previous image.Image
	Current  image.Image
	Next     image.Image
}

// Navigator holds the navigation state. A Navigator is not safe for
// concurrent use; all calls are expected from one goroutine.
type Navigator struct {
	loader    Loader
	state     State
	listeners []func(State)
}

// New returns a Navigator at StartIndex with all three slots loaded.
func New(l Loader) *Navigator {
	n := &Navigator{loader: l}
	n.reload()
	return n
}

// Normalize maps any index i into [0, n). It returns 0 if n is not positive.
func Normalize(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// Load returns the picture for index i.
func (n *Navigator) Load(i int) image.Image {
	if n.loader == nil || n.loader.Len() == 0 {
		return nil
	}
	return n.loader.Load(i)
}

// State returns the current navigation state.
func (n *Navigator) State() State { return n.state }

// Index returns the current index. The index is not bounded by the number
// of pictures.
func (n *Navigator) Index() int { return n.state.Index }

// Subscribe registers f to be called with the new state after every
// transition. Listeners are called synchronously in the order they were
// registered.
func (n *Navigator) Subscribe(f func(State)) {
	n.listeners = append(n.listeners, f)
}

// Advance moves to the next picture.
func (n *Navigator) Advance() {
	n.state.Index++
	n.state.Previous = n.state.Current
	n.state.Current = n.state.Next
	n.state.Next = n.Load(n.state.Index + 1)
	n.prefetch(n.state.Index + 2)
	n.notify()
}

// Retreat moves to the previous picture.
func (n *Navigator) Retreat() {
	n.state.Index--
	n.state.Next = n.state.Current
	n.state.Current = n.state.Previous
	n.state.Previous = n.Load(n.state.Index - 1)
	n.prefetch(n.state.Index - 2)
	n.notify()
}

// Reset returns to StartIndex and reloads all three slots.
func (n *Navigator) Reset() {
	n.reload()
	n.notify()
}

func (n *Navigator) reload() {
	i := StartIndex
	n.state = State{
		Index:    i,
		Previous: n.Load(i - 1),
		Current:  n.Load(i),
		Next:     n.Load(i + 1),
	}
	n.prefetch(i-2, i+2)
}

func (n *Navigator) prefetch(indices ...int) {
	p, ok := n.loader.(Prefetcher)
	if !ok || n.loader.Len() == 0 {
		return
	}
	p.Prefetch(indices...)
}

func (n *Navigator) notify() {
	for _, f := range n.listeners {
		f(n.state)
	}
}
