// Package scene holds the per-scene state an animation plays into: the
// sprite registry, the render list (sprite slots), the kernel message list
// that displays captions, the palette, and the smaller pieces of game state
// an animation reads or writes.
//
// Nothing here is safe for concurrent use. A scene is driven from a single
// game loop.
package scene

import (
	"image"

	"github.com/golang/glog"
)

// Asset is a decoded sprite set.
type Asset interface {
	// FrameCount returns the number of frames in the set.
	FrameCount() int
	// Frame returns frame n, or nil if there is no such frame. The bounds
	// of the returned image are the frame's native placement.
	Frame(n int) image.Image
	// IsBackground reports whether the set is composited into the
	// background surface rather than drawn over it.
	IsBackground() bool
}

type registryEntry struct {
	asset  Asset
	pinned bool
	used   bool
}

// SpriteRegistry is an index-stable arena of sprite sets. Removed slots are
// reused by later additions.
type SpriteRegistry struct {
	entries []registryEntry
	free    []int
}

// NewSpriteRegistry returns an empty registry.
func NewSpriteRegistry() *SpriteRegistry {
	return &SpriteRegistry{}
}

// Add stores asset and returns its index. Pinned entries survive Evict.
func (r *SpriteRegistry) Add(asset Asset, pinned bool) int {
	ent := registryEntry{asset: asset, pinned: pinned, used: true}
	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		r.entries[idx] = ent
		return idx
	}
	r.entries = append(r.entries, ent)
	return len(r.entries) - 1
}

// Remove releases index i. Removing an unused index is a no-op.
func (r *SpriteRegistry) Remove(i int) {
	if i < 0 || i >= len(r.entries) || !r.entries[i].used {
		glog.V(2).Infof("sprite registry: remove of unused index %d", i)
		return
	}
	r.entries[i] = registryEntry{}
	r.free = append(r.free, i)
}

// Get returns the asset at index i.
func (r *SpriteRegistry) Get(i int) (Asset, bool) {
	if i < 0 || i >= len(r.entries) || !r.entries[i].used {
		return nil, false
	}
	return r.entries[i].asset, true
}

// Pinned reports whether index i is in use and pinned.
func (r *SpriteRegistry) Pinned(i int) bool {
	return i >= 0 && i < len(r.entries) && r.entries[i].used && r.entries[i].pinned
}

// Len returns the number of live entries.
func (r *SpriteRegistry) Len() int {
	return len(r.entries) - len(r.free)
}

// Evict removes every entry that is not pinned and returns how many were
// removed.
func (r *SpriteRegistry) Evict() int {
	n := 0
	for i := range r.entries {
		if r.entries[i].used && !r.entries[i].pinned {
			r.Remove(i)
			n++
		}
	}
	return n
}
