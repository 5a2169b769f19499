package scene

import (
	"badc0de.net/pkg/go-mads/aa"
)

// SlotFlag tells the compositor what to do with a sprite slot.
type SlotFlag int

const (
	FlagStatic  SlotFlag = 0  // unchanged since the last frame
	FlagUpdate  SlotFlag = 1  // draw
	FlagDelta   SlotFlag = 3  // draw into the background
	FlagErase   SlotFlag = -1 // remove once composited
	FlagRefresh SlotFlag = -2 // forces a full compositor pass; draws nothing
)

func (f SlotFlag) String() string {
	switch f {
	case FlagStatic:
		return "static"
	case FlagUpdate:
		return "update"
	case FlagDelta:
		return "delta"
	case FlagErase:
		return "erase"
	case FlagRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// SpriteSlot is one render list entry.
type SpriteSlot struct {
	aa.SpriteSlot

	SeqIndex int
	Flags    SlotFlag
}

// Visible reports whether the compositor should draw the slot.
func (s *SpriteSlot) Visible() bool {
	return s.Flags >= FlagStatic && s.SeqIndex >= 0
}

// SpriteSlots is the scene render list. Entries are addressed by index and
// only removed by CleanUp or FullRefresh(true).
type SpriteSlots struct {
	slots []SpriteSlot
}

// NewSpriteSlots returns an empty render list.
func NewSpriteSlots() *SpriteSlots {
	return &SpriteSlots{}
}

// Add appends a zero slot and returns its index.
func (s *SpriteSlots) Add() int {
	s.slots = append(s.slots, SpriteSlot{})
	return len(s.slots) - 1
}

// Slot returns a pointer to slot i. The pointer is valid until the next
// Add, CleanUp or FullRefresh.
func (s *SpriteSlots) Slot(i int) *SpriteSlot {
	return &s.slots[i]
}

// Len returns the number of slots.
func (s *SpriteSlots) Len() int {
	return len(s.slots)
}

// FullRefresh queues a refresh marker, after dropping every slot when
// clearAll is set.
func (s *SpriteSlots) FullRefresh(clearAll bool) {
	if clearAll {
		s.slots = s.slots[:0]
	}
	s.slots = append(s.slots, SpriteSlot{SeqIndex: -1, Flags: FlagRefresh})
}

// RefreshPending reports whether a refresh marker is waiting for the
// compositor.
func (s *SpriteSlots) RefreshPending() bool {
	for i := range s.slots {
		if s.slots[i].Flags == FlagRefresh {
			return true
		}
	}
	return false
}

// CleanUp drops every slot with a negative flag. The compositor calls it
// after each pass.
func (s *SpriteSlots) CleanUp() {
	kept := s.slots[:0]
	for _, sl := range s.slots {
		if sl.Flags >= FlagStatic {
			kept = append(kept, sl)
		}
	}
	s.slots = kept
}
