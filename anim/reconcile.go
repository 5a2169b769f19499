package anim

import (
	"github.com/golang/glog"

	"badc0de.net/pkg/go-mads/aa"
	"badc0de.net/pkg/go-mads/scene"
)

// reconcile merges frame entry e into the render list.
//
// The erase pass flagged every slot previously placed by an animation for
// erasure. A slot placed from an identical entry (same sequence index, same
// placement) is revived as Static so it is not redrawn; otherwise a new slot
// is appended.
func (a *Animation) reconcile(e *aa.FrameEntry) {
	slots := a.deps.Slots
	for i := 0; i < slots.Len(); i++ {
		s := slots.Slot(i)
		if s.SeqIndex-e.SeqIndex == SeqOffset && s.SpriteSlot == e.Slot {
			s.Flags = scene.FlagStatic
			glog.V(2).Infof("anim %s: slot %d unchanged (seq %d)", a.Name, i, e.SeqIndex)
			return
		}
	}

	asset, ok := a.deps.Sprites.Get(e.Slot.SpritesIndex)
	if !ok {
		a.invalidIndex("frame %d: sprite set %d is not registered", e.FrameNumber, e.Slot.SpritesIndex)
		return
	}

	i := slots.Add()
	s := slots.Slot(i)
	s.SpriteSlot = e.Slot
	s.SeqIndex = e.SeqIndex + SeqOffset
	if asset.IsBackground() {
		s.Flags = scene.FlagDelta
	} else {
		s.Flags = scene.FlagUpdate
	}
	glog.V(2).Infof("anim %s: slot %d placed (seq %d, %v)", a.Name, i, e.SeqIndex, s.Flags)
}
