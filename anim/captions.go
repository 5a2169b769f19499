package anim

import (
	"badc0de.net/pkg/go-mads/aa"
	"badc0de.net/pkg/go-mads/scene"
)

// captionColor returns the first of the two palette entries a caption uses,
// picked by how many captions are already displayed.
func captionColor(active int) int {
	switch active {
	case 1:
		return captionColorSecond
	case 2:
		return captionColorThird
	default:
		return captionColorFirst
	}
}

// updateCaptions takes down captions whose window the current frame has
// left and puts up those whose window it has entered.
func (a *Animation) updateCaptions() {
	for i := range a.messages {
		m := &a.messages[i]
		if m.Handle != aa.NoHandle {
			if !m.Active(a.currentFrame) {
				a.deps.Messages.Remove(m.Handle)
				m.Handle = aa.NoHandle
				a.messageCtr--
			}
			continue
		}
		if !m.Active(a.currentFrame) || a.messageCtr >= MaxActiveCaptions {
			continue
		}

		col := captionColor(a.messageCtr)
		h := a.deps.Messages.Add(m.Pos, col*0x101+0x100, 0, scene.IndefiniteTimeout, m.Text)
		if h < 0 {
			// The renderer is full; try again next frame.
			continue
		}
		a.deps.Palette.SetEntry(col, m.RGB1[0], m.RGB1[1], m.RGB1[2])
		a.deps.Palette.SetEntry(col+1, m.RGB2[0], m.RGB2[1], m.RGB2[2])
		m.Handle = h
		a.messageCtr++
	}
}

// dismissCaptions takes down every displayed caption.
func (a *Animation) dismissCaptions() {
	for i := range a.messages {
		if a.messages[i].Handle != aa.NoHandle {
			a.deps.Messages.Remove(a.messages[i].Handle)
			a.messages[i].Handle = aa.NoHandle
		}
	}
	a.messageCtr = 0
}
