package anim

import (
	"image"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// strategy is the part of playback that differs between animations driving
// the render list and animations that draw a manually placed sprite set.
type strategy interface {
	start(a *Animation)
	beforeFrame(a *Animation)
	setFrame(a *Animation, n int)
}

type standardStrategy struct{}

func (standardStrategy) start(*Animation)         {}
func (standardStrategy) beforeFrame(*Animation)   {}
func (standardStrategy) setFrame(*Animation, int) {}

// manualStrategy draws the header's manual sprite set straight onto the
// surface, outside the render list.
type manualStrategy struct{}

func (manualStrategy) start(a *Animation) {
	a.drawManualFrame(1)
}

func (manualStrategy) beforeFrame(a *Animation) {
	if n := a.manualFrameAt(a.currentFrame); n >= 0 {
		a.drawManualFrame(n)
	}
}

func (manualStrategy) setFrame(a *Animation, n int) {
	if f := a.manualFrameAt(n); f >= 0 {
		a.drawManualFrame(f)
	}
}

// manualFrameAt returns the highest sprite frame number placed from the
// manual sprite set by entries up to frame n, or -1.
func (a *Animation) manualFrameAt(n int) int {
	idx := a.spriteListIndexes[a.Header.SpritesIndex]
	frame := -1
	for i := a.oldFrameEntry; i < len(a.frames); i++ {
		e := &a.frames[i]
		if e.FrameNumber > n {
			break
		}
		if e.Slot.SpritesIndex == idx && e.Slot.FrameNumber > frame {
			frame = e.Slot.FrameNumber
		}
	}
	return frame
}

// drawManualFrame draws sprite frame n of the manual sprite set. The first
// draw lands at the set's native origin; after that the two manual
// positions are used in turn.
func (a *Animation) drawManualFrame(n int) {
	idx := a.spriteListIndexes[a.Header.SpritesIndex]
	asset, ok := a.deps.Sprites.Get(idx)
	if !ok {
		a.invalidIndex("manual sprite set %d is not registered", idx)
		return
	}

	var pt image.Point
	if a.manualIndex < 0 || !a.manualPosSet {
		f := asset.Frame(0)
		if f == nil {
			glog.Errorf("anim %s: %v", a.Name, errors.Wrap(ErrRenderFailure, "manual sprite set has no frame 0"))
			return
		}
		pt = f.Bounds().Min
		if a.manualPosSet {
			a.manualIndex = 0
		}
	} else {
		pt = a.manualPos[a.manualIndex]
		a.manualIndex = 1 - a.manualIndex
	}

	if a.deps.Surface == nil {
		glog.Errorf("anim %s: %v", a.Name, errors.Wrap(ErrRenderFailure, "no surface for manual sprite"))
		return
	}
	if err := a.deps.Surface.DrawSprite(asset, n, pt); err != nil {
		glog.Errorf("anim %s: %v", a.Name, errors.Wrapf(ErrRenderFailure, "manual frame %d at %v: %v", n, pt, err))
		return
	}
	glog.V(2).Infof("anim %s: manual frame %d at %v", a.Name, n, pt)
}
