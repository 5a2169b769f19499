// Package anim loads MADS .AA animations and plays them into a scene.
//
// An Animation is driven by calling Update (or Advance) once per game frame.
// It never blocks: each call either returns straight away because the next
// animation frame is not yet due, or performs one animation frame's worth of
// work and returns.
//
// Within one due frame the side effects happen in a fixed order: the sound
// command, background scrolling, the position-adjust refresh marker,
// sprite placement, captions, and finally the frame increment with its
// completion trigger.
package anim

import (
	"fmt"
	"image"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/image/font"

	"badc0de.net/pkg/go-mads/aa"
	"badc0de.net/pkg/go-mads/scene"
)

// SeqOffset tags render list entries placed by an animation. An entry
// created from a frame entry with sequence index s carries s+SeqOffset.
const SeqOffset = 0x80

// MaxActiveCaptions is the number of captions that can be up at once; each
// one needs its own palette pair.
const MaxActiveCaptions = 3

// Caption palette pairs, keyed by how many captions were already up.
const (
	captionColorFirst  = 250
	captionColorSecond = 252
	captionColorThird  = 16
)

var (
	// ErrRenderFailure is logged when a manual draw produced no pixels.
	ErrRenderFailure = errors.New("render failure")
	// ErrInvalidIndex is logged when a sprite set or caption index is out
	// of range.
	ErrInvalidIndex = errors.New("invalid index")
)

// Debug turns contract violations (ErrInvalidIndex) into panics.
var Debug = false

// State is the playback state of an Animation.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StatePlaying
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Animation is one loaded AA resource playing into a scene.
type Animation struct {
	deps Deps

	Header *aa.Header
	Name   string

	messages []aa.Message
	frames   []aa.FrameEntry
	misc     []aa.MiscEntry

	// spriteListIndexes maps header sprite set ordinals to registry
	// indexes; -1 when not registered.
	spriteListIndexes []int
	font              font.Face
	flags             LoadFlags
	strategy          strategy

	state          State
	currentFrame   int
	oldFrameEntry  int
	nextFrameTimer uint32
	messageCtr     int
	repeat         bool

	trigger       int
	triggerMode   scene.TriggerMode
	actionDetails scene.ActionDetails

	manualIndex  int
	manualPos    [2]image.Point
	manualPosSet bool

	freed bool
}

// State returns the playback state.
func (a *Animation) State() State {
	return a.state
}

// CurrentFrame returns the number of the next frame to be played.
func (a *Animation) CurrentFrame() int {
	return a.currentFrame
}

// FrameCount returns the number of frames, which is the number of misc
// entries.
func (a *Animation) FrameCount() int {
	return len(a.misc)
}

// ActiveCaptions returns how many captions are displayed.
func (a *Animation) ActiveCaptions() int {
	return a.messageCtr
}

// NextFrameDue returns the tick at which the next frame will be played.
func (a *Animation) NextFrameDue() uint32 {
	return a.nextFrameTimer
}

// Font returns the animation's caption font, or nil.
func (a *Animation) Font() font.Face {
	return a.font
}

// Messages returns the caption entries.
func (a *Animation) Messages() []aa.Message {
	return a.messages
}

// FrameEntries returns the placement entries, with sprite set indexes
// already remapped to registry indexes.
func (a *Animation) FrameEntries() []aa.FrameEntry {
	return a.frames
}

// MiscEntries returns the per-frame entries.
func (a *Animation) MiscEntries() []aa.MiscEntry {
	return a.misc
}

// Message returns caption i.
func (a *Animation) Message(i int) (*aa.Message, error) {
	if i < 0 || i >= len(a.messages) {
		return nil, a.invalidIndex("caption index %d out of range; have %d", i, len(a.messages))
	}
	return &a.messages[i], nil
}

// SpriteSetIndex returns the registry index of header sprite set i.
func (a *Animation) SpriteSetIndex(i int) (int, error) {
	if i < 0 || i >= len(a.spriteListIndexes) {
		return -1, a.invalidIndex("sprite set %d out of range; have %d", i, len(a.spriteListIndexes))
	}
	return a.spriteListIndexes[i], nil
}

// SetRepeat sets whether playback restarts from frame 0 once the last frame
// has been played.
func (a *Animation) SetRepeat(repeat bool) {
	a.repeat = repeat
}

// SetActionDetails sets the action payload handed to the scene when the
// animation starts and completes.
func (a *Animation) SetActionDetails(d scene.ActionDetails) {
	a.actionDetails = d
}

// SetManualPositions sets the two reference points used when drawing the
// manual sprite set.
func (a *Animation) SetManualPositions(p0, p1 image.Point) {
	a.manualPos = [2]image.Point{p0, p1}
	a.manualPosSet = true
}

func (a *Animation) invalidIndex(format string, args ...interface{}) error {
	err := errors.Wrapf(ErrInvalidIndex, format, args...)
	if Debug {
		panic(err)
	}
	glog.Warningf("anim %s: %v", a.Name, err)
	return err
}

// Start begins playback from frame 0. trigger, when non-zero, is delivered
// to the scheduler once the last frame has been played.
func (a *Animation) Start(trigger int) {
	if a.freed {
		glog.Warningf("anim %s: start after free", a.Name)
		return
	}
	a.dismissCaptions()
	a.manualIndex = -1
	a.currentFrame = 0
	a.oldFrameEntry = 0
	a.nextFrameTimer = a.deps.Clock.FrameStartTime()
	a.trigger = trigger
	a.triggerMode = a.deps.Scheduler.TriggerSetupMode()
	a.deps.Scheduler.SetActiveAction(a.actionDetails)
	for i := range a.messages {
		a.messages[i].Handle = aa.NoHandle
	}
	a.state = StatePlaying
	glog.V(1).Infof("anim %s: start, trigger %d (%v)", a.Name, trigger, a.triggerMode)

	a.strategy.start(a)
}

// SetCurrentFrame jumps to frame n. The next Update plays it.
func (a *Animation) SetCurrentFrame(n int) {
	if n < 0 || n > len(a.misc) {
		a.invalidIndex("frame %d out of range; have %d", n, len(a.misc))
		return
	}
	a.currentFrame = n
	a.oldFrameEntry = 0
	if a.state == StateCompleted {
		a.state = StatePlaying
	}
	a.nextFrameTimer = a.deps.Clock.FrameStartTime()

	a.strategy.setFrame(a, n)
}

// Update plays a frame if one is due according to the scene clock.
func (a *Animation) Update() {
	a.Advance(a.deps.Clock.FrameStartTime())
}

// Advance plays a frame if one is due at tick now.
func (a *Animation) Advance(now uint32) {
	if a.state != StatePlaying {
		return
	}

	a.strategy.beforeFrame(a)

	if now < a.nextFrameTimer {
		return
	}

	slots := a.deps.Slots
	for i := 0; i < slots.Len(); i++ {
		if s := slots.Slot(i); s.SeqIndex >= SeqOffset {
			s.Flags = scene.FlagErase
		}
	}

	if a.currentFrame >= len(a.misc) {
		if !a.repeat || len(a.misc) == 0 {
			glog.V(1).Infof("anim %s: complete after %d frames", a.Name, len(a.misc))
			a.state = StateCompleted
			return
		}
		a.currentFrame = 0
		a.oldFrameEntry = 0
	}

	misc := &a.misc[a.currentFrame]
	glog.V(2).Infof("anim %s: frame %d at tick %d", a.Name, a.currentFrame, now)

	if misc.SoundID != 0 {
		a.deps.Sound.Command(misc.SoundID)
	}

	if a.Header.HasScroll() {
		a.deps.Background.Scroll(a.Header.ScrollPosition.X, a.Header.ScrollPosition.Y)
		slots.FullRefresh(false)
	}

	if a.deps.Scene.PosAdjust() != misc.PosAdjust {
		a.deps.Scene.SetPosAdjust(misc.PosAdjust)
		i := slots.Add()
		s := slots.Slot(i)
		s.SeqIndex = -1
		s.Flags = scene.FlagRefresh
	}

	for a.oldFrameEntry < len(a.frames) {
		e := &a.frames[a.oldFrameEntry]
		if e.FrameNumber > a.currentFrame {
			break
		}
		if e.FrameNumber == a.currentFrame {
			a.reconcile(e)
		}
		a.oldFrameEntry++
	}

	a.updateCaptions()

	a.currentFrame++
	if a.currentFrame >= len(a.misc) && a.trigger != 0 {
		a.deps.Scheduler.Trigger(a.trigger, a.triggerMode)
		if a.triggerMode != scene.TriggerDaemon {
			a.deps.Scheduler.SetAction(a.actionDetails)
		}
	}

	frameNum := a.currentFrame
	if frameNum > len(a.misc)-1 {
		frameNum = len(a.misc) - 1
	}
	a.nextFrameTimer = now + uint32(a.misc[frameNum].NumTicks)
}

// Stop ends playback and takes down any captions. Unlike Free, Stop keeps
// the sprite set registrations and the render list untouched, so the
// animation can be started again. Call Free to release the sprite sets.
func (a *Animation) Stop() {
	if a.freed {
		return
	}
	a.dismissCaptions()
	a.state = StateCancelled
}

// Free ends playback and releases everything the animation holds: the
// render list is cleared and refreshed so no slot refers to a released
// sprite set, captions are taken down, and every sprite set registration is
// removed. The Animation must not be started again.
func (a *Animation) Free() {
	if a.freed {
		return
	}
	a.deps.Slots.FullRefresh(true)
	a.dismissCaptions()
	a.releaseSprites()
	a.font = nil
	a.freed = true
	a.state = StateCancelled
	glog.V(1).Infof("anim %s: freed", a.Name)
}

func (a *Animation) releaseSprites() {
	for i, idx := range a.spriteListIndexes {
		if idx >= 0 {
			a.deps.Sprites.Remove(idx)
			a.spriteListIndexes[i] = -1
		}
	}
}
