package scene

import (
	"image"

	"github.com/golang/glog"
)

// Clock is the game's frame clock, in ticks.
type Clock struct {
	now uint32
}

// FrameStartTime returns the tick count at the start of the current frame.
func (c *Clock) FrameStartTime() uint32 {
	return c.now
}

// Set moves the clock to t.
func (c *Clock) Set(t uint32) {
	c.now = t
}

// Tick advances the clock by n ticks.
func (c *Clock) Tick(n uint32) {
	c.now += n
}

// Sound records sound commands and forwards them to Sink, when set.
type Sound struct {
	Sink func(id int)

	history []int
}

// Command issues sound command id.
func (s *Sound) Command(id int) {
	glog.V(2).Infof("sound command %d", id)
	s.history = append(s.history, id)
	if s.Sink != nil {
		s.Sink(id)
	}
}

// History returns every command issued so far.
func (s *Sound) History() []int {
	return s.history
}

// Background tracks the scroll offset of the background surface.
type Background struct {
	Offset image.Point
}

// Scroll moves the background by (dx, dy).
func (b *Background) Scroll(dx, dy int) {
	b.Offset = b.Offset.Add(image.Pt(dx, dy))
}

// TriggerMode tells the game how a completion trigger is dispatched.
type TriggerMode int

const (
	TriggerParser TriggerMode = iota
	TriggerDaemon
	TriggerPrepare
)

func (m TriggerMode) String() string {
	switch m {
	case TriggerParser:
		return "parser"
	case TriggerDaemon:
		return "daemon"
	case TriggerPrepare:
		return "prepare"
	default:
		return "unknown"
	}
}

// ActionDetails is the verb/noun payload of a player action.
type ActionDetails struct {
	Verb           int
	Object         int
	IndirectObject int
}

// Delivery is one trigger handed to the game.
type Delivery struct {
	Trigger int
	Mode    TriggerMode
}

// Game holds the trigger and action slots shared by everything running in
// a scene.
type Game struct {
	SetupMode    TriggerMode
	ActiveAction ActionDetails
	Action       ActionDetails

	deliveries []Delivery
}

// TriggerSetupMode returns the mode new triggers are registered with.
func (g *Game) TriggerSetupMode() TriggerMode {
	return g.SetupMode
}

// Trigger queues trigger for dispatch in the given mode.
func (g *Game) Trigger(trigger int, mode TriggerMode) {
	glog.V(1).Infof("trigger %d (%v)", trigger, mode)
	g.deliveries = append(g.deliveries, Delivery{Trigger: trigger, Mode: mode})
}

// SetActiveAction sets the action being carried out.
func (g *Game) SetActiveAction(a ActionDetails) {
	g.ActiveAction = a
}

// SetAction sets the action the parser will see next.
func (g *Game) SetAction(a ActionDetails) {
	g.Action = a
}

// Deliveries returns every trigger queued so far.
func (g *Game) Deliveries() []Delivery {
	return g.deliveries
}

// Scene bundles the state of one room.
type Scene struct {
	Clock      *Clock
	Sprites    *SpriteRegistry
	Slots      *SpriteSlots
	Messages   *KernelMessages
	Palette    *Palette
	Sound      *Sound
	Background *Background
	Game       *Game

	posAdjust  image.Point
	depthStyle int
}

// New returns an empty scene.
func New() *Scene {
	clock := &Clock{}
	return &Scene{
		Clock:      clock,
		Sprites:    NewSpriteRegistry(),
		Slots:      NewSpriteSlots(),
		Messages:   NewKernelMessages(clock),
		Palette:    NewPalette(),
		Sound:      &Sound{},
		Background: &Background{},
		Game:       &Game{},
	}
}

// PosAdjust returns the offset applied to every sprite slot.
func (s *Scene) PosAdjust() image.Point {
	return s.posAdjust
}

// SetPosAdjust sets the sprite slot offset.
func (s *Scene) SetPosAdjust(p image.Point) {
	s.posAdjust = p
}

// DepthStyle returns the depth surface style of the room.
func (s *Scene) DepthStyle() int {
	return s.depthStyle
}

// SetDepthStyle sets the depth surface style of the room.
func (s *Scene) SetDepthStyle(style int) {
	s.depthStyle = style
}

// Teardown leaves the room: every caption is taken down, the render list is
// cleared behind a refresh marker, and sprite sets that are not pinned are
// evicted. It returns the number of evicted sprite sets.
func (s *Scene) Teardown() int {
	for h := 0; h < MaxKernelMessages; h++ {
		s.Messages.Remove(h)
	}
	s.Slots.FullRefresh(true)
	n := s.Sprites.Evict()
	glog.V(1).Infof("scene teardown: evicted %d sprite sets, %d resident", n, s.Sprites.Len())
	return n
}
