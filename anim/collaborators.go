package anim

import (
	"image"
	"io"

	"golang.org/x/image/font"

	"badc0de.net/pkg/go-mads/scene"
)

// The interfaces below are everything an Animation touches outside of its
// own data. Package scene provides an implementation of each.

// SpriteRegistry is the scene-wide sprite set arena.
type SpriteRegistry interface {
	Add(asset scene.Asset, pinned bool) int
	Remove(i int)
	Get(i int) (scene.Asset, bool)
}

// RenderList is the scene's list of sprite slots.
type RenderList interface {
	Add() int
	Slot(i int) *scene.SpriteSlot
	Len() int
	FullRefresh(clearAll bool)
}

// CaptionRenderer displays kernel messages.
type CaptionRenderer interface {
	Add(pos image.Point, color, startDelay, timeout int, text string) int
	Remove(handle int)
}

// PaletteWriter programs palette entries.
type PaletteWriter interface {
	SetEntry(idx int, r, g, b uint8)
}

// SoundDispatcher plays sound commands.
type SoundDispatcher interface {
	Command(id int)
}

// Clock is the game's frame clock.
type Clock interface {
	FrameStartTime() uint32
}

// Background is the scrollable background surface.
type Background interface {
	Scroll(dx, dy int)
}

// Scheduler receives completion triggers.
type Scheduler interface {
	TriggerSetupMode() scene.TriggerMode
	Trigger(trigger int, mode scene.TriggerMode)
	SetActiveAction(scene.ActionDetails)
	SetAction(scene.ActionDetails)
}

// SceneState is the room state an animation adjusts.
type SceneState interface {
	PosAdjust() image.Point
	SetPosAdjust(image.Point)
	SetDepthStyle(int)
}

// Opener opens resource files by name.
type Opener interface {
	Open(name string) (io.ReadCloser, error)
}

// SpriteLoader decodes a named sprite set. Names starting with "*" come
// from the resident resource namespace.
type SpriteLoader interface {
	LoadSprites(name string, flags LoadFlags) (scene.Asset, error)
}

// FontProvider looks up caption fonts.
type FontProvider interface {
	Font(name string) (font.Face, error)
}

// SceneInfo is the part of a room's scene info an interface load returns.
type SceneInfo struct {
	DepthStyle  int
	PalAnimData []scene.RGB4
}

// InterfaceLoader loads the room interface referenced by an animation.
type InterfaceLoader interface {
	LoadSceneInfo(room int, flags LoadFlags, interfaceFile string) (*SceneInfo, error)
	LoadInterface(name string) error
}

// Surface draws manually placed sprite frames.
type Surface interface {
	DrawSprite(asset scene.Asset, frame int, pt image.Point) error
}

// Deps are the collaborators of an Animation. Fonts, Interface and Surface
// may be nil when the animations loaded do not need them.
type Deps struct {
	Files      Opener
	Loader     SpriteLoader
	Sprites    SpriteRegistry
	Slots      RenderList
	Messages   CaptionRenderer
	Palette    PaletteWriter
	Sound      SoundDispatcher
	Clock      Clock
	Background Background
	Scheduler  Scheduler
	Scene      SceneState
	Fonts      FontProvider
	Interface  InterfaceLoader
	Surface    Surface
}

// SceneDeps fills in every collaborator backed by s.
func SceneDeps(s *scene.Scene, files Opener, loader SpriteLoader) Deps {
	return Deps{
		Files:      files,
		Loader:     loader,
		Sprites:    s.Sprites,
		Slots:      s.Slots,
		Messages:   s.Messages,
		Palette:    s.Palette,
		Sound:      s.Sound,
		Clock:      s.Clock,
		Background: s.Background,
		Scheduler:  s.Game,
		Scene:      s,
	}
}
