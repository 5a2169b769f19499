package anim

import (
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-mads/aa"
	"badc0de.net/pkg/go-mads/madspack"
	"badc0de.net/pkg/go-mads/scene"
)

// LoadFlags change how an animation and its sprite sets are loaded. Flags
// not listed here are passed through to the sprite loader.
type LoadFlags int

const (
	// LoadInterface loads the room interface the animation refers to.
	LoadInterface LoadFlags = 0x100
	// LoadNoData skips the caption, placement and per-frame streams.
	LoadNoData LoadFlags = 0x200
	// LoadManualSprite is set for ManualSprite mode animations.
	LoadManualSprite LoadFlags = 0x4000
)

// ResourceName returns the file name resName is loaded from.
func ResourceName(resName string) string {
	if !strings.Contains(resName, ".") {
		return resName + ".AA"
	}
	return resName
}

// Load reads animation resName and registers its sprite sets with
// deps.Sprites. palAnim, when not nil, receives the palette animation data
// of the room interface if one is loaded.
//
// Any error leaves the registry, the scene depth style and palAnim as they
// were.
func Load(deps Deps, resName string, flags LoadFlags, palAnim *[]scene.RGB4) (*Animation, error) {
	name := ResourceName(resName)
	f, err := deps.Files.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "opening animation %q", name)
	}
	defer f.Close()

	pack, err := madspack.Open(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading animation %q", name)
	}

	a := &Animation{
		deps:        deps,
		Name:        name,
		manualIndex: -1,
		strategy:    standardStrategy{},
	}
	iface, err := a.load(pack, flags)
	if err != nil {
		a.releaseSprites()
		return nil, errors.Wrapf(err, "loading animation %q", name)
	}
	if iface != nil {
		iface.apply(deps.Scene, palAnim)
	}

	a.state = StateReady
	glog.V(1).Infof("anim %s: loaded %d frames, %d frame entries, %d captions, %d sprite sets (%v)",
		name, len(a.misc), len(a.frames), len(a.messages), len(a.spriteListIndexes), a.Header.Mode())
	return a, nil
}

func (a *Animation) load(pack *madspack.Pack, flags LoadFlags) (*interfaceState, error) {
	var iface *interfaceState
	stream, err := pack.ItemStream(0)
	if err != nil {
		return nil, err
	}
	h, err := aa.DecodeHeader(stream)
	if err != nil {
		return nil, err
	}
	a.Header = h

	if h.Mode() == aa.ModeManualSprite {
		flags |= LoadManualSprite
	}
	a.flags = flags

	if flags&LoadInterface != 0 {
		if iface, err = a.loadInterface(); err != nil {
			return nil, errors.Wrap(err, "loading interface")
		}
	}
	if flags&LoadNoData != 0 {
		h.MessagesCount = 0
		h.FrameEntriesCount = 0
		h.MiscEntriesCount = 0
	}

	a.spriteListIndexes = make([]int, h.SpriteSetsCount)
	for i := range a.spriteListIndexes {
		a.spriteListIndexes[i] = -1
	}

	next := 1
	if h.MessagesCount > 0 {
		if stream, err = pack.ItemStream(next); err != nil {
			return nil, err
		}
		next++
		if a.messages, err = aa.ReadMessages(stream, h.MessagesCount); err != nil {
			return nil, err
		}
	}
	if h.FrameEntriesCount > 0 {
		if stream, err = pack.ItemStream(next); err != nil {
			return nil, err
		}
		next++
		if a.frames, err = aa.ReadFrameEntries(stream, h.FrameEntriesCount); err != nil {
			return nil, err
		}
	}
	if h.MiscEntriesCount > 0 {
		if stream, err = pack.ItemStream(next); err != nil {
			return nil, err
		}
		if a.misc, err = aa.ReadMiscEntries(stream, h.MiscEntriesCount); err != nil {
			return nil, err
		}
	}

	if h.HasCustomFont() {
		if a.deps.Fonts == nil {
			return nil, errors.Errorf("custom font %q but no font provider", h.FontResource)
		}
		if a.font, err = a.deps.Fonts.Font("*" + h.FontResource); err != nil {
			return nil, errors.Wrapf(err, "loading font %q", h.FontResource)
		}
	}

	for i, sname := range h.SpriteSetNames {
		pinned := false
		if h.ManualFlag && i == h.SpritesIndex {
			sname = "*" + sname
			pinned = true
		}
		asset, err := a.deps.Loader.LoadSprites(sname, flags)
		if err != nil {
			return nil, errors.Wrapf(err, "loading sprite set %q", sname)
		}
		a.spriteListIndexes[i] = a.deps.Sprites.Add(asset, pinned)
	}

	for i := range a.frames {
		s := &a.frames[i].Slot
		if s.SpritesIndex < 0 || s.SpritesIndex >= len(a.spriteListIndexes) {
			return nil, errors.Wrapf(aa.ErrMalformedResource, "frame entry %d: sprite set %d out of range; have %d",
				i, s.SpritesIndex, len(a.spriteListIndexes))
		}
		s.SpritesIndex = a.spriteListIndexes[s.SpritesIndex]
	}

	if h.ManualFlag {
		a.strategy = manualStrategy{}
	}
	return iface, nil
}

// interfaceState is what loading the room interface changes outside the
// animation. It is applied once the rest of the load has succeeded.
type interfaceState struct {
	depthStyle int
	palAnim    []scene.RGB4
	setPalAnim bool
}

func (s *interfaceState) apply(sc SceneState, palAnim *[]scene.RGB4) {
	sc.SetDepthStyle(s.depthStyle)
	if s.setPalAnim && palAnim != nil {
		*palAnim = append((*palAnim)[:0], s.palAnim...)
	}
}

func (a *Animation) loadInterface() (*interfaceState, error) {
	h := a.Header
	iface := &interfaceState{}
	switch h.Mode() {
	case aa.ModeStandard:
		if a.deps.Interface == nil {
			return nil, errors.New("no interface loader")
		}
		info, err := a.deps.Interface.LoadSceneInfo(h.RoomNumber, a.flags, h.InterfaceFile)
		if err != nil {
			return nil, err
		}
		if info.DepthStyle == 2 {
			iface.depthStyle = 1
		}
		iface.palAnim = info.PalAnimData
		iface.setPalAnim = true
	case aa.ModeManualSprite:
		if a.deps.Interface == nil {
			return nil, errors.New("no interface loader")
		}
		if err := a.deps.Interface.LoadInterface("*" + h.InterfaceFile); err != nil {
			return nil, err
		}
		iface.setPalAnim = true
	}
	return iface, nil
}
