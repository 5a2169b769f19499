// Package compositor paints a scene's render list and kernel messages into
// an image.
//
// Sprite slots are drawn back to front: background (delta) slots first,
// then the rest by descending depth, ties keeping render list order. A
// slot's position is the bottom centre of the drawn frame, offset by the
// scene's position adjustment.
package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"sort"

	"github.com/golang/glog"
	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"badc0de.net/pkg/go-mads/scene"
)

// Sprites resolves registry indexes to sprite sets.
type Sprites interface {
	Get(i int) (scene.Asset, bool)
}

// Slots is a read-only view of a render list.
type Slots interface {
	Len() int
	Slot(i int) *scene.SpriteSlot
}

// Captions enumerates displayed kernel messages.
type Captions interface {
	Each(fn func(h int, m *scene.KernelMessage))
}

// Palette resolves caption colour indexes.
type Palette interface {
	Entry(idx int) color.RGBA
}

// Options change how Composite draws.
type Options struct {
	// PosAdjust is subtracted from every slot position.
	PosAdjust image.Point
	// Face is the caption font. Defaults to basicfont.Face7x13.
	Face font.Face
}

// Composite draws every visible slot of slots, then every caption of msgs,
// onto dst. msgs and pal may be nil.
func Composite(dst *image.RGBA, reg Sprites, slots Slots, msgs Captions, pal Palette, opts Options) {
	order := drawOrder(slots)
	for _, i := range order {
		s := slots.Slot(i)
		asset, ok := reg.Get(s.SpritesIndex)
		if !ok {
			glog.Errorf("slot %d: sprite set %d is not registered", i, s.SpritesIndex)
			continue
		}
		frame := asset.Frame(s.FrameNumber)
		if frame == nil {
			glog.Errorf("slot %d: sprite set %d has no frame %d", i, s.SpritesIndex, s.FrameNumber)
			continue
		}
		drawSlot(dst, frame, s.Position.Sub(opts.PosAdjust), s.Scale)
	}

	if msgs == nil || pal == nil {
		return
	}
	face := opts.Face
	if face == nil {
		face = basicfont.Face7x13
	}
	msgs.Each(func(h int, m *scene.KernelMessage) {
		drawCaption(dst, face, m, pal)
	})
}

func drawOrder(slots Slots) []int {
	var order []int
	for i := 0; i < slots.Len(); i++ {
		if slots.Slot(i).Visible() {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := slots.Slot(order[a]), slots.Slot(order[b])
		if ba, bb := sa.Flags == scene.FlagDelta, sb.Flags == scene.FlagDelta; ba != bb {
			return ba
		}
		return sa.Depth > sb.Depth
	})
	return order
}

func drawSlot(dst *image.RGBA, frame image.Image, pos image.Point, scale int) {
	if scale > 0 && scale != 100 {
		sz := frame.Bounds().Size()
		w := uint(sz.X * scale / 100)
		h := uint(sz.Y * scale / 100)
		if w == 0 || h == 0 {
			return
		}
		frame = resize.Resize(w, h, frame, resize.NearestNeighbor)
	}

	sz := frame.Bounds().Size()
	r := image.Rect(pos.X-sz.X/2, pos.Y-sz.Y, pos.X-sz.X/2+sz.X, pos.Y)
	draw.Draw(dst, r, frame, frame.Bounds().Min, draw.Over)
}

func drawCaption(dst *image.RGBA, face font.Face, m *scene.KernelMessage, pal Palette) {
	dot := fixed.P(m.Pos.X, m.Pos.Y+face.Metrics().Ascent.Ceil())
	d := &font.Drawer{Dst: dst, Face: face}

	d.Src = image.NewUniform(pal.Entry(m.OutlineColor()))
	for _, off := range []image.Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		d.Dot = dot.Add(fixed.P(off.X, off.Y))
		d.DrawString(m.Text)
	}

	d.Src = image.NewUniform(pal.Entry(m.TextColor()))
	d.Dot = dot
	d.DrawString(m.Text)
}

// Render paints one frame of s over background into a new image of the
// given size, then retires the slots and messages the frame consumed.
// background may be nil.
func Render(s *scene.Scene, background image.Image, size image.Point) *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Max: size})
	if background != nil {
		draw.Draw(img, img.Bounds(), background, background.Bounds().Min.Add(s.Background.Offset), draw.Src)
	} else {
		draw.Draw(img, img.Bounds(), image.NewUniform(s.Palette.Entry(0)), image.ZP, draw.Src)
	}

	Composite(img, s.Sprites, s.Slots, s.Messages, s.Palette, Options{PosAdjust: s.PosAdjust()})

	s.Slots.CleanUp()
	s.Messages.Expire()
	return img
}
