// Package sprites provides stand-in sprite sets for tools that play
// animations without the game's sprite files.
//
// A placeholder frame is a filled box in a colour derived from the set name,
// with the frame number written into it.
package sprites

import (
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"badc0de.net/pkg/go-mads/anim"
	"badc0de.net/pkg/go-mads/scene"
)

// DefaultFrames is the number of frames in a placeholder set.
const DefaultFrames = 32

// Placeholder is a generated sprite set.
type Placeholder struct {
	Name       string
	Size       image.Point
	Frames     int
	Background bool

	col    color.RGBA
	frames map[int]*image.RGBA
}

// NewPlaceholder returns a set of frames sized size.
func NewPlaceholder(name string, size image.Point, background bool) *Placeholder {
	h := fnv.New32a()
	h.Write([]byte(strings.TrimPrefix(name, "*")))
	sum := h.Sum32()
	return &Placeholder{
		Name:       name,
		Size:       size,
		Frames:     DefaultFrames,
		Background: background,
		col:        color.RGBA{R: uint8(sum>>16) | 0x40, G: uint8(sum>>8) | 0x40, B: uint8(sum) | 0x40, A: 0xFF},
		frames:     map[int]*image.RGBA{},
	}
}

func (p *Placeholder) FrameCount() int {
	return p.Frames
}

func (p *Placeholder) IsBackground() bool {
	return p.Background
}

// Frame renders frame n. Frames are positioned at the origin.
func (p *Placeholder) Frame(n int) image.Image {
	if n < 0 || n >= p.Frames {
		return nil
	}
	if f, ok := p.frames[n]; ok {
		return f
	}

	img := image.NewRGBA(image.Rectangle{Max: p.Size})
	draw.Draw(img, img.Bounds(), &image.Uniform{p.col}, image.ZP, draw.Src)
	border := color.RGBA{A: 0xFF}
	for x := 0; x < p.Size.X; x++ {
		img.SetRGBA(x, 0, border)
		img.SetRGBA(x, p.Size.Y-1, border)
	}
	for y := 0; y < p.Size.Y; y++ {
		img.SetRGBA(0, y, border)
		img.SetRGBA(p.Size.X-1, y, border)
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(2, 2+basicfont.Face7x13.Ascent),
	}
	d.DrawString(strconv.Itoa(n))

	p.frames[n] = img
	return img
}

// Loader implements anim.SpriteLoader by handing out placeholders.
type Loader struct {
	// Size of every placeholder frame. Defaults to 24x32.
	Size image.Point
	// Background lists the upper cased names of the sets that are
	// composited into the background.
	Background map[string]bool
}

// LoadSprites returns a placeholder for name.
func (l *Loader) LoadSprites(name string, flags anim.LoadFlags) (scene.Asset, error) {
	size := l.Size
	if size.X <= 0 || size.Y <= 0 {
		size = image.Pt(24, 32)
	}
	bg := l.Background[strings.ToUpper(strings.TrimPrefix(name, "*"))]
	glog.V(2).Infof("placeholder sprite set %q (flags %#x, background %v)", name, int(flags), bg)
	return NewPlaceholder(name, size, bg), nil
}
