package compositor

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"testing"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-mads/aa"
	"badc0de.net/pkg/go-mads/aa/aatest"
	"badc0de.net/pkg/go-mads/anim"
	"badc0de.net/pkg/go-mads/scene"
	"badc0de.net/pkg/go-mads/ttesting"
)

var (
	red  = color.RGBA{R: 0xFF, A: 0xFF}
	blue = color.RGBA{B: 0xFF, A: 0xFF}
)

type solidAsset struct {
	size image.Point
	col  color.RGBA
	bg   bool
}

func (a *solidAsset) FrameCount() int    { return 2 }
func (a *solidAsset) IsBackground() bool { return a.bg }
func (a *solidAsset) Frame(n int) image.Image {
	if n < 0 || n >= a.FrameCount() {
		return nil
	}
	img := image.NewRGBA(image.Rectangle{Max: a.size})
	draw.Draw(img, img.Bounds(), image.NewUniform(a.col), image.ZP, draw.Src)
	return img
}

func addSlot(s *scene.Scene, set int, pos image.Point, depth, scale int, flags scene.SlotFlag) {
	i := s.Slots.Add()
	sl := s.Slots.Slot(i)
	sl.SpritesIndex = set
	sl.FrameNumber = 0
	sl.Position = pos
	sl.Depth = depth
	sl.Scale = scale
	sl.SeqIndex = 0x81
	sl.Flags = flags
}

func assertColor(t *testing.T, name string, img image.Image, x, y int, want color.RGBA) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		got := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
		if got != want {
			t.Errorf("pixel (%d, %d): got %v; want %v", x, y, got, want)
		}
	})
}

func TestCompositeAnchorsBottomCentre(t *testing.T) {
	s := scene.New()
	set := s.Sprites.Add(&solidAsset{size: image.Pt(4, 6), col: red}, false)
	addSlot(s, set, image.Pt(10, 20), 0, 100, scene.FlagUpdate)

	dst := image.NewRGBA(image.Rect(0, 0, 32, 32))
	Composite(dst, s.Sprites, s.Slots, nil, nil, Options{})

	assertColor(t, "top left", dst, 8, 14, red)
	assertColor(t, "bottom right", dst, 11, 19, red)
	assertColor(t, "right of sprite", dst, 12, 19, color.RGBA{})
	assertColor(t, "below sprite", dst, 10, 20, color.RGBA{})
}

func TestCompositeScaleAndAdjust(t *testing.T) {
	s := scene.New()
	set := s.Sprites.Add(&solidAsset{size: image.Pt(4, 6), col: red}, false)
	addSlot(s, set, image.Pt(12, 22), 0, 50, scene.FlagUpdate)

	dst := image.NewRGBA(image.Rect(0, 0, 32, 32))
	Composite(dst, s.Sprites, s.Slots, nil, nil, Options{PosAdjust: image.Pt(2, 2)})

	assertColor(t, "scaled top left", dst, 9, 17, red)
	assertColor(t, "scaled bottom right", dst, 10, 19, red)
	assertColor(t, "outside scaled sprite", dst, 8, 17, color.RGBA{})
	assertColor(t, "outside scaled sprite vertically", dst, 9, 16, color.RGBA{})
}

func TestCompositeOrder(t *testing.T) {
	s := scene.New()
	near := s.Sprites.Add(&solidAsset{size: image.Pt(4, 4), col: blue}, false)
	far := s.Sprites.Add(&solidAsset{size: image.Pt(4, 4), col: red}, false)
	bg := s.Sprites.Add(&solidAsset{size: image.Pt(8, 8), col: red, bg: true}, false)

	addSlot(s, near, image.Pt(10, 10), 1, 100, scene.FlagUpdate)
	addSlot(s, far, image.Pt(10, 10), 5, 100, scene.FlagStatic)
	addSlot(s, far, image.Pt(20, 10), 5, 100, scene.FlagErase)
	addSlot(s, bg, image.Pt(10, 12), 0, 100, scene.FlagDelta)

	dst := image.NewRGBA(image.Rect(0, 0, 32, 32))
	Composite(dst, s.Sprites, s.Slots, nil, nil, Options{})

	assertColor(t, "nearer sprite on top", dst, 9, 8, blue)
	assertColor(t, "background below everything", dst, 7, 11, red)
	assertColor(t, "erased slot not drawn", dst, 20, 8, color.RGBA{})
}

func TestCompositeCaptions(t *testing.T) {
	s := scene.New()
	s.Palette.SetEntry(250, 0, 0xFF, 0)
	s.Palette.SetEntry(251, 0, 0, 0xFF)
	s.Messages.Add(image.Pt(2, 2), 250*0x101+0x100, 0, scene.IndefiniteTimeout, "XX")

	dst := image.NewRGBA(image.Rect(0, 0, 40, 20))
	Composite(dst, s.Sprites, s.Slots, s.Messages, s.Palette, Options{})

	seen := map[color.RGBA]bool{}
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			seen[dst.RGBAAt(x, y)] = true
		}
	}
	ttesting.AssertEqualBool(t, "text colour drawn", seen[color.RGBA{G: 0xFF, A: 0xFF}], true)
	ttesting.AssertEqualBool(t, "outline colour drawn", seen[color.RGBA{B: 0xFF, A: 0xFF}], true)
}

func TestSurface(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 16, 16))
	s := &Surface{Dst: dst}
	asset := &solidAsset{size: image.Pt(2, 2), col: blue}

	if err := s.DrawSprite(asset, 1, image.Pt(3, 4)); err != nil {
		t.Fatalf("failed to draw: %s", err)
	}
	assertColor(t, "drawn", dst, 4, 5, blue)
	assertColor(t, "not drawn", dst, 5, 5, color.RGBA{})

	if err := s.DrawSprite(asset, 5, image.Pt(0, 0)); err == nil {
		t.Errorf("drawing a missing frame succeeded")
	}
	if err := s.DrawSprite(asset, 0, image.Pt(40, 40)); err == nil {
		t.Errorf("drawing off the surface succeeded")
	}
}

func TestEncodeGIF(t *testing.T) {
	a := &solidAsset{size: image.Pt(8, 8), col: red}
	b := &solidAsset{size: image.Pt(8, 8), col: blue}
	buf := &bytes.Buffer{}
	if err := EncodeGIF(buf, []image.Image{a.Frame(0), b.Frame(0)}, []int{5, 7}); err != nil {
		t.Fatalf("failed to encode: %s", err)
	}
	g, err := gif.DecodeAll(buf)
	if err != nil {
		t.Fatalf("failed to decode: %s", err)
	}
	ttesting.AssertEqualInt(t, "frames", len(g.Image), 2)
	ttesting.AssertEqualInt(t, "second delay", g.Delay[1], 7)

	if err := EncodeGIF(io.Discard, nil, nil); err == nil {
		t.Errorf("encoding no frames succeeded")
	}
	ttesting.AssertEqualInt(t, "delay for 6 ticks", TicksToDelay(6), 10)
	ttesting.AssertEqualInt(t, "minimum delay", TicksToDelay(0), 2)
}

type packFile struct {
	*bytes.Reader
}

func (packFile) Close() error { return nil }

type onePack []byte

func (p onePack) Open(name string) (io.ReadCloser, error) {
	if name != "TEST.AA" {
		return nil, errors.Errorf("no file %q", name)
	}
	return packFile{bytes.NewReader(p)}, nil
}

type solidLoader struct{}

func (solidLoader) LoadSprites(name string, flags anim.LoadFlags) (scene.Asset, error) {
	return &solidAsset{size: image.Pt(4, 4), col: red}, nil
}

func TestRecorder(t *testing.T) {
	r := &aatest.Resource{
		Header: aa.Header{SpriteSetNames: []string{"RM101A1"}},
		Frames: []aa.FrameEntry{
			{FrameNumber: 0, SeqIndex: 1, Slot: aa.SpriteSlot{FrameNumber: 0, Position: image.Pt(8, 8), Scale: 100}},
			{FrameNumber: 1, SeqIndex: 1, Slot: aa.SpriteSlot{FrameNumber: 1, Position: image.Pt(16, 8), Scale: 100}},
		},
		Misc: []aa.MiscEntry{{NumTicks: 6}, {NumTicks: 12}},
	}
	s := scene.New()
	rec := NewRecorder(s, image.Pt(24, 16))
	deps := anim.SceneDeps(s, onePack(r.Pack()), solidLoader{})
	deps.Surface = rec.Surface()

	a, err := anim.Load(deps, "TEST", 0, nil)
	if err != nil {
		t.Fatalf("failed to load animation: %s", err)
	}
	frames, delays := rec.Record(a, 10)
	ttesting.AssertEqualInt(t, "frames", len(frames), 2)
	ttesting.AssertEqualInt(t, "first delay", delays[0], 20)
	assertColor(t, "frame 0 sprite", frames[0], 7, 6, red)
	assertColor(t, "frame 1 sprite moved", frames[1], 7, 6, color.RGBA{A: 0xFF})
	assertColor(t, "frame 1 sprite", frames[1], 15, 6, red)
	ttesting.AssertEqualInt(t, "erased slots cleaned up", s.Slots.Len(), 1)
}
