package compositor

import (
	"image"
	"image/draw"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-mads/scene"
)

// Surface draws manually placed sprite frames onto an image. Frames are
// drawn with their top left corner at the given point.
type Surface struct {
	Dst *image.RGBA
}

// DrawSprite draws frame n of asset at pt.
func (s *Surface) DrawSprite(asset scene.Asset, n int, pt image.Point) error {
	if s.Dst == nil {
		return errors.New("surface has no image")
	}
	frame := asset.Frame(n)
	if frame == nil {
		return errors.Errorf("no frame %d; have %d", n, asset.FrameCount())
	}
	r := image.Rectangle{Min: pt, Max: pt.Add(frame.Bounds().Size())}
	if r.Intersect(s.Dst.Bounds()).Empty() {
		return errors.Errorf("frame %d at %v is off the surface %v", n, pt, s.Dst.Bounds())
	}
	draw.Draw(s.Dst, r, frame, frame.Bounds().Min, draw.Over)
	return nil
}
