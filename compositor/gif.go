package compositor

import (
	"image"
	"image/gif"
	"io"

	"github.com/andybons/gogif"
	"github.com/pkg/errors"
)

// GIFColors is the palette size used when quantizing frames.
const GIFColors = 256

// EncodeGIF writes frames as a looping animated GIF. delays are in 100ths
// of a second, one per frame.
func EncodeGIF(w io.Writer, frames []image.Image, delays []int) error {
	if len(frames) == 0 {
		return errors.New("no frames to encode")
	}
	if len(delays) != len(frames) {
		return errors.Errorf("got %d delays for %d frames", len(delays), len(frames))
	}

	anim := &gif.GIF{}
	quantizer := gogif.MedianCutQuantizer{NumColor: GIFColors}
	for i, f := range frames {
		p := image.NewPaletted(f.Bounds(), nil)
		quantizer.Quantize(p, f.Bounds(), f, f.Bounds().Min)
		anim.Image = append(anim.Image, p)
		anim.Delay = append(anim.Delay, delays[i])
	}
	if err := gif.EncodeAll(w, anim); err != nil {
		return errors.Wrap(err, "encoding gif")
	}
	return nil
}

// TicksToDelay converts game ticks (60 per second) to GIF delay units.
func TicksToDelay(ticks int) int {
	d := (ticks*100 + 30) / 60
	if d < 2 {
		// Browsers treat very short delays as 10.
		d = 2
	}
	return d
}
