//go:build go1.13 && !windows
// +build go1.13,!windows

package imageprint

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"
)

// SixelColors is the palette size of sixel output.
const SixelColors = 64

func printRasTerm(w io.Writer, i image.Image) error {
	if rasterm.IsTermKitty() {
		if err := (rasterm.Settings{}).KittyWriteImage(w, i); err != nil {
			return errors.Wrap(err, "kitty")
		}
		fmt.Fprint(w, "\n")
		return nil
	}
	if rasterm.IsTermItermWez() {
		if err := (rasterm.Settings{}).ItermWriteImage(w, i); err != nil {
			return errors.Wrap(err, "iterm")
		}
		fmt.Fprint(w, "\n")
		return nil
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		q := quantize.MedianCutQuantizer{}
		p := image.NewPaletted(i.Bounds(), q.Quantize(make(color.Palette, 0, SixelColors), i))
		draw.FloydSteinberg.Draw(p, p.Bounds(), i, i.Bounds().Min)

		if err := (rasterm.Settings{}).SixelWriteImage(w, p); err != nil {
			return errors.Wrap(err, "sixel")
		}
		fmt.Fprint(w, "\n")
		return nil
	}
	return errors.New("terminal supports no raster image protocol")
}
