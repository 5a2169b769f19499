// Package imageprint prints images on a terminal.
//
// Colour modes print two characters per pixel so that the result keeps
// roughly the right aspect ratio.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"

	"github.com/gookit/color"
	"github.com/pkg/errors"
)

// Mode selects how an image is printed.
type Mode int

const (
	ModeTrueColor Mode = iota // 24 bit background colour escapes
	Mode256Color              // gookit/color, degrading to what the terminal supports
	ModeNoColor               // ascii shading only
	ModeITerm                 // iTerm2 inline image
	ModeRasTerm               // kitty, iTerm2 or sixel, whichever the terminal supports
)

var modeNames = map[string]Mode{
	"24bit":   ModeTrueColor,
	"256":     Mode256Color,
	"none":    ModeNoColor,
	"iterm":   ModeITerm,
	"rasterm": ModeRasTerm,
}

// ParseMode parses a mode name as accepted on the command line.
func ParseMode(s string) (Mode, error) {
	if m, ok := modeNames[s]; ok {
		return m, nil
	}
	return 0, errors.Errorf("unknown print mode %q", s)
}

func (m Mode) String() string {
	for n, mm := range modeNames {
		if mm == m {
			return n
		}
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Print writes img to w. blanks prints coloured spaces instead of shading
// characters; it is ignored by the image modes.
func Print(w io.Writer, img image.Image, mode Mode, blanks bool) error {
	switch mode {
	case ModeITerm:
		return printITerm(w, img, "frame.png")
	case ModeRasTerm:
		return printRasTerm(w, img)
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			shade(w, img.At(x, y), mode, blanks)
		}
		if mode != ModeNoColor {
			fmt.Fprint(w, "\x1b[0m")
		}
		fmt.Fprint(w, "\n")
	}
	return nil
}

func shade(w io.Writer, col ic.Color, mode Mode, blanks bool) {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		if mode == ModeNoColor {
			fmt.Fprint(w, "  ")
		} else {
			fmt.Fprint(w, "\x1b[0m  ")
		}
		return
	}

	cell := "  "
	if !blanks {
		switch a := ((cR + cG + cB) / 3) >> 8; {
		case a < 32:
			cell = ".."
		case a < 64:
			cell = "--"
		case a < 128:
			cell = "=="
		default:
			cell = "##"
		}
	}

	r, g, b := uint8(cR>>8), uint8(cG>>8), uint8(cB>>8)
	switch mode {
	case ModeNoColor:
		fmt.Fprint(w, cell)
	case Mode256Color:
		fmt.Fprint(w, color.RGB(r, g, b, true).Sprint(cell))
	default:
		fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm%s", r, g, b, cell)
	}
}

func printITerm(w io.Writer, img image.Image, fn string) error {
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	buf := &bytes.Buffer{}
	enc := base64.NewEncoder(base64.StdEncoding, buf)
	if err := png.Encode(enc, img); err != nil {
		return errors.Wrap(err, "encoding png for iterm")
	}
	enc.Close()
	_, err := fmt.Fprintf(w, "\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n", name, buf.Len(), img.Bounds().Size().X, img.Bounds().Size().Y, buf.String())
	return err
}
