package scene

import (
	"image/color"
)

// PaletteSize is the number of entries in a VGA palette.
const PaletteSize = 256

// RGB4 is a palette-animation record as stored in scene info.
type RGB4 struct {
	R, G, B, U uint8
}

// Palette is the scene's 256 colour palette.
type Palette struct {
	entries [PaletteSize]color.RGBA
}

// NewPalette returns a palette with every entry set to opaque black.
func NewPalette() *Palette {
	p := &Palette{}
	for i := range p.entries {
		p.entries[i] = color.RGBA{A: 0xFF}
	}
	return p
}

// SetEntry sets palette index idx. Out of range indexes are ignored.
func (p *Palette) SetEntry(idx int, r, g, b uint8) {
	if idx < 0 || idx >= PaletteSize {
		return
	}
	p.entries[idx] = color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// Entry returns palette index idx.
func (p *Palette) Entry(idx int) color.RGBA {
	if idx < 0 || idx >= PaletteSize {
		return color.RGBA{}
	}
	return p.entries[idx]
}

// Colors returns the palette as a color.Palette.
func (p *Palette) Colors() color.Palette {
	pal := make(color.Palette, PaletteSize)
	for i, c := range p.entries {
		pal[i] = c
	}
	return pal
}
