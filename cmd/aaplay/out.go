package main

import (
	"image"
	"os"

	"github.com/nfnt/resize"

	"badc0de.net/pkg/go-mads/imageprint"
)

func out(img image.Image, mode imageprint.Mode, blanks bool) error {
	if *downsize {
		termSize, err := GetTermSize()
		if err == nil {
			if termSize.WSXPixel != 0 && termSize.WSYPixel != 0 && (mode == imageprint.ModeRasTerm || mode == imageprint.ModeITerm) {
				// Inline images can use the terminal's pixels.
				img = resize.Thumbnail(termSize.WSXPixel/2, termSize.WSYPixel/2, img, resize.Lanczos3)
			} else {
				// Two pixels per cell: one for the colour, one for the space after it.
				img = resize.Thumbnail(termSize.WSCol/2, termSize.WSRow, img, resize.Lanczos3)
			}
		}
	}
	return imageprint.Print(os.Stdout, img, mode, blanks)
}
