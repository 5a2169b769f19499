package imageprint

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"badc0de.net/pkg/go-mads/ttesting"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	img.SetRGBA(1, 0, color.RGBA{A: 0xFF})
	img.SetRGBA(0, 1, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xFF})
	return img
}

func TestPrintNoColor(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Print(buf, testImage(), ModeNoColor, false); err != nil {
		t.Fatalf("failed to print: %s", err)
	}
	ttesting.AssertEqualString(t, "output", buf.String(), "##..\n--  \n")
}

func TestPrintTrueColor(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Print(buf, testImage(), ModeTrueColor, true); err != nil {
		t.Fatalf("failed to print: %s", err)
	}
	lines := strings.Split(buf.String(), "\n")
	ttesting.AssertEqualInt(t, "lines", len(lines), 3)
	ttesting.AssertEqualString(t, "first row", lines[0], "\x1b[48;2;255;255;255m  \x1b[48;2;0;0;0m  \x1b[0m")
	ttesting.AssertEqualString(t, "second row", lines[1], "\x1b[48;2;16;32;48m  \x1b[0m  \x1b[0m")
}

func TestPrintITerm(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Print(buf, testImage(), ModeITerm, false); err != nil {
		t.Fatalf("failed to print: %s", err)
	}
	ttesting.AssertEqualBool(t, "escape", strings.Contains(buf.String(), "\033]1337;File=name="), true)
	ttesting.AssertEqualBool(t, "size", strings.Contains(buf.String(), "width=2px;height=2px"), true)
}

func TestParseMode(t *testing.T) {
	for _, name := range []string{"24bit", "256", "none", "iterm", "rasterm"} {
		m, err := ParseMode(name)
		if err != nil {
			t.Errorf("failed to parse %q: %s", name, err)
			continue
		}
		ttesting.AssertEqualString(t, "round trip", m.String(), name)
	}
	if _, err := ParseMode("sixel"); err == nil {
		t.Errorf("parsed an unknown mode")
	}
}
