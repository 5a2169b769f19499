package aa_test

import (
	"bytes"
	"image"
	"testing"

	"badc0de.net/pkg/go-mads/aa"
	"badc0de.net/pkg/go-mads/aa/aatest"
	"badc0de.net/pkg/go-mads/ttesting"
)

func testHeader() *aa.Header {
	return &aa.Header{
		MiscEntriesCount:  3,
		FrameEntriesCount: 2,
		MessagesCount:     1,
		Flags:             aa.FlagCustomFont,
		AnimMode:          4,
		RoomNumber:        101,
		ManualFlag:        true,
		SpritesIndex:      1,
		ScrollPosition:    image.Pt(-2, 3),
		ScrollTicks:       70000,
		InterfaceFile:     "I101.INT",
		SpriteSetNames:    []string{"RM101A1", "RXMRD_9"},
		LbmFilename:       "RM101.LBM",
		SpritesFilename:   "RM101.SS",
		SoundName:         "ASOUND.101",
		DsrName:           "RM101.DSR",
		FontResource:      "FONTINTR.FF",
	}
}

func TestDecodeHeader(t *testing.T) {
	want := testHeader()
	raw := aatest.Header(want)
	ttesting.AssertEqualInt(t, "encoded size", len(raw), aa.HeaderSize(2))
	ttesting.AssertEqualInt(t, "fixed size for two sprite sets", aa.HeaderSize(2), 621+2*13)

	h, err := aa.DecodeHeader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode header: %s", err)
	}

	ttesting.AssertEqualInt(t, "sprite sets", h.SpriteSetsCount, 2)
	ttesting.AssertEqualInt(t, "misc entries", h.MiscEntriesCount, 3)
	ttesting.AssertEqualInt(t, "frame entries", h.FrameEntriesCount, 2)
	ttesting.AssertEqualInt(t, "messages", h.MessagesCount, 1)
	ttesting.AssertEqualInt(t, "flags", int(h.Flags), int(aa.FlagCustomFont))
	ttesting.AssertEqualBool(t, "custom font", h.HasCustomFont(), true)
	ttesting.AssertEqualInt(t, "anim mode", int(h.AnimMode), 4)
	ttesting.AssertEqualString(t, "mode", h.Mode().String(), "manual-sprite")
	ttesting.AssertEqualInt(t, "room", h.RoomNumber, 101)
	ttesting.AssertEqualBool(t, "manual flag", h.ManualFlag, true)
	ttesting.AssertEqualInt(t, "sprites index", h.SpritesIndex, 1)
	ttesting.AssertEqualPoint(t, "scroll", h.ScrollPosition, image.Pt(-2, 3))
	ttesting.AssertEqualBool(t, "has scroll", h.HasScroll(), true)
	ttesting.AssertEqualUint32(t, "scroll ticks", h.ScrollTicks, 70000)
	ttesting.AssertEqualString(t, "interface", h.InterfaceFile, "I101.INT")
	ttesting.AssertEqualString(t, "lbm", h.LbmFilename, "RM101.LBM")
	ttesting.AssertEqualString(t, "sprites", h.SpritesFilename, "RM101.SS")
	ttesting.AssertEqualString(t, "sound", h.SoundName, "ASOUND.101")
	ttesting.AssertEqualString(t, "dsr", h.DsrName, "RM101.DSR")
	ttesting.AssertEqualString(t, "font", h.FontResource, "FONTINTR.FF")
	if len(h.SpriteSetNames) != 2 || h.SpriteSetNames[0] != "RM101A1" || h.SpriteSetNames[1] != "RXMRD_9" {
		t.Errorf("got sprite set names %q; want [RM101A1 RXMRD_9]", h.SpriteSetNames)
	}
}

func TestDecodeHeaderFieldOffsets(t *testing.T) {
	raw := aatest.Header(testHeader())

	// Spot checks against the documented offsets.
	if got := raw[9]; got != byte(aa.FlagCustomFont) {
		t.Errorf("flags at 9: got %02x; want %02x", got, aa.FlagCustomFont)
	}
	if got := int(raw[12]) | int(raw[13])<<8; got != 4 {
		t.Errorf("anim mode at 12: got %d; want 4", got)
	}
	if got := string(raw[36:44]); got != "I101.INT" {
		t.Errorf("interface file at 36: got %q; want %q", got, "I101.INT")
	}
	if got := string(raw[49:56]); got != "RM101A1" {
		t.Errorf("first sprite set at 49: got %q; want %q", got, "RM101A1")
	}
	lbm := 49 + 2*13 + 81
	if got := string(raw[lbm : lbm+9]); got != "RM101.LBM" {
		t.Errorf("lbm at %d: got %q; want %q", lbm, got, "RM101.LBM")
	}
}

func TestDecodeHeaderFilenameTruncation(t *testing.T) {
	h := testHeader()
	raw := aatest.Header(h)
	// Fill the whole 13 byte interface field with no terminator.
	copy(raw[36:49], "ABCDEFGHIJKLM")

	got, err := aa.DecodeHeader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode header: %s", err)
	}
	ttesting.AssertEqualString(t, "interface truncated to 12", got.InterfaceFile, "ABCDEFGHIJKL")
}

func TestDecodeHeaderTruncated(t *testing.T) {
	raw := aatest.Header(testHeader())
	for _, n := range []int{0, 10, 48, 60, len(raw) - 1} {
		_, err := aa.DecodeHeader(bytes.NewReader(raw[:n]))
		ttesting.AssertErrorIs(t, "truncated header", err, aa.ErrMalformedResource)
	}
}

func TestDecodeHeaderManualIndexOutOfRange(t *testing.T) {
	h := testHeader()
	h.SpritesIndex = 2
	_, err := aa.DecodeHeader(bytes.NewReader(aatest.Header(h)))
	ttesting.AssertErrorIs(t, "manual index past sprite sets", err, aa.ErrMalformedResource)
}

func TestModes(t *testing.T) {
	for raw, want := range map[uint16]aa.Mode{
		0: aa.ModeStandard,
		2: aa.ModeStandard,
		3: aa.ModeReserved,
		4: aa.ModeManualSprite,
		9: aa.ModeReserved,
	} {
		h := aa.Header{AnimMode: raw}
		if got := h.Mode(); got != want {
			t.Errorf("mode %d: got %v; want %v", raw, got, want)
		}
	}
}
