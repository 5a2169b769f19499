package aa_test

import (
	"bytes"
	"image"
	"testing"

	"badc0de.net/pkg/go-mads/aa"
	"badc0de.net/pkg/go-mads/aa/aatest"
	"badc0de.net/pkg/go-mads/ttesting"
)

func TestRecordSizes(t *testing.T) {
	ttesting.AssertEqualInt(t, "message", aa.MessageSize, 96)
	ttesting.AssertEqualInt(t, "frame entry", aa.FrameEntrySize, 12)
	ttesting.AssertEqualInt(t, "misc entry", aa.MiscEntrySize, 10)

	ttesting.AssertEqualInt(t, "encoded message", len(aatest.Message(aa.Message{})), aa.MessageSize)
	ttesting.AssertEqualInt(t, "encoded frame entry", len(aatest.FrameEntry(aa.FrameEntry{})), aa.FrameEntrySize)
	ttesting.AssertEqualInt(t, "encoded misc entry", len(aatest.MiscEntry(aa.MiscEntry{})), aa.MiscEntrySize)
}

func TestDecodeMessage(t *testing.T) {
	raw := aatest.Message(aa.Message{
		SoundID:    7,
		Text:       "Hello there",
		Pos:        image.Pt(160, -4),
		Flags:      0x0102,
		StartFrame: 1,
		EndFrame:   2,
	})
	// Raw 6 bit channels: 63, 32, 1 and 0, 10, 20.
	copy(raw[76:82], []byte{63, 32, 1, 0, 10, 20})

	m, err := aa.DecodeMessage(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode message: %s", err)
	}
	ttesting.AssertEqualInt(t, "sound", m.SoundID, 7)
	ttesting.AssertEqualString(t, "text", m.Text, "Hello there")
	ttesting.AssertEqualPoint(t, "pos", m.Pos, image.Pt(160, -4))
	ttesting.AssertEqualInt(t, "flags", int(m.Flags), 0x0102)
	ttesting.AssertEqualInt(t, "start", m.StartFrame, 1)
	ttesting.AssertEqualInt(t, "end", m.EndFrame, 2)
	ttesting.AssertEqualInt(t, "handle", m.Handle, aa.NoHandle)
	if m.RGB1 != [3]uint8{252, 128, 4} {
		t.Errorf("got rgb1 %v; want [252 128 4]", m.RGB1)
	}
	if m.RGB2 != [3]uint8{0, 40, 80} {
		t.Errorf("got rgb2 %v; want [0 40 80]", m.RGB2)
	}
}

func TestDecodeMessageFullWidthText(t *testing.T) {
	raw := aatest.Message(aa.Message{StartFrame: 0, EndFrame: 0})
	copy(raw[2:66], bytes.Repeat([]byte{'x'}, 64))
	m, err := aa.DecodeMessage(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode message: %s", err)
	}
	ttesting.AssertEqualInt(t, "text length", len(m.Text), 64)
}

func TestDecodeMessageBadWindow(t *testing.T) {
	raw := aatest.Message(aa.Message{StartFrame: 5, EndFrame: 4})
	_, err := aa.DecodeMessage(bytes.NewReader(raw))
	ttesting.AssertErrorIs(t, "end before start", err, aa.ErrMalformedResource)
}

func TestDecodeFrameEntry(t *testing.T) {
	want := aa.FrameEntry{
		FrameNumber: 513,
		SeqIndex:    3,
		Slot: aa.SpriteSlot{
			SpritesIndex: 1,
			FrameNumber:  12,
			Position:     image.Pt(-1, 200),
			Depth:        -3,
			Scale:        100,
		},
	}
	got, err := aa.DecodeFrameEntry(bytes.NewReader(aatest.FrameEntry(want)))
	if err != nil {
		t.Fatalf("failed to decode frame entry: %s", err)
	}
	if got != want {
		t.Errorf("got %+v; want %+v", got, want)
	}
}

func TestDecodeMiscEntry(t *testing.T) {
	want := aa.MiscEntry{
		SoundID:   200,
		MsgIndex:  -1,
		NumTicks:  0x1234,
		PosAdjust: image.Pt(4, -5),
		Reserved:  9,
	}
	got, err := aa.DecodeMiscEntry(bytes.NewReader(aatest.MiscEntry(want)))
	if err != nil {
		t.Fatalf("failed to decode misc entry: %s", err)
	}
	if got != want {
		t.Errorf("got %+v; want %+v", got, want)
	}
}

func TestReadRecordsTruncated(t *testing.T) {
	frames := append(aatest.FrameEntry(aa.FrameEntry{FrameNumber: 1}), aatest.FrameEntry(aa.FrameEntry{FrameNumber: 2})...)

	got, err := aa.ReadFrameEntries(bytes.NewReader(frames), 2)
	if err != nil {
		t.Fatalf("failed to read frame entries: %s", err)
	}
	ttesting.AssertEqualInt(t, "second frame", got[1].FrameNumber, 2)

	_, err = aa.ReadFrameEntries(bytes.NewReader(frames[:len(frames)-1]), 2)
	ttesting.AssertErrorIs(t, "short frame stream", err, aa.ErrMalformedResource)

	_, err = aa.ReadMiscEntries(bytes.NewReader(aatest.MiscEntry(aa.MiscEntry{})), 2)
	ttesting.AssertErrorIs(t, "short misc stream", err, aa.ErrMalformedResource)

	_, err = aa.ReadMessages(bytes.NewReader(nil), 1)
	ttesting.AssertErrorIs(t, "empty message stream", err, aa.ErrMalformedResource)
}
