package aa

import (
	"encoding/binary"
	"image"
	"io"

	"github.com/pkg/errors"
)

// NoHandle marks a message that is not currently displayed.
const NoHandle = -1

// Message is a timed caption shown while the current frame lies within
// [StartFrame, EndFrame].
type Message struct {
	SoundID    int
	Text       string
	Pos        image.Point
	Flags      uint16
	RGB1, RGB2 [3]uint8
	StartFrame int
	EndFrame   int

	// Handle is the kernel message slot while the message is displayed, or
	// NoHandle.
	Handle int
}

// Active reports whether frame lies within the message's window.
func (m *Message) Active(frame int) bool {
	return frame >= m.StartFrame && frame <= m.EndFrame
}

// SpriteSlot is the placement part of a frame entry. It has the same shape
// as a render list entry so the two can be compared directly.
type SpriteSlot struct {
	SpritesIndex int
	FrameNumber  int
	Position     image.Point
	Depth        int
	Scale        int
}

// FrameEntry places (or keeps) a sprite when the animation reaches
// FrameNumber.
type FrameEntry struct {
	FrameNumber int
	SeqIndex    int
	Slot        SpriteSlot
}

// MiscEntry holds the side effects and duration of one animation frame.
type MiscEntry struct {
	SoundID   int
	MsgIndex  int
	NumTicks  int
	PosAdjust image.Point
	Reserved  uint16
}

type rawMessage struct {
	SoundID    int16
	Text       [64]byte
	_          [4]byte
	X, Y       int16
	Flags      uint16
	RGB1       [3]uint8
	RGB2       [3]uint8
	_          [2]byte // kernel message index, runtime only
	_          [6]byte
	StartFrame uint16
	EndFrame   uint16
	_          [2]byte
}

type rawFrameEntry struct {
	FrameNumber  uint16
	SeqIndex     uint8
	SpritesIndex uint8
	SpriteFrame  uint16
	X, Y         int16
	Depth        int8
	Scale        int8
}

type rawMiscEntry struct {
	SoundID  uint8
	MsgIndex int8
	NumTicks uint16
	X, Y     int16
	Field8   uint16
}

// Encoded record sizes.
var (
	MessageSize    = binary.Size(rawMessage{})
	FrameEntrySize = binary.Size(rawFrameEntry{})
	MiscEntrySize  = binary.Size(rawMiscEntry{})
)

func (raw *rawMessage) decode() (Message, error) {
	m := Message{
		SoundID:    int(raw.SoundID),
		Text:       cstring(raw.Text[:]),
		Pos:        image.Pt(int(raw.X), int(raw.Y)),
		Flags:      raw.Flags,
		StartFrame: int(raw.StartFrame),
		EndFrame:   int(raw.EndFrame),
		Handle:     NoHandle,
	}
	// 6 bit VGA DAC values.
	for i := range m.RGB1 {
		m.RGB1[i] = raw.RGB1[i] << 2
		m.RGB2[i] = raw.RGB2[i] << 2
	}
	if m.StartFrame > m.EndFrame {
		return Message{}, errors.Wrapf(ErrMalformedResource, "message %q ends at frame %d before it starts at %d", m.Text, m.EndFrame, m.StartFrame)
	}
	return m, nil
}

func (raw *rawFrameEntry) decode() FrameEntry {
	return FrameEntry{
		FrameNumber: int(raw.FrameNumber),
		SeqIndex:    int(raw.SeqIndex),
		Slot: SpriteSlot{
			SpritesIndex: int(raw.SpritesIndex),
			FrameNumber:  int(raw.SpriteFrame),
			Position:     image.Pt(int(raw.X), int(raw.Y)),
			Depth:        int(raw.Depth),
			Scale:        int(raw.Scale),
		},
	}
}

func (raw *rawMiscEntry) decode() MiscEntry {
	return MiscEntry{
		SoundID:   int(raw.SoundID),
		MsgIndex:  int(raw.MsgIndex),
		NumTicks:  int(raw.NumTicks),
		PosAdjust: image.Pt(int(raw.X), int(raw.Y)),
		Reserved:  raw.Field8,
	}
}

// DecodeMessage reads one caption record.
func DecodeMessage(r io.Reader) (Message, error) {
	var raw rawMessage
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return Message{}, errors.Wrapf(ErrMalformedResource, "could not read aa message: %v", err)
	}
	return raw.decode()
}

// DecodeFrameEntry reads one frame placement record.
func DecodeFrameEntry(r io.Reader) (FrameEntry, error) {
	var raw rawFrameEntry
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return FrameEntry{}, errors.Wrapf(ErrMalformedResource, "could not read aa frame entry: %v", err)
	}
	return raw.decode(), nil
}

// DecodeMiscEntry reads one misc (timing) record.
func DecodeMiscEntry(r io.Reader) (MiscEntry, error) {
	var raw rawMiscEntry
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return MiscEntry{}, errors.Wrapf(ErrMalformedResource, "could not read aa misc entry: %v", err)
	}
	return raw.decode(), nil
}

// ReadMessages reads n consecutive caption records.
func ReadMessages(r io.Reader, n int) ([]Message, error) {
	raws := make([]rawMessage, n)
	if err := binary.Read(r, binary.LittleEndian, raws); err != nil {
		return nil, errors.Wrapf(ErrMalformedResource, "could not read %d aa messages: %v", n, err)
	}
	msgs := make([]Message, n)
	for i := range raws {
		m, err := raws[i].decode()
		if err != nil {
			return nil, errors.Wrapf(err, "message %d", i)
		}
		msgs[i] = m
	}
	return msgs, nil
}

// ReadFrameEntries reads n consecutive frame placement records.
func ReadFrameEntries(r io.Reader, n int) ([]FrameEntry, error) {
	raws := make([]rawFrameEntry, n)
	if err := binary.Read(r, binary.LittleEndian, raws); err != nil {
		return nil, errors.Wrapf(ErrMalformedResource, "could not read %d aa frame entries: %v", n, err)
	}
	entries := make([]FrameEntry, n)
	for i := range raws {
		entries[i] = raws[i].decode()
	}
	return entries, nil
}

// ReadMiscEntries reads n consecutive misc records.
func ReadMiscEntries(r io.Reader, n int) ([]MiscEntry, error) {
	raws := make([]rawMiscEntry, n)
	if err := binary.Read(r, binary.LittleEndian, raws); err != nil {
		return nil, errors.Wrapf(ErrMalformedResource, "could not read %d aa misc entries: %v", n, err)
	}
	entries := make([]MiscEntry, n)
	for i := range raws {
		entries[i] = raws[i].decode()
	}
	return entries, nil
}
