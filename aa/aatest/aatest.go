// Package aatest builds byte-exact AA resources for tests.
//
// The encoders here write every field by hand rather than sharing the
// decoder's structs, so a layout mistake in either shows up as a test
// failure.
package aatest

import (
	"bytes"
	"encoding/binary"

	"badc0de.net/pkg/go-mads/aa"
	"badc0de.net/pkg/go-mads/madspack"
)

type writer struct {
	bytes.Buffer
}

func (w *writer) le(v interface{}) {
	binary.Write(&w.Buffer, binary.LittleEndian, v)
}

func (w *writer) skip(n int) {
	w.Write(make([]byte, n))
}

func (w *writer) fixed(s string, n int) {
	b := make([]byte, n)
	copy(b, s)
	w.Write(b)
}

// Header encodes h. The counts are taken from h's count fields, except the
// sprite set count which follows len(h.SpriteSetNames).
func Header(h *aa.Header) []byte {
	w := &writer{}
	w.le(uint16(len(h.SpriteSetNames)))
	w.le(uint16(h.MiscEntriesCount))
	w.le(uint16(h.FrameEntriesCount))
	w.le(uint16(h.MessagesCount))
	w.skip(1)
	w.le(uint8(h.Flags))
	w.skip(2)
	w.le(h.AnimMode)
	w.le(uint16(h.RoomNumber))
	w.skip(2)
	if h.ManualFlag {
		w.le(uint16(1))
	} else {
		w.le(uint16(0))
	}
	w.le(uint16(h.SpritesIndex))
	w.le(int16(h.ScrollPosition.X))
	w.le(int16(h.ScrollPosition.Y))
	w.le(h.ScrollTicks)
	w.skip(6)
	w.fixed(h.InterfaceFile, aa.FilenameSize)
	for _, n := range h.SpriteSetNames {
		w.fixed(n, aa.FilenameSize)
	}
	w.skip(81)
	w.fixed(h.LbmFilename, aa.FilenameSize)
	w.skip(365)
	w.fixed(h.SpritesFilename, aa.FilenameSize)
	w.skip(48)
	w.fixed(h.SoundName, aa.FilenameSize)
	w.skip(13)
	w.fixed(h.DsrName, aa.FilenameSize)
	w.fixed(h.FontResource, aa.FilenameSize)
	return w.Bytes()
}

// Message encodes m. Colour channels are stored as 6 bit values, so the
// passed 8 bit values are shifted right by 2.
func Message(m aa.Message) []byte {
	w := &writer{}
	w.le(int16(m.SoundID))
	w.fixed(m.Text, 64)
	w.skip(4)
	w.le(int16(m.Pos.X))
	w.le(int16(m.Pos.Y))
	w.le(m.Flags)
	for _, c := range m.RGB1 {
		w.le(c >> 2)
	}
	for _, c := range m.RGB2 {
		w.le(c >> 2)
	}
	w.le(int16(-1))
	w.skip(6)
	w.le(uint16(m.StartFrame))
	w.le(uint16(m.EndFrame))
	w.skip(2)
	return w.Bytes()
}

// FrameEntry encodes e.
func FrameEntry(e aa.FrameEntry) []byte {
	w := &writer{}
	w.le(uint16(e.FrameNumber))
	w.le(uint8(e.SeqIndex))
	w.le(uint8(e.Slot.SpritesIndex))
	w.le(uint16(e.Slot.FrameNumber))
	w.le(int16(e.Slot.Position.X))
	w.le(int16(e.Slot.Position.Y))
	w.le(int8(e.Slot.Depth))
	w.le(int8(e.Slot.Scale))
	return w.Bytes()
}

// MiscEntry encodes e.
func MiscEntry(e aa.MiscEntry) []byte {
	w := &writer{}
	w.le(uint8(e.SoundID))
	w.le(int8(e.MsgIndex))
	w.le(uint16(e.NumTicks))
	w.le(int16(e.PosAdjust.X))
	w.le(int16(e.PosAdjust.Y))
	w.le(e.Reserved)
	return w.Bytes()
}

// Resource describes a whole AA resource.
type Resource struct {
	Header   aa.Header
	Messages []aa.Message
	Frames   []aa.FrameEntry
	Misc     []aa.MiscEntry
}

// Streams returns the streams of r in container order: the header first,
// then each non-empty record array. The header counts are filled in from
// the record slices.
func (r *Resource) Streams() [][]byte {
	h := r.Header
	h.MessagesCount = len(r.Messages)
	h.FrameEntriesCount = len(r.Frames)
	h.MiscEntriesCount = len(r.Misc)

	streams := [][]byte{Header(&h)}
	if len(r.Messages) > 0 {
		var b []byte
		for _, m := range r.Messages {
			b = append(b, Message(m)...)
		}
		streams = append(streams, b)
	}
	if len(r.Frames) > 0 {
		var b []byte
		for _, e := range r.Frames {
			b = append(b, FrameEntry(e)...)
		}
		streams = append(streams, b)
	}
	if len(r.Misc) > 0 {
		var b []byte
		for _, e := range r.Misc {
			b = append(b, MiscEntry(e)...)
		}
		streams = append(streams, b)
	}
	return streams
}

// Pack returns r encoded as an uncompressed MADSPACK container.
func (r *Resource) Pack() []byte {
	buf := &bytes.Buffer{}
	if err := madspack.Write(buf, r.Streams()); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
