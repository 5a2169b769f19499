package aa

// This file contains code directly related to decoding the AA header
// stream.

import (
	"bytes"
	"encoding/binary"
	"image"
	"io"

	"github.com/pkg/errors"
)

// FilenameSize is the width of each embedded filename field. The last byte
// is always treated as a terminator.
const FilenameSize = 13

// ErrMalformedResource is the cause of every decoding failure in this
// package.
var ErrMalformedResource = errors.New("malformed aa resource")

// Mode is the animation mode declared in the header.
type Mode int

const (
	ModeStandard     Mode = iota // raw values 0, 1 and 2
	ModeReserved                 // raw value 3, and anything unknown
	ModeManualSprite             // raw value 4
)

func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeManualSprite:
		return "manual-sprite"
	default:
		return "reserved"
	}
}

// Flags are the header flag bits.
type Flags uint8

const (
	FlagCustomFont Flags = 0x20
	FlagDynamic    Flags = 0x40
)

type rawHeader struct {
	SpriteSetsCount   uint16
	MiscEntriesCount  uint16
	FrameEntriesCount uint16
	MessagesCount     uint16
	_                 uint8
	Flags             uint8
	_                 [2]byte
	AnimMode          uint16
	RoomNumber        uint16
	_                 [2]byte
	ManualFlag        uint16
	SpritesIndex      uint16
	ScrollX, ScrollY  int16
	ScrollTicks       uint32
	_                 [6]byte
	InterfaceFile     [FilenameSize]byte
}

type rawHeaderTail struct {
	_               [81]byte
	LbmFilename     [FilenameSize]byte
	_               [365]byte
	SpritesFilename [FilenameSize]byte
	_               [48]byte
	SoundName       [FilenameSize]byte
	_               [13]byte
	DsrName         [FilenameSize]byte
	FontResource    [FilenameSize]byte
}

var (
	headerPrefixSize = binary.Size(rawHeader{})
	headerTailSize   = binary.Size(rawHeaderTail{})
)

// HeaderSize returns the encoded size of a header declaring the passed
// number of sprite sets.
func HeaderSize(spriteSets int) int {
	return headerPrefixSize + spriteSets*FilenameSize + headerTailSize
}

// Header is the decoded stream 0 of an AA resource.
type Header struct {
	SpriteSetsCount   int
	MiscEntriesCount  int
	FrameEntriesCount int
	MessagesCount     int

	Flags    Flags
	AnimMode uint16

	RoomNumber   int
	ManualFlag   bool
	SpritesIndex int

	ScrollPosition image.Point
	ScrollTicks    uint32

	InterfaceFile  string
	SpriteSetNames []string

	LbmFilename     string
	SpritesFilename string
	SoundName       string
	DsrName         string
	FontResource    string
}

// Mode maps the raw AnimMode onto the known modes.
func (h *Header) Mode() Mode {
	switch {
	case h.AnimMode <= 2:
		return ModeStandard
	case h.AnimMode == 4:
		return ModeManualSprite
	default:
		return ModeReserved
	}
}

// HasScroll reports whether the animation scrolls the background on every
// frame.
func (h *Header) HasScroll() bool {
	return h.ScrollPosition.X != 0 || h.ScrollPosition.Y != 0
}

// HasCustomFont reports whether the animation brings its own caption font.
func (h *Header) HasCustomFont() bool {
	return h.Flags&FlagCustomFont != 0
}

// DecodeHeader reads a header from a stream positioned at its start.
func DecodeHeader(r io.Reader) (*Header, error) {
	var raw rawHeader
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return nil, errors.Wrapf(ErrMalformedResource, "could not read aa header: %v", err)
	}

	h := &Header{
		SpriteSetsCount:   int(raw.SpriteSetsCount),
		MiscEntriesCount:  int(raw.MiscEntriesCount),
		FrameEntriesCount: int(raw.FrameEntriesCount),
		MessagesCount:     int(raw.MessagesCount),
		Flags:             Flags(raw.Flags),
		AnimMode:          raw.AnimMode,
		RoomNumber:        int(raw.RoomNumber),
		ManualFlag:        raw.ManualFlag != 0,
		SpritesIndex:      int(raw.SpritesIndex),
		ScrollPosition:    image.Pt(int(raw.ScrollX), int(raw.ScrollY)),
		ScrollTicks:       raw.ScrollTicks,
		InterfaceFile:     filename(raw.InterfaceFile),
	}

	names := make([][FilenameSize]byte, h.SpriteSetsCount)
	if err := binary.Read(r, binary.LittleEndian, names); err != nil {
		return nil, errors.Wrapf(ErrMalformedResource, "could not read %d aa sprite set names: %v", h.SpriteSetsCount, err)
	}
	h.SpriteSetNames = make([]string, len(names))
	for i, n := range names {
		h.SpriteSetNames[i] = filename(n)
	}

	var tail rawHeaderTail
	if err := binary.Read(r, binary.LittleEndian, &tail); err != nil {
		return nil, errors.Wrapf(ErrMalformedResource, "could not read aa header filenames: %v", err)
	}
	h.LbmFilename = filename(tail.LbmFilename)
	h.SpritesFilename = filename(tail.SpritesFilename)
	h.SoundName = filename(tail.SoundName)
	h.DsrName = filename(tail.DsrName)
	h.FontResource = filename(tail.FontResource)

	if h.ManualFlag && h.SpritesIndex >= h.SpriteSetsCount {
		return nil, errors.Wrapf(ErrMalformedResource, "manual sprite set index %d out of range; have %d sprite sets", h.SpritesIndex, h.SpriteSetsCount)
	}

	return h, nil
}

// filename converts a fixed width field, truncating at the first NUL and
// keeping at most FilenameSize-1 characters.
func filename(b [FilenameSize]byte) string {
	return cstring(b[:FilenameSize-1])
}

func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
