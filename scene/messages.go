package scene

import (
	"image"

	"github.com/golang/glog"
)

const (
	// MaxKernelMessages is the number of kernel message slots in a scene.
	MaxKernelMessages = 10

	// IndefiniteTimeout keeps a message up until it is removed.
	IndefiniteTimeout = 9999999
)

// KernelMessage is a line of text displayed over the scene.
type KernelMessage struct {
	Pos        image.Point
	Color      int // low byte: text palette index, high byte: outline index
	StartDelay int
	Timeout    int
	Text       string

	started uint32
}

// TextColor returns the palette index of the text colour.
func (m *KernelMessage) TextColor() int {
	return m.Color & 0xFF
}

// OutlineColor returns the palette index of the outline colour.
func (m *KernelMessage) OutlineColor() int {
	return (m.Color >> 8) & 0xFF
}

// KernelMessages is a fixed table of displayed messages.
type KernelMessages struct {
	clock *Clock
	slots [MaxKernelMessages]*KernelMessage
}

// NewKernelMessages returns an empty table. Timeouts are measured against
// clock, which may be nil if only indefinite messages are used.
func NewKernelMessages(clock *Clock) *KernelMessages {
	return &KernelMessages{clock: clock}
}

// Add displays text and returns its handle, or -1 when every slot is taken.
func (k *KernelMessages) Add(pos image.Point, color, startDelay, timeout int, text string) int {
	for i, s := range k.slots {
		if s != nil {
			continue
		}
		m := &KernelMessage{
			Pos:        pos,
			Color:      color,
			StartDelay: startDelay,
			Timeout:    timeout,
			Text:       text,
		}
		if k.clock != nil {
			m.started = k.clock.FrameStartTime()
		}
		k.slots[i] = m
		glog.V(2).Infof("kernel message %d: %q at %v, colour %04x", i, text, pos, color)
		return i
	}
	glog.Warningf("kernel messages full; dropping %q", text)
	return -1
}

// Remove takes message h off the screen. Removing a free or invalid handle
// is a no-op.
func (k *KernelMessages) Remove(h int) {
	if h < 0 || h >= len(k.slots) {
		return
	}
	k.slots[h] = nil
}

// Get returns message h.
func (k *KernelMessages) Get(h int) (*KernelMessage, bool) {
	if h < 0 || h >= len(k.slots) || k.slots[h] == nil {
		return nil, false
	}
	return k.slots[h], true
}

// Count returns the number of displayed messages.
func (k *KernelMessages) Count() int {
	n := 0
	for _, s := range k.slots {
		if s != nil {
			n++
		}
	}
	return n
}

// Each calls fn for every displayed message, in handle order, skipping those
// still inside their start delay.
func (k *KernelMessages) Each(fn func(h int, m *KernelMessage)) {
	for i, s := range k.slots {
		if s == nil {
			continue
		}
		if k.clock != nil && s.StartDelay > 0 && k.clock.FrameStartTime() < s.started+uint32(s.StartDelay) {
			continue
		}
		fn(i, s)
	}
}

// Expire removes timed messages whose timeout has passed.
func (k *KernelMessages) Expire() {
	if k.clock == nil {
		return
	}
	now := k.clock.FrameStartTime()
	for i, s := range k.slots {
		if s == nil || s.Timeout == IndefiniteTimeout {
			continue
		}
		if now >= s.started+uint32(s.StartDelay)+uint32(s.Timeout) {
			k.slots[i] = nil
		}
	}
}
