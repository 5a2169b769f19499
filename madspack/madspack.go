// Package madspack reads MADSPACK 2.0 containers: a small index followed by
// up to 16 item payloads, each either stored raw or FAB compressed.
//
// All items are read and decompressed when the container is opened. Items
// are small (an AA resource rarely exceeds a few kilobytes), and keeping them
// in memory lets callers open any item in any order.
package madspack

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	// Signature is the text every container starts with.
	Signature = "MADSPACK 2.0"

	// MaxItems is the number of index slots in a container.
	MaxItems = 16

	signatureSize = 14
	indexSize     = MaxItems * 10
	// DataOffset is where the first item's payload starts.
	DataOffset = signatureSize + 2 + indexSize
)

// ErrMalformedContainer is the cause of every error returned while opening a
// container.
var ErrMalformedContainer = errors.New("malformed madspack container")

type indexEntry struct {
	Hash           uint16
	Size           uint32
	CompressedSize uint32
}

// Item describes one stream in the container.
type Item struct {
	Hash           uint16
	Size           int
	CompressedSize int
	Compressed     bool

	data []byte
}

// Pack is an opened container.
type Pack struct {
	items []Item
}

// IsPack reports whether b starts with the container signature.
func IsPack(b []byte) bool {
	return len(b) >= len(Signature) && string(b[:len(Signature)]) == Signature
}

// Open reads the index of the container in r, followed by every item.
func Open(r io.Reader) (*Pack, error) {
	var sig [signatureSize]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return nil, errors.Wrapf(ErrMalformedContainer, "could not read signature: %v", err)
	}
	if !IsPack(sig[:]) {
		return nil, errors.Wrapf(ErrMalformedContainer, "bad signature %q", sig[:len(Signature)])
	}

	var count uint16
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, errors.Wrapf(ErrMalformedContainer, "could not read item count: %v", err)
	}
	if count > MaxItems {
		return nil, errors.Wrapf(ErrMalformedContainer, "too many items; got %d, want <= %d", count, MaxItems)
	}

	var index [MaxItems]indexEntry
	if err := binary.Read(r, binary.LittleEndian, &index); err != nil {
		return nil, errors.Wrapf(ErrMalformedContainer, "could not read index: %v", err)
	}

	p := &Pack{items: make([]Item, count)}
	for i := range p.items {
		ent := index[i]
		// The buffer grows with the data actually read, never to the size
		// the index declares.
		payload := &bytes.Buffer{}
		if _, err := io.CopyN(payload, r, int64(ent.CompressedSize)); err != nil {
			return nil, errors.Wrapf(ErrMalformedContainer, "could not read item %d (%d bytes): %v", i, ent.CompressedSize, err)
		}
		src := payload.Bytes()

		it := Item{
			Hash:           ent.Hash,
			Size:           int(ent.Size),
			CompressedSize: int(ent.CompressedSize),
		}
		if ent.Size == ent.CompressedSize && !isFAB(src) {
			it.data = src
		} else {
			data, err := decompressFAB(src, int(ent.Size))
			if err != nil {
				return nil, errors.Wrapf(err, "item %d", i)
			}
			it.data = data
			it.Compressed = true
		}
		glog.V(3).Infof("madspack item %d: hash %04x, size %d, compressed %d", i, it.Hash, it.Size, it.CompressedSize)
		p.items[i] = it
	}
	return p, nil
}

// Count returns the number of items in the container.
func (p *Pack) Count() int {
	return len(p.items)
}

// Info returns the index entry of item n.
func (p *Pack) Info(n int) (Item, error) {
	if n < 0 || n >= len(p.items) {
		return Item{}, errors.Wrapf(ErrMalformedContainer, "no such item %d; have %d", n, len(p.items))
	}
	return p.items[n], nil
}

// ItemStream returns a new reader over the decompressed contents of item n.
func (p *Pack) ItemStream(n int) (io.ReadSeeker, error) {
	if n < 0 || n >= len(p.items) {
		return nil, errors.Wrapf(ErrMalformedContainer, "no such item %d; have %d", n, len(p.items))
	}
	return bytes.NewReader(p.items[n].data), nil
}
