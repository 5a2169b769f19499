package madspack

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Write encodes items as an uncompressed container. It exists to build
// fixtures; the game data itself is always FAB compressed.
func Write(w io.Writer, items [][]byte) error {
	if len(items) > MaxItems {
		return errors.Errorf("madspack: too many items; got %d, want <= %d", len(items), MaxItems)
	}

	var sig [signatureSize]byte
	copy(sig[:], Signature)
	sig[len(Signature)] = 0x1A
	if _, err := w.Write(sig[:]); err != nil {
		return errors.Wrap(err, "writing signature")
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(items))); err != nil {
		return errors.Wrap(err, "writing item count")
	}

	var index [MaxItems]indexEntry
	for i, it := range items {
		index[i] = indexEntry{
			Hash:           uint16(i),
			Size:           uint32(len(it)),
			CompressedSize: uint32(len(it)),
		}
	}
	if err := binary.Write(w, binary.LittleEndian, &index); err != nil {
		return errors.Wrap(err, "writing index")
	}

	for i, it := range items {
		if isFAB(it) {
			return errors.Errorf("madspack: item %d starts with the FAB signature and cannot be stored raw", i)
		}
		if _, err := w.Write(it); err != nil {
			return errors.Wrapf(err, "writing item %d", i)
		}
	}
	return nil
}
