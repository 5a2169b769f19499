package madspack

// This file contains the FAB decompressor.

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const fabSignature = "FAB"

func isFAB(b []byte) bool {
	return len(b) >= len(fabSignature) && string(b[:len(fabSignature)]) == fabSignature
}

// fabReader interleaves a 16 bit wide bit buffer with the literal bytes of the
// stream. The next bit word is fetched from the current byte position when
// the last bit of the previous word is consumed.
type fabReader struct {
	src  []byte
	pos  int
	buf  uint32
	left int
}

func (f *fabReader) bit() (uint32, error) {
	f.left--
	if f.left == 0 {
		if f.pos+2 > len(f.src) {
			return 0, errors.Wrap(ErrMalformedContainer, "fab: passed end of input reading bits")
		}
		f.buf = uint32(binary.LittleEndian.Uint16(f.src[f.pos:]))<<1 | f.buf&1
		f.pos += 2
		f.left = 16
	}
	b := f.buf & 1
	f.buf >>= 1
	return b, nil
}

func (f *fabReader) byte() (byte, error) {
	if f.pos >= len(f.src) {
		return 0, errors.Wrap(ErrMalformedContainer, "fab: passed end of input")
	}
	b := f.src[f.pos]
	f.pos++
	return b, nil
}

// maxFABRatio bounds the output buffer preallocated per input byte.
const maxFABRatio = 16

func decompressFAB(src []byte, size int) ([]byte, error) {
	if len(src) < 6 || !isFAB(src) {
		return nil, errors.Wrap(ErrMalformedContainer, "fab: invalid compressed data")
	}
	shift := int(src[3])
	if shift < 10 || shift > 13 {
		return nil, errors.Wrapf(ErrMalformedContainer, "fab: invalid shift %d", shift)
	}

	copyOfsShift := uint(16 - shift)
	copyOfsMask := byte(0xFF << uint(shift-8))
	copyLenMask := byte(1<<copyOfsShift - 1)

	f := &fabReader{
		src:  src,
		pos:  6,
		buf:  uint32(binary.LittleEndian.Uint16(src[4:])),
		left: 16,
	}
	capacity := size
	if max := len(src) * maxFABRatio; capacity > max {
		capacity = max
	}
	dst := make([]byte, 0, capacity)

	for {
		b, err := f.bit()
		if err != nil {
			return nil, err
		}
		if b == 1 {
			lit, err := f.byte()
			if err != nil {
				return nil, err
			}
			if len(dst) == size {
				return nil, errors.Wrap(ErrMalformedContainer, "fab: output exceeds declared size")
			}
			dst = append(dst, lit)
			continue
		}

		var copyLen, copyOfs int
		if b, err = f.bit(); err != nil {
			return nil, err
		}
		if b == 0 {
			hi, err := f.bit()
			if err != nil {
				return nil, err
			}
			lo, err := f.bit()
			if err != nil {
				return nil, err
			}
			copyLen = int(hi<<1|lo) + 2
			o, err := f.byte()
			if err != nil {
				return nil, err
			}
			copyOfs = int(int32(uint32(o) | 0xFFFFFF00))
		} else {
			lo, err := f.byte()
			if err != nil {
				return nil, err
			}
			hi, err := f.byte()
			if err != nil {
				return nil, err
			}
			copyOfs = int(int32(uint32(hi>>copyOfsShift|copyOfsMask)<<8 | uint32(lo) | 0xFFFF0000))
			copyLen = int(hi & copyLenMask)
			if copyLen == 0 {
				n, err := f.byte()
				if err != nil {
					return nil, err
				}
				if n == 0 {
					break
				}
				if n == 1 {
					continue
				}
				copyLen = int(n) + 1
			} else {
				copyLen += 2
			}
		}

		for ; copyLen > 0; copyLen-- {
			if len(dst) == size {
				return nil, errors.Wrap(ErrMalformedContainer, "fab: output exceeds declared size")
			}
			from := len(dst) + copyOfs
			if from < 0 {
				return nil, errors.Wrapf(ErrMalformedContainer, "fab: back reference %d before start of output", copyOfs)
			}
			dst = append(dst, dst[from])
		}
	}

	if len(dst) != size {
		return nil, errors.Wrapf(ErrMalformedContainer, "fab: decompressed %d bytes, want %d", len(dst), size)
	}
	return dst, nil
}
