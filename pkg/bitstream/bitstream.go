// Package bitstream packs and unpacks bit sequences, most significant bit
// first, over plain byte slices.
package bitstream

import "io"

// Writer accumulates bits into an in-memory buffer.
type Writer struct {
	buf  []byte
	cur  byte   // partially filled byte, bits placed from the high end
	nbit uint8  // bits used in cur
	bits uint64 // total bits written
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteBit appends a single bit. Any nonzero value counts as one.
func (w *Writer) WriteBit(b byte) {
	if b != 0 {
		b = 1
	}
	w.WriteBits(uint64(b), 1)
}

// WriteBits appends the width lowest bits of pattern, most significant first.
func (w *Writer) WriteBits(pattern uint64, width uint8) {
	w.bits += uint64(width)
	for width > 0 {
		n := 8 - w.nbit
		if n > width {
			n = width
		}
		chunk := byte(pattern>>(width-n)) & (byte(0xFF) >> (8 - n))
		w.cur |= chunk << (8 - w.nbit - n)
		w.nbit += n
		width -= n
		if w.nbit == 8 {
			w.buf = append(w.buf, w.cur)
			w.cur, w.nbit = 0, 0
		}
	}
}

// Len returns the number of bits written so far.
func (w *Writer) Len() uint64 {
	return w.bits
}

// Bytes returns the packed stream, zero padded to a byte boundary.
// The Writer stays usable afterwards.
func (w *Writer) Bytes() []byte {
	if w.nbit == 0 {
		return w.buf
	}
	out := make([]byte, len(w.buf)+1)
	copy(out, w.buf)
	out[len(w.buf)] = w.cur
	return out
}

// Reader consumes bits from a byte slice.
type Reader struct {
	data []byte
	pos  uint64 // absolute index of the next bit
}

// NewReader returns a Reader positioned at the first bit of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// NewReaderAt returns a Reader positioned at bit offset off.
func NewReaderAt(data []byte, off uint64) *Reader {
	return &Reader{data: data, pos: off}
}

// Pos returns the absolute index of the next bit to be read.
func (r *Reader) Pos() uint64 {
	return r.pos
}

// ReadBit returns the next bit, or io.ErrUnexpectedEOF past the end.
func (r *Reader) ReadBit() (byte, error) {
	if r.pos >= uint64(len(r.data))*8 {
		return 0, io.ErrUnexpectedEOF
	}
	b := r.data[r.pos>>3] >> (7 - r.pos&7) & 1
	r.pos++
	return b, nil
}

// ReadBits returns the next width bits as the low bits of a uint64.
func (r *Reader) ReadBits(width uint8) (uint64, error) {
	var v uint64
	for i := uint8(0); i < width; i++ {
		b, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | uint64(b)
	}
	return v, nil
}

// Merge ORs the first nbits of src into dst starting at bit offset off.
// Bits of src beyond nbits are ignored. dst must already span the target
// bit range.
func Merge(dst []byte, off uint64, src []byte, nbits uint64) {
	if nbits == 0 {
		return
	}
	shift := uint8(off & 7)
	di := int(off >> 3)
	n := int((nbits + 7) / 8)
	for i := 0; i < n; i++ {
		b := src[i]
		if i == n-1 {
			if rem := uint8(nbits & 7); rem != 0 {
				b &= 0xFF << (8 - rem)
			}
		}
		dst[di+i] |= b >> shift
		if di+i+1 < len(dst) {
			dst[di+i+1] |= b << (8 - shift)
		}
	}
}
