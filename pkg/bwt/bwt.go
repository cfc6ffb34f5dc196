// Package bwt implements a whole-buffer Burrows-Wheeler transform with a
// move-to-front recoding stage, entropy coded by the huffman package. The
// transform groups equal bytes together so the entropy stage sees a far
// more skewed distribution than the raw input.
package bwt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/vladFlux/CUDA-Compression/pkg/container"
	"github.com/vladFlux/CUDA-Compression/pkg/huffman"
)

// Transform returns the last column of the sorted rotation matrix of src
// and the row index of the original string. Rotations are compared over a
// doubled copy of src; equal rotations order by start index, so the
// output is a pure function of the input.
func Transform(src []byte) ([]byte, uint32) {
	n := len(src)
	if n == 0 {
		return nil, 0
	}
	// All rotations of a uniform buffer tie, which would make every
	// comparison below scan n bytes; the sorted matrix is the input
	// itself with rotation 0 in row 0.
	if bytes.Count(src, src[:1]) == n {
		return append([]byte(nil), src...), 0
	}

	doubled := make([]byte, 2*n)
	copy(doubled, src)
	copy(doubled[n:], src)

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		ra, rb := idx[a], idx[b]
		if c := bytes.Compare(doubled[ra:ra+n], doubled[rb:rb+n]); c != 0 {
			return c < 0
		}
		return ra < rb
	})

	out := make([]byte, n)
	primary := uint32(0)
	for rank, rot := range idx {
		out[rank] = doubled[rot+n-1]
		if rot == 0 {
			primary = uint32(rank)
		}
	}
	return out, primary
}

// Inverse rebuilds the original string from the last column and the
// primary index using the last-to-first mapping.
func Inverse(last []byte, primary uint32) ([]byte, error) {
	n := len(last)
	if n == 0 {
		return nil, nil
	}
	if int64(primary) >= int64(n) {
		return nil, fmt.Errorf("primary index %d outside %d rows: %w", primary, n, container.ErrCorruptStream)
	}

	// base[b] is the first row of the sorted column starting with b.
	var counts [256]int
	for _, b := range last {
		counts[b]++
	}
	var base [256]int
	sum := 0
	for b := 0; b < 256; b++ {
		base[b] = sum
		sum += counts[b]
	}

	lf := make([]int, n)
	var seen [256]int
	for i, b := range last {
		lf[i] = base[b] + seen[b]
		seen[b]++
	}

	out := make([]byte, n)
	row := int(primary)
	for k := n - 1; k >= 0; k-- {
		out[k] = last[row]
		row = lf[row]
	}
	return out, nil
}

// moveToFront recodes each byte as its position in a self-organizing
// symbol list, pulling the used symbol to the front.
func moveToFront(src []byte) []byte {
	var order [256]byte
	for i := range order {
		order[i] = byte(i)
	}
	out := make([]byte, len(src))
	for i, b := range src {
		pos := 0
		for order[pos] != b {
			pos++
		}
		out[i] = byte(pos)
		copy(order[1:pos+1], order[:pos])
		order[0] = b
	}
	return out
}

// moveToFrontInverse undoes moveToFront.
func moveToFrontInverse(src []byte) []byte {
	var order [256]byte
	for i := range order {
		order[i] = byte(i)
	}
	out := make([]byte, len(src))
	for i, pos := range src {
		b := order[pos]
		out[i] = b
		copy(order[1:int(pos)+1], order[:pos])
		order[0] = b
	}
	return out
}

// Encode applies the transform and move-to-front, then entropy codes the
// result. The body starts with the primary index.
func Encode(src []byte, opt huffman.Options) ([]byte, error) {
	last, primary := Transform(src)
	entropy, err := huffman.Encode(moveToFront(last), opt)
	if err != nil {
		return nil, fmt.Errorf("entropy stage: %w", err)
	}
	body := binary.BigEndian.AppendUint32(make([]byte, 0, 4+len(entropy)), primary)
	return append(body, entropy...), nil
}

// Decode reverses Encode given the declared original length.
func Decode(body []byte, origLen uint64, opt huffman.Options) ([]byte, error) {
	if len(body) < 4 {
		return nil, fmt.Errorf("body is %d bytes, need at least 4: %w", len(body), container.ErrTruncatedStream)
	}
	primary := binary.BigEndian.Uint32(body[:4])

	mtf, err := huffman.Decode(body[4:], origLen, opt)
	if err != nil {
		return nil, fmt.Errorf("entropy stage: %w", err)
	}
	return Inverse(moveToFrontInverse(mtf), primary)
}
