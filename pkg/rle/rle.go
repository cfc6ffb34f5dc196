// Package rle implements byte-level run-length coding: every run is
// stored as a uvarint count followed by the repeated byte value.
package rle

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/vladFlux/CUDA-Compression/pkg/container"
	"github.com/vladFlux/CUDA-Compression/pkg/progress"
)

// maxPrealloc bounds the initial output allocation; the declared length is
// untrusted until the runs actually deliver it.
const maxPrealloc = 1 << 20

// Encode packs src into (count, value) runs.
func Encode(src []byte) []byte {
	out := make([]byte, 0, len(src)/4+16)
	for i := 0; i < len(src); {
		j := i + 1
		for j < len(src) && src[j] == src[i] {
			j++
		}
		out = binary.AppendUvarint(out, uint64(j-i))
		out = append(out, src[i])
		progress.AddBytes(uint64(j - i))
		i = j
	}
	return out
}

// Decode expands runs back into exactly origLen bytes.
func Decode(body []byte, origLen uint64) ([]byte, error) {
	if origLen > math.MaxInt {
		return nil, fmt.Errorf("declared length %d overflows this platform: %w",
			origLen, container.ErrCorruptStream)
	}
	hint := origLen
	if hint > maxPrealloc {
		hint = maxPrealloc
	}
	out := make([]byte, 0, hint)
	r := bytes.NewReader(body)
	for uint64(len(out)) < origLen {
		count, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, fmt.Errorf("read run length: %w", container.ErrTruncatedStream)
		}
		if count == 0 {
			return nil, fmt.Errorf("zero-length run: %w", container.ErrCorruptStream)
		}
		val, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("read run value: %w", container.ErrTruncatedStream)
		}
		if uint64(len(out))+count > origLen {
			return nil, fmt.Errorf("run of %d bytes overflows declared length %d: %w",
				count, origLen, container.ErrCorruptStream)
		}
		for k := uint64(0); k < count; k++ {
			out = append(out, val)
		}
		progress.AddBytes(count)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after final run: %w", r.Len(), container.ErrCorruptStream)
	}
	return out, nil
}
