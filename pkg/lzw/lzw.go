// Package lzw implements LZW coding with variable code widths from 9 to
// 16 bits. Both sides grow the dictionary until it is full and then keep
// it frozen, so no control codes are needed in the stream.
package lzw

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/icza/bitio"

	"github.com/vladFlux/CUDA-Compression/pkg/container"
	"github.com/vladFlux/CUDA-Compression/pkg/progress"
)

const (
	minWidth = 9
	maxWidth = 16
	maxCodes = 1 << maxWidth

	// maxPrealloc bounds the initial output allocation; the declared
	// length is untrusted until the codes actually deliver it.
	maxPrealloc = 1 << 20
)

// Encode compresses src into a packed code stream.
func Encode(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)

	dict := make(map[string]int, 4096)
	for i := 0; i < 256; i++ {
		dict[string([]byte{byte(i)})] = i
	}
	next := 256
	width := uint8(minWidth)

	cur := ""
	for _, b := range src {
		trial := cur + string(b)
		if _, ok := dict[trial]; ok {
			cur = trial
			continue
		}
		if err := w.WriteBits(uint64(dict[cur]), width); err != nil {
			return nil, fmt.Errorf("write code: %w", err)
		}
		if next < maxCodes {
			dict[trial] = next
			next++
			if next == 1<<width && width < maxWidth {
				width++
			}
		}
		cur = string(b)
	}
	if cur != "" {
		if err := w.WriteBits(uint64(dict[cur]), width); err != nil {
			return nil, fmt.Errorf("write final code: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("flush code stream: %w", err)
	}
	progress.AddBytes(uint64(len(src)))
	return buf.Bytes(), nil
}

// Decode expands a code stream back into exactly origLen bytes.
func Decode(body []byte, origLen uint64) ([]byte, error) {
	if origLen == 0 {
		if len(body) != 0 {
			return nil, fmt.Errorf("%d stray bytes in an empty stream: %w", len(body), container.ErrCorruptStream)
		}
		return []byte{}, nil
	}
	if origLen > math.MaxInt {
		return nil, fmt.Errorf("declared length %d overflows this platform: %w",
			origLen, container.ErrCorruptStream)
	}

	br := bytes.NewReader(body)
	r := bitio.NewReader(br)

	table := make([][]byte, 256, 4096)
	for i := range table {
		table[i] = []byte{byte(i)}
	}
	width := uint8(minWidth)

	first, err := r.ReadBits(width)
	if err != nil {
		return nil, fmt.Errorf("read first code: %w", readKind(err))
	}
	if first >= 256 {
		return nil, fmt.Errorf("first code %d is not a literal: %w", first, container.ErrCorruptStream)
	}

	hint := origLen
	if hint > maxPrealloc {
		hint = maxPrealloc
	}
	out := make([]byte, 0, hint)
	out = append(out, table[first]...)
	prev := table[first]

	for uint64(len(out)) < origLen {
		code, err := r.ReadBits(width)
		if err != nil {
			return nil, fmt.Errorf("read code: %w", readKind(err))
		}

		var entry []byte
		switch {
		case code < uint64(len(table)):
			entry = table[code]
		case code == uint64(len(table)) && len(table) < maxCodes:
			// The run-on case: the entry being defined refers to itself.
			entry = append(append(make([]byte, 0, len(prev)+1), prev...), prev[0])
		default:
			return nil, fmt.Errorf("code %d out of range: %w", code, container.ErrCorruptStream)
		}

		if uint64(len(out))+uint64(len(entry)) > origLen {
			return nil, fmt.Errorf("stream expands past declared length %d: %w", origLen, container.ErrCorruptStream)
		}
		out = append(out, entry...)

		if len(table) < maxCodes {
			grown := append(append(make([]byte, 0, len(prev)+1), prev...), entry[0])
			table = append(table, grown)
			if len(table)+1 == 1<<width && width < maxWidth {
				width++
			}
		}
		prev = entry
	}

	if br.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after final code: %w", br.Len(), container.ErrCorruptStream)
	}
	progress.AddBytes(origLen)
	return out, nil
}

// readKind maps end-of-input errors to the truncated stream sentinel.
func readKind(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return container.ErrTruncatedStream
	}
	return container.ErrCorruptStream
}
