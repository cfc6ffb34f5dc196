// Package container defines the on-disk envelope shared by every codec:
// a magic number, a format version, a checksum, the algorithm identifier
// and the original length, followed by the algorithm's own body.
package container

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// Constants for the container format
const (
	Magic   = "CCMP" // Magic number identifying a compressed file
	Version = 1      // Container format version
)

// headerSize is the fixed byte length of the container header.
const headerSize = 4 + 1 + 4 + 1 + 8

// Algorithm identifies the codec that produced a file's body.
type Algorithm byte

const (
	AlgoHuffman Algorithm = 1
	AlgoRLE     Algorithm = 2
	AlgoLZW     Algorithm = 3
	AlgoBWT     Algorithm = 4
	AlgoLZ4     Algorithm = 5
	AlgoZstd    Algorithm = 6
)

// String returns the registry name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case AlgoHuffman:
		return "huffman"
	case AlgoRLE:
		return "rle"
	case AlgoLZW:
		return "lzw"
	case AlgoBWT:
		return "bwt"
	case AlgoLZ4:
		return "lz4"
	case AlgoZstd:
		return "zstd"
	}
	return fmt.Sprintf("unknown(%d)", byte(a))
}

// Header describes a compressed file.
type Header struct {
	Algorithm      Algorithm // Codec that produced the body
	OriginalLength uint64    // Byte length of the uncompressed data
}

// Seal assembles a complete compressed file from a header and a body.
// The checksum covers the algorithm, the original length and the body,
// so any later single-byte change is detected by Parse.
func Seal(h Header, body []byte) []byte {
	tail := make([]byte, 0, 1+8+len(body))
	tail = append(tail, byte(h.Algorithm))
	tail = binary.BigEndian.AppendUint64(tail, h.OriginalLength)
	tail = append(tail, body...)

	out := make([]byte, 0, headerSize+len(body))
	out = append(out, Magic...)
	out = append(out, Version)
	out = binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(tail))
	return append(out, tail...)
}

// Parse validates a compressed file and returns its header and body.
func Parse(file []byte) (Header, []byte, error) {
	if len(file) < headerSize {
		return Header{}, nil, fmt.Errorf("file is %d bytes, need at least %d: %w",
			len(file), headerSize, ErrTruncatedStream)
	}
	if string(file[:4]) != Magic {
		return Header{}, nil, fmt.Errorf("invalid magic number: %q: %w", file[:4], ErrCorruptStream)
	}
	if file[4] != Version {
		return Header{}, nil, fmt.Errorf("unsupported version: %d: %w", file[4], ErrCorruptStream)
	}

	sum := binary.BigEndian.Uint32(file[5:9])
	tail := file[9:]
	if got := crc32.ChecksumIEEE(tail); got != sum {
		return Header{}, nil, fmt.Errorf("checksum mismatch: got %08x, want %08x: %w",
			got, sum, ErrCorruptStream)
	}

	h := Header{
		Algorithm:      Algorithm(tail[0]),
		OriginalLength: binary.BigEndian.Uint64(tail[1:9]),
	}
	if h.Algorithm < AlgoHuffman || h.Algorithm > AlgoZstd {
		return Header{}, nil, fmt.Errorf("unknown algorithm id %d: %w", tail[0], ErrCorruptStream)
	}
	return h, tail[9:], nil
}
