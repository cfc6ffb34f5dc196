// Package engine registers the compression codecs behind one interface
// and handles whole-file encode and decode with atomic output.
package engine

import (
	"fmt"

	"github.com/vladFlux/CUDA-Compression/pkg/container"
	"github.com/vladFlux/CUDA-Compression/pkg/huffman"
)

// Codec compresses byte slices into self-describing compressed files and
// back.
type Codec interface {
	Name() string
	Encode(src []byte) ([]byte, error)
	Decode(file []byte) ([]byte, error)
}

// Options tune the codecs that support them; the rest ignore them.
type Options struct {
	Serial    bool // Single-goroutine paths only
	Workers   int  // Concurrent block workers, NumCPU when 0
	BlockSize int  // Block granularity in bytes for the block-parallel paths
}

// huffmanOptions converts engine options for the huffman entropy coder.
func (o Options) huffmanOptions() huffman.Options {
	return huffman.Options{
		BlockSize: o.BlockSize,
		Workers:   o.Workers,
		Serial:    o.Serial,
	}
}

// New returns the codec registered under name.
func New(name string, opt Options) (Codec, error) {
	switch name {
	case "huffman":
		return huffmanCodec{opt: opt}, nil
	case "rle":
		return rleCodec{}, nil
	case "lzw":
		return lzwCodec{}, nil
	case "bwt":
		return bwtCodec{opt: opt}, nil
	case "lz4":
		return lz4Codec{}, nil
	case "zstd":
		return zstdCodec{}, nil
	}
	return nil, fmt.Errorf("unknown algorithm %q: %w", name, container.ErrInvalidArguments)
}

// Names lists the registered codecs in display order.
func Names() []string {
	return []string{"huffman", "rle", "lzw", "bwt", "lz4", "zstd"}
}

// seal wraps an algorithm body into a complete compressed file.
func seal(algo container.Algorithm, origLen int, body []byte) []byte {
	return container.Seal(container.Header{
		Algorithm:      algo,
		OriginalLength: uint64(origLen),
	}, body)
}

// open parses a compressed file and checks that it carries algo data.
func open(file []byte, algo container.Algorithm) (uint64, []byte, error) {
	h, body, err := container.Parse(file)
	if err != nil {
		return 0, nil, err
	}
	if h.Algorithm != algo {
		return 0, nil, fmt.Errorf("file holds %s data, not %s: %w",
			h.Algorithm, algo, container.ErrCorruptStream)
	}
	return h.OriginalLength, body, nil
}
