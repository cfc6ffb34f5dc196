package engine

import (
	"github.com/vladFlux/CUDA-Compression/pkg/bwt"
	"github.com/vladFlux/CUDA-Compression/pkg/container"
	"github.com/vladFlux/CUDA-Compression/pkg/huffman"
	"github.com/vladFlux/CUDA-Compression/pkg/lzw"
	"github.com/vladFlux/CUDA-Compression/pkg/rle"
)

// huffmanCodec is the block-oriented Huffman codec with serial and
// parallel paths.
type huffmanCodec struct {
	opt Options
}

func (huffmanCodec) Name() string { return "huffman" }

func (c huffmanCodec) Encode(src []byte) ([]byte, error) {
	body, err := huffman.Encode(src, c.opt.huffmanOptions())
	if err != nil {
		return nil, err
	}
	return seal(container.AlgoHuffman, len(src), body), nil
}

func (c huffmanCodec) Decode(file []byte) ([]byte, error) {
	origLen, body, err := open(file, container.AlgoHuffman)
	if err != nil {
		return nil, err
	}
	return huffman.Decode(body, origLen, c.opt.huffmanOptions())
}

// rleCodec is the run-length codec.
type rleCodec struct{}

func (rleCodec) Name() string { return "rle" }

func (rleCodec) Encode(src []byte) ([]byte, error) {
	return seal(container.AlgoRLE, len(src), rle.Encode(src)), nil
}

func (rleCodec) Decode(file []byte) ([]byte, error) {
	origLen, body, err := open(file, container.AlgoRLE)
	if err != nil {
		return nil, err
	}
	return rle.Decode(body, origLen)
}

// lzwCodec is the variable-width LZW codec.
type lzwCodec struct{}

func (lzwCodec) Name() string { return "lzw" }

func (lzwCodec) Encode(src []byte) ([]byte, error) {
	body, err := lzw.Encode(src)
	if err != nil {
		return nil, err
	}
	return seal(container.AlgoLZW, len(src), body), nil
}

func (lzwCodec) Decode(file []byte) ([]byte, error) {
	origLen, body, err := open(file, container.AlgoLZW)
	if err != nil {
		return nil, err
	}
	return lzw.Decode(body, origLen)
}

// bwtCodec is the Burrows-Wheeler codec with the huffman entropy stage.
type bwtCodec struct {
	opt Options
}

func (bwtCodec) Name() string { return "bwt" }

func (c bwtCodec) Encode(src []byte) ([]byte, error) {
	body, err := bwt.Encode(src, c.opt.huffmanOptions())
	if err != nil {
		return nil, err
	}
	return seal(container.AlgoBWT, len(src), body), nil
}

func (c bwtCodec) Decode(file []byte) ([]byte, error) {
	origLen, body, err := open(file, container.AlgoBWT)
	if err != nil {
		return nil, err
	}
	return bwt.Decode(body, origLen, c.opt.huffmanOptions())
}
