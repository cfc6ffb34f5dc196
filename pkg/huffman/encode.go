package huffman

import (
	"fmt"
	"math"
	"sync"

	"github.com/vladFlux/CUDA-Compression/pkg/bitstream"
	"github.com/vladFlux/CUDA-Compression/pkg/container"
	"github.com/vladFlux/CUDA-Compression/pkg/progress"
)

// Encode compresses src into a huffman body: frequency table, block table
// and bit-packed payload. The serial and parallel paths produce identical
// bytes for the same input and options.
func Encode(src []byte, opt Options) ([]byte, error) {
	opt = opt.normalized()
	// The header stores the block size in 32 bits; a wider value would
	// truncate into a file the decoder rejects.
	if uint64(opt.BlockSize) > math.MaxUint32 {
		return nil, fmt.Errorf("block size %d does not fit the header field: %w",
			opt.BlockSize, container.ErrInvalidArguments)
	}

	freq := CountFrequencies(src)
	root := buildTree(&freq)
	table, err := buildCodes(root)
	if err != nil {
		return nil, err
	}

	nblocks := blockCount(len(src), opt.BlockSize)
	var blockBits []uint64
	var payload []byte
	if opt.Serial || nblocks <= 1 {
		blockBits, payload = encodeSerial(src, &table, opt.BlockSize)
	} else {
		blockBits, payload = encodeParallel(src, &table, opt)
	}

	body := appendHeader(nil, &freq, uint32(opt.BlockSize), blockBits)
	return append(body, payload...), nil
}

// encodeSerial packs the code stream block by block on one goroutine.
func encodeSerial(src []byte, table *CodeTable, blockSize int) ([]uint64, []byte) {
	w := bitstream.NewWriter()
	blockBits := make([]uint64, 0, blockCount(len(src), blockSize))
	for start := 0; start < len(src); start += blockSize {
		end := start + blockSize
		if end > len(src) {
			end = len(src)
		}
		before := w.Len()
		for _, b := range src[start:end] {
			c := table[b]
			w.WriteBits(c.Bits, c.Width)
		}
		blockBits = append(blockBits, w.Len()-before)
		progress.AddBytes(uint64(end - start))
	}
	return blockBits, w.Bytes()
}

// encodeParallel runs the two-pass block scheme: a parallel pass computes
// each block's bit length, a prefix sum turns the lengths into absolute
// bit offsets, and a second parallel pass encodes every block into its own
// buffer before the streams are merged at those offsets.
func encodeParallel(src []byte, table *CodeTable, opt Options) ([]uint64, []byte) {
	nblocks := blockCount(len(src), opt.BlockSize)
	blockBits := make([]uint64, nblocks)

	sem := make(chan struct{}, opt.Workers)
	var wg sync.WaitGroup
	for i := 0; i < nblocks; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			start, end := blockRange(i, opt.BlockSize, len(src))
			var bits uint64
			for _, b := range src[start:end] {
				bits += uint64(table[b].Width)
			}
			blockBits[i] = bits
		}(i)
	}
	wg.Wait()

	// Prefix sum gives each block its absolute bit offset.
	offsets := make([]uint64, nblocks)
	var total uint64
	for i, bits := range blockBits {
		offsets[i] = total
		total += bits
	}

	chunks := make([][]byte, nblocks)
	for i := 0; i < nblocks; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			start, end := blockRange(i, opt.BlockSize, len(src))
			w := bitstream.NewWriter()
			for _, b := range src[start:end] {
				c := table[b]
				w.WriteBits(c.Bits, c.Width)
			}
			chunks[i] = w.Bytes()
			progress.AddBytes(uint64(end - start))
		}(i)
	}
	wg.Wait()

	payload := make([]byte, (total+7)/8)
	for i, chunk := range chunks {
		bitstream.Merge(payload, offsets[i], chunk, blockBits[i])
	}
	return blockBits, payload
}
