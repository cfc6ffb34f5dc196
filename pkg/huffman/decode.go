package huffman

import (
	"fmt"
	"sync"

	"github.com/vladFlux/CUDA-Compression/pkg/bitstream"
	"github.com/vladFlux/CUDA-Compression/pkg/container"
	"github.com/vladFlux/CUDA-Compression/pkg/progress"
)

// Decode expands a huffman body back into the original bytes. origLen is
// the declared uncompressed length from the container; the frequency table
// must sum to it exactly.
func Decode(body []byte, origLen uint64, opt Options) ([]byte, error) {
	opt = opt.normalized()

	freq, blockSize, blockBits, payload, err := parseHeader(body)
	if err != nil {
		return nil, err
	}
	// Every symbol costs at least one payload bit, so the declared length
	// is bounded by the payload before anything is sized from it.
	if origLen > uint64(len(payload))*8 {
		return nil, fmt.Errorf("declared length %d exceeds the %d payload bits: %w",
			origLen, uint64(len(payload))*8, container.ErrCorruptStream)
	}
	// No honest count exceeds the declared total; the per-symbol bound
	// also keeps the sum below from wrapping to a forged match.
	for sym, count := range freq {
		if count > origLen {
			return nil, fmt.Errorf("symbol %d count %d exceeds declared length %d: %w",
				sym, count, origLen, container.ErrTreeConstruction)
		}
	}
	if total := freq.Total(); total != origLen {
		return nil, fmt.Errorf("frequency table sums to %d, declared length is %d: %w",
			total, origLen, container.ErrTreeConstruction)
	}

	var wantBlocks uint64
	if origLen > 0 {
		wantBlocks = (origLen + uint64(blockSize) - 1) / uint64(blockSize)
	}
	if uint64(len(blockBits)) != wantBlocks {
		return nil, fmt.Errorf("block table has %d entries, want %d: %w",
			len(blockBits), wantBlocks, container.ErrCorruptStream)
	}
	if origLen == 0 {
		return []byte{}, nil
	}

	root := buildTree(&freq)
	out := make([]byte, origLen)

	// Prefix sum restores each block's absolute bit offset.
	offsets := make([]uint64, len(blockBits))
	var total uint64
	for i, bits := range blockBits {
		offsets[i] = total
		total += bits
	}

	if opt.Serial || len(blockBits) <= 1 {
		err = decodeSerial(payload, root, out, int(blockSize), offsets, blockBits)
	} else {
		err = decodeParallel(payload, root, out, int(blockSize), offsets, blockBits, opt.Workers)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// decodeSerial walks the contiguous code stream on one goroutine,
// checking consumed bits against the block table at every boundary.
func decodeSerial(payload []byte, root *node, out []byte, blockSize int, offsets, blockBits []uint64) error {
	r := bitstream.NewReader(payload)
	for i := range blockBits {
		start, end := blockRange(i, blockSize, len(out))
		if err := decodeBlock(r, root, out[start:end], i); err != nil {
			return err
		}
		if consumed := r.Pos() - offsets[i]; consumed != blockBits[i] {
			return fmt.Errorf("block %d consumed %d bits, expected %d: %w",
				i, consumed, blockBits[i], container.ErrCorruptStream)
		}
		progress.AddBytes(uint64(end - start))
	}
	return nil
}

// decodeParallel fans the blocks out to a bounded worker pool. Every
// worker reads from its block's bit offset and writes a disjoint slice of
// the output, so the result does not depend on scheduling order.
func decodeParallel(payload []byte, root *node, out []byte, blockSize int, offsets, blockBits []uint64, workers int) error {
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	errCh := make(chan error, len(blockBits))

	for i := range blockBits {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			start, end := blockRange(i, blockSize, len(out))
			r := bitstream.NewReaderAt(payload, offsets[i])
			if err := decodeBlock(r, root, out[start:end], i); err != nil {
				errCh <- err
				return
			}
			if consumed := r.Pos() - offsets[i]; consumed != blockBits[i] {
				errCh <- fmt.Errorf("block %d consumed %d bits, expected %d: %w",
					i, consumed, blockBits[i], container.ErrCorruptStream)
				return
			}
			progress.AddBytes(uint64(end - start))
		}(i)
	}
	wg.Wait()
	close(errCh)

	// Return first error if any
	if len(errCh) > 0 {
		return <-errCh
	}
	return nil
}

// decodeBlock fills dst with symbols read from r. The payload length was
// validated against the block table, so running out of bits mid-symbol
// means the stream lies about its own structure.
func decodeBlock(r *bitstream.Reader, root *node, dst []byte, blockIndex int) error {
	if root.leaf() {
		// Single-symbol stream: one zero bit per occurrence.
		for i := range dst {
			bit, err := r.ReadBit()
			if err != nil {
				return fmt.Errorf("block %d ends mid-symbol: %w", blockIndex, container.ErrCorruptStream)
			}
			if bit != 0 {
				return fmt.Errorf("block %d holds a nonzero bit in a single-symbol stream: %w",
					blockIndex, container.ErrCorruptStream)
			}
			dst[i] = root.sym
		}
		return nil
	}

	for i := range dst {
		n := root
		for !n.leaf() {
			bit, err := r.ReadBit()
			if err != nil {
				return fmt.Errorf("block %d ends mid-symbol: %w", blockIndex, container.ErrCorruptStream)
			}
			if bit == 0 {
				n = n.left
			} else {
				n = n.right
			}
		}
		dst[i] = n.sym
	}
	return nil
}
