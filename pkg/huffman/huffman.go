// Package huffman implements the block-oriented Huffman codec. Encoding
// splits the input into fixed-size blocks, records each block's bit length
// in the header and packs the code stream contiguously, so the serial and
// the worker-pool paths produce identical bytes and either path can decode
// the other's output.
package huffman

import "runtime"

// DefaultBlockSize is the block granularity used when Options does not
// set one.
const DefaultBlockSize = 64 * 1024

// Options configure the encode and decode paths.
type Options struct {
	BlockSize int  // Bytes per block, DefaultBlockSize when 0
	Workers   int  // Concurrent block workers, NumCPU when 0
	Serial    bool // Force the single-goroutine path
}

// normalized fills in defaults for unset fields.
func (o Options) normalized() Options {
	if o.BlockSize <= 0 {
		o.BlockSize = DefaultBlockSize
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	return o
}

// blockCount returns how many blocks cover n bytes.
func blockCount(n, blockSize int) int {
	if n == 0 {
		return 0
	}
	return (n + blockSize - 1) / blockSize
}

// blockRange returns the byte range of block i.
func blockRange(i, blockSize, n int) (start, end int) {
	start = i * blockSize
	end = start + blockSize
	if end > n {
		end = n
	}
	return start, end
}
