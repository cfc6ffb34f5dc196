package huffman

import (
	"fmt"

	"github.com/vladFlux/CUDA-Compression/pkg/container"
)

// Code is the bit pattern assigned to one symbol.
type Code struct {
	Bits  uint64 // Pattern value, most significant bit first within Width
	Width uint8  // Pattern length in bits
}

// CodeTable maps each byte value to its code. A zero Width marks a symbol
// that does not occur.
type CodeTable [256]Code

// buildCodes walks the tree and assigns prefix-free codes: left edges
// append 0, right edges append 1. A tree with a single leaf gets the
// one-bit code 0 so every occurrence still consumes one bit.
func buildCodes(root *node) (CodeTable, error) {
	var table CodeTable
	if root == nil {
		return table, nil
	}
	if root.leaf() {
		table[root.sym] = Code{Bits: 0, Width: 1}
		return table, nil
	}

	var walk func(n *node, bits uint64, width uint8) error
	walk = func(n *node, bits uint64, width uint8) error {
		if n.leaf() {
			table[n.sym] = Code{Bits: bits, Width: width}
			return nil
		}
		if width == 64 {
			return fmt.Errorf("code width beyond 64 bits: %w", container.ErrTreeConstruction)
		}
		if err := walk(n.left, bits<<1, width+1); err != nil {
			return err
		}
		return walk(n.right, bits<<1|1, width+1)
	}
	if err := walk(root, 0, 0); err != nil {
		return CodeTable{}, err
	}
	return table, nil
}
