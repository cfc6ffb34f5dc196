package huffman

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vladFlux/CUDA-Compression/pkg/container"
)

// appendHeader serializes the frequency table and the block table. Symbols
// with a zero count are omitted; entries are written in ascending symbol
// order with uvarint counts.
func appendHeader(dst []byte, freq *FrequencyTable, blockSize uint32, blockBits []uint64) []byte {
	dst = binary.BigEndian.AppendUint16(dst, uint16(freq.Distinct()))
	for sym := 0; sym < 256; sym++ {
		if freq[sym] == 0 {
			continue
		}
		dst = append(dst, byte(sym))
		dst = binary.AppendUvarint(dst, freq[sym])
	}
	dst = binary.BigEndian.AppendUint32(dst, blockSize)
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(blockBits)))
	for _, bits := range blockBits {
		dst = binary.AppendUvarint(dst, bits)
	}
	return dst
}

// parseHeader decodes the header of a huffman body and returns the
// frequency table, the block geometry and the remaining bit-packed payload.
func parseHeader(body []byte) (freq FrequencyTable, blockSize uint32, blockBits []uint64, payload []byte, err error) {
	r := bytes.NewReader(body)

	var distinct uint16
	if err = binary.Read(r, binary.BigEndian, &distinct); err != nil {
		return freq, 0, nil, nil, fmt.Errorf("read symbol count: %w", readKind(err))
	}
	if distinct > 256 {
		return freq, 0, nil, nil, fmt.Errorf("symbol count %d exceeds 256: %w", distinct, container.ErrCorruptStream)
	}

	prev := -1
	for i := 0; i < int(distinct); i++ {
		sym, e := r.ReadByte()
		if e != nil {
			return freq, 0, nil, nil, fmt.Errorf("read symbol %d: %w", i, readKind(e))
		}
		if int(sym) <= prev {
			return freq, 0, nil, nil, fmt.Errorf("symbol table not ascending at %d: %w", sym, container.ErrCorruptStream)
		}
		count, e := binary.ReadUvarint(r)
		if e != nil {
			return freq, 0, nil, nil, fmt.Errorf("read count for symbol %d: %w", sym, readKind(e))
		}
		if count == 0 {
			return freq, 0, nil, nil, fmt.Errorf("zero count for symbol %d: %w", sym, container.ErrCorruptStream)
		}
		freq[sym] = count
		prev = int(sym)
	}

	var nblocks uint32
	if err = binary.Read(r, binary.BigEndian, &blockSize); err != nil {
		return freq, 0, nil, nil, fmt.Errorf("read block size: %w", readKind(err))
	}
	if blockSize == 0 {
		return freq, 0, nil, nil, fmt.Errorf("zero block size: %w", container.ErrCorruptStream)
	}
	if err = binary.Read(r, binary.BigEndian, &nblocks); err != nil {
		return freq, 0, nil, nil, fmt.Errorf("read block count: %w", readKind(err))
	}
	// Each block entry takes at least one byte.
	if int64(nblocks) > int64(r.Len()) {
		return freq, 0, nil, nil, fmt.Errorf("block table of %d entries exceeds body: %w", nblocks, container.ErrTruncatedStream)
	}

	blockBits = make([]uint64, nblocks)
	// The block lengths are untrusted; their sum may not pass the bits the
	// body can physically hold, which also keeps the sum from wrapping.
	maxBits := uint64(len(body)) * 8
	var totalBits uint64
	for i := range blockBits {
		bits, e := binary.ReadUvarint(r)
		if e != nil {
			return freq, 0, nil, nil, fmt.Errorf("read bit length of block %d: %w", i, readKind(e))
		}
		if bits > maxBits-totalBits {
			return freq, 0, nil, nil, fmt.Errorf("block %d claims %d bits, body holds at most %d: %w",
				i, bits, maxBits, container.ErrCorruptStream)
		}
		blockBits[i] = bits
		totalBits += bits
	}

	payload = body[len(body)-r.Len():]
	need := (totalBits + 7) / 8
	if uint64(len(payload)) < need {
		return freq, 0, nil, nil, fmt.Errorf("payload is %d bytes, need %d: %w",
			len(payload), need, container.ErrTruncatedStream)
	}
	if uint64(len(payload)) > need {
		return freq, 0, nil, nil, fmt.Errorf("payload is %d bytes, want %d: %w",
			len(payload), need, container.ErrCorruptStream)
	}
	if rem := totalBits & 7; rem != 0 {
		if pad := payload[len(payload)-1] & (byte(0xFF) >> rem); pad != 0 {
			return freq, 0, nil, nil, fmt.Errorf("nonzero padding bits: %w", container.ErrCorruptStream)
		}
	}
	return freq, blockSize, blockBits, payload, nil
}

// readKind maps end-of-input errors to the truncated stream sentinel and
// everything else to the corrupt stream sentinel.
func readKind(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return container.ErrTruncatedStream
	}
	return container.ErrCorruptStream
}
