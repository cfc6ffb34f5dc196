package engine

import (
	"fmt"
	"os"

	"github.com/vladFlux/CUDA-Compression/pkg/container"
	"github.com/vladFlux/CUDA-Compression/pkg/progress"
)

// EncodeFile compresses inputPath with c and writes the sealed file to
// outputPath. It returns the input and output sizes in bytes.
func EncodeFile(c Codec, inputPath, outputPath string) (originalSize, compressedSize uint64, err error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return 0, 0, fmt.Errorf("read input: %w", err)
	}

	progress.Init(uint64(len(data)))
	defer progress.Stop()

	file, err := c.Encode(data)
	if err != nil {
		return 0, 0, err
	}
	if err := container.WriteFileAtomic(outputPath, file); err != nil {
		return 0, 0, fmt.Errorf("write output: %w", err)
	}
	return uint64(len(data)), uint64(len(file)), nil
}

// DecodeFile decompresses inputPath with c and writes the recovered data
// to outputPath. It returns the input and output sizes in bytes.
func DecodeFile(c Codec, inputPath, outputPath string) (compressedSize, originalSize uint64, err error) {
	file, err := os.ReadFile(inputPath)
	if err != nil {
		return 0, 0, fmt.Errorf("read input: %w", err)
	}

	// Peek at the header so progress tracks the decoded size.
	hdr, _, err := container.Parse(file)
	if err != nil {
		return 0, 0, err
	}
	progress.Init(hdr.OriginalLength)
	defer progress.Stop()

	data, err := c.Decode(file)
	if err != nil {
		return 0, 0, err
	}
	if err := container.WriteFileAtomic(outputPath, data); err != nil {
		return 0, 0, fmt.Errorf("write output: %w", err)
	}
	return uint64(len(file)), uint64(len(data)), nil
}
