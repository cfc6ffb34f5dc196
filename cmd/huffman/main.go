// Command huffman is a multi-call compression binary. The executable
// name picks the codec and direction (huffman-c, cpu_lzw-d, ...); flags
// or a trailing mode word cover names the links do not encode. Every
// successful run prints a single execution time line as its last output.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/vladFlux/CUDA-Compression/pkg/container"
	"github.com/vladFlux/CUDA-Compression/pkg/engine"
	"github.com/vladFlux/CUDA-Compression/pkg/progress"
	"github.com/vladFlux/CUDA-Compression/pkg/timing"
)

// invocation is one fully resolved command line.
type invocation struct {
	algo    string
	serial  bool
	mode    byte // 'c' or 'd'
	input   string
	output  string
	workers int
	block   int
	quiet   bool
}

func main() {
	inv, err := parseInvocation(os.Args[0], os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage()
			os.Exit(0)
		}
		fmt.Println("Error:", err)
		printUsage()
		os.Exit(exitCode(err))
	}

	if err := run(inv); err != nil {
		fmt.Println("Error:", err)
		os.Exit(exitCode(err))
	}
}

// parseInvocation resolves the executable name, flags, and positional
// arguments into one invocation. Conflicting selections are rejected
// rather than silently overridden.
func parseInvocation(name string, args []string) (invocation, error) {
	var inv invocation

	name = strings.TrimSuffix(filepath.Base(name), ".exe")
	if strings.HasPrefix(name, "cpu_") {
		inv.serial = true
		name = strings.TrimPrefix(name, "cpu_")
	}
	switch {
	case strings.HasSuffix(name, "-c"):
		inv.mode = 'c'
		name = strings.TrimSuffix(name, "-c")
	case strings.HasSuffix(name, "-d"):
		inv.mode = 'd'
		name = strings.TrimSuffix(name, "-d")
	}
	if isKnownAlgo(name) {
		inv.algo = name
	}

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	algo := flags.String("algo", "", "codec to use")
	compress := flags.Bool("c", false, "compress input to output")
	decompress := flags.Bool("d", false, "decompress input to output")
	cpu := flags.Bool("cpu", false, "force the serial code path")
	workers := flags.Int("workers", 0, "worker goroutines, 0 means all cores")
	block := flags.Int("block", 0, "block size in bytes, 0 means default")
	quiet := flags.Bool("quiet", false, "suppress progress output")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return invocation{}, err
		}
		return invocation{}, fmt.Errorf("%v: %w", err, container.ErrInvalidArguments)
	}

	setMode := func(m byte) error {
		if inv.mode != 0 && inv.mode != m {
			return fmt.Errorf("conflicting compress/decompress selections: %w", container.ErrInvalidArguments)
		}
		inv.mode = m
		return nil
	}
	if *compress {
		if err := setMode('c'); err != nil {
			return invocation{}, err
		}
	}
	if *decompress {
		if err := setMode('d'); err != nil {
			return invocation{}, err
		}
	}

	if *algo != "" {
		if inv.algo != "" && inv.algo != *algo {
			return invocation{}, fmt.Errorf("executable selects %s but -algo says %s: %w", inv.algo, *algo, container.ErrInvalidArguments)
		}
		inv.algo = *algo
	}
	inv.serial = inv.serial || *cpu
	inv.workers = *workers
	inv.block = *block
	inv.quiet = *quiet
	// The compressed file stores the block size in 32 bits.
	if inv.block > 0 && uint64(inv.block) > math.MaxUint32 {
		return invocation{}, fmt.Errorf("block size %d exceeds the format limit: %w", inv.block, container.ErrInvalidArguments)
	}

	rest := flags.Args()
	if len(rest) == 3 {
		m, ok := modeToken(rest[2])
		if !ok {
			return invocation{}, fmt.Errorf("unknown mode %q: %w", rest[2], container.ErrInvalidArguments)
		}
		if err := setMode(m); err != nil {
			return invocation{}, err
		}
		rest = rest[:2]
	}
	if len(rest) != 2 {
		return invocation{}, fmt.Errorf("need input and output paths, got %d arguments: %w", len(rest), container.ErrInvalidArguments)
	}
	inv.input, inv.output = rest[0], rest[1]

	if inv.mode == 0 {
		return invocation{}, fmt.Errorf("choose compression or decompression: %w", container.ErrInvalidArguments)
	}
	if inv.algo == "" {
		inv.algo = "huffman"
	}
	return inv, nil
}

// modeToken maps a trailing mode word to a direction.
func modeToken(s string) (byte, bool) {
	switch s {
	case "c", "-c", "compress":
		return 'c', true
	case "d", "-d", "decompress":
		return 'd', true
	}
	return 0, false
}

// isKnownAlgo reports whether name is a registered codec name.
func isKnownAlgo(name string) bool {
	for _, n := range engine.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// run executes one resolved invocation and prints the result summary.
func run(inv invocation) error {
	codec, err := engine.New(inv.algo, engine.Options{
		Serial:    inv.serial,
		Workers:   inv.workers,
		BlockSize: inv.block,
	})
	if err != nil {
		return err
	}

	progress.SetQuiet(inv.quiet)
	if !inv.quiet {
		fmt.Printf("Available CPU cores: %d\n", runtime.NumCPU())
	}

	start := time.Now()
	var inSize, outSize uint64
	if inv.mode == 'c' {
		inSize, outSize, err = engine.EncodeFile(codec, inv.input, inv.output)
	} else {
		inSize, outSize, err = engine.DecodeFile(codec, inv.input, inv.output)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if inv.mode == 'c' {
		fmt.Println("Compression completed successfully!")
		fmt.Printf("Original size: %d bytes\n", inSize)
		fmt.Printf("Compressed size: %d bytes\n", outSize)
	} else {
		fmt.Println("Decompression completed successfully!")
		fmt.Printf("Compressed size: %d bytes\n", inSize)
		fmt.Printf("Original size: %d bytes\n", outSize)
	}
	fmt.Println(timing.Line(elapsed))
	return nil
}

// exitCode maps an error to the documented process exit code.
func exitCode(err error) int {
	var pathErr *fs.PathError
	var linkErr *os.LinkError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, container.ErrInvalidArguments):
		return 2
	case errors.Is(err, container.ErrTruncatedStream):
		return 4
	case errors.Is(err, container.ErrCorruptStream):
		return 5
	case errors.Is(err, container.ErrTreeConstruction):
		return 6
	case errors.As(err, &pathErr), errors.As(err, &linkErr):
		return 3
	default:
		return 1
	}
}

// printUsage prints the command-line usage information
func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  huffman-c input output")
	fmt.Println("  huffman-d input output")
	fmt.Println("  huffman [flags] input output compress|decompress")
	fmt.Println()
	fmt.Println("The executable name selects the codec and direction; a cpu_ prefix")
	fmt.Println("forces the serial code path. Flags:")
	fmt.Println("  -algo name    codec: " + strings.Join(engine.Names(), ", "))
	fmt.Println("  -c / -d       compress / decompress")
	fmt.Println("  -cpu          force the serial code path")
	fmt.Println("  -workers n    worker goroutines for the parallel path")
	fmt.Println("  -block n      block size in bytes for the parallel path")
	fmt.Println("  -quiet        suppress progress output")
}
