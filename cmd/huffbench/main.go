// Command huffbench compares codec binaries by launching them repeatedly
// and reading the execution time line each run prints last. Child output
// is echoed with the codec name as a prefix, and per-run timings can be
// written to a CSV file for later analysis.
package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/vladFlux/CUDA-Compression/pkg/engine"
	"github.com/vladFlux/CUDA-Compression/pkg/timing"
)

// config is one resolved huffbench command line.
type config struct {
	algos  []string
	runs   int
	mode   byte // 'c' or 'd'
	cpu    bool
	binDir string
	csv    string
	input  string
}

// series holds the timings of one codec, or the error that ended it.
type series struct {
	algo string
	runs []time.Duration
	err  error
}

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage()
			os.Exit(0)
		}
		fmt.Println("Error:", err)
		printUsage()
		os.Exit(2)
	}
	os.Exit(run(cfg))
}

// parseConfig resolves flags and the input path.
func parseConfig(args []string) (config, error) {
	flags := flag.NewFlagSet("huffbench", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	algos := flags.String("algos", "huffman", "comma-separated codec list")
	runs := flags.Int("runs", 5, "timed runs per codec")
	mode := flags.String("mode", "c", "c times compression, d times decompression")
	cpu := flags.Bool("cpu", false, "benchmark the cpu_ serial binaries")
	binDir := flags.String("bin", ".", "directory holding the codec binaries")
	csvPath := flags.String("csv", "", "write per-run timings to this CSV file")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return config{}, err
		}
		return config{}, err
	}

	cfg := config{
		runs:   *runs,
		cpu:    *cpu,
		binDir: *binDir,
		csv:    *csvPath,
	}

	if cfg.runs < 1 || cfg.runs > 1000 {
		return config{}, fmt.Errorf("runs must be between 1 and 1000, got %d", cfg.runs)
	}
	switch *mode {
	case "c":
		cfg.mode = 'c'
	case "d":
		cfg.mode = 'd'
	default:
		return config{}, fmt.Errorf("mode must be c or d, got %q", *mode)
	}
	for _, algo := range strings.Split(*algos, ",") {
		algo = strings.TrimSpace(algo)
		if !knownAlgo(algo) {
			return config{}, fmt.Errorf("unknown codec %q, have: %s", algo, strings.Join(engine.Names(), ", "))
		}
		cfg.algos = append(cfg.algos, algo)
	}

	rest := flags.Args()
	if len(rest) != 1 {
		return config{}, fmt.Errorf("need exactly one input path, got %d arguments", len(rest))
	}
	cfg.input = rest[0]
	return cfg, nil
}

// knownAlgo reports whether name is a registered codec name.
func knownAlgo(name string) bool {
	for _, n := range engine.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// run benchmarks every requested codec and prints the summary table. It
// returns 0 when at least one series completed.
func run(cfg config) int {
	results := make([]series, 0, len(cfg.algos))
	completed := 0
	for _, algo := range cfg.algos {
		res := benchmarkAlgo(cfg, algo)
		if res.err != nil {
			fmt.Printf("[%s] failed: %v\n", algo, res.err)
		} else {
			completed++
		}
		results = append(results, res)
	}

	fmt.Println()
	printTable(os.Stdout, results)

	if cfg.csv != "" {
		if err := writeCSVFile(cfg.csv, results); err != nil {
			fmt.Println("Error:", err)
			return 1
		}
	}
	if completed == 0 {
		return 1
	}
	return 0
}

// benchmarkAlgo times cfg.runs invocations of one codec binary. In
// decompression mode the compressed input is produced once, untimed.
func benchmarkAlgo(cfg config, algo string) series {
	dir, err := os.MkdirTemp("", "huffbench")
	if err != nil {
		return series{algo: algo, err: fmt.Errorf("create temp dir: %w", err)}
	}
	defer os.RemoveAll(dir)

	input := cfg.input
	if cfg.mode == 'd' {
		compressed := filepath.Join(dir, "input.ccmp")
		bin := filepath.Join(cfg.binDir, binaryName(algo, cfg.cpu, 'c'))
		if _, err := timeOnce(bin, cfg.input, compressed, os.Stdout, algo); err != nil {
			return series{algo: algo, err: fmt.Errorf("prepare compressed input: %w", err)}
		}
		input = compressed
	}

	bin := filepath.Join(cfg.binDir, binaryName(algo, cfg.cpu, cfg.mode))
	durations := make([]time.Duration, 0, cfg.runs)
	for i := 1; i <= cfg.runs; i++ {
		out := filepath.Join(dir, fmt.Sprintf("run%d.out", i))
		d, err := timeOnce(bin, input, out, os.Stdout, algo)
		if err != nil {
			return series{algo: algo, err: fmt.Errorf("run %d: %w", i, err)}
		}
		durations = append(durations, d)
	}
	return series{algo: algo, runs: durations}
}

// binaryName builds the executable name for one codec and direction.
func binaryName(algo string, cpu bool, mode byte) string {
	name := algo + "-" + string(mode)
	if cpu {
		name = "cpu_" + name
	}
	return name
}

// timeOnce runs one child process and returns the duration it reported.
// The child must print exactly one execution time line.
func timeOnce(bin, input, output string, echo io.Writer, label string) (time.Duration, error) {
	cmd := exec.Command(bin, input, output)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", bin, err)
	}

	times, scanErr := processOutput(stdout, echo, label)
	waitErr := cmd.Wait()
	if waitErr != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return 0, fmt.Errorf("%s: %v", bin, waitErr)
		}
		return 0, fmt.Errorf("%s: %v (stderr: %s)", bin, waitErr, msg)
	}
	if scanErr != nil {
		return 0, scanErr
	}
	if len(times) != 1 {
		return 0, fmt.Errorf("%s printed %d execution time lines, want exactly 1", bin, len(times))
	}
	return times[0], nil
}

// processOutput echoes child stdout line by line and collects every
// execution time it reports.
func processOutput(r io.Reader, echo io.Writer, label string) ([]time.Duration, error) {
	sc := bufio.NewScanner(r)
	var times []time.Duration
	for sc.Scan() {
		line := sc.Text()
		fmt.Fprintf(echo, "[%s] %s\n", label, line)
		if d, ok := timing.Parse(line); ok {
			times = append(times, d)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read child output: %w", err)
	}
	return times, nil
}

// aggregate reduces a run series to its extremes and mean.
func aggregate(runs []time.Duration) (min, avg, max time.Duration) {
	if len(runs) == 0 {
		return 0, 0, 0
	}
	min, max = runs[0], runs[0]
	var total time.Duration
	for _, d := range runs {
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
		total += d
	}
	return min, total / time.Duration(len(runs)), max
}

// printTable renders one row per codec series.
func printTable(w io.Writer, results []series) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tRUNS\tMIN\tAVG\tMAX")
	for _, res := range results {
		if res.err != nil {
			fmt.Fprintf(tw, "%s\t-\tfailed\t\t\n", res.algo)
			continue
		}
		min, avg, max := aggregate(res.runs)
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			res.algo, len(res.runs), fmtMS(min), fmtMS(avg), fmtMS(max))
	}
	tw.Flush()
}

// fmtMS formats a duration in whole milliseconds.
func fmtMS(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
}

// writeCSV emits one record per completed run.
func writeCSV(w io.Writer, results []series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"algorithm", "run", "milliseconds"}); err != nil {
		return err
	}
	for _, res := range results {
		if res.err != nil {
			continue
		}
		for i, d := range res.runs {
			rec := []string{res.algo, strconv.Itoa(i + 1), strconv.FormatInt(d.Milliseconds(), 10)}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeCSVFile writes the CSV report to path.
func writeCSVFile(path string, results []series) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := writeCSV(f, results); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	return nil
}

// printUsage prints the command-line usage information
func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  huffbench [flags] input")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -algos list   comma-separated codecs to time (default huffman)")
	fmt.Println("  -runs n       timed runs per codec, 1 to 1000 (default 5)")
	fmt.Println("  -mode c|d     time compression or decompression (default c)")
	fmt.Println("  -cpu          use the cpu_ serial binaries")
	fmt.Println("  -bin dir      directory holding the codec binaries (default .)")
	fmt.Println("  -csv path     write per-run timings to a CSV file")
}
