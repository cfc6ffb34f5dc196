// Package progress reports codec throughput on stdout. The codecs feed a
// global byte counter and a background goroutine prints periodic updates;
// the lines never match the execution time wire format, so harnesses that
// scan stdout are unaffected.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Global state for progress tracking
var (
	bytesProcessed atomic.Uint64
	totalSize      uint64
	done           chan struct{}
	finished       chan struct{}
	running        bool
	mu             sync.Mutex
	quiet          bool
)

// Init starts progress tracking for an operation over size bytes.
func Init(size uint64) {
	mu.Lock()
	defer mu.Unlock()

	if running || quiet {
		return
	}

	bytesProcessed.Store(0)
	totalSize = size
	if totalSize == 0 {
		totalSize = 1 // Avoid division by zero
	}

	done = make(chan struct{})
	finished = make(chan struct{})
	running = true
	go report()
}

// SetQuiet suppresses all progress output. Call it before Init.
func SetQuiet(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = enabled
}

// Stop ends progress tracking. It returns only after the closing summary
// has printed, so callers can order their own output after it.
func Stop() {
	mu.Lock()
	defer mu.Unlock()

	if running {
		close(done)
		<-finished
		running = false
	}
}

// AddBytes adds processed bytes to the counter.
func AddBytes(n uint64) {
	if n > 0 {
		bytesProcessed.Add(n)
	}
}

// formatSize returns a human-readable size string.
func formatSize(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatRate returns a human-readable rate string.
func formatRate(bytesPerSec uint64) string {
	return formatSize(bytesPerSec) + "/s"
}

// report prints progress lines until Stop closes the done channel.
func report() {
	defer close(finished)

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var prevBytes uint64
	var prevPercentage float64
	startTime := time.Now()
	lastOutput := time.Now()

	for {
		select {
		case <-ticker.C:
			current := bytesProcessed.Load()
			rate := (current - prevBytes) * 4 // 250ms interval
			prevBytes = current
			percentage := float64(current) / float64(totalSize) * 100

			// Print every second, or when the percentage jumps.
			if time.Since(lastOutput) < time.Second && percentage-prevPercentage < 10 {
				continue
			}
			lastOutput = time.Now()
			prevPercentage = percentage

			if totalSize > 1 {
				fmt.Printf("Processed %s of %s (%.1f%%) | Rate: %s\n",
					formatSize(current), formatSize(totalSize), percentage, formatRate(rate))
			} else {
				fmt.Printf("Processed %s | Rate: %s\n", formatSize(current), formatRate(rate))
			}
			os.Stdout.Sync()
		case <-done:
			total := time.Since(startTime).Seconds()
			if total < 0.001 {
				total = 0.001
			}
			processed := bytesProcessed.Load()
			fmt.Printf("Processed %s in %.1f seconds (avg rate: %s)\n",
				formatSize(processed), total, formatRate(uint64(float64(processed)/total)))
			return
		}
	}
}

// Writer counts bytes written through it for progress reporting.
type Writer struct {
	W io.Writer
}

// Write implements io.Writer and tracks bytes written.
func (pw *Writer) Write(p []byte) (n int, err error) {
	n, err = pw.W.Write(p)
	if err == nil && n > 0 {
		AddBytes(uint64(n))
	}
	return
}
