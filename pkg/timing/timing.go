// Package timing owns the execution time wire line that the engine
// binaries print and the comparison harness scans for.
package timing

import (
	"regexp"
	"strconv"
	"time"
)

// linePattern matches the wire line anywhere in a line of output. The
// seconds field is unbounded, the milliseconds field is the 0..999
// remainder.
var linePattern = regexp.MustCompile(`Execution time:\s+(\d+)s\s+(\d+)ms`)

// Line formats an elapsed duration as the wire line.
func Line(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return "Execution time: " + strconv.FormatInt(ms/1000, 10) + "s " +
		strconv.FormatInt(ms%1000, 10) + "ms"
}

// Parse extracts the duration from a line of output. The second return
// is false when the line carries no wire line.
func Parse(line string) (time.Duration, bool) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	secs, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	msecs, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(secs)*time.Second + time.Duration(msecs)*time.Millisecond, true
}
