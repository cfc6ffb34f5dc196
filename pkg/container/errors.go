package container

import "errors"

// Error taxonomy shared by the codecs and the command-line tools. Every
// failure surfaced to a caller wraps one of these sentinels or an
// operating system error, so callers can branch with errors.Is.
var (
	// ErrInvalidArguments marks a malformed invocation: bad mode, bad
	// algorithm name, wrong argument count.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrTruncatedStream marks input that ends before the structure it
	// declares is complete.
	ErrTruncatedStream = errors.New("truncated stream")

	// ErrCorruptStream marks input whose declared structure is internally
	// inconsistent.
	ErrCorruptStream = errors.New("corrupt stream")

	// ErrTreeConstruction marks a frequency table from which no valid code
	// tree can be built.
	ErrTreeConstruction = errors.New("tree construction failed")
)
