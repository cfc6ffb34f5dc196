package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"testing"

	"github.com/vladFlux/CUDA-Compression/pkg/container"
)

func TestParseInvocation(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want invocation
	}{
		{
			"huffman-c", []string{"in.dat", "out.ccmp"},
			invocation{algo: "huffman", mode: 'c', input: "in.dat", output: "out.ccmp"},
		},
		{
			"huffman-d", []string{"in.ccmp", "out.dat"},
			invocation{algo: "huffman", mode: 'd', input: "in.ccmp", output: "out.dat"},
		},
		{
			"cpu_huffman-c", []string{"in", "out"},
			invocation{algo: "huffman", serial: true, mode: 'c', input: "in", output: "out"},
		},
		{
			"/usr/local/bin/cpu_lzw-d", []string{"in", "out"},
			invocation{algo: "lzw", serial: true, mode: 'd', input: "in", output: "out"},
		},
		{
			"rle-c.exe", []string{"in", "out"},
			invocation{algo: "rle", mode: 'c', input: "in", output: "out"},
		},
		{
			"huffman", []string{"in", "out", "compress"},
			invocation{algo: "huffman", mode: 'c', input: "in", output: "out"},
		},
		{
			"huffman-c", []string{"in", "out", "c"},
			invocation{algo: "huffman", mode: 'c', input: "in", output: "out"},
		},
		{
			"huffman", []string{"-d", "in", "out"},
			invocation{algo: "huffman", mode: 'd', input: "in", output: "out"},
		},
		{
			"huffman", []string{"-algo", "zstd", "-c", "in", "out"},
			invocation{algo: "zstd", mode: 'c', input: "in", output: "out"},
		},
		{
			"bwt-c", []string{"-cpu", "-workers", "2", "-block", "1024", "in", "out"},
			invocation{algo: "bwt", serial: true, mode: 'c', input: "in", output: "out", workers: 2, block: 1024},
		},
		{
			"main", []string{"-c", "-quiet", "in", "out"},
			invocation{algo: "huffman", mode: 'c', input: "in", output: "out", quiet: true},
		},
	}
	for _, tc := range cases {
		got, err := parseInvocation(tc.name, tc.args)
		if err != nil {
			t.Errorf("%s %v: unexpected error: %v", tc.name, tc.args, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s %v:\n got %+v\nwant %+v", tc.name, tc.args, got, tc.want)
		}
	}
}

func TestParseInvocationErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"huffman-c", []string{"-d", "in", "out"}},
		{"huffman-c", []string{"-algo", "rle", "in", "out"}},
		{"huffman", []string{"in", "out"}},
		{"huffman-c", []string{"in"}},
		{"huffman-c", []string{"in", "out", "sideways"}},
		{"huffman-c", []string{"a", "b", "c", "d"}},
		{"huffman", []string{"-c", "-d", "in", "out"}},
		{"huffman", []string{"-bogus", "in", "out"}},
		{"huffman-c", []string{"-block", "4294967296", "in", "out"}},
	}
	for _, tc := range cases {
		if _, err := parseInvocation(tc.name, tc.args); !errors.Is(err, container.ErrInvalidArguments) {
			t.Errorf("%s %v: expected invalid arguments, got %v", tc.name, tc.args, err)
		}
	}
}

func TestModeToken(t *testing.T) {
	valid := map[string]byte{
		"c": 'c', "-c": 'c', "compress": 'c',
		"d": 'd', "-d": 'd', "decompress": 'd',
	}
	for s, want := range valid {
		got, ok := modeToken(s)
		if !ok || got != want {
			t.Errorf("modeToken(%q) = %q, %v; want %q, true", s, got, ok, want)
		}
	}
	for _, s := range []string{"", "x", "comp", "C"} {
		if _, ok := modeToken(s); ok {
			t.Errorf("modeToken(%q) accepted", s)
		}
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("boom"), 1},
		{fmt.Errorf("bad flag: %w", container.ErrInvalidArguments), 2},
		{fmt.Errorf("read input: %w", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}), 3},
		{fmt.Errorf("rename: %w", &os.LinkError{Op: "rename", Old: "a", New: "b", Err: fs.ErrPermission}), 3},
		{fmt.Errorf("cut short: %w", container.ErrTruncatedStream), 4},
		{fmt.Errorf("mangled: %w", container.ErrCorruptStream), 5},
		{fmt.Errorf("no tree: %w", container.ErrTreeConstruction), 6},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
