package container

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSealParseRoundTrip(t *testing.T) {
	body := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	file := Seal(Header{Algorithm: AlgoHuffman, OriginalLength: 1234}, body)

	h, got, err := Parse(file)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if h.Algorithm != AlgoHuffman {
		t.Fatalf("Algorithm = %v, want huffman", h.Algorithm)
	}
	if h.OriginalLength != 1234 {
		t.Fatalf("OriginalLength = %d, want 1234", h.OriginalLength)
	}
	if !bytes.Equal(got, body) {
		t.Fatalf("body = %x, want %x", got, body)
	}
}

func TestParseEmptyBody(t *testing.T) {
	file := Seal(Header{Algorithm: AlgoRLE, OriginalLength: 0}, nil)
	h, body, err := Parse(file)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if h.OriginalLength != 0 || len(body) != 0 {
		t.Fatalf("got length %d, body %d bytes, want 0 and 0", h.OriginalLength, len(body))
	}
}

func TestParseDetectsEveryByteFlip(t *testing.T) {
	file := Seal(Header{Algorithm: AlgoLZW, OriginalLength: 42}, []byte("some compressed payload"))
	for i := range file {
		corrupted := append([]byte(nil), file...)
		corrupted[i] ^= 0x01
		if _, _, err := Parse(corrupted); err == nil {
			t.Fatalf("Parse accepted a file with byte %d flipped", i)
		}
	}
}

func TestParseTruncated(t *testing.T) {
	file := Seal(Header{Algorithm: AlgoBWT, OriginalLength: 7}, []byte("payload"))
	for _, n := range []int{0, 3, headerSize - 1} {
		if _, _, err := Parse(file[:n]); !errors.Is(err, ErrTruncatedStream) {
			t.Fatalf("Parse(%d bytes) = %v, want ErrTruncatedStream", n, err)
		}
	}
	// Cutting the body invalidates the checksum instead.
	if _, _, err := Parse(file[:len(file)-2]); !errors.Is(err, ErrCorruptStream) {
		t.Fatalf("Parse(short body) = %v, want ErrCorruptStream", err)
	}
}

func TestParseErrorKinds(t *testing.T) {
	valid := Seal(Header{Algorithm: AlgoHuffman, OriginalLength: 3}, []byte("abc"))

	badMagic := append([]byte(nil), valid...)
	copy(badMagic, "NOPE")
	if _, _, err := Parse(badMagic); !errors.Is(err, ErrCorruptStream) {
		t.Fatalf("bad magic = %v, want ErrCorruptStream", err)
	}

	badVersion := append([]byte(nil), valid...)
	badVersion[4] = 99
	if _, _, err := Parse(badVersion); !errors.Is(err, ErrCorruptStream) {
		t.Fatalf("bad version = %v, want ErrCorruptStream", err)
	}

	badAlgo := Seal(Header{Algorithm: Algorithm(200), OriginalLength: 3}, []byte("abc"))
	if _, _, err := Parse(badAlgo); !errors.Is(err, ErrCorruptStream) {
		t.Fatalf("bad algorithm = %v, want ErrCorruptStream", err)
	}
}

func FuzzParse(f *testing.F) {
	f.Add(Seal(Header{Algorithm: AlgoHuffman, OriginalLength: 5}, []byte("abcde")))
	f.Add(make([]byte, headerSize))
	f.Add([]byte{})

	// Whatever the bytes, Parse either errors or yields a header and body
	// that seal back into the identical file.
	f.Fuzz(func(t *testing.T, file []byte) {
		h, body, err := Parse(file)
		if err != nil {
			return
		}
		if !bytes.Equal(Seal(h, body), file) {
			t.Fatalf("reseal of an accepted %d-byte file differs from the original", len(file))
		}
	})
}

func TestAlgorithmString(t *testing.T) {
	cases := []struct {
		algo Algorithm
		want string
	}{
		{AlgoHuffman, "huffman"},
		{AlgoRLE, "rle"},
		{AlgoLZW, "lzw"},
		{AlgoBWT, "bwt"},
		{AlgoLZ4, "lz4"},
		{AlgoZstd, "zstd"},
		{Algorithm(77), "unknown(77)"},
	}
	for _, c := range cases {
		if got := c.algo.String(); got != c.want {
			t.Fatalf("Algorithm(%d).String() = %q, want %q", byte(c.algo), got, c.want)
		}
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	if err := WriteFileAtomic(path, []byte("hello")); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("content = %q, want %q", got, "hello")
	}

	// Overwrite replaces the previous content in one step.
	if err := WriteFileAtomic(path, []byte("rewritten")); err != nil {
		t.Fatalf("WriteFileAtomic overwrite: %v", err)
	}
	got, _ = os.ReadFile(path)
	if string(got) != "rewritten" {
		t.Fatalf("content after overwrite = %q, want %q", got, "rewritten")
	}

	// No stray temp files stay behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("directory holds %d entries, want 1", len(entries))
	}
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "out.bin")

	if err := WriteFileAtomic(path, []byte("data")); err == nil {
		t.Fatal("WriteFileAtomic into a missing directory succeeded")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("partial output exists after failed write: %v", err)
	}
}
