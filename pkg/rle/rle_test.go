package rle

import (
	"bytes"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/vladFlux/CUDA-Compression/pkg/container"
)

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	random := make([]byte, 5000)
	for i := range random {
		random[i] = byte(rng.Intn(4))
	}

	cases := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"one byte", []byte{'x'}},
		{"long run", bytes.Repeat([]byte{'a'}, 100000)},
		{"alternating", bytes.Repeat([]byte{'a', 'b'}, 500)},
		{"random small alphabet", random},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := Encode(tc.data)
			got, err := Decode(body, uint64(len(tc.data)))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !bytes.Equal(got, tc.data) {
				t.Fatal("round trip changed the data")
			}
		})
	}
}

func TestLongRunUsesUvarint(t *testing.T) {
	data := bytes.Repeat([]byte{'z'}, 1<<20)
	body := Encode(data)
	// One run: a multi-byte count plus the value byte.
	if len(body) != uvarintLen(1<<20)+1 {
		t.Fatalf("encoded length = %d, want %d", len(body), uvarintLen(1<<20)+1)
	}
}

// uvarintLen returns the encoded width of v.
func uvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

func TestDecodeErrors(t *testing.T) {
	body := Encode([]byte("aaabbb"))

	cases := []struct {
		name string
		body []byte
		len  uint64
		want error
	}{
		{"truncated count", body[:0], 6, container.ErrTruncatedStream},
		{"truncated value", body[:1], 6, container.ErrTruncatedStream},
		{"run overflow", body, 2, container.ErrCorruptStream},
		{"trailing bytes", append(append([]byte{}, body...), 1, 'c'), 6, container.ErrCorruptStream},
		{"zero count", []byte{0, 'a'}, 1, container.ErrCorruptStream},
		{"length overflows platform", []byte{1, 'a'}, math.MaxUint64, container.ErrCorruptStream},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.body, tc.len); !errors.Is(err, tc.want) {
				t.Fatalf("Decode = %v, want %v", err, tc.want)
			}
		})
	}
}
