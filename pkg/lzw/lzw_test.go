package lzw

import (
	"bytes"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/vladFlux/CUDA-Compression/pkg/container"
)

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	random := make([]byte, 4000)
	for i := range random {
		random[i] = byte(rng.Intn(256))
	}

	cases := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"one byte", []byte{'a'}},
		{"classic", []byte("TOBEORNOTTOBEORTOBEORNOT")},
		{"run on", bytes.Repeat([]byte("ab"), 300)},
		{"single symbol run", bytes.Repeat([]byte{'q'}, 10000)},
		{"random", random},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, err := Encode(tc.data)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
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

func TestWidthGrowthRoundTrip(t *testing.T) {
	// Random bytes add roughly one dictionary entry per input byte, so
	// 200000 bytes push the code width through 16 bits and freeze the
	// dictionary on the way.
	rng := rand.New(rand.NewSource(13))
	data := make([]byte, 200000)
	for i := range data {
		data[i] = byte(rng.Intn(256))
	}

	body, err := Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(body, uint64(len(data)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("round trip changed the data")
	}
}

func TestCompressesRepetitiveInput(t *testing.T) {
	data := bytes.Repeat([]byte("the rain in spain "), 500)
	body, err := Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(body) >= len(data)/2 {
		t.Fatalf("repetitive input encoded to %d bytes, want well under %d", len(body), len(data))
	}
}

func TestDecodeErrors(t *testing.T) {
	body, err := Encode([]byte("abcabcabc"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	t.Run("truncated", func(t *testing.T) {
		if _, err := Decode(body[:1], 9); !errors.Is(err, container.ErrTruncatedStream) {
			t.Fatalf("Decode = %v, want ErrTruncatedStream", err)
		}
	})
	t.Run("empty with body", func(t *testing.T) {
		if _, err := Decode(body, 0); !errors.Is(err, container.ErrCorruptStream) {
			t.Fatalf("Decode = %v, want ErrCorruptStream", err)
		}
	})
	t.Run("trailing bytes", func(t *testing.T) {
		long := append(append([]byte{}, body...), 0xAA, 0xBB)
		if _, err := Decode(long, 9); !errors.Is(err, container.ErrCorruptStream) {
			t.Fatalf("Decode = %v, want ErrCorruptStream", err)
		}
	})
	t.Run("first code not literal", func(t *testing.T) {
		// 9 set bits put the first code at 511, outside the literals.
		if _, err := Decode([]byte{0xFF, 0xFF}, 4); !errors.Is(err, container.ErrCorruptStream) {
			t.Fatalf("Decode = %v, want ErrCorruptStream", err)
		}
	})
	t.Run("length overflows platform", func(t *testing.T) {
		if _, err := Decode(body, math.MaxUint64); !errors.Is(err, container.ErrCorruptStream) {
			t.Fatalf("Decode = %v, want ErrCorruptStream", err)
		}
	})
}
