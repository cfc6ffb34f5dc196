package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/vladFlux/CUDA-Compression/pkg/container"
	"github.com/vladFlux/CUDA-Compression/pkg/progress"
)

const chunkSize = 32 * 1024

// lz4Codec wraps the LZ4 frame format as a reference point for the
// native codecs.
type lz4Codec struct{}

func (lz4Codec) Name() string { return "lz4" }

func (lz4Codec) Encode(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return seal(container.AlgoLZ4, 0, nil), nil
	}

	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if err := writeChunks(zw, src); err != nil {
		return nil, fmt.Errorf("write lz4 frame: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close lz4 writer: %w", err)
	}
	return seal(container.AlgoLZ4, len(src), buf.Bytes()), nil
}

func (lz4Codec) Decode(file []byte) ([]byte, error) {
	origLen, body, err := open(file, container.AlgoLZ4)
	if err != nil {
		return nil, err
	}
	if origLen == 0 {
		if len(body) != 0 {
			return nil, fmt.Errorf("%d stray bytes in an empty stream: %w", len(body), container.ErrCorruptStream)
		}
		return []byte{}, nil
	}

	br := bytes.NewReader(body)
	zr := lz4.NewReader(br)
	var buf bytes.Buffer
	pw := &progress.Writer{W: &buf}
	if _, err := io.Copy(pw, zr); err != nil {
		return nil, fmt.Errorf("lz4 stream: %v: %w", err, streamKind(err))
	}
	if br.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after lz4 frame: %w", br.Len(), container.ErrCorruptStream)
	}
	if uint64(buf.Len()) != origLen {
		return nil, fmt.Errorf("decoded %d bytes, header declares %d: %w", buf.Len(), origLen, container.ErrCorruptStream)
	}
	return buf.Bytes(), nil
}

// zstdCodec wraps the zstd frame format as a second reference point.
type zstdCodec struct{}

func (zstdCodec) Name() string { return "zstd" }

func (zstdCodec) Encode(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return seal(container.AlgoZstd, 0, nil), nil
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	if err := writeChunks(enc, src); err != nil {
		enc.Close()
		return nil, fmt.Errorf("write zstd frame: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close zstd writer: %w", err)
	}
	return seal(container.AlgoZstd, len(src), buf.Bytes()), nil
}

func (zstdCodec) Decode(file []byte) ([]byte, error) {
	origLen, body, err := open(file, container.AlgoZstd)
	if err != nil {
		return nil, err
	}
	if origLen == 0 {
		if len(body) != 0 {
			return nil, fmt.Errorf("%d stray bytes in an empty stream: %w", len(body), container.ErrCorruptStream)
		}
		return []byte{}, nil
	}

	dec, err := zstd.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %v: %w", err, container.ErrCorruptStream)
	}
	defer dec.Close()

	var buf bytes.Buffer
	pw := &progress.Writer{W: &buf}
	if _, err := io.Copy(pw, dec); err != nil {
		return nil, fmt.Errorf("zstd stream: %v: %w", err, streamKind(err))
	}
	if uint64(buf.Len()) != origLen {
		return nil, fmt.Errorf("decoded %d bytes, header declares %d: %w", buf.Len(), origLen, container.ErrCorruptStream)
	}
	return buf.Bytes(), nil
}

// writeChunks feeds src to w in fixed chunks so progress stays live on
// large inputs.
func writeChunks(w io.Writer, src []byte) error {
	for off := 0; off < len(src); off += chunkSize {
		end := off + chunkSize
		if end > len(src) {
			end = len(src)
		}
		if _, err := w.Write(src[off:end]); err != nil {
			return err
		}
		progress.AddBytes(uint64(end - off))
	}
	return nil
}

// streamKind maps end-of-input errors to the truncated stream sentinel.
func streamKind(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return container.ErrTruncatedStream
	}
	return container.ErrCorruptStream
}
