package fallback

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"runtime"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
	"golang.org/x/sync/errgroup"
)

// Strategy names a classical compression scheme. The name is persisted next
// to the compressed bytes, so values are stable.
type Strategy string

const (
	// StrategyChunked splits the payload into independently gzipped chunks.
	StrategyChunked Strategy = "chunked-classical"
	// StrategyFast trades ratio for speed with LZ4.
	StrategyFast Strategy = "fast-classical"
	// StrategyHybrid compresses with both zstd and xz and keeps the smaller
	// output.
	StrategyHybrid Strategy = "hybrid-classical"
	// StrategyWithMetadata wraps a gzip payload in an envelope carrying
	// quantum analysis metadata.
	StrategyWithMetadata Strategy = "classical-with-metadata"
	// StrategySimple is plain gzip.
	StrategySimple Strategy = "simple-classical"
)

// chunkSize is the uncompressed chunk width of StrategyChunked.
const chunkSize = 256 * 1024

// Hybrid output tags; the first byte names the codec that won.
const (
	hybridZstd = 'z'
	hybridXz   = 'x'
)

// Recover reverses a strategy's compression. It is the decompression
// counterpart of AttemptGracefulDegradation.
func Recover(compressed []byte, strategy Strategy) ([]byte, error) {
	switch strategy {
	case StrategyChunked:
		return chunkedDecompress(compressed)
	case StrategyFast:
		return lz4Decompress(compressed)
	case StrategyHybrid:
		return hybridDecompress(compressed)
	case StrategyWithMetadata:
		return metadataDecompress(compressed)
	case StrategySimple:
		return gzipDecompress(compressed)
	default:
		return nil, fmt.Errorf("unknown fallback strategy %q", strategy)
	}
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("gzip write: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}

	return buf.Bytes(), nil
}

func gzipDecompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip open: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gzip read: %w", err)
	}

	return out, nil
}

func lz4Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := lz4.NewWriter(&buf)
	if err := w.Apply(lz4.CompressionLevelOption(lz4.Fast)); err != nil {
		return nil, fmt.Errorf("lz4 options: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("lz4 write: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lz4 close: %w", err)
	}

	return buf.Bytes(), nil
}

func lz4Decompress(data []byte) ([]byte, error) {
	out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("lz4 read: %w", err)
	}

	return out, nil
}

func zstdCompress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	defer enc.Close()

	return enc.EncodeAll(data, nil), nil
}

func zstdDecompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd read: %w", err)
	}

	return out, nil
}

func xzCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("xz encoder: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("xz write: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("xz close: %w", err)
	}

	return buf.Bytes(), nil
}

func xzDecompress(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xz open: %w", err)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("xz read: %w", err)
	}

	return out, nil
}

// hybridCompress runs zstd and xz over the same input and keeps the smaller
// output behind a one-byte codec tag.
func hybridCompress(data []byte) ([]byte, error) {
	z, err := zstdCompress(data)
	if err != nil {
		return nil, err
	}

	x, err := xzCompress(data)
	if err != nil {
		return nil, err
	}

	if len(x) < len(z) {
		return append([]byte{hybridXz}, x...), nil
	}

	return append([]byte{hybridZstd}, z...), nil
}

func hybridDecompress(data []byte) ([]byte, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("hybrid payload too short")
	}

	switch data[0] {
	case hybridZstd:
		return zstdDecompress(data[1:])
	case hybridXz:
		return xzDecompress(data[1:])
	default:
		return nil, fmt.Errorf("unknown hybrid codec tag %#x", data[0])
	}
}

// chunkedCompress gzips fixed-width chunks in parallel and frames them with
// a chunk count followed by per-chunk lengths.
func chunkedCompress(data []byte) ([]byte, error) {
	count := (len(data) + chunkSize - 1) / chunkSize
	chunks := make([][]byte, count)

	g := errgroup.Group{}
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < count; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > len(data) {
			end = len(data)
		}

		g.Go(func() error {
			compressed, err := gzipCompress(data[start:end])
			if err != nil {
				return err
			}

			chunks[i] = compressed
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	var header [4]byte

	binary.LittleEndian.PutUint32(header[:], uint32(count))
	buf.Write(header[:])

	for _, c := range chunks {
		binary.LittleEndian.PutUint32(header[:], uint32(len(c)))
		buf.Write(header[:])
		buf.Write(c)
	}

	return buf.Bytes(), nil
}

func chunkedDecompress(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("chunked payload too short")
	}

	count := int(binary.LittleEndian.Uint32(data))
	offset := 4

	// Every chunk carries at least its 4-byte length header, so a count
	// the remaining payload cannot hold is corrupt. Checking before the
	// allocation keeps a forged header from reserving gigabytes.
	if count > (len(data)-offset)/4 {
		return nil, fmt.Errorf("chunk count %d exceeds payload capacity", count)
	}

	compressed := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		if offset+4 > len(data) {
			return nil, fmt.Errorf("chunk %d header truncated", i)
		}

		size := int(binary.LittleEndian.Uint32(data[offset:]))
		offset += 4

		if offset+size > len(data) {
			return nil, fmt.Errorf("chunk %d body truncated", i)
		}

		compressed = append(compressed, data[offset:offset+size])
		offset += size
	}

	chunks := make([][]byte, count)

	g := errgroup.Group{}
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, c := range compressed {
		g.Go(func() error {
			out, err := gzipDecompress(c)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}

			chunks[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return bytes.Join(chunks, nil), nil
}
