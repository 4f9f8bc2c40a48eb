package persistence

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the snapshot payload compression algorithm.
type Compression uint8

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast decode, good for
	// snapshots reloaded at every training run).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD compression (better ratio, good for
	// archived snapshots).
	CompressionZSTD Compression = 2
)

// String returns the stable name of the compression algorithm.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

// zstdInit sets up shared zstd coders; EncodeAll/DecodeAll are safe for
// concurrent use on a single instance.
func zstdInit() {
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil)
}

// compress encodes data with the given algorithm.
//
// A zero-length result means "stored uncompressed": LZ4 falls back to raw
// storage for incompressible payloads.
func compress(c Compression, data []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return nil, nil
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, err
		}
		if n == 0 || n >= len(data) {
			return nil, nil // incompressible, store raw
		}
		return dst[:n], nil
	case CompressionZSTD:
		zstdOnce.Do(zstdInit)
		return zstdEncoder.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("unknown compression: %d", uint8(c))
	}
}

// decompress decodes a stored payload of known uncompressed size.
func decompress(c Compression, stored []byte, uncompressedSize int) ([]byte, error) {
	switch c {
	case CompressionLZ4:
		dst := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(stored, dst)
		if err != nil {
			return nil, err
		}
		if n != uncompressedSize {
			return nil, fmt.Errorf("lz4: decoded %d bytes, expected %d", n, uncompressedSize)
		}
		return dst, nil
	case CompressionZSTD:
		zstdOnce.Do(zstdInit)
		dst, err := zstdDecoder.DecodeAll(stored, make([]byte, 0, uncompressedSize))
		if err != nil {
			return nil, err
		}
		if len(dst) != uncompressedSize {
			return nil, fmt.Errorf("zstd: decoded %d bytes, expected %d", len(dst), uncompressedSize)
		}
		return dst, nil
	default:
		return nil, fmt.Errorf("unknown compression: %d", uint8(c))
	}
}
