package snapshot

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression defines the payload compression algorithm.
type Compression uint8

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast, moderate ratio).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD block compression (better ratio). It is the default.
	CompressionZSTD Compression = 2
)

// String returns the stable name of the compression. The name round-trips
// through ParseCompression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

// ParseCompression returns the compression with the given name.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

func (c Compression) valid() bool {
	switch c {
	case CompressionNone, CompressionLZ4, CompressionZSTD:
		return true
	default:
		return false
	}
}

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// compress compresses the payload. It returns the stored bytes and the
// compression actually used: an incompressible LZ4 payload falls back to
// CompressionNone so the envelope always records what is really stored.
func compress(data []byte, c Compression) ([]byte, Compression, error) {
	if len(data) == 0 {
		return data, CompressionNone, nil
	}

	switch c {
	case CompressionNone:
		return data, CompressionNone, nil

	case CompressionLZ4:
		compressed := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, compressed, nil)
		if err != nil {
			return nil, 0, err
		}
		if n == 0 || n >= len(data) {
			return data, CompressionNone, nil
		}
		return compressed[:n], CompressionLZ4, nil

	case CompressionZSTD:
		enc := getZstdEncoder()
		defer putZstdEncoder(enc)
		return enc.EncodeAll(data, nil), CompressionZSTD, nil

	default:
		return nil, 0, fmt.Errorf("unknown compression: %d", c)
	}
}

// decompress restores the payload to uncompressedLen bytes.
func decompress(data []byte, c Compression, uncompressedLen uint64) ([]byte, error) {
	switch c {
	case CompressionNone:
		if uint64(len(data)) != uncompressedLen {
			return nil, errors.New("uncompressed payload size mismatch")
		}
		return data, nil

	case CompressionLZ4:
		result := make([]byte, uncompressedLen)
		n, err := lz4.UncompressBlock(data, result)
		if err != nil {
			return nil, err
		}
		if uint64(n) != uncompressedLen {
			return nil, errors.New("decompressed size mismatch")
		}
		return result, nil

	case CompressionZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(data, make([]byte, 0, uncompressedLen))
		if err != nil {
			return nil, err
		}
		if uint64(len(decoded)) != uncompressedLen {
			return nil, errors.New("decompressed size mismatch")
		}
		return decoded, nil

	default:
		return nil, fmt.Errorf("unknown compression: %d", c)
	}
}
