package snapshot

import (
	"errors"
	"fmt"
)

const (
	// MagicNumber identifies featgo snapshot files (ASCII: "FGO1")
	MagicNumber = 0x46474F31
	// Version is the current envelope format version (v1.0.0)
	Version = 0x00010000

	// maxPayloadLen bounds the payload allocation when reading a header, so a
	// corrupt length field cannot ask for arbitrary memory.
	maxPayloadLen = 1 << 30
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrUnknownCodec   = errors.New("unknown codec")
)

// Info describes a snapshot envelope without decoding its payload.
//
// The envelope is self-describing: codec and compression are recorded in the
// header, so a reader never has to guess how the payload was produced.
type Info struct {
	// Kind names the transformer the state belongs to.
	Kind string
	// Codec is the stable name of the codec that encoded the payload.
	Codec string
	// Compression is the payload compression.
	Compression Compression
	// UncompressedLen is the encoded state size before compression.
	UncompressedLen uint64
	// PayloadLen is the stored payload size.
	PayloadLen uint64
	// Checksum is the CRC32 (IEEE) of the stored payload.
	Checksum uint32
}

// ChecksumMismatchError is returned when payload verification fails.
//
// CRC32 detects accidental corruption; it is not a defense against tampering.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// IsChecksumMismatch returns true if err is a checksum mismatch error.
func IsChecksumMismatch(err error) bool {
	var mismatchErr *ChecksumMismatchError
	return errors.As(err, &mismatchErr)
}
