// Package snapshot persists fitted transformer state as self-describing
// binary envelopes.
//
// An envelope records the codec and compression used to produce its payload
// plus a CRC32 checksum, so snapshots written with one configuration can
// always be opened later: the reader follows the header instead of guessing.
//
// Envelope layout (little endian):
//
//	Magic           uint32  "FGO1"
//	Version         uint32
//	Compression     uint8
//	Kind            uint16 length + bytes
//	Codec           uint16 length + bytes
//	Checksum        uint32  CRC32 (IEEE) of the stored payload
//	UncompressedLen uint64
//	PayloadLen      uint64
//	Payload         PayloadLen bytes
package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"time"

	"github.com/hupe1980/featgo"
	"github.com/hupe1980/featgo/artifact"
	"github.com/hupe1980/featgo/codec"
)

// Options contains options for writing snapshots.
type Options struct {
	// Codec encodes the state. Defaults to codec.Default.
	Codec codec.Codec

	// Compression is the payload compression.
	Compression Compression

	// Logger is the logger for save and load operations.
	Logger *featgo.Logger

	// Metrics collects operational metrics.
	Metrics featgo.MetricsCollector
}

// DefaultOptions contains the default options for snapshots.
var DefaultOptions = Options{
	Compression: CompressionZSTD,
}

func applyOptions(optFns []func(o *Options)) Options {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	if opts.Logger == nil {
		opts.Logger = featgo.NoopLogger()
	}

	if opts.Metrics == nil {
		opts.Metrics = featgo.NoopMetricsCollector{}
	}

	return opts
}

// Write encodes state into a snapshot envelope. kind names the transformer
// the state belongs to and is returned verbatim by Read.
func Write(w io.Writer, kind string, state any, optFns ...func(o *Options)) error {
	return write(w, kind, state, applyOptions(optFns))
}

func write(w io.Writer, kind string, state any, opts Options) error {
	if !opts.Compression.valid() {
		return fmt.Errorf("unknown compression: %d", opts.Compression)
	}

	encoded, err := opts.Codec.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	payload, used, err := compress(encoded, opts.Compression)
	if err != nil {
		return fmt.Errorf("failed to compress payload: %w", err)
	}

	var buf bytes.Buffer
	writeUint32(&buf, MagicNumber)
	writeUint32(&buf, Version)
	buf.WriteByte(byte(used))

	if err := writeString(&buf, kind); err != nil {
		return err
	}
	if err := writeString(&buf, opts.Codec.Name()); err != nil {
		return err
	}

	writeUint32(&buf, crc32.ChecksumIEEE(payload))
	writeUint64(&buf, uint64(len(encoded)))
	writeUint64(&buf, uint64(len(payload)))

	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}

	return nil
}

// Read decodes a snapshot envelope into state and returns the recorded kind.
func Read(r io.Reader, state any) (string, error) {
	info, err := ReadEnvelope(r, state)
	if err != nil {
		return "", err
	}

	return info.Kind, nil
}

// ReadEnvelope decodes a snapshot envelope into state and returns its header.
// It consumes exactly one envelope from r, so envelopes concatenated into a
// single stream can be read back to back.
func ReadEnvelope(r io.Reader, state any) (*Info, error) {
	info, payload, err := readEnvelope(r)
	if err != nil {
		return nil, err
	}

	c, ok := codec.ByName(info.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, info.Codec)
	}

	decoded, err := decompress(payload, info.Compression, info.UncompressedLen)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress payload: %w", err)
	}

	if err := c.Unmarshal(decoded, state); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}

	return info, nil
}

// ReadInfo reads only the envelope header. The payload is not consumed or
// verified.
func ReadInfo(r io.Reader) (*Info, error) {
	return readHeader(r)
}

func readHeader(r io.Reader) (*Info, error) {
	magic, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if magic != MagicNumber {
		return nil, ErrInvalidMagic
	}

	version, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, ErrInvalidVersion
	}

	var compression [1]byte
	if _, err := io.ReadFull(r, compression[:]); err != nil {
		return nil, err
	}

	info := &Info{Compression: Compression(compression[0])}
	if !info.Compression.valid() {
		return nil, fmt.Errorf("unknown compression: %d", info.Compression)
	}

	if info.Kind, err = readString(r); err != nil {
		return nil, err
	}
	if info.Codec, err = readString(r); err != nil {
		return nil, err
	}

	if info.Checksum, err = readUint32(r); err != nil {
		return nil, err
	}
	if info.UncompressedLen, err = readUint64(r); err != nil {
		return nil, err
	}
	if info.PayloadLen, err = readUint64(r); err != nil {
		return nil, err
	}

	if info.PayloadLen > maxPayloadLen || info.UncompressedLen > maxPayloadLen {
		return nil, fmt.Errorf("payload length %d exceeds limit", info.PayloadLen)
	}

	return info, nil
}

func readEnvelope(r io.Reader) (*Info, []byte, error) {
	info, err := readHeader(r)
	if err != nil {
		return nil, nil, err
	}

	payload := make([]byte, info.PayloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, nil, err
	}

	if actual := crc32.ChecksumIEEE(payload); actual != info.Checksum {
		return nil, nil, &ChecksumMismatchError{Expected: info.Checksum, Actual: actual}
	}

	return info, payload, nil
}

// Save writes a snapshot envelope to the artifact store.
func Save(ctx context.Context, store artifact.Store, name, kind string, state any, optFns ...func(o *Options)) error {
	opts := applyOptions(optFns)

	start := time.Now()

	err := save(ctx, store, name, kind, state, opts)

	opts.Metrics.RecordSnapshot(time.Since(start), err)
	opts.Logger.LogSnapshot(ctx, name, err)

	return err
}

func save(ctx context.Context, store artifact.Store, name, kind string, state any, opts Options) error {
	var buf bytes.Buffer
	if err := write(&buf, kind, state, opts); err != nil {
		return err
	}

	return store.Put(ctx, name, buf.Bytes())
}

// Load reads a snapshot envelope from the artifact store, decodes it into
// state and returns the recorded kind.
func Load(ctx context.Context, store artifact.Store, name string, state any, optFns ...func(o *Options)) (string, error) {
	opts := applyOptions(optFns)

	start := time.Now()

	kind, err := load(ctx, store, name, state)

	opts.Metrics.RecordSnapshot(time.Since(start), err)
	opts.Logger.LogSnapshot(ctx, name, err)

	return kind, err
}

func load(ctx context.Context, store artifact.Store, name string, state any) (string, error) {
	data, err := store.Open(ctx, name)
	if err != nil {
		return "", err
	}

	return Read(bytes.NewReader(data), state)
}

// Inspect reads only the envelope header of a stored snapshot.
func Inspect(ctx context.Context, store artifact.Store, name string) (*Info, error) {
	data, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	return readHeader(bytes.NewReader(data))
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("string too long for envelope: %d bytes", len(s))
	}

	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(len(s)))
	buf.Write(b[:])
	buf.WriteString(s)

	return nil
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func readString(r io.Reader) (string, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return "", err
	}

	buf := make([]byte, binary.LittleEndian.Uint16(b[:]))
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}

	return string(buf), nil
}
