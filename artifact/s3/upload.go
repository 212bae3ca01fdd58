package s3

import (
	"encoding/base64"
	"hash/crc32"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
)

// UploadConfig configures the S3 uploader.
type UploadConfig struct {
	// PartSize is the minimum part size for multipart uploads.
	// Default: 8MB (larger than SDK default of 5MB for better throughput)
	PartSize int64

	// Concurrency is the number of concurrent part uploads.
	// Default: 5 (matches SDK default)
	Concurrency int

	// EnableChecksum enables CRC32C integrity validation.
	// Recommended for production workloads.
	// Default: true
	EnableChecksum bool

	// LeavePartsOnError controls whether failed multipart uploads
	// are automatically aborted.
	// Default: false (abort on error)
	LeavePartsOnError bool
}

// DefaultUploadConfig returns production-oriented upload settings.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		PartSize:          8 * 1024 * 1024,
		Concurrency:       5,
		EnableChecksum:    true,
		LeavePartsOnError: false,
	}
}

// newUploader creates a configured S3 uploader.
func newUploader(client Client, cfg UploadConfig) *manager.Uploader {
	return manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = cfg.PartSize
		u.Concurrency = cfg.Concurrency
		u.LeavePartsOnError = cfg.LeavePartsOnError
	})
}

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// computeCRC32C computes the CRC32C checksum and returns it as base64 (S3 format).
func computeCRC32C(data []byte) string {
	sum := crc32.Checksum(data, castagnoli)
	// S3 expects base64-encoded big-endian bytes
	b := []byte{byte(sum >> 24), byte(sum >> 16), byte(sum >> 8), byte(sum)}
	return base64.StdEncoding.EncodeToString(b)
}
