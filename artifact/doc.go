// Package artifact provides storage abstraction for featgo's persisted
// transformer snapshots.
//
// Store is the interface for reading and writing immutable artifacts
// (snapshots, pipeline manifests). Implementations must be safe for
// concurrent use.
//
// # Built-in Implementations
//
//   - Memory: In-memory store for tests and ephemeral pipelines
//   - Local: Local filesystem with atomic writes
//   - s3.Store: Amazon S3 with managed multipart uploads
//   - minio.Store: MinIO and other S3-compatible object storage
//   - dynamo.Registry: DynamoDB-backed version registry for safe concurrent publishing
//
// # Custom Implementations
//
// Implement the Store interface to support custom storage backends:
//
//	type Store interface {
//	    Put(ctx, name, data) error         // Atomic write
//	    Open(ctx, name) ([]byte, error)    // Full read
//	    List(ctx, prefix) ([]string, error)
//	    Delete(ctx, name) error
//	}
package artifact
