// Package s3 provides an S3 implementation of the artifact.Store interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("models/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	err = snapshot.Save(ctx, store, "fare/v1", "encode", state)
//
// # Features
//
//   - Managed multipart uploads for large snapshots
//   - CRC32C integrity validation
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
