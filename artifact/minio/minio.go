// Package minio provides an artifact.Store implementation using the MinIO client.
//
// MinIO is a high-performance, S3-compatible object storage system. This package
// uses the official MinIO Go client library for optimal compatibility with MinIO
// and other S3-compatible storage systems like Ceph, SeaweedFS, and Garage.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//
//	store := miniostore.NewStore(client, "feature-models", "models/")
package minio

import (
	"bytes"
	"context"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/hupe1980/featgo/artifact"
	"github.com/minio/minio-go/v7"
)

// Store implements artifact.Store for MinIO and S3-compatible storage.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore creates a new MinIO artifact store.
// bucket is the MinIO bucket name.
// rootPrefix is prepended to all keys (e.g. "models/").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Put writes an artifact atomically.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	key := s.key(name)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})

	return err
}

// Open reads the full content of an artifact.
func (s *Store) Open(ctx context.Context, name string) ([]byte, error) {
	key := s.key(name)

	// Stat first so a missing key surfaces as ErrNotFound instead of a
	// deferred read error.
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, artifact.ErrNotFound
		}
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = obj.Close() }()

	data := make([]byte, info.Size)
	if _, err := io.ReadFull(obj, data); err != nil {
		return nil, err
	}

	return data, nil
}

// List returns all artifact names with the given prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	fullPrefix := s.key(prefix)

	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    fullPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		// Strip our root prefix
		name := strings.TrimPrefix(obj.Key, s.prefix)
		name = strings.TrimPrefix(name, "/")
		if name != "" {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names, nil
}

// Delete removes an artifact.
func (s *Store) Delete(ctx context.Context, name string) error {
	key := s.key(name)

	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil // Already gone
		}
		return err
	}

	return nil
}
