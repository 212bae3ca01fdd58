package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/featgo/artifact"
)

// Client is the subset of the S3 API used by the store. *s3.Client satisfies
// it; tests can substitute a mock.
type Client interface {
	manager.UploadAPIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Store implements artifact.Store for S3.
type Store struct {
	client   Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
	upload   UploadConfig
}

// Options contains options for New.
type Options struct {
	// Prefix is prepended to all keys (e.g. "models/").
	Prefix string

	// Region overrides the region from the default config chain.
	Region string

	// Upload configures the managed uploader.
	Upload UploadConfig
}

// WithPrefix sets the root prefix for all keys.
func WithPrefix(prefix string) func(o *Options) {
	return func(o *Options) {
		o.Prefix = prefix
	}
}

// WithRegion sets the AWS region.
func WithRegion(region string) func(o *Options) {
	return func(o *Options) {
		o.Region = region
	}
}

// New creates an S3 artifact store using the default AWS config chain
// (environment, shared config, IAM role).
func New(ctx context.Context, bucket string, optFns ...func(o *Options)) (*Store, error) {
	opts := Options{Upload: DefaultUploadConfig()}

	for _, fn := range optFns {
		fn(&opts)
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg)

	return &Store{
		client:   client,
		uploader: newUploader(client, opts.Upload),
		bucket:   bucket,
		prefix:   opts.Prefix,
		upload:   opts.Upload,
	}, nil
}

// NewStore creates a new S3 artifact store from an existing client.
// rootPrefix is prepended to all keys (e.g. "models/").
func NewStore(client Client, bucket, rootPrefix string) *Store {
	cfg := DefaultUploadConfig()

	return &Store{
		client:   client,
		uploader: newUploader(client, cfg),
		bucket:   bucket,
		prefix:   rootPrefix,
		upload:   cfg,
	}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Put writes an artifact. Large payloads go through the managed multipart
// uploader.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
		Body:   bytes.NewReader(data),
	}

	if s.upload.EnableChecksum {
		if int64(len(data)) < s.upload.PartSize {
			// Single-part uploads carry a precomputed checksum.
			input.ChecksumCRC32C = aws.String(computeCRC32C(data))
		} else {
			input.ChecksumAlgorithm = types.ChecksumAlgorithmCrc32c
		}
	}

	_, err := s.uploader.Upload(ctx, input)

	return err
}

// Open reads the full content of an artifact.
func (s *Store) Open(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, artifact.ErrNotFound
		}
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, artifact.ErrNotFound
		}
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	return io.ReadAll(resp.Body)
}

// List returns all artifact names with the given prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	fullPrefix := s.key(prefix)

	var keys []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(fullPrefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			relPath := *obj.Key
			if len(s.prefix) > 0 {
				if len(relPath) > len(s.prefix) && relPath[:len(s.prefix)] == s.prefix {
					relPath = relPath[len(s.prefix):]
					if len(relPath) > 0 && relPath[0] == '/' {
						relPath = relPath[1:]
					}
				}
			}
			keys = append(keys, relPath)
		}
	}
	sort.Strings(keys)

	return keys, nil
}

// Delete removes an artifact. S3 deletes are idempotent.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})

	return err
}

// Stat returns the size of an artifact without downloading it.
func (s *Store) Stat(ctx context.Context, name string) (int64, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return 0, artifact.ErrNotFound
		}
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return 0, artifact.ErrNotFound
		}
		return 0, err
	}

	return aws.ToInt64(head.ContentLength), nil
}
