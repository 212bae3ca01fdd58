// Package dynamo provides a DynamoDB-backed version registry for published
// transformer snapshots.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/featgo/artifact"
)

// Registry tracks published snapshot versions in DynamoDB. Snapshot bytes
// live in an artifact.Store (S3, MinIO, local disk); the registry records
// which artifact key is the current version of a model.
//
// DynamoDB conditional writes provide the compare-and-swap semantics object
// stores lack, so multiple publishers can safely race: exactly one wins a
// version number, the rest get ErrConcurrentModification and can retry.
//
// Table schema:
//   - Partition key: model (string) - the model name
//   - Sort key: version (number) - monotonically increasing version
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name featgo-models \
//	  --attribute-definitions AttributeName=model,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=model,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type Registry struct {
	client    Client
	tableName string
}

// Client is the interface for DynamoDB operations.
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// ErrConcurrentModification is returned when a concurrent publish is detected.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// Version is one published snapshot of a model.
type Version struct {
	Model       string
	Version     uint64
	ArtifactKey string
	PublishedAt time.Time
}

// NewRegistry creates a registry backed by the given DynamoDB table.
func NewRegistry(client Client, tableName string) *Registry {
	return &Registry{
		client:    client,
		tableName: tableName,
	}
}

// Publish records a new version pointing at artifactKey and returns the
// version number it won. Returns ErrConcurrentModification if another
// publisher claimed the same version first.
func (r *Registry) Publish(ctx context.Context, model, artifactKey string) (uint64, error) {
	latest, err := r.latest(ctx, model)
	if err != nil && !errors.Is(err, artifact.ErrNotFound) {
		return 0, err
	}

	newVersion := latest.Version + 1

	// Conditional put: only succeed if this version doesn't exist yet
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item: map[string]types.AttributeValue{
			"model":        &types.AttributeValueMemberS{Value: model},
			"version":      &types.AttributeValueMemberN{Value: strconv.FormatUint(newVersion, 10)},
			"artifact_key": &types.AttributeValueMemberS{Value: artifactKey},
			"published_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(time.Now().Unix(), 10)},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return 0, ErrConcurrentModification
		}
		return 0, fmt.Errorf("failed to publish version: %w", err)
	}

	return newVersion, nil
}

// Latest returns the newest published version of a model.
// Returns artifact.ErrNotFound if the model has never been published.
func (r *Registry) Latest(ctx context.Context, model string) (Version, error) {
	return r.latest(ctx, model)
}

func (r *Registry) latest(ctx context.Context, model string) (Version, error) {
	resp, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("model = :model"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":model": &types.AttributeValueMemberS{Value: model},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return Version{}, fmt.Errorf("failed to query registry: %w", err)
	}

	if len(resp.Items) == 0 {
		return Version{}, artifact.ErrNotFound
	}

	return parseItem(model, resp.Items[0])
}

// Get returns a specific published version of a model.
func (r *Registry) Get(ctx context.Context, model string, version uint64) (Version, error) {
	resp, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"model":   &types.AttributeValueMemberS{Value: model},
			"version": &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
		},
	})
	if err != nil {
		return Version{}, fmt.Errorf("failed to get version: %w", err)
	}

	if resp.Item == nil {
		return Version{}, artifact.ErrNotFound
	}

	return parseItem(model, resp.Item)
}

// Unpublish removes a version record. The snapshot artifact itself is not
// touched.
func (r *Registry) Unpublish(ctx context.Context, model string, version uint64) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"model":   &types.AttributeValueMemberS{Value: model},
			"version": &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
		},
	})

	return err
}

func parseItem(model string, item map[string]types.AttributeValue) (Version, error) {
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return Version{}, errors.New("invalid version attribute in registry item")
	}

	keyAttr, ok := item["artifact_key"].(*types.AttributeValueMemberS)
	if !ok {
		return Version{}, errors.New("invalid artifact_key attribute in registry item")
	}

	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return Version{}, fmt.Errorf("failed to parse version: %w", err)
	}

	v := Version{
		Model:       model,
		Version:     version,
		ArtifactKey: keyAttr.Value,
	}

	if tsAttr, ok := item["published_at"].(*types.AttributeValueMemberN); ok {
		if ts, err := strconv.ParseInt(tsAttr.Value, 10, 64); err == nil {
			v.PublishedAt = time.Unix(ts, 0).UTC()
		}
	}

	return v, nil
}
