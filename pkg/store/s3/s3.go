// Package s3 implements an S3-backed ServerStore.
//
// Each server is persisted as one JSON object under a configurable key
// prefix, mirroring the file backend's one-record-per-server layout. S3
// PUTs are atomic per object, so the port's snapshot guarantee holds
// without a temp-and-rename dance: a concurrent GET observes either the
// previous object version or the new one.
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/vaporstack/vapor/pkg/compute"
	"github.com/vaporstack/vapor/pkg/store"
)

// Config contains configuration for the S3 store.
type Config struct {
	// Client is the configured S3 client (required).
	Client *s3.Client

	// Bucket is the bucket name (required). The bucket must already
	// exist; the store does not create it.
	Bucket string

	// KeyPrefix is an optional prefix for all object keys.
	// Example: "vapor/servers/" results in keys like
	// "vapor/servers/5e0cf0e4-....json".
	KeyPrefix string
}

// Store implements store.ServerStore on top of an S3-compatible service.
type Store struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
}

// New creates an S3-backed store and verifies bucket access with a
// HeadBucket call, so misconfiguration surfaces at startup rather than on
// the first request.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cfg.Client == nil {
		return nil, fmt.Errorf("s3 store: client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 store: bucket is required")
	}

	if _, err := cfg.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	}); err != nil {
		return nil, &store.StoreError{Op: "init", Err: fmt.Errorf("failed to access bucket %q: %w", cfg.Bucket, err)}
	}

	return &Store{
		client:    cfg.Client,
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

// objectKey returns the object key for a server id.
func (s *Store) objectKey(id uuid.UUID) string {
	return s.keyPrefix + id.String() + ".json"
}

// Save uploads the complete server record, replacing any existing object.
func (s *Store) Save(ctx context.Context, server *compute.Server) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(server)
	if err != nil {
		return &store.StoreError{Op: "save", ServerID: server.ID, Err: fmt.Errorf("failed to encode server: %w", err)}
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(server.ID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return &store.StoreError{Op: "save", ServerID: server.ID, Err: fmt.Errorf("failed to upload record: %w", err)}
	}

	return nil
}

// ListAll lists every object under the key prefix and decodes each record.
//
// Fail-fast like the other backends: one unreadable object fails the call.
func (s *Store) ListAll(ctx context.Context) ([]*compute.Server, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	servers := []*compute.Server{}

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.keyPrefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &store.StoreError{Op: "list", Err: fmt.Errorf("failed to list objects: %w", err)}
		}

		for _, obj := range page.Contents {
			server, err := s.getRecord(ctx, aws.ToString(obj.Key))
			if err != nil {
				return nil, &store.StoreError{Op: "list", Err: fmt.Errorf("object %s: %w", aws.ToString(obj.Key), err)}
			}
			servers = append(servers, server)
		}
	}

	return servers, nil
}

// FindByID fetches and decodes the object for id.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*compute.Server, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	server, err := s.getRecord(ctx, s.objectKey(id))
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("server %s: %w", id, store.ErrServerNotFound)
		}
		return nil, &store.StoreError{Op: "find", ServerID: id, Err: err}
	}

	return server, nil
}

// getRecord downloads and decodes a single server object.
func (s *Store) getRecord(ctx context.Context, key string) (*compute.Server, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	var server compute.Server
	if err := json.Unmarshal(data, &server); err != nil {
		return nil, fmt.Errorf("failed to decode server record: %w", err)
	}
	if !server.Status.Valid() {
		return nil, fmt.Errorf("invalid server status %q", server.Status)
	}

	return &server, nil
}
