package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mitchellh/mapstructure"
	"github.com/vaporstack/vapor/internal/logger"
	"github.com/vaporstack/vapor/pkg/store"
	badgerStore "github.com/vaporstack/vapor/pkg/store/badger"
	fileStore "github.com/vaporstack/vapor/pkg/store/file"
	memoryStore "github.com/vaporstack/vapor/pkg/store/memory"
	s3Store "github.com/vaporstack/vapor/pkg/store/s3"
)

// CreateServerStore creates the persistence backend selected by the
// configuration.
//
// This factory uses cfg.Store.Type to pick the implementation and decodes
// the matching option map into the backend's typed options. The caller
// receives the port interface only; nothing outside this function knows
// which backend is running.
//
// Parameters:
//   - ctx: Context for backend initialization (badger opens a database,
//     s3 verifies bucket access)
//   - cfg: Complete validated configuration
//
// Returns:
//   - store.ServerStore: Initialized backend
//   - error: Unknown type, missing required options, or backend failure
func CreateServerStore(ctx context.Context, cfg *Config) (store.ServerStore, error) {
	logger.Debug("Creating server store (type: %s)", cfg.Store.Type)

	switch cfg.Store.Type {
	case "file":
		return createFileStore(ctx, cfg.Store.File)
	case "memory":
		return memoryStore.New(), nil
	case "badger":
		return createBadgerStore(ctx, cfg.Store.Badger)
	case "s3":
		return createS3Store(ctx, cfg.Store.S3)
	default:
		return nil, fmt.Errorf("unknown store type: %q (supported: file, memory, badger, s3)", cfg.Store.Type)
	}
}

// createFileStore creates the filesystem-backed store.
func createFileStore(ctx context.Context, options map[string]any) (store.ServerStore, error) {
	type FileStoreOptions struct {
		Directory string `mapstructure:"directory"`
	}

	var opts FileStoreOptions
	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, fmt.Errorf("failed to decode file store options: %w", err)
	}

	if opts.Directory == "" {
		return nil, fmt.Errorf("file store: directory is required")
	}

	return fileStore.New(ctx, opts.Directory)
}

// createBadgerStore creates the BadgerDB-backed store.
func createBadgerStore(ctx context.Context, options map[string]any) (store.ServerStore, error) {
	type BadgerStoreOptions struct {
		DBPath   string `mapstructure:"db_path"`
		InMemory bool   `mapstructure:"in_memory"`
	}

	var opts BadgerStoreOptions
	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, fmt.Errorf("failed to decode badger store options: %w", err)
	}

	if opts.DBPath == "" && !opts.InMemory {
		return nil, fmt.Errorf("badger store: db_path is required")
	}

	return badgerStore.New(ctx, badgerStore.Config{
		DBPath:   opts.DBPath,
		InMemory: opts.InMemory,
	})
}

// createS3Store creates the S3-backed store, building the AWS client from
// the option map.
func createS3Store(ctx context.Context, options map[string]any) (store.ServerStore, error) {
	type S3StoreOptions struct {
		Bucket          string `mapstructure:"bucket"`
		Region          string `mapstructure:"region"`
		KeyPrefix       string `mapstructure:"key_prefix"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
	}

	var opts S3StoreOptions
	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, fmt.Errorf("failed to decode s3 store options: %w", err)
	}

	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 store: bucket is required")
	}
	if opts.Region == "" {
		return nil, fmt.Errorf("s3 store: region is required")
	}

	loadOpts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(opts.Region),
	}

	// Static credentials are optional; without them the default chain
	// (env, shared config, instance role) applies.
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			// Custom endpoints (Localstack, MinIO) need path-style
			// addressing: bucket-in-host DNS does not resolve there.
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return s3Store.New(ctx, s3Store.Config{
		Client:    client,
		Bucket:    opts.Bucket,
		KeyPrefix: opts.KeyPrefix,
	})
}
