package archive

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/vangotest/internal/config"
)

// Open builds the Store selected by cfg. The s3 backend resolves
// credentials through the SDK's default chain: environment, shared
// config and credentials files, SSO and instance metadata.
func Open(ctx context.Context, cfg config.ArchiveConfig) (Store, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendDisk:
		dir := cfg.Dir
		if dir == "" {
			dir = config.DefaultArchiveDir
		}
		return NewDiskStore(dir)
	case config.BackendS3:
		client, err := newS3Client(ctx, cfg.Region)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, cfg.Bucket, cfg.Prefix), nil
	case config.BackendSQLite:
		return OpenSQLite(cfg.DSN)
	default:
		return nil, fmt.Errorf("archive: unknown backend %q", cfg.Backend)
	}
}

func newS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("archive: load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}
