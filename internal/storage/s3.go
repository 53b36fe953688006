package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SnapshotStoreConfig holds configuration for SnapshotStore
type SnapshotStoreConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UsePathStyle    bool
}

// SnapshotStore archives raw fetched page content in S3-compatible
// storage (e.g., RustFS) so imports can be audited or replayed.
type SnapshotStore struct {
	client *s3.Client
	bucket string
}

// NewSnapshotStore creates a new SnapshotStore with the given configuration
func NewSnapshotStore(ctx context.Context, cfg SnapshotStoreConfig) (*SnapshotStore, error) {
	// Create custom resolver for S3-compatible endpoints
	customResolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if cfg.Endpoint != "" {
				return aws.Endpoint{
					URL:               cfg.Endpoint,
					HostnameImmutable: true,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		},
	)

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		config.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Path-style addressing for S3-compatible services
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &SnapshotStore{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// SnapshotKey returns the object key for a page snapshot. Page URLs are
// hashed so arbitrary URLs map to valid keys.
func SnapshotKey(sourceID, pageURL string) string {
	sum := sha256.Sum256([]byte(pageURL))
	return fmt.Sprintf("snapshots/%s/%s.html", sourceID, hex.EncodeToString(sum[:16]))
}

// Archive stores the raw bytes fetched for a page.
func (s *SnapshotStore) Archive(ctx context.Context, sourceID, pageURL string, content []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(SnapshotKey(sourceID, pageURL)),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("text/html"),
		Metadata: map[string]string{
			"page-url": pageURL,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// Get retrieves a previously archived snapshot.
func (s *SnapshotStore) Get(ctx context.Context, sourceID, pageURL string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(SnapshotKey(sourceID, pageURL)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return content, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *SnapshotStore) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil // Bucket exists
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}
