package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ignite/studio-insights/internal/pkg/logger"
)

// S3Archive optionally copies generated reports to an S3 bucket so they
// outlive the in-memory dashboard session. This is an archive of rendered
// artifacts only; processed dashboards themselves are never persisted.
type S3Archive struct {
	client *s3.Client
	bucket string
	prefix string
}

// S3ArchiveConfig configures the report archive.
type S3ArchiveConfig struct {
	Bucket  string
	Prefix  string
	Region  string
	Profile string // empty means the default credential chain
}

// NewS3Archive builds the archive client. Bucket reachability is checked up
// front but only logged: an unreachable archive degrades to "no archive",
// it never blocks report generation.
func NewS3Archive(ctx context.Context, cfg S3ArchiveConfig) (*S3Archive, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	a := &S3Archive{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}

	if _, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
		logger.Warn("report archive bucket check failed", "bucket", cfg.Bucket, "error", err)
	}
	return a, nil
}

// Store uploads one rendered artifact under a timestamped key and returns
// the key.
func (a *S3Archive) Store(ctx context.Context, dashboardID, ext, contentType string, data []byte) (string, error) {
	key := fmt.Sprintf("%s%s/%s.%s", a.prefix, time.Now().UTC().Format("2006/01/02"), dashboardID, ext)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("archive report: %w", err)
	}

	logger.Info("report archived", "bucket", a.bucket, "key", key, "bytes", len(data))
	return key, nil
}
