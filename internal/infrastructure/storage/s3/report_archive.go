package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds S3 archive settings.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional override for S3-compatible storage
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// ReportArchive implements port.ReportArchive on S3-compatible object
// storage: one plain-text object per run, keyed by host and date.
type ReportArchive struct {
	client *s3.Client
	bucket string
}

// NewReportArchive creates the archive client.
func NewReportArchive(ctx context.Context, cfg Config) (*ReportArchive, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = "eu-west-1"
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if cfg.Endpoint != "" {
			options.BaseEndpoint = &cfg.Endpoint
		}
		options.UsePathStyle = cfg.UsePathStyle
	})

	return &ReportArchive{
		client: client,
		bucket: strings.TrimSpace(cfg.Bucket),
	}, nil
}

// Store uploads the raw report under the given key and returns its
// s3:// location.
func (a *ReportArchive) Store(ctx context.Context, key string, body []byte) (string, error) {
	key = strings.TrimPrefix(key, "/")
	contentType := "text/plain; charset=utf-8"

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &a.bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report to s3: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}
