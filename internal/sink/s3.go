package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"seriesgen/internal/config"
)

// PutObjectAPI is the subset of the S3 client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader publishes generated files to a bucket under a fixed key prefix.
type S3Uploader struct {
	client  PutObjectAPI
	bucket  string
	prefix  string
	timeout time.Duration
	log     *zap.Logger
}

const uploadTimeout = 2 * time.Minute

// NewS3Uploader builds an uploader from configuration. Static credentials are
// used when both keys are set, otherwise the default AWS chain applies.
func NewS3Uploader(ctx context.Context, cfg config.S3Config, log *zap.Logger) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})
	return NewS3UploaderWithClient(client, cfg.Bucket, cfg.Prefix, log), nil
}

func NewS3UploaderWithClient(client PutObjectAPI, bucket, prefix string, log *zap.Logger) *S3Uploader {
	if log == nil {
		log = zap.NewNop()
	}
	return &S3Uploader{
		client:  client,
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		timeout: uploadTimeout,
		log:     log,
	}
}

// Key joins the configured prefix and name with forward slashes.
func (u *S3Uploader) Key(name string) string {
	if u.prefix == "" {
		return name
	}
	return path.Join(u.prefix, name)
}

// Upload writes body to Key(name) and returns the full object key.
func (u *S3Uploader) Upload(ctx context.Context, name, contentType string, body []byte) (string, error) {
	key := u.Key(name)
	in := &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	if _, err := u.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("upload s3://%s/%s: %w", u.bucket, key, err)
	}
	u.log.Info("uploaded generated file",
		zap.String("bucket", u.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(body)))
	return key, nil
}
