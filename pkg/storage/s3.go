package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/JaimeStill/campus/pkg/lifecycle"
)

type s3Backend struct {
	client   *s3.Client
	bucket   string
	acl      types.ObjectCannedACL
	endpoint string
	logger   *slog.Logger
}

// newS3 builds the client from static credentials when provided, falling back
// to the default AWS credential chain. A custom endpoint switches to
// path-style addressing for S3-compatible services.
func newS3(cfg *Config, logger *slog.Logger) (*s3Backend, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Backend{
		client:   client,
		bucket:   cfg.Bucket,
		acl:      types.ObjectCannedACL(cfg.ObjectACL),
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		logger:   logger.With("provider", ProviderS3),
	}, nil
}

func (b *s3Backend) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() error {
		_, err := b.client.HeadBucket(lc.Context(), &s3.HeadBucketInput{
			Bucket: aws.String(b.bucket),
		})
		if err != nil {
			b.logger.Error("bucket check failed", "bucket", b.bucket, "error", err)
			return fmt.Errorf("head bucket %s: %w", b.bucket, err)
		}

		b.logger.Info("storage bucket ready", "bucket", b.bucket)
		return nil
	})
	return nil
}

func (b *s3Backend) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   body,
		ACL:    b.acl,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := b.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (b *s3Backend) Get(ctx context.Context, key string) (*Object, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}

	return &Object{
		Body:          out.Body,
		ContentType:   aws.ToString(out.ContentType),
		ContentLength: aws.ToInt64(out.ContentLength),
	}, nil
}

// BaseURL is the virtual-hosted bucket host, or the path-style bucket URL
// when a custom endpoint is configured.
func (b *s3Backend) BaseURL() string {
	if b.endpoint != "" {
		return b.endpoint + "/" + b.bucket
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com", b.bucket)
}

func isS3NotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
