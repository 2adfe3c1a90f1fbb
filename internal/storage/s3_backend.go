package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"treats/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	json "github.com/goccy/go-json"
)

const s3OperationTimeout = 10 * time.Second

type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// S3Backend keeps the snapshot as a single object.
type S3Backend struct {
	client s3API
	bucket string
	key    string
}

type S3Options struct {
	Bucket   string
	Key      string
	Region   string
	Endpoint string
}

func NewS3Backend(ctx context.Context, opts S3Options) (*S3Backend, error) {
	if opts.Bucket == "" || opts.Key == "" {
		return nil, ErrInvalidDSN
	}
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3BackendWithClient(client, opts.Bucket, opts.Key), nil
}

func newS3BackendWithClient(client s3API, bucket, key string) *S3Backend {
	return &S3Backend{client: client, bucket: bucket, key: key}
}

func (b *S3Backend) Load() (*models.Snapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s3OperationTimeout)
	defer cancel()

	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return models.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("s3 get %s/%s: %w", b.bucket, b.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s/%s: %w", b.bucket, b.key, err)
	}
	snapshot := models.NewSnapshot()
	if err := json.Unmarshal(data, snapshot); err != nil {
		return nil, fmt.Errorf("s3 decode %s/%s: %w", b.bucket, b.key, err)
	}
	return snapshot.Normalize(), nil
}

func (b *S3Backend) Save(snapshot *models.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), s3OperationTimeout)
	defer cancel()

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(b.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s/%s: %w", b.bucket, b.key, err)
	}
	return nil
}

func (b *S3Backend) Close() error {
	return nil
}
