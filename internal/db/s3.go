package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Методы клиента S3, которые нужны бэкенду
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Backend хранит документ одним объектом bucket/key.
type S3Backend struct {
	client S3API
	bucket string
	key    string
}

func NewS3Backend(ctx context.Context, bucket, key string) (*S3Backend, error) {
	if bucket == "" {
		return nil, errors.New("s3 backend: empty bucket")
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3BackendWithClient(s3.NewFromConfig(cfg), bucket, key), nil
}

func NewS3BackendWithClient(client S3API, bucket, key string) *S3Backend {
	if key == "" {
		key = "blog_posts.json"
	}
	return &S3Backend{client: client, bucket: bucket, key: key}
}

func isNotFoundError(err error) bool {
	var noKey *types.NoSuchKey
	return err != nil && errors.As(err, &noKey)
}

func (b *S3Backend) Read(ctx context.Context) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", b.bucket, b.key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", b.bucket, b.key, err)
	}
	return body, nil
}

func (b *S3Backend) Write(ctx context.Context, data []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(b.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", b.bucket, b.key, err)
	}
	return nil
}

func (b *S3Backend) Close() error {
	return nil
}
