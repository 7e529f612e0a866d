package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
)

// S3API is the subset of the S3 client used by Archive.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds a client from static credentials. A custom endpoint
// switches to path-style addressing for MinIO and LocalStack.
func NewS3Client(cfg config.ExportConfig) *s3.Client {
	opts := s3.Options{
		Region: cfg.Region,
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

// Archive keeps copies of generated exports in a bucket. With no bucket
// configured every call is a no-op.
type Archive struct {
	client S3API
	bucket string
	prefix string
	log    *logrus.Logger
}

func NewArchive(client S3API, bucket, prefix string, log *logrus.Logger) *Archive {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Archive{client: client, bucket: bucket, prefix: prefix, log: log}
}

func (a *Archive) Enabled() bool {
	return a != nil && a.bucket != "" && a.client != nil
}

// Put uploads data under prefix+name and returns the object key.
func (a *Archive) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if !a.Enabled() {
		return "", nil
	}

	key := strings.TrimLeft(a.prefix+name, "/")
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: s3 put %s: %w", key, err)
	}

	a.log.WithFields(logrus.Fields{"bucket": a.bucket, "key": key, "bytes": len(data)}).Info("export archived")
	return key, nil
}
