// Package upload stores rendered frames in an S3 compatible bucket.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/taigrr/prism/internal/config"
)

var (
	ErrDisabled = errors.New("no upload bucket configured")
	ErrEmptyKey = errors.New("empty object key")
)

// S3Sink uploads PNG frames to a single bucket.
type S3Sink struct {
	client s3iface.S3API
	bucket string
}

// New opens a session for cfg. Path-style addressing is forced so
// self-hosted endpoints such as MinIO work.
func New(cfg config.S3Config) (*S3Sink, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}
	return NewWithClient(s3.New(sess), cfg.Bucket), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client s3iface.S3API, bucket string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket}
}

// Bucket returns the target bucket name.
func (s *S3Sink) Bucket() string { return s.bucket }

// Upload stores data under key as image/png.
func (s *S3Sink) Upload(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("image/png"),
	})
	if err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// Key builds an object key of the form prefix/name-YYYYMMDD-HHMMSS.png.
// Slashes in name are replaced so a scene name cannot escape the prefix.
func Key(prefix, name string, at time.Time) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "/", "_")
	if name == "" {
		name = "frame"
	}
	file := fmt.Sprintf("%s-%s.png", name, at.UTC().Format("20060102-150405"))
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return file
	}
	return path.Join(prefix, file)
}
