package output

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

const s3Scheme = "s3://"

// S3Config holds the connection settings for an S3 compatible store
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// S3Uploader puts rendered images into buckets
type S3Uploader struct {
	client s3iface.S3API
}

// NewS3Uploader creates an uploader using static credentials and path-style
// addressing. An empty endpoint uses the AWS default for the region.
func NewS3Uploader(cfg S3Config) (*S3Uploader, error) {
	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return &S3Uploader{client: s3.New(sess)}, nil
}

// Upload stores data under bucket/key
func (u *S3Uploader) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// ParseS3URL splits an s3://bucket/key destination. ok is false for anything
// that is not an S3 URL.
func ParseS3URL(dest string) (bucket, key string, ok bool, err error) {
	if !strings.HasPrefix(dest, s3Scheme) {
		return "", "", false, nil
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(dest, s3Scheme), "/")
	if bucket == "" || key == "" {
		return "", "", true, fmt.Errorf("invalid S3 destination %q: expected s3://bucket/key", dest)
	}
	return bucket, key, true, nil
}
