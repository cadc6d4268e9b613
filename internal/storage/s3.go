package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

const s3Prefix = "sauces/images/"

// S3Store keeps images in an S3 bucket.
type S3Store struct {
	client     s3iface.S3API
	bucketName string
	region     string
}

// NewS3Store builds a store with static credentials. Empty keys fall back to
// the SDK's default credential chain.
func NewS3Store(region, bucketName, accessKey, secretKey string) (*S3Store, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if accessKey != "" || secretKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return NewS3StoreWithClient(s3.New(sess), region, bucketName), nil
}

// NewS3StoreWithClient wraps an existing client.
func NewS3StoreWithClient(client s3iface.S3API, region, bucketName string) *S3Store {
	return &S3Store{client: client, bucketName: bucketName, region: region}
}

func (s *S3Store) Put(ctx context.Context, obj Object) (string, error) {
	key := newKey(obj.ContentType)

	body, ok := obj.Body.(io.ReadSeeker)
	if !ok {
		buf, err := io.ReadAll(obj.Body)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucketName),
		Key:          aws.String(s3Prefix + key),
		Body:         body,
		ContentType:  aws.String(obj.ContentType),
		CacheControl: aws.String("max-age=31536000"), // 1 year cache
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return key, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil // Nothing to delete
	}
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s3Prefix + key),
	})
	return err
}

// URL ignores origin: objects are served straight from the bucket.
func (s *S3Store) URL(_, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s%s", s.bucketName, s.region, s3Prefix, key)
}
