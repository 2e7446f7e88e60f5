// Package storage uploads profile pictures to an S3-compatible bucket
// (DigitalOcean Spaces in production).
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PhotoStore is the seam the user service depends on.
type PhotoStore interface {
	UploadProfilePicture(ctx context.Context, userID, contentType string, data []byte) (string, error)
	DeleteProfilePicture(ctx context.Context, userID string) error
}

// Disabled rejects uploads; wired in when object storage is not configured.
type Disabled struct{}

func (Disabled) UploadProfilePicture(ctx context.Context, userID, contentType string, data []byte) (string, error) {
	return "", errors.New("object storage is not configured")
}

func (Disabled) DeleteProfilePicture(ctx context.Context, userID string) error { return nil }

type SpacesStore struct {
	client *s3.Client
	bucket string
	region string
}

func NewSpaces(key, secret, region, bucket, endpoint string) (*SpacesStore, error) {
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.digitaloceanspaces.com", region)
	}
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{URL: endpoint}, nil
	})
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("load spaces config: %w", err)
	}
	return &SpacesStore{client: s3.NewFromConfig(cfg), bucket: bucket, region: region}, nil
}

func (s *SpacesStore) key(userID string) string {
	return fmt.Sprintf("fetchquest_profiles/%s_profile", userID)
}

// UploadProfilePicture overwrites any previous picture for the user and
// returns the public URL.
func (s *SpacesStore) UploadProfilePicture(ctx context.Context, userID, contentType string, data []byte) (string, error) {
	k := s.key(userID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &k,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
		ACL:         "public-read",
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", k, err)
	}
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, k), nil
}

func (s *SpacesStore) DeleteProfilePicture(ctx context.Context, userID string) error {
	k := s.key(userID)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &k,
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", k, err)
	}
	return nil
}
