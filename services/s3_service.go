package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/config"
)

// PresignExpiry is how long image URLs handed to reviewers stay valid
const PresignExpiry = time.Hour

// S3Interface defines the interface for S3 operations
type S3Interface interface {
	PutObject(ctx context.Context, key string, content []byte, contentType string) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	GetPresignedURL(ctx context.Context, key string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

// S3Service handles all S3-related operations
type S3Service struct {
	client *s3.Client
	bucket string
}

// NewS3Service creates an S3 client from the application configuration.
// AWS_S3_ENDPOINT points the client at an S3-compatible store such as MinIO.
func NewS3Service(ctx context.Context, cfg *appConfig.Config) (*S3Service, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.AWSS3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSS3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Service{
		client: client,
		bucket: cfg.AWSS3Bucket,
	}, nil
}

// PutObject uploads content under key
func (s *S3Service) PutObject(ctx context.Context, key string, content []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

// GetObject downloads the object stored under key
func (s *S3Service) GetObject(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s from S3: %w", key, err)
	}
	defer func() {
		if closeErr := out.Body.Close(); closeErr != nil {
			log.Printf("warning: failed to close S3 body: %v", closeErr)
		}
	}()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from S3: %w", key, err)
	}
	return content, nil
}

// GetPresignedURL generates a presigned URL for accessing a private S3 object
func (s *S3Service) GetPresignedURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	presignClient := s3.NewPresignClient(s.client)
	request, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = PresignExpiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}

// DeleteFile deletes a file from S3
func (s *S3Service) DeleteFile(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}
