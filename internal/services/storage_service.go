// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/luxeshop/luxe-backend/internal/config"
)

// ObjectStore persists uploaded bytes and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// StorageService writes to S3 when AWS credentials are configured and to a
// local directory otherwise.
type StorageService struct {
	s3Client s3iface.S3API
	config   *config.Config
}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if config.AWS.AccessKeyID == "" {
		logrus.WithField("dir", config.Upload.LocalDir).Info("AWS not configured, storing uploads on local disk")
		return &StorageService{config: config}, nil
	}

	// Create AWS session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// NewS3StorageService wraps an existing S3 client.
func NewS3StorageService(client s3iface.S3API, config *config.Config) *StorageService {
	return &StorageService{s3Client: client, config: config}
}

func (s *StorageService) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if s.s3Client != nil {
		return s.putS3(ctx, key, contentType, body)
	}
	return s.putLocal(key, body)
}

func (s *StorageService) putS3(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s.getS3URL(key), nil
}

func (s *StorageService) putLocal(key string, body []byte) (string, error) {
	path := filepath.Join(s.config.Upload.LocalDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return strings.TrimRight(s.config.Upload.PublicPrefix, "/") + "/" + key, nil
}

// GenerateObjectKey builds folder/YYYYMMDD_<id><ext>.
func GenerateObjectKey(folder, ext string) string {
	timestamp := time.Now().UTC().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, uuid.NewString(), ext)

	if folder != "" {
		return folder + "/" + filename
	}
	return filename
}

func (s *StorageService) getS3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.AWS.CloudFrontURL, "/"), key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}
