package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"voice-recap/internal/app/config"
)

// StorageService archives uploaded audio so a recap can be traced back
// to the bytes it was generated from.
type StorageService interface {
	StoreAudio(ctx context.Context, filename string, contentType string, data []byte) (*StoredAudio, error)
	GetFileURL(key string) string
	DeleteAudio(ctx context.Context, key string) error
}

// StoredAudio describes an archived upload
type StoredAudio struct {
	URL        string    `json:"url"`
	Key        string    `json:"key"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// MinioStorageService implements StorageService using MinIO
type MinioStorageService struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

// NewMinioStorageService creates a MinIO-backed archive from the storage config
func NewMinioStorageService(cfg config.StorageConfig) (StorageService, error) {
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "voice-recap-uploads"
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	service := &MinioStorageService{
		client:   client,
		bucket:   bucket,
		endpoint: cfg.Endpoint,
		useSSL:   cfg.UseSSL,
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return service, nil
}

// StoreAudio uploads raw audio bytes under a generated key
func (s *MinioStorageService) StoreAudio(ctx context.Context, filename string, contentType string, data []byte) (*StoredAudio, error) {
	timestamp := time.Now().Unix()
	fileID := uuid.New().String()[:8]
	ext := filepath.Ext(filename)
	key := fmt.Sprintf("recaps/%d-%s%s", timestamp, fileID, ext)

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"original-name": filename,
			"uploaded-at":   time.Now().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio to MinIO: %w", err)
	}

	return &StoredAudio{
		URL:        s.GetFileURL(key),
		Key:        key,
		Name:       filename,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
	}, nil
}

// GetFileURL returns the URL for accessing an archived upload
func (s *MinioStorageService) GetFileURL(key string) string {
	protocol := "http"
	if s.useSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.endpoint, s.bucket, key)
}

// DeleteAudio deletes an archived upload
func (s *MinioStorageService) DeleteAudio(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete audio: %w", err)
	}
	return nil
}

// NoopStorageService discards uploads; used when no bucket is configured
type NoopStorageService struct{}

func NewNoopStorageService() StorageService {
	return &NoopStorageService{}
}

func (s *NoopStorageService) StoreAudio(ctx context.Context, filename string, contentType string, data []byte) (*StoredAudio, error) {
	return &StoredAudio{Name: filename, Size: int64(len(data)), UploadedAt: time.Now()}, nil
}

func (s *NoopStorageService) GetFileURL(key string) string { return "" }

func (s *NoopStorageService) DeleteAudio(ctx context.Context, key string) error { return nil }
