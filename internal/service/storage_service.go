package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/ManvithReddyyy/vinnu-app/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider stores uploaded images (avatars, playlist covers) and
// returns a URL the frontend can load.
type StorageProvider interface {
	Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
}

// NewStorageProvider selects the backend from config: "minio" for object
// storage, anything else falls back to local disk.
func NewStorageProvider(cfg *config.StorageConfig) (StorageProvider, error) {
	if cfg.Type == "minio" {
		return newMinioStorage(cfg)
	}
	return newLocalStorage(cfg.LocalPath)
}

func objectName(folder, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)
}

// ---- local disk ----

type localStorage struct {
	basePath string
}

func newLocalStorage(basePath string) (*localStorage, error) {
	if basePath == "" {
		basePath = "./uploads"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &localStorage{basePath: basePath}, nil
}

func (s *localStorage) Upload(_ context.Context, file *multipart.FileHeader, folder string) (string, error) {
	name := objectName(folder, file.Filename)
	dst := filepath.Join(s.basePath, name)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

// ---- minio ----

type minioStorage struct {
	client   *minio.Client
	bucket   string
	endpoint string
}

func newMinioStorage(cfg *config.StorageConfig) (*minioStorage, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, fmt.Errorf("connect minio: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &minioStorage{client: client, bucket: cfg.MinioBucket, endpoint: cfg.MinioEndpoint}, nil
}

func (s *minioStorage) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := objectName(folder, file.Filename)
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, s.bucket, name, src, file.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	return fmt.Sprintf("http://%s/%s/%s", s.endpoint, s.bucket, name), nil
}
