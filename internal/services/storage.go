package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"alfredoptarigan/resume-checker/internal/config"
	"alfredoptarigan/resume-checker/internal/logger"
)

type StoredFile struct {
	Key          string
	OriginalName string
	Extension    string
	Size         int64
}

type StorageService interface {
	SaveFile(ctx context.Context, file *multipart.FileHeader) (*StoredFile, error)
	ReadFile(ctx context.Context, key string) ([]byte, error)
	DeleteFile(ctx context.Context, key string) error
}

// FileRejectedError is returned before anything is written.
type FileRejectedError struct {
	Reason string
}

func (e *FileRejectedError) Error() string {
	return e.Reason
}

// NewStorageService picks the backend named by STORAGE_DRIVER.
func NewStorageService(ctx context.Context, cfg config.StorageConfig) (StorageService, error) {
	guard := uploadGuard{maxSize: cfg.MaxFileSize, allowed: cfg.AllowedExtensions}

	switch cfg.Driver {
	case "minio":
		return newMinioStorage(ctx, cfg.Minio, guard)
	case "local", "":
		s := &localStorage{uploadPath: cfg.UploadPath, guard: guard}
		if err := s.EnsureUploadDir(); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

type uploadGuard struct {
	maxSize int64
	allowed []string
}

func (g uploadGuard) check(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !slices.Contains(g.allowed, ext) {
		return "", &FileRejectedError{Reason: fmt.Sprintf("invalid file extension: %q", ext)}
	}
	if g.maxSize > 0 && file.Size > g.maxSize {
		return "", &FileRejectedError{Reason: fmt.Sprintf("file exceeds %d bytes", g.maxSize)}
	}
	return ext, nil
}

func objectKey(ext string) string {
	return fmt.Sprintf("resume_%s%s", uuid.New().String(), ext)
}

type localStorage struct {
	uploadPath string
	guard      uploadGuard
}

func (s *localStorage) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *localStorage) SaveFile(_ context.Context, file *multipart.FileHeader) (*StoredFile, error) {
	ext, err := s.guard.check(file)
	if err != nil {
		return nil, err
	}

	key := objectKey(ext)

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.uploadPath, key))
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, src)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StoredFile{Key: key, OriginalName: file.Filename, Extension: ext, Size: n}, nil
}

func (s *localStorage) ReadFile(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.uploadPath, filepath.Base(key)))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (s *localStorage) DeleteFile(_ context.Context, key string) error {
	if err := os.Remove(filepath.Join(s.uploadPath, filepath.Base(key))); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

type minioStorage struct {
	client *minio.Client
	bucket string
	guard  uploadGuard
}

func newMinioStorage(ctx context.Context, cfg config.MinioConfig, guard uploadGuard) (*minioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, err)
		}
		logger.Info().Str("bucket", cfg.Bucket).Msg("minio bucket created")
	}

	return &minioStorage{client: client, bucket: cfg.Bucket, guard: guard}, nil
}

func (s *minioStorage) SaveFile(ctx context.Context, file *multipart.FileHeader) (*StoredFile, error) {
	ext, err := s.guard.check(file)
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	key := objectKey(ext)
	info, err := s.client.PutObject(ctx, s.bucket, key, src, file.Size, minio.PutObjectOptions{
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	return &StoredFile{Key: key, OriginalName: file.Filename, Extension: ext, Size: info.Size}, nil
}

func (s *minioStorage) ReadFile(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, obj); err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *minioStorage) DeleteFile(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
