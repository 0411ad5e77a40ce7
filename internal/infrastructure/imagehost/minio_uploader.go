package imagehost

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jhoicas/asesoria-financiera/internal/application/ports"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/pkg/config"
)

var _ ports.ImageHost = (*MinioUploader)(nil)

// MinioUploader guarda las imágenes en un bucket S3-compatible.
// La URL pública es PublicURL/bucket/objeto (el bucket debe permitir lectura anónima).
type MinioUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioUploader construye el cliente; no contacta al servidor.
func NewMinioUploader(cfg config.MinioConfig) (*MinioUploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	public := strings.TrimRight(cfg.PublicURL, "/")
	if public == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		public = scheme + "://" + cfg.Endpoint
	}
	return &MinioUploader{client: client, bucket: cfg.Bucket, publicURL: public}, nil
}

// EnsureBucket crea el bucket si no existe.
func (u *MinioUploader) EnsureBucket(ctx context.Context) error {
	ok, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("minio bucket exists: %w", err)
	}
	if ok {
		return nil
	}
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("minio make bucket: %w", err)
	}
	return nil
}

// Upload sube el objeto con un nombre único y devuelve su URL pública.
func (u *MinioUploader) Upload(ctx context.Context, img ports.ImageUpload) (string, error) {
	name := ObjectName(img.Filename)
	size := img.Size
	if size <= 0 {
		size = -1
	}
	_, err := u.client.PutObject(ctx, u.bucket, name, img.Body, size, minio.PutObjectOptions{
		ContentType: img.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio put %s: %v: %w", name, err, domain.ErrUpstream)
	}
	return u.publicURL + "/" + u.bucket + "/" + name, nil
}

// ObjectName nombre del objeto: images/<uuid><ext>, conservando la extensión en minúsculas.
func ObjectName(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 6 {
		ext = ""
	}
	return "images/" + uuid.New().String() + ext
}
