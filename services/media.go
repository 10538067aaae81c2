// services/media.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// MediaService serves badge and symbol artwork from a MinIO bucket via
// presigned GET URLs. Optional: without MINIO_ENDPOINT configured the
// service stays disabled and projections carry empty artwork URLs.
type MediaService struct {
	appContext.DefaultService
	client     *minio.Client
	bucketName string
	endpoint   string
	accessKey  string
	secretKey  string
	useSSL     bool
	urlExpiry  time.Duration
}

const MEDIA_SVC = "media_svc"

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *appContext.Context) error {
	svc.endpoint = os.Getenv("MINIO_ENDPOINT")

	svc.accessKey = os.Getenv("MINIO_ACCESS_KEY")
	if svc.accessKey == "" {
		svc.accessKey = "admin"
	}

	svc.secretKey = os.Getenv("MINIO_SECRET_KEY")
	if svc.secretKey == "" {
		svc.secretKey = "password123"
	}

	svc.useSSL = os.Getenv("MINIO_USE_SSL") == "true"

	svc.bucketName = os.Getenv("MINIO_BUCKET_NAME")
	if svc.bucketName == "" {
		svc.bucketName = "nissekomm-artwork"
	}

	svc.urlExpiry = 12 * time.Hour

	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	if svc.endpoint == "" {
		log.Println("MinIO endpoint not configured, artwork URLs disabled")
		return nil
	}

	client, err := minio.New(svc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.accessKey, svc.secretKey, ""),
		Secure: svc.useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %v", err)
	}

	svc.client = client

	if err := svc.ensureBucket(); err != nil {
		return fmt.Errorf("failed to ensure bucket exists: %v", err)
	}

	log.Printf("MinIO service started successfully with endpoint: %s", svc.endpoint)
	return nil
}

func (svc *MediaService) ensureBucket() error {
	ctx := context.Background()

	exists, err := svc.client.BucketExists(ctx, svc.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = svc.client.MakeBucket(ctx, svc.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("Created bucket: %s", svc.bucketName)
	}

	return nil
}

// ArtworkURL returns a presigned GET URL for an artwork object key, or an
// empty string when the service is disabled or the key is empty.
func (svc *MediaService) ArtworkURL(objectKey string) string {
	if svc.client == nil || objectKey == "" {
		return ""
	}

	presigned, err := svc.client.PresignedGetObject(
		context.Background(), svc.bucketName, objectKey, svc.urlExpiry, url.Values{})
	if err != nil {
		log.WithFields(log.Fields{
			"object_key": objectKey,
			"error":      err.Error(),
		}).Warn("Failed to presign artwork URL")
		return ""
	}
	return presigned.String()
}

// UploadArtwork stores an artwork object; used by editorial tooling.
func (svc *MediaService) UploadArtwork(ctx context.Context, objectKey, contentType string, data []byte, size int64) error {
	if svc.client == nil {
		return fmt.Errorf("media service is disabled")
	}

	_, err := svc.client.PutObject(ctx, svc.bucketName, objectKey,
		bytes.NewReader(data), size, minio.PutObjectOptions{ContentType: contentType})
	return err
}
