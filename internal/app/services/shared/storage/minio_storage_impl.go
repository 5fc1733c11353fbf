package storage

import (
	"context"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/pkg/exceptions"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
)

type minioAvatarStore struct {
	client     *minio.Client
	bucketName string
	expiry     time.Duration
}

func NewMinioAvatarStore(client *minio.Client, bucketName string, expiry time.Duration) contracts.AvatarStore {
	return &minioAvatarStore{
		client:     client,
		bucketName: bucketName,
		expiry:     expiry,
	}
}

func (m *minioAvatarStore) PresignAvatar(ctx context.Context, objectKey string) (string, error) {
	_, err := m.client.StatObject(ctx, m.bucketName, objectKey, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", nil
		}
		return "", exceptions.ErrMinioStatObject(err, m.bucketName)
	}

	params := url.Values{}
	params.Set("response-content-disposition", "inline")
	presignedURL, err := m.client.PresignedGetObject(ctx, m.bucketName, objectKey, m.expiry, params)
	if err != nil {
		return "", exceptions.ErrMinioPresignObject(err, m.bucketName)
	}
	return presignedURL.String(), nil
}
