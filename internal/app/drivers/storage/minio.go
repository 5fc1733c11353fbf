package storage

import (
	"fmt"
	"mediconnect-service/internal/app/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewMinio builds the avatar object store client. minio.New does not dial, so
// a bad endpoint only surfaces on first use.
func NewMinio(driverConfig *config.DriverConfig) (*minio.Client, error) {
	endpoint := fmt.Sprintf("%s:%s", driverConfig.Minio.Host, driverConfig.Minio.Port)
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(driverConfig.Minio.Username, driverConfig.Minio.Password, ""),
		Secure: driverConfig.Minio.UseSSL,
		Region: driverConfig.Minio.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client for %s: %w", endpoint, err)
	}
	return client, nil
}
