package payment

import (
	"fmt"
	"mediconnect-service/internal/app/config"

	"github.com/omise/omise-go"
)

func NewOmiseClient(driverConfig *config.DriverConfig) (*omise.Client, error) {
	client, err := omise.NewClient(driverConfig.Omise.PublicKey, driverConfig.Omise.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize omise client: %w", err)
	}
	return client, nil
}
