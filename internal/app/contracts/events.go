package contracts

import (
	"context"
	"mediconnect-service/internal/app/models"
)

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// ReconciliationSink receives money-related inconsistencies that need a human.
type ReconciliationSink interface {
	Report(ctx context.Context, alert *models.ReconciliationAlert) error
}
