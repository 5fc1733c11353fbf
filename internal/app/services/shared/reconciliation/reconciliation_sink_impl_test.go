package reconciliation

import (
	"context"
	"mediconnect-service/internal/app/models"
	"mediconnect-service/internal/app/services/shared/events"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestReconciliationSinkReport(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	publisher := events.NewMemoryPublisher()
	sink := NewReconciliationSink(publisher, zap.New(core))

	alert := &models.ReconciliationAlert{
		Kind:          models.ReconciliationCaptureFailed,
		AppointmentID: "A1",
		HoldID:        "chrg_1",
		Amount:        5000,
		Currency:      "usd",
		Reason:        "gateway timeout",
		OccurredAt:    time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, sink.Report(context.Background(), alert))

	messages := publisher.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "payments.reconciliation", messages[0].RoutingKey)
	assert.Equal(t, alert, messages[0].Payload)
	assert.Equal(t, 1, logs.FilterMessage("Manual payment reconciliation required").Len())
}

func TestReconciliationSinkWithoutPublisher(t *testing.T) {
	sink := NewReconciliationSink(nil, zap.NewNop())

	assert.NoError(t, sink.Report(context.Background(), &models.ReconciliationAlert{Kind: models.ReconciliationRefundFailed}))
}
