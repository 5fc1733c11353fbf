package payment_gateway

import (
	"context"
	"errors"
	"mediconnect-service/internal/app/contracts"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOmiseCallHonoursContext(t *testing.T) {
	service := &omiseService{Log: zap.NewNop()}

	t.Run("Returns the SDK result", func(t *testing.T) {
		sdkErr := errors.New("card expired")
		err := service.call(context.Background(), func() error { return sdkErr })
		assert.Equal(t, sdkErr, err)
	})

	t.Run("Gives up when the deadline passes", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		release := make(chan struct{})
		defer close(release)
		err := service.call(ctx, func() error {
			<-release
			return nil
		})
		assert.Equal(t, context.DeadlineExceeded, err)
	})
}

func TestSandboxGateway(t *testing.T) {
	ctx := context.Background()

	t.Run("Authorize, capture and refund", func(t *testing.T) {
		gateway := NewSandboxService(zap.NewNop())

		holdID, err := gateway.Authorize(ctx, &contracts.AuthorizeRequest{Amount: 5000, Currency: "usd", MethodToken: "tokn_test_ok", IdempotencyKey: "A1:authorize"})
		require.NoError(t, err)
		require.NotEmpty(t, holdID)

		require.NoError(t, gateway.Capture(ctx, holdID, "A1:capture"))
		refundID, err := gateway.Refund(ctx, holdID, 5000, "A1:refund")
		require.NoError(t, err)
		assert.NotEmpty(t, refundID)
	})

	t.Run("Declined token", func(t *testing.T) {
		gateway := NewSandboxService(zap.NewNop())

		_, err := gateway.Authorize(ctx, &contracts.AuthorizeRequest{Amount: 5000, Currency: "usd", MethodToken: SandboxTokenDeclined, IdempotencyKey: "A2:authorize"})

		var declined *contracts.PaymentDeclinedError
		assert.ErrorAs(t, err, &declined)
	})
}

func TestSandboxGatewayRepeatedKeys(t *testing.T) {
	ctx := context.Background()
	gateway := NewSandboxService(zap.NewNop())
	request := &contracts.AuthorizeRequest{Amount: 5000, Currency: "usd", MethodToken: "tokn_test_ok", IdempotencyKey: "A1:authorize"}

	first, err := gateway.Authorize(ctx, request)
	require.NoError(t, err)
	second, err := gateway.Authorize(ctx, request)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, gateway.Capture(ctx, first, "A1:capture"))
	refundID, err := gateway.Refund(ctx, first, 5000, "A1:refund")
	require.NoError(t, err)
	again, err := gateway.Refund(ctx, first, 5000, "A1:refund")
	require.NoError(t, err)
	assert.Equal(t, refundID, again)

	_, err = gateway.Refund(ctx, first, 5000, "A1:refund-2")
	assert.Error(t, err, "a second refund key cannot refund past the captured amount")
}

func TestChargeDescription(t *testing.T) {
	assert.Equal(t, "Consultation D1#2025-01-01T10:00:00Z [A1:authorize]", chargeDescription(&contracts.AuthorizeRequest{
		Description:    "Consultation D1#2025-01-01T10:00:00Z",
		IdempotencyKey: "A1:authorize",
	}))
	assert.Equal(t, "Consultation", chargeDescription(&contracts.AuthorizeRequest{Description: "Consultation"}))
}
