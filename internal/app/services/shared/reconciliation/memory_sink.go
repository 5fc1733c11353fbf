package reconciliation

import (
	"context"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/app/models"
	"sync"
)

type MemorySink struct {
	mu     sync.Mutex
	alerts []models.ReconciliationAlert
}

var _ contracts.ReconciliationSink = (*MemorySink)(nil)

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Report(ctx context.Context, alert *models.ReconciliationAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, *alert)
	return nil
}

func (s *MemorySink) Alerts() []models.ReconciliationAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ReconciliationAlert, len(s.alerts))
	copy(out, s.alerts)
	return out
}
