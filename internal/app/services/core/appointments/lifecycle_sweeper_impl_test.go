package appointments

import (
	"context"
	"errors"
	"mediconnect-service/internal/app/contracts/mocks"
	"mediconnect-service/internal/app/models"
	"mediconnect-service/internal/app/services/shared/events"
	"mediconnect-service/internal/app/services/shared/memstore"
	"mediconnect-service/internal/app/services/shared/reconciliation"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var sweepNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

type sweepFixture struct {
	store     *memstore.Store
	gateway   *mocks.MockPaymentGateway
	sink      *reconciliation.MemorySink
	publisher *events.MemoryPublisher
	sweeper   *lifecycleSweeper
}

func newSweepFixture() *sweepFixture {
	store := memstore.New(func() time.Time { return sweepNow })
	gateway := new(mocks.MockPaymentGateway)
	sink := reconciliation.NewMemorySink()
	publisher := events.NewMemoryPublisher()

	sweeper := NewLifecycleSweeper(store, gateway, publisher, sink, testConfig(), zap.NewNop()).(*lifecycleSweeper)
	sweeper.now = func() time.Time { return sweepNow }

	return &sweepFixture{store: store, gateway: gateway, sink: sink, publisher: publisher, sweeper: sweeper}
}

// seed stores a CONFIRMED appointment whose slot started minutesAgo, with its
// BOOKED lock.
func (f *sweepFixture) seed(t *testing.T, id string, minutesAgo int, arrived bool) {
	t.Helper()
	ctx := context.Background()
	slotStart := sweepNow.Add(-time.Duration(minutesAgo) * time.Minute)
	lockKey := models.BuildSlotLockKey("D1", slotStart.Format(time.RFC3339))

	require.NoError(t, f.store.Acquire(ctx, lockKey, id, 15*time.Minute))
	require.NoError(t, f.store.MarkBooked(ctx, lockKey, id))

	f.store.PutAppointment(models.Appointment{
		ID:               id,
		PatientID:        "P1",
		DoctorID:         "D1",
		TimeSlot:         slotStart.Format(time.RFC3339),
		SlotStart:        slotStart,
		LockKey:          lockKey,
		Status:           models.AppointmentConfirmed,
		PaymentReference: "chrg_" + id,
		AmountCharged:    5000,
		Currency:         "usd",
		PatientArrived:   arrived,
	})
}

func (f *sweepFixture) appointment(t *testing.T, id string) *models.Appointment {
	t.Helper()
	appointment, err := f.store.FindAppointmentByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, appointment)
	return appointment
}

func (f *sweepFixture) lockOf(t *testing.T, id string) *models.SlotLock {
	t.Helper()
	lock, err := f.store.FindLock(context.Background(), f.appointment(t, id).LockKey)
	require.NoError(t, err)
	return lock
}

func TestSweep_Thresholds(t *testing.T) {
	f := newSweepFixture()
	f.seed(t, "noshow", 11, false)
	f.seed(t, "doctorfault", 31, true)
	f.seed(t, "early", 5, false)
	f.seed(t, "waiting", 20, true)
	f.gateway.On("Refund", mock.Anything, "chrg_doctorfault", int64(5000), "doctorfault:refund").Return("rfnd_1", nil).Once()

	result, err := f.sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)

	noShow := f.appointment(t, "noshow")
	assert.Equal(t, models.AppointmentCancelledNoShow, noShow.Status)
	assert.Nil(t, noShow.RefundReference)
	assert.Nil(t, f.lockOf(t, "noshow"))

	doctorFault := f.appointment(t, "doctorfault")
	assert.Equal(t, models.AppointmentCancelledDoctorFault, doctorFault.Status)
	require.NotNil(t, doctorFault.RefundReference)
	assert.Equal(t, "rfnd_1", *doctorFault.RefundReference)
	assert.Nil(t, f.lockOf(t, "doctorfault"))

	entries, _ := f.store.FindLedgerEntriesByReference(context.Background(), "doctorfault")
	require.Len(t, entries, 1)
	assert.Equal(t, int64(-5000), entries[0].Amount)

	assert.Equal(t, models.AppointmentConfirmed, f.appointment(t, "early").Status)
	assert.NotNil(t, f.lockOf(t, "early"))
	assert.Equal(t, models.AppointmentConfirmed, f.appointment(t, "waiting").Status)

	assert.ElementsMatch(t, []string{"appointment.no_show", "appointment.doctor_fault"}, f.publisher.RoutingKeys())
	f.gateway.AssertNotCalled(t, "Refund", mock.Anything, "chrg_noshow", mock.Anything, mock.Anything)
	f.gateway.AssertExpectations(t)
}

func TestSweep_IsIdempotent(t *testing.T) {
	f := newSweepFixture()
	f.seed(t, "doctorfault", 31, true)
	f.gateway.On("Refund", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("rfnd_1", nil)

	first, err := f.sweeper.Sweep(context.Background())
	require.NoError(t, err)
	second, err := f.sweeper.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, first.Processed)
	assert.Equal(t, 0, second.Processed)
	f.gateway.AssertNumberOfCalls(t, "Refund", 1)
}

func TestSweep_RefundFailureLeavesMarker(t *testing.T) {
	f := newSweepFixture()
	f.seed(t, "doctorfault", 45, true)
	f.gateway.On("Refund", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("gateway down"))

	result, err := f.sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	appointment := f.appointment(t, "doctorfault")
	assert.Equal(t, models.AppointmentCancelledDoctorFault, appointment.Status)
	assert.Equal(t, models.RefundFailed, *appointment.RefundReference)

	alerts := f.sink.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, models.ReconciliationRefundFailed, alerts[0].Kind)
	assert.Equal(t, "doctorfault", alerts[0].AppointmentID)
}

// staleStore serves a snapshot taken before a concurrent cancellation.
type staleStore struct {
	*memstore.Store
	snapshot []models.Appointment
}

func (s *staleStore) FindAppointmentsByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	return s.snapshot, nil
}

func TestSweep_SkipsAppointmentsChangedConcurrently(t *testing.T) {
	f := newSweepFixture()
	f.seed(t, "doctorfault", 31, true)
	snapshot, err := f.store.FindAppointmentsByStatus(context.Background(), models.AppointmentConfirmed)
	require.NoError(t, err)

	_, err = f.store.TransitionAppointment(context.Background(), &models.AppointmentTransition{
		AppointmentID: "doctorfault",
		From:          models.AppointmentConfirmed,
		To:            models.AppointmentCancelledUser,
		UpdatedAt:     sweepNow,
	})
	require.NoError(t, err)

	store := &staleStore{Store: f.store, snapshot: snapshot}
	f.sweeper.ReservationStore = store
	f.sweeper.refunder.Store = store

	result, err := f.sweeper.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, models.AppointmentCancelledUser, f.appointment(t, "doctorfault").Status)
	f.gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSweep_StopsWhenContextCancelled(t *testing.T) {
	f := newSweepFixture()
	f.seed(t, "noshow", 11, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.sweeper.Sweep(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, models.AppointmentConfirmed, f.appointment(t, "noshow").Status)
}

func TestSweep_StopMidCloseOutStillFreesSlot(t *testing.T) {
	f := newSweepFixture()
	f.seed(t, "doctorfault", 31, true)
	store := &ctxStore{Store: f.store}
	f.sweeper.ReservationStore = store
	f.sweeper.refunder.Store = store

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	f.gateway.On("Refund", mock.Anything, "chrg_doctorfault", int64(5000), "doctorfault:refund").
		Run(func(mock.Arguments) { stop() }).
		Return("rfnd_1", nil).Once()

	result, err := f.sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	appointment := f.appointment(t, "doctorfault")
	assert.Equal(t, models.AppointmentCancelledDoctorFault, appointment.Status)
	require.NotNil(t, appointment.RefundReference)
	assert.Equal(t, "rfnd_1", *appointment.RefundReference)
	assert.Nil(t, f.lockOf(t, "doctorfault"))
}
