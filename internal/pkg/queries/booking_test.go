package queries

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func normalize(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

func TestAcquireSlotLock(t *testing.T) {
	query := normalize(AcquireSlotLock)

	t.Run("Inserts a fresh LOCKED row", func(t *testing.T) {
		assert.Contains(t, query, "INSERT INTO slot_locks (lock_key, holder_id, status, created_at, expires_at) VALUES ($1, $2, 'LOCKED', $3, $4)")
	})

	t.Run("Takes over only an expired LOCKED row", func(t *testing.T) {
		assert.Contains(t, query, "ON CONFLICT (lock_key) DO UPDATE")
		assert.Contains(t, query, "WHERE slot_locks.status = 'LOCKED' AND slot_locks.expires_at <= EXCLUDED.created_at")
	})

	t.Run("Reports a refused takeover as no row", func(t *testing.T) {
		assert.True(t, strings.HasSuffix(query, "RETURNING lock_key"))
	})
}

func TestSlotLockWritesAreScopedToHolder(t *testing.T) {
	assert.Equal(t, "DELETE FROM slot_locks WHERE lock_key = $1 AND holder_id = $2", normalize(DeleteSlotLockByHolder))
	assert.Contains(t, normalize(MarkSlotLockBookedByHolder), "WHERE lock_key = $1 AND holder_id = $2 AND status = 'LOCKED'")
	assert.Contains(t, normalize(MarkSlotLockBookedByHolder), "expires_at = NULL")
}

func TestTransitionAppointmentIsConditional(t *testing.T) {
	query := normalize(TransitionAppointment)

	assert.Contains(t, query, "WHERE id = $1 AND status = $2")
	assert.Contains(t, query, "refund_reference = COALESCE($5, refund_reference)")
	assert.Contains(t, query, "patient_arrived = COALESCE($6, patient_arrived)")
}

func TestAppointmentColumnsMatchPlaceholders(t *testing.T) {
	columns := strings.Split(normalize(appointmentColumns), ",")
	placeholders := strings.Count(InsertAppointment, "$")

	assert.Len(t, columns, 19)
	assert.Equal(t, len(columns), placeholders)
}
