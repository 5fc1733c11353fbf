package queries

const (
	AcquireSlotLock = `
		INSERT INTO slot_locks (lock_key, holder_id, status, created_at, expires_at)
		VALUES ($1, $2, 'LOCKED', $3, $4)
		ON CONFLICT (lock_key) DO UPDATE
		SET holder_id = EXCLUDED.holder_id,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at,
			appointment_id = NULL
		WHERE slot_locks.status = 'LOCKED' AND slot_locks.expires_at <= EXCLUDED.created_at
		RETURNING lock_key
	`

	DeleteSlotLock = `DELETE FROM slot_locks WHERE lock_key = $1`

	DeleteSlotLockByHolder = `DELETE FROM slot_locks WHERE lock_key = $1 AND holder_id = $2`

	MarkSlotLockBooked = `
		UPDATE slot_locks
		SET status = 'BOOKED', appointment_id = $2, expires_at = NULL
		WHERE lock_key = $1
	`

	MarkSlotLockBookedByHolder = `
		UPDATE slot_locks
		SET status = 'BOOKED', appointment_id = $3, expires_at = NULL
		WHERE lock_key = $1 AND holder_id = $2 AND status = 'LOCKED'
	`

	GetSlotLock = `
		SELECT lock_key, holder_id, status, COALESCE(appointment_id, ''), created_at, expires_at
		FROM slot_locks
		WHERE lock_key = $1
	`
)

const appointmentColumns = `
	id, patient_id, doctor_id, time_slot, slot_start, lock_key, status,
	payment_reference, amount_charged, currency, patient_arrived, refund_reference,
	reason, priority, queue_status, patient_age, patient_avatar, created_at, updated_at
`

const (
	InsertAppointment = `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	GetAppointmentByID = `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	GetAppointmentsByStatus = `SELECT ` + appointmentColumns + ` FROM appointments WHERE status = $1 ORDER BY slot_start`

	TransitionAppointment = `
		UPDATE appointments
		SET status = $3,
			updated_at = $4,
			refund_reference = COALESCE($5, refund_reference),
			patient_arrived = COALESCE($6, patient_arrived)
		WHERE id = $1 AND status = $2
		RETURNING ` + appointmentColumns

	ExistsAppointment = `SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`

	UpdateAppointmentRefundReference = `
		UPDATE appointments SET refund_reference = $2, updated_at = $3 WHERE id = $1
	`
)

const (
	InsertLedgerEntry = `
		INSERT INTO ledger_entries (bill_id, reference_id, patient_id, doctor_id, type, amount, currency, status, gateway_reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	GetLedgerEntriesByReference = `
		SELECT bill_id, reference_id, patient_id, doctor_id, type, amount, currency, status, gateway_reference, created_at
		FROM ledger_entries
		WHERE reference_id = $1
		ORDER BY created_at
	`

	UpsertCareLink = `
		INSERT INTO care_links (pk, sk, relationship, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (pk, sk) DO NOTHING
	`
)

const (
	GetDoctorByID = `SELECT id, name, COALESCE(specialization, ''), consultation_fee FROM doctors WHERE id = $1`

	GetPatientByID = `SELECT id, name, COALESCE(dob, ''), COALESCE(avatar, '') FROM patients WHERE id = $1`
)
