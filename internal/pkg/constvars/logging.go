package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingMethodKey         = "method"
	LoggingEndpointKey       = "endpoint"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingStatusCodeKey     = "status_code"
	LoggingDurationKey       = "duration"
	LoggingErrorLocationsKey = "error_locations"

	LoggingAppointmentIDKey = "appointment_id"
	LoggingPatientIDKey     = "patient_id"
	LoggingDoctorIDKey      = "doctor_id"
	LoggingSlotKey          = "time_slot"
	LoggingLockKey          = "lock_key"
	LoggingHoldIDKey        = "hold_id"
	LoggingRefundIDKey      = "refund_id"
	LoggingAmountKey        = "amount"
	LoggingSagaStepKey      = "saga_step"
	LoggingStatusKey        = "status"
	LoggingProcessedKey     = "processed"

	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration"
	LoggingRoutingKey            = "routing_key"
	LoggingIdempotencyKey        = "idempotency_key"
)
