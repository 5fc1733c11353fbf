package constvars

const (
	// Slot lock keys are "<doctorId>#<timeSlot>".
	SlotLockKeySeparator = "#"

	CareLinkPatientPrefix = "PATIENT#"
	CareLinkDoctorPrefix  = "DOCTOR#"
	CareLinkRelationship  = "CARE_TEAM"
)

const (
	GatewayOperationAuthorize = "authorize"
	GatewayOperationCapture   = "capture"
	GatewayOperationVoid      = "void"
	GatewayOperationRefund    = "refund"
)

const (
	EventAppointmentConfirmed    = "appointment.confirmed"
	EventAppointmentCancelled    = "appointment.cancelled"
	EventAppointmentNoShow       = "appointment.no_show"
	EventAppointmentDoctorFault  = "appointment.doctor_fault"
	EventAppointmentCompleted    = "appointment.completed"
	ReconciliationQueueName      = "payments.reconciliation"
	ReconciliationAlertEventName = "payments.reconciliation.alert"
)

const (
	QueueStatusWaiting = "WAITING"
)

const (
	RedisKeyPrefixIdempotency = "booking:idempotency:"
	RedisKeyPrefixDoctorFee   = "booking:doctor_fee:"
	RedisKeySweeperLeader     = "booking:sweeper:leader"
)
