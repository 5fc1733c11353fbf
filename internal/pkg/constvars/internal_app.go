package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_PATIENT_ID_KEY           ContextKey = "patient_id"
	CONTEXT_RAW_BODY                 ContextKey = "raw_body"
)

const (
	REQUEST_ID_PREFIX = "MDCN_SVC_"
)

const (
	ResourceAppointments = "appointments"
	ResourceInternal     = "internal"
)

const (
	URLParamAppointmentID = "appointmentId"
)
