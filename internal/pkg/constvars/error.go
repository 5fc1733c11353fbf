package constvars

// Validation messages, keyed by validator tag
var CustomValidationErrorMessages = map[string]string{
	"required":      "is required",
	"min":           "must be at least %s characters long",
	"max":           "maximum at %s characters long",
	"len":           "must be exactly %s characters long",
	"oneof":         "must be one of %s",
	"iso_timestamp": "must be an ISO-8601 timestamp",
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientSlotNoLongerAvailable         = "slot no longer available"
	ErrClientPaymentDeclined               = "payment declined"
	ErrClientBookingFailed                 = "booking failed, please try again"
	ErrClientBookingCommitFailed           = "booking could not be saved, the payment hold was released"
	ErrClientAppointmentNotFound           = "appointment not found"
	ErrClientAppointmentNotOwned           = "you can only manage your own appointments"
	ErrClientAppointmentCannotBeCancelled  = "appointment can no longer be cancelled"
	ErrClientAppointmentStateChanged       = "appointment was changed by another process"
	ErrClientInvalidTimeSlot               = "time slot must be an ISO-8601 timestamp"
)

// Error messages for developers
const (
	ErrDevInvalidInput          = "invalid input"
	ErrDevCannotParseJSON       = "cannot parse JSON"
	ErrDevValidationFailed      = "validation failed"
	ErrDevInvalidRequestPayload = "invalid request payload"
	ErrDevInvalidTimeSlot       = "time slot is not a parseable ISO-8601 timestamp"
	ErrDevURLParamValidation    = "url param %s failed validation"
	ErrDevMissingRequestID      = "request id not found in context"
	ErrDevMissingPatientID      = "patient id not found in context"

	ErrDevAuthSigningMethod         = "unexpected signing method"
	ErrDevAuthTokenMissing          = "token missing"
	ErrDevAuthTokenInvalidOrExpired = "token invalid or expired"
	ErrDevAuthSubjectMissing        = "token has no subject claim"
	ErrDevAuthSharedSecretMismatch  = "sweeper shared secret mismatch"

	ErrDevSlotLockConflict         = "slot lock is held by another holder"
	ErrDevSlotLockAcquire          = "failed to acquire slot lock"
	ErrDevPaymentDeclined          = "payment gateway declined the authorization"
	ErrDevPaymentGateway           = "payment gateway call failed"
	ErrDevBookingCommit            = "atomic booking commit failed"
	ErrDevAppointmentNotFound      = "appointment not found"
	ErrDevAppointmentNotOwned      = "appointment belongs to another patient"
	ErrDevAppointmentCompleted     = "appointment already completed"
	ErrDevAppointmentStatusChanged = "appointment status changed concurrently"
	ErrDevAppointmentNotConfirmed  = "appointment is not confirmed"

	ErrDevDBFailedToInsertDocument   = "failed to insert document into database"
	ErrDevDBFailedToUpdateDocument   = "failed to update document into database"
	ErrDevDBFailedToFindDocument     = "failed when do find document on database"
	ErrDevDBFailedToDeleteDocument   = "failed to delete document from database"
	ErrDevDBFailedToIterateDocuments = "failed to iterate documents"
	ErrDevDBFailedToStartTransaction = "failed to start database transaction"
	ErrDevDBFailedToFindData         = "failed when do find data on database"
	ErrDevDBFailedToInsertData       = "failed to insert data into database"
	ErrDevDBFailedToUpdateData       = "failed to update data into database"
	ErrDevDBFailedToDeleteData       = "failed to delete data from database"

	ErrDevRedisGet    = "failed to read from redis"
	ErrDevRedisSet    = "failed to write to redis"
	ErrDevRedisDelete = "failed to delete from redis"
	ErrDevRedisExpire = "failed to set expiry in redis"
	ErrDevRedisUnlock = "failed to release redis lock"

	ErrDevMinioPresignObject = "failed to presign object in bucket %s"
	ErrDevMinioStatObject    = "failed to stat object in bucket %s"

	ErrDevCannotMarshalJSON = "cannot marshal JSON"
	ErrDevPublishMessage    = "failed to publish message"

	ErrDevServerDeadlineExceeded = "deadline exceeded"
	ErrDevServerInternalError    = "internal server error"
)
