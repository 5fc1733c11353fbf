package constvars

const (
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	CreateAppointmentSuccessMessage   = "appointment confirmed"
	CancelAppointmentSuccessMessage   = "appointment cancelled"
	AlreadyCancelledSuccessMessage    = "appointment already cancelled"
	GetAppointmentSuccessMessage      = "get appointment successfully"
	MarkArrivedSuccessMessage         = "patient arrival recorded"
	CompleteAppointmentSuccessMessage = "appointment completed"
	SweepLifecycleSuccessMessage      = "lifecycle sweep finished"
)
