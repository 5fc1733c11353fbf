package requests

type CreateAppointment struct {
	DoctorID           string `json:"doctorId" validate:"required"`
	TimeSlot           string `json:"timeSlot" validate:"required,iso_timestamp"`
	PaymentMethodToken string `json:"paymentMethodToken" validate:"required"`
	Reason             string `json:"reason,omitempty" validate:"max=500"`
	Priority           string `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High"`
}

type CancelAppointment struct {
	AppointmentID string `json:"appointmentId" validate:"required"`
}
