package responses

import "time"

type CreateAppointment struct {
	AppointmentID string `json:"appointmentId"`
	BillID        string `json:"billId"`
	Priority      string `json:"priority"`
	QueueStatus   string `json:"queueStatus"`
}

type CancelAppointment struct {
	AppointmentID   string  `json:"appointmentId"`
	Status          string  `json:"status"`
	RefundReference *string `json:"refundReference"`
	// AlreadyCancelled is set when the request found the appointment cancelled.
	AlreadyCancelled bool `json:"-"`
}

type Appointment struct {
	AppointmentID    string    `json:"appointmentId"`
	PatientID        string    `json:"patientId"`
	DoctorID         string    `json:"doctorId"`
	TimeSlot         string    `json:"timeSlot"`
	Status           string    `json:"status"`
	PaymentReference string    `json:"paymentReference,omitempty"`
	AmountCharged    int64     `json:"amountCharged"`
	Currency         string    `json:"currency"`
	PatientArrived   bool      `json:"patientArrived"`
	RefundReference  *string   `json:"refundReference"`
	Reason           string    `json:"reason,omitempty"`
	Priority         string    `json:"priority,omitempty"`
	QueueStatus      string    `json:"queueStatus,omitempty"`
	PatientAge       *int      `json:"patientAge,omitempty"`
	PatientAvatar    string    `json:"patientAvatar,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type SweepResult struct {
	Processed int `json:"processed"`
}
