package models

import "time"

type AppointmentStatus string

const (
	AppointmentConfirmed            AppointmentStatus = "CONFIRMED"
	AppointmentCancelledNoShow      AppointmentStatus = "CANCELLED_NO_SHOW"
	AppointmentCancelledDoctorFault AppointmentStatus = "CANCELLED_DOCTOR_FAULT"
	AppointmentCancelledUser        AppointmentStatus = "CANCELLED_USER"
	AppointmentCompleted            AppointmentStatus = "COMPLETED"
)

func (s AppointmentStatus) IsCancelled() bool {
	switch s {
	case AppointmentCancelledNoShow, AppointmentCancelledDoctorFault, AppointmentCancelledUser:
		return true
	}
	return false
}

// Refund reference markers left for manual reconciliation.
const (
	RefundFailedManualRequired = "REFUND_FAILED_MANUAL_REQUIRED"
	RefundFailed               = "REFUND_FAILED"
)

type Appointment struct {
	ID               string            `json:"appointmentId" bson:"_id"`
	PatientID        string            `json:"patientId" bson:"patientId"`
	DoctorID         string            `json:"doctorId" bson:"doctorId"`
	TimeSlot         string            `json:"timeSlot" bson:"timeSlot"`
	SlotStart        time.Time         `json:"slotStart" bson:"slotStart"`
	LockKey          string            `json:"lockKey" bson:"lockKey"`
	Status           AppointmentStatus `json:"status" bson:"status"`
	PaymentReference string            `json:"paymentReference,omitempty" bson:"paymentReference,omitempty"`
	AmountCharged    int64             `json:"amountCharged" bson:"amountCharged"`
	Currency         string            `json:"currency" bson:"currency"`
	PatientArrived   bool              `json:"patientArrived" bson:"patientArrived"`
	RefundReference  *string           `json:"refundReference" bson:"refundReference"`
	Reason           string            `json:"reason,omitempty" bson:"reason,omitempty"`
	Priority         string            `json:"priority,omitempty" bson:"priority,omitempty"`
	QueueStatus      string            `json:"queueStatus,omitempty" bson:"queueStatus,omitempty"`
	PatientAge       *int              `json:"patientAge,omitempty" bson:"patientAge,omitempty"`
	PatientAvatar    string            `json:"patientAvatar,omitempty" bson:"patientAvatar,omitempty"`
	TimeModel        `bson:",inline"`
}

// AppointmentTransition is a conditional update: it only applies while the
// stored status still equals From.
type AppointmentTransition struct {
	AppointmentID   string
	From            AppointmentStatus
	To              AppointmentStatus
	RefundReference *string
	PatientArrived  *bool
	UpdatedAt       time.Time
}
